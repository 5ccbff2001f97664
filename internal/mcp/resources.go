// ABOUTME: MCP resource implementations for the training engine.
// ABOUTME: Provides liftlog://movements and liftlog://levels.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/liftlog/internal/gamification"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	movementsURI = "liftlog://movements"
	levelsURI    = "liftlog://levels"
)

func (s *Server) registerResources() {
	// liftlog://movements - catalog with current tiers
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         movementsURI,
		Name:        "Movement Catalog",
		Description: "Every loggable movement with its current difficulty tier and window size",
		MIMEType:    "application/json",
	}, s.handleMovementsResource)

	// liftlog://levels - static level table
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         levelsURI,
		Name:        "Level Table",
		Description: "XP thresholds, titles, and rewards for all 30 levels",
		MIMEType:    "application/json",
	}, s.handleLevelsResource)
}

// Resource handlers

func (s *Server) handleMovementsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	movements, err := s.engine.Movements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	views := make([]movementView, 0, len(movements))
	for _, m := range movements {
		views = append(views, movementView{
			Name:                 m.Name,
			Difficulty:           m.CurrentDifficulty.String(),
			ProgressionThreshold: m.ProgressionThreshold,
		})
	}

	return jsonResource(movementsURI, map[string]any{
		"movements": views,
		"count":     len(views),
	})
}

func (s *Server) handleLevelsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(levelsURI, map[string]any{
		"max_level": gamification.MaxLevel,
		"levels":    gamification.Levels,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
