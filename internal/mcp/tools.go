// ABOUTME: MCP tool implementations for the training engine.
// ABOUTME: Records workouts and exposes progression, scoring, forecasting, and XP queries.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/liftlog/internal/engine"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 20

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_workout",
		Description: "Log a set of a catalog movement; updates the movement tier, XP, and achievements",
	}, s.handleRecordWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List recent workouts, newest first, optionally filtered by user, movement, and date range",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_movements",
		Description: "List the movement catalog with each movement's current difficulty tier",
	}, s.handleListMovements)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_recovery_and_strain",
		Description: "Score a user's training strain for a day and recovery at a point in time (1-10)",
	}, s.handleRecoveryAndStrain)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_pr_forecast",
		Description: "Forecast a movement's personal record 30 days out and list training insights",
	}, s.handlePRForecast)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_user_progress",
		Description: "Get a user's XP, level, progress to the next level, and recent achievements",
	}, s.handleUserProgress)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_achievements",
		Description: "List every achievement a user has earned",
	}, s.handleAchievements)
}

// Tool input/output types

type recordWorkoutInput struct {
	UserID    string  `json:"user_id,omitempty" jsonschema:"User ID, defaults to the configured user"`
	Movement  string  `json:"movement" jsonschema:"Catalog movement name, case-insensitive"`
	Weight    float64 `json:"weight" jsonschema:"Weight in kg, 0 for bodyweight"`
	Reps      int     `json:"reps" jsonschema:"Repetitions, must be positive"`
	Date      string  `json:"date,omitempty" jsonschema:"Workout date (YYYY-MM-DD), defaults to today"`
	Notes     string  `json:"notes,omitempty" jsonschema:"Optional notes"`
	Completed *bool   `json:"completed,omitempty" jsonschema:"Whether the set was completed successfully, defaults to true"`
}

type recordWorkoutOutput struct {
	ID           string   `json:"id"`
	Movement     string   `json:"movement"`
	Difficulty   string   `json:"difficulty"`
	Transition   string   `json:"transition"`
	NewTier      string   `json:"new_tier"`
	XPGained     int64    `json:"xp_gained"`
	TotalXP      int64    `json:"total_xp"`
	NewLevel     int      `json:"new_level,omitempty"`
	Achievements []string `json:"achievements"`
	Message      string   `json:"message"`
}

type listWorkoutsInput struct {
	UserID   string `json:"user_id,omitempty" jsonschema:"Filter by user; empty lists every user"`
	Movement string `json:"movement,omitempty" jsonschema:"Filter by movement"`
	From     string `json:"from,omitempty" jsonschema:"Earliest date (YYYY-MM-DD), inclusive"`
	To       string `json:"to,omitempty" jsonschema:"Latest date (YYYY-MM-DD), inclusive"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type workoutView struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Movement   string  `json:"movement"`
	Date       string  `json:"date"`
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
	Difficulty string  `json:"difficulty"`
	Completed  bool    `json:"completed"`
	Notes      string  `json:"notes,omitempty"`
}

type listWorkoutsOutput struct {
	Workouts []workoutView `json:"workouts"`
	Count    int           `json:"count"`
}

type listMovementsInput struct{}

type movementView struct {
	Name                 string `json:"name"`
	Difficulty           string `json:"difficulty"`
	ProgressionThreshold int    `json:"progression_threshold"`
}

type listMovementsOutput struct {
	Movements []movementView `json:"movements"`
}

type recoveryInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"User ID, defaults to the configured user"`
	At     string `json:"at,omitempty" jsonschema:"Date (YYYY-MM-DD) or RFC 3339 timestamp, defaults to now"`
}

type forecastInput struct {
	Movement string `json:"movement" jsonschema:"Catalog movement name"`
	UserID   string `json:"user_id,omitempty" jsonschema:"Restrict history to one user; empty uses every user"`
}

type userInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"User ID, defaults to the configured user"`
}

// Tool handlers

func (s *Server) handleRecordWorkout(ctx context.Context, req *mcp.CallToolRequest, input recordWorkoutInput) (*mcp.CallToolResult, recordWorkoutOutput, error) {
	date := s.now()
	if input.Date != "" {
		d, err := time.Parse(models.DateLayout, input.Date)
		if err != nil {
			return nil, recordWorkoutOutput{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", input.Date)
		}
		date = d
	}

	completed := true
	if input.Completed != nil {
		completed = *input.Completed
	}

	res, err := s.engine.RecordWorkout(ctx, engine.WorkoutInput{
		UserID:    s.user(input.UserID),
		Movement:  input.Movement,
		Date:      date,
		Weight:    input.Weight,
		Reps:      input.Reps,
		Notes:     input.Notes,
		Completed: completed,
	})
	if err != nil {
		return nil, recordWorkoutOutput{}, fmt.Errorf("failed to record workout: %w", err)
	}

	out := recordWorkoutOutput{
		ID:           res.Workout.ID.String()[:8],
		Movement:     res.Workout.Movement,
		Difficulty:   res.Workout.DifficultyLevel.String(),
		Transition:   string(res.Progression.Transition),
		NewTier:      res.Progression.To.String(),
		XPGained:     res.Progress.XPGained,
		TotalXP:      res.Progress.TotalXP,
		Achievements: []string{},
	}
	for _, a := range res.Progress.AchievementsEarned {
		out.Achievements = append(out.Achievements, a.Name)
	}

	msg := fmt.Sprintf("Logged %s %.1fkg x %d (+%d XP, ID: %s)",
		out.Movement, res.Workout.Weight, res.Workout.Reps, out.XPGained, out.ID)
	if res.Progression.Transition.Changed() {
		msg += fmt.Sprintf("; %s %s to %s", out.Movement, out.Transition, out.NewTier)
	}
	if res.Progress.NewLevel != nil {
		out.NewLevel = res.Progress.NewLevel.Level
		msg += fmt.Sprintf("; reached %s", res.Progress.NewLevel.Title)
	}
	if len(out.Achievements) > 0 {
		msg += "; earned " + strings.Join(out.Achievements, ", ")
	}
	out.Message = msg

	return nil, out, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, listWorkoutsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}

	f := storage.WorkoutFilter{
		UserID:   input.UserID,
		Movement: input.Movement,
		Limit:    input.Limit,
	}
	var err error
	if f.From, err = parseOptionalDate(input.From); err != nil {
		return nil, listWorkoutsOutput{}, err
	}
	if f.To, err = parseOptionalDate(input.To); err != nil {
		return nil, listWorkoutsOutput{}, err
	}

	workouts, err := s.engine.ListWorkouts(ctx, f)
	if err != nil {
		return nil, listWorkoutsOutput{}, fmt.Errorf("failed to list workouts: %w", err)
	}

	out := listWorkoutsOutput{Workouts: make([]workoutView, 0, len(workouts))}
	for _, w := range workouts {
		out.Workouts = append(out.Workouts, toWorkoutView(w))
	}
	out.Count = len(out.Workouts)
	return nil, out, nil
}

func (s *Server) handleListMovements(ctx context.Context, req *mcp.CallToolRequest, input listMovementsInput) (*mcp.CallToolResult, listMovementsOutput, error) {
	movements, err := s.engine.Movements(ctx)
	if err != nil {
		return nil, listMovementsOutput{}, fmt.Errorf("failed to list movements: %w", err)
	}

	out := listMovementsOutput{Movements: make([]movementView, 0, len(movements))}
	for _, m := range movements {
		out.Movements = append(out.Movements, movementView{
			Name:                 m.Name,
			Difficulty:           m.CurrentDifficulty.String(),
			ProgressionThreshold: m.ProgressionThreshold,
		})
	}
	return nil, out, nil
}

func (s *Server) handleRecoveryAndStrain(ctx context.Context, req *mcp.CallToolRequest, input recoveryInput) (*mcp.CallToolResult, any, error) {
	at, err := s.parseInstant(input.At)
	if err != nil {
		return nil, nil, err
	}

	report, err := s.engine.RecoveryAndStrain(ctx, s.user(input.UserID), at)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to score recovery: %w", err)
	}
	return nil, report, nil
}

func (s *Server) handlePRForecast(ctx context.Context, req *mcp.CallToolRequest, input forecastInput) (*mcp.CallToolResult, any, error) {
	report, err := s.engine.PRForecast(ctx, input.Movement, input.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to forecast: %w", err)
	}
	return nil, report, nil
}

func (s *Server) handleUserProgress(ctx context.Context, req *mcp.CallToolRequest, input userInput) (*mcp.CallToolResult, any, error) {
	progress, err := s.engine.UserProgress(ctx, s.user(input.UserID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return nil, progress, nil
}

func (s *Server) handleAchievements(ctx context.Context, req *mcp.CallToolRequest, input userInput) (*mcp.CallToolResult, any, error) {
	views, err := s.engine.Achievements(ctx, s.user(input.UserID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	if len(views) == 0 {
		return nil, map[string]any{"message": "No achievements earned yet."}, nil
	}
	return nil, map[string]any{"achievements": views}, nil
}

func toWorkoutView(w *models.WorkoutEvent) workoutView {
	v := workoutView{
		ID:         w.ID.String(),
		UserID:     w.UserID,
		Movement:   w.Movement,
		Date:       w.Date.Format(models.DateLayout),
		Weight:     w.Weight,
		Reps:       w.Reps,
		Difficulty: w.DifficultyLevel.String(),
		Completed:  w.CompletedSuccessfully,
	}
	if w.Notes != nil {
		v.Notes = *w.Notes
	}
	return v
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return d, nil
}

// parseInstant accepts an RFC 3339 timestamp or a bare date. A bare date keeps the
// current time of day so "today" scores the same as no date at all.
func (s *Server) parseInstant(v string) (time.Time, error) {
	now := s.now()
	if v == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	d, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use YYYY-MM-DD or RFC 3339", v)
	}
	h, m, sec := now.Clock()
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, sec, 0, now.Location()), nil
}
