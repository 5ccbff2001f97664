// ABOUTME: Export and import of the full training log.
// ABOUTME: Supports JSON and YAML export; JSON import restores a log in one transaction.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/liftlog/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export document version.
const ExportVersion = "1.0"

// ExportData represents the full export format for the training log.
type ExportData struct {
	Version      string                      `json:"version" yaml:"version"`
	ExportedAt   time.Time                   `json:"exported_at" yaml:"exported_at"`
	Tool         string                      `json:"tool" yaml:"tool"`
	Movements    []*models.Movement          `json:"movements" yaml:"movements"`
	Workouts     []*models.WorkoutEvent      `json:"workouts" yaml:"workouts"`
	Progress     []*UserProgress             `json:"progress" yaml:"progress"`
	Achievements []*models.EarnedAchievement `json:"achievements" yaml:"achievements"`
}

// GetAllData retrieves all data for export as a single consistent snapshot.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       "liftlog",
	}

	err := d.WithTx(ctx, func(s Store) error {
		q := s.(*queries)
		var err error

		if data.Movements, err = q.ListMovements(ctx); err != nil {
			return err
		}
		if data.Workouts, err = q.ListWorkouts(ctx, WorkoutFilter{Ascending: true}); err != nil {
			return err
		}
		if data.Progress, err = q.listUserProgress(ctx); err != nil {
			return err
		}
		if data.Achievements, err = q.ListAchievements(ctx, "", 0); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("export data: %w", err)
	}
	return data, nil
}

// ImportData restores an export into a log with no workouts yet.
// Rows are checked the way ingestion checks them. Stored tiers are restored only for
// movements that have imported workouts, and existing XP totals are never lowered.
func (d *DB) ImportData(ctx context.Context, data *ExportData) error {
	if data.Version != "" && data.Version != ExportVersion {
		return fmt.Errorf("unsupported export version %q", data.Version)
	}

	return d.WithTx(ctx, func(s Store) error {
		q := s.(*queries)

		existing, err := q.CountWorkouts(ctx, WorkoutFilter{})
		if err != nil {
			return fmt.Errorf("inspect destination: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("database already holds %d workouts; import needs an empty log", existing)
		}

		trained := make(map[string]bool)
		for _, w := range data.Workouts {
			name, ok := models.LookupMovement(w.Movement)
			if !ok {
				return fmt.Errorf("import workout %s: %w", w.ID,
					models.NewValidationError("movement", "%q is not in the movement catalog", w.Movement))
			}
			w.Movement = name
			trained[name] = true
		}

		for _, m := range data.Movements {
			name, ok := models.LookupMovement(m.Name)
			if !ok {
				return models.NewValidationError("movement", "%q is not in the movement catalog", m.Name)
			}
			m.Name = name
			if trained[name] && !m.CurrentDifficulty.IsValid() {
				return models.NewValidationError("difficulty", "movement %s has unknown tier", m.Name)
			}
			if m.ProgressionThreshold <= 0 {
				m.ProgressionThreshold = models.DefaultProgressionThreshold
			}
			if err := q.restoreMovement(ctx, m, trained[name]); err != nil {
				return fmt.Errorf("import movement %s: %w", m.Name, err)
			}
		}

		for _, w := range data.Workouts {
			if w.CreatedAt.IsZero() {
				w.CreatedAt = w.Date
			}
			if err := w.Validate(); err != nil {
				return fmt.Errorf("import workout %s: %w", w.ID, err)
			}
			if err := q.CreateWorkout(ctx, w); err != nil {
				return fmt.Errorf("import workout %s: %w", w.ID, err)
			}
		}

		for _, p := range data.Progress {
			if strings.TrimSpace(p.UserID) == "" {
				return models.NewValidationError("user_id", "progress row has no user")
			}
			if p.TotalXP < 0 {
				return models.NewValidationError("total_xp", "user %s has negative XP", p.UserID)
			}
			if err := q.restoreUserProgress(ctx, p); err != nil {
				return fmt.Errorf("import progress %s: %w", p.UserID, err)
			}
		}

		for _, a := range data.Achievements {
			if err := checkAchievement(a); err != nil {
				return fmt.Errorf("import achievement %s: %w", a.ID, err)
			}
			if _, err := q.AwardAchievement(ctx, a); err != nil {
				return fmt.Errorf("import achievement %s: %w", a.ID, err)
			}
		}
		return nil
	})
}

// checkAchievement validates an imported award and canonicalizes its movement.
func checkAchievement(a *models.EarnedAchievement) error {
	if _, ok := models.Achievements[a.AchievementID]; !ok {
		return models.NewValidationError("achievement_id", "unknown achievement %q", a.AchievementID)
	}
	if a.ID == uuid.Nil {
		return models.NewValidationError("id", "must be set")
	}
	if strings.TrimSpace(a.UserID) == "" {
		return models.NewValidationError("user_id", "must not be empty")
	}
	if a.MovementName != "" {
		name, ok := models.LookupMovement(a.MovementName)
		if !ok {
			return models.NewValidationError("movement_name", "%q is not in the movement catalog", a.MovementName)
		}
		a.MovementName = name
	}
	return nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML with workouts grouped by movement.
func (d *DB) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version      string                   `yaml:"version"`
		ExportedAt   string                   `yaml:"exported_at"`
		Tool         string                   `yaml:"tool"`
		Movements    []yamlMovement           `yaml:"movements"`
		Workouts     map[string][]yamlWorkout `yaml:"workouts"`
		Progress     []yamlProgress           `yaml:"progress,omitempty"`
		Achievements []yamlAchievement        `yaml:"achievements,omitempty"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Movements:  make([]yamlMovement, 0, len(data.Movements)),
		Workouts:   make(map[string][]yamlWorkout),
	}

	for _, m := range data.Movements {
		yamlData.Movements = append(yamlData.Movements, yamlMovement{
			Name:       m.Name,
			Difficulty: m.CurrentDifficulty.String(),
			Threshold:  m.ProgressionThreshold,
		})
	}

	for _, w := range data.Workouts {
		yw := yamlWorkout{
			ID:         w.ID.String()[:8],
			User:       w.UserID,
			Date:       w.Date.Format(models.DateLayout),
			Weight:     w.Weight,
			Reps:       w.Reps,
			Difficulty: w.DifficultyLevel.String(),
			Completed:  w.CompletedSuccessfully,
		}
		if w.Notes != nil {
			yw.Notes = *w.Notes
		}
		yamlData.Workouts[w.Movement] = append(yamlData.Workouts[w.Movement], yw)
	}

	for _, p := range data.Progress {
		yamlData.Progress = append(yamlData.Progress, yamlProgress{User: p.UserID, TotalXP: p.TotalXP})
	}

	for _, a := range data.Achievements {
		yamlData.Achievements = append(yamlData.Achievements, yamlAchievement{
			Achievement: string(a.AchievementID),
			User:        a.UserID,
			Movement:    a.MovementName,
			EarnedAt:    a.DateEarned.Format(time.RFC3339),
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlMovement struct {
	Name       string `yaml:"name"`
	Difficulty string `yaml:"difficulty"`
	Threshold  int    `yaml:"threshold"`
}

type yamlWorkout struct {
	ID         string  `yaml:"id"`
	User       string  `yaml:"user"`
	Date       string  `yaml:"date"`
	Weight     float64 `yaml:"weight"`
	Reps       int     `yaml:"reps"`
	Difficulty string  `yaml:"difficulty"`
	Completed  bool    `yaml:"completed"`
	Notes      string  `yaml:"notes,omitempty"`
}

type yamlProgress struct {
	User    string `yaml:"user"`
	TotalXP int64  `yaml:"total_xp"`
}

type yamlAchievement struct {
	Achievement string `yaml:"achievement"`
	User        string `yaml:"user"`
	Movement    string `yaml:"movement,omitempty"`
	EarnedAt    string `yaml:"earned_at"`
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(ctx context.Context, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.ImportData(ctx, &exportData)
}
