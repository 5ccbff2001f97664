// ABOUTME: Read-side engine operations: scores, forecasts, progress, records, and history.
// ABOUTME: Scores degrade instead of failing; only a failed transaction is an error.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/liftlog/internal/forecast"
	"github.com/harperreed/liftlog/internal/gamification"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/recovery"
	"github.com/harperreed/liftlog/internal/storage"
)

// statusWindow is how many recent sessions count toward progress to the next tier.
const statusWindow = 3

// RecoveryReport pairs a user's strain for a day with their recovery at an instant.
type RecoveryReport struct {
	UserID   string          `json:"user_id"`
	Date     string          `json:"date"`
	Strain   *recovery.Score `json:"strain"`
	Recovery *recovery.Score `json:"recovery"`
}

// ForecastReport is a PR forecast plus training insights for one movement.
type ForecastReport struct {
	Movement   string             `json:"movement"`
	UserID     string             `json:"user_id,omitempty"`
	DataPoints int                `json:"data_points"`
	Forecast   *forecast.Forecast `json:"forecast"`
	Insights   string             `json:"insights"`
}

// PersonalRecord is a user's heaviest logged weight for a movement.
type PersonalRecord struct {
	Movement string  `json:"movement"`
	Weight   float64 `json:"weight"`
	Logged   bool    `json:"logged"`
}

// MovementStatus summarizes a primary movement for a user.
type MovementStatus struct {
	Name           string            `json:"name"`
	Difficulty     models.Difficulty `json:"current_level"`
	PersonalBest   float64           `json:"personal_best"`
	ProgressToNext int               `json:"progress_to_next"`
}

// RecoveryAndStrain scores strain for the calendar day of at and recovery at the instant at.
func (e *Engine) RecoveryAndStrain(ctx context.Context, userID string, at time.Time) (*RecoveryReport, error) {
	report := &RecoveryReport{
		UserID: userID,
		Date:   at.Format(models.DateLayout),
	}
	err := e.repo.WithTx(ctx, func(s storage.Store) error {
		scorer := recovery.NewScorer(s, e.log)
		report.Strain = scorer.Strain(ctx, userID, at)
		report.Recovery = scorer.Recovery(ctx, userID, at)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// PRForecast projects a movement's PR and derives insights from its history.
// An empty userID forecasts over every user's sets.
func (e *Engine) PRForecast(ctx context.Context, movement, userID string) (*ForecastReport, error) {
	name, err := canonicalMovement(movement)
	if err != nil {
		return nil, err
	}

	history, err := e.repo.ListWorkouts(ctx, storage.WorkoutFilter{
		UserID:    userID,
		Movement:  name,
		Ascending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	points := forecast.FromWorkouts(history)
	return &ForecastReport{
		Movement:   name,
		UserID:     userID,
		DataPoints: len(points),
		Forecast:   forecast.PredictPR(points),
		Insights:   forecast.TrainingInsights(points),
	}, nil
}

// UserProgress reports a user's level standing.
func (e *Engine) UserProgress(ctx context.Context, userID string) (*gamification.UserProgress, error) {
	return gamification.GetUserProgress(ctx, e.repo, userID)
}

// Achievements lists every achievement a user has earned, newest first.
func (e *Engine) Achievements(ctx context.Context, userID string) ([]gamification.AchievementView, error) {
	earned, err := e.repo.ListAchievements(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return gamification.Views(earned), nil
}

// Movements lists the catalog with current tiers.
func (e *Engine) Movements(ctx context.Context) ([]*models.Movement, error) {
	return e.repo.ListMovements(ctx)
}

// PersonalRecords returns the user's best weight for every catalog movement.
func (e *Engine) PersonalRecords(ctx context.Context, userID string) ([]PersonalRecord, error) {
	records := make([]PersonalRecord, 0, len(models.Catalog))
	err := e.repo.WithTx(ctx, func(s storage.Store) error {
		for _, name := range models.Catalog {
			best, ok, err := s.MaxWeight(ctx, userID, name)
			if err != nil {
				return err
			}
			records = append(records, PersonalRecord{Movement: name, Weight: best, Logged: ok})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// MovementStatus summarizes each primary movement: tier, personal best, and how many
// of the user's last three sessions succeeded, as a percentage.
func (e *Engine) MovementStatus(ctx context.Context, userID string) ([]MovementStatus, error) {
	var out []MovementStatus
	err := e.repo.WithTx(ctx, func(s storage.Store) error {
		for _, name := range models.PrimaryMovements {
			m, err := s.GetMovement(ctx, name)
			if err != nil {
				return err
			}
			best, _, err := s.MaxWeight(ctx, userID, m.Name)
			if err != nil {
				return err
			}
			recent, err := s.ListWorkouts(ctx, storage.WorkoutFilter{
				UserID:   userID,
				Movement: m.Name,
				Limit:    statusWindow,
			})
			if err != nil {
				return err
			}

			successes := 0
			for _, w := range recent {
				if w.CompletedSuccessfully {
					successes++
				}
			}

			out = append(out, MovementStatus{
				Name:           m.Name,
				Difficulty:     m.CurrentDifficulty,
				PersonalBest:   best,
				ProgressToNext: min(100, successes*100/statusWindow),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WorkoutStreak counts consecutive training days ending at the user's latest workout date.
func (e *Engine) WorkoutStreak(ctx context.Context, userID string) (int, error) {
	dates, err := e.repo.WorkoutDates(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return 0, fmt.Errorf("load workout dates: %w", err)
	}
	return Streak(dates), nil
}

// Streak counts consecutive days from the start of dates, which must be distinct and newest first.
func Streak(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	streak := 1
	for i := 1; i < len(dates); i++ {
		if !models.Day(dates[i-1]).AddDate(0, 0, -1).Equal(models.Day(dates[i])) {
			break
		}
		streak++
	}
	return streak
}

// MovementHistory lists a movement's sets oldest first. An empty userID includes every user.
func (e *Engine) MovementHistory(ctx context.Context, movement, userID string) ([]*models.WorkoutEvent, error) {
	name, err := canonicalMovement(movement)
	if err != nil {
		return nil, err
	}
	return e.repo.ListWorkouts(ctx, storage.WorkoutFilter{
		UserID:    userID,
		Movement:  name,
		Ascending: true,
	})
}

// ListWorkouts lists workouts newest first, resolving the movement filter against the catalog.
func (e *Engine) ListWorkouts(ctx context.Context, f storage.WorkoutFilter) ([]*models.WorkoutEvent, error) {
	if strings.TrimSpace(f.Movement) != "" {
		name, err := canonicalMovement(f.Movement)
		if err != nil {
			return nil, err
		}
		f.Movement = name
	}
	return e.repo.ListWorkouts(ctx, f)
}

// GetWorkout fetches one workout by ID or unique ID prefix.
func (e *Engine) GetWorkout(ctx context.Context, idOrPrefix string) (*models.WorkoutEvent, error) {
	return e.repo.GetWorkout(ctx, idOrPrefix)
}

func canonicalMovement(movement string) (string, error) {
	name, ok := models.LookupMovement(movement)
	if !ok {
		return "", models.NewValidationError("movement", "%q is not in the movement catalog", movement)
	}
	return name, nil
}
