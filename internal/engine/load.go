// ABOUTME: Training load, readiness, and lifetime volume summaries for a user.
// ABOUTME: Load averages tier-weighted volume over the user's most recent sets.
package engine

import (
	"context"
	"fmt"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

const (
	// loadWindow is how many recent sets feed the load average.
	loadWindow = 14
	// intensitySets is how many of the newest sets feed the recovery estimate.
	intensitySets = 3
)

// Load, recovery, and readiness bands.
const (
	LoadLow     = "Low - You can increase intensity"
	LoadOptimal = "Optimal - Good training balance"
	LoadHigh    = "High - Consider recovery"

	RecoveryWell     = "Well Recovered"
	RecoveryModerate = "Moderately Recovered"
	RecoveryNeeded   = "Recovery Needed"

	ReadinessHigh     = "Ready for High Intensity"
	ReadinessModerate = "Ready for Moderate Training"
	ReadinessLight    = "Light Training Recommended"
)

var loadMultipliers = map[models.Difficulty]float64{
	models.Beginner:     1.0,
	models.Intermediate: 1.2,
	models.Advanced:     1.5,
	models.Elite:        2.0,
}

// TrainingLoad summarizes a user's recent work and how ready they are for more.
type TrainingLoad struct {
	Sets            int     `json:"sets"`
	CurrentLoad     float64 `json:"current_load"`
	LoadStatus      string  `json:"load_status"`
	RecoveryScore   int     `json:"recovery_score"`
	RecoveryStatus  string  `json:"recovery_status"`
	ReadinessScore  int     `json:"readiness_score"`
	ReadinessStatus string  `json:"readiness_status"`
}

// ProgressStats are lifetime totals for a user.
type ProgressStats struct {
	TotalWorkouts      int     `json:"total_workouts"`
	SuccessfulWorkouts int     `json:"successful_workouts"`
	TotalVolume        float64 `json:"total_volume"`
}

// TrainingLoad scores the user's last 14 sets. A user with no sets gets ErrNotFound.
func (e *Engine) TrainingLoad(ctx context.Context, userID string) (*TrainingLoad, error) {
	recent, err := e.repo.ListWorkouts(ctx, storage.WorkoutFilter{UserID: userID, Limit: loadWindow})
	if err != nil {
		return nil, fmt.Errorf("load recent workouts: %w", err)
	}
	if len(recent) == 0 {
		return nil, fmt.Errorf("user %s has no workouts: %w", userID, models.ErrNotFound)
	}
	return ComputeTrainingLoad(recent), nil
}

// ComputeTrainingLoad scores sets ordered newest first.
func ComputeTrainingLoad(recent []*models.WorkoutEvent) *TrainingLoad {
	tl := &TrainingLoad{Sets: len(recent), RecoveryScore: 100}
	if len(recent) > 0 {
		total := 0.0
		for _, w := range recent {
			mult, ok := loadMultipliers[w.DifficultyLevel]
			if !ok {
				mult = 1.0
			}
			total += w.Volume() * mult
		}
		tl.CurrentLoad = total / float64(len(recent))

		// divided by intensitySets even when fewer sets exist
		intensity := 0.0
		for _, w := range recent[:min(intensitySets, len(recent))] {
			intensity += w.Volume()
		}
		intensity /= intensitySets
		tl.RecoveryScore = max(0, min(100, int(100-min(intensity/100, 50))))
	}

	tl.ReadinessScore = min(100, (tl.RecoveryScore+70)/2)
	tl.LoadStatus = loadStatus(tl.CurrentLoad)
	tl.RecoveryStatus = band(tl.RecoveryScore, RecoveryWell, RecoveryModerate, RecoveryNeeded)
	tl.ReadinessStatus = band(tl.ReadinessScore, ReadinessHigh, ReadinessModerate, ReadinessLight)
	return tl
}

// ProgressStats totals every set the user has logged.
func (e *Engine) ProgressStats(ctx context.Context, userID string) (*ProgressStats, error) {
	workouts, err := e.repo.ListWorkouts(ctx, storage.WorkoutFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	stats := &ProgressStats{TotalWorkouts: len(workouts)}
	for _, w := range workouts {
		if w.CompletedSuccessfully {
			stats.SuccessfulWorkouts++
		}
		stats.TotalVolume += w.Volume()
	}
	return stats, nil
}

func loadStatus(load float64) string {
	switch {
	case load < 500:
		return LoadLow
	case load < 1000:
		return LoadOptimal
	default:
		return LoadHigh
	}
}

// band maps a 0-100 score onto >=80, >=60, and below.
func band(score int, high, mid, low string) string {
	switch {
	case score >= 80:
		return high
	case score >= 60:
		return mid
	default:
		return low
	}
}
