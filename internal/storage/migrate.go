// ABOUTME: Data migration between training log databases.
// ABOUTME: Copies movements, workouts, XP, and achievements from source to an empty destination.

package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Movements    int
	Workouts     int
	Users        int
	Achievements int
}

// MigrateData copies all data from src to dst in one destination transaction.
// The destination must not contain any workouts.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	existing, err := dst.CountWorkouts(ctx, WorkoutFilter{})
	if err != nil {
		return nil, fmt.Errorf("inspect destination: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("destination already holds %d workouts", existing)
	}

	data, err := src.GetAllData(ctx)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	if err := dst.ImportData(ctx, data); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	return &MigrateSummary{
		Movements:    len(data.Movements),
		Workouts:     len(data.Workouts),
		Users:        len(data.Progress),
		Achievements: len(data.Achievements),
	}, nil
}

// IsFileNonEmpty reports whether path exists and has content.
func IsFileNonEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %q: %w", path, err)
	}
	return info.Size() > 0, nil
}
