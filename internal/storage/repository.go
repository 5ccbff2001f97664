// ABOUTME: Store and Repository interfaces for training data.
// ABOUTME: Store is usable both directly and inside a transaction.
package storage

import (
	"context"
	"time"

	"github.com/harperreed/liftlog/internal/models"
)

// WorkoutFilter narrows ListWorkouts and CountWorkouts.
// Empty strings and zero times mean "no constraint". From and To are inclusive calendar dates.
type WorkoutFilter struct {
	UserID    string
	Movement  string
	From      time.Time
	To        time.Time
	Limit     int
	Ascending bool
}

// UserProgress is a row of the XP ledger.
type UserProgress struct {
	UserID    string    `json:"user_id" yaml:"user_id"`
	TotalXP   int64     `json:"total_xp" yaml:"total_xp"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Store defines the queries the engine runs against training data.
type Store interface {
	// Movement operations
	GetMovement(ctx context.Context, name string) (*models.Movement, error)
	ListMovements(ctx context.Context) ([]*models.Movement, error)
	SetMovementDifficulty(ctx context.Context, name string, from, to models.Difficulty) error

	// Workout operations
	CreateWorkout(ctx context.Context, w *models.WorkoutEvent) error
	GetWorkout(ctx context.Context, idOrPrefix string) (*models.WorkoutEvent, error)
	ListWorkouts(ctx context.Context, f WorkoutFilter) ([]*models.WorkoutEvent, error)
	CountWorkouts(ctx context.Context, f WorkoutFilter) (int, error)
	MaxWeight(ctx context.Context, userID, movement string) (float64, bool, error)
	WorkoutDates(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)

	// XP ledger operations
	GetUserProgress(ctx context.Context, userID string) (*UserProgress, error)
	AddXP(ctx context.Context, userID string, xp int64, at time.Time) (int64, error)

	// Achievement operations
	AwardAchievement(ctx context.Context, a *models.EarnedAchievement) (bool, error)
	ListAchievements(ctx context.Context, userID string, limit int) ([]*models.EarnedAchievement, error)
}

// Repository is a Store with lifecycle, seeding, transactions, and export/import.
type Repository interface {
	Store

	SeedMovements(ctx context.Context, names []string, threshold int) error
	WithTx(ctx context.Context, fn func(Store) error) error

	// Export/Import
	GetAllData(ctx context.Context) (*ExportData, error)
	ImportData(ctx context.Context, data *ExportData) error
	ExportJSON(ctx context.Context) ([]byte, error)
	ExportYAML(ctx context.Context) ([]byte, error)
	ImportJSON(ctx context.Context, data []byte) error

	// Lifecycle
	Close() error
}

var _ Repository = (*DB)(nil)
