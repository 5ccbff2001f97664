// ABOUTME: WorkoutEvent model for a single logged set of a catalog movement.
// ABOUTME: The difficulty snapshot is fixed at creation and never recomputed.
package models

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used for workout dates.
const DateLayout = "2006-01-02"

// WorkoutEvent is an immutable record of one logged movement.
type WorkoutEvent struct {
	ID                    uuid.UUID  `json:"id" yaml:"id"`
	UserID                string     `json:"user_id" yaml:"user_id"`
	Movement              string     `json:"movement" yaml:"movement"`
	Date                  time.Time  `json:"date" yaml:"date"`
	Weight                float64    `json:"weight" yaml:"weight"`
	Reps                  int        `json:"reps" yaml:"reps"`
	Notes                 *string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	DifficultyLevel       Difficulty `json:"difficulty_level" yaml:"difficulty_level"`
	CompletedSuccessfully bool       `json:"completed_successfully" yaml:"completed_successfully"`
	CreatedAt             time.Time  `json:"created_at" yaml:"created_at"`
}

// NewWorkoutEvent creates a successful BEGINNER event dated today.
func NewWorkoutEvent(userID, movement string, weight float64, reps int) *WorkoutEvent {
	now := time.Now()
	return &WorkoutEvent{
		ID:                    uuid.New(),
		UserID:                userID,
		Movement:              movement,
		Date:                  Day(now),
		Weight:                weight,
		Reps:                  reps,
		DifficultyLevel:       Beginner,
		CompletedSuccessfully: true,
		CreatedAt:             now,
	}
}

// WithDate sets the calendar date, dropping any time of day.
func (w *WorkoutEvent) WithDate(t time.Time) *WorkoutEvent {
	w.Date = Day(t)
	return w
}

// WithNotes sets notes on the event.
func (w *WorkoutEvent) WithNotes(notes string) *WorkoutEvent {
	w.Notes = &notes
	return w
}

// WithCompleted sets whether the set was completed successfully.
func (w *WorkoutEvent) WithCompleted(completed bool) *WorkoutEvent {
	w.CompletedSuccessfully = completed
	return w
}

// WithDifficulty sets the tier snapshot.
func (w *WorkoutEvent) WithDifficulty(d Difficulty) *WorkoutEvent {
	w.DifficultyLevel = d
	return w
}

// Volume is weight times reps.
func (w *WorkoutEvent) Volume() float64 {
	return w.Weight * float64(w.Reps)
}

// Validate checks a stored event the way ingestion checks new input.
// The movement must be the canonical catalog name.
func (w *WorkoutEvent) Validate() error {
	if w.ID == uuid.Nil {
		return NewValidationError("id", "must be set")
	}
	if strings.TrimSpace(w.UserID) == "" {
		return NewValidationError("user_id", "must not be empty")
	}
	if name, ok := LookupMovement(w.Movement); !ok || name != w.Movement {
		return NewValidationError("movement", "%q is not in the movement catalog", w.Movement)
	}
	if w.Reps <= 0 {
		return NewValidationError("reps", "must be positive, got %d", w.Reps)
	}
	if math.IsNaN(w.Weight) || math.IsInf(w.Weight, 0) || w.Weight < 0 {
		return NewValidationError("weight", "must be a finite non-negative number, got %g", w.Weight)
	}
	if w.Date.IsZero() {
		return NewValidationError("date", "must be set")
	}
	if !w.DifficultyLevel.IsValid() {
		return NewValidationError("difficulty_level", "unknown tier %d", int(w.DifficultyLevel))
	}
	return nil
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
