// ABOUTME: Tests for the WorkoutEvent model.
// ABOUTME: Validates the constructor, builder methods, and date truncation.
package models

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewWorkoutEvent(t *testing.T) {
	w := NewWorkoutEvent("alice", "Clean", 80, 3)

	if w.ID.String() == "" {
		t.Error("expected UUID to be set")
	}
	if w.Movement != "Clean" {
		t.Errorf("Movement = %s, want Clean", w.Movement)
	}
	if w.DifficultyLevel != Beginner {
		t.Errorf("DifficultyLevel = %s, want BEGINNER", w.DifficultyLevel)
	}
	if !w.CompletedSuccessfully {
		t.Error("expected new events to default to completed")
	}
	if w.Date.Hour() != 0 || w.Date.Minute() != 0 {
		t.Errorf("expected Date at midnight, got %v", w.Date)
	}
}

func TestWorkoutEventBuilders(t *testing.T) {
	date := time.Date(2025, 3, 9, 17, 45, 0, 0, time.UTC)
	w := NewWorkoutEvent("alice", "Snatch", 60, 2).
		WithDate(date).
		WithNotes("felt slow").
		WithCompleted(false).
		WithDifficulty(Advanced)

	if !w.Date.Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want 2025-03-09 midnight", w.Date)
	}
	if w.Notes == nil || *w.Notes != "felt slow" {
		t.Errorf("Notes = %v, want 'felt slow'", w.Notes)
	}
	if w.CompletedSuccessfully {
		t.Error("expected CompletedSuccessfully to be false")
	}
	if w.DifficultyLevel != Advanced {
		t.Errorf("DifficultyLevel = %s, want ADVANCED", w.DifficultyLevel)
	}
}

func TestWorkoutEventVolume(t *testing.T) {
	w := NewWorkoutEvent("alice", "Deadlift", 102.5, 4)
	if got := w.Volume(); got != 410 {
		t.Errorf("Volume() = %f, want 410", got)
	}
}

func TestDayDropsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2025, 1, 31, 23, 30, 0, 0, loc)
	got := Day(in)
	want := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Day(%v) = %v, want %v", in, got, want)
	}
}

func TestWorkoutEventValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(w *WorkoutEvent)
		field  string
	}{
		{"valid", func(w *WorkoutEvent) {}, ""},
		{"bodyweight", func(w *WorkoutEvent) { w.Weight = 0 }, ""},
		{"nil id", func(w *WorkoutEvent) { w.ID = uuid.Nil }, "id"},
		{"blank user", func(w *WorkoutEvent) { w.UserID = "  " }, "user_id"},
		{"uncataloged movement", func(w *WorkoutEvent) { w.Movement = "Zercher Squat" }, "movement"},
		{"non-canonical movement", func(w *WorkoutEvent) { w.Movement = "clean" }, "movement"},
		{"zero reps", func(w *WorkoutEvent) { w.Reps = 0 }, "reps"},
		{"negative weight", func(w *WorkoutEvent) { w.Weight = -1 }, "weight"},
		{"NaN weight", func(w *WorkoutEvent) { w.Weight = math.NaN() }, "weight"},
		{"zero date", func(w *WorkoutEvent) { w.Date = time.Time{} }, "date"},
		{"unknown tier", func(w *WorkoutEvent) { w.DifficultyLevel = 0 }, "difficulty_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorkoutEvent("alice", "Clean", 80, 3)
			tt.mutate(w)

			err := w.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %s, want %s", ve.Field, tt.field)
			}
		})
	}
}
