// ABOUTME: Difficulty progression state machine for movements.
// ABOUTME: Promotes on a perfect rolling window and demotes when fewer than half succeed.
package progression

import (
	"context"
	"fmt"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

// Transition describes what a window evaluation did to a movement's tier.
type Transition string

const (
	TransitionNone             Transition = "none"
	TransitionPromoted         Transition = "promoted"
	TransitionDemoted          Transition = "demoted"
	TransitionInsufficientData Transition = "insufficient_data"
)

// Changed reports whether the tier moved.
func (t Transition) Changed() bool {
	return t == TransitionPromoted || t == TransitionDemoted
}

// Result is the outcome of evaluating one movement's window.
type Result struct {
	Movement   string            `json:"movement"`
	From       models.Difficulty `json:"from"`
	To         models.Difficulty `json:"to"`
	Transition Transition        `json:"transition"`
	Window     int               `json:"window"`
	Successes  int               `json:"successes"`
}

// Store is the subset of storage used by Update.
type Store interface {
	GetMovement(ctx context.Context, name string) (*models.Movement, error)
	ListWorkouts(ctx context.Context, f storage.WorkoutFilter) ([]*models.WorkoutEvent, error)
	SetMovementDifficulty(ctx context.Context, name string, from, to models.Difficulty) error
}

// Decide applies the rolling-window rule to outcomes, newest first.
// Only the first threshold outcomes are considered.
func Decide(current models.Difficulty, threshold int, outcomes []bool) (models.Difficulty, Transition) {
	if threshold <= 0 || len(outcomes) < threshold {
		return current, TransitionInsufficientData
	}

	successes := countSuccesses(outcomes[:threshold])

	if successes == threshold {
		if next, ok := current.Next(); ok {
			return next, TransitionPromoted
		}
		return current, TransitionNone
	}

	if successes < threshold/2 {
		if prev, ok := current.Prev(); ok {
			return prev, TransitionDemoted
		}
	}

	return current, TransitionNone
}

// Update evaluates the movement's most recent window across all users and
// writes any tier change with a compare-and-swap on the tier it read.
func Update(ctx context.Context, store Store, movement string) (*Result, error) {
	m, err := store.GetMovement(ctx, movement)
	if err != nil {
		return nil, err
	}

	recent, err := store.ListWorkouts(ctx, storage.WorkoutFilter{
		Movement: m.Name,
		Limit:    m.ProgressionThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("load progression window: %w", err)
	}

	outcomes := make([]bool, len(recent))
	for i, w := range recent {
		outcomes[i] = w.CompletedSuccessfully
	}

	next, transition := Decide(m.CurrentDifficulty, m.ProgressionThreshold, outcomes)
	result := &Result{
		Movement:   m.Name,
		From:       m.CurrentDifficulty,
		To:         next,
		Transition: transition,
		Window:     len(recent),
		Successes:  countSuccesses(outcomes),
	}

	if !transition.Changed() {
		return result, nil
	}

	if err := store.SetMovementDifficulty(ctx, m.Name, m.CurrentDifficulty, next); err != nil {
		return nil, err
	}
	return result, nil
}

func countSuccesses(outcomes []bool) int {
	n := 0
	for _, ok := range outcomes {
		if ok {
			n++
		}
	}
	return n
}
