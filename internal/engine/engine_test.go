// ABOUTME: Tests for the engine's write path: validation, snapshots, progression, and XP.
// ABOUTME: Includes concurrent recording against a shared SQLite database.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/liftlog/internal/metrics"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/progression"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

func setupEngine(t *testing.T) (*Engine, *storage.DB, *metrics.Manager) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "liftlog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.SeedMovements(context.Background(), models.Catalog, models.DefaultProgressionThreshold))

	m := metrics.NewTestManager()
	e := New(db, m, nil)
	e.now = func() time.Time { return fixedNow }
	return e, db, m
}

func input(user, movement string, daysAgo int, weight float64, reps int, completed bool) WorkoutInput {
	return WorkoutInput{
		UserID:    user,
		Movement:  movement,
		Date:      models.Day(fixedNow).AddDate(0, 0, -daysAgo),
		Weight:    weight,
		Reps:      reps,
		Completed: completed,
	}
}

func TestRecordWorkoutValidation(t *testing.T) {
	e, db, m := setupEngine(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    WorkoutInput
		field string
	}{
		{"empty user", input("", "Clean", 0, 50, 5, true), "user_id"},
		{"unknown movement", input("alice", "Zercher Squat", 0, 50, 5, true), "movement"},
		{"zero reps", input("alice", "Clean", 0, 50, 0, true), "reps"},
		{"negative weight", input("alice", "Clean", 0, -5, 5, true), "weight"},
		{"nan weight", input("alice", "Clean", 0, math.NaN(), 5, true), "weight"},
		{"inf weight", input("alice", "Clean", 0, math.Inf(1), 5, true), "weight"},
		{"no date", WorkoutInput{UserID: "alice", Movement: "Clean", Weight: 50, Reps: 5}, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.RecordWorkout(ctx, tt.in)
			var ve *models.ValidationError
			require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	n, err := db.CountWorkouts(ctx, storage.WorkoutFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, float64(len(tests)), testutil.ToFloat64(m.CounterRecordFailures))

	_, err = db.GetUserProgress(ctx, "alice")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestRecordWorkoutSnapshotAndXP(t *testing.T) {
	e, db, m := setupEngine(t)
	ctx := context.Background()

	in := input("alice", "clean", 0, 1, 1, false)
	in.Notes = "  felt slow  "
	res, err := e.RecordWorkout(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, "Clean", res.Workout.Movement)
	assert.Equal(t, models.Beginner, res.Workout.DifficultyLevel)
	assert.Equal(t, fixedNow, res.Workout.CreatedAt)
	require.NotNil(t, res.Workout.Notes)
	assert.Equal(t, "felt slow", *res.Workout.Notes)
	assert.Equal(t, progression.TransitionInsufficientData, res.Progression.Transition)
	assert.Equal(t, int64(100), res.Progress.XPGained)
	assert.Equal(t, int64(100), res.Progress.TotalXP)

	stored, err := db.GetWorkout(ctx, res.Workout.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.Beginner, stored.DifficultyLevel)
	assert.False(t, stored.CompletedSuccessfully)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterWorkoutsRecorded))
}

func TestRecordWorkoutCleanProgression(t *testing.T) {
	e, db, m := setupEngine(t)
	ctx := context.Background()

	var last *RecordResult
	for i := 3; i >= 1; i-- {
		res, err := e.RecordWorkout(ctx, input("alice", "Clean", i, 60, 3, true))
		require.NoError(t, err)
		assert.Equal(t, models.Beginner, res.Workout.DifficultyLevel)
		last = res
	}
	assert.Equal(t, progression.TransitionPromoted, last.Progression.Transition)

	res, err := e.RecordWorkout(ctx, input("alice", "Clean", 0, 60, 3, false))
	require.NoError(t, err)
	assert.Equal(t, models.Intermediate, res.Workout.DifficultyLevel, "snapshot reflects the promoted tier")
	assert.Equal(t, progression.TransitionNone, res.Progression.Transition)

	mv, err := db.GetMovement(ctx, "Clean")
	require.NoError(t, err)
	assert.Equal(t, models.Intermediate, mv.CurrentDifficulty)

	// earlier snapshots are never rewritten
	history, err := db.ListWorkouts(ctx, storage.WorkoutFilter{Movement: "Clean", Ascending: true})
	require.NoError(t, err)
	require.Len(t, history, 4)
	for _, w := range history[:3] {
		assert.Equal(t, models.Beginner, w.DifficultyLevel)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterDifficultyTransitions.WithLabelValues(metrics.DirectionPromoted)))
}

func TestRecordWorkoutEliteAwards(t *testing.T) {
	e, db, m := setupEngine(t)
	ctx := context.Background()
	require.NoError(t, db.SetMovementDifficulty(ctx, "Push-ups", models.Beginner, models.Elite))

	res, err := e.RecordWorkout(ctx, input("alice", "Push-ups", 0, 0, 20, true))
	require.NoError(t, err)
	assert.Equal(t, int64(350), res.Progress.XPGained)
	require.Len(t, res.Progress.AchievementsEarned, 1)
	assert.Equal(t, models.AchievementEliteStatus, res.Progress.AchievementsEarned[0].ID)

	res, err = e.RecordWorkout(ctx, input("alice", "Push-ups", 0, 0, 20, true))
	require.NoError(t, err)
	assert.Empty(t, res.Progress.AchievementsEarned)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterAchievementsAwarded.WithLabelValues(string(models.AchievementEliteStatus))))
}

func TestRecordWorkoutRollsBackOnFailure(t *testing.T) {
	e, db, m := setupEngine(t)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := e.RecordWorkout(ctx, input("alice", "Clean", 0, 60, 3, true))
	require.Error(t, err)
	assert.False(t, models.IsValidationError(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRecordFailures))
	assert.Zero(t, testutil.ToFloat64(m.CounterWorkoutsRecorded))
}

func TestRecordWorkoutConcurrent(t *testing.T) {
	e, db, _ := setupEngine(t)
	ctx := context.Background()

	const users, perUser = 8, 5
	movements := []string{"Clean", "Snatch"}

	var wg sync.WaitGroup
	errs := make(chan error, users*perUser)
	for u := 0; u < users; u++ {
		wg.Add(1)
		go func(u int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", u)
			for i := 0; i < perUser; i++ {
				in := input(user, movements[(u+i)%len(movements)], i, 40, 5, true)
				if _, err := e.RecordWorkout(ctx, in); err != nil {
					errs <- err
				}
			}
		}(u)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("RecordWorkout failed: %v", err)
	}

	n, err := db.CountWorkouts(ctx, storage.WorkoutFilter{})
	require.NoError(t, err)
	assert.Equal(t, users*perUser, n)

	// 40x5 BEGINNER success is 170 XP; later sets may carry a promoted snapshot, so at least that.
	for u := 0; u < users; u++ {
		p, err := db.GetUserProgress(ctx, fmt.Sprintf("user-%d", u))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.TotalXP, int64(perUser*170))
	}

	// With all successes each movement climbs, one tier per evaluation at most.
	for _, name := range movements {
		mv, err := db.GetMovement(ctx, name)
		require.NoError(t, err)
		assert.Greater(t, mv.CurrentDifficulty, models.Beginner)
	}
}
