// ABOUTME: Engine facade over storage, progression, scoring, forecasting, and gamification.
// ABOUTME: RecordWorkout is the only write path and runs inside a single transaction.
package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/harperreed/liftlog/internal/gamification"
	"github.com/harperreed/liftlog/internal/logging"
	"github.com/harperreed/liftlog/internal/metrics"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/progression"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/sirupsen/logrus"
)

// Engine runs training operations against a repository.
type Engine struct {
	repo    storage.Repository
	metrics *metrics.Manager
	log     logrus.FieldLogger
	now     func() time.Time

	// movement name -> *sync.Mutex
	locks sync.Map
}

// New creates an Engine. A nil metrics manager gets a private registry and a nil
// logger discards everything.
func New(repo storage.Repository, m *metrics.Manager, log logrus.FieldLogger) *Engine {
	if m == nil {
		m = metrics.NewTestManager()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Engine{
		repo:    repo,
		metrics: m,
		log:     log,
		now:     time.Now,
	}
}

// Repository returns the underlying repository.
func (e *Engine) Repository() storage.Repository {
	return e.repo
}

// WorkoutInput is a workout as submitted by a caller.
type WorkoutInput struct {
	UserID    string
	Movement  string
	Date      time.Time
	Weight    float64
	Reps      int
	Notes     string
	Completed bool
}

// RecordResult reports everything one recorded workout caused.
type RecordResult struct {
	Workout     *models.WorkoutEvent         `json:"workout"`
	Progression *progression.Result          `json:"progression"`
	Progress    *gamification.ProgressUpdate `json:"progress"`
}

// Validate checks the input and returns the canonical catalog movement name.
func (in WorkoutInput) Validate() (string, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return "", models.NewValidationError("user_id", "must not be empty")
	}
	name, ok := models.LookupMovement(in.Movement)
	if !ok {
		return "", models.NewValidationError("movement", "%q is not in the movement catalog", in.Movement)
	}
	if in.Reps <= 0 {
		return "", models.NewValidationError("reps", "must be positive, got %d", in.Reps)
	}
	if math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) {
		return "", models.NewValidationError("weight", "must be a finite number")
	}
	if in.Weight < 0 {
		return "", models.NewValidationError("weight", "must not be negative, got %g", in.Weight)
	}
	if in.Date.IsZero() {
		return "", models.NewValidationError("date", "must be set")
	}
	return name, nil
}

// RecordWorkout persists a workout with the movement's current tier as its snapshot,
// then re-evaluates the movement's tier and credits the user's ledger.
// Either all of it commits or none of it does.
func (e *Engine) RecordWorkout(ctx context.Context, in WorkoutInput) (*RecordResult, error) {
	name, err := in.Validate()
	if err != nil {
		e.metrics.CounterRecordFailures.Inc()
		return nil, err
	}

	mu := e.movementLock(name)
	mu.Lock()
	defer mu.Unlock()

	now := e.now()
	result := &RecordResult{}

	err = e.repo.WithTx(ctx, func(s storage.Store) error {
		m, err := s.GetMovement(ctx, name)
		if err != nil {
			return fmt.Errorf("load movement: %w", err)
		}

		w := models.NewWorkoutEvent(strings.TrimSpace(in.UserID), m.Name, in.Weight, in.Reps).
			WithDate(in.Date).
			WithDifficulty(m.CurrentDifficulty).
			WithCompleted(in.Completed)
		if notes := strings.TrimSpace(in.Notes); notes != "" {
			w.WithNotes(notes)
		}
		w.CreatedAt = now

		if err := s.CreateWorkout(ctx, w); err != nil {
			return fmt.Errorf("save workout: %w", err)
		}
		result.Workout = w

		result.Progression, err = progression.Update(ctx, s, m.Name)
		if err != nil {
			return fmt.Errorf("update progression: %w", err)
		}

		result.Progress, err = gamification.ProcessWorkout(ctx, s, w, now)
		if err != nil {
			return fmt.Errorf("update ledger: %w", err)
		}
		return nil
	})
	if err != nil {
		e.metrics.CounterRecordFailures.Inc()
		e.log.WithFields(logrus.Fields{"user": in.UserID, "movement": name}).
			WithError(err).Error("record workout failed")
		return nil, err
	}

	e.observe(result)
	return result, nil
}

// observe updates metrics and logs for a committed workout.
func (e *Engine) observe(r *RecordResult) {
	fields := logrus.Fields{
		"user":       r.Workout.UserID,
		"movement":   r.Workout.Movement,
		"workout_id": r.Workout.ID.String(),
		"xp":         r.Progress.XPGained,
		"transition": r.Progression.Transition,
	}

	e.metrics.CounterWorkoutsRecorded.Inc()
	e.metrics.HistWorkoutXP.Observe(float64(r.Progress.XPGained))

	switch r.Progression.Transition {
	case progression.TransitionPromoted:
		e.metrics.CounterDifficultyTransitions.WithLabelValues(metrics.DirectionPromoted).Inc()
	case progression.TransitionDemoted:
		e.metrics.CounterDifficultyTransitions.WithLabelValues(metrics.DirectionDemoted).Inc()
	}
	if r.Progression.Transition.Changed() {
		e.log.WithFields(fields).Infof("movement tier %s -> %s", r.Progression.From, r.Progression.To)
	}

	if r.Progress.NewLevel != nil {
		e.metrics.CounterLevelUps.Inc()
		e.log.WithFields(fields).WithField("level", r.Progress.NewLevel.Level).Info("level up")
	}
	for _, a := range r.Progress.AchievementsEarned {
		e.metrics.CounterAchievementsAwarded.WithLabelValues(string(a.ID)).Inc()
		e.log.WithFields(fields).WithField("achievement", a.ID).Info("achievement earned")
	}

	e.log.WithFields(fields).Debug("workout recorded")
}

// movementLock returns the mutex serializing writes to one movement.
func (e *Engine) movementLock(name string) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(strings.ToLower(name), &sync.Mutex{})
	return mu.(*sync.Mutex)
}
