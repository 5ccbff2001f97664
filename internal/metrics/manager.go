// ABOUTME: Prometheus metrics for the training engine.
// ABOUTME: All collectors are registered on the registerer passed to NewManager.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for CounterDifficultyTransitions.
const (
	DirectionPromoted = "promoted"
	DirectionDemoted  = "demoted"
)

// Manager holds the collectors the engine updates while recording sets.
type Manager struct {
	// counters
	CounterWorkoutsRecorded      prometheus.Counter
	CounterDifficultyTransitions *prometheus.CounterVec
	CounterLevelUps              prometheus.Counter
	CounterAchievementsAwarded   *prometheus.CounterVec
	CounterRecordFailures        prometheus.Counter

	// histograms
	HistWorkoutXP prometheus.Histogram
}

// NewTestManager returns a Manager on a throwaway registry.
func NewTestManager() *Manager {
	return NewManager("liftlog", "test", prometheus.NewRegistry())
}

// NewTestManagerAndRegistry is NewTestManager that also returns the registry for gathering.
func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("liftlog", "test", reg), reg
}

// NewManager creates every collector and registers it on reg.
// Registering twice on the same registerer panics.
func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterWorkoutsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workouts_recorded_total",
			Help:      "The total number of workout events recorded",
		}),
		CounterDifficultyTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "difficulty_transitions_total",
			Help:      "Movement tier changes by direction",
		}, []string{"direction"}),
		CounterLevelUps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "level_ups_total",
			Help:      "The total number of user level-ups",
		}),
		CounterAchievementsAwarded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "achievements_awarded_total",
			Help:      "Newly awarded achievements by achievement id",
		}, []string{"achievement"}),
		CounterRecordFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "record_failures_total",
			Help:      "The total number of rejected or failed workout recordings",
		}),
		HistWorkoutXP: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workout_xp",
			Help:      "XP granted per recorded workout",
			Buckets:   []float64{100, 150, 200, 250, 300, 400, 500, 650},
		}),
	}
}
