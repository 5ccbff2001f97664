// ABOUTME: Tests for the metrics manager.
// ABOUTME: Verifies collectors register on the given registry and count correctly.
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRegistersOnRegistry(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterWorkoutsRecorded.Inc()
	m.CounterDifficultyTransitions.WithLabelValues(DirectionPromoted).Inc()
	m.CounterAchievementsAwarded.WithLabelValues("weight_master").Inc()
	m.HistWorkoutXP.Observe(200)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["liftlog_test_workouts_recorded_total"])
	assert.True(t, names["liftlog_test_difficulty_transitions_total"])
	assert.True(t, names["liftlog_test_achievements_awarded_total"])
	assert.True(t, names["liftlog_test_workout_xp"])
}

func TestManagerCounts(t *testing.T) {
	m := NewTestManager()

	m.CounterDifficultyTransitions.WithLabelValues(DirectionDemoted).Inc()
	m.CounterDifficultyTransitions.WithLabelValues(DirectionDemoted).Inc()
	m.CounterLevelUps.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterDifficultyTransitions.WithLabelValues(DirectionDemoted)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CounterDifficultyTransitions.WithLabelValues(DirectionPromoted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterLevelUps))
}

func TestManagersAreIndependent(t *testing.T) {
	a := NewTestManager()
	b := NewTestManager()

	a.CounterRecordFailures.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CounterRecordFailures))
}
