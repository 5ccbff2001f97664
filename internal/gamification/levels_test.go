// ABOUTME: Tests for the level table and XP formula.
// ABOUTME: Covers thresholds, titles, rewards, and the worked XP examples.
package gamification

import (
	"testing"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelTable(t *testing.T) {
	require.Len(t, Levels, MaxLevel)

	assert.Equal(t, int64(1000), Levels[0].XPRequired)
	assert.Equal(t, int64(1500), Levels[1].XPRequired)
	assert.Equal(t, int64(2250), Levels[2].XPRequired)
	assert.Equal(t, int64(5062), Levels[4].XPRequired)

	for i := 1; i < len(Levels); i++ {
		assert.Greater(t, Levels[i].XPRequired, Levels[i-1].XPRequired)
	}

	assert.Equal(t, "Novice Lifter 1", Levels[0].Title)
	assert.Equal(t, "Amateur Athlete 6", Levels[5].Title)
	assert.Equal(t, "Olympic Prospect 26", Levels[25].Title)
	assert.Equal(t, "Olympic Prospect 30", Levels[29].Title)
}

func TestLevelRewards(t *testing.T) {
	assert.Equal(t, []string{"'Novice Lifter' Title Unlocked", "Level 2 Badge"}, Levels[1].Rewards)
	assert.Contains(t, Levels[4].Rewards, "Custom Avatar Frame")
	assert.NotContains(t, Levels[4].Rewards, "Special Effect Animation")
	assert.Len(t, Levels[9].Rewards, 4)
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		total int64
		want  int
	}{
		{0, 1},
		{999, 1},
		{1000, 1},
		{1499, 1},
		{1500, 2},
		{2250, 3},
		{1 << 40, MaxLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.total).Level, "LevelFor(%d)", tt.total)
	}
}

func TestNextLevel(t *testing.T) {
	next, ok := NextLevel(1)
	require.True(t, ok)
	assert.Equal(t, 2, next.Level)

	_, ok = NextLevel(MaxLevel)
	assert.False(t, ok)
}

func TestXPForWorkout(t *testing.T) {
	tests := []struct {
		name string
		w    *models.WorkoutEvent
		want int64
	}{
		{
			name: "beginner failed trivial weight",
			w:    models.NewWorkoutEvent("alice", "Clean", 1, 1).WithCompleted(false),
			want: 100,
		},
		{
			name: "beginner success",
			w:    models.NewWorkoutEvent("alice", "Clean", 40, 5),
			want: 170,
		},
		{
			name: "elite success with no volume",
			w:    models.NewWorkoutEvent("alice", "Push-ups", 0, 20).WithDifficulty(models.Elite),
			want: 350,
		},
		{
			name: "elite success 50kg x 5",
			w:    models.NewWorkoutEvent("alice", "Clean", 50, 5).WithDifficulty(models.Elite),
			want: 425,
		},
		{
			name: "volume bonus is capped",
			w:    models.NewWorkoutEvent("alice", "Deadlift", 200, 10).WithDifficulty(models.Intermediate),
			want: 350,
		},
		{
			name: "advanced failure floors",
			w:    models.NewWorkoutEvent("alice", "Snatch", 33, 1).WithDifficulty(models.Advanced).WithCompleted(false),
			want: 206,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, XPForWorkout(tt.w))
		})
	}
}
