// ABOUTME: Static level table and XP-per-workout formula.
// ABOUTME: Thirty levels on an exponential curve starting at 1000 XP.
package gamification

import (
	"fmt"
	"math"

	"github.com/harperreed/liftlog/internal/models"
)

const (
	MaxLevel = 30

	baseLevelXP  = 1000
	levelGrowth  = 1.5
	baseXP       = 100.0
	maxVolumeXP  = 100.0
	successBonus = 50.0
)

var titles = []string{
	"Novice Lifter", "Amateur Athlete", "Dedicated Trainee",
	"Elite Performer", "Master of Iron", "Olympic Prospect",
}

var multipliers = map[models.Difficulty]float64{
	models.Beginner:     1.0,
	models.Intermediate: 1.5,
	models.Advanced:     2.0,
	models.Elite:        3.0,
}

// LevelInfo describes a level's threshold and rewards.
type LevelInfo struct {
	Level      int      `json:"level"`
	Title      string   `json:"title"`
	XPRequired int64    `json:"xp_required"`
	Rewards    []string `json:"rewards"`
}

// Levels is the level table; Levels[i] is level i+1.
var Levels = buildLevels()

func buildLevels() []LevelInfo {
	levels := make([]LevelInfo, 0, MaxLevel)
	for level := 1; level <= MaxLevel; level++ {
		title := titles[min(len(titles)-1, (level-1)/5)]

		rewards := []string{
			fmt.Sprintf("'%s' Title Unlocked", title),
			fmt.Sprintf("Level %d Badge", level),
		}
		if level%5 == 0 {
			rewards = append(rewards, "Custom Avatar Frame")
		}
		if level%10 == 0 {
			rewards = append(rewards, "Special Effect Animation")
		}

		levels = append(levels, LevelInfo{
			Level:      level,
			Title:      fmt.Sprintf("%s %d", title, level),
			XPRequired: int64(math.Floor(baseLevelXP * math.Pow(levelGrowth, float64(level-1)))),
			Rewards:    rewards,
		})
	}
	return levels
}

// LevelFor returns the highest level whose threshold is at most total.
// Totals below the first threshold are level 1.
func LevelFor(total int64) LevelInfo {
	current := Levels[0]
	for _, l := range Levels {
		if total < l.XPRequired {
			break
		}
		current = l
	}
	return current
}

// NextLevel returns the level after level, if any.
func NextLevel(level int) (LevelInfo, bool) {
	if level < 1 || level >= MaxLevel {
		return LevelInfo{}, false
	}
	return Levels[level], true
}

// XPForWorkout scores an event by its tier snapshot, volume, and outcome.
func XPForWorkout(w *models.WorkoutEvent) int64 {
	mult, ok := multipliers[w.DifficultyLevel]
	if !ok {
		mult = 1.0
	}

	volumeBonus := math.Min(maxVolumeXP, w.Volume()/10)
	bonus := 0.0
	if w.CompletedSuccessfully {
		bonus = successBonus
	}
	return int64(math.Floor((baseXP+volumeBonus)*mult + bonus))
}
