// ABOUTME: Achievement definitions and the EarnedAchievement ledger record.
// ABOUTME: An award is unique per (achievement, user, movement) triple.
package models

import (
	"time"

	"github.com/google/uuid"
)

// AchievementID identifies an achievement definition.
type AchievementID string

const (
	AchievementWeightMaster    AchievementID = "weight_master"
	AchievementConsistencyKing AchievementID = "consistency_king"
	AchievementMovementExpert  AchievementID = "movement_expert"
	AchievementEliteStatus     AchievementID = "elite_status"
)

// Achievement describes an unlockable achievement.
type Achievement struct {
	ID          AchievementID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
}

// Achievements maps every known achievement ID to its definition.
var Achievements = map[AchievementID]Achievement{
	AchievementWeightMaster: {
		ID:          AchievementWeightMaster,
		Name:        "Weight Master",
		Description: "Lift 100kg or more in any movement",
	},
	AchievementConsistencyKing: {
		ID:          AchievementConsistencyKing,
		Name:        "Consistency King",
		Description: "Log workouts for 7 consecutive days",
	},
	AchievementMovementExpert: {
		ID:          AchievementMovementExpert,
		Name:        "Movement Expert",
		Description: "Reach ADVANCED level in a movement",
	},
	AchievementEliteStatus: {
		ID:          AchievementEliteStatus,
		Name:        "Elite Status",
		Description: "Reach ELITE level in a movement",
	},
}

// EarnedAchievement records that a user unlocked an achievement.
// MovementName is empty for achievements that are not tied to a movement.
type EarnedAchievement struct {
	ID            uuid.UUID     `json:"id" yaml:"id"`
	AchievementID AchievementID `json:"achievement_id" yaml:"achievement_id"`
	UserID        string        `json:"user_id" yaml:"user_id"`
	DateEarned    time.Time     `json:"date_earned" yaml:"date_earned"`
	MovementName  string        `json:"movement_name,omitempty" yaml:"movement_name,omitempty"`
}

// NewEarnedAchievement creates an award stamped with the given time.
func NewEarnedAchievement(id AchievementID, userID, movement string, at time.Time) *EarnedAchievement {
	return &EarnedAchievement{
		ID:            uuid.New(),
		AchievementID: id,
		UserID:        userID,
		DateEarned:    at,
		MovementName:  movement,
	}
}
