// ABOUTME: Movement model and the fixed movement catalog.
// ABOUTME: Catalog lookups are case-insensitive and return the canonical name.
package models

import "strings"

// DefaultProgressionThreshold is the rolling window size used when seeding movements.
const DefaultProgressionThreshold = 3

// Movement is a catalog entry whose tier is driven by the progression state machine.
type Movement struct {
	Name                 string     `json:"name" yaml:"name"`
	CurrentDifficulty    Difficulty `json:"current_difficulty" yaml:"current_difficulty"`
	ProgressionThreshold int        `json:"progression_threshold" yaml:"progression_threshold"`
}

// PrimaryMovements are the lifts shown on status summaries.
var PrimaryMovements = []string{
	"Strict Press", "Push Press", "Clean", "Jerk",
	"Snatch", "Overhead Squat", "Front Squat",
	"Back Squat", "Deadlift", "Bench Press",
}

// Catalog is every movement a workout may be logged against.
var Catalog = []string{
	// Olympic lifts and barbell strength
	"Strict Press", "Push Press", "Clean", "Jerk",
	"Clean and Jerk", "Snatch", "Overhead Squat",
	"Back Squat", "Front Squat", "Deadlift",
	"Bench Press", "Sumo Deadlift", "RDL",

	// Bodyweight
	"Burpees", "Pull-ups", "Toes To Bar",
	"Handstand Push-ups", "Push-ups", "Air Squats",
	"Bodyweight Lunges",

	// Dumbbell/Kettlebell
	"KB Swings", "DB Snatches", "DB Clean & Jerks",
	"DB Thrusters", "Barbell Thrusters",

	// Cardio equipment
	"Row Calories", "Bike Erg Calories",
	"Ski Erg Calories", "Echo Bike Calories",
}

// LookupMovement returns the canonical catalog name for a case-insensitive match.
func LookupMovement(name string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}
	for _, m := range Catalog {
		if strings.ToLower(m) == needle {
			return m, true
		}
	}
	return "", false
}
