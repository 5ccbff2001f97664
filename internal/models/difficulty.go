// ABOUTME: Difficulty tier enum for movements and workout snapshots.
// ABOUTME: Ordered BEGINNER < INTERMEDIATE < ADVANCED < ELITE with single-step Next/Prev.
package models

import (
	"fmt"
	"strings"
)

// Difficulty is a movement's progression tier.
type Difficulty int

const (
	Beginner Difficulty = iota + 1
	Intermediate
	Advanced
	Elite
)

// AllDifficulties lists every tier in ascending order.
var AllDifficulties = []Difficulty{Beginner, Intermediate, Advanced, Elite}

var difficultyNames = map[Difficulty]string{
	Beginner:     "BEGINNER",
	Intermediate: "INTERMEDIATE",
	Advanced:     "ADVANCED",
	Elite:        "ELITE",
}

// String returns the upper-case tier name.
func (d Difficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// IsValid reports whether d is one of the four tiers.
func (d Difficulty) IsValid() bool {
	_, ok := difficultyNames[d]
	return ok
}

// Next returns the tier above d. ELITE has no next tier.
func (d Difficulty) Next() (Difficulty, bool) {
	switch d {
	case Beginner:
		return Intermediate, true
	case Intermediate:
		return Advanced, true
	case Advanced:
		return Elite, true
	default:
		return d, false
	}
}

// Prev returns the tier below d. BEGINNER has no previous tier.
func (d Difficulty) Prev() (Difficulty, bool) {
	switch d {
	case Elite:
		return Advanced, true
	case Advanced:
		return Intermediate, true
	case Intermediate:
		return Beginner, true
	default:
		return d, false
	}
}

// ParseDifficulty parses a tier name case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for d, name := range difficultyNames {
		if name == upper {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("invalid difficulty: %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
