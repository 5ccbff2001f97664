// ABOUTME: CLI command for logging a set of a catalog movement.
// ABOUTME: Prints XP, tier changes, level-ups, and new achievements.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/liftlog/internal/engine"
	"github.com/spf13/cobra"
)

var (
	logDate   string
	logNotes  string
	logFailed bool
)

var logCmd = &cobra.Command{
	Use:     "log <movement> <weight> <reps>",
	Aliases: []string{"add", "a"},
	Short:   "Log a set",
	Long: `Log a set of a catalog movement. Movement names are case-insensitive;
quote names that contain spaces. Weight is in kg (use 0 for bodyweight).

The set is stored with the movement's current difficulty tier, then the tier
is re-evaluated and XP and achievements are credited, all at once.

Examples:
  liftlog log "Back Squat" 100 5
  liftlog log clean 80 3 --failed
  liftlog log pull-ups 0 12 --date 2025-03-01 --notes "strict"
  liftlog log deadlift 140 1 --user bob`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[1])
		}
		reps, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid reps: %s", args[2])
		}

		date := time.Now()
		if logDate != "" {
			date, err = parseTime(logDate)
			if err != nil {
				return fmt.Errorf("invalid date: %s", logDate)
			}
		}

		res, err := eng.RecordWorkout(cmd.Context(), engine.WorkoutInput{
			UserID:    currentUser(),
			Movement:  args[0],
			Date:      date,
			Weight:    weight,
			Reps:      reps,
			Notes:     logNotes,
			Completed: !logFailed,
		})
		if err != nil {
			return fmt.Errorf("failed to log set: %w", err)
		}

		out := cmd.OutOrStdout()
		w := res.Workout
		outcome := color.GreenString("✓")
		if !w.CompletedSuccessfully {
			outcome = color.YellowString("✗")
		}
		fmt.Fprintf(out, "%s Logged %s %.1fkg x %d %s\n",
			outcome, w.Movement, w.Weight, w.Reps,
			color.New(color.Faint).Sprintf("[%s] %s", w.DifficultyLevel, w.ID.String()[:8]))
		fmt.Fprintf(out, "  +%d XP (total %d)\n", res.Progress.XPGained, res.Progress.TotalXP)

		if p := res.Progression; p.Transition.Changed() {
			fmt.Fprintf(out, "  %s %s %s -> %s\n",
				color.CyanString("Tier"), p.Movement, p.From, color.New(color.Bold).Sprint(p.To))
		}
		if lvl := res.Progress.NewLevel; lvl != nil {
			fmt.Fprintf(out, "  %s %s (%s)\n",
				color.MagentaString("Level up!"), lvl.Title, strings.Join(lvl.Rewards, ", "))
		}
		for _, a := range res.Progress.AchievementsEarned {
			fmt.Fprintf(out, "  %s %s - %s\n", color.YellowString("★"), a.Name, a.Description)
		}
		return nil
	},
}

// parseTime accepts a date, a date and time, or RFC 3339.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "workout date (YYYY-MM-DD), defaults to today")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "notes for the set")
	logCmd.Flags().BoolVar(&logFailed, "failed", false, "mark the set as not completed")
	rootCmd.AddCommand(logCmd)
}
