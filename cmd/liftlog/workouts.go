// ABOUTME: CLI commands for listing workouts, movements, and personal records.
// ABOUTME: Supports filtering workouts by movement, date range, and limit.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	workoutsMovement string
	workoutsFrom     string
	workoutsTo       string
	workoutsLimit    int
	workoutsAllUsers bool
)

var workoutsCmd = &cobra.Command{
	Use:     "workouts",
	Aliases: []string{"ls", "list"},
	Short:   "List logged sets",
	Long: `List logged sets, newest first.

OUTPUT FORMAT:

  Each line shows: ID  DATE  MOVEMENT  WEIGHT x REPS  TIER  (NOTES)

  The ID is an 8-character prefix. Missed sets are marked with ✗.

EXAMPLES:

  liftlog workouts                          # Last 20 sets for the current user
  liftlog workouts --movement clean         # Only cleans
  liftlog workouts --from 2025-01-01 -n 100 # Everything this year
  liftlog workouts --all-users              # Every user's sets`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := storage.WorkoutFilter{
			Movement: workoutsMovement,
			Limit:    workoutsLimit,
		}
		if !workoutsAllUsers {
			f.UserID = currentUser()
		}
		var err error
		if workoutsFrom != "" {
			if f.From, err = parseTime(workoutsFrom); err != nil {
				return fmt.Errorf("invalid --from date: %s", workoutsFrom)
			}
		}
		if workoutsTo != "" {
			if f.To, err = parseTime(workoutsTo); err != nil {
				return fmt.Errorf("invalid --to date: %s", workoutsTo)
			}
		}

		workouts, err := eng.ListWorkouts(cmd.Context(), f)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(workouts) == 0 {
			fmt.Fprintln(out, "No workouts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range workouts {
			mark := " "
			if !w.CompletedSuccessfully {
				mark = color.YellowString("✗")
			}
			notes := ""
			if w.Notes != nil && *w.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*w.Notes, 30))
			}
			user := ""
			if workoutsAllUsers {
				user = faint.Sprintf(" @%s", w.UserID)
			}
			fmt.Fprintf(out, "%s %s %s %s %7.1f x %-3d %s%s%s\n",
				faint.Sprint(w.ID.String()[:8]),
				w.Date.Format("2006-01-02"),
				mark,
				padRight(w.Movement, 20),
				w.Weight, w.Reps,
				faint.Sprint(w.DifficultyLevel),
				user,
				notes)
		}
		return nil
	},
}

var movementsCmd = &cobra.Command{
	Use:   "movements",
	Short: "List the movement catalog with current tiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		movements, err := eng.Movements(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list movements: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, m := range movements {
			fmt.Fprintf(out, "%s %s %s\n",
				padRight(m.Name, 20),
				padRight(m.CurrentDifficulty.String(), 13),
				color.New(color.Faint).Sprintf("window %d", m.ProgressionThreshold))
		}
		return nil
	},
}

var prsCmd = &cobra.Command{
	Use:   "prs",
	Short: "Show personal records for every movement",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := eng.PersonalRecords(cmd.Context(), currentUser())
		if err != nil {
			return fmt.Errorf("failed to load personal records: %w", err)
		}

		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		for _, pr := range records {
			if !pr.Logged {
				fmt.Fprintf(out, "%s %s\n", padRight(pr.Movement, 20), faint.Sprint("-"))
				continue
			}
			fmt.Fprintf(out, "%s %.1f kg\n", padRight(pr.Movement, 20), pr.Weight)
		}
		return nil
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	workoutsCmd.Flags().StringVarP(&workoutsMovement, "movement", "m", "", "filter by movement")
	workoutsCmd.Flags().StringVar(&workoutsFrom, "from", "", "earliest date (YYYY-MM-DD)")
	workoutsCmd.Flags().StringVar(&workoutsTo, "to", "", "latest date (YYYY-MM-DD)")
	workoutsCmd.Flags().IntVarP(&workoutsLimit, "limit", "n", 20, "max number of results")
	workoutsCmd.Flags().BoolVar(&workoutsAllUsers, "all-users", false, "include every user's sets")

	rootCmd.AddCommand(workoutsCmd)
	rootCmd.AddCommand(movementsCmd)
	rootCmd.AddCommand(prsCmd)
}
