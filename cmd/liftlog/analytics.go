// ABOUTME: CLI commands for training analytics: status, recovery, and PR forecasts.
// ABOUTME: Degraded scores are shown with their error instead of failing the command.
package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/recovery"
	"github.com/spf13/cobra"
)

var (
	recoveryAt       string
	forecastAllUsers bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show primary movement tiers, bests, streak, and training load",
	RunE: func(cmd *cobra.Command, args []string) error {
		user := currentUser()
		status, err := eng.MovementStatus(cmd.Context(), user)
		if err != nil {
			return fmt.Errorf("failed to load movement status: %w", err)
		}
		streak, err := eng.WorkoutStreak(cmd.Context(), user)
		if err != nil {
			return fmt.Errorf("failed to load streak: %w", err)
		}

		out := cmd.OutOrStdout()
		bold := color.New(color.Bold)
		fmt.Fprintf(out, "%s %s\n\n", bold.Sprint("Training status for"), user)
		for _, s := range status {
			fmt.Fprintf(out, "%s %s %7.1f kg  %s\n",
				padRight(s.Name, 16),
				padRight(s.Difficulty.String(), 13),
				s.PersonalBest,
				progressBar(s.ProgressToNext))
		}
		fmt.Fprintf(out, "\nStreak: %s\n", bold.Sprintf("%d day(s)", streak))

		load, err := eng.TrainingLoad(cmd.Context(), user)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load training load: %w", err)
		}
		fmt.Fprintf(out, "\nLoad:      %7.1f  %s\n", load.CurrentLoad, load.LoadStatus)
		fmt.Fprintf(out, "Recovery:  %7d  %s\n", load.RecoveryScore, load.RecoveryStatus)
		fmt.Fprintf(out, "Readiness: %7d  %s\n", load.ReadinessScore, load.ReadinessStatus)
		return nil
	},
}

var recoveryCmd = &cobra.Command{
	Use:   "recovery",
	Short: "Score today's strain and current recovery",
	Long: `Score training strain for a day and recovery at a point in time, each 1-10.

Strain looks at the day's sets: volume, intensity relative to your PRs, and
how often you trained that week. Recovery looks at the prior seven days: time
since you last trained and the decayed training load.

Examples:
  liftlog recovery
  liftlog recovery --at 2025-03-01
  liftlog recovery --at "2025-03-01 07:30"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		at := time.Now()
		if recoveryAt != "" {
			t, err := parseTime(recoveryAt)
			if err != nil {
				return fmt.Errorf("invalid --at: %s", recoveryAt)
			}
			at = t
		}

		report, err := eng.RecoveryAndStrain(cmd.Context(), currentUser(), at)
		if err != nil {
			return fmt.Errorf("failed to score recovery: %w", err)
		}

		out := cmd.OutOrStdout()
		printScore(out, "Strain", report.Date, report.Strain)
		printScore(out, "Recovery", at.Format("2006-01-02 15:04"), report.Recovery)
		return nil
	},
}

var forecastCmd = &cobra.Command{
	Use:   "forecast <movement>",
	Short: "Forecast a movement's PR 30 days out",
	Long: `Fit a trend line through a movement's logged weights and project it 30 days
past the last session. The forecast never exceeds the current PR by more than
15% and is rounded to the nearest 0.5 kg. At least 5 sets are needed.

Examples:
  liftlog forecast "Back Squat"
  liftlog forecast snatch --all-users`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user := currentUser()
		if forecastAllUsers {
			user = ""
		}

		report, err := eng.PRForecast(cmd.Context(), args[0], user)
		if err != nil {
			return fmt.Errorf("failed to forecast: %w", err)
		}

		out := cmd.OutOrStdout()
		f := report.Forecast
		bold := color.New(color.Bold)
		fmt.Fprintf(out, "%s (%d sets)\n", bold.Sprint(report.Movement), report.DataPoints)
		fmt.Fprintf(out, "  Current PR:  %.1f kg\n", f.CurrentPR)
		if f.PredictedWeight != nil {
			fmt.Fprintf(out, "  Forecast:    %s\n", color.GreenString("%.1f kg", *f.PredictedWeight))
			fmt.Fprintf(out, "  Confidence:  %.0f%%\n", f.Confidence*100)
			fmt.Fprintf(out, "  Trend:       %+.2f kg/day\n", f.ImprovementRate)
		}
		fmt.Fprintf(out, "\n%s\n\n%s\n", f.Message, report.Insights)
		return nil
	},
}

func printScore(out io.Writer, label, when string, s *recovery.Score) {
	if s.Degraded() {
		fmt.Fprintf(out, "%s %s: %s\n", padRight(label, 9), when, color.RedString("%s (%s)", s.Message, s.Error))
		return
	}
	fmt.Fprintf(out, "%s %s: %s  %s\n", padRight(label, 9), when,
		color.New(color.Bold).Sprintf("%4.1f", s.Score), s.Message)
}

func progressBar(pct int) string {
	const width = 10
	filled := max(0, min(width, pct*width/100))
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

func init() {
	recoveryCmd.Flags().StringVar(&recoveryAt, "at", "", "date or timestamp to score (default now)")
	forecastCmd.Flags().BoolVar(&forecastAllUsers, "all-users", false, "use every user's sets")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(recoveryCmd)
	rootCmd.AddCommand(forecastCmd)
}
