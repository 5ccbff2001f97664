// ABOUTME: CLI commands for the XP ledger: progress, achievements, and the level table.
// ABOUTME: The level table is static and does not open the database.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/liftlog/internal/gamification"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show XP, level, and recent achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		user := currentUser()
		out := cmd.OutOrStdout()

		p, err := eng.UserProgress(cmd.Context(), user)
		if errors.Is(err, models.ErrNotFound) {
			fmt.Fprintf(out, "No XP yet for %s. Log a set to get started.\n", user)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}

		bold := color.New(color.Bold)
		fmt.Fprintf(out, "%s  %s\n", bold.Sprint(p.CurrentLevel.Title), color.New(color.Faint).Sprint(user))
		fmt.Fprintf(out, "Total XP: %d\n", p.TotalXP)

		stats, err := eng.ProgressStats(cmd.Context(), user)
		if err != nil {
			return fmt.Errorf("failed to load progress stats: %w", err)
		}
		fmt.Fprintf(out, "Sets:     %d (%d successful), %.1f kg total volume\n",
			stats.TotalWorkouts, stats.SuccessfulWorkouts, stats.TotalVolume)
		if p.NextLevel != nil {
			fmt.Fprintf(out, "Next:     %s at %d XP  %s\n", p.NextLevel.Title, p.NextLevel.XPRequired, progressBar(p.ProgressPercent))
		} else {
			fmt.Fprintln(out, color.MagentaString("Max level reached"))
		}

		if len(p.RecentAchievements) > 0 {
			fmt.Fprintln(out, "\nRecent achievements:")
			printAchievements(cmd, p.RecentAchievements)
		}
		return nil
	},
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List earned achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		views, err := eng.Achievements(cmd.Context(), currentUser())
		if err != nil {
			return fmt.Errorf("failed to list achievements: %w", err)
		}
		if len(views) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No achievements earned yet.")
			return nil
		}
		printAchievements(cmd, views)
		return nil
	},
}

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the level table",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		for _, l := range gamification.Levels {
			fmt.Fprintf(out, "%s %9d XP  %s\n",
				padRight(l.Title, 22), l.XPRequired, faint.Sprint(strings.Join(l.Rewards, ", ")))
		}
		return nil
	},
}

func printAchievements(cmd *cobra.Command, views []gamification.AchievementView) {
	out := cmd.OutOrStdout()
	faint := color.New(color.Faint)
	for _, a := range views {
		name := a.Name
		if a.MovementName != "" {
			name += " (" + a.MovementName + ")"
		}
		fmt.Fprintf(out, "  %s %s %s\n",
			color.YellowString("★"),
			padRight(name, 34),
			faint.Sprint(a.DateEarned.Format("2006-01-02")))
	}
}

func init() {
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(levelsCmd)
}
