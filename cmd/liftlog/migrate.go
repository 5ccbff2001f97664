// ABOUTME: CLI command for copying another liftlog database into this one.
// ABOUTME: Used when moving data directories; refuses to merge into a populated log.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/spf13/cobra"
)

var migrateDryRun bool

var migrateCmd = &cobra.Command{
	Use:   "migrate <source.db>",
	Short: "Copy another liftlog database into the current one",
	Long: `Copy every movement tier, set, XP total, and achievement from another liftlog
SQLite database into the current data directory.

IMPORTANT:

  - The current database must not contain any sets yet
  - The copy runs in one transaction; on any error nothing is written
  - Run with --dry-run first to see what would be copied

USAGE:

  liftlog migrate ~/old/liftlog.db --dry-run
  liftlog migrate ~/old/liftlog.db --data-dir ~/new-location`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		srcPath := args[0]

		ok, err := storage.IsFileNonEmpty(srcPath)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no liftlog database at %s", srcPath)
		}
		if srcPath == cfg.GetDBPath() {
			return fmt.Errorf("source and destination are the same database")
		}

		src, err := storage.Open(srcPath)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer src.Close()

		if migrateDryRun {
			data, err := src.GetAllData(ctx)
			if err != nil {
				return fmt.Errorf("failed to read source: %w", err)
			}
			fmt.Fprintln(out, color.YellowString("Dry run mode - no changes will be made"))
			fmt.Fprintf(out, "Would copy %d movements, %d sets, %d users, %d achievements\n",
				len(data.Movements), len(data.Workouts), len(data.Progress), len(data.Achievements))
			return nil
		}

		summary, err := storage.MigrateData(ctx, src, repo)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Fprintln(out, color.GreenString("✓ Migrated from %s", srcPath))
		fmt.Fprintf(out, "  %d movements, %d sets, %d users, %d achievements\n",
			summary.Movements, summary.Workouts, summary.Users, summary.Achievements)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
