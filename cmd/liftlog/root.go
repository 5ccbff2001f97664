// ABOUTME: Root Cobra command for the liftlog CLI.
// ABOUTME: Loads config, sets up logging, and opens the engine via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/liftlog/internal/config"
	"github.com/harperreed/liftlog/internal/engine"
	"github.com/harperreed/liftlog/internal/logging"
	"github.com/harperreed/liftlog/internal/metrics"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfg        *config.Config
	repo       storage.Repository
	eng        *engine.Engine
	metricsReg *prometheus.Registry

	userFlag      string
	dataDirFlag   string
	logLevelFlag  string
	logJSONFlag   bool
	logStderrFlag bool
)

// commands that never touch the database
var noStorage = map[string]bool{
	"help":          true,
	"version":       true,
	"levels":        true,
	"install-skill": true,
	"completion":    true,
}

var rootCmd = &cobra.Command{
	Use:   "liftlog",
	Short: "Strength training log with difficulty progression and analytics",
	Long: `Liftlog records strength and conditioning sets and turns them into training
feedback: per-movement difficulty tiers, recovery and strain scores, personal
record forecasts, and an XP/level ledger with achievements.

HOW PROGRESSION WORKS:

  Every catalog movement has a difficulty tier (BEGINNER, INTERMEDIATE,
  ADVANCED, ELITE). After each logged set the last N sets of that movement
  (N = progression threshold, default 3) are checked:

    all N successful        -> promote one tier
    fewer than N/2 succeed  -> demote one tier

  Each set stores the tier it was logged at; XP is based on that tier.

QUICK START:

  $ liftlog log "Back Squat" 100 5           # Log a successful set
  $ liftlog log clean 80 3 --failed          # Log a missed set
  $ liftlog status                           # Tiers, bests, streak
  $ liftlog recovery                         # Strain today, recovery now
  $ liftlog forecast "Back Squat"            # 30-day PR forecast
  $ liftlog progress                         # XP, level, achievements

MCP INTEGRATION:

  Run 'liftlog mcp' to start the Model Context Protocol server for use with
  MCP-compatible AI assistants:

  {
    "mcpServers": {
      "liftlog": { "command": "liftlog", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data is stored in SQLite at ~/.local/share/liftlog/liftlog.db.
  Override with --data-dir, LIFTLOG_DATA_DIR, or data_dir in
  ~/.config/liftlog/config.json.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dataDirFlag != "" {
			cfg.DataDir = dataDirFlag
		}
		if logLevelFlag != "" {
			cfg.LogLevel = logLevelFlag
		}

		if noStorage[cmd.Name()] {
			return nil
		}

		if err := logging.Setup(logging.Params{
			Level:    cfg.GetLogLevel(),
			File:     cfg.GetLogFile(),
			ToStderr: logStderrFlag,
			JSON:     logJSONFlag,
		}); err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}

		repo, err = cfg.OpenStorage(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		metricsReg = prometheus.NewRegistry()
		eng = engine.New(repo, metrics.NewManager("liftlog", "engine", metricsReg), logrus.StandardLogger())

		logrus.WithFields(logrus.Fields{"command": cmd.Name(), "db": cfg.GetDBPath()}).Debug("storage opened")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo == nil {
			return nil
		}
		err := repo.Close()
		repo, eng = nil, nil
		return err
	},
}

// currentUser resolves --user, then the configured default user.
func currentUser() string {
	if userFlag != "" {
		return userFlag
	}
	if cfg != nil {
		return cfg.GetDefaultUser()
	}
	return config.DefaultUser
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user ID (default from config or LIFTLOG_USER)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default ~/.local/share/liftlog)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSONFlag, "log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&logStderrFlag, "log-stderr", false, "copy logs to stderr as well as the log file")
}
