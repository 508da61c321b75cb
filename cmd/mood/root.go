// ABOUTME: Root Cobra command for mood CLI.
// ABOUTME: Loads config, builds the logger, and manages the store lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/mood/internal/config"
	"github.com/harperreed/mood/internal/insights"
	"github.com/harperreed/mood/internal/logging"
	"github.com/harperreed/mood/internal/storage"
	"github.com/spf13/cobra"
)

// annotationNoStore marks commands that open storage themselves or not at all.
const annotationNoStore = "mood/no-store"

var (
	cfg    *config.Config
	store  *storage.Store
	svc    *insights.Service
	logger *log.Logger

	flagBackend   string
	flagDataDir   string
	flagTimezone  string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "mood",
	Short: "Personal mood tracker with wellness insights",
	Long: `Mood is a CLI tool for tracking how you feel and spotting what drives it.

WHAT IT TRACKS:

  Check-ins    morning and evening check-ins: mood, sleep, energy, stressors,
               day rating, end-of-day stress, gratitude, challenges
  Quick logs   a mood sample with an optional note, any time of day

WHAT IT COMPUTES:

  Wellness     a daily 0-100 score over the trailing week
  Patterns     time-of-day, weekday, sleep, energy, trigger, and streak patterns
  Predictions  tomorrow's stress, mood dips, and your best time of day
  Warning      signs of a sustained low, escalating from low to high severity

QUICK START:

  $ mood checkin calm --sleep 7 --energy high   # Morning check-in
  $ mood checkin tired --day-rating 6           # Evening check-in (after 18:00)
  $ mood log anxious "big meeting"              # Quick mood log
  $ mood list                                   # See recent check-ins
  $ mood analyze                                # Recompute all insights

STORAGE:

  The backend is chosen by config (~/.config/mood/config.json), MOOD_BACKEND,
  or --backend: sqlite (default), badger, charm, or redis.

MCP INTEGRATION:

  Run 'mood mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "mood": { "command": "mood", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		if err := config.LoadDotEnv(".env"); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlags(cfg)

		logger = logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

		if cmd.Annotations[annotationNoStore] == "true" {
			return nil
		}
		return openService()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite, badger, charm, redis")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory for sqlite and badger")
	rootCmd.PersistentFlags().StringVar(&flagTimezone, "timezone", "", "IANA time zone for dates (default: local)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text, json, logfmt")
}

// applyFlags lets explicit flags win over config file and environment.
func applyFlags(c *config.Config) {
	if flagBackend != "" {
		c.Backend = flagBackend
	}
	if flagDataDir != "" {
		c.DataDir = flagDataDir
	}
	if flagTimezone != "" {
		c.Timezone = flagTimezone
	}
	if flagLogLevel != "" {
		c.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		c.LogFormat = flagLogFormat
	}
}

// closeStore releases the store. PersistentPostRunE is skipped when a
// command fails, so openService also calls it before opening.
func closeStore() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	svc = nil
	return err
}

func openService() error {
	if err := closeStore(); err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	store, err = cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}
	store.SetLogger(logger)

	svc = insights.NewService(store,
		insights.WithLogger(logger),
		insights.WithLocation(loc),
	)
	return nil
}
