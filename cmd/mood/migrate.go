// ABOUTME: CLI command for migrating mood data between storage backends.
// ABOUTME: Copies records from one backend to another; re-running is safe.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/mood/internal/config"
	"github.com/harperreed/mood/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between storage backends",
	Long: `Copy all mood data from one storage backend to another.

Check-ins, quick logs, and wellness history already present in the
destination (same ID, or same date for wellness) are skipped, so running
the migration twice does not duplicate anything. Stored insights in the
destination are replaced by the source's.

BACKENDS:

  sqlite   <data-dir>/mood.db (default)
  badger   <data-dir>/badger
  charm    Charm KV with cloud sync
  redis    redis_url from config or MOOD_REDIS_URL

USAGE:

  mood migrate --to badger --dry-run    # Preview what would be copied
  mood migrate --to badger              # Copy from the configured backend
  mood migrate --from charm --to sqlite # Copy between explicit backends

AFTER MIGRATION:

  Point the config at the new backend:
    "backend": "badger" in ~/.config/mood/config.json, or MOOD_BACKEND=badger`,
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		srcCfg, dstCfg := *cfg, *cfg
		if migrateFrom != "" {
			srcCfg.Backend = migrateFrom
		}
		dstCfg.Backend = migrateTo
		if srcCfg.GetBackend() == dstCfg.GetBackend() {
			return errors.New("source and destination backends are the same")
		}

		src, err := srcCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open source %s: %w", srcCfg.GetBackend(), err)
		}
		defer src.Close()

		if migrateDryRun {
			color.New(color.FgYellow).Fprintln(out, "Dry run mode - no changes will be made")
			fmt.Fprintln(out)

			data, err := src.GetAllData()
			if err != nil {
				return fmt.Errorf("failed to read source: %w", err)
			}
			fmt.Fprintf(out, "Would migrate from %s to %s:\n", srcCfg.GetBackend(), dstCfg.GetBackend())
			fmt.Fprintf(out, "  Check-ins: %d\n", len(data.CheckIns))
			fmt.Fprintf(out, "  Quick logs: %d\n", len(data.QuickLogs))
			fmt.Fprintf(out, "  Wellness scores: %d\n", len(data.WellnessScores))
			fmt.Fprintf(out, "  Patterns: %d\n", len(data.Patterns))
			fmt.Fprintf(out, "  Predictions: %d\n", len(data.Predictions))
			return nil
		}

		if existing, err := destinationHasData(&dstCfg); err != nil {
			return err
		} else if existing {
			color.New(color.FgYellow).Fprintf(out, "Destination %s already has data; records will be merged.\n", dstCfg.StoragePath())
		}

		dst, err := dstCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open destination %s: %w", dstCfg.GetBackend(), err)
		}
		defer dst.Close()

		// One sync at the end instead of one per write.
		cb, toCharm := dst.Backend().(*storage.CharmBackend)
		if toCharm {
			cb.SetAutoSync(false)
		}

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		if toCharm {
			if err := cb.Sync(); err != nil {
				color.New(color.FgYellow).Fprintf(out, "⚠ Sync after migration failed: %v\n", err)
			}
		}

		color.New(color.FgGreen).Fprintf(out, "✓ Migrated from %s to %s\n", srcCfg.GetBackend(), dstCfg.GetBackend())
		fmt.Fprintf(out, "  Check-ins: %d\n", summary.CheckIns)
		fmt.Fprintf(out, "  Quick logs: %d\n", summary.QuickLogs)
		fmt.Fprintf(out, "  Wellness scores: %d\n", summary.WellnessScores)
		fmt.Fprintf(out, "  Patterns: %d\n", summary.Patterns)
		fmt.Fprintf(out, "  Predictions: %d\n", summary.Predictions)
		return nil
	},
}

func destinationHasData(c *config.Config) (bool, error) {
	path := c.StoragePath()
	switch c.GetBackend() {
	case config.BackendBadger:
		return storage.IsDirNonEmpty(path)
	case config.BackendSQLite:
		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return err == nil, err
	default:
		return false, nil
	}
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source backend (default: configured backend)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: "+strings.Join(backendNames, ", "))
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}

var backendNames = []string{config.BackendSQLite, config.BackendBadger, config.BackendCharm, config.BackendRedis}
