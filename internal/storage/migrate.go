// ABOUTME: Data migration between mood storage backends.
// ABOUTME: Copies check-ins, logs, wellness history, and insights from source to destination.

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	CheckIns       int
	QuickLogs      int
	WellnessScores int
	Patterns       int
	Predictions    int
}

// MigrateData copies all data from src to dst storage.
// Records already present in dst (same ID) are skipped, so re-running a
// migration is safe.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	data, err := src.GetAllData()
	if err != nil {
		return nil, fmt.Errorf("read source data: %w", err)
	}

	imported, err := dst.ImportData(data)
	if err != nil {
		return nil, fmt.Errorf("write destination data: %w", err)
	}

	return &MigrateSummary{
		CheckIns:       imported.CheckIns,
		QuickLogs:      imported.QuickLogs,
		WellnessScores: imported.WellnessScores,
		Patterns:       len(data.Patterns),
		Predictions:    len(data.Predictions),
	}, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
