// ABOUTME: Repository interface for mood record storage.
// ABOUTME: Defines the record store contract, persisted keys, and sentinel errors.
package storage

import (
	"errors"
	"time"

	"github.com/harperreed/mood/internal/models"
)

// Persisted keys. Each key holds one JSON document.
const (
	KeyCheckIns       = "moodCheckIns"
	KeyQuickLogs      = "quickMoodLogs"
	KeyWellnessScores = "wellnessHistory"
	KeyPatterns       = "userPatterns"
	KeyPredictions    = "predictions"
	KeyEarlyWarning   = "earlyWarning"
	KeyLastAnalysis   = "lastAnalysis"
)

// AllKeys lists every persisted key.
var AllKeys = []string{
	KeyCheckIns, KeyQuickLogs, KeyWellnessScores, KeyPatterns,
	KeyPredictions, KeyEarlyWarning, KeyLastAnalysis,
}

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrReadOnly is returned when the backend refuses writes.
	ErrReadOnly = errors.New("store is read-only")
)

// Repository defines the storage interface for mood records.
// Check-ins and quick logs are append-only. Patterns and predictions are
// replaced wholesale on each save; wellness scores accumulate as history,
// one entry per date.
type Repository interface {
	// Source records
	AppendCheckIn(c *models.CheckIn) error
	AppendQuickLog(q *models.QuickLog) error
	ListCheckIns() ([]*models.CheckIn, error)
	ListQuickLogs() ([]*models.QuickLog, error)
	CheckInsByDate(date string) ([]*models.CheckIn, error)
	FindCheckIn(date string, checkInType models.CheckInType) (*models.CheckIn, error)
	HasCheckIn(date string, checkInType models.CheckInType) (bool, error)

	// Derived records
	SaveWellnessScore(w *models.WellnessScore) error
	ListWellnessScores() ([]*models.WellnessScore, error)
	SavePatterns(patterns []*models.PatternInsight) error
	ListPatterns() ([]*models.PatternInsight, error)
	SavePredictions(predictions []*models.PredictiveInsight) error
	ListPredictions() ([]*models.PredictiveInsight, error)
	SaveEarlyWarning(w *models.EarlyWarning) error
	GetEarlyWarning() (*models.EarlyWarning, error)
	LastAnalysis() (time.Time, error)

	// Snapshot
	GetMoodData() (*models.MoodData, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) (*ImportSummary, error)

	// Lifecycle
	ClearAll() error
	Close() error
}
