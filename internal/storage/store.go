// ABOUTME: Generic JSON-document store shared by every storage backend.
// ABOUTME: Implements Repository as read-modify-write over per-key JSON blobs.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/mood/internal/logging"
	"github.com/harperreed/mood/internal/models"
)

// Backend is the byte-level key-value contract each storage engine provides.
// Get returns (nil, nil) for a missing key.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Store implements Repository on top of a Backend.
type Store struct {
	backend Backend
	name    string
	logger  *log.Logger
	now     func() time.Time

	// mu serializes read-modify-write cycles within this process.
	// Writers in other processes can still race; the last full rewrite wins.
	mu sync.Mutex
}

// Compile-time check that Store implements Repository.
var _ Repository = (*Store)(nil)

// NewStore wraps a backend. name identifies the backend in logs.
func NewStore(name string, backend Backend) *Store {
	return &Store{
		backend: backend,
		name:    name,
		logger:  logging.Nop(),
		now:     time.Now,
	}
}

// SetLogger replaces the store logger.
func (s *Store) SetLogger(logger *log.Logger) {
	s.logger = logging.Component(logger, "storage").With("backend", s.name)
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Name returns the backend name.
func (s *Store) Name() string {
	return s.name
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// decodeResult reports how a stored document was read.
type decodeResult int

const (
	docMissing decodeResult = iota
	docOK
	docCorrupt
)

// readDoc loads and decodes key. A corrupt document is reported, logged,
// and yields the zero value; partial decodes never leak out.
func readDoc[T any](s *Store, key string) (T, decodeResult, []byte, error) {
	var zero T
	raw, err := s.backend.Get(key)
	if err != nil {
		return zero, docMissing, nil, fmt.Errorf("read %s: %w", key, err)
	}
	if len(raw) == 0 {
		return zero, docMissing, nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Warn("stored document is not valid JSON, treating as empty", "key", key, "err", err)
		return zero, docCorrupt, raw, nil
	}
	return v, docOK, raw, nil
}

// readList reads a JSON array document and drops null elements.
func readList[T any](s *Store, key string) ([]*T, decodeResult, []byte, error) {
	decoded, result, raw, err := readDoc[[]*T](s, key)
	if err != nil {
		return nil, result, nil, err
	}
	items := make([]*T, 0, len(decoded))
	for _, item := range decoded {
		if item != nil {
			items = append(items, item)
		}
	}
	if dropped := len(decoded) - len(items); dropped > 0 {
		s.logger.Warn("dropped null entries from stored document", "key", key, "count", dropped)
	}
	return items, result, raw, nil
}

// writeDoc encodes v and stores it under key.
func (s *Store) writeDoc(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.backend.Set(key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// quarantine copies a corrupt document aside before it gets overwritten.
func (s *Store) quarantine(key string, raw []byte) error {
	backupKey := key + ".corrupt." + strconv.FormatInt(s.now().UnixMilli(), 10)
	if err := s.backend.Set(backupKey, raw); err != nil {
		return fmt.Errorf("back up corrupt %s: %w", key, err)
	}
	s.logger.Warn("moved corrupt document aside", "key", key, "backup", backupKey)
	return nil
}

// loadList reads a JSON array document. Missing or corrupt documents read as empty.
func loadList[T any](s *Store, key string) ([]*T, error) {
	items, _, _, err := readList[T](s, key)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// appendList appends items to a JSON array document.
func appendList[T any](s *Store, key string, add ...*T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, result, raw, err := readList[T](s, key)
	if err != nil {
		return err
	}
	if result == docCorrupt {
		if err := s.quarantine(key, raw); err != nil {
			return err
		}
	}
	items = append(items, add...)
	return s.writeDoc(key, items)
}

// AppendCheckIn appends a check-in after validating it.
func (s *Store) AppendCheckIn(c *models.CheckIn) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("append check-in: %w", err)
	}
	if err := appendList(s, KeyCheckIns, c); err != nil {
		return fmt.Errorf("append check-in: %w", err)
	}
	return nil
}

// AppendQuickLog appends a quick mood log after validating it.
func (s *Store) AppendQuickLog(q *models.QuickLog) error {
	if err := q.Validate(); err != nil {
		return fmt.Errorf("append quick log: %w", err)
	}
	if err := appendList(s, KeyQuickLogs, q); err != nil {
		return fmt.Errorf("append quick log: %w", err)
	}
	return nil
}

// ListCheckIns returns all check-ins in insertion order.
func (s *Store) ListCheckIns() ([]*models.CheckIn, error) {
	return loadList[models.CheckIn](s, KeyCheckIns)
}

// ListQuickLogs returns all quick logs in insertion order.
func (s *Store) ListQuickLogs() ([]*models.QuickLog, error) {
	return loadList[models.QuickLog](s, KeyQuickLogs)
}

// CheckInsByDate returns the check-ins recorded for a calendar date.
func (s *Store) CheckInsByDate(date string) ([]*models.CheckIn, error) {
	all, err := s.ListCheckIns()
	if err != nil {
		return nil, err
	}
	matches := []*models.CheckIn{}
	for _, c := range all {
		if c.Date == date {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

// FindCheckIn returns the first stored check-in of the given type on date.
// Duplicates are not deduplicated; the earliest appended one wins.
func (s *Store) FindCheckIn(date string, checkInType models.CheckInType) (*models.CheckIn, error) {
	matches, err := s.CheckInsByDate(date)
	if err != nil {
		return nil, err
	}
	for _, c := range matches {
		if c.Type == checkInType {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%s check-in for %s: %w", checkInType, date, ErrNotFound)
}

// HasCheckIn reports whether a check-in of the given type exists on date.
func (s *Store) HasCheckIn(date string, checkInType models.CheckInType) (bool, error) {
	_, err := s.FindCheckIn(date, checkInType)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// SaveWellnessScore records a score in the wellness history. A score for a
// date already in the history replaces it in place.
func (s *Store) SaveWellnessScore(w *models.WellnessScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, result, raw, err := readList[models.WellnessScore](s, KeyWellnessScores)
	if err != nil {
		return fmt.Errorf("save wellness score: %w", err)
	}
	if result == docCorrupt {
		if err := s.quarantine(KeyWellnessScores, raw); err != nil {
			return fmt.Errorf("save wellness score: %w", err)
		}
	}

	replaced := false
	for i, existing := range history {
		if existing.Date == w.Date {
			history[i] = w
			replaced = true
			break
		}
	}
	if !replaced {
		history = append(history, w)
	}

	if err := s.writeDoc(KeyWellnessScores, history); err != nil {
		return fmt.Errorf("save wellness score: %w", err)
	}
	return nil
}

// ListWellnessScores returns the wellness history oldest first.
func (s *Store) ListWellnessScores() ([]*models.WellnessScore, error) {
	return loadList[models.WellnessScore](s, KeyWellnessScores)
}

// SavePatterns replaces the stored patterns and stamps the analysis time.
func (s *Store) SavePatterns(patterns []*models.PatternInsight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patterns == nil {
		patterns = []*models.PatternInsight{}
	}
	if err := s.writeDoc(KeyPatterns, patterns); err != nil {
		return fmt.Errorf("save patterns: %w", err)
	}
	if err := s.writeDoc(KeyLastAnalysis, s.now().UnixMilli()); err != nil {
		return fmt.Errorf("save patterns: %w", err)
	}
	return nil
}

// ListPatterns returns the most recently saved patterns.
func (s *Store) ListPatterns() ([]*models.PatternInsight, error) {
	return loadList[models.PatternInsight](s, KeyPatterns)
}

// SavePredictions replaces the stored predictions.
func (s *Store) SavePredictions(predictions []*models.PredictiveInsight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if predictions == nil {
		predictions = []*models.PredictiveInsight{}
	}
	if err := s.writeDoc(KeyPredictions, predictions); err != nil {
		return fmt.Errorf("save predictions: %w", err)
	}
	return nil
}

// ListPredictions returns the most recently saved predictions.
func (s *Store) ListPredictions() ([]*models.PredictiveInsight, error) {
	return loadList[models.PredictiveInsight](s, KeyPredictions)
}

// SaveEarlyWarning replaces the stored early warning state.
func (s *Store) SaveEarlyWarning(w *models.EarlyWarning) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeDoc(KeyEarlyWarning, w); err != nil {
		return fmt.Errorf("save early warning: %w", err)
	}
	return nil
}

// GetEarlyWarning returns the stored warning, or the default untriggered state.
func (s *Store) GetEarlyWarning() (*models.EarlyWarning, error) {
	w, result, _, err := readDoc[models.EarlyWarning](s, KeyEarlyWarning)
	if err != nil {
		return nil, err
	}
	if result != docOK {
		return models.DefaultEarlyWarning(), nil
	}
	if w.Severity == "" {
		w.Severity = models.SeverityLow
	}
	if w.Reasons == nil {
		w.Reasons = []string{}
	}
	return &w, nil
}

// LastAnalysis returns when patterns were last saved, or the zero time.
func (s *Store) LastAnalysis() (time.Time, error) {
	ms, result, _, err := readDoc[int64](s, KeyLastAnalysis)
	if err != nil {
		return time.Time{}, err
	}
	if result != docOK || ms == 0 {
		return time.Time{}, nil
	}
	return time.UnixMilli(ms), nil
}

// GetMoodData reads every collection into one snapshot.
func (s *Store) GetMoodData() (*models.MoodData, error) {
	checkIns, err := s.ListCheckIns()
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	quickLogs, err := s.ListQuickLogs()
	if err != nil {
		return nil, fmt.Errorf("list quick logs: %w", err)
	}
	scores, err := s.ListWellnessScores()
	if err != nil {
		return nil, fmt.Errorf("list wellness scores: %w", err)
	}
	patterns, err := s.ListPatterns()
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	predictions, err := s.ListPredictions()
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	warning, err := s.GetEarlyWarning()
	if err != nil {
		return nil, fmt.Errorf("get early warning: %w", err)
	}

	return &models.MoodData{
		CheckIns:       checkIns,
		QuickLogs:      quickLogs,
		WellnessScores: scores,
		Patterns:       patterns,
		Predictions:    predictions,
		EarlyWarning:   warning,
	}, nil
}

// ClearAll deletes every persisted key.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range AllKeys {
		if err := s.backend.Delete(key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}
