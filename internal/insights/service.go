// ABOUTME: Insights service: the collaborator-facing API over storage and analysis.
// ABOUTME: Runs analyzers on a storage snapshot, isolates failures, and persists results.
package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/mood/internal/analysis"
	"github.com/harperreed/mood/internal/logging"
	"github.com/harperreed/mood/internal/metrics"
	"github.com/harperreed/mood/internal/models"
	"github.com/harperreed/mood/internal/storage"
)

// Service reads and writes mood records and derives insights from them.
type Service struct {
	repo    storage.Repository
	logger  *log.Logger
	metrics metrics.Recorder
	now     func() time.Time
	loc     *time.Location
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logging.Component(logger, "insights") }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.metrics = r
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone used for calendar days and hours.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService creates a Service over repo.
func NewService(repo storage.Repository, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		logger:  logging.Nop(),
		metrics: metrics.Nop{},
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the zone used for bucketing.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Now returns the service clock's current time in its location.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Repository returns the underlying store.
func (s *Service) Repository() storage.Repository {
	return s.repo
}

// AppendCheckIn stores a check-in.
func (s *Service) AppendCheckIn(c *models.CheckIn) error {
	if err := s.repo.AppendCheckIn(c); err != nil {
		return err
	}
	s.metrics.RecordAppend("check_in")
	s.logger.Debug("check-in appended", "id", c.ID, "type", c.Type, "mood", c.Mood)
	return nil
}

// AppendQuickLog stores a quick mood log.
func (s *Service) AppendQuickLog(q *models.QuickLog) error {
	if err := s.repo.AppendQuickLog(q); err != nil {
		return err
	}
	s.metrics.RecordAppend("quick_log")
	s.logger.Debug("quick log appended", "id", q.ID, "mood", q.Mood)
	return nil
}

// GetMoodData returns a full snapshot of stored records.
func (s *Service) GetMoodData() (*models.MoodData, error) {
	return s.repo.GetMoodData()
}

// ComputeWellnessScore computes today's score and records it in the history.
// It returns nil when the trailing week has no mood samples.
func (s *Service) ComputeWellnessScore() (*models.WellnessScore, error) {
	data, err := s.repo.GetMoodData()
	if err != nil {
		return nil, fmt.Errorf("load mood data: %w", err)
	}
	score := s.wellness(data, s.now(), nil)
	if err := s.saveWellness(score); err != nil {
		return nil, err
	}
	return score, nil
}

// DetectPatterns recomputes the pattern set and replaces the stored one.
func (s *Service) DetectPatterns() ([]*models.PatternInsight, error) {
	data, err := s.repo.GetMoodData()
	if err != nil {
		return nil, fmt.Errorf("load mood data: %w", err)
	}
	patterns := s.patterns(data, nil)
	if err := s.repo.SavePatterns(patterns); err != nil {
		return nil, err
	}
	return patterns, nil
}

// GeneratePredictions recomputes predictions and replaces the stored ones.
func (s *Service) GeneratePredictions() ([]*models.PredictiveInsight, error) {
	data, err := s.repo.GetMoodData()
	if err != nil {
		return nil, fmt.Errorf("load mood data: %w", err)
	}
	predictions := s.predictions(data, s.now(), nil)
	if err := s.repo.SavePredictions(predictions); err != nil {
		return nil, err
	}
	return predictions, nil
}

// CheckEarlyWarning reclassifies the history and stores the verdict.
func (s *Service) CheckEarlyWarning() (*models.EarlyWarning, error) {
	data, err := s.repo.GetMoodData()
	if err != nil {
		return nil, fmt.Errorf("load mood data: %w", err)
	}
	w := s.warning(data, s.now(), nil)
	if err := s.repo.SaveEarlyWarning(w); err != nil {
		return nil, err
	}
	s.metrics.RecordWarning(w)
	return w, nil
}

// ShouldReanalyze reports whether the last analysis is missing or older than maxAge.
func (s *Service) ShouldReanalyze(maxAge time.Duration) (bool, error) {
	last, err := s.repo.LastAnalysis()
	if err != nil {
		return false, err
	}
	if last.IsZero() {
		return true, nil
	}
	return s.now().Sub(last) >= maxAge, nil
}

// Report is the result of a full analysis run.
type Report struct {
	GeneratedAt  time.Time                   `json:"generatedAt"`
	Wellness     *models.WellnessScore       `json:"wellness,omitempty"`
	Patterns     []*models.PatternInsight    `json:"patterns"`
	Predictions  []*models.PredictiveInsight `json:"predictions"`
	EarlyWarning *models.EarlyWarning        `json:"earlyWarning"`
	// Failed names analyzers that failed and were skipped.
	Failed []string `json:"failed,omitempty"`
}

// RunAnalysis computes every derived record from one snapshot and persists
// them. A failing analyzer is logged and skipped; storage errors abort the run.
func (s *Service) RunAnalysis(ctx context.Context) (report *Report, err error) {
	start := time.Now()
	defer func() { s.metrics.RecordAnalysis(time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.repo.GetMoodData()
	if err != nil {
		return nil, fmt.Errorf("load mood data: %w", err)
	}

	now := s.now()
	run := &runState{}
	report = &Report{GeneratedAt: now}
	report.Wellness = s.wellness(data, now, run)
	report.Patterns = s.patterns(data, run)
	report.Predictions = s.predictions(data, now, run)
	report.EarlyWarning = s.warning(data, now, run)
	report.Failed = run.failed

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.saveWellness(report.Wellness); err != nil {
		return nil, err
	}
	if err := s.repo.SavePatterns(report.Patterns); err != nil {
		return nil, fmt.Errorf("save patterns: %w", err)
	}
	if err := s.repo.SavePredictions(report.Predictions); err != nil {
		return nil, fmt.Errorf("save predictions: %w", err)
	}
	if err := s.repo.SaveEarlyWarning(report.EarlyWarning); err != nil {
		return nil, fmt.Errorf("save early warning: %w", err)
	}

	s.metrics.RecordInsights(len(report.Patterns), len(report.Predictions))
	s.metrics.RecordWarning(report.EarlyWarning)
	s.logger.Info("analysis complete",
		"check_ins", len(data.CheckIns),
		"quick_logs", len(data.QuickLogs),
		"patterns", len(report.Patterns),
		"predictions", len(report.Predictions),
		"warning", report.EarlyWarning.Triggered,
		"duration", time.Since(start),
	)
	return report, nil
}

func (s *Service) saveWellness(score *models.WellnessScore) error {
	if score == nil {
		return nil
	}
	if err := s.repo.SaveWellnessScore(score); err != nil {
		return fmt.Errorf("save wellness score: %w", err)
	}
	s.metrics.RecordWellness(score)
	return nil
}

func (s *Service) wellness(data *models.MoodData, now time.Time, run *runState) *models.WellnessScore {
	var score *models.WellnessScore
	s.guard("wellness", run, func() {
		score = analysis.WellnessScore(data.CheckIns, data.QuickLogs, now, s.loc)
	})
	if score == nil || score.Overall == 0 {
		s.logger.Debug("not enough data for a wellness score")
		return nil
	}
	return score
}

func (s *Service) patterns(data *models.MoodData, run *runState) []*models.PatternInsight {
	patterns := []*models.PatternInsight{}
	if len(data.CheckIns) < analysis.MinCheckIns {
		return patterns
	}
	for _, a := range analysis.PatternAnalyzers {
		var p *models.PatternInsight
		s.guard("pattern:"+a.Name, run, func() {
			p = a.Run(data.CheckIns, data.QuickLogs, s.loc)
		})
		if p != nil {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

func (s *Service) predictions(data *models.MoodData, now time.Time, run *runState) []*models.PredictiveInsight {
	predictions := []*models.PredictiveInsight{}
	if len(data.CheckIns) < analysis.MinCheckIns {
		return predictions
	}
	for _, p := range analysis.Predictors {
		var insight *models.PredictiveInsight
		s.guard("prediction:"+p.Name, run, func() {
			insight = p.Run(data.CheckIns, data.QuickLogs, now, s.loc)
		})
		if insight != nil {
			predictions = append(predictions, insight)
		}
	}
	return predictions
}

func (s *Service) warning(data *models.MoodData, now time.Time, run *runState) *models.EarlyWarning {
	w := models.DefaultEarlyWarning()
	s.guard("early-warning", run, func() {
		w = analysis.CheckEarlyWarning(data.CheckIns, data.QuickLogs, now)
	})
	return w
}

// runState collects analyzer failures during one pass. A nil runState
// still isolates failures but does not record them.
type runState struct {
	failed []string
}

// guard runs fn and converts a panic into a logged, counted analyzer failure.
func (s *Service) guard(name string, run *runState, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("analyzer failed", "analyzer", name, "err", r)
			s.metrics.RecordAnalyzerFailure(name)
			if run != nil {
				run.failed = append(run.failed, name)
			}
		}
	}()
	fn()
}
