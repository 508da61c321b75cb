// ABOUTME: Export and import functionality for mood data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats and JSON import.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/mood/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the version stamped on exports.
const ExportVersion = "1.0"

// ExportData represents the full export format for mood data.
type ExportData struct {
	Version        string                      `json:"version" yaml:"version"`
	ExportedAt     time.Time                   `json:"exported_at" yaml:"exported_at"`
	Tool           string                      `json:"tool" yaml:"tool"`
	CheckIns       []*models.CheckIn           `json:"check_ins" yaml:"check_ins"`
	QuickLogs      []*models.QuickLog          `json:"quick_logs" yaml:"quick_logs"`
	WellnessScores []*models.WellnessScore     `json:"wellness_scores" yaml:"wellness_scores"`
	Patterns       []*models.PatternInsight    `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Predictions    []*models.PredictiveInsight `json:"predictions,omitempty" yaml:"predictions,omitempty"`
	EarlyWarning   *models.EarlyWarning        `json:"early_warning,omitempty" yaml:"early_warning,omitempty"`
}

// ImportSummary counts what an import added and skipped.
type ImportSummary struct {
	CheckIns       int
	QuickLogs      int
	WellnessScores int
	Skipped        int
}

// GetAllData retrieves all data for export.
func (s *Store) GetAllData() (*ExportData, error) {
	snapshot, err := s.GetMoodData()
	if err != nil {
		return nil, err
	}

	return &ExportData{
		Version:        ExportVersion,
		ExportedAt:     s.now().UTC(),
		Tool:           "mood",
		CheckIns:       snapshot.CheckIns,
		QuickLogs:      snapshot.QuickLogs,
		WellnessScores: snapshot.WellnessScores,
		Patterns:       snapshot.Patterns,
		Predictions:    snapshot.Predictions,
		EarlyWarning:   snapshot.EarlyWarning,
	}, nil
}

// ImportData merges an export into the store. Records whose ID (or, for
// wellness scores, date) already exists are skipped. Derived insights in the
// export replace the stored ones.
func (s *Store) ImportData(data *ExportData) (*ImportSummary, error) {
	summary := &ImportSummary{}

	existingCheckIns, err := s.ListCheckIns()
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	seen := make(map[string]bool, len(existingCheckIns))
	for _, c := range existingCheckIns {
		seen[c.ID] = true
	}
	var newCheckIns []*models.CheckIn
	for _, c := range data.CheckIns {
		if c == nil {
			continue
		}
		if seen[c.ID] {
			summary.Skipped++
			continue
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("import check-in %s: %w", c.ID, err)
		}
		seen[c.ID] = true
		newCheckIns = append(newCheckIns, c)
	}
	if len(newCheckIns) > 0 {
		if err := appendList(s, KeyCheckIns, newCheckIns...); err != nil {
			return nil, fmt.Errorf("import check-ins: %w", err)
		}
	}
	summary.CheckIns = len(newCheckIns)

	existingLogs, err := s.ListQuickLogs()
	if err != nil {
		return nil, fmt.Errorf("list quick logs: %w", err)
	}
	seen = make(map[string]bool, len(existingLogs))
	for _, q := range existingLogs {
		seen[q.ID] = true
	}
	var newLogs []*models.QuickLog
	for _, q := range data.QuickLogs {
		if q == nil {
			continue
		}
		if seen[q.ID] {
			summary.Skipped++
			continue
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("import quick log %s: %w", q.ID, err)
		}
		seen[q.ID] = true
		newLogs = append(newLogs, q)
	}
	if len(newLogs) > 0 {
		if err := appendList(s, KeyQuickLogs, newLogs...); err != nil {
			return nil, fmt.Errorf("import quick logs: %w", err)
		}
	}
	summary.QuickLogs = len(newLogs)

	existingScores, err := s.ListWellnessScores()
	if err != nil {
		return nil, fmt.Errorf("list wellness scores: %w", err)
	}
	seen = make(map[string]bool, len(existingScores))
	for _, w := range existingScores {
		seen[w.Date] = true
	}
	var newScores []*models.WellnessScore
	for _, w := range data.WellnessScores {
		if w == nil {
			continue
		}
		if seen[w.Date] {
			summary.Skipped++
			continue
		}
		seen[w.Date] = true
		newScores = append(newScores, w)
	}
	if len(newScores) > 0 {
		if err := appendList(s, KeyWellnessScores, newScores...); err != nil {
			return nil, fmt.Errorf("import wellness scores: %w", err)
		}
	}
	summary.WellnessScores = len(newScores)

	if data.Patterns != nil {
		if err := s.SavePatterns(data.Patterns); err != nil {
			return nil, fmt.Errorf("import patterns: %w", err)
		}
	}
	if data.Predictions != nil {
		if err := s.SavePredictions(data.Predictions); err != nil {
			return nil, fmt.Errorf("import predictions: %w", err)
		}
	}
	if data.EarlyWarning != nil {
		if err := s.SaveEarlyWarning(data.EarlyWarning); err != nil {
			return nil, fmt.Errorf("import early warning: %w", err)
		}
	}

	return summary, nil
}

// ExportJSON exports all data as JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	data, err := s.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON parses a JSON export and imports it.
func (s *Store) ImportJSON(raw []byte) (*ImportSummary, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	return s.ImportData(&data)
}

// ExportYAML exports all data as YAML.
func (s *Store) ExportYAML() ([]byte, error) {
	data, err := s.GetAllData()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ExportMarkdown renders check-ins, logs, and insights as a Markdown report.
// When since is set, only source records on or after it are included.
//
//nolint:gocognit,gocyclo // Linear report rendering.
func (s *Store) ExportMarkdown(since *time.Time) (string, error) {
	data, err := s.GetAllData()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := s.now()

	sb.WriteString(fmt.Sprintf("# Mood Export - %s\n\n", now.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Check-ins\n\n")
	sb.WriteString("| Date | Type | Mood | Sleep | Stress | Notes |\n")
	sb.WriteString("|------|------|------|-------|--------|-------|\n")
	for _, c := range data.CheckIns {
		if since != nil && c.Time().Before(*since) {
			continue
		}
		notes := c.Challenges
		if notes == "" {
			notes = c.Gratitude
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			c.Date, c.Type, c.Mood, optionalInt(c.Sleep), optionalInt(c.EndStress), escapeCell(notes)))
	}
	sb.WriteString("\n")

	sb.WriteString("## Quick Logs\n\n")
	sb.WriteString("| Time | Mood | Note |\n")
	sb.WriteString("|------|------|------|\n")
	for _, q := range data.QuickLogs {
		if since != nil && q.Time().Before(*since) {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			q.Time().Format("2006-01-02 15:04"), q.Mood, escapeCell(q.Note)))
	}
	sb.WriteString("\n")

	if len(data.WellnessScores) > 0 {
		sb.WriteString("## Wellness\n\n")
		sb.WriteString("| Date | Overall | Stability | Coping | Sleep | Social | Self-care |\n")
		sb.WriteString("|------|---------|-----------|--------|-------|--------|-----------|\n")
		for _, w := range data.WellnessScores {
			b := w.Breakdown
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d | %d | %d |\n",
				w.Date, w.Overall, b.MoodStability, b.CopingUsage, b.SleepQuality, b.SocialEngagement, b.SelfCare))
		}
		sb.WriteString("\n")
	}

	if len(data.Patterns) > 0 {
		sb.WriteString("## Patterns\n\n")
		for _, p := range data.Patterns {
			sb.WriteString(fmt.Sprintf("- **%s** (%s, %.0f%%): %s\n", p.Title, p.Type, p.Confidence, p.Description))
		}
		sb.WriteString("\n")
	}

	if len(data.Predictions) > 0 {
		sb.WriteString("## Predictions\n\n")
		for _, p := range data.Predictions {
			sb.WriteString(fmt.Sprintf("- **%s** (%.0f%%): %s\n", p.Prediction, p.Confidence, p.Reasoning))
		}
		sb.WriteString("\n")
	}

	if w := data.EarlyWarning; w != nil && w.Triggered {
		sb.WriteString(fmt.Sprintf("## Early Warning (%s)\n\n", w.Severity))
		for _, r := range w.Reasons {
			sb.WriteString(fmt.Sprintf("- %s\n", r))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
