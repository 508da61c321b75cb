// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown export formats and idempotent import.
package storage

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/mood/internal/models"
	"gopkg.in/yaml.v3"
)

func seedStore(t *testing.T, s *Store) {
	t.Helper()

	day := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
	morning := models.NewCheckIn(models.CheckInMorning, models.MoodCalm).
		WithTime(day).
		WithSleep(8).
		WithEnergy(models.EnergyHigh)
	evening := models.NewCheckIn(models.CheckInEvening, models.MoodTired).
		WithTime(day.Add(13 * time.Hour)).
		WithDayRating(7).
		WithEndStress(3).
		WithReflection("good coffee", "long | meeting")
	log := models.NewQuickLog(models.MoodHappy).WithTime(day.Add(4 * time.Hour)).WithNote("lunch walk")

	for _, c := range []*models.CheckIn{morning, evening} {
		if err := s.AppendCheckIn(c); err != nil {
			t.Fatalf("AppendCheckIn failed: %v", err)
		}
	}
	if err := s.AppendQuickLog(log); err != nil {
		t.Fatalf("AppendQuickLog failed: %v", err)
	}
	if err := s.SaveWellnessScore(&models.WellnessScore{Date: "2026-03-02", Overall: 64}); err != nil {
		t.Fatalf("SaveWellnessScore failed: %v", err)
	}
	if err := s.SavePatterns([]*models.PatternInsight{{
		ID: "activity-effectiveness", Type: models.PatternActivity, Title: "Breathing helps", Confidence: 85,
	}}); err != nil {
		t.Fatalf("SavePatterns failed: %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	s := NewMemoryStore()
	seedStore(t, s)

	data, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Version != ExportVersion {
		t.Errorf("Expected version %s, got %s", ExportVersion, export.Version)
	}
	if export.Tool != "mood" {
		t.Errorf("Expected tool mood, got %s", export.Tool)
	}
	if len(export.CheckIns) != 2 {
		t.Errorf("Expected 2 check-ins, got %d", len(export.CheckIns))
	}
	if len(export.QuickLogs) != 1 {
		t.Errorf("Expected 1 quick log, got %d", len(export.QuickLogs))
	}
	if len(export.WellnessScores) != 1 {
		t.Errorf("Expected 1 wellness score, got %d", len(export.WellnessScores))
	}
	if len(export.Patterns) != 1 {
		t.Errorf("Expected 1 pattern, got %d", len(export.Patterns))
	}
}

func TestExportYAML(t *testing.T) {
	s := NewMemoryStore()
	seedStore(t, s)

	data, err := s.ExportYAML()
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var export ExportData
	if err := yaml.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if export.Tool != "mood" {
		t.Errorf("Expected tool mood, got %s", export.Tool)
	}
	if len(export.CheckIns) != 2 {
		t.Errorf("Expected 2 check-ins, got %d", len(export.CheckIns))
	}
	if !strings.Contains(string(data), "end_stress: 3") {
		t.Errorf("Expected snake_case yaml keys, got:\n%s", data)
	}
}

func TestExportMarkdown(t *testing.T) {
	s := NewMemoryStore()
	seedStore(t, s)

	md, err := s.ExportMarkdown(nil)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	for _, want := range []string{
		"# Mood Export",
		"## Check-ins",
		"| 2026-03-02 | morning | calm | 8 | - |",
		"| 2026-03-02 | evening | tired | - | 3 | long \\| meeting |",
		"long \\| meeting",
		"## Quick Logs",
		"lunch walk",
		"## Wellness",
		"## Patterns",
		"Breathing helps",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "## Early Warning") {
		t.Error("Markdown should omit an untriggered early warning")
	}
}

func TestExportMarkdownSince(t *testing.T) {
	s := NewMemoryStore()
	seedStore(t, s)

	since := time.Date(2026, 3, 2, 20, 0, 0, 0, time.Local)
	md, err := s.ExportMarkdown(&since)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	if strings.Contains(md, "| morning |") {
		t.Error("morning check-in should be filtered out")
	}
	if !strings.Contains(md, "| evening |") {
		t.Error("evening check-in should be included")
	}
	if strings.Contains(md, "lunch walk") {
		t.Error("quick log before since should be filtered out")
	}
}

func TestImportSkipsExistingIDs(t *testing.T) {
	src := NewMemoryStore()
	seedStore(t, src)

	raw, err := src.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	dst := NewMemoryStore()
	first, err := dst.ImportJSON(raw)
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if first.CheckIns != 2 || first.QuickLogs != 1 || first.WellnessScores != 1 || first.Skipped != 0 {
		t.Errorf("unexpected first import summary: %+v", first)
	}

	second, err := dst.ImportJSON(raw)
	if err != nil {
		t.Fatalf("second ImportJSON failed: %v", err)
	}
	if second.CheckIns != 0 || second.QuickLogs != 0 || second.Skipped != 4 {
		t.Errorf("unexpected second import summary: %+v", second)
	}

	checkIns, _ := dst.ListCheckIns()
	if len(checkIns) != 2 {
		t.Errorf("expected 2 check-ins after re-import, got %d", len(checkIns))
	}
}

func TestImportRejectsInvalidRecord(t *testing.T) {
	s := NewMemoryStore()
	bad := 42
	data := &ExportData{
		CheckIns: []*models.CheckIn{{ID: "x", Date: "2026-03-02", Type: models.CheckInMorning, Sleep: &bad}},
	}

	if _, err := s.ImportData(data); err == nil {
		t.Fatal("expected error for invalid sleep value")
	}
}

func TestImportJSONRejectsGarbage(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.ImportJSON([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestImportJSONSkipsNullEntries(t *testing.T) {
	s := NewMemoryStore()
	raw := []byte(`{"version":"1.0","check_ins":[null],"quick_logs":[null],"wellness_scores":[null]}`)

	summary, err := s.ImportJSON(raw)
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if summary.CheckIns != 0 || summary.QuickLogs != 0 || summary.WellnessScores != 0 || summary.Skipped != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}
