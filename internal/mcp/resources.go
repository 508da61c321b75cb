// ABOUTME: MCP resource implementations for mood tracking.
// ABOUTME: Provides mood://recent, mood://today, and mood://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/mood/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	recentURI  = "mood://recent"
	todayURI   = "mood://today"
	summaryURI = "mood://summary"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentURI,
		Name:        "Recent Mood Entries",
		Description: "Last 10 check-ins and quick mood logs",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Mood",
		Description: "Today's check-ins and quick logs, and which check-ins are still due",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Mood Insights Summary",
		Description: "Latest wellness score, patterns, predictions, and early warning",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	checkIns, err := s.svc.RecentCheckIns("", 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	logs, err := s.svc.RecentQuickLogs(10)
	if err != nil {
		return nil, fmt.Errorf("failed to list quick logs: %w", err)
	}

	return jsonResource(recentURI, map[string]any{
		"check_ins":  checkIns,
		"quick_logs": logs,
	})
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := s.svc.Now()
	today := now.Format(models.DateLayout)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	checkIns, err := s.svc.RecentCheckIns(today, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}

	logs, err := s.svc.RecentQuickLogs(0)
	if err != nil {
		return nil, fmt.Errorf("failed to list quick logs: %w", err)
	}
	todayLogs := []*models.QuickLog{}
	for _, q := range logs {
		if !q.Time().Before(todayStart) {
			todayLogs = append(todayLogs, q)
		}
	}

	done := map[models.CheckInType]bool{}
	for _, c := range checkIns {
		done[c.Type] = true
	}

	return jsonResource(todayURI, map[string]any{
		"date":       today,
		"check_ins":  checkIns,
		"quick_logs": todayLogs,
		"completed": map[string]bool{
			"morning": done[models.CheckInMorning],
			"evening": done[models.CheckInEvening],
		},
		"counts": map[string]int{
			"check_ins":  len(checkIns),
			"quick_logs": len(todayLogs),
		},
	})
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	data, err := s.svc.GetMoodData()
	if err != nil {
		return nil, fmt.Errorf("failed to load mood data: %w", err)
	}
	last, err := s.svc.Repository().LastAnalysis()
	if err != nil {
		return nil, fmt.Errorf("failed to read last analysis: %w", err)
	}

	var latest *models.WellnessScore
	for _, w := range data.WellnessScores {
		if latest == nil || w.Date > latest.Date {
			latest = w
		}
	}

	var lastAnalysis string
	if !last.IsZero() {
		lastAnalysis = last.In(s.svc.Location()).Format(time.RFC3339)
	}

	return jsonResource(summaryURI, map[string]any{
		"generated_at":  s.svc.Now().Format(time.RFC3339),
		"last_analysis": lastAnalysis,
		"wellness":      latest,
		"patterns":      data.Patterns,
		"predictions":   data.Predictions,
		"early_warning": data.EarlyWarning,
		"summary": map[string]int{
			"check_ins":       len(data.CheckIns),
			"quick_logs":      len(data.QuickLogs),
			"wellness_scores": len(data.WellnessScores),
		},
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
