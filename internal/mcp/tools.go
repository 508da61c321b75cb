// ABOUTME: MCP tool implementations for mood tracking.
// ABOUTME: Check-in and quick-log entry plus the analysis pipeline operations.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/mood/internal/insights"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_check_in",
		Description: "Record a morning or evening mood check-in",
	}, s.handleAddCheckIn)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_mood",
		Description: "Log a quick mood sample with an optional note",
	}, s.handleLogMood)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_check_ins",
		Description: "List recent check-ins, newest first, optionally for one date",
	}, s.handleListCheckIns)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "wellness_score",
		Description: "Compute today's 0-100 wellness score over the trailing week",
	}, s.handleWellnessScore)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "detect_patterns",
		Description: "Detect recurring mood patterns (needs at least 7 check-ins)",
	}, s.handleDetectPatterns)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_predictions",
		Description: "Predict tomorrow's stress, mood dips, and the best time of day",
	}, s.handleGeneratePredictions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "check_early_warning",
		Description: "Classify recent history for signs of a sustained low or crisis",
	}, s.handleCheckEarlyWarning)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "run_analysis",
		Description: "Recompute and store wellness, patterns, predictions, and the early warning",
	}, s.handleRunAnalysis)
}

// Tool input/output types

type addCheckInInput struct {
	Type       string   `json:"type,omitempty" jsonschema:"Check-in type: morning or evening. Defaults by time of day"`
	Mood       string   `json:"mood" jsonschema:"Mood: happy, calm, neutral, worried, sad, frustrated, anxious or tired"`
	Sleep      *int     `json:"sleep,omitempty" jsonschema:"Sleep quality 1-10"`
	SleepTags  []string `json:"sleep_tags,omitempty" jsonschema:"Sleep descriptors such as restless or vivid dreams"`
	Energy     string   `json:"energy,omitempty" jsonschema:"Energy level: low, medium or high"`
	Stressors  []string `json:"stressors,omitempty" jsonschema:"Stressors expected or encountered today"`
	DayRating  *int     `json:"day_rating,omitempty" jsonschema:"Evening rating of the day 1-10"`
	Gratitude  string   `json:"gratitude,omitempty" jsonschema:"Something you are grateful for (max 500 chars)"`
	Challenges string   `json:"challenges,omitempty" jsonschema:"Challenges faced today (max 500 chars)"`
	EndStress  *int     `json:"end_stress,omitempty" jsonschema:"End-of-day stress 0-10"`
	RecordedAt string   `json:"recorded_at,omitempty" jsonschema:"Timestamp (ISO 8601 or YYYY-MM-DD HH:MM), defaults to now"`
	Force      bool     `json:"force,omitempty" jsonschema:"Record even if this check-in type already exists for the date"`
}

type checkInOutput struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Type    string `json:"type"`
	Mood    string `json:"mood"`
	Message string `json:"message"`
}

type logMoodInput struct {
	Mood       string `json:"mood" jsonschema:"Mood: happy, calm, neutral, worried, sad, frustrated, anxious or tired"`
	Note       string `json:"note,omitempty" jsonschema:"Optional note (max 200 chars)"`
	RecordedAt string `json:"recorded_at,omitempty" jsonschema:"Timestamp (ISO 8601 or YYYY-MM-DD HH:MM), defaults to now"`
}

type quickLogOutput struct {
	ID      string `json:"id"`
	Mood    string `json:"mood"`
	Message string `json:"message"`
}

type listCheckInsInput struct {
	Date  string `json:"date,omitempty" jsonschema:"Only check-ins on this date (YYYY-MM-DD)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type emptyInput struct{}

// Tool handlers

func (s *Server) handleAddCheckIn(ctx context.Context, req *mcp.CallToolRequest, input addCheckInInput) (*mcp.CallToolResult, checkInOutput, error) {
	in := insights.CheckInInput{
		Type:       input.Type,
		Mood:       input.Mood,
		Sleep:      input.Sleep,
		SleepTags:  input.SleepTags,
		Energy:     input.Energy,
		Stressors:  input.Stressors,
		DayRating:  input.DayRating,
		Gratitude:  input.Gratitude,
		Challenges: input.Challenges,
		EndStress:  input.EndStress,
		Force:      input.Force,
	}
	if input.RecordedAt != "" {
		at, err := s.svc.ParseTime(input.RecordedAt)
		if err != nil {
			return nil, checkInOutput{}, err
		}
		in.At = at
	}

	c, err := s.svc.RecordCheckIn(in)
	if err != nil {
		return nil, checkInOutput{}, fmt.Errorf("failed to add check-in: %w", err)
	}

	return nil, checkInOutput{
		ID:      shortID(c.ID),
		Date:    c.Date,
		Type:    string(c.Type),
		Mood:    c.Mood,
		Message: fmt.Sprintf("Recorded %s check-in for %s: %s (ID: %s)", c.Type, c.Date, c.Mood, shortID(c.ID)),
	}, nil
}

func (s *Server) handleLogMood(ctx context.Context, req *mcp.CallToolRequest, input logMoodInput) (*mcp.CallToolResult, quickLogOutput, error) {
	var at time.Time
	if input.RecordedAt != "" {
		t, err := s.svc.ParseTime(input.RecordedAt)
		if err != nil {
			return nil, quickLogOutput{}, err
		}
		at = t
	}

	q, err := s.svc.RecordQuickLog(input.Mood, input.Note, at)
	if err != nil {
		return nil, quickLogOutput{}, fmt.Errorf("failed to log mood: %w", err)
	}

	return nil, quickLogOutput{
		ID:      shortID(q.ID),
		Mood:    q.Mood,
		Message: fmt.Sprintf("Logged %s (ID: %s)", q.Mood, shortID(q.ID)),
	}, nil
}

func (s *Server) handleListCheckIns(ctx context.Context, req *mcp.CallToolRequest, input listCheckInsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	checkIns, err := s.svc.RecentCheckIns(strings.TrimSpace(input.Date), input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	if len(checkIns) == 0 {
		return nil, map[string]any{"message": "No check-ins found."}, nil
	}
	return nil, map[string]any{"check_ins": checkIns}, nil
}

func (s *Server) handleWellnessScore(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	score, err := s.svc.ComputeWellnessScore()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute wellness score: %w", err)
	}
	if score == nil {
		return nil, map[string]any{"message": "Not enough data in the last 7 days for a wellness score."}, nil
	}
	return nil, map[string]any{"wellness": score}, nil
}

func (s *Server) handleDetectPatterns(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	patterns, err := s.svc.DetectPatterns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to detect patterns: %w", err)
	}
	if len(patterns) == 0 {
		return nil, map[string]any{"message": "No patterns yet. Patterns need at least 7 check-ins."}, nil
	}
	return nil, map[string]any{"patterns": patterns}, nil
}

func (s *Server) handleGeneratePredictions(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	predictions, err := s.svc.GeneratePredictions()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate predictions: %w", err)
	}
	if len(predictions) == 0 {
		return nil, map[string]any{"message": "No predictions yet. Predictions need at least 7 check-ins."}, nil
	}
	return nil, map[string]any{"predictions": predictions}, nil
}

func (s *Server) handleCheckEarlyWarning(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	w, err := s.svc.CheckEarlyWarning()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check early warning: %w", err)
	}
	return nil, map[string]any{"early_warning": w}, nil
}

func (s *Server) handleRunAnalysis(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	report, err := s.svc.RunAnalysis(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to run analysis: %w", err)
	}
	return nil, report, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
