// ABOUTME: Shared fixture builders for analysis tests.
// ABOUTME: All fixtures use UTC so day and hour bucketing is deterministic.
package analysis

import (
	"time"

	"github.com/harperreed/mood/internal/models"
)

// at returns a UTC instant in 2026. 2026-03-01 is a Sunday.
func at(month time.Month, dayOfMonth, hour int) time.Time {
	return time.Date(2026, month, dayOfMonth, hour, 0, 0, 0, time.UTC)
}

func checkIn(t time.Time, mood models.Mood) *models.CheckIn {
	return models.NewCheckIn(models.CheckInMorning, mood).WithTime(t)
}

func quickLog(t time.Time, mood models.Mood) *models.QuickLog {
	return models.NewQuickLog(mood).WithTime(t)
}

// dailyCheckIns creates one check-in per day starting at start.
func dailyCheckIns(start time.Time, moods ...models.Mood) []*models.CheckIn {
	out := make([]*models.CheckIn, len(moods))
	for i, m := range moods {
		out[i] = checkIn(start.AddDate(0, 0, i), m)
	}
	return out
}

func repeat(m models.Mood, n int) []models.Mood {
	out := make([]models.Mood, n)
	for i := range out {
		out[i] = m
	}
	return out
}

func findPattern(patterns []*models.PatternInsight, typ models.PatternType) *models.PatternInsight {
	for _, p := range patterns {
		if p.Type == typ {
			return p
		}
	}
	return nil
}
