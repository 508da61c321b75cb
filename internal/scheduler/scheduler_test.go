// ABOUTME: Tests for the daemon scheduler.
// ABOUTME: Uses a fake analyzer and check-in lookup instead of real storage.
package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harperreed/mood/internal/insights"
	"github.com/harperreed/mood/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	runs atomic.Int32
	err  error
}

func (f *fakeAnalyzer) RunAnalysis(ctx context.Context) (*insights.Report, error) {
	f.runs.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &insights.Report{EarlyWarning: &models.EarlyWarning{
		Triggered: true,
		Severity:  models.SeverityMedium,
		Reasons:   []string{"No check-ins for 6 days"},
	}}, nil
}

type fakeLookup map[string]bool

func (f fakeLookup) HasCheckIn(date string, checkInType models.CheckInType) (bool, error) {
	return f[date+"/"+string(checkInType)], nil
}

func TestAnalysisRunsOnStart(t *testing.T) {
	a := &fakeAnalyzer{}
	s, err := New(a, nil, nil, Config{Interval: time.Hour, Location: time.UTC}, nil)
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return a.runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Shutdown())
}

func TestAnalysisErrorDoesNotStopScheduler(t *testing.T) {
	a := &fakeAnalyzer{err: errors.New("storage down")}
	s, err := New(a, nil, nil, Config{Interval: 50 * time.Millisecond, Location: time.UTC}, nil)
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return a.runs.Load() >= 2 }, 3*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Shutdown())
}

func TestRemindersRegistered(t *testing.T) {
	s, err := New(&fakeAnalyzer{}, fakeLookup{}, func(models.CheckInType, string) {}, Config{
		MorningReminder: "08:00",
		EveningReminder: "21:30",
		Location:        time.UTC,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown() })

	assert.ElementsMatch(t, []string{"analysis", "morning-reminder", "evening-reminder"}, s.Jobs())
}

func TestReminderNeedsLookup(t *testing.T) {
	_, err := New(&fakeAnalyzer{}, nil, nil, Config{MorningReminder: "08:00"}, nil)
	assert.Error(t, err)
}

func TestReminderRejectsBadTime(t *testing.T) {
	_, err := New(&fakeAnalyzer{}, fakeLookup{}, func(models.CheckInType, string) {}, Config{EveningReminder: "25:00"}, nil)
	assert.Error(t, err)
}

func TestRemindOnlyWhenMissing(t *testing.T) {
	var notified []string
	lookup := fakeLookup{"2026-03-02/morning": true}
	s, err := New(&fakeAnalyzer{}, lookup, func(typ models.CheckInType, date string) {
		notified = append(notified, date+"/"+string(typ))
	}, Config{Location: time.UTC}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown() })
	s.now = func() time.Time { return time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC) }

	s.remind(models.CheckInMorning)
	s.remind(models.CheckInEvening)

	assert.Equal(t, []string{"2026-03-02/evening"}, notified)
}

func TestRemindUsesLocalDate(t *testing.T) {
	var notified []string
	tokyo := time.FixedZone("JST", 9*60*60)
	lookup := fakeLookup{"2026-03-02/morning": true}
	s, err := New(&fakeAnalyzer{}, lookup, func(typ models.CheckInType, date string) {
		notified = append(notified, date+"/"+string(typ))
	}, Config{Location: tokyo}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown() })
	// 20:00 UTC on March 2 is already March 3 in Tokyo.
	s.now = func() time.Time { return time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC) }

	s.remind(models.CheckInMorning)

	assert.Equal(t, []string{"2026-03-03/morning"}, notified)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		hour    uint
		minute  uint
		wantErr bool
	}{
		{"08:00", 8, 0, false},
		{" 21:45 ", 21, 45, false},
		{"0:5", 0, 5, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"noon", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, h)
			assert.Equal(t, tt.minute, m)
		})
	}
}
