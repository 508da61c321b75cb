// ABOUTME: Edge-level record entry shared by the CLI and MCP server.
// ABOUTME: Validates raw input, resolves times in the service zone, and guards duplicates.
package insights

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/mood/internal/models"
)

// ErrAlreadyCheckedIn is returned when a check-in of the same type already
// exists for the date and Replace was not requested.
var ErrAlreadyCheckedIn = errors.New("already checked in")

// CheckInInput is an unvalidated check-in as entered by a user.
type CheckInInput struct {
	// Type is "morning" or "evening". Empty picks one from the time of day.
	Type       string
	Mood       string
	Sleep      *int
	SleepTags  []string
	Energy     string
	Stressors  []string
	DayRating  *int
	Gratitude  string
	Challenges string
	EndStress  *int
	// At overrides the check-in time. Zero means now.
	At time.Time
	// Force allows a second check-in of the same type on the same date.
	Force bool
}

// DefaultCheckInType picks evening from 18:00 on, morning otherwise.
func DefaultCheckInType(t time.Time) models.CheckInType {
	if t.Hour() >= 18 {
		return models.CheckInEvening
	}
	return models.CheckInMorning
}

// RecordCheckIn validates in, builds a CheckIn and appends it.
func (s *Service) RecordCheckIn(in CheckInInput) (*models.CheckIn, error) {
	at := in.At
	if at.IsZero() {
		at = s.now()
	}
	at = at.In(s.loc)

	typ := models.CheckInType(strings.ToLower(strings.TrimSpace(in.Type)))
	if typ == "" {
		typ = DefaultCheckInType(at)
	}
	if !models.IsValidCheckInType(string(typ)) {
		return nil, fmt.Errorf("unknown check-in type: %s (use morning or evening)", in.Type)
	}
	mood := strings.ToLower(strings.TrimSpace(in.Mood))
	if !models.IsValidMood(mood) {
		return nil, fmt.Errorf("unknown mood: %s", in.Mood)
	}
	if in.Energy != "" && !models.IsValidEnergy(strings.ToLower(in.Energy)) {
		return nil, fmt.Errorf("unknown energy level: %s (use low, medium or high)", in.Energy)
	}

	c := models.NewCheckIn(typ, models.Mood(mood)).WithTime(at)
	if in.Sleep != nil {
		c.WithSleep(*in.Sleep, in.SleepTags...)
	}
	if in.Energy != "" {
		c.WithEnergy(models.Energy(strings.ToLower(in.Energy)))
	}
	if len(in.Stressors) > 0 {
		c.WithStressors(in.Stressors...)
	}
	if in.DayRating != nil {
		c.WithDayRating(*in.DayRating)
	}
	if in.EndStress != nil {
		c.WithEndStress(*in.EndStress)
	}
	c.WithReflection(strings.TrimSpace(in.Gratitude), strings.TrimSpace(in.Challenges))

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if !in.Force {
		exists, err := s.repo.HasCheckIn(c.Date, c.Type)
		if err != nil {
			return nil, fmt.Errorf("check existing check-ins: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: %s check-in for %s", ErrAlreadyCheckedIn, c.Type, c.Date)
		}
	}

	if err := s.AppendCheckIn(c); err != nil {
		return nil, err
	}
	return c, nil
}

// RecordQuickLog validates and appends a quick mood log. A zero at means now.
func (s *Service) RecordQuickLog(mood, note string, at time.Time) (*models.QuickLog, error) {
	mood = strings.ToLower(strings.TrimSpace(mood))
	if !models.IsValidMood(mood) {
		return nil, fmt.Errorf("unknown mood: %s", mood)
	}
	if at.IsZero() {
		at = s.now()
	}

	q := models.NewQuickLog(models.Mood(mood)).WithTime(at).WithNote(strings.TrimSpace(note))
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.AppendQuickLog(q); err != nil {
		return nil, err
	}
	return q, nil
}

// ParseTime accepts RFC 3339, "2006-01-02 15:04" or "2006-01-02" in the
// service zone.
func (s *Service) ParseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", models.DateLayout} {
		if t, err := time.ParseInLocation(layout, v, s.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use RFC 3339, YYYY-MM-DD HH:MM or YYYY-MM-DD)", v)
}

// RecentCheckIns returns up to limit check-ins, newest first. A non-empty
// date restricts results to that calendar day.
func (s *Service) RecentCheckIns(date string, limit int) ([]*models.CheckIn, error) {
	var (
		checkIns []*models.CheckIn
		err      error
	)
	if date != "" {
		checkIns, err = s.repo.CheckInsByDate(date)
	} else {
		checkIns, err = s.repo.ListCheckIns()
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(checkIns, func(i, j int) bool {
		return checkIns[i].Timestamp > checkIns[j].Timestamp
	})
	if limit > 0 && len(checkIns) > limit {
		checkIns = checkIns[:limit]
	}
	return checkIns, nil
}

// RecentQuickLogs returns up to limit quick logs, newest first.
func (s *Service) RecentQuickLogs(limit int) ([]*models.QuickLog, error) {
	logs, err := s.repo.ListQuickLogs()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp > logs[j].Timestamp
	})
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
