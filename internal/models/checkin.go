// ABOUTME: CheckIn and QuickLog models for user-entered mood records.
// ABOUTME: Records are append-only; constructors assign IDs, dates, and timestamps.
package models

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day format used for CheckIn.Date and WellnessScore.Date.
const DateLayout = "2006-01-02"

// CheckInType distinguishes morning and evening check-ins.
type CheckInType string

const (
	CheckInMorning CheckInType = "morning"
	CheckInEvening CheckInType = "evening"
)

// IsValidCheckInType checks if a string is a valid check-in type.
func IsValidCheckInType(s string) bool {
	return s == string(CheckInMorning) || s == string(CheckInEvening)
}

// Energy is the self-reported energy level of a morning check-in.
type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

// IsValidEnergy checks if a string is a valid energy level.
func IsValidEnergy(s string) bool {
	switch Energy(s) {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	}
	return false
}

const (
	maxReflectionLen = 500
	maxNoteLen       = 200
)

// CheckIn is a structured morning or evening questionnaire.
type CheckIn struct {
	ID         string      `json:"id" yaml:"id"`
	Date       string      `json:"date" yaml:"date"`
	Type       CheckInType `json:"type" yaml:"type"`
	Timestamp  int64       `json:"timestamp" yaml:"timestamp"`
	Mood       string      `json:"mood" yaml:"mood"`
	Sleep      *int        `json:"sleep,omitempty" yaml:"sleep,omitempty"`
	SleepTags  []string    `json:"sleepTags,omitempty" yaml:"sleep_tags,omitempty"`
	Energy     Energy      `json:"energy,omitempty" yaml:"energy,omitempty"`
	Stressors  []string    `json:"stressors,omitempty" yaml:"stressors,omitempty"`
	DayRating  *int        `json:"dayRating,omitempty" yaml:"day_rating,omitempty"`
	Gratitude  string      `json:"gratitude,omitempty" yaml:"gratitude,omitempty"`
	Challenges string      `json:"challenges,omitempty" yaml:"challenges,omitempty"`
	EndStress  *int        `json:"endStress,omitempty" yaml:"end_stress,omitempty"`
}

// NewCheckIn creates a CheckIn with a generated ID, dated now in the local zone.
func NewCheckIn(checkInType CheckInType, mood Mood) *CheckIn {
	now := time.Now()
	return &CheckIn{
		ID:        uuid.New().String(),
		Date:      now.Format(DateLayout),
		Type:      checkInType,
		Timestamp: now.UnixMilli(),
		Mood:      string(mood),
	}
}

// WithTime sets the timestamp and derives the calendar date from it.
func (c *CheckIn) WithTime(t time.Time) *CheckIn {
	c.Timestamp = t.UnixMilli()
	c.Date = t.Format(DateLayout)
	return c
}

// WithSleep sets the sleep rating and optional sleep tags.
func (c *CheckIn) WithSleep(rating int, tags ...string) *CheckIn {
	c.Sleep = &rating
	c.SleepTags = tags
	return c
}

// WithEnergy sets the energy level.
func (c *CheckIn) WithEnergy(e Energy) *CheckIn {
	c.Energy = e
	return c
}

// WithStressors sets the reported stressors.
func (c *CheckIn) WithStressors(stressors ...string) *CheckIn {
	c.Stressors = stressors
	return c
}

// WithDayRating sets the evening day rating.
func (c *CheckIn) WithDayRating(rating int) *CheckIn {
	c.DayRating = &rating
	return c
}

// WithEndStress sets the end-of-day stress level.
func (c *CheckIn) WithEndStress(stress int) *CheckIn {
	c.EndStress = &stress
	return c
}

// WithReflection sets the evening gratitude and challenges text.
func (c *CheckIn) WithReflection(gratitude, challenges string) *CheckIn {
	c.Gratitude = gratitude
	c.Challenges = challenges
	return c
}

// Time returns the check-in timestamp as a time.Time.
func (c *CheckIn) Time() time.Time {
	return time.UnixMilli(c.Timestamp)
}

// Validate checks field ranges. Unknown moods are allowed; they score as neutral.
func (c *CheckIn) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("check-in id is required")
	}
	if _, err := time.Parse(DateLayout, c.Date); err != nil {
		return fmt.Errorf("invalid check-in date %q", c.Date)
	}
	if !IsValidCheckInType(string(c.Type)) {
		return fmt.Errorf("invalid check-in type %q", c.Type)
	}
	if c.Sleep != nil && (*c.Sleep < 1 || *c.Sleep > 10) {
		return fmt.Errorf("sleep must be between 1 and 10, got %d", *c.Sleep)
	}
	if c.DayRating != nil && (*c.DayRating < 1 || *c.DayRating > 10) {
		return fmt.Errorf("day rating must be between 1 and 10, got %d", *c.DayRating)
	}
	if c.EndStress != nil && (*c.EndStress < 0 || *c.EndStress > 10) {
		return fmt.Errorf("end stress must be between 0 and 10, got %d", *c.EndStress)
	}
	if c.Energy != "" && !IsValidEnergy(string(c.Energy)) {
		return fmt.Errorf("invalid energy level %q", c.Energy)
	}
	if utf8.RuneCountInString(c.Gratitude) > maxReflectionLen {
		return fmt.Errorf("gratitude exceeds %d characters", maxReflectionLen)
	}
	if utf8.RuneCountInString(c.Challenges) > maxReflectionLen {
		return fmt.Errorf("challenges exceeds %d characters", maxReflectionLen)
	}
	return nil
}

// QuickLog is a lightweight mood sample with an optional note.
type QuickLog struct {
	ID        string `json:"id" yaml:"id"`
	Mood      string `json:"mood" yaml:"mood"`
	Note      string `json:"note,omitempty" yaml:"note,omitempty"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
}

// NewQuickLog creates a QuickLog with a generated ID and the current timestamp.
func NewQuickLog(mood Mood) *QuickLog {
	return &QuickLog{
		ID:        uuid.New().String(),
		Mood:      string(mood),
		Timestamp: time.Now().UnixMilli(),
	}
}

// WithNote sets the note on the log.
func (q *QuickLog) WithNote(note string) *QuickLog {
	q.Note = note
	return q
}

// WithTime sets a custom timestamp.
func (q *QuickLog) WithTime(t time.Time) *QuickLog {
	q.Timestamp = t.UnixMilli()
	return q
}

// Time returns the log timestamp as a time.Time.
func (q *QuickLog) Time() time.Time {
	return time.UnixMilli(q.Timestamp)
}

// Validate checks the note length and required fields.
func (q *QuickLog) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("quick log id is required")
	}
	if utf8.RuneCountInString(q.Note) > maxNoteLen {
		return fmt.Errorf("note exceeds %d characters", maxNoteLen)
	}
	return nil
}
