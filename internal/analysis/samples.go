// ABOUTME: Merges check-ins and quick logs into time-ordered mood samples.
// ABOUTME: Also holds the calendar helpers used for day and hour bucketing.
package analysis

import (
	"sort"
	"time"

	"github.com/harperreed/mood/internal/models"
)

const day = 24 * time.Hour

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// sample is one scored mood observation.
type sample struct {
	At    time.Time
	Score float64
}

// moodSamples merges check-ins and logs, oldest first. Ties keep check-ins
// ahead of logs and preserve insertion order.
func moodSamples(checkIns []*models.CheckIn, quickLogs []*models.QuickLog) []sample {
	out := make([]sample, 0, len(checkIns)+len(quickLogs))
	for _, c := range checkIns {
		out = append(out, sample{At: c.Time(), Score: models.MoodToScore(c.Mood)})
	}
	for _, q := range quickLogs {
		out = append(out, sample{At: q.Time(), Score: models.MoodToScore(q.Mood)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

func scores(samples []sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Score
	}
	return out
}

// lastN returns the final n elements of xs (or all of them).
func lastN[T any](xs []T, n int) []T {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

// byTime returns a copy of checkIns ordered oldest first.
func byTime(checkIns []*models.CheckIn) []*models.CheckIn {
	out := make([]*models.CheckIn, len(checkIns))
	copy(out, checkIns)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

// logsByTime returns a copy of quickLogs ordered oldest first.
func logsByTime(quickLogs []*models.QuickLog) []*models.QuickLog {
	out := make([]*models.QuickLog, len(quickLogs))
	copy(out, quickLogs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

// checkInWeekday returns the weekday of the check-in's calendar date. When
// the stored date does not parse, the timestamp in loc is used instead.
func checkInWeekday(c *models.CheckIn, loc *time.Location) time.Weekday {
	if d, err := time.Parse(models.DateLayout, c.Date); err == nil {
		return d.Weekday()
	}
	return c.Time().In(loc).Weekday()
}

// logDate returns the calendar date of a quick log in loc.
func logDate(q *models.QuickLog, loc *time.Location) string {
	return q.Time().In(loc).Format(models.DateLayout)
}

// trailingDates returns the n calendar dates ending with now's date in loc.
func trailingDates(now time.Time, loc *time.Location, n int) map[string]bool {
	today := now.In(loc)
	dates := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		dates[today.AddDate(0, 0, -i).Format(models.DateLayout)] = true
	}
	return dates
}

// daysSinceLastCheckIn returns whole days since the newest check-in, and
// false when there are no check-ins.
func daysSinceLastCheckIn(checkIns []*models.CheckIn, now time.Time) (int, bool) {
	if len(checkIns) == 0 {
		return 0, false
	}
	var latest int64
	for _, c := range checkIns {
		if c.Timestamp > latest {
			latest = c.Timestamp
		}
	}
	elapsed := now.Sub(time.UnixMilli(latest))
	if elapsed < 0 {
		return 0, true
	}
	return int(elapsed / day), true
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
