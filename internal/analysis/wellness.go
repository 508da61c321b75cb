// ABOUTME: Wellness score calculator over the trailing seven calendar days.
// ABOUTME: Produces five 0-20 components and their total.
package analysis

import (
	"math"
	"time"

	"github.com/harperreed/mood/internal/models"
)

const (
	wellnessWindowDays = 7
	componentMax       = 20

	// Social engagement and self-care have no data source yet and are fixed.
	placeholderSocialEngagement = 15
	placeholderSelfCare         = 15
)

// WellnessScore computes today's wellness score in loc from the records in
// the trailing seven-day window. With no mood samples in the window every
// component is zero and Overall is 0.
func WellnessScore(checkIns []*models.CheckIn, quickLogs []*models.QuickLog, now time.Time, loc *time.Location) *models.WellnessScore {
	loc = orLocal(loc)
	window := trailingDates(now, loc, wellnessWindowDays)
	score := &models.WellnessScore{Date: now.In(loc).Format(models.DateLayout)}

	var moods []float64
	var sleeps []float64
	inWindowCheckIns := 0
	for _, c := range checkIns {
		if !window[c.Date] {
			continue
		}
		inWindowCheckIns++
		moods = append(moods, models.MoodToScore(c.Mood))
		if c.Sleep != nil {
			sleeps = append(sleeps, float64(*c.Sleep))
		}
	}
	for _, q := range quickLogs {
		if window[logDate(q, loc)] {
			moods = append(moods, models.MoodToScore(q.Mood))
		}
	}

	if len(moods) == 0 {
		return score
	}

	moodStability := 20 - variance(moods)*2
	copingUsage := float64(inWindowCheckIns) / wellnessWindowDays * 10
	sleepQuality := 0.0
	if len(sleeps) > 0 {
		sleepQuality = mean(sleeps) / 10 * 20
	}

	raw := [5]float64{
		clamp(moodStability, 0, componentMax),
		clamp(copingUsage, 0, componentMax),
		clamp(sleepQuality, 0, componentMax),
		placeholderSocialEngagement,
		placeholderSelfCare,
	}
	score.Breakdown = models.WellnessBreakdown{
		MoodStability:    round(raw[0]),
		CopingUsage:      round(raw[1]),
		SleepQuality:     round(raw[2]),
		SocialEngagement: round(raw[3]),
		SelfCare:         round(raw[4]),
	}
	// Overall rounds the unrounded total, so it can differ from Breakdown.Sum().
	total := 0.0
	for _, v := range raw {
		total += v
	}
	score.Overall = round(total)
	return score
}

func round(v float64) int {
	return int(math.Round(v))
}
