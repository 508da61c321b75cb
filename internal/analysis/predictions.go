// ABOUTME: Predictor for tomorrow's stress, mood dips, and the best time of day.
// ABOUTME: Predictions are recomputed wholesale like patterns.
package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/harperreed/mood/internal/models"
)

const (
	minWeekdayStressSamples = 3
	recentStressWindow      = 7
	trendWeight             = 0.3
	avoidanceDays           = 3
	dipWindow               = 5
	minDipSamples           = 5
	dipSlope                = -0.3
	minHourSamples          = 3
)

// GeneratePredictions returns the complete prediction set in reporting order.
// Fewer than MinCheckIns check-ins yields an empty slice.
func GeneratePredictions(checkIns []*models.CheckIn, quickLogs []*models.QuickLog, now time.Time, loc *time.Location) []*models.PredictiveInsight {
	predictions := []*models.PredictiveInsight{}
	if len(checkIns) < MinCheckIns {
		return predictions
	}
	loc = orLocal(loc)
	for _, p := range Predictors {
		if insight := p.Run(checkIns, quickLogs, now, loc); insight != nil {
			predictions = append(predictions, insight)
		}
	}
	return predictions
}

// Predictor produces one prediction or nil.
type Predictor struct {
	Name string
	Run  func(checkIns []*models.CheckIn, quickLogs []*models.QuickLog, now time.Time, loc *time.Location) *models.PredictiveInsight
}

// Predictors lists the predictors in the order their results are reported.
var Predictors = []Predictor{
	{Name: "tomorrow-stress", Run: func(c []*models.CheckIn, _ []*models.QuickLog, now time.Time, loc *time.Location) *models.PredictiveInsight {
		return PredictTomorrowStress(c, now, loc)
	}},
	{Name: "mood-dip", Run: func(c []*models.CheckIn, q []*models.QuickLog, now time.Time, _ *time.Location) *models.PredictiveInsight {
		return PredictMoodDip(c, q, now)
	}},
	{Name: "optimal-time", Run: func(c []*models.CheckIn, q []*models.QuickLog, _ time.Time, loc *time.Location) *models.PredictiveInsight {
		return PredictOptimalActivityTime(c, q, loc)
	}},
}

// stressLevel uses the recorded end-of-day stress, or 10 minus the mood score
// when none was recorded.
func stressLevel(c *models.CheckIn) float64 {
	if c.EndStress != nil {
		return float64(*c.EndStress)
	}
	return 10 - models.MoodToScore(c.Mood)
}

// PredictTomorrowStress averages stress on past occurrences of tomorrow's
// weekday and nudges the result toward the recent trend.
func PredictTomorrowStress(checkIns []*models.CheckIn, now time.Time, loc *time.Location) *models.PredictiveInsight {
	loc = orLocal(loc)
	tomorrow := now.In(loc).AddDate(0, 0, 1).Weekday()

	var history []float64
	for _, c := range checkIns {
		if checkInWeekday(c, loc) == tomorrow {
			history = append(history, stressLevel(c))
		}
	}
	if len(history) < minWeekdayStressSamples {
		return nil
	}
	historical := mean(history)

	var recent []float64
	for _, c := range lastN(byTime(checkIns), recentStressWindow) {
		recent = append(recent, stressLevel(c))
	}
	predicted := clamp(historical+(mean(recent)-historical)*trendWeight, 0, 10)

	action := "Enjoy your day!"
	if predicted > 6 {
		action = "Plan stress management activities"
	}
	name := dayNames[tomorrow]
	return &models.PredictiveInsight{
		ID:         "tomorrow-stress",
		Type:       models.PredictionStress,
		Prediction: fmt.Sprintf("Tomorrow (%s) predicted stress: %.1f/10", name, predicted),
		Confidence: confidence(float64(len(history)) * 15),
		Reasoning:  fmt.Sprintf("Based on %d previous %ss and recent trend", len(history), name),
		Action:     action,
	}
}

// PredictMoodDip warns about skipped check-ins, or failing that about a
// falling trend across the most recent check-ins and logs.
func PredictMoodDip(checkIns []*models.CheckIn, quickLogs []*models.QuickLog, now time.Time) *models.PredictiveInsight {
	days, ok := daysSinceLastCheckIn(checkIns, now)
	if !ok {
		return nil
	}
	if days >= avoidanceDays {
		return &models.PredictiveInsight{
			ID:         "mood-dip-warning",
			Type:       models.PredictionMood,
			Prediction: fmt.Sprintf("You haven't checked in for %d days", days),
			Confidence: confidence(float64(days) * 25),
			Reasoning:  "Consistent tracking helps maintain mental wellness",
			Action:     "Complete a quick mood check-in",
		}
	}

	recent := moodSamples(
		lastN(byTime(checkIns), dipWindow),
		lastN(logsByTime(quickLogs), dipWindow),
	)
	if len(recent) < minDipSamples {
		return nil
	}

	y := scores(recent)
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}
	slope, _ := linearRegression(x, y)
	if slope >= dipSlope {
		return nil
	}

	return &models.PredictiveInsight{
		ID:         "mood-decline-warning",
		Type:       models.PredictionMood,
		Prediction: "Mood trend showing decline",
		Confidence: confidence(math.Abs(slope) * 100),
		Reasoning:  "Recent mood scores have been decreasing",
		Action:     "Try VR therapy or breathing exercises",
	}
}

// PredictOptimalActivityTime picks the hour of day with the highest mean
// mood among hours with at least three samples. Ties go to the earlier hour.
func PredictOptimalActivityTime(checkIns []*models.CheckIn, quickLogs []*models.QuickLog, loc *time.Location) *models.PredictiveInsight {
	loc = orLocal(loc)
	var hourly [24][]float64
	for _, s := range moodSamples(checkIns, quickLogs) {
		h := s.At.In(loc).Hour()
		hourly[h] = append(hourly[h], s.Score)
	}

	bestHour, bestScore := -1, 0.0
	for h, moods := range hourly {
		if len(moods) < minHourSamples {
			continue
		}
		if avg := mean(moods); avg > bestScore {
			bestHour, bestScore = h, avg
		}
	}
	if bestHour < 0 {
		return nil
	}

	return &models.PredictiveInsight{
		ID:         "optimal-activity-time",
		Type:       models.PredictionActivity,
		Prediction: fmt.Sprintf("Best mood time: %s (%d:00)", timeOfDay(bestHour), bestHour),
		Confidence: confidence(bestScore * 10),
		Reasoning:  fmt.Sprintf("Your mood averages %.1f/10 at this time", bestScore),
		Action:     "Schedule important activities then",
	}
}

func timeOfDay(hour int) string {
	switch {
	case hour < 12:
		return "morning"
	case hour < 18:
		return "afternoon"
	default:
		return "evening"
	}
}
