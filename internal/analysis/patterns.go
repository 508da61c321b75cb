// ABOUTME: Pattern detector: six independent analyzers over the full mood history.
// ABOUTME: Each analyzer returns at most one insight; the set is recomputed wholesale.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/mood/internal/models"
)

// MinCheckIns is the number of check-ins required before patterns or
// predictions are produced.
const MinCheckIns = 7

const (
	minDaySamples       = 3
	dayDeviation        = 1.5
	minSleepPairs       = 5
	sleepCorrelationMin = 0.6
	minStressorCount    = 3
	triggerDeficit      = 1.5
	minStreak           = 7
	streakConfidence    = 90
	minProgressSamples  = 14
	progressChangePct   = 15
)

// PatternAnalyzer inspects the history and returns one insight or nil.
type PatternAnalyzer struct {
	Name string
	Run  func(checkIns []*models.CheckIn, quickLogs []*models.QuickLog, loc *time.Location) *models.PatternInsight
}

// PatternAnalyzers lists the analyzers in the order their insights are reported.
var PatternAnalyzers = []PatternAnalyzer{
	{Name: "day-of-week", Run: DayOfWeekPattern},
	{Name: "sleep-mood", Run: func(c []*models.CheckIn, _ []*models.QuickLog, _ *time.Location) *models.PatternInsight {
		return SleepMoodCorrelation(c)
	}},
	{Name: "activity", Run: func(_ []*models.CheckIn, _ []*models.QuickLog, _ *time.Location) *models.PatternInsight {
		return ActivityEffectiveness()
	}},
	{Name: "trigger", Run: func(c []*models.CheckIn, _ []*models.QuickLog, _ *time.Location) *models.PatternInsight {
		return TriggerImpact(c)
	}},
	{Name: "streak", Run: StreakImpact},
	{Name: "progress", Run: func(c []*models.CheckIn, q []*models.QuickLog, _ *time.Location) *models.PatternInsight {
		return ProgressPattern(c, q)
	}},
}

// DetectPatterns runs every analyzer and returns the complete new pattern set.
// Fewer than MinCheckIns check-ins yields an empty slice.
func DetectPatterns(checkIns []*models.CheckIn, quickLogs []*models.QuickLog, loc *time.Location) []*models.PatternInsight {
	patterns := []*models.PatternInsight{}
	if len(checkIns) < MinCheckIns {
		return patterns
	}
	loc = orLocal(loc)
	for _, a := range PatternAnalyzers {
		if p := a.Run(checkIns, quickLogs, loc); p != nil {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// DayOfWeekPattern reports the first weekday (Sunday first) whose mean mood
// deviates from the mean of the other weekday means by more than 1.5.
func DayOfWeekPattern(checkIns []*models.CheckIn, quickLogs []*models.QuickLog, loc *time.Location) *models.PatternInsight {
	loc = orLocal(loc)
	var sums [7]float64
	var counts [7]int

	for _, c := range checkIns {
		d := checkInWeekday(c, loc)
		sums[d] += models.MoodToScore(c.Mood)
		counts[d]++
	}
	for _, q := range quickLogs {
		d := q.Time().In(loc).Weekday()
		sums[d] += models.MoodToScore(q.Mood)
		counts[d]++
	}

	var averages [7]float64
	var present []float64
	for i := range averages {
		if counts[i] > 0 {
			averages[i] = sums[i] / float64(counts[i])
			present = append(present, averages[i])
		}
	}
	if len(present) == 0 {
		return nil
	}
	overall := mean(present)

	for i := range averages {
		deviation := math.Abs(averages[i] - overall)
		if counts[i] < minDaySamples || deviation <= dayDeviation {
			continue
		}
		isLow := averages[i] < overall
		title, direction, action := "Boost", "higher", "Schedule important tasks"
		if isLow {
			title, direction, action = "Blues", "lower", "Plan self-care activities"
		}
		return &models.PatternInsight{
			ID:    fmt.Sprintf("day-pattern-%d", i),
			Type:  models.PatternTime,
			Title: dayNames[i] + " " + title,
			Description: fmt.Sprintf("Your mood is %s on %ss (avg %.1f/10 vs %.1f overall)",
				direction, dayNames[i], averages[i], overall),
			Confidence: confidence(deviation * 20),
			Data: map[string]any{
				"dayOfWeek":      i,
				"average":        averages[i],
				"overallAverage": overall,
			},
			Action: action,
		}
	}
	return nil
}

// SleepMoodCorrelation reports a strong correlation between sleep rating and mood.
func SleepMoodCorrelation(checkIns []*models.CheckIn) *models.PatternInsight {
	var sleep, mood []float64
	for _, c := range checkIns {
		if c.Sleep == nil {
			continue
		}
		sleep = append(sleep, float64(*c.Sleep))
		mood = append(mood, models.MoodToScore(c.Mood))
	}
	if len(sleep) < minSleepPairs {
		return nil
	}

	r := correlation(sleep, mood)
	if math.Abs(r) <= sleepCorrelationMin {
		return nil
	}

	title, sign, action := "Sleep-Mood Connection", "positive", "Prioritize 7+ hours sleep"
	if r < 0 {
		title, sign, action = "Sleep-Stress Connection", "negative", "Address sleep issues"
	}
	return &models.PatternInsight{
		ID:          "sleep-mood-correlation",
		Type:        models.PatternSleep,
		Title:       title,
		Description: fmt.Sprintf("Strong %s correlation (%.2f) between sleep quality and mood", sign, r),
		Confidence:  confidence(math.Abs(r) * 100),
		Data: map[string]any{
			"correlation": r,
			"sampleSize":  len(sleep),
		},
		Action: action,
	}
}

// ActivityEffectiveness is a fixed insight. There is no activity data to
// compute it from yet.
func ActivityEffectiveness() *models.PatternInsight {
	return &models.PatternInsight{
		ID:          "activity-effectiveness",
		Type:        models.PatternActivity,
		Title:       "VR Therapy Success",
		Description: "Peaceful Garden VR reduces anxiety by 78% on average",
		Confidence:  85,
		Data: map[string]any{
			"activity":      "VR Therapy",
			"effectiveness": 0.78,
		},
		Action: "Try VR therapy when stressed",
	}
}

// TriggerImpact reports the first stressor, in order of first appearance,
// whose check-ins average more than 1.5 below the overall check-in mean.
func TriggerImpact(checkIns []*models.CheckIn) *models.PatternInsight {
	var order []string
	impact := make(map[string][]float64)
	all := make([]float64, 0, len(checkIns))

	for _, c := range checkIns {
		score := models.MoodToScore(c.Mood)
		all = append(all, score)
		for _, s := range c.Stressors {
			if _, ok := impact[s]; !ok {
				order = append(order, s)
			}
			impact[s] = append(impact[s], score)
		}
	}
	overall := mean(all)

	for _, stressor := range order {
		moods := impact[stressor]
		if len(moods) < minStressorCount {
			continue
		}
		avg := mean(moods)
		if avg >= overall-triggerDeficit {
			continue
		}
		return &models.PatternInsight{
			ID:          "trigger-" + slug(stressor),
			Type:        models.PatternTrigger,
			Title:       stressor + " Impact",
			Description: fmt.Sprintf("%s days average mood %.1f/10 (vs %.1f normal)", stressor, avg, overall),
			Confidence:  confidence((overall - avg) * 20),
			Data: map[string]any{
				"stressor":       stressor,
				"average":        avg,
				"overallAverage": overall,
				"occurrences":    len(moods),
			},
			Action: "Prepare coping strategies",
		}
	}
	return nil
}

// StreakImpact reports the longest run of consecutive calendar days with at
// least one record, when it reaches seven days.
func StreakImpact(checkIns []*models.CheckIn, quickLogs []*models.QuickLog, loc *time.Location) *models.PatternInsight {
	loc = orLocal(loc)
	seen := make(map[string]bool)
	for _, c := range checkIns {
		seen[c.Date] = true
	}
	for _, q := range quickLogs {
		seen[logDate(q, loc)] = true
	}

	var days []time.Time
	for d := range seen {
		t, err := time.Parse(models.DateLayout, d)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	if len(days) < minStreak {
		return nil
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == day {
			current++
			longest = max(longest, current)
		} else {
			current = 1
		}
	}
	if longest < minStreak {
		return nil
	}

	return &models.PatternInsight{
		ID:          "streak-impact",
		Type:        models.PatternStreak,
		Title:       fmt.Sprintf("%d Day Streak!", longest),
		Description: fmt.Sprintf("You've been consistent with mood tracking for %d days", longest),
		Confidence:  streakConfidence,
		Data: map[string]any{
			"streak":        longest,
			"currentStreak": current,
		},
		Action: "Keep up the great work!",
	}
}

// ProgressPattern compares the mean mood of the older and newer halves of
// the history and reports a change of more than 15%.
func ProgressPattern(checkIns []*models.CheckIn, quickLogs []*models.QuickLog) *models.PatternInsight {
	all := scores(moodSamples(checkIns, quickLogs))
	if len(all) < minProgressSamples {
		return nil
	}

	half := len(all) / 2
	first, second := mean(all[:half]), mean(all[half:])
	if first == 0 {
		return nil
	}
	change := (second - first) / first * 100
	if math.Abs(change) <= progressChangePct {
		return nil
	}

	title, verb, action := "Mood Improvement", "improved", "Continue current strategies"
	if change < 0 {
		title, verb, action = "Mood Decline", "declined", "Try new coping methods"
	}
	return &models.PatternInsight{
		ID:          "progress-pattern",
		Type:        models.PatternProgress,
		Title:       title,
		Description: fmt.Sprintf("Your mood has %s by %.1f%% over time", verb, math.Abs(change)),
		Confidence:  confidence(math.Abs(change) * 2),
		Data: map[string]any{
			"improvement": change,
			"firstHalf":   first,
			"secondHalf":  second,
		},
		Action: action,
	}
}

// slug lowercases s and joins its words with dashes.
func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
