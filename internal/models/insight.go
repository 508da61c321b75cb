// ABOUTME: Derived record types produced by the analysis pipeline.
// ABOUTME: Wellness scores, pattern and predictive insights, early warnings, snapshots.
package models

// WellnessBreakdown holds the five 0-20 sub-scores of a wellness score.
type WellnessBreakdown struct {
	MoodStability    int `json:"moodStability" yaml:"mood_stability"`
	CopingUsage      int `json:"copingUsage" yaml:"coping_usage"`
	SleepQuality     int `json:"sleepQuality" yaml:"sleep_quality"`
	SocialEngagement int `json:"socialEngagement" yaml:"social_engagement"`
	SelfCare         int `json:"selfCare" yaml:"self_care"`
}

// Sum returns the total of all five components.
func (b WellnessBreakdown) Sum() int {
	return b.MoodStability + b.CopingUsage + b.SleepQuality + b.SocialEngagement + b.SelfCare
}

// WellnessScore is a daily 0-100 snapshot over the trailing week.
type WellnessScore struct {
	Date      string            `json:"date" yaml:"date"`
	Overall   int               `json:"overall" yaml:"overall"`
	Breakdown WellnessBreakdown `json:"breakdown" yaml:"breakdown"`
}

// PatternType categorizes a PatternInsight.
type PatternType string

const (
	PatternTime     PatternType = "time"
	PatternSleep    PatternType = "sleep"
	PatternActivity PatternType = "activity"
	PatternTrigger  PatternType = "trigger"
	PatternStreak   PatternType = "streak"
	PatternProgress PatternType = "progress"
)

// PatternInsight is a recurring relationship detected in the mood history.
type PatternInsight struct {
	ID          string         `json:"id" yaml:"id"`
	Type        PatternType    `json:"type" yaml:"type"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Confidence  float64        `json:"confidence" yaml:"confidence"`
	Data        map[string]any `json:"data" yaml:"data"`
	Action      string         `json:"action,omitempty" yaml:"action,omitempty"`
}

// PredictionType categorizes a PredictiveInsight.
type PredictionType string

const (
	PredictionStress   PredictionType = "stress"
	PredictionMood     PredictionType = "mood"
	PredictionActivity PredictionType = "activity"
)

// PredictiveInsight is a forward-looking statement about mood or stress.
type PredictiveInsight struct {
	ID         string         `json:"id" yaml:"id"`
	Type       PredictionType `json:"type" yaml:"type"`
	Prediction string         `json:"prediction" yaml:"prediction"`
	Confidence float64        `json:"confidence" yaml:"confidence"`
	Reasoning  string         `json:"reasoning" yaml:"reasoning"`
	Action     string         `json:"action,omitempty" yaml:"action,omitempty"`
}

// Severity grades an early warning.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities: low < medium < high.
func (s Severity) Rank() int {
	switch s {
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	default:
		return 0
	}
}

// Escalate returns the higher of s and to. Severity never moves down.
func (s Severity) Escalate(to Severity) Severity {
	if to.Rank() > s.Rank() {
		return to
	}
	return s
}

// EarlyWarning is the verdict of the early warning classifier.
type EarlyWarning struct {
	Triggered     bool     `json:"triggered" yaml:"triggered"`
	Severity      Severity `json:"severity" yaml:"severity"`
	Reasons       []string `json:"reasons" yaml:"reasons"`
	LastTriggered *int64   `json:"lastTriggered,omitempty" yaml:"last_triggered,omitempty"`
}

// DefaultEarlyWarning returns the untriggered, low-severity warning state.
func DefaultEarlyWarning() *EarlyWarning {
	return &EarlyWarning{Severity: SeverityLow, Reasons: []string{}}
}

// MoodData is a full snapshot of stored records.
type MoodData struct {
	CheckIns       []*CheckIn           `json:"checkIns"`
	QuickLogs      []*QuickLog          `json:"quickLogs"`
	WellnessScores []*WellnessScore     `json:"wellnessScores"`
	Patterns       []*PatternInsight    `json:"patterns"`
	Predictions    []*PredictiveInsight `json:"predictions"`
	EarlyWarning   *EarlyWarning        `json:"earlyWarning"`
}
