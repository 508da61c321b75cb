// ABOUTME: Mood enum and the fixed mood/score conversion tables.
// ABOUTME: Every analyzer scores moods through MoodToScore on a 1-10 scale.
package models

// Mood is a categorical mood label chosen by the user.
type Mood string

const (
	MoodHappy      Mood = "happy"
	MoodCalm       Mood = "calm"
	MoodNeutral    Mood = "neutral"
	MoodWorried    Mood = "worried"
	MoodSad        Mood = "sad"
	MoodFrustrated Mood = "frustrated"
	MoodAnxious    Mood = "anxious"
	MoodTired      Mood = "tired"
)

// AllMoods lists the known mood labels in display order.
var AllMoods = []Mood{
	MoodHappy, MoodCalm, MoodNeutral, MoodWorried,
	MoodSad, MoodFrustrated, MoodAnxious, MoodTired,
}

// moodScores maps each known mood to its score.
var moodScores = map[Mood]float64{
	MoodHappy:      9,
	MoodCalm:       8,
	MoodNeutral:    5,
	MoodWorried:    4,
	MoodTired:      4,
	MoodSad:        3,
	MoodFrustrated: 3,
	MoodAnxious:    2,
}

// NeutralScore is the score given to unknown mood labels.
const NeutralScore = 5

// IsValidMood checks if a string is a known mood label.
func IsValidMood(s string) bool {
	_, ok := moodScores[Mood(s)]
	return ok
}

// MoodToScore converts a mood label to its score. Unknown labels score as neutral.
func MoodToScore(mood string) float64 {
	if score, ok := moodScores[Mood(mood)]; ok {
		return score
	}
	return NeutralScore
}

// ScoreToMood buckets a score back into one of five moods.
// It is lossy: ScoreToMood(MoodToScore(m)) need not return m.
func ScoreToMood(score float64) Mood {
	switch {
	case score >= 8:
		return MoodHappy
	case score >= 6:
		return MoodCalm
	case score >= 4:
		return MoodNeutral
	case score >= 2:
		return MoodWorried
	default:
		return MoodSad
	}
}
