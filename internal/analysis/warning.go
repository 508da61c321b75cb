// ABOUTME: Rule-based early warning classifier.
// ABOUTME: Severity only escalates within one pass; reasons keep rule order.
package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/mood/internal/models"
)

const (
	warningWindow     = 7
	lowMoodThreshold  = 4
	veryLowMood       = 3
	declineThreshold  = 2
	silenceDays       = 5
	concerningMessage = "Concerning language detected in recent notes"
)

// CrisisKeywords are matched case-insensitively against check-in challenges
// and quick log notes.
var CrisisKeywords = []string{
	"hopeless",
	"worthless",
	"suicide",
	"end it all",
	"give up",
	"can't go on",
}

// CheckEarlyWarning classifies the history. The rules run in order:
// sustained low mood, declining trend, silence, then concerning language.
func CheckEarlyWarning(checkIns []*models.CheckIn, quickLogs []*models.QuickLog, now time.Time) *models.EarlyWarning {
	w := models.DefaultEarlyWarning()
	recent := scores(lastN(moodSamples(checkIns, quickLogs), warningWindow))

	if len(recent) >= warningWindow {
		if avg := mean(recent); avg < lowMoodThreshold {
			w.Reasons = append(w.Reasons, fmt.Sprintf("Low mood across the last %d entries (avg %.1f/10)", len(recent), avg))
			if avg < veryLowMood {
				w.Severity = w.Severity.Escalate(models.SeverityHigh)
			} else {
				w.Severity = w.Severity.Escalate(models.SeverityMedium)
			}
		}

		half := len(recent) / 2
		if decline := mean(recent[:half]) - mean(recent[half:]); decline > declineThreshold {
			w.Reasons = append(w.Reasons, fmt.Sprintf("Mood declining by %.1f points", decline))
			w.Severity = w.Severity.Escalate(models.SeverityMedium)
		}
	}

	if days, ok := daysSinceLastCheckIn(checkIns, now); ok && days >= silenceDays {
		w.Reasons = append(w.Reasons, fmt.Sprintf("No check-ins for %d days", days))
		w.Severity = w.Severity.Escalate(models.SeverityMedium)
	}

	if hasCrisisLanguage(checkIns, quickLogs) {
		w.Reasons = append(w.Reasons, concerningMessage)
		w.Severity = models.SeverityHigh
	}

	w.Triggered = len(w.Reasons) > 0
	if w.Triggered {
		ts := now.UnixMilli()
		w.LastTriggered = &ts
	}
	return w
}

func hasCrisisLanguage(checkIns []*models.CheckIn, quickLogs []*models.QuickLog) bool {
	for _, c := range checkIns {
		if containsKeyword(c.Challenges) {
			return true
		}
	}
	for _, q := range quickLogs {
		if containsKeyword(q.Note) {
			return true
		}
	}
	return false
}

func containsKeyword(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ReplaceAll(strings.ToLower(text), "’", "'")
	for _, k := range CrisisKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
