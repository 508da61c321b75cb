// ABOUTME: CLI commands for the analysis pipeline.
// ABOUTME: Wellness score, patterns, predictions, early warning, and full analysis runs.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/mood/internal/models"
	"github.com/spf13/cobra"
)

var (
	analyzeIfStale time.Duration
	analyzeJSON    bool
)

var wellnessCmd = &cobra.Command{
	Use:   "wellness",
	Short: "Compute today's wellness score",
	Long: `Compute a 0-100 wellness score from the last 7 days and store it
as today's entry in the wellness history.

The score is the sum of five 0-20 components: mood stability, coping,
sleep quality, social engagement, and self-care.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := svc.ComputeWellnessScore()
		if err != nil {
			return fmt.Errorf("failed to compute wellness score: %w", err)
		}
		printWellness(cmd.OutOrStdout(), score)
		return nil
	},
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Detect recurring mood patterns",
	Long: `Detect recurring relationships in your mood history: time of day,
weekday, sleep, energy, triggers, and check-in streaks.

Patterns need at least 7 check-ins.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		patterns, err := svc.DetectPatterns()
		if err != nil {
			return fmt.Errorf("failed to detect patterns: %w", err)
		}
		printPatterns(cmd.OutOrStdout(), patterns)
		return nil
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict stress, mood dips, and your best time of day",
	Long: `Generate predictions from your history: tomorrow's stress level,
an upcoming mood dip, and the time of day you tend to feel best.

Predictions need at least 7 check-ins.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		predictions, err := svc.GeneratePredictions()
		if err != nil {
			return fmt.Errorf("failed to generate predictions: %w", err)
		}
		printPredictions(cmd.OutOrStdout(), predictions)
		return nil
	},
}

var warningCmd = &cobra.Command{
	Use:   "warning",
	Short: "Check for early warning signs",
	Long: `Classify recent history for signs of a sustained low: low mood
streaks, declining trends, persistent anxiety, poor sleep, isolation,
and gaps in check-ins. Severity escalates from low to medium to high.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := svc.CheckEarlyWarning()
		if err != nil {
			return fmt.Errorf("failed to check early warning: %w", err)
		}
		printWarning(cmd.OutOrStdout(), w)
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Recompute and store all insights",
	Long: `Run the full analysis pipeline over one snapshot of your data and
store the results: wellness score, patterns, predictions, and early warning.

Use --if-stale to skip the run when the last analysis is recent enough,
which is handy from cron or a shell prompt hook.

EXAMPLES:

  mood analyze                 # Run now
  mood analyze --if-stale 6h   # Run only if the last run is 6h old
  mood analyze --json          # Print the report as JSON`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if analyzeIfStale > 0 {
			stale, err := svc.ShouldReanalyze(analyzeIfStale)
			if err != nil {
				return err
			}
			if !stale {
				fmt.Fprintln(out, "Analysis is up to date.")
				return nil
			}
		}

		report, err := svc.RunAnalysis(cmd.Context())
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		if analyzeJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		printWellness(out, report.Wellness)
		fmt.Fprintln(out)
		printPatterns(out, report.Patterns)
		fmt.Fprintln(out)
		printPredictions(out, report.Predictions)
		fmt.Fprintln(out)
		printWarning(out, report.EarlyWarning)
		for _, name := range report.Failed {
			color.New(color.FgYellow).Fprintf(out, "⚠ Skipped %s (analyzer failed)\n", name)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().DurationVar(&analyzeIfStale, "if-stale", 0, "only run if the last analysis is older than this")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the report as JSON")

	rootCmd.AddCommand(wellnessCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(warningCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func printWellness(out io.Writer, w *models.WellnessScore) {
	if w == nil {
		fmt.Fprintln(out, "Not enough data in the last 7 days for a wellness score.")
		return
	}

	c := color.New(color.FgGreen)
	switch {
	case w.Overall < 40:
		c = color.New(color.FgRed)
	case w.Overall < 60:
		c = color.New(color.FgYellow)
	}
	c.Fprintf(out, "Wellness %d/100", w.Overall)
	color.New(color.Faint).Fprintf(out, " (%s)\n", w.Date)

	b := w.Breakdown
	fmt.Fprintf(out, "  %s %2d/20\n", padRight("Mood stability", 18), b.MoodStability)
	fmt.Fprintf(out, "  %s %2d/20\n", padRight("Coping", 18), b.CopingUsage)
	fmt.Fprintf(out, "  %s %2d/20\n", padRight("Sleep quality", 18), b.SleepQuality)
	fmt.Fprintf(out, "  %s %2d/20\n", padRight("Social engagement", 18), b.SocialEngagement)
	fmt.Fprintf(out, "  %s %2d/20\n", padRight("Self-care", 18), b.SelfCare)
}

func printPatterns(out io.Writer, patterns []*models.PatternInsight) {
	if len(patterns) == 0 {
		fmt.Fprintln(out, "No patterns yet. Patterns need at least 7 check-ins.")
		return
	}

	color.New(color.Bold).Fprintln(out, "Patterns")
	faint := color.New(color.Faint)
	for _, p := range patterns {
		fmt.Fprintf(out, "  • %s %s\n", p.Title, faint.Sprintf("[%s, %.0f%%]", p.Type, p.Confidence))
		fmt.Fprintf(out, "    %s\n", p.Description)
		if p.Action != "" {
			faint.Fprintf(out, "    → %s\n", p.Action)
		}
	}
}

func printPredictions(out io.Writer, predictions []*models.PredictiveInsight) {
	if len(predictions) == 0 {
		fmt.Fprintln(out, "No predictions yet. Predictions need at least 7 check-ins.")
		return
	}

	color.New(color.Bold).Fprintln(out, "Predictions")
	faint := color.New(color.Faint)
	for _, p := range predictions {
		fmt.Fprintf(out, "  • %s %s\n", p.Prediction, faint.Sprintf("[%s, %.0f%%]", p.Type, p.Confidence))
		fmt.Fprintf(out, "    %s\n", p.Reasoning)
		if p.Action != "" {
			faint.Fprintf(out, "    → %s\n", p.Action)
		}
	}
}

func printWarning(out io.Writer, w *models.EarlyWarning) {
	if w == nil || !w.Triggered {
		color.New(color.FgGreen).Fprintln(out, "✓ No early warning signs")
		return
	}

	c := color.New(color.FgYellow)
	if w.Severity == models.SeverityHigh {
		c = color.New(color.FgRed, color.Bold)
	}
	c.Fprintf(out, "⚠ Early warning (%s severity)\n", w.Severity)
	for _, r := range w.Reasons {
		fmt.Fprintf(out, "  • %s\n", r)
	}
	if w.Severity == models.SeverityHigh {
		fmt.Fprintln(out, "\nIf you are struggling, please reach out to someone you trust or a crisis line.")
	}
}
