// ABOUTME: CLI command for listing check-ins and quick logs.
// ABOUTME: Prints newest entries first with short IDs and key fields.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/mood/internal/models"
	"github.com/spf13/cobra"
)

var (
	listDate  string
	listLimit int
	listLogs  bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List recent check-ins",
	Long: `List recent check-ins, newest first.

OUTPUT FORMAT:

  Each line shows: ID  DATE  TYPE  MOOD  DETAILS

  Details are sleep and energy for morning check-ins, and day rating and
  end-of-day stress for evening check-ins.

EXAMPLES:

  mood list                     # Last 20 check-ins
  mood list --date 2026-03-01   # Check-ins on one day
  mood list --logs -n 50        # Last 50 quick logs instead`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)

		if listLogs {
			logs, err := svc.RecentQuickLogs(listLimit)
			if err != nil {
				return fmt.Errorf("failed to list quick logs: %w", err)
			}
			if len(logs) == 0 {
				fmt.Fprintln(out, "No quick logs found.")
				return nil
			}
			for _, q := range logs {
				note := ""
				if q.Note != "" {
					note = faint.Sprintf(" (%s)", truncate(q.Note, 40))
				}
				fmt.Fprintf(out, "%s %s %s%s\n",
					faint.Sprint(shortID(q.ID)),
					faint.Sprint(q.Time().In(svc.Location()).Format("2006-01-02 15:04")),
					q.Mood,
					note)
			}
			return nil
		}

		checkIns, err := svc.RecentCheckIns(strings.TrimSpace(listDate), listLimit)
		if err != nil {
			return fmt.Errorf("failed to list check-ins: %w", err)
		}
		if len(checkIns) == 0 {
			fmt.Fprintln(out, "No check-ins found.")
			return nil
		}

		for _, c := range checkIns {
			fmt.Fprintf(out, "%s %s %s %s %s\n",
				faint.Sprint(shortID(c.ID)),
				faint.Sprint(c.Date),
				padRight(string(c.Type), 8),
				padRight(c.Mood, 11),
				faint.Sprint(checkInDetails(c)))
		}
		return nil
	},
}

func checkInDetails(c *models.CheckIn) string {
	var parts []string
	if c.Sleep != nil {
		parts = append(parts, fmt.Sprintf("sleep %d", *c.Sleep))
	}
	if c.Energy != "" {
		parts = append(parts, fmt.Sprintf("energy %s", c.Energy))
	}
	if len(c.Stressors) > 0 {
		parts = append(parts, "stressors "+strings.Join(c.Stressors, ","))
	}
	if c.DayRating != nil {
		parts = append(parts, fmt.Sprintf("day %d", *c.DayRating))
	}
	if c.EndStress != nil {
		parts = append(parts, fmt.Sprintf("stress %d", *c.EndStress))
	}
	return strings.Join(parts, " · ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	listCmd.Flags().StringVarP(&listDate, "date", "d", "", "only check-ins on this date (YYYY-MM-DD)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	listCmd.Flags().BoolVar(&listLogs, "logs", false, "list quick logs instead of check-ins")
	rootCmd.AddCommand(listCmd)
}
