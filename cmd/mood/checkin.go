// ABOUTME: CLI commands for recording mood entries.
// ABOUTME: Morning/evening check-ins and quick mood logs.
package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/mood/internal/insights"
	"github.com/harperreed/mood/internal/models"
	"github.com/spf13/cobra"
)

var (
	checkInType       string
	checkInSleep      int
	checkInSleepTags  []string
	checkInEnergy     string
	checkInStressors  []string
	checkInDayRating  int
	checkInEndStress  int
	checkInGratitude  string
	checkInChallenges string
	checkInAt         string
	checkInForce      bool

	logAt string
)

var checkInCmd = &cobra.Command{
	Use:     "checkin <mood>",
	Aliases: []string{"ci"},
	Short:   "Record a morning or evening check-in",
	Long: `Record a morning or evening check-in.

MOODS:

  happy, calm, neutral, worried, sad, frustrated, anxious, tired

The check-in type defaults to morning before 18:00 and evening after.
Only one check-in of each type is kept per day; use --force to add another.

MORNING FIELDS:

  --sleep        Sleep quality 1-10
  --sleep-tags   Sleep descriptors (restless, vivid dreams, ...)
  --energy       low, medium, or high
  --stressors    Stressors you expect today

EVENING FIELDS:

  --day-rating   How the day went, 1-10
  --end-stress   Stress at the end of the day, 0-10
  --gratitude    Something you are grateful for
  --challenges   What was hard today

EXAMPLES:

  mood checkin calm --sleep 7 --energy medium
  mood checkin anxious --stressors work,commute
  mood checkin tired --type evening --day-rating 5 --end-stress 7
  mood checkin happy --at "2026-03-01 08:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := insights.CheckInInput{
			Type:       checkInType,
			Mood:       args[0],
			SleepTags:  checkInSleepTags,
			Energy:     checkInEnergy,
			Stressors:  checkInStressors,
			Gratitude:  checkInGratitude,
			Challenges: checkInChallenges,
			Force:      checkInForce,
		}
		if cmd.Flags().Changed("sleep") {
			in.Sleep = &checkInSleep
		}
		if cmd.Flags().Changed("day-rating") {
			in.DayRating = &checkInDayRating
		}
		if cmd.Flags().Changed("end-stress") {
			in.EndStress = &checkInEndStress
		}
		if checkInAt != "" {
			at, err := svc.ParseTime(checkInAt)
			if err != nil {
				return err
			}
			in.At = at
		}

		c, err := svc.RecordCheckIn(in)
		if errors.Is(err, insights.ErrAlreadyCheckedIn) {
			return fmt.Errorf("%w (use --force to record another)", err)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Recorded %s check-in for %s: %s ", c.Type, c.Date, c.Mood)
		color.New(color.Faint).Fprintf(out, "(%s)\n", shortID(c.ID))
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log <mood> [note...]",
	Short: "Log a quick mood sample",
	Long: `Log how you feel right now, with an optional short note.

EXAMPLES:

  mood log calm
  mood log anxious "waiting on test results"
  mood log happy --at "2026-03-01 14:30"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var at time.Time
		if logAt != "" {
			t, err := svc.ParseTime(logAt)
			if err != nil {
				return err
			}
			at = t
		}

		note := strings.Join(args[1:], " ")
		q, err := svc.RecordQuickLog(args[0], note, at)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Logged %s at %s ", q.Mood, q.Time().In(svc.Location()).Format("15:04"))
		color.New(color.Faint).Fprintf(out, "(%s)\n", shortID(q.ID))
		return nil
	},
}

func init() {
	f := checkInCmd.Flags()
	f.StringVarP(&checkInType, "type", "t", "", "check-in type: morning or evening (default: by time of day)")
	f.IntVar(&checkInSleep, "sleep", 0, "sleep quality 1-10")
	f.StringSliceVar(&checkInSleepTags, "sleep-tags", nil, "sleep descriptors, comma separated")
	f.StringVarP(&checkInEnergy, "energy", "e", "", "energy: low, medium, high")
	f.StringSliceVarP(&checkInStressors, "stressors", "s", nil, "stressors, comma separated")
	f.IntVar(&checkInDayRating, "day-rating", 0, "day rating 1-10")
	f.IntVar(&checkInEndStress, "end-stress", 0, "end-of-day stress 0-10")
	f.StringVar(&checkInGratitude, "gratitude", "", "something you are grateful for")
	f.StringVar(&checkInChallenges, "challenges", "", "challenges faced today")
	f.StringVar(&checkInAt, "at", "", "timestamp (YYYY-MM-DD HH:MM, YYYY-MM-DD, or RFC3339)")
	f.BoolVarP(&checkInForce, "force", "f", false, "record even if this check-in type exists for the day")

	_ = checkInCmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(
		[]string{string(models.CheckInMorning), string(models.CheckInEvening)}, cobra.ShellCompDirectiveNoFileComp))
	_ = checkInCmd.RegisterFlagCompletionFunc("energy", cobra.FixedCompletions(
		[]string{string(models.EnergyLow), string(models.EnergyMedium), string(models.EnergyHigh)}, cobra.ShellCompDirectiveNoFileComp))
	checkInCmd.ValidArgs = moodNames()

	logCmd.Flags().StringVar(&logAt, "at", "", "timestamp (YYYY-MM-DD HH:MM, YYYY-MM-DD, or RFC3339)")
	logCmd.ValidArgs = moodNames()

	rootCmd.AddCommand(checkInCmd)
	rootCmd.AddCommand(logCmd)
}

func moodNames() []string {
	names := make([]string, 0, len(models.AllMoods))
	for _, m := range models.AllMoods {
		names = append(names, string(m))
	}
	return names
}
