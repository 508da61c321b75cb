// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands end to end against temp sqlite and badger stores.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/mood/internal/config"
	"github.com/harperreed/mood/internal/insights"
	"github.com/harperreed/mood/internal/logging"
	"github.com/harperreed/mood/internal/models"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// setupCLI points config and data at temp dirs and returns the data dir.
func setupCLI(t *testing.T) string {
	t.Helper()

	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, "MOOD_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}

	dataDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MOOD_DATA_DIR", dataDir)
	t.Setenv("MOOD_TIMEZONE", "UTC")
	t.Setenv("MOOD_LOG_LEVEL", "error")
	t.Cleanup(func() { _ = closeStore() })
	return dataDir
}

// resetFlags restores every flag to its default so state does not leak
// between Execute calls on the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace([]string{})
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("mood %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func daysAgo(n int, clock string) string {
	return time.Now().UTC().AddDate(0, 0, -n).Format(models.DateLayout) + " " + clock
}

func TestCheckInAndList(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "checkin", "calm", "--sleep", "7", "--energy", "high", "--at", "2026-03-01 08:00")
	if !strings.Contains(out, "Recorded morning check-in for 2026-03-01: calm") {
		t.Errorf("unexpected checkin output: %q", out)
	}

	out = mustRun(t, "checkin", "tired", "--day-rating", "6", "--end-stress", "4", "--at", "2026-03-01 21:00")
	if !strings.Contains(out, "Recorded evening check-in") {
		t.Errorf("expected evening check-in from time of day, got %q", out)
	}

	out = mustRun(t, "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], "tired") || !strings.Contains(lines[0], "stress 4") {
		t.Errorf("expected newest (evening) first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "sleep 7") || !strings.Contains(lines[1], "energy high") {
		t.Errorf("expected morning details, got %q", lines[1])
	}
}

func TestCheckInFlagsDoNotLeakBetweenRuns(t *testing.T) {
	setupCLI(t)

	mustRun(t, "checkin", "calm", "--sleep", "9", "--at", "2026-03-01 08:00")
	mustRun(t, "checkin", "sad", "--at", "2026-03-02 08:00")

	out := mustRun(t, "list", "--date", "2026-03-02")
	if strings.Contains(out, "sleep") {
		t.Errorf("sleep flag leaked into second run: %q", out)
	}
}

func TestCheckInDuplicateNeedsForce(t *testing.T) {
	setupCLI(t)

	mustRun(t, "checkin", "calm", "--type", "morning", "--at", "2026-03-01 08:00")

	_, err := runCLI(t, "checkin", "sad", "--type", "morning", "--at", "2026-03-01 10:00")
	if err == nil {
		t.Fatal("expected duplicate check-in to fail")
	}
	if !strings.Contains(err.Error(), "--force") {
		t.Errorf("expected hint about --force, got %v", err)
	}

	mustRun(t, "checkin", "sad", "--type", "morning", "--force", "--at", "2026-03-01 10:00")
	out := mustRun(t, "list", "--date", "2026-03-01")
	if n := strings.Count(strings.TrimSpace(out), "\n") + 1; n != 2 {
		t.Errorf("expected 2 check-ins after --force, got %d", n)
	}
}

func TestCheckInRejectsUnknownMood(t *testing.T) {
	setupCLI(t)

	if _, err := runCLI(t, "checkin", "ecstatic"); err == nil {
		t.Error("expected error for unknown mood")
	}
	if _, err := runCLI(t, "checkin", "calm", "--at", "31-01-2026"); err == nil {
		t.Error("expected error for invalid --at")
	}
}

func TestLogAndListLogs(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "log", "anxious", "big", "meeting", "--at", "2026-03-01 14:30")
	if !strings.Contains(out, "Logged anxious at 14:30") {
		t.Errorf("unexpected log output: %q", out)
	}

	out = mustRun(t, "list", "--logs")
	if !strings.Contains(out, "anxious") || !strings.Contains(out, "(big meeting)") {
		t.Errorf("expected quick log in list, got %q", out)
	}
}

func TestListEmpty(t *testing.T) {
	setupCLI(t)

	if out := mustRun(t, "list"); !strings.Contains(out, "No check-ins found.") {
		t.Errorf("unexpected output: %q", out)
	}
	if out := mustRun(t, "list", "--logs"); !strings.Contains(out, "No quick logs found.") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestAnalyzeWithoutData(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "analyze")
	for _, want := range []string{
		"Not enough data in the last 7 days",
		"No patterns yet",
		"No predictions yet",
		"No early warning signs",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("analyze output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeReportAndStaleness(t *testing.T) {
	setupCLI(t)

	for i := 1; i <= 10; i++ {
		mustRun(t, "checkin", "calm", "--type", "morning", "--sleep", "8", "--at", daysAgo(i, "09:00"))
	}

	out := mustRun(t, "analyze", "--json")
	var report insights.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("analyze --json did not print a report: %v\n%s", err, out)
	}
	if report.Wellness == nil || report.Wellness.Overall <= 0 {
		t.Errorf("expected a wellness score, got %+v", report.Wellness)
	}
	if report.EarlyWarning == nil || report.EarlyWarning.Triggered {
		t.Errorf("expected no warning for steady calm mood, got %+v", report.EarlyWarning)
	}

	out = mustRun(t, "analyze", "--if-stale", "1h")
	if !strings.Contains(out, "Analysis is up to date.") {
		t.Errorf("expected fresh analysis to be skipped, got %q", out)
	}

	out = mustRun(t, "wellness")
	if !strings.Contains(out, "Wellness ") || !strings.Contains(out, "Sleep quality") {
		t.Errorf("unexpected wellness output: %q", out)
	}
}

func TestWarningCommandFlagsSilence(t *testing.T) {
	setupCLI(t)

	mustRun(t, "checkin", "calm", "--type", "morning", "--at", daysAgo(10, "00:00"))

	out := mustRun(t, "warning")
	if !strings.Contains(out, "Early warning (medium severity)") || !strings.Contains(out, "No check-ins for 10 days") {
		t.Errorf("expected silence warning, got %q", out)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	setupCLI(t)

	mustRun(t, "checkin", "happy", "--at", "2026-03-01 08:00")
	mustRun(t, "log", "calm", "--at", "2026-03-01 12:00")

	backup := filepath.Join(t.TempDir(), "backup.json")
	out := mustRun(t, "export", "json", "-o", backup)
	if !strings.Contains(out, "Exported to") {
		t.Errorf("unexpected export output: %q", out)
	}

	// Import into a fresh data directory.
	t.Setenv("MOOD_DATA_DIR", t.TempDir())

	out = mustRun(t, "import", backup)
	if !strings.Contains(out, "Check-ins: 1") || !strings.Contains(out, "Quick logs: 1") {
		t.Errorf("unexpected import output: %q", out)
	}

	out = mustRun(t, "import", backup)
	if !strings.Contains(out, "Check-ins: 0") || !strings.Contains(out, "Skipped (already present): 2") {
		t.Errorf("expected second import to skip, got %q", out)
	}
}

func TestExportFormats(t *testing.T) {
	setupCLI(t)
	mustRun(t, "checkin", "happy", "--gratitude", "sunny walk", "--at", "2026-03-01 20:00")

	if out := mustRun(t, "export", "yaml"); !strings.Contains(out, "check_ins:") {
		t.Errorf("yaml export missing check_ins: %q", out)
	}

	out := mustRun(t, "export", "markdown", "--since", "2026-02-01")
	if !strings.Contains(out, "# Mood Export") || !strings.Contains(out, "sunny walk") {
		t.Errorf("unexpected markdown export: %q", out)
	}

	if _, err := runCLI(t, "export", "csv"); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := runCLI(t, "export", "markdown", "--since", "March"); err == nil {
		t.Error("expected error for invalid --since")
	}
}

func TestMigrateSQLiteToBadger(t *testing.T) {
	dataDir := setupCLI(t)

	mustRun(t, "checkin", "calm", "--at", "2026-03-01 08:00")
	mustRun(t, "checkin", "sad", "--at", "2026-03-02 08:00")

	out := mustRun(t, "migrate", "--to", "badger", "--dry-run")
	if !strings.Contains(out, "Would migrate from sqlite to badger") || !strings.Contains(out, "Check-ins: 2") {
		t.Errorf("unexpected dry run output: %q", out)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "badger")); err == nil {
		t.Error("dry run should not create the destination")
	}

	out = mustRun(t, "migrate", "--to", "badger")
	if !strings.Contains(out, "Migrated from sqlite to badger") || !strings.Contains(out, "Check-ins: 2") {
		t.Errorf("unexpected migrate output: %q", out)
	}

	out = mustRun(t, "migrate", "--to", "badger")
	if !strings.Contains(out, "already has data") || !strings.Contains(out, "Check-ins: 0") {
		t.Errorf("expected second migration to merge without duplicates, got %q", out)
	}

	out = mustRun(t, "--backend", "badger", "list")
	if !strings.Contains(out, "calm") || !strings.Contains(out, "sad") {
		t.Errorf("expected migrated check-ins in badger, got %q", out)
	}
}

func TestMigrateSameBackendFails(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "migrate", "--to", "sqlite")
	if err == nil || !strings.Contains(err.Error(), "same") {
		t.Errorf("expected same-backend error, got %v", err)
	}
}

func TestSyncStatusWithoutCharm(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "sync", "status")
	if !strings.Contains(out, "Sync is off: the sqlite backend does not sync") {
		t.Errorf("unexpected status output: %q", out)
	}
}

func TestSyncWipeCanceled(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "sync", "wipe")
	if !strings.Contains(out, "Canceled.") {
		t.Errorf("expected wipe without confirmation to cancel, got %q", out)
	}
}

func TestUnknownBackend(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "--backend", "nope", "list")
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("expected unknown backend error, got %v", err)
	}
}

func TestEnvSelectsTimezone(t *testing.T) {
	setupCLI(t)
	t.Setenv("MOOD_TIMEZONE", "America/Chicago")

	// 03:00 UTC on March 2 is still March 1 in Chicago.
	out := mustRun(t, "checkin", "calm", "--type", "evening", "--at", "2026-03-02T03:00:00Z")
	if !strings.Contains(out, "for 2026-03-01") {
		t.Errorf("expected Chicago date, got %q", out)
	}
}

func TestRunDaemonStopsOnCancel(t *testing.T) {
	setupCLI(t)
	t.Setenv("MOOD_METRICS_ADDR", "127.0.0.1:0")
	t.Setenv("MOOD_MORNING_REMINDER", "09:00")

	var err error
	cfg, err = config.Load()
	if err != nil {
		t.Fatalf("config.Load() failed: %v", err)
	}
	logger = logging.Nop()
	if err := openService(); err != nil {
		t.Fatalf("openService() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- runDaemon(ctx, &buf) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runDaemon() returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("runDaemon() did not stop after cancel")
	}

	if !strings.Contains(buf.String(), "morning-reminder") {
		t.Errorf("expected reminder job in startup line, got %q", buf.String())
	}
}

func TestRunDaemonRejectsBadInterval(t *testing.T) {
	setupCLI(t)
	t.Setenv("MOOD_ANALYSIS_INTERVAL", "soon")

	_, err := runCLI(t, "daemon")
	if err == nil {
		t.Error("expected error for invalid analysis interval")
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		flags []string
	}{
		{checkInCmd, []string{"type", "sleep", "sleep-tags", "energy", "stressors", "day-rating", "end-stress", "gratitude", "challenges", "at", "force"}},
		{logCmd, []string{"at"}},
		{listCmd, []string{"date", "limit", "logs"}},
		{analyzeCmd, []string{"if-stale", "json"}},
		{exportCmd, []string{"output", "since"}},
		{migrateCmd, []string{"from", "to", "dry-run"}},
		{syncRepairCmd, []string{"force"}},
		{installSkillCmd, []string{"yes"}},
	}

	for _, tt := range tests {
		for _, name := range tt.flags {
			t.Run(fmt.Sprintf("%s/%s", tt.cmd.Name(), name), func(t *testing.T) {
				if tt.cmd.Flags().Lookup(name) == nil {
					t.Errorf("%s missing --%s flag", tt.cmd.Name(), name)
				}
			})
		}
	}

	for _, name := range []string{"backend", "data-dir", "timezone", "log-level", "log-format"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("root missing --%s flag", name)
		}
	}
}

func TestCommandAliases(t *testing.T) {
	if !contains(listCmd.Aliases, "ls") {
		t.Error("list should have alias ls")
	}
	if !contains(checkInCmd.Aliases, "ci") {
		t.Error("checkin should have alias ci")
	}
	if !contains(syncCmd.Aliases, "s") {
		t.Error("sync should have alias s")
	}
}

func TestValidArgs(t *testing.T) {
	if !contains(exportCmd.ValidArgs, "markdown") {
		t.Errorf("export ValidArgs = %v", exportCmd.ValidArgs)
	}
	if len(checkInCmd.ValidArgs) != len(models.AllMoods) {
		t.Errorf("checkin ValidArgs = %v", checkInCmd.ValidArgs)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string no truncation", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world this is long", 10, "hello w..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("calm", 6); got != "calm  " {
		t.Errorf("padRight() = %q", got)
	}
	if got := padRight("frustrated", 4); got != "frustrated" {
		t.Errorf("padRight() should not cut, got %q", got)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID() = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID() = %q", got)
	}
}

func TestCheckInDetails(t *testing.T) {
	c := models.NewCheckIn(models.CheckInMorning, models.MoodCalm).
		WithSleep(6).
		WithEnergy(models.EnergyLow).
		WithStressors("work", "money")

	got := checkInDetails(c)
	want := "sleep 6 · energy low · stressors work,money"
	if got != want {
		t.Errorf("checkInDetails() = %q, want %q", got, want)
	}

	if got := checkInDetails(models.NewCheckIn(models.CheckInEvening, models.MoodSad)); got != "" {
		t.Errorf("expected no details, got %q", got)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
