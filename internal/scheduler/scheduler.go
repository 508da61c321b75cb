// ABOUTME: Periodic re-analysis and check-in reminders for daemon mode.
// ABOUTME: Wraps a gocron scheduler around the insights service.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/harperreed/mood/internal/insights"
	"github.com/harperreed/mood/internal/logging"
	"github.com/harperreed/mood/internal/models"
)

// DefaultInterval is how often the analysis pipeline reruns.
const DefaultInterval = 6 * time.Hour

// Analyzer runs the analysis pipeline.
type Analyzer interface {
	RunAnalysis(ctx context.Context) (*insights.Report, error)
}

// CheckInLookup reports whether a check-in of the given type exists on date.
type CheckInLookup interface {
	HasCheckIn(date string, checkInType models.CheckInType) (bool, error)
}

// Notifier is called when a reminder fires for a missing check-in.
type Notifier func(checkInType models.CheckInType, date string)

// Config controls the jobs the scheduler registers.
type Config struct {
	// Interval between analysis runs. Zero means DefaultInterval.
	Interval time.Duration
	// MorningReminder and EveningReminder are "HH:MM" local times.
	// Empty disables the reminder.
	MorningReminder string
	EveningReminder string
	Location        *time.Location
}

// Scheduler owns the gocron scheduler and its jobs.
type Scheduler struct {
	cron     gocron.Scheduler
	analyzer Analyzer
	lookup   CheckInLookup
	notify   Notifier
	logger   *log.Logger
	loc      *time.Location
	now      func() time.Time
	ctx      context.Context
	cancel   context.CancelFunc
}

// New registers the analysis job and any configured reminders. lookup and
// notify may be nil when no reminders are configured.
func New(analyzer Analyzer, lookup CheckInLookup, notify Notifier, cfg Config, logger *log.Logger) (*Scheduler, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	cron, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:     cron,
		analyzer: analyzer,
		lookup:   lookup,
		notify:   notify,
		logger:   logging.Component(logger, "scheduler"),
		loc:      loc,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}

	_, err = cron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.analyze),
		gocron.WithName("analysis"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.abort()
		return nil, fmt.Errorf("register analysis job: %w", err)
	}

	reminders := []struct {
		at  string
		typ models.CheckInType
	}{
		{cfg.MorningReminder, models.CheckInMorning},
		{cfg.EveningReminder, models.CheckInEvening},
	}
	for _, r := range reminders {
		if r.at == "" {
			continue
		}
		if lookup == nil || notify == nil {
			s.abort()
			return nil, fmt.Errorf("%s reminder needs a check-in lookup and notifier", r.typ)
		}
		h, m, err := ParseClock(r.at)
		if err != nil {
			s.abort()
			return nil, fmt.Errorf("%s reminder: %w", r.typ, err)
		}
		_, err = cron.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(h, m, 0))),
			gocron.NewTask(s.remind, r.typ),
			gocron.WithName(string(r.typ)+"-reminder"),
		)
		if err != nil {
			s.abort()
			return nil, fmt.Errorf("register %s reminder: %w", r.typ, err)
		}
	}

	s.logger.Debug("scheduler configured",
		"interval", interval,
		"morning", cfg.MorningReminder,
		"evening", cfg.EveningReminder,
		"jobs", len(cron.Jobs()),
	)
	return s, nil
}

// Start begins running jobs. The analysis job runs immediately.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Shutdown cancels an in-flight analysis and waits for running jobs to stop.
func (s *Scheduler) Shutdown() error {
	s.cancel()
	if err := s.cron.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	s.logger.Info("scheduler stopped")
	return nil
}

// Jobs returns the registered job names.
func (s *Scheduler) Jobs() []string {
	jobs := s.cron.Jobs()
	names := make([]string, len(jobs))
	for i, j := range jobs {
		names[i] = j.Name()
	}
	return names
}

func (s *Scheduler) abort() {
	s.cancel()
	_ = s.cron.Shutdown()
}

func (s *Scheduler) analyze() {
	report, err := s.analyzer.RunAnalysis(s.ctx)
	if err != nil {
		s.logger.Error("scheduled analysis failed", "err", err)
		return
	}
	if report.EarlyWarning != nil && report.EarlyWarning.Triggered {
		s.logger.Warn("early warning triggered",
			"severity", report.EarlyWarning.Severity,
			"reasons", strings.Join(report.EarlyWarning.Reasons, "; "),
		)
	}
}

func (s *Scheduler) remind(typ models.CheckInType) {
	date := s.now().In(s.loc).Format(models.DateLayout)
	done, err := s.lookup.HasCheckIn(date, typ)
	if err != nil {
		s.logger.Error("reminder lookup failed", "type", typ, "err", err)
		return
	}
	if done {
		return
	}
	s.logger.Info("check-in reminder", "type", typ, "date", date)
	s.notify(typ, date)
}

// ParseClock parses an "HH:MM" 24-hour time.
func ParseClock(v string) (hour, minute uint, err error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(v), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", v)
	}
	h, err := strconv.ParseUint(hs, 10, 8)
	if err != nil || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", v)
	}
	m, err := strconv.ParseUint(ms, 10, 8)
	if err != nil || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", v)
	}
	return uint(h), uint(m), nil
}
