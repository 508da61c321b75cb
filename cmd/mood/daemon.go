// ABOUTME: CLI command for running the background analysis daemon.
// ABOUTME: Schedules periodic analysis and check-in reminders, and serves Prometheus metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/mood/internal/insights"
	"github.com/harperreed/mood/internal/metrics"
	"github.com/harperreed/mood/internal/models"
	"github.com/harperreed/mood/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run scheduled analysis and reminders",
	Long: `Run in the foreground, recomputing insights on a schedule.

The analysis runs once at start and then every analysis_interval (default
6h). If morning_reminder or evening_reminder is set ("HH:MM"), the daemon
prints a reminder at that time when the check-in is still missing.

When metrics_addr is set (for example ":9464"), Prometheus metrics are
served at http://<addr>/metrics.

CONFIG KEYS (~/.config/mood/config.json or MOOD_* env):

  analysis_interval   MOOD_ANALYSIS_INTERVAL   e.g. 6h, 90m
  morning_reminder    MOOD_MORNING_REMINDER    e.g. 09:00
  evening_reminder    MOOD_EVENING_REMINDER    e.g. 21:00
  metrics_addr        MOOD_METRICS_ADDR        e.g. :9464

Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runDaemon(ctx, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(ctx context.Context, out io.Writer) error {
	interval, err := cfg.GetAnalysisInterval()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewPrometheus(metrics.DefaultNamespace, reg)
	if err != nil {
		return err
	}

	daemonSvc := insights.NewService(store,
		insights.WithLogger(logger),
		insights.WithLocation(svc.Location()),
		insights.WithMetrics(recorder),
	)

	notify := func(typ models.CheckInType, date string) {
		color.New(color.FgCyan).Fprintf(out, "⏰ Time for your %s check-in (%s): mood checkin <mood> --type %s\n", typ, date, typ)
	}

	sched, err := scheduler.New(daemonSvc, store, notify, scheduler.Config{
		Interval:        interval,
		MorningReminder: cfg.MorningReminder,
		EveningReminder: cfg.EveningReminder,
		Location:        daemonSvc.Location(),
	}, logger)
	if err != nil {
		return err
	}

	var srv *http.Server
	errCh := make(chan error, 1)
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		srv = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("serving metrics", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	sched.Start()
	fmt.Fprintf(out, "mood daemon running (analysis every %s, jobs: %v)\n", interval, sched.Jobs())

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", "err", err)
		}
	}
	if err := sched.Shutdown(); err != nil {
		return err
	}
	return runErr
}
