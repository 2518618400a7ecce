package service

import (
	"context"
	"fmt"
	"time"

	"go-options-advisor/internal/advisor/config"
	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/pkg/logger"
	"go-options-advisor/pkg/telegram"

	"github.com/robfig/cron/v3"
)

// ScheduledScanRunner triggers scan passes on a cron schedule and pushes the
// digest to Telegram. Overlapping runs are skipped rather than queued.
type ScheduledScanRunner struct {
	cfg         *config.Config
	logger      *logger.Logger
	scanService ScanService
	notifier    telegram.Notifier
	cron        *cron.Cron
	running     chan struct{}
}

// NewScheduledScanRunner creates a runner for the configured schedule.
func NewScheduledScanRunner(cfg *config.Config, log *logger.Logger, scanService ScanService, notifier telegram.Notifier) *ScheduledScanRunner {
	return &ScheduledScanRunner{
		cfg:         cfg,
		logger:      log,
		scanService: scanService,
		notifier:    notifier,
		cron:        cron.New(),
		running:     make(chan struct{}, 1),
	}
}

// Start registers the schedule and runs the cron loop until ctx is canceled.
// A missing schedule disables scheduled scans without error.
func (r *ScheduledScanRunner) Start(ctx context.Context) error {
	if r.cfg.Scan.Schedule == "" {
		r.logger.Info("No scan schedule configured, scheduled scans disabled")
		return nil
	}

	_, err := r.cron.AddFunc(r.cfg.Scan.Schedule, func() {
		r.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid scan schedule %q: %w", r.cfg.Scan.Schedule, err)
	}

	r.cron.Start()
	r.logger.Info("Scheduled scans started",
		logger.StringField("schedule", r.cfg.Scan.Schedule))

	go func() {
		<-ctx.Done()
		stopCtx := r.cron.Stop()
		<-stopCtx.Done()
	}()

	return nil
}

func (r *ScheduledScanRunner) runOnce(ctx context.Context) {
	select {
	case r.running <- struct{}{}:
		defer func() { <-r.running }()
	default:
		r.logger.Warn("Previous scan still running, skipping this tick")
		return
	}

	result, err := r.scanService.RunScan(ctx, dto.ScanParams{
		CreateAlerts: r.cfg.Scan.CreateAlerts,
	})
	if err != nil {
		r.logger.Error("Scheduled scan failed", logger.ErrorField(err))
		if sendErr := r.notifier.SendMessage(telegram.FormatErrorAlertMessage(time.Now(), "scheduled_scan", err.Error(), "")); sendErr != nil {
			r.logger.Error("Failed to send error alert", logger.ErrorField(sendErr))
		}
		return
	}

	msg := telegram.FormatScanSummaryMessage(result, result.Recommendations)
	if err := r.notifier.SendMessage(msg); err != nil {
		r.logger.Error("Failed to send scan summary", logger.ErrorField(err))
	}
}
