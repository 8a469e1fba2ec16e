// Package scheduler triggers the daily producer and report runs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/twbrief/internal/common"
	"github.com/ternarybob/twbrief/internal/services/briefing"
	"github.com/ternarybob/twbrief/internal/services/producers"
)

// Phase names a half of the trading day.
type Phase string

const (
	PhasePre  Phase = "pre"
	PhasePost Phase = "post"
)

// Reporter renders the daily reports.
type Reporter interface {
	RunPreMarket(ctx context.Context, date string) (*briefing.RunStats, error)
	RunPostMarket(ctx context.Context, date string) (*briefing.RunStats, error)
}

// ProducerRunner executes fetch producers.
type ProducerRunner interface {
	Run(ctx context.Context, list []common.ProducerConfig, date string) (producers.Summary, error)
}

// Scheduler handles the once-per-day runs
type Scheduler struct {
	reporter Reporter
	runner   ProducerRunner
	config   *common.Config
	location *time.Location
	timeout  time.Duration
	cron     *cron.Cron
	logger   arbor.ILogger
	now      func() time.Time
}

// NewScheduler creates a new scheduler
func NewScheduler(reporter Reporter, runner ProducerRunner, config *common.Config, logger arbor.ILogger) (*Scheduler, error) {
	loc, err := time.LoadLocation(config.Report.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduler timezone %s: %w", config.Report.Timezone, err)
	}
	timeout, err := common.ParseOptionalDuration(config.Scheduler.RunTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler run timeout: %w", err)
	}
	if timeout == 0 {
		timeout = 30 * time.Minute
	}

	cronLog := cronLogger{logger: logger}
	return &Scheduler{
		reporter: reporter,
		runner:   runner,
		config:   config,
		location: loc,
		timeout:  timeout,
		cron: cron.New(
			cron.WithParser(common.ScheduleParser),
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		logger: logger,
		now:    time.Now,
	}, nil
}

// Start registers the configured schedules and begins running them
func (s *Scheduler) Start() error {
	jobs := []struct {
		phase    Phase
		schedule string
	}{
		{PhasePre, s.config.Scheduler.PreMarket},
		{PhasePost, s.config.Scheduler.PostMarket},
	}

	registered := 0
	for _, job := range jobs {
		if job.schedule == "" {
			continue
		}
		phase := job.phase
		if _, err := s.cron.AddFunc(job.schedule, func() { s.runScheduled(phase) }); err != nil {
			return fmt.Errorf("failed to schedule %s-market run: %w", phase, err)
		}
		registered++
		s.logger.Info().
			Str("phase", string(phase)).
			Str("schedule", job.schedule).
			Str("timezone", s.location.String()).
			Msg("Scheduled daily run")
	}
	if registered == 0 {
		return fmt.Errorf("no schedules configured")
	}

	s.cron.Start()
	s.logger.Info().Int("jobs", registered).Msg("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) runScheduled(phase Phase) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	today := s.now().In(s.location)
	if !common.IsTradingDay(today, s.config.Scheduler.Holidays) {
		s.logger.Info().
			Str("phase", string(phase)).
			Str("date", today.Format(common.DateLayout)).
			Msg("Not a trading day, skipping scheduled run")
		return
	}

	if err := s.RunPhase(ctx, phase, today.Format(common.DateLayout)); err != nil {
		s.logger.Error().Err(err).Str("phase", string(phase)).Msg("Scheduled run failed")
	}
}

// RunPhase runs the phase's producers and then its report for date.
// Producer failures are logged by the runner and do not prevent the report.
func (s *Scheduler) RunPhase(ctx context.Context, phase Phase, date string) error {
	if list := s.config.ProducersFor(string(phase)); len(list) > 0 {
		if _, err := s.runner.Run(ctx, list, date); err != nil {
			return fmt.Errorf("%s-market producers: %w", phase, err)
		}
	}

	var err error
	switch phase {
	case PhasePre:
		_, err = s.reporter.RunPreMarket(ctx, date)
	case PhasePost:
		_, err = s.reporter.RunPostMarket(ctx, date)
	default:
		err = fmt.Errorf("unknown phase %q", phase)
	}
	return err
}

// cronLogger adapts arbor to cron's logger for the job wrappers.
type cronLogger struct {
	logger arbor.ILogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Str("detail", fmt.Sprint(keysAndValues...)).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Str("detail", fmt.Sprint(keysAndValues...)).Msg("cron: " + msg)
}
