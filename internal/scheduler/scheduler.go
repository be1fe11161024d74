package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"webwatch/internal/common"
)

// RunFunc is one detection run. The scheduler guarantees runs never
// overlap: the change detection state machine assumes a single writer per
// target population.
type RunFunc func(ctx context.Context)

// Scheduler triggers detection runs on a cron schedule in automated mode.
type Scheduler struct {
	logger zerolog.Logger
	cron   *cron.Cron
	spec   string
	run    RunFunc
}

// New creates a Scheduler for the given cron spec. Standard 5-field specs
// and the @every <duration> shorthand are accepted.
func New(spec string, run RunFunc, logger zerolog.Logger) *Scheduler {
	schedLogger := logger.With().Str("component", "Scheduler").Logger()
	cronLog := &cronLogger{logger: schedLogger}

	return &Scheduler{
		logger: schedLogger,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLog))),
		spec:   spec,
		run:    run,
	}
}

// Start registers the job, performs an immediate first run, then blocks
// until the context is cancelled. Returns an error only when the spec does
// not parse.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) }); err != nil {
		return common.WrapError(err, fmt.Sprintf("invalid cron spec %q", s.spec))
	}

	s.logger.Info().Str("spec", s.spec).Msg("Scheduler started")
	s.run(ctx)
	s.cron.Start()

	<-ctx.Done()
	s.logger.Info().Msg("Scheduler stopping, waiting for running job")
	<-s.cron.Stop().Done()
	return nil
}

// cronLogger adapts zerolog to the cron.Logger interface.
type cronLogger struct {
	logger zerolog.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Interface("details", keysAndValues).Msg(msg)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Interface("details", keysAndValues).Msg(msg)
}
