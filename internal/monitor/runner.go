package monitor

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"webwatch/internal/models"
)

// RunSummary reports the outcome of one run.
type RunSummary struct {
	TargetsChecked  int
	ChangesDetected int
}

// Runner drives one detection run over the configured targets. Targets are
// processed by a bounded worker pool; each target's pipeline is strictly
// sequential. The digest sender is invoked at most once per run, after all
// targets finished, and only when at least one decision was emitted.
type Runner struct {
	logger        zerolog.Logger
	detector      *ChangeDetector
	digest        DigestSender
	maxConcurrent int
	limiter       *rate.Limiter
}

// RunnerConfig holds the collaborators and settings for a Runner.
type RunnerConfig struct {
	Detector            *ChangeDetector
	Digest              DigestSender
	MaxConcurrentChecks int
	// RequestsPerSecond limits outbound fetches across workers.
	// Zero or negative disables the limiter.
	RequestsPerSecond float64
}

// NewRunner creates a new Runner.
func NewRunner(cfg RunnerConfig, logger zerolog.Logger) *Runner {
	maxConcurrent := cfg.MaxConcurrentChecks
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Runner{
		logger:        logger.With().Str("component", "Runner").Logger(),
		detector:      cfg.Detector,
		digest:        cfg.Digest,
		maxConcurrent: maxConcurrent,
		limiter:       limiter,
	}
}

type targetJob struct {
	index  int
	target models.Target
}

// Run checks every target once and delivers the digest. Per-target failures
// are recorded in that target's state and never block other targets; a
// failed target still counts toward TargetsChecked. Digest delivery failure
// is logged but never fails the run, since detection state has already been
// persisted.
func (r *Runner) Run(ctx context.Context, targets []models.Target) (*RunSummary, error) {
	summary := &RunSummary{TargetsChecked: len(targets)}
	if len(targets) == 0 {
		r.logger.Warn().Msg("No targets configured")
		return summary, nil
	}

	r.logger.Info().Int("targets", len(targets)).Msg("Starting run")

	// Indexed result slots keep the decision list in target order without
	// cross-worker synchronization.
	results := make([]*models.ChangeDecision, len(targets))

	jobs := make(chan targetJob)
	var wg sync.WaitGroup
	for i := 0; i < r.maxConcurrent; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results[job.index] = r.checkTarget(ctx, job.target)
			}
		}()
	}

	for i, target := range targets {
		jobs <- targetJob{index: i, target: target}
	}
	close(jobs)
	wg.Wait()

	decisions := make([]models.ChangeDecision, 0, len(results))
	for _, decision := range results {
		if decision != nil {
			decisions = append(decisions, *decision)
		}
	}
	summary.ChangesDetected = len(decisions)

	if len(decisions) > 0 {
		r.logger.Info().Int("changes", len(decisions)).Msg("Sending change digest")
		if err := r.digest.SendDigest(ctx, decisions, len(targets)); err != nil {
			r.logger.Error().Err(err).Msg("Failed to deliver digest")
		}
	} else {
		r.logger.Info().Msg("No changes detected")
	}

	return summary, nil
}

// checkTarget runs one target through the detector, absorbing errors so a
// failing target never disturbs the rest of the run.
func (r *Runner) checkTarget(ctx context.Context, target models.Target) *models.ChangeDecision {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			r.logger.Warn().Err(err).Str("url", target.URL).Msg("Rate limiter wait aborted, skipping target")
			return nil
		}
	}

	decision, err := r.detector.Check(ctx, target)
	if err != nil {
		r.logger.Error().Err(err).Str("url", target.URL).Msg("Failed to persist target state")
		return nil
	}
	return decision
}
