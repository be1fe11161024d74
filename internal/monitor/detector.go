package monitor

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"webwatch/internal/common"
	"webwatch/internal/differ"
	"webwatch/internal/extractor"
	"webwatch/internal/fetcher"
	"webwatch/internal/models"
)

// maxStoredErrorLength bounds the error message persisted per target.
const maxStoredErrorLength = 500

// ChangeDetector runs the per-target detection pipeline: fetch, extract,
// fingerprint, compare against stored state, gate on cooldown, persist.
type ChangeDetector struct {
	logger          zerolog.Logger
	fetcher         ContentFetcher
	extractor       *extractor.Extractor
	snippets        *differ.SnippetBuilder
	cooldown        *CooldownPolicy
	store           StateStore
	excludePatterns []*regexp.Regexp
	cooldownHours   int
	now             func() time.Time
}

// ChangeDetectorConfig holds the collaborators and settings for a detector.
type ChangeDetectorConfig struct {
	Fetcher         ContentFetcher
	Store           StateStore
	ExcludePatterns []*regexp.Regexp
	CooldownHours   int
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// NewChangeDetector creates a new ChangeDetector.
func NewChangeDetector(cfg ChangeDetectorConfig, logger zerolog.Logger) *ChangeDetector {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &ChangeDetector{
		logger:          logger.With().Str("component", "ChangeDetector").Logger(),
		fetcher:         cfg.Fetcher,
		extractor:       extractor.NewExtractor(logger),
		snippets:        differ.NewSnippetBuilder(),
		cooldown:        NewCooldownPolicy(logger),
		store:           cfg.Store,
		excludePatterns: cfg.ExcludePatterns,
		cooldownHours:   cfg.CooldownHours,
		now:             now,
	}
}

// Check runs the state machine for a single target and returns a
// ChangeDecision when a notification-eligible change was detected, nil
// otherwise. Fetch and extraction failures are recorded into the target's
// own state and yield (nil, nil); a non-nil error means a state-store
// operation failed.
func (d *ChangeDetector) Check(ctx context.Context, target models.Target) (*models.ChangeDecision, error) {
	log := d.logger.With().Str("url", target.URL).Logger()

	prev, err := d.store.Get(target.URL)
	if err != nil {
		return nil, err
	}

	input := fetcher.FetchInput{URL: target.URL}
	if prev != nil {
		input.PreviousETag = prev.ETag
		input.PreviousLastModified = prev.LastModified
	}

	result, fetchErr := d.fetcher.Fetch(ctx, input)
	now := d.now().UTC()
	nowStr := now.Format(time.RFC3339)

	if errors.Is(fetchErr, fetcher.ErrNotModified) {
		log.Debug().Msg("Target not modified")
		return nil, d.store.Touch(target.URL, now)
	}
	if fetchErr != nil {
		log.Error().Err(fetchErr).Msg("Failed to fetch target")
		return nil, d.recordFailure(prev, target.URL, fetchErr, nowStr)
	}

	text, extractErr := d.extractor.Extract(string(result.Content), target.Selector, d.excludePatterns)
	if extractErr != nil {
		log.Error().Err(extractErr).Msg("Failed to extract target content")
		return nil, d.recordFailure(prev, target.URL, common.NewExtractionError(target.URL, extractErr), nowStr)
	}

	newFingerprint := FingerprintText(text)

	if prev != nil && prev.Fingerprint == newFingerprint {
		log.Debug().Msg("No change detected")
		return nil, d.store.Apply(target.URL, models.StateUpdate{
			LastCheckedAt: models.String(nowStr),
			ErrorCount:    models.Int(0),
		})
	}

	return d.handleChange(target.URL, prev, result, text, newFingerprint, now, log)
}

// handleChange persists the new observation and emits a decision when the
// cooldown allows it. The new fingerprint and text are persisted even when
// the notification is suppressed, so the next comparison runs against the
// latest observed content instead of the stale pre-cooldown baseline.
func (d *ChangeDetector) handleChange(
	url string,
	prev *models.TargetState,
	result *fetcher.FetchResult,
	text string,
	newFingerprint string,
	now time.Time,
	log zerolog.Logger,
) (*models.ChangeDecision, error) {
	var prevFingerprint, prevText, lastNotifiedAt string
	if prev != nil {
		prevFingerprint = prev.Fingerprint
		prevText = prev.NormalizedText
		lastNotifiedAt = prev.LastNotifiedAt
	}

	nowStr := now.Format(time.RFC3339)
	log.Info().Str("new_fingerprint", newFingerprint).Bool("is_new", prevFingerprint == "").Msg("Change detected")

	update := models.StateUpdate{
		Fingerprint:    models.String(newFingerprint),
		NormalizedText: models.String(text),
		ETag:           models.String(result.ETag),
		LastModified:   models.String(result.LastModified),
		LastCheckedAt:  models.String(nowStr),
		LastChangedAt:  models.String(nowStr),
		ErrorCount:     models.Int(0),
	}

	var decision *models.ChangeDecision
	if d.cooldown.ShouldNotify(lastNotifiedAt, d.cooldownHours, now) {
		update.LastNotifiedAt = models.String(nowStr)
		decision = &models.ChangeDecision{
			URL:                 url,
			PreviousFingerprint: prevFingerprint,
			NewFingerprint:      newFingerprint,
			DiffSnippet:         d.snippets.Build(prevText, text),
			IsNew:               prevFingerprint == "",
		}
	} else {
		log.Info().Msg("Notification suppressed by cooldown")
	}

	if err := d.store.Apply(url, update); err != nil {
		return nil, err
	}
	return decision, nil
}

// recordFailure increments the target's error counter and stores a bounded
// error message. The previous fingerprint and text stay untouched.
func (d *ChangeDetector) recordFailure(prev *models.TargetState, url string, cause error, nowStr string) error {
	count := 1
	if prev != nil {
		count = prev.ErrorCount + 1
	}
	return d.store.Apply(url, models.StateUpdate{
		ErrorCount:    models.Int(count),
		LastError:     models.String(common.TruncateString(cause.Error(), maxStoredErrorLength)),
		LastCheckedAt: models.String(nowStr),
	})
}
