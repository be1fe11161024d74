package monitor

import (
	"context"
	"time"

	"webwatch/internal/fetcher"
	"webwatch/internal/models"
)

// ContentFetcher retrieves target content, honoring stored cache validators.
type ContentFetcher interface {
	Fetch(ctx context.Context, input fetcher.FetchInput) (*fetcher.FetchResult, error)
}

// StateStore persists per-target detection state.
type StateStore interface {
	Get(url string) (*models.TargetState, error)
	Apply(url string, update models.StateUpdate) error
	Touch(url string, now time.Time) error
}

// DigestSender delivers the batched change digest. It is invoked at most
// once per run, only when at least one change decision was emitted.
type DigestSender interface {
	SendDigest(ctx context.Context, decisions []models.ChangeDecision, targetsChecked int) error
}
