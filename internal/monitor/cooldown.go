package monitor

import (
	"time"

	"github.com/rs/zerolog"
)

// CooldownPolicy decides notification eligibility from the last-notified
// timestamp and the configured minimum interval between notifications.
type CooldownPolicy struct {
	logger zerolog.Logger
}

// NewCooldownPolicy creates a new CooldownPolicy.
func NewCooldownPolicy(logger zerolog.Logger) *CooldownPolicy {
	return &CooldownPolicy{
		logger: logger.With().Str("component", "CooldownPolicy").Logger(),
	}
}

// ShouldNotify reports whether a notification may be emitted now.
// A non-positive cooldown disables suppression entirely. An absent
// lastNotifiedAt always allows notification: the first detected change for
// a target is never suppressed. A malformed timestamp is treated as absent
// with a logged warning, failing open rather than hard.
func (p *CooldownPolicy) ShouldNotify(lastNotifiedAt string, cooldownHours int, now time.Time) bool {
	if cooldownHours <= 0 {
		return true
	}
	if lastNotifiedAt == "" {
		return true
	}

	lastNotified, err := time.Parse(time.RFC3339, lastNotifiedAt)
	if err != nil {
		p.logger.Warn().Err(err).Str("last_notified_at", lastNotifiedAt).Msg("Failed to parse last notified timestamp, allowing notification")
		return true
	}

	return now.Sub(lastNotified).Hours() >= float64(cooldownHours)
}
