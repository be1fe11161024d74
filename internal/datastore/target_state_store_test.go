package datastore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webwatch/internal/models"
)

func newTestStore(t *testing.T) *TargetStateStore {
	t.Helper()
	store, err := NewTargetStateStore(filepath.Join(t.TempDir(), "state.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTargetStateStore_GetUnknownURL(t *testing.T) {
	store := newTestStore(t)

	state, err := store.Get("https://example.com/unknown")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestTargetStateStore_ApplyCreatesRow(t *testing.T) {
	store := newTestStore(t)
	const url = "https://example.com/page"

	err := store.Apply(url, models.StateUpdate{
		Fingerprint:    models.String("fp-1"),
		NormalizedText: models.String("hello\nworld"),
		LastCheckedAt:  models.String("2025-01-15T12:00:00Z"),
		LastChangedAt:  models.String("2025-01-15T12:00:00Z"),
		ErrorCount:     models.Int(0),
	})
	require.NoError(t, err)

	state, err := store.Get(url)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, url, state.URL)
	assert.Equal(t, "fp-1", state.Fingerprint)
	assert.Equal(t, "hello\nworld", state.NormalizedText)
	assert.Equal(t, "2025-01-15T12:00:00Z", state.LastCheckedAt)
	assert.Empty(t, state.LastNotifiedAt)
	assert.Zero(t, state.ErrorCount)
}

func TestTargetStateStore_PartialUpdateLeavesOtherColumns(t *testing.T) {
	store := newTestStore(t)
	const url = "https://example.com/page"

	require.NoError(t, store.Apply(url, models.StateUpdate{
		Fingerprint:    models.String("fp-1"),
		NormalizedText: models.String("baseline"),
		LastNotifiedAt: models.String("2025-01-15T12:00:00Z"),
	}))

	// An error update must not disturb the stored baseline.
	require.NoError(t, store.Apply(url, models.StateUpdate{
		ErrorCount:    models.Int(3),
		LastError:     models.String("HTTP 503"),
		LastCheckedAt: models.String("2025-01-15T13:00:00Z"),
	}))

	state, err := store.Get(url)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "fp-1", state.Fingerprint)
	assert.Equal(t, "baseline", state.NormalizedText)
	assert.Equal(t, "2025-01-15T12:00:00Z", state.LastNotifiedAt)
	assert.Equal(t, 3, state.ErrorCount)
	assert.Equal(t, "HTTP 503", state.LastError)
	assert.Equal(t, "2025-01-15T13:00:00Z", state.LastCheckedAt)
}

func TestTargetStateStore_EmptyUpdateIsNoop(t *testing.T) {
	store := newTestStore(t)
	const url = "https://example.com/page"

	require.NoError(t, store.Apply(url, models.StateUpdate{}))

	// No fields set, so no row was created either.
	state, err := store.Get(url)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestTargetStateStore_Touch(t *testing.T) {
	store := newTestStore(t)
	const url = "https://example.com/page"
	now := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)

	require.NoError(t, store.Touch(url, now))

	state, err := store.Get(url)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "2025-01-15T14:30:00Z", state.LastCheckedAt)
	assert.Empty(t, state.Fingerprint)
}

func TestTargetStateStore_IsolatesTargets(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Apply("https://example.com/a", models.StateUpdate{
		Fingerprint: models.String("fp-a"),
	}))
	require.NoError(t, store.Apply("https://example.com/b", models.StateUpdate{
		Fingerprint: models.String("fp-b"),
	}))

	a, err := store.Get("https://example.com/a")
	require.NoError(t, err)
	b, err := store.Get("https://example.com/b")
	require.NoError(t, err)
	assert.Equal(t, "fp-a", a.Fingerprint)
	assert.Equal(t, "fp-b", b.Fingerprint)
}
