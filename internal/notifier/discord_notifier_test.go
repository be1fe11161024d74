package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webwatch/internal/models"
)

type webhookRecorder struct {
	mu       sync.Mutex
	contents []string
	status   int
}

func (r *webhookRecorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var payload discordPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	r.mu.Lock()
	r.contents = append(r.contents, payload.Content)
	r.mu.Unlock()
	if r.status != 0 {
		w.WriteHeader(r.status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func sampleDecisions() []models.ChangeDecision {
	return []models.ChangeDecision{{
		URL:            "https://example.com/page",
		NewFingerprint: strings.Repeat("d", 64),
		DiffSnippet:    "+ hello",
		IsNew:          true,
	}}
}

func TestDiscordNotifier_SendDigest(t *testing.T) {
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder)
	defer server.Close()

	n := NewDiscordNotifier(server.URL, server.Client(), zerolog.Nop())
	err := n.SendDigest(context.Background(), sampleDecisions(), 3)
	require.NoError(t, err)

	require.Len(t, recorder.contents, 1)
	content := recorder.contents[0]
	assert.True(t, strings.HasPrefix(content, "```\n"))
	assert.True(t, strings.HasSuffix(content, "\n```"))
	assert.Contains(t, content, "Website Change Report")
	assert.Contains(t, content, "https://example.com/page")
}

func TestDiscordNotifier_SendDigest_SplitsLongDigest(t *testing.T) {
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder)
	defer server.Close()

	decisions := make([]models.ChangeDecision, 0, 30)
	for i := 0; i < 30; i++ {
		decisions = append(decisions, models.ChangeDecision{
			URL:            "https://example.com/page",
			NewFingerprint: strings.Repeat("e", 64),
			DiffSnippet:    strings.Repeat("+ some changed line\n", 10),
			IsNew:          true,
		})
	}

	n := NewDiscordNotifier(server.URL, server.Client(), zerolog.Nop())
	require.NoError(t, n.SendDigest(context.Background(), decisions, 30))

	require.Greater(t, len(recorder.contents), 1)
	for _, content := range recorder.contents {
		assert.LessOrEqual(t, len(content), 2000)
	}
}

func TestDiscordNotifier_SendDigest_EmptyWebhookIsNoop(t *testing.T) {
	n := NewDiscordNotifier("", nil, zerolog.Nop())
	assert.NoError(t, n.SendDigest(context.Background(), sampleDecisions(), 1))
}

func TestDiscordNotifier_SendDigest_WebhookErrorPropagates(t *testing.T) {
	recorder := &webhookRecorder{status: http.StatusTooManyRequests}
	server := httptest.NewServer(recorder)
	defer server.Close()

	n := NewDiscordNotifier(server.URL, server.Client(), zerolog.Nop())
	err := n.SendDigest(context.Background(), sampleDecisions(), 1)
	assert.Error(t, err)
}
