package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"webwatch/internal/common"
	"webwatch/internal/models"
)

// Discord rejects messages longer than 2000 characters; leave headroom for
// the code fence wrapper.
const maxDiscordMessageLength = 1900

// DiscordNotifier delivers change digests to a Discord webhook.
type DiscordNotifier struct {
	logger     zerolog.Logger
	httpClient *http.Client
	webhookURL string
	now        func() time.Time
}

// NewDiscordNotifier creates a new DiscordNotifier. An empty webhookURL is
// allowed: delivery then becomes a logged no-op, keeping detection usable
// without an outbound channel.
func NewDiscordNotifier(webhookURL string, httpClient *http.Client, logger zerolog.Logger) *DiscordNotifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &DiscordNotifier{
		logger:     logger.With().Str("component", "DiscordNotifier").Logger(),
		httpClient: httpClient,
		webhookURL: webhookURL,
		now:        time.Now,
	}
}

type discordPayload struct {
	Content string `json:"content"`
}

// SendDigest renders the digest and posts it to the webhook, splitting the
// body into sequential messages when it exceeds Discord's length limit.
func (n *DiscordNotifier) SendDigest(ctx context.Context, decisions []models.ChangeDecision, targetsChecked int) error {
	if n.webhookURL == "" {
		n.logger.Info().Msg("Webhook URL is empty, skipping digest delivery")
		return nil
	}
	if _, err := url.ParseRequestURI(n.webhookURL); err != nil {
		return common.WrapError(err, "invalid webhook URL")
	}

	body := BuildDigestText(decisions, targetsChecked, n.now())
	chunks := chunkText(body, maxDiscordMessageLength)
	for _, chunk := range chunks {
		if err := n.postMessage(ctx, "```\n"+chunk+"\n```"); err != nil {
			return err
		}
	}

	n.logger.Info().Int("changes", len(decisions)).Int("messages", len(chunks)).Msg("Digest delivered")
	return nil
}

func (n *DiscordNotifier) postMessage(ctx context.Context, content string) error {
	payload, err := json.Marshal(discordPayload{Content: content})
	if err != nil {
		return common.WrapError(err, "failed to marshal webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return common.WrapError(err, "failed to create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return common.NewNetworkError(n.webhookURL, "webhook request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return common.NewHTTPError(n.webhookURL, resp.StatusCode, string(respBody))
	}
	return nil
}
