package config

// NotificationConfig defines configuration for digest delivery.
type NotificationConfig struct {
	DiscordWebhookURL string `json:"discord_webhook_url,omitempty" yaml:"discord_webhook_url,omitempty" validate:"omitempty,url"`
}

// NewDefaultNotificationConfig creates default notification configuration.
// An empty webhook URL disables delivery; detection still runs and persists.
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{}
}
