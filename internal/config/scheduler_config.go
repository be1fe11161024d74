package config

// SchedulerConfig defines configuration for automated mode.
type SchedulerConfig struct {
	// CronSpec accepts standard 5-field cron expressions as well as the
	// @every <duration> shorthand.
	CronSpec string `json:"cron_spec,omitempty" yaml:"cron_spec,omitempty"`
}

// NewDefaultSchedulerConfig creates default scheduler configuration.
func NewDefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		CronSpec: "@every 1h",
	}
}
