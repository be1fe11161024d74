package config

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"webwatch/internal/models"
)

// Environment variable overrides. These take precedence over the config
// file so the target population can be changed without editing files.
const (
	EnvTargetsJSON         = "WEBWATCH_URLS_JSON"
	EnvExcludePatternsJSON = "WEBWATCH_IGNORE_REGEX_JSON"
	EnvCooldownHours       = "WEBWATCH_COOLDOWN_HOURS"
	EnvUserAgent           = "WEBWATCH_USER_AGENT"
)

// ApplyEnvOverrides replaces config sections from environment variables
// where set. Malformed values are recovered by substituting an empty list
// (or leaving the file value in place for scalars) with a logged error,
// never a hard failure.
func ApplyEnvOverrides(cfg *GlobalConfig, log zerolog.Logger) {
	if raw, ok := os.LookupEnv(EnvTargetsJSON); ok {
		cfg.MonitorConfig.Targets = parseTargetsJSON(raw, log)
	}
	if raw, ok := os.LookupEnv(EnvExcludePatternsJSON); ok {
		cfg.MonitorConfig.ExcludePatterns = parsePatternsJSON(raw, log)
	}
	if raw, ok := os.LookupEnv(EnvCooldownHours); ok {
		if hours, err := strconv.Atoi(raw); err == nil {
			cfg.MonitorConfig.CooldownHours = hours
		} else {
			log.Error().Err(err).Str("value", raw).Msg("Failed to parse cooldown hours override")
		}
	}
	if raw, ok := os.LookupEnv(EnvUserAgent); ok && raw != "" {
		cfg.MonitorConfig.UserAgent = raw
	}
}

// parseTargetsJSON decodes a target list that may mix plain URL strings and
// {url, selector} objects.
func parseTargetsJSON(raw string, log zerolog.Logger) []models.Target {
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Error().Err(err).Msg("Failed to parse targets JSON override, using empty target list")
		return []models.Target{}
	}

	targets := make([]models.Target, 0, len(entries))
	for _, entry := range entries {
		var url string
		if err := json.Unmarshal(entry, &url); err == nil {
			targets = append(targets, models.Target{URL: url})
			continue
		}
		var target models.Target
		if err := json.Unmarshal(entry, &target); err != nil {
			log.Error().Err(err).Str("entry", string(entry)).Msg("Skipping malformed target entry")
			continue
		}
		targets = append(targets, target)
	}
	return targets
}

func parsePatternsJSON(raw string, log zerolog.Logger) []string {
	var patterns []string
	if err := json.Unmarshal([]byte(raw), &patterns); err != nil {
		log.Error().Err(err).Msg("Failed to parse exclude patterns JSON override, using empty pattern list")
		return []string{}
	}
	return patterns
}
