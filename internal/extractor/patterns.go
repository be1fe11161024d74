package extractor

import (
	"regexp"

	"github.com/rs/zerolog"
)

// CompileExcludePatterns compiles the configured exclude patterns. Each
// pattern is compiled independently: invalid patterns are skipped with a
// warning and never discard the valid ones.
func CompileExcludePatterns(patterns []string, logger zerolog.Logger) []*regexp.Regexp {
	var compiled []*regexp.Regexp
	for _, pattern := range patterns {
		if re, err := regexp.Compile(pattern); err == nil {
			compiled = append(compiled, re)
		} else {
			logger.Warn().
				Str("pattern", pattern).
				Err(err).
				Msg("Failed to compile exclude pattern, skipping")
		}
	}
	return compiled
}
