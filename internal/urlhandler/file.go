package urlhandler

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"webwatch/internal/models"
)

// Custom errors for target file operations
var (
	ErrFileNotFound = errors.New("target file not found")
	ErrFileEmpty    = errors.New("target file contains no valid targets")
)

// ReadTargetsFromFile reads a target file, one target per line. Each line
// is a URL optionally followed by " | " and a CSS scope selector. Blank
// lines and lines starting with # are skipped; lines with invalid URLs are
// skipped with a warning.
func ReadTargetsFromFile(filePath string, logger zerolog.Logger) ([]models.Target, error) {
	fileLogger := logger.With().Str("file_path", filePath).Logger()

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
		}
		return nil, fmt.Errorf("error opening target file %s: %w", filePath, err)
	}
	defer file.Close()

	var targets []models.Target
	scanner := bufio.NewScanner(file)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rawURL, selector := splitTargetLine(line)
		normalizedURL, normErr := NormalizeTargetURL(rawURL)
		if normErr != nil {
			fileLogger.Warn().Err(normErr).Int("line", lineNumber).Str("raw", rawURL).Msg("Skipping invalid target URL")
			continue
		}

		targets = append(targets, models.Target{URL: normalizedURL, Selector: selector})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading target file %s: %w", filePath, err)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrFileEmpty, filePath)
	}

	fileLogger.Info().Int("targets", len(targets)).Msg("Loaded targets from file")
	return targets, nil
}

// splitTargetLine separates "url | selector" lines; the selector part is
// optional and may itself contain spaces.
func splitTargetLine(line string) (string, string) {
	parts := strings.SplitN(line, "|", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return line, ""
}
