package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"webwatch/internal/common"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	_ = validate.RegisterValidation("mode", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "onetime", "automated":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "json":
			return true
		default:
			return false
		}
	})

	if err := validate.Struct(cfg); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			messages := make([]string, 0, len(errs))
			for _, e := range errs {
				messages = append(messages, fmt.Sprintf("field '%s' failed on '%s'", e.StructNamespace(), e.Tag()))
			}
			return common.NewError("config validation failed: %s", strings.Join(messages, "; "))
		}
		return common.WrapError(err, "config validation failed")
	}

	return validateTargets(cfg)
}

// validateTargets rejects targets whose URL does not parse as absolute
// http(s). The validator's url tag is too lax for monitoring targets.
func validateTargets(cfg *GlobalConfig) error {
	for _, target := range cfg.MonitorConfig.Targets {
		parsed, err := url.Parse(target.URL)
		if err != nil || !parsed.IsAbs() || parsed.Host == "" {
			return common.NewValidationError("targets", target.URL, "target URL must be absolute")
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return common.NewValidationError("targets", target.URL, "target URL scheme must be http or https")
		}
	}
	return nil
}
