package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate runs struct-tag field validation (required/url/oneof/dive)
// across the whole config tree, then layers on the cross-field checks a
// tag can't express: unique source names.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]bool)
	for _, s := range cfg.Sources.Streaming {
		if seen[s.Name] {
			return fmt.Errorf("duplicate source name %q", s.Name)
		}
		seen[s.Name] = true
	}
	for _, r := range cfg.Sources.REST {
		if seen[r.Name] {
			return fmt.Errorf("duplicate source name %q", r.Name)
		}
		seen[r.Name] = true
	}
	for _, e := range cfg.Sources.Enrichment {
		if seen[e.Name] {
			return fmt.Errorf("duplicate source name %q", e.Name)
		}
		seen[e.Name] = true
	}

	return nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var messages []string
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("field %q failed validation: %s (value: %q)", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(messages, "\n  "))
}
