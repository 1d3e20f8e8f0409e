package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// go-playground/validator handles the declarative checks via struct tags;
// rules that cannot be expressed in tags run afterwards.
//
// Note: Log level normalization is handled in ApplyDefaults, not here.
// Validation accepts both uppercase and lowercase log levels.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if err := validateCustomRules(cfg); err != nil {
		return err
	}

	return nil
}

// validateCustomRules performs validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// The S3 backend cannot invent a bucket or region; every other
	// backend can fall back to a default.
	if cfg.Content.Type == "s3" {
		if bucket, _ := cfg.Content.S3["bucket"].(string); bucket == "" {
			return fmt.Errorf("content.s3: bucket is required when type is s3")
		}
		if region, _ := cfg.Content.S3["region"].(string); region == "" {
			return fmt.Errorf("content.s3: region is required when type is s3")
		}
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly
// messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
