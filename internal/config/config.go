// Package config provides configuration loading and validation for the
// cleaning step CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the step configuration that can be loaded from a JSON
// file. Every value can be overridden by a CLI flag; required fields are
// enforced after merging.
type Config struct {
	// Artifacts
	InputArtifact     string `json:"input_artifact,omitempty" validate:"required"`
	OutputArtifact    string `json:"output_artifact,omitempty" validate:"required"`
	OutputType        string `json:"output_type,omitempty" validate:"required"`
	OutputDescription string `json:"output_description,omitempty" validate:"required"`

	// Cleaning bounds. Pointers so an absent value is distinguishable from
	// an explicit zero; both must be supplied via flag or config file.
	MinPrice *float64 `json:"min_price,omitempty" validate:"required,gte=0"`
	MaxPrice *float64 `json:"max_price,omitempty" validate:"required,gtefield=MinPrice"`

	// Tracking service
	TrackingURL string `json:"tracking_url,omitempty" validate:"required,url"`
	APIKey      string `json:"api_key,omitempty"`

	// Optional run-history persistence
	DatabaseURL string `json:"database_url,omitempty"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks the merged configuration: required fields present, price
// bounds non-negative and correctly ordered, tracking URL well-formed.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("config validation could not run: %w", err)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return fmt.Errorf("config error: field %s fails rule %q", first.Field(), first.Tag())
	}
	return err
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. CLI flags have already been applied when this runs, so flags
// win over the config file, which wins over defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.TrackingURL == "" {
		result.TrackingURL = defaults.TrackingURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Bool fields: cannot distinguish unset from false, so flags always win
	// and defaults are not merged.

	return result
}
