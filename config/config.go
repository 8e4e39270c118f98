// Package config loads the process configuration from the environment. All
// settings are optional: missing storage credentials disable storage features
// without error, and sensible defaults cover local development.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/orcastack/dummy-agent/core"
)

// Config contains all application configuration values.
type Config struct {
	// DevMode relaxes streaming delivery for local development.
	DevMode bool `mapstructure:"dev_mode"`

	// Storage credentials. All three must be present for storage features to
	// be enabled.
	Workspace  string `mapstructure:"workspace"`
	Token      string `mapstructure:"token"`
	StorageURL string `mapstructure:"storage_url"`

	// HTTP server settings.
	Port int `mapstructure:"port" validate:"min=1,max=65535"`

	// Logging settings.
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	// StreamDelay paces frame delivery between streamed chunks.
	StreamDelay time.Duration `mapstructure:"stream_delay"`

	// LambdaFunctionName is set by the AWS Lambda runtime and selects the
	// writable log path and JSON log format.
	LambdaFunctionName string `mapstructure:"lambda_function_name"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("dev_mode", false)
	v.SetDefault("workspace", "")
	v.SetDefault("token", "")
	v.SetDefault("storage_url", "http://localhost:8000/api/v1/storage")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("stream_delay", 300*time.Millisecond)
	v.SetDefault("lambda_function_name", "")

	bindings := map[string]string{
		"dev_mode":             "ORCA_DEV_MODE",
		"workspace":            "ORCA_WORKSPACE",
		"token":                "ORCA_TOKEN",
		"storage_url":          "STORAGE_URL",
		"port":                 "PORT",
		"log_level":            "LOG_LEVEL",
		"stream_delay":         "STREAM_DELAY",
		"lambda_function_name": "AWS_LAMBDA_FUNCTION_NAME",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, core.NewConfigurationError("ENV_BIND", "failed to bind environment variable").
				WithContext("variable", env).Wrap(err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, core.NewConfigurationError("CONFIG_DECODE", "failed to decode configuration").Wrap(err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, core.NewConfigurationError("CONFIG_INVALID", "configuration failed validation").Wrap(err)
	}

	return cfg, nil
}

// IsLambda reports whether the process runs inside AWS Lambda.
func (c *Config) IsLambda() bool { return c.LambdaFunctionName != "" }

// StorageEnabled reports whether storage credentials are fully configured.
func (c *Config) StorageEnabled() bool { return c.Workspace != "" && c.Token != "" }
