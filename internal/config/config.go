package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration. This is the operator's
// config (gateway endpoint, storage path, logging); the user's cleanup
// policy lives in the durable state store, not here
type Config struct {
	*viper.Viper
}

// New creates a new configuration instance, reading an optional config file
// and MAILSWEEP_* environment overrides
func New(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("$HOME/.config/mailsweep")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("MAILSWEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{Viper: v}, nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Agent gateway defaults
	v.SetDefault("agent.endpoint", "http://localhost:8088/v1/agent/call")
	v.SetDefault("agent.timeout", "60s")

	// Storage defaults
	v.SetDefault("storage.path", "$HOME/.local/share/mailsweep/state.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
