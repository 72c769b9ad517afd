package config

import (
	"os"
	"strings"
	"time"
)

// AgentConfig represents the configuration for the agent gateway
type AgentConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// StorageConfig represents the configuration for the durable state store
type StorageConfig struct {
	Path string
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// GetAgent returns the agent gateway configuration
func (c *Config) GetAgent() AgentConfig {
	timeout, err := time.ParseDuration(c.GetString("agent.timeout"))
	if err != nil || timeout <= 0 {
		timeout = 60 * time.Second
	}
	return AgentConfig{
		Endpoint: c.GetString("agent.endpoint"),
		Timeout:  timeout,
	}
}

// GetStorage returns the state store configuration with $HOME expanded
func (c *Config) GetStorage() StorageConfig {
	path := c.GetString("storage.path")
	if strings.Contains(path, "$HOME") {
		if home, err := os.UserHomeDir(); err == nil {
			path = strings.ReplaceAll(path, "$HOME", home)
		}
	}
	return StorageConfig{Path: path}
}

// GetLogging returns the logging configuration
func (c *Config) GetLogging() LoggingConfig {
	return LoggingConfig{
		Level:  c.GetString("logging.level"),
		Format: c.GetString("logging.format"),
	}
}
