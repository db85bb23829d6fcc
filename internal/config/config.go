package config

import (
	"fmt"
	"time"

	"fping-monitor/internal/models"
)

// Config holds all configuration for the fping monitor
type Config struct {
	Name     string
	FPing    FPingConfig
	Groups   []models.Group
	Database DatabaseConfig
	Web      WebConfig
	Report   ReportConfig
}

// FPingConfig holds the probe settings
type FPingConfig struct {
	Command  string
	Count    int
	Interval time.Duration
	Period   int // milliseconds
	Timeout  time.Duration
}

type DatabaseConfig struct {
	Path      string
	Retention time.Duration
}

type WebConfig struct {
	Port int
}

type ReportConfig struct {
	Dir   string
	Hours int
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.FPing.Command == "" {
		return fmt.Errorf("fping command cannot be empty")
	}
	if c.FPing.Count <= 0 {
		return fmt.Errorf("fping count must be positive")
	}
	if c.FPing.Period <= 0 {
		return fmt.Errorf("fping period must be positive")
	}
	if c.FPing.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.FPing.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	for _, group := range c.Groups {
		for _, entry := range group.Hosts {
			if entry.Address() == "" {
				return fmt.Errorf("group %q contains an empty host", group.Name)
			}
		}
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Database.Retention <= 0 {
		return fmt.Errorf("database retention must be positive")
	}
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.Report.Hours <= 0 {
		return fmt.Errorf("report hours must be positive")
	}
	return nil
}

// ProbeTimeout returns the deadline of one probe cycle
func (c *Config) ProbeTimeout() time.Duration {
	if c.FPing.Timeout > 0 {
		return c.FPing.Timeout
	}
	return c.FPing.Interval
}
