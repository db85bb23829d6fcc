package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fping-monitor/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "fping", cfg.FPing.Command)
	assert.Equal(t, 5, cfg.FPing.Count)
	assert.Equal(t, time.Minute, cfg.FPing.Interval)
	assert.Equal(t, 20, cfg.FPing.Period)
	assert.Equal(t, time.Minute, cfg.ProbeTimeout())
	assert.Equal(t, "fping_monitor.db", cfg.Database.Path)
	assert.Equal(t, 7*24*time.Hour, cfg.Database.Retention)
	assert.Equal(t, 8080, cfg.Web.Port)
	assert.Empty(t, cfg.Groups)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
name: latency
fping:
  command: /usr/sbin/fping
  count: 10
  interval: 30s
  period: 50
  timeout: 20s
groups:
  - name: dns
    hosts:
      - 8.8.8.8
      - host: 1.1.1.1
        name: cloudflare
        color: "#f38020"
  - name: lan
    hosts:
      - 10.0.0.1
      - 8.8.8.8
web:
  port: 9090
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "latency", cfg.Name)
	assert.Equal(t, "/usr/sbin/fping", cfg.FPing.Command)
	assert.Equal(t, 10, cfg.FPing.Count)
	assert.Equal(t, 30*time.Second, cfg.FPing.Interval)
	assert.Equal(t, 50, cfg.FPing.Period)
	assert.Equal(t, 20*time.Second, cfg.ProbeTimeout())
	assert.Equal(t, 9090, cfg.Web.Port)

	require.Len(t, cfg.Groups, 2)
	assert.Equal(t, "dns", cfg.Groups[0].Name)
	require.Len(t, cfg.Groups[0].Hosts, 2)
	assert.Equal(t, models.PlainHost("8.8.8.8"), cfg.Groups[0].Hosts[0])

	structured := cfg.Groups[0].Hosts[1]
	assert.True(t, structured.Structured())
	assert.Equal(t, "1.1.1.1", structured.Address())
	assert.Equal(t, "cloudflare", structured.Name)
	assert.Equal(t, "#f38020", structured.Color)

	assert.Equal(t, "lan", cfg.Groups[1].Name)
	assert.Len(t, cfg.Groups[1].Hosts, 2)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FPINGMON_FPING_COUNT", "3")
	t.Setenv("FPINGMON_WEB_PORT", "9999")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.FPing.Count)
	assert.Equal(t, 9999, cfg.Web.Port)
}

func TestLoad_InvalidHost(t *testing.T) {
	path := writeConfig(t, `
groups:
  - name: broken
    hosts:
      - name: no address here
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			FPing:    FPingConfig{Command: "fping", Count: 5, Interval: time.Minute, Period: 20},
			Database: DatabaseConfig{Path: "test.db", Retention: time.Hour},
			Web:      WebConfig{Port: 8080},
			Report:   ReportConfig{Dir: "reports", Hours: 24},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(*Config) {}, false},
		{"empty command", func(c *Config) { c.FPing.Command = "" }, true},
		{"zero count", func(c *Config) { c.FPing.Count = 0 }, true},
		{"zero period", func(c *Config) { c.FPing.Period = 0 }, true},
		{"zero interval", func(c *Config) { c.FPing.Interval = 0 }, true},
		{"negative timeout", func(c *Config) { c.FPing.Timeout = -time.Second }, true},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, true},
		{"invalid port", func(c *Config) { c.Web.Port = 70000 }, true},
		{"zero report hours", func(c *Config) { c.Report.Hours = 0 }, true},
		{
			"empty host",
			func(c *Config) {
				c.Groups = []models.Group{{Name: "g", Hosts: []models.HostEntry{models.PlainHost("")}}}
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
