package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"fping-monitor/internal/models"
)

const envPrefix = "FPINGMON"

type fileConfig struct {
	Name  string `mapstructure:"name"`
	FPing struct {
		Command  string        `mapstructure:"command"`
		Count    int           `mapstructure:"count"`
		Interval time.Duration `mapstructure:"interval"`
		Period   int           `mapstructure:"period"`
		Timeout  time.Duration `mapstructure:"timeout"`
	} `mapstructure:"fping"`
	Groups []struct {
		Name  string `mapstructure:"name"`
		Hosts []any  `mapstructure:"hosts"`
	} `mapstructure:"groups"`
	Database struct {
		Path      string        `mapstructure:"path"`
		Retention time.Duration `mapstructure:"retention"`
	} `mapstructure:"database"`
	Web struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"web"`
	Report struct {
		Dir   string `mapstructure:"dir"`
		Hours int    `mapstructure:"hours"`
	} `mapstructure:"report"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("name", "fping")
	v.SetDefault("fping.command", "fping")
	v.SetDefault("fping.count", 5)
	v.SetDefault("fping.interval", time.Minute)
	v.SetDefault("fping.period", 20)
	v.SetDefault("fping.timeout", time.Duration(0))
	v.SetDefault("groups", []any{})
	v.SetDefault("database.path", "fping_monitor.db")
	v.SetDefault("database.retention", 7*24*time.Hour)
	v.SetDefault("web.port", 8080)
	v.SetDefault("report.dir", "reports")
	v.SetDefault("report.hours", 24)
}

// Load reads the configuration file at path, if any, on top of the defaults.
// Every setting can be overridden with an FPINGMON_ environment variable,
// e.g. FPINGMON_FPING_COUNT=10.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	var raw fileConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	cfg := Config{
		Name: raw.Name,
		FPing: FPingConfig{
			Command:  raw.FPing.Command,
			Count:    raw.FPing.Count,
			Interval: raw.FPing.Interval,
			Period:   raw.FPing.Period,
			Timeout:  raw.FPing.Timeout,
		},
		Database: DatabaseConfig{
			Path:      raw.Database.Path,
			Retention: raw.Database.Retention,
		},
		Web:    WebConfig{Port: raw.Web.Port},
		Report: ReportConfig{Dir: raw.Report.Dir, Hours: raw.Report.Hours},
	}

	for i, rawGroup := range raw.Groups {
		name := rawGroup.Name
		if name == "" {
			name = "group" + strconv.Itoa(i)
		}
		group := models.Group{Name: name, Hosts: make([]models.HostEntry, 0, len(rawGroup.Hosts))}
		for _, rawHost := range rawGroup.Hosts {
			entry, err := models.ParseHostEntry(rawHost)
			if err != nil {
				return Config{}, errors.Wrapf(err, "invalid host in group %s", name)
			}
			group.Hosts = append(group.Hosts, entry)
		}
		cfg.Groups = append(cfg.Groups, group)
	}

	return cfg, nil
}
