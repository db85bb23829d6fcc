package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"fping-monitor/internal/config"
	"fping-monitor/internal/database"
	"fping-monitor/internal/fping"
	"fping-monitor/internal/logging"
	"fping-monitor/internal/metrics"
	"fping-monitor/internal/monitor"
	"fping-monitor/internal/report"
	"fping-monitor/internal/web"
)

const shutdownTimeout = 10 * time.Second

// setup loads and validates the configuration and builds the logger
func setup(globals *config.Globals) (config.Config, *zerolog.Logger, error) {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, errors.Wrap(err, "invalid configuration")
	}

	logger, err := logging.New(logging.Config{
		Level:  globals.LogLevel,
		Output: globals.LogOutput,
		File:   globals.LogFile,
	})
	if err != nil {
		return config.Config{}, nil, err
	}

	return cfg, logger, nil
}

func openDB(path string) (*database.DB, error) {
	db, err := database.New(path)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize database schema")
	}
	return db, nil
}

func newProber(ctx context.Context, cfg config.Config, logger *zerolog.Logger) (*fping.Prober, error) {
	return fping.New(ctx, fping.Config{
		Name:    cfg.Name,
		Command: cfg.FPing.Command,
		Count:   cfg.FPing.Count,
		Period:  cfg.FPing.Period,
		Groups:  cfg.Groups,
	}, fping.ExecExecutor{}, clockwork.NewRealClock(), logger)
}

type RunCmd struct{}

func (c *RunCmd) Run(globals *config.Globals) error {
	cfg, logger, err := setup(globals)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	prober, err := newProber(ctx, cfg, logger)
	if err != nil {
		return err
	}

	collector := metrics.New()
	sinks := []monitor.NamedSink{
		{Name: "database", Sink: db},
		{Name: "metrics", Sink: collector},
		{Name: "log", Sink: monitor.NewLogSink(logger)},
	}
	mon := monitor.New(
		monitor.Config{
			Interval:  cfg.FPing.Interval,
			Timeout:   cfg.ProbeTimeout(),
			Retention: cfg.Database.Retention,
		},
		prober,
		sinks,
		db,
		collector,
		clockwork.NewRealClock(),
		logger,
	)
	server := web.New(db, collector.GetRegistry(), cfg.Web.Port, logger)

	if err := mon.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start monitor")
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("Web server failed")
			stop()
		}
	}()

	logger.Info().
		Strs("hosts", prober.Hosts()).
		Stringer("dialect", prober.Dialect()).
		Dur("interval", cfg.FPing.Interval).
		Msgf("Monitor started, web interface available at http://localhost:%d", cfg.Web.Port)

	<-ctx.Done()
	logger.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Web server did not shut down cleanly")
	}

	mon.Stop()
	mon.Wait()
	return nil
}

type ProbeCmd struct{}

func (c *ProbeCmd) Run(globals *config.Globals) error {
	cfg, logger, err := setup(globals)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prober, err := newProber(ctx, cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout())
	defer cancel()

	msg, err := prober.Probe(ctx)
	if err != nil {
		return err
	}
	if msg == nil {
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(msg)
}

type ReportCmd struct {
	Dir   string `type:"path" help:"Directory to write the report into, overrides report.dir"`
	Hours int    `help:"Number of hours to cover, overrides report.hours"`
}

func (c *ReportCmd) Run(globals *config.Globals) error {
	cfg, logger, err := setup(globals)
	if err != nil {
		return err
	}
	if c.Dir != "" {
		cfg.Report.Dir = c.Dir
	}
	if c.Hours > 0 {
		cfg.Report.Hours = c.Hours
	}

	db, err := openDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	dir, err := report.NewGenerator(db, logger).GenerateReport(cfg.Report.Dir, cfg.Report.Hours)
	if err != nil {
		return err
	}

	fmt.Println(dir) // nolint: forbidigo
	return nil
}

type VersionCmd struct{}

func (v *VersionCmd) Run() error {
	fmt.Printf("fping-monitor %s\n", version) // nolint: forbidigo
	return nil
}
