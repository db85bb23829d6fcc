package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"fping-monitor/internal/models"
)

// Generator creates static images and reports from stored probe results
type Generator struct {
	store  models.Store
	logger *zerolog.Logger
	now    func() time.Time
}

// NewGenerator creates a new report generator
func NewGenerator(store models.Store, logger *zerolog.Logger) *Generator {
	return &Generator{store: store, logger: logger, now: time.Now}
}

// GenerateReport creates a report directory with charts and a text summary
// and returns its path
func (g *Generator) GenerateReport(outputDir string, hours int) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create output directory")
	}

	timestamp := g.now().Format("2006-01-02_15-04-05")
	reportDir := filepath.Join(outputDir, fmt.Sprintf("fping_report_%s", timestamp))
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create report directory")
	}

	results, err := g.store.GetRecent(hours)
	if err != nil {
		return "", errors.Wrap(err, "failed to load results")
	}
	series := groupByHost(results)

	if err := g.generateLatencyCharts(reportDir, series); err != nil {
		g.logger.Error().Err(err).Msg("Failed to generate latency chart")
	}

	if err := g.generateLossChart(reportDir, series); err != nil {
		g.logger.Error().Err(err).Msg("Failed to generate loss chart")
	}

	if err := g.generateTextReport(reportDir, hours, series); err != nil {
		g.logger.Error().Err(err).Msg("Failed to generate text report")
	}

	g.logger.Info().Str("dir", reportDir).Msg("Report generated")
	return reportDir, nil
}

// hostSeries holds one host's results in chronological order
type hostSeries struct {
	host    string
	results []models.StoredResult
}

func groupByHost(results []models.StoredResult) []hostSeries {
	byHost := make(map[string][]models.StoredResult)
	for _, r := range results {
		byHost[r.Host] = append(byHost[r.Host], r)
	}

	series := make([]hostSeries, 0, len(byHost))
	for host, rs := range byHost {
		sort.Slice(rs, func(i, j int) bool {
			return rs[i].Timestamp.Before(rs[j].Timestamp)
		})
		series = append(series, hostSeries{host: host, results: rs})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].host < series[j].host
	})
	return series
}
