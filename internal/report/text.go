package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"fping-monitor/internal/models"
)

// outageThreshold is the number of consecutive fully lost cycles counted as an outage
const outageThreshold = 3

const timeLayout = "2006-01-02 15:04:05"

// outage is a run of consecutive cycles where a host answered nothing
type outage struct {
	host   string
	start  time.Time
	end    time.Time
	cycles int
}

// findOutages walks each host's chronological results and collects runs of
// total loss at least outageThreshold cycles long, newest first
func findOutages(series []hostSeries) []outage {
	var outages []outage
	for _, s := range series {
		var cur *outage
		flush := func() {
			if cur != nil && cur.cycles >= outageThreshold {
				outages = append(outages, *cur)
			}
			cur = nil
		}
		for _, r := range s.results {
			if r.Count == 0 || r.Received() > 0 {
				flush()
				continue
			}
			if cur == nil {
				cur = &outage{host: s.host, start: r.Timestamp}
			}
			cur.end = r.Timestamp
			cur.cycles++
		}
		flush()
	}

	sort.SliceStable(outages, func(i, j int) bool {
		return outages[i].start.After(outages[j].start)
	})
	return outages
}

func (g *Generator) generateTextReport(outputDir string, hours int, series []hostSeries) error {
	stats, err := g.store.GetStats(hours)
	if err != nil {
		return errors.Wrap(err, "failed to load stats")
	}

	filename := filepath.Join(outputDir, "summary.txt")
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	g.writeSummary(file, hours, series, stats)
	return nil
}

func (g *Generator) writeSummary(w io.Writer, hours int, series []hostSeries, stats []models.HostStats) {
	fmt.Fprintf(w, "fping Latency Report\n")
	fmt.Fprintf(w, "Generated: %s\n", g.now().Format(timeLayout))
	fmt.Fprintf(w, "Period: Last %d hours\n\n", hours)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintln(w, "\nHOST STATISTICS")

	if len(stats) == 0 {
		fmt.Fprintln(w, "No probe results recorded.")
	}
	for _, s := range stats {
		fmt.Fprintf(w, "Host: %s\n", s.Host)
		fmt.Fprintf(w, "  Cycles: %d\n", s.Cycles)
		fmt.Fprintf(w, "  Echoes: %d sent, %d received\n", s.Sent, s.Received)
		fmt.Fprintf(w, "  Packet Loss: %.2f%%\n", s.PacketLoss)

		if s.Received > 0 {
			fmt.Fprintf(w, "  Average RTT: %.2f ms\n", s.AvgRTT)
			fmt.Fprintf(w, "  Min RTT: %.2f ms\n", s.MinRTT)
			fmt.Fprintf(w, "  Max RTT: %.2f ms\n", s.MaxRTT)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "\nOUTAGE PERIODS (%d+ consecutive cycles without replies)\n", outageThreshold)

	outages := findOutages(series)
	for i, o := range outages {
		fmt.Fprintf(w, "Outage #%d\n", i+1)
		fmt.Fprintf(w, "  Host: %s\n", o.host)
		fmt.Fprintf(w, "  Start: %s\n", o.start.Local().Format(timeLayout))
		fmt.Fprintf(w, "  End: %s\n", o.end.Local().Format(timeLayout))
		fmt.Fprintf(w, "  Duration: %s\n", o.end.Sub(o.start))
		fmt.Fprintf(w, "  Lost Cycles: %d\n", o.cycles)
		fmt.Fprintln(w)
	}

	if len(outages) == 0 {
		fmt.Fprintln(w, "No significant outages detected.")
	} else {
		fmt.Fprintf(w, "\nTotal Outages: %d\n", len(outages))
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "\nCharts are available in the accompanying files.")
}
