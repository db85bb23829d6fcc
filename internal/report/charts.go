package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// minChartPoints is the fewest cycles a line chart can be drawn from
const minChartPoints = 2

var chartPadding = chart.Style{
	Padding: chart.Box{
		Top:    20,
		Left:   20,
		Right:  20,
		Bottom: 20,
	},
}

var gridStyle = chart.Style{
	StrokeColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
	StrokeWidth: 1.0,
}

func renderPNG(graph chart.Chart, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

// latencyPoints returns the avg, min and max series of the cycles that got replies
func latencyPoints(s hostSeries) (xs []time.Time, avg, lo, hi []float64) {
	for _, r := range s.results {
		a, ok := r.Avg()
		if !ok {
			continue
		}
		mn, _ := r.Min()
		mx, _ := r.Max()
		xs = append(xs, r.Timestamp)
		avg = append(avg, a)
		lo = append(lo, mn)
		hi = append(hi, mx)
	}
	return xs, avg, lo, hi
}

func (g *Generator) generateLatencyCharts(outputDir string, series []hostSeries) error {
	for _, s := range series {
		xs, avg, lo, hi := latencyPoints(s)
		if len(xs) < minChartPoints {
			g.logger.Debug().Str("host", s.host).Msg("Not enough replies for a latency chart")
			continue
		}

		graph := chart.Chart{
			Title: fmt.Sprintf("Network Latency - %s", s.host),
			TitleStyle: chart.Style{
				FontSize: 16,
			},
			Background: chartPadding,
			Width:      1200,
			Height:     400,
			XAxis: chart.XAxis{
				Name: "Time",
				Style: chart.Style{
					StrokeColor: drawing.ColorBlack,
					FontSize:    10,
				},
				ValueFormatter: chart.TimeMinuteValueFormatter,
			},
			YAxis: chart.YAxis{
				Name: "Latency (ms)",
				Style: chart.Style{
					StrokeColor: drawing.ColorBlack,
					FontSize:    10,
				},
				GridMajorStyle: gridStyle,
			},
			Series: []chart.Series{
				chart.TimeSeries{
					Name: "avg",
					Style: chart.Style{
						StrokeColor: chart.GetDefaultColor(0),
						StrokeWidth: 2,
					},
					XValues: xs,
					YValues: avg,
				},
				chart.TimeSeries{
					Name: "min",
					Style: chart.Style{
						StrokeColor:     chart.GetDefaultColor(1),
						StrokeWidth:     1,
						StrokeDashArray: []float64{5, 5},
					},
					XValues: xs,
					YValues: lo,
				},
				chart.TimeSeries{
					Name: "max",
					Style: chart.Style{
						StrokeColor:     chart.GetDefaultColor(2),
						StrokeWidth:     1,
						StrokeDashArray: []float64{5, 5},
					},
					XValues: xs,
					YValues: hi,
				},
			},
		}
		graph.Elements = []chart.Renderable{
			chart.Legend(&graph),
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("latency_%s.png", sanitizeFilename(s.host)))
		if err := renderPNG(graph, filename); err != nil {
			return err
		}
	}

	return nil
}

func (g *Generator) generateLossChart(outputDir string, series []hostSeries) error {
	var allSeries []chart.Series
	for i, s := range series {
		if len(s.results) < minChartPoints {
			continue
		}
		xs := make([]time.Time, 0, len(s.results))
		ys := make([]float64, 0, len(s.results))
		for _, r := range s.results {
			xs = append(xs, r.Timestamp)
			ys = append(ys, r.Loss*100)
		}
		allSeries = append(allSeries, chart.TimeSeries{
			Name: s.host,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 2,
			},
			XValues: xs,
			YValues: ys,
		})
	}

	if len(allSeries) == 0 {
		return nil
	}

	graph := chart.Chart{
		Title: "Packet Loss",
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: chartPadding,
		Width:      1200,
		Height:     400,
		XAxis: chart.XAxis{
			Name: "Time",
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				FontSize:    10,
			},
			ValueFormatter: chart.TimeHourValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Loss %",
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				FontSize:    10,
			},
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 100,
			},
			GridMajorStyle: gridStyle,
		},
		Series: allSeries,
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	return renderPNG(graph, filepath.Join(outputDir, "loss.png"))
}

// sanitizeFilename maps every rune outside [A-Za-z0-9_-] to an underscore
func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
