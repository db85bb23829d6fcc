package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"fping-monitor/internal/models"
)

// Collector exposes probe results as prometheus metrics. It doubles as a message sink.
type Collector struct {
	registry *prometheus.Registry

	HostLoss      *prometheus.GaugeVec
	HostLatency   *prometheus.GaugeVec
	HostSent      *prometheus.CounterVec
	HostReceived  *prometheus.CounterVec
	Cycles        *prometheus.CounterVec
	CycleDuration prometheus.Histogram
	SinkErrors    *prometheus.CounterVec
}

func New() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewGoCollector())

	return &Collector{
		registry: registry,

		HostLoss: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "fping_loss_ratio",
			Help: "Fraction of probes without a reply in the last cycle",
		}, []string{"source", "host"}),
		HostLatency: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "fping_latency_milliseconds",
			Help: "Round trip time statistics of the last cycle",
		}, []string{"source", "host", "stat"}),
		HostSent: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "fping_sent_total",
			Help: "The total number of probes sent",
		}, []string{"source", "host"}),
		HostReceived: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "fping_received_total",
			Help: "The total number of probes answered",
		}, []string{"source", "host"}),
		Cycles: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "fping_cycles_total",
			Help: "The total number of probe cycles by outcome",
		}, []string{"outcome"}),
		CycleDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name: "fping_cycle_duration_seconds",
			Help: "Duration of probe cycles",
		}),
		SinkErrors: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "fping_sink_errors_total",
			Help: "The total number of messages a sink failed to accept",
		}, []string{"sink"}),
	}
}

func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// Emit records the results carried by the message
func (c *Collector) Emit(_ context.Context, msg *models.Message) error {
	for _, result := range msg.Data {
		c.HostLoss.WithLabelValues(msg.Source, result.Host).Set(result.Loss)
		c.HostSent.WithLabelValues(msg.Source, result.Host).Add(float64(result.Count))
		c.HostReceived.WithLabelValues(msg.Source, result.Host).Add(float64(result.Received()))

		stats := map[string]func() (float64, bool){
			"min":  result.Min,
			"max":  result.Max,
			"avg":  result.Avg,
			"last": result.Last,
		}
		for stat, value := range stats {
			if v, ok := value(); ok {
				c.HostLatency.WithLabelValues(msg.Source, result.Host, stat).Set(v)
			} else {
				c.HostLatency.DeleteLabelValues(msg.Source, result.Host, stat)
			}
		}
	}
	return nil
}

// ObserveCycle records the outcome label and duration of one cycle
func (c *Collector) ObserveCycle(outcome string, took time.Duration) {
	c.Cycles.WithLabelValues(outcome).Inc()
	c.CycleDuration.Observe(took.Seconds())
}

// ObserveSinkError counts a message rejected by a sink
func (c *Collector) ObserveSinkError(sink string) {
	c.SinkErrors.WithLabelValues(sink).Inc()
}
