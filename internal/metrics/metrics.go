package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the engine's process counters. Each Collector owns its
// registry so tests can build as many as they like.
type Collector struct {
	reg *prometheus.Registry

	sweepsTotal   prometheus.Counter
	probesTotal   *prometheus.CounterVec
	skippedTotal  *prometheus.CounterVec
	alertsTotal   *prometheus.CounterVec
	inFlight      prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Collector{
		reg: reg,
		sweepsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "uptimemon_sweeps_total",
			Help: "Completed sweeps over the stored checks",
		}),
		probesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uptimemon_probes_total",
			Help: "Completed probes by resulting state",
		}, []string{"state"}),
		skippedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uptimemon_checks_skipped_total",
			Help: "Check pipelines skipped before probing",
		}, []string{"reason"}),
		alertsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uptimemon_alerts_total",
			Help: "Alert dispatch attempts by result",
		}, []string{"result"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "uptimemon_probes_in_flight",
			Help: "Probes currently running",
		}),
	}
}

func (c *Collector) SweepDone()            { c.sweepsTotal.Inc() }
func (c *Collector) ProbeDone(state string) { c.probesTotal.WithLabelValues(state).Inc() }
func (c *Collector) Skipped(reason string)  { c.skippedTotal.WithLabelValues(reason).Inc() }
func (c *Collector) AlertSent()             { c.alertsTotal.WithLabelValues("sent").Inc() }
func (c *Collector) AlertFailed()           { c.alertsTotal.WithLabelValues("failed").Inc() }
func (c *Collector) ProbeStarted()          { c.inFlight.Inc() }
func (c *Collector) ProbeFinished()         { c.inFlight.Dec() }

// Handler serves this collector's registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
