// Package metrics exports the crowd estimation state to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crowdsense/internal/crowd"
)

// Collector owns the Prometheus registry for the estimation service
type Collector struct {
	registry *prometheus.Registry

	crowdScore     prometheus.Gauge
	estimatedWait  prometheus.Gauge
	activeOrders   prometheus.Gauge
	efficiencyGain prometheus.Gauge

	stationWait  *prometheus.GaugeVec
	stationQueue *prometheus.GaugeVec

	recalculations prometheus.Counter
	skippedLookups prometheus.Counter
}

// NewCollector creates a collector with its own registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		crowdScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crowd_score",
			Help: "Normalized 0-100 canteen congestion score",
		}),
		estimatedWait: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "estimated_wait_minutes",
			Help: "Published overall wait estimate",
		}),
		activeOrders: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "active_orders",
			Help: "Orders currently being worked by the kitchen",
		}),
		efficiencyGain: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "batch_efficiency_gain_minutes",
			Help: "Minutes saved by batch cooking versus sequential prep",
		}),
		stationWait: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "station_wait_minutes",
			Help: "Wait time per kitchen station",
		}, []string{"station"}),
		stationQueue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "station_queue_orders",
			Help: "Orders queued per kitchen station",
		}, []string{"station"}),
		recalculations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crowd_recalculations_total",
			Help: "Number of crowd estimations performed",
		}),
		skippedLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skipped_menu_lookups_total",
			Help: "Order items dropped because their menu id was unknown",
		}),
	}

	c.registry.MustRegister(
		c.crowdScore,
		c.estimatedWait,
		c.activeOrders,
		c.efficiencyGain,
		c.stationWait,
		c.stationQueue,
		c.recalculations,
		c.skippedLookups,
	)

	return c
}

// ObserveResult records one completed estimation
func (c *Collector) ObserveResult(result crowd.Result) {
	c.recalculations.Inc()
	c.crowdScore.Set(float64(result.CrowdScore))
	c.estimatedWait.Set(float64(result.EstimatedWait))
	c.activeOrders.Set(float64(result.Factors.ActiveOrders))
	c.efficiencyGain.Set(float64(result.EfficiencyMetrics.BatchEfficiencyGain))
	c.skippedLookups.Add(float64(result.SkippedLookups))

	for _, queue := range result.StationQueues {
		c.stationWait.WithLabelValues(queue.StationName).Set(float64(queue.WaitTime))
		c.stationQueue.WithLabelValues(queue.StationName).Set(float64(queue.TotalOrders))
	}
}

// Handler serves the registry over HTTP
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
