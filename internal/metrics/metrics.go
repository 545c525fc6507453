// Package metrics exposes cycle and wallet gauges to Prometheus.
//
// In daemon mode the registry is served over HTTP; one-shot runs write it to
// a node_exporter textfile instead.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Recorder defines the observability hooks of a monitoring cycle.
type Recorder interface {
	ObserveCycle(outcome string, d time.Duration)
	SetWallet(balance, stake, total decimal.Decimal, weight int64)
	SetTemperature(celsius float64)
	IncIntent(kind string, delivered bool)
	SetLastSuccess(t time.Time)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are off).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCycle(string, time.Duration)                                 {}
func (NoopRecorder) SetWallet(decimal.Decimal, decimal.Decimal, decimal.Decimal, int64) {}
func (NoopRecorder) SetTemperature(float64)                                             {}
func (NoopRecorder) IncIntent(string, bool)                                             {}
func (NoopRecorder) SetLastSuccess(time.Time)                                           {}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	cycleDuration prom.Histogram
	cycles        *prom.CounterVec
	intents       *prom.CounterVec
	balance       prom.Gauge
	stake         prom.Gauge
	total         prom.Gauge
	weight        prom.Gauge
	temperature   prom.Gauge
	lastSuccess   prom.Gauge
}

// NewPrometheusRecorder constructs and registers the metrics on reg (a fresh
// registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	const ns = "stakesentinel"
	p := &PrometheusRecorder{
		reg: reg,
		cycleDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: ns,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of monitoring cycles",
			Buckets:   prom.DefBuckets,
		}),
		cycles: prom.NewCounterVec(prom.CounterOpts{
			Namespace: ns,
			Name:      "cycles_total",
			Help:      "Monitoring cycles by outcome",
		}, []string{"outcome"}),
		intents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: ns,
			Name:      "notifications_total",
			Help:      "Decided notifications by kind and delivery result",
		}, []string{"kind", "result"}),
		balance: prom.NewGauge(prom.GaugeOpts{
			Namespace: ns,
			Name:      "wallet_balance",
			Help:      "Spendable wallet balance",
		}),
		stake: prom.NewGauge(prom.GaugeOpts{
			Namespace: ns,
			Name:      "wallet_stake",
			Help:      "Amount currently staking",
		}),
		total: prom.NewGauge(prom.GaugeOpts{
			Namespace: ns,
			Name:      "wallet_total",
			Help:      "Balance plus stake",
		}),
		weight: prom.NewGauge(prom.GaugeOpts{
			Namespace: ns,
			Name:      "staking_weight",
			Help:      "Staking weight reported by the daemon",
		}),
		temperature: prom.NewGauge(prom.GaugeOpts{
			Namespace: ns,
			Name:      "host_temperature_celsius",
			Help:      "Last host temperature reading",
		}),
		lastSuccess: prom.NewGauge(prom.GaugeOpts{
			Namespace: ns,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last cycle that saved state",
		}),
	}
	reg.MustRegister(p.cycleDuration, p.cycles, p.intents, p.balance, p.stake, p.total, p.weight, p.temperature, p.lastSuccess)
	return p
}

func (p *PrometheusRecorder) ObserveCycle(outcome string, d time.Duration) {
	if p == nil {
		return
	}
	p.cycles.WithLabelValues(outcome).Inc()
	p.cycleDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetWallet(balance, stake, total decimal.Decimal, weight int64) {
	if p == nil {
		return
	}
	p.balance.Set(balance.InexactFloat64())
	p.stake.Set(stake.InexactFloat64())
	p.total.Set(total.InexactFloat64())
	p.weight.Set(float64(weight))
}

func (p *PrometheusRecorder) SetTemperature(celsius float64) {
	if p == nil {
		return
	}
	p.temperature.Set(celsius)
}

func (p *PrometheusRecorder) IncIntent(kind string, delivered bool) {
	if p == nil {
		return
	}
	res := "failed"
	if delivered {
		res = "delivered"
	}
	p.intents.WithLabelValues(kind, res).Inc()
}

func (p *PrometheusRecorder) SetLastSuccess(t time.Time) {
	if p == nil {
		return
	}
	p.lastSuccess.Set(float64(t.Unix()))
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the registry for the node_exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
