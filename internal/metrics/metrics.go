package metrics

import "github.com/prometheus/client_golang/prometheus"

type Counter interface {
	Inc(labels ...string)
}

type Counters struct {
	// labels: layer, outcome
	FunnelEvents Counter
	// labels: result
	AIDenoise Counter
	// labels: action
	Tickets Counter
	// labels: level
	TrendAlerts Counter
	// labels: channel, status
	Notifications Counter
	// labels: method, status
	GrpcRequests Counter
}

type PrometheusCounter struct {
	counter *prometheus.CounterVec
}

func newCounterVec(name, help string, labels []string) *PrometheusCounter {
	return &PrometheusCounter{
		counter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: name,
			Help: help,
		}, labels),
	}
}

func (p *PrometheusCounter) Inc(labels ...string) {
	p.counter.WithLabelValues(labels...).Inc()
}

func build() *Counters {
	return &Counters{
		FunnelEvents: newCounterVec(
			"funnel_events_total",
			"Exceptions seen by each funnel layer",
			[]string{"layer", "outcome"},
		),
		AIDenoise: newCounterVec(
			"ai_denoise_total",
			"AI denoise lookups by result",
			[]string{"result"},
		),
		Tickets: newCounterVec(
			"tickets_total",
			"Tickets created or updated",
			[]string{"action"},
		),
		TrendAlerts: newCounterVec(
			"trend_alerts_total",
			"Trend alerts raised",
			[]string{"level"},
		),
		Notifications: newCounterVec(
			"notifications_total",
			"Notifications sent per channel",
			[]string{"channel", "status"},
		),
		GrpcRequests: newCounterVec(
			"grpc_requests_total",
			"gRPC requests by method and status",
			[]string{"method", "status"},
		),
	}
}

func (c *Counters) register(reg prometheus.Registerer) {
	for _, cnt := range []Counter{c.FunnelEvents, c.AIDenoise, c.Tickets, c.TrendAlerts, c.Notifications, c.GrpcRequests} {
		reg.MustRegister(cnt.(*PrometheusCounter).counter)
	}
}

func New() *Counters {
	c := build()
	c.register(prometheus.DefaultRegisterer)
	return c
}

// NewTestCounters registers on a private registry so tests can build many sets.
func NewTestCounters() *Counters {
	c := build()
	c.register(prometheus.NewRegistry())
	return c
}
