// Package metrics constructs the metrics the application will track.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minichain/node/foundation/blockchain/peer"
)

const namespace = "minichain"

// Source provides the chain values exposed as gauges.
type Source interface {
	QueryChainLength() int
	QueryMempoolLength() int
	RetrieveDifficulty() int
	RetrieveKnownPeers() []peer.Peer
}

// Metrics represents the set of metrics we gather. These fields are
// safe to be accessed concurrently thanks to prometheus.
type Metrics struct {
	registry   *prometheus.Registry
	requests   prometheus.Counter
	errors     prometheus.Counter
	panics     prometheus.Counter
}

// New constructs the metrics on a registry of their own. The chain gauges
// read the source on every scrape.
func New(src Source) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := Metrics{
		registry: reg,
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "number of requests handled",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "number of requests that ended in error",
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panics_total",
			Help:      "number of panics recovered",
		}),
	}
	reg.MustRegister(m.requests, m.errors, m.panics)

	gauges := []struct {
		name string
		help string
		fn   func() float64
	}{
		{"chain_length", "number of blocks in the chain", func() float64 { return float64(src.QueryChainLength()) }},
		{"mempool_length", "number of transactions waiting to be mined", func() float64 { return float64(src.QueryMempoolLength()) }},
		{"difficulty", "current difficulty of the puzzle", func() float64 { return float64(src.RetrieveDifficulty()) }},
		{"known_peers", "number of registered peers", func() float64 { return float64(len(src.RetrieveKnownPeers())) }},
	}

	for _, g := range gauges {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      g.name,
			Help:      g.help,
		}, g.fn))
	}

	return &m
}

// AddRequests increments the request counter.
func (m *Metrics) AddRequests() {
	m.requests.Inc()
}

// AddErrors increments the errors counter.
func (m *Metrics) AddErrors() {
	m.errors.Inc()
}

// AddPanics increments the panics counter.
func (m *Metrics) AddPanics() {
	m.panics.Inc()
}

// Handler returns the handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
