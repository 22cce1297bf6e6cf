// Package monitoring exposes Prometheus instrumentation for long-running
// sampling and convergence runs. Collectors are updated only when a chain
// starts and when it finishes, so the MCMC inner loop stays free of shared
// state.
package monitoring

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the sampler's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	ActiveChains   prometheus.Gauge
	ProposalsTotal *prometheus.CounterVec
	SwapsTotal     *prometheus.CounterVec
	ChainSeconds   prometheus.Histogram
}

// New creates and registers the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ActiveChains: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mcmc_active_chains",
			Help: "Number of chains currently running.",
		}),
		ProposalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mcmc_proposals_total",
			Help: "Proposals made, by sampler and outcome.",
		}, []string{"method", "outcome"}),
		SwapsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mcmc_swaps_total",
			Help: "Accepted swaps, by sampler.",
		}, []string{"method"}),
		ChainSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mcmc_chain_duration_seconds",
			Help:    "Wall-clock duration of finished chains.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
	}
	m.registry.MustRegister(m.ActiveChains, m.ProposalsTotal, m.SwapsTotal, m.ChainSeconds)
	return m
}

// ObserveChain records the outcome counts of one finished chain.
func (m *Metrics) ObserveChain(method string, proposals, swaps int, wall time.Duration) {
	m.ProposalsTotal.WithLabelValues(method, "accepted").Add(float64(swaps))
	m.ProposalsTotal.WithLabelValues(method, "rejected").Add(float64(proposals - swaps))
	m.SwapsTotal.WithLabelValues(method).Add(float64(swaps))
	m.ChainSeconds.Observe(wall.Seconds())
}

// Handler returns the scrape handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until the context is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
