// Package metrics exposes Prometheus metrics for the polling loop.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the notifier.
type Metrics struct {
	Registry *prometheus.Registry

	TicksTotal    *prometheus.CounterVec // labels: outcome
	AlertsTotal   prometheus.Counter
	Probability   prometheus.Gauge
	FetchDuration prometheus.Histogram
}

// New creates the metrics and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		TicksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "easewatch_ticks_total",
			Help: "Polling ticks by outcome",
		}, []string{"outcome"}),
		AlertsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "easewatch_alerts_total",
			Help: "Alerts delivered",
		}),
		Probability: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "easewatch_probability_percent",
			Help: "Last extracted ease probability",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "easewatch_fetch_duration_seconds",
			Help:    "Feed fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.Registry.MustRegister(
		m.TicksTotal,
		m.AlertsTotal,
		m.Probability,
		m.FetchDuration,
	)
	return m
}

// Server serves /metrics for a registry.
type Server struct {
	srv *http.Server
}

// NewServer creates a metrics server listening on addr.
func NewServer(addr string, m *Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Serve listens until ctx is cancelled, then shuts the server down.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("metrics: listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
