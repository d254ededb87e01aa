// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package observability provides HTTP endpoints for metrics and health checks.
package observability

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"

	"github.com/holomush/linkguard/internal/catalog"
	"github.com/holomush/linkguard/internal/chatlink"
)

// ReadinessChecker returns whether the service is ready to validate messages.
type ReadinessChecker func() bool

// Reload results.
const (
	ReloadSuccess = "success"
	ReloadFailure = "failure"
)

// Metrics contains service-level Prometheus metrics for linkguard.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	CatalogReloads  *prometheus.CounterVec
	CatalogRecords  *prometheus.GaugeVec
}

// NewMetrics creates and registers service metrics, together with the
// chatlink verdict metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkguard_http_requests_total",
				Help: "Total number of validation API requests by status code",
			},
			[]string{"code"},
		),
		RequestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "linkguard_http_request_duration_seconds",
				Help:    "Validation API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		CatalogReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkguard_catalog_reloads_total",
				Help: "Total number of catalog reload attempts by result",
			},
			[]string{"result"},
		),
		CatalogRecords: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "linkguard_catalog_records",
				Help: "Number of records in the active catalog by kind",
			},
			[]string{"kind"},
		),
	}

	reg.MustRegister(m.RequestsTotal)
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.CatalogReloads)
	reg.MustRegister(m.CatalogRecords)
	chatlink.RegisterMetrics(reg)

	return m
}

// RecordRequest counts one API request.
func (m *Metrics) RecordRequest(status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	m.RequestDuration.Observe(elapsed.Seconds())
}

// RecordReload counts a catalog reload attempt.
func (m *Metrics) RecordReload(err error) {
	result := ReloadSuccess
	if err != nil {
		result = ReloadFailure
	}
	m.CatalogReloads.WithLabelValues(result).Inc()
}

// SetCatalogStats publishes record counts of the active catalog.
func (m *Metrics) SetCatalogStats(stats catalog.Stats) {
	m.CatalogRecords.WithLabelValues("items").Set(float64(stats.Items))
	m.CatalogRecords.WithLabelValues("bonus_lists").Set(float64(stats.BonusLists))
	m.CatalogRecords.WithLabelValues("quests").Set(float64(stats.Quests))
	m.CatalogRecords.WithLabelValues("spells").Set(float64(stats.Spells))
	m.CatalogRecords.WithLabelValues("skill_lines").Set(float64(stats.SkillLines))
	m.CatalogRecords.WithLabelValues("skill_line_abilities").Set(float64(stats.SkillLineAbilities))
	m.CatalogRecords.WithLabelValues("achievements").Set(float64(stats.Achievements))
	m.CatalogRecords.WithLabelValues("talents").Set(float64(stats.Talents))
	m.CatalogRecords.WithLabelValues("glyphs").Set(float64(stats.Glyphs))
}

// Server serves /metrics and the health probes.
type Server struct {
	addr       string
	logger     *slog.Logger
	listener   net.Listener
	httpServer *http.Server
	registry   *prometheus.Registry
	metrics    *Metrics
	isReady    ReadinessChecker
	running    atomic.Bool
}

// NewServer creates a new observability server on its own registry.
// addr: listen address in "host:port" format (e.g., "127.0.0.1:9100", ":9100" for all interfaces).
// A nil logger means slog.Default().
func NewServer(addr string, readinessChecker ReadinessChecker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Server{
		addr:     addr,
		logger:   logger,
		registry: registry,
		metrics:  NewMetrics(registry),
		isReady:  readinessChecker,
	}
}

// Registerer exposes the server's registry for additional collectors.
func (s *Server) Registerer() prometheus.Registerer {
	return s.registry
}

// Metrics returns the service metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the HTTP handler serving every observability route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("GET /healthz/liveness", s.handleLiveness)
	mux.HandleFunc("GET /healthz/readiness", s.handleReadiness)
	return mux
}

// Start begins serving observability endpoints.
// The returned channel receives a serve error, if any, and is closed when
// the server stops.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("observability server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("observability server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("observability server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the observability server. Stopping a server
// that is not running is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_observability_server").Wrap(err)
		}
	}

	s.logger.Info("observability server stopped")
	return nil
}

// Addr returns the address the server is listening on, or "" before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeProbe(w, http.StatusOK, "ok")
}

// handleReadiness returns 200 once a catalog is loaded, 503 before.
func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if s.isReady == nil || s.isReady() {
		writeProbe(w, http.StatusOK, "ok")
		return
	}
	writeProbe(w, http.StatusServiceUnavailable, "catalog not loaded")
}

func writeProbe(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // health check write error is acceptable, client may disconnect
	w.Write([]byte(body + "\n"))
}
