// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package api serves the chat message validation endpoint:
//
//	POST /v1/messages:validate
//	{"message": "|cff71d5ff|Hspell:21563|h[Command]|h|r"}
//
// A rejected message is still a successful request: the response has status
// 200, accepted=false and the rejection code.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/holomush/linkguard/internal/catalog"
	"github.com/holomush/linkguard/internal/chatlink"
	"github.com/holomush/linkguard/internal/observability"
	"github.com/holomush/linkguard/pkg/errutil"
)

// ValidatePath is the route of the validation endpoint.
const ValidatePath = "/v1/messages:validate"

// DefaultMaxMessageBytes bounds request bodies unless WithMaxMessageBytes is used.
const DefaultMaxMessageBytes = 4096

// Request-level error codes. Rejections use the chatlink codes.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeMessageTooLarge = "MESSAGE_TOO_LARGE"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL"
)

const tracerName = "github.com/holomush/linkguard/internal/api"

// CatalogSource supplies the current catalog snapshot; nil means none is
// loaded yet. *catalog.Holder implements it.
type CatalogSource interface {
	Load() *catalog.Memory
}

// Request is the body of a validation request.
type Request struct {
	Message string `json:"message"`
}

// ErrorBody describes why a message was not accepted.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response is the body of every validation response.
type Response struct {
	RequestID string              `json:"request_id"`
	Accepted  bool                `json:"accepted"`
	Links     []chatlink.LinkView `json:"links"`
	Error     *ErrorBody          `json:"error,omitempty"`
}

// Server is the validation HTTP server.
type Server struct {
	addr      string
	validator *chatlink.Validator
	catalog   CatalogSource
	logger    *slog.Logger
	metrics   *observability.Metrics
	tracer    trace.Tracer
	maxBytes  int64
	limiter   *clientLimiter

	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records every request in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithTracer replaces the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = t
	}
}

// WithMaxMessageBytes bounds the request body size.
func WithMaxMessageBytes(n int64) Option {
	return func(s *Server) {
		s.maxBytes = n
	}
}

// WithRateLimit allows each client address perSecond requests with the
// given burst. A non-positive perSecond disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = newClientLimiter(rate.Limit(perSecond), burst)
	}
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, v *chatlink.Validator, source CatalogSource, opts ...Option) *Server {
	s := &Server{
		addr:      addr,
		validator: v,
		catalog:   source,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
		maxBytes:  DefaultMaxMessageBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+ValidatePath, s.handleValidate)
	return mux
}

// Start begins serving. The returned channel receives a serve error, if
// any, and is closed when the server stops.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.Code("LISTEN_FAILED").With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts the server down. ctx bounds the wait for in-flight
// requests.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.running.Store(true)
		return oops.With("operation", "shutdown_api_server").Wrap(err)
	}
	s.logger.Info("api server stopped")
	return nil
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := ulid.Make().String()

	ctx, span := s.tracer.Start(r.Context(), "ValidateMessage",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("linkguard.request_id", requestID)))
	defer span.End()

	status, resp := s.validate(ctx, r, w, requestID)

	span.SetAttributes(
		attribute.Int("http.response.status_code", status),
		attribute.Bool("linkguard.accepted", resp.Accepted),
	)
	if resp.Error != nil {
		span.SetAttributes(attribute.String("linkguard.code", resp.Error.Code))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, resp.Error.Message)
		}
	}

	writeJSON(w, status, requestID, resp)
	if s.metrics != nil {
		s.metrics.RecordRequest(status, time.Since(start))
	}
}

func (s *Server) validate(ctx context.Context, r *http.Request, w http.ResponseWriter, requestID string) (int, *Response) {
	resp := &Response{RequestID: requestID, Links: []chatlink.LinkView{}}
	fail := func(status int, code, msg string) (int, *Response) {
		resp.Error = &ErrorBody{Code: code, Message: msg}
		return status, resp
	}

	if s.limiter != nil && !s.limiter.allow(clientAddr(r)) {
		w.Header().Set("Retry-After", "1")
		return fail(http.StatusTooManyRequests, CodeRateLimited, "too many requests")
	}

	snapshot := s.catalog.Load()
	if snapshot == nil {
		return fail(http.StatusServiceUnavailable, chatlink.CodeCatalogUnavailable, "catalog not loaded")
	}

	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fail(http.StatusRequestEntityTooLarge, CodeMessageTooLarge, "request body exceeds limit")
		}
		return fail(http.StatusBadRequest, CodeBadRequest, "request body must be a JSON object with a message field")
	}

	result, err := s.validator.Validate(ctx, chatlink.RepositoriesFrom(snapshot), req.Message)
	if err != nil {
		code := chatlink.Code(err)
		if slices.Contains(chatlink.Codes, code) {
			return fail(http.StatusOK, code, err.Error())
		}
		errutil.LogErrorContext(ctx, s.logger, slog.LevelError, "validation failed", err,
			"request_id", requestID)
		trace.SpanFromContext(ctx).RecordError(err)
		return fail(http.StatusInternalServerError, CodeInternal, "validation failed")
	}

	views, err := chatlink.Views(result.Links)
	if err != nil {
		errutil.LogErrorContext(ctx, s.logger, slog.LevelError, "render links failed", err,
			"request_id", requestID)
		return fail(http.StatusInternalServerError, CodeInternal, "render links failed")
	}
	resp.Accepted = true
	resp.Links = views
	return http.StatusOK, resp
}

// clientAddr is the remote host without its port.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, requestID string, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-Id", requestID)
	w.WriteHeader(status)
	//nolint:errcheck // client may have disconnected
	json.NewEncoder(w).Encode(body)
}
