// Package gateway exposes the HTTP surface of taskpilot: the GitHub
// webhook endpoint, the health endpoint, and a status API.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskpilot/taskpilot/internal/analyzer"
	"github.com/taskpilot/taskpilot/internal/github"
	"github.com/taskpilot/taskpilot/internal/logging"
	"github.com/taskpilot/taskpilot/internal/mapper"
	"github.com/taskpilot/taskpilot/internal/orchestrator"
)

// Config holds gateway server configuration.
type Config struct {
	// Host is the network interface to bind to (e.g., "127.0.0.1" or "0.0.0.0").
	Host string `yaml:"host"`
	// Port is the TCP port number to listen on.
	Port int `yaml:"port"`
	// WebhookSecret verifies GitHub delivery signatures. Empty skips
	// verification (development mode).
	WebhookSecret string `yaml:"webhook_secret"`
}

// Pipeline is the orchestrator surface the gateway drives.
type Pipeline interface {
	ProcessEvent(ctx context.Context, eventType string, payload map[string]any) (*mapper.Outcome, error)
	Health(ctx context.Context) *orchestrator.HealthReport
}

// Server is the taskpilot HTTP server. One webhook delivery drives one
// complete pipeline run before the handler returns; the server holds no
// state across deliveries beyond the stats counters.
type Server struct {
	config   *Config
	pipeline Pipeline
	stats    *Stats
	server   *http.Server
	mu       sync.RWMutex
	running  bool
}

// NewServer creates a gateway server. It does not listen until Start.
func NewServer(config *Config, pipeline Pipeline, stats *Stats) *Server {
	if stats == nil {
		stats = NewStats()
	}
	return &Server{
		config:   config,
		pipeline: pipeline,
		stats:    stats,
	}
}

// Stats returns the server's stats collector.
func (s *Server) Stats() *Stats {
	return s.stats
}

// Handler builds the HTTP handler. Exposed separately so tests can drive
// it through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhooks/github", s.handleGithubWebhook)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	return mux
}

// Start starts the server and blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.mu.Unlock()

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // pipeline runs inline in the handler
		IdleTimeout:  60 * time.Second,
	}

	logging.WithComponent("gateway").Info("Gateway starting", slog.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown gracefully shuts down the server with a 30-second timeout.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.running = false
	return s.server.Shutdown(ctx)
}

// handleGithubWebhook receives GitHub deliveries, verifies the signature,
// and runs the pipeline to completion before responding.
func (s *Server) handleGithubWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.stats.RecordDelivery()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	signature := r.Header.Get("X-Hub-Signature-256")
	if !github.VerifySignature(body, signature, s.config.WebhookSecret) {
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	deliveryID := r.Header.Get("X-GitHub-Delivery")
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	log := logging.WithDeliveryID(deliveryID)
	log.Info("Received GitHub webhook", slog.String("event_type", eventType))

	ctx := logging.ContextWithDeliveryID(r.Context(), deliveryID)
	outcome, err := s.pipeline.ProcessEvent(ctx, eventType, payload)
	s.stats.RecordOutcome(outcome)

	if err != nil {
		s.stats.RecordError()
		log.Error("Pipeline failed", slog.Any("error", err))
		writeError(w, statusForPipelineError(err), err.Error())
		return
	}

	if outcome == nil {
		// Filtered event or no tracker activity warranted.
		writeJSON(w, http.StatusOK, map[string]any{"processed": false})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"processed": true,
		"outcome":   outcome,
	})
}

// handleHealth reports aggregate service health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.pipeline.Health(r.Context())

	status := http.StatusOK
	if report.Status != orchestrator.StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// handleStatus returns process-lifetime counters.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

// statusForPipelineError maps the error taxonomy onto response codes:
// malformed payloads are the sender's fault, everything else is upstream.
func statusForPipelineError(err error) int {
	if errors.Is(err, analyzer.ErrNoResponse) || errors.Is(err, analyzer.ErrInvalidJSON) {
		return http.StatusBadGateway
	}
	return http.StatusUnprocessableEntity
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
