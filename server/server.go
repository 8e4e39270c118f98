// Package server exposes the demo agent over HTTP: a health document, the
// send-message entry point, a dev-mode SSE stream of session frames per
// channel, and Prometheus metrics. Routes follow the platform's path layout
// so local runs match the deployed surface.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/orcastack/dummy-agent/agent"
	"github.com/orcastack/dummy-agent/config"
	"github.com/orcastack/dummy-agent/core"
	"github.com/orcastack/dummy-agent/logging"
	"github.com/orcastack/dummy-agent/metrics"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// Server wires the demo agent to the HTTP surface.
type Server struct {
	agent  *agent.DummyAgent
	cfg    *config.Config
	logger *logging.AgentLogger
	broker *Broker
}

// New constructs the server. The broker may be nil when dev-mode streaming is
// disabled.
func New(a *agent.DummyAgent, cfg *config.Config, logger *logging.AgentLogger, broker *Broker) *Server {
	return &Server{agent: a, cfg: cfg, logger: logger.WithComponent("server"), broker: broker}
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/v1/send_message", s.handleSendMessage)
	mux.HandleFunc("GET /api/v1/stream/{channel}", s.handleStream)
	mux.Handle("GET /metrics", metrics.Handler())
	return s.withRequestID(s.withLogging(mux))
}

// handleHealth returns the fixed status document.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"service":  "Dummy Agent",
		"version":  Version,
		"dev_mode": s.cfg.DevMode,
	})
}

// handleSendMessage routes the message by keyword and processes it on a
// background goroutine so the server loop is not stalled by pacing delays.
// The response acknowledges acceptance; results stream over the channel.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var msg core.ChatMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}
	if msg.Channel == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "channel is required"})
		return
	}

	selector := agent.SelectExample(msg.Message)
	s.logger.Info("processing message",
		"channel", msg.Channel,
		"selector", string(selector),
		"preview", preview(msg.Message, 50))

	// Detach from the request context: processing outlives the 202.
	ctx := context.WithoutCancel(r.Context())
	go func() {
		if _, err := s.agent.Process(ctx, msg, selector); err != nil {
			s.reportProcessingError(msg, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":   "accepted",
		"channel":  msg.Channel,
		"selector": string(selector),
	})
}

// reportProcessingError opens a short-lived session to surface the failure to
// the streaming consumer, then closes it.
func (s *Server) reportProcessingError(msg core.ChatMessage, err error) {
	s.logger.Error("error processing message", "channel", msg.Channel, "error", err.Error())
	es := s.agent.Handler().Begin(msg)
	if serr := es.Error("An error occurred", err); serr != nil {
		s.logger.Warn("failed to report processing error", "error", serr.Error())
	}
	if _, cerr := es.Close(); cerr != nil {
		s.logger.Warn("failed to close error session", "error", cerr.Error())
	}
}

// handleStream serves the dev-mode SSE stream of frames for a channel.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.broker == nil || !s.cfg.DevMode {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "streaming is only available in dev mode"})
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "streaming unsupported"})
		return
	}

	channel := r.PathValue("channel")
	events, cancel := s.broker.Subscribe(channel)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case payload, ok := <-events:
			if !ok {
				return
			}
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if _, err := w.Write(payload); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// withLogging logs each request with method, path and duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stop := s.logger.StartTimer(r.Method + " " + r.URL.Path)
		next.ServeHTTP(w, r)
		stop()
	})
}

// withRequestID tags each response with a request identifier.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", core.NewID())
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
