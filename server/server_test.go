package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcastack/dummy-agent/agent"
	"github.com/orcastack/dummy-agent/config"
	"github.com/orcastack/dummy-agent/core"
	"github.com/orcastack/dummy-agent/logging"
	"github.com/orcastack/dummy-agent/session"
)

func quietLogger() *logging.AgentLogger {
	return logging.NewLogger(&logging.Config{Level: logging.LogLevelError, Format: "text", Output: io.Discard})
}

func newTestServer(t *testing.T, devMode bool) (*Server, *Broker) {
	t.Helper()
	logger := quietLogger()
	cfg := &config.Config{DevMode: devMode, LogLevel: "error", StreamDelay: time.Nanosecond}

	var broker *Broker
	if devMode {
		broker = NewBroker()
	}
	noSleep := session.Sleeper(func(time.Duration) {})
	a := agent.New(context.Background(), cfg, func(o *agent.Options) {
		o.Logger = logger
		o.Sleeper = noSleep
		if broker != nil {
			o.Handler = session.NewHandler(func(so *session.Options) {
				so.DevMode = devMode
				so.Logger = logger
				so.SinkFactory = broker.SinkFactory()
				so.Sleeper = noSleep
			})
		} else {
			o.Handler = session.NewHandler(func(so *session.Options) {
				so.Logger = logger
				so.Sleeper = noSleep
			})
		}
	})
	return New(a, cfg, logger, broker), broker
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t, true)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "Dummy Agent", body["service"])
	assert.Equal(t, Version, body["version"])
	assert.Equal(t, true, body["dev_mode"])
}

func TestServer_SendMessageAccepted(t *testing.T) {
	srv, _ := newTestServer(t, false)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	msg := core.ChatMessage{ResponseUUID: core.NewID(), Channel: "web-1", Message: "please show me the buttons demo"}
	payload, _ := json.Marshal(msg)

	resp, err := http.Post(ts.URL+"/api/v1/send_message", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "accepted", body["status"])
	assert.Equal(t, "web-1", body["channel"])
	assert.Equal(t, "buttons", body["selector"])
}

func TestServer_SendMessageValidation(t *testing.T) {
	srv, _ := newTestServer(t, false)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/send_message", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	payload, _ := json.Marshal(core.ChatMessage{ResponseUUID: core.NewID(), Message: "hi"})
	resp, err = http.Post(ts.URL+"/api/v1/send_message", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "channel is required")
}

func TestServer_StreamRequiresDevMode(t *testing.T) {
	srv, _ := newTestServer(t, false)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/stream/web-1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_StreamDeliversFrames(t *testing.T) {
	srv, broker := newTestServer(t, true)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/v1/stream/web-1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Give the subscription a moment to register, then publish.
	time.Sleep(50 * time.Millisecond)
	broker.Publish("web-1", []byte(`{"kind":"text"}`))

	line := make([]byte, 64)
	n, err := resp.Body.Read(line)
	require.NoError(t, err)
	assert.Contains(t, string(line[:n]), `data: {"kind":"text"}`)
}

func TestServer_Metrics(t *testing.T) {
	srv, _ := newTestServer(t, false)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
