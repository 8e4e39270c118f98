package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/orcastack/dummy-agent/core"
	"github.com/orcastack/dummy-agent/logging"
	"github.com/orcastack/dummy-agent/metrics"
)

// Sleeper injects wall-clock pacing so tests can run without delays.
type Sleeper func(d time.Duration)

// Options holds dependency and configuration overrides passed to NewHandler.
type Options struct {
	// DevMode relaxes delivery guarantees for local development.
	DevMode bool
	// Logger used for session lifecycle logging.
	Logger logging.Logger
	// SinkFactory builds the sink for each new session. Defaults to an
	// in-memory buffer sink.
	SinkFactory func(msg core.ChatMessage) Sink
	// Sleeper paces frame delivery. Defaults to time.Sleep.
	Sleeper Sleeper
}

// Handler opens response sessions for inbound messages. It is the Go
// counterpart of the platform handler object the demo agent constructs once
// at startup.
type Handler struct {
	devMode     bool
	logger      logging.Logger
	sinkFactory func(msg core.ChatMessage) Sink
	sleeper     Sleeper
}

// NewHandler constructs a Handler with optional overrides.
func NewHandler(optFns ...func(o *Options)) *Handler {
	opts := Options{
		Logger:      logging.NoOpLogger{},
		SinkFactory: func(core.ChatMessage) Sink { return NewBufferSink() },
		Sleeper:     time.Sleep,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Handler{
		devMode:     opts.DevMode,
		logger:      opts.Logger,
		sinkFactory: opts.SinkFactory,
		sleeper:     opts.Sleeper,
	}
}

// DevMode reports whether the handler runs in development mode.
func (h *Handler) DevMode() bool { return h.devMode }

// Sleep paces delivery using the configured sleeper.
func (h *Handler) Sleep(d time.Duration) { h.sleeper(d) }

// Begin opens a new session for the message. The session streams to a sink
// produced by the handler's sink factory.
func (h *Handler) Begin(msg core.ChatMessage) *Session {
	metrics.SessionsStarted.Inc()
	s := &Session{
		id:      core.NewID(),
		msg:     msg,
		sink:    h.sinkFactory(msg),
		logger:  h.logger,
		sleeper: h.sleeper,
	}
	h.logger.Debug("session opened", "session_id", s.id, "channel", msg.Channel)
	return s
}

// Session represents one in-progress response to an inbound message. All
// operations emit a frame to the session sink; streamed text is additionally
// accumulated for the final transcript returned by Close.
type Session struct {
	id      string
	msg     core.ChatMessage
	sink    Sink
	logger  logging.Logger
	sleeper Sleeper

	mu         sync.Mutex
	transcript strings.Builder
	closed     bool

	groupOpen  bool
	groupColor core.ButtonColor
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Message returns the inbound message this session responds to.
func (s *Session) Message() core.ChatMessage { return s.msg }

func (s *Session) emit(frame core.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.NewStreamError("SESSION_CLOSED", "operation on closed session").
			WithContext("session_id", s.id)
	}
	if tf, ok := frame.(core.TextFrame); ok {
		s.transcript.WriteString(tf.Text)
	}
	if err := s.sink.Send(frame); err != nil {
		return core.NewStreamError("SINK_SEND", "failed to deliver frame").
			WithContext("session_id", s.id).Wrap(err)
	}
	metrics.FramesDelivered.WithLabelValues(core.FrameKind(frame)).Inc()
	return nil
}

// Stream delivers an incremental chunk of response text.
func (s *Session) Stream(text string) error {
	return s.emit(core.TextFrame{Text: text})
}

// Streamf delivers a formatted chunk of response text.
func (s *Session) Streamf(format string, args ...any) error {
	return s.Stream(fmt.Sprintf(format, args...))
}

// Loading returns the loading indicator operations.
func (s *Session) Loading() LoadingAPI { return LoadingAPI{s} }

// Button returns the button operations.
func (s *Session) Button() ButtonAPI { return ButtonAPI{s} }

// Image returns the image operations.
func (s *Session) Image() ImageAPI { return ImageAPI{s} }

// Video returns the video operations.
func (s *Session) Video() VideoAPI { return VideoAPI{s} }

// Location returns the location operations.
func (s *Session) Location() LocationAPI { return LocationAPI{s} }

// Card returns the card list operations.
func (s *Session) Card() CardAPI { return CardAPI{s} }

// Audio returns the audio operations.
func (s *Session) Audio() AudioAPI { return AudioAPI{s} }

// Usage returns the usage tracking operations.
func (s *Session) Usage() UsageAPI { return UsageAPI{s} }

// Trace returns the trace operations.
func (s *Session) Trace() TraceAPI { return TraceAPI{s} }

// Error reports a failure inline within the streamed response. Recognized
// structured errors contribute their detail payload to the frame.
func (s *Session) Error(msg string, err error) error {
	frame := core.ErrorFrame{Message: msg}
	if err != nil {
		if se, ok := core.AsError(err); ok {
			frame.Detail = se.Detail()
		} else {
			frame.Detail = map[string]any{"error": err.Error()}
		}
	}
	s.logger.Warn("session error reported", "session_id", s.id, "message", msg)
	return s.emit(frame)
}

// Close finalizes the session and returns the accumulated transcript of all
// streamed text. Closing twice returns the transcript without error.
func (s *Session) Close() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.transcript.String(), nil
	}
	s.closed = true
	metrics.SessionsClosed.Inc()
	s.logger.Debug("session closed", "session_id", s.id)
	if err := s.sink.Close(); err != nil {
		return s.transcript.String(), core.NewStreamError("SINK_CLOSE", "failed to close sink").
			WithContext("session_id", s.id).Wrap(err)
	}
	return s.transcript.String(), nil
}

// LoadingAPI toggles loading indicators.
type LoadingAPI struct{ s *Session }

// Start shows a loading indicator of the given kind.
func (a LoadingAPI) Start(kind core.LoadingKind) error {
	return a.s.emit(core.LoadingFrame{Kind: kind, Active: true})
}

// End hides a loading indicator of the given kind.
func (a LoadingAPI) End(kind core.LoadingKind) error {
	return a.s.emit(core.LoadingFrame{Kind: kind, Active: false})
}

// ButtonAPI attaches link and action buttons, standalone or grouped.
type ButtonAPI struct{ s *Session }

// Link attaches a standalone link button.
func (a ButtonAPI) Link(label, url string, color ...core.ButtonColor) error {
	return a.s.emit(core.ButtonFrame{Label: label, URL: url, Color: first(color)})
}

// Action attaches a standalone action button.
func (a ButtonAPI) Action(label, action string, color ...core.ButtonColor) error {
	return a.s.emit(core.ButtonFrame{Label: label, Action: action, Color: first(color)})
}

// Begin opens a button group. Members added before End inherit defaultColor
// unless they specify their own.
func (a ButtonAPI) Begin(defaultColor core.ButtonColor) error {
	a.s.mu.Lock()
	a.s.groupOpen = true
	a.s.groupColor = defaultColor
	a.s.mu.Unlock()
	return a.s.emit(core.ButtonGroupFrame{Open: true, DefaultColor: defaultColor})
}

// AddLink adds a link button to the open group.
func (a ButtonAPI) AddLink(label, url string, color ...core.ButtonColor) error {
	c, err := a.groupColorFor(color)
	if err != nil {
		return err
	}
	return a.s.emit(core.ButtonFrame{Label: label, URL: url, Color: c, Grouped: true})
}

// AddAction adds an action button to the open group.
func (a ButtonAPI) AddAction(label, action string, color ...core.ButtonColor) error {
	c, err := a.groupColorFor(color)
	if err != nil {
		return err
	}
	return a.s.emit(core.ButtonFrame{Label: label, Action: action, Color: c, Grouped: true})
}

// End closes the open button group.
func (a ButtonAPI) End() error {
	a.s.mu.Lock()
	a.s.groupOpen = false
	a.s.groupColor = ""
	a.s.mu.Unlock()
	return a.s.emit(core.ButtonGroupFrame{Open: false})
}

func (a ButtonAPI) groupColorFor(color []core.ButtonColor) (core.ButtonColor, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if !a.s.groupOpen {
		return "", core.NewValidationError("BUTTON_GROUP", "no open button group").
			WithContext("session_id", a.s.id)
	}
	if len(color) > 0 && color[0] != "" {
		return color[0], nil
	}
	return a.s.groupColor, nil
}

// ImageAPI attaches images.
type ImageAPI struct{ s *Session }

// Send attaches an image by URL.
func (a ImageAPI) Send(url string) error {
	return a.s.emit(core.ImageFrame{URL: url})
}

// VideoAPI attaches videos.
type VideoAPI struct{ s *Session }

// Send attaches a plain video by URL.
func (a VideoAPI) Send(url string) error {
	return a.s.emit(core.VideoFrame{URL: url})
}

// YouTube attaches a YouTube video link.
func (a VideoAPI) YouTube(url string) error {
	return a.s.emit(core.VideoFrame{URL: url, YouTube: true})
}

// LocationAPI attaches geographic locations.
type LocationAPI struct{ s *Session }

// Send attaches a location given as a raw string (e.g. "35.6892, 51.3890").
func (a LocationAPI) Send(raw string) error {
	return a.s.emit(core.LocationFrame{Raw: raw})
}

// SendCoordinates attaches a location given as explicit coordinates.
func (a LocationAPI) SendCoordinates(lat, lng float64) error {
	return a.s.emit(core.LocationFrame{Latitude: lat, Longitude: lng})
}

// CardAPI attaches card lists.
type CardAPI struct{ s *Session }

// Send attaches an ordered list of cards.
func (a CardAPI) Send(cards []core.Card) error {
	return a.s.emit(core.CardListFrame{Cards: cards})
}

// AudioAPI attaches audio tracks.
type AudioAPI struct{ s *Session }

// Send attaches an ordered list of audio tracks.
func (a AudioAPI) Send(tracks []core.AudioTrack) error {
	return a.s.emit(core.AudioFrame{Tracks: tracks})
}

// UsageAPI records token usage.
type UsageAPI struct{ s *Session }

// Track records a usage entry and updates the Prometheus counters.
func (a UsageAPI) Track(tokens int, tokenType core.TokenType, cost, label string) error {
	metrics.TokensTracked.WithLabelValues(string(tokenType)).Add(float64(tokens))
	return a.s.emit(core.UsageFrame{Tokens: tokens, TokenType: tokenType, Cost: cost, Label: label})
}

// TraceAPI emits debug trace records.
type TraceAPI struct{ s *Session }

// Send emits a trace record restricted to the given audience.
func (a TraceAPI) Send(message string, visibility core.TraceVisibility) error {
	return a.s.emit(core.TraceFrame{Message: message, Visibility: visibility, Timestamp: time.Now().UTC()})
}

// With opens a session for the message, runs fn, and guarantees the session
// is closed afterwards. It returns the final transcript. The counterpart of a
// context-managed session.
func With(h *Handler, msg core.ChatMessage, fn func(s *Session) error) (string, error) {
	s := h.Begin(msg)
	runErr := fn(s)
	transcript, closeErr := s.Close()
	if runErr != nil {
		return transcript, runErr
	}
	return transcript, closeErr
}

func first(colors []core.ButtonColor) core.ButtonColor {
	if len(colors) > 0 {
		return colors[0]
	}
	return ""
}
