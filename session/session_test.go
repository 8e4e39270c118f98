package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcastack/dummy-agent/core"
)

// Interface compliance (compile-time assertion)
var _ Sink = (*BufferSink)(nil)

func newTestHandler() (*Handler, *BufferSink) {
	sink := NewBufferSink()
	h := NewHandler(func(o *Options) {
		o.SinkFactory = func(core.ChatMessage) Sink { return sink }
		o.Sleeper = func(d time.Duration) {}
	})
	return h, sink
}

func testMessage() core.ChatMessage {
	return core.ChatMessage{ResponseUUID: core.NewID(), Channel: "test-channel", Message: "hello"}
}

func TestSession_StreamAccumulatesTranscript(t *testing.T) {
	h, sink := newTestHandler()
	s := h.Begin(testMessage())

	require.NoError(t, s.Stream("Hello! "))
	require.NoError(t, s.Streamf("This is %s.", "streamed"))
	require.NoError(t, s.Loading().Start(core.LoadingThinking))
	require.NoError(t, s.Loading().End(core.LoadingThinking))

	transcript, err := s.Close()
	require.NoError(t, err)
	assert.Equal(t, "Hello! This is streamed.", transcript)

	frames := sink.Frames()
	require.Len(t, frames, 4)
	assert.Equal(t, core.TextFrame{Text: "Hello! "}, frames[0])
	assert.Equal(t, core.LoadingFrame{Kind: core.LoadingThinking, Active: true}, frames[2])
	assert.Equal(t, core.LoadingFrame{Kind: core.LoadingThinking, Active: false}, frames[3])
}

func TestSession_OperationsAfterCloseFail(t *testing.T) {
	h, _ := newTestHandler()
	s := h.Begin(testMessage())

	_, err := s.Close()
	require.NoError(t, err)

	err = s.Stream("too late")
	require.Error(t, err)
	se, ok := core.AsError(err)
	require.True(t, ok)
	assert.Equal(t, core.ErrStream, se.Kind)
	assert.Equal(t, "SESSION_CLOSED", se.Code)
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	h, _ := newTestHandler()
	s := h.Begin(testMessage())
	require.NoError(t, s.Stream("once"))

	first, err := s.Close()
	require.NoError(t, err)
	second, err := s.Close()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSession_ButtonGroupLifecycle(t *testing.T) {
	h, sink := newTestHandler()
	s := h.Begin(testMessage())

	require.NoError(t, s.Button().Begin(core.ButtonPrimary))
	require.NoError(t, s.Button().AddLink("Option 1", "https://option1.com"))
	require.NoError(t, s.Button().AddAction("Action 1", "action1", core.ButtonDanger))
	require.NoError(t, s.Button().End())

	frames := sink.Frames()
	require.Len(t, frames, 4)

	open, ok := frames[0].(core.ButtonGroupFrame)
	require.True(t, ok)
	assert.True(t, open.Open)
	assert.Equal(t, core.ButtonPrimary, open.DefaultColor)

	link := frames[1].(core.ButtonFrame)
	assert.True(t, link.Grouped)
	assert.Equal(t, core.ButtonPrimary, link.Color, "group member inherits default color")

	action := frames[2].(core.ButtonFrame)
	assert.Equal(t, core.ButtonDanger, action.Color, "explicit color wins over default")

	closeFrame := frames[3].(core.ButtonGroupFrame)
	assert.False(t, closeFrame.Open)
}

func TestSession_GroupedButtonOutsideGroupFails(t *testing.T) {
	h, _ := newTestHandler()
	s := h.Begin(testMessage())

	err := s.Button().AddLink("Orphan", "https://example.com")
	require.Error(t, err)
	se, ok := core.AsError(err)
	require.True(t, ok)
	assert.Equal(t, core.ErrValidation, se.Kind)
}

func TestSession_ErrorFrameCarriesStructuredDetail(t *testing.T) {
	h, sink := newTestHandler()
	s := h.Begin(testMessage())

	serr := core.NewStreamError("STREAM_FAILED", "stream operation failed").
		WithContext("channel", "test-channel")
	require.NoError(t, s.Error("Stream error occurred", serr))

	frames := sink.Frames()
	require.Len(t, frames, 1)
	ef := frames[0].(core.ErrorFrame)
	assert.Equal(t, "Stream error occurred", ef.Message)
	assert.Equal(t, "STREAM_FAILED", ef.Detail["code"])

	require.NoError(t, s.Error("plain failure", errors.New("boom")))
	ef = sink.Frames()[1].(core.ErrorFrame)
	assert.Equal(t, map[string]any{"error": "boom"}, ef.Detail)
}

func TestWith_ClosesSessionOnFailure(t *testing.T) {
	h, sink := newTestHandler()
	bodyErr := errors.New("body failed")

	transcript, err := With(h, testMessage(), func(s *Session) error {
		if err := s.Stream("partial"); err != nil {
			return err
		}
		return bodyErr
	})
	assert.ErrorIs(t, err, bodyErr)
	assert.Equal(t, "partial", transcript)

	// Sink was closed despite the failure.
	require.Error(t, sink.Send(core.TextFrame{Text: "late"}))
}
