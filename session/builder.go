package session

import (
	"github.com/orcastack/dummy-agent/core"
)

// Builder queues session steps and flushes them in order on Execute. It
// mirrors the fluent builder the demo routines use: chain only the steps you
// need, call Execute between pacing delays, and finish with Close. The first
// step error is retained and short-circuits subsequent flushes.
//
// Example:
//
//	b := session.NewBuilder(handler).StartSession(msg)
//	b.ShowLoading(core.LoadingThinking).AddStream("hi").HideLoading(core.LoadingThinking)
//	if err := b.Execute(); err != nil { ... }
//	transcript, err := b.Close()
type Builder struct {
	handler *Handler
	session *Session
	steps   []func(s *Session) error
	err     error
}

// NewBuilder creates a builder bound to the handler.
func NewBuilder(h *Handler) *Builder { return &Builder{handler: h} }

// StartSession opens the underlying session for the message (chainable).
func (b *Builder) StartSession(msg core.ChatMessage) *Builder {
	if b.session == nil {
		b.session = b.handler.Begin(msg)
	}
	return b
}

// Session exposes the underlying session once started.
func (b *Builder) Session() *Session { return b.session }

func (b *Builder) add(step func(s *Session) error) *Builder {
	b.steps = append(b.steps, step)
	return b
}

// AddStream queues a text chunk (chainable).
func (b *Builder) AddStream(text string) *Builder {
	return b.add(func(s *Session) error { return s.Stream(text) })
}

// ShowLoading queues a loading indicator start (chainable).
func (b *Builder) ShowLoading(kind core.LoadingKind) *Builder {
	return b.add(func(s *Session) error { return s.Loading().Start(kind) })
}

// HideLoading queues a loading indicator end (chainable).
func (b *Builder) HideLoading(kind core.LoadingKind) *Builder {
	return b.add(func(s *Session) error { return s.Loading().End(kind) })
}

// AddButton queues a link button (chainable).
func (b *Builder) AddButton(label, url string, color ...core.ButtonColor) *Builder {
	return b.add(func(s *Session) error { return s.Button().Link(label, url, color...) })
}

// AddImage queues an image attachment (chainable).
func (b *Builder) AddImage(url string) *Builder {
	return b.add(func(s *Session) error { return s.Image().Send(url) })
}

// AddVideo queues a video attachment (chainable).
func (b *Builder) AddVideo(url string) *Builder {
	return b.add(func(s *Session) error { return s.Video().Send(url) })
}

// AddYouTube queues a YouTube attachment (chainable).
func (b *Builder) AddYouTube(url string) *Builder {
	return b.add(func(s *Session) error { return s.Video().YouTube(url) })
}

// AddLocationCoordinates queues a coordinate location attachment (chainable).
func (b *Builder) AddLocationCoordinates(lat, lng float64) *Builder {
	return b.add(func(s *Session) error { return s.Location().SendCoordinates(lat, lng) })
}

// AddCardList queues a card list attachment (chainable).
func (b *Builder) AddCardList(cards []core.Card) *Builder {
	return b.add(func(s *Session) error { return s.Card().Send(cards) })
}

// AddAudio queues an audio attachment (chainable).
func (b *Builder) AddAudio(tracks []core.AudioTrack) *Builder {
	return b.add(func(s *Session) error { return s.Audio().Send(tracks) })
}

// TrackUsage queues a usage record (chainable).
func (b *Builder) TrackUsage(tokens int, tokenType core.TokenType, cost string) *Builder {
	return b.add(func(s *Session) error { return s.Usage().Track(tokens, tokenType, cost, "") })
}

// TrackTrace queues a trace record (chainable).
func (b *Builder) TrackTrace(message string, visibility core.TraceVisibility) *Builder {
	return b.add(func(s *Session) error { return s.Trace().Send(message, visibility) })
}

// Process queues an arbitrary step operating on the raw session (chainable).
func (b *Builder) Process(fn func(s *Session) error) *Builder {
	return b.add(fn)
}

// Execute flushes all queued steps in order. A previously recorded error or
// missing StartSession fails fast; the queue is cleared either way.
func (b *Builder) Execute() error {
	steps := b.steps
	b.steps = nil
	if b.err != nil {
		return b.err
	}
	if b.session == nil {
		b.err = core.NewValidationError("BUILDER_NO_SESSION", "Execute called before StartSession")
		return b.err
	}
	for _, step := range steps {
		if err := step(b.session); err != nil {
			b.err = err
			return err
		}
	}
	return nil
}

// Close flushes any remaining steps and finalizes the session, returning the
// transcript. The first error encountered wins.
func (b *Builder) Close() (string, error) {
	execErr := b.Execute()
	if b.session == nil {
		return "", execErr
	}
	transcript, closeErr := b.session.Close()
	if execErr != nil {
		return transcript, execErr
	}
	return transcript, closeErr
}

// Err returns the first error recorded by Execute, if any.
func (b *Builder) Err() error { return b.err }
