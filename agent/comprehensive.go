package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/orcastack/dummy-agent/core"
	"github.com/orcastack/dummy-agent/retry"
	"github.com/orcastack/dummy-agent/session"
)

// comprehensiveExample exercises every feature in one run: builder batching,
// variables and memory, usage tracking, tracing, buttons and all media kinds,
// routed through the middleware chain. It is the default routine when no
// keyword matches. The outer retry is illustrative, mirroring the second of
// the two decorated demonstration calls.
func (a *DummyAgent) comprehensiveExample(ctx context.Context, msg core.ChatMessage) (string, error) {
	a.logger.Info("running comprehensive example (all features)")

	return retry.DoValue(ctx, func() (string, error) {
		return a.mw.Execute(msg, func(m core.ChatMessage) (string, error) {
			return a.runComprehensive(m)
		})
	}, func(o *retry.Options) { o.MaxAttempts = 2; o.Delay = a.streamDelay })
}

func (a *DummyAgent) runComprehensive(msg core.ChatMessage) (string, error) {
	b := session.NewBuilder(a.handler).StartSession(msg)

	// 1. Initial thinking loading.
	b.ShowLoading(core.LoadingThinking).
		AddStream("Starting comprehensive demo...\n\n").
		HideLoading(core.LoadingThinking)
	if err := b.Execute(); err != nil {
		return b.Close()
	}
	a.sleep(a.streamDelay)

	// 2. Variables and memory.
	b.AddStream("Variables and Memory:\n")
	b.Process(func(s *session.Session) error { return a.showVariablesMemory(s, msg) })
	if err := b.Execute(); err != nil {
		return b.Close()
	}
	a.sleep(2 * a.streamDelay)

	// 3. Usage tracking with loading.
	b.ShowLoading(core.LoadingGeneral).
		AddStream("\nUsage Tracking:\n").
		TrackUsage(1500, core.TokenPrompt, "0.03").
		TrackUsage(2000, core.TokenCompletion, "0.06").
		HideLoading(core.LoadingGeneral)
	if err := b.Execute(); err != nil {
		return b.Close()
	}
	a.sleep(a.streamDelay)

	// 4. Tracing.
	b.AddStream("\nTracing:\n").TrackTrace("Operation started", core.TraceAll)
	if err := b.Execute(); err != nil {
		return b.Close()
	}
	a.sleep(2 * a.streamDelay)
	b.TrackTrace("Processing data", core.TraceDev)
	if err := b.Execute(); err != nil {
		return b.Close()
	}
	a.sleep(2 * a.streamDelay)
	b.TrackTrace("Operation completed", core.TraceAll)
	if err := b.Execute(); err != nil {
		return b.Close()
	}
	a.sleep(a.streamDelay)

	// 5. Buttons.
	b.AddStream("\nButtons:\n").
		AddButton("Documentation", "https://docs.example.com").
		AddButton("GitHub", "https://github.com/example")
	if err := b.Execute(); err != nil {
		return b.Close()
	}
	a.sleep(a.streamDelay)

	// 6. Media operations, each behind its loading indicator.
	b.AddStream("\nMedia Operations:\n")
	media := []struct {
		kind  core.LoadingKind
		dwell time.Duration
		add   func(*session.Builder) *session.Builder
	}{
		{core.LoadingImage, 500 * time.Millisecond, func(b *session.Builder) *session.Builder {
			return b.AddImage("https://via.placeholder.com/400x300.png?text=Demo")
		}},
		{core.LoadingVideo, 500 * time.Millisecond, func(b *session.Builder) *session.Builder {
			return b.AddVideo("https://example.com/video.mp4")
		}},
		{core.LoadingVideo, 1200 * time.Millisecond, func(b *session.Builder) *session.Builder {
			return b.AddYouTube("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		}},
		{core.LoadingMap, 500 * time.Millisecond, func(b *session.Builder) *session.Builder {
			return b.AddLocationCoordinates(35.6892, 51.3890)
		}},
		{core.LoadingCard, 500 * time.Millisecond, func(b *session.Builder) *session.Builder {
			return b.AddCardList([]core.Card{{
				Photo:     "https://via.placeholder.com/300x200.png?text=Card+1",
				Header:    "Demo Card",
				Subheader: "Card description",
				Text:      "Additional content",
			}})
		}},
	}
	for _, m := range media {
		b.ShowLoading(m.kind)
		if err := b.Execute(); err != nil {
			return b.Close()
		}
		a.sleep(m.dwell)
		m.add(b.HideLoading(m.kind))
		if err := b.Execute(); err != nil {
			return b.Close()
		}
		a.sleep(a.streamDelay)
	}

	b.AddAudio([]core.AudioTrack{{
		Label: "Demo Track",
		URL:   "https://example.com/audio.mp3",
		Type:  "audio/mp3",
	}})
	if err := b.Execute(); err != nil {
		return b.Close()
	}
	a.sleep(a.streamDelay)

	// 7. Complete.
	a.sleep(closeDelay)
	return b.Close()
}

// showVariablesMemory streams a one-line summary of the message's variables
// and user memory.
func (a *DummyAgent) showVariablesMemory(s *session.Session, msg core.ChatMessage) error {
	vars := core.NewVariables(msg.Variables)
	memory := core.NewMemory(msg.Memory)

	st := &stepper{}
	a.streamWithDelay(st, s, fmt.Sprintf("  Variables: %d found\n", vars.Len()))
	if memory.IsEmpty() {
		a.streamWithDelay(st, s, "  Memory: Empty\n")
	} else {
		name := memory.Name()
		if name == "" {
			name = "Unknown"
		}
		a.streamWithDelay(st, s, fmt.Sprintf("  Memory: User %q has %d goals\n", name, len(memory.Goals())))
	}
	return st.err
}
