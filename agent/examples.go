package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/orcastack/dummy-agent/core"
	"github.com/orcastack/dummy-agent/retry"
	"github.com/orcastack/dummy-agent/session"
	"github.com/orcastack/dummy-agent/storage"
)

// basicSessionExample demonstrates minimal session management: loading,
// two streamed chunks, close.
func (a *DummyAgent) basicSessionExample(ctx context.Context, msg core.ChatMessage) (string, error) {
	a.logger.Info("running basic session example")

	st := &stepper{}
	s := a.handler.Begin(msg)

	a.showLoadingWithDelay(st, s, core.LoadingThinking, time.Second)
	a.streamWithDelay(st, s, "Hello! ")
	a.streamWithDelay(st, s, "This is a basic example.")

	return a.closeWithDelay(st, s)
}

// loadingIndicatorsExample walks through every loading indicator kind.
func (a *DummyAgent) loadingIndicatorsExample(ctx context.Context, msg core.ChatMessage) (string, error) {
	a.logger.Info("running loading indicators example")

	st := &stepper{}
	s := a.handler.Begin(msg)

	phases := []struct {
		kind core.LoadingKind
		text string
	}{
		{core.LoadingThinking, "Thinking completed!\n\n"},
		{core.LoadingAnalyzing, "Analysis completed!\n\n"},
		{core.LoadingGenerating, "Generation completed!\n\n"},
		{core.LoadingGeneral, "Processing completed!\n\n"},
		{core.LoadingSearching, "Search completed!\n\n"},
		{core.LoadingCoding, "Code generation completed!\n"},
	}
	for _, phase := range phases {
		a.showLoadingWithDelay(st, s, phase.kind, loadingDwell)
		a.streamWithDelay(st, s, phase.text)
	}

	return a.closeWithDelay(st, s)
}

// buttonsExample demonstrates link buttons, action buttons and button groups.
func (a *DummyAgent) buttonsExample(ctx context.Context, msg core.ChatMessage) (string, error) {
	a.logger.Info("running buttons example")

	st := &stepper{}
	s := a.handler.Begin(msg)

	a.streamWithDelay(st, s, "Here are some options:\n\n")

	st.do(s.Button().Link("Visit Documentation", "https://docs.example.com", core.ButtonPrimary))
	a.sleep(a.streamDelay)
	st.do(s.Button().Link("GitHub Repository", "https://github.com/example/repo", core.ButtonSuccess))
	a.sleep(a.streamDelay)

	st.do(s.Button().Action("Regenerate Response", "regenerate", core.ButtonSecondary))
	a.sleep(a.streamDelay)
	st.do(s.Button().Action("Save to Favorites", "save_favorite", core.ButtonInfo))
	a.sleep(a.streamDelay)

	st.do(s.Button().Begin(core.ButtonPrimary))
	st.do(s.Button().AddLink("Option 1", "https://option1.com"))
	a.sleep(a.streamDelay)
	st.do(s.Button().AddLink("Option 2", "https://option2.com"))
	a.sleep(a.streamDelay)
	st.do(s.Button().AddAction("Action 1", "action1"))
	a.sleep(a.streamDelay)
	st.do(s.Button().End())

	return a.closeWithDelay(st, s)
}

// mediaOperationsExample demonstrates image, video, YouTube, location, card
// list and audio attachments.
func (a *DummyAgent) mediaOperationsExample(ctx context.Context, msg core.ChatMessage) (string, error) {
	a.logger.Info("running media operations example")

	st := &stepper{}
	s := a.handler.Begin(msg)

	a.streamWithDelay(st, s, "=== Image Operations ===\n")
	a.showLoadingWithDelay(st, s, core.LoadingImage, 1200*time.Millisecond)
	st.do(s.Image().Send("https://via.placeholder.com/400x300.png?text=Test+Image"))
	a.sleep(a.streamDelay)
	a.streamWithDelay(st, s, "Image sent\n\n")

	a.streamWithDelay(st, s, "=== Video Operations ===\n")
	a.showLoadingWithDelay(st, s, core.LoadingVideo, 1200*time.Millisecond)
	st.do(s.Video().Send("https://example.com/video.mp4"))
	a.sleep(a.streamDelay)
	a.streamWithDelay(st, s, "Video URL sent\n")

	a.showLoadingWithDelay(st, s, core.LoadingVideo, 1200*time.Millisecond)
	st.do(s.Video().YouTube("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	a.sleep(a.streamDelay)
	a.streamWithDelay(st, s, "YouTube video sent\n\n")

	a.streamWithDelay(st, s, "=== Location Operations ===\n")
	a.showLoadingWithDelay(st, s, core.LoadingMap, 1200*time.Millisecond)
	st.do(s.Location().Send("35.6892, 51.3890"))
	a.sleep(a.streamDelay)
	a.streamWithDelay(st, s, "Location sent (string)\n")

	a.showLoadingWithDelay(st, s, core.LoadingMap, 1200*time.Millisecond)
	st.do(s.Location().SendCoordinates(40.7128, -74.0060))
	a.sleep(a.streamDelay)
	a.streamWithDelay(st, s, "Location sent (coordinates)\n\n")

	a.streamWithDelay(st, s, "=== Card List Operations ===\n")
	cards := []core.Card{
		{
			Photo:     "https://via.placeholder.com/300x200.png?text=Card+1",
			Header:    "Card Title 1",
			Subheader: "Card description 1",
			Text:      "Additional content for card 1",
		},
		{
			Photo:     "https://via.placeholder.com/300x200.png?text=Card+2",
			Header:    "Card Title 2",
			Subheader: "Card description 2",
			Text:      "Additional content for card 2",
		},
	}
	a.showLoadingWithDelay(st, s, core.LoadingCard, 1200*time.Millisecond)
	st.do(s.Card().Send(cards))
	a.sleep(a.streamDelay)
	a.streamWithDelay(st, s, fmt.Sprintf("%d cards sent\n\n", len(cards)))

	a.streamWithDelay(st, s, "=== Audio Operations ===\n")
	tracks := []core.AudioTrack{
		{Label: "Track 1", URL: "https://example.com/audio1.mp3", Type: "audio/mp3"},
		{Label: "Track 2", URL: "https://example.com/audio2.mp3", Type: "audio/mp3"},
	}
	st.do(s.Audio().Send(tracks))
	a.sleep(a.streamDelay)
	a.streamWithDelay(st, s, fmt.Sprintf("%d audio tracks sent\n", len(tracks)))

	return a.closeWithDelay(st, s)
}

// variablesMemoryExample inspects the message's configuration variables and
// persisted user memory.
func (a *DummyAgent) variablesMemoryExample(ctx context.Context, msg core.ChatMessage) (string, error) {
	a.logger.Info("running variables and memory example")

	st := &stepper{}
	s := a.handler.Begin(msg)

	vars := core.NewVariables(msg.Variables)

	a.streamWithDelay(st, s, "=== Variables ===\n")
	if key, ok := vars.Get("OPENAI_API_KEY"); ok {
		a.streamWithDelay(st, s, "OpenAI API key found\n")
		// Never stream the key itself.
		a.streamWithDelay(st, s, fmt.Sprintf("  Key length: %d\n", len(key)))
	} else {
		a.streamWithDelay(st, s, "OpenAI API key not found\n")
	}

	names := vars.Names()
	a.streamWithDelay(st, s, fmt.Sprintf("Total variables: %d\n", len(names)))
	for _, name := range firstN(names, 5) {
		a.streamWithDelay(st, s, fmt.Sprintf("  - %s\n", name))
	}

	a.streamWithDelay(st, s, "\n=== Memory ===\n")
	memory := core.NewMemory(msg.Memory)
	if memory.IsEmpty() {
		a.streamWithDelay(st, s, "No user memory available\n")
	} else {
		if name := memory.Name(); name != "" {
			a.streamWithDelay(st, s, fmt.Sprintf("User name: %s\n", name))
		}
		if goals := memory.Goals(); len(goals) > 0 {
			a.streamWithDelay(st, s, fmt.Sprintf("User goals: %s\n", strings.Join(firstN(goals, 3), ", ")))
		}
		if location := memory.Location(); location != "" {
			a.streamWithDelay(st, s, fmt.Sprintf("Location: %s\n", location))
		}
		if interests := memory.Interests(); len(interests) > 0 {
			a.streamWithDelay(st, s, fmt.Sprintf("Interests: %s\n", strings.Join(firstN(interests, 3), ", ")))
		}
	}

	return a.closeWithDelay(st, s)
}

// usageTrackingExample records token usage and emits trace records with both
// visibility levels.
func (a *DummyAgent) usageTrackingExample(ctx context.Context, msg core.ChatMessage) (string, error) {
	a.logger.Info("running usage tracking and tracing example")

	st := &stepper{}
	s := a.handler.Begin(msg)

	a.streamWithDelay(st, s, "Tracking token usage...\n\n")

	st.do(s.Usage().Track(1500, core.TokenPrompt, "0.03", "Input tokens"))
	a.sleep(a.streamDelay)
	st.do(s.Usage().Track(2000, core.TokenCompletion, "0.06", "Output tokens"))
	a.sleep(a.streamDelay)

	a.streamWithDelay(st, s, "Tracing operations...\n\n")

	traces := []struct {
		message    string
		visibility core.TraceVisibility
	}{
		{"Starting processing", core.TraceAll},
		{"Step 1: Parsing input", core.TraceDev},
		{"Step 2: Validating data", core.TraceDev},
		{"Step 3: Generating response", core.TraceAll},
		{"Processing complete", core.TraceAll},
	}
	for _, tr := range traces {
		st.do(s.Trace().Send(tr.message, tr.visibility))
		a.sleep(2 * a.streamDelay)
	}

	a.streamWithDelay(st, s, "Usage and tracing completed\n")

	return a.closeWithDelay(st, s)
}

// storageExample lists buckets and uploads a buffer. Storage failures are
// reported inline as streamed text, never propagated: the calls are
// illustrative, not functionally required.
func (a *DummyAgent) storageExample(ctx context.Context, msg core.ChatMessage) (string, error) {
	a.logger.Info("running storage example")

	st := &stepper{}
	s := a.handler.Begin(msg)

	if a.storage == nil {
		a.streamWithDelay(st, s, "Storage not configured (missing credentials)\n")
		return a.closeWithDelay(st, s)
	}

	a.streamWithDelay(st, s, "=== Storage Operations ===\n\n")

	a.streamWithDelay(st, s, "Listing buckets...\n")
	buckets, err := retry.DoValue(ctx, func() ([]storage.Bucket, error) {
		return a.storage.ListBuckets(ctx)
	}, func(o *retry.Options) { o.MaxAttempts = 3; o.Delay = a.streamDelay })
	if err != nil {
		a.streamWithDelay(st, s, fmt.Sprintf("Error listing buckets: %s\n", err))
	} else {
		a.streamWithDelay(st, s, fmt.Sprintf("Found %d bucket(s)\n", len(buckets)))
		for _, b := range buckets[:min(len(buckets), 3)] {
			a.streamWithDelay(st, s, fmt.Sprintf("  - %s\n", b.Name))
		}
	}

	a.streamWithDelay(st, s, "\nUpload example:\n")
	info, err := a.storage.UploadBuffer(ctx, storage.UploadInput{
		Bucket:      "demo-bucket",
		FileName:    "dummy_test.txt",
		Buffer:      []byte("Hello from the dummy agent!"),
		FolderPath:  "dummy-agent/",
		Visibility:  "private",
		GenerateURL: true,
	})
	if err != nil {
		a.streamWithDelay(st, s, fmt.Sprintf("Upload error (expected if bucket doesn't exist): %s\n", truncate(err.Error(), 50)))
	} else {
		a.streamWithDelay(st, s, fmt.Sprintf("Uploaded: %s\n", info.Key))
	}

	return a.closeWithDelay(st, s)
}

// patternsExample demonstrates the session builder, the With helper, a timed
// operation and local error suppression.
func (a *DummyAgent) patternsExample(ctx context.Context, msg core.ChatMessage) (string, error) {
	a.logger.Info("running design patterns example")

	b := session.NewBuilder(a.handler).StartSession(msg)
	b.ShowLoading(core.LoadingThinking).
		AddStream("Using the session builder...\n").
		HideLoading(core.LoadingThinking).
		AddButton("Learn More", "https://example.com")
	a.sleep(a.streamDelay)
	result, err := b.Close()
	if err != nil {
		return result, err
	}

	// With guarantees the session is closed even if the body fails.
	if _, err := session.With(a.handler, msg, func(s *session.Session) error {
		if err := s.Stream("Using a managed session for automatic cleanup...\n"); err != nil {
			return err
		}
		return s.Button().Link("Managed Example", "https://example.com")
	}); err != nil {
		return result, err
	}

	stop := a.logger.StartTimer("pattern_demo")
	a.sleep(100 * time.Millisecond)
	stop()

	// Suppressed failure: the conversion error is logged and dropped.
	if _, err := strconv.Atoi("not a number"); err != nil {
		a.logger.Debug("suppressed conversion error", "error", err.Error())
	}

	return result, nil
}

// middlewareExample routes a canned response through the middleware chain.
func (a *DummyAgent) middlewareExample(ctx context.Context, msg core.ChatMessage) (string, error) {
	a.logger.Info("running middleware example")

	return a.mw.Execute(msg, func(m core.ChatMessage) (string, error) {
		st := &stepper{}
		s := a.handler.Begin(m)
		a.streamWithDelay(st, s, "Request processed through middleware chain!\n")
		a.streamWithDelay(st, s, "Authentication checked\n")
		a.streamWithDelay(st, s, "Request logged\n")
		a.streamWithDelay(st, s, "Validation passed\n")
		return a.closeWithDelay(st, s)
	})
}

// errorHandlingExample demonstrates the structured error taxonomy: a caught
// validation error streamed with its detail, and a stream error reported via
// the session error operation.
func (a *DummyAgent) errorHandlingExample(ctx context.Context, msg core.ChatMessage) (string, error) {
	a.logger.Info("running error handling example")

	st := &stepper{}
	s := a.handler.Begin(msg)

	verr := core.NewValidationError("VALIDATION_ERROR", "this is a validation error").
		WithContext("field", "message").
		WithContext("value", "test")
	if se, ok := core.AsError(verr); ok {
		a.streamWithDelay(st, s, fmt.Sprintf("Caught validation error: %s\n", se.Message))
		a.streamWithDelay(st, s, fmt.Sprintf("Error code: %s\n", se.Code))
		a.streamWithDelay(st, s, fmt.Sprintf("Error details: %v\n", se.Detail()))
	}

	serr := core.NewStreamError("STREAM_FAILED", "stream operation failed").
		WithContext("channel", "test-channel")
	st.do(s.Error("Stream error occurred", serr))

	return a.closeWithDelay(st, s)
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
