package agent

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/orcastack/dummy-agent/config"
	"github.com/orcastack/dummy-agent/core"
	"github.com/orcastack/dummy-agent/logging"
	"github.com/orcastack/dummy-agent/metrics"
	"github.com/orcastack/dummy-agent/middleware"
	"github.com/orcastack/dummy-agent/session"
	"github.com/orcastack/dummy-agent/storage"
)

// tracerName identifies spans emitted around dispatched routines.
const tracerName = "dummy-agent"

// Default pacing used by the demonstration routines.
const (
	defaultStreamDelay = 300 * time.Millisecond
	loadingDwell       = 1500 * time.Millisecond
	closeDelay         = 500 * time.Millisecond
)

// Options holds dependency and configuration overrides passed to New.
type Options struct {
	// Handler opens response sessions. Defaults to a buffered handler in the
	// configured dev mode.
	Handler *session.Handler
	// Storage backs the storage demonstration. Nil disables it gracefully.
	Storage storage.Client
	// Middleware wraps the middleware and comprehensive routines. Defaults
	// to logging + auth demonstration middlewares.
	Middleware *middleware.Manager
	// Logger used across the agent.
	Logger *logging.AgentLogger
	// StreamDelay paces frame delivery between streamed chunks.
	StreamDelay time.Duration
	// Sleeper injects wall-clock pacing; tests override it with a no-op.
	Sleeper session.Sleeper
}

// routine is a single canned demonstration script.
type routine func(ctx context.Context, msg core.ChatMessage) (string, error)

// DummyAgent maps example selectors to demonstration routines exercising the
// full session surface: streaming, loading indicators, buttons, media,
// variables, memory, usage tracking, tracing, storage, middleware and error
// handling.
type DummyAgent struct {
	handler     *session.Handler
	storage     storage.Client
	mw          *middleware.Manager
	logger      *logging.AgentLogger
	streamDelay time.Duration
	sleep       session.Sleeper
	tracer      trace.Tracer

	examples map[Selector]routine
}

// New constructs the agent from the process configuration with optional
// overrides. Storage initialization failure is logged and disables the
// storage demonstration instead of failing construction.
func New(ctx context.Context, cfg *config.Config, optFns ...func(o *Options)) *DummyAgent {
	opts := Options{
		StreamDelay: cfg.StreamDelay,
		Sleeper:     time.Sleep,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.Setup(logging.ParseLevel(cfg.LogLevel), cfg.IsLambda())
	}
	logger := opts.Logger.WithComponent("agent")

	if opts.Handler == nil {
		opts.Handler = session.NewHandler(func(o *session.Options) {
			o.DevMode = cfg.DevMode
			o.Logger = logger
			o.Sleeper = opts.Sleeper
		})
	}

	if opts.Storage == nil && cfg.StorageEnabled() {
		client, err := storage.New(ctx, storage.Config{
			Workspace: cfg.Workspace,
			Token:     cfg.Token,
			BaseURL:   cfg.StorageURL,
		})
		if err != nil {
			logger.Warn("storage not available", "error", err.Error())
		} else {
			opts.Storage = client
		}
	}

	if opts.Middleware == nil {
		opts.Middleware = middleware.NewManager().
			Use(middleware.NewLoggingMiddleware(logger)).
			Use(&authMiddleware{logger: logger})
	}

	if opts.StreamDelay <= 0 {
		opts.StreamDelay = defaultStreamDelay
	}

	a := &DummyAgent{
		handler:     opts.Handler,
		storage:     opts.Storage,
		mw:          opts.Middleware,
		logger:      logger,
		streamDelay: opts.StreamDelay,
		sleep:       opts.Sleeper,
		tracer:      otel.Tracer(tracerName),
	}

	a.examples = map[Selector]routine{
		SelectorBasic:         a.basicSessionExample,
		SelectorLoading:       a.loadingIndicatorsExample,
		SelectorButtons:       a.buttonsExample,
		SelectorMedia:         a.mediaOperationsExample,
		SelectorVariables:     a.variablesMemoryExample,
		SelectorUsage:         a.usageTrackingExample,
		SelectorStorage:       a.storageExample,
		SelectorPatterns:      a.patternsExample,
		SelectorMiddleware:    a.middlewareExample,
		SelectorErrors:        a.errorHandlingExample,
		SelectorComprehensive: a.comprehensiveExample,
	}

	logger.Info("dummy agent initialized", "dev_mode", cfg.DevMode, "storage_enabled", opts.Storage != nil)
	return a
}

// Handler exposes the session handler, used by the server's error path.
func (a *DummyAgent) Handler() *session.Handler { return a.handler }

// Route derives the selector from the message body and processes it.
func (a *DummyAgent) Route(ctx context.Context, msg core.ChatMessage) (string, error) {
	return a.Process(ctx, msg, SelectExample(msg.Message))
}

// Process invokes the demonstration routine matching the selector and returns
// its final transcript. Unrecognized selectors fall back to the comprehensive
// routine. Recognized structured errors are logged with their detail payload
// and re-raised; anything else is logged with a stack trace and re-raised.
func (a *DummyAgent) Process(ctx context.Context, msg core.ChatMessage, selector Selector) (result string, err error) {
	fn, ok := a.examples[selector]
	if !ok {
		selector = SelectorComprehensive
		fn = a.examples[selector]
	}

	ctx, span := a.tracer.Start(ctx, "agent.process",
		trace.WithAttributes(attribute.String("selector", string(selector))))
	defer span.End()

	defer a.logger.StartTimer("process_" + string(selector))()

	result, err = fn(ctx, msg)
	if err != nil {
		metrics.DemoRuns.WithLabelValues(string(selector), "error").Inc()
		if se, found := core.AsError(err); found {
			a.logger.Error("structured error during processing", "selector", string(selector), "detail", se.Detail())
		} else {
			a.logger.ErrorWithStack(err, "unexpected error during processing")
		}
		return result, err
	}

	metrics.DemoRuns.WithLabelValues(string(selector), "ok").Inc()
	return result, nil
}

// stepper retains the first error of a call sequence so linear demonstration
// scripts stay readable. Modeled on the errWriter pattern.
type stepper struct{ err error }

func (st *stepper) do(err error) {
	if st.err == nil {
		st.err = err
	}
}

// streamWithDelay streams a chunk and pauses so consumers receive it
// incrementally.
func (a *DummyAgent) streamWithDelay(st *stepper, s *session.Session, text string) {
	st.do(s.Stream(text))
	a.sleep(a.streamDelay)
}

// showLoadingWithDelay shows a loading indicator long enough for a frontend
// to render it, then hides it again.
func (a *DummyAgent) showLoadingWithDelay(st *stepper, s *session.Session, kind core.LoadingKind, dwell time.Duration) {
	st.do(s.Loading().Start(kind))
	a.sleep(dwell)
	st.do(s.Loading().End(kind))
	a.sleep(a.streamDelay)
}

// closeWithDelay pauses before closing so all prior chunks flush
// incrementally, then returns the transcript.
func (a *DummyAgent) closeWithDelay(st *stepper, s *session.Session) (string, error) {
	a.sleep(closeDelay)
	transcript, closeErr := s.Close()
	if st.err != nil {
		return transcript, st.err
	}
	return transcript, closeErr
}

// authMiddleware is the demonstration auth middleware: it logs an auth
// context for each request and leaves the message untouched.
type authMiddleware struct {
	logger logging.Logger
}

func (m *authMiddleware) ProcessRequest(msg *core.ChatMessage) error {
	m.logger.Info("authenticating request", "authenticated", true, "user_id", "dummy-user")
	return nil
}

func (m *authMiddleware) ProcessResponse(result string, msg core.ChatMessage) (string, error) {
	return result, nil
}
