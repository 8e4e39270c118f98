// Command server runs the demo agent as a local HTTP service. In dev mode
// response frames are additionally fanned out over per-channel SSE streams:
//
//	ORCA_DEV_MODE=true go run ./cmd/server
//	curl -X POST localhost:8080/api/v1/send_message \
//	    -d '{"response_uuid":"r-1","channel":"web-1","message":"show me the buttons demo"}'
//	curl -N localhost:8080/api/v1/stream/web-1
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orcastack/dummy-agent/agent"
	"github.com/orcastack/dummy-agent/config"
	"github.com/orcastack/dummy-agent/logging"
	"github.com/orcastack/dummy-agent/server"
	"github.com/orcastack/dummy-agent/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Setup(logging.ParseLevel(cfg.LogLevel), cfg.IsLambda())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var broker *server.Broker
	if cfg.DevMode {
		broker = server.NewBroker()
	}

	a := agent.New(ctx, cfg, func(o *agent.Options) {
		o.Logger = logger
		if broker != nil {
			o.Handler = session.NewHandler(func(so *session.Options) {
				so.DevMode = cfg.DevMode
				so.Logger = logger
				so.SinkFactory = broker.SinkFactory()
			})
		}
	})
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.New(a, cfg, logger, broker).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "dev_mode", cfg.DevMode)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
