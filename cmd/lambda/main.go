// Command lambda runs the demo agent as an AWS Lambda function handling
// queue messages, scheduled triggers and API-gateway HTTP requests through a
// single entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/orcastack/dummy-agent/agent"
	"github.com/orcastack/dummy-agent/config"
	"github.com/orcastack/dummy-agent/logging"
	"github.com/orcastack/dummy-agent/server"
	"github.com/orcastack/dummy-agent/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.ParseLevel(cfg.LogLevel), cfg.IsLambda())

	ctx := context.Background()
	a := agent.New(ctx, cfg, func(o *agent.Options) { o.Logger = logger })
	httpHandler := server.New(a, cfg, logger, nil).Handler()

	adapter := transport.NewAdapter(a, httpHandler, logger)
	lambda.Start(adapter.Handle)
}
