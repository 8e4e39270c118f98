// Package transport adapts AWS Lambda invocations to the demo agent. A
// single function handler receives queue messages, scheduled triggers and
// HTTP requests; Classify tells them apart and Handle forwards each to the
// matching pre-built path: SQS records to the message router, scheduled
// events to a fixed acknowledgement, HTTP requests to the HTTP handler.
package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/orcastack/dummy-agent/agent"
	"github.com/orcastack/dummy-agent/core"
	"github.com/orcastack/dummy-agent/logging"
)

// EventKind classifies an inbound Lambda event.
type EventKind string

// Recognized event kinds.
const (
	EventQueue     EventKind = "queue"
	EventScheduled EventKind = "scheduled"
	EventHTTP      EventKind = "http"
)

// Event source markers used by the classification predicate.
const (
	sqsEventSource     = "aws:sqs"
	schedulerEventBus  = "aws.events"
)

// probe extracts only the fields classification needs.
type probe struct {
	Records []struct {
		EventSource string `json:"eventSource"`
	} `json:"Records"`
	Source string `json:"source"`
}

// Classify determines the kind of a raw Lambda event. The predicate is total
// and order-independent: an event with a Records collection whose first
// element carries the SQS event source is a queue message; an event whose
// source equals the scheduler marker is a scheduled trigger; everything else
// is treated as HTTP.
func Classify(raw []byte) EventKind {
	var p probe
	if err := json.Unmarshal(raw, &p); err != nil {
		return EventHTTP
	}
	if len(p.Records) > 0 && p.Records[0].EventSource == sqsEventSource {
		return EventQueue
	}
	if p.Source == schedulerEventBus {
		return EventScheduled
	}
	return EventHTTP
}

// Adapter is the Lambda entry point dispatching classified events.
type Adapter struct {
	agent       *agent.DummyAgent
	httpHandler http.Handler
	logger      *logging.AgentLogger
}

// NewAdapter builds an adapter over the agent and the HTTP handler serving
// API-gateway requests.
func NewAdapter(a *agent.DummyAgent, httpHandler http.Handler, logger *logging.AgentLogger) *Adapter {
	return &Adapter{agent: a, httpHandler: httpHandler, logger: logger.WithComponent("transport")}
}

// Handle is the Lambda function handler. It accepts the raw event payload and
// returns whatever the chosen downstream path produces.
func (ad *Adapter) Handle(ctx context.Context, raw json.RawMessage) (any, error) {
	switch kind := Classify(raw); kind {
	case EventQueue:
		var ev events.SQSEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, core.NewValidationError("SQS_DECODE", "failed to decode SQS event").Wrap(err)
		}
		return ad.handleQueue(ctx, ev)
	case EventScheduled:
		return ad.handleScheduled(ctx)
	default:
		var req events.APIGatewayProxyRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, core.NewValidationError("HTTP_DECODE", "failed to decode HTTP event").Wrap(err)
		}
		return ad.handleHTTP(ctx, req)
	}
}

// handleQueue processes each SQS record's body as a chat message. Failed
// records are reported for partial batch retry.
func (ad *Adapter) handleQueue(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, record := range ev.Records {
		var msg core.ChatMessage
		if err := json.Unmarshal([]byte(record.Body), &msg); err != nil {
			ad.logger.Error("failed to decode queue message", "message_id", record.MessageId, "error", err.Error())
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
			continue
		}
		if _, err := ad.agent.Route(ctx, msg); err != nil {
			ad.logger.Error("failed to process queue message", "message_id", record.MessageId, "error", err.Error())
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}
	return resp, nil
}

// handleScheduled acknowledges a scheduler trigger.
func (ad *Adapter) handleScheduled(ctx context.Context) (map[string]string, error) {
	ad.logger.Info("scheduled task executed")
	return map[string]string{"status": "success"}, nil
}

// handleHTTP translates the API-gateway event into a standard request served
// by the HTTP handler and converts the captured response back.
func (ad *Adapter) handleHTTP(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := httpRequest(ctx, ev)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	rec := newRecorder()
	ad.httpHandler.ServeHTTP(rec, req)
	return rec.result(), nil
}

// httpRequest rebuilds an *http.Request from the API-gateway event.
func httpRequest(ctx context.Context, ev events.APIGatewayProxyRequest) (*http.Request, error) {
	u := url.URL{Path: ev.Path}
	query := url.Values{}
	for k, vs := range ev.MultiValueQueryStringParameters {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	for k, v := range ev.QueryStringParameters {
		if _, seen := ev.MultiValueQueryStringParameters[k]; !seen {
			query.Set(k, v)
		}
	}
	u.RawQuery = query.Encode()

	body := ev.Body
	if ev.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(ev.Body)
		if err != nil {
			return nil, core.NewValidationError("HTTP_BODY_DECODE", "failed to decode request body").Wrap(err)
		}
		body = string(decoded)
	}

	req, err := http.NewRequestWithContext(ctx, ev.HTTPMethod, u.String(), strings.NewReader(body))
	if err != nil {
		return nil, core.NewValidationError("HTTP_REQUEST", "failed to build request").Wrap(err)
	}
	for k, vs := range ev.MultiValueHeaders {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, v := range ev.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return req, nil
}

// recorder captures the handler's response for conversion back into an
// API-gateway response.
type recorder struct {
	status int
	header http.Header
	body   bytes.Buffer
}

func newRecorder() *recorder {
	return &recorder{status: http.StatusOK, header: make(http.Header)}
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(status int) { r.status = status }

func (r *recorder) Write(p []byte) (int, error) { return r.body.Write(p) }

func (r *recorder) result() events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(r.header))
	multi := make(map[string][]string, len(r.header))
	for k, vs := range r.header {
		if len(vs) > 0 {
			headers[k] = vs[len(vs)-1]
		}
		multi[k] = vs
	}
	return events.APIGatewayProxyResponse{
		StatusCode:        r.status,
		Headers:           headers,
		MultiValueHeaders: multi,
		Body:              r.body.String(),
	}
}
