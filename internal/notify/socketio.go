// Package notify publishes render progress to a socket.io server, so a
// dashboard can follow a long batch while it runs.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/ctxlog"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/render"
)

// Event names emitted by the Publisher.
const (
	EventRenderStart  = "render:start"
	EventRenderFinish = "render:finish"
	EventBatchFinish  = "batch:finish"
)

// ConnectTimeout bounds how long Dial waits for the server.
const ConnectTimeout = 15 * time.Second

// Options configures the socket.io connection.
type Options struct {
	URL                string
	InsecureSkipVerify bool
}

// Publisher emits render events over a socket.io connection. It implements
// render.Notifier.
type Publisher struct {
	client *socket.Socket
}

var _ render.Notifier = (*Publisher)(nil)

// Dial connects to the socket.io server at opts.URL. The URL path selects the
// namespace.
func Dial(ctx context.Context, opts Options) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("notifier", "socketio", "url", opts.URL)
	logger.Info("Connecting progress publisher...")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("notify URL %q must be absolute", opts.URL)
	}

	sockOpts := socket.DefaultOptions()
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	namespace := parsedURL.Path
	if namespace == "" {
		namespace = "/"
	}

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(namespace, sockOpts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Progress publisher connected.", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		logger.Info("📡 Progress publisher connected.")
		return &Publisher{client: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", ConnectTimeout)
	}
}

// RenderStarted implements render.Notifier.
func (p *Publisher) RenderStarted(ctx context.Context, job render.Job) {
	p.emit(ctx, EventRenderStart, jobPayload(job))
}

// RenderFinished implements render.Notifier.
func (p *Publisher) RenderFinished(ctx context.Context, res render.Result) {
	p.emit(ctx, EventRenderFinish, resultPayload(res))
}

// BatchFinished emits the batch summary.
func (p *Publisher) BatchFinished(ctx context.Context, report *render.Report) {
	p.emit(ctx, EventBatchFinish, reportPayload(report))
}

// Close disconnects from the server.
func (p *Publisher) Close() {
	p.client.Disconnect()
}

func (p *Publisher) emit(ctx context.Context, event string, payload map[string]any) {
	ctxlog.FromContext(ctx).Debug("Emitting progress event.", "event", event)
	p.client.Emit(event, payload)
}

func jobPayload(job render.Job) map[string]any {
	return map[string]any{
		"index":   job.Index,
		"name":    job.Name,
		"output":  job.Output,
		"command": job.Command.String(),
	}
}

func resultPayload(res render.Result) map[string]any {
	payload := jobPayload(res.Job)
	payload["exit_code"] = res.ExitCode
	payload["failed"] = res.Failed()
	payload["cancelled"] = res.Cancelled
	payload["dry_run"] = res.DryRun
	payload["duration_ms"] = res.Duration.Milliseconds()
	if res.Err != nil {
		payload["error"] = res.Err.Error()
	}
	return payload
}

func reportPayload(report *render.Report) map[string]any {
	failed := make([]string, 0)
	for _, res := range report.Failed() {
		failed = append(failed, res.Name)
	}
	return map[string]any{
		"total":      len(report.Results),
		"succeeded":  report.Succeeded(),
		"cancelled":  len(report.Cancelled()),
		"failed":     failed,
		"elapsed_ms": report.Elapsed.Milliseconds(),
	}
}
