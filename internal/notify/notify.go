// Package notify carries user-facing status notifications through a request.
//
// Cart and checkout operations report their outcome ("Item was removed from
// your cart.", "Invalid coupon code") as notifications rather than errors.
// A Buffer is installed into the request context by the HTTP layer; domain
// services append to it, and the handler returns the collected messages in
// the response body.
package notify

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Severity classifies a notification for display.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Message is a single user-facing notification.
type Message struct {
	Level Severity
	Text  string
}

// Sink receives notifications produced during an operation.
type Sink interface {
	Notify(ctx context.Context, level Severity, text string)
}

// Buffer collects notifications for one request. Not safe for concurrent use;
// each request owns its own Buffer.
type Buffer struct {
	messages []Message
}

// Notify appends a message to the buffer and mirrors it to the request logger.
func (b *Buffer) Notify(ctx context.Context, level Severity, text string) {
	b.messages = append(b.messages, Message{Level: level, Text: text})
	zctx.From(ctx).Debug("user notification",
		zap.String("level", string(level)),
		zap.String("text", text),
	)
}

// Messages returns the collected notifications in order.
func (b *Buffer) Messages() []Message {
	return b.messages
}

type bufferKey struct{}

// WithBuffer installs a fresh Buffer into ctx and returns both.
func WithBuffer(ctx context.Context) (context.Context, *Buffer) {
	b := &Buffer{}
	return context.WithValue(ctx, bufferKey{}, b), b
}

// FromContext returns the request's Buffer, or nil when none is installed.
func FromContext(ctx context.Context) *Buffer {
	b, _ := ctx.Value(bufferKey{}).(*Buffer)
	return b
}

// ContextSink routes notifications to the Buffer found in the operation
// context. Notifications sent outside a buffered request are still logged.
type ContextSink struct{}

var _ Sink = ContextSink{}

// Notify implements Sink.
func (ContextSink) Notify(ctx context.Context, level Severity, text string) {
	if b := FromContext(ctx); b != nil {
		b.Notify(ctx, level, text)
		return
	}
	zctx.From(ctx).Debug("user notification (no buffer)",
		zap.String("level", string(level)),
		zap.String("text", text),
	)
}
