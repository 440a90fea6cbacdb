// Package notify carries fire-and-forget success/failure signals to the user.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindFailure Kind = "failure"
)

// Notification is one transient user-facing signal. Nothing is consumed in
// return; senders never wait on it.
type Notification struct {
	Kind    Kind
	Message string
}

// Success builds a success notification.
func Success(format string, args ...interface{}) Notification {
	return Notification{Kind: KindSuccess, Message: fmt.Sprintf(format, args...)}
}

// Failure builds a failure notification.
func Failure(format string, args ...interface{}) Notification {
	return Notification{Kind: KindFailure, Message: fmt.Sprintf(format, args...)}
}

// Sink receives notifications. Implementations must not block.
type Sink interface {
	Notify(n Notification)
}

// ConsoleSink prints notifications as single prefixed lines, for one-shot
// commands where there is no toast surface.
type ConsoleSink struct {
	Out io.Writer
}

// Notify writes the notification to the sink's writer.
func (s *ConsoleSink) Notify(n Notification) {
	prefix := "✅"
	if n.Kind == KindFailure {
		prefix = "❌"
	}
	fmt.Fprintf(s.Out, "%s %s\n", prefix, n.Message)
}

// Recorder captures notifications for tests.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

// Notify records the notification.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

// All returns a copy of everything recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

// Last returns the most recent notification and whether one exists.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Notification{}, false
	}
	return r.sent[len(r.sent)-1], true
}
