// Package messages shows operator messages on the page.
package messages

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/blinkenxmas/lightdesk/internal/backend"
	"github.com/blinkenxmas/lightdesk/internal/monitoring"
	"github.com/blinkenxmas/lightdesk/internal/page"
)

var logf = monitoring.For("messages")

// Sink receives messages for the operator.
type Sink interface {
	Show(s string)
}

// Board is a Sink that renders each message as a dismissible entry.
type Board struct {
	area page.MessageArea

	mu   sync.Mutex
	live map[string]string
}

// NewBoard returns a Board drawing into area.
func NewBoard(area page.MessageArea) *Board {
	return &Board{area: area, live: make(map[string]string)}
}

// Show adds a message.
func (b *Board) Show(s string) {
	b.Post(s)
}

// Post adds a message and returns its id.
func (b *Board) Post(s string) string {
	id := "msg-" + uuid.NewString()
	b.mu.Lock()
	b.live[id] = s
	b.mu.Unlock()
	logf("%s", s)
	b.area.Append(id, s, func() { b.Dismiss(id) })
	return id
}

// Dismiss removes message id. Unknown ids are ignored.
func (b *Board) Dismiss(id string) {
	b.mu.Lock()
	_, ok := b.live[id]
	delete(b.live, id)
	b.mu.Unlock()
	if ok {
		b.area.Remove(id)
	}
}

// Len returns the number of messages shown.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

// Error shows err on sink. Server rejections show the server's explanation.
func Error(sink Sink, err error) {
	if err == nil {
		return
	}
	sink.Show(Format(err))
}

// Format renders err the way the operator sees it.
func Format(err error) string {
	var se *backend.StatusError
	if errors.As(err, &se) {
		if se.Body != "" {
			return fmt.Sprintf("Error: %s (status %d)", se.Body, se.Code)
		}
		return fmt.Sprintf("Error: status %d", se.Code)
	}
	if errors.Is(err, context.Canceled) {
		return "Error: request cancelled"
	}
	return "Error: " + err.Error()
}

// Source lists pending server messages.
type Source interface {
	Messages(ctx context.Context) ([]string, error)
}

// Pull shows every message the server has queued. A failure to fetch them is
// itself shown.
func Pull(ctx context.Context, src Source, sink Sink) {
	msgs, err := src.Messages(ctx)
	if err != nil {
		Error(sink, err)
		return
	}
	for _, m := range msgs {
		sink.Show(m)
	}
}

// Recorder is a Sink that keeps every message, for tests.
type Recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *Recorder) Show(s string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, s)
	r.mu.Unlock()
}

// Messages returns everything shown, oldest first.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}
