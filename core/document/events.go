package document

import (
	"context"
	"time"
)

// EventType identifies a document lifecycle event.
type EventType string

const (
	DocumentCreateStart   EventType = "document:create:start"
	DocumentCreateSuccess EventType = "document:create:success"
	DocumentCreateFailed  EventType = "document:create:failed"
	DocumentUpdateStart   EventType = "document:update:start"
	DocumentUpdateSuccess EventType = "document:update:success"
	DocumentUpdateFailed  EventType = "document:update:failed"
	DocumentDeleteStart   EventType = "document:delete:start"
	DocumentDeleteSuccess EventType = "document:delete:success"
	DocumentDeleteFailed  EventType = "document:delete:failed"
)

// Event describes one write-path operation for subscribers: audit hooks,
// cache invalidation, webhooks.
type Event struct {
	Type        EventType      `json:"type"`
	Timestamp   int64          `json:"timestamp"`
	Operation   string         `json:"operation"`
	ContentType string         `json:"contentType,omitempty"`
	DocumentID  string         `json:"documentId,omitempty"`
	Input       map[string]any `json:"input,omitempty"`
	Error       *string        `json:"error,omitempty"`
	Duration    *int64         `json:"duration,omitempty"`
}

// EventCallback is the subscriber signature for lifecycle events.
type EventCallback func(ctx context.Context, event Event) error

// Subscribe registers a callback for one event type and returns its
// unsubscribe function.
func (e *Engine) Subscribe(event EventType, callback EventCallback) func() {
	return e.bus.Subscribe(string(event), callback)
}

// newEvent assembles an event, deriving the duration from startTime.
func newEvent(eventType EventType, operation, contentType, documentID string, input map[string]any, errStr *string, startTime time.Time) Event {
	var duration *int64
	if !startTime.IsZero() {
		d := time.Since(startTime).Milliseconds()
		duration = &d
	}
	return Event{
		Type:        eventType,
		Timestamp:   time.Now().UnixMilli(),
		Operation:   operation,
		ContentType: contentType,
		DocumentID:  documentID,
		Input:       input,
		Error:       errStr,
		Duration:    duration,
	}
}

// withEvents wraps a write operation with start, success and failure events.
func (e *Engine) withEvents(
	operation string,
	start, success, failed EventType,
	contentType, documentID string,
	input map[string]any,
	fn func() (*Result, error),
) (*Result, error) {
	startTime := time.Now()
	e.bus.Emit(string(start), newEvent(start, operation, contentType, documentID, input, nil, startTime))

	result, err := fn()
	if err != nil {
		errStr := err.Error()
		e.bus.Emit(string(failed), newEvent(failed, operation, contentType, documentID, input, &errStr, startTime))
		return nil, err
	}

	e.bus.Emit(string(success), newEvent(success, operation, contentType, documentID, input, nil, startTime))
	return result, nil
}
