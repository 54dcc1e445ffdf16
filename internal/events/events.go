// Package events publishes document lifecycle events to a message stream.
// Delivery is best effort: the service layer never fails an operation
// because an event could not be written.
package events

import (
	"context"
	"time"
)

// Event types carried in Event.Type.
const (
	TypeDocumentUploaded = "document.uploaded"
	TypeDocumentDeleted  = "document.deleted"
)

// Event is the payload emitted after a document changes.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	DocumentID string    `json:"document_id"`
	Filename   string    `json:"filename,omitempty"`
	Size       int64     `json:"size,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events to the stream.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Noop is a Publisher that discards everything. Used when the event stream
// is disabled.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
