package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/lingo/pkg/storage"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeTranslationCompleted is emitted after a translation reaches a
	// terminal state and its record is persisted.
	EventTypeTranslationCompleted = "lingo.translation.completed"
)

// TranslationCompletedEvent is a transport-neutral event payload for a
// finished translation.
type TranslationCompletedEvent struct {
	SchemaVersion int                `json:"schema_version"`
	EventType     string             `json:"event_type"`
	EventID       string             `json:"event_id"`
	EmittedAt     time.Time          `json:"emitted_at"`
	Source        EventSource        `json:"source"`
	RequestMeta   TranslationRequest `json:"request_meta"`
	Record        storage.Record     `json:"record"`
}

// EventSource identifies where the translation originated.
type EventSource struct {
	// Surface is the entry point, e.g. "api", "mcp" or "cli".
	Surface  string `json:"surface"`
	Provider string `json:"provider"`
}

// TranslationRequest captures request lifecycle metadata for the event.
type TranslationRequest struct {
	Path       string `json:"path,omitempty"`
	Streaming  bool   `json:"streaming"`
	HTTPStatus int    `json:"http_status"`
}

// NewTranslationCompletedEvent stamps a new event for rec.
func NewTranslationCompletedEvent(rec storage.Record, source EventSource, meta TranslationRequest) *TranslationCompletedEvent {
	return &TranslationCompletedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeTranslationCompleted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		RequestMeta:   meta,
		Record:        rec,
	}
}
