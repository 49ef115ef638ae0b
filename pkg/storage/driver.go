// Package storage persists translation history.
package storage

import (
	"context"
	"time"
)

// Status is the terminal outcome of a translation.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Record is one finished translation call.
type Record struct {
	ID             string    `json:"id"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model"`
	From           string    `json:"from"`
	To             string    `json:"to"`
	SourceText     string    `json:"source_text"`
	TranslatedText string    `json:"translated_text,omitempty"`
	Streaming      bool      `json:"streaming"`
	Status         Status    `json:"status"`
	ErrorKind      string    `json:"error_kind,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
	DurationMs     int64     `json:"duration_ms"`
}

// ListOptions filters and pages List results. Records are returned newest first.
type ListOptions struct {
	// Limit caps the number of records. Zero means DefaultListLimit.
	Limit int

	Offset int

	// Provider restricts results to one provider type when non-empty.
	Provider string
}

// DefaultListLimit is used when ListOptions.Limit is zero.
const DefaultListLimit = 50

// EffectiveLimit returns the limit List should apply.
func (o ListOptions) EffectiveLimit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

// Driver defines the interface for persisting and retrieving translation
// records in a storage backend.
type Driver interface {
	// Put stores a record, replacing any record with the same ID.
	Put(ctx context.Context, rec *Record) error

	// Get retrieves a record by its ID.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns records newest first.
	List(ctx context.Context, opts ListOptions) ([]*Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close closes the store and releases any resources.
	Close() error
}
