package worker

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/storage"
	"github.com/papercomputeco/lingo/pkg/translate"
)

// Outcome describes one finished Translate call.
type Outcome struct {
	Config    translate.Config
	Query     translate.Query
	Result    *translate.Result
	Err       error
	Streaming bool
	StartedAt time.Time
	EndedAt   time.Time
}

// NewRecord converts an Outcome into a history record with a fresh id.
func NewRecord(o Outcome) storage.Record {
	rec := storage.Record{
		ID:          uuid.NewString(),
		Provider:    o.Config.Provider,
		Model:       o.Config.ResolvedModel(),
		From:        o.Query.From,
		To:          o.Query.To,
		SourceText:  o.Query.Text,
		Streaming:   o.Streaming,
		StartedAt:   o.StartedAt.UTC(),
		CompletedAt: o.EndedAt.UTC(),
		DurationMs:  o.EndedAt.Sub(o.StartedAt).Milliseconds(),
	}

	switch {
	case o.Err == nil:
		rec.Status = storage.StatusCompleted
		if o.Result != nil {
			rec.TranslatedText = o.Result.Text()
		}
	case errors.Is(o.Err, translate.ErrCancelled):
		rec.Status = storage.StatusCancelled
		rec.ErrorMessage = o.Err.Error()
	default:
		rec.Status = storage.StatusFailed
		se := llm.ToServiceError(o.Err)
		rec.ErrorKind = string(se.Kind)
		rec.ErrorMessage = se.Message
	}

	return rec
}
