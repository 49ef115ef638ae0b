package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/lingo/api/worker"
	"github.com/papercomputeco/lingo/pkg/lang"
	"github.com/papercomputeco/lingo/pkg/sse"
	"github.com/papercomputeco/lingo/pkg/translate"
	"github.com/papercomputeco/lingo/pkg/utils"
)

// SSE event types sent by POST /v1/translate when streaming.
const (
	EventPartial   = "partial"
	EventCompleted = "completed"
	EventError     = "error"
)

const translatePath = "/v1/translate"

// TranslateRequest is the body of POST /v1/translate.
type TranslateRequest struct {
	Text string `json:"text"`
	From string `json:"from"`
	To   string `json:"to"`

	// Stream selects an SSE response. Nil uses the configured default.
	Stream *bool `json:"stream,omitempty"`
}

// PartialEvent carries the full translation so far.
type PartialEvent struct {
	Text string `json:"text"`
}

// handleTranslate translates the request text and answers with JSON or SSE.
func (s *Server) handleTranslate(c *fiber.Ctx) error {
	var req TranslateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return badRequest(c, "text is required")
	}
	if req.From == "" {
		req.From = lang.Auto
	}

	tr := s.translators.Load()
	stream := tr.Config().Stream
	if req.Stream != nil {
		stream = *req.Stream
	}

	q := translate.Query{Text: req.Text, From: req.From, To: req.To}
	s.logger.Debug("translate request",
		"from", q.From,
		"to", q.To,
		"stream", stream,
		"text", utils.Truncate(q.Text, 60),
	)

	if stream {
		return s.streamTranslate(c, tr, q)
	}

	started := time.Now()
	res, err := tr.Translate(c.Context(), q, translate.Streaming(false))
	ended := time.Now()

	if err != nil {
		s.logger.Warn("translation failed", "provider", tr.Config().Provider, "error", err)
		werr := writeError(c, err)
		s.record(tr, q, nil, err, false, started, ended, c.Response().StatusCode())
		return werr
	}

	s.record(tr, q, res, nil, false, started, ended, fiber.StatusOK)
	return c.JSON(res)
}

// streamTranslate answers with an SSE body fed from a pipe. The translation
// runs in its own goroutine with a context that is cancelled once the client
// stops reading.
func (s *Server) streamTranslate(c *fiber.Ctx, tr *translate.Translator, q translate.Query) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	pr, pw := io.Pipe()
	go s.runStream(tr, q, pw)

	// Set the pipe reader as the body stream with unknown size (-1),
	// which triggers chunked transfer encoding in fasthttp.
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

func (s *Server) runStream(tr *translate.Translator, q translate.Query, pw *io.PipeWriter) {
	defer pw.Close()

	// fasthttp recycles its RequestCtx after the handler returns, so the
	// stream cannot use c.Context().
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Flush headers to the client before the upstream answers.
	if err := sse.WriteComment(pw, "translating"); err != nil {
		s.logger.Debug("client gone before translation started", "error", err)
		return
	}

	started := time.Now()
	res, err := tr.Translate(ctx, q,
		translate.Streaming(true),
		translate.OnPartial(func(text string) {
			if werr := writeJSONEvent(pw, EventPartial, PartialEvent{Text: text}); werr != nil {
				s.logger.Debug("client stopped reading, cancelling translation", "error", werr)
				cancel()
			}
		}),
	)
	ended := time.Now()

	switch {
	case err == nil:
		_ = writeJSONEvent(pw, EventCompleted, res)
	case errors.Is(err, translate.ErrCancelled):
		s.logger.Info("streaming translation cancelled", "provider", tr.Config().Provider)
	default:
		s.logger.Warn("streaming translation failed", "provider", tr.Config().Provider, "error", err)
		_ = writeJSONEvent(pw, EventError, toServiceError(err))
	}

	s.record(tr, q, res, err, true, started, ended, fiber.StatusOK)
}

// record hands the finished translation to the worker pool, if any.
func (s *Server) record(tr *translate.Translator, q translate.Query, res *translate.Result, err error, streaming bool, started, ended time.Time, status int) {
	if s.pool == nil {
		return
	}

	s.pool.Enqueue(worker.Job{
		Record: worker.NewRecord(worker.Outcome{
			Config:    tr.Config(),
			Query:     q,
			Result:    res,
			Err:       err,
			Streaming: streaming,
			StartedAt: started,
			EndedAt:   ended,
		}),
		Surface:    "api",
		Path:       translatePath,
		HTTPStatus: status,
	})
}

func writeJSONEvent(w io.Writer, eventType string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return sse.WriteEvent(w, sse.Event{Type: eventType, Data: string(data)})
}
