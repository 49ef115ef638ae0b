// Package translate drives translations against a provider: it validates
// configuration, builds the upstream request, and accumulates the streamed
// response into the final text.
package translate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/papercomputeco/lingo/pkg/lang"
	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/llm/provider"
	"github.com/papercomputeco/lingo/pkg/logger"
	"github.com/papercomputeco/lingo/pkg/prompt"
)

const (
	// readChunkSize is the size of each read from the response body.
	readChunkSize = 32 * 1024

	// maxResponseBytes caps non-streaming and error bodies.
	maxResponseBytes = 16 << 20
)

// Doer performs HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Query is one translation request.
type Query struct {
	Text string `json:"text"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Result is the terminal value of a successful translation.
type Result struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Paragraphs []string `json:"paragraphs"`

	// Raw is the untouched text returned by the provider.
	Raw string `json:"raw"`
}

// Text joins the paragraphs.
func (r *Result) Text() string {
	return strings.Join(r.Paragraphs, "\n")
}

// Option configures a Translator.
type Option func(*Translator)

// WithDoer replaces the HTTP client.
func WithDoer(d Doer) Option {
	return func(t *Translator) {
		t.client = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		t.logger = l
	}
}

// CallOption configures a single Translate call.
type CallOption func(*callConfig)

type callConfig struct {
	onPartial func(string)
	stream    *bool
	capture   io.Writer
}

// OnPartial receives the full translation so far after every delta.
func OnPartial(fn func(text string)) CallOption {
	return func(c *callConfig) {
		c.onPartial = fn
	}
}

// Streaming overrides the configured stream setting for one call.
func Streaming(stream bool) CallOption {
	return func(c *callConfig) {
		c.stream = &stream
	}
}

// Capture copies the raw upstream response body to w as it is read.
func Capture(w io.Writer) CallOption {
	return func(c *callConfig) {
		c.capture = w
	}
}

// Translator translates text through one configured provider. It holds no
// per-call state and is safe for concurrent use.
type Translator struct {
	cfg      Config
	provider provider.Provider
	client   Doer
	logger   *slog.Logger
}

// New validates cfg and creates a Translator.
func New(cfg Config, opts ...Option) (*Translator, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	p, err := provider.New(cfg.Provider)
	if err != nil {
		return nil, llm.NewServiceError(llm.ErrorParam, err.Error()).WithCause(err)
	}

	if cfg.APIURL != "" {
		cfg.APIURL = EnsureHTTPSAndNoTrailingSlash(cfg.APIURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	t := &Translator{
		cfg:      cfg,
		provider: p,
		client:   &http.Client{},
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Provider returns the provider in use.
func (t *Translator) Provider() provider.Provider {
	return t.provider
}

// Config returns the effective configuration.
func (t *Translator) Config() Config {
	return t.cfg
}

func (t *Translator) endpoint() llm.Endpoint {
	return llm.Endpoint{APIURL: t.cfg.APIURL, Model: t.cfg.ResolvedModel()}
}

// Translate runs one translation. Cancelling ctx returns ErrCancelled.
// Every other failure is a *llm.ServiceError.
func (t *Translator) Translate(ctx context.Context, q Query, opts ...CallOption) (*Result, error) {
	call := &callConfig{}
	for _, opt := range opts {
		opt(call)
	}
	stream := t.cfg.Stream
	if call.stream != nil {
		stream = *call.stream
	}

	if err := lang.CheckTarget(q.To); err != nil {
		return nil, err
	}
	if q.From == "" {
		q.From = lang.Auto
	}

	system, user := prompt.Generate(
		prompt.Query{Text: q.Text, From: q.From, To: q.To},
		prompt.Options{SystemPrompt: t.cfg.SystemPrompt, UserPrompt: t.cfg.UserPrompt},
	)

	url, err := t.provider.Endpoint(t.endpoint(), stream)
	if err != nil {
		return nil, t.withLink(err)
	}
	reqBody, err := t.provider.RequestBody(&llm.TranslateRequest{
		Model:        t.cfg.ResolvedModel(),
		SystemPrompt: system,
		UserPrompt:   user,
		Temperature:  t.cfg.Temperature,
		Stream:       stream,
		ExtraBody:    t.cfg.ExtraBody,
	})
	if err != nil {
		return nil, llm.NewServiceError(llm.ErrorParam, fmt.Sprintf("building request body: %v", err)).
			WithLink(t.provider.TroubleshootingLink()).
			WithCause(err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, llm.NewServiceError(llm.ErrorParam, err.Error()).
			WithLink(t.provider.TroubleshootingLink()).
			WithCause(err)
	}
	req.Header = t.provider.Headers(PickAPIKey(t.cfg.APIKeys))

	t.logger.Debug("sending translation request",
		"provider", t.provider.Name(),
		"model", t.cfg.ResolvedModel(),
		"stream", stream,
		"url", url,
	)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, t.transportFailure(ctx, err)
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if call.capture != nil {
		body = io.TeeReader(resp.Body, call.capture)
	}

	var raw string
	if stream {
		raw, err = t.readStream(ctx, resp.StatusCode, body, call.onPartial)
	} else {
		raw, err = t.readResponse(ctx, resp.StatusCode, body)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{From: q.From, To: q.To, Raw: raw}
	cleaned := CleanOutput(raw)
	if stream {
		result.Paragraphs = []string{cleaned}
	} else {
		result.Paragraphs = strings.Split(cleaned, "\n")
	}
	return result, nil
}

// readStream feeds the body into a fresh Stream chunk by chunk.
func (t *Translator) readStream(ctx context.Context, status int, body io.Reader, onPartial func(string)) (string, error) {
	s := NewStream(t.provider,
		WithOnPartial(onPartial),
		WithStreamLogger(t.logger),
	)

	if !llm.IsSuccess(status) {
		data, _ := io.ReadAll(io.LimitReader(body, maxResponseBytes))
		return s.Finish(status, data)
	}

	buf := make([]byte, readChunkSize)
	for {
		if ctx.Err() != nil {
			s.Cancel()
			return "", t.transportFailure(ctx, ctx.Err())
		}

		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := s.Handle(string(buf[:n])); err != nil {
				return "", err
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			if ctx.Err() != nil {
				s.Cancel()
			}
			return "", t.transportFailure(ctx, readErr)
		}
	}

	text, err := s.Finish(status, nil)
	if n := s.Diagnostics(); n > 0 {
		t.logger.Warn("stream completed with skipped messages", "provider", t.provider.Name(), "skipped", n)
	}
	return text, err
}

func (t *Translator) readResponse(ctx context.Context, status int, r io.Reader) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxResponseBytes))
	if err != nil {
		return "", t.transportFailure(ctx, err)
	}
	if !llm.IsSuccess(status) {
		return "", TransportError(t.provider, status, body)
	}

	text, err := t.provider.ParseResponse(body)
	if err != nil {
		return "", t.withLink(err)
	}
	return text, nil
}

// transportFailure classifies a failed request or read. Caller
// cancellation wins over the error itself.
func (t *Translator) transportFailure(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.Canceled) {
			return ErrCancelled
		}
		return networkError(t.provider.TroubleshootingLink(), fmt.Errorf("请求超时 (%s): %w", t.cfg.Timeout, ctxErr))
	}
	return networkError(t.provider.TroubleshootingLink(), err)
}

func (t *Translator) withLink(err error) error {
	se := llm.ToServiceError(err)
	if se.TroubleshootingLink == "" {
		se.TroubleshootingLink = t.provider.TroubleshootingLink()
	}
	return se
}

// Validate probes the provider with its connectivity check.
func (t *Translator) Validate(ctx context.Context) error {
	vr, err := t.provider.ValidationRequest(t.endpoint())
	if err != nil {
		return t.withLink(err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	var body io.Reader
	if len(vr.Body) > 0 {
		body = bytes.NewReader(vr.Body)
	}
	req, err := http.NewRequestWithContext(ctx, vr.Method, vr.URL, body)
	if err != nil {
		return llm.NewServiceError(llm.ErrorParam, err.Error()).
			WithLink(t.provider.TroubleshootingLink()).
			WithCause(err)
	}
	req.Header = t.provider.Headers(PickAPIKey(t.cfg.APIKeys))
	for k, vs := range vr.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return t.transportFailure(ctx, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return t.transportFailure(ctx, err)
	}
	if !llm.IsSuccess(resp.StatusCode) {
		return TransportError(t.provider, resp.StatusCode, payload)
	}
	if err := t.provider.CheckValidation(resp.StatusCode, payload); err != nil {
		return t.withLink(err)
	}
	return nil
}
