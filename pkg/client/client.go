// Package client is a Go client for a running lingo API server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/papercomputeco/lingo/api"
	"github.com/papercomputeco/lingo/pkg/lang"
	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/logger"
	"github.com/papercomputeco/lingo/pkg/sse"
	"github.com/papercomputeco/lingo/pkg/storage"
	"github.com/papercomputeco/lingo/pkg/translate"
)

// ErrIncompleteStream is returned when the server closes a stream without a
// completed or error event.
var ErrIncompleteStream = errors.New("stream ended without a result")

// Client talks to the lingo API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{},
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CallOption configures a single Translate call.
type CallOption func(*callConfig)

type callConfig struct {
	onPartial func(string)
	stream    *bool
}

// OnPartial receives the full translation so far for every partial event.
// It implies a streaming request unless Streaming(false) is also given.
func OnPartial(fn func(text string)) CallOption {
	return func(c *callConfig) {
		c.onPartial = fn
	}
}

// Streaming forces a streaming or JSON request.
func Streaming(stream bool) CallOption {
	return func(c *callConfig) {
		c.stream = &stream
	}
}

// Translate asks the server to translate q. Server side failures come back
// as *llm.ServiceError; a cancelled ctx returns translate.ErrCancelled.
func (c *Client) Translate(ctx context.Context, q translate.Query, opts ...CallOption) (*translate.Result, error) {
	call := &callConfig{}
	for _, opt := range opts {
		opt(call)
	}
	stream := call.onPartial != nil
	if call.stream != nil {
		stream = *call.stream
	}

	body, err := json.Marshal(api.TranslateRequest{Text: q.Text, From: q.From, To: q.To, Stream: &stream})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/translate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	if !stream {
		var res translate.Result
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return nil, fmt.Errorf("decoding result: %w", err)
		}
		return &res, nil
	}

	res, err := c.readStream(resp.Body, call.onPartial)
	if err != nil && ctx.Err() != nil {
		return nil, translate.ErrCancelled
	}
	return res, err
}

func (c *Client) readStream(body io.Reader, onPartial func(string)) (*translate.Result, error) {
	r := sse.NewReader(body)
	for {
		ev, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("reading stream: %w", err)
		}
		if ev == nil {
			return nil, ErrIncompleteStream
		}

		switch ev.Type {
		case api.EventPartial:
			var p api.PartialEvent
			if err := json.Unmarshal([]byte(ev.Data), &p); err != nil {
				c.logger.Warn("dropping malformed partial event", "error", err)
				continue
			}
			if onPartial != nil {
				onPartial(p.Text)
			}
		case api.EventCompleted:
			var res translate.Result
			if err := json.Unmarshal([]byte(ev.Data), &res); err != nil {
				return nil, fmt.Errorf("decoding result: %w", err)
			}
			return &res, nil
		case api.EventError:
			se := &llm.ServiceError{}
			if err := json.Unmarshal([]byte(ev.Data), se); err != nil {
				return nil, fmt.Errorf("decoding error event: %w", err)
			}
			return nil, se
		default:
			c.logger.Debug("ignoring stream event", "type", ev.Type)
		}
	}
}

// Languages lists the languages the server supports.
func (c *Client) Languages(ctx context.Context) ([]lang.Language, error) {
	var langs []lang.Language
	if err := c.getJSON(ctx, "/v1/languages", &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

// History lists stored translations, newest first.
func (c *Client) History(ctx context.Context, opts storage.ListOptions) (*api.HistoryResponse, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(opts.EffectiveLimit()))
	if opts.Offset > 0 {
		params.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Provider != "" {
		params.Set("provider", opts.Provider)
	}

	var hr api.HistoryResponse
	if err := c.getJSON(ctx, "/v1/history?"+params.Encode(), &hr); err != nil {
		return nil, err
	}
	return &hr, nil
}

// Record fetches one stored translation.
func (c *Client) Record(ctx context.Context, id string) (*storage.Record, error) {
	var rec storage.Record
	if err := c.getJSON(ctx, "/v1/history/"+url.PathEscape(id), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Ping checks that the server is up.
func (c *Client) Ping(ctx context.Context) error {
	var pong string
	return c.getJSON(ctx, "/ping", &pong)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return translate.ErrCancelled
	}
	return llm.NewServiceError(llm.ErrorNetwork, fmt.Sprintf("cannot reach lingo server at %s", c.baseURL)).
		WithCause(err)
}

// decodeError turns a non-200 response into a ServiceError.
func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var er api.ErrorResponse
	if err := json.Unmarshal(data, &er); err == nil && er.Error != nil {
		return er.Error
	}

	return llm.NewServiceError(llm.ErrorAPI, "接口响应错误 - "+llm.HTTPStatusText(resp.StatusCode)).
		WithAddition(string(data))
}
