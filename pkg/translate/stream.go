package translate

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/llm/provider"
	"github.com/papercomputeco/lingo/pkg/logger"
	"github.com/papercomputeco/lingo/pkg/sse"
)

// doneSentinel ends an SSE stream without carrying data.
const doneSentinel = "[DONE]"

// StreamOption configures a Stream.
type StreamOption func(*Stream)

// WithOnPartial registers fn to receive the full accumulated text after
// every non-empty delta.
func WithOnPartial(fn func(text string)) StreamOption {
	return func(s *Stream) {
		s.onPartial = fn
	}
}

// WithStreamLogger sets the logger used for non-fatal diagnostics.
func WithStreamLogger(l *slog.Logger) StreamOption {
	return func(s *Stream) {
		s.logger = l
	}
}

// Stream accumulates the translated text of one streaming call. A Stream is
// created per call and is not reused. Handle and Finish are driven by a
// single reader; Cancel may be called from any goroutine.
type Stream struct {
	mu sync.Mutex

	provider  provider.Provider
	logger    *slog.Logger
	onPartial func(string)

	lines   *sse.LineDecoder
	decoder *sse.Decoder
	scanner *objectScanner
	carry   carry

	// preamble buffers the start of an SSE body until it is known not to
	// be a bare JSON error document.
	preamble strings.Builder
	sniffing bool

	text        strings.Builder
	partials    []string
	state       State
	err         error
	diagnostics int
}

// NewStream creates the per-call accumulator for p.
func NewStream(p provider.Provider, opts ...StreamOption) *Stream {
	s := &Stream{
		provider: p,
		logger:   logger.Nop(),
		lines:    sse.NewLineDecoder(),
		decoder:  sse.NewDecoder(),
		scanner:  newObjectScanner(),
		sniffing: p.Framing() == llm.FramingSSE,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Stream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Text returns the accumulated text.
func (s *Stream) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text.String()
}

// Diagnostics returns how many messages were skipped as malformed or
// dropped after exceeding the carry bounds.
func (s *Stream) Diagnostics() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diagnostics + s.decoder.Dropped() + s.scanner.Dropped()
}

// Handle feeds one raw network chunk through the pipeline and returns the
// accumulated text. A fatal error moves the stream to Failed and leaves the
// text as it was before the failing message. Partial results produced by
// the chunk are published before Handle returns.
func (s *Stream) Handle(chunk string) (string, error) {
	s.mu.Lock()
	text, err := s.handle(chunk)
	partials := s.takePartials()
	s.mu.Unlock()

	s.publish(partials)
	return text, err
}

func (s *Stream) handle(chunk string) (string, error) {
	switch s.state {
	case StateCancelled:
		return s.text.String(), ErrCancelled
	case StateCompleted, StateFailed:
		return s.text.String(), ErrStreamClosed
	case StateIdle:
		s.state = StateStreaming
	}

	if chunk == "" {
		return s.text.String(), nil
	}

	if err := s.sniff(chunk); err != nil {
		return s.fail(err)
	}

	if err := s.feed(chunk); err != nil {
		return s.fail(err)
	}
	return s.text.String(), nil
}

// Finish completes the stream once the transport is done. A non-2xx status
// discards the accumulated text in favour of the transport error; body is
// the response body read for that error. On success trailing data is
// flushed and the accumulated text is returned.
func (s *Stream) Finish(status int, body []byte) (string, error) {
	s.mu.Lock()
	text, err := s.finish(status, body)
	partials := s.takePartials()
	s.mu.Unlock()

	s.publish(partials)
	return text, err
}

func (s *Stream) finish(status int, body []byte) (string, error) {
	switch s.state {
	case StateCancelled:
		return s.text.String(), ErrCancelled
	case StateFailed:
		return "", s.err
	case StateCompleted:
		return s.text.String(), nil
	}

	if !llm.IsSuccess(status) {
		_, err := s.fail(TransportError(s.provider, status, body))
		return "", err
	}

	if err := s.flush(); err != nil {
		_, err = s.fail(err)
		return "", err
	}

	s.state = StateCompleted
	return s.text.String(), nil
}

func (s *Stream) takePartials() []string {
	partials := s.partials
	s.partials = nil
	return partials
}

func (s *Stream) publish(partials []string) {
	if s.onPartial == nil {
		return
	}
	for _, text := range partials {
		s.onPartial(text)
	}
}

// Cancel stops the stream. Later chunks are ignored.
func (s *Stream) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Terminal() {
		s.state = StateCancelled
	}
}

func (s *Stream) fail(err error) (string, error) {
	s.state = StateFailed
	s.err = err
	return s.text.String(), err
}

// sniff detects a plain JSON error document sent in place of an event
// stream.
func (s *Stream) sniff(chunk string) error {
	if !s.sniffing {
		return nil
	}
	s.preamble.WriteString(chunk)
	head := strings.TrimSpace(s.preamble.String())
	if head == "" {
		return nil
	}
	if head[0] != '{' || s.preamble.Len() > MaxCarryBytes {
		s.stopSniffing()
		return nil
	}
	if !gjson.Valid(head) {
		return nil
	}
	s.stopSniffing()
	if hasEmbeddedError(gjson.Parse(head)) {
		return embeddedError(s.provider, []byte(head))
	}
	return nil
}

func (s *Stream) stopSniffing() {
	s.sniffing = false
	s.preamble.Reset()
}

func (s *Stream) feed(chunk string) error {
	if s.provider.Framing() == llm.FramingJSONArray {
		for _, obj := range s.scanner.Feed(chunk) {
			if err := s.message("", obj); err != nil {
				return err
			}
		}
		if strings.Contains(s.scanner.Stray(), invalidTokenMarker) {
			return invalidTokenError(s.provider.TroubleshootingLink())
		}
		return nil
	}

	for _, line := range s.lines.Decode(chunk) {
		if err := s.line(line); err != nil {
			return err
		}
	}
	if s.invalidToken(s.lines.Pending()) {
		return invalidTokenError(s.provider.TroubleshootingLink())
	}
	return nil
}

// line decodes one SSE line. Data lines that leave every pending data line
// a complete JSON document or [DONE] are dispatched without waiting for the
// blank line, for gateways that end each data line with a single newline.
func (s *Stream) line(line string) error {
	if s.invalidToken(line) {
		return invalidTokenError(s.provider.TroubleshootingLink())
	}

	ev := s.decoder.Decode(line)
	if ev == nil && strings.HasPrefix(line, "data:") && completeData(s.decoder.PendingData()) {
		ev = s.decoder.Flush()
	}
	if ev == nil {
		return nil
	}
	return s.message(ev.Type, ev.Data)
}

// invalidToken reports whether text is plain text, outside any SSE field or
// JSON body, that carries the invalid token marker.
func (s *Stream) invalidToken(text string) bool {
	return !s.sniffing && rawText(text) && strings.Contains(text, invalidTokenMarker)
}

// flush drains both decoders so an unterminated final message is still
// processed, then reports anything left unparsed.
func (s *Stream) flush() error {
	if s.provider.Framing() == llm.FramingJSONArray {
		if rest, ok := s.scanner.Flush(); ok {
			s.diagnose("dropping unterminated stream object", rest)
		}
	} else {
		if line, ok := s.lines.Flush(); ok {
			if err := s.line(line); err != nil {
				return err
			}
		}
		if ev := s.decoder.Flush(); ev != nil {
			if err := s.message(ev.Type, ev.Data); err != nil {
				return err
			}
		}
	}

	if s.sniffing {
		head := strings.TrimSpace(s.preamble.String())
		s.stopSniffing()
		if gjson.Valid(head) && hasEmbeddedError(gjson.Parse(head)) {
			return embeddedError(s.provider, []byte(head))
		}
	}

	if s.carry.pending() {
		s.diagnose("dropping incomplete stream message at end of stream", s.carry.buf)
		s.carry.reset()
	}
	return nil
}

// message runs one decoded message through the shared rules and the
// provider's delta extraction.
func (s *Stream) message(event, data string) error {
	if strings.TrimSpace(data) == "" {
		return nil
	}

	if strings.HasPrefix(data, doneSentinel) {
		if s.carry.pending() {
			s.diagnose("dropping incomplete stream message before [DONE]", s.carry.buf)
			s.carry.reset()
		}
		return nil
	}

	payload := s.carry.join(data)
	if s.carry.pending() && !gjson.Valid(payload) && gjson.Valid(data) {
		s.diagnose("dropping incomplete stream message followed by a complete one", s.carry.buf)
		s.carry.reset()
		payload = data
	}
	if !gjson.Valid(payload) {
		if looksIncomplete(payload) {
			if s.carry.hold(payload) {
				return nil
			}
			s.diagnose("dropping incomplete stream message past carry bounds", payload)
		} else {
			s.diagnose("skipping malformed stream message", payload)
		}
		s.carry.reset()
		return nil
	}
	s.carry.reset()

	parsed := gjson.Parse(payload)
	if hasEmbeddedError(parsed) {
		return embeddedError(s.provider, []byte(payload))
	}

	delta, err := s.provider.ExtractDelta(event, []byte(payload))
	if err != nil {
		return llm.ToServiceError(err)
	}
	if delta == "" {
		return nil
	}

	s.text.WriteString(delta)
	if s.onPartial != nil {
		s.partials = append(s.partials, s.text.String())
	}
	return nil
}

func (s *Stream) diagnose(msg, payload string) {
	s.diagnostics++
	s.logger.Warn(msg, "provider", s.provider.Name(), "size", len(payload))
	s.logger.Debug("dropped stream payload", "provider", s.provider.Name(), "payload", payload)
}

// hasEmbeddedError reports whether a parsed message carries a top-level
// error object or string.
func hasEmbeddedError(parsed gjson.Result) bool {
	if parsed.IsArray() {
		parsed = parsed.Get("0")
	}
	errVal := parsed.Get("error")
	return errVal.IsObject() || (errVal.Type == gjson.String && errVal.String() != "")
}

// completeData reports whether every data line is a JSON document or the
// [DONE] sentinel.
func completeData(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, doneSentinel) && !gjson.Valid(line) {
			return false
		}
	}
	return true
}

// rawText reports whether line is plain text: not an SSE field or comment
// and not the start of a JSON document.
func rawText(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || trimmed[0] == '{' || trimmed[0] == '[' || strings.HasPrefix(line, ":") {
		return false
	}
	field, _, ok := strings.Cut(line, ":")
	return !ok || field == "" || strings.ContainsAny(field, " \t\"")
}
