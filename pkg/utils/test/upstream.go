// Package testutils holds shared test doubles.
package testutils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/papercomputeco/lingo/pkg/translate"
)

// Upstream is a fake OpenAI Responses API. Streaming requests get one
// output_text delta event per delta; non-streaming requests get the joined
// deltas as a single message. GET requests list models.
type Upstream struct {
	*httptest.Server

	mu sync.Mutex

	deltas    []string
	status    int
	errorBody string
	bodies    [][]byte

	// hold, when set, blocks the stream after the first delta until closed.
	hold chan struct{}
}

// NewUpstream starts a fake upstream that streams deltas.
func NewUpstream(deltas ...string) *Upstream {
	u := &Upstream{deltas: deltas}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	return u
}

// FailWith makes every request answer status with body.
func (u *Upstream) FailWith(status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = status
	u.errorBody = body
}

// HoldAfterFirstDelta makes streams block after their first delta until
// release is closed.
func (u *Upstream) HoldAfterFirstDelta(release chan struct{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.hold = release
}

// Requests returns the request bodies received so far.
func (u *Upstream) Requests() [][]byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([][]byte(nil), u.bodies...)
}

// Config returns a translate.Config pointing at the upstream.
func (u *Upstream) Config() translate.Config {
	return translate.Config{
		Provider: "openai",
		APIURL:   u.URL,
		APIKeys:  "sk-test",
		Model:    "gpt-4o-mini",
		Stream:   true,
	}
}

// Translator builds a Translator for Config.
func (u *Upstream) Translator() *translate.Translator {
	t, err := translate.New(u.Config())
	if err != nil {
		panic(err)
	}
	return t
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	u.mu.Lock()
	u.bodies = append(u.bodies, body)
	status, errorBody, deltas, hold := u.status, u.errorBody, u.deltas, u.hold
	u.mu.Unlock()

	if status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, errorBody)
		return
	}

	if r.Method == http.MethodGet {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"object":"list","data":[{"id":"gpt-4o-mini","object":"model"}]}`)
		return
	}

	if !gjson.GetBytes(body, "stream").Bool() {
		text, _ := json.Marshal(strings.Join(deltas, ""))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"object":"response","output":[{"type":"message","content":[{"type":"output_text","text":%s}]}]}`, text)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	for i, d := range deltas {
		delta, _ := json.Marshal(d)
		fmt.Fprintf(w, "event: response.output_text.delta\ndata: {\"type\":\"response.output_text.delta\",\"delta\":%s}\n\n", delta)
		if flusher != nil {
			flusher.Flush()
		}
		if i == 0 && hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}
	}
	fmt.Fprint(w, "event: response.completed\ndata: {\"type\":\"response.completed\"}\n\n")
}
