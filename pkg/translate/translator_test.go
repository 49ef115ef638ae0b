package translate_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/tidwall/gjson"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/sse"
	"github.com/papercomputeco/lingo/pkg/translate"
)

// writeEvents writes each SSE frame and flushes between them.
func writeEvents(w http.ResponseWriter, frames ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	flusher := w.(http.Flusher)
	for _, f := range frames {
		fmt.Fprint(w, f)
		flusher.Flush()
	}
}

func deltaFrame(text string) string {
	return fmt.Sprintf("event: response.output_text.delta\ndata: {\"type\":\"response.output_text.delta\",\"delta\":%q}\n\n", text)
}

var _ = Describe("Translator", func() {
	var (
		server   *httptest.Server
		handler  http.HandlerFunc
		lastReq  *http.Request
		lastBody []byte
	)

	BeforeEach(func() {
		handler = nil
		lastReq = nil
		lastBody = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastReq = r
			lastBody, _ = io.ReadAll(r.Body)
			handler(w, r)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newTranslator := func(cfg translate.Config) *translate.Translator {
		if cfg.Provider == "" {
			cfg.Provider = "openai"
		}
		if cfg.APIKeys == "" {
			cfg.APIKeys = "sk-test"
		}
		if cfg.Model == "" {
			cfg.Model = "gpt-4o-mini"
		}
		if cfg.APIURL == "" {
			cfg.APIURL = server.URL
		}
		t, err := translate.New(cfg, translate.WithDoer(server.Client()))
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		return t
	}

	Describe("New", func() {
		It("rejects an invalid config before any request", func() {
			_, err := translate.New(translate.Config{Provider: "openai"})
			Expect(kindOf(err)).To(Equal(llm.ErrorSecretKey))
		})

		It("rejects unknown providers", func() {
			_, err := translate.New(translate.Config{Provider: "claude", APIKeys: "k"})
			Expect(kindOf(err)).To(Equal(llm.ErrorParam))
		})

		It("applies defaults", func() {
			t := newTranslator(translate.Config{})
			Expect(t.Config().Timeout).To(Equal(translate.DefaultTimeout))
			Expect(t.Provider().Name()).To(Equal("openai"))
		})
	})

	Describe("streaming", func() {
		It("streams partial results and returns the final text", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				writeEvents(w,
					"event: response.created\ndata: {\"type\":\"response.created\"}\n\n",
					deltaFrame("Bon"),
					deltaFrame("jour"),
					"event: response.completed\ndata: {\"type\":\"response.completed\"}\n\n",
				)
			}

			var partials []string
			t := newTranslator(translate.Config{Stream: true})
			result, err := t.Translate(context.Background(),
				translate.Query{Text: "Hello", From: "en", To: "fr"},
				translate.OnPartial(func(text string) { partials = append(partials, text) }),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Paragraphs).To(Equal([]string{"Bonjour"}))
			Expect(result.From).To(Equal("en"))
			Expect(result.To).To(Equal("fr"))
			Expect(partials).To(Equal([]string{"Bon", "Bonjour"}))

			Expect(lastReq.URL.Path).To(Equal("/v1/responses"))
			Expect(lastReq.Header.Get("Authorization")).To(Equal("Bearer sk-test"))
			Expect(gjson.GetBytes(lastBody, "stream").Bool()).To(BeTrue())
			Expect(gjson.GetBytes(lastBody, "input").String()).To(Equal("translate from English to French:\n\nHello"))
		})

		It("maps a non-2xx stream to the provider error", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
			}

			t := newTranslator(translate.Config{Stream: true})
			_, err := t.Translate(context.Background(), translate.Query{Text: "x", To: "fr"})
			se, ok := llm.AsServiceError(err)
			Expect(ok).To(BeTrue())
			Expect(se.Kind).To(Equal(llm.ErrorSecretKey))
			Expect(se.Message).To(Equal("Incorrect API key provided"))
		})

		It("returns ErrCancelled when the caller cancels mid-stream", func() {
			release := make(chan struct{})
			handler = func(w http.ResponseWriter, r *http.Request) {
				writeEvents(w, deltaFrame("first"))
				select {
				case <-release:
				case <-r.Context().Done():
				}
			}
			defer close(release)

			ctx, cancel := context.WithCancel(context.Background())
			t := newTranslator(translate.Config{Stream: true})
			_, err := t.Translate(ctx, translate.Query{Text: "x", To: "de"},
				translate.OnPartial(func(string) { cancel() }),
			)
			Expect(err).To(MatchError(translate.ErrCancelled))
		})

		It("streams Gemini JSON arrays", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				flusher := w.(http.Flusher)
				fmt.Fprint(w, `[{"candidates":[{"content":{"parts":[{"text":"Hal"}]}}]}`)
				flusher.Flush()
				fmt.Fprint(w, "\n,")
				flusher.Flush()
				fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"lo"}]}}]}]`)
			}

			t := newTranslator(translate.Config{Provider: "gemini", Model: "gemini-2.0-flash", Stream: true})
			result, err := t.Translate(context.Background(), translate.Query{Text: "Hello", From: "en", To: "de"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text()).To(Equal("Hallo"))
			Expect(lastReq.URL.Path).To(Equal("/gemini-2.0-flash:streamGenerateContent"))
			Expect(lastReq.Header.Get("x-goog-api-key")).To(Equal("sk-test"))
		})

		It("maps a timeout to a network error", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				<-r.Context().Done()
			}
			t := newTranslator(translate.Config{Stream: true, Timeout: 50 * time.Millisecond})
			_, err := t.Translate(context.Background(), translate.Query{Text: "x", To: "fr"})
			Expect(kindOf(err)).To(Equal(llm.ErrorNetwork))
		})
	})

	Describe("Capture", func() {
		It("copies the raw stream while translating", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				writeEvents(w, deltaFrame("Hal"), deltaFrame("lo"))
			}

			var raw bytes.Buffer
			t := newTranslator(translate.Config{Stream: true})
			result, err := t.Translate(context.Background(),
				translate.Query{Text: "Hello", To: "de"},
				translate.Capture(&raw),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text()).To(Equal("Hallo"))

			events := sse.NewReader(&raw)
			first, err := events.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Type).To(Equal("response.output_text.delta"))
			Expect(gjson.Get(first.Data, "delta").String()).To(Equal("Hal"))

			second, err := events.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(gjson.Get(second.Data, "delta").String()).To(Equal("lo"))
		})
	})

	Describe("non-streaming", func() {
		It("splits the response into paragraphs", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"「Ligne un\nLigne deux」"}}]}`)
			}

			t := newTranslator(translate.Config{Provider: "compatible", APIURL: server.URL + "/v1/chat/completions"})
			result, err := t.Translate(context.Background(), translate.Query{Text: "Line one\nLine two", From: "en", To: "fr"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Paragraphs).To(Equal([]string{"Ligne un", "Ligne deux"}))
			Expect(result.Raw).To(Equal("「Ligne un\nLigne deux」"))
			Expect(lastReq.URL.Path).To(Equal("/v1/chat/completions"))
			Expect(gjson.GetBytes(lastBody, "stream").Bool()).To(BeFalse())
		})

		It("uses the general mapping for unrecognized error bodies", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprint(w, "maintenance")
			}

			t := newTranslator(translate.Config{})
			_, err := t.Translate(context.Background(), translate.Query{Text: "x", To: "fr"})
			se, ok := llm.AsServiceError(err)
			Expect(ok).To(BeTrue())
			Expect(se.Kind).To(Equal(llm.ErrorAPI))
			Expect(se.Message).To(Equal("接口响应错误 - Service Unavailable"))
			Expect(se.TroubleshootingLink).NotTo(BeEmpty())
		})

		It("honours a per-call streaming override", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				writeEvents(w, deltaFrame("Ja"))
			}
			t := newTranslator(translate.Config{Stream: false})
			result, err := t.Translate(context.Background(), translate.Query{Text: "Yes", To: "de"}, translate.Streaming(true))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text()).To(Equal("Ja"))
		})
	})

	It("rejects unsupported target languages", func() {
		t := newTranslator(translate.Config{})
		_, err := t.Translate(context.Background(), translate.Query{Text: "x", To: "tlh"})
		Expect(kindOf(err)).To(Equal(llm.ErrorUnsupportedLanguage))
		Expect(lastReq).To(BeNil())
	})

	It("maps connection failures to network errors", func() {
		t := newTranslator(translate.Config{})
		server.Close()
		_, err := t.Translate(context.Background(), translate.Query{Text: "x", To: "fr"})
		Expect(kindOf(err)).To(Equal(llm.ErrorNetwork))
	})

	Describe("Validate", func() {
		It("lists OpenAI models", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"object":"list","data":[{"id":"gpt-4o"}]}`)
			}
			t := newTranslator(translate.Config{})
			Expect(t.Validate(context.Background())).To(Succeed())
			Expect(lastReq.Method).To(Equal(http.MethodGet))
			Expect(lastReq.URL.Path).To(Equal("/v1/models"))
		})

		It("posts a probe to Azure", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"id":"resp_1","output_text":"OK"}`)
			}
			t := newTranslator(translate.Config{
				Provider: "azure",
				APIURL:   server.URL + "/openai/deployments/gpt-4o/responses?api-version=preview",
			})
			Expect(t.Validate(context.Background())).To(Succeed())
			Expect(lastReq.Method).To(Equal(http.MethodPost))
			Expect(lastReq.Header.Get("api-key")).To(Equal("sk-test"))
			Expect(gjson.GetBytes(lastBody, "model").String()).To(Equal("gpt-4o"))
		})

		It("reports rejected keys", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`)
			}
			t := newTranslator(translate.Config{Provider: "gemini", Model: "gemini-2.0-flash"})
			err := t.Validate(context.Background())
			se, ok := llm.AsServiceError(err)
			Expect(ok).To(BeTrue())
			Expect(se.Kind).To(Equal(llm.ErrorSecretKey))
			Expect(se.TroubleshootingLink).To(ContainSubstring("gemini"))
		})
	})
})
