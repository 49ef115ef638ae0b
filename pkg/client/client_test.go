package client_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gofiber/adaptor/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/lingo/api"
	"github.com/papercomputeco/lingo/pkg/client"
	"github.com/papercomputeco/lingo/pkg/lang"
	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/logger"
	"github.com/papercomputeco/lingo/pkg/storage"
	"github.com/papercomputeco/lingo/pkg/storage/inmemory"
	"github.com/papercomputeco/lingo/pkg/translate"
	testutils "github.com/papercomputeco/lingo/pkg/utils/test"
)

var _ = Describe("Client", func() {
	var (
		ctx context.Context
		up  *testutils.Upstream
		srv *httptest.Server
		c   *client.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		up = testutils.NewUpstream("Bon", "jour")

		driver := inmemory.NewDriver()
		Expect(driver.Put(ctx, &storage.Record{
			ID:        "rec-1",
			Provider:  "openai",
			To:        "fr",
			Status:    storage.StatusCompleted,
			StartedAt: time.Now(),
		})).To(Succeed())

		server, err := api.NewServer(api.Config{}, translate.NewHandle(up.Translator()), driver, nil, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		srv = httptest.NewServer(adaptor.FiberApp(server.App()))
		c = client.New(srv.URL + "/")
	})

	AfterEach(func() {
		srv.Close()
		up.Close()
	})

	It("pings the server", func() {
		Expect(c.Ping(ctx)).To(Succeed())
	})

	It("lists languages", func() {
		langs, err := c.Languages(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(langs).To(ContainElement(lang.Language{Code: "en", Name: "English"}))
	})

	It("translates without streaming", func() {
		res, err := c.Translate(ctx, translate.Query{Text: "Hello", From: "en", To: "fr"})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Text()).To(Equal("Bonjour"))
	})

	It("streams partial results", func() {
		var partials []string
		res, err := c.Translate(ctx, translate.Query{Text: "Hello", To: "fr"},
			client.OnPartial(func(text string) { partials = append(partials, text) }),
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Text()).To(Equal("Bonjour"))
		Expect(partials).To(Equal([]string{"Bon", "Bonjour"}))
	})

	It("returns the server's ServiceError", func() {
		up.FailWith(http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided"}}`)

		_, err := c.Translate(ctx, translate.Query{Text: "Hello", To: "fr"})
		se, ok := llm.AsServiceError(err)
		Expect(ok).To(BeTrue())
		Expect(se.Kind).To(Equal(llm.ErrorSecretKey))
	})

	It("returns a streamed error event as a ServiceError", func() {
		up.FailWith(http.StatusInternalServerError, `{"error":{"message":"overloaded"}}`)

		_, err := c.Translate(ctx, translate.Query{Text: "Hello", To: "fr"}, client.Streaming(true))
		se, ok := llm.AsServiceError(err)
		Expect(ok).To(BeTrue())
		Expect(se.Kind).To(Equal(llm.ErrorAPI))
		Expect(se.Message).To(Equal("overloaded"))
	})

	It("reads history", func() {
		hr, err := c.History(ctx, storage.ListOptions{Limit: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(hr.Total).To(Equal(1))
		Expect(hr.Records[0].ID).To(Equal("rec-1"))

		rec, err := c.Record(ctx, "rec-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Provider).To(Equal("openai"))

		_, err = c.Record(ctx, "missing")
		se, ok := llm.AsServiceError(err)
		Expect(ok).To(BeTrue())
		Expect(se.Kind).To(Equal(llm.ErrorNotFound))
	})
})

var _ = Describe("Client against a raw stream", func() {
	It("fails when the stream ends without a result", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, "event: partial\ndata: {\"text\":\"Bon\"}\n\n")
		}))
		defer srv.Close()

		_, err := client.New(srv.URL).Translate(context.Background(),
			translate.Query{Text: "Hello", To: "fr"}, client.Streaming(true))
		Expect(err).To(MatchError(client.ErrIncompleteStream))
	})

	It("maps a connection failure to a network error", func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		err := client.New(addr).Ping(context.Background())
		se, ok := llm.AsServiceError(err)
		Expect(ok).To(BeTrue())
		Expect(se.Kind).To(Equal(llm.ErrorNetwork))
	})
})
