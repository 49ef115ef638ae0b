package mcp_test

import (
	"context"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/lingo/api/mcp"
	"github.com/papercomputeco/lingo/api/worker"
	lingologger "github.com/papercomputeco/lingo/pkg/logger"
	"github.com/papercomputeco/lingo/pkg/storage"
	"github.com/papercomputeco/lingo/pkg/storage/inmemory"
	"github.com/papercomputeco/lingo/pkg/translate"
	testutils "github.com/papercomputeco/lingo/pkg/utils/test"
)

// connect wires an SDK client to server over in-memory transports.
func connect(ctx context.Context, server *mcp.Server) *sdkmcp.ClientSession {
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()

	_, err := server.MCPServer().Connect(ctx, serverTransport, nil)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return session
}

var _ = Describe("MCP Server", func() {
	var (
		up      *testutils.Upstream
		handle  *translate.Handle
		driver  *inmemory.Driver
		pool    *worker.Pool
		server  *mcp.Server
		ctx     context.Context
		session *sdkmcp.ClientSession
	)

	BeforeEach(func() {
		ctx = context.Background()
		up = testutils.NewUpstream("Bon", "jour")
		handle = translate.NewHandle(up.Translator())
		driver = inmemory.NewDriver()

		var err error
		pool, err = worker.NewPool(&worker.Config{Driver: driver, NumWorkers: 1})
		Expect(err).NotTo(HaveOccurred())

		server, err = mcp.NewServer(mcp.Config{
			Translators: handle,
			Pool:        pool,
			Logger:      lingologger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if session != nil {
			_ = session.Close()
			session = nil
		}
		pool.Close()
		up.Close()
	})

	Describe("NewServer", func() {
		It("returns an error when the translator is missing", func() {
			_, err := mcp.NewServer(mcp.Config{
				Translators: translate.NewHandle(nil),
				Logger:      lingologger.Nop(),
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("translator is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Translators: handle})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("builds an empty server in noop mode", func() {
			s, err := mcp.NewServer(mcp.Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.MCPServer()).NotTo(BeNil())
		})

		It("returns an HTTP handler", func() {
			var h http.Handler = server.Handler()
			Expect(h).NotTo(BeNil())
		})
	})

	Describe("tools", func() {
		BeforeEach(func() {
			session = connect(ctx, server)
		})

		It("lists translate and languages", func() {
			res, err := session.ListTools(ctx, &sdkmcp.ListToolsParams{})
			Expect(err).NotTo(HaveOccurred())

			var names []string
			for _, t := range res.Tools {
				names = append(names, t.Name)
			}
			Expect(names).To(ConsistOf("translate", "languages"))
		})

		It("translates text", func() {
			res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
				Name:      "translate",
				Arguments: map[string]any{"text": "Hello", "from": "en", "to": "fr"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())

			out, ok := res.StructuredContent.(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(out["text"]).To(Equal("Bonjour"))
			Expect(out["from"]).To(Equal("en"))
			Expect(out["to"]).To(Equal("fr"))

			pool.Close()
			records, err := driver.List(ctx, storage.ListOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Status).To(Equal(storage.StatusCompleted))
			Expect(records[0].Streaming).To(BeFalse())
		})

		It("reports translation failures as tool errors", func() {
			up.FailWith(http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided"}}`)

			res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
				Name:      "translate",
				Arguments: map[string]any{"text": "Hello", "to": "fr"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(res.Content).To(HaveLen(1))

			text, ok := res.Content[0].(*sdkmcp.TextContent)
			Expect(ok).To(BeTrue())
			Expect(text.Text).To(ContainSubstring("secretKey"))
			Expect(text.Text).To(ContainSubstring("Incorrect API key provided"))
		})

		It("lists supported languages", func() {
			res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
				Name:      "languages",
				Arguments: map[string]any{},
			})
			Expect(err).NotTo(HaveOccurred())

			out, ok := res.StructuredContent.(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(out["languages"]).NotTo(BeEmpty())
		})
	})
})
