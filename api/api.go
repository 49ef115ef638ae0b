package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/lingo/api/worker"
	"github.com/papercomputeco/lingo/pkg/storage"
	"github.com/papercomputeco/lingo/pkg/translate"
)

// Server is the API server for the lingo translation service
type Server struct {
	config      Config
	translators *translate.Handle
	storer      storage.Driver
	pool        *worker.Pool
	logger      *slog.Logger
	app         *fiber.App
}

// NewServer creates a new API server.
// The storer is read for history endpoints; the pool, when non-nil, records
// every translation the server performs.
func NewServer(config Config, translators *translate.Handle, storer storage.Driver, pool *worker.Pool, logger *slog.Logger) (*Server, error) {
	if translators == nil || translators.Load() == nil {
		return nil, errors.New("translator is required")
	}
	if storer == nil {
		return nil, errors.New("storage driver is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:      config,
		translators: translators,
		storer:      storer,
		pool:        pool,
		logger:      logger,
		app:         app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/v1/languages", s.handleLanguages)
	app.Post("/v1/translate", s.handleTranslate)
	app.Get("/v1/history", s.handleListHistory)
	app.Get("/v1/history/:id", s.handleGetHistory)

	if config.MCPHandler != nil {
		app.All("/mcp", adaptor.HTTPHandler(config.MCPHandler))
	}

	return s, nil
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
