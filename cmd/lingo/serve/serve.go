// Package servecmder provides the serve command, which runs the lingo API
// and MCP endpoint.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/lingo/api"
	"github.com/papercomputeco/lingo/api/mcp"
	"github.com/papercomputeco/lingo/api/worker"
	"github.com/papercomputeco/lingo/cmd/lingo/setup"
	"github.com/papercomputeco/lingo/pkg/config"
	"github.com/papercomputeco/lingo/pkg/eventstream"
	"github.com/papercomputeco/lingo/pkg/eventstream/kafka"
	"github.com/papercomputeco/lingo/pkg/eventstream/nop"
	"github.com/papercomputeco/lingo/pkg/logger"
	"github.com/papercomputeco/lingo/pkg/storage"
	"github.com/papercomputeco/lingo/pkg/storage/inmemory"
	"github.com/papercomputeco/lingo/pkg/storage/postgres"
	"github.com/papercomputeco/lingo/pkg/storage/sqlite"
	"github.com/papercomputeco/lingo/pkg/translate"
)

type ServeCommander struct {
	listen       string
	sqlitePath   string
	postgresDSN  string
	kafkaBrokers string
	kafkaTopic   string
	noMCP        bool
	noWatch      bool
	jsonLogs     bool
	logFile      string

	provider    string
	apiURL      string
	model       string
	customModel string
	stream      bool
	timeout     string

	cmd       *cobra.Command
	configDir string
	logger    *slog.Logger
}

var serveKeys = []string{
	config.FlagAPIListen,
	config.FlagSQLite,
	config.FlagPostgres,
	config.FlagKafka,
	config.FlagKafkaTopic,
}

const serveLongDesc string = `Run the lingo translation server.

Serves the HTTP API (POST /v1/translate with JSON or SSE responses,
GET /v1/languages, GET /v1/history) and an MCP endpoint at /mcp with
translate and languages tools.

Every translation is stored in the history database: PostgreSQL with
--postgres, SQLite with --sqlite, in memory otherwise. With --kafka-brokers
a lingo.translation.completed event is published for each translation.

Changes to config.toml are picked up without a restart.

Examples:
  lingo serve
  lingo serve --listen :9000 --sqlite ./lingo.sqlite
  lingo serve --postgres postgres://localhost/lingo --kafka-brokers localhost:9092`

const serveShortDesc string = "Run the lingo translation server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.cmd = cmd
			cmder.configDir = setup.ConfigDir(cmd)

			debug, err := cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.logger = logger.New(
				logger.WithDebug(debug),
				logger.WithJSON(cmder.jsonLogs),
				logger.WithPretty(!cmder.jsonLogs),
				logger.WithWriter(cmd.ErrOrStderr()),
			)
			if cmder.logFile != "" {
				fileLogger, f, err := logger.File(cmder.logFile, debug)
				if err != nil {
					return err
				}
				defer f.Close()
				cmder.logger = logger.Multi(cmder.logger, fileLogger)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return cmder.run(ctx)
		},
	}

	config.AddStringFlag(cmd, config.ServeFlags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagPostgres, &cmder.postgresDSN)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagKafka, &cmder.kafkaBrokers)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagKafkaTopic, &cmder.kafkaTopic)

	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagAPIURL, &cmder.apiURL)
	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagCustomModel, &cmder.customModel)
	config.AddBoolFlag(cmd, config.ProviderFlags, config.FlagStream, &cmder.stream)
	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagTimeout, &cmder.timeout)

	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Disable the MCP tools")
	cmd.Flags().BoolVar(&cmder.noWatch, "no-watch", false, "Do not reload config.toml on change")
	cmd.Flags().BoolVar(&cmder.jsonLogs, "json-logs", false, "Log JSON instead of pretty text")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

// loadConfig resolves flags, env and config.toml for serve.
func (c *ServeCommander) loadConfig() (*config.Config, error) {
	return setup.Load(c.cmd,
		setup.Provider(),
		setup.BoundSet{Flags: config.ServeFlags, Keys: serveKeys},
	)
}

func (c *ServeCommander) run(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	tr, err := setup.NewTranslator(cfg, c.configDir, c.logger)
	if err != nil {
		return setup.DescribeError(err)
	}
	translators := translate.NewHandle(tr)

	driver, err := c.newStorageDriver(ctx, cfg)
	if err != nil {
		return err
	}
	defer driver.Close()

	publisher, err := c.newPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	pool, err := worker.NewPool(&worker.Config{
		Driver:    driver,
		Publisher: publisher,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}
	// Closed after the server so in-flight translations are still recorded.
	defer pool.Close()

	mcpServer, err := mcp.NewServer(mcp.Config{
		Translators: translators,
		Pool:        pool,
		Noop:        c.noMCP,
		Logger:      c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	apiConfig := api.Config{ListenAddr: cfg.API.Listen}
	if !c.noMCP {
		apiConfig.MCPHandler = mcpServer.Handler()
	}

	server, err := api.NewServer(apiConfig, translators, driver, pool, c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if !c.noWatch {
		c.watch(ctx, translators)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	c.logger.Info("lingo server ready",
		"listen", cfg.API.Listen,
		"provider", cfg.Provider.Type,
		"model", tr.Config().ResolvedModel(),
		"mcp", !c.noMCP,
	)

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		c.logger.Info("shutting down")
		return server.Shutdown()
	}
}

// watch swaps in a new translator whenever config.toml changes. A config
// that fails validation keeps the current translator.
func (c *ServeCommander) watch(ctx context.Context, translators *translate.Handle) {
	cfger, err := config.NewConfiger(c.configDir)
	if err != nil || cfger.GetTarget() == "" {
		c.logger.Debug("config watch disabled, no config directory")
		return
	}

	go func() {
		err := cfger.Watch(ctx, c.logger, func(*config.Config) {
			c.reload(translators)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Warn("config watch stopped", "error", err)
		}
	}()
}

// reload rebuilds the translator through the full precedence chain, so
// flags still win over the edited file.
func (c *ServeCommander) reload(translators *translate.Handle) {
	cfg, err := c.loadConfig()
	if err != nil {
		c.logger.Error("reloading config failed", "error", err)
		return
	}

	tr, err := setup.NewTranslator(cfg, c.configDir, c.logger)
	if err != nil {
		c.logger.Error("new provider config rejected, keeping the current one", "error", err)
		return
	}

	translators.Store(tr)
	c.logger.Info("provider config reloaded",
		"provider", cfg.Provider.Type,
		"model", tr.Config().ResolvedModel(),
	)
}

func (c *ServeCommander) newStorageDriver(ctx context.Context, cfg *config.Config) (storage.Driver, error) {
	switch {
	case cfg.Storage.PostgresDSN != "":
		driver, err := postgres.NewDriver(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL driver: %w", err)
		}
		c.logger.Info("using PostgreSQL storage")
		return driver, nil

	case cfg.Storage.SQLitePath != "":
		driver, err := sqlite.NewSQLiteDriver(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite driver: %w", err)
		}
		c.logger.Info("using SQLite storage", "path", cfg.Storage.SQLitePath)
		return driver, nil
	}

	c.logger.Info("using in-memory storage")
	return inmemory.NewDriver(), nil
}

func (c *ServeCommander) newPublisher(cfg *config.Config) (eventstream.Publisher, error) {
	if cfg.Events.KafkaBrokers == "" {
		return nop.NewPublisher(), nil
	}

	publisher, err := kafka.NewPublisher(kafka.Config{
		Brokers: cfg.Events.KafkaBrokers,
		Topic:   cfg.Events.KafkaTopic,
	})
	if err != nil {
		return nil, fmt.Errorf("creating kafka publisher: %w", err)
	}
	c.logger.Info("publishing translation events",
		"brokers", cfg.Events.KafkaBrokers,
		"topic", cfg.Events.KafkaTopic,
	)
	return publisher, nil
}
