// Package translatecmder provides the translate command.
package translatecmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/papercomputeco/lingo/api/worker"
	"github.com/papercomputeco/lingo/cmd/lingo/setup"
	"github.com/papercomputeco/lingo/pkg/client"
	"github.com/papercomputeco/lingo/pkg/cliui"
	"github.com/papercomputeco/lingo/pkg/config"
	"github.com/papercomputeco/lingo/pkg/dotdir"
	"github.com/papercomputeco/lingo/pkg/lang"
	"github.com/papercomputeco/lingo/pkg/storage/sqlite"
	"github.com/papercomputeco/lingo/pkg/translate"
)

// fileConcurrency bounds the paragraphs of --file translated at once.
const fileConcurrency = 4

type translateCommander struct {
	from      string
	to        string
	file      string
	markdown  bool
	capture   string
	record    bool
	apiTarget string

	// Provider flag targets. Values are read through viper.
	provider    string
	apiURL      string
	model       string
	customModel string
	stream      bool
	timeout     string

	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
}

const translateLongDesc string = `Translate text with the configured LLM provider.

The text is taken from the arguments, from --file, or from stdin. When
streaming is enabled the translation is printed as it arrives.

With --api-target the request goes to a running "lingo serve" instead of
calling the provider directly.

Examples:
  lingo translate --to fr "Good morning"
  echo "Guten Morgen" | lingo translate --to en
  lingo translate --to ja --file README.md --markdown
  lingo translate --to zh-Hans --capture stream.sse "Hello"
  lingo translate --api-target http://localhost:8787 --to de "Hello"`

const translateShortDesc string = "Translate text"

func NewTranslateCmd() *cobra.Command {
	cmder := &translateCommander{}

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: translateShortDesc,
		Long:  translateLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.out = cmd.OutOrStdout()
			cmder.errOut = cmd.ErrOrStderr()
			cmder.logger = setup.Logger(cmd)

			text, err := cmder.input(cmd, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cmd.Flags().Changed(config.FlagAPITarget) {
				return cmder.runRemote(ctx, text)
			}

			cfg, err := setup.Load(cmd, setup.Provider())
			if err != nil {
				return err
			}
			return cmder.run(ctx, cmd, cfg, text)
		},
	}

	cmd.Flags().StringVarP(&cmder.from, "from", "f", lang.Auto, "Source language code")
	cmd.Flags().StringVarP(&cmder.to, "to", "t", lang.SimplifiedChinese, "Target language code")
	cmd.Flags().StringVar(&cmder.file, "file", "", "Translate the paragraphs of a file")
	cmd.Flags().BoolVar(&cmder.markdown, "markdown", false, "Render the translation as markdown")
	cmd.Flags().StringVar(&cmder.capture, "capture", "", "Write the raw provider response to this file")
	cmd.Flags().BoolVar(&cmder.record, "record", false, "Store the translation in the local sqlite history")

	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagAPIURL, &cmder.apiURL)
	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagCustomModel, &cmder.customModel)
	config.AddBoolFlag(cmd, config.ProviderFlags, config.FlagStream, &cmder.stream)
	config.AddStringFlag(cmd, config.ProviderFlags, config.FlagTimeout, &cmder.timeout)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagAPITarget, &cmder.apiTarget)

	return cmd
}

// input returns the text to translate.
func (c *translateCommander) input(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case c.file != "":
		data, err := os.ReadFile(c.file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", c.file, err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		fi, err := f.Stat()
		if err != nil {
			return "", fmt.Errorf("checking stdin: %w", err)
		}
		if fi.Mode()&os.ModeCharDevice != 0 {
			return "", errors.New("no text given: pass it as arguments, with --file, or on stdin")
		}
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("no text given on stdin")
	}
	return string(data), nil
}

func (c *translateCommander) run(ctx context.Context, cmd *cobra.Command, cfg *config.Config, text string) error {
	tr, err := setup.NewTranslator(cfg, setup.ConfigDir(cmd), c.logger)
	if err != nil {
		return err
	}

	var rec *recorder
	if c.record {
		rec, err = newRecorder(ctx, cfg, setup.ConfigDir(cmd), c.logger)
		if err != nil {
			return err
		}
		defer rec.Close()
	}

	q := translate.Query{Text: text, From: c.from, To: c.to}

	if c.file != "" {
		return c.runFile(ctx, tr, rec, q)
	}

	opts := []translate.CallOption{}
	if c.capture != "" {
		f, err := os.Create(c.capture)
		if err != nil {
			return fmt.Errorf("creating capture file: %w", err)
		}
		defer f.Close()
		opts = append(opts, translate.Capture(f))
	}

	live := cfg.Provider.Stream && !c.markdown
	var lw *cliui.LiveWriter
	if live {
		lw = cliui.NewLiveWriter(c.out)
		opts = append(opts, translate.OnPartial(lw.Update))
	}

	started := time.Now()
	res, err := tr.Translate(ctx, q, opts...)
	rec.add(tr, q, res, err, cfg.Provider.Stream, started)
	if err != nil {
		if live && lw.Printed() != "" {
			fmt.Fprintln(c.out)
		}
		return setup.DescribeError(err)
	}

	if live {
		// The cleaned result can differ from the raw stream.
		if res.Text() != lw.Printed() {
			lw.Update(res.Text())
		}
		fmt.Fprintln(c.out)
		return nil
	}
	return c.print(res.Text())
}

// runFile translates the paragraphs of a file concurrently and prints them
// in their original order.
func (c *translateCommander) runFile(ctx context.Context, tr *translate.Translator, rec *recorder, q translate.Query) error {
	paragraphs := splitParagraphs(q.Text)
	results := make([]string, len(paragraphs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fileConcurrency)

	for i, p := range paragraphs {
		g.Go(func() error {
			pq := translate.Query{Text: p, From: q.From, To: q.To}
			started := time.Now()
			res, err := tr.Translate(gctx, pq, translate.Streaming(false))
			rec.add(tr, pq, res, err, false, started)
			if err != nil {
				return fmt.Errorf("paragraph %d: %w", i+1, setup.DescribeError(err))
			}
			results[i] = res.Text()
			return nil
		})
	}

	msg := fmt.Sprintf("Translating %d paragraphs of %s", len(paragraphs), filepath.Base(c.file))
	if err := cliui.Step(c.errOut, msg, g.Wait); err != nil {
		return err
	}

	return c.print(strings.Join(results, "\n\n"))
}

func (c *translateCommander) runRemote(ctx context.Context, text string) error {
	cl := client.New(c.apiTarget, client.WithLogger(c.logger))
	q := translate.Query{Text: text, From: c.from, To: c.to}

	if c.markdown {
		res, err := cl.Translate(ctx, q, client.Streaming(false))
		if err != nil {
			return setup.DescribeError(err)
		}
		return c.print(res.Text())
	}

	lw := cliui.NewLiveWriter(c.out)
	res, err := cl.Translate(ctx, q, client.OnPartial(lw.Update))
	if err != nil {
		if lw.Printed() != "" {
			fmt.Fprintln(c.out)
		}
		return setup.DescribeError(err)
	}
	if res.Text() != lw.Printed() {
		lw.Update(res.Text())
	}
	fmt.Fprintln(c.out)
	return nil
}

func (c *translateCommander) print(text string) error {
	if c.markdown {
		rendered, err := cliui.RenderMarkdown(text)
		if err != nil {
			c.logger.Debug("markdown rendering failed", "error", err)
		}
		_, err = fmt.Fprint(c.out, rendered)
		return err
	}
	_, err := fmt.Fprintln(c.out, text)
	return err
}

// splitParagraphs splits on blank lines and drops empty paragraphs.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// recorder persists CLI translations to the local sqlite history.
type recorder struct {
	pool   *worker.Pool
	driver *sqlite.SQLiteDriver
}

func newRecorder(ctx context.Context, cfg *config.Config, configDir string, log *slog.Logger) (*recorder, error) {
	path := cfg.Storage.SQLitePath
	if path == "" {
		dir, err := dotdir.NewManager().Ensure(configDir)
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "lingo.sqlite")
	}

	driver, err := sqlite.NewSQLiteDriver(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	pool, err := worker.NewPool(&worker.Config{Driver: driver, NumWorkers: 1, Logger: log})
	if err != nil {
		driver.Close()
		return nil, err
	}
	return &recorder{pool: pool, driver: driver}, nil
}

// add is a no-op on a nil recorder.
func (r *recorder) add(tr *translate.Translator, q translate.Query, res *translate.Result, err error, streaming bool, started time.Time) {
	if r == nil {
		return
	}
	r.pool.Enqueue(worker.Job{
		Record: worker.NewRecord(worker.Outcome{
			Config:    tr.Config(),
			Query:     q,
			Result:    res,
			Err:       err,
			Streaming: streaming,
			StartedAt: started,
			EndedAt:   time.Now(),
		}),
		Surface: "cli",
	})
}

func (r *recorder) Close() {
	r.pool.Close()
	r.driver.Close()
}
