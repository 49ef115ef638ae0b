// Package historycmder provides the history command, which reads stored
// translations from a running lingo server.
package historycmder

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/lingo/cmd/lingo/setup"
	"github.com/papercomputeco/lingo/pkg/cliui"
	"github.com/papercomputeco/lingo/pkg/client"
	"github.com/papercomputeco/lingo/pkg/config"
	"github.com/papercomputeco/lingo/pkg/storage"
)

type historyCommander struct {
	apiTarget string
	limit     int
	offset    int
	provider  string

	out io.Writer
}

const historyLongDesc string = `Show translations stored by a running lingo server.

Without arguments the most recent translations are listed, newest first.
With an id the full record is shown.

Examples:
  lingo history
  lingo history --limit 5 --provider gemini
  lingo history 2f6c9a0e-...`

const historyShortDesc string = "Show translation history"

func NewHistoryCmd() *cobra.Command {
	cmder := &historyCommander{}

	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.out = cmd.OutOrStdout()

			cfg, err := setup.Load(cmd, setup.BoundSet{
				Flags: config.ClientFlags,
				Keys:  []string{config.FlagAPITarget},
			})
			if err != nil {
				return err
			}
			cl := client.New(cfg.Client.APITarget)

			if len(args) == 1 {
				return cmder.show(cmd.Context(), cl, args[0])
			}
			return cmder.list(cmd.Context(), cl)
		},
	}

	config.AddStringFlag(cmd, config.ClientFlags, config.FlagAPITarget, &cmder.apiTarget)
	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", storage.DefaultListLimit, "Number of translations to show")
	cmd.Flags().IntVar(&cmder.offset, "offset", 0, "Number of translations to skip")
	cmd.Flags().StringVar(&cmder.provider, "provider", "", "Only show translations from this provider")

	return cmd
}

func (c *historyCommander) list(ctx context.Context, cl *client.Client) error {
	hr, err := cl.History(ctx, storage.ListOptions{
		Limit:    c.limit,
		Offset:   c.offset,
		Provider: c.provider,
	})
	if err != nil {
		return setup.DescribeError(err)
	}

	if hr.Count == 0 {
		fmt.Fprintf(c.out, "\n  %s No translations stored.\n\n", cliui.DimStyle.Render("●"))
		return nil
	}

	width := cliui.TerminalWidth()
	fmt.Fprintf(c.out, "\n  %s %s\n\n",
		cliui.HeaderStyle.Render("Translations"),
		cliui.DimStyle.Render(fmt.Sprintf("(%d of %d)", hr.Count, hr.Total)),
	)
	for _, rec := range hr.Records {
		line := fmt.Sprintf("  %s %s  %s  %s→%s  %s",
			markFor(rec.Status),
			cliui.DimStyle.Render(rec.StartedAt.Local().Format(time.DateTime)),
			cliui.NameStyle.Render(rec.Provider),
			rec.From,
			rec.To,
			oneLine(summary(rec)),
		)
		fmt.Fprintln(c.out, cliui.TruncateLine(line, width))
	}
	fmt.Fprintln(c.out)
	return nil
}

func (c *historyCommander) show(ctx context.Context, cl *client.Client, id string) error {
	rec, err := cl.Record(ctx, id)
	if err != nil {
		return setup.DescribeError(err)
	}

	field := func(k, v string) {
		fmt.Fprintf(c.out, "  %-10s %s\n", cliui.KeyStyle.Render(k), v)
	}

	fmt.Fprintln(c.out)
	field("id", rec.ID)
	field("status", fmt.Sprintf("%s %s", markFor(rec.Status), rec.Status))
	field("provider", rec.Provider)
	field("model", rec.Model)
	field("languages", rec.From+" → "+rec.To)
	field("streaming", fmt.Sprintf("%t", rec.Streaming))
	field("started", rec.StartedAt.Local().Format(time.DateTime))
	field("duration", cliui.FormatDuration(time.Duration(rec.DurationMs)*time.Millisecond))
	if rec.ErrorKind != "" || rec.ErrorMessage != "" {
		field("error", strings.TrimSpace(rec.ErrorKind+" "+rec.ErrorMessage))
	}

	fmt.Fprintf(c.out, "\n%s\n%s\n", cliui.HeaderStyle.Render("Source"), rec.SourceText)
	if rec.TranslatedText != "" {
		fmt.Fprintf(c.out, "\n%s\n%s\n", cliui.HeaderStyle.Render("Translation"), rec.TranslatedText)
	}
	fmt.Fprintln(c.out)
	return nil
}

func markFor(status storage.Status) string {
	switch status {
	case storage.StatusCompleted:
		return cliui.SuccessMark
	case storage.StatusCancelled:
		return cliui.WarnStyle.Render("-")
	default:
		return cliui.FailMark
	}
}

func summary(rec *storage.Record) string {
	if rec.Status == storage.StatusCompleted {
		return rec.TranslatedText
	}
	if rec.ErrorMessage != "" {
		return rec.ErrorMessage
	}
	return rec.SourceText
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
