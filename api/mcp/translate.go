package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/lingo/api/worker"
	"github.com/papercomputeco/lingo/pkg/lang"
	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/translate"
)

var (
	translateToolName    = "translate"
	translateDescription = "Translate text between languages with the configured LLM provider. Use the languages tool for the supported language codes."

	languagesToolName    = "languages"
	languagesDescription = "List the language codes and names the translate tool accepts."
)

// TranslateInput represents the input arguments for the translate tool.
type TranslateInput struct {
	Text string `json:"text" jsonschema:"the text to translate"`
	From string `json:"from,omitempty" jsonschema:"source language code (default: auto)"`
	To   string `json:"to" jsonschema:"target language code, e.g. zh-Hans or en"`
}

// TranslateOutput represents the output of the translate tool.
type TranslateOutput struct {
	Text       string   `json:"text"`
	From       string   `json:"from"`
	To         string   `json:"to"`
	Paragraphs []string `json:"paragraphs"`
}

// LanguagesInput takes no arguments.
type LanguagesInput struct{}

// LanguagesOutput lists supported languages.
type LanguagesOutput struct {
	Languages []lang.Language `json:"languages"`
}

// handleTranslate runs one non-streaming translation.
func (s *Server) handleTranslate(ctx context.Context, _ *mcp.CallToolRequest, input TranslateInput) (*mcp.CallToolResult, TranslateOutput, error) {
	logger := s.config.Logger
	tr := s.config.Translators.Load()

	from := input.From
	if from == "" {
		from = lang.Auto
	}
	q := translate.Query{Text: input.Text, From: from, To: input.To}

	logger.Debug("MCP translate request",
		"from", q.From,
		"to", q.To,
		"chars", len(q.Text),
	)

	started := time.Now()
	res, err := tr.Translate(ctx, q, translate.Streaming(false))
	s.record(tr, q, res, err, started)

	if err != nil {
		se := llm.ToServiceError(err)
		logger.Warn("MCP translate failed", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Translation failed (%s): %s", se.Kind, se.Message)},
			},
		}, TranslateOutput{}, nil
	}

	return nil, TranslateOutput{
		Text:       res.Text(),
		From:       res.From,
		To:         res.To,
		Paragraphs: res.Paragraphs,
	}, nil
}

// handleLanguages lists the supported languages.
func (s *Server) handleLanguages(_ context.Context, _ *mcp.CallToolRequest, _ LanguagesInput) (*mcp.CallToolResult, LanguagesOutput, error) {
	return nil, LanguagesOutput{Languages: lang.Supported()}, nil
}

func (s *Server) record(tr *translate.Translator, q translate.Query, res *translate.Result, err error, started time.Time) {
	if s.config.Pool == nil {
		return
	}

	s.config.Pool.Enqueue(worker.Job{
		Record: worker.NewRecord(worker.Outcome{
			Config:    tr.Config(),
			Query:     q,
			Result:    res,
			Err:       err,
			StartedAt: started,
			EndedAt:   time.Now(),
		}),
		Surface: "mcp",
	})
}
