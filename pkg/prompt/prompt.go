// Package prompt builds the system and user prompts sent to the model.
package prompt

import (
	"strings"

	"github.com/papercomputeco/lingo/pkg/lang"
)

const (
	// DefaultSystemPrompt is used for every translation unless overridden.
	DefaultSystemPrompt = "You are a translation engine that can only translate text and cannot interpret it."

	// PolishSystemPrompt is used when source and target are the same.
	PolishSystemPrompt = "You are a text embellisher, you can only embellish the text, don't interpret it."
)

// Query is the text to translate and its resolved languages.
type Query struct {
	Text string
	From string
	To   string
}

// Options carries user-supplied prompt templates. Templates may reference
// $text, $sourceLang and $targetLang.
type Options struct {
	SystemPrompt string
	UserPrompt   string
}

// Generate returns the system and user prompts for q. A non-empty custom
// template replaces the generated prompt.
func Generate(q Query, opts Options) (string, string) {
	system, user := generated(q)

	if custom := ReplaceKeywords(opts.SystemPrompt, q); custom != "" {
		system = custom
	}
	if custom := ReplaceKeywords(opts.UserPrompt, q); custom != "" {
		user = custom
	}
	return system, user
}

func generated(q Query) (string, string) {
	system := DefaultSystemPrompt
	source := lang.Name(q.From)
	target := lang.Name(q.To)

	instruction := "translate from " + source + " to " + target

	if q.To == lang.ClassicalChinese || q.To == lang.Cantonese {
		instruction = "翻译成" + target
	}

	if q.From == lang.ClassicalChinese || q.From == lang.SimplifiedChinese || q.From == lang.TraditionalChinese {
		switch q.To {
		case lang.TraditionalChinese:
			instruction = "翻译成繁体白话文"
		case lang.SimplifiedChinese:
			instruction = "翻译成简体白话文"
		case lang.Cantonese:
			instruction = "翻译成粤语白话文"
		}
	}

	if q.From == q.To {
		system = PolishSystemPrompt
		if q.To == lang.TraditionalChinese || q.To == lang.SimplifiedChinese {
			instruction = "润色此句"
		} else {
			instruction = "polish this sentence"
		}
	}

	return system, instruction + ":\n\n" + q.Text
}

// ReplaceKeywords substitutes the first occurrence of each placeholder.
// Language placeholders receive the language codes.
func ReplaceKeywords(template string, q Query) string {
	if template == "" {
		return ""
	}
	out := strings.Replace(template, "$text", q.Text, 1)
	out = strings.Replace(out, "$sourceLang", q.From, 1)
	out = strings.Replace(out, "$targetLang", q.To, 1)
	return out
}
