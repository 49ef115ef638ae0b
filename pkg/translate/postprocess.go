package translate

import "strings"

var (
	openingQuotes = []string{"『", "「", "\"", "“"}
	closingQuotes = []string{"』", "」", "\"", "”"}
)

// CleanOutput trims whitespace, one wrapping quote character at each end,
// and a trailing `" =>` left by some models.
func CleanOutput(text string) string {
	text = strings.TrimSpace(text)
	for _, q := range openingQuotes {
		if strings.HasPrefix(text, q) {
			text = strings.TrimPrefix(text, q)
			break
		}
	}
	for _, q := range closingQuotes {
		if strings.HasSuffix(text, q) {
			text = strings.TrimSuffix(text, q)
			break
		}
	}
	return strings.TrimSuffix(text, `" =>`)
}
