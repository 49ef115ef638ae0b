package llm

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MergeExtraBody overlays the top-level keys of the JSON object extra onto
// body. An empty extra returns body unchanged.
func MergeExtraBody(body []byte, extra string) ([]byte, error) {
	if strings.TrimSpace(extra) == "" {
		return body, nil
	}
	parsed := gjson.Parse(extra)
	if !gjson.Valid(extra) || !parsed.IsObject() {
		return nil, fmt.Errorf("extra body must be a JSON object")
	}

	var err error
	parsed.ForEach(func(key, value gjson.Result) bool {
		body, err = sjson.SetRawBytes(body, escapeKey(key.String()), []byte(value.Raw))
		return err == nil
	})
	if err != nil {
		return nil, fmt.Errorf("merging extra body: %w", err)
	}
	return body, nil
}

// escapeKey keeps dotted keys literal for sjson paths.
func escapeKey(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(key)
}
