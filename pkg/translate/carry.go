package translate

import "strings"

const (
	// MaxCarryRetries is the number of messages a partial JSON fragment may
	// be carried across before it is dropped.
	MaxCarryRetries = 8

	// MaxCarryBytes caps the size of a carried fragment.
	MaxCarryBytes = 1 << 20
)

// carry holds a JSON fragment that failed to parse but looks truncated, to
// be prefixed to the next message's data.
type carry struct {
	buf     string
	retries int
}

func (c *carry) pending() bool {
	return c.buf != ""
}

// join returns the carried fragment followed by data.
func (c *carry) join(data string) string {
	if c.buf == "" {
		return data
	}
	return c.buf + data
}

// hold keeps payload for the next message. It returns false when either
// bound is exceeded; the caller then drops the fragment.
func (c *carry) hold(payload string) bool {
	if c.retries >= MaxCarryRetries || len(payload) > MaxCarryBytes {
		return false
	}
	c.buf = payload
	c.retries++
	return true
}

func (c *carry) reset() {
	c.buf = ""
	c.retries = 0
}

// looksIncomplete reports whether s is plausibly a JSON document cut short
// by a chunk boundary: brackets left open outside strings, an unterminated
// string, or a trailing comma, colon, quote or backslash.
func looksIncomplete(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if s[0] != '{' && s[0] != '[' {
		return false
	}

	var (
		depth    int
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth < 0 {
				return false
			}
		}
	}

	if inString || depth > 0 {
		return true
	}
	switch s[len(s)-1] {
	case ',', ':', '"', '\\':
		return true
	}
	return false
}
