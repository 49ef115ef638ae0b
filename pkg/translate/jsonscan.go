package translate

import "strings"

// objectScanner pulls complete top-level JSON objects out of a streamed
// JSON array. Array punctuation between objects ([ , ] and whitespace) is
// skipped, so pieces that start with a separating comma are handled.
type objectScanner struct {
	buf      strings.Builder
	depth    int
	inString bool
	escaped  bool
	dropped  int

	// discarding is set while the rest of an oversized object is skipped.
	discarding bool

	// stray holds the most recent text found between objects.
	stray strings.Builder
}

// maxStray bounds the text kept between objects.
const maxStray = 4096

func newObjectScanner() *objectScanner {
	return &objectScanner{}
}

// Feed consumes chunk and returns every object completed by it.
func (s *objectScanner) Feed(chunk string) []string {
	var out []string
	for i := 0; i < len(chunk); i++ {
		c := chunk[i]
		if s.depth == 0 {
			if c == '{' {
				s.depth = 1
				s.buf.WriteByte(c)
				continue
			}
			s.keepStray(c)
			continue
		}

		if !s.discarding {
			s.buf.WriteByte(c)
			if s.buf.Len() > MaxCarryBytes {
				s.dropped++
				s.buf.Reset()
				s.discarding = true
			}
		}

		if s.inString {
			switch {
			case s.escaped:
				s.escaped = false
			case c == '\\':
				s.escaped = true
			case c == '"':
				s.inString = false
			}
			continue
		}

		switch c {
		case '"':
			s.inString = true
		case '{', '[':
			s.depth++
		case '}', ']':
			s.depth--
			if s.depth == 0 {
				if !s.discarding {
					out = append(out, s.buf.String())
				}
				s.buf.Reset()
				s.discarding = false
			}
		}
	}
	return out
}

// Flush returns an unfinished object, if any, and resets the scanner.
func (s *objectScanner) Flush() (string, bool) {
	if s.buf.Len() == 0 {
		s.reset()
		return "", false
	}
	rest := s.buf.String()
	s.reset()
	return rest, true
}

// Stray returns the text seen outside objects, up to maxStray bytes.
func (s *objectScanner) Stray() string {
	return s.stray.String()
}

func (s *objectScanner) keepStray(c byte) {
	if s.stray.Len() >= maxStray {
		tail := s.stray.String()[maxStray/2:]
		s.stray.Reset()
		s.stray.WriteString(tail)
	}
	s.stray.WriteByte(c)
}

// Dropped returns how many oversized objects were discarded.
func (s *objectScanner) Dropped() int {
	return s.dropped
}

func (s *objectScanner) reset() {
	s.buf.Reset()
	s.depth = 0
	s.inString = false
	s.escaped = false
	s.discarding = false
}
