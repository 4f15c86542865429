package scanner

import "strings"

// hexDigitValue returns r's value as a hex digit, or -1 if r isn't one.
func hexDigitValue(r rune) rune {
	switch {
	case r >= '0' && r <= '9':
		return r - '0'
	case r >= 'a' && r <= 'f':
		return 10 + r - 'a'
	case r >= 'A' && r <= 'F':
		return 10 + r - 'A'
	}
	return -1
}

// consumeStringValue scans a single-line, double-quoted string literal in a schema document. SDL
// has no block string form, unlike query documents.
func (s *Scanner) consumeStringValue() string {
	s.consumeRune() // '"'

	var b strings.Builder

	terminated := false
	isEscaped := false
	for !terminated && !s.isDone() {
		if isEscaped {
			s.consumeEscapeSequence(&b)
			isEscaped = false
			continue
		}

		switch {
		case s.nextRune == '\n' || s.nextRune == '\r':
			s.errorf("unterminated string")
			return b.String()
		case s.nextRune == '\\':
			s.consumeRune()
			isEscaped = true
		case s.nextRune == '"':
			s.consumeRune()
			terminated = true
		case !isSourceCharacter(s.nextRune):
			s.errorf("illegal character %#U in string", s.nextRune)
			s.consumeRune()
		default:
			b.WriteRune(s.nextRune)
			s.consumeRune()
		}
	}

	if !terminated {
		s.errorf("unterminated string")
	}

	return b.String()
}

// consumeEscapeSequence consumes and decodes a single escape sequence, appending the decoded text
// to b. The backslash itself has already been consumed; s.nextRune holds the character after it.
func (s *Scanner) consumeEscapeSequence(b *strings.Builder) {
	switch s.nextRune {
	case '"', '\\', '/':
		b.WriteRune(s.nextRune)
		s.consumeRune()
	case 'b':
		b.WriteByte('\b')
		s.consumeRune()
	case 'f':
		b.WriteByte('\f')
		s.consumeRune()
	case 'n':
		b.WriteByte('\n')
		s.consumeRune()
	case 'r':
		b.WriteByte('\r')
		s.consumeRune()
	case 't':
		b.WriteByte('\t')
		s.consumeRune()
	case 'u':
		s.consumeRune()
		var code rune
		for i := 0; i < 4; i++ {
			v := hexDigitValue(s.nextRune)
			if v < 0 {
				s.errorf("illegal unicode escape sequence")
				break
			}
			code = (code << 4) | v
			s.consumeRune()
		}
		b.WriteRune(code)
	default:
		s.errorf("illegal escape sequence")
		s.consumeRune()
	}
}
