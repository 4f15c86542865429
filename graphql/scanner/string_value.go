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

// commonLeadingWhitespace returns the length of the shortest run of leading spaces/tabs shared by
// every non-blank line in lines[1:] (the first line's indentation isn't significant, since it sits
// right after the opening """).
func commonLeadingWhitespace(lines []string) int {
	common := -1
	for _, line := range lines[1:] {
		indent := 0
		for _, r := range line {
			if r != ' ' && r != '\t' {
				break
			}
			indent++
		}
		if indent == len(line) {
			continue // blank line; doesn't constrain the common indent
		}
		if common == -1 || indent < common {
			common = indent
		}
	}
	return common
}

func isBlank(line string) bool {
	return strings.IndexFunc(line, func(r rune) bool { return r != ' ' && r != '\t' }) == -1
}

// blockStringValue applies the GraphQL block string algorithm to a raw, unindented triple-quoted
// body: normalizing line endings, removing the common indent from every line but the first, and
// trimming leading and trailing blank lines.
func blockStringValue(rawValue string) string {
	rawValue = strings.ReplaceAll(rawValue, "\r\n", "\n")
	rawValue = strings.ReplaceAll(rawValue, "\r", "\n")
	lines := strings.Split(rawValue, "\n")

	if indent := commonLeadingWhitespace(lines); indent > 0 {
		for i, line := range lines {
			if i > 0 && len(line) >= indent {
				lines[i] = line[indent:]
			}
		}
	}

	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 1 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}

	return strings.Join(lines, "\n")
}

func (s *Scanner) consumeStringValue() string {
	s.consumeRune() // '"'

	isBlock := false
	if s.nextRune == '"' && s.peek() == '"' {
		s.consumeRune()
		s.consumeRune()
		isBlock = true
	}

	var b strings.Builder

	terminated := false
	isEscaped := false
	for !terminated && !s.isDone() {
		if isEscaped {
			s.consumeEscapeSequence(&b, isBlock)
			isEscaped = false
			continue
		}

		switch {
		case s.nextRune == '\n' || s.nextRune == '\r':
			if !isBlock {
				terminated = false
				s.errorf("unterminated string")
				return b.String()
			}
			b.WriteRune(s.nextRune)
			if s.consumeRune() == '\r' && s.nextRune == '\n' {
				b.WriteRune(s.consumeRune())
			}
		case s.nextRune == '\\':
			s.consumeRune()
			isEscaped = true
		case s.nextRune == '"':
			s.consumeRune()
			if isBlock {
				if s.nextRune == '"' && s.peek() == '"' {
					s.consumeRune()
					s.consumeRune()
					terminated = true
				} else {
					b.WriteByte('"')
				}
			} else {
				terminated = true
			}
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

	value := b.String()
	if isBlock {
		value = blockStringValue(value)
	}
	return value
}

// consumeEscapeSequence consumes and decodes a single escape sequence (the character after a
// backslash has already been seen via s.nextRune, but not yet consumed), appending the decoded
// text to b.
func (s *Scanner) consumeEscapeSequence(b *strings.Builder, isBlock bool) {
	if isBlock {
		if r := s.consumeRune(); r == '"' && s.nextRune == '"' && s.peek() == '"' {
			s.consumeRune()
			s.consumeRune()
			b.WriteString(`"""`)
		} else {
			b.WriteByte('\\')
			b.WriteRune(r)
		}
		return
	}

	switch r := s.nextRune; r {
	case '"', '\\', '/':
		b.WriteRune(r)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
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
		return
	default:
		s.errorf("illegal escape sequence")
	}
	s.consumeRune()
}
