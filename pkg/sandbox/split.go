package sandbox

import (
	"iter"
	"strings"
)

// Statement is one span of script text ending at an unquoted semicolon
// or at end of input.
type Statement struct {
	Text       string // trimmed, without the trailing ';'
	Terminated bool   // false for trailing text with no closing ';'
}

// String returns the statement with its terminator restored.
func (s Statement) String() string {
	if s.Terminated {
		return s.Text + ";"
	}
	return s.Text
}

// StripDirectives removes every line whose first non-blank character is '@'.
func StripDirectives(text string) string {
	if !strings.Contains(text, "@") {
		return text
	}
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	b.Grow(len(text))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "@") {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}

// CutAtMarker removes the line containing marker and everything after it.
// ASCII letters in the marker match either case. It reports whether the
// marker was found.
func CutAtMarker(text, marker string) (string, bool) {
	if marker == "" {
		return text, false
	}
	idx := strings.Index(lowerASCII(text), lowerASCII(marker))
	if idx < 0 {
		return text, false
	}
	nl := strings.LastIndexByte(text[:idx], '\n')
	if nl < 0 {
		return "", true
	}
	return text[:nl], true
}

// Statements yields the statements of text in order. The sequence is
// recomputed on every range, so it can be iterated more than once.
func Statements(text string) iter.Seq[Statement] {
	return func(yield func(Statement) bool) {
		var (
			inSingle, inDouble, inBacktick bool
			start                          int
			prev                           byte
		)
		emit := func(end int, terminated bool) bool {
			s := strings.TrimSpace(text[start:end])
			if s == "" {
				return true
			}
			return yield(Statement{Text: s, Terminated: terminated})
		}

		for i := 0; i < len(text); i++ {
			ch := text[i]
			escaped := prev == '\\'
			switch {
			case ch == '\'' && !escaped && !inDouble && !inBacktick:
				inSingle = !inSingle
			case ch == '"' && !escaped && !inSingle && !inBacktick:
				inDouble = !inDouble
			case ch == '`' && !escaped && !inSingle && !inDouble:
				inBacktick = !inBacktick
			case ch == ';' && !inSingle && !inDouble && !inBacktick:
				if !emit(i, true) {
					return
				}
				start = i + 1
			}
			prev = ch
		}
		emit(len(text), false)
	}
}

// Split collects Statements(text) into a slice.
func Split(text string) []Statement {
	var out []Statement
	for s := range Statements(text) {
		out = append(out, s)
	}
	return out
}
