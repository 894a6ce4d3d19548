package asm

import (
	"strings"
	"unicode"
)

// SourceLine is a cleaned source line and the 1-based line number it came from.
type SourceLine struct {
	Text   string
	LineNo int
}

// Normalize removes all whitespace and trailing // comments from every line
// and drops the lines left empty. Order is preserved.
func Normalize(lines []string) []SourceLine {
	out := make([]SourceLine, 0, len(lines))
	for i, raw := range lines {
		text := stripComment(stripWhitespace(raw))
		if text == "" {
			continue
		}
		out = append(out, SourceLine{Text: text, LineNo: i + 1})
	}
	return out
}

func stripComment(line string) string {
	if cut := strings.Index(line, "//"); cut >= 0 {
		return line[:cut]
	}
	return line
}

func stripWhitespace(line string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, line)
}
