package names

import (
	"strings"
	"unicode"

	"skillscan/internal/skills"
)

const (
	// NotFound is returned when no usable line exists.
	NotFound = "Name not found"

	// MaxScanLines is the number of leading lines considered.
	MaxScanLines = 10

	// MaxNameParts is the number of accepted lines that end the scan.
	MaxNameParts = 2
)

// ExtractName guesses a name from the first MaxScanLines lines.
//
// Blank lines are ignored. A line with an address keyword or a digit ends
// the scan. All-caps lines, lines with an unwanted keyword and lines that
// mention a skill are skipped. Up to MaxNameParts remaining lines are joined
// with a space. Without any accepted line the first non-blank line is
// returned, or NotFound.
func ExtractName(lines []string, vocab skills.Vocabulary, keywords Keywords) string {
	window := lines[:min(len(lines), MaxScanLines)]

	var parts []string
	for _, raw := range window {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		if containsAny(lower, keywords.address) || hasDigit(line) {
			break
		}
		if isAllUpper(line) || containsAny(lower, keywords.unwanted) {
			continue
		}
		if vocab.FoundIn(line) {
			continue
		}

		parts = append(parts, line)
		if len(parts) >= MaxNameParts {
			break
		}
	}

	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}

	for _, raw := range window {
		if line := strings.TrimSpace(raw); line != "" {
			return line
		}
	}
	return NotFound
}

// SplitLines splits text on line boundaries. A trailing newline does not
// produce a final empty line; "\r\n" counts as one boundary. Besides "\n"
// and "\r" it breaks on \v, \f, \x1c-\x1e, U+0085, U+2028 and U+2029.
func SplitLines(text string) []string {
	lines := make([]string, 0)
	start := 0
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		if !isLineBreak(runes[i]) {
			continue
		}
		lines = append(lines, string(runes[start:i]))
		if runes[i] == '\r' && i+1 < len(runes) && runes[i+1] == '\n' {
			i++
		}
		start = i + 1
	}
	if start < len(runes) {
		lines = append(lines, string(runes[start:]))
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// isAllUpper reports whether s has at least one cased letter and no
// lower-case or title-case letters.
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
