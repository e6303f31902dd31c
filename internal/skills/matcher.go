package skills

import "strings"

// ExtractSkills returns the vocabulary entries that occur in text as
// case-insensitive substrings, in vocabulary order and with vocabulary casing.
//
// Matching has no word boundaries: "Java" matches inside "JavaScript".
func ExtractSkills(text string, vocab Vocabulary) []string {
	lower := strings.ToLower(text)

	found := make([]string, 0)
	for i, entry := range vocab.lowered {
		if strings.Contains(lower, entry) {
			found = append(found, vocab.entries[i])
		}
	}
	return found
}

// Top returns at most n skills from the front of matched.
func Top(matched []string, n int) []string {
	if n < 0 || n >= len(matched) {
		n = len(matched)
	}
	out := make([]string, n)
	copy(out, matched[:n])
	return out
}
