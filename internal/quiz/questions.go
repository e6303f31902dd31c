// Package quiz builds, stores and scores skill quizzes for parsed résumés.
package quiz

import (
	"strings"

	"skillscan/internal/types"
)

const (
	// questionPrefixLen is the width of the "Q1. " marker on a question line.
	questionPrefixLen = 4
	// optionPrefixLen is the width of the "A) " marker on an option line.
	optionPrefixLen = 3
	// linesPerBlock is the question line, four options and the answer line.
	linesPerBlock = 6
	answerPrefix  = "Answer:"
	answerSep     = ": "
)

// ParseQuestions reads up to limit questions for skill from generated text.
//
// Blocks are separated by a blank line. A block needs a question line, four
// option lines and an "Answer: <option>" line; anything else is skipped.
// The answer line must contain ": " exactly once.
func ParseQuestions(skill, text string, limit int) []types.Question {
	blocks := strings.Split(strings.TrimSpace(text), "\n\n")
	if limit >= 0 && len(blocks) > limit {
		blocks = blocks[:limit]
	}

	questions := make([]types.Question, 0, len(blocks))
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < linesPerBlock || !strings.HasPrefix(lines[5], answerPrefix) {
			continue
		}

		answer := strings.Split(lines[5], answerSep)
		if len(answer) != 2 {
			continue
		}

		options := make([]string, 0, 4)
		for _, line := range lines[1:5] {
			options = append(options, dropRunes(line, optionPrefixLen))
		}

		questions = append(questions, types.Question{
			Skill:    skill,
			Question: dropRunes(lines[0], questionPrefixLen),
			Options:  options,
			Correct:  strings.TrimSpace(answer[1]),
		})
	}
	return questions
}

// dropRunes removes the first n characters of s.
func dropRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[i:]
		}
		n--
	}
	return ""
}
