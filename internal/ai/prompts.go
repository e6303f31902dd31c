package ai

// Prompts holds the system instruction and the user prompt template for
// question generation. The user template takes the skill through a single %s.
type Prompts struct {
	System string
	User   string
}

// DefaultPrompts are used when no prompt is configured. The answer format is
// what quiz.ParseQuestions reads: a "Qn." line, four "X)" option lines, then
// "Answer: <option text>", blocks separated by one blank line.
var DefaultPrompts = Prompts{
	System: `You are a technical interviewer who writes short multiple-choice screening questions for candidates.

Rules:
- Each question tests practical knowledge of the named skill, from basic to intermediate level
- Exactly four options per question, exactly one of them correct
- Options are short and mutually exclusive
- The answer repeats the text of the correct option exactly, without its letter
- Plain text only: no markdown, no numbering other than the required format, no explanations`,

	User: `Write 5 multiple-choice questions about %s.

Use exactly this format for every question and separate questions with one blank line:

Q1. <question text>
A) <option>
B) <option>
C) <option>
D) <option>
Answer: <text of the correct option>

Output only the questions.`,
}

// resolvePrompt selects the prompt by priority: file content, inline config,
// then the built-in default.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
