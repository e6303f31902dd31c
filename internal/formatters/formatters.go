package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"skillscan/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "Profiles", &ProfileTextFormatter{})
	registry.RegisterFormatter("markdown", "Profiles", &ProfileMarkdownFormatter{})
	registry.RegisterFormatter("text", "Quiz", &QuizTextFormatter{})
	registry.RegisterFormatter("markdown", "Quiz", &QuizMarkdownFormatter{})

	return registry
}

// GlobalRegistry is the registry used by the CLI
var GlobalRegistry = NewFormatterRegistry()

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.Profile, []types.Profile:
		return "Profiles"
	case types.Quiz, types.PublicQuiz:
		return "Quiz"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func asProfiles(data any) ([]types.Profile, error) {
	switch v := data.(type) {
	case types.Profile:
		return []types.Profile{v}, nil
	case []types.Profile:
		return v, nil
	default:
		return nil, fmt.Errorf("expected Profile, got %T", data)
	}
}

// ProfileTextFormatter prints one block per parsed résumé
type ProfileTextFormatter struct{}

func (f *ProfileTextFormatter) Format(data any) (string, error) {
	profiles, err := asProfiles(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	for i, p := range profiles {
		if i > 0 {
			output.WriteString("\n")
		}
		if p.File != "" {
			fmt.Fprintf(&output, "File:   %s\n", p.File)
		}
		fmt.Fprintf(&output, "Name:   %s\n", p.Name)
		if len(p.Skills) == 0 {
			output.WriteString("Skills: (none)\n")
		} else {
			fmt.Fprintf(&output, "Skills: %s\n", strings.Join(p.Skills, ", "))
		}
	}
	return output.String(), nil
}

func (f *ProfileTextFormatter) SupportedType() string {
	return "Profiles"
}

// ProfileMarkdownFormatter prints a section per parsed résumé
type ProfileMarkdownFormatter struct{}

func (f *ProfileMarkdownFormatter) Format(data any) (string, error) {
	profiles, err := asProfiles(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	for i, p := range profiles {
		if i > 0 {
			output.WriteString("\n")
		}
		fmt.Fprintf(&output, "## %s\n\n", p.Name)
		if p.File != "" {
			fmt.Fprintf(&output, "_Source: `%s`_\n\n", p.File)
		}
		if len(p.Skills) == 0 {
			output.WriteString("No skills matched.\n")
			continue
		}
		output.WriteString("| # | Skill |\n|---|-------|\n")
		for n, skill := range p.Skills {
			fmt.Fprintf(&output, "| %d | %s |\n", n+1, skill)
		}
	}
	return output.String(), nil
}

func (f *ProfileMarkdownFormatter) SupportedType() string {
	return "Profiles"
}

// quizView flattens Quiz and PublicQuiz. Answers are empty for a PublicQuiz.
type quizView struct {
	id, name  string
	skills    []string
	questions []types.Question
}

func asQuiz(data any) (quizView, error) {
	switch v := data.(type) {
	case types.Quiz:
		return quizView{id: v.ID, name: v.Name, skills: v.Skills, questions: v.Questions}, nil
	case types.PublicQuiz:
		view := quizView{id: v.ID, name: v.Name, skills: v.Skills}
		for _, q := range v.Questions {
			view.questions = append(view.questions, types.Question{
				Skill:    q.Skill,
				Question: q.Question,
				Options:  q.Options,
			})
		}
		return view, nil
	default:
		return quizView{}, fmt.Errorf("expected Quiz, got %T", data)
	}
}

const optionLetters = "ABCD"

func optionLabel(i int) string {
	if i < len(optionLetters) {
		return string(optionLetters[i])
	}
	return fmt.Sprint(i + 1)
}

// QuizTextFormatter prints the quiz grouped by skill with the answer key
// when answers are present
type QuizTextFormatter struct{}

func (f *QuizTextFormatter) Format(data any) (string, error) {
	quiz, err := asQuiz(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	fmt.Fprintf(&output, "=== QUIZ FOR %s ===\n", strings.ToUpper(quiz.name))
	if quiz.id != "" {
		fmt.Fprintf(&output, "ID: %s\n", quiz.id)
	}
	fmt.Fprintf(&output, "Skills: %s\n", strings.Join(quiz.skills, ", "))

	skill := ""
	for i, q := range quiz.questions {
		if q.Skill != skill {
			skill = q.Skill
			fmt.Fprintf(&output, "\n--- %s ---\n", skill)
		}
		fmt.Fprintf(&output, "\n%d. %s\n", i+1, q.Question)
		for n, option := range q.Options {
			fmt.Fprintf(&output, "   %s) %s\n", optionLabel(n), option)
		}
		if q.Correct != "" {
			fmt.Fprintf(&output, "   Answer: %s\n", q.Correct)
		}
	}
	if len(quiz.questions) == 0 {
		output.WriteString("\nNo questions generated.\n")
	}
	return output.String(), nil
}

func (f *QuizTextFormatter) SupportedType() string {
	return "Quiz"
}

// QuizMarkdownFormatter prints the quiz as a markdown document
type QuizMarkdownFormatter struct{}

func (f *QuizMarkdownFormatter) Format(data any) (string, error) {
	quiz, err := asQuiz(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	fmt.Fprintf(&output, "# Quiz for %s\n\n", quiz.name)
	fmt.Fprintf(&output, "**Skills:** %s\n", strings.Join(quiz.skills, ", "))

	skill := ""
	for i, q := range quiz.questions {
		if q.Skill != skill {
			skill = q.Skill
			fmt.Fprintf(&output, "\n## %s\n", skill)
		}
		fmt.Fprintf(&output, "\n%d. %s\n\n", i+1, q.Question)
		for n, option := range q.Options {
			fmt.Fprintf(&output, "   - **%s)** %s\n", optionLabel(n), option)
		}
		if q.Correct != "" {
			fmt.Fprintf(&output, "\n   <details><summary>Answer</summary>%s</details>\n", q.Correct)
		}
	}
	return output.String(), nil
}

func (f *QuizMarkdownFormatter) SupportedType() string {
	return "Quiz"
}
