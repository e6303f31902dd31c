package quiz

import (
	"context"
	"fmt"

	"skillscan/internal/errors"
	"skillscan/internal/skills"
	"skillscan/internal/types"

	"github.com/google/uuid"
)

const (
	DefaultTopSkills         = 5
	DefaultQuestionsPerSkill = 5
)

// Generator produces raw multiple-choice question text for a skill.
type Generator interface {
	GenerateQuestions(ctx context.Context, skill string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, skill string) (string, error)

func (f GeneratorFunc) GenerateQuestions(ctx context.Context, skill string) (string, error) {
	return f(ctx, skill)
}

// Builder turns a profile into a quiz over its leading skills.
type Builder struct {
	generator         Generator
	topSkills         int
	questionsPerSkill int
	logger            *errors.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithTopSkills sets how many matched skills get questions.
func WithTopSkills(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.topSkills = n
		}
	}
}

// WithQuestionsPerSkill sets how many question blocks are read per skill.
func WithQuestionsPerSkill(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.questionsPerSkill = n
		}
	}
}

// WithLogger sets the builder logger.
func WithLogger(logger *errors.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder with the default limits.
func NewBuilder(generator Generator, opts ...BuilderOption) *Builder {
	b := &Builder{
		generator:         generator,
		topSkills:         DefaultTopSkills,
		questionsPerSkill: DefaultQuestionsPerSkill,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build generates questions for the first topSkills skills of the profile,
// in the profile's order. A generator failure aborts the build.
func (b *Builder) Build(ctx context.Context, profile types.Profile) (types.Quiz, error) {
	selected := skills.Top(profile.Skills, b.topSkills)
	if len(selected) == 0 {
		return types.Quiz{}, errors.NewValidationError(errors.ErrCodeNoSkillsFound,
			"No skills found to build a quiz from", nil).
			WithContext("name", profile.Name)
	}

	quiz := types.Quiz{
		ID:        uuid.NewString(),
		Name:      profile.Name,
		Skills:    selected,
		Questions: make([]types.Question, 0, len(selected)*b.questionsPerSkill),
	}

	for _, skill := range selected {
		if err := ctx.Err(); err != nil {
			return types.Quiz{}, err
		}

		text, err := b.generator.GenerateQuestions(ctx, skill)
		if err != nil {
			return types.Quiz{}, fmt.Errorf("failed to generate questions for %s: %w", skill, err)
		}

		parsed := ParseQuestions(skill, text, b.questionsPerSkill)
		if len(parsed) == 0 {
			b.logger.Warn("No usable questions in generated text",
				"skill", skill,
				"characters", len(text))
		}
		quiz.Questions = append(quiz.Questions, parsed...)
	}

	b.logger.Info("Quiz built",
		"quiz_id", quiz.ID,
		"skills", len(quiz.Skills),
		"questions", len(quiz.Questions))

	return quiz, nil
}
