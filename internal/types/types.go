package types

// Profile represents the result of parsing a résumé
type Profile struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
	File   string   `json:"file,omitempty"`
}

// Question represents one multiple-choice quiz question
type Question struct {
	Skill    string   `json:"skill"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  string   `json:"correct"`
}

// Quiz represents the questions generated for the top skills of a profile
type Quiz struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Skills    []string   `json:"skills"`    // Skills the questions were generated for
	Questions []Question `json:"questions"` // In skill order, at most questionsPerSkill each
}

// PublicQuestion is a Question without its answer, as served to candidates
type PublicQuestion struct {
	Skill    string   `json:"skill"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// PublicQuiz is a Quiz without answers
type PublicQuiz struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Skills    []string         `json:"skills"`
	Questions []PublicQuestion `json:"questions"`
}

// ScoreInput represents submitted answers, one per question by index
type ScoreInput struct {
	Answers []string `json:"answers"`
}

// QuestionResult represents how a single answer was graded
type QuestionResult struct {
	Question      string `json:"question"`
	YourAnswer    string `json:"yourAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

// Link represents a labelled URL used for study notes and company suggestions
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// ScoreOutput represents the graded quiz with study notes and company suggestions
type ScoreOutput struct {
	Score     int              `json:"score"`
	Total     int              `json:"total"`
	Results   []QuestionResult `json:"results"`
	Notes     []Link           `json:"notes"`     // Three links per missed question
	Companies []Link           `json:"companies"` // Tier chosen by score
}

// Public strips the answers from a quiz
func (q Quiz) Public() PublicQuiz {
	out := PublicQuiz{
		ID:        q.ID,
		Name:      q.Name,
		Skills:    q.Skills,
		Questions: make([]PublicQuestion, len(q.Questions)),
	}
	for i, question := range q.Questions {
		out.Questions[i] = PublicQuestion{
			Skill:    question.Skill,
			Question: question.Question,
			Options:  question.Options,
		}
	}
	return out
}
