package quiz

import (
	"strings"

	"skillscan/internal/types"
)

// passRatio is the share of correct answers needed for the middle tier.
const passRatio = 0.7

var (
	topTierCompanies = []types.Link{
		{Text: "Google", URL: "https://careers.google.com/jobs/results/"},
		{Text: "Microsoft", URL: "https://careers.microsoft.com/"},
		{Text: "Amazon", URL: "https://www.amazon.jobs/en/"},
		{Text: "Meta", URL: "https://www.metacareers.com/jobs"},
	}
	serviceCompanies = []types.Link{
		{Text: "TCS", URL: "https://www.tcs.com/careers"},
		{Text: "Infosys", URL: "https://www.infosys.com/careers/apply.html"},
		{Text: "Wipro", URL: "https://careers.wipro.com/"},
		{Text: "Accenture", URL: "https://www.accenture.com/in-en/careers"},
	}
	learningPlatforms = []types.Link{
		{Text: "Internshala", URL: "https://internshala.com/internships/"},
		{Text: "AngelList Startups", URL: "https://angel.co/jobs"},
		{Text: "LinkedIn Learning", URL: "https://www.linkedin.com/learning/"},
		{Text: "Coursera", URL: "https://www.coursera.org/"},
	}
)

// Score grades answers against questions by index. An answer counts only
// when it equals the stored correct option exactly; missing answers are
// wrong. Every miss adds three study links for the question text.
func Score(questions []types.Question, answers []string) types.ScoreOutput {
	out := types.ScoreOutput{
		Total:   len(questions),
		Results: make([]types.QuestionResult, 0, len(questions)),
		Notes:   make([]types.Link, 0),
	}

	var missed []string
	for i, q := range questions {
		answer, answered := "", i < len(answers)
		if answered {
			answer = answers[i]
		}

		correct := answered && answer == q.Correct
		out.Results = append(out.Results, types.QuestionResult{
			Question:      q.Question,
			YourAnswer:    answer,
			CorrectAnswer: q.Correct,
			IsCorrect:     correct,
		})
		if correct {
			out.Score++
		} else {
			missed = append(missed, q.Question)
		}
	}

	for _, topic := range missed {
		out.Notes = append(out.Notes, StudyNotes(topic)...)
	}
	out.Companies = Companies(out.Score, out.Total)
	return out
}

// StudyNotes returns the review links for a missed question.
func StudyNotes(topic string) []types.Link {
	plus := strings.ReplaceAll(topic, " ", "+")
	return []types.Link{
		{
			Text: "Review " + topic + " on GeeksforGeeks",
			URL:  "https://www.geeksforgeeks.org/?s=" + plus,
		},
		{
			Text: topic + " course on Coursera",
			URL:  "https://www.coursera.org/search?query=" + strings.ReplaceAll(topic, " ", "%20"),
		},
		{
			Text: "Official documentation for " + topic,
			URL:  "https://www.google.com/search?q=" + plus + "+official+documentation",
		},
	}
}

// Companies picks the suggestion tier for a score. A perfect score,
// including zero out of zero, selects the top tier.
func Companies(score, total int) []types.Link {
	var tier []types.Link
	switch {
	case score == total:
		tier = topTierCompanies
	case float64(score) >= float64(total)*passRatio:
		tier = serviceCompanies
	default:
		tier = learningPlatforms
	}
	return append([]types.Link(nil), tier...)
}
