// Package skills matches résumé text against a fixed skills vocabulary.
package skills

import "strings"

// defaultSkills is the production vocabulary. Order defines output order.
var defaultSkills = []string{
	"Python", "Java", "Machine Learning", "SQL", "C++", "HTML", "CSS", "JavaScript",
	"Bootstrap", "Tailwind", "React", "Angular", "Vue.js", "Node.js", "Express.js",
	"Flask", "Django", "MySQL", "PostgreSQL", "MongoDB", "SQLite", "Firebase",
	"Pandas", "NumPy", "Matplotlib", "Seaborn", "Scikit-learn", "TensorFlow", "Keras",
	"PyTorch", "Data Analysis", "Data Visualization", "Deep Learning",
	"Artificial Intelligence", "Natural Language Processing", "Git", "GitHub",
	"Docker", "AWS", "Google Cloud", "Azure", "Jira", "VS Code", "Jupyter", "Linux",
	"Power BI", "Tableau", "OOP", "DSA", "REST API", "Microservices", "Agile", "CI/CD",
	"Unit Testing", "Cloud Computing", "Communication", "Leadership", "Teamwork",
	"Problem Solving", "Time Management", "Creativity", "Critical Thinking",
}

// Vocabulary is an immutable ordered list of canonical skill names.
// The zero value is an empty vocabulary.
type Vocabulary struct {
	entries []string
	lowered []string
}

// NewVocabulary copies entries into a new Vocabulary. Duplicates are kept.
func NewVocabulary(entries []string) Vocabulary {
	v := Vocabulary{
		entries: make([]string, len(entries)),
		lowered: make([]string, len(entries)),
	}
	copy(v.entries, entries)
	for i, entry := range v.entries {
		v.lowered[i] = strings.ToLower(entry)
	}
	return v
}

// DefaultVocabulary returns the built-in skills vocabulary.
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(defaultSkills)
}

// Entries returns a copy of the vocabulary in order.
func (v Vocabulary) Entries() []string {
	out := make([]string, len(v.entries))
	copy(out, v.entries)
	return out
}

// Len returns the number of entries.
func (v Vocabulary) Len() int {
	return len(v.entries)
}

// FoundIn reports whether any entry occurs in s, ignoring case.
func (v Vocabulary) FoundIn(s string) bool {
	lower := strings.ToLower(s)
	for _, entry := range v.lowered {
		if strings.Contains(lower, entry) {
			return true
		}
	}
	return false
}
