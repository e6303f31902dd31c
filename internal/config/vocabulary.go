package config

import (
	"fmt"
	"log"
	"strings"

	"skillscan/internal/names"
	"skillscan/internal/skills"

	"github.com/spf13/viper"
)

// VocabularySet is the lookup data the résumé parser is built from
type VocabularySet struct {
	Skills   skills.Vocabulary
	Keywords names.Keywords
}

// LoadVocabulary reads the vocabulary override file named by
// vocabulary.file. An empty path yields the built-in sets. Keys missing
// from the file keep their built-in values. YAML, JSON and TOML files are
// accepted, chosen by extension:
//
//	skills: [Go, Rust]
//	unwantedNameKeywords: [cgpa, university]
//	addressKeywords: [street, email]
func (c *Config) LoadVocabulary() (VocabularySet, error) {
	return LoadVocabularyFile(c.Vocabulary.File)
}

// LoadVocabularyFile is LoadVocabulary for an explicit path. Entries are
// trimmed and blank ones dropped; a blank entry matches every line.
func LoadVocabularyFile(path string) (VocabularySet, error) {
	set := VocabularySet{
		Skills:   skills.DefaultVocabulary(),
		Keywords: names.DefaultKeywords(),
	}
	if path == "" {
		return set, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return VocabularySet{}, fmt.Errorf("failed to read vocabulary file '%s': %w", path, err)
	}

	if v.IsSet("skills") {
		entries := nonBlank(v.GetStringSlice("skills"))
		if len(entries) == 0 {
			return VocabularySet{}, fmt.Errorf("vocabulary file '%s' has an empty skills list", path)
		}
		set.Skills = skills.NewVocabulary(entries)
	}

	unwanted := set.Keywords.Unwanted()
	if v.IsSet("unwantedNameKeywords") {
		unwanted = nonBlank(v.GetStringSlice("unwantedNameKeywords"))
	}
	address := set.Keywords.Address()
	if v.IsSet("addressKeywords") {
		address = nonBlank(v.GetStringSlice("addressKeywords"))
	}
	set.Keywords = names.NewKeywords(unwanted, address)

	log.Printf("[CONFIG] Loaded vocabulary from %s (%d skills, %d unwanted, %d address keywords)",
		path, set.Skills.Len(), len(unwanted), len(address))

	return set, nil
}

func nonBlank(entries []string) []string {
	kept := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry = strings.TrimSpace(entry); entry != "" {
			kept = append(kept, entry)
		}
	}
	return kept
}
