package config

import (
	"os"
	"path/filepath"
	"testing"

	"skillscan/internal/names"
	"skillscan/internal/skills"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadVocabularyFileDefaults(t *testing.T) {
	set, err := LoadVocabularyFile("")
	require.NoError(t, err)

	assert.Equal(t, skills.DefaultVocabulary().Entries(), set.Skills.Entries())
	assert.Equal(t, names.DefaultKeywords().Address(), set.Keywords.Address())
}

func TestLoadVocabularyFileFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "vocab.yaml", "skills:\n  - Go\n  - Rust\naddressKeywords:\n  - Street\n"},
		{"json", "vocab.json", `{"skills": ["Go", "Rust"], "addressKeywords": ["Street"]}`},
		{"toml", "vocab.toml", "skills = [\"Go\", \"Rust\"]\naddressKeywords = [\"Street\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			set, err := LoadVocabularyFile(path)
			require.NoError(t, err)

			assert.Equal(t, []string{"Go", "Rust"}, set.Skills.Entries())
			assert.Equal(t, []string{"street"}, set.Keywords.Address())
			// Missing key keeps the built-in list
			assert.Equal(t, names.DefaultKeywords().Unwanted(), set.Keywords.Unwanted())
		})
	}
}

func TestLoadVocabularyFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadVocabularyFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read vocabulary file")

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("skills: []\n"), 0600))
	_, err = LoadVocabularyFile(empty)
	assert.ErrorContains(t, err, "empty skills list")
}

func TestLoadVocabularyFileDropsBlankEntries(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "vocab.yaml")
	content := "skills: [Go, \"\", \"  \", \" Rust \"]\n" +
		"unwantedNameKeywords: [\"\", cgpa]\n" +
		"addressKeywords: [street, \"\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	set, err := LoadVocabularyFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, set.Skills.Entries())
	assert.Equal(t, []string{"cgpa"}, set.Keywords.Unwanted())
	assert.Equal(t, []string{"street"}, set.Keywords.Address())

	lines := []string{"Jane Doe", "Backend Engineer", "12 Main Street"}
	assert.Equal(t, "Jane Doe Backend Engineer", names.ExtractName(lines, set.Skills, set.Keywords))
	assert.Empty(t, skills.ExtractSkills("Java developer", set.Skills))

	blank := filepath.Join(dir, "blank.yaml")
	require.NoError(t, os.WriteFile(blank, []byte("skills: [\"\", \" \"]\n"), 0600))
	_, err = LoadVocabularyFile(blank)
	assert.ErrorContains(t, err, "empty skills list")
}

func TestConfigLoadVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("unwantedNameKeywords: [Resume]\n"), 0600))

	config := &Config{Vocabulary: VocabularyConfig{File: path}}
	set, err := config.LoadVocabulary()
	require.NoError(t, err)

	assert.Equal(t, skills.DefaultVocabulary().Len(), set.Skills.Len())
	assert.Equal(t, []string{"resume"}, set.Keywords.Unwanted())
}
