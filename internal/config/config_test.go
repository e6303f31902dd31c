package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigFileDefaults(t *testing.T) {
	config, err := LoadConfigFile(writeConfigFile(t, "app:\n  logLevel: info\n"))
	require.NoError(t, err)

	assert.Equal(t, "gemini", config.AI.Provider)
	assert.Equal(t, 60*time.Second, config.AI.Timeout)
	assert.True(t, config.Extraction.WriteDiagnostic)
	assert.Equal(t, 5, config.Quiz.TopSkills)
	assert.Equal(t, 5, config.Quiz.QuestionsPerSkill)
	assert.Equal(t, 30*time.Minute, config.Quiz.TTL)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, "uploads", config.Server.UploadDir)
	assert.Equal(t, "skillscan", config.Observability.ServiceName)
	assert.NotEmpty(t, config.Observability.ServiceInstance)
	assert.True(t, config.AI.Questions.CircuitBreaker.Enabled)
}

func TestLoadConfigFileOverrides(t *testing.T) {
	t.Setenv("SKILLSCAN_SERVER_PORT", "9999")
	t.Setenv("SKILLSCAN_SERVER_APIKEYS", "alpha, beta")

	path := writeConfigFile(t, `
extraction:
  writeDiagnostic: false
quiz:
  topSkills: 3
ai:
  model: gemini-2.5-flash
  questions:
    temperature: 0.2
`)

	config, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.False(t, config.Extraction.WriteDiagnostic)
	assert.Equal(t, 3, config.Quiz.TopSkills)
	assert.Equal(t, "9999", config.Server.Port)
	assert.Equal(t, []string{"alpha", "beta"}, config.Server.APIKeys)

	questions := config.GetQuestionsConfig()
	assert.Equal(t, "gemini-2.5-flash", questions.Model)
	require.NotNil(t, questions.Temperature)
	assert.InDelta(t, 0.2, *questions.Temperature, 0.0001)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadConfigFileMissingPrompt(t *testing.T) {
	path := writeConfigFile(t, "ai:\n  customPrompts:\n    userPromptFile: /nonexistent/prompt.md\n")

	_, err := LoadConfigFile(path)
	assert.ErrorContains(t, err, "prompt file validation failed")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AI:     AIConfig{Timeout: time.Second},
			Server: ServerConfig{Port: "8080"},
			App:    AppConfig{DefaultFormat: "json", SupportedFormats: []string{"json", "text"}},
			Quiz:   QuizConfig{TopSkills: 5, QuestionsPerSkill: 5},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing api key is fine", func(c *Config) { c.AI.APIKey = "" }, ""},
		{"zero timeout", func(c *Config) { c.AI.Timeout = 0 }, "timeout"},
		{"no port", func(c *Config) { c.Server.Port = "" }, "port"},
		{"unknown format", func(c *Config) { c.App.DefaultFormat = "xml" }, "invalid default format"},
		{"no top skills", func(c *Config) { c.Quiz.TopSkills = 0 }, "topSkills"},
		{"no questions", func(c *Config) { c.Quiz.QuestionsPerSkill = -1 }, "questionsPerSkill"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAI(t *testing.T) {
	config := &Config{AI: AIConfig{Provider: "gemini"}}
	assert.ErrorContains(t, config.ValidateAI(), "API key is required")

	config.AI.APIKey = "key"
	assert.NoError(t, config.ValidateAI())

	config.AI.Questions.Provider = "openai"
	assert.ErrorContains(t, config.ValidateAI(), "unsupported AI provider")
}

func TestGetQuestionsConfigFallbacks(t *testing.T) {
	retries := 1
	config := &Config{
		AI: AIConfig{
			Provider:         "gemini",
			Model:            "gemini-2.0-flash",
			Timeout:          30 * time.Second,
			APIKey:           "global-key",
			MaxRetries:       3,
			Temperature:      0.7,
			UseSystemPrompts: true,
			CustomPrompts:    PromptConfig{SystemPrompt: "global system"},
			Questions: OperationAIConfig{
				Model:         "gemini-2.5-pro",
				MaxRetries:    &retries,
				CustomPrompts: PromptConfig{UserPrompt: "questions about %s"},
			},
		},
	}

	got := config.GetQuestionsConfig()

	assert.Equal(t, "gemini", got.Provider)
	assert.Equal(t, "gemini-2.5-pro", got.Model)
	assert.Equal(t, "global-key", got.APIKey)
	assert.Equal(t, 30*time.Second, *got.Timeout)
	assert.Equal(t, 1, *got.MaxRetries)
	assert.InDelta(t, 0.7, *got.Temperature, 0.0001)
	assert.True(t, *got.UseSystemPrompts)
	assert.Equal(t, "global system", got.CustomPrompts.SystemPrompt)
	assert.Equal(t, "questions about %s", got.CustomPrompts.UserPrompt)
}

func TestApplyFallbacks(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "legacy-key")

	config := &Config{
		Server:        ServerConfig{APIKeys: []string{"a, b", " c"}},
		App:           AppConfig{LogLevel: "debug"},
		Observability: ObservabilityConfig{ServiceName: "skillscan"},
	}
	config.applyFallbacks()

	assert.Equal(t, []string{"a", "b", "c"}, config.Server.APIKeys)
	assert.Equal(t, "legacy-key", config.AI.APIKey)
	assert.True(t, config.Observability.ConsoleOutput)
	assert.Contains(t, config.Observability.ServiceInstance, "skillscan-")
}
