package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// LoadedPrompts holds the content of prompts loaded from files
type LoadedPrompts struct {
	SystemPrompt string
	UserPrompt   string
}

// promptFile names one configured prompt file
type promptFile struct {
	path       string
	promptType string // "system" or "user"
	scope      string // "global" or "questions"
}

func (c *Config) promptFiles() []promptFile {
	return []promptFile{
		{c.AI.CustomPrompts.SystemPromptFile, "system", "global"},
		{c.AI.CustomPrompts.UserPromptFile, "user", "global"},
		{c.AI.Questions.CustomPrompts.SystemPromptFile, "system", "questions"},
		{c.AI.Questions.CustomPrompts.UserPromptFile, "user", "questions"},
	}
}

// loadPromptsFromFiles reads the question prompt files, if any. Files set on
// ai.questions take precedence over the global ones.
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	opCfg := c.GetQuestionsConfig()

	if path := opCfg.CustomPrompts.SystemPromptFile; path != "" {
		content, err := loadPromptFromFile(path, "system")
		if err != nil {
			return err
		}
		c.Prompts.SystemPrompt = content
	}

	if path := opCfg.CustomPrompts.UserPromptFile; path != "" {
		content, err := loadPromptFromFile(path, "user")
		if err != nil {
			return err
		}
		if !strings.Contains(content, "%s") {
			return fmt.Errorf("user prompt file '%s' must contain a %%s placeholder for the skill", path)
		}
		c.Prompts.UserPrompt = content
	}

	c.logPromptLoadingSummary()
	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, promptType string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", promptType, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s prompt file not found: %s", promptType, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", promptType, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", promptType, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s prompt from file: %s (%d characters)",
		promptType, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	for _, pf := range c.promptFiles() {
		if pf.path == "" {
			continue
		}

		absPath, err := filepath.Abs(pf.path)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", pf.scope, pf.promptType, pf.path))
			continue
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", pf.scope, pf.promptType, absPath))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// logPromptLoadingSummary logs a summary of loaded prompts
func (c *Config) logPromptLoadingSummary() {
	log.Println("[CONFIG] === Custom Prompt Loading Summary ===")

	count := 0
	if c.Prompts.SystemPrompt != "" {
		log.Printf("[CONFIG] Questions system prompt: file (%d characters)", len(c.Prompts.SystemPrompt))
		count++
	}
	if c.Prompts.UserPrompt != "" {
		log.Printf("[CONFIG] Questions user prompt: file (%d characters)", len(c.Prompts.UserPrompt))
		count++
	}

	if count == 0 {
		log.Println("[CONFIG] No custom prompts loaded from files, using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", count)
	}
	log.Println("[CONFIG] =====================================")
}
