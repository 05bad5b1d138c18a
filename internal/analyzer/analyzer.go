// Package analyzer builds analysis prompts, calls the LLM chat endpoint,
// and validates the model's JSON output into a strict Result.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskpilot/taskpilot/internal/logging"
)

var (
	// ErrNoResponse indicates the model returned no completion at all.
	ErrNoResponse = errors.New("llm returned no response")

	// ErrInvalidJSON indicates the completion text failed strict JSON
	// parsing. The raw text is preserved in the wrapping error.
	ErrInvalidJSON = errors.New("llm returned invalid JSON")
)

const systemInstruction = `You are a project management assistant that analyzes code changes and suggests task tracker operations.

Given a repository event (push or pull request) and a list of existing tasks, decide whether any tasks should be created or updated.

Respond with ONLY a JSON object of this exact shape:
{
  "summary": "one-sentence summary of the change",
  "shouldCreateTasks": true|false,
  "suggestions": [
    {
      "action": "create" | "update",
      "title": "task title",
      "description": "task description",
      "priority": 1-4,
      "labels": ["label", ...],
      "assigneeName": "display name or omit",
      "estimateHours": number or omit,
      "existingTaskId": "required when action is update",
      "reasoning": "why this task is warranted",
      "confidence": 0.0-1.0
    }
  ]
}

Rules:
- Only suggest tasks for substantive work: bugs, follow-ups, missing tests, documentation gaps.
- Prefer updating an existing task over creating a duplicate.
- Set shouldCreateTasks to false when the change needs no tracker activity.
- Be conservative with confidence scores.`

// Config holds LLM analysis settings.
type Config struct {
	Provider    string  `yaml:"provider"` // recorded in result metadata
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// DefaultConfig returns default analysis settings.
func DefaultConfig() *Config {
	return &Config{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		MaxTokens:   2048,
		Temperature: 0.2,
	}
}

// Analyzer generates task suggestions from analysis prompts.
type Analyzer struct {
	client *ChatClient
	config *Config
	log    *slog.Logger
}

// New creates an Analyzer with the given configuration.
func New(cfg *Config) *Analyzer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Analyzer{
		client: NewChatClient(cfg.APIKey, cfg.BaseURL),
		config: cfg,
		log:    logging.WithComponent("analyzer"),
	}
}

// Configured reports whether an API key is present. Used by health checks;
// no live probe is made.
func (a *Analyzer) Configured() bool {
	return a.config.APIKey != ""
}

// Analyze sends the prompt to the chat endpoint and validates the response
// into a Result. Missing top-level fields are defaulted rather than failed:
// the contract with the model is best-effort.
func (a *Analyzer) Analyze(ctx context.Context, prompt string) (*Result, error) {
	completion, err := a.client.Complete(ctx, &ChatRequest{
		Model: a.config.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		MaxTokens:      a.config.MaxTokens,
		Temperature:    a.config.Temperature,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	if completion.Content == "" {
		return nil, ErrNoResponse
	}

	result, err := a.parseResult(completion.Content)
	if err != nil {
		return nil, err
	}

	result.Metadata = Metadata{
		GeneratedAt: time.Now().UTC(),
		Model:       a.config.Model,
		Provider:    a.config.Provider,
		TotalTokens: completion.TotalTokens,
	}

	a.log.Debug("Analysis complete",
		slog.Int("suggestions", len(result.Suggestions)),
		slog.Bool("should_create_tasks", result.ShouldCreateTasks),
		slog.Int("tokens", completion.TotalTokens))

	return result, nil
}

// rawResult is the permissive intermediate shape the model output is parsed
// into before defaulting. Pointer fields distinguish absent from zero.
type rawResult struct {
	Summary           *string      `json:"summary"`
	Suggestions       []Suggestion `json:"suggestions"`
	ShouldCreateTasks *bool        `json:"shouldCreateTasks"`
}

// parseResult parses the completion text, treating the shape as untrusted.
func (a *Analyzer) parseResult(content string) (*Result, error) {
	var raw rawResult
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, content)
	}

	result := &Result{
		Summary:     "Analysis completed",
		Suggestions: []Suggestion{},
	}
	if raw.Summary != nil && *raw.Summary != "" {
		result.Summary = *raw.Summary
	}
	if raw.Suggestions != nil {
		result.Suggestions = raw.Suggestions
	}
	if raw.ShouldCreateTasks != nil {
		result.ShouldCreateTasks = *raw.ShouldCreateTasks
	}

	return result, nil
}
