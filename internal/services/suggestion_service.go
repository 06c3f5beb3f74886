package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/farm-management-api/internal/constants"
)

var (
	ErrSuggestionsNotConfigured = errors.New("task suggestions are not configured")
	ErrSuggestionNotesRequired  = errors.New("notes are required")
)

// SuggestedTask is a task proposed from free-text field notes. Suggestions
// are returned to the client and never stored.
type SuggestedTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

// SuggestionService turns field notes into task suggestions with an OpenAI chat model.
type SuggestionService struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

// NewSuggestionService returns a service without a client when apiKey is empty.
func NewSuggestionService(apiKey, model string) *SuggestionService {
	return NewSuggestionServiceWithConfig(openai.DefaultConfig(apiKey), apiKey != "", model)
}

// NewSuggestionServiceWithConfig allows pointing the client at another base URL.
func NewSuggestionServiceWithConfig(cfg openai.ClientConfig, enabled bool, model string) *SuggestionService {
	s := &SuggestionService{model: model, now: time.Now}
	if s.model == "" {
		s.model = openai.GPT4o
	}
	if enabled {
		s.client = openai.NewClientWithConfig(cfg)
	}
	return s
}

func (s *SuggestionService) Enabled() bool {
	return s != nil && s.client != nil
}

// Suggest analyzes notes and proposes up to constants.MaxAIGeneratedTasks tasks.
func (s *SuggestionService) Suggest(ctx context.Context, notes string) ([]SuggestedTask, error) {
	if !s.Enabled() {
		return nil, ErrSuggestionsNotConfigured
	}
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, ErrSuggestionNotesRequired
	}

	currentTime := s.now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You are an assistant for a farm manager. Extract concrete farm tasks from the field notes below.

Current time: %s

Field notes:
%s

Reply with a JSON array of tasks in this format:
[
  {
    "title": "short task title",
    "description": "what has to be done and where",
    "priority": "low, medium or high",
    "due_date": "deadline in ISO8601, e.g. 2025-10-28T23:59:59Z, or null when none is implied"
  }
]

Rules:
- Return an empty array [] when the notes contain no task
- Convert relative deadlines ("tomorrow", "next week") into concrete dates
- Return only JSON, without any explanation`, currentTime, notes)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var tasks []SuggestedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	valid := make([]SuggestedTask, 0, len(tasks))
	for _, t := range tasks {
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			continue
		}
		switch t.Priority {
		case "low", "medium", "high":
		default:
			t.Priority = "medium"
		}
		valid = append(valid, t)
		if len(valid) == constants.MaxAIGeneratedTasks {
			break
		}
	}
	return valid, nil
}

// stripCodeFence removes a ```json fence some models wrap their answer in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
