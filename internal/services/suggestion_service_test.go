package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/farm-management-api/internal/constants"
)

func newSuggestionServer(t *testing.T, content string) *SuggestionService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) && assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "test-model", req.Model)
			assert.Contains(t, req.Messages[0].Content, "weeds in the north field")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewSuggestionServiceWithConfig(cfg, true, "test-model")
}

func TestSuggestionService_Suggest(t *testing.T) {
	content := "```json\n" + `[
		{"title": "Remove weeds", "description": "North field", "priority": "high", "due_date": "2025-10-28T23:59:59Z"},
		{"title": "  ", "description": "dropped"},
		{"title": "Check pump", "priority": "urgent", "due_date": null}
	]` + "\n```"
	svc := newSuggestionServer(t, content)

	tasks, err := svc.Suggest(context.Background(), "weeds in the north field, pump sounds odd")
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "Remove weeds", tasks[0].Title)
	assert.Equal(t, "high", tasks[0].Priority)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, 2025, tasks[0].DueDate.Year())

	assert.Equal(t, "Check pump", tasks[1].Title)
	assert.Equal(t, "medium", tasks[1].Priority)
	assert.Nil(t, tasks[1].DueDate)
}

func TestSuggestionService_CapsResults(t *testing.T) {
	items := make([]string, 0, constants.MaxAIGeneratedTasks+5)
	for i := 0; i < constants.MaxAIGeneratedTasks+5; i++ {
		items = append(items, `{"title":"task","priority":"low"}`)
	}
	svc := newSuggestionServer(t, "["+strings.Join(items, ",")+"]")

	tasks, err := svc.Suggest(context.Background(), "weeds in the north field")
	require.NoError(t, err)
	assert.Len(t, tasks, constants.MaxAIGeneratedTasks)
}

func TestSuggestionService_Errors(t *testing.T) {
	disabled := NewSuggestionService("", "")
	assert.False(t, disabled.Enabled())
	_, err := disabled.Suggest(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrSuggestionsNotConfigured)

	enabled := NewSuggestionService("key", "")
	assert.True(t, enabled.Enabled())
	_, err = enabled.Suggest(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrSuggestionNotesRequired)

	svc := newSuggestionServer(t, "not json")
	_, err = svc.Suggest(context.Background(), "weeds in the north field")
	assert.Error(t, err)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, "[]", stripCodeFence("```json\n[]\n```"))
	assert.Equal(t, "[]", stripCodeFence("```\n[]\n```"))
	assert.Equal(t, "[]", stripCodeFence("  []  "))
}
