package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// IntentKind is what the user is asking the assistant to do.
type IntentKind string

// Recognized intents.
const (
	IntentSearchClient    IntentKind = "search_client"
	IntentShowSchedule    IntentKind = "show_schedule"
	IntentListServices    IntentKind = "list_services"
	IntentScheduleService IntentKind = "schedule_service"
	IntentEditSchedule    IntentKind = "edit_schedule"
	IntentDeleteSchedule  IntentKind = "delete_schedule"
	IntentUnknown         IntentKind = "unknown"
)

func (k IntentKind) valid() bool {
	switch k {
	case IntentSearchClient, IntentShowSchedule, IntentListServices,
		IntentScheduleService, IntentEditSchedule, IntentDeleteSchedule, IntentUnknown:
		return true
	}
	return false
}

// Intent is a parsed request with whatever names, dates or services were mentioned.
type Intent struct {
	Entities map[string]any `json:"entities"`
	Kind     IntentKind     `json:"intent"`
}

// Entity returns a string entity, or "" when absent.
func (i Intent) Entity(key string) string {
	if v, ok := i.Entities[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func unknownIntent() Intent {
	return Intent{Kind: IntentUnknown, Entities: map[string]any{}}
}

// ExtractIntent classifies message. It does not touch the conversation
// history, and any failure yields the unknown intent.
func (a *Agent) ExtractIntent(ctx context.Context, message string) Intent {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: intentSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: intentPrompt(message)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: temperature(0),
	})
	if err != nil {
		a.logger.Warn("Intent extraction failed", "error", err)
		return unknownIntent()
	}
	if len(resp.Choices) == 0 {
		a.logger.Warn("Intent extraction returned no choices")
		return unknownIntent()
	}

	intent, err := parseIntent(resp.Choices[0].Message.Content)
	if err != nil {
		a.logger.Warn("Intent extraction returned unusable JSON", "error", err)
		return unknownIntent()
	}
	return intent
}

func parseIntent(content string) (Intent, error) {
	var intent Intent
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &intent); err != nil {
		return Intent{}, fmt.Errorf("failed to parse intent: %w", err)
	}
	intent.Kind = IntentKind(strings.ToLower(strings.TrimSpace(string(intent.Kind))))
	if !intent.Kind.valid() {
		intent.Kind = IntentUnknown
	}
	if intent.Entities == nil {
		intent.Entities = map[string]any{}
	}
	return intent, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add in spite of JSON mode.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
