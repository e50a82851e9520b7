// Package assistant is the chat-style scheduling assistant. It keeps a
// conversation with a chat-completion model and books work through the
// record store.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/squeegee/internal/service"
	"github.com/sashabaranov/go-openai"
)

// Fallback replies returned in place of model output when the API fails.
const (
	ReplyInvalidKey = "I apologize, but there seems to be an issue with the API key. Please contact support."
	ReplyGeneric    = "I apologize, but I'm having trouble processing your request. Please try again."
)

// Config configures the chat-completion client.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Agent holds one conversation. It is safe for concurrent use; turns are
// serialized so the history stays in order.
type Agent struct {
	client  *openai.Client
	store   service.Storage
	logger  *slog.Logger
	now     func() time.Time
	cfg     Config
	history []openai.ChatCompletionMessage
	mu      sync.Mutex
}

// New creates an agent. store may be nil, in which case only chat is available.
func New(cfg Config, store service.Storage, logger *slog.Logger) (*Agent, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 500
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	a := &Agent{
		client: openai.NewClientWithConfig(clientCfg),
		store:  store,
		logger: logger,
		now:    time.Now,
		cfg:    cfg,
	}
	a.history = seedHistory()
	return a, nil
}

var _ service.ChatAgent = (*Agent)(nil)

func seedHistory() []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt}}
}

// Chat sends message as the next user turn and returns the assistant's reply.
// API failures are logged and answered with a fallback reply; only an empty
// message or a finished context is returned as an error.
func (a *Agent) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("message cannot be empty")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})
	messages := make([]openai.ChatCompletionMessage, len(a.history))
	copy(messages, a.history)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.cfg.Model,
		Messages:    messages,
		Temperature: temperature(a.cfg.Temperature),
		MaxTokens:   a.cfg.MaxTokens,
	})
	if err == nil && len(resp.Choices) == 0 {
		err = fmt.Errorf("no completion choices returned")
	}
	if err != nil {
		// The unanswered turn is dropped so the next request stays well formed.
		a.history = a.history[:len(a.history)-1]
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		a.logger.Error("Chat completion failed", "error", err)
		if isInvalidKey(err) {
			return ReplyInvalidKey, nil
		}
		return ReplyGeneric, nil
	}

	reply := resp.Choices[0].Message.Content
	a.history = append(a.history, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply})
	a.logger.Debug("Chat reply generated",
		"message", truncate(message, 50),
		"reply", truncate(reply, 50),
		"tokens", resp.Usage.TotalTokens)
	return reply, nil
}

// Reset discards the conversation, keeping only the system prompt.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = seedHistory()
}

// Turns reports how many user and assistant messages are in the history.
func (a *Agent) Turns() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.history) - 1
}

func isInvalidKey(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if code, ok := apiErr.Code.(string); ok && code == "invalid_api_key" {
			return true
		}
	}
	return strings.Contains(err.Error(), "invalid_api_key")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// temperature maps zero to the smallest positive value, since a literal zero
// is dropped by omitempty and the API would fall back to its default of 1.
func temperature(t float32) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
