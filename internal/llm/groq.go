package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the Groq OpenAI-compatible API root.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

const (
	// ErrorPrefix marks every failure surfaced as text.
	ErrorPrefix = "Erreur : "
	// MissingKeyMessage is returned when no API key is supplied.
	MissingKeyMessage = "Veuillez fournir une clé API Groq."
)

// GroqClient implements Provider for the Groq chat-completions endpoint.
// Any OpenAI-compatible endpoint works when BaseURL is overridden.
type GroqClient struct {
	client *resty.Client
}

// NewGroqClient creates a client rooted at baseURL (DefaultBaseURL when empty).
// No timeout and no retry are configured; the caller's context bounds each call.
func NewGroqClient(baseURL string) *GroqClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")
	return &GroqClient{client: client}
}

// Name returns the provider name.
func (c *GroqClient) Name() string {
	return "groq"
}

// Chat sends the full conversation and appends the assistant reply on HTTP 200.
func (c *GroqClient) Chat(ctx context.Context, conv Conversation, apiKey, model string, temperature float64) (string, Conversation) {
	if apiKey == "" {
		return MissingKeyMessage, conv
	}

	payload := chatRequest{
		Model:       model,
		Messages:    conv,
		Temperature: temperature,
		MaxTokens:   MaxTokens,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		SetBody(payload).
		Post("/chat/completions")
	if err != nil {
		return ErrorPrefix + err.Error(), conv
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Sprintf("%s%d - %s", ErrorPrefix, resp.StatusCode(), string(resp.Body())), conv
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return ErrorPrefix + err.Error(), conv
	}
	if len(result.Choices) == 0 {
		return ErrorPrefix + "réponse sans choix", conv
	}

	content := result.Choices[0].Message.Content
	return content, conv.Append(Message{Role: RoleAssistant, Content: content})
}

// Chat completion request/response types

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message Message `json:"message"`
}
