// Package llm provides the chat-completion client, the system prompt builder and the
// SQL extractor used to turn natural language into SQL.
package llm

import (
	"context"
	"slices"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a conversation transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is an ordered transcript. The first element, when present, is the
// system message produced by BuildConversation.
type Conversation []Message

// Clone returns a copy that shares no backing array with c.
func (c Conversation) Clone() Conversation {
	if c == nil {
		return nil
	}
	return slices.Clone(c)
}

// Append returns a copy of c with m appended. c is never modified.
func (c Conversation) Append(m Message) Conversation {
	out := make(Conversation, 0, len(c)+1)
	out = append(out, c...)
	return append(out, m)
}

// Last returns the final message and whether one exists.
func (c Conversation) Last() (Message, bool) {
	if len(c) == 0 {
		return Message{}, false
	}
	return c[len(c)-1], true
}

// Provider sends a conversation to a hosted model.
type Provider interface {
	// Chat returns the assistant reply and the transcript with that reply appended.
	// On failure the reply is a human-readable error and the transcript is returned
	// unchanged.
	Chat(ctx context.Context, conv Conversation, apiKey, model string, temperature float64) (string, Conversation)

	// Name returns the provider name for logging/debugging.
	Name() string
}

const (
	// DefaultModel is preselected when no model is configured.
	DefaultModel = "llama-3.1-8b-instant"
	// DefaultTemperature matches the interactive default.
	DefaultTemperature = 0.7
	// MaxTokens caps every completion.
	MaxTokens = 1000
)

// Models lists the hosted model identifiers that may be selected.
var Models = []string{
	"llama-3.1-8b-instant",
	"llama-3.3-70b-versatile",
	"gemma2-9b-it",
	"mixtral-8x7b-32768",
	"qwen-qwq-32b",
	"mistral-saba-24b",
}

// IsSupportedModel reports whether name is one of Models.
func IsSupportedModel(name string) bool {
	return slices.Contains(Models, name)
}
