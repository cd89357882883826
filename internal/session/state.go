// Package session holds per-session state and the turn handlers that drive it.
// Every handler takes the current State by value and returns the next State along
// with what the presentation layer should render; handlers never return errors.
package session

import (
	"slices"

	"github.com/JonMunkholm/WebDbAssistant/internal/db"
	"github.com/JonMunkholm/WebDbAssistant/internal/llm"
)

// Exchange is one rendered question/answer pair of the chat history.
type Exchange struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Options are the per-session model settings.
type Options struct {
	APIKey      string  `json:"-"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	AutoExecute bool    `json:"autoExecute"`
}

// State is everything one session accumulates. The conversation transcript is the
// only part that grows across turns.
type State struct {
	Conversation llm.Conversation `json:"conversation"`
	History      []Exchange       `json:"history"`
	Database     db.Descriptor    `json:"database"`
	CustomRole   string           `json:"customRole,omitempty"`
	CustomRules  string           `json:"customRules,omitempty"`
	Options      Options          `json:"options"`
}

// NewState returns a state holding the default system prompt and no database.
func NewState(opts Options) State {
	if opts.Model == "" {
		opts.Model = llm.DefaultModel
	}
	return State{
		Conversation: llm.BuildConversation("", "", ""),
		Options:      opts,
	}
}

func (s State) clone() State {
	s.Conversation = s.Conversation.Clone()
	s.History = slices.Clone(s.History)
	return s
}
