package session

import (
	"context"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/WebDbAssistant/internal/db"
	"github.com/JonMunkholm/WebDbAssistant/internal/llm"
	"github.com/JonMunkholm/WebDbAssistant/internal/observability"
	"github.com/JonMunkholm/WebDbAssistant/internal/result"
)

// NotConfiguredMessage is shown when an action needs a database and none is selected.
const NotConfiguredMessage = "⚠️ **Veuillez d'abord configurer la base de données**"

// structureKeywords route a message to the schema display instead of the model.
var structureKeywords = []string{
	"structure", "schéma", "schema", "tables",
	"affiche les tables", "montre les tables", "structure de la base",
}

const (
	originAuto   = "auto"
	originManual = "manual"
)

// Executor runs statements and lists databases.
type Executor interface {
	RunText(ctx context.Context, d db.Descriptor, query string) string
	ListDatabases(ctx context.Context, d db.Descriptor) ([]string, error)
}

// Introspector renders the schema of a database.
type Introspector interface {
	CompactText(ctx context.Context, d db.Descriptor) string
	RichText(ctx context.Context, d db.Descriptor) string
}

// Dependencies are the collaborators of a Service.
type Dependencies struct {
	Provider     llm.Provider
	Executor     Executor
	Introspector Introspector
	Logger       *slog.Logger
	Metrics      observability.Recorder
}

// Service implements the turn handlers. It holds no session state itself and can be
// shared by any number of sessions.
type Service struct {
	provider     llm.Provider
	executor     Executor
	introspector Introspector
	logger       *slog.Logger
	metrics      observability.Recorder
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NopRecorder{}
	}
	return &Service{
		provider:     deps.Provider,
		executor:     deps.Executor,
		introspector: deps.Introspector,
		logger:       logger,
		metrics:      metrics,
	}
}

// Send handles one user message and returns the new state and the chat history.
//
// Structure requests are answered from the catalog without calling the model. When
// auto-execution is on and a database is configured, the statement extracted from
// the reply is run and its formatted result is appended to the reply, including the
// copy stored in the transcript.
func (s *Service) Send(ctx context.Context, st State, message string) (State, []Exchange) {
	st = st.clone()
	if len(st.Conversation) == 0 {
		st.Conversation = llm.BuildConversation("", "", "")
	}

	if asksForStructure(message) {
		st.History = append(st.History, Exchange{User: message, Assistant: s.Structure(ctx, st)})
		return st, st.History
	}

	conv := st.Conversation.Append(llm.Message{Role: llm.RoleUser, Content: message})
	reply, updated := s.provider.Chat(ctx, conv, st.Options.APIKey, st.Options.Model, st.Options.Temperature)
	answered := len(updated) > len(conv)
	if answered {
		s.metrics.ModelRequest(observability.OutcomeOK)
	} else {
		s.metrics.ModelRequest(observability.OutcomeError)
		s.logger.WarnContext(ctx, "model call failed",
			slog.String("provider", s.provider.Name()),
			slog.String("model", st.Options.Model),
			slog.String("reply", observability.Mask(reply)),
		)
	}

	if st.Options.AutoExecute && st.Database.Configured() {
		query, ok := llm.ExtractSQL(reply)
		s.metrics.Extraction(ok)
		if ok {
			reply += "\n\n" + s.run(ctx, st.Database, query, originAuto)
			if last, _ := updated.Last(); answered && last.Role == llm.RoleAssistant {
				updated[len(updated)-1].Content = reply
			}
		}
	}

	st.Conversation = updated
	st.History = append(st.History, Exchange{User: message, Assistant: reply})
	return st, st.History
}

// Reset rebuilds the system prompt from the current database and stored role/rules
// and clears the chat history.
func (s *Service) Reset(ctx context.Context, st State) State {
	st = st.clone()
	st.Conversation = llm.BuildConversation(s.schemaText(ctx, st.Database), st.CustomRole, st.CustomRules)
	st.History = nil
	return st
}

// ApplyPrompt stores a custom role and rules and rebuilds the system prompt. The chat
// history is kept.
func (s *Service) ApplyPrompt(ctx context.Context, st State, role, rules string) State {
	st = st.clone()
	st.CustomRole = role
	st.CustomRules = rules
	st.Conversation = llm.BuildConversation(s.schemaText(ctx, st.Database), role, rules)
	return st
}

// SelectDatabase switches the session to d and restarts the transcript with d's
// schema. The compact schema text is returned for display.
func (s *Service) SelectDatabase(ctx context.Context, st State, d db.Descriptor) (State, string) {
	st = st.clone()
	schemaText := s.introspector.CompactText(ctx, d)
	st.Database = d
	st.Conversation = llm.BuildConversation(schemaText, st.CustomRole, st.CustomRules)
	s.logger.InfoContext(ctx, "database selected", slog.String("target", d.String()))
	return st, schemaText
}

// SetOptions replaces the model settings. The transcript is untouched.
func (s *Service) SetOptions(st State, opts Options) State {
	st = st.clone()
	if opts.Model == "" {
		opts.Model = llm.DefaultModel
	}
	st.Options = opts
	return st
}

// Execute runs query against the session database and returns the formatted result.
func (s *Service) Execute(ctx context.Context, st State, query string) string {
	if !st.Database.Configured() {
		return NotConfiguredMessage
	}
	return s.run(ctx, st.Database, query, originManual)
}

// Structure renders the full database structure as markdown.
func (s *Service) Structure(ctx context.Context, st State) string {
	if !st.Database.Configured() {
		return NotConfiguredMessage
	}
	return s.introspector.RichText(ctx, st.Database)
}

// DatabaseList is the outcome of listing databases. Error is empty on success.
type DatabaseList struct {
	Names []string `json:"names"`
	Error string   `json:"error,omitempty"`
}

// ListDatabases lists the databases reachable with d's credentials.
func (s *Service) ListDatabases(ctx context.Context, d db.Descriptor) DatabaseList {
	names, err := s.executor.ListDatabases(ctx, d.WithDatabase(""))
	if err != nil {
		s.logger.WarnContext(ctx, "list databases failed", slog.String("target", d.String()), slog.String("error", observability.Mask(err.Error())))
		return DatabaseList{Names: []string{}, Error: "Erreur de connexion : " + err.Error()}
	}
	if names == nil {
		names = []string{}
	}
	return DatabaseList{Names: names}
}

func (s *Service) run(ctx context.Context, d db.Descriptor, query, origin string) string {
	raw := s.executor.RunText(ctx, d, query)
	outcome := observability.OutcomeOK
	if strings.HasPrefix(raw, db.ErrorPrefix) {
		outcome = observability.OutcomeError
	}
	s.metrics.Statement(origin, outcome)
	return result.Format(raw, query)
}

func (s *Service) schemaText(ctx context.Context, d db.Descriptor) string {
	if !d.Configured() {
		return ""
	}
	return s.introspector.CompactText(ctx, d)
}

func asksForStructure(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range structureKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
