package cmd

import (
	"github.com/JonMunkholm/WebDbAssistant/internal/db"
	"github.com/JonMunkholm/WebDbAssistant/internal/llm"
	"github.com/JonMunkholm/WebDbAssistant/internal/observability"
	"github.com/JonMunkholm/WebDbAssistant/internal/schema"
	"github.com/JonMunkholm/WebDbAssistant/internal/session"
)

// components are the collaborators shared by every command.
type components struct {
	executor *db.Executor
	service  *session.Service
}

func newComponents() components {
	executor := db.NewExecutor(db.Open, logger)
	service := session.NewService(session.Dependencies{
		Provider:     llm.NewGroqClient(cfg.LLM.BaseURL),
		Executor:     executor,
		Introspector: schema.NewIntrospector(db.Open, logger),
		Logger:       logger,
		Metrics:      observability.PrometheusRecorder{},
	})
	return components{executor: executor, service: service}
}

func defaultOptions() session.Options {
	return session.Options{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		AutoExecute: cfg.LLM.AutoExecute,
	}
}

// requireDatabase fails when the connection settings do not name a database.
func requireDatabase() error {
	if !cfg.Database.Configured() {
		return errNoDatabase
	}
	return nil
}
