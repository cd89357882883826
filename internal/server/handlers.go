package server

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/WebDbAssistant/internal/db"
	"github.com/JonMunkholm/WebDbAssistant/internal/llm"
	"github.com/JonMunkholm/WebDbAssistant/internal/session"
)

type sessionResponse struct {
	ID          string             `json:"id"`
	Database    db.Descriptor      `json:"database"`
	Options     session.Options    `json:"options"`
	HasAPIKey   bool               `json:"hasApiKey"`
	CustomRole  string             `json:"customRole,omitempty"`
	CustomRules string             `json:"customRules,omitempty"`
	History     []session.Exchange `json:"history"`
	Messages    int                `json:"messages"`
}

func newSessionResponse(id string, st session.State) sessionResponse {
	history := st.History
	if history == nil {
		history = []session.Exchange{}
	}
	return sessionResponse{
		ID:          id,
		Database:    st.Database,
		Options:     st.Options,
		HasAPIKey:   st.Options.APIKey != "",
		CustomRole:  st.CustomRole,
		CustomRules: st.CustomRules,
		History:     history,
		Messages:    len(st.Conversation),
	}
}

type databaseRequest struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
}

func (req databaseRequest) descriptor() (db.Descriptor, error) {
	driver, err := db.ParseDriver(req.Driver)
	if err != nil {
		return db.Descriptor{}, err
	}
	return db.Descriptor{
		Driver:   driver,
		Host:     strings.TrimSpace(req.Host),
		Port:     req.Port,
		User:     strings.TrimSpace(req.User),
		Password: req.Password,
		Database: strings.TrimSpace(req.Database),
	}, nil
}

type optionsRequest struct {
	APIKey      *string  `json:"apiKey"`
	Model       *string  `json:"model"`
	Temperature *float64 `json:"temperature"`
	AutoExecute *bool    `json:"autoExecute"`
}

// apply overlays the fields present in req onto opts.
func (req optionsRequest) apply(opts session.Options) (session.Options, error) {
	if req.APIKey != nil {
		opts.APIKey = strings.TrimSpace(*req.APIKey)
	}
	if req.Model != nil {
		if !llm.IsSupportedModel(*req.Model) {
			return opts, fmt.Errorf("unsupported model: %q", *req.Model)
		}
		opts.Model = *req.Model
	}
	if req.Temperature != nil {
		if *req.Temperature < 0 || *req.Temperature > 1 {
			return opts, fmt.Errorf("temperature must be between 0 and 1")
		}
		opts.Temperature = *req.Temperature
	}
	if req.AutoExecute != nil {
		opts.AutoExecute = *req.AutoExecute
	}
	return opts, nil
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": a.store.Len()})
}

func (a *app) handleModels(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"models": llm.Models, "default": llm.DefaultModel})
}

func (a *app) handleListDatabases(w http.ResponseWriter, r *http.Request) {
	var req databaseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	d, err := req.descriptor()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if d.Host == "" || d.User == "" {
		respondError(w, http.StatusBadRequest, "host and user are required")
		return
	}

	list := a.service.ListDatabases(r.Context(), d)
	status := http.StatusOK
	if list.Error != "" {
		status = http.StatusBadGateway
	}
	respondJSON(w, status, list)
}

func (a *app) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req optionsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	opts, err := req.apply(a.defaults)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	st := session.NewState(opts)
	if a.database.Configured() {
		st, _ = a.service.SelectDatabase(r.Context(), st, a.database)
	}
	id := a.store.Create(st)
	a.logger.InfoContext(r.Context(), "session created", "session", id)
	respondJSON(w, http.StatusCreated, newSessionResponse(id, st))
}

func (a *app) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, ok := a.store.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, newSessionResponse(id, st))
}

func (a *app) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !a.store.Delete(chi.URLParam(r, "id")) {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sendRequest struct {
	Message string `json:"message"`
}

type sendResponse struct {
	Reply   string             `json:"reply"`
	History []session.Exchange `json:"history"`
}

func (a *app) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	var history []session.Exchange
	_, ok := a.store.Update(chi.URLParam(r, "id"), func(st session.State) session.State {
		st, history = a.service.Send(r.Context(), st, req.Message)
		return st
	})
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, sendResponse{
		Reply:   history[len(history)-1].Assistant,
		History: history,
	})
}

func (a *app) handleReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, ok := a.store.Update(id, func(st session.State) session.State {
		return a.service.Reset(r.Context(), st)
	})
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, newSessionResponse(id, st))
}

type promptRequest struct {
	Role  string `json:"role"`
	Rules string `json:"rules"`
}

func (a *app) handlePrompt(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	id := chi.URLParam(r, "id")
	st, ok := a.store.Update(id, func(st session.State) session.State {
		return a.service.ApplyPrompt(r.Context(), st, req.Role, req.Rules)
	})
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, newSessionResponse(id, st))
}

func (a *app) handleOptions(w http.ResponseWriter, r *http.Request) {
	var req optionsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	id := chi.URLParam(r, "id")
	var applyErr error
	st, ok := a.store.Update(id, func(st session.State) session.State {
		opts, err := req.apply(st.Options)
		if err != nil {
			applyErr = err
			return st
		}
		return a.service.SetOptions(st, opts)
	})
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	if applyErr != nil {
		respondError(w, http.StatusBadRequest, applyErr.Error())
		return
	}
	respondJSON(w, http.StatusOK, newSessionResponse(id, st))
}

type selectDatabaseResponse struct {
	Schema  string          `json:"schema"`
	Session sessionResponse `json:"session"`
}

func (a *app) handleSelectDatabase(w http.ResponseWriter, r *http.Request) {
	var req databaseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	d, err := req.descriptor()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !d.Configured() {
		respondError(w, http.StatusBadRequest, "host, user and database are required")
		return
	}

	id := chi.URLParam(r, "id")
	var schemaText string
	st, ok := a.store.Update(id, func(st session.State) session.State {
		st, schemaText = a.service.SelectDatabase(r.Context(), st, d)
		return st
	})
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, selectDatabaseResponse{Schema: schemaText, Session: newSessionResponse(id, st)})
}

func (a *app) handleSchema(w http.ResponseWriter, r *http.Request) {
	st, ok := a.store.Get(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"schema": a.service.Structure(r.Context(), st)})
}

type queryRequest struct {
	Query string `json:"query"`
}

func (a *app) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	var out string
	// Statements on one session run under its lock like any other turn.
	_, ok := a.store.Update(chi.URLParam(r, "id"), func(st session.State) session.State {
		out = a.service.Execute(r.Context(), st, req.Query)
		return st
	})
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"result": out})
}

func (a *app) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	query, err := db.ValidateSelectQuery(req.Query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	st, ok := a.store.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if !st.Database.Configured() {
		http.Error(w, "no database selected", http.StatusBadRequest)
		return
	}

	var csvWriter *csv.Writer
	err = a.exporter.Rows(r.Context(), st.Database, query, func(columns []string, values []any) error {
		if csvWriter == nil {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", "attachment; filename=export.csv")
			csvWriter = csv.NewWriter(w)
			if err := csvWriter.Write(columns); err != nil {
				return err
			}
		}
		if values == nil {
			return nil
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = formatCSVValue(v)
		}
		return csvWriter.Write(record)
	})
	if csvWriter == nil {
		if err == nil {
			err = fmt.Errorf("query returned no columns")
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	csvWriter.Flush()
	if err != nil {
		a.logger.WarnContext(r.Context(), "csv export interrupted", "error", err.Error())
	}
}

func formatCSVValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
