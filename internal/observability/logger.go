// Package observability wires structured logging, Prometheus metrics and the HTTP
// middleware that feeds both.
package observability

import (
	"io"
	"log/slog"

	"github.com/JonMunkholm/WebDbAssistant/internal/config"
)

const serviceName = "webdbassistant"

func NewLogger(cfg config.Config, writer io.Writer) *slog.Logger {
	if writer == nil {
		writer = io.Discard
	}
	opts := &slog.HandlerOptions{Level: cfg.Observability.LogLevel}
	var handler slog.Handler
	if cfg.Observability.LogJSON {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	return slog.New(handler).With(slog.String("service", serviceName))
}
