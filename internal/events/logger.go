package events

import (
	"context"
	"encoding/json"
	"log/slog"
)

// LoggerPublisher writes audit records to the structured logger. It is the
// default publisher when no broker is configured.
type LoggerPublisher struct {
	logger *slog.Logger
}

// NewLoggerPublisher constructs a logging publisher.
func NewLoggerPublisher(logger *slog.Logger) *LoggerPublisher {
	return &LoggerPublisher{logger: logger}
}

// Publish logs the event as a single structured entry.
func (p *LoggerPublisher) Publish(_ context.Context, kind string, event any) error {
	if p == nil || p.logger == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	p.logger.Info("audit event", "kind", kind, "event", string(payload))
	return nil
}
