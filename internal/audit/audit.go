// Package audit records every attempted action, success or failure, in an
// append-only sink. Writing an event is best-effort: a sink failure is
// logged and discarded, never surfaced to the action that produced it.
package audit

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Severities attached to events.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Event is one attempted action.
type Event struct {
	Action       string            `bson:"action"`
	Resource     string            `bson:"resource"`
	Success      bool              `bson:"success"`
	Severity     string            `bson:"severity"`
	UserID       uint              `bson:"user_id,omitempty"`
	IP           string            `bson:"ip,omitempty"`
	UserAgent    string            `bson:"user_agent,omitempty"`
	RequestID    string            `bson:"request_id"`
	ErrorCode    string            `bson:"error_code,omitempty"`
	ErrorMessage string            `bson:"error_message,omitempty"`
	Details      map[string]string `bson:"details,omitempty"`
	CreatedAt    time.Time         `bson:"created_at"`
}

// Logger persists events durably, independent of the primary transaction.
type Logger interface {
	Log(ctx context.Context, event Event)
}

// MongoLogger appends events to a MongoDB collection.
type MongoLogger struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoLogger creates a logger writing to the given collection.
func NewMongoLogger(collection *mongo.Collection, logger *slog.Logger) *MongoLogger {
	return &MongoLogger{collection: collection, logger: logger}
}

func (l *MongoLogger) Log(ctx context.Context, event Event) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if _, err := l.collection.InsertOne(ctx, event); err != nil {
		l.logger.Error("audit write failed",
			"action", event.Action,
			"request_id", event.RequestID,
			"error", err,
		)
	}
}

// SlogLogger writes events to the application log. Used when no Mongo sink is
// configured (development, tests).
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a log-backed sink.
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

func (l *SlogLogger) Log(ctx context.Context, event Event) {
	l.logger.Info("audit",
		"action", event.Action,
		"resource", event.Resource,
		"success", event.Success,
		"severity", event.Severity,
		"user_id", event.UserID,
		"request_id", event.RequestID,
		"error_code", event.ErrorCode,
	)
}
