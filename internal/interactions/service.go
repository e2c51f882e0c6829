// Package interactions implements the social-state mutations: follow and
// unfollow, comment create and delete, hashtag tag synchronization and
// candidate promotion. Every primary mutation runs in one database
// transaction together with its counter updates; notification fan-out happens
// after commit and can never roll the mutation back.
package interactions

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/pulsefeed/backend/internal/notify"
	"github.com/pulsefeed/backend/internal/sanitize"
)

// TagCacheInvalidator drops cached tag listings after vocabulary changes.
type TagCacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service executes domain operations over the relational store.
type Service struct {
	db         *gorm.DB
	dispatcher *notify.Dispatcher
	sanitizer  *sanitize.Sanitizer
	tagCache   TagCacheInvalidator
	logger     *slog.Logger
}

// NewService creates the interaction service. dispatcher and tagCache may be
// nil in contexts that do not fan out (tests, offline tooling).
func NewService(db *gorm.DB, dispatcher *notify.Dispatcher, tagCache TagCacheInvalidator, logger *slog.Logger) *Service {
	return &Service{
		db:         db,
		dispatcher: dispatcher,
		sanitizer:  sanitize.NewSanitizer(),
		tagCache:   tagCache,
		logger:     logger,
	}
}

// dispatch sends a notification after a committed mutation. Failure here is
// observable only in logs; the mutation already succeeded.
func (s *Service) dispatch(ctx context.Context, recipientID uint, notifType string, refs notify.Refs) {
	if s.dispatcher == nil || recipientID == refs.ActorID {
		return
	}
	if _, err := s.dispatcher.Dispatch(ctx, recipientID, notifType, refs); err != nil {
		s.logger.Warn("notification dispatch failed",
			"type", notifType,
			"recipient_id", recipientID,
			"error", err,
		)
	}
}
