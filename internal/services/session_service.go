// Package services – SessionService
//
// This file implements the SessionService, which owns the anonymous session
// lifecycle: creation, existence checks, and the irreversible hard delete
// that cascades to all dependent messages and reports. There is no update
// path and no soft delete.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/safespace-id/safespace-backend/internal/domain"
	"github.com/safespace-id/safespace-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SessionService provides session lifecycle operations.
type SessionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewSessionService constructs a SessionService.
func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db}
}

// Create inserts a new anonymous session with a fresh random identifier.
// It fails only when the storage layer is unavailable.
func (s *SessionService) Create(ctx context.Context) (*domain.Session, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	return repo.CreateSession(ctx, s.DB)
}

// Exists reports whether the session is present. Used as a write
// precondition by the chat and report services.
func (s *SessionService) Exists(ctx context.Context, id string) (bool, error) {
	return repo.SessionExists(ctx, s.DB, id)
}

// Delete hard-deletes a session and all of its messages and reports.
// A repeated delete of the same id returns ErrSessionNotFound: deletion is
// deliberately not idempotent so clients learn the id is gone.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("session.id", id)),
	)
	defer span.End()

	if err := repo.DeleteSession(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}
