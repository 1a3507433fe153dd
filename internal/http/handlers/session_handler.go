// Session HTTP handlers.
//
// This file exposes REST endpoints for anonymous session lifecycle:
//   - POST   /sessions        (create)
//   - DELETE /sessions/{id}   (hard delete, cascades messages and reports)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. No auth: sessions are anonymous
// by design and the UUID itself is the only credential.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/safespace-id/safespace-backend/internal/domain"
	"github.com/safespace-id/safespace-backend/internal/repo"
	"github.com/safespace-id/safespace-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// SessionService defines session lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SessionService interface {
	// Create mints a new anonymous session.
	Create(ctx context.Context) (*domain.Session, error)
	// Delete hard-deletes a session and everything it owns.
	Delete(ctx context.Context, sessionID string) error
}

// ChatService defines chat turn and history operations.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChatService interface {
	// Answer appends a user message and attempts a model reply.
	Answer(ctx context.Context, sessionID, message string) (*domain.Message, error)
	// History returns every message in the session, oldest first.
	History(ctx context.Context, sessionID string) ([]domain.Message, error)
}

// ReportService defines structured report submission and retrieval.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ReportService interface {
	// Create persists a report and attempts narrative generation.
	// genErr is non-nil when the narrative could not be produced;
	// the structured fields persist regardless.
	Create(ctx context.Context, sessionID string, f repo.ReportFields) (report *domain.Report, genErr error, err error)
	// Get returns the newest report for the session.
	Get(ctx context.Context, sessionID string) (*domain.Report, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for sessions, chat, and reports.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	sessionSvc SessionService
	chatSvc    ChatService
	reportSvc  ReportService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(sessionSvc SessionService, chatSvc ChatService, reportSvc ReportService) *Handlers {
	return &Handlers{sessionSvc: sessionSvc, chatSvc: chatSvc, reportSvc: reportSvc}
}

// sessionParam validates the {id} path segment as a UUID. A malformed id is
// a validation failure, not a lookup miss, so it maps to 422.
func sessionParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidationFailed, "session id must be a UUID")
		return "", false
	}
	return id, true
}

//
// DTOs
//

// CreateSessionResponse is the JSON body returned when a session is created.
type CreateSessionResponse struct {
	SessionID string    `json:"session_id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	CreatedAt time.Time `json:"created_at"`
}

//
// Handlers
//

// CreateSession godoc
// @ID          createSession
// @Summary     Create an anonymous session
// @Description Mints a fresh session UUID. No identifying input is accepted or stored.
// @Tags        Sessions
// @Produce     json
//
// @Success     201  {object}  handlers.CreateSessionResponse
// @Failure     503  {object}  handlers.ErrorResponse  "Storage unavailable"
// @Router      /sessions [post]
func (h *Handlers) CreateSession(c *gin.Context) {
	s, err := h.sessionSvc.Create(c.Request.Context())
	if err != nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeStorageUnavailable, "could not create session")
		return
	}
	ok(c, http.StatusCreated, CreateSessionResponse{SessionID: s.ID, CreatedAt: s.CreatedAt})
}

// DeleteSession godoc
// @ID          deleteSession
// @Summary     Delete a session
// @Description Hard-deletes the session and every message and report it owns. Not idempotent: a second delete returns 404.
// @Tags        Sessions
//
// @Param       id  path  string  true  "Session ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Session not found"
// @Failure     422  {object} handlers.ErrorResponse "Malformed session id"
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Router      /sessions/{id} [delete]
func (h *Handlers) DeleteSession(c *gin.Context) {
	id, okID := sessionParam(c)
	if !okID {
		return
	}

	if err := h.sessionSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "session not found")
			return
		}
		fail(c, http.StatusServiceUnavailable, ErrCodeStorageUnavailable, "could not delete session")
		return
	}
	noContent(c)
}
