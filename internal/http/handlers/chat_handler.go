// Chat HTTP handlers.
//
// This file exposes REST endpoints for the companion conversation:
//   - POST /sessions/{id}/chat  (send a user message, receive the model reply)
//   - GET  /sessions/{id}/chat  (full ordered history, ETag support)
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/safespace-id/safespace-backend/internal/domain"
	"github.com/safespace-id/safespace-backend/internal/repo"
	"github.com/safespace-id/safespace-backend/internal/services"
)

//
// DTOs
//

// ChatRequest is the JSON payload for sending one user message.
type ChatRequest struct {
	// Message is the user turn. Must be non-empty after trimming and at
	// most 4096 characters.
	Message string `json:"message" binding:"required" example:"Aku butuh teman cerita"`
}

// ChatReply is the model turn returned for a successful chat exchange.
type ChatReply struct {
	Role      string    `json:"role" example:"model"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse wraps the ordered messages of a session.
type HistoryResponse struct {
	SessionID string           `json:"session_id"`
	Messages  []domain.Message `json:"messages"`
}

// chatFail translates chat service errors into HTTP responses.
func chatFail(c *gin.Context, err error) {
	switch err {
	case services.ErrSessionNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "session not found")
	case services.ErrEmptyMessage:
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidationFailed, "message must not be empty")
	case services.ErrMessageTooLong:
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidationFailed,
			fmt.Sprintf("message exceeds %d characters", services.MaxMessageChars))
	case services.ErrUpstreamUnavailable:
		fail(c, http.StatusServiceUnavailable, ErrCodeUpstreamUnavailable, "language model unavailable, please retry")
	case services.ErrUpstreamMalformed:
		fail(c, http.StatusInternalServerError, ErrCodeUpstreamMalformed, "language model returned no usable content")
	default:
		fail(c, http.StatusServiceUnavailable, ErrCodeStorageUnavailable, "storage unavailable")
	}
}

//
// Handlers
//

// SendMessage godoc
// @ID          sendMessage
// @Summary     Send a chat message
// @Description Appends the user message, asks the language model for a reply with the session history as context, and returns the model turn. The user message persists even when the model call fails.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       id               path    string  true   "Session ID (UUID)"  format(uuid)
// @Param       Idempotency-Key  header  string  false  "Replay-safe retry key (UUID)"
// @Param       body             body    handlers.ChatRequest  true  "User message"
//
// @Success     200  {object} handlers.ChatReply
// @Failure     400  {object} handlers.ErrorResponse "Malformed JSON body"
// @Failure     404  {object} handlers.ErrorResponse "Session not found"
// @Failure     422  {object} handlers.ErrorResponse "Empty or oversized message, malformed id"
// @Failure     500  {object} handlers.ErrorResponse "Model returned no usable content"
// @Failure     503  {object} handlers.ErrorResponse "Model or storage unavailable"
// @Router      /sessions/{id}/chat [post]
func (h *Handlers) SendMessage(c *gin.Context) {
	id, okID := sessionParam(c)
	if !okID {
		return
	}
	ctx := c.Request.Context()

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	// Idempotency (replay path) – best effort.
	idemKey := c.GetHeader("Idempotency-Key")
	if idemKey != "" {
		if svc, okSvc := h.chatSvc.(*services.ChatService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, id, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetMessage(svc.DB, rec.MessageID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, ChatReply{Role: prev.Role, Content: prev.Content, CreatedAt: prev.CreatedAt})
					return
				}
			}
		}
	}

	reply, err := h.chatSvc.Answer(ctx, id, req.Message)
	if err != nil {
		chatFail(c, err)
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, okSvc := h.chatSvc.(*services.ChatService); okSvc && svc.DB != nil {
			ttl := 24 * time.Hour
			_, _ = repo.CreateIdempotency(ctx, svc.DB, id, idemKey, reply.ID, http.StatusOK, ttl)
		}
	}

	ok(c, http.StatusOK, ChatReply{Role: reply.Role, Content: reply.Content, CreatedAt: reply.CreatedAt})
}

// GetHistory godoc
// @ID          getHistory
// @Summary     Get conversation history
// @Description Returns every message of the session in conversational order (oldest first). Supports weak ETag via If-None-Match and may return 304.
// @Tags        Chat
// @Produce     json
//
// @Param       id             path    string  true  "Session ID (UUID)"           format(uuid)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
//
// @Success     200  {object} handlers.HistoryResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     404  {object} handlers.ErrorResponse "Session not found"
// @Failure     422  {object} handlers.ErrorResponse "Malformed session id"
// @Router      /sessions/{id}/chat [get]
func (h *Handlers) GetHistory(c *gin.Context) {
	id, okID := sessionParam(c)
	if !okID {
		return
	}
	ctx := c.Request.Context()

	// ETag pre-check (best effort). A deleted session must 404, never 304,
	// so existence is confirmed before If-None-Match is honored.
	var db *gorm.DB
	if svc, isConcrete := h.chatSvc.(*services.ChatService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		exists, err := repo.SessionExists(ctx, db, id)
		if err == nil && !exists {
			chatFail(c, services.ErrSessionNotFound)
			return
		}
		count, maxTS, err := repo.MessagesStats(ctx, db, id)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"msgs:%s:%d:%d"`, id, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	msgs, err := h.chatSvc.History(ctx, id)
	if err != nil {
		chatFail(c, err)
		return
	}
	ok(c, http.StatusOK, HistoryResponse{SessionID: id, Messages: msgs})
}
