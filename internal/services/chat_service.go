// Package services – ChatService
//
// This file implements ChatService, the conversational companion gateway.
// It owns one chat turn end to end: validate the user message, confirm the
// session exists, load the full prior history, persist the user message,
// call the LLM with the persona instruction plus history, and persist the
// model reply.
//
// Failure semantics are deliberately asymmetric: validation and session
// checks fail before any side effect, but once the user message is stored
// it stays stored even if the provider call fails. Data retention wins over
// transactional purity here — a survivor's words are never dropped because
// an upstream was down.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the session identifier but never message content.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/safespace-id/safespace-backend/internal/domain"
	"github.com/safespace-id/safespace-backend/internal/llm"
	"github.com/safespace-id/safespace-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MaxMessageChars is the upper bound on a user-authored message, counted in
// runes. Submissions above it are rejected before any persistence.
const MaxMessageChars = 4096

// ChatService coordinates message persistence and LLM-backed replies.
type ChatService struct {
	DB        *gorm.DB
	Generator llm.Generator

	// Model selects the companion model; empty uses the client default.
	Model string
	// Timeout bounds the provider call; zero disables the extra deadline.
	Timeout time.Duration
}

// Answer runs one chat turn for the session and returns the persisted model
// message.
//
// Sequence (no side effect before step 3):
//  1. validate the message (non-empty, <= MaxMessageChars runes)
//  2. confirm the session exists
//  3. persist the user message
//  4. build the provider request from the full prior history
//  5. invoke the LLM under the configured timeout
//  6. persist and return the model reply
//
// A provider failure after step 3 returns ErrUpstreamUnavailable (or
// ErrUpstreamMalformed) with the user message left in place.
func (s *ChatService) Answer(ctx context.Context, sessionID, message string) (*domain.Message, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Answer",
		trace.WithAttributes(attribute.String("session.id", sessionID)),
	)
	defer span.End()

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > MaxMessageChars {
		return nil, ErrMessageTooLong
	}

	exists, err := repo.SessionExists(ctx, s.DB, sessionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrSessionNotFound
	}

	// Full prior history, oldest first. Every turn is included for context;
	// no truncation or summarization.
	history, err := repo.ListMessages(s.DB.WithContext(ctx), sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := repo.CreateMessage(s.DB.WithContext(ctx), sessionID, domain.RoleUser, message); err != nil {
		return nil, err
	}

	req := llm.ChatRequest(history, message)
	req.Model = s.Model
	reply, err := s.generate(ctx, req)
	if err != nil {
		// The user message above stays persisted.
		return nil, err
	}

	modelMsg, err := repo.CreateMessage(s.DB.WithContext(ctx), sessionID, domain.RoleModel, reply)
	if err != nil {
		return nil, err
	}
	return modelMsg, nil
}

// History returns the full ordered message sequence for the session, oldest
// first. An empty slice (not an error) is returned when the session has no
// messages; ErrSessionNotFound when the session itself is absent.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "History",
		trace.WithAttributes(attribute.String("session.id", sessionID)),
	)
	defer span.End()

	exists, err := repo.SessionExists(ctx, s.DB, sessionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrSessionNotFound
	}

	return repo.ListMessages(s.DB.WithContext(ctx), sessionID)
}

// generate invokes the provider under the configured timeout and maps its
// failure conditions onto the service error taxonomy. A timeout is treated
// identically to an unreachable provider.
func (s *ChatService) generate(ctx context.Context, req llm.Request) (string, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	text, err := s.Generator.Generate(ctx, req)
	switch {
	case err == nil:
		return text, nil
	case errors.Is(err, llm.ErrEmptyResponse):
		return "", ErrUpstreamMalformed
	default:
		return "", ErrUpstreamUnavailable
	}
}
