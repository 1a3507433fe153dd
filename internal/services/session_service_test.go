package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/safespace-id/safespace-backend/internal/domain"
)

func TestSessionCreate_AndExists(t *testing.T) {
	db := newSvcDB(t)
	s := NewSessionService(db)

	sess, err := s.Create(context.Background())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := uuid.Parse(sess.ID); err != nil {
		t.Fatalf("session id not a UUID: %q", sess.ID)
	}

	ok, err := s.Exists(context.Background(), sess.ID)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	ok, err = s.Exists(context.Background(), uuid.NewString())
	if err != nil || ok {
		t.Fatalf("Exists for random id = %v, %v", ok, err)
	}
}

func TestSessionDelete_MapsNotFound(t *testing.T) {
	db := newSvcDB(t)
	s := NewSessionService(db)

	if err := s.Delete(context.Background(), uuid.NewString()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionDelete_RemovesEverything(t *testing.T) {
	db := newSvcDB(t)
	s := NewSessionService(db)
	chat := &ChatService{DB: db, Generator: &capturingGen{reply: "balasan"}}
	reports := &ReportService{DB: db, Generator: &capturingGen{reply: "doc"}}

	sess, err := s.Create(context.Background())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := chat.Answer(context.Background(), sess.ID, "halo"); err != nil {
		t.Fatalf("seed chat: %v", err)
	}
	if _, _, err := reports.Create(context.Background(), sess.ID, goodFields()); err != nil {
		t.Fatalf("seed report: %v", err)
	}

	if err := s.Delete(context.Background(), sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var msgs, reps int64
	db.Model(&domain.Message{}).Where("session_id = ?", sess.ID).Count(&msgs)
	db.Model(&domain.Report{}).Where("session_id = ?", sess.ID).Count(&reps)
	if msgs != 0 || reps != 0 {
		t.Fatalf("dependents survived delete: messages=%d reports=%d", msgs, reps)
	}

	// Repeat delete is an error, not a silent success.
	if err := s.Delete(context.Background(), sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on repeat delete, got %v", err)
	}
}
