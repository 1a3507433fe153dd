package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/safespace-id/safespace-backend/internal/domain"
)

func validFields() ReportFields {
	return ReportFields{
		Location:            "kampus",
		Perpetrator:         "lecturer",
		IncidentDescription: "inappropriate comments",
		Evidence:            "witness",
		UserGoal:            "document safely",
	}
}

func TestCreateReport_InsertsWithNilNarrative(t *testing.T) {
	db := newTestDB(t, &domain.Session{}, &domain.Report{})
	ctx := context.Background()

	if err := db.Create(&domain.Session{ID: "s1", CreatedAt: time.Now().UTC()}).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}

	r, err := CreateReport(ctx, db, "s1", validFields())
	if err != nil {
		t.Fatalf("CreateReport error: %v", err)
	}
	if r.ID == "" || r.SessionID != "s1" || r.Location != "kampus" {
		t.Fatalf("unexpected report: %+v", r)
	}
	if r.GeneratedDocument != nil {
		t.Fatalf("narrative must be nil on insert, got %q", *r.GeneratedDocument)
	}
	if r.CreatedAt.IsZero() || time.Since(r.CreatedAt) > time.Minute {
		t.Fatalf("CreatedAt not set reasonably: %v", r.CreatedAt)
	}
}

func TestAttachNarrative_SetsDocument(t *testing.T) {
	db := newTestDB(t, &domain.Report{})
	ctx := context.Background()

	r, err := CreateReport(ctx, db, "s1", validFields())
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	if err := AttachNarrative(ctx, db, r.ID, "Surat pengaduan."); err != nil {
		t.Fatalf("AttachNarrative error: %v", err)
	}

	got, err := GetLatestReport(ctx, db, "s1")
	if err != nil {
		t.Fatalf("GetLatestReport: %v", err)
	}
	if got.GeneratedDocument == nil || *got.GeneratedDocument != "Surat pengaduan." {
		t.Fatalf("narrative not attached: %+v", got)
	}
}

func TestAttachNarrative_MissingRow(t *testing.T) {
	db := newTestDB(t, &domain.Report{})
	if err := AttachNarrative(context.Background(), db, "nope", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetLatestReport_NewestWinsAndNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Report{})
	ctx := context.Background()

	// none yet
	if _, err := GetLatestReport(ctx, db, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// two rows with explicit timestamps, inserted out of order
	t0 := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)
	older := domain.Report{ID: "r-old", SessionID: "s1", Location: "kampus", Perpetrator: "lecturer",
		IncidentDescription: "inappropriate comments", Evidence: "witness", UserGoal: "document safely", CreatedAt: t0}
	newer := domain.Report{ID: "r-new", SessionID: "s1", Location: "online", Perpetrator: "stranger",
		IncidentDescription: "digital harassment", Evidence: "messages", UserGoal: "explore options", CreatedAt: t1}
	if err := db.Create(&newer).Error; err != nil {
		t.Fatalf("seed newer: %v", err)
	}
	if err := db.Create(&older).Error; err != nil {
		t.Fatalf("seed older: %v", err)
	}

	got, err := GetLatestReport(ctx, db, "s1")
	if err != nil {
		t.Fatalf("GetLatestReport error: %v", err)
	}
	if got.ID != "r-new" {
		t.Fatalf("expected newest report r-new, got %q", got.ID)
	}
}

func TestCountReports_FiltersBySession(t *testing.T) {
	db := newTestDB(t, &domain.Report{})
	ctx := context.Background()

	if _, err := CreateReport(ctx, db, "sa", validFields()); err != nil {
		t.Fatalf("seed sa 1: %v", err)
	}
	if _, err := CreateReport(ctx, db, "sa", validFields()); err != nil {
		t.Fatalf("seed sa 2: %v", err)
	}
	if _, err := CreateReport(ctx, db, "sb", validFields()); err != nil {
		t.Fatalf("seed sb: %v", err)
	}

	total, err := CountReports(ctx, db, "sa")
	if err != nil {
		t.Fatalf("CountReports error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2, got %d", total)
	}
}
