// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Report
// model.
//
// Reports are written in two phases: the structured fields are inserted
// immediately with a nil narrative, and AttachNarrative fills in the
// generated document only after a successful LLM call. The first phase is
// therefore never rolled back by a generation failure.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/safespace-id/safespace-backend/internal/domain"
)

// ReportFields carries the five validated closed-set values of a submission.
type ReportFields struct {
	Location            string
	Perpetrator         string
	IncidentDescription string
	Evidence            string
	UserGoal            string
}

// CreateReport inserts a report row with a nil GeneratedDocument.
func CreateReport(ctx context.Context, db *gorm.DB, sessionID string, f ReportFields) (*domain.Report, error) {
	r := &domain.Report{
		ID:                  uuid.NewString(),
		SessionID:           sessionID,
		Location:            f.Location,
		Perpetrator:         f.Perpetrator,
		IncidentDescription: f.IncidentDescription,
		Evidence:            f.Evidence,
		UserGoal:            f.UserGoal,
		CreatedAt:           time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// AttachNarrative sets the generated document on an existing report.
// Returns ErrNotFound when the report row is missing.
func AttachNarrative(ctx context.Context, db *gorm.DB, reportID, text string) error {
	res := db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("id = ?", reportID).
		Update("generated_document", text)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetLatestReport returns the most recent report for a session, or
// ErrNotFound when the session has none. Multiple reports per session are
// permitted; retrieval surfaces the newest.
func GetLatestReport(ctx context.Context, db *gorm.DB, sessionID string) (*domain.Report, error) {
	var r domain.Report
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CountReports returns the number of reports owned by a session.
func CountReports(ctx context.Context, db *gorm.DB, sessionID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("session_id = ?", sessionID).
		Count(&total).Error
	return total, err
}
