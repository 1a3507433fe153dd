// Package services – ReportService
//
// This file implements ReportService, the report drafting gateway. A
// submission is persisted in two phases: the validated structured fields go
// in immediately with a nil narrative, then the LLM is asked for the formal
// complaint-form text and the result is attached to the already-persisted
// row. A generation failure leaves the row intact with GeneratedDocument
// nil — the structured submission is never lost to an LLM outage.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/safespace-id/safespace-backend/internal/domain"
	"github.com/safespace-id/safespace-backend/internal/llm"
	"github.com/safespace-id/safespace-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ReportService coordinates report persistence and narrative generation.
type ReportService struct {
	DB        *gorm.DB
	Generator llm.Generator

	// Model selects the drafting model (typically a lite variant tuned for
	// consistent structure rather than creative range).
	Model string
	// Timeout bounds the provider call; zero disables the extra deadline.
	Timeout time.Duration
}

// ValidateFields checks every submitted value against its closed set and
// returns ErrInvalidReportField (wrapped with the offending field name) on
// the first mismatch.
func ValidateFields(f repo.ReportFields) error {
	checks := []struct {
		name string
		set  []string
		val  string
	}{
		{"location", domain.ReportLocations, f.Location},
		{"perpetrator", domain.ReportPerpetrators, f.Perpetrator},
		{"incident_description", domain.ReportIncidentDescriptions, f.IncidentDescription},
		{"evidence", domain.ReportEvidence, f.Evidence},
		{"user_goal", domain.ReportUserGoals, f.UserGoal},
	}
	for _, c := range checks {
		if !domain.ValidReportValue(c.set, c.val) {
			return fmt.Errorf("%w: %s", ErrInvalidReportField, c.name)
		}
	}
	return nil
}

// Create validates and persists a report, then attempts narrative
// generation. The returned report always reflects the persisted state:
// GeneratedDocument is non-nil only when generation succeeded. genErr is
// non-nil when the narrative could not be produced; the report row persists
// regardless, so callers decide how loudly to surface the failure.
func (s *ReportService) Create(ctx context.Context, sessionID string, f repo.ReportFields) (report *domain.Report, genErr error, err error) {
	tr := otel.Tracer("services/ReportService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("session.id", sessionID)),
	)
	defer span.End()

	if err := ValidateFields(f); err != nil {
		return nil, nil, err
	}

	exists, err := repo.SessionExists(ctx, s.DB, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, ErrSessionNotFound
	}

	// Phase one: the structured submission, narrative pending.
	report, err = repo.CreateReport(ctx, s.DB, sessionID, f)
	if err != nil {
		return nil, nil, err
	}

	// Phase two: best-effort narrative.
	text, genErr := s.generate(ctx, llm.ReportRequest(report, s.Model))
	if genErr != nil {
		return report, genErr, nil
	}

	if err := repo.AttachNarrative(ctx, s.DB, report.ID, text); err != nil {
		return report, err, nil
	}
	report.GeneratedDocument = &text
	return report, nil, nil
}

// Get returns the latest report for the session. ErrSessionNotFound when
// the session is absent, ErrReportNotFound when it owns no report.
func (s *ReportService) Get(ctx context.Context, sessionID string) (*domain.Report, error) {
	tr := otel.Tracer("services/ReportService")
	ctx, span := tr.Start(ctx, "Get",
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

	r, err := repo.GetLatestReport(ctx, s.DB, sessionID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *ReportService) generate(ctx context.Context, req llm.Request) (string, error) {
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
