// Report HTTP handlers.
//
// This file exposes REST endpoints for structured incident reports:
//   - POST /sessions/{id}/report  (submit fields, attempt narrative generation)
//   - GET  /sessions/{id}/report  (retrieve the newest report)
//
// Submission always answers 201 once the structured fields are stored; a
// narrative-generation failure shows up as a null generated_document, never
// as a lost submission.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/safespace-id/safespace-backend/internal/domain"
	"github.com/safespace-id/safespace-backend/internal/http/middleware"
	"github.com/safespace-id/safespace-backend/internal/repo"
	"github.com/safespace-id/safespace-backend/internal/services"
)

//
// DTOs
//

// CreateReportRequest is the JSON payload for submitting a structured report.
// Every field must come from its closed option set; free-form text is rejected.
type CreateReportRequest struct {
	Location            string `json:"location" binding:"required" example:"kampus"`
	Perpetrator         string `json:"perpetrator" binding:"required" example:"lecturer"`
	IncidentDescription string `json:"incident_description" binding:"required" example:"inappropriate comments"`
	Evidence            string `json:"evidence" binding:"required" example:"witness"`
	UserGoal            string `json:"user_goal" binding:"required" example:"document safely"`
}

// ReportResponse is the report resource as returned by the API.
type ReportResponse struct {
	ID                  string    `json:"id"`
	SessionID           string    `json:"session_id"`
	Location            string    `json:"location"`
	Perpetrator         string    `json:"perpetrator"`
	IncidentDescription string    `json:"incident_description"`
	Evidence            string    `json:"evidence"`
	UserGoal            string    `json:"user_goal"`
	GeneratedDocument   *string   `json:"generated_document"`
	CreatedAt           time.Time `json:"created_at"`
}

func reportResponse(r *domain.Report) ReportResponse {
	return ReportResponse{
		ID:                  r.ID,
		SessionID:           r.SessionID,
		Location:            r.Location,
		Perpetrator:         r.Perpetrator,
		IncidentDescription: r.IncidentDescription,
		Evidence:            r.Evidence,
		UserGoal:            r.UserGoal,
		GeneratedDocument:   r.GeneratedDocument,
		CreatedAt:           r.CreatedAt,
	}
}

//
// Handlers
//

// CreateReport godoc
// @ID          createReport
// @Summary     Submit a structured incident report
// @Description Persists the five structured fields, then asks the language model for a formal complaint narrative. Returns 201 with the stored report either way; generated_document is null when generation failed.
// @Tags        Reports
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Session ID (UUID)"  format(uuid)
// @Param       body  body  handlers.CreateReportRequest  true  "Structured report fields"
//
// @Success     201  {object} handlers.ReportResponse
// @Failure     400  {object} handlers.ErrorResponse "Malformed JSON body"
// @Failure     404  {object} handlers.ErrorResponse "Session not found"
// @Failure     422  {object} handlers.ErrorResponse "Field outside its closed set, malformed id"
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Router      /sessions/{id}/report [post]
func (h *Handlers) CreateReport(c *gin.Context) {
	id, okID := sessionParam(c)
	if !okID {
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	fields := repo.ReportFields{
		Location:            req.Location,
		Perpetrator:         req.Perpetrator,
		IncidentDescription: req.IncidentDescription,
		Evidence:            req.Evidence,
		UserGoal:            req.UserGoal,
	}

	report, genErr, err := h.reportSvc.Create(c.Request.Context(), id, fields)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidReportField):
			fail(c, http.StatusUnprocessableEntity, ErrCodeValidationFailed, err.Error())
		case errors.Is(err, services.ErrSessionNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "session not found")
		default:
			fail(c, http.StatusServiceUnavailable, ErrCodeStorageUnavailable, "could not store report")
		}
		return
	}
	if genErr != nil {
		// The submission is safe; only the narrative is missing.
		middleware.LoggerFrom(c).Warn().
			Err(genErr).
			Str("report_id", report.ID).
			Msg("report narrative generation failed")
	}
	ok(c, http.StatusCreated, reportResponse(report))
}

// GetReport godoc
// @ID          getReport
// @Summary     Retrieve the session's report
// @Description Returns the newest report for the session, including the generated narrative when available.
// @Tags        Reports
// @Produce     json
//
// @Param       id  path  string  true  "Session ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.ReportResponse
// @Failure     404  {object} handlers.ErrorResponse "Session or report not found"
// @Failure     422  {object} handlers.ErrorResponse "Malformed session id"
// @Router      /sessions/{id}/report [get]
func (h *Handlers) GetReport(c *gin.Context) {
	id, okID := sessionParam(c)
	if !okID {
		return
	}

	report, err := h.reportSvc.Get(c.Request.Context(), id)
	if err != nil {
		switch err {
		case services.ErrSessionNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "session not found")
		case services.ErrReportNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no report for this session")
		default:
			fail(c, http.StatusServiceUnavailable, ErrCodeStorageUnavailable, "storage unavailable")
		}
		return
	}
	ok(c, http.StatusOK, reportResponse(report))
}
