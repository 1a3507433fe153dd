package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/safespace-id/safespace-backend/internal/domain"
	"github.com/safespace-id/safespace-backend/internal/llm"
)

const validReportBody = `{
	"location": "kampus",
	"perpetrator": "lecturer",
	"incident_description": "inappropriate comments",
	"evidence": "witness",
	"user_goal": "document safely"
}`

func TestCreateReport_Success_NarrativeAttached(t *testing.T) {
	db := newTestDB(t, "h_rep_ok")
	r := newRouter(db, &stubGen{reply: "Surat pengaduan resmi."})
	id := createSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/report", validReportBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("create report = %d body=%s", w.Code, w.Body.String())
	}
	var resp ReportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("report body: %v", err)
	}
	if resp.SessionID != id || resp.Location != "kampus" || resp.Perpetrator != "lecturer" {
		t.Fatalf("unexpected report: %+v", resp)
	}
	if resp.GeneratedDocument == nil || *resp.GeneratedDocument != "Surat pengaduan resmi." {
		t.Fatalf("expected attached narrative, got %v", resp.GeneratedDocument)
	}
}

func TestCreateReport_GenerationFails_201_NullDocument(t *testing.T) {
	db := newTestDB(t, "h_rep_genfail")
	r := newRouter(db, &stubGen{err: llm.ErrUnavailable})
	id := createSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/report", validReportBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("create report with dead provider = %d body=%s", w.Code, w.Body.String())
	}
	var resp ReportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("report body: %v", err)
	}
	if resp.GeneratedDocument != nil {
		t.Fatalf("expected null generated_document, got %q", *resp.GeneratedDocument)
	}

	// The submission itself survives and is retrievable.
	var count int64
	db.Model(&domain.Report{}).Where("session_id = ?", id).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 stored report, got %d", count)
	}
	w2 := doJSON(t, r, http.MethodGet, "/sessions/"+id+"/report", "")
	if w2.Code != http.StatusOK {
		t.Fatalf("get report = %d", w2.Code)
	}
}

func TestCreateReport_ValueOutsideClosedSet_422(t *testing.T) {
	db := newTestDB(t, "h_rep_badval")
	r := newRouter(db, &stubGen{reply: "ok"})
	id := createSession(t, r)

	body := `{
		"location": "somewhere else",
		"perpetrator": "lecturer",
		"incident_description": "inappropriate comments",
		"evidence": "witness",
		"user_goal": "document safely"
	}`
	w := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/report", body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid location = %d body=%s", w.Code, w.Body.String())
	}
	if got := errCode(t, w); got != ErrCodeValidationFailed {
		t.Fatalf("invalid location code = %q", got)
	}

	var count int64
	db.Model(&domain.Report{}).Where("session_id = ?", id).Count(&count)
	if count != 0 {
		t.Fatalf("rejected report must not persist, got %d rows", count)
	}
}

func TestCreateReport_UnknownSession_404(t *testing.T) {
	db := newTestDB(t, "h_rep_nosess")
	r := newRouter(db, &stubGen{reply: "ok"})

	w := doJSON(t, r, http.MethodPost, "/sessions/"+uuid.NewString()+"/report", validReportBody)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown session = %d", w.Code)
	}
}

func TestCreateReport_BadJSON_400(t *testing.T) {
	db := newTestDB(t, "h_rep_badjson")
	r := newRouter(db, &stubGen{reply: "ok"})
	id := createSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/report", `{"location":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json = %d", w.Code)
	}
	if got := errCode(t, w); got != ErrCodeBadRequest {
		t.Fatalf("bad json code = %q", got)
	}
}

func TestGetReport_NoneYet_404(t *testing.T) {
	db := newTestDB(t, "h_rep_none")
	r := newRouter(db, &stubGen{reply: "ok"})
	id := createSession(t, r)

	w := doJSON(t, r, http.MethodGet, "/sessions/"+id+"/report", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("no report yet = %d", w.Code)
	}
	if got := errCode(t, w); got != ErrCodeNotFound {
		t.Fatalf("no report code = %q", got)
	}
}

func TestGetReport_ReturnsNewest(t *testing.T) {
	db := newTestDB(t, "h_rep_newest")
	gen := &stubGen{reply: "first"}
	r := newRouter(db, gen)
	id := createSession(t, r)

	if w := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/report", validReportBody); w.Code != http.StatusCreated {
		t.Fatalf("first report = %d", w.Code)
	}
	gen.reply = "second"
	second := `{
		"location": "online",
		"perpetrator": "stranger",
		"incident_description": "digital harassment",
		"evidence": "messages",
		"user_goal": "explore options"
	}`
	if w := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/report", second); w.Code != http.StatusCreated {
		t.Fatalf("second report = %d", w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/sessions/"+id+"/report", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get report = %d", w.Code)
	}
	var resp ReportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("report body: %v", err)
	}
	if resp.Location != "online" {
		t.Fatalf("expected newest report, got location %q", resp.Location)
	}
}
