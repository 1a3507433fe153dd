package domain

import "testing"

func TestTableNames(t *testing.T) {
	if got := (Session{}).TableName(); got != "sessions" {
		t.Fatalf("Session table = %q", got)
	}
	if got := (Message{}).TableName(); got != "messages" {
		t.Fatalf("Message table = %q", got)
	}
	if got := (Report{}).TableName(); got != "reports" {
		t.Fatalf("Report table = %q", got)
	}
	if got := (Idempotency{}).TableName(); got != "idempotency" {
		t.Fatalf("Idempotency table = %q", got)
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleUser) || !ValidRole(RoleModel) {
		t.Fatalf("expected user/model to be valid roles")
	}
	for _, bad := range []string{"", "assistant", "system", "USER", "Model"} {
		if ValidRole(bad) {
			t.Fatalf("role %q should be invalid", bad)
		}
	}
}

func TestValidReportValue(t *testing.T) {
	if !ValidReportValue(ReportLocations, "kampus") {
		t.Fatalf("kampus must be a valid location")
	}
	if ValidReportValue(ReportLocations, "Kampus") {
		t.Fatalf("matching must be exact, not case-insensitive")
	}
	if ValidReportValue(ReportEvidence, "video") {
		t.Fatalf("video is outside the evidence set")
	}
	if ValidReportValue(ReportUserGoals, "") {
		t.Fatalf("empty value must be invalid")
	}
}
