package domain

// Message roles. The set is closed: anything else is rejected before
// persistence and additionally blocked by a DB check constraint.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ValidRole reports whether role is one of the two allowed message authors.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleModel
}

// Closed value sets for the structured report fields. The values mirror the
// options presented by the intake form; free-form text is not accepted.
var (
	ReportLocations = []string{
		"public space", "online", "kampus", "sekolah", "workplace",
	}
	ReportPerpetrators = []string{
		"supervisor", "colleague", "lecturer", "client", "stranger",
	}
	ReportIncidentDescriptions = []string{
		"inappropriate comments", "unwanted physical touch",
		"repeated pressure", "threat or coercion", "digital harassment",
	}
	ReportEvidence = []string{
		"messages", "emails", "witness", "none",
	}
	ReportUserGoals = []string{
		"understand the risk", "document safely",
		"consider reporting", "explore options",
	}
)

// ValidReportValue reports whether v is a member of the given closed set.
func ValidReportValue(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
