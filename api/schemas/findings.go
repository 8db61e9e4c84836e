package schemas

import (
	"encoding/json"
	"time"
)

// -- Finding Schemas --

// Finding is the flattened, storage-ready form of an assessment result:
// both STRIDE threats and CVE matches normalize into findings before being
// persisted. This struct maps directly to the `findings` table.
type Finding struct {
	ID           string `json:"id"`
	AssessmentID string `json:"assessment_id"`

	ObservedAt time.Time `json:"observed_at"`

	// Component is the id of the affected system model component.
	Component string `json:"component"`
	// Module names the rubric that produced the finding ("stride", "cve").
	Module string `json:"module"`

	Title       string   `json:"title"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`

	// Evidence carries structured proof (the threat or match record),
	// stored as JSONB.
	Evidence json.RawMessage `json:"evidence,omitempty"`

	Recommendation string   `json:"recommendation,omitempty"`
	CWE            []string `json:"cwe,omitempty"`
}

// SeverityForRiskLevel maps a banded risk level onto a finding severity.
func SeverityForRiskLevel(level RiskLevel) Severity {
	switch level {
	case RiskCritical:
		return SeverityCritical
	case RiskHigh:
		return SeverityHigh
	case RiskMedium:
		return SeverityMedium
	case RiskLow:
		return SeverityLow
	default:
		return SeverityInfo
	}
}
