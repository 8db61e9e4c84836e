package schemas

import "time"

// -- Regulatory Compliance Schemas --

// ComplianceStatus is the verdict for a single requirement or a whole
// framework.
type ComplianceStatus string

const (
	StatusCompliant          ComplianceStatus = "COMPLIANT"
	StatusNonCompliant       ComplianceStatus = "NON_COMPLIANT"
	StatusPartiallyCompliant ComplianceStatus = "PARTIALLY_COMPLIANT"
	StatusNotApplicable      ComplianceStatus = "NOT_APPLICABLE"
	StatusPendingReview      ComplianceStatus = "PENDING_REVIEW"
)

// ComplianceFramework names a regulatory regime applicable to grid-connected
// solar in South Australia.
type ComplianceFramework string

const (
	FrameworkAEMOVPP ComplianceFramework = "AEMO_VPP"
	FrameworkAS4777  ComplianceFramework = "AS4777"
)

// ComplianceRequirement is one obligation within a framework.
type ComplianceRequirement struct {
	ID          string              `json:"requirement_id"`
	Framework   ComplianceFramework `json:"framework"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Mandatory   bool                `json:"mandatory"`
	Deadline    time.Time           `json:"implementation_deadline,omitempty"`

	Criteria           []string `json:"compliance_criteria"`
	VerificationMethod string   `json:"verification_method"`
	Penalty            string   `json:"penalty_for_non_compliance"`

	RelatedControls    []string `json:"related_security_controls,omitempty"`
	AffectedComponents []string `json:"affected_components,omitempty"`
}

// ComplianceAssessment is the scored outcome for one requirement.
// Score is a 0-100 percentage.
type ComplianceAssessment struct {
	RequirementID string           `json:"requirement_id"`
	Status        ComplianceStatus `json:"status"`
	Score         float64          `json:"compliance_score"`
	AssessedAt    time.Time        `json:"assessment_date"`

	Evidence        []string `json:"evidence"`
	Gaps            []string `json:"gaps_identified"`
	Recommendations []string `json:"recommendations"`
	Notes           string   `json:"assessor_notes,omitempty"`
}

// StatusForScore bands a 0-100 score into a verdict. The thresholds match
// grid-connection audit practice: anything under half is a failure.
func StatusForScore(score float64) ComplianceStatus {
	switch {
	case score >= 90:
		return StatusCompliant
	case score >= 50:
		return StatusPartiallyCompliant
	default:
		return StatusNonCompliant
	}
}

// FrameworkSummary aggregates assessments within one framework.
type FrameworkSummary struct {
	RequirementsCount  int                      `json:"requirements_count"`
	AverageScore       float64                  `json:"average_score"`
	StatusDistribution map[ComplianceStatus]int `json:"status_distribution"`
}

// ComplianceSummary is the top-level rollup across frameworks.
type ComplianceSummary struct {
	OverallStatus       ComplianceStatus            `json:"overall_status"`
	FrameworksAnalyzed  int                         `json:"frameworks_analyzed"`
	TotalRequirements   int                         `json:"total_requirements"`
	Compliant           int                         `json:"compliant_requirements"`
	NonCompliant        int                         `json:"non_compliant_requirements"`
	PartiallyCompliant  int                         `json:"partially_compliant_requirements"`
	AverageScore        float64                     `json:"average_compliance_score"`
	FrameworkSummaries  map[ComplianceFramework]FrameworkSummary `json:"framework_summaries"`
}

// ComplianceRecommendation groups remediation actions by priority.
type ComplianceRecommendation struct {
	Priority    string   `json:"priority"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

// RegulatoryDeadline is one entry in the compliance timeline.
type RegulatoryDeadline struct {
	Date        string `json:"date"`
	Requirement string `json:"requirement"`
	Status      string `json:"status"`
}

// ComplianceRisk names a consequence of remaining non-compliant.
type ComplianceRisk struct {
	Risk    string `json:"risk"`
	Trigger string `json:"trigger"`
	Impact  string `json:"impact"`
}

// RegulatoryContext describes the South Australian regime the deployment
// operates under.
type RegulatoryContext struct {
	MandatoryRemoteAccess   bool                 `json:"mandatory_remote_access"`
	VPPParticipationRequired bool                `json:"aemo_vpp_participation_required"`
	CurrentPhase            string               `json:"current_phase"`
	KeyDeadlines            []RegulatoryDeadline `json:"key_deadlines"`
	ComplianceRisks         []ComplianceRisk     `json:"compliance_risks"`
}

// ComplianceReport is the full output of a compliance run.
type ComplianceReport struct {
	SystemName      string                                           `json:"system_name"`
	Summary         ComplianceSummary                                `json:"compliance_summary"`
	FrameworkResults map[ComplianceFramework][]ComplianceAssessment  `json:"framework_results"`
	Recommendations []ComplianceRecommendation                       `json:"recommendations"`
	Context         RegulatoryContext                                `json:"regulatory_context"`
}
