// Package schemas defines the shared data types exchanged between the
// assessment rubrics, the reporting layer, and the persistence store.
package schemas

import "time"

// ReportMeta carries the presentation metadata attached to every generated
// report.
type ReportMeta struct {
	Title          string `json:"report_title"`
	Organization   string `json:"organization"`
	Author         string `json:"author"`
	Classification string `json:"classification"`
}

// SystemSummary is the lightweight description of the assessed deployment
// embedded in the report envelope.
type SystemSummary struct {
	Name            string  `json:"name"`
	Location        string  `json:"location"`
	ComponentCount  int     `json:"component_count"`
	DataFlowCount   int     `json:"data_flow_count"`
	TotalCapacityKW float64 `json:"total_capacity_kw"`
}

// AssessmentReport is the envelope holding the output of every rubric for a
// single assessment run. Sections are pointers so single-rubric runs can
// omit the rest.
type AssessmentReport struct {
	AssessmentID string    `json:"assessment_id"`
	GeneratedAt  time.Time `json:"generated_at"`
	ToolVersion  string    `json:"tool_version"`

	Meta   ReportMeta    `json:"meta"`
	System SystemSummary `json:"system"`

	Vulnerabilities *CVESummary       `json:"vulnerabilities,omitempty"`
	Stride          *StrideAnalysis   `json:"stride,omitempty"`
	Dread           *DreadReport      `json:"dread,omitempty"`
	Compliance      *ComplianceReport `json:"compliance,omitempty"`
	Economic        *EconomicAnalysis `json:"economic,omitempty"`

	ExecutiveSummary string `json:"executive_summary,omitempty"`
}
