package schemas

import "time"

// -- CVE Schemas --

// Severity represents the severity band of a vulnerability finding. The
// values are lowercase to align with database ENUMs.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// SeverityForCVSS bands a CVSS base score per the v3.x qualitative scale.
func SeverityForCVSS(score float64) Severity {
	switch {
	case score >= 9.0:
		return SeverityCritical
	case score >= 7.0:
		return SeverityHigh
	case score >= 4.0:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// CVERecord is one entry in the built-in vulnerability table. Records are
// curated by hand; this is not a live NVD feed.
type CVERecord struct {
	ID      string `json:"cve_id"`
	Vendor  string `json:"vendor"`
	Product string `json:"product"`

	VersionStart string `json:"version_start,omitempty"`
	VersionEnd   string `json:"version_end,omitempty"`
	VersionExact string `json:"version_exact,omitempty"`

	Description   string    `json:"description"`
	CVSSScore     float64   `json:"cvss_score"`
	CVSSVector    string    `json:"cvss_vector,omitempty"`
	CWEID         string    `json:"cwe_id,omitempty"`
	AttackVector  string    `json:"attack_vector"`
	PublishedDate time.Time `json:"published_date"`

	References []string `json:"references,omitempty"`
}

// Severity returns the banded severity for the record's CVSS score.
func (r CVERecord) Severity() Severity {
	return SeverityForCVSS(r.CVSSScore)
}

// CVEMatch ties a CVE record to a component of the assessed system.
type CVEMatch struct {
	CVE         CVERecord `json:"cve"`
	ComponentID string    `json:"component_id"`
	Confidence  float64   `json:"confidence"`
	MatchType   string    `json:"match_type"`
	Evidence    []string  `json:"evidence,omitempty"`
}

// CVESummary aggregates the matches found across the whole system.
type CVESummary struct {
	TotalMatches     int              `json:"total_matches"`
	BySeverity       map[Severity]int `json:"by_severity"`
	ByComponent      map[string]int   `json:"by_component"`
	HighestCVSSScore float64          `json:"highest_cvss_score"`
	TopCVEs          []CVEMatch       `json:"top_cves"`
	Matches          []CVEMatch       `json:"all_matches"`
}
