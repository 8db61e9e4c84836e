// File: internal/store/findings.go
package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FindingsFromReport flattens the rubric outputs into storage-ready
// findings. STRIDE threats and CVE matches become one finding each; the
// aggregate rubrics (DREAD, compliance, economic) summarize rather than
// locate, so they stay in the metrics column instead.
func FindingsFromReport(report *schemas.AssessmentReport) []schemas.Finding {
	var findings []schemas.Finding

	if s := report.Stride; s != nil {
		for _, threat := range s.Threats {
			evidence, err := json.Marshal(threat)
			if err != nil {
				evidence = nil
			}
			findings = append(findings, schemas.Finding{
				ID:             uuid.NewString(),
				AssessmentID:   report.AssessmentID,
				ObservedAt:     report.GeneratedAt,
				Component:      threat.AffectedComponent,
				Module:         "stride",
				Title:          threat.Title,
				Severity:       schemas.SeverityForRiskLevel(schemas.ThreatRiskLevel(threat.RiskScore)),
				Description:    threat.Description,
				Evidence:       evidence,
				Recommendation: strings.Join(threat.Mitigations, "; "),
			})
		}
	}

	if v := report.Vulnerabilities; v != nil {
		for _, match := range v.Matches {
			evidence, err := json.Marshal(match)
			if err != nil {
				evidence = nil
			}
			finding := schemas.Finding{
				ID:           uuid.NewString(),
				AssessmentID: report.AssessmentID,
				ObservedAt:   report.GeneratedAt,
				Component:    match.ComponentID,
				Module:       "cve",
				Title:        fmt.Sprintf("%s affects %s %s", match.CVE.ID, match.CVE.Vendor, match.CVE.Product),
				Severity:     match.CVE.Severity(),
				Description:  match.CVE.Description,
				Evidence:     evidence,
			}
			if match.CVE.CWEID != "" {
				finding.CWE = []string{match.CVE.CWEID}
			}
			findings = append(findings, finding)
		}
	}

	return findings
}
