// File: internal/reporting/summary.go
package reporting

import (
	"fmt"
	"strings"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

// BuildExecutiveSummary renders the headline findings of each rubric as a
// short plain-text narrative for the front of the report. Sections that did
// not run are skipped.
func BuildExecutiveSummary(report *schemas.AssessmentReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Cybersecurity risk assessment of %s (%s): %d components, %.1f kW total capacity.\n",
		report.System.Name, report.System.Location,
		report.System.ComponentCount, report.System.TotalCapacityKW)

	if v := report.Vulnerabilities; v != nil {
		if v.TotalMatches == 0 {
			b.WriteString("No known CVEs matched the modeled hardware and firmware versions.\n")
		} else {
			fmt.Fprintf(&b, "%d known CVE(s) matched deployed hardware; highest CVSS score %.1f (%d critical, %d high).\n",
				v.TotalMatches, v.HighestCVSSScore,
				v.BySeverity[schemas.SeverityCritical], v.BySeverity[schemas.SeverityHigh])
		}
	}

	if s := report.Stride; s != nil {
		fmt.Fprintf(&b, "STRIDE analysis identified %d threats across %d components and %d data flows (%d critical, %d high risk).\n",
			s.TotalThreats, s.TotalComponents, s.TotalDataFlows,
			s.RiskDistribution[schemas.RiskCritical], s.RiskDistribution[schemas.RiskHigh])
	}

	if d := report.Dread; d != nil {
		fmt.Fprintf(&b, "DREAD scoring rates the average threat at %.1f/10", d.AverageRiskScore)
		if d.HighestRiskThreat != "" {
			fmt.Fprintf(&b, "; the highest-risk threat is %s", d.HighestRiskThreat)
		}
		if d.CriticalThreats > 0 {
			fmt.Fprintf(&b, " with %d threat(s) in the critical band", d.CriticalThreats)
		}
		b.WriteString(".\n")
	}

	if c := report.Compliance; c != nil {
		fmt.Fprintf(&b, "Regulatory posture is %s across %d requirements (average score %.0f/100).\n",
			strings.ReplaceAll(strings.ToLower(string(c.Summary.OverallStatus)), "_", " "),
			c.Summary.TotalRequirements, c.Summary.AverageScore)
	}

	if e := report.Economic; e != nil {
		fmt.Fprintf(&b, "Modeled economic exposure totals AUD %.0f across %d attack scenarios; expected annual loss AUD %.0f, dominated by the %s scenario.\n",
			e.TotalPotentialImpact, len(e.Scenarios), e.ExpectedAnnualLoss,
			titleize(string(e.HighestImpactScenario)))
	}

	return strings.TrimRight(b.String(), "\n")
}
