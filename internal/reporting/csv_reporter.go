// File: internal/reporting/csv_reporter.go
package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
	"github.com/sa-gridsec/gridrisk/internal/economic"
)

// CSVReporter flattens the report into section/metric/value rows followed by
// the economic scenario table. Spreadsheet users get one import with
// everything on it.
type CSVReporter struct {
	writer io.WriteCloser
	logger *zap.Logger
}

// NewCSVReporter takes ownership of the writer.
func NewCSVReporter(writer io.WriteCloser, logger *zap.Logger) *CSVReporter {
	return &CSVReporter{
		writer: writer,
		logger: logger.Named("reporting.csv"),
	}
}

func (r *CSVReporter) Write(report *schemas.AssessmentReport) error {
	w := csv.NewWriter(r.writer)

	rows := [][]string{
		{"section", "metric", "value"},
		{"report", "assessment_id", report.AssessmentID},
		{"report", "generated_at", report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00")},
		{"report", "tool_version", report.ToolVersion},
		{"system", "name", report.System.Name},
		{"system", "location", report.System.Location},
		{"system", "components", strconv.Itoa(report.System.ComponentCount)},
		{"system", "data_flows", strconv.Itoa(report.System.DataFlowCount)},
		{"system", "total_capacity_kw", formatFloat(report.System.TotalCapacityKW)},
	}

	if v := report.Vulnerabilities; v != nil {
		rows = append(rows,
			[]string{"vulnerabilities", "total_matches", strconv.Itoa(v.TotalMatches)},
			[]string{"vulnerabilities", "highest_cvss_score", formatFloat(v.HighestCVSSScore)},
		)
		for _, sev := range []schemas.Severity{
			schemas.SeverityCritical, schemas.SeverityHigh, schemas.SeverityMedium, schemas.SeverityLow,
		} {
			rows = append(rows, []string{"vulnerabilities", string(sev), strconv.Itoa(v.BySeverity[sev])})
		}
	}

	if s := report.Stride; s != nil {
		rows = append(rows, []string{"stride", "total_threats", strconv.Itoa(s.TotalThreats)})
		for _, cat := range schemas.StrideCategories {
			rows = append(rows, []string{"stride", string(cat), strconv.Itoa(s.CategoryBreakdown[cat])})
		}
	}

	if d := report.Dread; d != nil {
		rows = append(rows,
			[]string{"dread", "threats_assessed", strconv.Itoa(d.TotalThreatsAssessed)},
			[]string{"dread", "average_risk_score", formatFloat(d.AverageRiskScore)},
			[]string{"dread", "critical_threats", strconv.Itoa(d.CriticalThreats)},
			[]string{"dread", "highest_risk_threat", d.HighestRiskThreat},
		)
	}

	if c := report.Compliance; c != nil {
		rows = append(rows,
			[]string{"compliance", "overall_status", string(c.Summary.OverallStatus)},
			[]string{"compliance", "average_score", formatFloat(c.Summary.AverageScore)},
			[]string{"compliance", "non_compliant_requirements", strconv.Itoa(c.Summary.NonCompliant)},
		)
		frameworks := make([]string, 0, len(c.Summary.FrameworkSummaries))
		for framework := range c.Summary.FrameworkSummaries {
			frameworks = append(frameworks, string(framework))
		}
		sort.Strings(frameworks)
		for _, framework := range frameworks {
			fs := c.Summary.FrameworkSummaries[schemas.ComplianceFramework(framework)]
			rows = append(rows, []string{"compliance", framework + "_average", formatFloat(fs.AverageScore)})
		}
	}

	if e := report.Economic; e != nil {
		rows = append(rows,
			[]string{"economic", "total_potential_impact_aud", formatFloat(e.TotalPotentialImpact)},
			[]string{"economic", "expected_annual_loss_aud", formatFloat(e.ExpectedAnnualLoss)},
			[]string{"economic", "highest_impact_scenario", string(e.HighestImpactScenario)},
		)
	}

	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing summary rows: %w", err)
	}

	if report.Economic != nil {
		// Blank spacer, then the per-scenario table with its own header.
		if err := w.Write([]string{}); err != nil {
			return fmt.Errorf("writing separator: %w", err)
		}
		if err := w.WriteAll(economic.SummaryRecords(report.Economic)); err != nil {
			return fmt.Errorf("writing scenario rows: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	r.logger.Debug("report written", zap.String("assessment_id", report.AssessmentID))
	return nil
}

func (r *CSVReporter) Close() error {
	return r.writer.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
