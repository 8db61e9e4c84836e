// File: internal/reporting/html_reporter.go
package reporting

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

//go:embed templates/report.html
var reportTemplate string

// HTMLReporter renders a standalone HTML document. Charts are plain CSS
// bars, no JavaScript, so the file works in a locked-down browser and in
// print.
type HTMLReporter struct {
	writer io.WriteCloser
	logger *zap.Logger
	tmpl   *template.Template
}

// NewHTMLReporter takes ownership of the writer. The embedded template is
// parsed once; a parse failure is a programming error and surfaces on the
// first Write.
func NewHTMLReporter(writer io.WriteCloser, logger *zap.Logger) *HTMLReporter {
	return &HTMLReporter{
		writer: writer,
		logger: logger.Named("reporting.html"),
	}
}

func (r *HTMLReporter) Write(report *schemas.AssessmentReport) error {
	if r.tmpl == nil {
		tmpl, err := template.New("report").Parse(reportTemplate)
		if err != nil {
			return fmt.Errorf("parsing report template: %w", err)
		}
		r.tmpl = tmpl
	}

	if err := r.tmpl.Execute(r.writer, buildView(report)); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	r.logger.Debug("report rendered", zap.String("assessment_id", report.AssessmentID))
	return nil
}

func (r *HTMLReporter) Close() error {
	return r.writer.Close()
}

// Bar is one row of a CSS bar chart. WidthPct is relative to the largest
// value in the chart.
type Bar struct {
	Label    string
	Value    string
	WidthPct float64
	Class    string
}

// ScoreRow is one entry in a severity- or status-colored table.
type ScoreRow struct {
	Label  string
	Detail string
	Value  string
	Class  string
}

// reportView is the template data model, flattened so the template stays
// free of logic beyond ranges and conditionals.
type reportView struct {
	Report *schemas.AssessmentReport

	StrideBars   []Bar
	RiskRows     []ScoreRow
	TopThreats   []schemas.Threat
	DreadRows    []ScoreRow
	CVERows      []ScoreRow
	Compliance   []ScoreRow
	ScenarioBars []Bar
	Mitigations  []ScoreRow
}

func buildView(report *schemas.AssessmentReport) reportView {
	view := reportView{Report: report}

	if s := report.Stride; s != nil {
		max := 0
		for _, cat := range schemas.StrideCategories {
			if s.CategoryBreakdown[cat] > max {
				max = s.CategoryBreakdown[cat]
			}
		}
		for _, cat := range schemas.StrideCategories {
			count := s.CategoryBreakdown[cat]
			view.StrideBars = append(view.StrideBars, Bar{
				Label:    titleize(string(cat)),
				Value:    fmt.Sprintf("%d", count),
				WidthPct: barWidth(float64(count), float64(max)),
				Class:    "stride",
			})
		}
		for _, level := range []schemas.RiskLevel{
			schemas.RiskCritical, schemas.RiskHigh, schemas.RiskMedium, schemas.RiskLow, schemas.RiskMinimal,
		} {
			view.RiskRows = append(view.RiskRows, ScoreRow{
				Label: string(level),
				Value: fmt.Sprintf("%d", s.RiskDistribution[level]),
				Class: riskClass(level),
			})
		}
		view.TopThreats = s.TopThreats
	}

	if d := report.Dread; d != nil {
		for _, score := range d.Scores {
			view.DreadRows = append(view.DreadRows, ScoreRow{
				Label: score.ThreatID,
				Detail: fmt.Sprintf("D%d R%d E%d A%d D%d",
					score.Damage, score.Reproducibility, score.Exploitability,
					score.AffectedUsers, score.Discoverability),
				Value: fmt.Sprintf("%.1f", score.AverageScore),
				Class: riskClass(score.RiskLevel),
			})
		}
	}

	if v := report.Vulnerabilities; v != nil {
		for _, match := range v.TopCVEs {
			view.CVERows = append(view.CVERows, ScoreRow{
				Label:  match.CVE.ID,
				Detail: fmt.Sprintf("%s (%s)", match.ComponentID, match.MatchType),
				Value:  fmt.Sprintf("%.1f", match.CVE.CVSSScore),
				Class:  string(match.CVE.Severity()),
			})
		}
	}

	if c := report.Compliance; c != nil {
		for framework, assessments := range c.FrameworkResults {
			for _, a := range assessments {
				view.Compliance = append(view.Compliance, ScoreRow{
					Label:  a.RequirementID,
					Detail: string(framework),
					Value:  fmt.Sprintf("%.0f", a.Score),
					Class:  statusClass(a.Status),
				})
			}
		}
		sort.Slice(view.Compliance, func(i, j int) bool {
			return view.Compliance[i].Label < view.Compliance[j].Label
		})
	}

	if e := report.Economic; e != nil {
		var max float64
		for _, impact := range e.Scenarios {
			if impact.TotalImpact > max {
				max = impact.TotalImpact
			}
		}
		for _, scenario := range schemas.AttackScenarios {
			impact, ok := e.Scenarios[scenario]
			if !ok {
				continue
			}
			view.ScenarioBars = append(view.ScenarioBars, Bar{
				Label:    titleize(string(scenario)),
				Value:    fmt.Sprintf("$%.0f", impact.TotalImpact),
				WidthPct: barWidth(impact.TotalImpact, max),
				Class:    "economic",
			})
		}
		for _, name := range e.MitigationPriority {
			roi := e.Mitigations[name]
			view.Mitigations = append(view.Mitigations, ScoreRow{
				Label:  titleize(name),
				Detail: roi.Description,
				Value:  fmt.Sprintf("%.0f%% ROI", roi.ROIPercentage),
				Class:  "mitigation",
			})
		}
	}

	return view
}

func barWidth(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return value / max * 100
}

func riskClass(level schemas.RiskLevel) string {
	return strings.ToLower(string(level))
}

func statusClass(status schemas.ComplianceStatus) string {
	switch status {
	case schemas.StatusCompliant:
		return "compliant"
	case schemas.StatusPartiallyCompliant:
		return "partial"
	default:
		return "noncompliant"
	}
}

func titleize(s string) string {
	words := strings.Split(strings.ToLower(s), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
