// File: internal/reporting/reporter_test.go
package reporting

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

type bufCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufCloser) Close() error {
	b.closed = true
	return nil
}

func sampleReport() *schemas.AssessmentReport {
	return &schemas.AssessmentReport{
		AssessmentID: "3f1c9a2e-0000-4000-8000-000000000001",
		GeneratedAt:  time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC),
		ToolVersion:  "1.0.0",
		Meta: schemas.ReportMeta{
			Title:          "DER Cybersecurity Risk Assessment",
			Organization:   "SA GridSec",
			Classification: "internal",
		},
		System: schemas.SystemSummary{
			Name:            "SA Residential VPP Segment",
			Location:        "Adelaide, South Australia",
			ComponentCount:  3,
			DataFlowCount:   4,
			TotalCapacityKW: 5.0,
		},
		Vulnerabilities: &schemas.CVESummary{
			TotalMatches:     1,
			BySeverity:       map[schemas.Severity]int{schemas.SeverityHigh: 1},
			HighestCVSSScore: 8.6,
			TopCVEs: []schemas.CVEMatch{{
				CVE: schemas.CVERecord{
					ID: "CVE-2024-50691", Vendor: "Sungrow", Product: "SG5KTL", CVSSScore: 8.6,
				},
				ComponentID: "inverter_001",
				Confidence:  0.9,
				MatchType:   "version_range",
			}},
		},
		Stride: &schemas.StrideAnalysis{
			TotalComponents: 3,
			TotalDataFlows:  4,
			TotalThreats:    8,
			CategoryBreakdown: map[schemas.StrideCategory]int{
				schemas.Spoofing: 2, schemas.Tampering: 2, schemas.DenialOfService: 4,
			},
			RiskDistribution: map[schemas.RiskLevel]int{
				schemas.RiskHigh: 3, schemas.RiskMedium: 5,
			},
			TopThreats: []schemas.Threat{{
				ID: "inverter_001_spoofing_1", Title: "Unauthorized Inverter Access",
				AffectedComponent: "inverter_001", Category: schemas.Spoofing,
				Likelihood: 3, Impact: 4, RiskScore: 12,
			}},
		},
		Dread: &schemas.DreadReport{
			TotalThreatsAssessed: 8,
			AverageRiskScore:     6.2,
			HighestRiskThreat:    "inverter_001_spoofing_1",
			CriticalThreats:      1,
			Scores: []schemas.DreadScore{{
				ThreatID: "inverter_001_spoofing_1",
				Damage:   8, Reproducibility: 6, Exploitability: 7, AffectedUsers: 9, Discoverability: 4,
				TotalScore: 34, AverageScore: 6.8, RiskLevel: schemas.RiskHigh,
			}},
		},
		Compliance: &schemas.ComplianceReport{
			SystemName: "SA Residential VPP Segment",
			Summary: schemas.ComplianceSummary{
				OverallStatus:     schemas.StatusPartiallyCompliant,
				TotalRequirements: 6,
				AverageScore:      68.83,
				FrameworkSummaries: map[schemas.ComplianceFramework]schemas.FrameworkSummary{
					schemas.FrameworkAEMOVPP: {RequirementsCount: 4, AverageScore: 58.25},
				},
			},
			FrameworkResults: map[schemas.ComplianceFramework][]schemas.ComplianceAssessment{
				schemas.FrameworkAEMOVPP: {{
					RequirementID: "AEMO_VPP_001",
					Status:        schemas.StatusPartiallyCompliant,
					Score:         75,
				}},
			},
		},
		Economic: &schemas.EconomicAnalysis{
			TotalCapacityKW:       5.0,
			TotalPotentialImpact:  912000,
			ExpectedAnnualLoss:    66000,
			HighestImpactScenario: schemas.ScenarioFirmware,
			Scenarios: map[schemas.AttackScenario]schemas.ScenarioImpact{
				schemas.ScenarioFirmware: {
					Scenario: schemas.ScenarioFirmware, DurationHours: 132,
					AffectedCapacityMW: 0.0045, TotalImpact: 241000,
					DirectCosts: map[string]float64{"forensic_investigation_cost": 15000},
				},
				schemas.ScenarioDoS: {
					Scenario: schemas.ScenarioDoS, DurationHours: 4.5,
					AffectedCapacityMW: 0.002, TotalImpact: 89000,
				},
			},
			Mitigations: map[string]schemas.MitigationROI{
				"basic_security_package": {
					Description: "Basic cybersecurity controls", ROIPercentage: 316.67,
				},
			},
			MitigationPriority: []string{"basic_security_package"},
		},
	}
}

func TestNewReporter(t *testing.T) {
	logger := zap.NewNop()

	t.Run("unsupported format", func(t *testing.T) {
		_, err := New("pdf", "", logger)
		assert.ErrorContains(t, err, "unsupported output format")
	})

	t.Run("writes json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.json")
		r, err := New("json", path, logger)
		require.NoError(t, err)
		require.NoError(t, r.Write(sampleReport()))
		require.NoError(t, r.Close())

		raw, err := os.ReadFile(path)
		require.NoError(t, err)

		var decoded schemas.AssessmentReport
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, "SA Residential VPP Segment", decoded.System.Name)
		assert.Equal(t, 8, decoded.Stride.TotalThreats)
		assert.Equal(t, schemas.ScenarioFirmware, decoded.Economic.HighestImpactScenario)
	})
}

func TestCSVReporter(t *testing.T) {
	buf := &bufCloser{}
	r := NewCSVReporter(buf, zap.NewNop())
	require.NoError(t, r.Write(sampleReport()))
	require.NoError(t, r.Close())
	assert.True(t, buf.closed)

	reader := csv.NewReader(strings.NewReader(buf.String()))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"section", "metric", "value"}, records[0])

	flat := buf.String()
	assert.Contains(t, flat, "vulnerabilities,total_matches,1")
	assert.Contains(t, flat, "stride,DENIAL_OF_SERVICE,4")
	assert.Contains(t, flat, "compliance,overall_status,PARTIALLY_COMPLIANT")
	assert.Contains(t, flat, "economic,highest_impact_scenario,FIRMWARE_INJECTION")
	// Scenario table rides below the summary with its own header.
	assert.Contains(t, flat, "Scenario,Duration_Hours")
	assert.Contains(t, flat, "Firmware Injection")

	t.Run("framework rows come out in sorted order", func(t *testing.T) {
		report := sampleReport()
		report.Compliance.Summary.FrameworkSummaries[schemas.FrameworkAS4777] = schemas.FrameworkSummary{
			RequirementsCount: 2, AverageScore: 90,
		}

		buf := &bufCloser{}
		r := NewCSVReporter(buf, zap.NewNop())
		require.NoError(t, r.Write(report))
		require.NoError(t, r.Close())

		out := buf.String()
		aemo := strings.Index(out, "compliance,AEMO_VPP_average,58.25")
		as4777 := strings.Index(out, "compliance,AS4777_average,90.00")
		require.NotEqual(t, -1, aemo)
		require.NotEqual(t, -1, as4777)
		assert.Less(t, aemo, as4777)
	})
}

func TestHTMLReporter(t *testing.T) {
	buf := &bufCloser{}
	r := NewHTMLReporter(buf, zap.NewNop())

	report := sampleReport()
	report.ExecutiveSummary = BuildExecutiveSummary(report)
	require.NoError(t, r.Write(report))
	require.NoError(t, r.Close())

	html := buf.String()
	assert.Contains(t, html, "<title>DER Cybersecurity Risk Assessment</title>")
	assert.Contains(t, html, "CVE-2024-50691")
	assert.Contains(t, html, "Unauthorized Inverter Access")
	assert.Contains(t, html, "AEMO_VPP_001")
	assert.Contains(t, html, "Firmware Injection")
	assert.Contains(t, html, "Executive Summary")
	// CSS bars carry computed widths, largest category at 100%.
	assert.Contains(t, html, "width: 100.0%")
}

func TestBuildExecutiveSummary(t *testing.T) {
	summary := BuildExecutiveSummary(sampleReport())

	assert.Contains(t, summary, "SA Residential VPP Segment")
	assert.Contains(t, summary, "1 known CVE(s)")
	assert.Contains(t, summary, "8 threats")
	assert.Contains(t, summary, "partially compliant")
	assert.Contains(t, summary, "AUD 912000")
	assert.Contains(t, summary, "Firmware Injection")

	t.Run("sections are skipped when rubrics did not run", func(t *testing.T) {
		report := sampleReport()
		report.Economic = nil
		report.Dread = nil
		summary := BuildExecutiveSummary(report)
		assert.NotContains(t, summary, "DREAD")
		assert.NotContains(t, summary, "economic")
	})
}

func TestBuildView(t *testing.T) {
	view := buildView(sampleReport())

	require.Len(t, view.StrideBars, 6)
	assert.Equal(t, "Denial Of Service", view.StrideBars[4].Label)
	assert.Equal(t, 100.0, view.StrideBars[4].WidthPct)

	require.Len(t, view.ScenarioBars, 2)
	assert.Equal(t, "Firmware Injection", view.ScenarioBars[0].Label)
	assert.Equal(t, 100.0, view.ScenarioBars[0].WidthPct)

	require.Len(t, view.CVERows, 1)
	assert.Equal(t, "high", view.CVERows[0].Class)
}
