// File: internal/compliance/compliance_test.go
package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
	"github.com/sa-gridsec/gridrisk/internal/model"
)

func TestRequirementCatalogs(t *testing.T) {
	aemo := AEMORequirements()
	require.Len(t, aemo, 4)
	for _, req := range aemo {
		assert.Equal(t, schemas.FrameworkAEMOVPP, req.Framework)
		assert.NotEmpty(t, req.Criteria, "%s has no criteria", req.ID)
		assert.NotEmpty(t, req.Penalty, "%s has no penalty", req.ID)
	}

	as4777 := AS4777Requirements()
	require.Len(t, as4777, 2)
	for _, req := range as4777 {
		assert.Equal(t, schemas.FrameworkAS4777, req.Framework)
		assert.True(t, req.Mandatory)
	}
}

func TestAssessRemoteAccess(t *testing.T) {
	a := New(zap.NewNop())

	t.Run("no API surface scores zero", func(t *testing.T) {
		got := a.assessRemoteAccess(&schemas.System{
			Name: "isolated",
			Components: []schemas.Component{
				{ID: "inv_1", Type: schemas.ComponentInverter},
			},
		})
		assert.Equal(t, 0.0, got.Score)
		assert.Equal(t, schemas.StatusNonCompliant, got.Status)
		assert.Contains(t, got.Gaps, "No API endpoint components found")
	})

	t.Run("full AEMO API surface is compliant", func(t *testing.T) {
		got := a.assessRemoteAccess(&schemas.System{
			Name: "wired",
			Components: []schemas.Component{
				{
					ID:           "api_1",
					Name:         "AEMO VPP Gateway API",
					Type:         schemas.ComponentAPI,
					APIEndpoints: []string{"/vpp/control", "/vpp/status"},
				},
			},
		})
		assert.Equal(t, 100.0, got.Score)
		assert.Equal(t, schemas.StatusCompliant, got.Status)
		assert.Contains(t, got.Evidence, "AEMO VPP API endpoint identified")
	})

	t.Run("generic API misses the AEMO naming points", func(t *testing.T) {
		got := a.assessRemoteAccess(&schemas.System{
			Name: "generic",
			Components: []schemas.Component{
				{
					ID:           "api_1",
					Name:         "Fleet API",
					Type:         schemas.ComponentAPI,
					APIEndpoints: []string{"/control", "/status"},
				},
			},
		})
		assert.Equal(t, 75.0, got.Score)
		assert.Equal(t, schemas.StatusPartiallyCompliant, got.Status)
		assert.Contains(t, got.Recommendations, "Implement dedicated AEMO VPP API endpoint")
	})
}

func TestAssessTelemetry(t *testing.T) {
	a := New(zap.NewNop())

	sys := &schemas.System{
		Name: "telemetry",
		Components: []schemas.Component{
			{ID: "gw_1", Type: schemas.ComponentGateway},
			{ID: "mon_1", Type: schemas.ComponentMonitoring},
		},
		DataFlows: []schemas.DataFlow{
			{
				ID:                   "flow_1",
				Source:               "gw_1",
				Destination:          "mon_1",
				Protocol:             "MQTT",
				CrossesTrustBoundary: true,
				DataTypes:            []string{"power_output", "grid_voltage"},
			},
		},
	}

	got := a.assessTelemetry(sys)
	assert.Equal(t, 100.0, got.Score)
	assert.Equal(t, schemas.StatusCompliant, got.Status)

	// A purely internal deployment with no telemetry types fails outright.
	bare := a.assessTelemetry(&schemas.System{
		Name: "bare",
		Components: []schemas.Component{
			{ID: "inv_1", Type: schemas.ComponentInverter},
		},
	})
	assert.Equal(t, 0.0, bare.Score)
	assert.Equal(t, schemas.StatusNonCompliant, bare.Status)
	assert.Len(t, bare.Recommendations, 3)
}

func TestAssessCybersecurity(t *testing.T) {
	a := New(zap.NewNop())

	t.Run("hardened deployment scores full marks", func(t *testing.T) {
		got := a.assessCybersecurity(&schemas.System{
			Name: "hardened",
			Components: []schemas.Component{
				{
					ID:               "gw_1",
					Type:             schemas.ComponentGateway,
					SecurityControls: []string{"tls", "mutual_authentication", "audit_logging"},
				},
			},
			Network: schemas.NetworkTopology{
				FirewallEnabled:     true,
				NetworkSegmentation: true,
				IntrusionDetection:  true,
			},
		})
		assert.Equal(t, 100.0, got.Score)
		assert.Equal(t, schemas.StatusCompliant, got.Status)
	})

	t.Run("network defenses score individually", func(t *testing.T) {
		got := a.assessCybersecurity(&schemas.System{
			Name: "firewall only",
			Components: []schemas.Component{
				{ID: "inv_1", Type: schemas.ComponentInverter},
			},
			Network: schemas.NetworkTopology{FirewallEnabled: true},
		})
		assert.Equal(t, 8.0, got.Score)
		assert.Contains(t, got.Gaps, "No encryption implementation found")
		assert.Contains(t, got.Gaps, "No network segmentation")
	})
}

func TestAssessEmergencyResponse(t *testing.T) {
	a := New(zap.NewNop())

	sys := &schemas.System{
		Name: "responsive",
		Components: []schemas.Component{
			{
				ID:           "inv_1",
				Type:         schemas.ComponentInverter,
				APIEndpoints: []string{"/emergency/shutdown"},
				Features:     []string{"manual_override"},
			},
		},
		DataFlows: []schemas.DataFlow{
			{ID: "flow_1", Source: "inv_1", Destination: model.MonitoringSystem, Frequency: "real_time"},
		},
	}

	got := a.assessEmergencyResponse(sys)
	assert.Equal(t, 100.0, got.Score)
	assert.Equal(t, schemas.StatusCompliant, got.Status)

	// Hourly batch reporting does not count as real-time response.
	sys.DataFlows[0].Frequency = "hourly"
	sys.Components[0].Features = nil
	got = a.assessEmergencyResponse(sys)
	assert.Equal(t, 40.0, got.Score)
	assert.Contains(t, got.Gaps, "No real-time communication capability")
	assert.Contains(t, got.Gaps, "No manual override capability found")
}

func TestAssessAS4777(t *testing.T) {
	a := New(zap.NewNop())

	t.Run("unverified inverter sits at the review baseline", func(t *testing.T) {
		got := a.AssessAS4777(&schemas.System{
			Name: "unverified",
			Components: []schemas.Component{
				{ID: "inv_1", Type: schemas.ComponentInverter},
			},
		})
		require.Len(t, got, 2)
		for _, assessment := range got {
			assert.Equal(t, 50.0, assessment.Score)
			assert.Equal(t, schemas.StatusPartiallyCompliant, assessment.Status)
			assert.Contains(t, assessment.Gaps, "Technical testing required for full verification")
		}
	})

	t.Run("declared compliance still needs verification testing", func(t *testing.T) {
		got := a.AssessAS4777(&schemas.System{
			Name: "declared",
			Components: []schemas.Component{
				{
					ID:              "inv_1",
					Type:            schemas.ComponentInverter,
					ComplianceFlags: map[string]bool{"as4777": true},
				},
			},
		})
		require.Len(t, got, 2)
		for _, assessment := range got {
			assert.Equal(t, 90.0, assessment.Score)
			// Configuration claims never upgrade the verdict past partial;
			// only type testing can.
			assert.Equal(t, schemas.StatusPartiallyCompliant, assessment.Status)
			assert.Equal(t, []string{"Verification testing recommended"}, assessment.Gaps)
		}
	})
}

func TestAssessDefaultModel(t *testing.T) {
	a := New(zap.NewNop())
	report := a.Assess(model.Default())

	assert.Equal(t, "SA Residential VPP Segment", report.SystemName)

	aemo := report.FrameworkResults[schemas.FrameworkAEMOVPP]
	require.Len(t, aemo, 4)
	byID := make(map[string]schemas.ComplianceAssessment, len(aemo))
	for _, assessment := range aemo {
		byID[assessment.RequirementID] = assessment
	}

	// The demo model has control but no status endpoint, no telemetry data
	// types on its derived flows, no logging controls and no manual override.
	assert.Equal(t, 75.0, byID["AEMO_VPP_001"].Score)
	assert.Equal(t, 60.0, byID["AEMO_VPP_002"].Score)
	assert.Equal(t, 58.0, byID["AEMO_VPP_003"].Score)
	assert.Equal(t, 40.0, byID["AEMO_VPP_004"].Score)
	assert.Equal(t, schemas.StatusNonCompliant, byID["AEMO_VPP_004"].Status)

	summary := report.Summary
	assert.Equal(t, 2, summary.FrameworksAnalyzed)
	assert.Equal(t, 6, summary.TotalRequirements)
	assert.Equal(t, 1, summary.NonCompliant)
	assert.Equal(t, 5, summary.PartiallyCompliant)
	assert.Equal(t, schemas.StatusNonCompliant, summary.OverallStatus)
	assert.Equal(t, 68.83, summary.AverageScore)
	assert.Equal(t, 58.25, summary.FrameworkSummaries[schemas.FrameworkAEMOVPP].AverageScore)
	assert.Equal(t, 90.0, summary.FrameworkSummaries[schemas.FrameworkAS4777].AverageScore)

	require.Len(t, report.Recommendations, 3)
	high := report.Recommendations[0]
	assert.Equal(t, "HIGH", high.Priority)
	require.Len(t, high.Actions, 5)
	// Emergency response is the weakest requirement, so its actions lead.
	assert.Equal(t, "Implement real-time response capability", high.Actions[0])
	assert.Equal(t, "Implement manual override mechanisms", high.Actions[1])
	assert.Equal(t, "LOW", report.Recommendations[2].Priority)

	ctx := report.Context
	assert.True(t, ctx.MandatoryRemoteAccess)
	assert.True(t, ctx.VPPParticipationRequired)
	assert.Equal(t, "Implementation Period", ctx.CurrentPhase)
	assert.Len(t, ctx.KeyDeadlines, 2)
	assert.Len(t, ctx.ComplianceRisks, 2)
}

func TestSummarizeOverallStatus(t *testing.T) {
	compliant := schemas.ComplianceAssessment{Status: schemas.StatusCompliant, Score: 100}
	partial := schemas.ComplianceAssessment{Status: schemas.StatusPartiallyCompliant, Score: 60}
	failing := schemas.ComplianceAssessment{Status: schemas.StatusNonCompliant, Score: 20}

	cases := []struct {
		name        string
		assessments []schemas.ComplianceAssessment
		want        schemas.ComplianceStatus
	}{
		{"all compliant", []schemas.ComplianceAssessment{compliant, compliant}, schemas.StatusCompliant},
		{"partial degrades", []schemas.ComplianceAssessment{compliant, partial}, schemas.StatusPartiallyCompliant},
		{"any failure dominates", []schemas.ComplianceAssessment{compliant, partial, failing}, schemas.StatusNonCompliant},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			summary := summarize(map[schemas.ComplianceFramework][]schemas.ComplianceAssessment{
				schemas.FrameworkAEMOVPP: tc.assessments,
			})
			assert.Equal(t, tc.want, summary.OverallStatus)
		})
	}
}
