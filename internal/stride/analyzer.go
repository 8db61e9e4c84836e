// File: internal/stride/analyzer.go

// Package stride enumerates threats against a modeled deployment using the
// STRIDE methodology. Component threats come from an embedded per-type
// template catalog; data-flow threats come from trust-boundary analysis.
package stride

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

// controlReductions maps a declared security control to the likelihood
// reduction it buys per STRIDE category. Matching is substring-based so
// "api_authentication" still counts as authentication.
var controlReductions = map[string]map[schemas.StrideCategory]int{
	"encryption": {
		schemas.InformationDisclosure: 2,
		schemas.Tampering:             1,
	},
	"authentication": {
		schemas.Spoofing:             2,
		schemas.ElevationOfPrivilege: 1,
	},
	"access_control": {
		schemas.ElevationOfPrivilege: 2,
		schemas.Spoofing:             1,
	},
	"rate_limiting": {
		schemas.DenialOfService: 2,
	},
	"input_validation": {
		schemas.Tampering: 1,
	},
	"logging": {
		schemas.Repudiation: 2,
	},
	"monitoring": {
		schemas.DenialOfService: 1,
		schemas.Spoofing:        1,
	},
}

// Analyzer runs STRIDE analysis over system models.
type Analyzer struct {
	templates map[schemas.ComponentType][]threatTemplate
	logger    *zap.Logger
}

// New creates an Analyzer backed by the embedded threat template catalog.
func New(logger *zap.Logger) (*Analyzer, error) {
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		templates: templates,
		logger:    logger.Named("stride"),
	}, nil
}

// Analyze enumerates threats for every component and data flow in the system
// and aggregates them into a full STRIDE analysis.
func (a *Analyzer) Analyze(sys *schemas.System) *schemas.StrideAnalysis {
	var threats []schemas.Threat
	for _, c := range sys.Components {
		componentThreats := a.AnalyzeComponent(c)
		a.logger.Debug("analyzed component",
			zap.String("component", c.ID),
			zap.Int("threats", len(componentThreats)))
		threats = append(threats, componentThreats...)
	}
	threats = append(threats, a.analyzeDataFlows(sys.DataFlows)...)

	analysis := a.buildAnalysis(sys, threats)
	a.logger.Info("stride analysis complete",
		zap.String("system", sys.Name),
		zap.Int("threats", analysis.TotalThreats))
	return analysis
}

// AnalyzeComponent instantiates the template catalog for one component,
// adjusting likelihood for its declared security controls.
func (a *Analyzer) AnalyzeComponent(c schemas.Component) []schemas.Threat {
	var threats []schemas.Threat
	for _, tpl := range a.templates[c.Type] {
		threat := schemas.Threat{
			ID:                fmt.Sprintf("%s_%s_%d", c.ID, strings.ToLower(string(tpl.Category)), len(threats)+1),
			Title:             tpl.Title,
			Description:       tpl.Description,
			Category:          tpl.Category,
			AffectedComponent: c.ID,
			AttackVector:      tpl.AttackVector,
			ImpactDescription: tpl.ImpactDescription,
			Likelihood:        adjustLikelihood(tpl.Likelihood, tpl.Category, c.SecurityControls),
			Impact:            tpl.Impact,
			Mitigations:       append([]string(nil), tpl.Mitigations...),
		}
		threat.RiskScore = threat.Likelihood * threat.Impact
		threats = append(threats, threat)
	}
	return threats
}

// adjustLikelihood lowers a template likelihood for each declared control
// that mitigates the threat's category. The floor is 1: controls reduce
// likelihood, they never eliminate a threat.
func adjustLikelihood(likelihood int, category schemas.StrideCategory, controls []string) int {
	for _, control := range controls {
		lower := strings.ToLower(control)
		for name, reductions := range controlReductions {
			if strings.Contains(lower, name) {
				if r := reductions[category]; r > 0 {
					likelihood -= r
					if likelihood < 1 {
						likelihood = 1
					}
				}
			}
		}
	}
	return likelihood
}

// analyzeDataFlows flags trust-boundary crossings that lack encryption or
// authentication.
func (a *Analyzer) analyzeDataFlows(flows []schemas.DataFlow) []schemas.Threat {
	var threats []schemas.Threat
	for _, flow := range flows {
		if flow.CrossesTrustBoundary && !flow.Encrypted {
			threat := schemas.Threat{
				ID:                fmt.Sprintf("dataflow_%s_encryption", flow.ID),
				Title:             "Unencrypted Trust Boundary Crossing",
				Description:       fmt.Sprintf("Data flow %s crosses trust boundary without encryption", flow.ID),
				Category:          schemas.InformationDisclosure,
				AffectedComponent: flow.Destination,
				AttackVector:      "Network interception",
				ImpactDescription: "Sensitive data exposure",
				Likelihood:        4,
				Impact:            3,
				Mitigations: []string{
					"Implement TLS/SSL encryption",
					"Use VPN for sensitive communications",
					"Implement end-to-end encryption",
				},
			}
			threat.RiskScore = threat.Likelihood * threat.Impact
			threats = append(threats, threat)
		}

		if flow.CrossesTrustBoundary && !flow.Authenticated {
			threat := schemas.Threat{
				ID:                fmt.Sprintf("dataflow_%s_auth", flow.ID),
				Title:             "Unauthenticated Trust Boundary Access",
				Description:       fmt.Sprintf("Data flow %s allows unauthenticated access across trust boundary", flow.ID),
				Category:          schemas.Spoofing,
				AffectedComponent: flow.Destination,
				AttackVector:      "Identity spoofing",
				ImpactDescription: "Unauthorized system access",
				Likelihood:        3,
				Impact:            4,
				Mitigations: []string{
					"Implement strong authentication",
					"Use mutual TLS authentication",
					"Deploy certificate-based authentication",
				},
			}
			threat.RiskScore = threat.Likelihood * threat.Impact
			threats = append(threats, threat)
		}
	}
	return threats
}

func (a *Analyzer) buildAnalysis(sys *schemas.System, threats []schemas.Threat) *schemas.StrideAnalysis {
	analysis := &schemas.StrideAnalysis{
		TotalComponents:   len(sys.Components),
		TotalDataFlows:    len(sys.DataFlows),
		TotalThreats:      len(threats),
		CategoryBreakdown: make(map[schemas.StrideCategory]int, len(schemas.StrideCategories)),
		RiskDistribution:  make(map[schemas.RiskLevel]int),
		ComponentSummary:  make(map[string]schemas.ComponentThreatSummary, len(sys.Components)),
		Threats:           threats,
	}

	for _, cat := range schemas.StrideCategories {
		analysis.CategoryBreakdown[cat] = 0
	}
	for _, level := range []schemas.RiskLevel{schemas.RiskLow, schemas.RiskMedium, schemas.RiskHigh, schemas.RiskCritical} {
		analysis.RiskDistribution[level] = 0
	}
	for _, t := range threats {
		analysis.CategoryBreakdown[t.Category]++
		analysis.RiskDistribution[schemas.ThreatRiskLevel(t.RiskScore)]++
	}

	for _, c := range sys.Components {
		summary := schemas.ComponentThreatSummary{Name: c.Name, Type: c.Type}
		total := 0
		highest := -1
		for _, t := range threats {
			if t.AffectedComponent != c.ID {
				continue
			}
			summary.ThreatCount++
			total += t.RiskScore
			if t.RiskScore > highest {
				highest = t.RiskScore
				summary.HighestRiskThreat = t.Title
			}
		}
		if summary.ThreatCount > 0 {
			summary.AverageRiskScore = math.Round(float64(total)/float64(summary.ThreatCount)*100) / 100
		}
		analysis.ComponentSummary[c.ID] = summary
	}

	top := make([]schemas.Threat, len(threats))
	copy(top, threats)
	sort.SliceStable(top, func(i, j int) bool { return top[i].RiskScore > top[j].RiskScore })
	if len(top) > 10 {
		top = top[:10]
	}
	analysis.TopThreats = top

	analysis.Recommendations = buildRecommendations(threats)
	analysis.Diagram = buildDiagram(sys, threats)
	return analysis
}

// buildRecommendations ranks mitigation strategies by how many threats they
// address weighted by the average risk of those threats, keeping the top 15.
func buildRecommendations(threats []schemas.Threat) []schemas.MitigationRecommendation {
	type tally struct {
		count     int
		totalRisk int
		threatIDs []string
	}
	counts := make(map[string]*tally)
	var order []string

	for _, t := range threats {
		for _, m := range t.Mitigations {
			entry, ok := counts[m]
			if !ok {
				entry = &tally{}
				counts[m] = entry
				order = append(order, m)
			}
			entry.count++
			entry.totalRisk += t.RiskScore
			entry.threatIDs = append(entry.threatIDs, t.ID)
		}
	}

	recommendations := make([]schemas.MitigationRecommendation, 0, len(order))
	for _, m := range order {
		entry := counts[m]
		avgRisk := float64(entry.totalRisk) / float64(entry.count)
		recommendations = append(recommendations, schemas.MitigationRecommendation{
			Mitigation:           m,
			ThreatCount:          entry.count,
			AverageRiskReduction: math.Round(avgRisk*100) / 100,
			ImpactScore:          math.Round(float64(entry.count)*avgRisk*100) / 100,
			AffectedThreats:      entry.threatIDs,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].ImpactScore > recommendations[j].ImpactScore
	})
	if len(recommendations) > 15 {
		recommendations = recommendations[:15]
	}
	return recommendations
}

// buildDiagram exports the system graph with per-node threat counts.
func buildDiagram(sys *schemas.System, threats []schemas.Threat) schemas.DataFlowDiagram {
	threatCounts := make(map[string]int)
	for _, t := range threats {
		threatCounts[t.AffectedComponent]++
	}

	diagram := schemas.DataFlowDiagram{
		TrustBoundaries: []schemas.TrustBoundary{
			schemas.BoundaryInternet,
			schemas.BoundaryDMZ,
			schemas.BoundaryInternal,
			schemas.BoundaryDevice,
			schemas.BoundaryManagement,
		},
	}
	for _, c := range sys.Components {
		diagram.Nodes = append(diagram.Nodes, schemas.DiagramNode{
			ID:            c.ID,
			Label:         c.Name,
			Type:          c.Type,
			TrustBoundary: c.TrustBoundary,
			ThreatCount:   threatCounts[c.ID],
		})
	}
	for _, f := range sys.DataFlows {
		diagram.Edges = append(diagram.Edges, schemas.DiagramEdge{
			Source:               f.Source,
			Target:               f.Destination,
			Label:                f.Description,
			Protocol:             f.Protocol,
			Encrypted:            f.Encrypted,
			CrossesTrustBoundary: f.CrossesTrustBoundary,
		})
	}
	return diagram
}
