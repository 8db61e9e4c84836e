// File: internal/dread/report.go
package dread

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

// Prioritize ranks threats by their weighted DREAD score, highest first.
// A limit of 0 returns every threat.
func Prioritize(scores []schemas.DreadScore, weights schemas.DreadWeights, limit int) []schemas.PrioritizedThreat {
	ranked := make([]schemas.PrioritizedThreat, 0, len(scores))
	for _, s := range scores {
		ranked = append(ranked, schemas.PrioritizedThreat{
			ThreatID:      s.ThreatID,
			WeightedScore: WeightedScore(s, weights),
			RiskLevel:     s.RiskLevel,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].WeightedScore > ranked[j].WeightedScore
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// BuildMatrix buckets threats into the four risk/exploitability quadrants.
// Risk is the mean of damage and affected users; exploitability the mean of
// reproducibility and exploitability. Both split at 6.
func BuildMatrix(scores []schemas.DreadScore) schemas.PriorityMatrix {
	var matrix schemas.PriorityMatrix
	for _, s := range scores {
		highRisk := float64(s.Damage+s.AffectedUsers)/2 >= 6
		highExploit := float64(s.Reproducibility+s.Exploitability)/2 >= 6

		switch {
		case highRisk && highExploit:
			matrix.HighRiskHighExploitability = append(matrix.HighRiskHighExploitability, s.ThreatID)
		case highRisk:
			matrix.HighRiskLowExploitability = append(matrix.HighRiskLowExploitability, s.ThreatID)
		case highExploit:
			matrix.LowRiskHighExploitability = append(matrix.LowRiskHighExploitability, s.ThreatID)
		default:
			matrix.LowRiskLowExploitability = append(matrix.LowRiskLowExploitability, s.ThreatID)
		}
	}
	return matrix
}

// rollupByComponent groups scores by the prefix of their threat id, which
// carries the originating component ("inv_1_spoofing_1" -> "inv"). Data-flow
// threats group under "dataflow".
func rollupByComponent(scores []schemas.DreadScore) map[string]schemas.DreadComponentRollup {
	rollups := make(map[string]schemas.DreadComponentRollup)
	totals := make(map[string]float64)

	for _, s := range scores {
		component := "unknown"
		if idx := strings.Index(s.ThreatID, "_"); idx > 0 {
			component = s.ThreatID[:idx]
		}

		rollup, ok := rollups[component]
		if !ok {
			rollup = schemas.DreadComponentRollup{
				RiskDistribution: make(map[schemas.RiskLevel]int),
			}
		}
		rollup.ThreatCount++
		totals[component] += s.AverageScore
		if s.AverageScore > rollup.MaxRiskScore {
			rollup.MaxRiskScore = s.AverageScore
		}
		rollup.RiskDistribution[s.RiskLevel]++
		rollups[component] = rollup
	}

	for component, rollup := range rollups {
		rollup.AverageRiskScore = round2(totals[component] / float64(rollup.ThreatCount))
		rollups[component] = rollup
	}
	return rollups
}

// BuildReport assembles the full DREAD report for a set of scores using the
// given prioritization weights.
func BuildReport(scores []schemas.DreadScore, weights schemas.DreadWeights) *schemas.DreadReport {
	metrics := Metrics(scores)
	prioritized := Prioritize(scores, weights, 20)

	report := &schemas.DreadReport{
		TotalThreatsAssessed: len(scores),
		AverageRiskScore:     metrics.AverageScoreStats.Mean,
		CriticalThreats:      metrics.RiskDistribution[schemas.RiskCritical],
		Metrics:              metrics,
		PrioritizedThreats:   prioritized,
		Matrix:               BuildMatrix(scores),
		ComponentRollups:     rollupByComponent(scores),
		Scores:               scores,
	}
	if len(prioritized) > 0 {
		report.HighestRiskThreat = prioritized[0].ThreatID
	}
	report.Recommendations = buildRecommendations(report)
	return report
}

// buildRecommendations derives follow-up actions from assessment aggregates.
func buildRecommendations(report *schemas.DreadReport) []schemas.DreadRecommendation {
	var recommendations []schemas.DreadRecommendation

	critical := report.Metrics.RiskDistribution[schemas.RiskCritical]
	high := report.Metrics.RiskDistribution[schemas.RiskHigh]

	if critical > 0 {
		recommendations = append(recommendations, schemas.DreadRecommendation{
			Priority:       "IMMEDIATE",
			Category:       "Critical Risk Mitigation",
			Recommendation: fmt.Sprintf("Address %d critical risk threats immediately", critical),
			ActionItems: []string{
				"Establish incident response team",
				"Implement emergency security controls",
				"Conduct detailed risk assessment for critical threats",
			},
		})
	}

	if high > 3 {
		recommendations = append(recommendations, schemas.DreadRecommendation{
			Priority:       "HIGH",
			Category:       "High Risk Management",
			Recommendation: fmt.Sprintf("Develop mitigation plan for %d high-risk threats", high),
			ActionItems: []string{
				"Prioritize high-risk threats by business impact",
				"Allocate security resources accordingly",
				"Implement risk monitoring and reporting",
			},
		})
	}

	components := make([]string, 0, len(report.ComponentRollups))
	for component := range report.ComponentRollups {
		components = append(components, component)
	}
	sort.Strings(components)
	for _, component := range components {
		if report.ComponentRollups[component].AverageRiskScore >= 7 {
			recommendations = append(recommendations, schemas.DreadRecommendation{
				Priority:       "HIGH",
				Category:       fmt.Sprintf("Component Security - %s", component),
				Recommendation: fmt.Sprintf("Enhance security controls for %s component", component),
				ActionItems: []string{
					fmt.Sprintf("Review %s security configuration", component),
					fmt.Sprintf("Implement additional monitoring for %s", component),
					fmt.Sprintf("Consider security architecture changes for %s", component),
				},
			})
		}
	}

	if report.Metrics.FactorAnalysis["damage"].Mean >= 7 {
		recommendations = append(recommendations, schemas.DreadRecommendation{
			Priority:       "HIGH",
			Category:       "Impact Reduction",
			Recommendation: "Implement damage limitation controls",
			ActionItems: []string{
				"Deploy backup and recovery systems",
				"Implement fault tolerance mechanisms",
				"Establish business continuity procedures",
			},
		})
	}
	if report.Metrics.FactorAnalysis["exploitability"].Mean >= 7 {
		recommendations = append(recommendations, schemas.DreadRecommendation{
			Priority:       "HIGH",
			Category:       "Exploit Prevention",
			Recommendation: "Reduce attack surface and exploitability",
			ActionItems: []string{
				"Implement defense in depth",
				"Enhance access controls",
				"Deploy intrusion detection systems",
			},
		})
	}

	return recommendations
}
