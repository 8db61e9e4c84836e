// File: internal/dread/dread_test.go
package dread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

func TestNewScore(t *testing.T) {
	score := NewScore("t1", 8, 6, 7, 9, 4)
	assert.Equal(t, 34, score.TotalScore)
	assert.Equal(t, 6.8, score.AverageScore)
	assert.Equal(t, schemas.RiskHigh, score.RiskLevel)
}

func TestRiskLevelForAverage(t *testing.T) {
	tests := []struct {
		avg  float64
		want schemas.RiskLevel
	}{
		{9.0, schemas.RiskCritical},
		{8.0, schemas.RiskCritical},
		{7.9, schemas.RiskHigh},
		{6.0, schemas.RiskHigh},
		{4.0, schemas.RiskMedium},
		{2.0, schemas.RiskLow},
		{1.5, schemas.RiskMinimal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelForAverage(tt.avg), "avg %.1f", tt.avg)
	}
}

func TestAssessThreat(t *testing.T) {
	a := NewAssessor(zap.NewNop())

	t.Run("keyword heavy threat scores high", func(t *testing.T) {
		score := a.AssessThreat(schemas.Threat{
			ID:                "gateway_001_spoofing_1",
			Description:       "Unencrypted Modbus telemetry with no authentication exposed on a public interface enables grid-wide cascading control",
			Category:          schemas.Spoofing,
			AffectedComponent: "gateway_001",
		})

		assert.Equal(t, 5, score.Damage)
		assert.Equal(t, 9, score.Reproducibility, "unencrypted +3, modbus +1")
		assert.Equal(t, 8, score.Exploitability, "no authentication +3")
		assert.Equal(t, 10, score.AffectedUsers, "grid-wide +4, gateway +2, clamped")
		assert.Equal(t, 8, score.Discoverability, "public interface +3")
		assert.Equal(t, 40, score.TotalScore)
		assert.Equal(t, schemas.RiskCritical, score.RiskLevel)
	})

	t.Run("bland threat stays at midpoints", func(t *testing.T) {
		score := a.AssessThreat(schemas.Threat{
			ID:                "db_1_tampering_1",
			Description:       "Record falsification",
			Category:          schemas.Repudiation,
			AffectedComponent: "db_1",
		})
		assert.Equal(t, 5, score.Damage)
		assert.Equal(t, 5, score.Reproducibility)
		assert.Equal(t, 5, score.Exploitability)
		assert.Equal(t, 5, score.AffectedUsers)
		assert.Equal(t, 5, score.Discoverability)
		assert.Equal(t, schemas.RiskMedium, score.RiskLevel)
	})

	t.Run("tampering against an inverter bumps damage", func(t *testing.T) {
		score := a.AssessThreat(schemas.Threat{
			ID:                "inverter_001_tampering_1",
			Description:       "Malicious modification of firmware",
			Category:          schemas.Tampering,
			AffectedComponent: "inverter_001",
		})
		// base 5, inverter +1, tampering +1.
		assert.Equal(t, 7, score.Damage)
	})
}

func TestWeightedScore(t *testing.T) {
	score := NewScore("t1", 8, 6, 7, 9, 4)

	assert.Equal(t, 6.8, WeightedScore(score, schemas.EqualDreadWeights()))
	assert.Equal(t, 7.25, WeightedScore(score, schemas.DefaultPriorityWeights()))
}

func TestMetrics(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		m := Metrics(nil)
		assert.Equal(t, 0, m.Count)
		assert.Equal(t, 0, m.RiskDistribution[schemas.RiskCritical])
	})

	t.Run("aggregates", func(t *testing.T) {
		scores := []schemas.DreadScore{
			NewScore("a", 8, 8, 8, 8, 8), // avg 8 -> CRITICAL
			NewScore("b", 4, 4, 4, 4, 4), // avg 4 -> MEDIUM
			NewScore("c", 6, 6, 6, 6, 6), // avg 6 -> HIGH
		}
		m := Metrics(scores)

		assert.Equal(t, 3, m.Count)
		assert.Equal(t, 30.0, m.TotalScoreStats.Mean)
		assert.Equal(t, 30.0, m.TotalScoreStats.Median)
		assert.Equal(t, 20.0, m.TotalScoreStats.Min)
		assert.Equal(t, 40.0, m.TotalScoreStats.Max)
		assert.Equal(t, 10.0, m.TotalScoreStats.StdDev, "sample standard deviation")

		assert.Equal(t, 6.0, m.AverageScoreStats.Mean)
		assert.Equal(t, 1, m.RiskDistribution[schemas.RiskCritical])
		assert.Equal(t, 1, m.RiskDistribution[schemas.RiskHigh])
		assert.Equal(t, 1, m.RiskDistribution[schemas.RiskMedium])

		require.Contains(t, m.FactorAnalysis, "damage")
		assert.Equal(t, 6.0, m.FactorAnalysis["damage"].Mean)
		assert.Equal(t, 8.0, m.FactorAnalysis["damage"].Max)
	})
}

func TestPrioritize(t *testing.T) {
	scores := []schemas.DreadScore{
		NewScore("low", 2, 2, 2, 2, 2),
		NewScore("high", 9, 9, 9, 9, 9),
		NewScore("mid", 5, 5, 5, 5, 5),
	}

	ranked := Prioritize(scores, schemas.DefaultPriorityWeights(), 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "high", ranked[0].ThreatID)
	assert.Equal(t, "mid", ranked[1].ThreatID)
	assert.Equal(t, schemas.RiskCritical, ranked[0].RiskLevel)

	all := Prioritize(scores, schemas.DefaultPriorityWeights(), 0)
	assert.Len(t, all, 3)
}

func TestPrioritizeWeightSensitivity(t *testing.T) {
	// A damaging, exploitable threat must outrank a noisy, easily-found one
	// under the default ranking weights even when its plain average is lower.
	destructive := NewScore("destructive", 10, 2, 8, 5, 3)
	noisy := NewScore("noisy", 3, 9, 4, 7, 8)
	scores := []schemas.DreadScore{destructive, noisy}

	equal := Prioritize(scores, schemas.EqualDreadWeights(), 0)
	require.Len(t, equal, 2)
	assert.Equal(t, "noisy", equal[0].ThreatID)
	assert.InDelta(t, 6.2, equal[0].WeightedScore, 0.001)
	assert.InDelta(t, 5.6, equal[1].WeightedScore, 0.001)

	ranked := Prioritize(scores, schemas.DefaultPriorityWeights(), 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, "destructive", ranked[0].ThreatID)
	assert.InDelta(t, 6.6, ranked[0].WeightedScore, 0.001)
	assert.InDelta(t, 5.45, ranked[1].WeightedScore, 0.001)
}

func TestBuildMatrix(t *testing.T) {
	scores := []schemas.DreadScore{
		NewScore("hot", 8, 8, 8, 8, 5),    // high risk, high exploit
		NewScore("latent", 9, 2, 2, 9, 5), // high risk, low exploit
		NewScore("noisy", 2, 9, 9, 2, 5),  // low risk, high exploit
		NewScore("quiet", 2, 2, 2, 2, 2),  // low risk, low exploit
	}

	matrix := BuildMatrix(scores)
	assert.Equal(t, []string{"hot"}, matrix.HighRiskHighExploitability)
	assert.Equal(t, []string{"latent"}, matrix.HighRiskLowExploitability)
	assert.Equal(t, []string{"noisy"}, matrix.LowRiskHighExploitability)
	assert.Equal(t, []string{"quiet"}, matrix.LowRiskLowExploitability)
}

func TestBuildReport(t *testing.T) {
	scores := []schemas.DreadScore{
		NewScore("inverter_001_spoofing_1", 9, 9, 9, 9, 9),
		NewScore("inverter_001_tampering_2", 8, 8, 8, 8, 8),
		NewScore("gateway_001_spoofing_1", 3, 3, 3, 3, 3),
	}

	report := BuildReport(scores, schemas.DefaultPriorityWeights())

	assert.Equal(t, 3, report.TotalThreatsAssessed)
	assert.Equal(t, 2, report.CriticalThreats)
	assert.Equal(t, "inverter_001_spoofing_1", report.HighestRiskThreat)
	require.Len(t, report.PrioritizedThreats, 3)

	// Rollups key on the threat-id prefix.
	require.Contains(t, report.ComponentRollups, "inverter")
	inverter := report.ComponentRollups["inverter"]
	assert.Equal(t, 2, inverter.ThreatCount)
	assert.Equal(t, 8.5, inverter.AverageRiskScore)
	assert.Equal(t, 9.0, inverter.MaxRiskScore)

	// Critical threats and the hot inverter component both raise
	// recommendations.
	var categories []string
	for _, r := range report.Recommendations {
		categories = append(categories, r.Category)
	}
	assert.Contains(t, categories, "Critical Risk Mitigation")
	assert.Contains(t, categories, "Component Security - inverter")
}
