// File: internal/dread/calculator.go
package dread

import (
	"math"
	"sort"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

// WeightedScore applies factor weights to a DREAD score, rounded to two
// decimal places.
func WeightedScore(score schemas.DreadScore, weights schemas.DreadWeights) float64 {
	weighted := float64(score.Damage)*weights.Damage +
		float64(score.Reproducibility)*weights.Reproducibility +
		float64(score.Exploitability)*weights.Exploitability +
		float64(score.AffectedUsers)*weights.AffectedUsers +
		float64(score.Discoverability)*weights.Discoverability
	return round2(weighted)
}

// Metrics computes aggregate statistics over a set of DREAD scores.
func Metrics(scores []schemas.DreadScore) schemas.DreadMetrics {
	metrics := schemas.DreadMetrics{
		Count:            len(scores),
		RiskDistribution: make(map[schemas.RiskLevel]int),
		FactorAnalysis:   make(map[string]schemas.ScoreStats),
	}
	for _, level := range []schemas.RiskLevel{
		schemas.RiskCritical, schemas.RiskHigh, schemas.RiskMedium, schemas.RiskLow, schemas.RiskMinimal,
	} {
		metrics.RiskDistribution[level] = 0
	}
	if len(scores) == 0 {
		return metrics
	}

	totals := make([]float64, len(scores))
	averages := make([]float64, len(scores))
	factors := map[string][]float64{
		"damage":          make([]float64, len(scores)),
		"reproducibility": make([]float64, len(scores)),
		"exploitability":  make([]float64, len(scores)),
		"affected_users":  make([]float64, len(scores)),
		"discoverability": make([]float64, len(scores)),
	}

	for i, s := range scores {
		totals[i] = float64(s.TotalScore)
		averages[i] = s.AverageScore
		factors["damage"][i] = float64(s.Damage)
		factors["reproducibility"][i] = float64(s.Reproducibility)
		factors["exploitability"][i] = float64(s.Exploitability)
		factors["affected_users"][i] = float64(s.AffectedUsers)
		factors["discoverability"][i] = float64(s.Discoverability)
		metrics.RiskDistribution[s.RiskLevel]++
	}

	metrics.TotalScoreStats = stats(totals)
	metrics.AverageScoreStats = stats(averages)
	for name, values := range factors {
		metrics.FactorAnalysis[name] = stats(values)
	}
	return metrics
}

// stats computes summary statistics for a non-empty series. The standard
// deviation is the sample form, 0 for a single value.
func stats(values []float64) schemas.ScoreStats {
	s := schemas.ScoreStats{
		Mean:   round2(mean(values)),
		Median: round2(median(values)),
		Min:    values[0],
		Max:    values[0],
	}
	for _, v := range values {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	if len(values) > 1 {
		m := mean(values)
		var sum float64
		for _, v := range values {
			sum += (v - m) * (v - m)
		}
		s.StdDev = round2(math.Sqrt(sum / float64(len(values)-1)))
	}
	return s
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
