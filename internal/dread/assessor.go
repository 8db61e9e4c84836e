// File: internal/dread/assessor.go

// Package dread scores threats with the DREAD methodology: damage,
// reproducibility, exploitability, affected users and discoverability, each
// on a 1-10 scale. Factor values are derived heuristically from the threat's
// description, STRIDE category and affected component.
package dread

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

// RiskLevelForAverage bands a DREAD average score (1-10 scale).
func RiskLevelForAverage(avg float64) schemas.RiskLevel {
	switch {
	case avg >= 8:
		return schemas.RiskCritical
	case avg >= 6:
		return schemas.RiskHigh
	case avg >= 4:
		return schemas.RiskMedium
	case avg >= 2:
		return schemas.RiskLow
	default:
		return schemas.RiskMinimal
	}
}

// NewScore assembles a DreadScore from raw factor values, deriving the
// total, average and risk level.
func NewScore(threatID string, damage, reproducibility, exploitability, affectedUsers, discoverability int) schemas.DreadScore {
	score := schemas.DreadScore{
		ThreatID:        threatID,
		Damage:          damage,
		Reproducibility: reproducibility,
		Exploitability:  exploitability,
		AffectedUsers:   affectedUsers,
		Discoverability: discoverability,
	}
	score.TotalScore = damage + reproducibility + exploitability + affectedUsers + discoverability
	score.AverageScore = float64(score.TotalScore) / 5
	score.RiskLevel = RiskLevelForAverage(score.AverageScore)
	return score
}

// Assessor derives DREAD scores from threats.
type Assessor struct {
	logger *zap.Logger
}

// NewAssessor returns an Assessor.
func NewAssessor(logger *zap.Logger) *Assessor {
	return &Assessor{logger: logger.Named("dread")}
}

// AssessThreat scores a single threat.
func (a *Assessor) AssessThreat(t schemas.Threat) schemas.DreadScore {
	description := strings.ToLower(t.Description)
	component := strings.ToLower(t.AffectedComponent)
	category := t.Category

	score := NewScore(
		t.ID,
		assessDamage(description, component, category),
		assessReproducibility(description),
		assessExploitability(description),
		assessAffectedUsers(description, component),
		assessDiscoverability(description),
	)

	a.logger.Debug("assessed threat",
		zap.String("threat", t.ID),
		zap.Float64("average", score.AverageScore),
		zap.String("risk_level", string(score.RiskLevel)))
	return score
}

// AssessThreats scores a batch of threats in order.
func (a *Assessor) AssessThreats(threats []schemas.Threat) []schemas.DreadScore {
	scores := make([]schemas.DreadScore, 0, len(threats))
	for _, t := range threats {
		scores = append(scores, a.AssessThreat(t))
	}
	a.logger.Info("dread assessment complete", zap.Int("threats", len(scores)))
	return scores
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Each factor starts at the midpoint 5 and moves on keyword evidence. Some
// adjustments carry their own caps so a single weak signal cannot push a
// factor to the extreme.

func assessDamage(description, component string, category schemas.StrideCategory) int {
	score := 5

	if containsAny(description, "complete system", "total control", "grid disruption", "power outage") {
		score = clamp(score+4, 1, 10)
	} else if containsAny(description, "unauthorized control", "data manipulation", "service disruption") {
		score = clamp(score+2, 1, 8)
	}

	if strings.Contains(component, "inverter") {
		score = clamp(score+1, 1, 10)
	} else if strings.Contains(component, "api") {
		score = clamp(score+2, 1, 9)
	}

	if category == schemas.DenialOfService || category == schemas.Tampering {
		score = clamp(score+1, 1, 10)
	}
	return clamp(score, 1, 10)
}

func assessReproducibility(description string) int {
	score := 5

	if containsAny(description, "default credentials", "plaintext", "unencrypted", "automated") {
		score = clamp(score+3, 1, 10)
	} else if containsAny(description, "race condition", "timing", "specific configuration") {
		score = clamp(score-2, 1, 10)
	}

	if containsAny(description, "modbus", "mqtt", "http") {
		score = clamp(score+1, 1, 10)
	}
	return clamp(score, 1, 10)
}

func assessExploitability(description string) int {
	score := 5

	switch {
	case containsAny(description, "no authentication", "default password", "public exploit", "simple attack"):
		score = clamp(score+3, 1, 10)
	case containsAny(description, "weak authentication", "known vulnerability", "basic tools"):
		score = clamp(score+1, 1, 8)
	case containsAny(description, "complex attack", "requires expertise", "advanced knowledge"):
		score = clamp(score-2, 1, 10)
	}
	return clamp(score, 1, 10)
}

func assessAffectedUsers(description, component string) int {
	score := 5

	if containsAny(description, "grid-wide", "multiple systems", "cascading", "network-wide") {
		score = clamp(score+4, 1, 10)
	}

	if strings.Contains(component, "gateway") || strings.Contains(component, "api") {
		score = clamp(score+2, 1, 10)
	} else if strings.Contains(component, "inverter") {
		score = clamp(score+1, 1, 7)
	}
	return clamp(score, 1, 10)
}

func assessDiscoverability(description string) int {
	score := 5

	if containsAny(description, "public interface", "web interface", "default settings", "obvious") {
		score = clamp(score+3, 1, 10)
	} else if containsAny(description, "internal", "hidden", "undocumented", "requires access") {
		score = clamp(score-2, 1, 10)
	}
	return clamp(score, 1, 10)
}
