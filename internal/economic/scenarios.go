// File: internal/economic/scenarios.go
package economic

import "github.com/sa-gridsec/gridrisk/api/schemas"

type recoveryComplexity string

const (
	recoveryLow      recoveryComplexity = "low"
	recoveryMedium   recoveryComplexity = "medium"
	recoveryHigh     recoveryComplexity = "high"
	recoveryVeryHigh recoveryComplexity = "very_high"
)

var recoveryMultipliers = map[recoveryComplexity]float64{
	recoveryLow:      1.0,
	recoveryMedium:   2.0,
	recoveryHigh:     4.0,
	recoveryVeryHigh: 8.0,
}

// scenarioParams defines the operational shape of one attack scenario.
type scenarioParams struct {
	Description        string
	CapacityImpactPct  float64 // share of fleet capacity knocked out
	MinDurationHours   float64
	MaxDurationHours   float64
	DetectionHours     float64
	Recovery           recoveryComplexity
	EquipmentWriteOff  bool // severe attacks force hardware replacement
	SeverePenalties    bool
	AnnualLikelihood   float64
}

var attackScenarios = map[schemas.AttackScenario]scenarioParams{
	schemas.ScenarioSingleInverter: {
		Description:       "Single inverter compromised, capacity reduced",
		CapacityImpactPct: 0.6,
		MinDurationHours:  2, MaxDurationHours: 24,
		DetectionHours:   4,
		Recovery:         recoveryLow,
		AnnualLikelihood: 0.15,
	},
	schemas.ScenarioMultiInverter: {
		Description:       "Multiple inverters attacked simultaneously",
		CapacityImpactPct: 0.8,
		MinDurationHours:  6, MaxDurationHours: 72,
		DetectionHours:   8,
		Recovery:         recoveryHigh,
		AnnualLikelihood: 0.05,
	},
	schemas.ScenarioGateway: {
		Description:       "Communication gateway compromised",
		CapacityImpactPct: 1.0,
		MinDurationHours:  4, MaxDurationHours: 48,
		DetectionHours:   6,
		Recovery:         recoveryMedium,
		AnnualLikelihood: 0.08,
	},
	schemas.ScenarioAPIEndpoint: {
		Description:       "AEMO API endpoint attack disrupts remote control",
		CapacityImpactPct: 0.3,
		MinDurationHours:  1, MaxDurationHours: 12,
		DetectionHours:   2,
		Recovery:         recoveryLow,
		AnnualLikelihood: 0.12,
	},
	schemas.ScenarioCoordinatedGrid: {
		Description:       "Large-scale coordinated attack on multiple sites",
		CapacityImpactPct: 1.0,
		MinDurationHours:  12, MaxDurationHours: 168,
		DetectionHours:    12,
		Recovery:          recoveryVeryHigh,
		EquipmentWriteOff: true,
		SeverePenalties:   true,
		AnnualLikelihood:  0.01,
	},
	schemas.ScenarioFirmware: {
		Description:       "Malicious firmware injection attack",
		CapacityImpactPct: 0.9,
		MinDurationHours:  24, MaxDurationHours: 240,
		DetectionHours:    48,
		Recovery:          recoveryVeryHigh,
		EquipmentWriteOff: true,
		SeverePenalties:   true,
		AnnualLikelihood:  0.03,
	},
	schemas.ScenarioDoS: {
		Description:       "DDoS attack on communication infrastructure",
		CapacityImpactPct: 0.4,
		MinDurationHours:  1, MaxDurationHours: 8,
		DetectionHours:   1,
		Recovery:         recoveryLow,
		AnnualLikelihood: 0.20,
	},
}

// averageDuration is the planning-case attack duration for a scenario.
func (p scenarioParams) averageDuration() float64 {
	return (p.MinDurationHours + p.MaxDurationHours) / 2
}

// mitigationPackage is one candidate security investment.
type mitigationPackage struct {
	Description         string
	ImplementationCost  float64
	AnnualMaintenance   float64
	RiskReductionFactor float64
	AnnualRiskReduction float64
	AffectedScenarios   []schemas.AttackScenario
}

var mitigationPackages = map[string]mitigationPackage{
	"basic_security_package": {
		Description:         "Basic cybersecurity controls (encryption, authentication)",
		ImplementationCost:  15000,
		AnnualMaintenance:   3000,
		RiskReductionFactor: 0.4,
		AnnualRiskReduction: 25000,
		AffectedScenarios: []schemas.AttackScenario{
			schemas.ScenarioSingleInverter,
			schemas.ScenarioAPIEndpoint,
			schemas.ScenarioDoS,
		},
	},
	"advanced_security_package": {
		Description:         "Advanced security (IDS, SIEM, advanced monitoring)",
		ImplementationCost:  45000,
		AnnualMaintenance:   8000,
		RiskReductionFactor: 0.7,
		AnnualRiskReduction: 45000,
		AffectedScenarios: []schemas.AttackScenario{
			schemas.ScenarioMultiInverter,
			schemas.ScenarioGateway,
			schemas.ScenarioFirmware,
		},
	},
	"comprehensive_security_program": {
		Description:         "Full cybersecurity program with 24/7 monitoring",
		ImplementationCost:  85000,
		AnnualMaintenance:   15000,
		RiskReductionFactor: 0.85,
		AnnualRiskReduction: 85000,
		AffectedScenarios:   schemas.AttackScenarios,
	},
	"network_segmentation": {
		Description:         "Network segmentation and microsegmentation",
		ImplementationCost:  25000,
		AnnualMaintenance:   4000,
		RiskReductionFactor: 0.6,
		AnnualRiskReduction: 35000,
		AffectedScenarios: []schemas.AttackScenario{
			schemas.ScenarioCoordinatedGrid,
			schemas.ScenarioGateway,
		},
	},
}
