// File: internal/economic/calculator.go
package economic

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
	"github.com/sa-gridsec/gridrisk/internal/config"
)

// Fixed incident cost assumptions, AUD. See the scenario cost methods for
// how they combine.
const (
	capacityFactor           = 0.3 // typical solar output vs nameplate
	emergencyResponseHourly  = 500
	forensicInvestigation    = 15000
	legalConsultation        = 8000
	equipmentReplacePerKW    = 1500
	reputationPerMW          = 10000
	severeRegulatoryPenalty  = 50000
	minorRegulatoryPenalty   = 5000
	insuranceIncreasePerMW   = 2000
	productivityLossHourly   = 200
	customerImpactPerMW      = 5000
	baseRecoveryCost         = 5000
	securityUpgradePerKW     = 200
	staffTrainingCost        = 10000
	monitoringUpgradeCost    = 25000
	securityConsultantFees   = 20000
	mitigationHorizonYears   = 5
)

// Calculator prices attack scenarios against a modeled fleet.
type Calculator struct {
	cfg    config.EconomicConfig
	prices *PriceModel
	logger *zap.Logger
	now    func() time.Time
}

// NewCalculator builds a Calculator with a synthetic price model for the
// configured region.
func NewCalculator(cfg config.EconomicConfig, region string, logger *zap.Logger) *Calculator {
	now := time.Now
	return &Calculator{
		cfg:    cfg,
		prices: NewPriceModel(cfg, region, now()),
		logger: logger.Named("economic"),
		now:    now,
	}
}

// PriceModel exposes the underlying spot price model.
func (c *Calculator) PriceModel() *PriceModel { return c.prices }

// ScenarioImpact prices a single attack scenario against the system. A zero
// durationHours uses the scenario's planning-case average.
func (c *Calculator) ScenarioImpact(sys *schemas.System, scenario schemas.AttackScenario, durationHours float64) (schemas.ScenarioImpact, error) {
	params, ok := attackScenarios[scenario]
	if !ok {
		return schemas.ScenarioImpact{}, fmt.Errorf("unknown attack scenario %q", scenario)
	}
	if durationHours <= 0 {
		durationHours = params.averageDuration()
	}

	affectedMW := sys.TotalCapacityKW() * params.CapacityImpactPct / 1000
	spot := c.prices.DisruptionImpact(affectedMW, durationHours, c.now())

	direct := c.directCosts(params, durationHours, affectedMW)
	indirect := c.indirectCosts(params, durationHours, affectedMW)
	recovery := c.recoveryCosts(params, affectedMW)

	sectors := make(map[schemas.EconomicSector]float64)
	for sector := range sectorImpactFactors {
		if impact, ok := SectorImpact(sector, affectedMW, durationHours, spot.BaselinePriceAUDMWh); ok {
			sectors[sector] = round2(impact)
		}
	}

	total := sumCosts(direct) + sumCosts(indirect) + sumCosts(recovery) + spot.TotalMarketImpact

	return schemas.ScenarioImpact{
		Scenario:           scenario,
		DurationHours:      durationHours,
		AffectedCapacityMW: affectedMW,
		DirectCosts:        direct,
		IndirectCosts:      indirect,
		RecoveryCosts:      recovery,
		SpotImpact:         spot,
		SectorImpacts:      sectors,
		TotalImpact:        round2(total),
	}, nil
}

func (c *Calculator) directCosts(params scenarioParams, durationHours, affectedMW float64) map[string]float64 {
	lostGeneration := affectedMW * durationHours * c.cfg.BaseSpotPrice * capacityFactor

	var equipment float64
	if params.EquipmentWriteOff {
		equipment = affectedMW * 1000 * equipmentReplacePerKW
	}

	return map[string]float64{
		"lost_generation_revenue":     round2(lostGeneration),
		"emergency_response_cost":     params.DetectionHours * emergencyResponseHourly,
		"equipment_replacement_cost":  equipment,
		"forensic_investigation_cost": forensicInvestigation,
		"legal_consultation_cost":     legalConsultation,
	}
}

func (c *Calculator) indirectCosts(params scenarioParams, durationHours, affectedMW float64) map[string]float64 {
	penalty := float64(minorRegulatoryPenalty)
	if params.SeverePenalties {
		penalty = severeRegulatoryPenalty
	}

	return map[string]float64{
		"reputation_damage":           round2(affectedMW * reputationPerMW),
		"regulatory_penalties":        penalty,
		"insurance_premium_increase":  round2(affectedMW * insuranceIncreasePerMW),
		"productivity_losses":         durationHours * productivityLossHourly,
		"customer_confidence_impact":  round2(affectedMW * customerImpactPerMW),
	}
}

func (c *Calculator) recoveryCosts(params scenarioParams, affectedMW float64) map[string]float64 {
	return map[string]float64{
		"technical_recovery":    baseRecoveryCost * recoveryMultipliers[params.Recovery],
		"security_improvements": round2(affectedMW * 1000 * securityUpgradePerKW),
		"staff_training":        staffTrainingCost,
		"monitoring_upgrades":   monitoringUpgradeCost,
		"consultant_fees":       securityConsultantFees,
	}
}

// Analyze runs every attack scenario against the system and assembles the
// full economic picture: totals, market volatility, risk-weighted annual
// losses, mitigation returns and recommendations.
func (c *Calculator) Analyze(sys *schemas.System) (*schemas.EconomicAnalysis, error) {
	c.logger.Info("starting economic impact analysis",
		zap.String("system", sys.Name),
		zap.Float64("capacity_kw", sys.TotalCapacityKW()))

	analysis := &schemas.EconomicAnalysis{
		TotalCapacityKW: sys.TotalCapacityKW(),
		Location:        sys.Location,
		Scenarios:       make(map[schemas.AttackScenario]schemas.ScenarioImpact, len(schemas.AttackScenarios)),
	}

	for _, scenario := range schemas.AttackScenarios {
		impact, err := c.ScenarioImpact(sys, scenario, 0)
		if err != nil {
			return nil, err
		}
		analysis.Scenarios[scenario] = impact
		analysis.TotalPotentialImpact += impact.TotalImpact
	}
	analysis.TotalPotentialImpact = round2(analysis.TotalPotentialImpact)
	analysis.AverageImpactPerScenario = round2(analysis.TotalPotentialImpact / float64(len(schemas.AttackScenarios)))
	analysis.HighestImpactScenario, analysis.LowestImpactScenario = impactExtremes(analysis.Scenarios)

	analysis.PriceVolatility = c.prices.Volatility()

	c.weighRisks(analysis)
	c.rankMitigations(analysis)
	analysis.Recommendations = buildRecommendations(analysis)

	c.logger.Info("economic impact analysis complete",
		zap.Float64("total_potential_impact_aud", analysis.TotalPotentialImpact),
		zap.Float64("expected_annual_loss_aud", analysis.ExpectedAnnualLoss))
	return analysis, nil
}

func impactExtremes(scenarios map[schemas.AttackScenario]schemas.ScenarioImpact) (highest, lowest schemas.AttackScenario) {
	for _, s := range schemas.AttackScenarios {
		impact := scenarios[s].TotalImpact
		if highest == "" || impact > scenarios[highest].TotalImpact {
			highest = s
		}
		if lowest == "" || impact < scenarios[lowest].TotalImpact {
			lowest = s
		}
	}
	return highest, lowest
}

// weighRisks converts per-scenario impacts into expected annual losses using
// the scenario likelihood estimates.
func (c *Calculator) weighRisks(analysis *schemas.EconomicAnalysis) {
	analysis.RiskWeighted = make(map[schemas.AttackScenario]schemas.RiskWeightedScenario, len(analysis.Scenarios))

	var total float64
	for scenario, impact := range analysis.Scenarios {
		likelihood := attackScenarios[scenario].AnnualLikelihood
		eal := round2(likelihood * impact.TotalImpact)
		analysis.RiskWeighted[scenario] = schemas.RiskWeightedScenario{
			AnnualLikelihood:   likelihood,
			PotentialImpact:    impact.TotalImpact,
			ExpectedAnnualLoss: eal,
			RiskPriority:       riskPriority(likelihood, impact.TotalImpact),
		}
		total += eal
	}
	analysis.ExpectedAnnualLoss = round2(total)

	// Concentration: share of expected loss carried by the worst three.
	eals := make([]float64, 0, len(analysis.RiskWeighted))
	for _, rw := range analysis.RiskWeighted {
		eals = append(eals, rw.ExpectedAnnualLoss)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(eals)))
	var top3 float64
	for i := 0; i < 3 && i < len(eals); i++ {
		top3 += eals[i]
	}
	if total > 0 {
		analysis.TopRiskConcentration = round2(top3 / total * 100)
	}
}

// riskPriority bands likelihood x impact, normalized so that a certain
// AUD 100k loss scores 1.0.
func riskPriority(likelihood, impact float64) schemas.RiskLevel {
	score := likelihood * impact / 100000
	switch {
	case score >= 0.8:
		return schemas.RiskCritical
	case score >= 0.4:
		return schemas.RiskHigh
	case score >= 0.1:
		return schemas.RiskMedium
	default:
		return schemas.RiskLow
	}
}

// rankMitigations evaluates each candidate investment over the standard
// horizon and orders them by return.
func (c *Calculator) rankMitigations(analysis *schemas.EconomicAnalysis) {
	analysis.Mitigations = make(map[string]schemas.MitigationROI, len(mitigationPackages))

	for name, pkg := range mitigationPackages {
		totalCost := pkg.ImplementationCost + pkg.AnnualMaintenance*mitigationHorizonYears
		reduction := pkg.AnnualRiskReduction * mitigationHorizonYears
		net := reduction - totalCost

		roi := schemas.MitigationROI{
			Description:           pkg.Description,
			ImplementationCost:    pkg.ImplementationCost,
			AnnualMaintenanceCost: pkg.AnnualMaintenance,
			TotalCost5Years:       totalCost,
			AnnualRiskReduction:   pkg.AnnualRiskReduction,
			RiskReduction5Years:   reduction,
			NetBenefit5Years:      net,
			ROIPercentage:         round2(net / totalCost * 100),
			PaybackPeriodYears:    round2(totalCost / pkg.AnnualRiskReduction),
			CostEffectiveness:     round2(pkg.AnnualRiskReduction / pkg.ImplementationCost),
		}
		analysis.Mitigations[name] = roi
	}

	names := make([]string, 0, len(analysis.Mitigations))
	for name := range analysis.Mitigations {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return analysis.Mitigations[names[i]].ROIPercentage > analysis.Mitigations[names[j]].ROIPercentage
	})
	analysis.MitigationPriority = names
}

func buildRecommendations(analysis *schemas.EconomicAnalysis) []schemas.EconomicRecommendation {
	var recs []schemas.EconomicRecommendation
	total := analysis.TotalPotentialImpact

	if total > 200000 {
		recs = append(recs, schemas.EconomicRecommendation{
			Priority:       "CRITICAL",
			Category:       "Risk Management",
			Recommendation: "Implement comprehensive cybersecurity program immediately",
			Justification: fmt.Sprintf(
				"Total potential economic impact of AUD %.0f justifies significant security investment", total),
			EstimatedCost:    85000,
			EstimatedBenefit: round2(total * 0.85),
		})
	}

	worst := analysis.HighestImpactScenario
	recs = append(recs,
		schemas.EconomicRecommendation{
			Priority:       "HIGH",
			Category:       "Threat-Specific Mitigation",
			Recommendation: fmt.Sprintf("Prioritize protection against %s", scenarioTitle(worst)),
			Justification: fmt.Sprintf("Highest potential impact scenario: AUD %.0f",
				analysis.Scenarios[worst].TotalImpact),
			EstimatedCost:    25000,
			EstimatedBenefit: round2(analysis.Scenarios[worst].TotalImpact * 0.7),
		},
		schemas.EconomicRecommendation{
			Priority:         "HIGH",
			Category:         "Regulatory Compliance",
			Recommendation:   "Ensure full AEMO VPP compliance to avoid penalties",
			Justification:    "Non-compliance penalties can exceed AUD 100,000 plus lost revenue",
			EstimatedCost:    20000,
			EstimatedBenefit: 100000,
		},
		schemas.EconomicRecommendation{
			Priority:         "MEDIUM",
			Category:         "Risk Transfer",
			Recommendation:   "Evaluate cybersecurity insurance options",
			Justification:    "Insurance can transfer significant portions of economic risk",
			EstimatedCost:    15000,
			EstimatedBenefit: round2(total * 0.6),
		},
		schemas.EconomicRecommendation{
			Priority:         "MEDIUM",
			Category:         "Early Detection",
			Recommendation:   "Implement continuous monitoring and threat detection",
			Justification:    "Early detection can reduce incident duration and costs by 60%",
			EstimatedCost:    30000,
			EstimatedBenefit: round2(total * 0.4),
		},
	)
	return recs
}

// scenarioTitle renders SINGLE_INVERTER_COMPROMISE as "Single Inverter
// Compromise" for prose.
func scenarioTitle(s schemas.AttackScenario) string {
	words := strings.Split(strings.ToLower(string(s)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// SummaryRecords flattens the scenario analysis into CSV-ready rows, header
// first.
func SummaryRecords(analysis *schemas.EconomicAnalysis) [][]string {
	records := [][]string{{
		"Scenario",
		"Duration_Hours",
		"Affected_Capacity_MW",
		"Total_Economic_Impact_AUD",
		"Direct_Costs_AUD",
		"Indirect_Costs_AUD",
		"Recovery_Costs_AUD",
		"Spot_Price_Impact_AUD",
	}}

	for _, scenario := range schemas.AttackScenarios {
		impact, ok := analysis.Scenarios[scenario]
		if !ok {
			continue
		}
		records = append(records, []string{
			scenarioTitle(scenario),
			fmt.Sprintf("%.1f", impact.DurationHours),
			fmt.Sprintf("%.4f", impact.AffectedCapacityMW),
			fmt.Sprintf("%.2f", impact.TotalImpact),
			fmt.Sprintf("%.2f", sumCosts(impact.DirectCosts)),
			fmt.Sprintf("%.2f", sumCosts(impact.IndirectCosts)),
			fmt.Sprintf("%.2f", sumCosts(impact.RecoveryCosts)),
			fmt.Sprintf("%.2f", impact.SpotImpact.TotalMarketImpact),
		})
	}
	return records
}

func sumCosts(costs map[string]float64) float64 {
	var total float64
	for _, v := range costs {
		total += v
	}
	return total
}
