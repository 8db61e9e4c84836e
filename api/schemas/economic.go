package schemas

// -- Economic Impact Schemas --

// AttackScenario names one of the modeled cyberattack situations.
type AttackScenario string

const (
	ScenarioSingleInverter  AttackScenario = "SINGLE_INVERTER_COMPROMISE"
	ScenarioMultiInverter   AttackScenario = "MULTIPLE_INVERTER_ATTACK"
	ScenarioGateway         AttackScenario = "GATEWAY_COMPROMISE"
	ScenarioAPIEndpoint     AttackScenario = "API_ENDPOINT_ATTACK"
	ScenarioCoordinatedGrid AttackScenario = "COORDINATED_GRID_ATTACK"
	ScenarioFirmware        AttackScenario = "FIRMWARE_INJECTION"
	ScenarioDoS             AttackScenario = "DENIAL_OF_SERVICE"
)

// AttackScenarios lists every modeled scenario in canonical order.
var AttackScenarios = []AttackScenario{
	ScenarioSingleInverter,
	ScenarioMultiInverter,
	ScenarioGateway,
	ScenarioAPIEndpoint,
	ScenarioCoordinatedGrid,
	ScenarioFirmware,
	ScenarioDoS,
}

// EconomicSector identifies a stakeholder group bearing outage costs.
type EconomicSector string

const (
	SectorResidential   EconomicSector = "RESIDENTIAL"
	SectorCommercial    EconomicSector = "COMMERCIAL"
	SectorIndustrial    EconomicSector = "INDUSTRIAL"
	SectorGridOperator  EconomicSector = "GRID_OPERATOR"
	SectorEnergyRetailer EconomicSector = "ENERGY_RETAILER"
)

// SpotPriceImpact summarizes what a supply disruption does to the market.
// All monetary figures are AUD.
type SpotPriceImpact struct {
	BaselinePriceAUDMWh      float64 `json:"baseline_price_aud_mwh"`
	DisruptedCapacityMW      float64 `json:"disrupted_capacity_mw"`
	DurationHours            float64 `json:"duration_hours"`
	CapacityPercentDisrupted float64 `json:"capacity_percentage_disrupted"`
	PriceIncreaseAUDMWh      float64 `json:"price_increase_aud_mwh"`
	PriceMultiplier          float64 `json:"price_multiplier"`
	ImpactFactor             float64 `json:"impact_factor"`
	AdditionalGenerationCost float64 `json:"total_additional_generation_cost"`
	AncillaryServicesCost    float64 `json:"ancillary_services_cost"`
	VolatilityIncreasePct    float64 `json:"market_volatility_increase_percent"`
	TotalMarketImpact        float64 `json:"total_market_impact"`
}

// PriceVolatility holds the spot price distribution metrics used to anchor
// disruption modeling.
type PriceVolatility struct {
	MeanPrice             float64 `json:"mean_price"`
	MedianPrice           float64 `json:"median_price"`
	StdDeviation          float64 `json:"std_deviation"`
	MinPrice              float64 `json:"min_price"`
	MaxPrice              float64 `json:"max_price"`
	VolatilityCoefficient float64 `json:"volatility_coefficient"`
	Percentile95          float64 `json:"percentile_95"`
	Percentile99          float64 `json:"percentile_99"`
}

// ScenarioImpact is the full cost picture for one attack scenario.
type ScenarioImpact struct {
	Scenario           AttackScenario             `json:"scenario"`
	DurationHours      float64                    `json:"duration_hours"`
	AffectedCapacityMW float64                    `json:"affected_capacity_mw"`

	DirectCosts   map[string]float64            `json:"direct_costs"`
	IndirectCosts map[string]float64            `json:"indirect_costs"`
	RecoveryCosts map[string]float64            `json:"recovery_costs"`
	SpotImpact    SpotPriceImpact               `json:"spot_price_impact"`
	SectorImpacts map[EconomicSector]float64    `json:"sector_impacts"`

	TotalImpact float64 `json:"total_economic_impact"`
}

// RiskWeightedScenario pairs a scenario's potential impact with its annual
// likelihood to produce an expected annual loss.
type RiskWeightedScenario struct {
	AnnualLikelihood   float64   `json:"annual_likelihood"`
	PotentialImpact    float64   `json:"potential_impact"`
	ExpectedAnnualLoss float64   `json:"expected_annual_loss"`
	RiskPriority       RiskLevel `json:"risk_priority"`
}

// MitigationROI evaluates one security investment over a five-year horizon.
type MitigationROI struct {
	Description           string  `json:"description"`
	ImplementationCost    float64 `json:"implementation_cost"`
	AnnualMaintenanceCost float64 `json:"annual_maintenance_cost"`
	TotalCost5Years       float64 `json:"total_cost_5_years"`
	AnnualRiskReduction   float64 `json:"annual_risk_reduction"`
	RiskReduction5Years   float64 `json:"risk_reduction_5_years"`
	NetBenefit5Years      float64 `json:"net_benefit_5_years"`
	ROIPercentage         float64 `json:"roi_percentage"`
	PaybackPeriodYears    float64 `json:"payback_period_years"`
	CostEffectiveness     float64 `json:"cost_effectiveness"`
}

// EconomicRecommendation is an investment recommendation with its
// justification in dollars.
type EconomicRecommendation struct {
	Priority         string  `json:"priority"`
	Category         string  `json:"category"`
	Recommendation   string  `json:"recommendation"`
	Justification    string  `json:"economic_justification"`
	EstimatedCost    float64 `json:"estimated_cost"`
	EstimatedBenefit float64 `json:"estimated_benefit"`
}

// EconomicAnalysis is the complete output of the economic impact model.
type EconomicAnalysis struct {
	TotalCapacityKW float64 `json:"total_capacity_kw"`
	Location        string  `json:"location"`

	Scenarios map[AttackScenario]ScenarioImpact `json:"scenario_analysis"`

	TotalPotentialImpact     float64        `json:"total_potential_impact_aud"`
	AverageImpactPerScenario float64        `json:"average_impact_per_scenario"`
	HighestImpactScenario    AttackScenario `json:"highest_impact_scenario"`
	LowestImpactScenario     AttackScenario `json:"lowest_impact_scenario"`

	PriceVolatility PriceVolatility `json:"spot_price_volatility"`

	ExpectedAnnualLoss   float64                                  `json:"total_expected_annual_loss"`
	RiskWeighted         map[AttackScenario]RiskWeightedScenario  `json:"risk_scenarios"`
	TopRiskConcentration float64                                  `json:"top_3_scenarios_percentage"`

	Mitigations         map[string]MitigationROI `json:"mitigation_measures"`
	MitigationPriority  []string                 `json:"recommended_priority"`
	Recommendations     []EconomicRecommendation `json:"recommendations"`
}
