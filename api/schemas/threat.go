package schemas

// -- STRIDE Threat Schemas --

// StrideCategory is one of the six STRIDE threat classes.
type StrideCategory string

const (
	Spoofing              StrideCategory = "SPOOFING"
	Tampering             StrideCategory = "TAMPERING"
	Repudiation           StrideCategory = "REPUDIATION"
	InformationDisclosure StrideCategory = "INFORMATION_DISCLOSURE"
	DenialOfService       StrideCategory = "DENIAL_OF_SERVICE"
	ElevationOfPrivilege  StrideCategory = "ELEVATION_OF_PRIVILEGE"
)

// StrideCategories lists every category in canonical order.
var StrideCategories = []StrideCategory{
	Spoofing,
	Tampering,
	Repudiation,
	InformationDisclosure,
	DenialOfService,
	ElevationOfPrivilege,
}

// RiskLevel bands a numeric risk score for humans.
type RiskLevel string

const (
	RiskMinimal  RiskLevel = "MINIMAL"
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Threat is a single threat identified against a component or data flow.
// Likelihood and Impact use a 1-5 scale; RiskScore is their product.
type Threat struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Category          StrideCategory `json:"stride_category"`
	AffectedComponent string         `json:"affected_component"`
	AttackVector      string         `json:"attack_vector"`
	ImpactDescription string         `json:"impact_description"`
	Likelihood        int            `json:"likelihood"`
	Impact            int            `json:"impact"`
	RiskScore         int            `json:"risk_score"`
	Mitigations       []string       `json:"mitigation_strategies,omitempty"`
	References        []string       `json:"references,omitempty"`
}

// ThreatRiskLevel bands a likelihood*impact product (1-25 scale).
func ThreatRiskLevel(score int) RiskLevel {
	switch {
	case score <= 5:
		return RiskLow
	case score <= 10:
		return RiskMedium
	case score <= 15:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// ComponentThreatSummary aggregates the threats recorded against a single
// component.
type ComponentThreatSummary struct {
	Name              string        `json:"name"`
	Type              ComponentType `json:"type"`
	ThreatCount       int           `json:"threat_count"`
	AverageRiskScore  float64       `json:"average_risk_score"`
	HighestRiskThreat string        `json:"highest_risk_threat,omitempty"`
}

// MitigationRecommendation ranks a mitigation strategy by how many threats
// it addresses and how risky those threats are.
type MitigationRecommendation struct {
	Mitigation           string   `json:"mitigation"`
	ThreatCount          int      `json:"threat_count"`
	AverageRiskReduction float64  `json:"average_risk_reduction"`
	ImpactScore          float64  `json:"impact_score"`
	AffectedThreats      []string `json:"affected_threats"`
}

// DiagramNode and DiagramEdge form an exportable data-flow diagram of the
// modeled system, annotated with threat counts.
type DiagramNode struct {
	ID            string        `json:"id"`
	Label         string        `json:"label"`
	Type          ComponentType `json:"type"`
	TrustBoundary TrustBoundary `json:"trust_boundary"`
	ThreatCount   int           `json:"threat_count"`
}

type DiagramEdge struct {
	Source               string `json:"source"`
	Target               string `json:"target"`
	Label                string `json:"label"`
	Protocol             string `json:"protocol"`
	Encrypted            bool   `json:"encrypted"`
	CrossesTrustBoundary bool   `json:"crosses_trust_boundary"`
}

// DataFlowDiagram is the visualization-ready form of the system graph.
type DataFlowDiagram struct {
	Nodes           []DiagramNode   `json:"nodes"`
	Edges           []DiagramEdge   `json:"edges"`
	TrustBoundaries []TrustBoundary `json:"trust_boundaries"`
}

// StrideAnalysis is the complete output of a STRIDE run over a system model.
type StrideAnalysis struct {
	TotalComponents int `json:"total_components"`
	TotalDataFlows  int `json:"total_data_flows"`
	TotalThreats    int `json:"total_threats"`

	CategoryBreakdown map[StrideCategory]int            `json:"stride_breakdown"`
	RiskDistribution  map[RiskLevel]int                 `json:"risk_distribution"`
	ComponentSummary  map[string]ComponentThreatSummary `json:"component_summary"`

	TopThreats      []Threat                   `json:"top_threats"`
	Threats         []Threat                   `json:"all_threats"`
	Recommendations []MitigationRecommendation `json:"mitigation_recommendations"`

	Diagram DataFlowDiagram `json:"data_flow_diagram"`
}
