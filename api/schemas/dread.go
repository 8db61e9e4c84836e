package schemas

// -- DREAD Assessment Schemas --

// DreadScore holds the five DREAD factors for a threat, each on a 1-10
// scale, together with the derived totals.
type DreadScore struct {
	ThreatID        string `json:"threat_id"`
	Damage          int    `json:"damage"`
	Reproducibility int    `json:"reproducibility"`
	Exploitability  int    `json:"exploitability"`
	AffectedUsers   int    `json:"affected_users"`
	Discoverability int    `json:"discoverability"`

	TotalScore   int       `json:"total_score"`
	AverageScore float64   `json:"average_score"`
	RiskLevel    RiskLevel `json:"risk_level"`
}

// DreadWeights assigns a relative weight to each DREAD factor. Weights
// should sum to 1.0.
type DreadWeights struct {
	Damage          float64 `json:"damage" mapstructure:"damage"`
	Reproducibility float64 `json:"reproducibility" mapstructure:"reproducibility"`
	Exploitability  float64 `json:"exploitability" mapstructure:"exploitability"`
	AffectedUsers   float64 `json:"affected_users" mapstructure:"affected_users"`
	Discoverability float64 `json:"discoverability" mapstructure:"discoverability"`
}

// EqualDreadWeights weighs all five factors the same.
func EqualDreadWeights() DreadWeights {
	return DreadWeights{0.2, 0.2, 0.2, 0.2, 0.2}
}

// DefaultPriorityWeights favors damage and exploitability when ranking
// threats for remediation order.
func DefaultPriorityWeights() DreadWeights {
	return DreadWeights{
		Damage:          0.3,
		Reproducibility: 0.15,
		Exploitability:  0.25,
		AffectedUsers:   0.2,
		Discoverability: 0.1,
	}
}

// ScoreStats summarizes a distribution of scores.
type ScoreStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// DreadMetrics holds aggregate statistics over a set of DREAD scores.
type DreadMetrics struct {
	Count             int                   `json:"count"`
	TotalScoreStats   ScoreStats            `json:"total_score_stats"`
	AverageScoreStats ScoreStats            `json:"average_score_stats"`
	RiskDistribution  map[RiskLevel]int     `json:"risk_level_distribution"`
	FactorAnalysis    map[string]ScoreStats `json:"component_analysis"`
}

// PrioritizedThreat is a threat ranked by its weighted DREAD score.
type PrioritizedThreat struct {
	ThreatID      string    `json:"threat_id"`
	WeightedScore float64   `json:"weighted_score"`
	RiskLevel     RiskLevel `json:"risk_level"`
}

// PriorityMatrix buckets threats by risk and exploitability into the four
// classic quadrants.
type PriorityMatrix struct {
	HighRiskHighExploitability []string `json:"high_risk_high_exploitability"`
	HighRiskLowExploitability  []string `json:"high_risk_low_exploitability"`
	LowRiskHighExploitability  []string `json:"low_risk_high_exploitability"`
	LowRiskLowExploitability   []string `json:"low_risk_low_exploitability"`
}

// DreadComponentRollup aggregates DREAD outcomes per affected component.
type DreadComponentRollup struct {
	ThreatCount      int               `json:"threat_count"`
	AverageRiskScore float64           `json:"average_risk_score"`
	MaxRiskScore     float64           `json:"max_risk_score"`
	RiskDistribution map[RiskLevel]int `json:"risk_distribution"`
}

// DreadRecommendation is an actionable follow-up derived from assessment
// aggregates.
type DreadRecommendation struct {
	Priority       string   `json:"priority"`
	Category       string   `json:"category"`
	Recommendation string   `json:"recommendation"`
	ActionItems    []string `json:"action_items"`
}

// DreadReport is the full output of a DREAD assessment run.
type DreadReport struct {
	TotalThreatsAssessed int     `json:"total_threats_assessed"`
	AverageRiskScore     float64 `json:"average_risk_score"`
	HighestRiskThreat    string  `json:"highest_risk_threat,omitempty"`
	CriticalThreats      int     `json:"critical_threats_count"`

	Metrics            DreadMetrics                    `json:"risk_metrics"`
	PrioritizedThreats []PrioritizedThreat             `json:"prioritized_threats"`
	Matrix             PriorityMatrix                  `json:"priority_matrix"`
	ComponentRollups   map[string]DreadComponentRollup `json:"component_analysis"`
	Recommendations    []DreadRecommendation           `json:"recommendations"`
	Scores             []DreadScore                    `json:"detailed_scores"`
}
