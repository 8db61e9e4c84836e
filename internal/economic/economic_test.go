// File: internal/economic/economic_test.go
package economic

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
	"github.com/sa-gridsec/gridrisk/internal/config"
	"github.com/sa-gridsec/gridrisk/internal/model"
)

// Monday midday, solar peak. Fixing the clock keeps the synthetic series and
// the disruption impact factor stable across runs.
var testClock = time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	cfg := config.NewDefaultConfig().Economic()
	return &Calculator{
		cfg:    cfg,
		prices: NewPriceModel(cfg, "SA1", testClock),
		logger: zap.NewNop(),
		now:    func() time.Time { return testClock },
	}
}

func TestSyntheticPriceSeries(t *testing.T) {
	cfg := config.NewDefaultConfig().Economic()
	m := NewPriceModel(cfg, "SA1", testClock)

	series := m.Series()
	require.Len(t, series, 365*24)
	for _, p := range series {
		assert.GreaterOrEqual(t, p.PriceAUDMWh, 0.0)
		assert.Greater(t, p.DemandMW, 0.0)
		assert.Equal(t, "SA1", p.Region)
	}

	t.Run("seeded generation is reproducible", func(t *testing.T) {
		again := NewPriceModel(cfg, "SA1", testClock)
		assert.Equal(t, series, again.Series())
	})

	t.Run("different seed diverges", func(t *testing.T) {
		other := cfg
		other.Seed = 7
		assert.NotEqual(t, series, NewPriceModel(other, "SA1", testClock).Series())
	})
}

func TestVolatilityMetrics(t *testing.T) {
	cfg := config.NewDefaultConfig().Economic()
	m := NewPriceModel(cfg, "SA1", testClock)

	v := m.Volatility()
	assert.Greater(t, v.MeanPrice, 0.0)
	assert.Greater(t, v.StdDeviation, 0.0)
	assert.Greater(t, v.VolatilityCoefficient, 0.0)
	assert.GreaterOrEqual(t, v.MinPrice, 0.0)
	assert.GreaterOrEqual(t, v.Percentile95, v.MedianPrice)
	assert.GreaterOrEqual(t, v.Percentile99, v.Percentile95)
	assert.GreaterOrEqual(t, v.MaxPrice, v.Percentile99)
}

func TestPercentileInterpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}
	assert.Equal(t, 30.0, percentileOfSorted(sorted, 50))
	assert.InDelta(t, 48.0, percentileOfSorted(sorted, 95), 1e-9)
	assert.Equal(t, 50.0, percentileOfSorted(sorted, 100))
}

func TestDisruptionImpact(t *testing.T) {
	cfg := config.NewDefaultConfig().Economic()
	m := NewPriceModel(cfg, "SA1", testClock)
	baseline := m.Volatility().MeanPrice

	t.Run("midday outage hits hardest", func(t *testing.T) {
		impact := m.DisruptionImpact(10, 4, testClock)
		assert.Equal(t, 2.0, impact.ImpactFactor)
		assert.InDelta(t, 1.14, impact.PriceMultiplier, 1e-9) // 10 of 250 MW
		assert.InDelta(t, 4.0, impact.CapacityPercentDisrupted, 1e-9)
		assert.InDelta(t, baseline*0.14*2.0, impact.PriceIncreaseAUDMWh, 1e-9)
		assert.InDelta(t, 10*AncillaryServicesRateAUD*4, impact.AncillaryServicesCost, 1e-9)
		assert.InDelta(t, impact.AdditionalGenerationCost+impact.AncillaryServicesCost,
			impact.TotalMarketImpact, 1e-9)
	})

	t.Run("overnight outage barely moves the market", func(t *testing.T) {
		night := time.Date(2025, time.March, 3, 2, 0, 0, 0, time.UTC)
		impact := m.DisruptionImpact(10, 4, night)
		assert.Equal(t, 0.3, impact.ImpactFactor)
	})
}

func TestLoadPriceModelFallsBackToSynthetic(t *testing.T) {
	cfg := config.NewDefaultConfig().Economic()
	m := LoadPriceModel(cfg, "SA1", filepath.Join(t.TempDir(), "missing.json"), testClock, zap.NewNop())
	assert.Len(t, m.Series(), 365*24)
}

func TestLoadPriceModelHistorical(t *testing.T) {
	cfg := config.NewDefaultConfig().Economic()
	path := filepath.Join(t.TempDir(), "prices.json")
	payload := `[
		{"timestamp":"2025-01-01T12:00:00Z","price_aud_per_mwh":64.5,"demand_mw":2100,"renewable_generation_mw":900},
		{"timestamp":"2025-01-01T13:00:00Z","price_aud_per_mwh":58.0,"demand_mw":2050,"renewable_generation_mw":950}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	m := LoadPriceModel(cfg, "SA1", path, testClock, zap.NewNop())
	series := m.Series()
	require.Len(t, series, 2)
	assert.Equal(t, 64.5, series[0].PriceAUDMWh)
	assert.Equal(t, "SA1", series[0].Region)
}

func TestSectorImpact(t *testing.T) {
	impact, ok := SectorImpact(schemas.SectorIndustrial, 2, 4, 100)
	require.True(t, ok)
	// energy 320 + lost revenue 40000 + backup 4000 + inconvenience 4000
	assert.InDelta(t, 48320.0, impact, 1e-9)

	_, ok = SectorImpact(schemas.EconomicSector("GOVERNMENT"), 2, 4, 100)
	assert.False(t, ok)
}

func TestScenarioImpact(t *testing.T) {
	c := newTestCalculator(t)
	sys := model.Default() // 5 kW fleet

	t.Run("single inverter compromise", func(t *testing.T) {
		impact, err := c.ScenarioImpact(sys, schemas.ScenarioSingleInverter, 0)
		require.NoError(t, err)

		assert.Equal(t, 13.0, impact.DurationHours) // midpoint of 2-24h
		assert.InDelta(t, 0.003, impact.AffectedCapacityMW, 1e-9)
		assert.Equal(t, 0.0, impact.DirectCosts["equipment_replacement_cost"])
		assert.Equal(t, 2000.0, impact.DirectCosts["emergency_response_cost"])
		assert.Equal(t, 5000.0, impact.IndirectCosts["regulatory_penalties"])
		assert.Equal(t, 5000.0, impact.RecoveryCosts["technical_recovery"])
		assert.Len(t, impact.SectorImpacts, 5)
		assert.Greater(t, impact.TotalImpact, 0.0)
	})

	t.Run("firmware injection forces hardware replacement", func(t *testing.T) {
		impact, err := c.ScenarioImpact(sys, schemas.ScenarioFirmware, 0)
		require.NoError(t, err)

		assert.InDelta(t, 6750.0, impact.DirectCosts["equipment_replacement_cost"], 1e-6)
		assert.Equal(t, 50000.0, impact.IndirectCosts["regulatory_penalties"])
		assert.Equal(t, 40000.0, impact.RecoveryCosts["technical_recovery"])
	})

	t.Run("explicit duration overrides the planning case", func(t *testing.T) {
		impact, err := c.ScenarioImpact(sys, schemas.ScenarioDoS, 2)
		require.NoError(t, err)
		assert.Equal(t, 2.0, impact.DurationHours)
	})

	t.Run("unknown scenario errors", func(t *testing.T) {
		_, err := c.ScenarioImpact(sys, schemas.AttackScenario("SOLAR_FLARE"), 0)
		assert.Error(t, err)
	})
}

func TestAnalyze(t *testing.T) {
	c := newTestCalculator(t)
	sys := model.Default()

	analysis, err := c.Analyze(sys)
	require.NoError(t, err)

	assert.Equal(t, 5.0, analysis.TotalCapacityKW)
	assert.Len(t, analysis.Scenarios, 7)

	var sum float64
	for _, impact := range analysis.Scenarios {
		sum += impact.TotalImpact
	}
	assert.InDelta(t, sum, analysis.TotalPotentialImpact, 0.5)
	assert.InDelta(t, analysis.TotalPotentialImpact/7, analysis.AverageImpactPerScenario, 0.5)

	// Firmware injection carries the longest outage plus hardware
	// replacement; a short DDoS is the cheapest incident on a small fleet.
	assert.Equal(t, schemas.ScenarioFirmware, analysis.HighestImpactScenario)
	assert.Equal(t, schemas.ScenarioDoS, analysis.LowestImpactScenario)

	require.Len(t, analysis.RiskWeighted, 7)
	for scenario, rw := range analysis.RiskWeighted {
		assert.Equal(t, attackScenarios[scenario].AnnualLikelihood, rw.AnnualLikelihood)
		assert.InDelta(t, rw.AnnualLikelihood*rw.PotentialImpact, rw.ExpectedAnnualLoss, 0.5)
	}
	assert.Greater(t, analysis.ExpectedAnnualLoss, 0.0)
	assert.Greater(t, analysis.TopRiskConcentration, 0.0)
	assert.LessOrEqual(t, analysis.TopRiskConcentration, 100.0)

	// Fixed-cost floors put the fleet-wide total well past the strategic
	// investment threshold.
	require.Len(t, analysis.Recommendations, 5)
	assert.Equal(t, "CRITICAL", analysis.Recommendations[0].Priority)
	assert.Contains(t, analysis.Recommendations[1].Recommendation, "Firmware Injection")
}

func TestRiskPriority(t *testing.T) {
	cases := []struct {
		name       string
		likelihood float64
		impact     float64
		want       schemas.RiskLevel
	}{
		{"certain catastrophic loss", 1.0, 100000, schemas.RiskCritical},
		{"likely major loss", 0.5, 100000, schemas.RiskHigh},
		{"occasional moderate loss", 0.2, 90000, schemas.RiskMedium},
		{"rare minor loss", 0.01, 50000, schemas.RiskLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, riskPriority(tc.likelihood, tc.impact))
		})
	}
}

func TestMitigationRanking(t *testing.T) {
	c := newTestCalculator(t)
	analysis, err := c.Analyze(model.Default())
	require.NoError(t, err)

	require.Len(t, analysis.Mitigations, 4)

	basic := analysis.Mitigations["basic_security_package"]
	assert.Equal(t, 30000.0, basic.TotalCost5Years)
	assert.Equal(t, 125000.0, basic.RiskReduction5Years)
	assert.Equal(t, 95000.0, basic.NetBenefit5Years)
	assert.InDelta(t, 316.67, basic.ROIPercentage, 0.01)
	assert.InDelta(t, 1.2, basic.PaybackPeriodYears, 1e-9)

	// Cheap controls with broad coverage come out ahead of the heavyweight
	// programs on pure return.
	assert.Equal(t, []string{
		"basic_security_package",
		"network_segmentation",
		"comprehensive_security_program",
		"advanced_security_package",
	}, analysis.MitigationPriority)
}

func TestSummaryRecords(t *testing.T) {
	c := newTestCalculator(t)
	analysis, err := c.Analyze(model.Default())
	require.NoError(t, err)

	records := SummaryRecords(analysis)
	require.Len(t, records, 8)
	assert.Equal(t, "Scenario", records[0][0])
	assert.Equal(t, "Single Inverter Compromise", records[1][0])
	assert.Equal(t, "Denial Of Service", records[7][0])
	for _, row := range records {
		assert.Len(t, row, 8)
	}
}

func TestScenarioTitle(t *testing.T) {
	assert.Equal(t, "Coordinated Grid Attack", scenarioTitle(schemas.ScenarioCoordinatedGrid))
}
