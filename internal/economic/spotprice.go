// File: internal/economic/spotprice.go

// Package economic models the financial consequences of cyberattacks on a
// distributed solar fleet in the South Australian electricity market. It
// builds a synthetic hourly spot price series (or loads a historical one),
// derives volatility metrics from it, and prices supply disruptions, sector
// losses and mitigation investments for a set of attack scenarios.
package economic

import (
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
	"github.com/sa-gridsec/gridrisk/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AncillaryServicesRateAUD is the additional reserve cost per disrupted MW
// per hour when the market operator procures replacement capacity.
const AncillaryServicesRateAUD = 15.0

// SpotPrice is one hourly observation of the regional market.
type SpotPrice struct {
	Timestamp      time.Time `json:"timestamp"`
	PriceAUDMWh    float64   `json:"price_aud_per_mwh"`
	DemandMW       float64   `json:"demand_mw"`
	RenewableGenMW float64   `json:"renewable_generation_mw"`
	Region         string    `json:"region"`
}

// PriceModel holds a year of hourly spot prices and the volatility metrics
// derived from them. The synthetic generator is seeded from configuration so
// repeated runs produce identical series.
type PriceModel struct {
	cfg    config.EconomicConfig
	region string
	series []SpotPrice

	volatility     schemas.PriceVolatility
	volatilityDone bool
}

// NewPriceModel builds a synthetic price series anchored to end at the given
// time.
func NewPriceModel(cfg config.EconomicConfig, region string, end time.Time) *PriceModel {
	m := &PriceModel{cfg: cfg, region: region}
	m.generate(end)
	return m
}

// LoadPriceModel reads a historical price series from a JSON file. It falls
// back to the synthetic generator when the file cannot be used.
func LoadPriceModel(cfg config.EconomicConfig, region, path string, end time.Time, logger *zap.Logger) *PriceModel {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("historical price data unavailable, generating synthetic series",
			zap.String("path", path), zap.Error(err))
		return NewPriceModel(cfg, region, end)
	}

	var series []SpotPrice
	if err := json.Unmarshal(raw, &series); err != nil || len(series) == 0 {
		logger.Warn("historical price data unreadable, generating synthetic series",
			zap.String("path", path), zap.Error(err))
		return NewPriceModel(cfg, region, end)
	}
	for i := range series {
		if series[i].Region == "" {
			series[i].Region = region
		}
	}
	logger.Info("loaded historical price records", zap.Int("records", len(series)))
	return &PriceModel{cfg: cfg, region: region, series: series}
}

// Series returns the underlying hourly observations.
func (m *PriceModel) Series() []SpotPrice { return m.series }

func (m *PriceModel) generate(end time.Time) {
	rng := rand.New(rand.NewSource(m.cfg.Seed))
	hours := 365 * 24 * m.cfg.AnalysisYears
	start := end.Add(-time.Duration(hours) * time.Hour)

	m.series = make([]SpotPrice, 0, hours)
	for i := 0; i < hours; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)

		price := m.basePrice(ts) * volatilityFactor(ts, rng) * renewableFactor(ts)
		demand := demandMW(ts, rng)

		m.series = append(m.series, SpotPrice{
			Timestamp:      ts,
			PriceAUDMWh:    math.Max(0, price),
			DemandMW:       demand,
			RenewableGenMW: renewableGenerationMW(ts, demand, rng),
			Region:         m.region,
		})
	}
}

// basePrice follows the SA daily shape: morning and evening peaks, a solar
// trough through the middle of the day, and cheap overnight power, with
// weekend and seasonal adjustments. Band levels scale with the configured
// base price.
func (m *PriceModel) basePrice(ts time.Time) float64 {
	hour := ts.Hour()

	var price float64
	switch {
	case (hour >= 6 && hour <= 9) || (hour >= 17 && hour <= 21):
		price = m.cfg.BaseSpotPrice * 1.8
	case hour >= 10 && hour <= 16:
		price = m.cfg.BaseSpotPrice * 0.95
	default:
		price = m.cfg.BaseSpotPrice * 0.55
	}

	if isWeekend(ts) {
		price *= 0.8
	}

	switch ts.Month() {
	case time.December, time.January, time.February: // southern summer
		price *= 1.3
	case time.June, time.July, time.August:
		price *= 1.1
	}
	return price
}

func volatilityFactor(ts time.Time, rng *rand.Rand) float64 {
	hour := ts.Hour()
	if (hour >= 6 && hour <= 9) || (hour >= 17 && hour <= 21) {
		// Peak hours swing hard in a thin market.
		return uniform(rng, 0.7, 2.5)
	}
	return uniform(rng, 0.8, 1.3)
}

// renewableFactor models how solar output suppresses daytime prices and how
// its absence pushes evening prices onto conventional generation.
func renewableFactor(ts time.Time) float64 {
	hour := ts.Hour()
	switch {
	case hour >= 10 && hour <= 15:
		if highSolarMonth(ts.Month()) {
			return 0.4
		}
		return 0.7
	case (hour >= 7 && hour <= 9) || (hour >= 16 && hour <= 18):
		return 0.8
	default:
		return 1.2
	}
}

func demandMW(ts time.Time, rng *rand.Rand) float64 {
	hour := ts.Hour()

	var demand float64
	switch {
	case (hour >= 6 && hour <= 9) || (hour >= 17 && hour <= 21):
		demand = 2800
	case hour >= 10 && hour <= 16:
		demand = 2200
	default:
		demand = 1600
	}

	if isWeekend(ts) {
		demand *= 0.85
	}

	switch ts.Month() {
	case time.December, time.January, time.February:
		demand *= 1.25
	case time.June, time.July, time.August:
		demand *= 1.15
	}
	return demand * uniform(rng, 0.9, 1.1)
}

func renewableGenerationMW(ts time.Time, demand float64, rng *rand.Rand) float64 {
	hour := ts.Hour()

	var solar float64
	if hour >= 6 && hour <= 18 {
		peakFactor := math.Sin(math.Pi * float64(hour-6) / 12)
		maxSolar := demand * 0.4
		if highSolarMonth(ts.Month()) {
			maxSolar = demand * 0.6
		}
		solar = maxSolar * peakFactor
	}

	wind := demand * 0.3 * uniform(rng, 0.1, 0.8)
	return solar + wind
}

func highSolarMonth(m time.Month) bool {
	return m >= time.October || m <= time.March
}

func isWeekend(ts time.Time) bool {
	wd := ts.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// Volatility computes the price distribution metrics. The result is cached;
// the series is immutable after construction.
func (m *PriceModel) Volatility() schemas.PriceVolatility {
	if m.volatilityDone {
		return m.volatility
	}

	prices := make([]float64, len(m.series))
	for i, p := range m.series {
		prices[i] = p.PriceAUDMWh
	}

	mean := meanOf(prices)
	std := stddevOf(prices, mean)

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	m.volatility = schemas.PriceVolatility{
		MeanPrice:             mean,
		MedianPrice:           medianOfSorted(sorted),
		StdDeviation:          std,
		MinPrice:              sorted[0],
		MaxPrice:              sorted[len(sorted)-1],
		VolatilityCoefficient: std / mean,
		Percentile95:          percentileOfSorted(sorted, 95),
		Percentile99:          percentileOfSorted(sorted, 99),
	}
	m.volatilityDone = true
	return m.volatility
}

// DisruptionImpact prices the loss of solar capacity for a period starting
// at the given time. The SA market has inelastic supply, so prices climb
// steeply with the share of regional capacity lost; the time of day sets how
// much solar output was actually on line to lose.
func (m *PriceModel) DisruptionImpact(capacityMW, durationHours float64, at time.Time) schemas.SpotPriceImpact {
	baseline := m.Volatility().MeanPrice

	capacityShare := capacityMW / m.cfg.TotalVPPCapacityMW
	priceMultiplier := 1 + capacityShare*3.5

	var impactFactor float64
	hour := at.Hour()
	switch {
	case hour >= 10 && hour <= 15:
		impactFactor = 2.0
	case (hour >= 7 && hour <= 9) || (hour >= 16 && hour <= 18):
		impactFactor = 1.5
	default:
		impactFactor = 0.3
	}

	priceIncrease := baseline * (priceMultiplier - 1) * impactFactor
	additionalCost := priceIncrease * capacityMW * durationHours
	ancillaryCost := capacityMW * AncillaryServicesRateAUD * durationHours

	return schemas.SpotPriceImpact{
		BaselinePriceAUDMWh:      baseline,
		DisruptedCapacityMW:      capacityMW,
		DurationHours:            durationHours,
		CapacityPercentDisrupted: capacityShare * 100,
		PriceIncreaseAUDMWh:      priceIncrease,
		PriceMultiplier:          priceMultiplier,
		ImpactFactor:             impactFactor,
		AdditionalGenerationCost: additionalCost,
		AncillaryServicesCost:    ancillaryCost,
		VolatilityIncreasePct:    capacityShare * 0.2 * 100,
		TotalMarketImpact:        additionalCost + ancillaryCost,
	}
}

func meanOf(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func stddevOf(vals []float64, mean float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	var ss float64
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}

func medianOfSorted(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// percentileOfSorted linearly interpolates between the two nearest ranks.
func percentileOfSorted(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
