// File: internal/economic/sectors.go
package economic

import "github.com/sa-gridsec/gridrisk/api/schemas"

// sectorFactors captures how one stakeholder group absorbs an outage.
type sectorFactors struct {
	// EnergyCostIncreaseFactor multiplies the baseline energy spend for the
	// outage window; the excess over 1.0 is the extra cost borne.
	EnergyCostIncreaseFactor float64
	LostRevenuePerMWHour     float64
	BackupGenerationPerMW    float64
	InconveniencePerHour     float64
}

var sectorImpactFactors = map[schemas.EconomicSector]sectorFactors{
	schemas.SectorResidential: {
		EnergyCostIncreaseFactor: 1.2,
		LostRevenuePerMWHour:     0,
		BackupGenerationPerMW:    200,
		InconveniencePerHour:     50,
	},
	schemas.SectorCommercial: {
		EnergyCostIncreaseFactor: 1.3,
		LostRevenuePerMWHour:     1500,
		BackupGenerationPerMW:    300,
		InconveniencePerHour:     200,
	},
	schemas.SectorIndustrial: {
		EnergyCostIncreaseFactor: 1.4,
		LostRevenuePerMWHour:     5000,
		BackupGenerationPerMW:    500,
		InconveniencePerHour:     1000,
	},
	schemas.SectorGridOperator: {
		EnergyCostIncreaseFactor: 1.5,
		LostRevenuePerMWHour:     100,
		BackupGenerationPerMW:    400,
		InconveniencePerHour:     500,
	},
	schemas.SectorEnergyRetailer: {
		EnergyCostIncreaseFactor: 1.6,
		LostRevenuePerMWHour:     80,
		BackupGenerationPerMW:    350,
		InconveniencePerHour:     300,
	},
}

// SectorImpact totals the outage cost one sector bears over the disruption
// window at the given baseline energy price.
func SectorImpact(sector schemas.EconomicSector, capacityMW, durationHours, baselinePriceAUDMWh float64) (float64, bool) {
	f, ok := sectorImpactFactors[sector]
	if !ok {
		return 0, false
	}

	energyCostIncrease := capacityMW * durationHours * baselinePriceAUDMWh * (f.EnergyCostIncreaseFactor - 1)
	lostRevenue := f.LostRevenuePerMWHour * capacityMW * durationHours
	backupCost := f.BackupGenerationPerMW * capacityMW * durationHours
	inconvenience := f.InconveniencePerHour * durationHours

	return energyCostIncrease + lostRevenue + backupCost + inconvenience, true
}
