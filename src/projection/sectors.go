package projection

import (
	"sort"

	"dividendtracker/src/models"
)

type SectorWeight struct {
	Sector        string  `json:"sector"`
	MarketValue   float64 `json:"marketValue"`
	AnnualIncome  float64 `json:"annualIncome"`
	Weight        float64 `json:"weight"`
	HoldingsCount int     `json:"holdingsCount"`
}

// SectorAllocation groups holdings by sector, largest market value first.
// Weight is the sector's share of total market value in percent.
func SectorAllocation(holdings []models.Holding) []SectorWeight {
	index := make(map[string]int)
	var sectors []SectorWeight
	var total float64
	for _, h := range holdings {
		name := h.Sector
		if name == "" {
			name = models.UnknownSector
		}
		i, ok := index[name]
		if !ok {
			i = len(sectors)
			index[name] = i
			sectors = append(sectors, SectorWeight{Sector: name})
		}
		value := MarketValue(h)
		sectors[i].MarketValue += value
		sectors[i].AnnualIncome += AnnualDividendIncome(h)
		sectors[i].HoldingsCount++
		total += value
	}
	for i := range sectors {
		sectors[i].Weight = percentOf(sectors[i].MarketValue, total)
	}
	sort.SliceStable(sectors, func(i, j int) bool {
		if sectors[i].MarketValue == sectors[j].MarketValue {
			return sectors[i].Sector < sectors[j].Sector
		}
		return sectors[i].MarketValue > sectors[j].MarketValue
	})
	return sectors
}
