package projection

import (
	"time"

	"dividendtracker/src/models"
)

type Summary struct {
	TotalPortfolioValue float64 `json:"totalPortfolioValue"`
	TotalCostBasis      float64 `json:"totalCostBasis"`
	TotalGainLoss       float64 `json:"totalGainLoss"`
	GainLossPercent     float64 `json:"gainLossPercent"`
	TotalAnnualIncome   float64 `json:"totalAnnualIncome"`
	MonthlyAverage      float64 `json:"monthlyAverage"`
	QuarterlyAverage    float64 `json:"quarterlyAverage"`
	WeeklyAverage       float64 `json:"weeklyAverage"`
	DailyAverage        float64 `json:"dailyAverage"`
	AverageYield        float64 `json:"averageYield"`
	YieldOnCost         float64 `json:"yieldOnCost"`
}

// Summarize derives the portfolio figures. Total income comes from the
// monthly series rather than from the per-holding annual income; both agree
// up to floating point error.
//
// AverageYield is the plain mean of the holdings' yields, not weighted by
// market value.
func Summarize(holdings []models.Holding, series []MonthlyIncome) Summary {
	var s Summary
	for _, m := range series {
		s.TotalAnnualIncome += m.Income
	}

	var yieldSum float64
	for _, h := range holdings {
		s.TotalPortfolioValue += MarketValue(h)
		s.TotalCostBasis += h.CostBasis
		yieldSum += h.DividendYield
	}

	s.TotalGainLoss = s.TotalPortfolioValue - s.TotalCostBasis
	s.GainLossPercent = percentOf(s.TotalGainLoss, s.TotalCostBasis)
	s.MonthlyAverage = s.TotalAnnualIncome / 12
	s.QuarterlyAverage = s.TotalAnnualIncome / 4
	s.WeeklyAverage = s.TotalAnnualIncome / 52
	s.DailyAverage = s.TotalAnnualIncome / 365
	s.AverageYield = divide(yieldSum, float64(len(holdings)))
	s.YieldOnCost = percentOf(s.TotalAnnualIncome, s.TotalCostBasis)
	return s
}

type Projection struct {
	Holdings []Valuation     `json:"holdings"`
	Series   []MonthlyIncome `json:"series"`
	Summary  Summary         `json:"summary"`
}

// Project runs valuation, scheduling and aggregation over one snapshot.
func Project(holdings []models.Holding, start time.Time) Projection {
	valuations := make([]Valuation, 0, len(holdings))
	for _, h := range holdings {
		valuations = append(valuations, Value(h))
	}
	series := MonthlySeries(holdings, start)
	return Projection{
		Holdings: valuations,
		Series:   series,
		Summary:  Summarize(holdings, series),
	}
}
