package projection_test

import (
	"math"
	"testing"
	"time"

	"dividendtracker/src/models"
	"dividendtracker/src/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-6

var start = time.Date(2026, time.November, 17, 15, 4, 0, 0, time.UTC)

func dividendHolding(freq models.PayoutFrequency) models.Holding {
	return models.Holding{
		Symbol:          "VZ",
		Shares:          100,
		AvgPrice:        50,
		CurrentPrice:    50,
		CostBasis:       5000,
		DividendYield:   4,
		Sector:          "Communication",
		PayoutFrequency: freq,
	}
}

func incomes(series []projection.MonthlyIncome) []float64 {
	out := make([]float64, len(series))
	for i, m := range series {
		out[i] = m.Income
	}
	return out
}

func TestValue(t *testing.T) {
	t.Run("should compute gain and loss for a winning position", func(t *testing.T) {
		h := models.Holding{Symbol: "AAPL", Shares: 10, AvgPrice: 100, CurrentPrice: 120, CostBasis: 1000}

		v := projection.Value(h)

		assert.InDelta(t, 1200, v.MarketValue, tolerance)
		assert.InDelta(t, 200, v.GainLoss, tolerance)
		assert.InDelta(t, 20, v.GainLossPercent, tolerance)
		assert.InDelta(t, 1000, v.CostBasis, tolerance)
	})

	t.Run("should return zero percent when the cost basis is zero", func(t *testing.T) {
		h := models.Holding{Symbol: "GIFT", Shares: 10, CurrentPrice: 12}

		v := projection.Value(h)

		assert.Equal(t, 0.0, v.GainLossPercent)
		assert.InDelta(t, 120, v.GainLoss, tolerance)
	})

	t.Run("should derive annual income from current price and yield", func(t *testing.T) {
		assert.InDelta(t, 200, projection.AnnualDividendIncome(dividendHolding(models.Quarterly)), tolerance)
	})
}

func TestWithQuotes(t *testing.T) {
	holdings := []models.Holding{
		{Symbol: "KO", Shares: 10, CurrentPrice: 60},
		{Symbol: "PEP", Shares: 5, CurrentPrice: 170},
	}

	quoted := projection.WithQuotes(holdings, map[string]float64{"KO": 62})

	assert.Equal(t, 62.0, quoted[0].CurrentPrice)
	assert.Equal(t, 170.0, quoted[1].CurrentPrice)
	assert.Equal(t, 60.0, holdings[0].CurrentPrice, "input snapshot must not change")
}

func TestPayoutSchedule(t *testing.T) {
	tests := []struct {
		name string
		freq models.PayoutFrequency
		want []float64
	}{
		{"quarterly", models.Quarterly, []float64{50, 0, 0, 50, 0, 0, 50, 0, 0, 50, 0, 0}},
		{"semi-annual", models.SemiAnnual, []float64{100, 0, 0, 0, 0, 0, 100, 0, 0, 0, 0, 0}},
		{"annual", models.Annual, []float64{200, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{"unknown falls back to quarterly", "biweekly", []float64{50, 0, 0, 50, 0, 0, 50, 0, 0, 50, 0, 0}},
		{"missing falls back to quarterly", "", []float64{50, 0, 0, 50, 0, 0, 50, 0, 0, 50, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := projection.MonthlySeries([]models.Holding{dividendHolding(tt.freq)}, start)
			require.Len(t, series, projection.WindowMonths)
			assert.InDeltaSlice(t, tt.want, incomes(series), tolerance)
		})
	}

	t.Run("monthly pays a twelfth every month", func(t *testing.T) {
		series := projection.MonthlySeries([]models.Holding{dividendHolding(models.Monthly)}, start)
		for _, m := range series {
			assert.InDelta(t, 200.0/12, m.Income, tolerance)
		}
	})

	t.Run("unknown frequency behaves exactly like quarterly", func(t *testing.T) {
		q := projection.MonthlySeries([]models.Holding{dividendHolding(models.Quarterly)}, start)
		u := projection.MonthlySeries([]models.Holding{dividendHolding("biweekly")}, start)
		assert.Equal(t, q, u)
	})

	t.Run("holdings without yield, shares or price contribute nothing", func(t *testing.T) {
		noYield := dividendHolding(models.Monthly)
		noYield.DividendYield = 0
		noShares := dividendHolding(models.Monthly)
		noShares.Shares = 0
		noPrice := dividendHolding(models.Monthly)
		noPrice.CurrentPrice = 0

		series := projection.MonthlySeries([]models.Holding{noYield, noShares, noPrice}, start)
		assert.Equal(t, make([]float64, projection.WindowMonths), incomes(series))
	})
}

func TestMonthlySeriesLabels(t *testing.T) {
	series := projection.MonthlySeries(nil, start)

	require.Len(t, series, projection.WindowMonths)
	assert.Equal(t, projection.MonthlyIncome{Month: "Nov", Year: "2026"}, series[0])
	assert.Equal(t, "Dec", series[1].Month)
	assert.Equal(t, "Jan", series[2].Month)
	assert.Equal(t, "2027", series[2].Year)
	assert.Equal(t, "Oct", series[11].Month)
	assert.Equal(t, "2027", series[11].Year)
}

func TestSummarize(t *testing.T) {
	t.Run("empty portfolio yields twelve zero months and a zero summary", func(t *testing.T) {
		p := projection.Project(nil, start)

		require.Len(t, p.Series, projection.WindowMonths)
		for _, m := range p.Series {
			assert.Equal(t, 0.0, m.Income)
		}
		assert.Equal(t, projection.Summary{}, p.Summary)
		assert.Empty(t, p.Holdings)
	})

	t.Run("zero cost basis guards every percentage", func(t *testing.T) {
		h := dividendHolding(models.Quarterly)
		h.CostBasis = 0

		s := projection.Project([]models.Holding{h}, start).Summary

		assert.Equal(t, 0.0, s.GainLossPercent)
		assert.Equal(t, 0.0, s.YieldOnCost)
		assert.False(t, math.IsNaN(s.GainLossPercent) || math.IsInf(s.YieldOnCost, 0))
	})

	t.Run("computes the portfolio figures", func(t *testing.T) {
		holdings := []models.Holding{
			dividendHolding(models.Quarterly),
			{Symbol: "O", Shares: 20, AvgPrice: 55, CurrentPrice: 60, CostBasis: 1100, DividendYield: 5, PayoutFrequency: models.Monthly},
		}

		s := projection.Project(holdings, start).Summary

		assert.InDelta(t, 6200, s.TotalPortfolioValue, tolerance)
		assert.InDelta(t, 6100, s.TotalCostBasis, tolerance)
		assert.InDelta(t, 100, s.TotalGainLoss, tolerance)
		assert.InDelta(t, 100.0/6100*100, s.GainLossPercent, tolerance)
		assert.InDelta(t, 260, s.TotalAnnualIncome, tolerance)
		assert.InDelta(t, 260.0/12, s.MonthlyAverage, tolerance)
		assert.InDelta(t, 65, s.QuarterlyAverage, tolerance)
		assert.InDelta(t, 5, s.WeeklyAverage, tolerance)
		assert.InDelta(t, 260.0/365, s.DailyAverage, tolerance)
		assert.InDelta(t, 4.5, s.AverageYield, tolerance, "average yield is unweighted")
		assert.InDelta(t, 260.0/6100*100, s.YieldOnCost, tolerance)
	})

	t.Run("series total matches the sum of annual incomes", func(t *testing.T) {
		freqs := []models.PayoutFrequency{models.Monthly, models.Quarterly, models.SemiAnnual, models.Annual, "weekly"}
		var holdings []models.Holding
		var want float64
		for i := 0; i < 25; i++ {
			h := models.Holding{
				Symbol:          string(rune('A' + i)),
				Shares:          float64(i*7%13) + 0.37,
				CurrentPrice:    float64(i%9)*11.3 + 1.01,
				DividendYield:   float64(i%5) * 1.7,
				PayoutFrequency: freqs[i%len(freqs)],
			}
			holdings = append(holdings, h)
			want += projection.AnnualDividendIncome(h)
		}

		s := projection.Project(holdings, start).Summary
		assert.InDelta(t, want, s.TotalAnnualIncome, tolerance)
	})

	t.Run("running twice on the same snapshot gives the same result", func(t *testing.T) {
		holdings := []models.Holding{dividendHolding(models.Monthly), dividendHolding(models.Annual)}

		first := projection.Project(holdings, start)
		second := projection.Project(holdings, start)

		assert.Equal(t, first, second)
	})
}

func TestSectorAllocation(t *testing.T) {
	holdings := []models.Holding{
		{Symbol: "JNJ", Shares: 10, CurrentPrice: 150, DividendYield: 3, Sector: "Healthcare"},
		{Symbol: "ABBV", Shares: 5, CurrentPrice: 170, DividendYield: 4, Sector: "Healthcare"},
		{Symbol: "XOM", Shares: 10, CurrentPrice: 110, DividendYield: 3.5, Sector: "Energy"},
		{Symbol: "MYST", Shares: 1, CurrentPrice: 100},
	}

	sectors := projection.SectorAllocation(holdings)

	require.Len(t, sectors, 3)
	assert.Equal(t, "Healthcare", sectors[0].Sector)
	assert.InDelta(t, 2350, sectors[0].MarketValue, tolerance)
	assert.Equal(t, 2, sectors[0].HoldingsCount)
	assert.Equal(t, "Energy", sectors[1].Sector)
	assert.Equal(t, models.UnknownSector, sectors[2].Sector)

	var weights float64
	for _, s := range sectors {
		weights += s.Weight
	}
	assert.InDelta(t, 100, weights, tolerance)
	assert.Empty(t, projection.SectorAllocation(nil))
}
