package projection

import "dividendtracker/src/models"

type Valuation struct {
	Symbol               string  `json:"symbol"`
	MarketValue          float64 `json:"marketValue"`
	CostBasis            float64 `json:"costBasis"`
	GainLoss             float64 `json:"gainLoss"`
	GainLossPercent      float64 `json:"gainLossPercent"`
	AnnualDividendIncome float64 `json:"annualDividendIncome"`
}

func MarketValue(h models.Holding) float64 {
	return h.Shares * h.CurrentPrice
}

// GainLoss is measured against shares × avgPrice, not the stored cost basis.
func GainLoss(h models.Holding) float64 {
	return MarketValue(h) - h.Shares*h.AvgPrice
}

func GainLossPercent(h models.Holding) float64 {
	return percentOf(GainLoss(h), h.CostBasis)
}

func AnnualDividendIncome(h models.Holding) float64 {
	return h.CurrentPrice * h.Shares * (h.DividendYield / 100)
}

func Value(h models.Holding) Valuation {
	return Valuation{
		Symbol:               h.Symbol,
		MarketValue:          MarketValue(h),
		CostBasis:            h.CostBasis,
		GainLoss:             GainLoss(h),
		GainLossPercent:      GainLossPercent(h),
		AnnualDividendIncome: AnnualDividendIncome(h),
	}
}

// WithQuotes returns a copy of holdings where every symbol present in quotes
// carries the quoted price. Holdings without a quote keep their last known
// price. The input slice is not modified.
func WithQuotes(holdings []models.Holding, quotes map[string]float64) []models.Holding {
	out := make([]models.Holding, len(holdings))
	copy(out, holdings)
	for i := range out {
		if price, ok := quotes[out[i].Symbol]; ok {
			out[i].CurrentPrice = price
		}
	}
	return out
}

func percentOf(part, whole float64) float64 {
	if whole > 0 {
		return part / whole * 100
	}
	return 0
}

func divide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
