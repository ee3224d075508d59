package schemas

import (
	"dividendtracker/src/models"
	"dividendtracker/src/projection"
	"dividendtracker/src/services"
)

type CreatePortfolioRequest struct {
	Name string `json:"name"`
}

type PortfolioDetail struct {
	models.Portfolio
	Holdings []HoldingResponse `json:"holdings"`
}

type HoldingRequest struct {
	Symbol          string  `json:"symbol"`
	Shares          float64 `json:"shares"`
	AvgPrice        float64 `json:"avgPrice"`
	CurrentPrice    float64 `json:"currentPrice"`
	CostBasis       float64 `json:"costBasis"`
	DividendYield   float64 `json:"dividendYield"`
	Sector          string  `json:"sector"`
	PayoutFrequency string  `json:"payoutFrequency"`
}

func (r HoldingRequest) ToModel() models.Holding {
	return models.Holding{
		Symbol:          r.Symbol,
		Shares:          r.Shares,
		AvgPrice:        r.AvgPrice,
		CurrentPrice:    r.CurrentPrice,
		CostBasis:       r.CostBasis,
		DividendYield:   r.DividendYield,
		Sector:          r.Sector,
		PayoutFrequency: models.PayoutFrequency(r.PayoutFrequency),
	}
}

// HoldingResponse is a stored holding with its valuation at the stored price.
type HoldingResponse struct {
	Symbol               string                 `json:"symbol"`
	Shares               float64                `json:"shares"`
	AvgPrice             float64                `json:"avgPrice"`
	CurrentPrice         float64                `json:"currentPrice"`
	CostBasis            float64                `json:"costBasis"`
	DividendYield        float64                `json:"dividendYield"`
	Sector               string                 `json:"sector"`
	PayoutFrequency      models.PayoutFrequency `json:"payoutFrequency"`
	MarketValue          float64                `json:"marketValue"`
	GainLoss             float64                `json:"gainLoss"`
	GainLossPercent      float64                `json:"gainLossPercent"`
	AnnualDividendIncome float64                `json:"annualDividendIncome"`
	DividendHistory      []DividendResponse     `json:"dividendHistory"`
	UpdatedAt            string                 `json:"updatedAt"`
}

func NewHoldingResponse(h models.Holding) HoldingResponse {
	v := projection.Value(h)
	return HoldingResponse{
		Symbol:               h.Symbol,
		Shares:               h.Shares,
		AvgPrice:             h.AvgPrice,
		CurrentPrice:         h.CurrentPrice,
		CostBasis:            h.CostBasis,
		DividendYield:        h.DividendYield,
		Sector:               h.Sector,
		PayoutFrequency:      h.PayoutFrequency,
		MarketValue:          v.MarketValue,
		GainLoss:             v.GainLoss,
		GainLossPercent:      v.GainLossPercent,
		AnnualDividendIncome: v.AnnualDividendIncome,
		DividendHistory:      NewDividendResponses(h.DividendHistory),
		UpdatedAt:            h.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func NewHoldingResponses(holdings []models.Holding) []HoldingResponse {
	out := make([]HoldingResponse, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, NewHoldingResponse(h))
	}
	return out
}

type DividendRequest struct {
	ExDate      Date    `json:"exDate"`
	PaymentDate Date    `json:"paymentDate"`
	Amount      float64 `json:"amount"`
}

func (r DividendRequest) ToModel() models.DividendPayment {
	return models.DividendPayment{ExDate: r.ExDate.ToTime(), PaymentDate: r.PaymentDate.ToTime(), Amount: r.Amount}
}

type DividendResponse struct {
	ExDate      Date    `json:"exDate"`
	PaymentDate Date    `json:"paymentDate"`
	Amount      float64 `json:"amount"`
}

func NewDividendResponses(payments []models.DividendPayment) []DividendResponse {
	out := make([]DividendResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, DividendResponse{ExDate: NewDate(p.ExDate), PaymentDate: NewDate(p.PaymentDate), Amount: p.Amount})
	}
	return out
}

type SyncDividendsResponse struct {
	Symbol string `json:"symbol"`
	Added  int    `json:"added"`
}

type SectorsResponse struct {
	PortfolioID string                    `json:"portfolioId"`
	Sectors     []projection.SectorWeight `json:"sectors"`
}

type RefreshResponse struct {
	Results []services.RefreshResult `json:"results"`
}
