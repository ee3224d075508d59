package controllers

import (
	"context"

	"dividendtracker/src/models"
	"dividendtracker/src/schemas"
)

func (c *Controller) ListHoldings(ctx context.Context, portfolioID string) ([]schemas.HoldingResponse, error) {
	holdings, err := c.Portfolios.ListHoldings(ctx, portfolioID)
	if err != nil {
		return nil, translateError(err)
	}
	return schemas.NewHoldingResponses(holdings), nil
}

func (c *Controller) AddHolding(ctx context.Context, portfolioID string, req *schemas.HoldingRequest) (*schemas.HoldingResponse, error) {
	holding, err := c.Portfolios.AddHolding(ctx, portfolioID, req.ToModel())
	if err != nil {
		return nil, translateError(err)
	}
	resp := schemas.NewHoldingResponse(holding)
	return &resp, nil
}

func (c *Controller) UpdateHolding(ctx context.Context, portfolioID, symbol string, req *schemas.HoldingRequest) (*schemas.HoldingResponse, error) {
	holding, err := c.Portfolios.UpdateHolding(ctx, portfolioID, symbol, req.ToModel())
	if err != nil {
		return nil, translateError(err)
	}
	resp := schemas.NewHoldingResponse(holding)
	return &resp, nil
}

func (c *Controller) RemoveHolding(ctx context.Context, portfolioID, symbol string) error {
	return translateError(c.Portfolios.RemoveHolding(ctx, portfolioID, symbol))
}

func (c *Controller) ListDividends(ctx context.Context, portfolioID, symbol string) ([]schemas.DividendResponse, error) {
	payments, err := c.Portfolios.ListDividends(ctx, portfolioID, symbol)
	if err != nil {
		return nil, translateError(err)
	}
	return schemas.NewDividendResponses(payments), nil
}

// AppendDividend records the payment and returns the updated history.
func (c *Controller) AppendDividend(ctx context.Context, portfolioID, symbol string, req *schemas.DividendRequest) ([]schemas.DividendResponse, error) {
	if err := c.Portfolios.AppendDividend(ctx, portfolioID, symbol, req.ToModel()); err != nil {
		return nil, translateError(err)
	}
	return c.ListDividends(ctx, portfolioID, symbol)
}

func (c *Controller) SyncDividends(ctx context.Context, portfolioID, symbol string) (*schemas.SyncDividendsResponse, error) {
	added, err := c.Portfolios.SyncDividends(ctx, portfolioID, symbol)
	if err != nil {
		return nil, translateError(err)
	}
	return &schemas.SyncDividendsResponse{Symbol: models.NormalizeSymbol(symbol), Added: added}, nil
}
