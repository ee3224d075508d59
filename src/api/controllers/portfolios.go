package controllers

import (
	"context"

	"dividendtracker/src/models"
	"dividendtracker/src/schemas"
)

func (c *Controller) ListPortfolios(ctx context.Context) ([]models.Portfolio, error) {
	portfolios, err := c.Portfolios.ListPortfolios(ctx)
	if err != nil {
		return nil, translateError(err)
	}
	if portfolios == nil {
		portfolios = []models.Portfolio{}
	}
	return portfolios, nil
}

// GetPortfolio returns the portfolio together with its valued holdings.
func (c *Controller) GetPortfolio(ctx context.Context, id string) (*schemas.PortfolioDetail, error) {
	portfolio, err := c.Portfolios.GetPortfolio(ctx, id)
	if err != nil {
		return nil, translateError(err)
	}
	holdings, err := c.Portfolios.ListHoldings(ctx, id)
	if err != nil {
		return nil, translateError(err)
	}
	return &schemas.PortfolioDetail{Portfolio: portfolio, Holdings: schemas.NewHoldingResponses(holdings)}, nil
}

func (c *Controller) CreatePortfolio(ctx context.Context, req *schemas.CreatePortfolioRequest) (*models.Portfolio, error) {
	portfolio, err := c.Portfolios.CreatePortfolio(ctx, req.Name)
	if err != nil {
		return nil, translateError(err)
	}
	return &portfolio, nil
}

func (c *Controller) DeletePortfolio(ctx context.Context, id string) error {
	return translateError(c.Portfolios.DeletePortfolio(ctx, id))
}
