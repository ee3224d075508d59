package controllers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"dividendtracker/src/projection"
	"dividendtracker/src/schemas"
	"dividendtracker/src/services"
)

func (c *Controller) GetProjection(ctx context.Context, portfolioID string, live bool, start time.Time) (*services.PortfolioProjection, error) {
	p, err := c.Portfolios.Project(ctx, portfolioID, live, start)
	if err != nil {
		return nil, translateError(err)
	}
	return p, nil
}

func (c *Controller) GetSectors(ctx context.Context, portfolioID string) (*schemas.SectorsResponse, error) {
	sectors, err := c.Portfolios.SectorAllocation(ctx, portfolioID)
	if err != nil {
		return nil, translateError(err)
	}
	if sectors == nil {
		sectors = []projection.SectorWeight{}
	}
	return &schemas.SectorsResponse{PortfolioID: portfolioID, Sectors: sectors}, nil
}

func (c *Controller) RenderIncomeChart(ctx context.Context, portfolioID string, live bool, start time.Time) ([]byte, error) {
	p, err := c.Portfolios.Project(ctx, portfolioID, live, start)
	if err != nil {
		return nil, translateError(err)
	}
	var buf bytes.Buffer
	if err := c.Reports.RenderIncomeChart(&buf, p); err != nil {
		return nil, fmt.Errorf("failed to render income chart: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Controller) RenderSectorChart(ctx context.Context, portfolioID string) ([]byte, error) {
	portfolio, err := c.Portfolios.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, translateError(err)
	}
	sectors, err := c.Portfolios.SectorAllocation(ctx, portfolioID)
	if err != nil {
		return nil, translateError(err)
	}
	var buf bytes.Buffer
	title := fmt.Sprintf("%s: sector allocation", portfolio.Name)
	if err := c.Reports.RenderSectorChart(&buf, title, sectors); err != nil {
		return nil, fmt.Errorf("failed to render sector chart: %w", err)
	}
	return buf.Bytes(), nil
}
