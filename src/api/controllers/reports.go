package controllers

import (
	"bytes"
	"context"
	"io"
	"time"

	"dividendtracker/src/services"
	"dividendtracker/src/utils"
)

func (c *Controller) ExportCSV(ctx context.Context, portfolioID string) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.CSV.ExportCSV(ctx, portfolioID, &buf); err != nil {
		return nil, translateError(err)
	}
	return buf.Bytes(), nil
}

// ExportXLSX builds the workbook from the stored prices so the export matches
// what the portfolio holds.
func (c *Controller) ExportXLSX(ctx context.Context, portfolioID string, start time.Time) ([]byte, error) {
	p, err := c.Portfolios.Project(ctx, portfolioID, false, start)
	if err != nil {
		return nil, translateError(err)
	}
	dfs, err := c.Reports.GenerateReportDataframes(ctx, p)
	if err != nil {
		return nil, err
	}
	file, err := c.Reports.GenerateXLSXReport(ctx, dfs)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			utils.LoggerFromContext(ctx).WithError(err).Warn("failed to close workbook")
		}
	}()

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Controller) ImportCSV(ctx context.Context, portfolioID string, r io.Reader) (*services.ImportResult, error) {
	result, err := c.CSV.ImportCSV(ctx, portfolioID, r)
	if err != nil {
		return result, translateError(err)
	}
	return result, nil
}

func (c *Controller) RefreshPortfolio(ctx context.Context, portfolioID string) (*services.RefreshResult, error) {
	if _, err := c.Portfolios.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, translateError(err)
	}
	result, err := c.Refresh.RefreshPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, translateError(err)
	}
	return &result, nil
}
