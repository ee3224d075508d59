package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dividendtracker/src/models"
	"dividendtracker/src/projection"
	"dividendtracker/src/utils"
)

// Columns written by ExportCSV and understood by ImportCSV.
var HoldingColumns = []string{
	"symbol", "shares", "avgPrice", "currentPrice", "costBasis",
	"dividendYield", "sector", "payoutFrequency",
	"marketValue", "gainLoss", "gainLossPercent", "annualIncome",
}

type RowError struct {
	Line    int    `json:"line"`
	Symbol  string `json:"symbol,omitempty"`
	Message string `json:"message"`
}

type ImportResult struct {
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors"`
}

type CSVServiceI interface {
	ImportCSV(ctx context.Context, portfolioID string, r io.Reader) (*ImportResult, error)
	ExportCSV(ctx context.Context, portfolioID string, w io.Writer) error
}

type CSVService struct {
	portfolios PortfolioServiceI
}

func NewCSVService(portfolios PortfolioServiceI) *CSVService {
	return &CSVService{portfolios: portfolios}
}

// ImportCSV upserts every valid row. Rows that fail to parse or validate are
// skipped and reported with their line number.
func (s *CSVService) ImportCSV(ctx context.Context, portfolioID string, r io.Reader) (*ImportResult, error) {
	if _, err := s.portfolios.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	rows, err := utils.ReadCSVRecords(r)
	if err != nil {
		return nil, invalid(err)
	}

	result := &ImportResult{Errors: []RowError{}}
	for _, row := range rows {
		h, err := parseHoldingRow(row)
		if err == nil {
			_, err = s.portfolios.AddHolding(ctx, portfolioID, h)
			var validationErr *ValidationError
			if err != nil && !errors.As(err, &validationErr) {
				return result, err
			}
		}
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: row.Line, Symbol: row.Get("symbol", "ticker"), Message: flatten(err)})
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ExportCSV writes the stored holdings with their valuation.
func (s *CSVService) ExportCSV(ctx context.Context, portfolioID string, w io.Writer) error {
	holdings, err := s.portfolios.ListHoldings(ctx, portfolioID)
	if err != nil {
		return err
	}
	records := make([][]string, 0, len(holdings))
	for _, h := range holdings {
		v := projection.Value(h)
		records = append(records, []string{
			h.Symbol,
			formatFloat(h.Shares),
			formatFloat(h.AvgPrice),
			formatFloat(h.CurrentPrice),
			formatFloat(h.CostBasis),
			formatFloat(h.DividendYield),
			h.Sector,
			string(h.PayoutFrequency),
			formatFloat(v.MarketValue),
			formatFloat(v.GainLoss),
			formatFloat(v.GainLossPercent),
			formatFloat(v.AnnualDividendIncome),
		})
	}
	return utils.WriteCSV(w, HoldingColumns, records)
}

func parseHoldingRow(row utils.CSVRow) (models.Holding, error) {
	h := models.Holding{
		Symbol:          row.Get("symbol", "ticker"),
		Sector:          row.Get("sector"),
		PayoutFrequency: models.PayoutFrequency(row.Get("payoutFrequency", "frequency")),
	}
	if h.Symbol == "" {
		return h, errors.New("symbol is required")
	}

	var problems []string
	fields := []struct {
		target *float64
		keys   []string
	}{
		{&h.Shares, []string{"shares", "quantity"}},
		{&h.AvgPrice, []string{"avgPrice", "averagePrice"}},
		{&h.CurrentPrice, []string{"currentPrice", "price"}},
		{&h.CostBasis, []string{"costBasis"}},
		{&h.DividendYield, []string{"dividendYield", "yield"}},
	}
	for _, f := range fields {
		raw := row.Get(f.keys...)
		v, err := parseNumber(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: invalid number %q", f.keys[0], raw))
			continue
		}
		*f.target = v
	}
	if len(problems) > 0 {
		return h, errors.New(strings.Join(problems, "; "))
	}
	return h, nil
}

// parseNumber accepts "$1,234.50" and "3.5%". Empty means zero.
func parseNumber(raw string) (float64, error) {
	raw = strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// flatten joins multi-line errors.Join output onto one line.
func flatten(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}
