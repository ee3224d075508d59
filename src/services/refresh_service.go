package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dividendtracker/src/metrics"
	"dividendtracker/src/repositories"
	"dividendtracker/src/utils"

	"github.com/sirupsen/logrus"
)

type RefreshResult struct {
	PortfolioID string   `json:"portfolioId"`
	Checked     int      `json:"checked"`
	Updated     int      `json:"updated"`
	Unpriced    []string `json:"unpriced,omitempty"`
}

type RefreshServiceI interface {
	RefreshPortfolio(ctx context.Context, portfolioID string) (RefreshResult, error)
	RefreshAll(ctx context.Context) ([]RefreshResult, error)
}

// RefreshService writes live prices back into the stored holdings.
type RefreshService struct {
	repo    repositories.PortfolioRepository
	quotes  QuoteServiceI
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewRefreshService(repo repositories.PortfolioRepository, quotes QuoteServiceI, m *metrics.Metrics) *RefreshService {
	if m == nil {
		m = metrics.New()
	}
	return &RefreshService{repo: repo, quotes: quotes, metrics: m, now: time.Now}
}

// RefreshPortfolio persists every fresh quote that differs from the stored
// price. Stale quotes are never written back.
func (s *RefreshService) RefreshPortfolio(ctx context.Context, portfolioID string) (RefreshResult, error) {
	result := RefreshResult{PortfolioID: portfolioID}
	holdings, err := s.repo.GetHoldings(ctx, portfolioID)
	if err != nil {
		return result, err
	}

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	quotes := s.quotes.GetQuotes(ctx, symbols)

	for _, h := range holdings {
		result.Checked++
		q, ok := quotes[h.Symbol]
		if !ok || q.Stale {
			result.Unpriced = append(result.Unpriced, h.Symbol)
			continue
		}
		if q.Price == h.CurrentPrice {
			continue
		}
		h.CurrentPrice = q.Price
		h.UpdatedAt = s.now().UTC()
		if err := s.repo.SaveHolding(ctx, portfolioID, h); err != nil {
			return result, fmt.Errorf("failed to save %s: %w", h.Symbol, err)
		}
		result.Updated++
	}

	s.metrics.HoldingsRefreshed.Add(float64(result.Updated))
	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"portfolio_id": portfolioID,
		"checked":      result.Checked,
		"updated":      result.Updated,
		"unpriced":     len(result.Unpriced),
	}).Info("portfolio prices refreshed")
	return result, nil
}

// RefreshAll refreshes every portfolio, carrying on past individual failures.
func (s *RefreshService) RefreshAll(ctx context.Context) ([]RefreshResult, error) {
	portfolios, err := s.repo.ListPortfolios(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]RefreshResult, 0, len(portfolios))
	var errs []error
	for _, p := range portfolios {
		result, err := s.RefreshPortfolio(ctx, p.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("portfolio %s: %w", p.ID, err))
			continue
		}
		results = append(results, result)
	}
	return results, errors.Join(errs...)
}
