package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"dividendtracker/src/metrics"
	"dividendtracker/src/models"
	"dividendtracker/src/projection"
	"dividendtracker/src/repositories"
	"dividendtracker/src/utils"
)

// DividendSource returns the payment history of a symbol.
type DividendSource interface {
	GetDividends(ctx context.Context, symbol string) ([]models.DividendPayment, error)
}

// PortfolioProjection is the income projection of one portfolio, optionally
// priced with live quotes.
type PortfolioProjection struct {
	Portfolio models.Portfolio `json:"portfolio"`
	Start     time.Time        `json:"start"`
	Live      bool             `json:"live"`
	Quotes    map[string]Quote `json:"quotes,omitempty"`
	Snapshot  []models.Holding `json:"-"`
	projection.Projection
}

type PortfolioServiceI interface {
	EnsureDefaultPortfolio(ctx context.Context) (models.Portfolio, error)
	ListPortfolios(ctx context.Context) ([]models.Portfolio, error)
	GetPortfolio(ctx context.Context, id string) (models.Portfolio, error)
	CreatePortfolio(ctx context.Context, name string) (models.Portfolio, error)
	DeletePortfolio(ctx context.Context, id string) error

	ListHoldings(ctx context.Context, portfolioID string) ([]models.Holding, error)
	GetHolding(ctx context.Context, portfolioID, symbol string) (models.Holding, error)
	AddHolding(ctx context.Context, portfolioID string, h models.Holding) (models.Holding, error)
	UpdateHolding(ctx context.Context, portfolioID, symbol string, h models.Holding) (models.Holding, error)
	RemoveHolding(ctx context.Context, portfolioID, symbol string) error

	ListDividends(ctx context.Context, portfolioID, symbol string) ([]models.DividendPayment, error)
	AppendDividend(ctx context.Context, portfolioID, symbol string, payment models.DividendPayment) error
	SyncDividends(ctx context.Context, portfolioID, symbol string) (int, error)

	Project(ctx context.Context, portfolioID string, live bool, start time.Time) (*PortfolioProjection, error)
	SectorAllocation(ctx context.Context, portfolioID string) ([]projection.SectorWeight, error)
}

type PortfolioService struct {
	repo      repositories.PortfolioRepository
	quotes    QuoteServiceI
	dividends DividendSource
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewPortfolioService builds the service. dividends may be nil when no
// dividend data provider is configured.
func NewPortfolioService(repo repositories.PortfolioRepository, quotes QuoteServiceI, dividends DividendSource, m *metrics.Metrics) *PortfolioService {
	if m == nil {
		m = metrics.New()
	}
	return &PortfolioService{
		repo:      repo,
		quotes:    quotes,
		dividends: dividends,
		metrics:   m,
		now:       time.Now,
	}
}

// EnsureDefaultPortfolio creates the default portfolio on an empty store and
// returns the first portfolio otherwise.
func (s *PortfolioService) EnsureDefaultPortfolio(ctx context.Context) (models.Portfolio, error) {
	portfolios, err := s.repo.ListPortfolios(ctx)
	if err != nil {
		return models.Portfolio{}, err
	}
	if len(portfolios) > 0 {
		return portfolios[0], nil
	}
	p := models.Portfolio{Name: models.DefaultPortfolioName}
	if err := s.repo.CreatePortfolio(ctx, &p); err != nil {
		return models.Portfolio{}, err
	}
	utils.LoggerFromContext(ctx).WithField("portfolio_id", p.ID).Info("created default portfolio")
	return p, nil
}

func (s *PortfolioService) ListPortfolios(ctx context.Context) ([]models.Portfolio, error) {
	return s.repo.ListPortfolios(ctx)
}

func (s *PortfolioService) GetPortfolio(ctx context.Context, id string) (models.Portfolio, error) {
	return s.repo.GetPortfolio(ctx, id)
}

func (s *PortfolioService) CreatePortfolio(ctx context.Context, name string) (models.Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Portfolio{}, invalid(errors.New("name is required"))
	}
	p := models.Portfolio{Name: name}
	if err := s.repo.CreatePortfolio(ctx, &p); err != nil {
		return models.Portfolio{}, err
	}
	return p, nil
}

func (s *PortfolioService) DeletePortfolio(ctx context.Context, id string) error {
	if _, err := s.repo.GetPortfolio(ctx, id); err != nil {
		return err
	}
	portfolios, err := s.repo.ListPortfolios(ctx)
	if err != nil {
		return err
	}
	if len(portfolios) <= 1 {
		return ErrLastPortfolio
	}
	return s.repo.DeletePortfolio(ctx, id)
}

func (s *PortfolioService) ListHoldings(ctx context.Context, portfolioID string) ([]models.Holding, error) {
	return s.repo.GetHoldings(ctx, portfolioID)
}

func (s *PortfolioService) GetHolding(ctx context.Context, portfolioID, symbol string) (models.Holding, error) {
	return s.repo.GetHolding(ctx, portfolioID, models.NormalizeSymbol(symbol))
}

// AddHolding validates and normalises h and stores it, replacing any holding
// with the same symbol.
func (s *PortfolioService) AddHolding(ctx context.Context, portfolioID string, h models.Holding) (models.Holding, error) {
	if err := invalid(h.Validate()); err != nil {
		return models.Holding{}, err
	}
	h.Normalize()
	h.DividendHistory = nil
	h.UpdatedAt = s.now().UTC()
	if err := s.repo.SaveHolding(ctx, portfolioID, h); err != nil {
		return models.Holding{}, err
	}
	return h, nil
}

// UpdateHolding replaces an existing holding. The symbol comes from the path;
// a cost basis left at zero is recomputed from shares and average price.
func (s *PortfolioService) UpdateHolding(ctx context.Context, portfolioID, symbol string, h models.Holding) (models.Holding, error) {
	existing, err := s.GetHolding(ctx, portfolioID, symbol)
	if err != nil {
		return models.Holding{}, err
	}
	h.Symbol = existing.Symbol
	updated, err := s.AddHolding(ctx, portfolioID, h)
	if err != nil {
		return models.Holding{}, err
	}
	updated.DividendHistory = existing.DividendHistory
	return updated, nil
}

func (s *PortfolioService) RemoveHolding(ctx context.Context, portfolioID, symbol string) error {
	return s.repo.DeleteHolding(ctx, portfolioID, models.NormalizeSymbol(symbol))
}

func (s *PortfolioService) ListDividends(ctx context.Context, portfolioID, symbol string) ([]models.DividendPayment, error) {
	h, err := s.GetHolding(ctx, portfolioID, symbol)
	if err != nil {
		return nil, err
	}
	if h.DividendHistory == nil {
		return []models.DividendPayment{}, nil
	}
	return h.DividendHistory, nil
}

// AppendDividend records one payment. A missing payment date defaults to the
// ex-date.
func (s *PortfolioService) AppendDividend(ctx context.Context, portfolioID, symbol string, payment models.DividendPayment) error {
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = payment.ExDate
	}
	if err := invalid(payment.Validate()); err != nil {
		return err
	}
	return s.repo.AppendDividend(ctx, portfolioID, models.NormalizeSymbol(symbol), payment)
}

// SyncDividends pulls the payment history from the dividend data provider and
// appends the payments whose ex-date is not recorded yet.
func (s *PortfolioService) SyncDividends(ctx context.Context, portfolioID, symbol string) (int, error) {
	if s.dividends == nil {
		return 0, ErrNoDividendSource
	}
	h, err := s.GetHolding(ctx, portfolioID, symbol)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(h.DividendHistory))
	for _, p := range h.DividendHistory {
		seen[p.ExDate.Format(utils.ShortDashDateLayout)] = true
	}

	payments, err := s.dividends.GetDividends(ctx, h.Symbol)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, p := range payments {
		key := p.ExDate.Format(utils.ShortDashDateLayout)
		if seen[key] || p.Validate() != nil {
			continue
		}
		if err := s.repo.AppendDividend(ctx, portfolioID, h.Symbol, p); err != nil {
			return added, err
		}
		seen[key] = true
		added++
	}
	utils.LoggerFromContext(ctx).WithField("symbol", h.Symbol).WithField("added", added).Info("dividend history synced")
	return added, nil
}

// Project snapshots the holdings, overlays live quotes when asked and runs the
// projector over the twelve months starting at start.
func (s *PortfolioService) Project(ctx context.Context, portfolioID string, live bool, start time.Time) (*PortfolioProjection, error) {
	p, err := s.repo.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	holdings, err := s.repo.GetHoldings(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	result := &PortfolioProjection{Portfolio: p, Start: projection.WindowStart(start), Live: live}
	if live && s.quotes != nil && len(holdings) > 0 {
		symbols := make([]string, 0, len(holdings))
		for _, h := range holdings {
			symbols = append(symbols, h.Symbol)
		}
		result.Quotes = s.quotes.GetQuotes(ctx, symbols)
		holdings = projection.WithQuotes(holdings, Prices(result.Quotes))
	}

	result.Snapshot = holdings
	result.Projection = projection.Project(holdings, start)
	s.metrics.Projections.Inc()
	return result, nil
}

func (s *PortfolioService) SectorAllocation(ctx context.Context, portfolioID string) ([]projection.SectorWeight, error) {
	holdings, err := s.repo.GetHoldings(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	return projection.SectorAllocation(holdings), nil
}
