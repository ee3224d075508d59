package repositories

import (
	"context"
	"errors"
	"fmt"

	"dividendtracker/src/config"
	"dividendtracker/src/database"
	"dividendtracker/src/models"
	redis_utils "dividendtracker/src/utils/redis"
)

var ErrNotFound = errors.New("not found")

// PortfolioRepository stores portfolios, their holdings and each holding's
// dividend history. Holdings are keyed by symbol within a portfolio.
type PortfolioRepository interface {
	ListPortfolios(ctx context.Context) ([]models.Portfolio, error)
	GetPortfolio(ctx context.Context, id string) (models.Portfolio, error)
	// CreatePortfolio assigns an ID and creation time when they are unset.
	CreatePortfolio(ctx context.Context, p *models.Portfolio) error
	// DeletePortfolio removes the portfolio with its holdings and history.
	DeletePortfolio(ctx context.Context, id string) error

	// GetHoldings returns the holdings ordered by symbol, history included.
	GetHoldings(ctx context.Context, portfolioID string) ([]models.Holding, error)
	GetHolding(ctx context.Context, portfolioID, symbol string) (models.Holding, error)
	// SaveHolding inserts or overwrites the holding with the same symbol.
	// Dividend history is never written here and survives an overwrite.
	SaveHolding(ctx context.Context, portfolioID string, h models.Holding) error
	DeleteHolding(ctx context.Context, portfolioID, symbol string) error
	AppendDividend(ctx context.Context, portfolioID, symbol string, payment models.DividendPayment) error

	Close() error
}

// NewRepository opens the backend selected by databases.backend.
func NewRepository(ctx context.Context, cfg *config.Config) (PortfolioRepository, error) {
	switch cfg.Databases.Backend {
	case config.SQLite, "":
		db, err := database.SetupSQLite(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewSQLiteRepository(db), nil
	case config.Postgres:
		pool, err := database.SetupDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewPostgresRepository(pool), nil
	case config.Redis:
		handler, err := redis_utils.NewRedisHandler(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewRedisRepository(handler, cfg.Databases.Redis.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown database backend %q", cfg.Databases.Backend)
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}
