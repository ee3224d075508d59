package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"dividendtracker/src/models"
	redis_utils "dividendtracker/src/utils/redis"

	"github.com/google/uuid"
)

// redisRepo keeps one hash of portfolio documents and, per portfolio, one
// hash of holding documents keyed by symbol with the history embedded.
type redisRepo struct {
	redis  *redis_utils.RedisHandler
	prefix string
}

func NewRedisRepository(handler *redis_utils.RedisHandler, prefix string) PortfolioRepository {
	return &redisRepo{redis: handler, prefix: prefix}
}

func (r *redisRepo) portfoliosKey() string {
	return r.prefix + "portfolios"
}

func (r *redisRepo) holdingsKey(portfolioID string) string {
	return r.prefix + "portfolio:" + portfolioID + ":holdings"
}

func (r *redisRepo) ListPortfolios(ctx context.Context) ([]models.Portfolio, error) {
	raw, err := r.redis.HGetAll(ctx, r.portfoliosKey())
	if err != nil {
		return nil, err
	}
	portfolios := make([]models.Portfolio, 0, len(raw))
	for _, data := range raw {
		var p models.Portfolio
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	sort.Slice(portfolios, func(i, j int) bool {
		if !portfolios[i].CreatedAt.Equal(portfolios[j].CreatedAt) {
			return portfolios[i].CreatedAt.Before(portfolios[j].CreatedAt)
		}
		return portfolios[i].ID < portfolios[j].ID
	})
	return portfolios, nil
}

func (r *redisRepo) GetPortfolio(ctx context.Context, id string) (models.Portfolio, error) {
	var p models.Portfolio
	err := r.redis.HGet(ctx, r.portfoliosKey(), id, &p)
	if errors.Is(err, redis_utils.ErrKeyNotFound) {
		return p, notFound("portfolio", id)
	}
	return p, err
}

func (r *redisRepo) CreatePortfolio(ctx context.Context, p *models.Portfolio) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return r.redis.HSet(ctx, r.portfoliosKey(), p.ID, p)
}

func (r *redisRepo) DeletePortfolio(ctx context.Context, id string) error {
	removed, err := r.redis.HDel(ctx, r.portfoliosKey(), id)
	if err != nil {
		return err
	}
	if !removed {
		return notFound("portfolio", id)
	}
	return r.redis.Delete(ctx, r.holdingsKey(id))
}

func (r *redisRepo) GetHoldings(ctx context.Context, portfolioID string) ([]models.Holding, error) {
	if _, err := r.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	raw, err := r.redis.HGetAll(ctx, r.holdingsKey(portfolioID))
	if err != nil {
		return nil, err
	}
	holdings := make([]models.Holding, 0, len(raw))
	for _, data := range raw {
		var h models.Holding
		if err := json.Unmarshal([]byte(data), &h); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })
	return holdings, nil
}

func (r *redisRepo) GetHolding(ctx context.Context, portfolioID, symbol string) (models.Holding, error) {
	var h models.Holding
	err := r.redis.HGet(ctx, r.holdingsKey(portfolioID), symbol, &h)
	if errors.Is(err, redis_utils.ErrKeyNotFound) {
		return h, notFound("holding", symbol)
	}
	return h, err
}

func (r *redisRepo) SaveHolding(ctx context.Context, portfolioID string, h models.Holding) error {
	if _, err := r.GetPortfolio(ctx, portfolioID); err != nil {
		return err
	}
	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = time.Now().UTC()
	}
	return r.redis.HUpdate(ctx, r.holdingsKey(portfolioID), h.Symbol, func(current []byte) (interface{}, error) {
		h.DividendHistory = nil
		if current != nil {
			var existing models.Holding
			if err := json.Unmarshal(current, &existing); err != nil {
				return nil, err
			}
			h.DividendHistory = existing.DividendHistory
		}
		return h, nil
	})
}

func (r *redisRepo) DeleteHolding(ctx context.Context, portfolioID, symbol string) error {
	removed, err := r.redis.HDel(ctx, r.holdingsKey(portfolioID), symbol)
	if err != nil {
		return err
	}
	if !removed {
		return notFound("holding", symbol)
	}
	return nil
}

func (r *redisRepo) AppendDividend(ctx context.Context, portfolioID, symbol string, payment models.DividendPayment) error {
	return r.redis.HUpdate(ctx, r.holdingsKey(portfolioID), symbol, func(current []byte) (interface{}, error) {
		if current == nil {
			return nil, notFound("holding", symbol)
		}
		var h models.Holding
		if err := json.Unmarshal(current, &h); err != nil {
			return nil, err
		}
		h.DividendHistory = append(h.DividendHistory, payment)
		sort.SliceStable(h.DividendHistory, func(i, j int) bool {
			return h.DividendHistory[i].ExDate.Before(h.DividendHistory[j].ExDate)
		})
		return h, nil
	})
}

func (r *redisRepo) Close() error {
	return r.redis.Close()
}
