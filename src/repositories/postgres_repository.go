package repositories

import (
	"context"
	"errors"
	"time"

	"dividendtracker/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) PortfolioRepository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) ListPortfolios(ctx context.Context) ([]models.Portfolio, error) {
	rows, err := r.db.Query(ctx, `SELECT id::text, name, created_at FROM portfolios ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	portfolios := []models.Portfolio{}
	for rows.Next() {
		var p models.Portfolio
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

func (r *postgresRepo) GetPortfolio(ctx context.Context, id string) (models.Portfolio, error) {
	var p models.Portfolio
	if _, err := uuid.Parse(id); err != nil {
		return p, notFound("portfolio", id)
	}
	err := r.db.QueryRow(ctx, `SELECT id::text, name, created_at FROM portfolios WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, notFound("portfolio", id)
	}
	return p, err
}

func (r *postgresRepo) CreatePortfolio(ctx context.Context, p *models.Portfolio) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, `INSERT INTO portfolios (id, name, created_at) VALUES ($1, $2, $3)`, p.ID, p.Name, p.CreatedAt)
	return err
}

func (r *postgresRepo) DeletePortfolio(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFound("portfolio", id)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM portfolios WHERE id = $1`, id)
	return affected(tag, err, "portfolio", id)
}

func (r *postgresRepo) GetHoldings(ctx context.Context, portfolioID string) ([]models.Holding, error) {
	if _, err := r.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT symbol, shares, avg_price, current_price, cost_basis, dividend_yield, sector, payout_frequency, updated_at
		FROM holdings
		WHERE portfolio_id = $1
		ORDER BY symbol`, portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holdings := []models.Holding{}
	for rows.Next() {
		h, err := scanPostgresHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	history, err := r.dividendHistory(ctx, portfolioID, "")
	if err != nil {
		return nil, err
	}
	for i := range holdings {
		holdings[i].DividendHistory = history[holdings[i].Symbol]
	}
	return holdings, nil
}

func (r *postgresRepo) GetHolding(ctx context.Context, portfolioID, symbol string) (models.Holding, error) {
	if _, err := uuid.Parse(portfolioID); err != nil {
		return models.Holding{}, notFound("portfolio", portfolioID)
	}
	row := r.db.QueryRow(ctx,
		`SELECT symbol, shares, avg_price, current_price, cost_basis, dividend_yield, sector, payout_frequency, updated_at
		FROM holdings
		WHERE portfolio_id = $1 AND symbol = $2`, portfolioID, symbol)
	h, err := scanPostgresHolding(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return h, notFound("holding", symbol)
	}
	if err != nil {
		return h, err
	}

	history, err := r.dividendHistory(ctx, portfolioID, symbol)
	if err != nil {
		return h, err
	}
	h.DividendHistory = history[symbol]
	return h, nil
}

func (r *postgresRepo) SaveHolding(ctx context.Context, portfolioID string, h models.Holding) error {
	if _, err := r.GetPortfolio(ctx, portfolioID); err != nil {
		return err
	}
	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO holdings (portfolio_id, symbol, shares, avg_price, current_price, cost_basis, dividend_yield, sector, payout_frequency, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (portfolio_id, symbol) DO UPDATE SET
			shares = EXCLUDED.shares,
			avg_price = EXCLUDED.avg_price,
			current_price = EXCLUDED.current_price,
			cost_basis = EXCLUDED.cost_basis,
			dividend_yield = EXCLUDED.dividend_yield,
			sector = EXCLUDED.sector,
			payout_frequency = EXCLUDED.payout_frequency,
			updated_at = EXCLUDED.updated_at`,
		portfolioID, h.Symbol, h.Shares, h.AvgPrice, h.CurrentPrice, h.CostBasis, h.DividendYield,
		h.Sector, string(h.PayoutFrequency), h.UpdatedAt)
	return err
}

func (r *postgresRepo) DeleteHolding(ctx context.Context, portfolioID, symbol string) error {
	if _, err := uuid.Parse(portfolioID); err != nil {
		return notFound("portfolio", portfolioID)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM holdings WHERE portfolio_id = $1 AND symbol = $2`, portfolioID, symbol)
	return affected(tag, err, "holding", symbol)
}

func (r *postgresRepo) AppendDividend(ctx context.Context, portfolioID, symbol string, payment models.DividendPayment) error {
	if _, err := r.GetHolding(ctx, portfolioID, symbol); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO dividend_payments (portfolio_id, symbol, ex_date, payment_date, amount) VALUES ($1, $2, $3, $4, $5)`,
		portfolioID, symbol, payment.ExDate, payment.PaymentDate, payment.Amount)
	return err
}

func (r *postgresRepo) Close() error {
	r.db.Close()
	return nil
}

func (r *postgresRepo) dividendHistory(ctx context.Context, portfolioID, symbol string) (map[string][]models.DividendPayment, error) {
	query := `SELECT symbol, ex_date, payment_date, amount FROM dividend_payments WHERE portfolio_id = $1`
	args := []any{portfolioID}
	if symbol != "" {
		query += ` AND symbol = $2`
		args = append(args, symbol)
	}
	query += ` ORDER BY symbol, ex_date, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := map[string][]models.DividendPayment{}
	for rows.Next() {
		var sym string
		var p models.DividendPayment
		if err := rows.Scan(&sym, &p.ExDate, &p.PaymentDate, &p.Amount); err != nil {
			return nil, err
		}
		history[sym] = append(history[sym], p)
	}
	return history, rows.Err()
}

func scanPostgresHolding(row pgx.Row) (models.Holding, error) {
	var h models.Holding
	var frequency string
	err := row.Scan(&h.Symbol, &h.Shares, &h.AvgPrice, &h.CurrentPrice, &h.CostBasis, &h.DividendYield, &h.Sector, &frequency, &h.UpdatedAt)
	h.PayoutFrequency = models.PayoutFrequency(frequency)
	return h, err
}

func affected(tag pgconn.CommandTag, err error, kind, id string) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound(kind, id)
	}
	return nil
}
