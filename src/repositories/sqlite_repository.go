package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dividendtracker/src/models"

	"github.com/google/uuid"
)

// Fixed width so timestamps sort lexically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
const sqliteDateLayout = "2006-01-02"

type sqliteRepo struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) PortfolioRepository {
	return &sqliteRepo{db: db}
}

func (r *sqliteRepo) ListPortfolios(ctx context.Context) ([]models.Portfolio, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM portfolios ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	portfolios := []models.Portfolio{}
	for rows.Next() {
		var p models.Portfolio
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &createdAt); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

func (r *sqliteRepo) GetPortfolio(ctx context.Context, id string) (models.Portfolio, error) {
	var p models.Portfolio
	var createdAt string
	err := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM portfolios WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, notFound("portfolio", id)
	}
	if err != nil {
		return p, err
	}
	p.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt)
	return p, err
}

func (r *sqliteRepo) CreatePortfolio(ctx context.Context, p *models.Portfolio) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO portfolios (id, name, created_at) VALUES (?, ?, ?)`,
		p.ID, p.Name, p.CreatedAt.UTC().Format(sqliteTimeLayout))
	return err
}

func (r *sqliteRepo) DeletePortfolio(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM portfolios WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "portfolio", id)
}

func (r *sqliteRepo) GetHoldings(ctx context.Context, portfolioID string) ([]models.Holding, error) {
	if _, err := r.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT symbol, shares, avg_price, current_price, cost_basis, dividend_yield, sector, payout_frequency, updated_at
		FROM holdings
		WHERE portfolio_id = ?
		ORDER BY symbol`, portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holdings := []models.Holding{}
	for rows.Next() {
		h, err := scanSQLiteHolding(rows)
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

func (r *sqliteRepo) GetHolding(ctx context.Context, portfolioID, symbol string) (models.Holding, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT symbol, shares, avg_price, current_price, cost_basis, dividend_yield, sector, payout_frequency, updated_at
		FROM holdings
		WHERE portfolio_id = ? AND symbol = ?`, portfolioID, symbol)
	h, err := scanSQLiteHolding(row)
	if errors.Is(err, sql.ErrNoRows) {
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

func (r *sqliteRepo) SaveHolding(ctx context.Context, portfolioID string, h models.Holding) error {
	if _, err := r.GetPortfolio(ctx, portfolioID); err != nil {
		return err
	}
	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO holdings (portfolio_id, symbol, shares, avg_price, current_price, cost_basis, dividend_yield, sector, payout_frequency, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (portfolio_id, symbol) DO UPDATE SET
			shares = excluded.shares,
			avg_price = excluded.avg_price,
			current_price = excluded.current_price,
			cost_basis = excluded.cost_basis,
			dividend_yield = excluded.dividend_yield,
			sector = excluded.sector,
			payout_frequency = excluded.payout_frequency,
			updated_at = excluded.updated_at`,
		portfolioID, h.Symbol, h.Shares, h.AvgPrice, h.CurrentPrice, h.CostBasis, h.DividendYield,
		h.Sector, string(h.PayoutFrequency), h.UpdatedAt.UTC().Format(sqliteTimeLayout))
	return err
}

func (r *sqliteRepo) DeleteHolding(ctx context.Context, portfolioID, symbol string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM holdings WHERE portfolio_id = ? AND symbol = ?`, portfolioID, symbol)
	if err != nil {
		return err
	}
	return requireAffected(res, "holding", symbol)
}

func (r *sqliteRepo) AppendDividend(ctx context.Context, portfolioID, symbol string, payment models.DividendPayment) error {
	if _, err := r.GetHolding(ctx, portfolioID, symbol); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO dividend_payments (portfolio_id, symbol, ex_date, payment_date, amount) VALUES (?, ?, ?, ?, ?)`,
		portfolioID, symbol, payment.ExDate.Format(sqliteDateLayout), payment.PaymentDate.Format(sqliteDateLayout), payment.Amount)
	return err
}

func (r *sqliteRepo) Close() error {
	return r.db.Close()
}

// dividendHistory loads payments grouped by symbol. An empty symbol loads the
// whole portfolio.
func (r *sqliteRepo) dividendHistory(ctx context.Context, portfolioID, symbol string) (map[string][]models.DividendPayment, error) {
	query := `SELECT symbol, ex_date, payment_date, amount FROM dividend_payments WHERE portfolio_id = ?`
	args := []any{portfolioID}
	if symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY symbol, ex_date, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := map[string][]models.DividendPayment{}
	for rows.Next() {
		var sym, exDate, paymentDate string
		var p models.DividendPayment
		if err := rows.Scan(&sym, &exDate, &paymentDate, &p.Amount); err != nil {
			return nil, err
		}
		if p.ExDate, err = time.Parse(sqliteDateLayout, exDate); err != nil {
			return nil, err
		}
		if p.PaymentDate, err = time.Parse(sqliteDateLayout, paymentDate); err != nil {
			return nil, err
		}
		history[sym] = append(history[sym], p)
	}
	return history, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteHolding(row rowScanner) (models.Holding, error) {
	var h models.Holding
	var frequency, updatedAt string
	err := row.Scan(&h.Symbol, &h.Shares, &h.AvgPrice, &h.CurrentPrice, &h.CostBasis, &h.DividendYield, &h.Sector, &frequency, &updatedAt)
	if err != nil {
		return h, err
	}
	h.PayoutFrequency = models.PayoutFrequency(frequency)
	h.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt)
	if err != nil {
		return h, fmt.Errorf("invalid updated_at for %s: %w", h.Symbol, err)
	}
	return h, nil
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}
