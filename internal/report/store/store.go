package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) SumByType(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND deleted_at IS NULL AND date >= $2 AND date <= $3
	`

	var income, expense decimal.Decimal

	err := s.db.QueryRowContext(ctx, query, userID, from, to).Scan(&income, &expense)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, fmt.Errorf("summing by type: %w", err)
	}

	return income, expense, nil
}

func (s *Store) SumExpensesByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]report.CategorySpend, error) {
	query := `
		SELECT category, SUM(amount) AS total
		FROM transactions
		WHERE user_id = $1 AND deleted_at IS NULL AND type = 'expense'
		  AND date >= $2 AND date <= $3
		GROUP BY category
		ORDER BY total DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("summing expenses by category: %w", err)
	}
	defer rows.Close()

	var spends []report.CategorySpend

	for rows.Next() {
		var cs report.CategorySpend

		if err := rows.Scan(&cs.Category, &cs.Total); err != nil {
			return nil, fmt.Errorf("scanning category spend: %w", err)
		}

		spends = append(spends, cs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category spend rows: %w", err)
	}

	return spends, nil
}

func (s *Store) ListAccountBalances(ctx context.Context, userID uuid.UUID) ([]report.AccountBalance, error) {
	query := `
		SELECT id, name, currency, current_balance
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing account balances: %w", err)
	}
	defer rows.Close()

	var balances []report.AccountBalance

	for rows.Next() {
		var ab report.AccountBalance

		if err := rows.Scan(&ab.AccountID, &ab.Name, &ab.Currency, &ab.Balance); err != nil {
			return nil, fmt.Errorf("scanning account balance: %w", err)
		}

		balances = append(balances, ab)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating account balance rows: %w", err)
	}

	return balances, nil
}
