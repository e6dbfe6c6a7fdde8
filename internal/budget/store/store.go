package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/budget"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectBudgetColumns = `
	b.id, b.user_id, b.name, b.period, b.start_date, b.end_date,
	b.total_allocated, b.description, b.created_at, b.updated_at
`

type scanner interface {
	Scan(dest ...any) error
}

func scanBudget(s scanner) (*budget.Budget, error) {
	var b budget.Budget

	var periodStr string

	if err := s.Scan(
		&b.ID, &b.UserID, &b.Name, &periodStr, &b.StartDate, &b.EndDate,
		&b.TotalAllocated, &b.Description, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.Period = budget.Period(periodStr)

	return &b, nil
}

func (s *Store) CreateBudget(ctx context.Context, b *budget.Budget) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO budgets (user_id, name, period, start_date, end_date, total_allocated, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		b.UserID,
		b.Name,
		b.Period,
		b.StartDate,
		b.EndDate,
		b.TotalAllocated,
		b.Description,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating budget: %w", err)
	}

	if err := insertCategories(ctx, dbTx, b); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing budget: %w", err)
	}

	return nil
}

func insertCategories(ctx context.Context, dbTx *sql.Tx, b *budget.Budget) error {
	query := `
		INSERT INTO budget_categories (budget_id, name, kind, allocated, spent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	for i := range b.Categories {
		c := &b.Categories[i]

		err := dbTx.QueryRowContext(ctx, query, b.ID, c.Name, c.Kind, c.Allocated, c.Spent).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("creating budget category: %w", err)
		}
	}

	return nil
}

func (s *Store) loadCategories(ctx context.Context, budgetID uuid.UUID) ([]budget.Category, error) {
	query := `
		SELECT id, name, kind, allocated, spent
		FROM budget_categories
		WHERE budget_id = $1
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("listing budget categories: %w", err)
	}
	defer rows.Close()

	var categories []budget.Category

	for rows.Next() {
		var c budget.Category

		var kindStr string

		if err := rows.Scan(&c.ID, &c.Name, &kindStr, &c.Allocated, &c.Spent); err != nil {
			return nil, fmt.Errorf("scanning budget category: %w", err)
		}

		c.Kind = budget.CategoryKind(kindStr)
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return categories, nil
}

func (s *Store) GetBudget(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + ` FROM budgets b WHERE b.id = $1`

	b, err := scanBudget(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("getting budget: %w", err)
	}

	b.Categories, err = s.loadCategories(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Store) ListBudgets(ctx context.Context, userID uuid.UUID) ([]*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + `
		FROM budgets b
		WHERE b.user_id = $1
		ORDER BY b.start_date DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget rows: %w", err)
	}

	for _, b := range budgets {
		b.Categories, err = s.loadCategories(ctx, b.ID)
		if err != nil {
			return nil, err
		}
	}

	return budgets, nil
}

// UpdateBudget replaces the budget row and its category rows. Spent counters
// carry over by category name so an edit does not wipe tracked spending.
func (s *Store) UpdateBudget(ctx context.Context, b *budget.Budget) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE budgets
		SET name = $1, period = $2, start_date = $3, end_date = $4,
		    total_allocated = $5, description = $6, updated_at = NOW()
		WHERE id = $7
	`

	_, err = dbTx.ExecContext(ctx, query,
		b.Name,
		b.Period,
		b.StartDate,
		b.EndDate,
		b.TotalAllocated,
		b.Description,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating budget: %w", err)
	}

	spentByName := make(map[string]decimal.Decimal)

	rows, err := dbTx.QueryContext(ctx, `SELECT name, spent FROM budget_categories WHERE budget_id = $1`, b.ID)
	if err != nil {
		return fmt.Errorf("reading spent counters: %w", err)
	}

	for rows.Next() {
		var name string

		var spent decimal.Decimal

		if err := rows.Scan(&name, &spent); err != nil {
			rows.Close()
			return fmt.Errorf("scanning spent counter: %w", err)
		}

		spentByName[name] = spent
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating spent counters: %w", err)
	}

	rows.Close()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM budget_categories WHERE budget_id = $1`, b.ID); err != nil {
		return fmt.Errorf("clearing budget categories: %w", err)
	}

	for i := range b.Categories {
		if spent, ok := spentByName[b.Categories[i].Name]; ok {
			b.Categories[i].Spent = spent
		}
	}

	if err := insertCategories(ctx, dbTx, b); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing budget update: %w", err)
	}

	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	// Category rows go with it via ON DELETE CASCADE.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}

	return nil
}

// IncrementSpent adjusts the spent counter of exactly one matching category
// row in a single UPDATE. When several budgets overlap the date with the same
// category name, the earliest start date (then budget id) wins, so a record
// and its reversal always land on the same row. Zero matches is a no-op.
func (s *Store) IncrementSpent(ctx context.Context, userID uuid.UUID, category string, date time.Time, delta decimal.Decimal) error {
	query := `
		UPDATE budget_categories
		SET spent = spent + $1
		WHERE id = (
			SELECT bc.id
			FROM budget_categories bc
			JOIN budgets b ON b.id = bc.budget_id
			WHERE b.user_id = $2
			  AND bc.name = $3
			  AND bc.kind = 'expense'
			  AND b.start_date <= $4
			  AND b.end_date >= $4
			ORDER BY b.start_date, b.id
			LIMIT 1
		)
	`

	if _, err := s.db.ExecContext(ctx, query, delta, userID, category, date); err != nil {
		return fmt.Errorf("incrementing spent: %w", err)
	}

	return nil
}
