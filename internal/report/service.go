// Package report builds read-only projections over the ledger for dashboard
// views. It never mutates balances or spend counters.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary aggregates cash flow over a date range.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
}

// CategorySpend is the expense total for one category.
type CategorySpend struct {
	Category string
	Total    decimal.Decimal
}

// AccountBalance is one line of the account overview.
type AccountBalance struct {
	AccountID uuid.UUID
	Name      string
	Currency  string
	Balance   decimal.Decimal
}

// Overview lists every account balance plus their sum.
type Overview struct {
	Accounts []AccountBalance
	Total    decimal.Decimal
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	SumByType(ctx context.Context, userID uuid.UUID, from, to time.Time) (income, expense decimal.Decimal, err error)
	SumExpensesByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]CategorySpend, error)
	ListAccountBalances(ctx context.Context, userID uuid.UUID) ([]AccountBalance, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Summary(ctx context.Context, userID uuid.UUID, from, to time.Time) (*Summary, error) {
	income, expense, err := s.repo.SumByType(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income.Sub(expense),
	}, nil
}

func (s *Service) SpendingByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]CategorySpend, error) {
	return s.repo.SumExpensesByCategory(ctx, userID, from, to)
}

func (s *Service) AccountOverview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	accounts, err := s.repo.ListAccountBalances(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}

	return &Overview{Accounts: accounts, Total: total}, nil
}
