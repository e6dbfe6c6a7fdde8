package account

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]*Account, error)
	UpdateAccount(ctx context.Context, a *Account) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error

	// IncrementBalance adds delta to the stored balance in a single atomic
	// statement and returns the resulting balance.
	IncrementBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
}

// Service is the balance ledger: the single source of truth for account
// balances. Nothing outside it writes current_balance.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name           string
	Type           Type
	InitialBalance decimal.Decimal
	Currency       string
	Description    string
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Account, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperr.Validation("account name is required")
	}

	if !params.Type.Valid() {
		return nil, apperr.Validation("invalid account type %q", params.Type)
	}

	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		return nil, apperr.Validation("currency is required")
	}

	a := &Account{
		UserID:         userID,
		Name:           name,
		Type:           params.Type,
		InitialBalance: params.InitialBalance,
		CurrentBalance: params.InitialBalance,
		Currency:       currency,
		Description:    strings.TrimSpace(params.Description),
	}

	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Account, error) {
	a, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.UserID != userID {
		return nil, ErrForbidden
	}

	return a, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Account, error) {
	return s.repo.ListAccounts(ctx, userID)
}

type UpdateParams struct {
	Name        *string
	Type        *Type
	Currency    *string
	Description *string
}

// Update edits account metadata. Balances are out of its reach: they only
// move through ApplyDelta.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Account, error) {
	a, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, apperr.Validation("account name is required")
		}

		a.Name = name
	}

	if params.Type != nil {
		if !params.Type.Valid() {
			return nil, apperr.Validation("invalid account type %q", *params.Type)
		}

		a.Type = *params.Type
	}

	if params.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*params.Currency))
		if currency == "" {
			return nil, apperr.Validation("currency is required")
		}

		a.Currency = currency
	}

	if params.Description != nil {
		a.Description = strings.TrimSpace(*params.Description)
	}

	if err := s.repo.UpdateAccount(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	return s.repo.DeleteAccount(ctx, id)
}

// ApplyDelta atomically adds delta to the account's current balance and
// returns the new balance. It knows nothing about transactions; callers
// compute the signed amount.
func (s *Service) ApplyDelta(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	return s.repo.IncrementBalance(ctx, accountID, delta)
}
