package transaction

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/account"
	"github.com/moneta-app/moneta/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// Ledger owns account balances. Implemented by account.Service.
type Ledger interface {
	Get(ctx context.Context, userID, accountID uuid.UUID) (*account.Account, error)
	ApplyDelta(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
}

// SpendTracker owns budget spent counters. Implemented by budget.Service.
type SpendTracker interface {
	RecordExpense(ctx context.Context, userID uuid.UUID, category string, date time.Time, amount decimal.Decimal) error
	ReverseExpense(ctx context.Context, userID uuid.UUID, category string, date time.Time, amount decimal.Decimal) error
}

// Service orchestrates the transaction lifecycle. It is the only caller of
// Ledger.ApplyDelta and the tracker's record/reverse methods, so every
// balance or spent-counter change traces back to exactly one lifecycle
// operation here.
type Service struct {
	repo    Repository
	ledger  Ledger
	tracker SpendTracker
}

func NewService(repo Repository, ledger Ledger, tracker SpendTracker) *Service {
	return &Service{repo: repo, ledger: ledger, tracker: tracker}
}

type CreateParams struct {
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Type        Type
	Category    string
	Description string
	Date        time.Time
}

// sideEffect wraps a post-persist failure. The transaction record is already
// saved at that point and is deliberately left in place as the source of
// truth for later reconciliation.
func sideEffect(op string, txID uuid.UUID, err error) error {
	slog.Error("transaction side effect failed", "op", op, "transaction_id", txID, "error", err)

	return apperr.Wrap(apperr.KindInternal, "transaction saved but aggregates may be out of date", err)
}

// Create validates and persists a new transaction, then applies its signed
// effect to the account balance and, for expenses, to any matching budget.
// Validation and ownership checks run to completion before anything is
// written; failures after the record is persisted are surfaced as Internal
// without removing the record.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Transaction, error) {
	if !params.Amount.IsPositive() {
		return nil, apperr.Validation("amount must be a positive number")
	}

	if !params.Type.Valid() {
		return nil, apperr.Validation("invalid transaction type %q", params.Type)
	}

	if _, err := s.ledger.Get(ctx, userID, params.AccountID); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(params.Category)
	if category == "" {
		category = DefaultCategory
	}

	date := params.Date
	if date.IsZero() {
		date = time.Now()
	}

	tx := &Transaction{
		UserID:      userID,
		AccountID:   params.AccountID,
		Amount:      params.Amount,
		Type:        params.Type,
		Category:    category,
		Description: strings.TrimSpace(params.Description),
		Date:        date,
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	if _, err := s.ledger.ApplyDelta(ctx, tx.AccountID, tx.SignedAmount()); err != nil {
		return nil, sideEffect("apply balance", tx.ID, err)
	}

	if tx.Type == TypeExpense {
		if err := s.tracker.RecordExpense(ctx, userID, tx.Category, tx.Date, tx.Amount); err != nil {
			return nil, sideEffect("record spend", tx.ID, err)
		}
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.UserID != userID {
		return nil, ErrForbidden
	}

	return tx, nil
}

type ListFilter struct {
	AccountID *uuid.UUID
	Type      *Type
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error) {
	if filter.AccountID != nil {
		if _, err := s.ledger.Get(ctx, userID, *filter.AccountID); err != nil {
			return nil, err
		}
	}

	return s.repo.ListTransactions(ctx, userID, filter)
}

type UpdateParams struct {
	AccountID   *uuid.UUID
	Amount      *decimal.Decimal
	Type        *Type
	Category    *string
	Description *string
	Date        *time.Time
}

// Update applies a partial edit. The old signed effect is captured before
// any field changes; once the record is persisted the old spend is reversed,
// the new spend recorded, and the balance fixed up: two ledger calls when the
// account changed, one net call when only amount or type changed.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Amount != nil && !params.Amount.IsPositive() {
		return nil, apperr.Validation("amount must be a positive number")
	}

	if params.Type != nil && !params.Type.Valid() {
		return nil, apperr.Validation("invalid transaction type %q", *params.Type)
	}

	if params.AccountID != nil && *params.AccountID != tx.AccountID {
		if _, err := s.ledger.Get(ctx, userID, *params.AccountID); err != nil {
			return nil, err
		}
	}

	old := *tx
	oldSigned := old.SignedAmount()

	if params.AccountID != nil {
		tx.AccountID = *params.AccountID
	}

	if params.Amount != nil {
		tx.Amount = *params.Amount
	}

	if params.Type != nil {
		tx.Type = *params.Type
	}

	if params.Category != nil {
		category := strings.TrimSpace(*params.Category)
		if category == "" {
			category = DefaultCategory
		}

		tx.Category = category
	}

	if params.Description != nil {
		tx.Description = strings.TrimSpace(*params.Description)
	}

	if params.Date != nil {
		tx.Date = *params.Date
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	if old.Type == TypeExpense {
		if err := s.tracker.ReverseExpense(ctx, userID, old.Category, old.Date, old.Amount); err != nil {
			return nil, sideEffect("reverse spend", tx.ID, err)
		}
	}

	if tx.Type == TypeExpense {
		if err := s.tracker.RecordExpense(ctx, userID, tx.Category, tx.Date, tx.Amount); err != nil {
			return nil, sideEffect("record spend", tx.ID, err)
		}
	}

	switch {
	case old.AccountID != tx.AccountID:
		if _, err := s.ledger.ApplyDelta(ctx, old.AccountID, oldSigned.Neg()); err != nil {
			return nil, sideEffect("reverse balance", tx.ID, err)
		}

		if _, err := s.ledger.ApplyDelta(ctx, tx.AccountID, tx.SignedAmount()); err != nil {
			return nil, sideEffect("apply balance", tx.ID, err)
		}
	case !old.Amount.Equal(tx.Amount) || old.Type != tx.Type:
		net := tx.SignedAmount().Sub(oldSigned)
		if _, err := s.ledger.ApplyDelta(ctx, tx.AccountID, net); err != nil {
			return nil, sideEffect("apply balance", tx.ID, err)
		}
	}

	return tx, nil
}

// Delete reverses the transaction's current effect and then removes the
// record. Reversal runs first so a mid-sequence failure leaves the record in
// place as the recoverable source of truth.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tx, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if tx.Type == TypeExpense {
		if err := s.tracker.ReverseExpense(ctx, userID, tx.Category, tx.Date, tx.Amount); err != nil {
			return sideEffect("reverse spend", tx.ID, err)
		}
	}

	if _, err := s.ledger.ApplyDelta(ctx, tx.AccountID, tx.SignedAmount().Neg()); err != nil {
		return sideEffect("reverse balance", tx.ID, err)
	}

	return s.repo.DeleteTransaction(ctx, id)
}
