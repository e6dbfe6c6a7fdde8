package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/apperr"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// DefaultCategory is assigned when a transaction is created without one.
const DefaultCategory = "uncategorized"

// Transaction represents a financial transaction against one account.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Type        Type
	Category    string
	Description string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
}

// SignedAmount is the effect this transaction has on its account's balance:
// +Amount for income, -Amount for expense.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}

	return t.Amount
}

var (
	ErrNotFound  = apperr.NotFound("transaction not found")
	ErrForbidden = apperr.Forbidden("not authorized to access this transaction")
)
