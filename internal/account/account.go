package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/apperr"
)

// Type represents the kind of account.
type Type string

const (
	TypeSavings    Type = "savings"
	TypeChecking   Type = "checking"
	TypeCredit     Type = "credit"
	TypeCash       Type = "cash"
	TypeInvestment Type = "investment"
	TypeLoan       Type = "loan"
	TypeOther      Type = "other"
)

// Valid reports whether t is one of the known account types.
func (t Type) Valid() bool {
	switch t {
	case TypeSavings, TypeChecking, TypeCredit, TypeCash, TypeInvestment, TypeLoan, TypeOther:
		return true
	}

	return false
}

// Account represents a user's financial account. CurrentBalance holds
// InitialBalance plus the signed sum of all non-deleted transactions against
// the account, and is mutated only through Service.ApplyDelta.
type Account struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Type           Type
	InitialBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	Currency       string
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

var (
	ErrNotFound  = apperr.NotFound("account not found")
	ErrForbidden = apperr.Forbidden("not authorized to access this account")
	ErrDuplicate = apperr.Conflict("an account with this name already exists")
)
