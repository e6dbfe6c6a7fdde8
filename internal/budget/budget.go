package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/apperr"
)

// Period represents the budgeting cadence.
type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodAnnually  Period = "annually"
	PeriodCustom    Period = "custom"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodMonthly, PeriodQuarterly, PeriodAnnually, PeriodCustom:
		return true
	}

	return false
}

// CategoryKind marks a budget category as planned income or planned expense.
type CategoryKind string

const (
	CategoryIncome  CategoryKind = "income"
	CategoryExpense CategoryKind = "expense"
)

func (k CategoryKind) Valid() bool {
	return k == CategoryIncome || k == CategoryExpense
}

// Category is one line of a budget: an allocation plus the running spent
// counter maintained by the tracker. Spent may go negative after a reversal;
// no clamping is applied.
type Category struct {
	ID        uuid.UUID
	Name      string
	Kind      CategoryKind
	Allocated decimal.Decimal
	Spent     decimal.Decimal
}

// Budget covers the window [StartDate, EndDate] inclusive.
type Budget struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Period         Period
	StartDate      time.Time
	EndDate        time.Time
	Categories     []Category
	TotalAllocated decimal.Decimal
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TotalAllocated sums income allocations and subtracts expense allocations.
func TotalAllocated(categories []Category) decimal.Decimal {
	total := decimal.Zero

	for _, c := range categories {
		switch c.Kind {
		case CategoryIncome:
			total = total.Add(c.Allocated)
		case CategoryExpense:
			total = total.Sub(c.Allocated)
		}
	}

	return total
}

var (
	ErrNotFound  = apperr.NotFound("budget not found")
	ErrForbidden = apperr.Forbidden("not authorized to access this budget")
)
