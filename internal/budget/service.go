package budget

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	CreateBudget(ctx context.Context, b *Budget) error
	GetBudget(ctx context.Context, id uuid.UUID) (*Budget, error)
	ListBudgets(ctx context.Context, userID uuid.UUID) ([]*Budget, error)
	UpdateBudget(ctx context.Context, b *Budget) error
	DeleteBudget(ctx context.Context, id uuid.UUID) error

	// IncrementSpent atomically adds delta to the spent counter of the single
	// expense category matching (userID, category, date). No match is a no-op.
	IncrementSpent(ctx context.Context, userID uuid.UUID, category string, date time.Time, delta decimal.Decimal) error
}

// Service is the spend tracker. Spent counters move only through
// RecordExpense and ReverseExpense; budget CRUD never touches them directly.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CategoryParams struct {
	Name      string
	Kind      CategoryKind
	Allocated decimal.Decimal
}

type CreateParams struct {
	Name        string
	Period      Period
	StartDate   time.Time
	EndDate     time.Time
	Categories  []CategoryParams
	Description string
}

func buildCategories(params []CategoryParams) ([]Category, error) {
	categories := make([]Category, 0, len(params))

	for _, p := range params {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, apperr.Validation("category name is required")
		}

		kind := p.Kind
		if kind == "" {
			kind = CategoryExpense
		}

		if !kind.Valid() {
			return nil, apperr.Validation("invalid category kind %q", p.Kind)
		}

		if p.Allocated.IsNegative() {
			return nil, apperr.Validation("allocated amount for %q must not be negative", name)
		}

		categories = append(categories, Category{
			Name:      name,
			Kind:      kind,
			Allocated: p.Allocated,
		})
	}

	return categories, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Budget, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperr.Validation("budget name is required")
	}

	period := params.Period
	if period == "" {
		period = PeriodMonthly
	}

	if !period.Valid() {
		return nil, apperr.Validation("invalid budget period %q", params.Period)
	}

	if params.StartDate.IsZero() || params.EndDate.IsZero() {
		return nil, apperr.Validation("start date and end date are required")
	}

	if params.EndDate.Before(params.StartDate) {
		return nil, apperr.Validation("end date must not be before start date")
	}

	categories, err := buildCategories(params.Categories)
	if err != nil {
		return nil, err
	}

	b := &Budget{
		UserID:         userID,
		Name:           name,
		Period:         period,
		StartDate:      params.StartDate,
		EndDate:        params.EndDate,
		Categories:     categories,
		TotalAllocated: TotalAllocated(categories),
		Description:    strings.TrimSpace(params.Description),
	}

	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Budget, error) {
	b, err := s.repo.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}

	if b.UserID != userID {
		return nil, ErrForbidden
	}

	return b, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Budget, error) {
	return s.repo.ListBudgets(ctx, userID)
}

type UpdateParams struct {
	Name        *string
	Period      *Period
	StartDate   *time.Time
	EndDate     *time.Time
	Categories  []CategoryParams
	Description *string
}

// Update edits budget fields. When the category list is replaced, spent
// counters carry over for categories that keep their name; new or renamed
// ones start at zero. TotalAllocated is recomputed on every category change.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Budget, error) {
	b, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, apperr.Validation("budget name is required")
		}

		b.Name = name
	}

	if params.Period != nil {
		if !params.Period.Valid() {
			return nil, apperr.Validation("invalid budget period %q", *params.Period)
		}

		b.Period = *params.Period
	}

	if params.StartDate != nil {
		b.StartDate = *params.StartDate
	}

	if params.EndDate != nil {
		b.EndDate = *params.EndDate
	}

	if b.EndDate.Before(b.StartDate) {
		return nil, apperr.Validation("end date must not be before start date")
	}

	if params.Categories != nil {
		categories, err := buildCategories(params.Categories)
		if err != nil {
			return nil, err
		}

		b.Categories = categories
		b.TotalAllocated = TotalAllocated(categories)
	}

	if params.Description != nil {
		b.Description = strings.TrimSpace(*params.Description)
	}

	if err := s.repo.UpdateBudget(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	return s.repo.DeleteBudget(ctx, id)
}

// RecordExpense adds amount to the spent counter of the user's expense
// category named category whose budget window contains date. When no budget
// matches, nothing happens and no error is returned.
func (s *Service) RecordExpense(ctx context.Context, userID uuid.UUID, category string, date time.Time, amount decimal.Decimal) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil
	}

	return s.repo.IncrementSpent(ctx, userID, category, date, amount)
}

// ReverseExpense undoes a previous RecordExpense with the same arguments.
func (s *Service) ReverseExpense(ctx context.Context, userID uuid.UUID, category string, date time.Time, amount decimal.Decimal) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil
	}

	return s.repo.IncrementSpent(ctx, userID, category, date, amount.Neg())
}
