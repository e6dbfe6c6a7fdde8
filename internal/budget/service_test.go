package budget_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/moneta-app/moneta/internal/apperr"
	"github.com/moneta-app/moneta/internal/budget"
)

func TestTotalAllocated(t *testing.T) {
	type testCase struct {
		name       string
		categories []budget.Category
		want       decimal.Decimal
	}

	tests := []testCase{
		{
			name: "ExpensesReduceTotal",
			categories: []budget.Category{
				{Name: "Food", Kind: budget.CategoryExpense, Allocated: decimal.NewFromInt(500)},
			},
			want: decimal.NewFromInt(-500),
		},
		{
			name: "IncomeMinusExpense",
			categories: []budget.Category{
				{Name: "Salary", Kind: budget.CategoryIncome, Allocated: decimal.NewFromInt(3000)},
				{Name: "Food", Kind: budget.CategoryExpense, Allocated: decimal.NewFromInt(500)},
				{Name: "Rent", Kind: budget.CategoryExpense, Allocated: decimal.NewFromInt(1200)},
			},
			want: decimal.NewFromInt(1300),
		},
		{
			name: "Empty",
			want: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := budget.TotalAllocated(tt.categories)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestService_Create(t *testing.T) {
	userID := uuid.New()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		params    budget.CreateParams
		setupMock func(m *budget.MockRepository)
		wantKind  apperr.Kind
		check     func(t *testing.T, b *budget.Budget)
	}

	tests := []testCase{
		{
			name: "Success",
			params: budget.CreateParams{
				Name:      "June",
				StartDate: start,
				EndDate:   end,
				Categories: []budget.CategoryParams{
					{Name: " Food ", Kind: budget.CategoryExpense, Allocated: decimal.NewFromInt(500)},
				},
			},
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().
					CreateBudget(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *budget.Budget) error {
						b.ID = uuid.New()
						return nil
					})
			},
			check: func(t *testing.T, b *budget.Budget) {
				assert.Equal(t, budget.PeriodMonthly, b.Period)
				require.Len(t, b.Categories, 1)
				assert.Equal(t, "Food", b.Categories[0].Name)
				assert.True(t, b.TotalAllocated.Equal(decimal.NewFromInt(-500)))
			},
		},
		{
			name: "MissingName",
			params: budget.CreateParams{
				StartDate: start,
				EndDate:   end,
			},
			wantKind: apperr.KindValidation,
		},
		{
			name: "WindowInverted",
			params: budget.CreateParams{
				Name:      "June",
				StartDate: end,
				EndDate:   start,
			},
			wantKind: apperr.KindValidation,
		},
		{
			name: "BadCategoryKind",
			params: budget.CreateParams{
				Name:      "June",
				StartDate: start,
				EndDate:   end,
				Categories: []budget.CategoryParams{
					{Name: "Food", Kind: budget.CategoryKind("transfer"), Allocated: decimal.NewFromInt(10)},
				},
			},
			wantKind: apperr.KindValidation,
		},
		{
			name: "NegativeAllocation",
			params: budget.CreateParams{
				Name:      "June",
				StartDate: start,
				EndDate:   end,
				Categories: []budget.CategoryParams{
					{Name: "Food", Kind: budget.CategoryExpense, Allocated: decimal.NewFromInt(-1)},
				},
			},
			wantKind: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := budget.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := budget.NewService(repo)
			got, err := svc.Create(context.Background(), userID, tt.params)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestService_Update_RecomputesTotalAllocated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	budgetID := uuid.New()

	existing := &budget.Budget{
		ID:        budgetID,
		UserID:    userID,
		Name:      "June",
		Period:    budget.PeriodMonthly,
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Categories: []budget.Category{
			{Name: "Food", Kind: budget.CategoryExpense, Allocated: decimal.NewFromInt(500)},
		},
		TotalAllocated: decimal.NewFromInt(-500),
	}

	repo := budget.NewMockRepository(ctrl)
	repo.EXPECT().GetBudget(gomock.Any(), budgetID).Return(existing, nil)
	repo.EXPECT().
		UpdateBudget(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b *budget.Budget) error {
			assert.True(t, b.TotalAllocated.Equal(decimal.NewFromInt(2300)), "got %s", b.TotalAllocated)
			return nil
		})

	svc := budget.NewService(repo)

	_, err := svc.Update(context.Background(), userID, budgetID, budget.UpdateParams{
		Categories: []budget.CategoryParams{
			{Name: "Salary", Kind: budget.CategoryIncome, Allocated: decimal.NewFromInt(3000)},
			{Name: "Rent", Kind: budget.CategoryExpense, Allocated: decimal.NewFromInt(700)},
		},
	})
	require.NoError(t, err)
}

func TestService_RecordAndReverseExpense(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(300)

	repo := budget.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().IncrementSpent(gomock.Any(), userID, "Food", date, amount),
		repo.EXPECT().IncrementSpent(gomock.Any(), userID, "Food", date, amount.Neg()),
	)

	svc := budget.NewService(repo)

	require.NoError(t, svc.RecordExpense(context.Background(), userID, " Food ", date, amount))
	require.NoError(t, svc.ReverseExpense(context.Background(), userID, "Food", date, amount))
}

func TestService_RecordExpense_BlankCategoryIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No IncrementSpent expectation: a blank category never reaches the store.
	repo := budget.NewMockRepository(ctrl)
	svc := budget.NewService(repo)

	err := svc.RecordExpense(context.Background(), uuid.New(), "   ", time.Now(), decimal.NewFromInt(10))
	require.NoError(t, err)
}
