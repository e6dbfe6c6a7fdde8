package transaction_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/moneta-app/moneta/internal/account"
	"github.com/moneta-app/moneta/internal/apperr"
	"github.com/moneta-app/moneta/internal/transaction"
)

// decEq matches a decimal.Decimal by numeric value rather than representation.
type decEq struct{ want decimal.Decimal }

func (m decEq) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decEq) String() string {
	return fmt.Sprintf("decimal equal to %s", m.want)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type fixture struct {
	repo    *transaction.MockRepository
	ledger  *transaction.MockLedger
	tracker *transaction.MockSpendTracker
	svc     *transaction.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:    transaction.NewMockRepository(ctrl),
		ledger:  transaction.NewMockLedger(ctrl),
		tracker: transaction.NewMockSpendTracker(ctrl),
	}
	f.svc = transaction.NewService(f.repo, f.ledger, f.tracker)

	return f
}

func TestService_Create_Expense(t *testing.T) {
	f := newFixture(t)

	userID := uuid.New()
	accountID := uuid.New()
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	f.ledger.EXPECT().
		Get(gomock.Any(), userID, accountID).
		Return(&account.Account{ID: accountID, UserID: userID}, nil)

	gomock.InOrder(
		f.repo.EXPECT().
			CreateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
				tx.ID = uuid.New()
				return nil
			}),
		f.ledger.EXPECT().
			ApplyDelta(gomock.Any(), accountID, decEq{dec(-300)}).
			Return(dec(700), nil),
		f.tracker.EXPECT().
			RecordExpense(gomock.Any(), userID, "Food", date, decEq{dec(300)}).
			Return(nil),
	)

	got, err := f.svc.Create(context.Background(), userID, transaction.CreateParams{
		AccountID:   accountID,
		Amount:      dec(300),
		Type:        transaction.TypeExpense,
		Category:    "  Food  ",
		Description: " groceries ",
		Date:        date,
	})

	require.NoError(t, err)
	assert.Equal(t, "Food", got.Category)
	assert.Equal(t, "groceries", got.Description)
	assert.True(t, got.SignedAmount().Equal(dec(-300)))
}

func TestService_Create_IncomeSkipsTracker(t *testing.T) {
	f := newFixture(t)

	userID := uuid.New()
	accountID := uuid.New()

	f.ledger.EXPECT().
		Get(gomock.Any(), userID, accountID).
		Return(&account.Account{ID: accountID, UserID: userID}, nil)
	f.repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		Return(nil)
	f.ledger.EXPECT().
		ApplyDelta(gomock.Any(), accountID, decEq{dec(200)}).
		Return(dec(1200), nil)
	// No tracker expectation: income never touches budget spend.

	got, err := f.svc.Create(context.Background(), userID, transaction.CreateParams{
		AccountID: accountID,
		Amount:    dec(200),
		Type:      transaction.TypeIncome,
	})

	require.NoError(t, err)
	assert.Equal(t, transaction.DefaultCategory, got.Category)
	assert.False(t, got.Date.IsZero())
}

func TestService_Create_RejectsBeforeAnyMutation(t *testing.T) {
	type testCase struct {
		name   string
		params transaction.CreateParams
	}

	tests := []testCase{
		{
			name: "NegativeAmount",
			params: transaction.CreateParams{
				AccountID: uuid.New(),
				Amount:    dec(-50),
				Type:      transaction.TypeExpense,
			},
		},
		{
			name: "ZeroAmount",
			params: transaction.CreateParams{
				AccountID: uuid.New(),
				Amount:    decimal.Zero,
				Type:      transaction.TypeIncome,
			},
		},
		{
			name: "InvalidType",
			params: transaction.CreateParams{
				AccountID: uuid.New(),
				Amount:    dec(50),
				Type:      transaction.Type("transfer"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No expectations at all: a rejected request must leave the
			// record, the balance and every budget untouched.
			f := newFixture(t)

			got, err := f.svc.Create(context.Background(), uuid.New(), tt.params)

			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Nil(t, got)
		})
	}
}

func TestService_Create_AccountErrors(t *testing.T) {
	type testCase struct {
		name      string
		ledgerErr error
		wantKind  apperr.Kind
	}

	tests := []testCase{
		{name: "NotFound", ledgerErr: account.ErrNotFound, wantKind: apperr.KindNotFound},
		{name: "Forbidden", ledgerErr: account.ErrForbidden, wantKind: apperr.KindForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.ledger.EXPECT().
				Get(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil, tt.ledgerErr)

			_, err := f.svc.Create(context.Background(), uuid.New(), transaction.CreateParams{
				AccountID: uuid.New(),
				Amount:    dec(100),
				Type:      transaction.TypeExpense,
			})

			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
		})
	}
}

func TestService_Create_BalanceFailureSurfacesInternal(t *testing.T) {
	f := newFixture(t)

	userID := uuid.New()
	accountID := uuid.New()

	f.ledger.EXPECT().
		Get(gomock.Any(), userID, accountID).
		Return(&account.Account{ID: accountID, UserID: userID}, nil)
	f.repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		Return(nil)
	f.ledger.EXPECT().
		ApplyDelta(gomock.Any(), accountID, gomock.Any()).
		Return(decimal.Decimal{}, errors.New("connection reset"))

	_, err := f.svc.Create(context.Background(), userID, transaction.CreateParams{
		AccountID: accountID,
		Amount:    dec(100),
		Type:      transaction.TypeIncome,
	})

	// The record is already persisted; the failure is surfaced, not rolled back.
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestService_Update_AmountChangeSameAccount(t *testing.T) {
	// Editing an expense from 300 to 100 must move the balance by exactly
	// +200 in one net call and shift the budget spend from 300 to 100.
	f := newFixture(t)

	userID := uuid.New()
	accountID := uuid.New()
	txID := uuid.New()
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	existing := &transaction.Transaction{
		ID:        txID,
		UserID:    userID,
		AccountID: accountID,
		Amount:    dec(300),
		Type:      transaction.TypeExpense,
		Category:  "Food",
		Date:      date,
	}

	f.repo.EXPECT().GetTransaction(gomock.Any(), txID).Return(existing, nil)

	gomock.InOrder(
		f.repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil),
		f.tracker.EXPECT().
			ReverseExpense(gomock.Any(), userID, "Food", date, decEq{dec(300)}).
			Return(nil),
		f.tracker.EXPECT().
			RecordExpense(gomock.Any(), userID, "Food", date, decEq{dec(100)}).
			Return(nil),
		f.ledger.EXPECT().
			ApplyDelta(gomock.Any(), accountID, decEq{dec(200)}).
			Return(dec(1100), nil),
	)

	newAmount := dec(100)

	got, err := f.svc.Update(context.Background(), userID, txID, transaction.UpdateParams{
		Amount: &newAmount,
	})

	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec(100)))
}

func TestService_Update_AccountChange(t *testing.T) {
	f := newFixture(t)

	userID := uuid.New()
	oldAccount := uuid.New()
	newAccount := uuid.New()
	txID := uuid.New()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	existing := &transaction.Transaction{
		ID:        txID,
		UserID:    userID,
		AccountID: oldAccount,
		Amount:    dec(500),
		Type:      transaction.TypeIncome,
		Category:  transaction.DefaultCategory,
		Date:      date,
	}

	f.repo.EXPECT().GetTransaction(gomock.Any(), txID).Return(existing, nil)
	f.ledger.EXPECT().
		Get(gomock.Any(), userID, newAccount).
		Return(&account.Account{ID: newAccount, UserID: userID}, nil)

	gomock.InOrder(
		f.repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil),
		f.ledger.EXPECT().
			ApplyDelta(gomock.Any(), oldAccount, decEq{dec(-500)}).
			Return(dec(0), nil),
		f.ledger.EXPECT().
			ApplyDelta(gomock.Any(), newAccount, decEq{dec(500)}).
			Return(dec(500), nil),
	)

	got, err := f.svc.Update(context.Background(), userID, txID, transaction.UpdateParams{
		AccountID: &newAccount,
	})

	require.NoError(t, err)
	assert.Equal(t, newAccount, got.AccountID)
}

func TestService_Update_TypeFlipNetsBothEffects(t *testing.T) {
	f := newFixture(t)

	userID := uuid.New()
	accountID := uuid.New()
	txID := uuid.New()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	existing := &transaction.Transaction{
		ID:        txID,
		UserID:    userID,
		AccountID: accountID,
		Amount:    dec(100),
		Type:      transaction.TypeExpense,
		Category:  "Food",
		Date:      date,
	}

	f.repo.EXPECT().GetTransaction(gomock.Any(), txID).Return(existing, nil)
	f.repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)

	// Old expense spend comes off the budget; the new income records nothing.
	f.tracker.EXPECT().
		ReverseExpense(gomock.Any(), userID, "Food", date, decEq{dec(100)}).
		Return(nil)

	// Expense -100 becomes income +100: one net call of +200.
	f.ledger.EXPECT().
		ApplyDelta(gomock.Any(), accountID, decEq{dec(200)}).
		Return(dec(200), nil)

	newType := transaction.TypeIncome

	_, err := f.svc.Update(context.Background(), userID, txID, transaction.UpdateParams{
		Type: &newType,
	})
	require.NoError(t, err)
}

func TestService_Update_CategoryOnlyLeavesBalanceAlone(t *testing.T) {
	f := newFixture(t)

	userID := uuid.New()
	accountID := uuid.New()
	txID := uuid.New()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	existing := &transaction.Transaction{
		ID:        txID,
		UserID:    userID,
		AccountID: accountID,
		Amount:    dec(80),
		Type:      transaction.TypeExpense,
		Category:  "Food",
		Date:      date,
	}

	f.repo.EXPECT().GetTransaction(gomock.Any(), txID).Return(existing, nil)
	f.repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)

	// The spend moves between categories; no ApplyDelta expectation because
	// the signed effect on the account did not change.
	gomock.InOrder(
		f.tracker.EXPECT().
			ReverseExpense(gomock.Any(), userID, "Food", date, decEq{dec(80)}).
			Return(nil),
		f.tracker.EXPECT().
			RecordExpense(gomock.Any(), userID, "Dining", date, decEq{dec(80)}).
			Return(nil),
	)

	newCategory := "Dining"

	_, err := f.svc.Update(context.Background(), userID, txID, transaction.UpdateParams{
		Category: &newCategory,
	})
	require.NoError(t, err)
}

func TestService_Update_Forbidden(t *testing.T) {
	f := newFixture(t)

	txID := uuid.New()

	f.repo.EXPECT().
		GetTransaction(gomock.Any(), txID).
		Return(&transaction.Transaction{ID: txID, UserID: uuid.New()}, nil)

	_, err := f.svc.Update(context.Background(), uuid.New(), txID, transaction.UpdateParams{})

	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestService_Delete_ReversesCurrentStateBeforeRemoval(t *testing.T) {
	f := newFixture(t)

	userID := uuid.New()
	accountID := uuid.New()
	txID := uuid.New()
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	existing := &transaction.Transaction{
		ID:        txID,
		UserID:    userID,
		AccountID: accountID,
		Amount:    dec(300),
		Type:      transaction.TypeExpense,
		Category:  "Food",
		Date:      date,
	}

	f.repo.EXPECT().GetTransaction(gomock.Any(), txID).Return(existing, nil)

	// Budget reversal, then balance reversal, then record removal.
	gomock.InOrder(
		f.tracker.EXPECT().
			ReverseExpense(gomock.Any(), userID, "Food", date, decEq{dec(300)}).
			Return(nil),
		f.ledger.EXPECT().
			ApplyDelta(gomock.Any(), accountID, decEq{dec(300)}).
			Return(dec(1200), nil),
		f.repo.EXPECT().DeleteTransaction(gomock.Any(), txID).Return(nil),
	)

	require.NoError(t, f.svc.Delete(context.Background(), userID, txID))
}

func TestService_Delete_BalanceFailureKeepsRecord(t *testing.T) {
	f := newFixture(t)

	userID := uuid.New()
	txID := uuid.New()

	existing := &transaction.Transaction{
		ID:        txID,
		UserID:    userID,
		AccountID: uuid.New(),
		Amount:    dec(50),
		Type:      transaction.TypeIncome,
		Category:  transaction.DefaultCategory,
		Date:      time.Now(),
	}

	f.repo.EXPECT().GetTransaction(gomock.Any(), txID).Return(existing, nil)
	f.ledger.EXPECT().
		ApplyDelta(gomock.Any(), existing.AccountID, gomock.Any()).
		Return(decimal.Decimal{}, errors.New("connection reset"))
	// No DeleteTransaction expectation: the record survives a failed reversal.

	err := f.svc.Delete(context.Background(), userID, txID)

	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestService_List_ChecksAccountOwnership(t *testing.T) {
	f := newFixture(t)

	userID := uuid.New()
	accountID := uuid.New()

	f.ledger.EXPECT().
		Get(gomock.Any(), userID, accountID).
		Return(nil, account.ErrForbidden)

	_, err := f.svc.List(context.Background(), userID, transaction.ListFilter{AccountID: &accountID})

	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}
