package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/moneta-app/moneta/internal/report"
)

func TestService_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	repo := report.NewMockRepository(ctrl)
	repo.EXPECT().
		SumByType(gomock.Any(), userID, from, to).
		Return(decimal.NewFromInt(3000), decimal.NewFromInt(1200), nil)

	svc := report.NewService(repo)

	got, err := svc.Summary(context.Background(), userID, from, to)
	require.NoError(t, err)
	assert.True(t, got.Net.Equal(decimal.NewFromInt(1800)), "got %s", got.Net)
}

func TestService_AccountOverview(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	repo := report.NewMockRepository(ctrl)
	repo.EXPECT().
		ListAccountBalances(gomock.Any(), userID).
		Return([]report.AccountBalance{
			{Name: "Checking", Balance: decimal.NewFromInt(1200)},
			{Name: "Savings", Balance: decimal.NewFromInt(5000)},
		}, nil)

	svc := report.NewService(repo)

	got, err := svc.AccountOverview(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, got.Accounts, 2)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(6200)))
}
