package persistence

import (
	"context"
	"testing"

	"github.com/receivable360/backend/internal/domain/receivable"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPaymentRepository_ReplaceBatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	firstBatch := []*receivable.Payment{
		{CustomerNo: testStr("C-1"), CustomerName: "Acme", AppliedAmount: decimal.NewFromInt(100)},
		{CustomerNo: testStr("C-2"), CustomerName: "Beta", AppliedAmount: decimal.NewFromInt(200)},
	}
	require.NoError(t, repo.SaveBatch(ctx, firstBatch))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	t.Run("DeleteAll then SaveBatch replaces the table", func(t *testing.T) {
		require.NoError(t, repo.DeleteAll(ctx))

		secondBatch := []*receivable.Payment{
			{CustomerNo: testStr("C-3"), CustomerName: "Gamma", AppliedAmount: decimal.NewFromInt(300)},
		}
		require.NoError(t, repo.SaveBatch(ctx, secondBatch))

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Gamma", all[0].CustomerName)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		require.NoError(t, repo.SaveBatch(ctx, nil))
	})
}

func TestGormPaymentRepository_FindByCustomer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	batch := []*receivable.Payment{
		{CustomerNo: testStr("C-1"), CustomerName: "Acme", PaymentDate: testDate(2025, 2, 1), AppliedAmount: decimal.NewFromInt(100)},
		{CustomerNo: testStr("C-1"), CustomerName: "Acme", PaymentDate: testDate(2025, 1, 1), AppliedAmount: decimal.NewFromInt(50)},
		{CustomerName: "Beta", PaymentDate: testDate(2025, 1, 15), AppliedAmount: decimal.NewFromInt(70)},
	}
	require.NoError(t, repo.SaveBatch(ctx, batch))

	t.Run("by customer number ordered by payment date", func(t *testing.T) {
		payments, err := repo.FindByCustomerNo(ctx, "C-1")
		require.NoError(t, err)
		require.Len(t, payments, 2)
		assert.True(t, payments[0].PaymentDate.Before(*payments[1].PaymentDate))
	})

	t.Run("by customer name when number is missing", func(t *testing.T) {
		payments, err := repo.FindByCustomerName(ctx, "Beta")
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Nil(t, payments[0].CustomerNo)
	})
}
