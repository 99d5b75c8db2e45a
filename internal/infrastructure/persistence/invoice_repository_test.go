package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/receivable360/backend/internal/domain/receivable"
	"github.com/receivable360/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDate(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func testStr(s string) *string { return &s }

func TestGormInvoiceRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	t.Run("saves new invoice and assigns ID", func(t *testing.T) {
		inv := &receivable.Invoice{
			InvoiceNo:    "INV-100",
			CustomerNo:   testStr("C-1"),
			CustomerName: "Acme",
			InvoiceDate:  testDate(2025, 1, 1),
			DueDate:      testDate(2025, 1, 31),
			Currency:     "TRY",
			TotalAmount:  decimal.NewFromInt(1000),
			OpenBalance:  decimal.NewFromInt(400),
		}
		require.NoError(t, repo.Save(ctx, inv))
		assert.NotZero(t, inv.ID)

		found, err := repo.FindByInvoiceNo(ctx, "INV-100")
		require.NoError(t, err)
		assert.Equal(t, "Acme", found.CustomerName)
		assert.True(t, found.OpenBalance.Equal(decimal.NewFromInt(400)))
	})

	t.Run("updates existing invoice in place", func(t *testing.T) {
		existing, err := repo.FindByInvoiceNo(ctx, "INV-100")
		require.NoError(t, err)

		existing.OpenBalance = decimal.Zero
		require.NoError(t, repo.Save(ctx, existing))

		found, err := repo.FindByInvoiceNo(ctx, "INV-100")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, found.ID)
		assert.True(t, found.OpenBalance.IsZero())
	})

	t.Run("returns ErrNotFound for unknown invoice", func(t *testing.T) {
		_, err := repo.FindByInvoiceNo(ctx, "NOPE")
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormInvoiceRepository_LatestByCustomerName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	seed := []*receivable.Invoice{
		{InvoiceNo: "A-1", CustomerName: "Acme", InvoiceDate: testDate(2025, 1, 1), DueDate: testDate(2025, 1, 31)},
		{InvoiceNo: "A-2", CustomerName: "Acme", InvoiceDate: testDate(2025, 3, 1), DueDate: testDate(2025, 4, 15)},
		{InvoiceNo: "B-1", CustomerName: "Beta", InvoiceDate: testDate(2025, 2, 1), DueDate: testDate(2025, 2, 28)},
	}
	for _, inv := range seed {
		require.NoError(t, repo.Save(ctx, inv))
	}

	t.Run("returns most recent invoice by invoice date", func(t *testing.T) {
		latest, err := repo.LatestByCustomerName(ctx, "Acme")
		require.NoError(t, err)
		assert.Equal(t, "A-2", latest.InvoiceNo)
	})

	t.Run("returns ErrNotFound for unknown customer", func(t *testing.T) {
		_, err := repo.LatestByCustomerName(ctx, "Ghost")
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormCustomerRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	t.Run("saves and finds by customer number", func(t *testing.T) {
		c := &receivable.Customer{CustomerNo: testStr("C-9"), Name: "Gamma"}
		require.NoError(t, repo.Save(ctx, c))
		assert.NotZero(t, c.ID)

		found, err := repo.FindByCustomerNo(ctx, "C-9")
		require.NoError(t, err)
		assert.Equal(t, "Gamma", found.Name)
	})

	t.Run("finds by exact name", func(t *testing.T) {
		found, err := repo.FindByName(ctx, "Gamma")
		require.NoError(t, err)
		assert.Equal(t, testStr("C-9"), found.CustomerNo)
	})

	t.Run("filters by region including the no-region bucket", func(t *testing.T) {
		regionRepo := NewGormRegionRepository(db)
		region := &receivable.Region{Name: "West"}
		require.NoError(t, regionRepo.Save(ctx, region))

		assigned := &receivable.Customer{Name: "Delta", RegionID: &region.ID}
		require.NoError(t, repo.Save(ctx, assigned))

		inRegion, err := repo.FindByRegion(ctx, &region.ID)
		require.NoError(t, err)
		require.Len(t, inRegion, 1)
		assert.Equal(t, "Delta", inRegion[0].Name)

		unassigned, err := repo.FindByRegion(ctx, nil)
		require.NoError(t, err)
		require.Len(t, unassigned, 1)
		assert.Equal(t, "Gamma", unassigned[0].Name)
	})

	t.Run("returns ErrNotFound for unknown customer", func(t *testing.T) {
		_, err := repo.FindByCustomerNo(ctx, "NOPE")
		assert.Equal(t, shared.ErrNotFound, err)
	})
}
