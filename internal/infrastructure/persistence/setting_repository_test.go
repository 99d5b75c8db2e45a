package persistence

import (
	"context"
	"testing"

	"github.com/receivable360/backend/internal/domain/receivable"
	"github.com/receivable360/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSettingRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSettingRepository(db)
	ctx := context.Background()

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		_, err := repo.Get(ctx, receivable.SettingCostOfCashAnnual)
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("upsert inserts then overwrites", func(t *testing.T) {
		s := &receivable.Setting{Key: receivable.SettingCostOfCashAnnual, Value: 45}
		require.NoError(t, repo.Upsert(ctx, s))

		got, err := repo.Get(ctx, receivable.SettingCostOfCashAnnual)
		require.NoError(t, err)
		assert.Equal(t, 45.0, got.Value)

		s.Value = 52.5
		require.NoError(t, repo.Upsert(ctx, s))

		got, err = repo.Get(ctx, receivable.SettingCostOfCashAnnual)
		require.NoError(t, err)
		assert.Equal(t, 52.5, got.Value)
	})
}

func TestGormActionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormActionRepository(db)
	ctx := context.Background()

	mustAction := func(customerNo *string, name, actionType string) *receivable.Action {
		a, err := receivable.NewAction(customerNo, name, actionType, "note")
		require.NoError(t, err)
		return a
	}

	first := mustAction(testStr("C-1"), "Acme", "call")
	second := mustAction(testStr("C-1"), "Acme", "email")
	second.CreatedAt = first.CreatedAt.Add(1) // force a stable order
	other := mustAction(nil, "Beta", "visit")

	for _, a := range []*receivable.Action{first, second, other} {
		require.NoError(t, repo.Save(ctx, a))
	}

	t.Run("lists newest first", func(t *testing.T) {
		actions, err := repo.List(ctx, nil, 0)
		require.NoError(t, err)
		require.Len(t, actions, 3)
		assert.False(t, actions[0].CreatedAt.Before(actions[1].CreatedAt))
	})

	t.Run("filters by customer number", func(t *testing.T) {
		actions, err := repo.List(ctx, testStr("C-1"), 0)
		require.NoError(t, err)
		assert.Len(t, actions, 2)
	})

	t.Run("applies limit", func(t *testing.T) {
		actions, err := repo.List(ctx, nil, 1)
		require.NoError(t, err)
		assert.Len(t, actions, 1)
	})

	t.Run("finds by ID and persists status change", func(t *testing.T) {
		first.Close()
		require.NoError(t, repo.Save(ctx, first))

		got, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, receivable.ActionStatusDone, got.Status)
	})
}
