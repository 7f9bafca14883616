package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitgroups/internal/calculator"
	"github.com/mmynk/splitgroups/internal/models"
	"github.com/mmynk/splitgroups/internal/storage"
	"github.com/mmynk/splitgroups/internal/storage/memory"
)

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, storage.SeedDemo(ctx, store))

	groups, err := store.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "House Expenses", groups[0].Name, "oldest group first")

	for _, g := range groups {
		expenses, err := store.ListExpensesByGroup(ctx, g.ID)
		require.NoError(t, err)
		require.NotEmpty(t, expenses)

		values := make([]models.Expense, len(expenses))
		for i, e := range expenses {
			values[i] = *e
		}
		balances, err := calculator.GroupBalances(*g, values)
		require.NoError(t, err, "seeded group %s must be consistent", g.Name)

		var sum float64
		for _, b := range balances {
			sum += b.Amount
		}
		assert.InDelta(t, 0, sum, 0.01)
	}

	dinner, err := store.GetExpense(ctx, "1")
	require.NoError(t, err)
	require.Len(t, dinner.Splits, 3)
	assert.Equal(t, 40.17, dinner.Splits[0].Amount)
	assert.Equal(t, 40.17, dinner.Splits[1].Amount)
	assert.Equal(t, 40.16, dinner.Splits[2].Amount)
}

func TestSeedDemo_Twice(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, storage.SeedDemo(ctx, store))
	assert.Error(t, storage.SeedDemo(ctx, store), "seeding twice collides on fixed IDs")
}
