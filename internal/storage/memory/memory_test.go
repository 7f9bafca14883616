package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitgroups/internal/models"
	"github.com/mmynk/splitgroups/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := New()
	clock := time.Unix(1_700_000_000, 0)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_Groups(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	t.Run("CreateGroup generates IDs and timestamp", func(t *testing.T) {
		group := &models.Group{
			Name:    "Roommates",
			Members: []models.Member{{Name: "Alice", Email: "alice@example.com"}, {ID: "bob", Name: "Bob"}},
		}
		require.NoError(t, store.CreateGroup(ctx, group))

		assert.NotEmpty(t, group.ID)
		assert.NotZero(t, group.CreatedAt)
		assert.NotEmpty(t, group.Members[0].ID)
		assert.Equal(t, "bob", group.Members[1].ID)
	})

	t.Run("CreateGroup rejects duplicate IDs", func(t *testing.T) {
		require.NoError(t, store.CreateGroup(ctx, &models.Group{ID: "dup", Name: "First"}))
		assert.ErrorIs(t, store.CreateGroup(ctx, &models.Group{ID: "dup", Name: "Second"}), storage.ErrConflict)
	})

	t.Run("CreateGroup rejects repeated member IDs", func(t *testing.T) {
		group := &models.Group{
			ID:      "twice",
			Name:    "Twice",
			Members: []models.Member{{ID: "x", Name: "X"}, {ID: "x", Name: "X2"}, {ID: "y", Name: "Y"}},
		}
		err := store.CreateGroup(ctx, group)
		assert.ErrorIs(t, err, storage.ErrConflict)
		assert.Contains(t, err.Error(), "member x")

		_, err = store.GetGroup(ctx, "twice")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("GetGroup returns a copy", func(t *testing.T) {
		group := &models.Group{Name: "Trip", Members: []models.Member{{ID: "a", Name: "A"}}}
		require.NoError(t, store.CreateGroup(ctx, group))

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		got.Members[0].Name = "changed"
		got.Name = "changed"

		again, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, "Trip", again.Name)
		assert.Equal(t, "A", again.Members[0].Name)
	})

	t.Run("GetGroup returns ErrNotFound for nonexistent group", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("AddGroupMembers skips existing members", func(t *testing.T) {
		group := &models.Group{Name: "Lunch", Members: []models.Member{{ID: "a", Name: "A"}}}
		require.NoError(t, store.CreateGroup(ctx, group))

		updated, err := store.AddGroupMembers(ctx, group.ID, []models.Member{
			{ID: "a", Name: "A again"},
			{ID: "b", Name: "B"},
			{Name: "C"},
		})
		require.NoError(t, err)
		require.Len(t, updated.Members, 3)
		assert.Equal(t, "A", updated.Members[0].Name)
		assert.NotEmpty(t, updated.Members[2].ID)

		_, err = store.AddGroupMembers(ctx, "missing", nil)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ListGroupsByMember filters by membership", func(t *testing.T) {
		require.NoError(t, store.CreateGroup(ctx, &models.Group{Name: "X", Members: []models.Member{{ID: "zed"}}}))
		require.NoError(t, store.CreateGroup(ctx, &models.Group{Name: "Y", Members: []models.Member{{ID: "zed"}, {ID: "amy"}}}))

		groups, err := store.ListGroupsByMember(ctx, "zed")
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "X", groups[0].Name)
		assert.Equal(t, "Y", groups[1].Name)

		all, err := store.ListGroups(ctx)
		require.NoError(t, err)
		assert.Greater(t, len(all), 2)
	})
}

func TestStore_Expenses(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	group := &models.Group{ID: "g1", Name: "Trip", Members: []models.Member{{ID: "a"}, {ID: "b"}}}
	require.NoError(t, store.CreateGroup(ctx, group))
	other := &models.Group{ID: "g2", Name: "House", Members: []models.Member{{ID: "a"}}}
	require.NoError(t, store.CreateGroup(ctx, other))

	newExpense := func(groupID, desc string) *models.Expense {
		return &models.Expense{
			GroupID:     groupID,
			Description: desc,
			Amount:      10,
			PaidBy:      "a",
			SplitType:   models.SplitTypeEqual,
			Splits:      []models.Split{{MemberID: "a", Amount: 5}, {MemberID: "b", Amount: 5}},
		}
	}

	first := newExpense("g1", "first")
	second := newExpense("g1", "second")
	third := newExpense("g2", "third")
	for _, e := range []*models.Expense{first, second, third} {
		require.NoError(t, store.CreateExpense(ctx, e))
		assert.NotEmpty(t, e.ID)
		assert.NotZero(t, e.CreatedAt)
	}

	t.Run("CreateExpense requires an existing group", func(t *testing.T) {
		err := store.CreateExpense(ctx, newExpense("missing", "orphan"))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("GetExpense returns a copy", func(t *testing.T) {
		got, err := store.GetExpense(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, *first, *got)

		got.Splits[0].Amount = 99
		again, err := store.GetExpense(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, 5.0, again.Splits[0].Amount)
	})

	t.Run("caller mutation after create does not leak", func(t *testing.T) {
		e := newExpense("g1", "mutable")
		require.NoError(t, store.CreateExpense(ctx, e))
		e.Splits[0].Amount = 42

		got, err := store.GetExpense(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, 5.0, got.Splits[0].Amount)
		require.NoError(t, store.DeleteExpense(ctx, e.ID))
	})

	t.Run("ListExpensesByGroup returns newest first", func(t *testing.T) {
		expenses, err := store.ListExpensesByGroup(ctx, "g1")
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		assert.Equal(t, "second", expenses[0].Description)
		assert.Equal(t, "first", expenses[1].Description)

		_, err = store.ListExpensesByGroup(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ListRecentExpenses honors limit", func(t *testing.T) {
		recent, err := store.ListRecentExpenses(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "third", recent[0].Description)
		assert.Equal(t, "second", recent[1].Description)

		all, err := store.ListRecentExpenses(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		require.NoError(t, store.DeleteExpense(ctx, third.ID))
		_, err := store.GetExpense(ctx, third.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteExpense(ctx, third.ID), storage.ErrNotFound)
	})

	t.Run("DeleteGroup cascades", func(t *testing.T) {
		require.NoError(t, store.CreateSettlement(ctx, &models.Settlement{GroupID: "g1", FromMemberID: "b", ToMemberID: "a", Amount: 5}))
		require.NoError(t, store.DeleteGroup(ctx, "g1"))

		_, err := store.GetExpense(ctx, first.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.ListSettlementsByGroup(ctx, "g1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteGroup(ctx, "g1"), storage.ErrNotFound)
	})
}

func TestStore_Settlements(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.CreateGroup(ctx, &models.Group{ID: "g1", Members: []models.Member{{ID: "a"}, {ID: "b"}}}))

	first := &models.Settlement{GroupID: "g1", FromMemberID: "b", ToMemberID: "a", Amount: 5}
	second := &models.Settlement{GroupID: "g1", FromMemberID: "b", ToMemberID: "a", Amount: 7, Note: "cash"}
	require.NoError(t, store.CreateSettlement(ctx, first))
	require.NoError(t, store.CreateSettlement(ctx, second))
	assert.NotEmpty(t, first.ID)

	settlements, err := store.ListSettlementsByGroup(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, settlements, 2)
	assert.Equal(t, "cash", settlements[0].Note)
	assert.Equal(t, 5.0, settlements[1].Amount)

	err = store.CreateSettlement(ctx, &models.Settlement{GroupID: "missing", Amount: 1})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
