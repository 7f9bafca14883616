package service

import (
	"context"
	"fmt"

	"github.com/mmynk/splitgroups/internal/calculator"
	"github.com/mmynk/splitgroups/internal/models"
	"github.com/mmynk/splitgroups/internal/storage"
)

// groupBalance computes the balances of group from its stored expenses,
// adjusted by the settlements recorded against it.
func groupBalance(ctx context.Context, store storage.Store, group *models.Group) (models.GroupBalance, error) {
	expenses, err := store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return models.GroupBalance{}, fmt.Errorf("list expenses: %w", err)
	}
	balances, err := calculator.GroupBalances(*group, derefExpenses(expenses))
	if err != nil {
		return models.GroupBalance{}, fmt.Errorf("group %s: %w", group.ID, err)
	}

	settlements, err := store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		return models.GroupBalance{}, fmt.Errorf("list settlements: %w", err)
	}
	balances, err = calculator.ApplySettlements(balances, derefSettlements(settlements))
	if err != nil {
		return models.GroupBalance{}, fmt.Errorf("group %s: %w", group.ID, err)
	}

	return models.GroupBalance{
		GroupID:   group.ID,
		GroupName: group.Name,
		Balances:  balances,
	}, nil
}

// groupTotal returns the sum of the group's expense amounts.
func groupTotal(ctx context.Context, store storage.Store, groupID string) (float64, error) {
	expenses, err := store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("list expenses: %w", err)
	}
	return calculator.TotalAmount(derefExpenses(expenses)), nil
}
