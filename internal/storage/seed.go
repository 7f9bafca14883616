package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/splitgroups/internal/calculator"
	"github.com/mmynk/splitgroups/internal/models"
)

var demoMembers = map[string]models.Member{
	"1": {ID: "1", Name: "Alice", Email: "alice@example.com"},
	"2": {ID: "2", Name: "Bob", Email: "bob@example.com"},
	"3": {ID: "3", Name: "Charlie", Email: "charlie@example.com"},
	"4": {ID: "4", Name: "Diana", Email: "diana@example.com"},
	"5": {ID: "5", Name: "Eve", Email: "eve@example.com"},
	"6": {ID: "6", Name: "Frank", Email: "frank@example.com"},
}

type demoExpense struct {
	id          string
	description string
	amount      float64
	paidBy      string
	policy      calculator.SplitPolicy
	date        string
}

type demoGroup struct {
	id          string
	name        string
	description string
	members     []string
	date        string
	expenses    []demoExpense
}

var demoGroups = []demoGroup{
	{
		id: "1", name: "Weekend Trip", description: "Beach vacation expenses",
		members: []string{"1", "2", "3"}, date: "2024-01-15",
		expenses: []demoExpense{
			{"1", "Dinner at Beach Restaurant", 120.50, "1", calculator.EqualPolicy{Members: []string{"1", "2", "3"}}, "2024-01-20"},
			{"2", "Uber to Airport", 45.75, "3", calculator.EqualPolicy{Members: []string{"1", "2", "3"}}, "2024-01-17"},
		},
	},
	{
		id: "2", name: "House Expenses", description: "Shared apartment costs",
		members: []string{"1", "4"}, date: "2024-01-01",
		expenses: []demoExpense{
			{"3", "Grocery Shopping", 85.30, "4", calculator.PercentagePolicy{Shares: []calculator.MemberShare{
				{MemberID: "1", Percentage: 60},
				{MemberID: "4", Percentage: 40},
			}}, "2024-01-19"},
		},
	},
	{
		id: "3", name: "Office Lunch", description: "Team lunch expenses",
		members: []string{"1", "2", "5", "6"}, date: "2024-01-20",
		expenses: []demoExpense{
			{"4", "Team Pizza Lunch", 89.50, "2", calculator.EqualPolicy{Members: []string{"1", "2", "5", "6"}}, "2024-01-18"},
		},
	},
}

// SeedDemo loads the demo groups, members and expenses into store.
// Splits are computed with the calculator so the data is always consistent.
func SeedDemo(ctx context.Context, store Store) error {
	for _, dg := range demoGroups {
		group := &models.Group{
			ID:          dg.id,
			Name:        dg.name,
			Description: dg.description,
			CreatedAt:   mustUnix(dg.date),
		}
		for _, id := range dg.members {
			group.Members = append(group.Members, demoMembers[id])
		}
		if err := store.CreateGroup(ctx, group); err != nil {
			return fmt.Errorf("failed to seed group %s: %w", dg.name, err)
		}

		for _, de := range dg.expenses {
			splits, err := calculator.ComputeSplits(de.policy, de.amount)
			if err != nil {
				return fmt.Errorf("failed to split demo expense %s: %w", de.description, err)
			}
			expense := &models.Expense{
				ID:          de.id,
				GroupID:     dg.id,
				Description: de.description,
				Amount:      de.amount,
				PaidBy:      de.paidBy,
				SplitType:   de.policy.Type(),
				Splits:      splits,
				CreatedAt:   mustUnix(de.date),
			}
			if err := store.CreateExpense(ctx, expense); err != nil {
				return fmt.Errorf("failed to seed expense %s: %w", de.description, err)
			}
		}
	}
	return nil
}

func mustUnix(date string) int64 {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return t.Unix()
}
