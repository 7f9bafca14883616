package calculator

import (
	"sort"

	"github.com/mmynk/splitgroups/internal/models"
)

// ValidateExpense checks that expense is consistent with group: it belongs to
// the group, its payer and every split member are group members, and its
// splits sum to its amount within Tolerance. Percentage expenses must also
// carry percentages summing to 100 within Tolerance.
func ValidateExpense(group models.Group, expense models.Expense) error {
	if expense.GroupID != group.ID {
		return invalidf("expense %s does not belong to group %s", expense.ID, group.ID)
	}
	if _, err := amountToCents(expense.Amount); err != nil {
		return invalidf("expense %s: %v", expense.ID, err)
	}
	if !group.HasMember(expense.PaidBy) {
		return invalidf("expense %s: payer %s is not a member of group %s", expense.ID, expense.PaidBy, group.ID)
	}
	if len(expense.Splits) == 0 {
		return invalidf("expense %s has no splits", expense.ID)
	}

	seen := make(map[string]struct{}, len(expense.Splits))
	var splitSum, pctSum float64
	for _, s := range expense.Splits {
		if !group.HasMember(s.MemberID) {
			return invalidf("expense %s: split member %s is not a member of group %s", expense.ID, s.MemberID, group.ID)
		}
		if _, dup := seen[s.MemberID]; dup {
			return invalidf("expense %s: duplicate split for member %s", expense.ID, s.MemberID)
		}
		seen[s.MemberID] = struct{}{}
		if s.Amount < 0 {
			return invalidf("expense %s: split amount for member %s must not be negative", expense.ID, s.MemberID)
		}
		splitSum += s.Amount
		pctSum += s.Percentage
	}
	if !withinTolerance(splitSum, expense.Amount) {
		return invalidf("expense %s: splits total %.2f, expected %.2f", expense.ID, splitSum, expense.Amount)
	}

	switch expense.SplitType {
	case models.SplitTypeEqual:
	case models.SplitTypePercentage:
		for _, s := range expense.Splits {
			if s.Percentage < 0 || s.Percentage > 100 {
				return invalidf("expense %s: percentage for member %s must be between 0 and 100", expense.ID, s.MemberID)
			}
		}
		if !withinTolerance(pctSum, 100) {
			return invalidf("expense %s: percentages must total 100%%, got %.2f%%", expense.ID, pctSum)
		}
	default:
		return invalidf("expense %s: unknown split type %q", expense.ID, expense.SplitType)
	}
	return nil
}

// GroupBalances computes one Balance per member of group, in group order.
//
// For each member: balance = Σ(amount of expenses the member paid) −
// Σ(split amounts charged to the member). Each expense's charges are
// re-allocated in cents in proportion to its split amounts, so the charges
// of an expense always equal its amount and the balances sum to exactly
// zero. All expenses are validated before any output is produced.
func GroupBalances(group models.Group, expenses []models.Expense) ([]models.Balance, error) {
	if len(group.Members) == 0 && len(expenses) > 0 {
		return nil, invalidf("group %s has no members", group.ID)
	}
	if err := checkMemberIDs(group.MemberIDs()); err != nil {
		return nil, invalidf("group %s: %v", group.ID, err)
	}
	for _, e := range expenses {
		if err := ValidateExpense(group, e); err != nil {
			return nil, err
		}
	}

	paid := make(map[string]int64, len(group.Members))
	share := make(map[string]int64, len(group.Members))
	for _, e := range expenses {
		cents := toCents(e.Amount)
		paid[e.PaidBy] += cents
		for i, c := range chargeCents(cents, e.Splits) {
			share[e.Splits[i].MemberID] += c
		}
	}

	balances := make([]models.Balance, len(group.Members))
	for i, m := range group.Members {
		balances[i] = models.Balance{
			MemberID:   m.ID,
			MemberName: m.Name,
			Amount:     fromCents(paid[m.ID] - share[m.ID]),
			TotalPaid:  fromCents(paid[m.ID]),
			TotalShare: fromCents(share[m.ID]),
		}
	}
	return balances, nil
}

// chargeCents spreads cents over splits in proportion to their amounts.
// Splits that carry no amount at all share cents equally.
func chargeCents(cents int64, splits []models.Split) []int64 {
	weights := make([]float64, len(splits))
	var total float64
	for i, s := range splits {
		weights[i] = s.Amount
		total += s.Amount
	}
	if total <= 0 {
		for i := range weights {
			weights[i] = 1
		}
	}
	return allocate(cents, weights)
}

// UserBalance aggregates memberID's balances across groups.
// TotalOwed sums the positive balances, TotalOwing the absolute values of
// the negative ones. Groups the member does not belong to contribute
// nothing. The per-group breakdown is returned unchanged.
func UserBalance(memberID string, groups []models.GroupBalance) models.UserBalance {
	var owed, owing int64
	breakdown := make([]models.GroupBalance, len(groups))
	for i, g := range groups {
		breakdown[i] = models.GroupBalance{
			GroupID:   g.GroupID,
			GroupName: g.GroupName,
			Balances:  append([]models.Balance(nil), g.Balances...),
		}
		for _, b := range g.Balances {
			if b.MemberID != memberID {
				continue
			}
			cents := toCents(b.Amount)
			if cents > 0 {
				owed += cents
			} else {
				owing -= cents
			}
		}
	}
	return models.UserBalance{
		MemberID:      memberID,
		TotalOwed:     fromCents(owed),
		TotalOwing:    fromCents(owing),
		GroupBalances: breakdown,
	}
}

// ApplySettlements adjusts balances for payments made between members.
// The payer's balance rises by the amount and the receiver's falls by it,
// so the sum of balances is unchanged. A new slice is returned.
func ApplySettlements(balances []models.Balance, settlements []models.Settlement) ([]models.Balance, error) {
	index := make(map[string]int, len(balances))
	out := make([]models.Balance, len(balances))
	for i, b := range balances {
		out[i] = b
		index[b.MemberID] = i
	}

	delta := make([]int64, len(out))
	for _, s := range settlements {
		from, ok := index[s.FromMemberID]
		if !ok {
			return nil, invalidf("settlement %s: unknown member %s", s.ID, s.FromMemberID)
		}
		to, ok := index[s.ToMemberID]
		if !ok {
			return nil, invalidf("settlement %s: unknown member %s", s.ID, s.ToMemberID)
		}
		if from == to {
			return nil, invalidf("settlement %s: member cannot pay themselves", s.ID)
		}
		cents, err := amountToCents(s.Amount)
		if err != nil {
			return nil, invalidf("settlement %s: %v", s.ID, err)
		}
		delta[from] += cents
		delta[to] -= cents
	}

	for i := range out {
		out[i].Amount = fromCents(toCents(out[i].Amount) + delta[i])
	}
	return out, nil
}

// SimplifyDebts suggests payments that settle every balance.
//
// Debtors and creditors are each sorted by amount, largest first (ties by
// member ID), then matched greedily. The result has at most n-1 edges.
func SimplifyDebts(balances []models.Balance) []models.DebtEdge {
	type position struct {
		id    string
		cents int64
	}

	var creditors, debtors []position
	for _, b := range balances {
		cents := toCents(b.Amount)
		switch {
		case cents > 0:
			creditors = append(creditors, position{b.MemberID, cents})
		case cents < 0:
			debtors = append(debtors, position{b.MemberID, -cents})
		}
	}

	byAmount := func(p []position) func(i, j int) bool {
		return func(i, j int) bool {
			if p[i].cents != p[j].cents {
				return p[i].cents > p[j].cents
			}
			return p[i].id < p[j].id
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	var edges []models.DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := min(debtors[i].cents, creditors[j].cents)
		edges = append(edges, models.DebtEdge{
			From:   debtors[i].id,
			To:     creditors[j].id,
			Amount: fromCents(amount),
		})

		debtors[i].cents -= amount
		creditors[j].cents -= amount
		if debtors[i].cents == 0 {
			i++
		}
		if creditors[j].cents == 0 {
			j++
		}
	}
	return edges
}

// TotalAmount sums the amounts of expenses in cents and returns the total
// in currency units.
func TotalAmount(expenses []models.Expense) float64 {
	var cents int64
	for _, e := range expenses {
		cents += toCents(e.Amount)
	}
	return fromCents(cents)
}
