package service

import (
	"github.com/mmynk/splitgroups/internal/models"
	"github.com/mmynk/splitgroups/pkg/api"
)

func toAPIGroup(g *models.Group, totalExpenses float64) *api.Group {
	members := make([]*api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = &api.Member{Id: m.ID, Name: m.Name, Email: m.Email}
	}
	return &api.Group{
		Id:            g.ID,
		Name:          g.Name,
		Description:   g.Description,
		Members:       members,
		TotalExpenses: totalExpenses,
		CreatedAt:     g.CreatedAt,
	}
}

func fromAPIMembers(in []*api.NewMember) []models.Member {
	members := make([]models.Member, len(in))
	for i, m := range in {
		members[i] = models.Member{ID: m.Id, Name: m.Name, Email: m.Email}
	}
	return members
}

func toAPISplits(splits []models.Split) []*api.Split {
	out := make([]*api.Split, len(splits))
	for i, s := range splits {
		out[i] = &api.Split{MemberId: s.MemberID, Amount: s.Amount, Percentage: s.Percentage}
	}
	return out
}

func toAPIExpense(e *models.Expense, groupName string) *api.Expense {
	return &api.Expense{
		Id:          e.ID,
		GroupId:     e.GroupID,
		GroupName:   groupName,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy,
		SplitType:   string(e.SplitType),
		Splits:      toAPISplits(e.Splits),
		CreatedAt:   e.CreatedAt,
	}
}

func toAPIBalances(balances []models.Balance) []*api.Balance {
	out := make([]*api.Balance, len(balances))
	for i, b := range balances {
		out[i] = &api.Balance{
			MemberId:   b.MemberID,
			MemberName: b.MemberName,
			Amount:     b.Amount,
			TotalPaid:  b.TotalPaid,
			TotalShare: b.TotalShare,
		}
	}
	return out
}

func toAPIGroupBalances(groups []models.GroupBalance) []*api.GroupBalance {
	out := make([]*api.GroupBalance, len(groups))
	for i, g := range groups {
		out[i] = &api.GroupBalance{
			GroupId:   g.GroupID,
			GroupName: g.GroupName,
			Balances:  toAPIBalances(g.Balances),
		}
	}
	return out
}

func toAPIDebts(debts []models.DebtEdge) []*api.DebtEdge {
	out := make([]*api.DebtEdge, len(debts))
	for i, d := range debts {
		out[i] = &api.DebtEdge{From: d.From, To: d.To, Amount: d.Amount}
	}
	return out
}

func toAPISettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		Id:           s.ID,
		GroupId:      s.GroupID,
		FromMemberId: s.FromMemberID,
		ToMemberId:   s.ToMemberID,
		Amount:       s.Amount,
		Note:         s.Note,
		CreatedAt:    s.CreatedAt,
	}
}

func derefExpenses(in []*models.Expense) []models.Expense {
	out := make([]models.Expense, len(in))
	for i, e := range in {
		out[i] = *e
	}
	return out
}

func derefSettlements(in []*models.Settlement) []models.Settlement {
	out := make([]models.Settlement, len(in))
	for i, s := range in {
		out[i] = *s
	}
	return out
}
