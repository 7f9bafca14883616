package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/mmynk/splitgroups/internal/calculator"
	"github.com/mmynk/splitgroups/internal/metrics"
	"github.com/mmynk/splitgroups/internal/models"
	"github.com/mmynk/splitgroups/internal/storage"
	"github.com/mmynk/splitgroups/pkg/api"
	"github.com/mmynk/splitgroups/pkg/api/apiconnect"
)

// DefaultRecentExpenses is the number of expenses ListRecentExpenses returns
// when the request does not set a limit.
const DefaultRecentExpenses = 10

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	apiconnect.UnimplementedExpenseServiceHandler
	store   storage.Store
	metrics *metrics.Collector
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
// collector may be nil.
func NewExpenseService(store storage.Store, collector *metrics.Collector) *ExpenseService {
	return &ExpenseService{store: store, metrics: collector}
}

// splitPolicy builds the policy described by a request.
func splitPolicy(splitType string, memberIDs []string, shares []*api.Share) (calculator.SplitPolicy, error) {
	st, err := models.ParseSplitType(splitType)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	switch st {
	case models.SplitTypePercentage:
		ms := make([]calculator.MemberShare, len(shares))
		for i, sh := range shares {
			ms[i] = calculator.MemberShare{MemberID: sh.MemberId, Percentage: sh.Percentage}
		}
		return calculator.PercentagePolicy{Shares: ms}, nil
	default:
		return calculator.EqualPolicy{Members: memberIDs}, nil
	}
}

// PreviewSplit computes splits without saving anything.
func (s *ExpenseService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	slog.Info("PreviewSplit request received",
		"amount", req.Msg.Amount,
		"split_type", req.Msg.SplitType,
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	policy, err := splitPolicy(req.Msg.SplitType, req.Msg.MemberIds, req.Msg.Shares)
	if err != nil {
		return nil, err
	}
	splits, err := calculator.ComputeSplits(policy, req.Msg.Amount)
	if err != nil {
		slog.Warn("PreviewSplit rejected", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("PreviewSplit successful", "splits_count", len(splits))

	return connect.NewResponse(&api.PreviewSplitResponse{
		Splits: toAPISplits(splits),
	}), nil
}

// CreateExpense computes the splits of a new expense and saves it.
// An equal split without member IDs is shared by the whole group.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupId,
		"amount", req.Msg.Amount,
		"paid_by", req.Msg.PaidBy,
		"split_type", req.Msg.SplitType,
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("CreateExpense failed - group not found", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}

	memberIDs := req.Msg.MemberIds
	if len(memberIDs) == 0 {
		memberIDs = group.MemberIDs()
	}
	policy, err := splitPolicy(req.Msg.SplitType, memberIDs, req.Msg.Shares)
	if err != nil {
		return nil, err
	}
	splits, err := calculator.ComputeSplits(policy, req.Msg.Amount)
	if err != nil {
		slog.Warn("CreateExpense rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		PaidBy:      req.Msg.PaidBy,
		SplitType:   policy.Type(),
		Splits:      splits,
	}
	if err := calculator.ValidateExpense(*group, *expense); err != nil {
		slog.Warn("CreateExpense rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.ExpenseCreated(string(expense.SplitType), expense.Amount)

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", group.ID)

	return connect.NewResponse(&api.CreateExpenseResponse{
		Expense: toAPIExpense(expense, group.Name),
	}), nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "expense_id", req.Msg.ExpenseId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseId)
	if err != nil {
		slog.Error("GetExpense failed", "expense_id", req.Msg.ExpenseId, "error", err)
		return nil, toConnectError(err)
	}
	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		slog.Error("GetExpense failed - group not found", "group_id", expense.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetExpense successful", "expense_id", expense.ID)

	return connect.NewResponse(&api.GetExpenseResponse{
		Expense: toAPIExpense(expense, group.Name),
	}), nil
}

// ListExpensesByGroup retrieves the expenses of a group, newest first.
func (s *ExpenseService) ListExpensesByGroup(ctx context.Context, req *connect.Request[api.ListExpensesByGroupRequest]) (*connect.Response[api.ListExpensesByGroupResponse], error) {
	slog.Info("ListExpensesByGroup request received", "group_id", req.Msg.GroupId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("ListExpensesByGroup failed - group not found", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("ListExpensesByGroup failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	apiExpenses := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		apiExpenses[i] = toAPIExpense(e, group.Name)
	}

	slog.Info("ListExpensesByGroup successful", "group_id", group.ID, "count", len(expenses))

	return connect.NewResponse(&api.ListExpensesByGroupResponse{
		Expenses: apiExpenses,
	}), nil
}

// ListRecentExpenses retrieves the newest expenses across all groups.
func (s *ExpenseService) ListRecentExpenses(ctx context.Context, req *connect.Request[api.ListRecentExpensesRequest]) (*connect.Response[api.ListRecentExpensesResponse], error) {
	slog.Info("ListRecentExpenses request received", "limit", req.Msg.Limit)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	limit := req.Msg.Limit
	if limit == 0 {
		limit = DefaultRecentExpenses
	}
	expenses, err := s.store.ListRecentExpenses(ctx, limit)
	if err != nil {
		slog.Error("ListRecentExpenses failed", "error", err)
		return nil, toConnectError(err)
	}
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListRecentExpenses failed", "error", err)
		return nil, toConnectError(err)
	}
	names := make(map[string]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}

	apiExpenses := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		apiExpenses[i] = toAPIExpense(e, names[e.GroupID])
	}

	slog.Info("ListRecentExpenses successful", "count", len(expenses))

	return connect.NewResponse(&api.ListRecentExpensesResponse{
		Expenses: apiExpenses,
	}), nil
}

// DeleteExpense removes an expense by ID.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseId); err != nil {
		slog.Error("DeleteExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense deleted", "expense_id", req.Msg.ExpenseId)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// RecordSettlement records a payment from one group member to another.
func (s *ExpenseService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	slog.Info("RecordSettlement request received",
		"group_id", req.Msg.GroupId,
		"from", req.Msg.FromMemberId,
		"to", req.Msg.ToMemberId,
		"amount", req.Msg.Amount,
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("RecordSettlement failed - group not found", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}

	settlement := &models.Settlement{
		GroupID:      group.ID,
		FromMemberID: req.Msg.FromMemberId,
		ToMemberID:   req.Msg.ToMemberId,
		Amount:       req.Msg.Amount,
		Note:         req.Msg.Note,
	}

	// Check the settlement against the current balances before saving it.
	gb, err := groupBalance(ctx, s.store, group)
	if err != nil {
		slog.Error("RecordSettlement failed - calculation error", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	if _, err := calculator.ApplySettlements(gb.Balances, []models.Settlement{*settlement}); err != nil {
		slog.Warn("RecordSettlement rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.SettlementRecorded()

	slog.Info("Settlement recorded", "settlement_id", settlement.ID, "group_id", group.ID)

	return connect.NewResponse(&api.RecordSettlementResponse{
		Settlement: toAPISettlement(settlement),
	}), nil
}

// ListSettlements retrieves the settlements of a group, newest first.
func (s *ExpenseService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received", "group_id", req.Msg.GroupId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if _, err := s.store.GetGroup(ctx, req.Msg.GroupId); err != nil {
		slog.Error("ListSettlements failed - group not found", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}

	apiSettlements := make([]*api.Settlement, len(settlements))
	for i, st := range settlements {
		apiSettlements[i] = toAPISettlement(st)
	}

	slog.Info("ListSettlements successful", "group_id", req.Msg.GroupId, "count", len(settlements))

	return connect.NewResponse(&api.ListSettlementsResponse{
		Settlements: apiSettlements,
	}), nil
}
