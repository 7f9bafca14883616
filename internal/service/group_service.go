package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/mmynk/splitgroups/internal/calculator"
	"github.com/mmynk/splitgroups/internal/metrics"
	"github.com/mmynk/splitgroups/internal/models"
	"github.com/mmynk/splitgroups/internal/storage"
	"github.com/mmynk/splitgroups/pkg/api"
	"github.com/mmynk/splitgroups/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	store   storage.Store
	metrics *metrics.Collector
}

// NewGroupService creates a new GroupService with the given storage backend.
// collector may be nil.
func NewGroupService(store storage.Store, collector *metrics.Collector) *GroupService {
	return &GroupService{store: store, metrics: collector}
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		Members:     fromAPIMembers(req.Msg.Members),
	}

	// Save to storage (generates ID, CreatedAt and member IDs)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.GroupCreated()

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{
		Group: toAPIGroup(group, 0),
	}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupId)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}
	total, err := groupTotal(ctx, s.store, group.ID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&api.GetGroupResponse{
		Group: toAPIGroup(group, total),
	}), nil
}

// ListGroups retrieves all groups, or the groups of one member.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received", "member_id", req.Msg.MemberId)

	var (
		groups []*models.Group
		err    error
	)
	if req.Msg.MemberId != "" {
		groups, err = s.store.ListGroupsByMember(ctx, req.Msg.MemberId)
	} else {
		groups, err = s.store.ListGroups(ctx)
	}
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	apiGroups := make([]*api.Group, len(groups))
	for i, group := range groups {
		total, err := groupTotal(ctx, s.store, group.ID)
		if err != nil {
			slog.Error("ListGroups failed", "group_id", group.ID, "error", err)
			return nil, toConnectError(err)
		}
		apiGroups[i] = toAPIGroup(group, total)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{
		Groups: apiGroups,
	}), nil
}

// AddMembers adds members to an existing group. Members whose ID is already
// in the group are skipped.
func (s *GroupService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	slog.Info("AddMembers request received",
		"group_id", req.Msg.GroupId,
		"members_count", len(req.Msg.Members),
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.store.AddGroupMembers(ctx, req.Msg.GroupId, fromAPIMembers(req.Msg.Members))
	if err != nil {
		slog.Error("AddMembers failed", "group_id", req.Msg.GroupId, "error", err)
		return nil, toConnectError(err)
	}
	total, err := groupTotal(ctx, s.store, group.ID)
	if err != nil {
		slog.Error("AddMembers failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Members added", "group_id", group.ID, "members_count", len(group.Members))

	return connect.NewResponse(&api.AddMembersResponse{
		Group: toAPIGroup(group, total),
	}), nil
}

// DeleteGroup removes a group by ID, along with its expenses and settlements.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupId)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupId); err != nil {
		slog.Error("DeleteGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupId)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// GetGroupBalances calculates balances across all expenses in a group and
// suggests the payments that settle them.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupId
	slog.Info("GetGroupBalances request received", "group_id", groupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed - group not found", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	gb, err := groupBalance(ctx, s.store, group)
	if err != nil {
		slog.Error("GetGroupBalances failed - calculation error", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	debts := calculator.SimplifyDebts(gb.Balances)

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"members_count", len(gb.Balances),
		"debts_count", len(debts),
	)

	return connect.NewResponse(&api.GetGroupBalancesResponse{
		GroupId:   gb.GroupID,
		GroupName: gb.GroupName,
		Balances:  toAPIBalances(gb.Balances),
		Debts:     toAPIDebts(debts),
	}), nil
}

// GetUserBalance aggregates a member's balances across every group they belong to.
func (s *GroupService) GetUserBalance(ctx context.Context, req *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error) {
	memberID := req.Msg.MemberId
	slog.Info("GetUserBalance request received", "member_id", memberID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsByMember(ctx, memberID)
	if err != nil {
		slog.Error("GetUserBalance failed", "member_id", memberID, "error", err)
		return nil, toConnectError(err)
	}
	if len(groups) == 0 {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("member %s is not in any group", memberID))
	}

	groupBalances := make([]models.GroupBalance, 0, len(groups))
	for _, group := range groups {
		gb, err := groupBalance(ctx, s.store, group)
		if err != nil {
			slog.Error("GetUserBalance failed - calculation error", "group_id", group.ID, "error", err)
			return nil, toConnectError(err)
		}
		groupBalances = append(groupBalances, gb)
	}
	ub := calculator.UserBalance(memberID, groupBalances)

	slog.Info("GetUserBalance successful",
		"member_id", memberID,
		"groups_count", len(groupBalances),
		"total_owed", ub.TotalOwed,
		"total_owing", ub.TotalOwing,
	)

	return connect.NewResponse(&api.GetUserBalanceResponse{
		MemberId:      ub.MemberID,
		TotalOwed:     ub.TotalOwed,
		TotalOwing:    ub.TotalOwing,
		GroupBalances: toAPIGroupBalances(ub.GroupBalances),
	}), nil
}
