// Package storage provides the data-access abstraction used by the service layer.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitgroups/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned (wrapped) when a write would duplicate an existing
// record or a member within a group.
var ErrConflict = errors.New("conflict")

// Store defines the interface for group, expense and settlement storage.
// This abstraction allows swapping storage backends without changing the
// service layer. Implementations must return copies: callers may mutate
// what they receive without affecting stored state.
type Store interface {
	// CreateGroup persists a new group.
	// The group.ID, group.CreatedAt and missing member IDs are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups, oldest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// ListGroupsByMember retrieves the groups memberID belongs to, oldest first.
	ListGroupsByMember(ctx context.Context, memberID string) ([]*models.Group, error)

	// AddGroupMembers appends members to a group, skipping IDs already present.
	// Members without an ID are assigned one.
	AddGroupMembers(ctx context.Context, groupID string, members []models.Member) (*models.Group, error)

	// DeleteGroup removes a group together with its expenses and settlements.
	DeleteGroup(ctx context.Context, groupID string) error

	// CreateExpense persists a new expense. The expense.ID and
	// expense.CreatedAt fields are populated by the store when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by its ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup retrieves all expenses of a group, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListRecentExpenses retrieves up to limit expenses across all groups, newest first.
	ListRecentExpenses(ctx context.Context, limit int) ([]*models.Expense, error)

	// DeleteExpense removes an expense by its ID.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateSettlement persists a new settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByGroup retrieves all settlements of a group, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
