// Package memory provides an in-process implementation of storage.Store.
// Data lives only as long as the process.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitgroups/internal/models"
	"github.com/mmynk/splitgroups/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store with mutex-guarded slices.
// Every read and write copies records so callers never share memory with the store.
type Store struct {
	mu          sync.RWMutex
	groups      []*models.Group
	expenses    []*models.Expense
	settlements []*models.Settlement

	now func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{now: time.Now}
}

// Close is a no-op; it exists to satisfy storage.Store.
func (s *Store) Close() error {
	return nil
}

// CreateGroup persists a new group.
func (s *Store) CreateGroup(_ context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = s.now().Unix()
	}
	seen := make(map[string]struct{}, len(group.Members))
	for i := range group.Members {
		if group.Members[i].ID == "" {
			group.Members[i].ID = uuid.New().String()
		}
		id := group.Members[i].ID
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: member %s listed twice in group %s", storage.ErrConflict, id, group.Name)
		}
		seen[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findGroup(group.ID) != nil {
		return fmt.Errorf("%w: group %s already exists", storage.ErrConflict, group.ID)
	}
	s.groups = append(s.groups, cloneGroup(group))
	return nil
}

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g := s.findGroup(groupID)
	if g == nil {
		return nil, fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
	}
	return cloneGroup(g), nil
}

// ListGroups retrieves all groups, oldest first.
func (s *Store) ListGroups(_ context.Context) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listGroups(func(*models.Group) bool { return true }), nil
}

// ListGroupsByMember retrieves the groups memberID belongs to, oldest first.
func (s *Store) ListGroupsByMember(_ context.Context, memberID string) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listGroups(func(g *models.Group) bool { return g.HasMember(memberID) }), nil
}

// AddGroupMembers appends members not already in the group.
func (s *Store) AddGroupMembers(_ context.Context, groupID string, members []models.Member) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.findGroup(groupID)
	if g == nil {
		return nil, fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
	}
	for _, m := range members {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if g.HasMember(m.ID) {
			continue
		}
		g.Members = append(g.Members, m)
	}
	return cloneGroup(g), nil
}

// DeleteGroup removes a group and everything recorded against it.
func (s *Store) DeleteGroup(_ context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, g := range s.groups {
		if g.ID == groupID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
	}
	s.groups = append(s.groups[:idx], s.groups[idx+1:]...)

	expenses := s.expenses[:0]
	for _, e := range s.expenses {
		if e.GroupID != groupID {
			expenses = append(expenses, e)
		}
	}
	s.expenses = expenses

	settlements := s.settlements[:0]
	for _, st := range s.settlements {
		if st.GroupID != groupID {
			settlements = append(settlements, st)
		}
	}
	s.settlements = settlements
	return nil
}

// CreateExpense persists a new expense. The owning group must exist.
func (s *Store) CreateExpense(_ context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = s.now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findGroup(expense.GroupID) == nil {
		return fmt.Errorf("%w: group %s", storage.ErrNotFound, expense.GroupID)
	}
	for _, e := range s.expenses {
		if e.ID == expense.ID {
			return fmt.Errorf("%w: expense %s already exists", storage.ErrConflict, expense.ID)
		}
	}
	s.expenses = append(s.expenses, cloneExpense(expense))
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *Store) GetExpense(_ context.Context, expenseID string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.expenses {
		if e.ID == expenseID {
			return cloneExpense(e), nil
		}
	}
	return nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
}

// ListExpensesByGroup retrieves all expenses of a group, newest first.
func (s *Store) ListExpensesByGroup(_ context.Context, groupID string) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.findGroup(groupID) == nil {
		return nil, fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
	}
	return s.listExpenses(func(e *models.Expense) bool { return e.GroupID == groupID }, 0), nil
}

// ListRecentExpenses retrieves up to limit expenses across all groups, newest first.
// A non-positive limit returns every expense.
func (s *Store) ListRecentExpenses(_ context.Context, limit int) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listExpenses(func(*models.Expense) bool { return true }, limit), nil
}

// DeleteExpense removes an expense by ID.
func (s *Store) DeleteExpense(_ context.Context, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.expenses {
		if e.ID == expenseID {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
}

// CreateSettlement persists a new settlement. The owning group must exist.
func (s *Store) CreateSettlement(_ context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = s.now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findGroup(settlement.GroupID) == nil {
		return fmt.Errorf("%w: group %s", storage.ErrNotFound, settlement.GroupID)
	}
	cp := *settlement
	s.settlements = append(s.settlements, &cp)
	return nil
}

// ListSettlementsByGroup retrieves all settlements of a group, newest first.
func (s *Store) ListSettlementsByGroup(_ context.Context, groupID string) ([]*models.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.findGroup(groupID) == nil {
		return nil, fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
	}

	var out []*models.Settlement
	for i := len(s.settlements) - 1; i >= 0; i-- {
		if st := s.settlements[i]; st.GroupID == groupID {
			cp := *st
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

// findGroup must be called with s.mu held.
func (s *Store) findGroup(groupID string) *models.Group {
	for _, g := range s.groups {
		if g.ID == groupID {
			return g
		}
	}
	return nil
}

// listGroups must be called with s.mu held.
func (s *Store) listGroups(keep func(*models.Group) bool) []*models.Group {
	var out []*models.Group
	for _, g := range s.groups {
		if keep(g) {
			out = append(out, cloneGroup(g))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out
}

// listExpenses must be called with s.mu held. Later insertions win ties.
func (s *Store) listExpenses(keep func(*models.Expense) bool, limit int) []*models.Expense {
	var out []*models.Expense
	for i := len(s.expenses) - 1; i >= 0; i-- {
		if e := s.expenses[i]; keep(e) {
			out = append(out, cloneExpense(e))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func cloneGroup(g *models.Group) *models.Group {
	cp := *g
	cp.Members = append([]models.Member(nil), g.Members...)
	return &cp
}

func cloneExpense(e *models.Expense) *models.Expense {
	cp := *e
	cp.Splits = append([]models.Split(nil), e.Splits...)
	return &cp
}
