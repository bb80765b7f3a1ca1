// Package memstore is an in-process ledger store used by the memory backend
// and by tests. Values are copied on the way in and out.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/classify"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

type Store struct {
	mu       sync.RWMutex
	seq      int64
	teams    map[uuid.UUID]*teamRow
	expenses map[uuid.UUID]*expenseRow
	rules    []*classify.Rule
	now      func() time.Time
}

type teamRow struct {
	team.Team
	seq int64
}

type expenseRow struct {
	expense.Expense
	seq int64
}

func New() *Store {
	return &Store{
		teams:    make(map[uuid.UUID]*teamRow),
		expenses: make(map[uuid.UUID]*expenseRow),
		now:      time.Now,
	}
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func copyTeam(t *team.Team) *team.Team {
	c := *t
	c.Members = slices.Clone(t.Members)

	if c.Members == nil {
		c.Members = []string{}
	}

	return &c
}

func (s *Store) CreateTeam(_ context.Context, t *team.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t.ID = uuid.New()
	t.TotalSpent = 0
	t.AlertSent80 = false
	t.AlertSent100 = false
	t.CreatedAt = now
	t.UpdatedAt = now

	s.teams[t.ID] = &teamRow{Team: *copyTeam(t), seq: s.next()}

	return nil
}

func (s *Store) GetTeam(_ context.Context, id uuid.UUID) (*team.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.teams[id]
	if !ok {
		return nil, team.ErrNotFound
	}

	return copyTeam(&row.Team), nil
}

func (s *Store) ListTeams(_ context.Context) ([]*team.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]*teamRow, 0, len(s.teams))
	for _, row := range s.teams {
		rows = append(rows, row)
	}

	slices.SortFunc(rows, func(a, b *teamRow) int {
		return cmp.Compare(b.seq, a.seq)
	})

	teams := make([]*team.Team, len(rows))
	for i, row := range rows {
		teams[i] = copyTeam(&row.Team)
	}

	return teams, nil
}

func (s *Store) UpdateTeam(_ context.Context, t *team.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.teams[t.ID]
	if !ok {
		return team.ErrNotFound
	}

	row.Name = t.Name
	row.Budget = t.Budget
	row.Members = slices.Clone(t.Members)
	row.UpdatedAt = s.now()
	t.UpdatedAt = row.UpdatedAt

	return nil
}

func (s *Store) DeleteTeam(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[id]; !ok {
		return team.ErrNotFound
	}

	for _, e := range s.expenses {
		if e.TeamID == id {
			return team.ErrHasExpenses
		}
	}

	delete(s.teams, id)

	return nil
}

func (s *Store) SetTotalSpent(_ context.Context, id uuid.UUID, total int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.teams[id]
	if !ok {
		return team.ErrNotFound
	}

	row.TotalSpent = total
	row.UpdatedAt = s.now()

	return nil
}

func (s *Store) SetAlertSent(_ context.Context, id uuid.UUID, flag team.AlertFlag, sent bool) error {
	if flag != team.AlertFlag80 && flag != team.AlertFlag100 {
		return fmt.Errorf("%w: %q", team.ErrUnknownAlertFlag, flag)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.teams[id]
	if !ok {
		return team.ErrNotFound
	}

	row.SetAlertSent(flag, sent)
	row.UpdatedAt = s.now()

	return nil
}

func (s *Store) CountExpenses(_ context.Context, teamID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int

	for _, e := range s.expenses {
		if e.TeamID == teamID {
			n++
		}
	}

	return n, nil
}

func (s *Store) ActiveAmounts(_ context.Context, teamID uuid.UUID) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var amounts []int64

	for _, e := range s.expenses {
		if e.TeamID == teamID && e.Status.CountsTowardBudget() {
			amounts = append(amounts, e.Amount)
		}
	}

	return amounts, nil
}

// withTeam copies e and joins the owning team summary. Callers hold the lock.
func (s *Store) withTeam(e *expense.Expense) *expense.Expense {
	c := *e
	c.Team = nil

	if t, ok := s.teams[e.TeamID]; ok {
		c.Team = &expense.TeamRef{ID: t.ID, Name: t.Name, Budget: t.Budget}
	}

	return &c
}

func (s *Store) CreateExpense(_ context.Context, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[e.TeamID]; !ok {
		return team.ErrNotFound
	}

	e.ID = uuid.New()
	e.CreatedAt = s.now()

	row := *e
	row.Team = nil
	s.expenses[e.ID] = &expenseRow{Expense: row, seq: s.next()}

	return nil
}

func (s *Store) GetExpense(_ context.Context, id uuid.UUID) (*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.expenses[id]
	if !ok {
		return nil, expense.ErrNotFound
	}

	return s.withTeam(&row.Expense), nil
}

func (s *Store) ListExpenses(_ context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)

	var rows []*expenseRow

	for _, row := range s.expenses {
		if !matches(&row.Expense, filter, search) {
			continue
		}

		rows = append(rows, row)
	}

	slices.SortFunc(rows, func(a, b *expenseRow) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}

		return cmp.Compare(b.seq, a.seq)
	})

	if filter.Offset > 0 {
		rows = rows[min(filter.Offset, len(rows)):]
	}

	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}

	out := make([]*expense.Expense, len(rows))
	for i, row := range rows {
		out[i] = s.withTeam(&row.Expense)
	}

	return out, nil
}

func matches(e *expense.Expense, f expense.ListFilter, search string) bool {
	switch {
	case f.TeamID != nil && e.TeamID != *f.TeamID:
		return false
	case f.Category != nil && e.Category != *f.Category:
		return false
	case f.Status != nil && e.Status != *f.Status:
		return false
	case f.StartDate != nil && e.Date.Before(*f.StartDate):
		return false
	case f.EndDate != nil && e.Date.After(*f.EndDate):
		return false
	case search != "" && !strings.Contains(strings.ToLower(e.Description), search):
		return false
	}

	return true
}

func (s *Store) UpdateExpense(_ context.Context, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.expenses[e.ID]
	if !ok {
		return expense.ErrNotFound
	}

	row.Amount = e.Amount
	row.Description = e.Description
	row.Category = e.Category
	row.Status = e.Status
	row.Date = e.Date

	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[id]; !ok {
		return expense.ErrNotFound
	}

	delete(s.expenses, id)

	return nil
}

func (s *Store) CreateRule(_ context.Context, r *classify.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = uuid.New()
	r.CreatedAt = s.now()

	c := *r
	s.rules = append(s.rules, &c)

	return nil
}

func (s *Store) FindRule(_ context.Context, description string) (*classify.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	desc := strings.ToLower(description)

	var best *classify.Rule

	for _, r := range s.rules {
		if !strings.Contains(desc, strings.ToLower(r.Pattern)) {
			continue
		}

		if best == nil || len(r.Pattern) >= len(best.Pattern) {
			best = r
		}
	}

	if best == nil {
		return nil, nil
	}

	c := *best

	return &c, nil
}

func (s *Store) ListRules(_ context.Context) ([]*classify.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules := make([]*classify.Rule, len(s.rules))
	for i, r := range s.rules {
		c := *r
		rules[i] = &c
	}

	return rules, nil
}
