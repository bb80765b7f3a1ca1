package expense_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/budget"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/memstore"
	"github.com/MrJamesThe3rd/teamspend/internal/money"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

// recordingNotifier captures every alert it is asked to send.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []budget.AlertContext
	err  error
}

func (n *recordingNotifier) SendAlert(_ context.Context, _ []string, a budget.AlertContext) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}

	n.sent = append(n.sent, a)

	return nil
}

func (n *recordingNotifier) thresholds() []team.AlertFlag {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]team.AlertFlag, len(n.sent))
	for i, a := range n.sent {
		out[i] = a.Threshold
	}

	return out
}

type ledger struct {
	store    *memstore.Store
	teams    *team.Service
	expenses *expense.Service
	notifier *recordingNotifier
}

func newLedger() *ledger {
	st := memstore.New()
	n := &recordingNotifier{}

	recalc := budget.NewRecalculator(st, st)
	gate := budget.NewAlertGate(st, n)

	return &ledger{
		store:    st,
		teams:    team.NewService(st, st),
		expenses: expense.NewService(st, st, recalc, gate),
		notifier: n,
	}
}

func (l *ledger) team(t *testing.T, budgetCents int64, members ...string) *team.Team {
	t.Helper()

	tm, err := l.teams.Create(context.Background(), team.CreateParams{
		Name:    "Engineering",
		Budget:  budgetCents,
		Members: members,
	})
	require.NoError(t, err)

	return tm
}

func (l *ledger) add(t *testing.T, teamID uuid.UUID, amount int64, status expense.Status) *expense.Expense {
	t.Helper()

	e, err := l.expenses.Create(context.Background(), expense.CreateParams{
		TeamID:      teamID,
		Amount:      amount,
		Description: "Cloud hosting",
		Status:      status,
	})
	require.NoError(t, err)

	return e
}

func (l *ledger) reload(t *testing.T, id uuid.UUID) *team.Team {
	t.Helper()

	tm, err := l.teams.Get(context.Background(), id)
	require.NoError(t, err)

	return tm
}

func (l *ledger) activeSum(t *testing.T, teamID uuid.UUID) int64 {
	t.Helper()

	list, err := l.expenses.List(context.Background(), expense.ListFilter{TeamID: &teamID})
	require.NoError(t, err)

	var sum int64

	for _, e := range list {
		if e.Status.CountsTowardBudget() {
			sum += e.Amount
		}
	}

	return sum
}

func TestLifecycle_TotalMatchesActiveExpenses(t *testing.T) {
	ctx := context.Background()
	l := newLedger()
	tm := l.team(t, 1000000, "lead@example.com")

	a := l.add(t, tm.ID, 10000, expense.StatusPending)
	b := l.add(t, tm.ID, 25000, expense.StatusApproved)
	c := l.add(t, tm.ID, 5000, expense.StatusRejected)

	assert.Equal(t, int64(35000), l.reload(t, tm.ID).TotalSpent)

	_, err := l.expenses.Update(ctx, a.ID, expense.UpdateParams{Status: new(expense.StatusRejected)})
	require.NoError(t, err)

	_, err = l.expenses.Update(ctx, c.ID, expense.UpdateParams{Status: new(expense.StatusApproved), Amount: new(int64(7000))})
	require.NoError(t, err)

	_, err = l.expenses.Delete(ctx, b.ID)
	require.NoError(t, err)

	got := l.reload(t, tm.ID)
	assert.Equal(t, int64(7000), got.TotalSpent)
	assert.Equal(t, l.activeSum(t, tm.ID), got.TotalSpent)
}

func TestLifecycle_CeilingRejectsAndLeavesTotal(t *testing.T) {
	ctx := context.Background()
	l := newLedger()
	tm := l.team(t, 100000)

	l.add(t, tm.ID, 90000, expense.StatusPending)

	_, err := l.expenses.Create(ctx, expense.CreateParams{TeamID: tm.ID, Amount: 10001, Description: "Monitor"})
	assert.ErrorIs(t, err, apperr.ErrBudgetExceeded)
	assert.Equal(t, int64(90000), l.reload(t, tm.ID).TotalSpent)

	n, err := l.store.CountExpenses(ctx, tm.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLifecycle_LargeAmountsStayWithinCeiling(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	_, err := l.teams.Create(ctx, team.CreateParams{Name: "Capital", Budget: money.MaxCents + 1})
	require.ErrorIs(t, err, apperr.ErrValidation)

	tm := l.team(t, money.MaxCents)
	first := l.add(t, tm.ID, money.MaxCents, expense.StatusApproved)

	_, err = l.expenses.Create(ctx, expense.CreateParams{TeamID: tm.ID, Amount: money.MaxCents, Description: "Second wire"})
	assert.ErrorIs(t, err, apperr.ErrBudgetExceeded)

	_, err = l.expenses.Create(ctx, expense.CreateParams{TeamID: tm.ID, Amount: money.MaxCents + 1, Description: "Oversized"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = l.expenses.Update(ctx, first.ID, expense.UpdateParams{Amount: new(money.MaxCents + 1)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	got := l.reload(t, tm.ID)
	assert.Equal(t, money.MaxCents, got.TotalSpent)
	assert.Equal(t, team.LevelExceeded, got.Status().Level)
	assert.Equal(t, l.activeSum(t, tm.ID), got.TotalSpent)
}

func TestLifecycle_EightyPercentAlertOnceThenRearm(t *testing.T) {
	ctx := context.Background()
	l := newLedger()
	tm := l.team(t, 100000, "lead@example.com")

	first := l.add(t, tm.ID, 75000, expense.StatusPending)
	assert.Empty(t, l.notifier.thresholds())

	l.add(t, tm.ID, 10000, expense.StatusPending)
	assert.Equal(t, []team.AlertFlag{team.AlertFlag80}, l.notifier.thresholds())
	assert.True(t, l.reload(t, tm.ID).AlertSent80)

	l.add(t, tm.ID, 1, expense.StatusPending)
	assert.Len(t, l.notifier.thresholds(), 1, "no second e-mail while above 80%")

	_, err := l.expenses.Delete(ctx, first.ID)
	require.NoError(t, err)

	got := l.reload(t, tm.ID)
	assert.False(t, got.AlertSent80)
	assert.Len(t, l.notifier.thresholds(), 1, "re-arming sends nothing")
}

func TestLifecycle_ExactlyHundredSendsBoth(t *testing.T) {
	l := newLedger()
	tm := l.team(t, 100000, "lead@example.com")

	l.add(t, tm.ID, 100000, expense.StatusPending)

	assert.Equal(t, []team.AlertFlag{team.AlertFlag80, team.AlertFlag100}, l.notifier.thresholds())

	got := l.reload(t, tm.ID)
	assert.True(t, got.AlertSent80)
	assert.True(t, got.AlertSent100)
	assert.Equal(t, team.LevelExceeded, got.Status().Level)
}

func TestLifecycle_ShrinkingToExactlyEightyKeepsFlag(t *testing.T) {
	ctx := context.Background()
	l := newLedger()
	tm := l.team(t, 100000, "lead@example.com")

	l.add(t, tm.ID, 75000, expense.StatusPending)
	big := l.add(t, tm.ID, 20000, expense.StatusPending)
	require.Equal(t, []team.AlertFlag{team.AlertFlag80}, l.notifier.thresholds())

	_, err := l.expenses.Update(ctx, big.ID, expense.UpdateParams{Amount: new(int64(5000))})
	require.NoError(t, err)

	got := l.reload(t, tm.ID)
	assert.Equal(t, int64(80000), got.TotalSpent)
	assert.True(t, got.AlertSent80)
	assert.Len(t, l.notifier.thresholds(), 1)
}

func TestLifecycle_NotificationFailureKeepsWrite(t *testing.T) {
	l := newLedger()
	l.notifier.err = assert.AnError
	tm := l.team(t, 100000, "lead@example.com")

	l.add(t, tm.ID, 90000, expense.StatusPending)

	got := l.reload(t, tm.ID)
	assert.Equal(t, int64(90000), got.TotalSpent)
	assert.False(t, got.AlertSent80)
}

func TestLifecycle_TeamWithoutMembersNeverAlerts(t *testing.T) {
	l := newLedger()
	tm := l.team(t, 100000)

	l.add(t, tm.ID, 95000, expense.StatusPending)

	assert.Empty(t, l.notifier.thresholds())
	assert.False(t, l.reload(t, tm.ID).AlertSent80)
}

func TestLifecycle_DeleteTeam(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	empty := l.team(t, 100000)
	_, err := l.teams.Delete(ctx, empty.ID)
	require.NoError(t, err)

	_, err = l.teams.Get(ctx, empty.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	busy := l.team(t, 100000)
	l.add(t, busy.ID, 100, expense.StatusRejected)

	_, err = l.teams.Delete(ctx, busy.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = l.teams.Get(ctx, busy.ID)
	assert.NoError(t, err)
}

func TestLifecycle_NewTeamStatus(t *testing.T) {
	l := newLedger()
	tm := l.team(t, 2500000)

	got := l.reload(t, tm.ID).Status()
	assert.Zero(t, got.PercentageUsed)
	assert.Equal(t, team.LevelSafe, got.Level)
	assert.Equal(t, int64(2500000), got.Remaining)
}

func TestLifecycle_UnknownIDs(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	_, err := l.expenses.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = l.expenses.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = l.expenses.Create(ctx, expense.CreateParams{TeamID: uuid.New(), Amount: 100, Description: "Taxi"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
