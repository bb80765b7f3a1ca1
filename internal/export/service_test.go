package export_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/budget"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/export"
	"github.com/MrJamesThe3rd/teamspend/internal/memstore"
	"github.com/MrJamesThe3rd/teamspend/internal/notify"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

type fixture struct {
	teams    *team.Service
	expenses *expense.Service
	export   *export.Service
}

func newFixture() fixture {
	st := memstore.New()
	teams := team.NewService(st, st)
	expenses := expense.NewService(st, st, budget.NewRecalculator(st, st), budget.NewAlertGate(st, notify.LogNotifier{}))

	return fixture{teams: teams, expenses: expenses, export: export.NewService(teams, expenses)}
}

func TestService_Report(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	tm, err := f.teams.Create(ctx, team.CreateParams{Name: "Design", Budget: 100000})
	require.NoError(t, err)

	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }

	for _, p := range []expense.CreateParams{
		{TeamID: tm.ID, Amount: 42050, Description: "Flight to Lisbon", Category: expense.CategoryTravel, Date: day(2)},
		{TeamID: tm.ID, Amount: 1999, Description: "Figma seat", Category: expense.CategorySubscriptions, Status: expense.StatusApproved, Date: day(9)},
		{TeamID: tm.ID, Amount: 5000, Description: "Taxi, airport", Status: expense.StatusRejected, Date: day(20)},
	} {
		_, err := f.expenses.Create(ctx, p)
		require.NoError(t, err)
	}

	start, end := day(1), day(10)

	r, err := f.export.Report(ctx, tm.ID, export.Period{Start: &start, End: &end})
	require.NoError(t, err)

	require.Len(t, r.Expenses, 2)
	assert.Equal(t, int64(44049), r.Status.TotalSpent)
	assert.Equal(t, team.LevelSafe, r.Status.Level)

	var buf bytes.Buffer
	require.NoError(t, r.WriteCSV(&buf))

	out := buf.String()
	assert.Contains(t, out, "date,description,category,status,amount\n")
	assert.Contains(t, out, "2026-03-09,Figma seat,subscriptions,approved,19.99\n")
	assert.Contains(t, out, "2026-03-02,Flight to Lisbon,travel,pending,420.50\n")
	assert.Contains(t, out, "budget,1000.00\n")
	assert.Contains(t, out, "remaining,559.51\n")
	assert.Contains(t, out, "percentage_used,44.0\n")
	assert.Contains(t, out, "status,safe\n")
	assert.NotContains(t, out, "Taxi")

	summary := r.Summary()
	assert.Contains(t, summary, "Design: $440.49 of $1,000.00 spent (44.0%, safe)")
	assert.Contains(t, summary, "* 2026-03-02 | Flight to Lisbon | $420.50 | pending")
}

func TestService_ReportUnknownTeam(t *testing.T) {
	f := newFixture()

	_, err := f.export.Report(context.Background(), uuid.New(), export.Period{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestReport_Filename(t *testing.T) {
	at := time.Date(2026, 10, 3, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		want string
	}{
		{"Engineering Team", "report_engineering-team_20261003.csv"},
		{"R&D / Labs!", "report_r-d---labs_20261003.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &export.Report{Team: &team.Team{Name: tt.name}, GeneratedAt: at}
			assert.Equal(t, tt.want, r.Filename())
		})
	}
}
