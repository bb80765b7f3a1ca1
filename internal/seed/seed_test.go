package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/teamspend/internal/budget"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/memstore"
	"github.com/MrJamesThe3rd/teamspend/internal/notify"
	"github.com/MrJamesThe3rd/teamspend/internal/seed"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	teams := team.NewService(st, st)
	expenses := expense.NewService(st, st, budget.NewRecalculator(st, st), budget.NewAlertGate(st, notify.LogNotifier{}))

	seeded, err := seed.Run(ctx, teams, expenses)
	require.NoError(t, err)
	require.Len(t, seeded, 3)

	tests := []struct {
		name  string
		spent int64
		pct   float64
	}{
		{"Engineering Team", 4_150_00, 8.3},
		{"Marketing Team", 5_800_00, 19.3},
		{"Sales Team", 5_300_00, 21.2},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seeded[i]

			assert.Equal(t, tt.name, got.Name)
			assert.Equal(t, tt.spent, got.TotalSpent)
			assert.InDelta(t, tt.pct, got.Status().PercentageUsed, 0.001)
			assert.Equal(t, team.LevelSafe, got.Status().Level)
			assert.False(t, got.AlertSent80)
		})
	}

	all, err := expenses.List(ctx, expense.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 7)
}
