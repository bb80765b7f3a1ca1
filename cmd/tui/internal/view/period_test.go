package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

func TestPeriodRange(t *testing.T) {
	now := time.Date(2026, 5, 14, 16, 30, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		period    Period
		wantStart time.Time
		wantNext  time.Time
	}{
		{PeriodThisMonth, day(2026, 5, 1), day(2026, 5, 15)},
		{PeriodLastMonth, day(2026, 4, 1), day(2026, 5, 1)},
		{PeriodThisQuarter, day(2026, 4, 1), day(2026, 5, 15)},
		{PeriodThisYear, day(2026, 1, 1), day(2026, 5, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.period.String(), func(t *testing.T) {
			p := periodRange(tt.period, now)

			require.NotNil(t, p.Start)
			require.NotNil(t, p.End)
			assert.Equal(t, tt.wantStart, *p.Start)
			assert.Equal(t, tt.wantNext.Add(-time.Nanosecond), *p.End)
		})
	}

	open := periodRange(PeriodAll, now)
	assert.Nil(t, open.Start)
	assert.Nil(t, open.End)
}

func TestLastMonthInJanuary(t *testing.T) {
	p := periodRange(PeriodLastMonth, time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), *p.Start)
	assert.Equal(t, time.Date(2025, 12, 31, 23, 59, 59, 999999999, time.UTC), *p.End)
}

func TestCustomPeriod(t *testing.T) {
	sel, err := customPeriod("2026-03-01", " 2026-03-31 ")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01 to 2026-03-31", sel.Label)
	assert.Equal(t, time.Date(2026, 3, 31, 23, 59, 59, 999999999, time.UTC), *sel.Period.End)

	_, err = customPeriod("2026-03-31", "2026-03-01")
	require.Error(t, err)

	_, err = customPeriod("03/01/2026", "2026-03-31")
	require.Error(t, err)
}

func TestBudgetBar(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, "░░░░░░░░░░"},
		{45, "████░░░░░░"},
		{100, "██████████"},
		{180, "██████████"},
	}

	for _, tt := range tests {
		got := BudgetBar(team.BudgetStatus{PercentageUsed: tt.pct}, 10)
		assert.Equal(t, tt.want, got, "pct=%v", tt.pct)
	}
}

func TestSplitMembers(t *testing.T) {
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, splitMembers(" a@x.io, ,b@x.io ,"))
	assert.Nil(t, splitMembers("  "))
}
