// Package export builds team spending reports.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/money"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

type TeamReader interface {
	Get(ctx context.Context, id uuid.UUID) (*team.Team, error)
}

type ExpenseLister interface {
	List(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error)
}

// Service assembles reports from the team and expense services.
type Service struct {
	teams    TeamReader
	expenses ExpenseLister
	now      func() time.Time
}

func NewService(teams TeamReader, expenses ExpenseLister) *Service {
	return &Service{teams: teams, expenses: expenses, now: time.Now}
}

// Period narrows a report to expenses dated within it. Nil bounds are open.
type Period struct {
	Start *time.Time
	End   *time.Time
}

// Report is a team's budget status with the expenses behind it.
type Report struct {
	Team        *team.Team
	Status      team.BudgetStatus
	Expenses    []*expense.Expense
	GeneratedAt time.Time
}

// Report loads teamID and its expenses over period. The status always
// reflects the whole budget, not just the period.
func (s *Service) Report(ctx context.Context, teamID uuid.UUID, period Period) (*Report, error) {
	t, err := s.teams.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}

	list, err := s.expenses.List(ctx, expense.ListFilter{
		TeamID:    &teamID,
		StartDate: period.Start,
		EndDate:   period.End,
	})
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	return &Report{
		Team:        t,
		Status:      t.Status(),
		Expenses:    list,
		GeneratedAt: s.now(),
	}, nil
}

// Filename is report_<team>_<YYYYMMDD>.csv with the team name reduced to
// lower-case letters, digits and dashes.
func (r *Report) Filename() string {
	slug := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			return c
		case c >= 'A' && c <= 'Z':
			return c + ('a' - 'A')
		}

		return '-'
	}, r.Team.Name)

	return fmt.Sprintf("report_%s_%s.csv", strings.Trim(slug, "-"), r.GeneratedAt.Format("20060102"))
}

// WriteCSV writes the expense rows followed by a summary block.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	rows := [][]string{{"date", "description", "category", "status", "amount"}}

	for _, e := range r.Expenses {
		rows = append(rows, []string{
			e.Date.Format(time.DateOnly),
			e.Description,
			string(e.Category),
			string(e.Status),
			money.Amount(e.Amount).String(),
		})
	}

	rows = append(rows,
		[]string{},
		[]string{"summary"},
		[]string{"team", r.Team.Name},
		[]string{"budget", money.Amount(r.Status.Budget).String()},
		[]string{"spent", money.Amount(r.Status.TotalSpent).String()},
		[]string{"remaining", money.Amount(r.Status.Remaining).String()},
		[]string{"percentage_used", strconv.FormatFloat(r.Status.PercentageUsed, 'f', 1, 64)},
		[]string{"status", string(r.Status.Level)},
		[]string{"generated_at", r.GeneratedAt.UTC().Format(time.RFC3339)},
	)

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}

// Summary renders the report as plain text, one expense per line.
func (r *Report) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %s of %s spent (%.1f%%, %s)\n",
		r.Team.Name,
		money.Format(r.Status.TotalSpent),
		money.Format(r.Status.Budget),
		r.Status.PercentageUsed,
		r.Status.Level,
	)

	for _, e := range r.Expenses {
		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n",
			e.Date.Format(time.DateOnly), e.Description, money.Format(e.Amount), e.Status)
	}

	return sb.String()
}
