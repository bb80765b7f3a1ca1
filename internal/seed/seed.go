// Package seed loads a fixed set of demo teams and expenses.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

type TeamCreator interface {
	Create(ctx context.Context, params team.CreateParams) (*team.Team, error)
	Get(ctx context.Context, id uuid.UUID) (*team.Team, error)
}

type ExpenseCreator interface {
	Create(ctx context.Context, params expense.CreateParams) (*expense.Expense, error)
}

type demoExpense struct {
	team        int
	amount      int64
	description string
	category    expense.Category
	status      expense.Status
	date        string
}

var demoTeams = []team.CreateParams{
	{Name: "Engineering Team", Budget: 50_000_00, Members: []string{"john@example.com", "jane@example.com", "bob@example.com"}},
	{Name: "Marketing Team", Budget: 30_000_00, Members: []string{"alice@example.com", "charlie@example.com"}},
	{Name: "Sales Team", Budget: 25_000_00, Members: []string{"dave@example.com", "eve@example.com"}},
}

var demoExpenses = []demoExpense{
	{0, 2_500_00, "AWS Cloud Services - Monthly", expense.CategoryEquipment, expense.StatusApproved, "2025-10-01"},
	{0, 450_00, "Team lunch", expense.CategoryFood, expense.StatusApproved, "2025-10-15"},
	{0, 1_200_00, "Flight tickets", expense.CategoryTravel, expense.StatusPending, "2025-10-20"},
	{1, 5_000_00, "Social media", expense.CategoryOther, expense.StatusApproved, "2025-10-05"},
	{1, 800_00, "Supplies", expense.CategorySupplies, expense.StatusApproved, "2025-10-12"},
	{2, 3_500_00, "Dinner", expense.CategoryFood, expense.StatusApproved, "2025-10-08"},
	{2, 1_800_00, "Travel to a meeting", expense.CategoryTravel, expense.StatusPending, "2025-10-18"},
}

// Run creates the demo data through the services so totals and alerts are
// settled the same way as API writes. It returns the seeded teams as stored
// after the last expense.
func Run(ctx context.Context, teams TeamCreator, expenses ExpenseCreator) ([]*team.Team, error) {
	created := make([]*team.Team, len(demoTeams))

	for i, params := range demoTeams {
		t, err := teams.Create(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("creating team %q: %w", params.Name, err)
		}

		created[i] = t
	}

	for _, d := range demoExpenses {
		date, err := time.Parse(time.DateOnly, d.date)
		if err != nil {
			return nil, fmt.Errorf("parsing seed date %q: %w", d.date, err)
		}

		_, err = expenses.Create(ctx, expense.CreateParams{
			TeamID:      created[d.team].ID,
			Amount:      d.amount,
			Description: d.description,
			Category:    d.category,
			Status:      d.status,
			Date:        date,
		})
		if err != nil {
			return nil, fmt.Errorf("creating expense %q: %w", d.description, err)
		}
	}

	for i, t := range created {
		fresh, err := teams.Get(ctx, t.ID)
		if err != nil {
			return nil, err
		}

		created[i] = fresh

		slog.InfoContext(ctx, "seeded team",
			"team", fresh.Name,
			"spent_cents", fresh.TotalSpent,
			"percentage", fresh.Status().PercentageUsed,
		)
	}

	return created, nil
}
