package expense

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/money"
)

type teamRefResponse struct {
	ID     uuid.UUID    `json:"id"`
	Name   string       `json:"name"`
	Budget money.Amount `json:"budget"`
}

type expenseResponse struct {
	ID          uuid.UUID        `json:"id"`
	TeamID      uuid.UUID        `json:"team_id"`
	Team        *teamRefResponse `json:"team,omitempty"`
	Amount      money.Amount     `json:"amount"`
	Description string           `json:"description"`
	Category    expense.Category `json:"category"`
	Status      expense.Status   `json:"status"`
	Date        time.Time        `json:"date"`
	CreatedAt   time.Time        `json:"created_at"`
}

func toResponse(e *expense.Expense) expenseResponse {
	resp := expenseResponse{
		ID:          e.ID,
		TeamID:      e.TeamID,
		Amount:      money.Amount(e.Amount),
		Description: e.Description,
		Category:    e.Category,
		Status:      e.Status,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}

	if e.Team != nil {
		resp.Team = &teamRefResponse{
			ID:     e.Team.ID,
			Name:   e.Team.Name,
			Budget: money.Amount(e.Team.Budget),
		}
	}

	return resp
}

func toResponseList(list []*expense.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(list))
	for i, e := range list {
		resp[i] = toResponse(e)
	}

	return resp
}
