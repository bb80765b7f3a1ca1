package team

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/money"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

type budgetStatusResponse struct {
	Budget         money.Amount `json:"budget"`
	TotalSpent     money.Amount `json:"total_spent"`
	Remaining      money.Amount `json:"remaining"`
	PercentageUsed float64      `json:"percentage_used"`
	Status         team.Level   `json:"status"`
}

type teamResponse struct {
	ID           uuid.UUID            `json:"id"`
	Name         string               `json:"name"`
	Budget       money.Amount         `json:"budget"`
	Members      []string             `json:"members"`
	TotalSpent   money.Amount         `json:"total_spent"`
	AlertSent80  bool                 `json:"alert_sent_80"`
	AlertSent100 bool                 `json:"alert_sent_100"`
	BudgetStatus budgetStatusResponse `json:"budget_status"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func toStatusResponse(s team.BudgetStatus) budgetStatusResponse {
	return budgetStatusResponse{
		Budget:         money.Amount(s.Budget),
		TotalSpent:     money.Amount(s.TotalSpent),
		Remaining:      money.Amount(s.Remaining),
		PercentageUsed: s.PercentageUsed,
		Status:         s.Level,
	}
}

func toResponse(t *team.Team) teamResponse {
	members := t.Members
	if members == nil {
		members = []string{}
	}

	return teamResponse{
		ID:           t.ID,
		Name:         t.Name,
		Budget:       money.Amount(t.Budget),
		Members:      members,
		TotalSpent:   money.Amount(t.TotalSpent),
		AlertSent80:  t.AlertSent80,
		AlertSent100: t.AlertSent100,
		BudgetStatus: toStatusResponse(t.Status()),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func toResponseList(teams []*team.Team) []teamResponse {
	resp := make([]teamResponse, len(teams))
	for i, t := range teams {
		resp[i] = toResponse(t)
	}

	return resp
}
