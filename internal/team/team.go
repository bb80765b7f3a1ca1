package team

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
)

var (
	ErrNotFound         = fmt.Errorf("team %w", apperr.ErrNotFound)
	ErrHasExpenses      = fmt.Errorf("%w: cannot delete team with existing expenses", apperr.ErrConflict)
	ErrUnknownAlertFlag = fmt.Errorf("%w: unknown alert flag", apperr.ErrValidation)
)

// Level classifies how much of a budget has been used.
type Level string

const (
	LevelSafe     Level = "safe"
	LevelWarning  Level = "warning"
	LevelExceeded Level = "exceeded"
)

// AlertFlag identifies one of the persisted threshold notification flags.
type AlertFlag string

const (
	AlertFlag80  AlertFlag = "80%"
	AlertFlag100 AlertFlag = "100%"
)

// Team is a budget holder with a roster of member e-mail addresses.
type Team struct {
	ID           uuid.UUID
	Name         string
	Budget       int64 // Budget in cents
	Members      []string
	TotalSpent   int64 // Sum of pending and approved expenses, in cents
	AlertSent80  bool
	AlertSent100 bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BudgetStatus is derived from a team's budget and total spend on every read.
type BudgetStatus struct {
	Budget         int64
	TotalSpent     int64
	Remaining      int64
	PercentageUsed float64
	Level          Level
}

var (
	hundred        = decimal.NewFromInt(100)
	warningPercent = decimal.NewFromInt(80)
)

// Percentage returns spent/budget*100 rounded to one decimal place.
func Percentage(spent, budget int64) decimal.Decimal {
	if budget <= 0 {
		return decimal.Zero
	}

	return decimal.NewFromInt(spent).Mul(hundred).DivRound(decimal.NewFromInt(budget), 1)
}

// NewBudgetStatus derives the status for the given budget and spend.
func NewBudgetStatus(budget, spent int64) BudgetStatus {
	pct := Percentage(spent, budget)

	level := LevelSafe

	switch {
	case pct.GreaterThanOrEqual(hundred):
		level = LevelExceeded
	case pct.GreaterThanOrEqual(warningPercent):
		level = LevelWarning
	}

	return BudgetStatus{
		Budget:         budget,
		TotalSpent:     spent,
		Remaining:      budget - spent,
		PercentageUsed: pct.InexactFloat64(),
		Level:          level,
	}
}

// Status returns the team's current budget status.
func (t *Team) Status() BudgetStatus {
	return NewBudgetStatus(t.Budget, t.TotalSpent)
}

// HasRecipients reports whether alerts for the team have anyone to go to.
func (t *Team) HasRecipients() bool {
	return len(t.Members) > 0
}

// AlertSent reports the persisted state of flag.
func (t *Team) AlertSent(flag AlertFlag) bool {
	switch flag {
	case AlertFlag80:
		return t.AlertSent80
	case AlertFlag100:
		return t.AlertSent100
	}

	return false
}

// SetAlertSent updates the in-memory state of flag.
func (t *Team) SetAlertSent(flag AlertFlag, sent bool) {
	switch flag {
	case AlertFlag80:
		t.AlertSent80 = sent
	case AlertFlag100:
		t.AlertSent100 = sent
	}
}
