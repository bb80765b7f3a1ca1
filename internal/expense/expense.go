package expense

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
)

var (
	ErrNotFound       = fmt.Errorf("expense %w", apperr.ErrNotFound)
	ErrBudgetExceeded = fmt.Errorf("%w: expense would push team spend over its budget", apperr.ErrBudgetExceeded)
)

// Category is the spending bucket of an expense.
type Category string

const (
	CategoryTravel        Category = "travel"
	CategoryFood          Category = "food"
	CategorySupplies      Category = "supplies"
	CategoryEquipment     Category = "equipment"
	CategoryMarketing     Category = "marketing"
	CategorySubscriptions Category = "subscriptions"
	CategoryServices      Category = "services"
	CategoryRentals       Category = "rentals"
	CategoryUtilities     Category = "utilities"
	CategoryEntertainment Category = "entertainment"
	CategoryOther         Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryTravel,
	CategoryFood,
	CategorySupplies,
	CategoryEquipment,
	CategoryMarketing,
	CategorySubscriptions,
	CategoryServices,
	CategoryRentals,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

// Status represents the approval state of an expense.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}

	return false
}

// CountsTowardBudget reports whether expenses in this status add to team spend.
func (s Status) CountsTowardBudget() bool {
	return s == StatusPending || s == StatusApproved
}

// Expense is a single spend record owned by exactly one team.
type Expense struct {
	ID          uuid.UUID
	TeamID      uuid.UUID
	Amount      int64 // Amount in cents
	Description string
	Category    Category
	Status      Status
	Date        time.Time
	CreatedAt   time.Time
	Team        *TeamRef // Loaded via JOIN
}

// TeamRef is the owning team summary returned with an expense.
type TeamRef struct {
	ID     uuid.UUID
	Name   string
	Budget int64
}

// ParseID parses an expense identifier, reporting malformed input as an invalid reference.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Reference("expense", raw)
	}

	return id, nil
}
