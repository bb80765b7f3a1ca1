// Package budget keeps team spend totals in step with their expenses and
// decides when threshold alerts go out.
package budget

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
)

//go:generate mockgen -source=recalc.go -destination=recalc_mock.go -package=budget

// SpendSource lists the amounts of a team's pending and approved expenses.
type SpendSource interface {
	ActiveAmounts(ctx context.Context, teamID uuid.UUID) ([]int64, error)
}

// TotalWriter stores a team's recomputed spend.
type TotalWriter interface {
	SetTotalSpent(ctx context.Context, teamID uuid.UUID, total int64) error
}

// ErrCorruptAmount is returned when stored amounts cannot form a valid total.
var ErrCorruptAmount = errors.New("corrupt expense amount")

// Recalculator is the only writer of Team.TotalSpent.
type Recalculator struct {
	spend  SpendSource
	totals TotalWriter
}

func NewRecalculator(spend SpendSource, totals TotalWriter) *Recalculator {
	return &Recalculator{spend: spend, totals: totals}
}

// Recalculate sums the team's active expenses from scratch and stores the result.
func (r *Recalculator) Recalculate(ctx context.Context, teamID uuid.UUID) (int64, error) {
	amounts, err := r.spend.ActiveAmounts(ctx, teamID)
	if err != nil {
		return 0, apperr.Storage("summing active expenses", err)
	}

	var total int64
	for _, a := range amounts {
		if a < 0 || a > math.MaxInt64-total {
			return 0, apperr.Storage("summing active expenses", fmt.Errorf("%w: total overflows", ErrCorruptAmount))
		}

		total += a
	}

	if err := r.totals.SetTotalSpent(ctx, teamID, total); err != nil {
		return 0, apperr.Storage("storing total spent", err)
	}

	return total, nil
}
