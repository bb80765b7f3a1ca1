package expense

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/budget"
	"github.com/MrJamesThe3rd/teamspend/internal/metrics"
	"github.com/MrJamesThe3rd/teamspend/internal/money"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
	"github.com/MrJamesThe3rd/teamspend/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error)
	ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	DeleteExpense(ctx context.Context, id uuid.UUID) error
}

type TeamReader interface {
	GetTeam(ctx context.Context, id uuid.UUID) (*team.Team, error)
}

type Recalculator interface {
	Recalculate(ctx context.Context, teamID uuid.UUID) (int64, error)
}

type AlertEvaluator interface {
	Evaluate(ctx context.Context, t *team.Team) []budget.AlertEvent
}

type Service struct {
	repo   Repository
	teams  TeamReader
	recalc Recalculator
	alerts AlertEvaluator
	now    func() time.Time
}

func NewService(repo Repository, teams TeamReader, recalc Recalculator, alerts AlertEvaluator) *Service {
	return &Service{
		repo:   repo,
		teams:  teams,
		recalc: recalc,
		alerts: alerts,
		now:    time.Now,
	}
}

type CreateParams struct {
	TeamID      uuid.UUID
	Amount      int64  `validate:"gte=1,lte=10000000000000"`
	Description string `validate:"required"`
	Category    Category
	Status      Status
	Date        time.Time
}

// UpdateParams patches an expense. Nil fields are left unchanged; the owning
// team cannot be changed.
type UpdateParams struct {
	Amount      *int64
	Description *string
	Category    *Category
	Status      *Status
	Date        *time.Time
}

type ListFilter struct {
	TeamID    *uuid.UUID
	Category  *Category
	Status    *Status
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	e, err := s.create(ctx, params)
	metrics.ExpenseOperations.WithLabelValues("create", metrics.Result(err)).Inc()

	return e, err
}

func (s *Service) create(ctx context.Context, params CreateParams) (*Expense, error) {
	params.Description = strings.TrimSpace(params.Description)

	if params.Category == "" {
		params.Category = CategoryOther
	}

	if params.Status == "" {
		params.Status = StatusPending
	}

	if params.Date.IsZero() {
		params.Date = s.now()
	}

	if err := validateCreate(params); err != nil {
		return nil, err
	}

	t, err := s.teams.GetTeam(ctx, params.TeamID)
	if err != nil {
		return nil, err
	}

	if exceeds(t, params.Amount) {
		metrics.CeilingRejections.Inc()
		return nil, ErrBudgetExceeded
	}

	e := &Expense{
		TeamID:      params.TeamID,
		Amount:      params.Amount,
		Description: params.Description,
		Category:    params.Category,
		Status:      params.Status,
		Date:        params.Date,
	}
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "expense created", "expense_id", e.ID, "team_id", e.TeamID, "amount_cents", e.Amount)

	if err := s.settle(ctx, e.TeamID); err != nil {
		return nil, err
	}

	e.Team = &TeamRef{ID: t.ID, Name: t.Name, Budget: t.Budget}

	return e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	return s.repo.ListExpenses(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Expense, error) {
	e, err := s.update(ctx, id, params)
	metrics.ExpenseOperations.WithLabelValues("update", metrics.Result(err)).Inc()

	return e, err
}

func (s *Service) update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Expense, error) {
	if err := validateUpdate(params); err != nil {
		return nil, err
	}

	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Amount != nil && *params.Amount != e.Amount {
		t, err := s.teams.GetTeam(ctx, e.TeamID)
		if err != nil {
			return nil, err
		}

		if exceeds(t, *params.Amount-e.Amount) {
			metrics.CeilingRejections.Inc()
			return nil, ErrBudgetExceeded
		}

		e.Amount = *params.Amount
	}

	if params.Description != nil {
		e.Description = strings.TrimSpace(*params.Description)
	}

	if params.Category != nil {
		e.Category = *params.Category
	}

	if params.Status != nil {
		e.Status = *params.Status
	}

	if params.Date != nil {
		e.Date = *params.Date
	}

	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return nil, err
	}

	if err := s.settle(ctx, e.TeamID); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Expense, error) {
	e, err := s.delete(ctx, id)
	metrics.ExpenseOperations.WithLabelValues("delete", metrics.Result(err)).Inc()

	return e, err
}

func (s *Service) delete(ctx context.Context, id uuid.UUID) (*Expense, error) {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "expense deleted", "expense_id", id, "team_id", e.TeamID)

	if err := s.settle(ctx, e.TeamID); err != nil {
		return nil, err
	}

	return e, nil
}

// settle recomputes the team total after a committed write and runs the alert
// gate against the refreshed team. Only the recalculation can fail the write.
func (s *Service) settle(ctx context.Context, teamID uuid.UUID) error {
	if _, err := s.recalc.Recalculate(ctx, teamID); err != nil {
		return fmt.Errorf("recalculating team spend: %w", err)
	}

	t, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to reload team for alerts", "team_id", teamID, "error", err)
		return nil
	}

	s.alerts.Evaluate(ctx, t)

	return nil
}

// exceeds reports whether spending total would take t strictly over its budget.
// exceeds reports whether adding delta to the team's stored spend would pass
// its budget, compared against the remaining headroom.
func exceeds(t *team.Team, delta int64) bool {
	return delta > t.Budget-t.TotalSpent
}

func validateCreate(p CreateParams) error {
	if p.TeamID == uuid.Nil {
		return apperr.Invalid("team_id", "is required")
	}

	if err := validate.Struct(p); err != nil {
		return err
	}

	if !p.Category.Valid() {
		return invalidCategory()
	}

	if !p.Status.Valid() {
		return invalidStatus()
	}

	return nil
}

func validateUpdate(p UpdateParams) error {
	if p.Amount != nil && *p.Amount < 1 {
		return apperr.Invalid("amount", "must be at least 1")
	}

	if p.Amount != nil && *p.Amount > money.MaxCents {
		return apperr.Invalid("amount", "must be at most %d", money.MaxCents)
	}

	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return apperr.Invalid("description", "is required")
	}

	if p.Category != nil && !p.Category.Valid() {
		return invalidCategory()
	}

	if p.Status != nil && !p.Status.Valid() {
		return invalidStatus()
	}

	if p.Date != nil && p.Date.IsZero() {
		return apperr.Invalid("date", "must be a valid date")
	}

	return nil
}

func validateFilter(f ListFilter) error {
	if f.Category != nil && !f.Category.Valid() {
		return invalidCategory()
	}

	if f.Status != nil && !f.Status.Valid() {
		return invalidStatus()
	}

	if f.Limit < 0 {
		return apperr.Invalid("limit", "must be at least 0")
	}

	if f.Offset < 0 {
		return apperr.Invalid("offset", "must be at least 0")
	}

	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return apperr.Invalid("end_date", "must not be before start_date")
	}

	return nil
}

func invalidCategory() error {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}

	return apperr.Invalid("category", "must be one of: %s", strings.Join(names, ", "))
}

func invalidStatus() error {
	return apperr.Invalid("status", "must be one of: pending, approved, rejected")
}
