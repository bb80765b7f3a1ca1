package team

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=team
type Repository interface {
	CreateTeam(ctx context.Context, t *Team) error
	GetTeam(ctx context.Context, id uuid.UUID) (*Team, error)
	ListTeams(ctx context.Context) ([]*Team, error)
	// UpdateTeam persists name, budget and members only.
	UpdateTeam(ctx context.Context, t *Team) error
	DeleteTeam(ctx context.Context, id uuid.UUID) error
}

// ExpenseCounter counts expenses of any status owned by a team.
type ExpenseCounter interface {
	CountExpenses(ctx context.Context, teamID uuid.UUID) (int, error)
}

type Service struct {
	repo     Repository
	expenses ExpenseCounter
}

func NewService(repo Repository, expenses ExpenseCounter) *Service {
	return &Service{repo: repo, expenses: expenses}
}

type CreateParams struct {
	Name    string   `validate:"required,min=2"`
	Budget  int64    `validate:"gt=0,lte=10000000000000"`
	Members []string `validate:"dive,email"`
}

// UpdateParams patches a team. Nil fields are left unchanged.
type UpdateParams struct {
	Name    *string
	Budget  *int64
	Members *[]string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Team, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Members = normalizeMembers(params.Members)

	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	t := &Team{
		Name:    params.Name,
		Budget:  params.Budget,
		Members: params.Members,
	}
	if err := s.repo.CreateTeam(ctx, t); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "team created", "team_id", t.ID, "budget_cents", t.Budget, "members", len(t.Members))

	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Team, error) {
	return s.repo.GetTeam(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Team, error) {
	return s.repo.ListTeams(ctx)
}

// Update applies a field patch. Alert flags are not re-evaluated here, even
// when the budget changes; they follow the next expense write.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Team, error) {
	t, err := s.repo.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		t.Name = strings.TrimSpace(*params.Name)
	}

	if params.Budget != nil {
		t.Budget = *params.Budget
	}

	if params.Members != nil {
		t.Members = normalizeMembers(*params.Members)
	}

	if err := validate.Struct(CreateParams{Name: t.Name, Budget: t.Budget, Members: t.Members}); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTeam(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// Delete removes a team that owns no expenses.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Team, error) {
	t, err := s.repo.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.expenses.CountExpenses(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("counting team expenses: %w", err)
	}

	if count > 0 {
		return nil, ErrHasExpenses
	}

	if err := s.repo.DeleteTeam(ctx, id); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "team deleted", "team_id", id)

	return t, nil
}

func normalizeMembers(members []string) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, strings.TrimSpace(m))
	}

	return out
}

// ParseID parses a team identifier, reporting malformed input as an invalid reference.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Reference("team", raw)
	}

	return id, nil
}
