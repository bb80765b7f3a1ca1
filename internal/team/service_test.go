package team_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    team.CreateParams
		setupMock func(m *team.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: team.CreateParams{
				Name:    "  Platform  ",
				Budget:  2500000,
				Members: []string{" dev@example.com "},
			},
			setupMock: func(m *team.MockRepository) {
				m.EXPECT().
					CreateTeam(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tm *team.Team) error {
						assert.Equal(t, "Platform", tm.Name)
						assert.Equal(t, []string{"dev@example.com"}, tm.Members)

						tm.ID = uuid.New()
						tm.CreatedAt = time.Now()

						return nil
					})
			},
		},
		{
			name:    "NameTooShort",
			params:  team.CreateParams{Name: "A", Budget: 100},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "ZeroBudget",
			params:  team.CreateParams{Name: "Ops", Budget: 0},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "NegativeBudget",
			params:  team.CreateParams{Name: "Ops", Budget: -100},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "BudgetAboveMaximum",
			params:  team.CreateParams{Name: "Ops", Budget: 10_000_000_000_001},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "InvalidMember",
			params:  team.CreateParams{Name: "Ops", Budget: 100, Members: []string{"not-an-email"}},
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "RepoError",
			params: team.CreateParams{Name: "Ops", Budget: 100},
			setupMock: func(m *team.MockRepository) {
				m.EXPECT().
					CreateTeam(gomock.Any(), gomock.Any()).
					Return(apperr.Storage("creating team", errors.New("db down")))
			},
			wantErr: apperr.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := team.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := team.NewService(repo, team.NewMockExpenseCounter(ctrl))
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Zero(t, got.TotalSpent)
			assert.False(t, got.AlertSent80)
			assert.False(t, got.AlertSent100)

			status := got.Status()
			assert.Equal(t, got.Budget, status.Remaining)
			assert.Zero(t, status.PercentageUsed)
			assert.Equal(t, team.LevelSafe, status.Level)
		})
	}
}

func TestService_Update(t *testing.T) {
	id := uuid.New()

	existing := func() *team.Team {
		return &team.Team{
			ID:          id,
			Name:        "Platform",
			Budget:      10000,
			Members:     []string{"dev@example.com"},
			TotalSpent:  9000,
			AlertSent80: true,
		}
	}

	type testCase struct {
		name      string
		params    team.UpdateParams
		setupMock func(m *team.MockRepository)
		check     func(t *testing.T, got *team.Team)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "BudgetRaisedKeepsAlertFlags",
			params: team.UpdateParams{Budget: new(int64(50000))},
			setupMock: func(m *team.MockRepository) {
				m.EXPECT().GetTeam(gomock.Any(), id).Return(existing(), nil)
				m.EXPECT().UpdateTeam(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, got *team.Team) {
				assert.Equal(t, int64(50000), got.Budget)
				assert.True(t, got.AlertSent80)
				assert.Equal(t, int64(9000), got.TotalSpent)
			},
		},
		{
			name:   "MembersReplaced",
			params: team.UpdateParams{Members: &[]string{"a@example.com", "b@example.com"}},
			setupMock: func(m *team.MockRepository) {
				m.EXPECT().GetTeam(gomock.Any(), id).Return(existing(), nil)
				m.EXPECT().UpdateTeam(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, got *team.Team) {
				assert.Len(t, got.Members, 2)
				assert.Equal(t, "Platform", got.Name)
			},
		},
		{
			name:   "InvalidBudget",
			params: team.UpdateParams{Budget: new(int64(0))},
			setupMock: func(m *team.MockRepository) {
				m.EXPECT().GetTeam(gomock.Any(), id).Return(existing(), nil)
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "NotFound",
			params: team.UpdateParams{Name: new("Ops")},
			setupMock: func(m *team.MockRepository) {
				m.EXPECT().GetTeam(gomock.Any(), id).Return(nil, team.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := team.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := team.NewService(repo, team.NewMockExpenseCounter(ctrl))
			got, err := svc.Update(context.Background(), id, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_Delete(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name      string
		setupMock func(r *team.MockRepository, c *team.MockExpenseCounter)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(r *team.MockRepository, c *team.MockExpenseCounter) {
				r.EXPECT().GetTeam(gomock.Any(), id).Return(&team.Team{ID: id, Name: "Ops"}, nil)
				c.EXPECT().CountExpenses(gomock.Any(), id).Return(0, nil)
				r.EXPECT().DeleteTeam(gomock.Any(), id).Return(nil)
			},
		},
		{
			name: "HasExpenses",
			setupMock: func(r *team.MockRepository, c *team.MockExpenseCounter) {
				r.EXPECT().GetTeam(gomock.Any(), id).Return(&team.Team{ID: id, Name: "Ops"}, nil)
				c.EXPECT().CountExpenses(gomock.Any(), id).Return(3, nil)
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name: "NotFound",
			setupMock: func(r *team.MockRepository, _ *team.MockExpenseCounter) {
				r.EXPECT().GetTeam(gomock.Any(), id).Return(nil, team.ErrNotFound)
			},
			wantErr: team.ErrNotFound,
		},
		{
			name: "CountFails",
			setupMock: func(r *team.MockRepository, c *team.MockExpenseCounter) {
				r.EXPECT().GetTeam(gomock.Any(), id).Return(&team.Team{ID: id}, nil)
				c.EXPECT().CountExpenses(gomock.Any(), id).Return(0, apperr.Storage("counting expenses", errors.New("boom")))
			},
			wantErr: apperr.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := team.NewMockRepository(ctrl)
			counter := team.NewMockExpenseCounter(ctrl)
			tt.setupMock(repo, counter)

			svc := team.NewService(repo, counter)
			got, err := svc.Delete(context.Background(), id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
		})
	}
}

func TestNewBudgetStatus(t *testing.T) {
	tests := []struct {
		name    string
		budget  int64
		spent   int64
		wantPct float64
		want    team.Level
	}{
		{name: "Empty", budget: 10000, spent: 0, wantPct: 0, want: team.LevelSafe},
		{name: "RoundsUpToWarning", budget: 10000, spent: 7999, wantPct: 80, want: team.LevelWarning},
		{name: "Warning", budget: 10000, spent: 8500, wantPct: 85, want: team.LevelWarning},
		{name: "Exactly100", budget: 10000, spent: 10000, wantPct: 100, want: team.LevelExceeded},
		{name: "Rounded", budget: 300, spent: 100, wantPct: 33.3, want: team.LevelSafe},
		{name: "ZeroBudget", budget: 0, spent: 500, wantPct: 0, want: team.LevelSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := team.NewBudgetStatus(tt.budget, tt.spent)

			assert.InDelta(t, tt.wantPct, got.PercentageUsed, 0.0001)
			assert.Equal(t, tt.want, got.Level)
			assert.Equal(t, tt.budget-tt.spent, got.Remaining)
		})
	}
}

func TestParseID(t *testing.T) {
	id := uuid.New()

	got, err := team.ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = team.ParseID("not-a-uuid")
	assert.ErrorIs(t, err, apperr.ErrInvalidReference)
}
