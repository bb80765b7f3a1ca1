package budget_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/teamspend/internal/budget"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

func newTeam(budgetCents, spent int64, sent80, sent100 bool, members ...string) *team.Team {
	return &team.Team{
		ID:           uuid.New(),
		Name:         "Platform",
		Budget:       budgetCents,
		TotalSpent:   spent,
		AlertSent80:  sent80,
		AlertSent100: sent100,
		Members:      members,
	}
}

func TestAlertGate_Evaluate(t *testing.T) {
	type testCase struct {
		name       string
		team       *team.Team
		setupMock  func(tm *team.Team, f *budget.MockAlertFlagWriter, n *budget.MockNotifier)
		wantEvents []team.AlertFlag
		want80     bool
		want100    bool
	}

	tests := []testCase{
		{
			name: "CrossingEightySendsOnce",
			team: newTeam(100000, 85000, false, false, "lead@example.com"),
			setupMock: func(tm *team.Team, f *budget.MockAlertFlagWriter, n *budget.MockNotifier) {
				n.EXPECT().
					SendAlert(gomock.Any(), []string{"lead@example.com"}, budget.AlertContext{
						TeamName:   "Platform",
						Budget:     100000,
						Spent:      85000,
						Percentage: 85,
						Threshold:  team.AlertFlag80,
					}).
					Return(nil)
				f.EXPECT().SetAlertSent(gomock.Any(), tm.ID, team.AlertFlag80, true).Return(nil)
			},
			wantEvents: []team.AlertFlag{team.AlertFlag80},
			want80:     true,
		},
		{
			name:   "AlreadySentIsIdempotent",
			team:   newTeam(100000, 85000, true, false, "lead@example.com"),
			want80: true,
		},
		{
			name: "ExactlyHundredSendsBothInOrder",
			team: newTeam(100000, 100000, false, false, "lead@example.com"),
			setupMock: func(tm *team.Team, f *budget.MockAlertFlagWriter, n *budget.MockNotifier) {
				alert := func(flag team.AlertFlag) budget.AlertContext {
					return budget.AlertContext{
						TeamName:   "Platform",
						Budget:     100000,
						Spent:      100000,
						Percentage: 100,
						Threshold:  flag,
					}
				}

				gomock.InOrder(
					n.EXPECT().SendAlert(gomock.Any(), gomock.Any(), alert(team.AlertFlag80)).Return(nil),
					f.EXPECT().SetAlertSent(gomock.Any(), tm.ID, team.AlertFlag80, true).Return(nil),
					n.EXPECT().SendAlert(gomock.Any(), gomock.Any(), alert(team.AlertFlag100)).Return(nil),
					f.EXPECT().SetAlertSent(gomock.Any(), tm.ID, team.AlertFlag100, true).Return(nil),
				)
			},
			wantEvents: []team.AlertFlag{team.AlertFlag80, team.AlertFlag100},
			want80:     true,
			want100:    true,
		},
		{
			name: "DropBelowEightyRearmsWithoutEmail",
			team: newTeam(100000, 60000, true, false, "lead@example.com"),
			setupMock: func(tm *team.Team, f *budget.MockAlertFlagWriter, _ *budget.MockNotifier) {
				f.EXPECT().SetAlertSent(gomock.Any(), tm.ID, team.AlertFlag80, false).Return(nil)
			},
		},
		{
			name: "DropBelowHundredRearmsOnlyHundred",
			team: newTeam(100000, 90000, true, true, "lead@example.com"),
			setupMock: func(tm *team.Team, f *budget.MockAlertFlagWriter, _ *budget.MockNotifier) {
				f.EXPECT().SetAlertSent(gomock.Any(), tm.ID, team.AlertFlag100, false).Return(nil)
			},
			want80: true,
		},
		{
			name: "NoMembersNeverFires",
			team: newTeam(100000, 95000, false, false),
		},
		{
			name: "NoMembersStillRearms",
			team: newTeam(100000, 10000, true, false),
			setupMock: func(tm *team.Team, f *budget.MockAlertFlagWriter, _ *budget.MockNotifier) {
				f.EXPECT().SetAlertSent(gomock.Any(), tm.ID, team.AlertFlag80, false).Return(nil)
			},
		},
		{
			name: "SendFailureLeavesFlagUnset",
			team: newTeam(100000, 85000, false, false, "lead@example.com"),
			setupMock: func(_ *team.Team, _ *budget.MockAlertFlagWriter, n *budget.MockNotifier) {
				n.EXPECT().SendAlert(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("smtp timeout"))
			},
		},
		{
			name: "FlagPersistFailureIsLogged",
			team: newTeam(100000, 85000, false, false, "lead@example.com"),
			setupMock: func(tm *team.Team, f *budget.MockAlertFlagWriter, n *budget.MockNotifier) {
				n.EXPECT().SendAlert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.EXPECT().SetAlertSent(gomock.Any(), tm.ID, team.AlertFlag80, true).Return(errors.New("db down"))
			},
			wantEvents: []team.AlertFlag{team.AlertFlag80},
			want80:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			flags := budget.NewMockAlertFlagWriter(ctrl)
			notifier := budget.NewMockNotifier(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(tt.team, flags, notifier)
			}

			gate := budget.NewAlertGate(flags, notifier)
			events := gate.Evaluate(context.Background(), tt.team)

			var got []team.AlertFlag
			for _, ev := range events {
				got = append(got, ev.Threshold)
			}

			assert.Equal(t, tt.wantEvents, got)
			assert.Equal(t, tt.want80, tt.team.AlertSent80)
			assert.Equal(t, tt.want100, tt.team.AlertSent100)
		})
	}
}

func TestAlertGate_EventSink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := newTeam(1000, 800, false, false, "lead@example.com")

	flags := budget.NewMockAlertFlagWriter(ctrl)
	notifier := budget.NewMockNotifier(ctrl)
	sink := budget.NewMockEventSink(ctrl)

	notifier.EXPECT().SendAlert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	flags.EXPECT().SetAlertSent(gomock.Any(), tm.ID, team.AlertFlag80, true).Return(nil)
	sink.EXPECT().
		PublishAlert(gomock.Any(), budget.AlertEvent{
			TeamID:     tm.ID,
			TeamName:   "Platform",
			Threshold:  team.AlertFlag80,
			Percentage: 80,
			Spent:      800,
			Budget:     1000,
			At:         at,
		}).
		Return(errors.New("broker unavailable"))

	gate := budget.NewAlertGate(flags, notifier,
		budget.WithEventSink(sink),
		budget.WithClock(func() time.Time { return at }),
	)

	events := gate.Evaluate(context.Background(), tm)
	require.Len(t, events, 1)
	assert.True(t, tm.AlertSent80)
}
