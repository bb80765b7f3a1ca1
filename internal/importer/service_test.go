package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/classify"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/importer"
)

func TestService_Import(t *testing.T) {
	teamID := uuid.New()

	csv := `date,description,amount,category
2026-03-02,Flight to Lisbon,420.50,travel
2026-03-03,Slack subscription,12.00,
2026-03-04,Team offsite venue,900.00,
2026-03-05,Client dinner,80.00,food
bad,Taxi,10,
`

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := importer.NewMockExpenseWriter(ctrl)
	suggester := importer.NewMockSuggester(ctrl)

	writer.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f expense.ListFilter) ([]*expense.Expense, error) {
			require.NotNil(t, f.TeamID)
			assert.Equal(t, teamID, *f.TeamID)
			assert.Equal(t, date(2026, 3, 2), *f.StartDate)
			assert.True(t, f.EndDate.After(date(2026, 3, 5)))
			assert.True(t, f.EndDate.Before(date(2026, 3, 6)))

			return []*expense.Expense{
				{ID: uuid.New(), Date: date(2026, 3, 5), Amount: 8000, Description: "client dinner"},
			}, nil
		})

	suggester.EXPECT().
		SuggestBatch(gomock.Any(), []string{"Slack subscription", "Team offsite venue"}).
		Return([]classify.Suggestion{
			{Category: expense.CategorySubscriptions, Confidence: 90},
			{Category: expense.CategoryOther, Confidence: 0},
		})

	writer.EXPECT().
		Create(gomock.Any(), expense.CreateParams{
			TeamID:      teamID,
			Amount:      42050,
			Description: "Flight to Lisbon",
			Category:    expense.CategoryTravel,
			Date:        date(2026, 3, 2),
		}).
		Return(&expense.Expense{ID: uuid.New()}, nil)
	writer.EXPECT().
		Create(gomock.Any(), expense.CreateParams{
			TeamID:      teamID,
			Amount:      1200,
			Description: "Slack subscription",
			Category:    expense.CategorySubscriptions,
			Date:        date(2026, 3, 3),
		}).
		Return(&expense.Expense{ID: uuid.New()}, nil)
	writer.EXPECT().
		Create(gomock.Any(), expense.CreateParams{
			TeamID:      teamID,
			Amount:      90000,
			Description: "Team offsite venue",
			Category:    expense.CategoryOther,
			Date:        date(2026, 3, 4),
		}).
		Return(nil, expense.ErrBudgetExceeded)

	svc := importer.NewService(writer, suggester)

	got, err := svc.Import(context.Background(), teamID, strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, "generic", got.Profile)
	assert.Len(t, got.Created, 2)
	assert.Equal(t, []importer.Issue{{Line: 5, Reason: "duplicate of an existing expense"}}, got.Duplicates)

	require.Len(t, got.Failed, 2)
	assert.Equal(t, 6, got.Failed[0].Line)
	assert.Equal(t, 4, got.Failed[1].Line)
	assert.Contains(t, got.Failed[1].Reason, "budget exceeded")
}

func TestService_ImportNoRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := importer.NewService(importer.NewMockExpenseWriter(ctrl), importer.NewMockSuggester(ctrl))

	got, err := svc.Import(context.Background(), uuid.New(), strings.NewReader("date,description,amount\n"))
	require.NoError(t, err)
	assert.Empty(t, got.Created)
	assert.Empty(t, got.Failed)
}

func TestService_ImportUnknownFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := importer.NewService(importer.NewMockExpenseWriter(ctrl), importer.NewMockSuggester(ctrl))

	_, err := svc.Import(context.Background(), uuid.New(), strings.NewReader("a,b\n1,2\n"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
