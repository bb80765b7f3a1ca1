package budget_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/budget"
)

func TestRecalculator_Recalculate(t *testing.T) {
	teamID := uuid.New()

	type testCase struct {
		name      string
		setupMock func(s *budget.MockSpendSource, w *budget.MockTotalWriter)
		want      int64
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "SumsActiveAmounts",
			setupMock: func(s *budget.MockSpendSource, w *budget.MockTotalWriter) {
				s.EXPECT().ActiveAmounts(gomock.Any(), teamID).Return([]int64{1000, 250, 5}, nil)
				w.EXPECT().SetTotalSpent(gomock.Any(), teamID, int64(1255)).Return(nil)
			},
			want: 1255,
		},
		{
			name: "NoExpensesWritesZero",
			setupMock: func(s *budget.MockSpendSource, w *budget.MockTotalWriter) {
				s.EXPECT().ActiveAmounts(gomock.Any(), teamID).Return(nil, nil)
				w.EXPECT().SetTotalSpent(gomock.Any(), teamID, int64(0)).Return(nil)
			},
			want: 0,
		},
		{
			name: "SourceFails",
			setupMock: func(s *budget.MockSpendSource, _ *budget.MockTotalWriter) {
				s.EXPECT().ActiveAmounts(gomock.Any(), teamID).Return(nil, errors.New("connection reset"))
			},
			wantErr: true,
		},
		{
			name: "TotalWouldOverflow",
			setupMock: func(s *budget.MockSpendSource, _ *budget.MockTotalWriter) {
				s.EXPECT().ActiveAmounts(gomock.Any(), teamID).Return([]int64{math.MaxInt64 - 5, 10}, nil)
			},
			wantErr: true,
		},
		{
			name: "NegativeAmount",
			setupMock: func(s *budget.MockSpendSource, _ *budget.MockTotalWriter) {
				s.EXPECT().ActiveAmounts(gomock.Any(), teamID).Return([]int64{100, -50}, nil)
			},
			wantErr: true,
		},
		{
			name: "WriteFails",
			setupMock: func(s *budget.MockSpendSource, w *budget.MockTotalWriter) {
				s.EXPECT().ActiveAmounts(gomock.Any(), teamID).Return([]int64{10}, nil)
				w.EXPECT().SetTotalSpent(gomock.Any(), teamID, int64(10)).Return(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			src := budget.NewMockSpendSource(ctrl)
			writer := budget.NewMockTotalWriter(ctrl)
			tt.setupMock(src, writer)

			got, err := budget.NewRecalculator(src, writer).Recalculate(context.Background(), teamID)

			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrStorage)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
