package money_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/money"
)

func TestParseCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "12.5", want: 1250},
		{in: "100", want: 10000},
		{in: "0.01", want: 1},
		{in: "25000.00", want: 2500000},
		{in: "1.005", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "100000000000", want: money.MaxCents},
		{in: "-100000000000", want: -money.MaxCents},
		{in: "100000000000.01", wantErr: true},
		{in: "92233720368547758.08", wantErr: true},
		{in: "184467440737095517.17", wantErr: true},
		{in: "1e30", wantErr: true},
		{in: "-1e30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.ParseCents(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmountJSON(t *testing.T) {
	type payload struct {
		Amount money.Amount `json:"amount"`
	}

	data, err := json.Marshal(payload{Amount: 1250})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":12.5}`, string(data))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount":99.99}`), &p))
	assert.Equal(t, int64(9999), p.Amount.Cents())

	require.NoError(t, json.Unmarshal([]byte(`{"amount":"7"}`), &p))
	assert.Equal(t, int64(700), p.Amount.Cents())

	assert.Error(t, json.Unmarshal([]byte(`{"amount":1.234}`), &p))

	p.Amount = 0
	err = json.Unmarshal([]byte(`{"amount":184467440737095517.17}`), &p)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Zero(t, p.Amount)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$25,000.00", money.Format(2500000))
	assert.Equal(t, "$12.50", money.Format(1250))
}
