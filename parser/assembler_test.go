package parser

import (
	"testing"

	"trialbalance/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleOutlay(t *testing.T) {
	row := Row{Index: 9, Cells: []string{"100234", "1 000,50", "(10,00)", "0", "0,01", "500", "600,25"}}

	o, skip := AssembleOutlay(row, models.Category{ID: 3, Name: "Rent"}, 11)
	require.Nil(t, skip)

	assert.Equal(t, int64(100234), o.AccountID)
	assert.Equal(t, uint(11), o.DocumentID)
	assert.Equal(t, uint(3), o.CategoryID)
	assert.True(t, decimal.RequireFromString("1000.5").Equal(o.OpeningActive))
	assert.True(t, decimal.RequireFromString("-10").Equal(o.OpeningPassive))
	assert.True(t, o.TurnoverDebit.IsZero())
	assert.True(t, decimal.RequireFromString("0.01").Equal(o.TurnoverCredit))
	assert.True(t, decimal.NewFromInt(500).Equal(o.ClosingActive))
	assert.True(t, decimal.RequireFromString("600.25").Equal(o.ClosingPassive))
}

func TestAssembleOutlay_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		cells  []string
		reason SkipReason
		column int
	}{
		{"too few cells", []string{"100234", "1", "2"}, SkipMalformedOutlayRow, 0},
		{"account too short", []string{"99", "1", "2", "3", "4", "5", "6"}, SkipMalformedAccountID, 1},
		{"account not numeric", []string{"10A234", "1", "2", "3", "4", "5", "6"}, SkipMalformedAccountID, 1},
		{"negative account", []string{"-100", "1", "2", "3", "4", "5", "6"}, SkipMalformedAccountID, 1},
		{"empty amount", []string{"100234", "1", "2", "", "4", "5", "6"}, SkipMalformedOutlayRow, 4},
		{"text amount", []string{"100234", "1", "2", "3", "4", "5", "n/a"}, SkipMalformedOutlayRow, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, skip := AssembleOutlay(Row{Index: 12, Cells: tt.cells}, models.Category{ID: 1}, 1)
			require.NotNil(t, skip)
			assert.Equal(t, tt.reason, skip.Reason)
			assert.Equal(t, tt.column, skip.Column)
			assert.Equal(t, 12, skip.Row)
			assert.Equal(t, models.Outlay{}, o)
		})
	}
}
