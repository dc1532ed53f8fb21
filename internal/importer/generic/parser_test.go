package generic_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofferapp/coffer/internal/importer/generic"
	"github.com/cofferapp/coffer/internal/ledger"
)

func TestParser_Parse(t *testing.T) {
	input := strings.Join([]string{
		"Date,Note,Amount,Category",
		"2024-03-15,Grocery run,-45.90,Groceries",
		"2024-03-16,Salary,3000.00,Salary",
		`2024-03-17,"Dinner, with friends",-62.50`,
		"",
	}, "\n")

	rows, err := generic.NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, ledger.NewDate(2024, time.March, 15), rows[0].Date)
	assert.Equal(t, "Grocery run", rows[0].Note)
	assert.Equal(t, int64(4590), rows[0].Amount)
	assert.Equal(t, ledger.TypeExpense, rows[0].Type)
	assert.Equal(t, "Groceries", rows[0].CategoryName)

	assert.Equal(t, ledger.TypeIncome, rows[1].Type)
	assert.Equal(t, int64(300000), rows[1].Amount)

	assert.Equal(t, "Dinner, with friends", rows[2].Note)
	assert.Empty(t, rows[2].CategoryName)
}

func TestParser_DateFormats(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  ledger.Date
	}{
		{"ISO", "2024-03-05", ledger.NewDate(2024, time.March, 5)},
		{"ISOSingleDigit", "2024-3-5", ledger.NewDate(2024, time.March, 5)},
		{"Slashed", "2024/03/05", ledger.NewDate(2024, time.March, 5)},
		{"USMonthFirst", "03/05/2024", ledger.NewDate(2024, time.March, 5)},
		{"EuropeanDayFirst", "05-03-2024", ledger.NewDate(2024, time.March, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := generic.NewParser().Parse(strings.NewReader(tt.value + ",note,-1.00\n"))
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, tt.want, rows[0].Date)
		})
	}
}

func TestParser_SkipsJunkRows(t *testing.T) {
	input := strings.Join([]string{
		"日期,备注,金额",         // Chinese header, skipped
		"not a date,note,-1.00", // unparseable date
		"2024-03-15,zero amount,0.00",
		"2024-03-15,bad amount,abc",
		"2024-03-15,too short",
		"2024-03-15,kept,-5.00",
	}, "\n")

	rows, err := generic.NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "kept", rows[0].Note)
}

func TestParser_Windows1252Input(t *testing.T) {
	// "Café" in Windows-1252 (0xE9).
	input := append([]byte("2024-03-15,Caf"), 0xE9, ',', '-', '2', '.', '0', '0', '\n')

	rows, err := generic.NewParser().Parse(strings.NewReader(string(input)))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café", rows[0].Note)
}
