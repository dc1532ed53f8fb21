package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofferapp/coffer/internal/ledger"
)

func seedReportLedger(t *testing.T) *ledger.Engine {
	t.Helper()

	eng, checking, _, groceries, salary := newTestEngine(t)

	drafts := []ledger.TransactionDraft{
		{Type: ledger.TypeIncome, Date: ledger.NewDate(2024, time.March, 1), AccountID: checking.ID, Amount: 300000, CategoryID: salary.ID},
		{Type: ledger.TypeExpense, Date: ledger.NewDate(2024, time.March, 5), AccountID: checking.ID, Amount: 7500, CategoryID: groceries.ID},
		{Type: ledger.TypeExpense, Date: ledger.NewDate(2024, time.March, 20), AccountID: checking.ID, Amount: 2500, CategoryID: groceries.ID},
		// Different month, must not show up.
		{Type: ledger.TypeExpense, Date: ledger.NewDate(2024, time.April, 2), AccountID: checking.ID, Amount: 9999, CategoryID: groceries.ID},
	}

	for _, d := range drafts {
		_, err := eng.CreateTransaction(d)
		require.NoError(t, err)
	}

	return eng
}

func TestLedger_MonthlySummary(t *testing.T) {
	eng := seedReportLedger(t)

	s := eng.Ledger().MonthlySummary(2024, time.March)

	assert.Equal(t, int64(300000), s.Income)
	assert.Equal(t, int64(10000), s.Expense)
	assert.Equal(t, int64(290000), s.Net)
	assert.Equal(t, 3, s.Count)

	empty := eng.Ledger().MonthlySummary(2023, time.March)
	assert.Zero(t, empty.Count)
}

func TestLedger_MonthlySummary_IgnoresTransfers(t *testing.T) {
	eng, checking, savings, _, _ := newTestEngine(t)

	_, err := eng.CreateTransaction(ledger.TransactionDraft{
		Type:        ledger.TypeTransfer,
		Date:        ledger.NewDate(2024, time.March, 10),
		AccountID:   checking.ID,
		ToAccountID: savings.ID,
		Amount:      5000,
	})
	require.NoError(t, err)

	s := eng.Ledger().MonthlySummary(2024, time.March)
	assert.Zero(t, s.Income)
	assert.Zero(t, s.Expense)
	assert.Equal(t, 1, s.Count)
}

func TestLedger_ExpenseBreakdown(t *testing.T) {
	eng := seedReportLedger(t)

	breakdown := eng.Ledger().ExpenseBreakdown(2024, time.March)
	require.Len(t, breakdown, 1)

	assert.Equal(t, "Groceries", breakdown[0].Category.Name)
	assert.Equal(t, int64(10000), breakdown[0].Amount)
	assert.InDelta(t, 100.0, breakdown[0].Percent, 0.001)
}

func TestLedger_TotalBalance(t *testing.T) {
	eng := seedReportLedger(t)

	// 500.00 initial + 3000.00 income - 199.99 expenses across all months.
	assert.Equal(t, int64(330001), eng.Ledger().TotalBalance())
}

func TestLedger_Recent(t *testing.T) {
	eng := seedReportLedger(t)

	recent := eng.Ledger().Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, ledger.NewDate(2024, time.April, 2), recent[0].Date)
	assert.Equal(t, ledger.NewDate(2024, time.March, 20), recent[1].Date)
}

func TestLedger_List(t *testing.T) {
	eng, checking, savings, groceries, _ := newTestEngine(t)

	_, err := eng.CreateTransaction(ledger.TransactionDraft{
		Type: ledger.TypeExpense, Date: ledger.NewDate(2024, time.March, 5),
		AccountID: checking.ID, Amount: 100, CategoryID: groceries.ID, Note: "Coffee beans",
	})
	require.NoError(t, err)

	_, err = eng.CreateTransaction(ledger.TransactionDraft{
		Type: ledger.TypeTransfer, Date: ledger.NewDate(2024, time.March, 6),
		AccountID: checking.ID, ToAccountID: savings.ID, Amount: 200,
	})
	require.NoError(t, err)

	assert.Len(t, eng.Ledger().List(ledger.Filter{}), 2)
	assert.Len(t, eng.Ledger().List(ledger.Filter{Type: ledger.TypeExpense}), 1)
	// Destination account matches too.
	assert.Len(t, eng.Ledger().List(ledger.Filter{AccountID: savings.ID}), 1)
	assert.Len(t, eng.Ledger().List(ledger.Filter{Search: "coffee"}), 1)
	assert.Len(t, eng.Ledger().List(ledger.Filter{Search: "2024-03-06"}), 1)
	assert.Empty(t, eng.Ledger().List(ledger.Filter{Search: "tea"}))
}
