package ledger_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofferapp/coffer/internal/ledger"
)

func TestDefault_SeedData(t *testing.T) {
	l := ledger.Default()

	require.Len(t, l.Accounts, 2)
	require.Len(t, l.Categories, 6)
	assert.Empty(t, l.Transactions)

	for _, a := range l.Accounts {
		assert.NotEmpty(t, a.ID)
		assert.Zero(t, a.Balance)
		assert.Zero(t, a.InitialBalance)
	}

	var income, expense int

	for _, c := range l.Categories {
		switch c.Kind {
		case ledger.KindIncome:
			income++
		case ledger.KindExpense:
			expense++
		}

		assert.NotEmpty(t, c.Color)
	}

	assert.Equal(t, 2, income)
	assert.Equal(t, 4, expense)
}

func TestLedger_EncodeDecodeRoundTrip(t *testing.T) {
	eng, checking, savings, groceries, _ := newTestEngine(t)

	_, err := eng.CreateTransaction(ledger.TransactionDraft{
		Type:       ledger.TypeExpense,
		Date:       ledger.NewDate(2024, time.March, 15),
		AccountID:  checking.ID,
		Amount:     1234,
		CategoryID: groceries.ID,
		Note:       "weekly shop",
	})
	require.NoError(t, err)

	_, err = eng.CreateTransaction(ledger.TransactionDraft{
		Type:        ledger.TypeTransfer,
		Date:        ledger.NewDate(2024, time.March, 16),
		AccountID:   checking.ID,
		ToAccountID: savings.ID,
		Amount:      5000,
	})
	require.NoError(t, err)

	data, err := eng.Ledger().Encode()
	require.NoError(t, err)

	decoded, err := ledger.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, eng.Ledger(), decoded)
}

func TestLedger_EncodeFieldNames(t *testing.T) {
	eng, checking, _, groceries, _ := newTestEngine(t)

	_, err := eng.CreateTransaction(ledger.TransactionDraft{
		Type:       ledger.TypeExpense,
		Date:       ledger.NewDate(2024, time.March, 15),
		AccountID:  checking.ID,
		Amount:     1234,
		CategoryID: groceries.ID,
	})
	require.NoError(t, err)

	data, err := eng.Ledger().Encode()
	require.NoError(t, err)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &payload))

	for _, key := range []string{"accounts", "categories", "transactions"} {
		assert.Contains(t, payload, key)
	}

	var txs []map[string]any
	require.NoError(t, json.Unmarshal(payload["transactions"], &txs))
	require.Len(t, txs, 1)

	for _, key := range []string{"id", "type", "date", "accountId", "amount", "categoryId"} {
		assert.Contains(t, txs[0], key)
	}

	assert.Equal(t, "2024-03-15", txs[0]["date"])
}

func TestLedger_EmptyEncodesAsArrays(t *testing.T) {
	data, err := ledger.New().Encode()
	require.NoError(t, err)

	assert.JSONEq(t, `{"accounts":[],"categories":[],"transactions":[]}`, string(data))
}

func TestDecode_Malformed(t *testing.T) {
	_, err := ledger.Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ledger.ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, "2024-03-15", d.String())

	_, err = ledger.ParseDate("15/03/2024")
	assert.Error(t, err)

	assert.True(t, ledger.Date{}.IsZero())
	assert.False(t, d.IsZero())
	assert.True(t, ledger.NewDate(2024, time.March, 14).Before(d))
}
