package ledger

import (
	"sort"
	"strings"
	"time"
)

// Summary aggregates one calendar month. Amounts are in minor units;
// transfers move money between accounts and are excluded on purpose.
type Summary struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Net     int64 `json:"net"`
	Count   int   `json:"count"`
}

// CategoryTotal is one slice of the monthly expense breakdown. Percent is
// the share of the month's total expenses.
type CategoryTotal struct {
	Category *Category `json:"category"`
	Amount   int64     `json:"amount"`
	Percent  float64   `json:"percent"`
}

// TotalBalance sums the current balance of every account.
func (l *Ledger) TotalBalance() int64 {
	var total int64
	for _, a := range l.Accounts {
		total += a.Balance
	}

	return total
}

// MonthlySummary totals income, expenses and transaction count for the
// given month.
func (l *Ledger) MonthlySummary(year int, month time.Month) Summary {
	var s Summary

	for _, tx := range l.Transactions {
		if tx.Date.Year() != year || tx.Date.Month() != month {
			continue
		}

		s.Count++

		switch tx.Type {
		case TypeIncome:
			s.Income += tx.Amount
		case TypeExpense:
			s.Expense += tx.Amount
		}
	}

	s.Net = s.Income - s.Expense

	return s
}

// ExpenseBreakdown groups the month's expenses by category, largest first.
func (l *Ledger) ExpenseBreakdown(year int, month time.Month) []CategoryTotal {
	totals := make(map[string]int64)

	var totalExpense int64

	for _, tx := range l.Transactions {
		if tx.Type != TypeExpense || tx.Date.Year() != year || tx.Date.Month() != month {
			continue
		}

		totals[tx.CategoryID] += tx.Amount
		totalExpense += tx.Amount
	}

	breakdown := make([]CategoryTotal, 0, len(totals))

	for id, amount := range totals {
		ct := CategoryTotal{
			Category: l.FindCategory(id),
			Amount:   amount,
		}
		if totalExpense > 0 {
			ct.Percent = float64(amount) / float64(totalExpense) * 100
		}

		breakdown = append(breakdown, ct)
	}

	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Amount > breakdown[j].Amount
	})

	return breakdown
}

// Recent returns up to limit transactions, newest date first.
func (l *Ledger) Recent(limit int) []*Transaction {
	sorted := make([]*Transaction, len(l.Transactions))
	copy(sorted, l.Transactions)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Date.Before(sorted[i].Date)
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return sorted
}

// Filter narrows a transaction listing. Zero values match everything;
// Search matches note and date substrings, case-insensitively.
type Filter struct {
	Type      TransactionType
	AccountID string
	Search    string
}

// List returns the transactions matching the filter, newest date first.
func (l *Ledger) List(f Filter) []*Transaction {
	search := strings.ToLower(f.Search)

	var out []*Transaction

	for _, tx := range l.Transactions {
		if f.Type != "" && tx.Type != f.Type {
			continue
		}

		if f.AccountID != "" && tx.AccountID != f.AccountID && tx.ToAccountID != f.AccountID {
			continue
		}

		if search != "" &&
			!strings.Contains(strings.ToLower(tx.Note), search) &&
			!strings.Contains(tx.Date.String(), search) {
			continue
		}

		out = append(out, tx)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Date.Before(out[i].Date)
	})

	return out
}
