package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// AccountType classifies an account.
type AccountType string

const (
	AccountCash       AccountType = "cash"
	AccountBank       AccountType = "bank"
	AccountCredit     AccountType = "credit"
	AccountInvestment AccountType = "investment"
)

// CategoryKind tells whether a category collects income or expenses.
type CategoryKind string

const (
	KindIncome  CategoryKind = "income"
	KindExpense CategoryKind = "expense"
)

// TransactionType is the kind of a transaction.
type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

// Account holds a running balance. All amounts are in minor currency units
// (cents). InitialBalance is fixed at creation; Balance moves with every
// transaction that references the account.
type Account struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Type           AccountType `json:"type"`
	Balance        int64       `json:"balance"`
	InitialBalance int64       `json:"initialBalance"`
}

// Category labels non-transfer transactions.
type Category struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Kind  CategoryKind `json:"type"`
	Color string       `json:"color"`
}

// Transaction is a single ledger entry. ToAccountID is set only for
// transfers; CategoryID only for income and expenses.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Date        Date            `json:"date"`
	AccountID   string          `json:"accountId"`
	ToAccountID string          `json:"toAccountId,omitempty"`
	Amount      int64           `json:"amount"`
	CategoryID  string          `json:"categoryId,omitempty"`
	Note        string          `json:"note,omitempty"`
}

// Ledger is the in-memory collection set. It is pure data: lookups and
// slice surgery live here, all validation lives in the Engine.
type Ledger struct {
	Accounts     []*Account     `json:"accounts"`
	Categories   []*Category    `json:"categories"`
	Transactions []*Transaction `json:"transactions"`
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		Accounts:     []*Account{},
		Categories:   []*Category{},
		Transactions: []*Transaction{},
	}
}

// Default returns the ledger seeded at first setup: two zero-balance
// accounts and a starter category set.
func Default() *Ledger {
	l := New()

	l.Accounts = append(l.Accounts,
		&Account{ID: NewID(), Name: "Cash", Type: AccountCash},
		&Account{ID: NewID(), Name: "Bank Card", Type: AccountBank},
	)

	l.Categories = append(l.Categories,
		&Category{ID: NewID(), Name: "Dining", Kind: KindExpense, Color: "#e74c3c"},
		&Category{ID: NewID(), Name: "Transport", Kind: KindExpense, Color: "#3498db"},
		&Category{ID: NewID(), Name: "Shopping", Kind: KindExpense, Color: "#9b59b6"},
		&Category{ID: NewID(), Name: "Entertainment", Kind: KindExpense, Color: "#e67e22"},
		&Category{ID: NewID(), Name: "Salary", Kind: KindIncome, Color: "#27ae60"},
		&Category{ID: NewID(), Name: "Bonus", Kind: KindIncome, Color: "#16a085"},
	)

	return l
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// FindAccount returns the account with the given id, or nil.
func (l *Ledger) FindAccount(id string) *Account {
	for _, a := range l.Accounts {
		if a.ID == id {
			return a
		}
	}

	return nil
}

// FindCategory returns the category with the given id, or nil.
func (l *Ledger) FindCategory(id string) *Category {
	for _, c := range l.Categories {
		if c.ID == id {
			return c
		}
	}

	return nil
}

// FindTransaction returns the transaction with the given id, or nil.
func (l *Ledger) FindTransaction(id string) *Transaction {
	for _, t := range l.Transactions {
		if t.ID == id {
			return t
		}
	}

	return nil
}

func (l *Ledger) removeAccount(id string) bool {
	for i, a := range l.Accounts {
		if a.ID == id {
			l.Accounts = append(l.Accounts[:i], l.Accounts[i+1:]...)
			return true
		}
	}

	return false
}

func (l *Ledger) removeCategory(id string) bool {
	for i, c := range l.Categories {
		if c.ID == id {
			l.Categories = append(l.Categories[:i], l.Categories[i+1:]...)
			return true
		}
	}

	return false
}

func (l *Ledger) removeTransaction(id string) bool {
	for i, t := range l.Transactions {
		if t.ID == id {
			l.Transactions = append(l.Transactions[:i], l.Transactions[i+1:]...)
			return true
		}
	}

	return false
}

func (l *Ledger) replaceTransaction(tx *Transaction) bool {
	for i, t := range l.Transactions {
		if t.ID == tx.ID {
			l.Transactions[i] = tx
			return true
		}
	}

	return false
}

// Encode serializes the ledger to its canonical byte form, the plaintext of
// the at-rest envelope.
func (l *Ledger) Encode() ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encoding ledger: %w", err)
	}

	return data, nil
}

// Decode parses the canonical byte form produced by Encode.
func Decode(data []byte) (*Ledger, error) {
	l := New()
	if err := json.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("decoding ledger: %w", err)
	}

	return l, nil
}
