package ledger

import "fmt"

// TransactionDraft is a candidate transaction before validation. Amount is
// in minor units and must be positive.
type TransactionDraft struct {
	Type        TransactionType
	Date        Date
	AccountID   string
	ToAccountID string
	Amount      int64
	CategoryID  string
	Note        string
}

// AccountDraft is a candidate account. InitialBalance seeds both balance
// fields at creation and is never touched again.
type AccountDraft struct {
	Name           string
	Type           AccountType
	InitialBalance int64
}

// CategoryDraft is a candidate category.
type CategoryDraft struct {
	Name  string
	Kind  CategoryKind
	Color string
}

// Engine mutates a ledger while keeping every account balance equal to its
// initial balance plus the summed effect of the stored transactions that
// reference it. All mutations validate first and either complete fully or
// leave the ledger untouched.
type Engine struct {
	ledger *Ledger
}

func NewEngine(l *Ledger) *Engine {
	return &Engine{ledger: l}
}

// Ledger exposes the underlying collections for read-only use.
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

// CreateTransaction validates the draft, assigns an id, stores the
// transaction and applies its balance effect.
func (e *Engine) CreateTransaction(d TransactionDraft) (*Transaction, error) {
	if err := e.validateTransaction(d); err != nil {
		return nil, err
	}

	tx := draftToTransaction(NewID(), d)
	e.ledger.Transactions = append(e.ledger.Transactions, tx)
	e.apply(tx)

	return tx, nil
}

// UpdateTransaction replaces a stored transaction with a new validated
// draft. The old effect is reverted before the new one is applied, so edits
// that change kind, account and amount at once still balance.
func (e *Engine) UpdateTransaction(id string, d TransactionDraft) (*Transaction, error) {
	old := e.ledger.FindTransaction(id)
	if old == nil {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	if err := e.validateTransaction(d); err != nil {
		return nil, err
	}

	tx := draftToTransaction(id, d)

	e.revert(old)
	e.ledger.replaceTransaction(tx)
	e.apply(tx)

	return tx, nil
}

// DeleteTransaction reverts the balance effect and then removes the record.
// Reverting first is mandatory: once the record is gone there is nothing
// left to recompute the balance from.
func (e *Engine) DeleteTransaction(id string) error {
	tx := e.ledger.FindTransaction(id)
	if tx == nil {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	e.revert(tx)
	e.ledger.removeTransaction(id)

	return nil
}

// apply adds the transaction's effect to the referenced balances.
func (e *Engine) apply(tx *Transaction) {
	account := e.ledger.FindAccount(tx.AccountID)

	switch tx.Type {
	case TypeIncome:
		account.Balance += tx.Amount
	case TypeExpense:
		account.Balance -= tx.Amount
	case TypeTransfer:
		account.Balance -= tx.Amount
		e.ledger.FindAccount(tx.ToAccountID).Balance += tx.Amount
	}
}

// revert is the exact inverse of apply.
func (e *Engine) revert(tx *Transaction) {
	account := e.ledger.FindAccount(tx.AccountID)

	switch tx.Type {
	case TypeIncome:
		account.Balance -= tx.Amount
	case TypeExpense:
		account.Balance += tx.Amount
	case TypeTransfer:
		account.Balance += tx.Amount
		e.ledger.FindAccount(tx.ToAccountID).Balance -= tx.Amount
	}
}

func (e *Engine) validateTransaction(d TransactionDraft) error {
	if d.Type != TypeIncome && d.Type != TypeExpense && d.Type != TypeTransfer {
		return fmt.Errorf("%w: unknown transaction type %q", ErrValidation, d.Type)
	}

	if d.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}

	if d.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	if e.ledger.FindAccount(d.AccountID) == nil {
		return fmt.Errorf("%w: unknown account %q", ErrValidation, d.AccountID)
	}

	if d.Type == TypeTransfer {
		if d.ToAccountID == "" {
			return fmt.Errorf("%w: transfer requires a destination account", ErrValidation)
		}

		if d.ToAccountID == d.AccountID {
			return fmt.Errorf("%w: transfer source and destination must differ", ErrValidation)
		}

		if e.ledger.FindAccount(d.ToAccountID) == nil {
			return fmt.Errorf("%w: unknown account %q", ErrValidation, d.ToAccountID)
		}

		if d.CategoryID != "" {
			return fmt.Errorf("%w: transfers carry no category", ErrValidation)
		}

		return nil
	}

	if d.ToAccountID != "" {
		return fmt.Errorf("%w: only transfers carry a destination account", ErrValidation)
	}

	category := e.ledger.FindCategory(d.CategoryID)
	if category == nil {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, d.CategoryID)
	}

	if CategoryKind(d.Type) != category.Kind {
		return fmt.Errorf("%w: category %q is not a %s category", ErrValidation, category.Name, d.Type)
	}

	return nil
}

func draftToTransaction(id string, d TransactionDraft) *Transaction {
	return &Transaction{
		ID:          id,
		Type:        d.Type,
		Date:        d.Date,
		AccountID:   d.AccountID,
		ToAccountID: d.ToAccountID,
		Amount:      d.Amount,
		CategoryID:  d.CategoryID,
		Note:        d.Note,
	}
}

// CreateAccount adds an account whose balance starts at the draft's initial
// balance.
func (e *Engine) CreateAccount(d AccountDraft) (*Account, error) {
	if err := validateAccount(d); err != nil {
		return nil, err
	}

	account := &Account{
		ID:             NewID(),
		Name:           d.Name,
		Type:           d.Type,
		Balance:        d.InitialBalance,
		InitialBalance: d.InitialBalance,
	}
	e.ledger.Accounts = append(e.ledger.Accounts, account)

	return account, nil
}

// UpdateAccount edits account metadata. Balances are deliberately left
// alone: they belong to the transaction history.
func (e *Engine) UpdateAccount(id, name string, typ AccountType) (*Account, error) {
	account := e.ledger.FindAccount(id)
	if account == nil {
		return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}

	if err := validateAccount(AccountDraft{Name: name, Type: typ}); err != nil {
		return nil, err
	}

	account.Name = name
	account.Type = typ

	return account, nil
}

// DeleteAccount removes an account, but only while no stored transaction
// references it as source or destination.
func (e *Engine) DeleteAccount(id string) error {
	if e.ledger.FindAccount(id) == nil {
		return fmt.Errorf("account %s: %w", id, ErrNotFound)
	}

	for _, tx := range e.ledger.Transactions {
		if tx.AccountID == id || tx.ToAccountID == id {
			return fmt.Errorf("account %s: %w", id, ErrReferenced)
		}
	}

	e.ledger.removeAccount(id)

	return nil
}

func validateAccount(d AccountDraft) error {
	if d.Name == "" {
		return fmt.Errorf("%w: account name is required", ErrValidation)
	}

	switch d.Type {
	case AccountCash, AccountBank, AccountCredit, AccountInvestment:
		return nil
	}

	return fmt.Errorf("%w: unknown account type %q", ErrValidation, d.Type)
}

// CreateCategory adds a category.
func (e *Engine) CreateCategory(d CategoryDraft) (*Category, error) {
	if err := validateCategory(d); err != nil {
		return nil, err
	}

	category := &Category{
		ID:    NewID(),
		Name:  d.Name,
		Kind:  d.Kind,
		Color: d.Color,
	}
	e.ledger.Categories = append(e.ledger.Categories, category)

	return category, nil
}

// UpdateCategory edits name, kind and color. None of these affect balances,
// so referenced categories may be edited freely.
func (e *Engine) UpdateCategory(id string, d CategoryDraft) (*Category, error) {
	category := e.ledger.FindCategory(id)
	if category == nil {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}

	if err := validateCategory(d); err != nil {
		return nil, err
	}

	category.Name = d.Name
	category.Kind = d.Kind
	category.Color = d.Color

	return category, nil
}

// DeleteCategory removes a category, but only while no stored transaction
// references it.
func (e *Engine) DeleteCategory(id string) error {
	if e.ledger.FindCategory(id) == nil {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}

	for _, tx := range e.ledger.Transactions {
		if tx.CategoryID == id {
			return fmt.Errorf("category %s: %w", id, ErrReferenced)
		}
	}

	e.ledger.removeCategory(id)

	return nil
}

func validateCategory(d CategoryDraft) error {
	if d.Name == "" {
		return fmt.Errorf("%w: category name is required", ErrValidation)
	}

	if d.Kind != KindIncome && d.Kind != KindExpense {
		return fmt.Errorf("%w: unknown category kind %q", ErrValidation, d.Kind)
	}

	return nil
}
