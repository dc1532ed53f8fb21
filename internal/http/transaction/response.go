package transaction

import (
	"fmt"

	"github.com/cofferapp/coffer/internal/ledger"
)

// draftRequest mirrors the stored transaction shape. Edits send the full
// replacement, not a partial patch.
type draftRequest struct {
	Type        ledger.TransactionType `json:"type"`
	Date        string                 `json:"date"`
	AccountID   string                 `json:"accountId"`
	ToAccountID string                 `json:"toAccountId,omitempty"`
	Amount      int64                  `json:"amount"`
	CategoryID  string                 `json:"categoryId,omitempty"`
	Note        string                 `json:"note,omitempty"`
}

func (r draftRequest) draft() (ledger.TransactionDraft, error) {
	date, err := ledger.ParseDate(r.Date)
	if err != nil {
		return ledger.TransactionDraft{}, fmt.Errorf("%w: %v", ledger.ErrValidation, err)
	}

	return ledger.TransactionDraft{
		Type:        r.Type,
		Date:        date,
		AccountID:   r.AccountID,
		ToAccountID: r.ToAccountID,
		Amount:      r.Amount,
		CategoryID:  r.CategoryID,
		Note:        r.Note,
	}, nil
}

type listResponse struct {
	Transactions []*ledger.Transaction `json:"transactions"`
}
