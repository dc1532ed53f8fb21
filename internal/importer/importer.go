// Package importer turns CSV statement files into transaction drafts and
// commits confirmed drafts through the engine's normal create path.
package importer

import (
	"fmt"
	"io"

	"github.com/cofferapp/coffer/internal/importer/generic"
	"github.com/cofferapp/coffer/internal/ledger"
)

// Parser extracts candidate rows from a statement file.
type Parser interface {
	Parse(r io.Reader) ([]generic.Row, error)
}

type Service struct {
	parser Parser
}

func NewService() *Service {
	return &Service{parser: generic.NewParser()}
}

// Preview parses the file into candidate rows without touching the ledger.
func (s *Service) Preview(r io.Reader) ([]generic.Row, error) {
	return s.parser.Parse(r)
}

// Commit books the rows against the first account, resolving each row's
// category by name and kind and creating it when missing. Every row goes
// through the engine's validated create operation, so balances stay
// consistent. The batch is all or nothing: when any row is rejected, the
// rows and categories created so far are reverted and the ledger is left
// exactly as it was. Returns the number of transactions imported.
func (s *Service) Commit(rows []generic.Row, eng *ledger.Engine) (int, error) {
	accounts := eng.Ledger().Accounts
	if len(accounts) == 0 {
		return 0, fmt.Errorf("%w: create an account before importing", ledger.ErrValidation)
	}

	target := accounts[0]

	var (
		createdTxs  []string
		createdCats []string
	)

	rollback := func() {
		// Deleting through the engine undoes the balance effects; the
		// categories were created for this batch and are unreferenced
		// once their transactions are gone.
		for i := len(createdTxs) - 1; i >= 0; i-- {
			_ = eng.DeleteTransaction(createdTxs[i])
		}

		for _, id := range createdCats {
			_ = eng.DeleteCategory(id)
		}
	}

	for _, row := range rows {
		categoryID, created, err := s.resolveCategory(eng, row)
		if err != nil {
			rollback()
			return 0, err
		}

		if created {
			createdCats = append(createdCats, categoryID)
		}

		tx, err := eng.CreateTransaction(ledger.TransactionDraft{
			Type:       row.Type,
			Date:       row.Date,
			AccountID:  target.ID,
			Amount:     row.Amount,
			CategoryID: categoryID,
			Note:       row.Note,
		})
		if err != nil {
			rollback()
			return 0, fmt.Errorf("importing row %s %q: %w", row.Date, row.Note, err)
		}

		createdTxs = append(createdTxs, tx.ID)
	}

	return len(createdTxs), nil
}

// resolveCategory returns the category to book the row against, reporting
// whether it had to create one.
func (s *Service) resolveCategory(eng *ledger.Engine, row generic.Row) (string, bool, error) {
	kind := ledger.CategoryKind(row.Type)

	if row.CategoryName != "" {
		for _, c := range eng.Ledger().Categories {
			if c.Name == row.CategoryName && c.Kind == kind {
				return c.ID, false, nil
			}
		}

		category, err := eng.CreateCategory(ledger.CategoryDraft{
			Name:  row.CategoryName,
			Kind:  kind,
			Color: defaultColor(kind),
		})
		if err != nil {
			return "", false, fmt.Errorf("creating category %q: %w", row.CategoryName, err)
		}

		return category.ID, true, nil
	}

	// No name in the file: fall back to the first category of the right
	// kind.
	for _, c := range eng.Ledger().Categories {
		if c.Kind == kind {
			return c.ID, false, nil
		}
	}

	return "", false, fmt.Errorf("%w: no %s category exists", ledger.ErrValidation, kind)
}

func defaultColor(kind ledger.CategoryKind) string {
	if kind == ledger.KindIncome {
		return "#27ae60"
	}

	return "#3498db"
}
