// Package export writes a ledger out as a plain JSON backup document.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cofferapp/coffer/internal/ledger"
)

// Backup is the download format: the ledger payload plus the time the
// backup was taken. It is deliberately unencrypted so the user can read
// and re-import their own data anywhere.
type Backup struct {
	Accounts     []*ledger.Account     `json:"accounts"`
	Categories   []*ledger.Category    `json:"categories"`
	Transactions []*ledger.Transaction `json:"transactions"`
	ExportDate   time.Time             `json:"exportDate"`
}

// Write renders the ledger as an indented JSON backup stamped with now.
func Write(w io.Writer, l *ledger.Ledger, now time.Time) error {
	b := Backup{
		Accounts:     l.Accounts,
		Categories:   l.Categories,
		Transactions: l.Transactions,
		ExportDate:   now,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	return nil
}

// Filename returns the suggested download name for a backup taken at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("financial-data-%s.json", now.Format("2006-01-02"))
}
