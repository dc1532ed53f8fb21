// Package generic parses loosely structured CSV statements of the form
// date,note,amount[,category]. It is deliberately forgiving: header rows,
// blank lines and rows it cannot make sense of are skipped, not errors.
package generic

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/cofferapp/coffer/internal/encoding"
	"github.com/cofferapp/coffer/internal/ledger"
)

// Row is one candidate transaction parsed from a statement. Amount is the
// absolute value in minor units; the sign of the source amount selected the
// type.
type Row struct {
	Date         ledger.Date            `json:"date"`
	Note         string                 `json:"note"`
	Amount       int64                  `json:"amount"`
	Type         ledger.TransactionType `json:"type"`
	CategoryName string                 `json:"categoryName,omitempty"`
}

// Date layouts accepted, tried in order: ISO, slashed ISO, US month-first,
// European day-first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"2-1-2006",
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]Row, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var rows []Row

	for i, record := range records {
		if i == 0 && looksLikeHeader(record) {
			continue
		}

		if row, ok := parseRecord(record); ok {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

func looksLikeHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}

	first := strings.ToLower(record[0])

	return strings.Contains(first, "date") || strings.Contains(first, "日期")
}

func parseRecord(record []string) (Row, bool) {
	if len(record) < 3 {
		return Row{}, false
	}

	date, ok := parseDate(strings.TrimSpace(record[0]))
	if !ok {
		return Row{}, false
	}

	cents, ok := parseAmount(strings.TrimSpace(record[2]))
	if !ok || cents == 0 {
		return Row{}, false
	}

	row := Row{
		Date:   date,
		Note:   strings.TrimSpace(record[1]),
		Amount: cents,
		Type:   ledger.TypeIncome,
	}

	if cents < 0 {
		row.Amount = -cents
		row.Type = ledger.TypeExpense
	}

	if len(record) > 3 {
		row.CategoryName = strings.TrimSpace(record[3])
	}

	return row, true
}

func parseDate(s string) (ledger.Date, bool) {
	if s == "" {
		return ledger.Date{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ledger.NewDate(t.Date()), true
		}
	}

	return ledger.Date{}, false
}

// parseAmount converts a decimal string like "-12.50" into signed cents.
func parseAmount(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), true
}
