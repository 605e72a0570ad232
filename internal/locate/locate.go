// Package locate finds the Tax Table and Tax Computation Worksheet regions
// inside IRS Form 1040 instructions. Two locators exist, one per source
// format: the current-year HTML page and the prior-year PDFs. Both feed the
// same field normalizer and produce the same structured result.
package locate

import (
	"errors"
	"fmt"

	"github.com/dgallion1/taxtables/internal/bracket"
	"github.com/dgallion1/taxtables/internal/fields"
)

// ErrStructureNotFound marks a structural failure: an expected heading,
// section label, or table is missing from the document. Individual rows that
// fail field parsing are skipped silently; this error is only for anchors
// the extraction cannot proceed without.
var ErrStructureNotFound = errors.New("structure not found")

// StructureError wraps ErrStructureNotFound with the missing anchor.
type StructureError struct {
	What string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("structure not found: %s", e.What)
}

func (e *StructureError) Unwrap() error { return ErrStructureNotFound }

// Table is a structurally extracted table: rows of text cells.
type Table [][]string

// Page is one PDF page as the locators consume it: the page's plain text
// and whatever tables could be recovered from it.
type Page struct {
	Text   string
	Tables []Table
}

// minTaxTableCells is the column count of a Tax Table data row:
// two income bounds plus four per-status amounts.
const minTaxTableCells = 6

// parseTaxTableCells interprets one row of the large Tax Table. Header and
// spacer rows fail integer parsing and are skipped by the caller.
func parseTaxTableCells(cells []string) (bracket.TaxTableRow, bool) {
	if len(cells) < minTaxTableCells {
		return bracket.TaxTableRow{}, false
	}
	var vals [6]int64
	for i := 0; i < 6; i++ {
		v, err := fields.Int(cells[i])
		if err != nil {
			return bracket.TaxTableRow{}, false
		}
		vals[i] = v
	}
	return bracket.TaxTableRow{
		IncomeMin:               vals[0],
		IncomeMax:               vals[1],
		Single:                  vals[2],
		MarriedFilingJointly:    vals[3],
		MarriedFilingSeparately: vals[4],
		HeadOfHousehold:         vals[5],
	}, true
}

// parseWorksheetCells interprets one row of a worksheet section table.
// Layout (both formats): range text, multiplier, rate, minus sign,
// subtraction amount.
func parseWorksheetCells(cells []string) (bracket.WorksheetBracket, bool) {
	if len(cells) < 5 {
		return bracket.WorksheetBracket{}, false
	}
	if !fields.IsWorksheetDataRow(cells[0]) {
		return bracket.WorksheetBracket{}, false
	}
	rate, ok := fields.Rate(cells[2])
	if !ok {
		return bracket.WorksheetBracket{}, false
	}
	min, max, ok := fields.IncomeBounds(cells[0])
	if !ok {
		return bracket.WorksheetBracket{}, false
	}
	return bracket.WorksheetBracket{
		IncomeMin:   min,
		IncomeMax:   max,
		Rate:        rate,
		Subtraction: fields.Subtraction(cells[4]),
	}, true
}
