package locate

import (
	"strings"

	"github.com/dgallion1/taxtables/internal/bracket"
	"github.com/dgallion1/taxtables/internal/fields"
)

// The Tax Table bands income in fixed increments. A 6-token window whose
// bounds differ by anything else is a misaligned read, not a row.
var validIncrements = map[int64]bool{5: true, 10: true, 25: true, 50: true}

const tableIncomeCeiling = 100000

// Worksheet candidate tables carry 1 header row plus 5 bracket rows. Some
// years split or pad a row, so the filter relaxes once before rejecting
// the page.
const (
	worksheetExactRows = 6
	worksheetMinRows   = 5
	worksheetMaxRows   = 7
	worksheetSections  = 4
)

// PDFLocator extracts brackets from a prior-year instructions PDF,
// consumed as an ordered sequence of pages.
type PDFLocator struct {
	Pages []Page
}

// TaxTable walks the pages with a two-state machine. A page enters the tax
// table when it mentions "Tax Table" together with a column-header phrase
// (plain mentions elsewhere in the instructions don't qualify); the
// "Tax Computation Worksheet" page ends it. Pages inside the region are
// segmented line by line.
func (l *PDFLocator) TaxTable() ([]bracket.TaxTableRow, error) {
	var rows []bracket.TaxTableRow
	inTaxTable := false

	for _, page := range l.Pages {
		if strings.Contains(page.Text, "Tax Table") &&
			(strings.Contains(page.Text, "Your tax is") || strings.Contains(page.Text, "At But")) {
			inTaxTable = true
		} else if strings.Contains(page.Text, "Tax Computation Worksheet") {
			inTaxTable = false
		}
		if !inTaxTable {
			continue
		}
		for _, line := range strings.Split(page.Text, "\n") {
			rows = append(rows, segmentLine(line)...)
		}
	}

	if len(rows) == 0 {
		return nil, &StructureError{What: "Tax Table pages"}
	}
	return bracket.Canonicalize(rows), nil
}

// segmentLine recovers bracket rows from one line of extracted text. The
// PDF lays the table out in three columns per page, so a physical line can
// concatenate several rows: "50,000 50,050 5,920 5,526 5,920 5,832 53,000
// 53,050 ...". The scan greedily tries a 6-token window at each position
// and accepts it only when all six tokens parse as integers and the bounds
// pass the increment/range sanity checks; acceptance advances the cursor by
// a full window, rejection by one token.
//
// This is a best-effort heuristic: a line of look-alike numbers admitting
// two valid window splits is inherently ambiguous, and the scan takes the
// leftmost reading.
func segmentLine(line string) []bracket.TaxTableRow {
	tokens := strings.Fields(line)
	if len(tokens) < 6 {
		return nil
	}
	if _, err := fields.Int(tokens[0]); err != nil {
		return nil // running header, footnote, or other non-data line
	}

	var rows []bracket.TaxTableRow
	for i := 0; i+5 < len(tokens); {
		row, ok := parseWindow(tokens[i : i+6])
		if !ok {
			i++
			continue
		}
		rows = append(rows, row)
		i += 6
	}
	return rows
}

func parseWindow(window []string) (bracket.TaxTableRow, bool) {
	var vals [6]int64
	for i, tok := range window {
		v, err := fields.Int(tok)
		if err != nil {
			return bracket.TaxTableRow{}, false
		}
		vals[i] = v
	}
	diff := vals[1] - vals[0]
	if !validIncrements[diff] || vals[1] > tableIncomeCeiling || vals[0] < 0 {
		return bracket.TaxTableRow{}, false
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

// Worksheet scans for the first page mentioning "Tax Computation Worksheet"
// that yields at least four qualifying tables. The first four candidates in
// document order map onto the filing statuses in section order; the
// worksheet occupies a single page, so scanning stops there.
func (l *PDFLocator) Worksheet() (map[bracket.FilingStatus][]bracket.WorksheetBracket, error) {
	for _, page := range l.Pages {
		if !strings.Contains(page.Text, "Tax Computation Worksheet") {
			continue
		}

		candidates := filterTables(page.Tables, func(t Table) bool {
			return len(t) == worksheetExactRows
		})
		if len(candidates) < worksheetSections {
			candidates = filterTables(page.Tables, func(t Table) bool {
				return len(t) >= worksheetMinRows && len(t) <= worksheetMaxRows
			})
		}
		if len(candidates) < worksheetSections {
			continue
		}

		out := make(map[bracket.FilingStatus][]bracket.WorksheetBracket, worksheetSections)
		for i, status := range bracket.Statuses {
			var brackets []bracket.WorksheetBracket
			for _, row := range candidates[i] {
				if b, ok := parseWorksheetCells(row); ok {
					brackets = append(brackets, b)
				}
			}
			out[status] = brackets
		}
		return out, nil
	}
	return nil, &StructureError{What: "Tax Computation Worksheet tables"}
}

func filterTables(tables []Table, keep func(Table) bool) []Table {
	var out []Table
	for _, t := range tables {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
