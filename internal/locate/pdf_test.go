package locate

import (
	"errors"
	"testing"

	"github.com/dgallion1/taxtables/internal/bracket"
)

func worksheetTable(rows int) Table {
	t := Table{
		{"Taxable income. If line 15 is—", "(b)", "Multiplication amount", "(d)", "Subtraction amount"},
		{"At least $100,000 but not over $197,300", "$100,000", "× 22% (0.22)", "−", "$ 5,086.00"},
		{"Over $197,300 but not over $250,525", "$197,300", "× 24% (0.24)", "−", "$ 9,032.00"},
		{"Over $250,525 but not over $626,350", "$250,525", "× 32% (0.32)", "−", "$ 29,074.00"},
		{"Over $626,350", "$626,350", "× 37% (0.37)", "−", "$ 42,979.75"},
	}
	for len(t) < rows {
		t = append(t, []string{"", "", "", "", ""})
	}
	return t[:rows]
}

func TestSegmentLine_TwoColumnsNoFallback(t *testing.T) {
	// Two complete windows on one physical line: accept, advance by 6,
	// accept again. No single-token steps needed.
	line := "50,000 50,050 5,920 5,526 5,920 5,832 53,000 53,050 6,420 6,026 6,420 6,332"
	rows := segmentLine(line)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].IncomeMin != 50000 || rows[0].IncomeMax != 50050 {
		t.Errorf("row 0 bounds: [%d,%d]", rows[0].IncomeMin, rows[0].IncomeMax)
	}
	if rows[0].Single != 5920 || rows[0].MarriedFilingJointly != 5526 {
		t.Errorf("row 0 amounts: %+v", rows[0])
	}
	if rows[1].IncomeMin != 53000 || rows[1].IncomeMax != 53050 {
		t.Errorf("row 1 bounds: [%d,%d]", rows[1].IncomeMin, rows[1].IncomeMax)
	}
	if rows[1].HeadOfHousehold != 6332 {
		t.Errorf("row 1 hoh: %d", rows[1].HeadOfHousehold)
	}
}

func TestSegmentLine_RecoversWithOffset(t *testing.T) {
	// A stray leading number misaligns the first window; the scan must
	// slide one token and still find the row.
	line := "15 1,000 1,005 101 102 103 104"
	rows := segmentLine(line)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].IncomeMin != 1000 || rows[0].IncomeMax != 1005 {
		t.Errorf("bounds: [%d,%d]", rows[0].IncomeMin, rows[0].IncomeMax)
	}
}

func TestSegmentLine_RejectsNonDataLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"running header", "2024 Tax Table — Continued use this column if"},
		{"too few tokens", "1,000 1,005 101"},
		{"first token not a number", "Page 67 1,000 1,005 101 102 103"},
		{"bad increment", "1,000 1,020 101 102 103 104"},
		{"above ceiling", "100,000 100,050 18,000 17,000 18,000 17,500"},
		{"empty", ""},
	}
	for _, tc := range tests {
		if rows := segmentLine(tc.line); len(rows) != 0 {
			t.Errorf("%s: expected no rows, got %d", tc.name, len(rows))
		}
	}
}

func TestPDFLocator_TaxTable_StateMachine(t *testing.T) {
	pages := []Page{
		// Mentions "Tax Table" without a column header: must not enter.
		{Text: "See the Tax Table later in these instructions.\n10,000 10,050 1,003 1,001 1,003 1,002"},
		// Real tax table start.
		{Text: "Tax Table\nAt But\n10,000 10,050 1,003 1,001 1,003 1,002"},
		// Continuation page (state persists).
		{Text: "continued\n10,050 10,100 1,009 1,006 1,009 1,007"},
		// Worksheet page ends the region.
		{Text: "Tax Computation Worksheet\n20,000 20,050 2,000 1,900 2,000 1,950"},
		{Text: "after\n30,000 30,050 3,000 2,900 3,000 2,950"},
	}
	l := &PDFLocator{Pages: pages}
	rows, err := l.TaxTable()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].IncomeMin != 10000 || rows[1].IncomeMin != 10050 {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestPDFLocator_TaxTable_DedupesAcrossPages(t *testing.T) {
	pages := []Page{
		{Text: "Tax Table\nYour tax is\n5,000 5,050 503 501 503 502"},
		{Text: "repeat\n5,000 5,050 503 501 503 502"},
	}
	l := &PDFLocator{Pages: pages}
	rows, err := l.TaxTable()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 deduped row, got %d", len(rows))
	}
}

func TestPDFLocator_TaxTable_NoPages(t *testing.T) {
	l := &PDFLocator{Pages: []Page{{Text: "nothing relevant"}}}
	_, err := l.TaxTable()
	if !errors.Is(err, ErrStructureNotFound) {
		t.Fatalf("expected ErrStructureNotFound, got %v", err)
	}
}

func TestPDFLocator_Worksheet_ExactRowFilter(t *testing.T) {
	page := Page{
		Text: "Tax Computation Worksheet",
		Tables: []Table{
			worksheetTable(3), // too small, filtered out
			worksheetTable(6),
			worksheetTable(6),
			worksheetTable(6),
			worksheetTable(6),
		},
	}
	l := &PDFLocator{Pages: []Page{page}}
	ws, err := l.Worksheet()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ws) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(ws))
	}
	for _, status := range bracket.Statuses {
		brackets := ws[status]
		if len(brackets) != 4 {
			t.Fatalf("%v: expected 4 brackets, got %d", status, len(brackets))
		}
		unbounded := 0
		for _, b := range brackets {
			if b.IncomeMax == nil {
				unbounded++
			}
		}
		if unbounded != 1 {
			t.Errorf("%v: expected exactly 1 unbounded bracket, got %d", status, unbounded)
		}
		if brackets[len(brackets)-1].IncomeMax != nil {
			t.Errorf("%v: top bracket should be unbounded", status)
		}
	}
}

func TestPDFLocator_Worksheet_RelaxedRowFilter(t *testing.T) {
	// Only two tables have exactly 6 rows; the 5–7 band must rescue the page.
	page := Page{
		Text: "Tax Computation Worksheet",
		Tables: []Table{
			worksheetTable(6),
			worksheetTable(6),
			worksheetTable(7),
			worksheetTable(5),
		},
	}
	l := &PDFLocator{Pages: []Page{page}}
	ws, err := l.Worksheet()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ws) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(ws))
	}
}

func TestPDFLocator_Worksheet_RejectsPageAndContinues(t *testing.T) {
	// First mention has too few qualifying tables; the scan must move on to
	// the next page instead of failing.
	pages := []Page{
		{Text: "Tax Computation Worksheet", Tables: []Table{worksheetTable(6)}},
		{Text: "Tax Computation Worksheet", Tables: []Table{
			worksheetTable(6), worksheetTable(6), worksheetTable(6), worksheetTable(6),
		}},
	}
	l := &PDFLocator{Pages: pages}
	ws, err := l.Worksheet()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ws) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(ws))
	}
}

func TestPDFLocator_Worksheet_NotFound(t *testing.T) {
	l := &PDFLocator{Pages: []Page{{Text: "no worksheet here"}}}
	_, err := l.Worksheet()
	if !errors.Is(err, ErrStructureNotFound) {
		t.Fatalf("expected ErrStructureNotFound, got %v", err)
	}
}
