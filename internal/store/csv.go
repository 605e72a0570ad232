// Package store serializes extraction results as the two per-year CSV
// datasets: data/<year>/tax_table.csv and
// data/<year>/tax_computation_worksheet.csv.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dgallion1/taxtables/internal/bracket"
)

const (
	TaxTableFile  = "tax_table.csv"
	WorksheetFile = "tax_computation_worksheet.csv"
)

var taxTableHeader = []string{
	"income_min", "income_max",
	"single", "married_filing_jointly", "married_filing_separately", "head_of_household",
}

var worksheetHeader = []string{
	"filing_status", "income_min", "income_max", "rate", "subtraction_amount",
}

// YearDir returns the dataset directory for a year under baseDir.
func YearDir(baseDir string, year int) string {
	return filepath.Join(baseDir, strconv.Itoa(year))
}

// Write persists both CSV files for a year, creating the directory.
func Write(baseDir string, year int, res *bracket.Result) error {
	dir := YearDir(baseDir, year)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create year dir: %w", err)
	}

	if err := writeFile(filepath.Join(dir, TaxTableFile), func(w *csv.Writer) error {
		return writeTaxTable(w, res.TaxTable)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, WorksheetFile), func(w *csv.Writer) error {
		return writeWorksheet(w, res.Worksheet)
	})
}

func writeFile(path string, fill func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := fill(w); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// WriteTaxTable writes the tax table CSV to w.
func WriteTaxTable(w io.Writer, rows []bracket.TaxTableRow) error {
	cw := csv.NewWriter(w)
	if err := writeTaxTable(cw, rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeTaxTable(w *csv.Writer, rows []bracket.TaxTableRow) error {
	if err := w.Write(taxTableHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.FormatInt(r.IncomeMin, 10),
			strconv.FormatInt(r.IncomeMax, 10),
			strconv.FormatInt(r.Single, 10),
			strconv.FormatInt(r.MarriedFilingJointly, 10),
			strconv.FormatInt(r.MarriedFilingSeparately, 10),
			strconv.FormatInt(r.HeadOfHousehold, 10),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// WriteWorksheet writes the worksheet CSV to w. An absent income_max is
// rendered as an empty field. Sections appear in filing-status order.
func WriteWorksheet(w io.Writer, ws map[bracket.FilingStatus][]bracket.WorksheetBracket) error {
	cw := csv.NewWriter(w)
	if err := writeWorksheet(cw, ws); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeWorksheet(w *csv.Writer, ws map[bracket.FilingStatus][]bracket.WorksheetBracket) error {
	if err := w.Write(worksheetHeader); err != nil {
		return err
	}
	for _, status := range bracket.Statuses {
		for _, b := range ws[status] {
			max := ""
			if b.IncomeMax != nil {
				max = strconv.FormatInt(*b.IncomeMax, 10)
			}
			rec := []string{
				status.Key(),
				strconv.FormatInt(b.IncomeMin, 10),
				max,
				strconv.FormatFloat(b.Rate, 'g', -1, 64),
				strconv.FormatFloat(b.Subtraction, 'g', -1, 64),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// Read loads both CSV files for a year back into a result.
func Read(baseDir string, year int) (*bracket.Result, error) {
	dir := YearDir(baseDir, year)

	tf, err := os.Open(filepath.Join(dir, TaxTableFile))
	if err != nil {
		return nil, fmt.Errorf("open tax table: %w", err)
	}
	defer tf.Close()
	rows, err := ReadTaxTable(tf)
	if err != nil {
		return nil, fmt.Errorf("read tax table: %w", err)
	}

	wf, err := os.Open(filepath.Join(dir, WorksheetFile))
	if err != nil {
		return nil, fmt.Errorf("open worksheet: %w", err)
	}
	defer wf.Close()
	ws, err := ReadWorksheet(wf)
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}

	return &bracket.Result{TaxTable: rows, Worksheet: ws}, nil
}

// ReadTaxTable parses a tax table CSV.
func ReadTaxTable(r io.Reader) ([]bracket.TaxTableRow, error) {
	records, err := readRecords(r, len(taxTableHeader))
	if err != nil {
		return nil, err
	}
	rows := make([]bracket.TaxTableRow, 0, len(records))
	for i, rec := range records {
		var vals [6]int64
		for j := 0; j < 6; j++ {
			v, err := strconv.ParseInt(rec[j], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d col %s: %w", i+1, taxTableHeader[j], err)
			}
			vals[j] = v
		}
		rows = append(rows, bracket.TaxTableRow{
			IncomeMin:               vals[0],
			IncomeMax:               vals[1],
			Single:                  vals[2],
			MarriedFilingJointly:    vals[3],
			MarriedFilingSeparately: vals[4],
			HeadOfHousehold:         vals[5],
		})
	}
	return rows, nil
}

// ReadWorksheet parses a worksheet CSV back into the per-status map.
func ReadWorksheet(r io.Reader) (map[bracket.FilingStatus][]bracket.WorksheetBracket, error) {
	records, err := readRecords(r, len(worksheetHeader))
	if err != nil {
		return nil, err
	}
	ws := make(map[bracket.FilingStatus][]bracket.WorksheetBracket)
	for i, rec := range records {
		status, ok := bracket.StatusFromKey(rec[0])
		if !ok {
			return nil, fmt.Errorf("row %d: unknown filing status %q", i+1, rec[0])
		}
		min, err := strconv.ParseInt(rec[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d income_min: %w", i+1, err)
		}
		var max *int64
		if rec[2] != "" {
			v, err := strconv.ParseInt(rec[2], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d income_max: %w", i+1, err)
			}
			max = &v
		}
		rate, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d rate: %w", i+1, err)
		}
		sub, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d subtraction_amount: %w", i+1, err)
		}
		ws[status] = append(ws[status], bracket.WorksheetBracket{
			IncomeMin:   min,
			IncomeMax:   max,
			Rate:        rate,
			Subtraction: sub,
		})
	}
	return ws, nil
}

func readRecords(r io.Reader, wantCols int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv")
	}
	for i, rec := range records[1:] {
		if len(rec) < wantCols {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+1, wantCols, len(rec))
		}
	}
	return records[1:], nil
}

// Years lists the dataset years present under baseDir, in directory order.
func Years(baseDir string) ([]int, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var years []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		year, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(baseDir, e.Name(), TaxTableFile)); err != nil {
			continue
		}
		years = append(years, year)
	}
	return years, nil
}
