// Package pdfdoc turns a downloaded instructions PDF into the page
// collection the locators consume: per-page line-oriented text plus tables
// recovered from positioned glyph runs. The instructions PDFs draw their
// worksheet tables without extractable ruling lines, so table recovery works
// from text geometry alone.
package pdfdoc

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/dgallion1/taxtables/internal/locate"
	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Load validates the PDF bytes and extracts every page.
func Load(data []byte) ([]locate.Page, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	if reader.NumPage() != ctx.PageCount {
		return nil, fmt.Errorf("page count mismatch: reader %d, pdfcpu %d", reader.NumPage(), ctx.PageCount)
	}

	pages := make([]locate.Page, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			pages = append(pages, locate.Page{})
			continue
		}
		pages = append(pages, extractPage(p))
	}
	return pages, nil
}

// extractPage builds one locate.Page from positioned text runs. Extraction
// errors on a single page degrade to an empty page; the locators treat
// pages without their markers as irrelevant anyway.
func extractPage(p pdflib.Page) locate.Page {
	pdfRows, err := p.GetTextByRow()
	if err != nil {
		return locate.Page{}
	}

	rows := make([]textRow, 0, len(pdfRows))
	for _, r := range pdfRows {
		row := textRow{y: float64(r.Position)}
		for _, t := range r.Content {
			row.runs = append(row.runs, run{x: t.X, w: t.W, s: t.S})
		}
		if len(row.runs) > 0 {
			rows = append(rows, row)
		}
	}
	// Top of page first.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	return locate.Page{
		Text:   pageText(rows),
		Tables: recoverTables(rows),
	}
}
