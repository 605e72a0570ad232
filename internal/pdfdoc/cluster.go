package pdfdoc

import (
	"sort"
	"strings"

	"github.com/dgallion1/taxtables/internal/locate"
)

// run is a positioned fragment of text on a page.
type run struct {
	x, w float64
	s    string
}

// textRow groups the runs sharing one baseline.
type textRow struct {
	y    float64
	runs []run
}

// Geometry thresholds, in PDF user-space units. A gap wider than wordGap
// separates words within a cell; wider than cellGap separates cells; a
// vertical jump larger than tableGap between consecutive baselines separates
// tables. Tuned against the 1040 instructions' 8pt table typography.
const (
	wordGap  = 2.0
	cellGap  = 14.0
	tableGap = 26.0
)

// pageText renders the rows as plain text, one line per baseline, words
// space-separated. This is the line-oriented shape the tax-table segmenter
// scans.
func pageText(rows []textRow) string {
	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Join(rowWords(row), " "))
	}
	return sb.String()
}

// rowWords merges a row's runs into words: runs separated by less than
// wordGap belong to the same word (PDFs often emit words as several runs).
func rowWords(row textRow) []string {
	runs := make([]run, len(row.runs))
	copy(runs, row.runs)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].x < runs[j].x })

	var words []string
	var cur strings.Builder
	var end float64
	for i, r := range runs {
		if i > 0 && r.x-end >= wordGap {
			if cur.Len() > 0 {
				words = append(words, cur.String())
				cur.Reset()
			}
		}
		cur.WriteString(r.s)
		end = r.x + r.w
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}

// rowCells splits a row into table cells at gaps wider than cellGap.
func rowCells(row textRow) []string {
	runs := make([]run, len(row.runs))
	copy(runs, row.runs)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].x < runs[j].x })

	var cells []string
	var cur strings.Builder
	var end float64
	for i, r := range runs {
		if i > 0 {
			gap := r.x - end
			switch {
			case gap >= cellGap:
				cells = append(cells, strings.TrimSpace(cur.String()))
				cur.Reset()
			case gap >= wordGap:
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(r.s)
		end = r.x + r.w
	}
	if s := strings.TrimSpace(cur.String()); s != "" || len(cells) > 0 {
		cells = append(cells, s)
	}
	return cells
}

// recoverTables groups vertically adjacent rows into candidate tables,
// breaking at baseline jumps wider than tableGap, and splits each row into
// cells. Single-row groups are prose, not tables, and are discarded.
func recoverTables(rows []textRow) []locate.Table {
	var tables []locate.Table
	var cur locate.Table
	prevY := 0.0

	flush := func() {
		if len(cur) > 1 {
			tables = append(tables, cur)
		}
		cur = nil
	}

	for _, row := range rows {
		if len(cur) > 0 && prevY-row.y > tableGap {
			flush()
		}
		cur = append(cur, rowCells(row))
		prevY = row.y
	}
	flush()
	return tables
}
