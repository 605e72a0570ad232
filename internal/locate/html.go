package locate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/taxtables/internal/bracket"
	"golang.org/x/net/html"
)

// The large Tax Table has 2000+ rows; decorative tables near the heading
// never exceed a few dozen. Anything past this threshold is the real one.
const minTaxTableRows = 100

var titleYearPattern = regexp.MustCompile(`1040\s*\((\d{4})\)`)

// HTMLLocator extracts brackets from the current-year instructions page.
type HTMLLocator struct {
	Doc *html.Node
}

// Year reports which tax year the page covers, read from the title
// ("1040 (2025) | Internal Revenue Service"). Zero means no match; that is
// the normal trigger for falling back to a prior-year PDF, not an error.
func (l *HTMLLocator) Year() int {
	title := findElement(l.Doc, "title")
	if title == nil {
		return 0
	}
	m := titleYearPattern.FindStringSubmatch(textContent(title))
	if m == nil {
		return 0
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return year
}

// TaxTable finds the "Tax Table" heading, then the first following table
// with more than minTaxTableRows rows, and parses its data rows.
func (l *HTMLLocator) TaxTable() ([]bracket.TaxTableRow, error) {
	var heading *html.Node
	for _, h2 := range findAllElements(l.Doc, "h2") {
		if strings.TrimSpace(textContent(h2)) == "Tax Table" {
			heading = h2
			break
		}
	}
	if heading == nil {
		return nil, &StructureError{What: `"Tax Table" heading`}
	}

	var big *html.Node
	for _, table := range followingElements(heading, "table") {
		if len(tableRows(table)) > minTaxTableRows {
			big = table
			break
		}
	}
	if big == nil {
		return nil, &StructureError{What: "large Tax Table"}
	}

	var rows []bracket.TaxTableRow
	for _, tr := range tableRows(big) {
		if row, ok := parseTaxTableCells(cellTexts(tr)); ok {
			rows = append(rows, row)
		}
	}
	return bracket.Canonicalize(rows), nil
}

// Worksheet finds the four "Section A".."Section D" worksheet tables by
// their text anchors. A missing section aborts the whole worksheet; partial
// results would silently drop a filing status.
func (l *HTMLLocator) Worksheet() (map[bracket.FilingStatus][]bracket.WorksheetBracket, error) {
	out := make(map[bracket.FilingStatus][]bracket.WorksheetBracket, len(bracket.Statuses))
	for _, status := range bracket.Statuses {
		table := l.findSectionTable(status.SectionLabel())
		if table == nil {
			return nil, &StructureError{What: status.SectionLabel() + " worksheet table"}
		}
		var brackets []bracket.WorksheetBracket
		for _, tr := range tableRows(table) {
			if b, ok := parseWorksheetCells(cellTexts(tr)); ok {
				brackets = append(brackets, b)
			}
		}
		out[status] = brackets
	}
	return out, nil
}

// findSectionTable locates the text node containing both the section label
// and "filing status" (case-insensitive), then takes the next table element
// in document order after that node's parent.
func (l *HTMLLocator) findSectionTable(label string) *html.Node {
	var anchor *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.TextNode &&
			strings.Contains(n.Data, label) &&
			strings.Contains(strings.ToLower(n.Data), "filing status") {
			anchor = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(l.Doc)
	if anchor == nil {
		return nil
	}

	parent := anchor.Parent
	if parent == nil {
		return nil
	}
	tables := followingElements(parent, "table")
	if len(tables) == 0 {
		return nil
	}
	return tables[0]
}

// --- html.Node traversal helpers ---

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAllElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// followingElements returns elements with the given tag that come after n in
// document order: descendants of later siblings of n or of its ancestors.
func followingElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for cur := n; cur != nil; cur = cur.Parent {
		for sib := cur.NextSibling; sib != nil; sib = sib.NextSibling {
			out = append(out, findAllElements(sib, tag)...)
		}
	}
	return out
}

func tableRows(table *html.Node) []*html.Node {
	return findAllElements(table, "tr")
}

func cellTexts(tr *html.Node) []string {
	var cells []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
			cells = append(cells, strings.TrimSpace(textContent(n)))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(tr)
	return cells
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
