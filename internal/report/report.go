// Package report renders an extraction summary for one year's dataset.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/taxtables/internal/bracket"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown builds the summary document for a year's extracted dataset.
func Markdown(year int, source string, res *bracket.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Tax Brackets %d\n\n", year)
	fmt.Fprintf(&sb, "Extracted from the %s edition of the Form 1040 instructions.\n\n", source)

	fmt.Fprintf(&sb, "## Tax Table\n\n")
	fmt.Fprintf(&sb, "%d rows", len(res.TaxTable))
	if n := len(res.TaxTable); n > 0 {
		first, last := res.TaxTable[0], res.TaxTable[n-1]
		fmt.Fprintf(&sb, " covering $%d to $%d", first.IncomeMin, last.IncomeMax)
	}
	sb.WriteString(".\n\n")

	sb.WriteString("## Tax Computation Worksheet\n\n")
	sb.WriteString("| Filing status | Brackets | Top rate |\n")
	sb.WriteString("| --- | ---: | ---: |\n")
	for _, status := range bracket.Statuses {
		brackets := res.Worksheet[status]
		top := 0.0
		for _, b := range brackets {
			if b.Rate > top {
				top = b.Rate
			}
		}
		fmt.Fprintf(&sb, "| %s | %d | %.0f%% |\n", status, len(brackets), top*100)
	}
	return sb.String()
}

// HTML renders the summary as a standalone HTML fragment.
func HTML(year int, source string, res *bracket.Result) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(year, source, res)), &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
