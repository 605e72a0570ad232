package bracket

import "sort"

// Canonicalize sorts tax-table rows by IncomeMin and drops duplicate
// (IncomeMin, IncomeMax) pairs, keeping the first occurrence. The PDF's
// multi-column layout can surface the same band more than once; this is the
// step that makes PDF output order-equivalent to HTML output. It is
// idempotent and safe to run on already-clean input.
func Canonicalize(rows []TaxTableRow) []TaxTableRow {
	sorted := make([]TaxTableRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].IncomeMin < sorted[j].IncomeMin
	})

	type key struct{ min, max int64 }
	seen := make(map[key]bool, len(sorted))
	out := sorted[:0]
	for _, r := range sorted {
		k := key{r.IncomeMin, r.IncomeMax}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}
