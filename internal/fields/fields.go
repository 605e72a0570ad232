// Package fields holds the pattern matching shared by the HTML and PDF
// worksheet parsers. Both formats render the same fragments ("× 22% (0.22)",
// "$ 5,086.00", "At least $100,000 but not over $103,350"), so the
// normalization lives in one place.
package fields

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	ratePattern = regexp.MustCompile(`\((\d+\.\d+)\)`)
	subPattern  = regexp.MustCompile(`\$\s*([\d,]+\.\d+)`)
	minPattern  = regexp.MustCompile(`\$\s*([\d,]+)`)
	maxPattern  = regexp.MustCompile(`not over \$\s*([\d,]+)`)
	overPattern = regexp.MustCompile(`Over \$\s*([\d,]+)`)
)

// Int parses an integer that may carry thousands separators, e.g. "1,234".
func Int(s string) (int64, error) {
	return strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 10, 64)
}

// Rate extracts the parenthesized decimal rate from a cell like
// "× 22% (0.22)". A missing match means the row is not a data row.
func Rate(s string) (float64, bool) {
	m := ratePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	rate, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return rate, true
}

// Subtraction extracts a dollar-prefixed decimal like "$ 5,086.00".
// Rows without one default to 0.
func Subtraction(s string) float64 {
	m := subPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// IncomeBounds parses a worksheet range cell. Two shapes occur:
//
//	"At least $100,000 but not over $103,350"  -> (100000, 103350)
//	"Over $626,350"                            -> (626350, nil)
//
// The bool reports whether a lower bound was found at all.
func IncomeBounds(s string) (min int64, max *int64, ok bool) {
	if m := minPattern.FindStringSubmatch(s); m != nil {
		v, err := Int(m[1])
		if err != nil {
			return 0, nil, false
		}
		min, ok = v, true
	}
	if m := maxPattern.FindStringSubmatch(s); m != nil {
		if v, err := Int(m[1]); err == nil {
			max = &v
		}
	}
	if strings.Contains(s, "Over") && max == nil {
		if m := overPattern.FindStringSubmatch(s); m != nil {
			if v, err := Int(m[1]); err == nil {
				min, ok = v, true
			}
		}
	}
	return min, max, ok
}

// IsWorksheetDataRow reports whether a range cell belongs to a bracket row.
// Header and decoration rows mention neither the $100,000 floor nor "Over".
func IsWorksheetDataRow(rangeText string) bool {
	return strings.Contains(rangeText, "100,000") || strings.Contains(rangeText, "Over")
}
