package bracket

// FilingStatus is one of the four federal filing status categories.
// The order matters: it pairs 1:1 with the "Section A".."Section D"
// labels the IRS uses for the Tax Computation Worksheet tables.
type FilingStatus int

const (
	Single FilingStatus = iota
	MarriedFilingJointly
	MarriedFilingSeparately
	HeadOfHousehold
)

// Statuses lists every filing status in worksheet section order.
var Statuses = []FilingStatus{
	Single,
	MarriedFilingJointly,
	MarriedFilingSeparately,
	HeadOfHousehold,
}

// SectionLabel returns the worksheet section label ("Section A".."Section D")
// that carries this status's brackets in both source formats.
func (s FilingStatus) SectionLabel() string {
	switch s {
	case Single:
		return "Section A"
	case MarriedFilingJointly:
		return "Section B"
	case MarriedFilingSeparately:
		return "Section C"
	case HeadOfHousehold:
		return "Section D"
	}
	return ""
}

// Key returns the snake_case identifier used in the CSV files.
func (s FilingStatus) Key() string {
	switch s {
	case Single:
		return "single"
	case MarriedFilingJointly:
		return "married_filing_jointly"
	case MarriedFilingSeparately:
		return "married_filing_separately"
	case HeadOfHousehold:
		return "head_of_household"
	}
	return ""
}

func (s FilingStatus) String() string {
	switch s {
	case Single:
		return "Single"
	case MarriedFilingJointly:
		return "Married Filing Jointly"
	case MarriedFilingSeparately:
		return "Married Filing Separately"
	case HeadOfHousehold:
		return "Head of Household"
	}
	return "Unknown"
}

// StatusFromKey maps a CSV key back to its FilingStatus.
func StatusFromKey(key string) (FilingStatus, bool) {
	for _, s := range Statuses {
		if s.Key() == key {
			return s, true
		}
	}
	return 0, false
}

// TaxTableRow is one income band from the IRS Tax Table (income under
// $100,000) with the pre-computed tax for each filing status.
type TaxTableRow struct {
	IncomeMin               int64
	IncomeMax               int64
	Single                  int64
	MarriedFilingJointly    int64
	MarriedFilingSeparately int64
	HeadOfHousehold         int64
}

// Amount returns the pre-computed tax for the given status.
func (r TaxTableRow) Amount(s FilingStatus) int64 {
	switch s {
	case Single:
		return r.Single
	case MarriedFilingJointly:
		return r.MarriedFilingJointly
	case MarriedFilingSeparately:
		return r.MarriedFilingSeparately
	case HeadOfHousehold:
		return r.HeadOfHousehold
	}
	return 0
}

// WorksheetBracket is one rate bracket from the Tax Computation Worksheet
// (income at or above $100,000) for a single filing status.
// IncomeMax is nil for the unbounded top bracket.
type WorksheetBracket struct {
	IncomeMin   int64
	IncomeMax   *int64
	Rate        float64
	Subtraction float64
}

// Result is the structured output of one document extraction: the full tax
// table plus the worksheet brackets keyed by filing status.
type Result struct {
	TaxTable  []TaxTableRow
	Worksheet map[FilingStatus][]WorksheetBracket
}
