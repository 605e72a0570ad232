// Package compute answers tax lookups against an extracted dataset: the tax
// table below $100,000 of taxable income, the computation worksheet at or
// above it.
package compute

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/dgallion1/taxtables/internal/bracket"
)

// Incomes at or above this use the worksheet instead of the table.
const tableCeiling = 100_000

var (
	ErrNegativeIncome = errors.New("taxable income is negative")
	ErrNoBracket      = errors.New("no bracket covers this income")
)

// Calculator performs tax lookups for one year's dataset. The tax table
// must be sorted by income_min, which extraction guarantees.
type Calculator struct {
	res *bracket.Result
}

func NewCalculator(res *bracket.Result) *Calculator {
	return &Calculator{res: res}
}

// Tax returns the tax owed on the given taxable income for a filing status.
// Qualifying surviving spouse uses the married-filing-jointly column, so
// callers mapping that status pass MarriedFilingJointly here.
func (c *Calculator) Tax(income int64, status bracket.FilingStatus) (int64, error) {
	switch {
	case income < 0:
		return 0, ErrNegativeIncome
	case income == 0:
		return 0, nil
	case income < tableCeiling:
		return c.tableTax(income, status)
	default:
		return c.worksheetTax(income, status)
	}
}

// tableTax finds the table row covering income. Row bounds are half-open:
// income_min inclusive, income_max exclusive.
func (c *Calculator) tableTax(income int64, status bracket.FilingStatus) (int64, error) {
	rows := c.res.TaxTable
	i := sort.Search(len(rows), func(i int) bool {
		return rows[i].IncomeMax > income
	})
	if i == len(rows) || rows[i].IncomeMin > income {
		return 0, fmt.Errorf("%w: %d (%s)", ErrNoBracket, income, status)
	}
	return rows[i].Amount(status), nil
}

func (c *Calculator) worksheetTax(income int64, status bracket.FilingStatus) (int64, error) {
	for _, b := range c.res.Worksheet[status] {
		if income < b.IncomeMin {
			continue
		}
		if b.IncomeMax != nil && income > *b.IncomeMax {
			continue
		}
		tax := math.Round(float64(income)*b.Rate - b.Subtraction)
		return int64(tax), nil
	}
	return 0, fmt.Errorf("%w: %d (%s)", ErrNoBracket, income, status)
}
