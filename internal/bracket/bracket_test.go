package bracket

import (
	"reflect"
	"testing"
)

func TestSectionLabelOrder(t *testing.T) {
	want := []string{"Section A", "Section B", "Section C", "Section D"}
	for i, s := range Statuses {
		if s.SectionLabel() != want[i] {
			t.Errorf("status %d: expected %q, got %q", i, want[i], s.SectionLabel())
		}
	}
}

func TestStatusFromKey(t *testing.T) {
	for _, s := range Statuses {
		got, ok := StatusFromKey(s.Key())
		if !ok {
			t.Fatalf("key %q not found", s.Key())
		}
		if got != s {
			t.Errorf("key %q: expected %v, got %v", s.Key(), s, got)
		}
	}
	if _, ok := StatusFromKey("qualifying_widow"); ok {
		t.Error("expected unknown key to fail")
	}
}

func TestCanonicalize_SortsAndDedupes(t *testing.T) {
	rows := []TaxTableRow{
		{IncomeMin: 100, IncomeMax: 125, Single: 11},
		{IncomeMin: 0, IncomeMax: 5},
		{IncomeMin: 100, IncomeMax: 125, Single: 99}, // duplicate key, later value loses
		{IncomeMin: 50, IncomeMax: 75, Single: 6},
	}
	got := Canonicalize(rows)

	want := []TaxTableRow{
		{IncomeMin: 0, IncomeMax: 5},
		{IncomeMin: 50, IncomeMax: 75, Single: 6},
		{IncomeMin: 100, IncomeMax: 125, Single: 11},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	rows := []TaxTableRow{
		{IncomeMin: 25, IncomeMax: 50},
		{IncomeMin: 0, IncomeMax: 25},
		{IncomeMin: 25, IncomeMax: 50},
	}
	once := Canonicalize(rows)
	twice := Canonicalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("canonicalize not idempotent: %+v vs %+v", once, twice)
	}
}

func TestCanonicalize_StrictlyIncreasing(t *testing.T) {
	rows := []TaxTableRow{
		{IncomeMin: 15, IncomeMax: 25},
		{IncomeMin: 5, IncomeMax: 15},
		{IncomeMin: 0, IncomeMax: 5},
		{IncomeMin: 5, IncomeMax: 15},
	}
	got := Canonicalize(rows)
	for i := 1; i < len(got); i++ {
		if got[i].IncomeMin <= got[i-1].IncomeMin {
			t.Errorf("row %d: IncomeMin %d not increasing after %d", i, got[i].IncomeMin, got[i-1].IncomeMin)
		}
		if got[i].IncomeMin < got[i-1].IncomeMax {
			t.Errorf("row %d overlaps previous row", i)
		}
	}
}

func TestAmount(t *testing.T) {
	r := TaxTableRow{Single: 1, MarriedFilingJointly: 2, MarriedFilingSeparately: 3, HeadOfHousehold: 4}
	tests := []struct {
		status FilingStatus
		want   int64
	}{
		{Single, 1},
		{MarriedFilingJointly, 2},
		{MarriedFilingSeparately, 3},
		{HeadOfHousehold, 4},
	}
	for _, tc := range tests {
		if got := r.Amount(tc.status); got != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.status, tc.want, got)
		}
	}
}
