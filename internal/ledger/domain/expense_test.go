package ledger

import "testing"

func TestDerivedVATRate(t *testing.T) {
	cases := []struct {
		name    string
		expense Expense
		want    float64
	}{
		{
			name:    "standard rate",
			expense: Expense{Amount: 1500, VATAmount: 315},
			want:    21.0,
		},
		{
			name:    "reduced rate",
			expense: Expense{Amount: 1000, VATAmount: 120},
			want:    12.0,
		},
		{
			name:    "rounds to one decimal",
			expense: Expense{Amount: 1234.56, VATAmount: 259.26},
			want:    21.0,
		},
		{
			name:    "zero amount",
			expense: Expense{Amount: 0, VATAmount: 100},
			want:    0,
		},
		{
			name:    "no vat",
			expense: Expense{Amount: 500, VATAmount: 0},
			want:    0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.expense.DerivedVATRate(); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestBaseAmount(t *testing.T) {
	exp := Expense{Amount: 1500, VATAmount: 315}
	if got := exp.BaseAmount(); got != 1185 {
		t.Fatalf("expected 1185, got %v", got)
	}
}
