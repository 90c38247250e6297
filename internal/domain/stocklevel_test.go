package domain_test

import (
	"testing"

	"bazaar/internal/domain"
)

func TestClassifyStock(t *testing.T) {
	cases := []struct {
		qty, min int
		want     domain.StockLevel
	}{
		{0, 0, domain.OutOfStock},
		{0, 5, domain.OutOfStock},
		{-1, 5, domain.OutOfStock},
		{1, 5, domain.LowStock},
		{5, 5, domain.LowStock}, // boundary: qty == threshold is still low
		{6, 5, domain.InStock},
		{3, 0, domain.InStock},
		{100, 20, domain.InStock},
	}
	for _, tc := range cases {
		if got := domain.ClassifyStock(tc.qty, tc.min); got != tc.want {
			t.Errorf("ClassifyStock(%d,%d) = %s, want %s", tc.qty, tc.min, got, tc.want)
		}
	}
}
