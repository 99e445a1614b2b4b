package usecase

import (
	"strings"
	"testing"

	"github.com/merchsys/storefront/internal/domain/model"
)

func TestComputeTotalsSumsLines(t *testing.T) {
	totals := ComputeTotals([]model.CartLine{
		{UnitPrice: 1500, Quantity: 2},
		{UnitPrice: 700, Quantity: 1},
	}, 250)

	if totals.Subtotal != 3700 {
		t.Fatalf("unexpected subtotal %d", totals.Subtotal)
	}
	if totals.Shipping != 250 {
		t.Fatalf("unexpected shipping %d", totals.Shipping)
	}
	if totals.Total != 3950 {
		t.Fatalf("unexpected total %d", totals.Total)
	}
}

func TestComputeTotalsEmptyCartSkipsShipping(t *testing.T) {
	totals := ComputeTotals(nil, 250)
	if totals.Subtotal != 0 || totals.Shipping != 0 || totals.Total != 0 {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}

func TestNewReferenceFormat(t *testing.T) {
	ref := NewReference("PAY")
	if !strings.HasPrefix(ref, "PAY-") {
		t.Fatalf("missing prefix: %s", ref)
	}
	parts := strings.Split(ref, "-")
	if len(parts) != 3 {
		t.Fatalf("unexpected segment count in %s", ref)
	}
	if len(parts[2]) != 8 {
		t.Fatalf("unexpected suffix length in %s", ref)
	}
}

func TestNewReferenceUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := NewReference("ORD")
		if seen[ref] {
			t.Fatalf("duplicate reference %s", ref)
		}
		seen[ref] = true
	}
}
