package pricing

import (
	"math/rand"
	"testing"

	"github.com/nassimkhelifi/boutiqa-storefront/pkg/backend"
)

func TestFinalUnitPrice(t *testing.T) {
	t.Parallel()

	product := &backend.Product{Price: 1000, Promo: 200}
	if got := FinalUnitPrice(product); got != 800 {
		t.Fatalf("expected 800, got %v", got)
	}

	product = &backend.Product{Price: 1000}
	if got := FinalUnitPrice(product); got != 1000 {
		t.Fatalf("expected full price without promo, got %v", got)
	}

	if got := FinalUnitPrice(nil); got != 0 {
		t.Fatalf("expected 0 for nil product, got %v", got)
	}
}

func TestDiscountPercent(t *testing.T) {
	t.Parallel()

	if got := DiscountPercent(&backend.Product{Price: 1000, Promo: 200}); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
	if got := DiscountPercent(&backend.Product{Price: 3000, Promo: 1000}); got != 33 {
		t.Fatalf("expected rounded 33, got %d", got)
	}
	if got := DiscountPercent(&backend.Product{Price: 1000}); got != 0 {
		t.Fatalf("expected 0 without promo, got %d", got)
	}
}

func TestSubtotalIsOrderIndependent(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{UnitPrice: 800, Quantity: 2},
		{UnitPrice: 1200.5, Quantity: 1},
		{UnitPrice: 300, Quantity: 4},
	}

	want := Subtotal(lines)

	shuffled := make([]Line, len(lines))
	copy(shuffled, lines)
	rand.New(rand.NewSource(42)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if got := Subtotal(shuffled); got != want {
		t.Fatalf("subtotal changed with order: %v vs %v", got, want)
	}
}

func TestCartDiscount(t *testing.T) {
	t.Parallel()

	percentage := 10.0
	fixed := 5000.0

	if got := CartDiscount(1600, &backend.Promo{Percentage: &percentage}); got != 160 {
		t.Fatalf("expected 160, got %v", got)
	}

	// A fixed discount can never push the total negative.
	if got := CartDiscount(3000, &backend.Promo{FixedAmount: &fixed}); got != 3000 {
		t.Fatalf("expected clamp to subtotal, got %v", got)
	}

	// Percentage wins when both fields are set.
	if got := CartDiscount(1000, &backend.Promo{Percentage: &percentage, FixedAmount: &fixed}); got != 100 {
		t.Fatalf("expected percentage branch, got %v", got)
	}

	if got := CartDiscount(1000, nil); got != 0 {
		t.Fatalf("expected 0 without promo, got %v", got)
	}
	if got := CartDiscount(1000, &backend.Promo{}); got != 0 {
		t.Fatalf("expected 0 with empty promo, got %v", got)
	}
}

func TestCartDiscountNeverExceedsSubtotal(t *testing.T) {
	t.Parallel()

	percentage := 100.0
	fixed := 99999.0
	subtotals := []float64{0, 1, 250.75, 3000, 100000}

	for _, subtotal := range subtotals {
		if got := CartDiscount(subtotal, &backend.Promo{Percentage: &percentage}); got > subtotal {
			t.Fatalf("percentage discount %v exceeds subtotal %v", got, subtotal)
		}
		if got := CartDiscount(subtotal, &backend.Promo{FixedAmount: &fixed}); got > subtotal {
			t.Fatalf("fixed discount %v exceeds subtotal %v", got, subtotal)
		}
	}
}

func TestDeliveryFee(t *testing.T) {
	t.Parallel()

	rate := &backend.DeliveryRate{Wilaya: "Alger", HomePrice: 500, OfficePrice: 350}

	if got := DeliveryFee(rate, DeliveryHome); got != 500 {
		t.Fatalf("expected home price, got %v", got)
	}
	if got := DeliveryFee(rate, DeliveryOffice); got != 350 {
		t.Fatalf("expected office price, got %v", got)
	}
	if got := DeliveryFee(nil, DeliveryHome); got != 0 {
		t.Fatalf("expected 0 without a rate, got %v", got)
	}
}

func TestGrandTotalWorkedExample(t *testing.T) {
	t.Parallel()

	// Price 1000 with flat promo 200, two units, 10% code, home
	// delivery to Alger at 500.
	product := &backend.Product{Price: 1000, Promo: 200}
	unit := FinalUnitPrice(product)
	subtotal := Subtotal([]Line{{UnitPrice: unit, Quantity: 2}})
	if subtotal != 1600 {
		t.Fatalf("expected subtotal 1600, got %v", subtotal)
	}

	percentage := 10.0
	discount := CartDiscount(subtotal, &backend.Promo{Percentage: &percentage})
	fee := DeliveryFee(&backend.DeliveryRate{HomePrice: 500}, DeliveryHome)

	if got := GrandTotal(subtotal, discount, fee); got != 1940 {
		t.Fatalf("expected 1940, got %v", got)
	}
}

func TestGrandTotalFixedDiscountFloorsAtDeliveryFee(t *testing.T) {
	t.Parallel()

	fixed := 5000.0
	subtotal := 3000.0
	discount := CartDiscount(subtotal, &backend.Promo{FixedAmount: &fixed})
	fee := 400.0

	if got := GrandTotal(subtotal, discount, fee); got != fee {
		t.Fatalf("expected grand total to equal delivery fee, got %v", got)
	}
}
