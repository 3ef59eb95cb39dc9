package cart

import (
	"context"
	"testing"

	"github.com/nassimkhelifi/boutiqa-storefront/pkg/backend"
	pkgerrors "github.com/nassimkhelifi/boutiqa-storefront/pkg/errors"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/localstore"
)

type stubProductLoader struct {
	product *backend.Product
	err     error
}

func (s stubProductLoader) GetProduct(context.Context, int64) (*backend.Product, error) {
	return s.product, s.err
}

func testProduct() *backend.Product {
	return &backend.Product{
		ID:     7,
		Title:  "Robe kabyle",
		Price:  1000,
		Promo:  200,
		Images: []string{"https://img.example/robe.jpg"},
		Colors: []backend.Color{{ID: 1, Name: "Rouge", Hex: "#c0392b"}},
		Sizes:  []string{"M", "L"},
		Stock: []backend.StockRecord{
			{ColorID: 1, Size: "M", Quantity: 3},
			{ColorID: 1, Size: "L", Quantity: 8},
		},
	}
}

func newTestService(t *testing.T, loader productLoader) (Service, *localstore.Memory) {
	t.Helper()
	store := localstore.NewMemory()
	svc, err := NewService(context.Background(), store, loader, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc, store
}

func TestItemID(t *testing.T) {
	t.Parallel()

	if got := ItemID(7, 1, "M"); got != "7-1-M" {
		t.Fatalf("unexpected id: %s", got)
	}
	if got := ItemID(7, 0, ""); got != "7-default-default" {
		t.Fatalf("unexpected id: %s", got)
	}
}

func TestAddSnapshotsProduct(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, stubProductLoader{product: testProduct()})

	item, err := svc.Add(context.Background(), AddInput{ProductID: 7, ColorID: 1, Size: "M", Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.CartItemID != "7-1-M" {
		t.Fatalf("unexpected cart item id: %s", item.CartItemID)
	}
	if item.UnitPrice != 800 || item.OriginalPrice != 1000 {
		t.Fatalf("unexpected price snapshot: %+v", item)
	}
	if item.StockCeiling != 3 || item.Quantity != 2 {
		t.Fatalf("unexpected quantities: %+v", item)
	}
	if item.Color == nil || item.Color.Name != "Rouge" {
		t.Fatalf("expected color snapshot, got %+v", item.Color)
	}
}

func TestAddMergesSameVariant(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, stubProductLoader{product: testProduct()})
	ctx := context.Background()

	if _, err := svc.Add(ctx, AddInput{ProductID: 7, ColorID: 1, Size: "M"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Add(ctx, AddInput{ProductID: 7, ColorID: 1, Size: "M"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := svc.Items(ctx)
	if len(items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected summed quantity 2, got %d", items[0].Quantity)
	}
}

func TestAddRejectsPastStockCeiling(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, stubProductLoader{product: testProduct()})
	ctx := context.Background()

	// Variant (Rouge, M) has 3 in stock; the cart already holds all 3.
	if _, err := svc.Add(ctx, AddInput{ProductID: 7, ColorID: 1, Size: "M", Quantity: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Add(ctx, AddInput{ProductID: 7, ColorID: 1, Size: "M", Quantity: 1})
	if err == nil {
		t.Fatal("expected rejection past the stock ceiling")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error code: %v", err)
	}

	items := svc.Items(ctx)
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("expected quantity to remain 3, got %+v", items)
	}
}

func TestAddRejectsOutOfStockVariant(t *testing.T) {
	t.Parallel()

	product := testProduct()
	product.Stock = nil
	svc, _ := newTestService(t, stubProductLoader{product: product})

	_, err := svc.Add(context.Background(), AddInput{ProductID: 7, ColorID: 1, Size: "M"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for out-of-stock variant, got %v", err)
	}
}

func TestSetQuantityClampsAndRemoves(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, stubProductLoader{product: testProduct()})
	ctx := context.Background()

	item, err := svc.Add(ctx, AddInput{ProductID: 7, ColorID: 1, Size: "L", Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SetQuantity(ctx, item.CartItemID, 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.Items(ctx)[0].Quantity; got != 8 {
		t.Fatalf("expected clamp to ceiling 8, got %d", got)
	}

	if err := svc.SetQuantity(ctx, item.CartItemID, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, remaining := range svc.Items(ctx) {
		if remaining.CartItemID == item.CartItemID {
			t.Fatalf("expected line removed, still present: %+v", remaining)
		}
	}
}

func TestSetQuantityUnknownItem(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, stubProductLoader{product: testProduct()})
	err := svc.SetQuantity(context.Background(), "7-9-XL", 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCartPersistsAcrossRestarts(t *testing.T) {
	t.Parallel()

	store := localstore.NewMemory()
	ctx := context.Background()

	svc, err := NewService(ctx, store, stubProductLoader{product: testProduct()}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Add(ctx, AddInput{ProductID: 7, ColorID: 1, Size: "M", Quantity: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := NewService(ctx, store, stubProductLoader{product: testProduct()}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := reloaded.Items(ctx)
	if len(items) != 1 || items[0].Quantity != 2 || items[0].UnitPrice != 800 {
		t.Fatalf("unexpected restored cart: %+v", items)
	}
}

func TestClearEmptiesCartAndStore(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, stubProductLoader{product: testProduct()})
	ctx := context.Background()

	if _, err := svc.Add(ctx, AddInput{ProductID: 7, ColorID: 1, Size: "M"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.Count(ctx); got != 0 {
		t.Fatalf("expected empty cart, count %d", got)
	}
	if _, err := store.Get(ctx, localstore.KeyCart); err != localstore.ErrNotFound {
		t.Fatalf("expected snapshot deleted, got %v", err)
	}
}

func TestSubscriberCanReadCartDuringNotification(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, stubProductLoader{product: testProduct()})
	ctx := context.Background()

	// Subscribers are documented to re-read the cart; Count must not
	// block on the mutation that triggered the notification.
	var counts []int
	svc.Subscribe(func() { counts = append(counts, svc.Count(ctx)) })

	if _, err := svc.Add(ctx, AddInput{ProductID: 7, ColorID: 1, Size: "M", Quantity: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SetQuantity(ctx, "7-1-M", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{2, 1, 0}
	if len(counts) != len(want) {
		t.Fatalf("expected %d notifications, got %v", len(want), counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("unexpected counts seen by subscriber: %v", counts)
		}
	}
}

func TestMutationsNotifySubscribers(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, stubProductLoader{product: testProduct()})
	ctx := context.Background()

	notified := 0
	svc.Subscribe(func() { notified++ })

	if _, err := svc.Add(ctx, AddInput{ProductID: 7, ColorID: 1, Size: "M"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if notified != 2 {
		t.Fatalf("expected 2 notifications, got %d", notified)
	}
}
