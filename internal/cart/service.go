// Package cart maintains the ordered list of cart lines, merges lines
// by composite identity, clamps quantities against per-variant stock
// and persists every mutation to the durable local store.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nassimkhelifi/boutiqa-storefront/internal/catalog"
	"github.com/nassimkhelifi/boutiqa-storefront/internal/pricing"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/backend"
	pkgerrors "github.com/nassimkhelifi/boutiqa-storefront/pkg/errors"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/localstore"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/logger"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/metrics"
)

type productLoader interface {
	GetProduct(ctx context.Context, productID int64) (*backend.Product, error)
}

// Service exposes the cart mutations and reads.
type Service interface {
	Items(ctx context.Context) []Item
	Count(ctx context.Context) int
	Add(ctx context.Context, input AddInput) (*Item, error)
	SetQuantity(ctx context.Context, cartItemID string, quantity int) error
	Remove(ctx context.Context, cartItemID string) error
	Clear(ctx context.Context) error
	Subscribe(fn func())
}

// AddInput identifies the variant being added.
type AddInput struct {
	ProductID int64
	ColorID   int64
	Size      string
	Quantity  int
}

type service struct {
	store    localstore.Store
	products productLoader
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics

	mu          sync.Mutex
	items       []Item
	subscribers []func()
}

// NewService loads any persisted cart and returns the store service.
func NewService(ctx context.Context, store localstore.Store, products productLoader, logg *logger.Logger, m *metrics.StorefrontMetrics) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("local store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}

	svc := &service{
		store:    store,
		products: products,
		logg:     logg,
		metrics:  m,
	}

	raw, err := store.Get(ctx, localstore.KeyCart)
	switch {
	case errors.Is(err, localstore.ErrNotFound):
		// fresh cart
	case err != nil:
		return nil, fmt.Errorf("loading persisted cart: %w", err)
	default:
		if err := json.Unmarshal(raw, &svc.items); err != nil {
			// A corrupt snapshot is unrecoverable client state; start
			// over rather than refuse to boot.
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "discarding unreadable cart snapshot")
			}
			svc.items = nil
		}
	}

	return svc, nil
}

// Items returns a copy of the current lines in insertion order.
func (s *service) Items(context.Context) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

// Count is the badge counter: total units across all lines.
func (s *service) Count(context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Add merges into an existing line or appends a snapshot of the
// product at add time. The resulting quantity may never exceed the
// variant's current stock; an overflowing add is rejected whole.
func (s *service) Add(ctx context.Context, input AddInput) (*Item, error) {
	item, err := s.add(ctx, input)
	if err != nil {
		return nil, err
	}
	s.notify()
	return item, nil
}

func (s *service) add(ctx context.Context, input AddInput) (*Item, error) {
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	product, err := s.products.GetProduct(ctx, input.ProductID)
	if err != nil {
		s.observe("add", "error")
		return nil, err
	}

	ceiling := variantCeiling(product, input.ColorID, input.Size)
	if ceiling <= 0 {
		s.observe("add", "rejected")
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "variant is out of stock")
	}

	id := ItemID(input.ProductID, input.ColorID, input.Size)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyItems()
	index := indexOf(next, id)

	if index >= 0 {
		merged := next[index].Quantity + input.Quantity
		if merged > ceiling {
			s.observe("add", "rejected")
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "requested quantity exceeds available stock").
				WithDetails(map[string]any{"available": ceiling, "in_cart": next[index].Quantity})
		}
		next[index].Quantity = merged
		next[index].StockCeiling = ceiling
	} else {
		if input.Quantity > ceiling {
			s.observe("add", "rejected")
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "requested quantity exceeds available stock").
				WithDetails(map[string]any{"available": ceiling})
		}
		item := Item{
			CartItemID:    id,
			ProductID:     product.ID,
			Title:         product.Title,
			UnitPrice:     pricing.FinalUnitPrice(product),
			OriginalPrice: product.Price,
			Quantity:      input.Quantity,
			StockCeiling:  ceiling,
			Size:          input.Size,
		}
		if len(product.Images) > 0 {
			item.ImageURL = product.Images[0]
		}
		if color, ok := catalog.ColorByID(product, input.ColorID); ok {
			snapshot := color
			item.Color = &snapshot
		}
		next = append(next, item)
		index = len(next) - 1
	}

	if err := s.commit(ctx, next); err != nil {
		s.observe("add", "error")
		return nil, err
	}

	s.observe("add", "ok")
	saved := next[index]
	return &saved, nil
}

// SetQuantity sets a line's quantity directly, clamped to the
// snapshot ceiling. Zero removes the line.
func (s *service) SetQuantity(ctx context.Context, cartItemID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, cartItemID)
	}
	if err := s.setQuantity(ctx, cartItemID, quantity); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *service) setQuantity(ctx context.Context, cartItemID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyItems()
	index := indexOf(next, cartItemID)
	if index < 0 {
		s.observe("set_quantity", "rejected")
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if ceiling := next[index].StockCeiling; ceiling > 0 && quantity > ceiling {
		quantity = ceiling
	}
	next[index].Quantity = quantity

	if err := s.commit(ctx, next); err != nil {
		s.observe("set_quantity", "error")
		return err
	}
	s.observe("set_quantity", "ok")
	return nil
}

// Remove drops the line unconditionally.
func (s *service) Remove(ctx context.Context, cartItemID string) error {
	if err := s.remove(ctx, cartItemID); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *service) remove(ctx context.Context, cartItemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		if item.CartItemID != cartItemID {
			next = append(next, item)
		}
	}
	if len(next) == len(s.items) {
		s.observe("remove", "rejected")
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if err := s.commit(ctx, next); err != nil {
		s.observe("remove", "error")
		return err
	}
	s.observe("remove", "ok")
	return nil
}

// Clear empties the cart and deletes the persisted snapshot.
func (s *service) Clear(ctx context.Context) error {
	if err := s.clear(ctx); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *service) clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, localstore.KeyCart); err != nil {
		s.observe("clear", "error")
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear persisted cart")
	}
	s.items = nil
	s.observe("clear", "ok")
	return nil
}

// Subscribe registers an advisory listener invoked after every
// successful mutation, once the mutation's lock is released, so a
// listener may re-read the cart. A missed notification only means
// stale data until the next read.
func (s *service) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// commit persists the candidate list and only then swaps it in, so a
// failed write leaves the in-memory cart untouched.
func (s *service) commit(ctx context.Context, next []Item) error {
	payload, err := json.Marshal(next)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.store.Put(ctx, localstore.KeyCart, payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist cart")
	}
	s.items = next
	return nil
}

// notify snapshots the subscriber list and invokes the callbacks with
// no lock held; a subscriber calling Items or Count must not deadlock.
func (s *service) notify() {
	s.mu.Lock()
	subscribers := make([]func(), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn()
	}
}

func (s *service) copyItems() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *service) observe(operation, outcome string) {
	s.metrics.IncCartMutation(operation, outcome)
}

func indexOf(items []Item, cartItemID string) int {
	for i, item := range items {
		if item.CartItemID == cartItemID {
			return i
		}
	}
	return -1
}

// variantCeiling resolves the orderable quantity for the requested
// variant, falling back to the product-wide total when the shopper
// never picked a color (size-and-color-less products).
func variantCeiling(product *backend.Product, colorID int64, size string) int {
	if colorID != 0 {
		return catalog.StockForVariant(product, colorID, size)
	}
	if len(product.Colors) > 0 {
		// Color selection is required for color-tracked products.
		return 0
	}
	return catalog.TotalStock(product)
}
