// internal/domain/cart/store.go

// Package cart holds the shopping cart state. Mutations never update the
// cart locally: every successful mutation refetches the whole cart so
// server-computed totals and stock adjustments are mirrored, not guessed.
package cart

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/pkg/apierror"
)

// Store is the cart state store
type Store struct {
	client *api.Client
	logger *logrus.Logger

	mu      sync.Mutex
	cart    *Cart
	loading bool
	lastErr string
}

// NewStore creates a new cart store
func NewStore(client *api.Client, logger *logrus.Logger) *Store {
	return &Store{
		client: client,
		logger: logger,
	}
}

// Cart returns the last fetched cart, nil before the first fetch
func (s *Store) Cart() *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Loading reports whether a cart action is in flight
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the display message of the last failed action
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Items returns the cart lines, empty when no cart is loaded
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return []Item{}
	}
	return s.cart.Items
}

// ItemCount returns the number of cart lines
func (s *Store) ItemCount() int {
	return len(s.Items())
}

// IsEmpty reports whether the cart has no lines
func (s *Store) IsEmpty() bool {
	return s.ItemCount() == 0
}

// Total derives the cart total as the sum of quantity times unit price
// over all lines. Zero when no cart is loaded. The total is never
// stored; the server remains authoritative.
func (s *Store) Total() float64 {
	var total float64
	for _, item := range s.Items() {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}

// FetchCart replaces the local cart with the server's
func (s *Store) FetchCart(ctx context.Context) error {
	s.begin()
	defer s.end()

	var result Cart
	if err := s.client.Get(ctx, "/cart", &result); err != nil {
		s.fail("Failed to load cart", err)
		return err
	}

	s.mu.Lock()
	s.cart = &result
	s.mu.Unlock()
	return nil
}

// AddItem adds a product to the cart, then refetches the cart to pick up
// the server-computed state
func (s *Store) AddItem(ctx context.Context, productID uint, quantity int) error {
	s.begin()
	defer s.end()

	payload := addItemRequest{ProductID: productID, Quantity: quantity}
	if err := s.client.Post(ctx, "/cart/items", payload, nil); err != nil {
		s.fail("Failed to add item to cart", err)
		return err
	}

	return s.FetchCart(ctx)
}

// ClearCart empties the cart server-side, then refetches it
func (s *Store) ClearCart(ctx context.Context) error {
	s.begin()
	defer s.end()

	if err := s.client.Delete(ctx, "/cart", nil); err != nil {
		s.fail("Failed to clear cart", err)
		return err
	}

	return s.FetchCart(ctx)
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *Store) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) fail(what string, err error) {
	s.mu.Lock()
	s.lastErr = apierror.Message(err)
	s.mu.Unlock()
	s.logger.WithError(err).Error(what)
}
