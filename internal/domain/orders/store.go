// internal/domain/orders/store.go

// Package orders holds the order history. Creating an order never
// inserts locally: the list is refetched so order numbers, totals and
// statuses come from the server.
package orders

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/pkg/apierror"
)

// Store is the orders state store
type Store struct {
	client *api.Client
	logger *logrus.Logger

	mu      sync.Mutex
	orders  []Order
	loading bool
	lastErr string
}

// NewStore creates a new orders store
func NewStore(client *api.Client, logger *logrus.Logger) *Store {
	return &Store{
		client: client,
		logger: logger,
	}
}

// Orders returns the last fetched order list
func (s *Store) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders
}

// Loading reports whether an orders action is in flight
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

// HasOrders reports whether any orders have been loaded
func (s *Store) HasOrders() bool {
	return s.OrderCount() > 0
}

// OrderCount returns the number of loaded orders
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// FetchOrders replaces the local order list with the server's
func (s *Store) FetchOrders(ctx context.Context) error {
	s.begin()
	defer s.end()

	var result []Order
	if err := s.client.Get(ctx, "/orders", &result); err != nil {
		s.fail("Failed to load orders", err)
		return err
	}

	s.mu.Lock()
	s.orders = result
	s.mu.Unlock()
	return nil
}

// CreateOrder places an order from the current cart, then refetches the
// order list
func (s *Store) CreateOrder(ctx context.Context, address, phone string) error {
	s.begin()
	defer s.end()

	payload := FormData{Address: address, Phone: phone}
	if err := s.client.Post(ctx, "/orders", payload, nil); err != nil {
		s.fail("Failed to create order", err)
		return err
	}

	return s.FetchOrders(ctx)
}

// FormatDate renders an order timestamp for display. Presentation only,
// never persisted.
func FormatDate(t time.Time) string {
	return t.Local().Format("Jan 2, 2006 3:04 PM")
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
