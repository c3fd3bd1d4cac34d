// internal/domain/products/store.go

// Package products holds one server-paginated page of the product
// listing plus the free-text search query. The product list and the
// pagination meta always come from the same response and are replaced
// together.
package products

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/pkg/apierror"
)

// Store is the products state store
type Store struct {
	client *api.Client
	logger *logrus.Logger

	mu          sync.Mutex
	products    []Product
	meta        Meta
	searchQuery string
	loading     bool
	lastErr     string
}

// NewStore creates a new products store
func NewStore(client *api.Client, logger *logrus.Logger) *Store {
	return &Store{
		client: client,
		logger: logger,
	}
}

// Products returns the products of the currently held page
func (s *Store) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products
}

// Meta returns the pagination metadata of the currently held page
func (s *Store) Meta() Meta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

// SearchQuery returns the raw search text
func (s *Store) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery
}

// Loading reports whether a products action is in flight
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

// HasProducts reports whether the current page holds any products
func (s *Store) HasProducts() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products) > 0
}

// HasMorePages reports whether a later page exists
func (s *Store) HasMorePages() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta.CurrentPage < s.meta.LastPage
}

// CanGoPrevious reports whether an earlier page exists
func (s *Store) CanGoPrevious() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta.CurrentPage > 1
}

// FetchProducts loads one page of the listing, filtered by the stored
// search query. Page zero means "no page specified" and yields a
// query-only URL, letting the server pick its default page.
func (s *Store) FetchProducts(ctx context.Context, page int) error {
	s.begin()
	defer s.end()

	params := url.Values{}
	if query := strings.TrimSpace(s.SearchQuery()); query != "" {
		params.Set("search", query)
	}
	if page != 0 {
		params.Set("page", strconv.Itoa(page))
	}

	path := "/products"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result listResponse
	if err := s.client.Get(ctx, path, &result); err != nil {
		s.fail("Failed to load products", err)
		return err
	}

	// Products and meta come from one response; replace both at once
	s.mu.Lock()
	s.products = result.Data
	s.meta = result.Meta
	s.mu.Unlock()
	return nil
}

// CreateProduct creates a product, then refetches the page the user is
// currently on
func (s *Store) CreateProduct(ctx context.Context, form FormData) error {
	s.begin()
	defer s.end()

	page := s.currentPage()
	if err := s.client.Post(ctx, "/products", form, nil); err != nil {
		s.fail("Failed to create product", err)
		return err
	}

	return s.FetchProducts(ctx, page)
}

// UpdateProduct updates a product, then refetches the current page
func (s *Store) UpdateProduct(ctx context.Context, id uint, form FormData) error {
	s.begin()
	defer s.end()

	page := s.currentPage()
	if err := s.client.Put(ctx, fmt.Sprintf("/products/%d", id), form, nil); err != nil {
		s.fail("Failed to update product", err)
		return err
	}

	return s.FetchProducts(ctx, page)
}

// DeleteProduct deletes a product, then refetches the current page
func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	s.begin()
	defer s.end()

	page := s.currentPage()
	if err := s.client.Delete(ctx, fmt.Sprintf("/products/%d", id), nil); err != nil {
		s.fail("Failed to delete product", err)
		return err
	}

	return s.FetchProducts(ctx, page)
}

// SetSearchQuery stores the raw search text without fetching; the
// caller decides when to trigger FetchProducts
func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	s.searchQuery = query
	s.mu.Unlock()
}

// ClearSearch empties the query and resets the current page to one.
// No network call is made.
func (s *Store) ClearSearch() {
	s.mu.Lock()
	s.searchQuery = ""
	s.meta.CurrentPage = 1
	s.mu.Unlock()
}

// ChangePage fetches the given page of the listing
func (s *Store) ChangePage(ctx context.Context, page int) error {
	return s.FetchProducts(ctx, page)
}

// currentPage reads the page position at call time, so mutations can
// refetch the page the user is actually on
func (s *Store) currentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta.CurrentPage
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
