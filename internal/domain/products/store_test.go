// internal/domain/products/store_test.go
package products_test

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/config"
	"github.com/your-org/storefront-client/internal/domain/auth"
	"github.com/your-org/storefront-client/internal/domain/products"
	"github.com/your-org/storefront-client/internal/pkg/apitest"
	"github.com/your-org/storefront-client/internal/session"
)

type env struct {
	backend *apitest.Server
	store   *products.Store
}

// newEnv returns a products store with an authenticated session and 25
// seeded products at 10 per page, two of which match "widget"
func newEnv(t *testing.T) *env {
	t.Helper()

	backend := apitest.NewServer()
	require.NoError(t, backend.SeedUser("Ada", "ada@example.com", "correct horse"))
	for i := 1; i <= 23; i++ {
		backend.SeedProduct(fmt.Sprintf("Item %02d", i), "", float64(i), 5)
	}
	backend.SeedProduct("Widget Large", "", 99.0, 5)
	backend.SeedProduct("Widget Small", "", 49.0, 5)

	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	cfg := &config.Config{
		API: config.APIConfig{BaseURL: server.URL, Timeout: 5 * time.Second},
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client := api.NewClient(cfg, logger)
	sessions := session.NewFileStore(filepath.Join(t.TempDir(), "token"))
	authStore := auth.NewStore(client, sessions, logger)
	require.NoError(t, authStore.Login(context.Background(), "ada@example.com", "correct horse"))

	return &env{
		backend: backend,
		store:   products.NewStore(client, logger),
	}
}

func TestFetchProductsFirstPage(t *testing.T) {
	e := newEnv(t)

	// Page zero behaves as "no page specified"; the server picks its
	// default first page
	require.NoError(t, e.store.FetchProducts(context.Background(), 0))

	meta := e.store.Meta()
	assert.Equal(t, 25, meta.Total)
	assert.Equal(t, 10, meta.PerPage)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 3, meta.LastPage)
	assert.Equal(t, 1, meta.From)
	assert.Equal(t, 10, meta.To)

	assert.Len(t, e.store.Products(), 10)
	assert.True(t, e.store.HasProducts())
	assert.True(t, e.store.HasMorePages())
	assert.False(t, e.store.CanGoPrevious())
}

func TestChangePageToLast(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.store.ChangePage(context.Background(), 3))

	meta := e.store.Meta()
	assert.Equal(t, 3, meta.CurrentPage)
	assert.Equal(t, 21, meta.From)
	assert.Equal(t, 25, meta.To)
	assert.Len(t, e.store.Products(), 5)
	assert.False(t, e.store.HasMorePages())
	assert.True(t, e.store.CanGoPrevious())
}

func TestSearchTrimsTermAndKeepsRawQuery(t *testing.T) {
	e := newEnv(t)

	e.store.SetSearchQuery("  widget  ")
	require.NoError(t, e.store.FetchProducts(context.Background(), 0))

	assert.Equal(t, "  widget  ", e.store.SearchQuery())
	assert.Equal(t, 2, e.store.Meta().Total)
	require.Len(t, e.store.Products(), 2)
	assert.Equal(t, "Widget Large", e.store.Products()[0].Name)
}

func TestSetSearchQueryDoesNotFetch(t *testing.T) {
	e := newEnv(t)

	before := e.backend.RequestCount()
	e.store.SetSearchQuery("widget")
	assert.Equal(t, before, e.backend.RequestCount())
}

func TestClearSearchResetsPageWithoutNetworkCall(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.store.SetSearchQuery("widget")
	require.NoError(t, e.store.FetchProducts(ctx, 0))
	require.NoError(t, e.store.ChangePage(ctx, 1))

	before := e.backend.RequestCount()
	e.store.ClearSearch()

	assert.Equal(t, before, e.backend.RequestCount())
	assert.Empty(t, e.store.SearchQuery())
	assert.Equal(t, 1, e.store.Meta().CurrentPage)
}

func TestUpdateProductRefetchesCurrentPage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.store.ChangePage(ctx, 2))
	target := e.store.Products()[0]

	form := products.FormData{Name: "Renamed", Price: 1.50, Stock: 5}
	require.NoError(t, e.store.UpdateProduct(ctx, target.ID, form))

	// The user's page position is preserved, not reset to page one
	assert.Equal(t, 2, e.store.Meta().CurrentPage)
	assert.Equal(t, "Renamed", e.store.Products()[0].Name)
}

func TestDeleteProductRefetchesCurrentPage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.store.ChangePage(ctx, 2))
	target := e.store.Products()[0]

	require.NoError(t, e.store.DeleteProduct(ctx, target.ID))

	assert.Equal(t, 2, e.store.Meta().CurrentPage)
	assert.Equal(t, 24, e.store.Meta().Total)
	for _, product := range e.store.Products() {
		assert.NotEqual(t, target.ID, product.ID)
	}
}

func TestCreateProductRefetchesCurrentPage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.store.ChangePage(ctx, 3))

	form := products.FormData{Name: "Brand New", Description: "fresh", Price: 12.00, Stock: 7}
	require.NoError(t, e.store.CreateProduct(ctx, form))

	assert.Equal(t, 3, e.store.Meta().CurrentPage)
	assert.Equal(t, 26, e.store.Meta().Total)
}

func TestCreateProductValidationFailure(t *testing.T) {
	e := newEnv(t)

	err := e.store.CreateProduct(context.Background(), products.FormData{})
	require.Error(t, err)

	assert.Equal(t, "The name field is required.", e.store.Err())
	assert.False(t, e.store.Loading())
}

func TestDeleteUnknownProduct(t *testing.T) {
	e := newEnv(t)

	err := e.store.DeleteProduct(context.Background(), 9999)
	require.Error(t, err)

	assert.Equal(t, "Product not found", e.store.Err())
}

func TestProductsAndMetaReplacedTogether(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.store.FetchProducts(ctx, 1))
	firstPage := e.store.Products()

	require.NoError(t, e.store.FetchProducts(ctx, 2))
	secondPage := e.store.Products()

	assert.NotEqual(t, firstPage[0].ID, secondPage[0].ID)
	assert.Equal(t, 2, e.store.Meta().CurrentPage)
}
