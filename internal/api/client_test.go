// internal/api/client_test.go
package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/config"
	"github.com/your-org/storefront-client/internal/pkg/apierror"
)

func newClient(t *testing.T, baseURL string) *api.Client {
	t.Helper()

	cfg := &config.Config{
		API: config.APIConfig{
			BaseURL: baseURL,
			Timeout: 5 * time.Second,
		},
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return api.NewClient(cfg, logger)
}

func TestClientInjectsHeaders(t *testing.T) {
	var gotAuth, gotRequestID, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	client.SetToken("session-token")

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, client.Get(context.Background(), "/cart", &out))

	assert.True(t, out.OK)
	assert.Equal(t, "Bearer session-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	require.NoError(t, client.Get(context.Background(), "/products", nil))
	assert.Empty(t, gotAuth)
}

func TestClientClearToken(t *testing.T) {
	client := newClient(t, "http://example.test")
	client.SetToken("tok")
	client.ClearToken()
	assert.Empty(t, client.Token())
}

func TestClientWrapsNonSuccessAsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"message":"short and stout"}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	err := client.Get(context.Background(), "/teapot", nil)
	require.Error(t, err)

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTeapot, apiErr.StatusCode)
	assert.Equal(t, "short and stout", apierror.Message(err))
}

func TestClientWrapsTransportFailure(t *testing.T) {
	// Point at a closed server to force a connection failure
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newClient(t, server.URL)
	err := client.Get(context.Background(), "/cart", nil)
	require.Error(t, err)

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.StatusCode)
	assert.Equal(t, apierror.NetworkMessage, apierror.Message(err))
}

func TestClientPostSendsJSONBody(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	payload := map[string]int{"product_id": 7, "quantity": 2}
	require.NoError(t, client.Post(context.Background(), "/cart/items", payload, nil))

	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"product_id":7,"quantity":2}`, string(gotBody))
}
