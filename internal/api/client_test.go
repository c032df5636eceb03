package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Json604/labubu-ecom/internal/auth"
	"github.com/Json604/labubu-ecom/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *auth.MemStore) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds := auth.NewMemStore()
	client := New(Config{
		BaseURL:     srv.URL,
		Credentials: creds,
		HTTPClient:  srv.Client(),
	})
	return client, creds
}

func TestDo_SendsBearerToken(t *testing.T) {
	var gotAuth string
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]domain.CartItem{})
	})
	require.NoError(t, creds.Save("tok-123", nil))

	_, err := client.Cart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(domain.ProductPage{})
	})

	_, err := client.Products(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestDo_UnauthorizedClearsCredentials(t *testing.T) {
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errorResponse{Error: "invalid or expired token", Code: "unauthorized"})
	})
	require.NoError(t, creds.Save("stale-token", &domain.User{ID: "u1"}))

	_, err := client.Cart(context.Background())
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindAuthRequired, apiErr.Kind)
	assert.Equal(t, "invalid or expired token", apiErr.Message)
	assert.True(t, IsAuthRequired(err))

	// The stale credential is gone so the next attempt starts logged out.
	assert.Empty(t, creds.Token())
	assert.Nil(t, creds.User())
}

func TestDo_BackendErrorBodyWins(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResponse{Error: "cart is empty", Code: "empty_cart"})
	})

	_, err := client.CreateOrder(context.Background())
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Equal(t, "cart is empty", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
}

func TestDo_NonJSONErrorBodyFallsBack(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := client.Order(context.Background(), "o1")
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "500")
}

func TestDo_ConnectionRefusedIsNetworkKind(t *testing.T) {
	creds := auth.NewMemStore()
	client := New(Config{
		// Nothing listens here.
		BaseURL:     "http://127.0.0.1:1",
		Credentials: creds,
	})

	_, err := client.Cart(context.Background())
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.Zero(t, apiErr.HTTPStatus)
}

func TestLogin_StoresCredential(t *testing.T) {
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		json.NewEncoder(w).Encode(authResponse{
			Token: "tok-login",
			User:  &domain.User{ID: "u1", Email: "a@example.com"},
		})
	})

	user, err := client.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "tok-login", creds.Token())
}

func TestMe_RefreshesStoredProfile(t *testing.T) {
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		json.NewEncoder(w).Encode(domain.User{ID: "u1", Name: "Renamed", Email: "a@example.com"})
	})
	require.NoError(t, creds.Save("tok-123", &domain.User{ID: "u1", Name: "Stale"}))

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", user.Name)

	// The stored profile caught up; the token is untouched.
	assert.Equal(t, "tok-123", creds.Token())
	require.NotNil(t, creds.User())
	assert.Equal(t, "Renamed", creds.User().Name)
}

func TestCreatePayment_SendsOrderID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "order-1", body["orderId"])
		json.NewEncoder(w).Encode(domain.PaymentIntent{
			PaymentID:        "pay-1",
			OrderID:          "order-1",
			ProviderOrderRef: "pord_x",
			ProviderKeyID:    "rzp_test",
		})
	})

	intent, err := client.CreatePayment(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, "pord_x", intent.ProviderOrderRef)
	assert.Equal(t, "rzp_test", intent.ProviderKeyID)
}

func TestKindForStatus(t *testing.T) {
	assert.Equal(t, KindAuthRequired, kindForStatus(401))
	assert.Equal(t, KindAuthRequired, kindForStatus(403))
	assert.Equal(t, KindNotFound, kindForStatus(404))
	assert.Equal(t, KindValidation, kindForStatus(409))
	assert.Equal(t, KindServer, kindForStatus(500))
}
