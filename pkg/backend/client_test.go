package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/nassimkhelifi/boutiqa-storefront/pkg/errors"
)

func TestNewClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("   ")
	require.Error(t, err)
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/products/7", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": 7,
			"titre": "Robe kabyle",
			"prix": 1000,
			"promo": 200,
			"couleurs": [{"id": 1, "nom": "Rouge", "hex": "#c0392b"}],
			"tailles": ["M", "L"],
			"stock": [{"couleur_id": 1, "taille": "M", "quantite": 3}],
			"quantite": 12
		}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	product, err := client.GetProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Robe kabyle", product.Title)
	assert.Equal(t, float64(200), product.Promo)
	require.Len(t, product.Stock, 1)
	assert.Equal(t, int64(1), product.Stock[0].ColorID)
	assert.Equal(t, 12, product.LegacyQuantity)
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.GetProduct(context.Background(), 999)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListDeliveryRates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/livraisons", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"wilaya": "Alger", "tarif_domicile": 500, "tarif_bureau": 350, "delai_livraison": "24-48h", "active": true},
			{"wilaya": "Oran", "tarif_domicile": 700, "tarif_bureau": 450, "delai_livraison": "48-72h", "active": false}
		]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	rates, err := client.ListDeliveryRates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "Alger", rates[0].Wilaya)
	assert.Equal(t, float64(350), rates[0].OfficePrice)
	assert.False(t, rates[1].Active)
}

func TestGetDeliveryRateEscapesWilaya(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/livraisons/Bordj%20Bou%20Arreridj", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"wilaya": "Bordj Bou Arreridj", "tarif_domicile": 800, "tarif_bureau": 550, "active": true}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	rate, err := client.GetDeliveryRate(context.Background(), "Bordj Bou Arreridj")
	require.NoError(t, err)
	assert.Equal(t, float64(800), rate.HomePrice)
}

func TestVerifyPromoValid(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/promo/verify", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "ETE10", req["code"])

		_, _ = w.Write([]byte(`{"valid": true, "promo": {"id": 4, "code": "ete10", "pourcentage": 10}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	promo, err := client.VerifyPromo(context.Background(), "ETE10")
	require.NoError(t, err)
	assert.Equal(t, "ETE10", promo.Code)
	require.NotNil(t, promo.Percentage)
	assert.Equal(t, float64(10), *promo.Percentage)
	assert.Nil(t, promo.FixedAmount)
}

func TestVerifyPromoRejectionKeepsServerMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"valid": false, "message": "Code promo expiré"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.VerifyPromo(context.Background(), "VIEUX")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "Code promo expiré", typed.Message())
}

func TestVerifyPromoUpstream4xxMessagePassthrough(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "Code promo invalide"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.VerifyPromo(context.Background(), "FAUX")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "Code promo invalide", typed.Message())
}

func TestCreateOrder(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/orders", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Alger", payload["wilaya"])
		assert.Equal(t, "home", payload["type_livraison"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"orderId": 99}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	created, err := client.CreateOrder(context.Background(), OrderRequest{
		Articles:     []OrderLine{{ProductID: 7, Quantity: 2, UnitPrice: 800}},
		Wilaya:       "Alger",
		DeliveryType: "home",
		Total:        1940,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(99), created.OrderID)
}

func TestCreateOrderRequiresArticles(t *testing.T) {
	t.Parallel()

	client, err := NewClient("http://localhost:1")
	require.NoError(t, err)

	_, err = client.CreateOrder(context.Background(), OrderRequest{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServerErrorSurfacesAsDependency(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.ListDeliveryRates(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
