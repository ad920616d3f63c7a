package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/genesis-wellness/storefront-api/internal/catalog"
)

func newRouter(t *testing.T) *chi.Mux {
	t.Helper()
	svc, err := catalog.NewService(catalog.ServiceConfig{
		Products: []catalog.Product{
			{ID: "multi", Name: "Daily Multivitamin", Category: catalog.CategoryFoundational, Price: 1999, Servings: 60, Featured: true},
			{ID: "melatonin", Name: "Melatonin 5mg", Category: catalog.CategorySleep, Price: 1299, Servings: 90},
		},
		Bundles: []catalog.Bundle{{ID: "duo", Name: "Duo", Price: 2999, ItemIDs: []string{"multi", "melatonin"}}},
	})
	require.NoError(t, err)
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})

	r := chi.NewRouter()
	r.Get("/products", handler.List)
	r.Get("/products/{id}", handler.Get)
	r.Get("/categories", handler.Categories)
	r.Get("/bundles", handler.Bundles)
	return r
}

func TestListProducts(t *testing.T) {
	router := newRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data []catalog.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
}

func TestListProductsCategoryFilter(t *testing.T) {
	router := newRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products?category=Sleep", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data []catalog.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "melatonin", resp.Data[0].ID)
}

func TestListProductsUnknownCategory(t *testing.T) {
	router := newRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products?category=Mystery", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListProductsFeaturedFilter(t *testing.T) {
	router := newRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products?featured=true", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data []catalog.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "multi", resp.Data[0].ID)
}

func TestGetProduct(t *testing.T) {
	router := newRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/multi", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/ghost", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCategoriesEndpoint(t *testing.T) {
	router := newRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data []catalog.CategorySummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 7)
}

func TestBundlesEndpoint(t *testing.T) {
	router := newRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/bundles", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data []catalog.Bundle `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "duo", resp.Data[0].ID)
}

func TestAvailableFor(t *testing.T) {
	usOnly := catalog.Product{ShippingScope: catalog.ScopeUSOnly}
	require.True(t, usOnly.AvailableFor(""))
	require.True(t, usOnly.AvailableFor(catalog.DomesticCountry))
	require.False(t, usOnly.AvailableFor("Germany"))

	global := catalog.Product{ShippingScope: catalog.ScopeAllDestinations}
	require.True(t, global.AvailableFor("Germany"))
}
