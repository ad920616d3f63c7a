package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/genesis-wellness/storefront-api/internal/shipping"
)

func TestSummaryEndpoint(t *testing.T) {
	svc, cartSvc, _ := testEnv(t)
	handler := &Handler{Svc: svc, Validate: validator.New()}

	cartID, err := cartSvc.Create(context.Background())
	require.NoError(t, err)
	require.NoError(t, cartSvc.AddItems(context.Background(), cartID, []string{"multi"}, 1, nil))

	body := `{"cartId":"` + cartID + `","country":"United States"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/summary", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Summary(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, cartID, resp.Data.CartID)
	require.Equal(t, shipping.StatusOK, resp.Data.Shipping.Status)
	require.True(t, resp.Data.Chargeable)
}

func TestSummaryEndpointMissingCart(t *testing.T) {
	svc, _, _ := testEnv(t)
	handler := &Handler{Svc: svc, Validate: validator.New()}

	body := `{"cartId":"ghost"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/summary", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Summary(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSummaryEndpointRequiresCartID(t *testing.T) {
	svc, _, _ := testEnv(t)
	handler := &Handler{Svc: svc, Validate: validator.New()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/summary", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	handler.Summary(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}
