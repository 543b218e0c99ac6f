package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockflow/internal/config"
	"github.com/mamadbah2/stockflow/internal/domain/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.InventoryConfig{
		BaseURL:     srv.URL + "/",
		AccessToken: "secret",
		Timeout:     5 * time.Second,
	})
}

func TestGetStockBySku(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/stock/sku/X-1", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"quantity":10,"avgPrice":"12.50","skuCode":"X-1"}`))
	})

	lot, err := client.GetStockBySku(context.Background(), "X-1")
	require.NoError(t, err)
	assert.Equal(t, 10, lot.Quantity)
	assert.Equal(t, "X-1", lot.SkuCode)
	assert.Equal(t, "12.5", lot.AvgPrice.String())
}

func TestGetStockBySkuServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"database down"}`))
	})

	_, err := client.GetStockBySku(context.Background(), "X-1")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "database down", apiErr.Message)
}

func TestTransferToBranchesSendsListAndIdempotencyKey(t *testing.T) {
	var got models.BranchTransferRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transfer/branch", r.URL.Path)
		assert.Equal(t, "sub-1", r.Header.Get(IdempotencyHeader))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.TransferToBranches(context.Background(), "sub-1", models.BranchTransferRequest{
		List: []models.BranchTransferEntry{{SkuCodeID: "X", Quantity: 3, ReceiverID: "B1"}},
	})
	require.NoError(t, err)
	require.Len(t, got.List, 1)
	assert.Equal(t, models.BranchTransferEntry{SkuCodeID: "X", Quantity: 3, ReceiverID: "B1"}, got.List[0])
}

func TestTransferToEngineersRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transfer/engineer", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
	})

	err := client.TransferToEngineers(context.Background(), "sub-2", models.EngineerTransferRequest{
		List: []models.EngineerTransferEntry{{SkuCodeID: "X", Quantity: 1, EngineerID: "E1"}},
	})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Conflict", apiErr.Message)
}

func TestListDirectory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/branches":
			_, _ = w.Write([]byte(`[{"id":"B1","name":"North"}]`))
		case "/users":
			_, _ = w.Write([]byte(`[{"id":"U1","name":"Ada","role":"engineer","branchId":"B1"}]`))
		case "/sku-codes":
			_, _ = w.Write([]byte(`[{"id":"X","code":"X-1","description":"Router"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	branches, err := client.ListBranches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Branch{{ID: "B1", Name: "North"}}, branches)

	users, err := client.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.User{{ID: "U1", Name: "Ada", Role: "engineer", BranchID: "B1"}}, users)

	codes, err := client.ListSkuCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.SkuCode{{ID: "X", Code: "X-1", Description: "Router"}}, codes)
}
