package inventory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/stockflow/internal/config"
	"github.com/mamadbah2/stockflow/internal/domain/models"
)

// IdempotencyHeader carries the submission id on transfer calls.
const IdempotencyHeader = "Idempotency-Key"

// Client exposes the inventory API operations used by the application.
type Client interface {
	GetStockBySku(ctx context.Context, skuID string) (models.StockLot, error)
	TransferToBranches(ctx context.Context, submissionID string, req models.BranchTransferRequest) error
	TransferToEngineers(ctx context.Context, submissionID string, req models.EngineerTransferRequest) error
	ListBranches(ctx context.Context) ([]models.Branch, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListSkuCodes(ctx context.Context) ([]models.SkuCode, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds an inventory API client using the provided configuration values.
func NewClient(cfg config.InventoryConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	if cfg.AccessToken != "" {
		restyClient.SetAuthToken(cfg.AccessToken)
	}

	return &APIClient{httpClient: restyClient}
}

// APIError is returned for responses with a status code of 400 or above.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inventory api error: code=%d, message=%s", e.StatusCode, e.Message)
}

// apiErrorBody mirrors the error payload returned by the inventory API.
type apiErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// GetStockBySku returns the current location's stock lot for a SKU.
func (c *APIClient) GetStockBySku(ctx context.Context, skuID string) (models.StockLot, error) {
	var lot models.StockLot
	if err := c.get(ctx, "/stock/sku/"+url.PathEscape(skuID), &lot); err != nil {
		return models.StockLot{}, fmt.Errorf("get stock for sku %s: %w", skuID, err)
	}
	return lot, nil
}

// TransferToBranches dispatches the branch transfer list.
func (c *APIClient) TransferToBranches(ctx context.Context, submissionID string, req models.BranchTransferRequest) error {
	if err := c.post(ctx, "/transfer/branch", submissionID, req); err != nil {
		return fmt.Errorf("branch transfer: %w", err)
	}
	return nil
}

// TransferToEngineers dispatches the engineer transfer list.
func (c *APIClient) TransferToEngineers(ctx context.Context, submissionID string, req models.EngineerTransferRequest) error {
	if err := c.post(ctx, "/transfer/engineer", submissionID, req); err != nil {
		return fmt.Errorf("engineer transfer: %w", err)
	}
	return nil
}

// ListBranches returns every branch known to the backend.
func (c *APIClient) ListBranches(ctx context.Context) ([]models.Branch, error) {
	var branches []models.Branch
	if err := c.get(ctx, "/branches", &branches); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}

// ListUsers returns every application user.
func (c *APIClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.get(ctx, "/users", &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListSkuCodes returns the SKU catalogue.
func (c *APIClient) ListSkuCodes(ctx context.Context) ([]models.SkuCode, error) {
	var codes []models.SkuCode
	if err := c.get(ctx, "/sku-codes", &codes); err != nil {
		return nil, fmt.Errorf("list sku codes: %w", err)
	}
	return codes, nil
}

func (c *APIClient) get(ctx context.Context, path string, result any) error {
	apiErr := new(apiErrorBody)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get(path)
	if err != nil {
		return err
	}
	return checkResponse(resp, apiErr)
}

func (c *APIClient) post(ctx context.Context, path, submissionID string, body any) error {
	apiErr := new(apiErrorBody)

	req := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetError(apiErr)
	if submissionID != "" {
		req.SetHeader(IdempotencyHeader, submissionID)
	}

	resp, err := req.Post(path)
	if err != nil {
		return err
	}
	return checkResponse(resp, apiErr)
}

func checkResponse(resp *resty.Response, body *apiErrorBody) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}

	message := body.Message
	if message == "" {
		message = body.Error
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode())
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: message}
}
