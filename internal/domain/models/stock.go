package models

import "github.com/shopspring/decimal"

// StockLot is the quantity and price information the current location holds for a SKU.
type StockLot struct {
	SkuCode  string          `json:"skuCode"`
	Quantity int             `json:"quantity"`
	AvgPrice decimal.Decimal `json:"avgPrice"`
}

// SkuCode is an entry of the SKU catalogue.
type SkuCode struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}
