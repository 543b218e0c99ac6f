package models

// SelectSkuRequest is the body of a SKU selection call.
type SelectSkuRequest struct {
	SkuID string `json:"skuId" binding:"required"`
}

// AddLineItemRequest is the body of a staging call.
type AddLineItemRequest struct {
	SkuID           string          `json:"skuId" binding:"required"`
	Quantity        int             `json:"quantity"`
	DestinationKind DestinationKind `json:"destinationKind" binding:"required"`
	DestinationID   string          `json:"destinationId" binding:"required"`
}
