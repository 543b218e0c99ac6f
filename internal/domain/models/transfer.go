package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DestinationKind tells whether a line item goes to an engineer or to a branch.
type DestinationKind string

const (
	DestinationEngineer DestinationKind = "engineer"
	DestinationBranch   DestinationKind = "branch"
)

// Valid reports whether k is a known destination kind.
func (k DestinationKind) Valid() bool {
	return k == DestinationEngineer || k == DestinationBranch
}

// Destination references the engineer or branch receiving a line item.
type Destination struct {
	Kind DestinationKind `json:"kind" bson:"kind"`
	ID   string          `json:"id" bson:"id"`
	Name string          `json:"name" bson:"name"`
}

// TransferLineItem is one staged transfer entry. It is never modified after staging.
type TransferLineItem struct {
	SkuID       string          `json:"skuId" bson:"sku_id"`
	SkuCode     string          `json:"skuCode" bson:"sku_code"`
	Quantity    int             `json:"quantity" bson:"quantity"`
	AvgPrice    decimal.Decimal `json:"avgPrice" bson:"avg_price"`
	Destination Destination     `json:"destination" bson:"destination"`
}

// Value is the quantity priced at the lot's average price.
func (i TransferLineItem) Value() decimal.Decimal {
	return i.AvgPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// EngineerTransferEntry is a wire entry of the engineer transfer request.
type EngineerTransferEntry struct {
	SkuCodeID  string `json:"skuCodeId"`
	Quantity   int    `json:"quantity"`
	EngineerID string `json:"engineerId"`
}

// EngineerTransferRequest is the engineer transfer request body.
type EngineerTransferRequest struct {
	List []EngineerTransferEntry `json:"list"`
}

// BranchTransferEntry is a wire entry of the branch transfer request.
type BranchTransferEntry struct {
	SkuCodeID  string `json:"skuCodeId"`
	Quantity   int    `json:"quantity"`
	ReceiverID string `json:"receiverId"`
}

// BranchTransferRequest is the branch transfer request body.
type BranchTransferRequest struct {
	List []BranchTransferEntry `json:"list"`
}

// SubmissionStatus is the outcome of a submit attempt.
type SubmissionStatus string

const (
	SubmissionCompleted SubmissionStatus = "completed"
	SubmissionPartial   SubmissionStatus = "partial"
	SubmissionFailed    SubmissionStatus = "failed"
)

// SubmissionResult describes what a submit attempt dispatched and what was committed.
type SubmissionResult struct {
	ID            string             `json:"id" bson:"submission_id"`
	Status        SubmissionStatus   `json:"status" bson:"status"`
	BranchItems   []TransferLineItem `json:"branchItems" bson:"branch_items"`
	EngineerItems []TransferLineItem `json:"engineerItems" bson:"engineer_items"`
	BranchDone    bool               `json:"branchDone" bson:"branch_done"`
	EngineerDone  bool               `json:"engineerDone" bson:"engineer_done"`
	SubmittedAt   time.Time          `json:"submittedAt" bson:"submitted_at"`
	Error         string             `json:"error,omitempty" bson:"error,omitempty"`
}

// Committed returns the line items the backend accepted.
func (r SubmissionResult) Committed() []TransferLineItem {
	var out []TransferLineItem
	if r.BranchDone {
		out = append(out, r.BranchItems...)
	}
	if r.EngineerDone {
		out = append(out, r.EngineerItems...)
	}
	return out
}
