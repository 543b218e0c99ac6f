package staging

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockflow/internal/domain/models"
)

// StockLookup fetches the current location's stock lot for a SKU.
type StockLookup interface {
	GetStockBySku(ctx context.Context, skuID string) (models.StockLot, error)
}

// TransferDispatcher submits transfer lists to the backend.
type TransferDispatcher interface {
	TransferToBranches(ctx context.Context, submissionID string, req models.BranchTransferRequest) error
	TransferToEngineers(ctx context.Context, submissionID string, req models.EngineerTransferRequest) error
}

// DraftStage is the state of the entry currently being prepared.
type DraftStage string

const (
	DraftIdle            DraftStage = "idle"
	DraftSkuSelected     DraftStage = "sku_selected"
	DraftQuantityEntered DraftStage = "quantity_entered"
)

// Draft is the in-progress entry. Available is net of already staged quantities.
type Draft struct {
	Stage     DraftStage       `json:"stage"`
	SkuID     string           `json:"skuId,omitempty"`
	Lot       *models.StockLot `json:"lot,omitempty"`
	Available int              `json:"available"`
	Quantity  int              `json:"quantity,omitempty"`
}

// Engine holds one user's staging list and draft.
type Engine struct {
	mu         sync.Mutex
	env        Context
	stock      StockLookup
	transfers  TransferDispatcher
	logger     *zap.Logger
	items      []models.TransferLineItem
	draft      Draft
	submitting bool
	pendingID  string
	newID      func() string
	now        func() time.Time
}

// NewEngine constructs an engine bound to the given user context and collaborators.
func NewEngine(env Context, stock StockLookup, transfers TransferDispatcher, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		env:       env,
		stock:     stock,
		transfers: transfers,
		logger:    logger,
		draft:     Draft{Stage: DraftIdle},
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Context returns the context the engine was built with.
func (e *Engine) Context() Context {
	return e.env
}

// SelectSku fetches the SKU's stock lot and returns the quantity still
// available after subtracting what is already staged for it, floored at zero.
func (e *Engine) SelectSku(ctx context.Context, skuID string) (int, error) {
	lot, err := e.stock.GetStockBySku(ctx, skuID)
	if err != nil {
		e.logger.Warn("stock lookup failed", zap.String("sku", skuID), zap.Error(err))
		return 0, &LookupError{SkuID: skuID, Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	available := e.netAvailable(lot.Quantity, skuID)
	e.draft = Draft{
		Stage:     DraftSkuSelected,
		SkuID:     skuID,
		Lot:       &lot,
		Available: available,
	}
	return available, nil
}

// EnterQuantity records the quantity typed for the selected SKU.
func (e *Engine) EnterQuantity(quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft.Stage == DraftIdle {
		return &ValidationError{Field: "skuId", Err: ErrNoSelection}
	}
	e.draft.Quantity = quantity
	e.draft.Stage = DraftQuantityEntered
	return nil
}

// ClearSelection abandons the draft without staging anything.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = Draft{Stage: DraftIdle}
}

// AddLineItem validates and appends a line item, then resets the draft. The
// SKU is looked up first when it is not the one currently selected.
func (e *Engine) AddLineItem(ctx context.Context, skuID string, quantity int, kind models.DestinationKind, destinationID string) ([]models.TransferLineItem, error) {
	if quantity < 1 {
		return nil, &ValidationError{Field: "quantity", Err: ErrInvalidQuantity}
	}

	dest, err := e.env.Resolve(kind, destinationID)
	if err != nil {
		return nil, &ValidationError{Field: "destination", Err: err}
	}

	e.mu.Lock()
	selected := e.draft.Stage != DraftIdle && e.draft.SkuID == skuID
	e.mu.Unlock()

	if !selected {
		if _, err := e.SelectSku(ctx, skuID); err != nil {
			return nil, err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.submitting {
		return nil, ErrSubmissionInFlight
	}
	if e.draft.SkuID != skuID || e.draft.Lot == nil {
		return nil, &ValidationError{Field: "skuId", Err: ErrNoSelection}
	}

	lot := *e.draft.Lot
	available := e.netAvailable(lot.Quantity, skuID)
	if quantity > available {
		return nil, &ValidationError{Field: "quantity", Err: ErrInvalidQuantity}
	}

	e.items = append(e.items, models.TransferLineItem{
		SkuID:       skuID,
		SkuCode:     lot.SkuCode,
		Quantity:    quantity,
		AvgPrice:    lot.AvgPrice,
		Destination: dest,
	})
	e.draft = Draft{Stage: DraftIdle}
	e.pendingID = ""

	e.logger.Debug("line item staged",
		zap.String("sku", skuID),
		zap.Int("quantity", quantity),
		zap.String("destination_kind", string(kind)),
		zap.String("destination", destinationID))

	return e.snapshot(), nil
}

// RemoveLineItem removes the item at the 0-based index.
func (e *Engine) RemoveLineItem(index int) ([]models.TransferLineItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.submitting {
		return nil, ErrSubmissionInFlight
	}
	if index < 0 || index >= len(e.items) {
		return e.snapshot(), ErrIndexOutOfRange
	}

	e.items = append(e.items[:index], e.items[index+1:]...)
	e.pendingID = ""
	return e.snapshot(), nil
}

// Submit dispatches the branch leg and then the engineer leg. A committed
// branch leg is dropped from the list even if the engineer leg fails, so a
// retry only sends what is left.
func (e *Engine) Submit(ctx context.Context) (models.SubmissionResult, error) {
	e.mu.Lock()
	if e.submitting {
		e.mu.Unlock()
		return models.SubmissionResult{}, ErrSubmissionInFlight
	}
	if len(e.items) == 0 {
		e.mu.Unlock()
		return models.SubmissionResult{}, &ValidationError{Err: ErrEmptyStaging}
	}
	if e.pendingID == "" {
		e.pendingID = e.newID()
	}
	e.submitting = true
	items := e.snapshot()
	result := models.SubmissionResult{ID: e.pendingID, SubmittedAt: e.now().UTC()}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.submitting = false
		e.mu.Unlock()
	}()

	result.BranchItems, result.EngineerItems = partition(items)
	logger := e.logger.With(zap.String("submission_id", result.ID))

	if len(result.BranchItems) > 0 {
		if err := e.transfers.TransferToBranches(ctx, result.ID, branchRequest(result.BranchItems)); err != nil {
			logger.Error("branch transfer failed", zap.Error(err))
			result.Status = models.SubmissionFailed
			result.Error = err.Error()
			return result, &SubmissionError{SubmissionID: result.ID, Leg: string(models.DestinationBranch), Err: err}
		}
		result.BranchDone = true
	}

	if len(result.EngineerItems) > 0 {
		if err := e.transfers.TransferToEngineers(ctx, result.ID, engineerRequest(result.EngineerItems)); err != nil {
			result.Error = err.Error()
			if !result.BranchDone {
				logger.Error("engineer transfer failed", zap.Error(err))
				result.Status = models.SubmissionFailed
				return result, &SubmissionError{SubmissionID: result.ID, Leg: string(models.DestinationEngineer), Err: err}
			}

			logger.Error("engineer transfer failed after branch transfer committed", zap.Error(err))
			result.Status = models.SubmissionPartial
			e.mu.Lock()
			e.items = append([]models.TransferLineItem(nil), result.EngineerItems...)
			e.mu.Unlock()
			return result, &SubmissionError{SubmissionID: result.ID, Leg: string(models.DestinationEngineer), Partial: true, Err: err}
		}
		result.EngineerDone = true
	}

	result.Status = models.SubmissionCompleted
	e.mu.Lock()
	e.items = nil
	e.pendingID = ""
	e.mu.Unlock()

	logger.Info("transfer submitted",
		zap.Int("branch_items", len(result.BranchItems)),
		zap.Int("engineer_items", len(result.EngineerItems)))
	return result, nil
}

// Items returns a copy of the staging list in display order.
func (e *Engine) Items() []models.TransferLineItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Draft returns the current draft.
func (e *Engine) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	d := e.draft
	if d.Lot != nil {
		lot := *d.Lot
		d.Lot = &lot
	}
	return d
}

// Available returns the net available quantity for the selected SKU from
// the cached lot. ok is false when skuID is not selected.
func (e *Engine) Available(skuID string) (available int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft.Lot == nil || e.draft.SkuID != skuID {
		return 0, false
	}
	return e.netAvailable(e.draft.Lot.Quantity, skuID), true
}

func (e *Engine) inFlight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitting
}

// Staged returns the quantity staged for skuID.
func (e *Engine) Staged(skuID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.staged(skuID)
}

// LineTotal is a running total over a group of line items.
type LineTotal struct {
	Lines    int             `json:"lines"`
	Quantity int             `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

func (t *LineTotal) add(item models.TransferLineItem) {
	t.Lines++
	t.Quantity += item.Quantity
	t.Value = t.Value.Add(item.Value())
}

// Totals are the staging table footers.
type Totals struct {
	Branch   LineTotal `json:"branch"`
	Engineer LineTotal `json:"engineer"`
	Overall  LineTotal `json:"overall"`
}

// Totals computes quantity and value totals per destination kind.
func (e *Engine) Totals() Totals {
	e.mu.Lock()
	defer e.mu.Unlock()

	var totals Totals
	for _, item := range e.items {
		totals.Overall.add(item)
		switch item.Destination.Kind {
		case models.DestinationBranch:
			totals.Branch.add(item)
		case models.DestinationEngineer:
			totals.Engineer.add(item)
		}
	}
	return totals
}

func (e *Engine) staged(skuID string) int {
	total := 0
	for _, item := range e.items {
		if item.SkuID == skuID {
			total += item.Quantity
		}
	}
	return total
}

func (e *Engine) netAvailable(gross int, skuID string) int {
	net := gross - e.staged(skuID)
	if net < 0 {
		return 0
	}
	return net
}

func (e *Engine) snapshot() []models.TransferLineItem {
	out := make([]models.TransferLineItem, len(e.items))
	copy(out, e.items)
	return out
}

func partition(items []models.TransferLineItem) (branch, engineer []models.TransferLineItem) {
	for _, item := range items {
		switch item.Destination.Kind {
		case models.DestinationBranch:
			branch = append(branch, item)
		case models.DestinationEngineer:
			engineer = append(engineer, item)
		}
	}
	return branch, engineer
}

func branchRequest(items []models.TransferLineItem) models.BranchTransferRequest {
	req := models.BranchTransferRequest{List: make([]models.BranchTransferEntry, 0, len(items))}
	for _, item := range items {
		req.List = append(req.List, models.BranchTransferEntry{
			SkuCodeID:  item.SkuID,
			Quantity:   item.Quantity,
			ReceiverID: item.Destination.ID,
		})
	}
	return req
}

func engineerRequest(items []models.TransferLineItem) models.EngineerTransferRequest {
	req := models.EngineerTransferRequest{List: make([]models.EngineerTransferEntry, 0, len(items))}
	for _, item := range items {
		req.List = append(req.List, models.EngineerTransferEntry{
			SkuCodeID:  item.SkuID,
			Quantity:   item.Quantity,
			EngineerID: item.Destination.ID,
		})
	}
	return req
}
