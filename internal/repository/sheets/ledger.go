package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockflow/internal/domain/models"
)

const (
	ledgerRange = "Transfers!A:H"
	dateFormat  = "2006-01-02 15:04:05"
)

// LedgerRecorder exports committed transfer lines to the ledger sheet.
type LedgerRecorder struct {
	repo   Repository
	logger *zap.Logger
}

// NewLedgerRecorder wires a ledger exporter on top of a sheets repository.
func NewLedgerRecorder(repository Repository, logger *zap.Logger) *LedgerRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerRecorder{repo: repository, logger: logger}
}

// Record appends one row per committed line item. Failed attempts write nothing.
func (l *LedgerRecorder) Record(ctx context.Context, userID string, result models.SubmissionResult) error {
	committed := result.Committed()
	if len(committed) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(committed))
	for _, item := range committed {
		rows = append(rows, LedgerRow(userID, result, item))
	}
	if err := l.repo.AppendRows(ctx, ledgerRange, rows); err != nil {
		return fmt.Errorf("export ledger for submission %s: %w", result.ID, err)
	}

	l.logger.Debug("ledger rows exported", zap.String("submission_id", result.ID), zap.Int("rows", len(rows)))
	return nil
}

// LedgerRow renders a committed line item as a sheet row.
func LedgerRow(userID string, result models.SubmissionResult, item models.TransferLineItem) []interface{} {
	return []interface{}{
		result.SubmittedAt.Format(dateFormat),
		result.ID,
		userID,
		string(item.Destination.Kind),
		item.Destination.Name,
		item.SkuCode,
		item.Quantity,
		item.Value().StringFixed(2),
	}
}
