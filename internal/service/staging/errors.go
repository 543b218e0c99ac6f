package staging

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuantity is reported for zero, negative or over-available quantities.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrEmptyStaging is reported when submitting an empty staging list.
	ErrEmptyStaging = errors.New("staging list is empty")
	// ErrUnknownDestination is reported when a destination is not in the directory.
	ErrUnknownDestination = errors.New("unknown destination")
	// ErrNoSelection is reported when no SKU is selected for the draft.
	ErrNoSelection = errors.New("no sku selected")
	// ErrIndexOutOfRange is reported by RemoveLineItem for stale indices.
	ErrIndexOutOfRange = errors.New("line item index out of range")
	// ErrSubmissionInFlight is reported while a prior submission is outstanding.
	ErrSubmissionInFlight = errors.New("submission already in flight")
)

// ValidationError is a local rejection. The staging state is unchanged.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// LookupError wraps a failed stock fetch for a SKU.
type LookupError struct {
	SkuID string
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("stock lookup for sku %s: %v", e.SkuID, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// SubmissionError wraps a failed transfer dispatch. Partial is set when the
// branch leg was committed but the engineer leg failed.
type SubmissionError struct {
	SubmissionID string
	Leg          string
	Partial      bool
	Err          error
}

func (e *SubmissionError) Error() string {
	if e.Partial {
		return fmt.Sprintf("submission %s partially completed, %s transfer failed: %v", e.SubmissionID, e.Leg, e.Err)
	}
	return fmt.Sprintf("submission %s failed on %s transfer: %v", e.SubmissionID, e.Leg, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
