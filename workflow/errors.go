package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotEligible means the record was not found or its current status does
// not permit the requested transition. Nothing was mutated.
var ErrNotEligible = errors.New("voucher request not found or not eligible")

// ErrAlreadyIssued trips the idempotency guard on issue-code retries
var ErrAlreadyIssued = errors.New("voucher code has already been issued for this request")

// ValidationError is a bad-input failure surfaced directly to the caller.
// It never reaches the store layer.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NoAvailableCodeError means the pool has no available code for the exam.
// Nothing was mutated.
type NoAvailableCodeError struct {
	Exam string
}

func (e *NoAvailableCodeError) Error() string {
	return fmt.Sprintf("no available voucher codes found for %s", e.Exam)
}

// MissingColumnsError rejects a bulk import whose header lacks a required
// column
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// PartialFailureError reports that the primary transition committed but a
// secondary write (the pool mirror, or the ledger stamp after a claim) did
// not. The caller gets the committed result plus this warning; nothing is
// rolled back, and the reconciliation endpoints repair the drift later.
type PartialFailureError struct {
	Op          string
	VoucherCode string
	Err         error
}

func (e *PartialFailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s partially failed (voucher %s): %v", e.Op, e.VoucherCode, e.Err)
	}
	return fmt.Sprintf("%s partially failed (voucher %s)", e.Op, e.VoucherCode)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }
