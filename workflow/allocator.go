package workflow

import (
	"context"
	"fmt"
	"time"

	"vportal/models"
)

// claimAttempts bounds how many pool rows one issue call will try to claim
// before giving up under heavy contention
const claimAttempts = 5

// IssueInput names the approved request and the exam pool to draw from
type IssueInput struct {
	RequestID         int64
	CertificationExam string
}

// IssueVoucherCode reserves the oldest available pool code matching the exam
// and binds it to the request.
//
// The reservation is a conditional update guarded by status=available, so two
// admins racing on the same exam type cannot both win the same row: the loser
// sees zero rows affected and retries against the next oldest code. Oldest id
// first is a fairness rule (first imported, first assigned), not an
// optimization.
//
// If the pool claim lands but the ledger stamp fails, the claimed row stays
// reserved without a linked request; the caller gets the claimed code wrapped
// in a PartialFailureError and an operator resolves it via reset or the sync
// endpoint.
func (e *Engine) IssueVoucherCode(ctx context.Context, in IssueInput) (*models.VoucherCode, error) {
	if in.RequestID == 0 || in.CertificationExam == "" {
		return nil, &ValidationError{Msg: "Request ID and certification exam are required"}
	}

	req, err := e.requests.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrNotEligible
	}

	// idempotency guard against double-click / retry
	if req.Status == models.RequestStatusProcessed || req.IssueDate != nil {
		return nil, ErrAlreadyIssued
	}
	if req.Status != models.RequestStatusApproved {
		return nil, ErrNotEligible
	}

	// assignment details come from the winning request, not the caller
	assignment := models.VoucherAssignment{
		PartnerEmail:       req.PartnerEmail,
		PartnerName:        req.PartnerName,
		PartnerCompany:     req.PartnerCompany,
		CustomerCompany:    req.CustomerCompany,
		CandidateFirstName: req.CandidateFirstName,
		CandidateLastName:  req.CandidateLastName,
		CandidateEmail:     req.CandidateEmail,
		Country:            req.Country,
	}

	now := time.Now().UTC()

	for attempt := 0; attempt < claimAttempts; attempt++ {
		candidate, err := e.codes.OldestAvailable(ctx, in.CertificationExam)
		if err != nil {
			return nil, err
		}
		if candidate == nil {
			return nil, &NoAvailableCodeError{Exam: in.CertificationExam}
		}

		claimed, err := e.codes.ClaimAvailable(ctx, candidate.ID, assignment, now)
		if err != nil {
			return nil, err
		}
		if claimed == nil {
			// lost the row to a concurrent claim, try the next oldest
			continue
		}

		stamped, err := e.requests.MarkProcessed(ctx, in.RequestID, claimed.VoucherCode, now)
		if err != nil {
			return claimed, &PartialFailureError{Op: "issue-voucher-code", VoucherCode: claimed.VoucherCode, Err: err}
		}
		if stamped == nil {
			// request left the approved state between guard and stamp; the
			// pool row is reserved but orphaned until an operator resets it
			return claimed, &PartialFailureError{Op: "issue-voucher-code", VoucherCode: claimed.VoucherCode, Err: ErrNotEligible}
		}

		return claimed, nil
	}

	return nil, fmt.Errorf("could not claim a voucher code for %s after %d attempts", in.CertificationExam, claimAttempts)
}
