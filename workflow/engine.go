package workflow

import (
	"context"
	"log"
	"strings"
	"time"

	"vportal/models"
	"vportal/repository"
)

// Engine drives the voucher request lifecycle:
//
//	pending -> approved -> processed -> (redeemed via flag) -> certified
//	pending -> rejected
//
// Every transition re-checks its precondition against the record's current
// persisted state at write time, so rapid double-clicks and stale admin tabs
// fall out as ErrNotEligible instead of partial updates. Pool mirror writes
// (issued->redeemed->completed) are best-effort: the ledger transition
// commits even when the mirror write fails, and the failure comes back as a
// PartialFailureError warning.
type Engine struct {
	requests repository.VoucherRequestRepo
	codes    repository.VoucherCodeRepo
}

// NewEngine wires the workflow over the two voucher repositories
func NewEngine(requests repository.VoucherRequestRepo, codes repository.VoucherCodeRepo) *Engine {
	return &Engine{requests: requests, codes: codes}
}

// PartnerInfo identifies the submitting partner; values come from the
// identity provider's token and are not re-validated here
type PartnerInfo struct {
	UserID  string
	Email   string
	Name    string
	Company string
}

// Candidate is one person taking one certification exam
type Candidate struct {
	FirstName         string
	LastName          string
	Email             string
	CertificationExam string
}

// Submission is one partner form submission: company details shared by one
// or two candidates
type Submission struct {
	Partner           PartnerInfo
	CustomerCompany   string
	Country           string
	CustomerType      string
	SfdcOpportunityID string
	Candidates        []Candidate
}

// MaxCandidatesPerSubmission bounds how many candidates one submission can
// carry; each still becomes its own independent request record
const MaxCandidatesPerSubmission = 2

// Submit creates one pending request per candidate and returns the created
// records
func (e *Engine) Submit(ctx context.Context, sub Submission) ([]models.VoucherRequest, error) {
	if len(sub.Candidates) == 0 {
		return nil, &ValidationError{Msg: "at least one candidate is required"}
	}
	if len(sub.Candidates) > MaxCandidatesPerSubmission {
		return nil, &ValidationError{Msg: "a submission may carry at most two candidates"}
	}
	if sub.CustomerType != models.CustomerTypeNew && sub.CustomerType != models.CustomerTypeExisting {
		return nil, &ValidationError{Msg: "customer type must be New or Existing"}
	}

	now := time.Now().UTC()
	rows := make([]models.VoucherRequest, 0, len(sub.Candidates))
	for i, cand := range sub.Candidates {
		rows = append(rows, models.VoucherRequest{
			PartnerUserID:      sub.Partner.UserID,
			PartnerEmail:       sub.Partner.Email,
			PartnerName:        sub.Partner.Name,
			PartnerCompany:     sub.Partner.Company,
			CustomerCompany:    sub.CustomerCompany,
			Country:            sub.Country,
			CustomerType:       sub.CustomerType,
			SfdcOpportunityID:  sub.SfdcOpportunityID,
			CandidateFirstName: cand.FirstName,
			CandidateLastName:  cand.LastName,
			CandidateEmail:     cand.Email,
			CustomerNumber:     i + 1,
			CertificationExam:  cand.CertificationExam,
			Status:             models.RequestStatusPending,
			RequestDate:        &now,
		})
	}

	return e.requests.Insert(ctx, rows)
}

// Approve moves a pending request to approved
func (e *Engine) Approve(ctx context.Context, id int64) (*models.VoucherRequest, error) {
	row, err := e.requests.Approve(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotEligible
	}
	return row, nil
}

// Reject moves a pending request to rejected with a bounded reason
func (e *Engine) Reject(ctx context.Context, id int64, reason string) (*models.VoucherRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &ValidationError{Msg: "Rejection reason cannot be empty"}
	}
	if len(reason) > models.RejectionReasonMaxLen {
		return nil, &ValidationError{Msg: "Rejection reason must be 36 characters or less"}
	}

	row, err := e.requests.Reject(ctx, id, reason)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotEligible
	}
	return row, nil
}

// RecordRedemption flags a processed request as redeemed and mirrors the
// matching issued pool row to redeemed. A failed or empty mirror write comes
// back as a PartialFailureError alongside the committed request.
func (e *Engine) RecordRedemption(ctx context.Context, id int64, at *time.Time) (*models.VoucherRequest, error) {
	when := time.Now().UTC()
	if at != nil {
		when = at.UTC()
	}

	row, err := e.requests.RecordRedemption(ctx, id, when)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotEligible
	}

	n, merr := e.codes.MarkRedeemed(ctx, row.CandidateEmail, row.CertificationExam, when)
	if merr != nil || n == 0 {
		log.Printf("[WORKFLOW] redemption mirror update failed for %s / %s (rows=%d): %v",
			row.CandidateEmail, row.CertificationExam, n, merr)
		return row, &PartialFailureError{Op: "record-redemption", VoucherCode: row.VoucherCode, Err: merr}
	}

	return row, nil
}

// MarkCertification records the certification outcome of a redeemed request.
// Both outcomes complete the pool row; only the outcome value differs.
func (e *Engine) MarkCertification(ctx context.Context, id int64, achieved bool, at *time.Time) (*models.VoucherRequest, error) {
	when := time.Now().UTC()
	if at != nil {
		when = at.UTC()
	}

	outcome := models.CertificationNotAchieved
	if achieved {
		outcome = models.CertificationAchieved
	}

	row, err := e.requests.MarkCertification(ctx, id, outcome, when)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotEligible
	}

	n, merr := e.codes.MarkCompleted(ctx, row.CandidateEmail, row.CertificationExam, when)
	if merr != nil || n == 0 {
		log.Printf("[WORKFLOW] certification mirror update failed for %s / %s (rows=%d): %v",
			row.CandidateEmail, row.CertificationExam, n, merr)
		return row, &PartialFailureError{Op: "mark-certification", VoucherCode: row.VoucherCode, Err: merr}
	}

	return row, nil
}

// ListRequests returns the full ledger, newest first
func (e *Engine) ListRequests(ctx context.Context) ([]models.VoucherRequest, error) {
	return e.requests.ListAll(ctx)
}

// ListPartnerRequests returns one partner's requests, newest first
func (e *Engine) ListPartnerRequests(ctx context.Context, partnerEmail string) ([]models.VoucherRequest, error) {
	return e.requests.ListByPartnerEmail(ctx, partnerEmail)
}

// ListCodes returns the whole pool in insertion order
func (e *Engine) ListCodes(ctx context.Context) ([]models.VoucherCode, error) {
	return e.codes.ListAll(ctx)
}
