package models

import "time"

// Voucher request workflow statuses. A request is "completed" when
// certified_date is set; redemption is tracked by the redemption_status flag,
// not a separate status value.
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
	RequestStatusProcessed = "processed"
)

// Customer types accepted on submission
const (
	CustomerTypeNew      = "New"
	CustomerTypeExisting = "Existing"
)

// RejectionReasonMaxLen is the backend bound on rejection reasons. The partner
// UI enforces a tighter 24-character limit for display reasons.
const RejectionReasonMaxLen = 36

// CertificationOutcome replaces the old nullable certification_achieved
// boolean: null-vs-false ambiguity caused real bugs, so the decision state is
// explicit.
type CertificationOutcome string

const (
	CertificationUndecided   CertificationOutcome = ""
	CertificationAchieved    CertificationOutcome = "achieved"
	CertificationNotAchieved CertificationOutcome = "not_achieved"
)

// Decided reports whether an admin has recorded a certification outcome
func (o CertificationOutcome) Decided() bool {
	return o == CertificationAchieved || o == CertificationNotAchieved
}

// VoucherRequest is one candidate-certification pairing submitted by a
// partner. It lives in the remote table store (nx_voucher_requests), not the
// local SQLite database; field tags are the remote column names.
//
// VoucherRequest is the authoritative record of the workflow. The voucher_code
// column mirrors the assigned VoucherCode row and can drift from it; the
// reconciliation endpoints repair that drift.
type VoucherRequest struct {
	ID int64 `json:"id,omitempty"`

	// Partner identity, supplied by the identity provider and not re-validated
	PartnerUserID  string `json:"partner_user_id"`
	PartnerEmail   string `json:"partner_email"`
	PartnerName    string `json:"partner_name,omitempty"`
	PartnerCompany string `json:"partner_company,omitempty"`

	CustomerCompany   string `json:"customer_company"`
	Country           string `json:"country"`
	CustomerType      string `json:"customer_type"`
	SfdcOpportunityID string `json:"sfdc_opportunity_id,omitempty"`

	CandidateFirstName string `json:"candidate_first_name"`
	CandidateLastName  string `json:"candidate_last_name"`
	CandidateEmail     string `json:"candidate_email"`
	// 1 or 2; a single submission may carry two candidates from one company
	CustomerNumber    int    `json:"customer_number,omitempty"`
	CertificationExam string `json:"certification_exam"`

	Status          string `json:"status,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`

	VoucherCode string     `json:"voucher_code,omitempty"`
	IssueDate   *time.Time `json:"issue_date,omitempty"`

	RedemptionStatus bool       `json:"redemption_status,omitempty"`
	RedemptionDate   *time.Time `json:"redemption_date,omitempty"`

	CertificationResult CertificationOutcome `json:"certification_result,omitempty"`
	CertifiedDate       *time.Time           `json:"certified_date,omitempty"`

	RequestDate *time.Time `json:"request_date,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
