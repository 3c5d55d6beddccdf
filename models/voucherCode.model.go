package models

import "time"

// Voucher code pool statuses. Codes move available -> issued -> redeemed ->
// completed, and may be reset back to available by an admin override.
const (
	CodeStatusAvailable = "available"
	CodeStatusIssued    = "issued"
	CodeStatusRedeemed  = "redeemed"
	CodeStatusCompleted = "completed"
)

// VoucherAssignment carries the fields stamped onto a pool row when a code is
// issued, and cleared again when the assignment is reset.
type VoucherAssignment struct {
	PartnerEmail       string `json:"partner_email"`
	PartnerName        string `json:"partner_name,omitempty"`
	PartnerCompany     string `json:"partner_company,omitempty"`
	CustomerCompany    string `json:"customer_company"`
	CandidateFirstName string `json:"candidate_first_name"`
	CandidateLastName  string `json:"candidate_last_name"`
	CandidateEmail     string `json:"candidate_email"`
	Country            string `json:"country"`
}

// VoucherCode is one importable/assignable code in the pool (voucher_codes in
// the remote table store). The id is assigned by the store in insertion order
// and is the FIFO key for allocation. Assignment fields are bookkeeping copied
// from the winning VoucherRequest at issue time.
type VoucherCode struct {
	ID                int64  `json:"id,omitempty"`
	VoucherCode       string `json:"voucher_code"`
	CertificationExam string `json:"certification_exam"`
	Status            string `json:"status"`

	PartnerEmail       string `json:"partner_email,omitempty"`
	PartnerName        string `json:"partner_name,omitempty"`
	PartnerCompany     string `json:"partner_company,omitempty"`
	CustomerCompany    string `json:"customer_company,omitempty"`
	CandidateFirstName string `json:"candidate_first_name,omitempty"`
	CandidateLastName  string `json:"candidate_last_name,omitempty"`
	CandidateEmail     string `json:"candidate_email,omitempty"`
	Country            string `json:"country,omitempty"`

	IssueDate      *time.Time `json:"issue_date,omitempty"`
	RedemptionDate *time.Time `json:"redemption_date,omitempty"`
	CertifiedDate  *time.Time `json:"certified_date,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
