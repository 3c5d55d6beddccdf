package repository

import (
	"context"
	"time"

	"vportal/models"
	"vportal/remotestore"
)

const codesTable = "voucher_codes"

// VoucherCodeRepo is the typed surface over the voucher_codes pool table.
// ClaimAvailable is the allocation primitive: a single conditional update
// guarded by status=available, so of two racing claims on the same row
// exactly one gets it back and the other sees nil.
type VoucherCodeRepo interface {
	BulkInsert(ctx context.Context, codes []models.VoucherCode) ([]models.VoucherCode, error)
	ListAll(ctx context.Context) ([]models.VoucherCode, error)
	ListIssuedAssigned(ctx context.Context) ([]models.VoucherCode, error)

	OldestAvailable(ctx context.Context, exam string) (*models.VoucherCode, error)
	ClaimAvailable(ctx context.Context, id int64, asgn models.VoucherAssignment, at time.Time) (*models.VoucherCode, error)

	FindIssuedByCandidate(ctx context.Context, candidateEmail, exam string) (*models.VoucherCode, error)
	MarkRedeemed(ctx context.Context, candidateEmail, exam string, at time.Time) (int, error)
	MarkCompleted(ctx context.Context, candidateEmail, exam string, at time.Time) (int, error)
	PromoteCertifiedToCompleted(ctx context.Context) (int, error)
	ResetAssignment(ctx context.Context, id int64) (*models.VoucherCode, error)
}

type voucherCodeRepo struct {
	store *remotestore.Client
}

// NewVoucherCodeRepo builds the remote-store-backed pool repo
func NewVoucherCodeRepo(store *remotestore.Client) VoucherCodeRepo {
	return &voucherCodeRepo{store: store}
}

func (r *voucherCodeRepo) BulkInsert(ctx context.Context, codes []models.VoucherCode) ([]models.VoucherCode, error) {
	var created []models.VoucherCode
	err := r.store.From(codesTable).Admin().Insert(ctx, codes, &created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *voucherCodeRepo) ListAll(ctx context.Context) ([]models.VoucherCode, error) {
	var rows []models.VoucherCode
	err := r.store.From(codesTable).Admin().OrderAsc("id").Select(ctx, &rows)
	return rows, err
}

func (r *voucherCodeRepo) ListIssuedAssigned(ctx context.Context) ([]models.VoucherCode, error) {
	var rows []models.VoucherCode
	err := r.store.From(codesTable).Admin().
		Eq("status", models.CodeStatusIssued).
		NotNull("candidate_email").
		OrderAsc("id").
		Select(ctx, &rows)
	return rows, err
}

func (r *voucherCodeRepo) OldestAvailable(ctx context.Context, exam string) (*models.VoucherCode, error) {
	var rows []models.VoucherCode
	err := r.store.From(codesTable).Admin().
		Eq("certification_exam", exam).
		Eq("status", models.CodeStatusAvailable).
		OrderAsc("id").
		Limit(1).
		Select(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *voucherCodeRepo) ClaimAvailable(ctx context.Context, id int64, asgn models.VoucherAssignment, at time.Time) (*models.VoucherCode, error) {
	var rows []models.VoucherCode
	err := r.store.From(codesTable).Admin().
		Eq("id", id).
		Eq("status", models.CodeStatusAvailable).
		Update(ctx, map[string]any{
			"status":               models.CodeStatusIssued,
			"partner_email":        asgn.PartnerEmail,
			"partner_name":         asgn.PartnerName,
			"partner_company":      asgn.PartnerCompany,
			"customer_company":     asgn.CustomerCompany,
			"candidate_first_name": asgn.CandidateFirstName,
			"candidate_last_name":  asgn.CandidateLastName,
			"candidate_email":      asgn.CandidateEmail,
			"country":              asgn.Country,
			"issue_date":           at.UTC(),
			"updated_at":           time.Now().UTC(),
		}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		// a concurrent claim won the row
		return nil, nil
	}
	return &rows[0], nil
}

func (r *voucherCodeRepo) FindIssuedByCandidate(ctx context.Context, candidateEmail, exam string) (*models.VoucherCode, error) {
	var rows []models.VoucherCode
	err := r.store.From(codesTable).Admin().
		Eq("candidate_email", candidateEmail).
		Eq("certification_exam", exam).
		Eq("status", models.CodeStatusIssued).
		OrderAsc("id").
		Limit(1).
		Select(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *voucherCodeRepo) MarkRedeemed(ctx context.Context, candidateEmail, exam string, at time.Time) (int, error) {
	var rows []models.VoucherCode
	err := r.store.From(codesTable).Admin().
		Eq("candidate_email", candidateEmail).
		Eq("certification_exam", exam).
		Eq("status", models.CodeStatusIssued).
		Update(ctx, map[string]any{
			"status":          models.CodeStatusRedeemed,
			"redemption_date": at.UTC(),
			"updated_at":      time.Now().UTC(),
		}, &rows)
	return len(rows), err
}

func (r *voucherCodeRepo) MarkCompleted(ctx context.Context, candidateEmail, exam string, at time.Time) (int, error) {
	var rows []models.VoucherCode
	err := r.store.From(codesTable).Admin().
		Eq("candidate_email", candidateEmail).
		Eq("certification_exam", exam).
		Eq("status", models.CodeStatusRedeemed).
		Update(ctx, map[string]any{
			"status":         models.CodeStatusCompleted,
			"certified_date": at.UTC(),
			"updated_at":     time.Now().UTC(),
		}, &rows)
	return len(rows), err
}

// PromoteCertifiedToCompleted fixes pool rows that recorded a certification
// date but were left in redeemed by an earlier partial failure
func (r *voucherCodeRepo) PromoteCertifiedToCompleted(ctx context.Context) (int, error) {
	var rows []models.VoucherCode
	err := r.store.From(codesTable).Admin().
		Eq("status", models.CodeStatusRedeemed).
		NotNull("certified_date").
		Update(ctx, map[string]any{
			"status":     models.CodeStatusCompleted,
			"updated_at": time.Now().UTC(),
		}, &rows)
	return len(rows), err
}

func (r *voucherCodeRepo) ResetAssignment(ctx context.Context, id int64) (*models.VoucherCode, error) {
	var rows []models.VoucherCode
	err := r.store.From(codesTable).Admin().
		Eq("id", id).
		Update(ctx, map[string]any{
			"status":               models.CodeStatusAvailable,
			"partner_email":        nil,
			"partner_name":         nil,
			"partner_company":      nil,
			"customer_company":     nil,
			"candidate_first_name": nil,
			"candidate_last_name":  nil,
			"candidate_email":      nil,
			"country":              nil,
			"issue_date":           nil,
			"redemption_date":      nil,
			"certified_date":       nil,
			"updated_at":           time.Now().UTC(),
		}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
