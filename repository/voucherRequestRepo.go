package repository

import (
	"context"
	"time"

	"vportal/models"
	"vportal/remotestore"
)

const requestsTable = "nx_voucher_requests"

// VoucherRequestRepo is the typed surface over the nx_voucher_requests table.
// Transition methods re-check their status precondition inside the write
// itself (the filters travel with the update), so a stale client replaying an
// old transition matches zero rows instead of clobbering newer state. A nil
// row with a nil error means exactly that: nothing was eligible.
type VoucherRequestRepo interface {
	Insert(ctx context.Context, reqs []models.VoucherRequest) ([]models.VoucherRequest, error)
	GetByID(ctx context.Context, id int64) (*models.VoucherRequest, error)
	ListAll(ctx context.Context) ([]models.VoucherRequest, error)
	ListByPartnerEmail(ctx context.Context, email string) ([]models.VoucherRequest, error)
	ListProcessedMissingCode(ctx context.Context) ([]models.VoucherRequest, error)

	Approve(ctx context.Context, id int64) (*models.VoucherRequest, error)
	Reject(ctx context.Context, id int64, reason string) (*models.VoucherRequest, error)
	MarkProcessed(ctx context.Context, id int64, code string, issuedAt time.Time) (*models.VoucherRequest, error)
	RecordRedemption(ctx context.Context, id int64, at time.Time) (*models.VoucherRequest, error)
	MarkCertification(ctx context.Context, id int64, outcome models.CertificationOutcome, at time.Time) (*models.VoucherRequest, error)
	SetVoucherCode(ctx context.Context, id int64, code string) error
}

type voucherRequestRepo struct {
	store *remotestore.Client
}

// NewVoucherRequestRepo builds the remote-store-backed request repo
func NewVoucherRequestRepo(store *remotestore.Client) VoucherRequestRepo {
	return &voucherRequestRepo{store: store}
}

func (r *voucherRequestRepo) Insert(ctx context.Context, reqs []models.VoucherRequest) ([]models.VoucherRequest, error) {
	var created []models.VoucherRequest
	err := r.store.From(requestsTable).Admin().Insert(ctx, reqs, &created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *voucherRequestRepo) GetByID(ctx context.Context, id int64) (*models.VoucherRequest, error) {
	var rows []models.VoucherRequest
	err := r.store.From(requestsTable).Admin().Eq("id", id).Limit(1).Select(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *voucherRequestRepo) ListAll(ctx context.Context) ([]models.VoucherRequest, error) {
	var rows []models.VoucherRequest
	err := r.store.From(requestsTable).OrderDesc("request_date").Select(ctx, &rows)
	return rows, err
}

func (r *voucherRequestRepo) ListByPartnerEmail(ctx context.Context, email string) ([]models.VoucherRequest, error) {
	var rows []models.VoucherRequest
	err := r.store.From(requestsTable).Eq("partner_email", email).OrderDesc("request_date").Select(ctx, &rows)
	return rows, err
}

func (r *voucherRequestRepo) ListProcessedMissingCode(ctx context.Context) ([]models.VoucherRequest, error) {
	var rows []models.VoucherRequest
	err := r.store.From(requestsTable).Admin().
		Eq("status", models.RequestStatusProcessed).
		IsNull("voucher_code").
		Select(ctx, &rows)
	return rows, err
}

// conditionalUpdate patches the row and returns it, or nil when the filters
// matched nothing
func (r *voucherRequestRepo) conditionalUpdate(ctx context.Context, q *remotestore.Query, patch map[string]any) (*models.VoucherRequest, error) {
	var rows []models.VoucherRequest
	if err := q.Update(ctx, patch, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *voucherRequestRepo) Approve(ctx context.Context, id int64) (*models.VoucherRequest, error) {
	q := r.store.From(requestsTable).Admin().
		Eq("id", id).
		Eq("status", models.RequestStatusPending)
	return r.conditionalUpdate(ctx, q, map[string]any{
		"status":     models.RequestStatusApproved,
		"updated_at": time.Now().UTC(),
	})
}

func (r *voucherRequestRepo) Reject(ctx context.Context, id int64, reason string) (*models.VoucherRequest, error) {
	q := r.store.From(requestsTable).Admin().
		Eq("id", id).
		Eq("status", models.RequestStatusPending)
	return r.conditionalUpdate(ctx, q, map[string]any{
		"status":           models.RequestStatusRejected,
		"rejection_reason": reason,
		"updated_at":       time.Now().UTC(),
	})
}

func (r *voucherRequestRepo) MarkProcessed(ctx context.Context, id int64, code string, issuedAt time.Time) (*models.VoucherRequest, error) {
	// approved normally; processed tolerated so an issue retry can re-stamp a
	// request whose first ledger write half-landed
	q := r.store.From(requestsTable).Admin().
		Eq("id", id).
		In("status", models.RequestStatusApproved, models.RequestStatusProcessed)
	return r.conditionalUpdate(ctx, q, map[string]any{
		"status":       models.RequestStatusProcessed,
		"voucher_code": code,
		"issue_date":   issuedAt.UTC(),
		"updated_at":   time.Now().UTC(),
	})
}

func (r *voucherRequestRepo) RecordRedemption(ctx context.Context, id int64, at time.Time) (*models.VoucherRequest, error) {
	q := r.store.From(requestsTable).Admin().
		Eq("id", id).
		Eq("status", models.RequestStatusProcessed)
	return r.conditionalUpdate(ctx, q, map[string]any{
		"redemption_status": true,
		"redemption_date":   at.UTC(),
		"updated_at":        time.Now().UTC(),
	})
}

func (r *voucherRequestRepo) MarkCertification(ctx context.Context, id int64, outcome models.CertificationOutcome, at time.Time) (*models.VoucherRequest, error) {
	q := r.store.From(requestsTable).Admin().
		Eq("id", id).
		Eq("status", models.RequestStatusProcessed).
		Eq("redemption_status", true)
	return r.conditionalUpdate(ctx, q, map[string]any{
		"certification_result": string(outcome),
		"certified_date":       at.UTC(),
		"updated_at":           time.Now().UTC(),
	})
}

func (r *voucherRequestRepo) SetVoucherCode(ctx context.Context, id int64, code string) error {
	return r.store.From(requestsTable).Admin().Eq("id", id).Update(ctx, map[string]any{
		"voucher_code": code,
		"updated_at":   time.Now().UTC(),
	}, nil)
}
