package workflow

import (
	"context"
	"log"
	"sort"

	"vportal/models"
)

// ReconcileResult summarizes one duplicate-assignment sweep
type ReconcileResult struct {
	GroupsFound int `json:"duplicateGroupsFound"`
	Reset       int `json:"vouchersReset"`
}

// ReconcileDuplicateAssignments repairs the duplicate-assignment invariant:
// for every (candidate email, exam) pair holding more than one issued code,
// the earliest-created code is kept and the rest go back to available with
// their assignment fields cleared. This is a compensating sweep, not a
// guarantee; the claim primitive prevents new duplicates, the sweep cleans up
// whatever predates it or slipped through operator overrides.
func (e *Engine) ReconcileDuplicateAssignments(ctx context.Context) (*ReconcileResult, error) {
	issued, err := e.codes.ListIssuedAssigned(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]models.VoucherCode)
	for _, code := range issued {
		key := code.CandidateEmail + "_" + code.CertificationExam
		groups[key] = append(groups[key], code)
	}

	result := &ReconcileResult{}
	for key, codes := range groups {
		if len(codes) < 2 {
			continue
		}
		result.GroupsFound++

		sort.Slice(codes, func(i, j int) bool {
			a, b := codes[i], codes[j]
			if a.CreatedAt != nil && b.CreatedAt != nil && !a.CreatedAt.Equal(*b.CreatedAt) {
				return a.CreatedAt.Before(*b.CreatedAt)
			}
			return a.ID < b.ID
		})

		// keep the earliest, release the rest
		for _, dup := range codes[1:] {
			if _, err := e.codes.ResetAssignment(ctx, dup.ID); err != nil {
				log.Printf("[RECONCILE] failed to reset duplicate voucher %s (%s): %v", dup.VoucherCode, key, err)
				continue
			}
			log.Printf("[RECONCILE] reset duplicate voucher %s for %s", dup.VoucherCode, dup.CandidateEmail)
			result.Reset++
		}
	}

	return result, nil
}

// SyncResult summarizes a voucher-code back-fill run
type SyncResult struct {
	Synced         int `json:"syncedCount"`
	TotalProcessed int `json:"totalProcessed"`
}

// SyncVoucherCodes back-fills the ledger's voucher_code mirror for processed
// requests that lost it to a partial failure, by looking up the issued pool
// row for the same candidate and exam
func (e *Engine) SyncVoucherCodes(ctx context.Context) (*SyncResult, error) {
	missing, err := e.requests.ListProcessedMissingCode(ctx)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{TotalProcessed: len(missing)}
	for _, req := range missing {
		code, err := e.codes.FindIssuedByCandidate(ctx, req.CandidateEmail, req.CertificationExam)
		if err != nil {
			log.Printf("[SYNC] lookup failed for request %d: %v", req.ID, err)
			continue
		}
		if code == nil {
			log.Printf("[SYNC] no issued voucher found for %s %s", req.CandidateFirstName, req.CandidateLastName)
			continue
		}
		if err := e.requests.SetVoucherCode(ctx, req.ID, code.VoucherCode); err != nil {
			log.Printf("[SYNC] failed to update request %d: %v", req.ID, err)
			continue
		}
		result.Synced++
	}

	return result, nil
}

// FixCompletedStatuses promotes redeemed pool rows that already carry a
// certified date to completed and returns how many rows moved
func (e *Engine) FixCompletedStatuses(ctx context.Context) (int, error) {
	return e.codes.PromoteCertifiedToCompleted(ctx)
}

// ResetVoucherCode clears a pool row's assignment and returns it to the
// available pool (admin override)
func (e *Engine) ResetVoucherCode(ctx context.Context, id int64) (*models.VoucherCode, error) {
	code, err := e.codes.ResetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrNotEligible
	}
	return code, nil
}
