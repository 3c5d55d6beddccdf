package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"vportal/models"
	"vportal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVoucherCodeFIFO(t *testing.T) {
	engine, _, codes := newTestEngine()
	ctx := context.Background()

	codes.addCode("VC-003", "E1", models.CodeStatusAvailable)
	codes.addCode("VC-001", "E1", models.CodeStatusIssued) // already taken
	codes.addCode("VC-002", "E1", models.CodeStatusAvailable)

	req := submitApproved(t, engine, "a@x.example", "E1")

	issued, err := engine.IssueVoucherCode(ctx, workflow.IssueInput{RequestID: req.ID, CertificationExam: "E1"})
	require.NoError(t, err)

	// lowest available id wins, regardless of code value
	assert.Equal(t, "VC-003", issued.VoucherCode)
	assert.Equal(t, models.CodeStatusIssued, issued.Status)
	assert.Equal(t, "a@x.example", issued.CandidateEmail)
	assert.NotNil(t, issued.IssueDate)
}

func TestIssueVoucherCodeStampsLedger(t *testing.T) {
	engine, requests, codes := newTestEngine()
	ctx := context.Background()

	codes.addCode("VC-001", "E1", models.CodeStatusAvailable)
	req := submitApproved(t, engine, "a@x.example", "E1")

	issued, err := engine.IssueVoucherCode(ctx, workflow.IssueInput{RequestID: req.ID, CertificationExam: "E1"})
	require.NoError(t, err)

	stored, err := requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusProcessed, stored.Status)
	assert.Equal(t, issued.VoucherCode, stored.VoucherCode)
	assert.NotNil(t, stored.IssueDate)
}

func TestIssueVoucherCodeIdempotencyGuard(t *testing.T) {
	engine, _, codes := newTestEngine()
	ctx := context.Background()

	codes.addCode("VC-001", "E1", models.CodeStatusAvailable)
	codes.addCode("VC-002", "E1", models.CodeStatusAvailable)
	req := submitApproved(t, engine, "a@x.example", "E1")

	_, err := engine.IssueVoucherCode(ctx, workflow.IssueInput{RequestID: req.ID, CertificationExam: "E1"})
	require.NoError(t, err)

	// retry after success must not burn a second code
	_, err = engine.IssueVoucherCode(ctx, workflow.IssueInput{RequestID: req.ID, CertificationExam: "E1"})
	assert.ErrorIs(t, err, workflow.ErrAlreadyIssued)

	pool, err := codes.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.CodeStatusAvailable, pool[1].Status)
}

func TestIssueVoucherCodeEligibility(t *testing.T) {
	engine, _, codes := newTestEngine()
	ctx := context.Background()

	codes.addCode("VC-001", "E1", models.CodeStatusAvailable)

	// unknown request
	_, err := engine.IssueVoucherCode(ctx, workflow.IssueInput{RequestID: 9999, CertificationExam: "E1"})
	assert.ErrorIs(t, err, workflow.ErrNotEligible)

	// still pending
	rows, err := engine.Submit(ctx, testSubmission(candidate("a@x.example", "E1")))
	require.NoError(t, err)
	_, err = engine.IssueVoucherCode(ctx, workflow.IssueInput{RequestID: rows[0].ID, CertificationExam: "E1"})
	assert.ErrorIs(t, err, workflow.ErrNotEligible)

	// bad input
	var vErr *workflow.ValidationError
	_, err = engine.IssueVoucherCode(ctx, workflow.IssueInput{})
	assert.ErrorAs(t, err, &vErr)
}

func TestIssueVoucherCodePoolExhausted(t *testing.T) {
	engine, _, codes := newTestEngine()
	ctx := context.Background()

	// only codes for a different exam
	codes.addCode("VC-001", "E2", models.CodeStatusAvailable)
	req := submitApproved(t, engine, "a@x.example", "E1")

	_, err := engine.IssueVoucherCode(ctx, workflow.IssueInput{RequestID: req.ID, CertificationExam: "E1"})

	var noCode *workflow.NoAvailableCodeError
	require.ErrorAs(t, err, &noCode)
	assert.Equal(t, "E1", noCode.Exam)
	assert.Contains(t, err.Error(), "no available voucher codes found for E1")
}

func TestIssueVoucherCodeConcurrentClaims(t *testing.T) {
	engine, _, codes := newTestEngine()
	ctx := context.Background()

	const n = 8
	for i := 0; i < n; i++ {
		codes.addCode(fmt.Sprintf("VC-%03d", i+1), "E1", models.CodeStatusAvailable)
	}

	reqs := make([]models.VoucherRequest, n)
	for i := range reqs {
		reqs[i] = submitApproved(t, engine, "cand@x.example", "E1")
	}

	var wg sync.WaitGroup
	issued := make([]*models.VoucherCode, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			issued[i], errs[i] = engine.IssueVoucherCode(ctx, workflow.IssueInput{
				RequestID:         reqs[i].ID,
				CertificationExam: "E1",
			})
		}(i)
	}
	wg.Wait()

	seen := map[int64]bool{}
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, issued[i])
		// no pool row may be handed out twice
		assert.False(t, seen[issued[i].ID], "voucher %d issued twice", issued[i].ID)
		seen[issued[i].ID] = true
	}
}

func TestIssueVoucherCodePartialFailure(t *testing.T) {
	engine, requests, codes := newTestEngine()
	ctx := context.Background()

	codes.addCode("VC-001", "E1", models.CodeStatusAvailable)
	req := submitApproved(t, engine, "a@x.example", "E1")

	requests.markProcessedErr = errors.New("store unavailable")

	issued, err := engine.IssueVoucherCode(ctx, workflow.IssueInput{RequestID: req.ID, CertificationExam: "E1"})

	var partial *workflow.PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "VC-001", partial.VoucherCode)

	// the pool row stays claimed; the warning tells the operator to repair
	require.NotNil(t, issued)
	pool, perr := codes.ListAll(ctx)
	require.NoError(t, perr)
	assert.Equal(t, models.CodeStatusIssued, pool[0].Status)
}
