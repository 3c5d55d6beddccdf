package workflow_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"vportal/models"
)

// memRequestRepo is an in-memory VoucherRequestRepo with the same
// precondition-at-write semantics as the remote-store-backed one: a
// transition whose filter no longer holds returns (nil, nil).
type memRequestRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.VoucherRequest

	markProcessedErr error
	setCodeErr       error
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{nextID: 1, rows: map[int64]*models.VoucherRequest{}}
}

func (m *memRequestRepo) Insert(_ context.Context, reqs []models.VoucherRequest) ([]models.VoucherRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := make([]models.VoucherRequest, 0, len(reqs))
	for _, r := range reqs {
		row := r
		row.ID = m.nextID
		m.nextID++
		m.rows[row.ID] = &row
		created = append(created, row)
	}
	return created, nil
}

func (m *memRequestRepo) GetByID(_ context.Context, id int64) (*models.VoucherRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (m *memRequestRepo) ListAll(_ context.Context) ([]models.VoucherRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.VoucherRequest, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memRequestRepo) ListByPartnerEmail(_ context.Context, email string) ([]models.VoucherRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.VoucherRequest
	for _, r := range m.rows {
		if r.PartnerEmail == email {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memRequestRepo) ListProcessedMissingCode(_ context.Context) ([]models.VoucherRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.VoucherRequest
	for _, r := range m.rows {
		if r.Status == models.RequestStatusProcessed && r.VoucherCode == "" {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRequestRepo) Approve(_ context.Context, id int64) (*models.VoucherRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.Status != models.RequestStatusPending {
		return nil, nil
	}
	row.Status = models.RequestStatusApproved
	cp := *row
	return &cp, nil
}

func (m *memRequestRepo) Reject(_ context.Context, id int64, reason string) (*models.VoucherRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.Status != models.RequestStatusPending {
		return nil, nil
	}
	row.Status = models.RequestStatusRejected
	row.RejectionReason = reason
	cp := *row
	return &cp, nil
}

func (m *memRequestRepo) MarkProcessed(_ context.Context, id int64, code string, issuedAt time.Time) (*models.VoucherRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markProcessedErr != nil {
		return nil, m.markProcessedErr
	}
	row, ok := m.rows[id]
	if !ok || (row.Status != models.RequestStatusApproved && row.Status != models.RequestStatusProcessed) {
		return nil, nil
	}
	row.Status = models.RequestStatusProcessed
	row.VoucherCode = code
	at := issuedAt
	row.IssueDate = &at
	cp := *row
	return &cp, nil
}

func (m *memRequestRepo) RecordRedemption(_ context.Context, id int64, at time.Time) (*models.VoucherRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.Status != models.RequestStatusProcessed {
		return nil, nil
	}
	row.RedemptionStatus = true
	when := at
	row.RedemptionDate = &when
	cp := *row
	return &cp, nil
}

func (m *memRequestRepo) MarkCertification(_ context.Context, id int64, outcome models.CertificationOutcome, at time.Time) (*models.VoucherRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.Status != models.RequestStatusProcessed || !row.RedemptionStatus {
		return nil, nil
	}
	row.CertificationResult = outcome
	when := at
	row.CertifiedDate = &when
	cp := *row
	return &cp, nil
}

func (m *memRequestRepo) SetVoucherCode(_ context.Context, id int64, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setCodeErr != nil {
		return m.setCodeErr
	}
	if row, ok := m.rows[id]; ok {
		row.VoucherCode = code
	}
	return nil
}

// memCodeRepo is an in-memory VoucherCodeRepo. ClaimAvailable holds the lock
// for the whole check-and-set, matching the store's atomic conditional update.
type memCodeRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.VoucherCode

	markRedeemedErr  error
	markCompletedErr error
}

func newMemCodeRepo() *memCodeRepo {
	return &memCodeRepo{nextID: 1, rows: map[int64]*models.VoucherCode{}}
}

func (m *memCodeRepo) addCode(code, exam, status string) *models.VoucherCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC().Add(time.Duration(m.nextID) * time.Millisecond)
	row := &models.VoucherCode{
		ID:                m.nextID,
		VoucherCode:       code,
		CertificationExam: exam,
		Status:            status,
		CreatedAt:         &now,
	}
	m.nextID++
	m.rows[row.ID] = row
	return row
}

func (m *memCodeRepo) BulkInsert(_ context.Context, codes []models.VoucherCode) ([]models.VoucherCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := make([]models.VoucherCode, 0, len(codes))
	for _, c := range codes {
		row := c
		row.ID = m.nextID
		m.nextID++
		m.rows[row.ID] = &row
		created = append(created, row)
	}
	return created, nil
}

func (m *memCodeRepo) ListAll(_ context.Context) ([]models.VoucherCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.VoucherCode, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCodeRepo) ListIssuedAssigned(_ context.Context) ([]models.VoucherCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.VoucherCode
	for _, r := range m.rows {
		if r.Status == models.CodeStatusIssued && r.CandidateEmail != "" {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCodeRepo) OldestAvailable(_ context.Context, exam string) (*models.VoucherCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.VoucherCode
	for _, r := range m.rows {
		if r.CertificationExam != exam || r.Status != models.CodeStatusAvailable {
			continue
		}
		if best == nil || r.ID < best.ID {
			best = r
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memCodeRepo) ClaimAvailable(_ context.Context, id int64, asgn models.VoucherAssignment, at time.Time) (*models.VoucherCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.Status != models.CodeStatusAvailable {
		return nil, nil
	}
	row.Status = models.CodeStatusIssued
	row.PartnerEmail = asgn.PartnerEmail
	row.PartnerName = asgn.PartnerName
	row.PartnerCompany = asgn.PartnerCompany
	row.CustomerCompany = asgn.CustomerCompany
	row.CandidateFirstName = asgn.CandidateFirstName
	row.CandidateLastName = asgn.CandidateLastName
	row.CandidateEmail = asgn.CandidateEmail
	row.Country = asgn.Country
	when := at
	row.IssueDate = &when
	cp := *row
	return &cp, nil
}

func (m *memCodeRepo) FindIssuedByCandidate(_ context.Context, candidateEmail, exam string) (*models.VoucherCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.VoucherCode
	for _, r := range m.rows {
		if r.Status != models.CodeStatusIssued || r.CandidateEmail != candidateEmail || r.CertificationExam != exam {
			continue
		}
		if best == nil || r.ID < best.ID {
			best = r
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memCodeRepo) MarkRedeemed(_ context.Context, candidateEmail, exam string, at time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markRedeemedErr != nil {
		return 0, m.markRedeemedErr
	}
	n := 0
	for _, r := range m.rows {
		if r.Status == models.CodeStatusIssued && r.CandidateEmail == candidateEmail && r.CertificationExam == exam {
			r.Status = models.CodeStatusRedeemed
			when := at
			r.RedemptionDate = &when
			n++
		}
	}
	return n, nil
}

func (m *memCodeRepo) MarkCompleted(_ context.Context, candidateEmail, exam string, at time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markCompletedErr != nil {
		return 0, m.markCompletedErr
	}
	n := 0
	for _, r := range m.rows {
		if r.Status == models.CodeStatusRedeemed && r.CandidateEmail == candidateEmail && r.CertificationExam == exam {
			r.Status = models.CodeStatusCompleted
			when := at
			r.CertifiedDate = &when
			n++
		}
	}
	return n, nil
}

func (m *memCodeRepo) PromoteCertifiedToCompleted(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if r.Status == models.CodeStatusRedeemed && r.CertifiedDate != nil {
			r.Status = models.CodeStatusCompleted
			n++
		}
	}
	return n, nil
}

func (m *memCodeRepo) ResetAssignment(_ context.Context, id int64) (*models.VoucherCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	row.Status = models.CodeStatusAvailable
	row.PartnerEmail = ""
	row.PartnerName = ""
	row.PartnerCompany = ""
	row.CustomerCompany = ""
	row.CandidateFirstName = ""
	row.CandidateLastName = ""
	row.CandidateEmail = ""
	row.Country = ""
	row.IssueDate = nil
	row.RedemptionDate = nil
	row.CertifiedDate = nil
	cp := *row
	return &cp, nil
}
