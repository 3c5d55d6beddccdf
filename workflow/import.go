package workflow

import (
	"context"
	"strings"

	"vportal/models"
)

// Required upload columns. Header matching is exact after trimming, same as
// the partner-facing template.
const (
	ImportColumnExam = "Certification Exam"
	ImportColumnCode = "Voucher code"
)

// ImportResult summarizes one bulk import
type ImportResult struct {
	Inserted    int
	Skipped     int
	SkippedRows [][]string
}

// ImportVoucherCodes inserts a tabular batch of codes as available pool rows.
// A header missing either required column rejects the whole batch with
// MissingColumnsError; individual rows blank in either value after trimming
// are dropped silently and reported in the result. Insertion order assigns
// the ids the allocator's FIFO policy depends on.
func (e *Engine) ImportVoucherCodes(ctx context.Context, header []string, rows [][]string) (*ImportResult, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range []string{ImportColumnExam, ImportColumnCode} {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	examIdx := index[ImportColumnExam]
	codeIdx := index[ImportColumnCode]

	result := &ImportResult{}
	var codes []models.VoucherCode
	for _, row := range rows {
		exam := fieldAt(row, examIdx)
		code := fieldAt(row, codeIdx)
		if exam == "" || code == "" {
			result.Skipped++
			result.SkippedRows = append(result.SkippedRows, row)
			continue
		}
		codes = append(codes, models.VoucherCode{
			VoucherCode:       code,
			CertificationExam: exam,
			Status:            models.CodeStatusAvailable,
		})
	}

	if len(codes) == 0 {
		return nil, &ValidationError{Msg: "No valid voucher codes found in the file"}
	}

	inserted, err := e.codes.BulkInsert(ctx, codes)
	if err != nil {
		return nil, err
	}
	result.Inserted = len(inserted)

	return result, nil
}

func fieldAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
