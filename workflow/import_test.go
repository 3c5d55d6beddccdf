package workflow_test

import (
	"context"
	"testing"

	"vportal/models"
	"vportal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportVoucherCodes(t *testing.T) {
	engine, _, codes := newTestEngine()
	ctx := context.Background()

	header := []string{"Certification Exam", "Voucher code", "Notes"}
	rows := [][]string{
		{"E1", "VC-001", "first batch"},
		{"E1", " VC-002 ", ""},
		{"E2", "VC-003"},
	}

	result, err := engine.ImportVoucherCodes(ctx, header, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Inserted)
	assert.Equal(t, 0, result.Skipped)

	pool, err := codes.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, pool, 3)

	// insertion order assigns the FIFO ids, values are trimmed
	assert.Equal(t, "VC-001", pool[0].VoucherCode)
	assert.Equal(t, "VC-002", pool[1].VoucherCode)
	assert.Equal(t, "VC-003", pool[2].VoucherCode)
	for _, row := range pool {
		assert.Equal(t, models.CodeStatusAvailable, row.Status)
	}
}

func TestImportMissingColumns(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.ImportVoucherCodes(ctx, []string{"Exam", "Code"}, [][]string{{"E1", "VC-001"}})

	var missing *workflow.MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{workflow.ImportColumnExam, workflow.ImportColumnCode}, missing.Columns)
}

func TestImportHeaderWhitespaceTolerated(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	header := []string{" Certification Exam ", "Voucher code "}
	result, err := engine.ImportVoucherCodes(ctx, header, [][]string{{"E1", "VC-001"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
}

func TestImportSkipsBlankRows(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	header := []string{"Certification Exam", "Voucher code"}
	rows := [][]string{
		{"E1", "VC-001"},
		{"", "VC-002"},
		{"E1", "   "},
		{"E1"}, // short row
		{"E1", "VC-005"},
	}

	result, err := engine.ImportVoucherCodes(ctx, header, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 3, result.Skipped)
	assert.Len(t, result.SkippedRows, 3)
}

func TestImportNothingValid(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	header := []string{"Certification Exam", "Voucher code"}
	rows := [][]string{{"", ""}, {"E1", ""}}

	_, err := engine.ImportVoucherCodes(ctx, header, rows)

	var vErr *workflow.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Msg, "No valid voucher codes")
}
