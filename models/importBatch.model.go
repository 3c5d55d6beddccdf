package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VoucherImportBatch is a local audit row for each voucher-code upload: who
// imported what, how many rows landed, and which rows were dropped (kept as
// raw JSON for later inspection).
type VoucherImportBatch struct {
	gorm.Model
	Reference   string `gorm:"uniqueIndex"`
	Filename    string
	UploadedBy  string
	Inserted    int
	Skipped     int
	SkippedRows datatypes.JSON
}
