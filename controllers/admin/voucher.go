package adminController

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"vportal/config"
	"vportal/database"
	"vportal/middleware"
	"vportal/models"
	"vportal/utils"
	voucherValidator "vportal/validators/voucher"
	"vportal/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Controller serves the admin voucher management endpoints
type Controller struct {
	engine *workflow.Engine
}

func New(engine *workflow.Engine) *Controller {
	return &Controller{engine: engine}
}

// workflowErrorResponse maps workflow errors onto the API response shape
func workflowErrorResponse(c *fiber.Ctx, err error) error {
	var vErr *workflow.ValidationError
	var noCode *workflow.NoAvailableCodeError
	var missing *workflow.MissingColumnsError

	switch {
	case errors.As(err, &vErr):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, vErr.Msg, nil)
	case errors.Is(err, workflow.ErrNotEligible):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Voucher request not found or not eligible!", nil)
	case errors.Is(err, workflow.ErrAlreadyIssued):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Voucher code has already been issued for this request!", nil)
	case errors.As(err, &noCode):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, noCode.Error(), nil)
	case errors.As(err, &missing):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, missing.Error(), nil)
	default:
		log.Printf("Admin voucher operation failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
}

// ListRequests returns the full request ledger, newest first
func (ct *Controller) ListRequests(c *fiber.Ctx) error {
	rows, err := ct.engine.ListRequests(c.Context())
	if err != nil {
		return workflowErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Voucher requests fetched successfully.", rows)
}

// ListCodes returns the whole voucher code pool
func (ct *Controller) ListCodes(c *fiber.Ctx) error {
	rows, err := ct.engine.ListCodes(c.Context())
	if err != nil {
		return workflowErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Voucher codes fetched successfully.", rows)
}

// ApproveRequest moves a pending request to approved
func (ct *Controller) ApproveRequest(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request id!", nil)
	}

	row, err := ct.engine.Approve(c.Context(), int64(id))
	if err != nil {
		return workflowErrorResponse(c, err)
	}

	utils.SendRequestApprovedEmail(row.PartnerEmail, row.PartnerName,
		row.CandidateFirstName+" "+row.CandidateLastName, row.CertificationExam)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Voucher request approved.", row)
}

// RejectRequest moves a pending request to rejected with the given reason
func (ct *Controller) RejectRequest(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request id!", nil)
	}

	reason, _ := c.Locals("validatedReason").(string)

	row, err := ct.engine.Reject(c.Context(), int64(id), reason)
	if err != nil {
		return workflowErrorResponse(c, err)
	}

	utils.SendRequestRejectedEmail(row.PartnerEmail, row.PartnerName,
		row.CandidateFirstName+" "+row.CandidateLastName, row.RejectionReason)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Voucher request rejected.", row)
}

// IssueCode claims the oldest available pool code for an approved request.
// A partial failure still returns 200: the claim is committed, the warning
// tells the operator which side needs repair.
func (ct *Controller) IssueCode(c *fiber.Ctx) error {
	payload, ok := c.Locals("validatedIssue").(*voucherValidator.IssuePayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	code, err := ct.engine.IssueVoucherCode(c.Context(), workflow.IssueInput{
		RequestID:         payload.RequestID,
		CertificationExam: payload.CertificationExam,
	})

	var partial *workflow.PartialFailureError
	if errors.As(err, &partial) {
		log.Printf("Issue voucher partially failed: %v", partial)
		return middleware.JsonResponse(c, fiber.StatusOK, true,
			"Voucher code issued, but the request record could not be updated. Run sync to repair.", code)
	}
	if err != nil {
		return workflowErrorResponse(c, err)
	}

	utils.SendVoucherIssuedEmail(code.PartnerEmail, code.PartnerName,
		code.CandidateFirstName+" "+code.CandidateLastName, code.CertificationExam, code.VoucherCode)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Voucher code issued successfully.", code)
}

// RecordRedemption flags a processed request as redeemed
func (ct *Controller) RecordRedemption(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request id!", nil)
	}

	// redemption date is optional, an empty body means "now"
	reqData := new(struct {
		RedemptionDate *time.Time `json:"redemptionDate"`
	})
	_ = c.BodyParser(reqData)

	row, err := ct.engine.RecordRedemption(c.Context(), int64(id), reqData.RedemptionDate)

	var partial *workflow.PartialFailureError
	if errors.As(err, &partial) {
		log.Printf("Record redemption partially failed: %v", partial)
		return middleware.JsonResponse(c, fiber.StatusOK, true,
			"Redemption recorded, but the voucher pool row could not be updated.", row)
	}
	if err != nil {
		return workflowErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Redemption recorded successfully.", row)
}

// MarkCertification records the certification outcome of a redeemed request
func (ct *Controller) MarkCertification(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request id!", nil)
	}

	payload, ok := c.Locals("validatedCertification").(*voucherValidator.CertificationPayload)
	if !ok || payload.Achieved == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var at *time.Time
	if payload.CertifiedDate != nil {
		parsed, perr := time.Parse(time.RFC3339, *payload.CertifiedDate)
		if perr != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid certifiedDate, expected RFC3339!", nil)
		}
		at = &parsed
	}

	row, err := ct.engine.MarkCertification(c.Context(), int64(id), *payload.Achieved, at)

	var partial *workflow.PartialFailureError
	if errors.As(err, &partial) {
		log.Printf("Mark certification partially failed: %v", partial)
		return middleware.JsonResponse(c, fiber.StatusOK, true,
			"Certification recorded, but the voucher pool row could not be updated.", row)
	}
	if err != nil {
		return workflowErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certification recorded successfully.", row)
}

// UploadVoucherCodes imports a CSV of voucher codes into the available pool
// and records a local audit row for the batch
func (ct *Controller) UploadVoucherCodes(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Voucher code file is required!", nil)
	}

	savedPath, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
	if err != nil {
		log.Printf("Error saving uploaded voucher file: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save uploaded file!", nil)
	}

	f, err := os.Open(savedPath)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to read uploaded file!", nil)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid CSV file!", nil)
	}
	if len(records) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "The file is empty!", nil)
	}

	// Excel exports prepend a BOM to the first header cell
	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")

	result, err := ct.engine.ImportVoucherCodes(c.Context(), records[0], records[1:])
	if err != nil {
		return workflowErrorResponse(c, err)
	}

	skippedJSON, _ := json.Marshal(result.SkippedRows)
	batch := models.VoucherImportBatch{
		Reference:   uuid.NewString(),
		Filename:    file.Filename,
		UploadedBy:  localString(c, "email"),
		Inserted:    result.Inserted,
		Skipped:     result.Skipped,
		SkippedRows: datatypes.JSON(skippedJSON),
	}
	if err := database.Database.Db.Create(&batch).Error; err != nil {
		log.Printf("Error saving import batch audit row: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Voucher codes imported successfully.", fiber.Map{
		"reference": batch.Reference,
		"inserted":  result.Inserted,
		"skipped":   result.Skipped,
	})
}

// ListImportBatches returns the local audit trail of voucher code uploads
func (ct *Controller) ListImportBatches(c *fiber.Ctx) error {
	var batches []models.VoucherImportBatch
	if err := database.Database.Db.Order("created_at DESC").Find(&batches).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch import batches!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Import batches fetched successfully.", batches)
}

// ResetVoucherCode returns a pool row to the available pool (admin override)
func (ct *Controller) ResetVoucherCode(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid voucher id!", nil)
	}

	code, err := ct.engine.ResetVoucherCode(c.Context(), int64(id))
	if err != nil {
		return workflowErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Voucher code reset to available.", code)
}

// CleanupDuplicates runs the duplicate-assignment sweep
func (ct *Controller) CleanupDuplicates(c *fiber.Ctx) error {
	result, err := ct.engine.ReconcileDuplicateAssignments(c.Context())
	if err != nil {
		return workflowErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Duplicate cleanup completed.", result)
}

// SyncVoucherCodes back-fills missing voucher_code values on processed requests
func (ct *Controller) SyncVoucherCodes(c *fiber.Ctx) error {
	result, err := ct.engine.SyncVoucherCodes(c.Context())
	if err != nil {
		return workflowErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Voucher code sync completed.", result)
}

// FixCompletedStatuses promotes certified-but-redeemed pool rows to completed
func (ct *Controller) FixCompletedStatuses(c *fiber.Ctx) error {
	moved, err := ct.engine.FixCompletedStatuses(c.Context())
	if err != nil {
		return workflowErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completed status fix finished.", fiber.Map{
		"updatedCount": moved,
	})
}

func localString(c *fiber.Ctx, key string) string {
	if v, ok := c.Locals(key).(string); ok {
		return v
	}
	return ""
}
