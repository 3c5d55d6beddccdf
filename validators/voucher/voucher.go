package voucherValidator

import (
	"strings"

	"vportal/middleware"
	"vportal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CandidatePayload is one exam candidate inside a submission
type CandidatePayload struct {
	FirstName         string `json:"firstName" validate:"required"`
	LastName          string `json:"lastName" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	CertificationExam string `json:"certificationExam" validate:"required"`
}

// SubmitPayload is the partner voucher request form
type SubmitPayload struct {
	CustomerCompany   string             `json:"customerCompany" validate:"required"`
	Country           string             `json:"country" validate:"required"`
	CustomerType      string             `json:"customerType" validate:"required,oneof=New Existing"`
	SfdcOpportunityID string             `json:"sfdcOpportunityId"`
	Candidates        []CandidatePayload `json:"candidates" validate:"required,min=1,max=2,dive"`
}

// SubmitRequest validates a partner voucher request submission
func SubmitRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Tag() {
				case "required":
					errors[fieldErr.Field()] = fieldErr.Field() + " is required!"
				case "email":
					errors[fieldErr.Field()] = "Invalid email!"
				case "oneof":
					errors[fieldErr.Field()] = "Customer type must be New or Existing!"
				case "min":
					errors[fieldErr.Field()] = "At least one candidate is required!"
				case "max":
					errors[fieldErr.Field()] = "A submission may carry at most two candidates!"
				default:
					errors[fieldErr.Field()] = "Invalid value!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// RejectRequest validates a rejection reason. The bound matches the ledger
// column width, the partner-facing form cuts off earlier.
func RejectRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Reason string `json:"reason"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reason := strings.TrimSpace(reqData.Reason)
		if reason == "" {
			errors["reason"] = "Rejection reason cannot be empty!"
		} else if len(reason) > models.RejectionReasonMaxLen {
			errors["reason"] = "Rejection reason must be 36 characters or less!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReason", reason)
		return c.Next()
	}
}

// IssuePayload names the approved request and the exam pool to draw from
type IssuePayload struct {
	RequestID         int64  `json:"requestId"`
	CertificationExam string `json:"certificationExam"`
}

// IssueCode validates the issue-voucher-code request
func IssueCode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(IssuePayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.RequestID == 0 {
			errors["requestId"] = "Request ID is required!"
		}
		if strings.TrimSpace(reqData.CertificationExam) == "" {
			errors["certificationExam"] = "Certification exam is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedIssue", reqData)
		return c.Next()
	}
}

// CertificationPayload carries the recorded exam outcome
type CertificationPayload struct {
	Achieved      *bool   `json:"achieved"`
	CertifiedDate *string `json:"certifiedDate"`
}

// MarkCertification validates a certification outcome request
func MarkCertification() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CertificationPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Achieved == nil {
			errors["achieved"] = "Certification outcome is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCertification", reqData)
		return c.Next()
	}
}
