package voucherController

import (
	"errors"

	"vportal/middleware"
	"vportal/utils"
	voucherValidator "vportal/validators/voucher"
	"vportal/workflow"

	"github.com/gofiber/fiber/v2"
)

// Controller serves the partner-facing voucher request endpoints
type Controller struct {
	engine *workflow.Engine
}

func New(engine *workflow.Engine) *Controller {
	return &Controller{engine: engine}
}

// SubmitRequests creates one pending voucher request per candidate. Partner
// identity comes from the token, never from the body.
func (ct *Controller) SubmitRequests(c *fiber.Ctx) error {
	payload, ok := c.Locals("validatedSubmission").(*voucherValidator.SubmitPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	partner := workflow.PartnerInfo{
		UserID:  localString(c, "userId"),
		Email:   localString(c, "email"),
		Name:    localString(c, "name"),
		Company: localString(c, "company"),
	}

	sub := workflow.Submission{
		Partner:           partner,
		CustomerCompany:   payload.CustomerCompany,
		Country:           payload.Country,
		CustomerType:      payload.CustomerType,
		SfdcOpportunityID: payload.SfdcOpportunityID,
	}
	for _, cand := range payload.Candidates {
		sub.Candidates = append(sub.Candidates, workflow.Candidate{
			FirstName:         cand.FirstName,
			LastName:          cand.LastName,
			Email:             cand.Email,
			CertificationExam: cand.CertificationExam,
		})
	}

	rows, err := ct.engine.Submit(c.Context(), sub)
	if err != nil {
		var vErr *workflow.ValidationError
		if errors.As(err, &vErr) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, vErr.Msg, nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit voucher request!", nil)
	}

	utils.SendRequestSubmittedEmail(partner.Email, partner.Name, len(rows))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Voucher request submitted successfully.", rows)
}

// ListMyRequests returns the authenticated partner's requests, newest first
func (ct *Controller) ListMyRequests(c *fiber.Ctx) error {
	email := localString(c, "email")
	if email == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User identity not found", nil)
	}

	rows, err := ct.engine.ListPartnerRequests(c.Context(), email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch voucher requests!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Voucher requests fetched successfully.", rows)
}

func localString(c *fiber.Ctx, key string) string {
	if v, ok := c.Locals(key).(string); ok {
		return v
	}
	return ""
}
