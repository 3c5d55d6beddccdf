package adminRoutes

import (
	adminControllers "vportal/controllers/admin"
	"vportal/middleware"
	voucherValidators "vportal/validators/voucher"
	"vportal/workflow"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, engine *workflow.Engine) {
	controller := adminControllers.New(engine)

	adminGroup := app.Group("/admin/voucher", middleware.JWTMiddleware, middleware.AdminOnly)

	adminGroup.Get("/requests", controller.ListRequests)
	adminGroup.Get("/codes", controller.ListCodes)

	adminGroup.Patch("/requests/:id/approve", controller.ApproveRequest)
	adminGroup.Patch("/requests/:id/reject", voucherValidators.RejectRequest(), controller.RejectRequest)
	adminGroup.Post("/issue", voucherValidators.IssueCode(), controller.IssueCode)
	adminGroup.Patch("/requests/:id/redemption", controller.RecordRedemption)
	adminGroup.Patch("/requests/:id/certification", voucherValidators.MarkCertification(), controller.MarkCertification)

	adminGroup.Post("/upload", controller.UploadVoucherCodes)
	adminGroup.Get("/imports", controller.ListImportBatches)

	adminGroup.Patch("/codes/:id/reset", controller.ResetVoucherCode)
	adminGroup.Post("/cleanup-duplicates", controller.CleanupDuplicates)
	adminGroup.Post("/sync-voucher-codes", controller.SyncVoucherCodes)
	adminGroup.Post("/fix-completed-statuses", controller.FixCompletedStatuses)
}
