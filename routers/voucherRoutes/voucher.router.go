package voucherRoutes

import (
	voucherControllers "vportal/controllers/voucher"
	"vportal/middleware"
	voucherValidators "vportal/validators/voucher"
	"vportal/workflow"

	"github.com/gofiber/fiber/v2"
)

func SetupVoucherRoutes(app *fiber.App, engine *workflow.Engine) {
	controller := voucherControllers.New(engine)

	voucherGroup := app.Group("/voucher", middleware.JWTMiddleware)

	voucherGroup.Post("/requests", voucherValidators.SubmitRequest(), controller.SubmitRequests)
	voucherGroup.Get("/requests", controller.ListMyRequests)
}
