package checklistRoutes

import (
	checklistControllers "vportal/controllers/checklist"
	"vportal/middleware"
	checklistValidators "vportal/validators/checklist"

	"github.com/gofiber/fiber/v2"
)

func SetupChecklistRoutes(app *fiber.App) {
	checklistGroup := app.Group("/checklist")

	checklistGroup.Get("/questions", checklistValidators.QuestionList(), checklistControllers.ListQuestions)
	checklistGroup.Post("/responses", checklistValidators.SubmitResponse(), checklistControllers.SubmitResponse)

	checklistGroup.Get("/responses", middleware.JWTMiddleware, middleware.AdminOnly, checklistValidators.ResponseList(), checklistControllers.ListResponses)
	checklistGroup.Get("/responses/:id", middleware.JWTMiddleware, middleware.AdminOnly, checklistControllers.ResponseDetails)
	checklistGroup.Delete("/responses/:id", middleware.JWTMiddleware, middleware.AdminOnly, checklistControllers.DeleteResponse)
}
