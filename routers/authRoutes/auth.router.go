package authRoutes

import (
	authControllers "vportal/controllers/auth"
	"vportal/middleware"
	authValidators "vportal/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidators.Register(), authControllers.Register)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/profile", middleware.JWTMiddleware, authControllers.Profile)

	authGroup.Post("/access-request", authValidators.AccessRequest(), authControllers.SubmitAccessRequest)
	authGroup.Get("/access-requests", middleware.JWTMiddleware, middleware.AdminOnly, authControllers.ListAccessRequests)
	authGroup.Patch("/access-requests/:id", middleware.JWTMiddleware, middleware.AdminOnly, authControllers.UpdateAccessRequestStatus)
}
