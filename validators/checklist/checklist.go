package checklistValidator

import (
	"vportal/middleware"
	"vportal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// AnswerPayload is one question's answer inside a checklist submission
type AnswerPayload struct {
	QuestionID uint   `json:"questionId" validate:"required"`
	Answer     string `json:"answer" validate:"required,oneof=Yes No N/A"`
	Remarks    string `json:"remarks"`
}

// SubmitPayload is a full checklist submission
type SubmitPayload struct {
	Email    string          `json:"email" validate:"required,email"`
	Language string          `json:"language" validate:"required,oneof=en id"`
	Answers  []AnswerPayload `json:"answers" validate:"required,min=1,dive"`
}

// SubmitResponse validates a checklist submission
func SubmitResponse() fiber.Handler {
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
					errors[fieldErr.Field()] = "Invalid value!"
				case "min":
					errors[fieldErr.Field()] = "At least one answer is required!"
				default:
					errors[fieldErr.Field()] = "Invalid value!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChecklist", reqData)
		return c.Next()
	}
}

// QuestionList validates the language filter, defaulting to English
func QuestionList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		language := c.Query("language", models.LanguageEN)
		if language != models.LanguageEN && language != models.LanguageID {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"language": "Language must be en or id!",
			})
		}

		c.Locals("validatedLanguage", language)
		return c.Next()
	}
}

// PaginationPayload carries optional page/limit query values
type PaginationPayload struct {
	Page  *int `query:"page"`
	Limit *int `query:"limit"`
}

// ResponseList validates pagination for the admin response listing
func ResponseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PaginationPayload)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Page
		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		// Validate Limit
		if reqData.Limit != nil && *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPagination", reqData)
		return c.Next()
	}
}
