package checklistController

import (
	"log"

	"vportal/database"
	"vportal/middleware"
	"vportal/models"
	checklistValidator "vportal/validators/checklist"

	"github.com/gofiber/fiber/v2"
)

// ListQuestions returns the assessment checklist for one language, in
// sequence order
func ListQuestions(c *fiber.Ctx) error {
	language, _ := c.Locals("validatedLanguage").(string)
	if language == "" {
		language = models.LanguageEN
	}

	var questions []models.Question
	err := database.Database.Db.
		Where("language = ?", language).
		Order("sequence_order ASC, id ASC").
		Find(&questions).Error
	if err != nil {
		log.Printf("Error fetching checklist questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully.", questions)
}

// SubmitResponse stores a completed checklist. The response row and its
// answers commit together or not at all.
func SubmitResponse(c *fiber.Ctx) error {
	payload, ok := c.Locals("validatedChecklist").(*checklistValidator.SubmitPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	response := models.UserResponse{
		Email:    payload.Email,
		Language: payload.Language,
	}
	if err := tx.Create(&response).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving checklist response: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save response!", nil)
	}

	answers := make([]models.Answer, 0, len(payload.Answers))
	for _, a := range payload.Answers {
		answers = append(answers, models.Answer{
			QuestionID: a.QuestionID,
			ResponseID: response.ID,
			AnswerText: a.Answer,
			Remarks:    a.Remarks,
		})
	}
	if err := tx.Create(&answers).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving checklist answers: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save answers!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save response!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Checklist submitted successfully.", fiber.Map{
		"responseId": response.ID,
	})
}

// ListResponses returns checklist submissions for the admin view, newest
// first, paginated
func ListResponses(c *fiber.Ctx) error {
	page := 1
	limit := 10
	if p, ok := c.Locals("validatedPagination").(*checklistValidator.PaginationPayload); ok {
		if p.Page != nil {
			page = *p.Page
		}
		if p.Limit != nil {
			limit = *p.Limit
		}
	}

	var total int64
	if err := database.Database.Db.Model(&models.UserResponse{}).Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch responses!", nil)
	}

	var responses []models.UserResponse
	err := database.Database.Db.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&responses).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch responses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Responses fetched successfully.", fiber.Map{
		"responses": responses,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// answerDetail is one answered question in a response detail view
type answerDetail struct {
	QuestionID uint   `json:"questionId"`
	Area       string `json:"area"`
	Activity   string `json:"activity"`
	Criteria   string `json:"criteria"`
	Answer     string `json:"answer"`
	Remarks    string `json:"remarks"`
}

// ResponseDetails returns one submission with its answers joined to the
// question text
func ResponseDetails(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid response id!", nil)
	}

	var response models.UserResponse
	if err := database.Database.Db.First(&response, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Response not found!", nil)
	}

	var details []answerDetail
	err = database.Database.Db.
		Table("answers").
		Select("answers.question_id, questions.area, questions.activity, questions.criteria, answers.answer_text AS answer, answers.remarks").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("answers.response_id = ?", response.ID).
		Order("questions.sequence_order ASC").
		Scan(&details).Error
	if err != nil {
		log.Printf("Error fetching response details: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch response details!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Response details fetched successfully.", fiber.Map{
		"response": response,
		"answers":  details,
	})
}

// DeleteResponse removes a submission and its answers
func DeleteResponse(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid response id!", nil)
	}

	var response models.UserResponse
	if err := database.Database.Db.First(&response, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Response not found!", nil)
	}

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := tx.Where("response_id = ?", response.ID).Delete(&models.Answer{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete response!", nil)
	}
	if err := tx.Delete(&response).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete response!", nil)
	}
	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete response!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Response deleted successfully.", nil)
}
