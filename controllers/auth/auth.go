package authController

import (
	"log"
	"strconv"
	"time"

	"vportal/config"
	"vportal/database"
	"vportal/middleware"
	"vportal/models"
	"vportal/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// maxFailedLogins is how many bad passwords in a row block the account
const maxFailedLogins = 5

// Register creates a portal account. Partner accounts are normally created
// after an approved access request; the role defaults to PARTNER.
func Register(c *fiber.Ctx) error {
	reqData := new(struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Company  string `json:"company"`
		Country  string `json:"country"`
		Role     string `json:"role"`
	})

	// Parse Request Body
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	role := reqData.Role
	if role == "" {
		role = models.RolePartner
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Company:  reqData.Company,
		Country:  reqData.Country,
		Role:     role,
		Password: string(hashedPassword),
	}

	// Create User
	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	// Clean Response
	newUser.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData := new(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	var user models.User
	result := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if user.IsBlocked {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Account is blocked. Please contact support!", nil)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		now := time.Now()
		user.FailedLoginAttempts++
		user.LastFailedLogin = &now
		if user.FailedLoginAttempts >= maxFailedLogins {
			user.IsBlocked = true
		}
		database.Database.Db.Save(&user)

		if user.IsBlocked {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Account blocked after too many failed attempts!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Reset failed attempts on successful login
	user.FailedLoginAttempts = 0
	user.LastFailedLogin = nil
	user.LastLogin = time.Now()
	database.Database.Db.Save(&user)

	token, err := middleware.GenerateJWT(
		strconv.FormatUint(uint64(user.ID), 10), user.Name, user.Role, user.Email, user.Company, user.Country)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to login!", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Profile returns the authenticated user's account record
func Profile(c *fiber.Ctx) error {
	email, ok := c.Locals("email").(string)
	if !ok || email == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User identity not found", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", user)
}

// SubmitAccessRequest records a visitor's request for portal access
func SubmitAccessRequest(c *fiber.Ctx) error {
	reqData := new(struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Company string `json:"company"`
		Country string `json:"country"`
		Message string `json:"message"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	// One open request per email
	var existing models.AccessRequest
	err := database.Database.Db.
		Where("email = ? AND status = ?", reqData.Email, models.AccessStatusPending).
		First(&existing).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "An access request for this email is already pending!", nil)
	}

	request := models.AccessRequest{
		Name:    reqData.Name,
		Email:   reqData.Email,
		Company: reqData.Company,
		Country: reqData.Country,
		Message: reqData.Message,
		Status:  models.AccessStatusPending,
	}
	if err := database.Database.Db.Create(&request).Error; err != nil {
		log.Printf("Error saving access request: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit access request!", nil)
	}

	utils.SendAccessRequestReceivedEmail(request.Email, request.Name)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Access request submitted successfully.", request)
}

// ListAccessRequests returns all access requests for the admin view
func ListAccessRequests(c *fiber.Ctx) error {
	var requests []models.AccessRequest
	if err := database.Database.Db.Order("created_at DESC").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch access requests!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access requests fetched successfully.", requests)
}

// UpdateAccessRequestStatus moves an access request between review states
func UpdateAccessRequestStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid access request id!", nil)
	}

	reqData := new(struct {
		Status string `json:"status"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	switch reqData.Status {
	case models.AccessStatusApproved, models.AccessStatusRejected, models.AccessStatusCompleted:
	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status value!", nil)
	}

	var request models.AccessRequest
	if err := database.Database.Db.First(&request, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Access request not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	request.Status = reqData.Status
	if err := database.Database.Db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update access request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access request updated successfully.", request)
}
