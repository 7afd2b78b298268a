package auth

import (
	"errors"
	"time"

	"gramvartha/constants"
	"gramvartha/logger"
	"gramvartha/middleware"
	adminmodel "gramvartha/models/admin"
	citizenmodel "gramvartha/models/citizen"
	officialmodel "gramvartha/models/official"
	"gramvartha/types"
	"gramvartha/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
}

func NewAuthController(db *gorm.DB, loggerInstance *logger.AsyncLogger) *AuthController {
	return &AuthController{db: db, loggerInstance: loggerInstance}
}

// Login authenticates a principal against the table selected by the
// request role and sets the session cookie. Pending admins and
// pending/rejected officials are refused before any token is issued.
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req types.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing login request", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
			Data:    nil,
		})
	}
	if v := req.Validate(); v != "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: v,
			Status:  fiber.StatusBadRequest,
			Data:    nil,
		})
	}

	var (
		kind      string
		principal interface{}
	)

	switch req.Role {
	case constants.RoleAdmin, constants.RoleSuperadmin:
		var row adminmodel.Admin
		if err := h.db.Where("email = ?", req.Email).First(&row).Error; err != nil {
			return h.invalidCredentials(c, err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(req.Password)); err != nil {
			return h.invalidCredentials(c, nil)
		}
		if row.Role != constants.RoleSuperadmin && row.Status != constants.StatusApproved {
			return h.notApproved(c, "Admin account is pending approval")
		}
		kind = utils.KindAdmin
		principal = row

		token, err := utils.IssueToken(row.ID, row.Email, kind)
		if err != nil {
			logger.Error("Error issuing token", err)
			return h.loginFailed(c)
		}
		utils.SetAuthCookie(c, token)

	case constants.RoleOfficial:
		var row officialmodel.Official
		if err := h.db.Where("email = ?", req.Email).First(&row).Error; err != nil {
			return h.invalidCredentials(c, err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(req.Password)); err != nil {
			return h.invalidCredentials(c, nil)
		}
		switch row.Status {
		case constants.StatusPending:
			return h.notApproved(c, "Official account is pending approval")
		case constants.StatusRejected:
			return h.notApproved(c, "Official account has been rejected")
		}
		kind = utils.KindOfficial
		principal = row

		token, err := utils.IssueToken(row.ID, row.Email, kind)
		if err != nil {
			logger.Error("Error issuing token", err)
			return h.loginFailed(c)
		}
		utils.SetAuthCookie(c, token)

	case constants.RoleCitizen:
		var row citizenmodel.Citizen
		if err := h.db.Where("email = ?", req.Email).First(&row).Error; err != nil {
			return h.invalidCredentials(c, err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(req.Password)); err != nil {
			return h.invalidCredentials(c, nil)
		}
		nowTime := time.Now()
		if err := h.db.Model(&row).UpdateColumn("last_login", nowTime).Error; err != nil {
			logger.Error("Error stamping last login", err)
		}
		row.LastLogin = &nowTime
		kind = utils.KindCitizen
		principal = row

		token, err := utils.IssueToken(row.ID, row.Email, kind)
		if err != nil {
			logger.Error("Error issuing token", err)
			return h.loginFailed(c)
		}
		utils.SetAuthCookie(c, token)
	}

	h.loggerInstance.Log(types.LogEntry{
		Method:     c.Method(),
		URL:        c.OriginalURL(),
		StatusCode: fiber.StatusOK,
		CreatedAt:  time.Now(),
	})

	logger.Success("Login: " + req.Email + " (" + req.Role + ")")

	return c.JSON(types.ApiResponse{
		Message: "Logged in successfully",
		Status:  fiber.StatusOK,
		Data:    principal,
	})
}

// Logout clears the session cookie. Tokens cannot be revoked before
// expiry; clearing the cookie is all that logout does.
func (h *AuthController) Logout(c *fiber.Ctx) error {
	utils.ClearAuthCookie(c)
	return c.JSON(types.ApiResponse{
		Message: "Logged out successfully",
		Status:  fiber.StatusOK,
		Data:    nil,
	})
}

// Me returns the authenticated principal attached by the middleware.
func (h *AuthController) Me(c *fiber.Ctx) error {
	authUser := middleware.CurrentUser(c)
	return c.JSON(types.ApiResponse{
		Message: "Profile retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    authUser,
	})
}

func (h *AuthController) invalidCredentials(c *fiber.Ctx, err error) error {
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Error looking up principal", err)
		return h.loginFailed(c)
	}
	return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
		Message: "Invalid credentials",
		Status:  fiber.StatusUnauthorized,
		Data:    nil,
	})
}

func (h *AuthController) notApproved(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
		Message: message,
		Status:  fiber.StatusForbidden,
		Data:    nil,
	})
}

func (h *AuthController) loginFailed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
		Message: "Failed to log in",
		Status:  fiber.StatusInternalServerError,
		Data:    nil,
	})
}
