package official

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"gramvartha/constants"
	"gramvartha/logger"
	"gramvartha/middleware"
	officialmodel "gramvartha/models/official"
	villagemodel "gramvartha/models/village"
	"gramvartha/storage"
	"gramvartha/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type OfficialController struct {
	db             *gorm.DB
	uploader       storage.Uploader
	loggerInstance *logger.AsyncLogger
}

func NewOfficialController(db *gorm.DB, uploader storage.Uploader, loggerInstance *logger.AsyncLogger) *OfficialController {
	return &OfficialController{db: db, uploader: uploader, loggerInstance: loggerInstance}
}

// Register creates a pending official tied to an approved village.
// The village admin (or superadmin) later approves or rejects.
func (o *OfficialController) Register(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")
	phone := strings.TrimSpace(c.FormValue("phone"))
	villageIDStr := c.FormValue("village_id")

	if name == "" || email == "" || password == "" || villageIDStr == "" {
		return badRequest(c, "Name, email, password and village_id are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return badRequest(c, "Email is not valid")
	}
	if len(password) < 6 {
		return badRequest(c, "Password must be at least 6 characters")
	}
	villageID, err := strconv.ParseUint(villageIDStr, 10, 32)
	if err != nil {
		return badRequest(c, "village_id must be numeric")
	}

	var vil villagemodel.Village
	if err := o.db.First(&vil, villageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Village not found")
		}
		logger.Error("Error fetching village", err)
		return internalError(c, "Failed to register official")
	}
	if vil.Status != constants.StatusApproved {
		return badRequest(c, "Village is not approved yet")
	}

	var existing officialmodel.Official
	err = o.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return badRequest(c, "Email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Error checking for existing official", err)
		return internalError(c, "Failed to register official")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Error hashing official password", err)
		return internalError(c, "Failed to register official")
	}

	newOfficial := officialmodel.Official{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Phone:        phone,
		Status:       constants.StatusPending,
		VillageID:    vil.ID,
	}

	if fileHeader, err := c.FormFile("profileImage"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			logger.Error("Error opening profile image", err)
			return internalError(c, "Failed to read profile image")
		}
		defer file.Close()
		imageBytes, err := io.ReadAll(file)
		if err != nil {
			logger.Error("Error reading profile image", err)
			return internalError(c, "Failed to read profile image")
		}

		objectName := fmt.Sprintf("officials/profiles/%s-%s", uuid.NewString(), fileHeader.Filename)
		imageURL, err := o.uploader.Upload(c.Context(), objectName, fileHeader.Header.Get("Content-Type"), imageBytes)
		if err != nil {
			logger.Error("Error uploading profile image", err)
			return internalError(c, "Failed to store profile image")
		}
		newOfficial.ProfileImageURL = imageURL
	}

	if err := o.db.Create(&newOfficial).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return badRequest(c, "Email already exists")
		}
		logger.Error("Error creating official", err)
		return internalError(c, "Failed to register official")
	}

	logger.Success("Official registered: " + email)

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "Official registered successfully and is pending approval",
		Status:  fiber.StatusCreated,
		Data:    newOfficial,
	})
}

// Approve moves a pending official to approved. Allowed for the
// superadmin or the admin of the official's village.
func (o *OfficialController) Approve(c *fiber.Ctx) error {
	return o.setStatus(c, constants.StatusApproved, "Official approved successfully")
}

// Reject marks a pending official rejected. Rejected officials are
// kept as terminal rows and cannot log in.
func (o *OfficialController) Reject(c *fiber.Ctx) error {
	return o.setStatus(c, constants.StatusRejected, "Official rejected successfully")
}

func (o *OfficialController) setStatus(c *fiber.Ctx, status, message string) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return badRequest(c, "Invalid official ID")
	}

	var row officialmodel.Official
	if err := o.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Official not found")
		}
		logger.Error("Error fetching official", err)
		return internalError(c, "Failed to update official")
	}

	authUser := middleware.CurrentUser(c)
	if authUser.Role != constants.RoleSuperadmin {
		if authUser.VillageID == nil || *authUser.VillageID != row.VillageID {
			return forbidden(c, "Official belongs to a different village")
		}
	}

	if row.Status == status {
		return badRequest(c, "Official is already "+status)
	}
	if row.Status == constants.StatusRejected {
		return badRequest(c, "Rejected officials cannot change status")
	}

	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if err := o.db.Model(&row).Updates(updates).Error; err != nil {
		logger.Error("Error updating official status", err)
		return internalError(c, "Failed to update official")
	}

	return c.JSON(types.ApiResponse{
		Message: message,
		Status:  fiber.StatusOK,
		Data:    row,
	})
}

// List returns officials, scoped to the caller's village unless the
// caller is the superadmin.
func (o *OfficialController) List(c *fiber.Ctx) error {
	authUser := middleware.CurrentUser(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	query := o.db.Model(&officialmodel.Official{})
	if authUser.Role != constants.RoleSuperadmin {
		if authUser.VillageID == nil {
			return forbidden(c, "No village assigned")
		}
		query = query.Where("village_id = ?", *authUser.VillageID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Error counting officials", err)
		return internalError(c, "Failed to fetch officials")
	}

	var officials []officialmodel.Official
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&officials).Error; err != nil {
		logger.Error("Error fetching officials", err)
		return internalError(c, "Failed to fetch officials")
	}

	return c.JSON(types.ApiResponse{
		Message: "Officials retrieved successfully",
		Status:  fiber.StatusOK,
		Data: map[string]interface{}{
			"officials":   officials,
			"total":       total,
			"page":        page,
			"page_size":   pageSize,
			"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
		Message: message,
		Status:  fiber.StatusBadRequest,
		Data:    nil,
	})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
		Message: message,
		Status:  fiber.StatusNotFound,
		Data:    nil,
	})
}

func forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
		Message: message,
		Status:  fiber.StatusForbidden,
		Data:    nil,
	})
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
		Message: message,
		Status:  fiber.StatusInternalServerError,
		Data:    nil,
	})
}
