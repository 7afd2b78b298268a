package citizen

import (
	"errors"
	"time"

	"gramvartha/logger"
	"gramvartha/middleware"
	citizenmodel "gramvartha/models/citizen"
	"gramvartha/types"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CitizenController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
}

func NewCitizenController(db *gorm.DB, loggerInstance *logger.AsyncLogger) *CitizenController {
	return &CitizenController{db: db, loggerInstance: loggerInstance}
}

// Register creates a citizen account. Citizens are active immediately;
// there is no approval step for readers.
func (ct *CitizenController) Register(c *fiber.Ctx) error {
	var req types.CitizenRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing citizen register request", err)
		return badRequest(c, "Invalid request body")
	}
	if v := req.Validate(); v != "" {
		return badRequest(c, v)
	}

	var existing citizenmodel.Citizen
	err := ct.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return badRequest(c, "Email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Error checking for existing citizen", err)
		return internalError(c, "Failed to register citizen")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Error hashing citizen password", err)
		return internalError(c, "Failed to register citizen")
	}

	newCitizen := citizenmodel.Citizen{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Phone:        req.Phone,
		Gender:       req.Gender,
		WardNumber:   req.WardNumber,
		HouseNumber:  req.HouseNumber,
		Street:       req.Street,
		VillageName:  req.Village,
		Pincode:      req.Pincode,
	}
	if req.DOB != "" {
		dob, _ := time.Parse("2006-01-02", req.DOB)
		newCitizen.DOB = &dob
	}

	if err := ct.db.Create(&newCitizen).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return badRequest(c, "Email already exists")
		}
		logger.Error("Error creating citizen", err)
		return internalError(c, "Failed to register citizen")
	}

	logger.Success("Citizen registered: " + req.Email)

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "Citizen registered successfully",
		Status:  fiber.StatusCreated,
		Data:    newCitizen,
	})
}

// Profile returns the caller's citizen record.
func (ct *CitizenController) Profile(c *fiber.Ctx) error {
	authUser := middleware.CurrentUser(c)

	var row citizenmodel.Citizen
	if err := ct.db.First(&row, authUser.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Citizen not found")
		}
		logger.Error("Error fetching citizen", err)
		return internalError(c, "Failed to fetch profile")
	}

	return c.JSON(types.ApiResponse{
		Message: "Profile retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    row,
	})
}

// UpdateProfile applies the non-nil fields of the update request.
func (ct *CitizenController) UpdateProfile(c *fiber.Ctx) error {
	authUser := middleware.CurrentUser(c)

	var req types.CitizenUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing citizen update request", err)
		return badRequest(c, "Invalid request body")
	}

	var row citizenmodel.Citizen
	if err := ct.db.First(&row, authUser.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Citizen not found")
		}
		logger.Error("Error fetching citizen", err)
		return internalError(c, "Failed to update profile")
	}

	if req.Name != nil {
		row.Name = *req.Name
	}
	if req.Phone != nil {
		row.Phone = *req.Phone
	}
	if req.Avatar != nil {
		row.Avatar = *req.Avatar
	}
	if req.Gender != nil {
		row.Gender = *req.Gender
	}
	if req.WardNumber != nil {
		row.WardNumber = *req.WardNumber
	}
	if req.HouseNumber != nil {
		row.HouseNumber = *req.HouseNumber
	}
	if req.Street != nil {
		row.Street = *req.Street
	}
	if req.Village != nil {
		row.VillageName = *req.Village
	}
	if req.Pincode != nil {
		row.Pincode = *req.Pincode
	}

	if err := ct.db.Save(&row).Error; err != nil {
		logger.Error("Error updating citizen profile", err)
		return internalError(c, "Failed to update profile")
	}

	return c.JSON(types.ApiResponse{
		Message: "Profile updated successfully",
		Status:  fiber.StatusOK,
		Data:    row,
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

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
		Message: message,
		Status:  fiber.StatusInternalServerError,
		Data:    nil,
	})
}
