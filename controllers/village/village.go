package village

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strconv"
	"strings"
	"time"

	"gramvartha/constants"
	"gramvartha/logger"
	"gramvartha/middleware"
	adminmodel "gramvartha/models/admin"
	villagemodel "gramvartha/models/village"
	"gramvartha/qr"
	"gramvartha/storage"
	"gramvartha/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type VillageController struct {
	db             *gorm.DB
	uploader       storage.Uploader
	loggerInstance *logger.AsyncLogger
	baseURL        string
}

func NewVillageController(db *gorm.DB, uploader storage.Uploader, loggerInstance *logger.AsyncLogger) *VillageController {
	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}
	return &VillageController{db: db, uploader: uploader, loggerInstance: loggerInstance, baseURL: baseURL}
}

// Register handles the multipart village registration form. It creates
// the requesting admin (pending) and the village (pending) in a single
// transaction so a crash can never leave a half-registered pair.
func (v *VillageController) Register(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	district := strings.TrimSpace(c.FormValue("district"))
	state := strings.TrimSpace(c.FormValue("state"))
	pincode := strings.TrimSpace(c.FormValue("pincode"))
	adminEmail := strings.TrimSpace(c.FormValue("adminEmail"))
	adminPassword := c.FormValue("adminPassword")

	if name == "" || district == "" || state == "" || pincode == "" || adminEmail == "" || adminPassword == "" {
		return badRequest(c, "Name, district, state, pincode, adminEmail and adminPassword are required")
	}
	if len(pincode) != 6 || !isDigits(pincode) {
		return badRequest(c, "Pincode must be a 6-digit number")
	}
	if _, err := mail.ParseAddress(adminEmail); err != nil {
		return badRequest(c, "Admin email is not valid")
	}
	if len(adminPassword) < 6 {
		return badRequest(c, "Admin password must be at least 6 characters")
	}

	latitude, err := strconv.ParseFloat(c.FormValue("latitude"), 64)
	if err != nil {
		return badRequest(c, "Latitude must be numeric")
	}
	longitude, err := strconv.ParseFloat(c.FormValue("longitude"), 64)
	if err != nil {
		return badRequest(c, "Longitude must be numeric")
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return badRequest(c, "Proof document is required")
	}

	// Duplicate checks before any write
	var existingVillage villagemodel.Village
	err = v.db.Where("name = ? AND district = ? AND state = ? AND pincode = ?",
		name, district, state, pincode).First(&existingVillage).Error
	if err == nil {
		return badRequest(c, "Village already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Error checking for existing village", err)
		return internalError(c, "Failed to register village")
	}

	var existingAdmin adminmodel.Admin
	err = v.db.Where("email = ?", adminEmail).First(&existingAdmin).Error
	if err == nil {
		return badRequest(c, "Admin email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Error checking for existing admin", err)
		return internalError(c, "Failed to register village")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Error opening uploaded document", err)
		return internalError(c, "Failed to read proof document")
	}
	defer file.Close()
	documentBytes, err := io.ReadAll(file)
	if err != nil {
		logger.Error("Error reading uploaded document", err)
		return internalError(c, "Failed to read proof document")
	}

	objectName := fmt.Sprintf("villages/documents/%s-%s", uuid.NewString(), fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	documentURL, err := v.uploader.Upload(c.Context(), objectName, contentType, documentBytes)
	if err != nil {
		logger.Error("Error uploading proof document", err)
		return internalError(c, "Failed to store proof document")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Error hashing admin password", err)
		return internalError(c, "Failed to register village")
	}

	newAdmin := adminmodel.Admin{
		Email:        adminEmail,
		PasswordHash: string(passwordHash),
		Role:         constants.RoleAdmin,
		Status:       constants.StatusPending,
	}
	newVillage := villagemodel.Village{
		Name:        name,
		District:    district,
		State:       state,
		Pincode:     pincode,
		Latitude:    latitude,
		Longitude:   longitude,
		Status:      constants.StatusPending,
		DocumentURL: documentURL,
		QRUniqueID:  uuid.NewString(),
	}

	if err := v.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newAdmin).Error; err != nil {
			return fmt.Errorf("create admin failed: %w", err)
		}
		newVillage.RequestedByID = &newAdmin.ID
		if err := tx.Create(&newVillage).Error; err != nil {
			return fmt.Errorf("create village failed: %w", err)
		}
		return nil
	}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A racing registration slipped past the pre-checks; the
			// violated index may be the village identity or the admin
			// email, so the message names both.
			return badRequest(c, "Village or admin email already exists")
		}
		logger.Error("Error registering village", err)
		return internalError(c, "Failed to register village")
	}

	logger.Success("Village registered: " + name + " (" + district + ", " + state + ")")

	response := types.ApiResponse{
		Message: "Village registered successfully and is pending approval",
		Status:  fiber.StatusCreated,
		Data: fiber.Map{
			"village":  newVillage,
			"admin_id": newAdmin.ID,
		},
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// Approve flips a pending village and its requesting admin to approved
// in one transaction. Superadmin only (enforced by route middleware).
func (v *VillageController) Approve(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid village ID")
	}

	authUser := middleware.CurrentUser(c)

	var vil villagemodel.Village
	if err := v.db.First(&vil, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Village not found")
		}
		logger.Error("Error fetching village", err)
		return internalError(c, "Failed to approve village")
	}

	if vil.Status == constants.StatusApproved {
		return badRequest(c, "Village is already approved")
	}

	now := time.Now()
	if err := v.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":            constants.StatusApproved,
			"assigned_admin_id": vil.RequestedByID,
			"approved_by_id":    authUser.ID,
			"approved_at":       &now,
			"updated_at":        now,
		}
		if err := tx.Model(&vil).Updates(updates).Error; err != nil {
			return fmt.Errorf("update village failed: %w", err)
		}
		if vil.RequestedByID != nil {
			adminUpdates := map[string]interface{}{
				"status":     constants.StatusApproved,
				"village_id": vil.ID,
				"updated_at": now,
			}
			if err := tx.Model(&adminmodel.Admin{}).Where("id = ?", *vil.RequestedByID).Updates(adminUpdates).Error; err != nil {
				return fmt.Errorf("update admin failed: %w", err)
			}
		}
		return nil
	}); err != nil {
		logger.Error("Error approving village", err)
		return internalError(c, "Failed to approve village")
	}

	if err := v.db.First(&vil, id).Error; err != nil {
		logger.Error("Error fetching updated village", err)
	}

	logger.Success("Village approved: " + vil.Name)

	response := types.ApiResponse{
		Message: "Village approved successfully",
		Status:  fiber.StatusOK,
		Data:    vil,
	}
	return c.JSON(response)
}

// Reject deletes the village and its linked pending admin. There is no
// stored rejected state for villages; rejection is irreversible.
func (v *VillageController) Reject(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid village ID")
	}

	var vil villagemodel.Village
	if err := v.db.First(&vil, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Village not found")
		}
		logger.Error("Error fetching village", err)
		return internalError(c, "Failed to reject village")
	}

	if err := v.db.Transaction(func(tx *gorm.DB) error {
		if vil.RequestedByID != nil {
			if err := tx.Where("id = ? AND status = ?", *vil.RequestedByID, constants.StatusPending).
				Delete(&adminmodel.Admin{}).Error; err != nil {
				return fmt.Errorf("delete pending admin failed: %w", err)
			}
		}
		if err := tx.Delete(&vil).Error; err != nil {
			return fmt.Errorf("delete village failed: %w", err)
		}
		return nil
	}); err != nil {
		logger.Error("Error rejecting village", err)
		return internalError(c, "Failed to reject village")
	}

	logger.Success("Village rejected and removed: " + vil.Name)

	response := types.ApiResponse{
		Message: "Village rejected successfully",
		Status:  fiber.StatusOK,
		Data:    nil,
	}
	return c.JSON(response)
}

// GenerateQRCode renders and uploads the village QR image on first
// request and returns the memoized URL afterwards.
func (v *VillageController) GenerateQRCode(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid village ID")
	}

	vil, httpErr := v.authorizeQRAccess(c, id)
	if httpErr != nil {
		return httpErr
	}

	if err := v.ensureQRImage(c, vil); err != nil {
		logger.Error("Error generating QR image", err)
		return internalError(c, "Failed to generate QR code")
	}

	response := types.ApiResponse{
		Message: "QR code ready",
		Status:  fiber.StatusOK,
		Data: fiber.Map{
			"unique_id":    vil.QRUniqueID,
			"image_url":    vil.QRImageURL,
			"generated_at": vil.QRGeneratedAt,
		},
	}
	return c.JSON(response)
}

// DownloadQRCode streams the PNG bitmap. The bitmap is re-rendered
// from the unique id, which is deterministic, so the bytes always
// match the stored image.
func (v *VillageController) DownloadQRCode(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid village ID")
	}

	vil, httpErr := v.authorizeQRAccess(c, id)
	if httpErr != nil {
		return httpErr
	}

	if err := v.ensureQRImage(c, vil); err != nil {
		logger.Error("Error generating QR image", err)
		return internalError(c, "Failed to generate QR code")
	}

	png, err := qr.RenderPNG(qr.ResolveURL(v.baseURL, vil.QRUniqueID))
	if err != nil {
		logger.Error("Error rendering QR image", err)
		return internalError(c, "Failed to render QR code")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="village-%d-qr.png"`, vil.ID))
	return c.Send(png)
}

// ResolveByQRCode is the public lookup behind a scanned code. Pending
// and unknown villages get the same 404 so existence never leaks.
func (v *VillageController) ResolveByQRCode(c *fiber.Ctx) error {
	qrCodeID := c.Params("qrCodeId")

	var vil villagemodel.Village
	err := v.db.Where("qr_unique_id = ?", qrCodeID).First(&vil).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Village not found")
		}
		logger.Error("Error resolving QR code", err)
		return internalError(c, "Failed to resolve QR code")
	}
	if vil.Status != constants.StatusApproved {
		return notFound(c, "Village not found")
	}

	response := types.ApiResponse{
		Message: "Village retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    vil.Public(),
	}
	return c.JSON(response)
}

// List returns villages with pagination. Superadmins see everything
// with an optional status filter; admins only their own village.
func (v *VillageController) List(c *fiber.Ctx) error {
	authUser := middleware.CurrentUser(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	query := v.db.Model(&villagemodel.Village{})
	switch authUser.Role {
	case constants.RoleSuperadmin:
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
	default:
		if authUser.VillageID == nil {
			return forbidden(c, "No village assigned")
		}
		query = query.Where("id = ?", *authUser.VillageID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Error counting villages", err)
		return internalError(c, "Failed to fetch villages")
	}

	offset := (page - 1) * pageSize
	var villages []villagemodel.Village
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&villages).Error; err != nil {
		logger.Error("Error fetching villages", err)
		return internalError(c, "Failed to fetch villages")
	}

	response := types.ApiResponse{
		Message: "Villages retrieved successfully",
		Status:  fiber.StatusOK,
		Data: map[string]interface{}{
			"villages":    villages,
			"total":       total,
			"page":        page,
			"page_size":   pageSize,
			"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		},
	}
	return c.JSON(response)
}

// Get returns a single village, scoped by caller role.
func (v *VillageController) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid village ID")
	}

	authUser := middleware.CurrentUser(c)
	if authUser.Role != constants.RoleSuperadmin {
		if authUser.VillageID == nil || *authUser.VillageID != uint(id) {
			return forbidden(c, "Access to this village is not allowed")
		}
	}

	var vil villagemodel.Village
	if err := v.db.First(&vil, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Village not found")
		}
		logger.Error("Error fetching village", err)
		return internalError(c, "Failed to fetch village")
	}

	response := types.ApiResponse{
		Message: "Village retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    vil,
	}
	return c.JSON(response)
}

// authorizeQRAccess loads the village and enforces the QR access rule:
// superadmin, or a caller whose village matches.
func (v *VillageController) authorizeQRAccess(c *fiber.Ctx, id uint64) (*villagemodel.Village, error) {
	authUser := middleware.CurrentUser(c)

	var vil villagemodel.Village
	if err := v.db.First(&vil, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(c, "Village not found")
		}
		logger.Error("Error fetching village", err)
		return nil, internalError(c, "Failed to fetch village")
	}

	if authUser.Role == constants.RoleSuperadmin {
		return &vil, nil
	}
	if authUser.VillageID != nil && *authUser.VillageID == vil.ID {
		return &vil, nil
	}
	return nil, forbidden(c, "Access to this village's QR code is not allowed")
}

// ensureQRImage fills the memoized QR image fields on first use. The
// fill is unlocked: concurrent first calls may both upload, which only
// wastes one duplicate upload since the bitmap is deterministic and
// last write wins.
func (v *VillageController) ensureQRImage(c *fiber.Ctx, vil *villagemodel.Village) error {
	if vil.QRImageURL != "" {
		return nil
	}

	png, err := qr.RenderPNG(qr.ResolveURL(v.baseURL, vil.QRUniqueID))
	if err != nil {
		return err
	}

	objectName := fmt.Sprintf("villages/qrcodes/%s.png", vil.QRUniqueID)
	imageURL, err := v.uploader.Upload(c.Context(), objectName, "image/png", png)
	if err != nil {
		return err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"qr_image_url":    imageURL,
		"qr_generated_at": &now,
		"updated_at":      now,
	}
	if err := v.db.Model(vil).Updates(updates).Error; err != nil {
		return err
	}
	vil.QRImageURL = imageURL
	vil.QRGeneratedAt = &now
	return nil
}

func parseID(c *fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("id"), 10, 32)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
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
