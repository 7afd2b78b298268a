package notice

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gramvartha/constants"
	"gramvartha/logger"
	"gramvartha/middleware"
	citizenmodel "gramvartha/models/citizen"
	noticemodel "gramvartha/models/notice"
	villagemodel "gramvartha/models/village"
	"gramvartha/storage"
	"gramvartha/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoticeController struct {
	db             *gorm.DB
	uploader       storage.Uploader
	loggerInstance *logger.AsyncLogger
}

func NewNoticeController(db *gorm.DB, uploader storage.Uploader, loggerInstance *logger.AsyncLogger) *NoticeController {
	return &NoticeController{db: db, uploader: uploader, loggerInstance: loggerInstance}
}

// Create publishes a notice in the caller's village. The village is
// always taken from the authenticated principal, never the request.
func (n *NoticeController) Create(c *fiber.Ctx) error {
	authUser := middleware.CurrentUser(c)
	if authUser.VillageID == nil {
		return badRequest(c, "Caller has no village to publish into")
	}

	title := strings.TrimSpace(c.FormValue("title"))
	description := strings.TrimSpace(c.FormValue("description"))
	category := strings.TrimSpace(c.FormValue("category"))
	priority := c.FormValue("priority", constants.PriorityMedium)
	isPinned := c.FormValue("is_pinned") == "true"

	if title == "" || description == "" || category == "" {
		return badRequest(c, "Title, description and category are required")
	}
	if !constants.IsValidPriority(priority) {
		return badRequest(c, "Priority must be one of low, medium, high")
	}

	newNotice := noticemodel.Notice{
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		IsPinned:    isPinned,
		Status:      constants.NoticePublished,
		CreatedByID: authUser.ID,
		CreatorRole: authUser.Role,
		VillageID:   *authUser.VillageID,
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			logger.Error("Error opening notice attachment", err)
			return internalError(c, "Failed to read attachment")
		}
		defer file.Close()
		fileBytes, err := io.ReadAll(file)
		if err != nil {
			logger.Error("Error reading notice attachment", err)
			return internalError(c, "Failed to read attachment")
		}

		objectName := fmt.Sprintf("notices/%s-%s", uuid.NewString(), fileHeader.Filename)
		fileURL, err := n.uploader.Upload(c.Context(), objectName, fileHeader.Header.Get("Content-Type"), fileBytes)
		if err != nil {
			logger.Error("Error uploading notice attachment", err)
			return internalError(c, "Failed to store attachment")
		}
		newNotice.FileURL = fileURL
		newNotice.FileName = fileHeader.Filename
	}

	if err := n.db.Create(&newNotice).Error; err != nil {
		logger.Error("Error creating notice", err)
		return internalError(c, "Failed to create notice")
	}

	response := types.ApiResponse{
		Message: "Notice created successfully",
		Status:  fiber.StatusCreated,
		Data:    newNotice,
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// Update modifies a notice. Only the creator, within the same village,
// may update.
func (n *NoticeController) Update(c *fiber.Ctx) error {
	target, httpErr := n.loadOwnedNotice(c)
	if httpErr != nil {
		return httpErr
	}

	var req types.NoticeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing notice update request", err)
		return badRequest(c, "Invalid request body")
	}

	if req.Priority != nil && !constants.IsValidPriority(*req.Priority) {
		return badRequest(c, "Priority must be one of low, medium, high")
	}
	if req.Status != nil && !constants.IsValidNoticeStatus(*req.Status) {
		return badRequest(c, "Status must be one of published, archived")
	}

	if req.Title != nil {
		target.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		target.Description = *req.Description
	}
	if req.Category != nil {
		target.Category = *req.Category
	}
	if req.Priority != nil {
		target.Priority = *req.Priority
	}
	if req.IsPinned != nil {
		target.IsPinned = *req.IsPinned
	}
	if req.Status != nil {
		target.Status = *req.Status
	}

	if target.Title == "" || target.Description == "" || target.Category == "" {
		return badRequest(c, "Title, description and category cannot be empty")
	}

	// Write only the mutable columns. A full-row save would clobber a
	// concurrent views increment with the stale counter read above.
	updates := map[string]interface{}{
		"title":       target.Title,
		"description": target.Description,
		"category":    target.Category,
		"priority":    target.Priority,
		"is_pinned":   target.IsPinned,
		"status":      target.Status,
		"updated_at":  time.Now(),
	}
	if err := n.db.Model(target).Updates(updates).Error; err != nil {
		logger.Error("Error updating notice", err)
		return internalError(c, "Failed to update notice")
	}

	response := types.ApiResponse{
		Message: "Notice updated successfully",
		Status:  fiber.StatusOK,
		Data:    target,
	}
	return c.JSON(response)
}

// Delete removes a notice. Same creator/village guard as Update.
func (n *NoticeController) Delete(c *fiber.Ctx) error {
	target, httpErr := n.loadOwnedNotice(c)
	if httpErr != nil {
		return httpErr
	}

	if err := n.db.Delete(target).Error; err != nil {
		logger.Error("Error deleting notice", err)
		return internalError(c, "Failed to delete notice")
	}

	response := types.ApiResponse{
		Message: "Notice deleted successfully",
		Status:  fiber.StatusOK,
		Data:    nil,
	}
	return c.JSON(response)
}

// List returns published notices for authenticated callers. Admins and
// officials are scoped to their own village. Citizens see all
// published notices; their ward is echoed back for client display but
// intentionally not applied as a filter.
func (n *NoticeController) List(c *fiber.Ctx) error {
	authUser := middleware.CurrentUser(c)

	query := n.db.Model(&noticemodel.Notice{}).Where("status = ?", constants.NoticePublished)

	switch authUser.Role {
	case constants.RoleAdmin, constants.RoleOfficial:
		if authUser.VillageID == nil {
			return forbidden(c, "No village assigned")
		}
		query = query.Where("village_id = ?", *authUser.VillageID)
	}

	query = applyNoticeFilters(c, query)

	var fromErr, toErr error
	if from := c.Query("from"); from != "" {
		var t time.Time
		t, fromErr = time.Parse("2006-01-02", from)
		if fromErr == nil {
			query = query.Where("created_at >= ?", now.With(t).BeginningOfDay())
		}
	}
	if to := c.Query("to"); to != "" {
		var t time.Time
		t, toErr = time.Parse("2006-01-02", to)
		if toErr == nil {
			query = query.Where("created_at <= ?", now.With(t).EndOfDay())
		}
	}
	if fromErr != nil || toErr != nil {
		return badRequest(c, "Date filters must be in YYYY-MM-DD format")
	}

	page, pageSize := pagination(c)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Error counting notices", err)
		return internalError(c, "Failed to fetch notices")
	}

	var notices []noticemodel.Notice
	if err := query.Order("is_pinned DESC, created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&notices).Error; err != nil {
		logger.Error("Error fetching notices", err)
		return internalError(c, "Failed to fetch notices")
	}

	data := map[string]interface{}{
		"notices":     notices,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	}

	if authUser.Role == constants.RoleCitizen {
		var row citizenmodel.Citizen
		if err := n.db.First(&row, authUser.ID).Error; err == nil {
			data["ward"] = row.WardNumber
		}
	}

	response := types.ApiResponse{
		Message: "Notices retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    data,
	}
	return c.JSON(response)
}

// ListByVillage is the public, QR-driven notice feed. Only approved
// villages are visible; pending ones 404 like unknown ones.
func (n *NoticeController) ListByVillage(c *fiber.Ctx) error {
	villageID, err := strconv.ParseUint(c.Params("villageId"), 10, 32)
	if err != nil {
		return badRequest(c, "Invalid village ID")
	}

	var vil villagemodel.Village
	if err := n.db.First(&vil, villageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Village not found")
		}
		logger.Error("Error fetching village", err)
		return internalError(c, "Failed to fetch notices")
	}
	if vil.Status != constants.StatusApproved {
		return notFound(c, "Village not found")
	}

	query := n.db.Model(&noticemodel.Notice{}).
		Where("village_id = ? AND status = ?", vil.ID, constants.NoticePublished)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	page, pageSize := pagination(c)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Error counting village notices", err)
		return internalError(c, "Failed to fetch notices")
	}

	var notices []noticemodel.Notice
	if err := query.Order("is_pinned DESC, created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&notices).Error; err != nil {
		logger.Error("Error fetching village notices", err)
		return internalError(c, "Failed to fetch notices")
	}

	response := types.ApiResponse{
		Message: "Notices retrieved successfully",
		Status:  fiber.StatusOK,
		Data: map[string]interface{}{
			"village":     vil.Public(),
			"notices":     notices,
			"total":       total,
			"page":        page,
			"page_size":   pageSize,
			"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		},
	}
	return c.JSON(response)
}

// TrackView counts a visitor's first view of a notice. The insert uses
// ON CONFLICT DO NOTHING against the (notice_id, visitor_id) unique
// index; RowsAffected tells first view from repeat, so racing
// duplicates collapse into "already viewed" instead of erroring.
func (n *NoticeController) TrackView(c *fiber.Ctx) error {
	noticeID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return badRequest(c, "Invalid notice ID")
	}

	var req types.TrackViewRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing track view request", err)
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.VisitorID) == "" {
		return badRequest(c, "visitorId is required")
	}

	var target noticemodel.Notice
	if err := n.db.First(&target, noticeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Notice not found")
		}
		logger.Error("Error fetching notice", err)
		return internalError(c, "Failed to track view")
	}

	view := noticemodel.NoticeView{
		NoticeID:  target.ID,
		VisitorID: req.VisitorID,
		UserAgent: c.Get(fiber.HeaderUserAgent),
		IPAddress: c.IP(),
	}

	res := n.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "notice_id"}, {Name: "visitor_id"}},
		DoNothing: true,
	}).Create(&view)
	if res.Error != nil {
		logger.Error("Error recording notice view", res.Error)
		return internalError(c, "Failed to track view")
	}

	firstView := res.RowsAffected == 1
	if firstView {
		if err := n.db.Model(&noticemodel.Notice{}).Where("id = ?", target.ID).
			UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
			logger.Error("Error incrementing view counter", err)
			return internalError(c, "Failed to track view")
		}
	}

	if err := n.db.First(&target, target.ID).Error; err != nil {
		logger.Error("Error fetching updated notice", err)
		return internalError(c, "Failed to track view")
	}

	data := fiber.Map{"views": target.Views}
	message := "View recorded"
	if firstView {
		data["firstView"] = true
	} else {
		data["alreadyViewed"] = true
		message = "Already viewed"
	}

	response := types.ApiResponse{
		Message: message,
		Status:  fiber.StatusOK,
		Data:    data,
	}
	return c.JSON(response)
}

// ListPopular returns published notices sorted by view count, then
// recency.
func (n *NoticeController) ListPopular(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	var notices []noticemodel.Notice
	if err := n.db.Where("status = ?", constants.NoticePublished).
		Order("views DESC, created_at DESC").Limit(limit).
		Find(&notices).Error; err != nil {
		logger.Error("Error fetching popular notices", err)
		return internalError(c, "Failed to fetch popular notices")
	}

	response := types.ApiResponse{
		Message: "Popular notices retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    notices,
	}
	return c.JSON(response)
}

// loadOwnedNotice fetches the notice and verifies the caller created
// it and still belongs to its village.
func (n *NoticeController) loadOwnedNotice(c *fiber.Ctx) (*noticemodel.Notice, error) {
	noticeID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, badRequest(c, "Invalid notice ID")
	}

	authUser := middleware.CurrentUser(c)

	var target noticemodel.Notice
	if err := n.db.First(&target, noticeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(c, "Notice not found")
		}
		logger.Error("Error fetching notice", err)
		return nil, internalError(c, "Failed to fetch notice")
	}

	if target.CreatedByID != authUser.ID || target.CreatorRole != authUser.Role {
		return nil, forbidden(c, "Only the creator can modify this notice")
	}
	if authUser.VillageID == nil || target.VillageID != *authUser.VillageID {
		return nil, forbidden(c, "Notice belongs to a different village")
	}

	return &target, nil
}

func applyNoticeFilters(c *fiber.Ctx, query *gorm.DB) *gorm.DB {
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if pinned := c.Query("pinned"); pinned != "" {
		query = query.Where("is_pinned = ?", pinned == "true")
	}
	return query
}

func pagination(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
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
