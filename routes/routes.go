package routes

import (
	"gramvartha/constants"
	"gramvartha/controllers/auth"
	"gramvartha/controllers/citizen"
	"gramvartha/controllers/notice"
	"gramvartha/controllers/official"
	"gramvartha/controllers/village"
	"gramvartha/logger"
	"gramvartha/middleware"
	"gramvartha/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, uploader storage.Uploader) {
	asyncLogger := logger.NewAsyncLogger(db)
	authController := auth.NewAuthController(db, asyncLogger)
	villageController := village.NewVillageController(db, uploader, asyncLogger)
	noticeController := notice.NewNoticeController(db, uploader, asyncLogger)
	officialController := official.NewOfficialController(db, uploader, asyncLogger)
	citizenController := citizen.NewCitizenController(db, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	app.Post("/auth/login", authController.Login)
	app.Post("/auth/logout", authController.Logout)
	app.Get("/auth/me", middleware.RequireAuth(db), authController.Me)

	app.Post("/villages/register", villageController.Register)
	app.Get("/villages/qr/:qrCodeId", villageController.ResolveByQRCode)

	app.Post("/citizen/register", citizenController.Register)
	app.Post("/officials/register", officialController.Register)

	app.Get("/notice/village/:villageId", noticeController.ListByVillage)
	app.Get("/notice/popular", noticeController.ListPopular)
	app.Post("/notice/:id/view", noticeController.TrackView)

	/*=============================================================================
	| Village administration
	===============================================================================*/
	villages := app.Group("/villages", middleware.RequireAuth(db))

	villages.Get("/", middleware.RequireRoles(
		constants.RoleSuperadmin,
		constants.RoleAdmin,
	), villageController.List)

	villages.Put("/approve/:id", middleware.RequireRoles(
		constants.RoleSuperadmin,
	), villageController.Approve)

	villages.Put("/reject/:id", middleware.RequireRoles(
		constants.RoleSuperadmin,
	), villageController.Reject)

	villages.Post("/:id/qrcode/generate", villageController.GenerateQRCode)
	villages.Get("/:id/qrcode/download", villageController.DownloadQRCode)
	villages.Get("/:id", villageController.Get)

	/*=============================================================================
	| Notice routes
	===============================================================================*/
	notices := app.Group("/notice", middleware.RequireAuth(db))

	notices.Get("/", noticeController.List)

	notices.Post("/", middleware.RequireRoles(
		constants.RoleAdmin,
		constants.RoleOfficial,
	), noticeController.Create)

	notices.Put("/:id", middleware.RequireRoles(
		constants.RoleAdmin,
		constants.RoleOfficial,
	), noticeController.Update)

	notices.Delete("/:id", middleware.RequireRoles(
		constants.RoleAdmin,
		constants.RoleOfficial,
	), noticeController.Delete)

	/*=============================================================================
	| Official management
	===============================================================================*/
	officials := app.Group("/officials", middleware.RequireAuth(db))

	officials.Get("/", middleware.RequireRoles(
		constants.RoleSuperadmin,
		constants.RoleAdmin,
	), officialController.List)

	officials.Put("/approve/:id", middleware.RequireRoles(
		constants.RoleSuperadmin,
		constants.RoleAdmin,
	), officialController.Approve)

	officials.Put("/reject/:id", middleware.RequireRoles(
		constants.RoleSuperadmin,
		constants.RoleAdmin,
	), officialController.Reject)

	/*=============================================================================
	| Citizen routes
	===============================================================================*/
	citizens := app.Group("/citizen", middleware.RequireAuth(db))

	citizens.Get("/profile", middleware.RequireRoles(
		constants.RoleCitizen,
	), citizenController.Profile)

	citizens.Put("/profile", middleware.RequireRoles(
		constants.RoleCitizen,
	), citizenController.UpdateProfile)
}
