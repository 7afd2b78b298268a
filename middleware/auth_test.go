package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gramvartha/constants"
	"gramvartha/database"
	"gramvartha/middleware"
	adminmodel "gramvartha/models/admin"
	officialmodel "gramvartha/models/official"
	"gramvartha/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	app := fiber.New()
	app.Get("/protected", middleware.RequireAuth(db), func(c *fiber.Ctx) error {
		return c.JSON(middleware.CurrentUser(c))
	})
	app.Get("/superadmin-only", middleware.RequireAuth(db),
		middleware.RequireRoles(constants.RoleSuperadmin), func(c *fiber.Ctx) error {
			return c.SendStatus(http.StatusOK)
		})
	return app, db
}

func request(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: utils.AuthCookieName, Value: token})
	}
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func TestRequireAuthMissingCookie(t *testing.T) {
	app, _ := newTestApp(t)
	res := request(t, app, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestRequireAuthMalformedToken(t *testing.T) {
	app, _ := newTestApp(t)
	res := request(t, app, "/protected", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestRequireAuthDeletedPrincipal(t *testing.T) {
	app, _ := newTestApp(t)
	token, err := utils.IssueToken(4242, "ghost@gramvartha.in", utils.KindAdmin)
	require.NoError(t, err)
	res := request(t, app, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestRequireAuthPendingAdmin(t *testing.T) {
	app, db := newTestApp(t)
	row := adminmodel.Admin{
		Email: "pending@gramvartha.in", PasswordHash: "x",
		Role:  constants.RoleAdmin, Status: constants.StatusPending,
	}
	require.NoError(t, db.Create(&row).Error)

	token, err := utils.IssueToken(row.ID, row.Email, utils.KindAdmin)
	require.NoError(t, err)
	res := request(t, app, "/protected", token)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestRequireAuthPendingOfficial(t *testing.T) {
	app, db := newTestApp(t)
	row := officialmodel.Official{
		Name: "Pending", Email: "pending-official@gramvartha.in", PasswordHash: "x",
		Status: constants.StatusPending, VillageID: 1,
	}
	require.NoError(t, db.Create(&row).Error)

	token, err := utils.IssueToken(row.ID, row.Email, utils.KindOfficial)
	require.NoError(t, err)
	res := request(t, app, "/protected", token)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestRequireAuthApprovedOfficial(t *testing.T) {
	app, db := newTestApp(t)
	row := officialmodel.Official{
		Name: "Active", Email: "active@gramvartha.in", PasswordHash: "x",
		Status: constants.StatusApproved, VillageID: 7,
	}
	require.NoError(t, db.Create(&row).Error)

	token, err := utils.IssueToken(row.ID, row.Email, utils.KindOfficial)
	require.NoError(t, err)
	res := request(t, app, "/protected", token)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRequireRoles(t *testing.T) {
	app, db := newTestApp(t)

	superadmin := adminmodel.Admin{
		Email: "root@gramvartha.in", PasswordHash: "x",
		Role:  constants.RoleSuperadmin, Status: constants.StatusApproved,
	}
	require.NoError(t, db.Create(&superadmin).Error)
	official := officialmodel.Official{
		Name: "Officer", Email: "officer@gramvartha.in", PasswordHash: "x",
		Status: constants.StatusApproved, VillageID: 1,
	}
	require.NoError(t, db.Create(&official).Error)

	superToken, err := utils.IssueToken(superadmin.ID, superadmin.Email, utils.KindAdmin)
	require.NoError(t, err)
	officialToken, err := utils.IssueToken(official.ID, official.Email, utils.KindOfficial)
	require.NoError(t, err)

	res := request(t, app, "/superadmin-only", superToken)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res = request(t, app, "/superadmin-only", officialToken)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}
