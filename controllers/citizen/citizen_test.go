package citizen_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gramvartha/database"
	citizenmodel "gramvartha/models/citizen"
	"gramvartha/routes"
	"gramvartha/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type nopUploader struct{}

func (nopUploader) Upload(_ context.Context, objectName, _ string, _ []byte) (string, error) {
	return "https://storage.test/" + objectName, nil
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	app := fiber.New()
	routes.SetupRoutes(app, db, nopUploader{})
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path, payload string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func decodeBody(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

const registerPayload = `{
	"name": "Meera Joshi",
	"email": "meera@gramvartha.in",
	"password": "changeme1",
	"phone": "9000000001",
	"ward_number": "4",
	"village": "Alpha",
	"pincode": "000001"
}`

func TestRegisterCitizen(t *testing.T) {
	app, db := newTestApp(t)

	res := postJSON(t, app, "/citizen/register", registerPayload, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var row citizenmodel.Citizen
	require.NoError(t, db.Where("email = ?", "meera@gramvartha.in").First(&row).Error)
	assert.Equal(t, "Meera Joshi", row.Name)
	assert.Equal(t, "4", row.WardNumber)
	assert.NotEqual(t, "changeme1", row.PasswordHash)
}

func TestRegisterCitizenDuplicateEmail(t *testing.T) {
	app, _ := newTestApp(t)

	res := postJSON(t, app, "/citizen/register", registerPayload, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = postJSON(t, app, "/citizen/register", registerPayload, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	body := decodeBody(t, res)
	assert.Contains(t, body["message"], "already exists")
}

func TestRegisterCitizenValidation(t *testing.T) {
	app, _ := newTestApp(t)

	// Short password
	res := postJSON(t, app, "/citizen/register",
		`{"name":"Meera","email":"meera@gramvartha.in","password":"abc"}`, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Invalid email
	res = postJSON(t, app, "/citizen/register",
		`{"name":"Meera","email":"not-an-email","password":"changeme1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Bad DOB format
	res = postJSON(t, app, "/citizen/register",
		`{"name":"Meera","email":"meera@gramvartha.in","password":"changeme1","dob":"01-02-1990"}`, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCitizenProfileLifecycle(t *testing.T) {
	app, db := newTestApp(t)

	res := postJSON(t, app, "/citizen/register", registerPayload, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = postJSON(t, app, "/auth/login",
		`{"email":"meera@gramvartha.in","password":"changeme1","role":"citizen"}`, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var cookie *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == utils.AuthCookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)

	// Login stamps last_login
	var row citizenmodel.Citizen
	require.NoError(t, db.Where("email = ?", "meera@gramvartha.in").First(&row).Error)
	require.NotNil(t, row.LastLogin)

	req := httptest.NewRequest(http.MethodGet, "/citizen/profile", nil)
	req.AddCookie(cookie)
	got, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, got.StatusCode)
	body := decodeBody(t, got)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Meera Joshi", data["name"])
	assert.NotContains(t, data, "password_hash")

	// Partial update leaves untouched fields alone
	req = httptest.NewRequest(http.MethodPut, "/citizen/profile",
		strings.NewReader(`{"phone":"9000000099"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	got, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, got.StatusCode)

	require.NoError(t, db.Where("email = ?", "meera@gramvartha.in").First(&row).Error)
	assert.Equal(t, "9000000099", row.Phone)
	assert.Equal(t, "Meera Joshi", row.Name)
	assert.Equal(t, "4", row.WardNumber)
}

func TestCitizenProfileRequiresCitizenRole(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/citizen/profile", nil)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}
