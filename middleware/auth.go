package middleware

import (
	"errors"

	"gramvartha/constants"
	"gramvartha/models/admin"
	"gramvartha/models/citizen"
	"gramvartha/models/official"
	"gramvartha/types"
	"gramvartha/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var errAccountNotActive = errors.New("account is not approved")

// RequireAuth validates the session cookie, resolves the principal row
// and attaches a types.AuthUser to the request context. Pending admins
// and pending/rejected officials are refused even with a valid token.
func RequireAuth(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(utils.AuthCookieName)
		if tokenString == "" {
			return unauthorized(c, "Authentication required")
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		authUser, err := loadPrincipal(db, claims)
		if err != nil {
			if errors.Is(err, errAccountNotActive) {
				return forbidden(c, "Account is not approved")
			}
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals("user", authUser)
		return c.Next()
	}
}

// RequireRoles allows the request through only when the authenticated
// principal holds one of the given roles. Must run after RequireAuth.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authUser := CurrentUser(c)
		if authUser == nil {
			return unauthorized(c, "Authentication required")
		}
		for _, role := range roles {
			if authUser.Role == role {
				return c.Next()
			}
		}
		return forbidden(c, "Insufficient permissions")
	}
}

// CurrentUser returns the principal attached by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *types.AuthUser {
	authUser, _ := c.Locals("user").(*types.AuthUser)
	return authUser
}

func loadPrincipal(db *gorm.DB, claims *utils.TokenClaims) (*types.AuthUser, error) {
	switch claims.Kind {
	case utils.KindAdmin:
		var row admin.Admin
		if err := db.First(&row, claims.ID).Error; err != nil {
			return nil, err
		}
		if row.Role != constants.RoleSuperadmin && row.Status != constants.StatusApproved {
			return nil, errAccountNotActive
		}
		return &types.AuthUser{ID: row.ID, Email: row.Email, Role: row.Role, VillageID: row.VillageID}, nil
	case utils.KindOfficial:
		var row official.Official
		if err := db.First(&row, claims.ID).Error; err != nil {
			return nil, err
		}
		if row.Status != constants.StatusApproved {
			return nil, errAccountNotActive
		}
		villageID := row.VillageID
		return &types.AuthUser{ID: row.ID, Email: row.Email, Role: constants.RoleOfficial, VillageID: &villageID}, nil
	case utils.KindCitizen:
		var row citizen.Citizen
		if err := db.First(&row, claims.ID).Error; err != nil {
			return nil, err
		}
		return &types.AuthUser{ID: row.ID, Email: row.Email, Role: constants.RoleCitizen}, nil
	}
	return nil, errors.New("unknown principal kind")
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
		Message: message,
		Status:  fiber.StatusUnauthorized,
	})
}

func forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(types.ErrorResponse{
		Message: message,
		Status:  fiber.StatusForbidden,
	})
}
