package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthCookieName is the single cookie carrying the session token.
const AuthCookieName = "token"

// TokenTTL is the session lifetime. There is no refresh flow; expiry
// forces a full re-login.
const TokenTTL = 24 * time.Hour

// Principal kinds embedded in the token. The kind selects which table
// the auth middleware resolves the principal from.
const (
	KindAdmin    = "admin"
	KindOfficial = "official"
	KindCitizen  = "citizen"
)

// TokenClaims is the JWT payload for all principal types.
type TokenClaims struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Kind  string `json:"kind"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "gramvartha-dev-secret"
	}
	return []byte(secret)
}

// IssueToken signs a 24h HS256 session token for the given principal.
func IssueToken(id uint, email, kind string) (string, error) {
	claims := TokenClaims{
		ID:    id,
		Email: email,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
}

// ParseToken validates signature and expiry and returns the claims.
func ParseToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// SetAuthCookie attaches the session token as an HTTP-only cookie.
func SetAuthCookie(c *fiber.Ctx, token string) {
	isProduction := os.Getenv("APP_ENV") == "production"

	c.Cookie(&fiber.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   isProduction,
		SameSite: "Lax",
		MaxAge:   int(TokenTTL.Seconds()),
		Path:     "/",
	})
}

// ClearAuthCookie expires the session cookie.
func ClearAuthCookie(c *fiber.Ctx) {
	isProduction := os.Getenv("APP_ENV") == "production"

	c.Cookie(&fiber.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		HTTPOnly: true,
		Secure:   isProduction,
		SameSite: "Lax",
		MaxAge:   -1,
		Path:     "/",
	})
}
