package utils

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func ParseIntDefault(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// ClampLimit parses a limit query value: blank or invalid values give def,
// anything above max is capped.
func ClampLimit(v string, def, max int) int {
	n := ParseIntDefault(v, def)
	if n < 1 {
		n = def
	}
	if n > max {
		n = max
	}
	return n
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// CheckAdminKey reports whether key matches the configured admin secret.
// An unset secret matches nothing. The secret may be stored as a bcrypt
// hash; plain secrets are compared in constant time.
func CheckAdminKey(secret, key string) bool {
	if secret == "" || key == "" {
		return false
	}
	if isBcryptHash(secret) {
		return bcrypt.CompareHashAndPassword([]byte(secret), []byte(key)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(key)) == 1
}

// SessionCookie is the cookie holding the admin session token.
const SessionCookie = "admin_session"

const adminRole = "admin"

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs an admin session token valid for ttl.
func GenerateSessionToken(secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("session signing key is empty")
	}
	now := time.Now()
	claims := Claims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken checks signature, expiry and role of an admin session token.
func ValidateToken(tokenStr string, secret string) (*Claims, error) {
	if secret == "" || tokenStr == "" {
		return nil, ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims := token.Claims.(*Claims)
	if claims.Role != adminRole {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func SetSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/admin", "", c.Request.TLS != nil, true)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/admin", "", c.Request.TLS != nil, true)
}
