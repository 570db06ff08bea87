package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/catalogsite/config"
	"github.com/princinho/catalogsite/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func keyRouter(cfg config.AdminConfig) *gin.Engine {
	r := gin.New()
	r.GET("/secret", AdminKeyMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAdminKeyMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		key    string
		want   int
	}{
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"wrong key", "s3cret", "nope", http.StatusUnauthorized},
		{"secret not configured", "", "anything", http.StatusUnauthorized},
		{"correct key", "s3cret", "s3cret", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := keyRouter(config.AdminConfig{Secret: tc.secret})
			req := httptest.NewRequest(http.MethodGet, "/secret", nil)
			if tc.key != "" {
				req.Header.Set(AdminKeyHeader, tc.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"No autorizado"}`, w.Body.String())
			}
		})
	}
}

func sessionRouter(cfg config.AdminConfig) *gin.Engine {
	r := gin.New()
	r.GET("/admin/page", AdminSessionMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"session": c.GetBool(CtxAdminSession),
			"expired": c.GetBool(CtxSessionExpired),
		})
	})
	return r
}

func TestAdminSessionMiddleware(t *testing.T) {
	cfg := config.AdminConfig{Secret: "s3cret", SessionSecret: "signing"}
	valid, err := utils.GenerateSessionToken("signing", time.Hour)
	require.NoError(t, err)
	expired, err := utils.GenerateSessionToken("signing", -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{"no cookie", "", `{"session":false,"expired":false}`},
		{"valid cookie", valid, `{"session":true,"expired":false}`},
		{"expired cookie", expired, `{"session":false,"expired":true}`},
		{"forged cookie", "abc.def.ghi", `{"session":false,"expired":true}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/page", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			sessionRouter(cfg).ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tc.want, w.Body.String())
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestID)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
