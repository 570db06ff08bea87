package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
	"github.com/princinho/catalogsite/cms"
	"github.com/princinho/catalogsite/config"
	"github.com/princinho/catalogsite/middleware"
	"github.com/princinho/catalogsite/models"
	"github.com/princinho/catalogsite/utils"
	"github.com/princinho/catalogsite/views"
	"go.uber.org/zap"
)

const (
	msgAdminMisconfigured = "Configuración del servidor incompleta"
	msgAdminUpstream      = "Error al obtener las cotizaciones"
	msgAdminInternal      = "Error al procesar la solicitud"
	msgSessionExpired     = "Sesión expirada. Volvé a ingresar la clave."
	msgWrongKey           = "Clave incorrecta"

	adminQuotesPath = "/admin/cotizaciones"
	csvFilename     = "cotizaciones.csv"
)

// GetQuoteRequests lists quote requests, newest first. It runs behind the
// admin key middleware. ?format=csv returns the same rows as CSV.
func GetQuoteRequests(quotes *cms.Quotes) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := quotes.List(c.Request.Context())
		if err != nil {
			status, msg := listFailure(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}
		if strings.EqualFold(c.Query("format"), "csv") {
			writeCSV(c, items)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": items})
	}
}

// AdminQuotesPage shows the quote table to a logged in admin and the login
// form to everyone else.
func AdminQuotesPage(site Site, quotes *cms.Quotes) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(middleware.CtxAdminSession) {
			login := views.AdminLogin{}
			if c.GetBool(middleware.CtxSessionExpired) {
				login.Error = msgSessionExpired
			}
			site.render(c, http.StatusOK, views.AdminLoginPage, "Admin", login)
			return
		}

		items, err := quotes.List(c.Request.Context())
		if err != nil {
			status, msg := listFailure(err)
			site.render(c, status, views.AdminQuotesPage, "Cotizaciones", views.AdminQuotes{Error: msg})
			return
		}
		site.render(c, http.StatusOK, views.AdminQuotesPage, "Cotizaciones", views.AdminQuotes{Quotes: items})
	}
}

// AdminLogin checks the posted key and starts an admin session.
func AdminLogin(site Site, cfg config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.CheckAdminKey(cfg.Secret, c.PostForm("key")) {
			zap.L().Warn("admin login rejected", zap.String("ip", c.ClientIP()))
			site.render(c, http.StatusUnauthorized, views.AdminLoginPage, "Admin", views.AdminLogin{Error: msgWrongKey})
			return
		}
		token, err := utils.GenerateSessionToken(cfg.SigningKey(), cfg.SessionTTL)
		if err != nil {
			zap.L().Error("admin session token", zap.Error(err))
			site.render(c, http.StatusInternalServerError, views.AdminLoginPage, "Admin", views.AdminLogin{Error: msgAdminInternal})
			return
		}
		utils.SetSessionCookie(c, token, cfg.SessionTTL)
		c.Redirect(http.StatusSeeOther, adminQuotesPath)
	}
}

func AdminLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.ClearSessionCookie(c)
		c.Redirect(http.StatusSeeOther, adminQuotesPath)
	}
}

// AdminExportCSV downloads the quote table for a logged in admin.
func AdminExportCSV(quotes *cms.Quotes) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(middleware.CtxAdminSession) {
			c.Redirect(http.StatusSeeOther, adminQuotesPath)
			return
		}
		items, err := quotes.List(c.Request.Context())
		if err != nil {
			status, msg := listFailure(err)
			c.String(status, msg)
			return
		}
		writeCSV(c, items)
	}
}

func writeCSV(c *gin.Context, items []models.StoredQuoteRequest) {
	data, err := gocsv.MarshalBytes(&items)
	if err != nil {
		zap.L().Error("quote csv export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgAdminInternal})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+csvFilename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// listFailure maps a quote list error to the response status and message.
func listFailure(err error) (int, string) {
	var statusErr *cms.StatusError
	switch {
	case errors.Is(err, cms.ErrReadTokenMissing):
		zap.L().Error("admin quotes: cms read token not configured")
		return http.StatusInternalServerError, msgAdminMisconfigured
	case errors.As(err, &statusErr):
		zap.L().Error("cms rejected quote list",
			zap.Int("status", statusErr.Status), zap.String("body", statusErr.Body))
		return http.StatusBadGateway, msgAdminUpstream
	default:
		zap.L().Error("admin quotes failed", zap.Error(err))
		return http.StatusInternalServerError, msgAdminInternal
	}
}
