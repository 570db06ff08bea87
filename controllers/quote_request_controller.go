package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/catalogsite/cms"
	"github.com/princinho/catalogsite/dto"
	"github.com/princinho/catalogsite/views"
	"go.uber.org/zap"
)

const (
	msgQuoteMissingFields = "Nombre, email y teléfono son obligatorios."
	msgQuoteUpstream      = "No se pudo enviar la cotización. Intentá de nuevo."
	msgQuoteInternal      = "Error al procesar la solicitud."

	maxQuoteBodyBytes = 64 << 10
)

// CreateQuoteRequest accepts a JSON quote submission and forwards it to
// the CMS.
func CreateQuoteRequest(quotes *cms.Quotes) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxQuoteBodyBytes)
		var payload map[string]interface{}
		raw, err := c.GetRawData()
		if err == nil {
			err = json.Unmarshal(raw, &payload)
		}
		if err != nil {
			zap.L().Warn("quote request body rejected", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgQuoteInternal})
			return
		}

		body := dto.QuoteRequestFromPayload(payload)
		if err := body.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgQuoteMissingFields})
			return
		}

		if err := quotes.Submit(c.Request.Context(), body.ToModel()); err != nil {
			status, msg := submitFailure(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// QuotePage renders the quote form. ?producto= prefills the products of
// interest when arriving from a product page.
func QuotePage(site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		form := views.NewQuoteForm(dto.CreateQuoteRequestDTO{ProductsInterest: c.Query("producto")})
		form.Sent = c.Query("enviada") == "1"
		site.render(c, http.StatusOK, views.QuotePage, "Pedir cotización", form)
	}
}

// SubmitQuoteForm handles the HTML form post. On success it redirects so a
// reload does not submit twice.
func SubmitQuoteForm(site Site, quotes *cms.Quotes) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxQuoteBodyBytes)
		body := dto.QuoteRequestFromLookup(c.PostForm)
		form := views.NewQuoteForm(body)

		if err := body.Validate(); err != nil {
			form.Error = msgQuoteMissingFields
			site.render(c, http.StatusBadRequest, views.QuotePage, "Pedir cotización", form)
			return
		}
		if err := quotes.Submit(c.Request.Context(), body.ToModel()); err != nil {
			status, msg := submitFailure(err)
			form.Error = msg
			site.render(c, status, views.QuotePage, "Pedir cotización", form)
			return
		}
		c.Redirect(http.StatusSeeOther, "/cotizacion?enviada=1")
	}
}

// submitFailure maps a CMS create error to the response status and message.
func submitFailure(err error) (int, string) {
	var statusErr *cms.StatusError
	if errors.As(err, &statusErr) {
		zap.L().Error("cms rejected quote request",
			zap.Int("status", statusErr.Status), zap.String("body", statusErr.Body))
		return http.StatusBadGateway, msgQuoteUpstream
	}
	zap.L().Error("quote request failed", zap.Error(err))
	return http.StatusInternalServerError, msgQuoteInternal
}
