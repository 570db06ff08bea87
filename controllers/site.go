package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/catalogsite/cms"
	"github.com/princinho/catalogsite/utils"
	"github.com/princinho/catalogsite/views"
)

// Site holds what the HTML handlers share: the catalog reader and the
// WhatsApp links shown on every page.
type Site struct {
	Catalog  *cms.Catalog
	WhatsApp utils.WhatsApp
}

func (s Site) layout(ctx context.Context, title, activeCategory string) views.Layout {
	return views.NewLayout(title, s.Catalog.FetchCategories(ctx), activeCategory, s.WhatsApp)
}

func (s Site) render(c *gin.Context, status int, page, title string, data interface{}) {
	c.HTML(status, page, views.Page{
		Layout: s.layout(c.Request.Context(), title, ""),
		Data:   data,
	})
}

// NotFoundPage renders the 404 page for unknown routes.
func NotFoundPage(site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		site.render(c, http.StatusNotFound, views.NotFoundPage, "Página no encontrada", nil)
	}
}
