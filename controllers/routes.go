package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/catalogsite/cms"
	"github.com/princinho/catalogsite/config"
	"github.com/princinho/catalogsite/middleware"
	"github.com/princinho/catalogsite/views"
)

// Deps is everything the routes need.
type Deps struct {
	Site    Site
	Quotes  *cms.Quotes
	Admin   config.AdminConfig
	SiteURL string
}

// Register mounts the public pages, the JSON API and the admin surface.
// The engine must already have the page templates loaded.
func Register(r *gin.Engine, d Deps) {
	catalog := d.Site.Catalog

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.StaticFS("/static", views.StaticFS())

	r.GET("/", HomePage(d.Site))
	r.GET("/productos", ProductsPage(d.Site))
	r.GET("/producto/:slug", ProductPage(d.Site))
	r.GET("/cotizacion", QuotePage(d.Site))
	r.POST("/cotizacion", SubmitQuoteForm(d.Site, d.Quotes))
	r.GET("/sitemap.xml", Sitemap(catalog, d.SiteURL))

	api := r.Group("/api")
	{
		api.GET("/products", GetProducts(catalog))
		api.GET("/products/:slug", GetProduct(catalog))
		api.GET("/categories", GetCategories(catalog))
		api.POST("/cotizacion", CreateQuoteRequest(d.Quotes))
		api.GET("/admin/cotizaciones", middleware.AdminKeyMiddleware(d.Admin), GetQuoteRequests(d.Quotes))
	}

	admin := r.Group("/admin/cotizaciones")
	admin.Use(middleware.AdminSessionMiddleware(d.Admin))
	{
		admin.GET("", AdminQuotesPage(d.Site, d.Quotes))
		admin.GET("/export.csv", AdminExportCSV(d.Quotes))
		admin.POST("/login", AdminLogin(d.Site, d.Admin))
		admin.POST("/logout", AdminLogout())
	}

	r.NoRoute(NotFoundPage(d.Site))
}
