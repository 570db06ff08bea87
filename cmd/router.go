package cmd

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/princinho/catalogsite/cms"
	"github.com/princinho/catalogsite/config"
	"github.com/princinho/catalogsite/controllers"
	"github.com/princinho/catalogsite/middleware"
	"github.com/princinho/catalogsite/utils"
	"github.com/princinho/catalogsite/views"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with the middleware stack and every route.
func NewRouter(cfg *config.Config, catalog *cms.Catalog, quotes *cms.Quotes) *gin.Engine {
	r := gin.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range cfg.Server.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	zap.L().Info("allowed origins", zap.Strings("origins", cfg.Server.AllowedOrigins))
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.AdminKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())

	r.SetHTMLTemplate(views.MustTemplates())

	controllers.Register(r, controllers.Deps{
		Site: controllers.Site{
			Catalog:  catalog,
			WhatsApp: utils.NewWhatsApp(cfg.WhatsApp),
		},
		Quotes:  quotes,
		Admin:   cfg.Admin,
		SiteURL: cfg.Server.SiteURL,
	})
	return r
}
