package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/catalogsite/cms"
)

func GetCategories(catalog *cms.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		items := catalog.FetchCategories(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}
