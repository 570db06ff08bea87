package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/princinho/catalogsite/cms"
	"github.com/princinho/catalogsite/models"
	"github.com/princinho/catalogsite/utils"
	"github.com/princinho/catalogsite/views"
	"golang.org/x/sync/errgroup"
)

const maxProductsLimit = 100

// GetProducts lists active products as JSON, optionally by category slug.
func GetProducts(catalog *cms.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		categorySlug := strings.TrimSpace(c.Query("category"))
		limit := utils.ClampLimit(c.Query("limit"), 0, maxProductsLimit)

		items := catalog.FetchProducts(c.Request.Context(), categorySlug, limit)
		c.JSON(http.StatusOK, gin.H{
			"items": items,
			"total": len(items),
		})
	}
}

// GetProduct returns one active product as JSON.
func GetProduct(catalog *cms.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := catalog.FetchProductBySlug(c.Request.Context(), strings.TrimSpace(c.Param("slug")))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func HomePage(site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		featured := site.Catalog.FetchFeaturedProducts(c.Request.Context(), cms.DefaultFeaturedCount)
		site.render(c, http.StatusOK, views.HomePage, "", views.Home{
			Hero:     views.HeroPhrases,
			Featured: views.NewProductCards(featured, site.Catalog.AssetURL),
		})
	}
}

// ProductsPage renders the catalog. Products and categories are read
// concurrently; either one failing leaves the other on the page.
func ProductsPage(site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		active := strings.TrimSpace(c.Query("categoria"))
		products, categories := fetchListing(c.Request.Context(), site.Catalog, active)

		list := views.NewProductList(products, categories, active, site.Catalog.AssetURL)
		c.HTML(http.StatusOK, views.ProductsPage, views.Page{
			Layout: views.NewLayout(list.Heading, categories, active, site.WhatsApp),
			Data:   list,
		})
	}
}

func fetchListing(ctx context.Context, catalog *cms.Catalog, categorySlug string) ([]models.Product, []models.Category) {
	var (
		products   []models.Product
		categories []models.Category
	)
	// no shared context: one fetch failing must not cancel the other
	var g errgroup.Group
	g.Go(func() error {
		products = catalog.FetchProducts(ctx, categorySlug, 0)
		return nil
	})
	g.Go(func() error {
		categories = catalog.FetchCategories(ctx)
		return nil
	})
	_ = g.Wait()
	return products, categories
}

func ProductPage(site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := site.Catalog.FetchProductBySlug(c.Request.Context(), strings.TrimSpace(c.Param("slug")))
		if !ok {
			site.render(c, http.StatusNotFound, views.NotFoundPage, "Producto no encontrado", nil)
			return
		}
		active := ""
		if cat, expanded := p.Category.Expanded(); expanded {
			active = cat.Slug
		}
		c.HTML(http.StatusOK, views.ProductPage, views.Page{
			Layout: site.layout(c.Request.Context(), p.Name, active),
			Data:   views.NewProductDetail(*p, site.Catalog.AssetURL, site.WhatsApp),
		})
	}
}
