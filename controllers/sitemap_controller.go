package controllers

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/catalogsite/cms"
	"github.com/princinho/catalogsite/views"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap lists the static pages and one entry per active product.
func Sitemap(catalog *cms.Catalog, siteURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now().UTC().Format("2006-01-02")
		set := urlSet{
			XMLNS: sitemapNS,
			URLs: []sitemapURL{
				{Loc: siteURL, LastMod: now, ChangeFreq: "daily", Priority: 1},
				{Loc: siteURL + "/productos", LastMod: now, ChangeFreq: "daily", Priority: 0.9},
				{Loc: siteURL + "/cotizacion", LastMod: now, ChangeFreq: "monthly", Priority: 0.8},
			},
		}
		for _, p := range catalog.FetchProducts(c.Request.Context(), "", 0) {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        siteURL + views.ProductURL(p.Slug),
				LastMod:    now,
				ChangeFreq: "weekly",
				Priority:   0.8,
			})
		}
		c.XML(http.StatusOK, set)
	}
}
