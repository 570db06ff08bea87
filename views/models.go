package views

import (
	"fmt"
	"net/url"
	"time"

	"github.com/princinho/catalogsite/dto"
	"github.com/princinho/catalogsite/models"
	"github.com/princinho/catalogsite/utils"
)

// HeroPhrases rotate in the home page hero.
var HeroPhrases = []string{
	"Calidad que se nota en cada costura.",
	"Ropa pensada para el trabajo de todos los días.",
	"Equipá a tu equipo con lo mejor.",
	"Indumentaria laboral para invierno y verano.",
}

// ReferralOptions are the choices of the "¿Cómo nos conociste?" field.
var ReferralOptions = []string{"Web", "Instagram", "LinkedIn", "Referido"}

// AssetURLFunc turns a CMS file id into a public URL.
type AssetURLFunc func(fileID string) string

// Layout is the data shared by every page: navigation and contact links.
type Layout struct {
	Title      string
	Nav        Nav
	Contacts   []ContactLink
	ContactURL string
	Year       int
}

type Nav struct {
	Categories []NavItem
}

type NavItem struct {
	Name   string
	URL    string
	Active bool
}

type ContactLink struct {
	Label string
	URL   string
}

// Page wraps a page's own data with the layout.
type Page struct {
	Layout
	Data interface{}
}

// NewLayout builds the layout. activeCategory marks the current nav entry.
func NewLayout(title string, categories []models.Category, activeCategory string, wa utils.WhatsApp) Layout {
	l := Layout{
		Title:      title,
		Nav:        NewNav(categories, activeCategory),
		ContactURL: wa.ContactURL(""),
		Year:       time.Now().Year(),
	}
	for _, line := range wa.Lines() {
		l.Contacts = append(l.Contacts, ContactLink{Label: line.Label, URL: wa.LineURL(line, "")})
	}
	return l
}

func NewNav(categories []models.Category, active string) Nav {
	nav := Nav{Categories: make([]NavItem, 0, len(categories))}
	for _, c := range categories {
		nav.Categories = append(nav.Categories, NavItem{
			Name:   c.Name,
			URL:    CategoryURL(c.Slug),
			Active: active != "" && c.Slug == active,
		})
	}
	return nav
}

func ProductURL(slug string) string {
	return "/producto/" + url.PathEscape(slug)
}

func CategoryURL(slug string) string {
	if slug == "" {
		return "/productos"
	}
	return "/productos?categoria=" + url.QueryEscape(slug)
}

// ProductCard is a product in a grid. ImageURL is empty when the product
// has no image and the card shows a placeholder.
type ProductCard struct {
	Name     string
	URL      string
	ImageURL string
}

func NewProductCard(p models.Product, asset AssetURLFunc) ProductCard {
	return ProductCard{
		Name:     p.Name,
		URL:      ProductURL(p.Slug),
		ImageURL: asset(p.FirstImageID()),
	}
}

func NewProductCards(products []models.Product, asset AssetURLFunc) []ProductCard {
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, NewProductCard(p, asset))
	}
	return cards
}

type GalleryImage struct {
	URL   string
	Alt   string
	Index int
}

// Gallery holds the product images in junction order.
type Gallery struct {
	Images []GalleryImage
}

// Main is the first image, or the zero value for a product without images.
func (g Gallery) Main() GalleryImage {
	if len(g.Images) == 0 {
		return GalleryImage{}
	}
	return g.Images[0]
}

func (g Gallery) HasThumbnails() bool {
	return len(g.Images) > 1
}

func NewGallery(p models.Product, asset AssetURLFunc) Gallery {
	ids := p.ImageIDs()
	g := Gallery{Images: make([]GalleryImage, 0, len(ids))}
	for i, id := range ids {
		g.Images = append(g.Images, GalleryImage{
			URL:   asset(id),
			Alt:   fmt.Sprintf("%s - imagen %d", p.Name, i+1),
			Index: i,
		})
	}
	return g
}

// ProductDetail is everything the product page renders.
type ProductDetail struct {
	Name              string
	Description       string
	Price             string
	CategoryName      string
	CategoryURL       string
	Characteristics   []string
	RecommendedUse    string
	TechnicalSheetURL string
	WhatsAppURL       string
	QuoteURL          string
	Gallery           Gallery
}

func NewProductDetail(p models.Product, asset AssetURLFunc, wa utils.WhatsApp) ProductDetail {
	d := ProductDetail{
		Name:              p.Name,
		Description:       deref(p.Description),
		Characteristics:   p.CharacteristicsList(),
		RecommendedUse:    deref(p.RecommendedUse),
		TechnicalSheetURL: asset(p.TechnicalSheetID()),
		WhatsAppURL:       wa.ProductURL(p.Name),
		QuoteURL:          "/cotizacion?producto=" + url.QueryEscape(p.Name),
		Gallery:           NewGallery(p, asset),
	}
	if p.Price.Valid {
		d.Price = FormatPrice(p.Price.Value)
	}
	if cat, ok := p.Category.Expanded(); ok {
		d.CategoryName = cat.Name
		d.CategoryURL = CategoryURL(cat.Slug)
	}
	return d
}

// Home is the landing page.
type Home struct {
	Hero     []string
	Featured []ProductCard
}

// ProductList is the catalog page, optionally narrowed to one category.
type ProductList struct {
	Heading    string
	Category   string
	Categories []NavItem
	Products   []ProductCard
}

func NewProductList(products []models.Product, categories []models.Category, active string, asset AssetURLFunc) ProductList {
	list := ProductList{
		Heading:    "Productos",
		Category:   active,
		Categories: NewNav(categories, active).Categories,
		Products:   NewProductCards(products, asset),
	}
	for _, c := range categories {
		if c.Slug == active {
			list.Heading = c.Name
		}
	}
	return list
}

// QuoteForm is the quote page state: the submitted values survive a
// validation error so the user does not retype them.
type QuoteForm struct {
	Values   dto.CreateQuoteRequestDTO
	Error    string
	Sent     bool
	Referral []string
}

func NewQuoteForm(values dto.CreateQuoteRequestDTO) QuoteForm {
	return QuoteForm{Values: values, Referral: ReferralOptions}
}

type AdminLogin struct {
	Error string
}

type AdminQuotes struct {
	Quotes []models.StoredQuoteRequest
	Error  string
}
