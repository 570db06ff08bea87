package views

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
	_ "time/tzdata"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page template names.
const (
	HomePage        = "home.html"
	ProductsPage    = "productos.html"
	ProductPage     = "producto.html"
	QuotePage       = "cotizacion.html"
	AdminLoginPage  = "admin_login.html"
	AdminQuotesPage = "admin_cotizaciones.html"
	NotFoundPage    = "not_found.html"
)

var pricePrinter = message.NewPrinter(language.MustParse("es-AR"))

// argentina is used for admin dates; falls back to UTC when tzdata is missing.
var argentina = func() *time.Location {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// Templates parses every embedded page with the shared helpers.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(TemplateFuncs()).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates is Templates for router setup.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// StaticFS serves the stylesheet and other static assets.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// TemplateFuncs returns the helpers available to page templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"deref":    deref,
		"dash":     orDash,
		"date":     FormatDate,
		"nl2lines": splitLines,
	}
}

// FormatPrice renders an amount the way es-AR does: "$1.234.567".
func FormatPrice(v float64) string {
	return "$" + pricePrinter.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

// FormatDate renders a CMS timestamp as dd/mm/yyyy hh:mm in Argentina
// time. Unparseable or empty values give "—".
func FormatDate(raw *string) string {
	if raw == nil || *raw == "" {
		return "—"
	}
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, *raw); err == nil {
			return t.In(argentina).Format("02/01/2006 15:04")
		}
	}
	return "—"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
