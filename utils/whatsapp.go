package utils

import (
	"net/url"
	"strings"

	"github.com/princinho/catalogsite/config"
)

const defaultWhatsAppMessage = "Hola, me gustaría hacer una consulta."

// WhatsApp builds wa.me links for the configured sales lines.
type WhatsApp struct {
	number string
	lines  []config.WhatsAppLine
}

func NewWhatsApp(cfg config.WhatsAppConfig) WhatsApp {
	return WhatsApp{number: config.DigitsOnly(cfg.Number), lines: cfg.Lines}
}

// Lines returns the sales lines that have a number.
func (w WhatsApp) Lines() []config.WhatsAppLine {
	return w.lines
}

// WhatsAppURL returns a wa.me link with a prefilled message, or "#" when
// number has no digits.
func WhatsAppURL(number, message string) string {
	num := config.DigitsOnly(number)
	if num == "" {
		return "#"
	}
	if message == "" {
		message = defaultWhatsAppMessage
	}
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + num + "?text=" + text
}

// ContactURL links to the general number, or the first line.
func (w WhatsApp) ContactURL(message string) string {
	return WhatsAppURL(w.primary(), message)
}

// ProductURL links with a message asking about productName.
func (w WhatsApp) ProductURL(productName string) string {
	return WhatsAppURL(w.primary(), "Hola, me interesa el producto: "+productName)
}

// LineURL links to one specific sales line.
func (w WhatsApp) LineURL(line config.WhatsAppLine, message string) string {
	return WhatsAppURL(line.Number, message)
}

func (w WhatsApp) primary() string {
	if w.number != "" {
		return w.number
	}
	if len(w.lines) > 0 {
		return w.lines[0].Number
	}
	return ""
}
