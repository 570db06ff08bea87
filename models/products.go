package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
)

type Product struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Description     *string         `json:"description"`
	Price           Price           `json:"price"`
	IsActive        bool            `json:"is_active"`
	SortOrder       int             `json:"sort_order"`
	Category        CategoryRef     `json:"category"`
	Images          []ImageRelation `json:"images"`
	Characteristics *string         `json:"caracteristicas"`
	RecommendedUse  *string         `json:"uso_recomendado"`
	TechnicalSheet  FileRef         `json:"ficha_tecnica"`
}

// ImageIDs returns the file ids of the product images in junction order,
// skipping entries that do not resolve to a file.
func (p Product) ImageIDs() []string {
	ids := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if id := NormalizeFileID(img.File); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// FirstImageID returns the main image id, or "" when the product has none.
func (p Product) FirstImageID() string {
	if len(p.Images) == 0 {
		return ""
	}
	return NormalizeFileID(p.Images[0].File)
}

// TechnicalSheetID returns the technical sheet file id, or "".
func (p Product) TechnicalSheetID() string {
	return NormalizeFileID(p.TechnicalSheet)
}

// CharacteristicsList splits the newline-delimited characteristics text,
// dropping blank lines.
func (p Product) CharacteristicsList() []string {
	if p.Characteristics == nil {
		return nil
	}
	var out []string
	for _, line := range strings.Split(*p.Characteristics, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Price is a nullable product price. The CMS may send it as a JSON number
// or as a numeric string (decimal fields).
type Price struct {
	Value float64
	Valid bool
}

func NewPrice(v float64) Price {
	return Price{Value: v, Valid: true}
}

func (p *Price) UnmarshalJSON(data []byte) error {
	*p = Price{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		// unparseable prices are not rendered
		return nil
	}
	*p = NewPrice(v)
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}
