package models

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cast"
)

type Category struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	SortOrder int    `json:"sort_order,omitempty"`
}

// CategoryRef is a product's category relation: either the bare numeric id
// or the expanded category object.
type CategoryRef struct {
	ID       int
	Category *Category
}

// Expanded returns the category object when the relation was expanded.
func (r CategoryRef) Expanded() (*Category, bool) {
	return r.Category, r.Category != nil
}

// CategoryID returns the referenced category id for either form.
func (r CategoryRef) CategoryID() int {
	if r.Category != nil {
		return r.Category.ID
	}
	return r.ID
}

func (r *CategoryRef) UnmarshalJSON(data []byte) error {
	*r = CategoryRef{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '{' {
		var c Category
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		r.Category = &c
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := cast.ToIntE(raw)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func (r CategoryRef) MarshalJSON() ([]byte, error) {
	switch {
	case r.Category != nil:
		return json.Marshal(r.Category)
	case r.ID != 0:
		return json.Marshal(r.ID)
	default:
		return []byte("null"), nil
	}
}
