package models

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// File is a CMS asset (image, technical sheet) as returned when expanded.
type File struct {
	ID               string `json:"id" mapstructure:"id"`
	Title            string `json:"title,omitempty" mapstructure:"title"`
	FilenameDownload string `json:"filename_download,omitempty" mapstructure:"filename_download"`
	Width            int    `json:"width,omitempty" mapstructure:"width"`
	Height           int    `json:"height,omitempty" mapstructure:"height"`
}

// FileRef is a file relation field. The CMS returns either the bare file id
// or the expanded file object depending on the requested fields; exactly
// one of ID (bare) or File (expanded) is set, or neither when the field is null.
type FileRef struct {
	ID   string
	File *File
}

// FileRefFromID builds the bare form of a file relation.
func FileRefFromID(id string) FileRef {
	return FileRef{ID: id}
}

// FileRefFromFile builds the expanded form of a file relation.
func FileRefFromFile(f File) FileRef {
	return FileRef{File: &f}
}

// IsZero reports whether the relation resolves to no file.
func (r FileRef) IsZero() bool {
	return NormalizeFileID(r) == ""
}

// NormalizeFileID resolves a file relation to its plain identifier. Bare and
// expanded forms of the same file yield the same id; null yields "".
func NormalizeFileID(r FileRef) string {
	if r.File != nil {
		return r.File.ID
	}
	return r.ID
}

func (r *FileRef) UnmarshalJSON(data []byte) error {
	*r = FileRef{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = fileRefFromValue(raw)
	return nil
}

func (r FileRef) MarshalJSON() ([]byte, error) {
	switch {
	case r.File != nil:
		return json.Marshal(r.File)
	case r.ID != "":
		return json.Marshal(r.ID)
	default:
		return []byte("null"), nil
	}
}

// fileRefFromValue interprets a decoded JSON value as a file relation.
// Strings are bare ids, objects carrying a string id are expanded files,
// anything else resolves to nothing.
func fileRefFromValue(v interface{}) FileRef {
	switch val := v.(type) {
	case string:
		return FileRef{ID: val}
	case map[string]interface{}:
		if _, ok := val["id"].(string); !ok {
			return FileRef{}
		}
		var f File
		cfg := &mapstructure.DecoderConfig{
			Result:           &f,
			WeaklyTypedInput: true,
		}
		dec, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return FileRef{}
		}
		if err := dec.Decode(val); err != nil {
			// Keep the id even when optional metadata has an odd shape.
			return FileRef{File: &File{ID: val["id"].(string)}}
		}
		return FileRef{File: &f}
	}
	return FileRef{}
}

// ImageRelation is one entry of a product's image many-to-many junction.
type ImageRelation struct {
	File FileRef
}

// UnmarshalJSON resolves the junction item to a file relation. The usual
// shape is {"directus_files_id": <id|file>}; some setups return the file at
// the root of the item or under a differently named key.
func (i *ImageRelation) UnmarshalJSON(data []byte) error {
	*i = ImageRelation{}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	i.File = fileRefFromJunction(raw)
	return nil
}

func (i ImageRelation) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]FileRef{"directus_files_id": i.File})
}

func fileRefFromJunction(v interface{}) FileRef {
	item, ok := v.(map[string]interface{})
	if !ok {
		return FileRef{}
	}
	if file, ok := item["directus_files_id"]; ok && file != nil {
		if ref := fileRefFromValue(file); !ref.IsZero() {
			return ref
		}
	}
	if id, ok := item["id"].(string); ok {
		return FileRef{ID: id}
	}
	// Any other key holding an object with an id ("file", "image"...).
	// Keys are visited in sorted order so the result is deterministic.
	keys := make([]string, 0, len(item))
	for k := range item {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if nested, ok := item[k].(map[string]interface{}); ok {
			if ref := fileRefFromValue(nested); !ref.IsZero() {
				return ref
			}
		}
	}
	return FileRef{}
}
