package record

import (
	"database/sql/driver"
	"fmt"

	json "github.com/goccy/go-json"
)

// Blob is the per-record translation store: canonical non-default language
// code to field name to value. The default language never appears as a key;
// canonical columns are authoritative for it. The blob is absent (nil) until
// the first non-default write and grows monotonically per language.
type Blob map[string]map[string]any

// Get returns the stored value for a language/field pair.
func (b Blob) Get(language, field string) (any, bool) {
	entry, ok := b[language]
	if !ok {
		return nil, false
	}
	value, ok := entry[field]
	return value, ok
}

// Entry returns the field map for a language, or nil when absent.
func (b Blob) Entry(language string) map[string]any {
	return b[language]
}

// HasLanguage reports whether the blob holds a non-empty entry for the
// language. Empty entries do not count as a match during chain resolution.
func (b Blob) HasLanguage(language string) bool {
	return len(b[language]) > 0
}

// Set stores a value under a language/field pair, creating the language entry
// when needed. It returns the possibly newly allocated blob; callers must
// reassign, as with append.
func (b Blob) Set(language, field string, value any) Blob {
	if b == nil {
		b = Blob{}
	}
	entry, ok := b[language]
	if !ok {
		entry = map[string]any{}
		b[language] = entry
	}
	entry[field] = value
	return b
}

// Clone returns a deep copy of the language/field structure. Values are
// copied by reference.
func (b Blob) Clone() Blob {
	if b == nil {
		return nil
	}
	out := make(Blob, len(b))
	for language, entry := range b {
		fields := make(map[string]any, len(entry))
		for field, value := range entry {
			fields[field] = value
		}
		out[language] = fields
	}
	return out
}

// Value implements driver.Valuer so bun persists the blob as a JSON document.
// A nil blob persists as NULL rather than an empty object.
func (b Blob) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("record: marshal translations: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner. NULL and empty-string column values scan to a
// nil blob.
func (b *Blob) Scan(src any) error {
	if src == nil {
		*b = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("record: cannot scan %T into Blob", src)
	}

	if len(data) == 0 {
		*b = nil
		return nil
	}

	var decoded Blob
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("record: unmarshal translations: %w", err)
	}
	*b = decoded
	return nil
}
