package record

import (
	"github.com/goliatone/go-translations/internal/lang"
)

// Engine resolves and routes translated values for Record instances. It holds
// the language Resolver as its single policy object; all mutation of a
// record's transient state runs through it.
type Engine struct {
	langs *lang.Resolver
}

// NewEngine constructs an engine around a language resolver.
func NewEngine(langs *lang.Resolver) *Engine {
	return &Engine{langs: langs}
}

// Resolver exposes the language policy shared with query sets and managers.
func (e *Engine) Resolver() *lang.Resolver {
	return e.langs
}

type languageOptions struct {
	fallback bool
}

// LanguageOption customizes a language switch.
type LanguageOption func(*languageOptions)

// WithoutFallback restricts resolution to the exact requested language.
// Bulk reads use this so listings never merge languages per item.
func WithoutFallback() LanguageOption {
	return func(o *languageOptions) { o.fallback = false }
}

// Language switches the record to the given language and returns it for
// chaining. Any previous overlay is discarded first. For the default language
// no overlay is installed. Otherwise the record's canonical translatable
// values are snapshotted, and for the record plus any related translatable
// records the fallback chain is walked in order: the first chain code with a
// non-empty blob entry wins, fields missing from that entry resolve to nil,
// and no values are merged across fallback levels.
func (e *Engine) Language(rec Record, code string, opts ...LanguageOption) Record {
	options := languageOptions{fallback: true}
	for _, opt := range opts {
		opt(&options)
	}

	e.Reset(rec)

	if e.langs.IsDefault(code) {
		rec.Translatable().language = e.langs.Normalize(code)
		return rec
	}

	chain := e.langs.FallbackChain(code, options.fallback)

	state := rec.Translatable()
	state.snapshot = e.snapshotFields(rec)

	for _, related := range relatedClosure(rec) {
		st := related.Translatable()
		if st.Translations == nil {
			continue
		}
		for _, chainCode := range chain {
			entry := st.Translations.Entry(chainCode)
			if len(entry) == 0 {
				continue
			}
			st.language = chainCode
			st.overlay = padOverlay(related, entry)
			break
		}
	}

	return rec
}

// LanguageOrDefault switches to the best available match for the code,
// falling back through the chain and ultimately to the default values.
func (e *Engine) LanguageOrDefault(rec Record, code string) Record {
	return e.Language(rec, code)
}

// LanguageOrNone switches languages only when the record can actually
// resolve the request: either the code resolves to the default language, or
// the blob holds a non-empty entry for the normalized code. Otherwise it
// reports false and leaves the record untouched.
func (e *Engine) LanguageOrNone(rec Record, code string) (Record, bool) {
	canonical := e.langs.Normalize(code)
	if e.langs.IsDefault(canonical) {
		return e.Language(rec, canonical), true
	}
	if !rec.Translatable().Translations.HasLanguage(canonical) {
		return nil, false
	}
	return e.Language(rec, code), true
}

// LanguageAsDict computes the resolved field map for the given language (or
// the currently active one when code is empty) without mutating the record.
// The fallback chain is walked for the first populated source: the canonical
// field values for the default code, else the blob entry filtered to truthy
// values within the translatable field set. An empty map means no match.
func (e *Engine) LanguageAsDict(rec Record, code string, fallback bool) map[string]any {
	state := rec.Translatable()
	if code == "" {
		code = state.language
	}

	fields := rec.TranslatableFields()

	for _, chainCode := range e.langs.FallbackChain(code, fallback) {
		if chainCode == e.langs.DefaultCode() {
			out := make(map[string]any, len(fields))
			for _, field := range fields {
				if value, ok := rec.Field(field); ok {
					out[field] = value
				}
			}
			return out
		}
		entry := state.Translations.Entry(chainCode)
		if len(entry) == 0 {
			continue
		}
		out := make(map[string]any, len(entry))
		for field, value := range entry {
			if truthy(value) && inFieldSet(fields, field) {
				out[field] = value
			}
		}
		return out
	}

	return map[string]any{}
}

// Translate sets field values for a specific language. The whole field set is
// validated before any mutation; an unknown field rejects the entire call
// with a NonTranslatableFieldError. When code is given the record switches to
// it first and the overlay is refreshed afterwards. Writes target canonical
// columns for the default language and the blob entry otherwise.
func (e *Engine) Translate(rec Record, code string, values map[string]any) error {
	fields := rec.TranslatableFields()
	for name := range values {
		if !inFieldSet(fields, name) {
			return &NonTranslatableFieldError{Field: name}
		}
	}

	state := rec.Translatable()
	active := state.language
	if code != "" {
		active = e.langs.Normalize(code)
		state.language = active
	}

	if e.langs.IsDefault(active) {
		for name, value := range values {
			if err := rec.SetField(name, value); err != nil {
				return err
			}
		}
	} else {
		for name, value := range values {
			state.Translations = state.Translations.Set(active, name, value)
		}
	}

	if code != "" {
		e.Language(rec, code)
	}
	return nil
}

// Reset discards any overlay and snapshot and restores the default language.
// Calling it on an already reset record is a no-op.
func (e *Engine) Reset(rec Record) {
	state := rec.Translatable()
	state.clearState()
	state.language = e.langs.DefaultCode()
}

// Value is the resolved read accessor for a translatable field: the overlay
// value wins when it is truthy, otherwise the canonical column value. Access
// is re-evaluated on every call, never copied.
func (e *Engine) Value(rec Record, field string) any {
	state := rec.Translatable()
	if state.overlay != nil {
		if value, ok := state.overlay[field]; ok && truthy(value) {
			return value
		}
	}
	value, _ := rec.Field(field)
	return value
}

// DefaultValue returns the canonical default-language value for a field,
// reading the snapshot captured when an overlay was installed.
func (e *Engine) DefaultValue(rec Record, field string) any {
	state := rec.Translatable()
	if state.snapshot != nil {
		if value, ok := state.snapshot[field]; ok {
			return value
		}
	}
	value, _ := rec.Field(field)
	return value
}

func (e *Engine) snapshotFields(rec Record) map[string]any {
	fields := rec.TranslatableFields()
	snapshot := make(map[string]any, len(fields))
	for _, field := range fields {
		if value, ok := rec.Field(field); ok {
			snapshot[field] = value
		}
	}
	return snapshot
}

// relatedClosure returns the record plus its directly related translatable
// records, one level deep via singular relations only.
func relatedClosure(rec Record) []Record {
	records := []Record{rec}
	if resolver, ok := rec.(RelatedResolver); ok {
		for _, related := range resolver.RelatedTranslatable() {
			if related != nil {
				records = append(records, related)
			}
		}
	}
	return records
}

// padOverlay copies a blob entry and fills every translatable field absent
// from it with nil so fallback to canonical values stays explicit.
func padOverlay(rec Record, entry map[string]any) map[string]any {
	overlay := make(map[string]any, len(entry))
	for field, value := range entry {
		overlay[field] = value
	}
	for _, field := range rec.TranslatableFields() {
		if _, ok := overlay[field]; !ok {
			overlay[field] = nil
		}
	}
	return overlay
}

func inFieldSet(fields []string, name string) bool {
	for _, field := range fields {
		if field == name {
			return true
		}
	}
	return false
}

// truthy mirrors the resolution rule for overlay values: nil, empty strings,
// and false never shadow canonical values.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	default:
		return true
	}
}
