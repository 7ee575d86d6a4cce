package record

// Record is the contract translatable models implement. Models embed
// Translatable for the translations column and transient resolution state,
// and expose their translatable columns through Field/SetField so the engine
// can resolve and route values without reflection.
type Record interface {
	// Translatable returns the embedded translation state.
	Translatable() *Translatable
	// TranslatableFields lists the column names eligible for translation.
	TranslatableFields() []string
	// Field returns the canonical in-memory value of a column. The second
	// return reports whether the name is a known field.
	Field(name string) (any, bool)
	// SetField assigns a canonical column value.
	SetField(name string, value any) error
}

// RelatedResolver is an optional extension for records with singular
// relations to other translatable records. Language switches resolve the
// returned records alongside the receiver, one level deep.
type RelatedResolver interface {
	RelatedTranslatable() []Record
}

// Translatable is embedded into bun models. It carries the persisted
// translations column plus the transient per-record resolution state: the
// active language, the resolved overlay, and the snapshot of canonical
// values captured while an overlay is active. The transient state is owned
// exclusively by the record instance and is never shared.
type Translatable struct {
	Translations Blob `bun:"translations,type:jsonb" json:"translations,omitempty"`

	language string
	overlay  map[string]any
	snapshot map[string]any
}

// Translatable satisfies Record for embedding models.
func (t *Translatable) Translatable() *Translatable { return t }

// ActiveLanguage returns the language code currently in effect for the
// record, or empty when no switch has happened yet.
func (t *Translatable) ActiveLanguage() string { return t.language }

// HasOverlay reports whether a resolved overlay is installed.
func (t *Translatable) HasOverlay() bool { return t.overlay != nil }

func (t *Translatable) clearState() {
	t.overlay = nil
	t.snapshot = nil
	t.language = ""
}
