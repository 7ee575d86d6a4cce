package translations

import (
	"github.com/goliatone/go-translations/internal/lang"
	"github.com/goliatone/go-translations/internal/query"
	"github.com/goliatone/go-translations/internal/record"
	"github.com/goliatone/go-translations/internal/store"
)

var (
	// ErrNonTranslatableField indicates an attempt to translate a field
	// outside a record's translatable field set.
	ErrNonTranslatableField = record.ErrNonTranslatableField
	// ErrRecordNotFound indicates a manager lookup matched no record.
	ErrRecordNotFound = store.ErrRecordNotFound
	// ErrQueryNotFound indicates a single-record query matched no rows.
	ErrQueryNotFound = query.ErrNotFound
	// ErrDefaultLanguageRequired indicates a missing default language code.
	ErrDefaultLanguageRequired = lang.ErrDefaultLanguageRequired
	// ErrFallbackTableInvalid indicates a malformed fallback table.
	ErrFallbackTableInvalid = lang.ErrFallbackTableInvalid
)

type (
	// NonTranslatableFieldError carries the offending field name.
	NonTranslatableFieldError = record.NonTranslatableFieldError
	// NotFoundError carries the resource and key of a failed lookup.
	NotFoundError = store.NotFoundError
)
