package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/goliatone/go-translations/internal/record"
)

// ErrNotFound indicates a single-record lookup matched no rows.
var ErrNotFound = errors.New("query: record not found")

// NotFoundError carries lookup context and unwraps to ErrNotFound.
type NotFoundError struct {
	Field string
	Value any
}

func (e *NotFoundError) Error() string {
	if e == nil || e.Field == "" {
		return ErrNotFound.Error()
	}
	return fmt.Sprintf("%s: %s=%v", ErrNotFound.Error(), e.Field, e.Value)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Set is a language-aware query builder over a translatable model. Filters,
// projections, and ordering that touch translatable fields are rewritten to
// target the translations document whenever a non-default language is
// active; with the default language everything operates on canonical
// columns unchanged. Materialization applies a strict, no-fallback language
// switch to every record produced, so listings never merge languages per
// item.
//
// A Set accumulates state and is not safe for reuse across queries; build a
// fresh one per request.
type Set[T record.Record] struct {
	db        *bun.DB
	repo      repository.Repository[T]
	engine    *record.Engine
	newRecord func() T

	fields   []string
	language string
	procs    []func(*bun.SelectQuery) *bun.SelectQuery
}

// NewSet builds a query set for the model produced by newRecord.
func NewSet[T record.Record](db *bun.DB, repo repository.Repository[T], engine *record.Engine, newRecord func() T) *Set[T] {
	return &Set[T]{
		db:        db,
		repo:      repo,
		engine:    engine,
		newRecord: newRecord,
		fields:    newRecord().TranslatableFields(),
	}
}

// Language activates a target language for the set. For non-default
// languages only rows whose translation document contains the language key
// are returned.
func (s *Set[T]) Language(code string) *Set[T] {
	langs := s.engine.Resolver()
	s.language = langs.Normalize(code)
	if langs.IsDefault(s.language) {
		return s
	}
	key := s.language
	s.procs = append(s.procs, func(q *bun.SelectQuery) *bun.SelectQuery {
		expr, arg := s.hasKeySQL(key)
		return q.Where(expr, arg)
	})
	return s
}

// LanguageOrDefault activates a target language without filtering rows;
// records missing the language fall back to their canonical values on read.
func (s *Set[T]) LanguageOrDefault(code string) *Set[T] {
	s.language = s.engine.Resolver().Normalize(code)
	return s
}

// Where adds an equality predicate. Predicates naming a translatable field
// are redirected at the translation document when a non-default language is
// active.
func (s *Set[T]) Where(field string, value any) *Set[T] {
	if s.rewrites(field) {
		expr, arg := s.pathSQL(s.language, field)
		s.procs = append(s.procs, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where(expr+" = ?", arg, value)
		})
		return s
	}
	s.procs = append(s.procs, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? = ?", bun.Ident(field), value)
	})
	return s
}

// WhereContains adds a substring predicate. Canonical-column matches stay
// case-sensitive while translation-document matches are case-insensitive, an
// asymmetry kept for backward compatibility with existing callers.
func (s *Set[T]) WhereContains(field, substr string) *Set[T] {
	pattern := "%" + substr + "%"
	if s.rewrites(field) {
		expr, arg := s.pathSQL(s.language, field)
		s.procs = append(s.procs, func(q *bun.SelectQuery) *bun.SelectQuery {
			if s.pg() {
				return q.Where(expr+" ILIKE ?", arg, pattern)
			}
			return q.Where("LOWER("+expr+") LIKE LOWER(?)", arg, pattern)
		})
		return s
	}
	s.procs = append(s.procs, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? LIKE ?", bun.Ident(field), pattern)
	})
	return s
}

// All executes the query and resolves every record to the active language
// with fallback disabled.
func (s *Set[T]) All(ctx context.Context) ([]T, error) {
	records, _, err := s.repo.List(ctx, repository.SelectRawProcessor(s.apply))
	if err != nil {
		return nil, err
	}
	s.resolve(records)
	return records, nil
}

// One executes the query limited to a single record.
func (s *Set[T]) One(ctx context.Context) (T, error) {
	var zero T
	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(s.apply),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return zero, err
	}
	if len(records) == 0 {
		return zero, &NotFoundError{Field: "language", Value: s.language}
	}
	s.resolve(records)
	return records[0], nil
}

func (s *Set[T]) resolve(records []T) {
	if s.language == "" {
		return
	}
	for _, rec := range records {
		s.engine.Language(rec, s.language, record.WithoutFallback())
	}
}

func (s *Set[T]) apply(q *bun.SelectQuery) *bun.SelectQuery {
	for _, proc := range s.procs {
		q = proc(q)
	}
	return q
}

func (s *Set[T]) rewrites(field string) bool {
	if s.language == "" || s.engine.Resolver().IsDefault(s.language) {
		return false
	}
	for _, f := range s.fields {
		if f == field {
			return true
		}
	}
	return false
}

func (s *Set[T]) pg() bool {
	return s.db.Dialect().Name() == dialect.PG
}

// pathSQL builds the dialect-native expression extracting the text value at
// {language, field...} inside the translations document.
func (s *Set[T]) pathSQL(language string, path string) (string, any) {
	segments := append([]string{language}, strings.Split(path, ".")...)
	if s.pg() {
		return "?TableAlias.translations #>> ?", "{" + strings.Join(segments, ",") + "}"
	}
	var sb strings.Builder
	sb.WriteString("$")
	for _, seg := range segments {
		sb.WriteString(`."`)
		sb.WriteString(seg)
		sb.WriteString(`"`)
	}
	return "json_extract(?TableAlias.translations, ?)", sb.String()
}

// hasKeySQL builds the dialect-native key-existence predicate for a language
// key in the translations document.
func (s *Set[T]) hasKeySQL(language string) (string, any) {
	if s.pg() {
		return "jsonb_exists(?TableAlias.translations, ?)", language
	}
	return "json_extract(?TableAlias.translations, ?) IS NOT NULL", `$."` + language + `"`
}
