package query

import (
	"context"

	"github.com/uptrace/bun"
)

type orderOptions struct {
	desc     bool
	language string
}

// OrderOption customizes OrderByPath.
type OrderOption func(*orderOptions)

// Descending orders results from high to low.
func Descending() OrderOption {
	return func(o *orderOptions) { o.desc = true }
}

// InLanguage overrides the set's active language for the ordering
// expression only.
func InLanguage(code string) OrderOption {
	return func(o *orderOptions) { o.language = code }
}

// OrderByPath orders by the value extracted at {language, path} inside the
// translations document. The extraction is pushed down to the store as a
// native path expression; rows are never sorted in memory. The path may use
// dots to descend into nested fields.
func (s *Set[T]) OrderByPath(path string, opts ...OrderOption) *Set[T] {
	options := orderOptions{language: s.language}
	for _, opt := range opts {
		opt(&options)
	}
	if options.language == "" {
		options.language = s.engine.Resolver().DefaultCode()
	} else {
		options.language = s.engine.Resolver().Normalize(options.language)
	}

	direction := "ASC"
	if options.desc {
		direction = "DESC"
	}

	expr, arg := s.pathSQL(options.language, path)
	s.procs = append(s.procs, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr(expr+" "+direction, arg)
	})
	return s
}

// Values executes the query projected to the requested fields and returns
// one map per row. With a non-default language active, every translatable
// field is additionally fetched from the translations document under a
// synthetic <field>_<language> alias; each row is then post-processed to
// overwrite the canonical value with the translated one and the alias is
// dropped. Non-translatable fields pass through unchanged.
func (s *Set[T]) Values(ctx context.Context, fields ...string) ([]map[string]any, error) {
	q := s.db.NewSelect().Model(s.newRecord())

	aliases := map[string]string{}
	for _, field := range fields {
		q = q.Column(field)
		if !s.rewrites(field) {
			continue
		}
		alias := field + "_" + s.language
		expr, arg := s.pathSQL(s.language, field)
		q = q.ColumnExpr(expr+" AS ?", arg, bun.Ident(alias))
		aliases[field] = alias
	}

	q = s.apply(q)

	var rows []map[string]any
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, err
	}

	for _, row := range rows {
		for field, alias := range aliases {
			row[field] = row[alias]
			delete(row, alias)
		}
	}
	return rows, nil
}
