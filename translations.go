// Package translations adds per-record, multi-language field translation on
// top of a bun-backed relational store. A record keeps its default-language
// values in ordinary columns and every other language variant inside a
// structured translations document; the module resolves the right variant on
// read, routes field writes to the correct destination, and rewrites
// collection queries so predicates transparently target the active language.
package translations

import (
	"context"
	"net/http"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	internalhttp "github.com/goliatone/go-translations/internal/http"
	"github.com/goliatone/go-translations/internal/lang"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/internal/query"
	"github.com/goliatone/go-translations/internal/record"
	"github.com/goliatone/go-translations/internal/store"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// Module bundles the language policy shared by records, query sets, and save
// managers built from one configuration.
type Module struct {
	cfg      Config
	langs    *lang.Resolver
	engine   *record.Engine
	provider interfaces.LoggerProvider

	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
}

// Option customizes a Module.
type Option func(*Module)

// WithLoggerProvider attaches a logger provider; components receive scoped
// child loggers from it.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) { m.provider = provider }
}

// WithRepositoryCache enables the repository caching layer for managers
// built from this module.
func WithRepositoryCache(service cache.CacheService, serializer cache.KeySerializer) Option {
	return func(m *Module) {
		m.cacheService = service
		m.keySerializer = serializer
	}
}

// New validates the configuration and builds a module.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	langs, err := lang.NewResolver(cfg.DefaultLanguage, cfg.Aliases, cfg.Fallbacks)
	if err != nil {
		return nil, err
	}

	m := &Module{
		cfg:    cfg,
		langs:  langs,
		engine: record.NewEngine(langs),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Languages exposes the language code resolver.
func (m *Module) Languages() *lang.Resolver {
	return m.langs
}

// Records exposes the per-record resolution engine.
func (m *Module) Records() *record.Engine {
	return m.engine
}

// Middleware returns the ambient-language HTTP middleware for the configured
// override header.
func (m *Module) Middleware() func(http.Handler) http.Handler {
	return internalhttp.LanguageMiddleware(m.langs, m.cfg.OverrideHeader, logging.HTTPLogger(m.provider))
}

// NewManager builds a save manager for a translatable model. The resource
// name appears in not-found errors.
func NewManager[T Record](m *Module, db *bun.DB, handlers ModelHandlers[T], resource string) *Manager[T] {
	repo := store.NewRepositoryWithCache(db, handlers, m.cacheService, m.keySerializer)
	return store.NewManager(db, m.engine, repo,
		store.Handlers[T]{
			NewRecord: handlers.NewRecord,
			GetID:     handlers.GetID,
			SetID:     handlers.SetID,
		},
		resource,
		store.WithLogger[T](logging.StoreLogger(m.provider)),
	)
}

// NewSet builds a language-aware query set for a translatable model.
func NewSet[T Record](m *Module, db *bun.DB, handlers ModelHandlers[T]) *Set[T] {
	repo := store.NewRepositoryWithCache(db, handlers, m.cacheService, m.keySerializer)
	return query.NewSet(db, repo, m.engine, handlers.NewRecord)
}

// Public surface re-exported from the internal packages.
type (
	// Record is the contract translatable models implement.
	Record = record.Record
	// RelatedResolver marks records with singular translatable relations.
	RelatedResolver = record.RelatedResolver
	// Translatable is embedded into bun models for the translations column
	// and transient resolution state.
	Translatable = record.Translatable
	// Blob is the persisted language-to-fields document.
	Blob = record.Blob
	// Engine resolves and routes translated values.
	Engine = record.Engine
	// LanguageOption customizes a language switch.
	LanguageOption = record.LanguageOption

	// Manager persists translatable records.
	Manager[T Record] = store.Manager[T]
	// Handlers supplies model plumbing to a manager.
	Handlers[T Record] = store.Handlers[T]
	// SaveOption customizes a save.
	SaveOption = store.SaveOption

	// Set is a language-aware query builder.
	Set[T Record] = query.Set[T]
	// OrderOption customizes OrderByPath.
	OrderOption = query.OrderOption

	// ModelHandlers aliases go-repository-bun's model handlers.
	ModelHandlers[T Record] = repository.ModelHandlers[T]
	// Repository aliases go-repository-bun's repository contract.
	Repository[T Record] = repository.Repository[T]

	// Logger is the leveled logging contract.
	Logger = interfaces.Logger
	// LoggerProvider exposes named loggers.
	LoggerProvider = interfaces.LoggerProvider
)

// WithoutFallback restricts a language switch to the exact requested code.
func WithoutFallback() LanguageOption { return record.WithoutFallback() }

// WithLanguage routes a save for an explicit language code.
func WithLanguage(code string) SaveOption { return store.WithLanguage(code) }

// Descending orders OrderByPath results from high to low.
func Descending() OrderOption { return query.Descending() }

// InLanguage overrides the ordering language for OrderByPath.
func InLanguage(code string) OrderOption { return query.InLanguage(code) }

// ContextWithLanguage returns a context carrying the ambient language code.
func ContextWithLanguage(ctx context.Context, code string) context.Context {
	return lang.ContextWithLanguage(ctx, code)
}

// LanguageFromContext returns the ambient language code, or empty.
func LanguageFromContext(ctx context.Context) string {
	return lang.LanguageFromContext(ctx)
}
