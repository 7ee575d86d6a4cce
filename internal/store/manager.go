package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translations/internal/lang"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/internal/record"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// ErrRecordNotFound indicates a lookup matched no persisted record.
var ErrRecordNotFound = errors.New("store: record not found")

// NotFoundError carries the resource and key of a failed lookup and unwraps
// to ErrRecordNotFound.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrRecordNotFound.Error()
	}
	return fmt.Sprintf("%s: %s %q", ErrRecordNotFound.Error(), e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrRecordNotFound
}

// Handlers supplies the model plumbing the manager needs: a factory and
// identifier accessors. The shape mirrors go-repository-bun's ModelHandlers
// so callers define both from the same functions.
type Handlers[T record.Record] struct {
	NewRecord func() T
	GetID     func(T) uuid.UUID
	SetID     func(T, uuid.UUID)
}

// Manager persists translatable records. Writes are routed per field into
// either canonical columns or the translations document depending on the
// active language, and canonical values are never clobbered by non-default
// saves on existing records.
type Manager[T record.Record] struct {
	db       *bun.DB
	engine   *record.Engine
	repo     repository.Repository[T]
	handlers Handlers[T]
	resource string
	logger   interfaces.Logger
}

// ManagerOption customizes a Manager.
type ManagerOption[T record.Record] func(*Manager[T])

// WithLogger attaches a logger; nil keeps the no-op default.
func WithLogger[T record.Record](logger interfaces.Logger) ManagerOption[T] {
	return func(m *Manager[T]) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager constructs a manager around a bun database and a repository for
// the same model. The resource name appears in not-found errors.
func NewManager[T record.Record](db *bun.DB, engine *record.Engine, repo repository.Repository[T], handlers Handlers[T], resource string, opts ...ManagerOption[T]) *Manager[T] {
	m := &Manager[T]{
		db:       db,
		engine:   engine,
		repo:     repo,
		handlers: handlers,
		resource: resource,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type saveOptions struct {
	language string
}

// SaveOption customizes a save.
type SaveOption func(*saveOptions)

// WithLanguage sets the language the save routes for, overriding the ambient
// context code.
func WithLanguage(code string) SaveOption {
	return func(o *saveOptions) { o.language = code }
}

// Save persists the record, routing translatable fields by the active
// language: the explicit WithLanguage code if given, else the ambient code
// carried by the context, else the default.
//
// For the default language canonical columns are written as-is and the
// translations document is untouched. For a non-default language the
// previously persisted row is fetched and every translatable field's current
// in-memory value is copied into the document under the active language;
// canonical fields that drifted from the persisted values are restored
// before the write. New records persist identical canonical and document
// content. The fetch and write run inside a single transaction so a
// concurrent save cannot interleave between them. After the write the
// record's overlay is refreshed for the active language.
func (m *Manager[T]) Save(ctx context.Context, rec T, opts ...SaveOption) error {
	options := saveOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	code := options.language
	if code == "" {
		code = lang.LanguageFromContext(ctx)
	}

	langs := m.engine.Resolver()
	m.engine.Reset(rec)

	if langs.IsDefault(code) {
		if err := m.persist(ctx, m.db, rec, m.exists(ctx, rec)); err != nil {
			return err
		}
		m.engine.Language(rec, code)
		return nil
	}

	canonical := langs.Normalize(code)
	m.logger.Debug("routing save to translations", "resource", m.resource, "language", canonical)

	err := m.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		prev, prevFound, err := m.fetchPrevious(ctx, tx, rec)
		if err != nil {
			return err
		}

		state := rec.Translatable()
		for _, field := range rec.TranslatableFields() {
			current, _ := rec.Field(field)
			state.Translations = state.Translations.Set(canonical, field, current)
		}

		if prevFound {
			for _, field := range rec.TranslatableFields() {
				previous, _ := prev.Field(field)
				current, _ := rec.Field(field)
				if !valuesEqual(previous, current) {
					if err := rec.SetField(field, previous); err != nil {
						return err
					}
				}
			}
		}

		return m.persist(ctx, tx, rec, prevFound)
	})
	if err != nil {
		return err
	}

	m.engine.Language(rec, canonical)
	return nil
}

// Get loads a record by ID through the repository.
func (m *Manager[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	result, err := m.repo.GetByID(ctx, id.String())
	if err != nil {
		var zero T
		return zero, m.mapRepositoryError(err, id.String())
	}
	return result, nil
}

// Delete removes a record by ID through the repository.
func (m *Manager[T]) Delete(ctx context.Context, id uuid.UUID) error {
	rec := m.handlers.NewRecord()
	m.handlers.SetID(rec, id)
	return m.repo.Delete(ctx, rec)
}

// fetchPrevious reads the persisted version of the record inside the
// transaction. It is a fresh read, never the in-memory snapshot.
func (m *Manager[T]) fetchPrevious(ctx context.Context, tx bun.Tx, rec T) (T, bool, error) {
	var zero T
	id := m.handlers.GetID(rec)
	if id == uuid.Nil {
		return zero, false, nil
	}
	prev := m.handlers.NewRecord()
	m.handlers.SetID(prev, id)
	err := tx.NewSelect().Model(prev).WherePK().Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, err
	}
	return prev, true, nil
}

func (m *Manager[T]) exists(ctx context.Context, rec T) bool {
	id := m.handlers.GetID(rec)
	if id == uuid.Nil {
		return false
	}
	probe := m.handlers.NewRecord()
	m.handlers.SetID(probe, id)
	count, err := m.db.NewSelect().Model(probe).WherePK().Count(ctx)
	return err == nil && count > 0
}

func (m *Manager[T]) persist(ctx context.Context, db bun.IDB, rec T, exists bool) error {
	if !exists {
		if m.handlers.GetID(rec) == uuid.Nil {
			m.handlers.SetID(rec, uuid.New())
		}
		if _, err := db.NewInsert().Model(rec).Exec(ctx); err != nil {
			return err
		}
		return nil
	}
	if _, err := db.NewUpdate().Model(rec).WherePK().Exec(ctx); err != nil {
		return err
	}
	return nil
}

func (m *Manager[T]) mapRepositoryError(err error, key string) error {
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: m.resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", m.resource, err)
}

func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
