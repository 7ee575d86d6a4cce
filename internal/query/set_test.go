package query

import (
	"context"
	"errors"
	"fmt"
	"testing"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translations/internal/lang"
	"github.com/goliatone/go-translations/internal/record"
	"github.com/goliatone/go-translations/pkg/testsupport"
)

type Fruit struct {
	bun.BaseModel `bun:"table:fruits,alias:f"`
	record.Translatable

	ID       uuid.UUID `bun:",pk,type:uuid"`
	Name     string    `bun:"name"`
	Benefits string    `bun:"benefits"`
}

func (f *Fruit) TranslatableFields() []string {
	return []string{"name", "benefits"}
}

func (f *Fruit) Field(name string) (any, bool) {
	switch name {
	case "name":
		return f.Name, true
	case "benefits":
		return f.Benefits, true
	}
	return nil, false
}

func (f *Fruit) SetField(name string, value any) error {
	str, _ := value.(string)
	switch name {
	case "name":
		f.Name = str
	case "benefits":
		f.Benefits = str
	default:
		return fmt.Errorf("query: unknown field %q", name)
	}
	return nil
}

func fruitHandlers() repository.ModelHandlers[*Fruit] {
	return repository.ModelHandlers[*Fruit]{
		NewRecord: func() *Fruit { return &Fruit{} },
		GetID: func(f *Fruit) uuid.UUID {
			return f.ID
		},
		SetID: func(f *Fruit, id uuid.UUID) {
			f.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(f *Fruit) string {
			return f.Name
		},
	}
}

type setFixture struct {
	db     *bun.DB
	repo   repository.Repository[*Fruit]
	engine *record.Engine
}

func (fx *setFixture) newSet() *Set[*Fruit] {
	return NewSet(fx.db, fx.repo, fx.engine, func() *Fruit { return &Fruit{} })
}

func newSetFixture(t *testing.T) *setFixture {
	t.Helper()

	db := testsupport.NewBunSQLite(t)
	ctx := context.Background()

	if _, err := db.NewCreateTable().Model((*Fruit)(nil)).IfNotExists().Exec(ctx); err != nil {
		t.Fatalf("create table: %v", err)
	}

	res, err := lang.NewResolver("en_us",
		map[string]string{"en": "en_us", "tr": "tr_tr", "de": "de_de"},
		map[string][]string{"fr_ca": {"fr_fr"}, "en_us": {"en_gb"}},
	)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	fruits := []*Fruit{
		{
			ID: uuid.New(), Name: "apple", Benefits: "good for health",
			Translatable: record.Translatable{Translations: record.Blob{
				"tr_tr": {"name": "elma", "benefits": "sağlık için iyi"},
				"de_de": {"name": "Apfel"},
				"fr_fr": {"name": "pomme", "benefits": "bon pour la santé"},
			}},
		},
		{
			ID: uuid.New(), Name: "pear", Benefits: "good for skin",
			Translatable: record.Translatable{Translations: record.Blob{
				"tr_tr": {"name": "armut"},
				"de_de": {"name": "Birne"},
			}},
		},
		{
			ID: uuid.New(), Name: "banana", Benefits: "high in potassium",
		},
	}
	for _, fruit := range fruits {
		if _, err := db.NewInsert().Model(fruit).Exec(ctx); err != nil {
			t.Fatalf("seed %s: %v", fruit.Name, err)
		}
	}

	return &setFixture{
		db:     db,
		repo:   repository.MustNewRepository(db, fruitHandlers()),
		engine: record.NewEngine(res),
	}
}

func TestSet_DefaultLanguagePassThrough(t *testing.T) {
	fx := newSetFixture(t)
	ctx := context.Background()

	fruits, err := fx.newSet().Where("name", "apple").All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(fruits) != 1 || fruits[0].Name != "apple" {
		t.Fatalf("expected apple, got %v", fruits)
	}

	// Default-language set: no rewrite, no row filtering.
	all, err := fx.newSet().Language("en").All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows for default language, got %d", len(all))
	}
}

func TestSet_LanguageFiltersByKey(t *testing.T) {
	fx := newSetFixture(t)
	ctx := context.Background()

	// banana has no tr_tr entry and must be excluded.
	fruits, err := fx.newSet().Language("tr").All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(fruits) != 2 {
		t.Fatalf("expected 2 rows with tr_tr key, got %d", len(fruits))
	}
	for _, fruit := range fruits {
		if got := fruit.ActiveLanguage(); got != "tr_tr" {
			t.Fatalf("expected resolved tr_tr, got %q", got)
		}
	}
}

func TestSet_LanguageOrDefaultKeepsAllRows(t *testing.T) {
	fx := newSetFixture(t)
	ctx := context.Background()

	fruits, err := fx.newSet().LanguageOrDefault("tr_tr").All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(fruits) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(fruits))
	}

	names := map[string]bool{}
	for _, fruit := range fruits {
		name, _ := fx.engine.Value(fruit, "name").(string)
		names[name] = true
	}
	// banana resolves to its canonical name.
	for _, want := range []string{"elma", "armut", "banana"} {
		if !names[want] {
			t.Fatalf("expected %q in %v", want, names)
		}
	}
}

func TestSet_BulkResolutionHasNoFallback(t *testing.T) {
	fx := newSetFixture(t)
	ctx := context.Background()

	// fr_ca falls back to fr_fr for single records, but bulk resolution is
	// strict: rows without the exact key are filtered, and matched rows
	// never borrow values from fallback codes.
	fruits, err := fx.newSet().Language("fr_ca").All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(fruits) != 0 {
		t.Fatalf("expected no rows with fr_ca key, got %d", len(fruits))
	}
}

func TestSet_WhereRewrite(t *testing.T) {
	fx := newSetFixture(t)
	ctx := context.Background()

	fruit, err := fx.newSet().Language("de_de").Where("name", "Apfel").One(ctx)
	if err != nil {
		t.Fatalf("One() error = %v", err)
	}
	if got := fx.engine.Value(fruit, "name"); got != "Apfel" {
		t.Fatalf("expected Apfel, got %v", got)
	}
	if fruit.Name != "apple" {
		t.Fatalf("canonical column must stay apple, got %q", fruit.Name)
	}

	// Non-translatable predicates pass through untouched.
	if _, err := fx.newSet().Language("de_de").Where("id", fruit.ID).One(ctx); err != nil {
		t.Fatalf("One() by id error = %v", err)
	}
}

func TestSet_WhereContainsRewrite(t *testing.T) {
	fx := newSetFixture(t)
	ctx := context.Background()

	fruits, err := fx.newSet().Language("de_de").WhereContains("name", "pfel").All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(fruits) != 1 {
		t.Fatalf("expected 1 match, got %d", len(fruits))
	}

	// Translated substring matches are case-insensitive.
	fruits, err = fx.newSet().Language("de_de").WhereContains("name", "APFEL").All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(fruits) != 1 {
		t.Fatalf("expected case-insensitive match, got %d", len(fruits))
	}
}

func TestSet_OneNotFound(t *testing.T) {
	fx := newSetFixture(t)

	_, err := fx.newSet().Language("de_de").Where("name", "Ananas").One(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
}

func TestSet_Values(t *testing.T) {
	fx := newSetFixture(t)
	ctx := context.Background()

	rows, err := fx.newSet().Language("de_de").Where("name", "Apfel").Values(ctx, "name", "benefits")
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row["name"] != "Apfel" {
		t.Fatalf("expected projected name Apfel, got %v", row["name"])
	}
	if _, ok := row["name_de_de"]; ok {
		t.Fatalf("synthetic alias must be dropped: %v", row)
	}

	// Default language projects canonical columns untouched.
	rows, err = fx.newSet().Where("name", "apple").Values(ctx, "name")
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "apple" {
		t.Fatalf("expected canonical apple, got %v", rows)
	}
}

func TestSet_OrderByPath(t *testing.T) {
	fx := newSetFixture(t)
	ctx := context.Background()

	fruits, err := fx.newSet().Language("de_de").OrderByPath("name").All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	got := make([]string, 0, len(fruits))
	for _, fruit := range fruits {
		name, _ := fx.engine.Value(fruit, "name").(string)
		got = append(got, name)
	}
	want := []string{"Apfel", "Birne"}
	if len(got) != len(want) {
		t.Fatalf("ascending order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ascending order = %v, want %v", got, want)
		}
	}

	fruits, err = fx.newSet().Language("de_de").OrderByPath("name", Descending()).All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	got = got[:0]
	for _, fruit := range fruits {
		name, _ := fx.engine.Value(fruit, "name").(string)
		got = append(got, name)
	}
	want = []string{"Birne", "Apfel"}
	if len(got) != len(want) {
		t.Fatalf("descending order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("descending order = %v, want %v", got, want)
		}
	}
}

func TestSet_OrderByPathExplicitLanguage(t *testing.T) {
	fx := newSetFixture(t)
	ctx := context.Background()

	// Ordering language can differ from the set language.
	fruits, err := fx.newSet().
		LanguageOrDefault("en_us").
		OrderByPath("name", InLanguage("tr_tr"), Descending()).
		All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(fruits) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(fruits))
	}
	// tr_tr names descending: elma, armut, then banana whose missing entry
	// extracts as NULL and sorts last.
	if fruits[0].Name != "apple" {
		t.Fatalf("expected apple (elma) first, got %q", fruits[0].Name)
	}
}
