package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"

	translations "github.com/goliatone/go-translations"
	"github.com/goliatone/go-translations/internal/logging/gologger"
)

// Fruit keeps its English values in ordinary columns and every other
// language inside the translations document.
type Fruit struct {
	bun.BaseModel `bun:"table:fruits,alias:f"`
	translations.Translatable

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
		return fmt.Errorf("fruit: unknown field %q", name)
	}
	return nil
}

func fruitHandlers() translations.ModelHandlers[*Fruit] {
	return translations.ModelHandlers[*Fruit]{
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

func main() {
	ctx := context.Background()

	sqldb, err := sql.Open("sqlite3", "file:example?mode=memory&cache=shared&_fk=1")
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer sqldb.Close()

	db := translations.NewDB(sqldb, translations.DriverSQLite)
	db.SetMaxOpenConns(1)
	if _, err := db.NewCreateTable().Model((*Fruit)(nil)).IfNotExists().Exec(ctx); err != nil {
		log.Fatalf("create table: %v", err)
	}

	provider, err := gologger.NewProvider(gologger.Config{Level: "debug", Format: "console"})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	cfg := translations.DefaultConfig()
	cfg.Aliases = map[string]string{"en": "en_us", "tr": "tr_tr", "de": "de_de", "fr": "fr_fr"}
	cfg.Fallbacks = map[string][]string{"fr_ca": {"fr_fr"}, "en_us": {"en_gb"}}

	module, err := translations.New(cfg, translations.WithLoggerProvider(provider))
	if err != nil {
		log.Fatalf("initialise translations: %v", err)
	}

	manager := translations.NewManager(module, db, fruitHandlers(), "fruit")
	engine := module.Records()

	apple := &Fruit{Name: "apple", Benefits: "good for health"}
	if err := manager.Save(ctx, apple); err != nil {
		log.Fatalf("save apple: %v", err)
	}

	// Route a save into the Turkish variant. The canonical columns keep
	// their English values.
	apple.Name = "elma"
	apple.Benefits = "sağlık için iyi"
	if err := manager.Save(ctx, apple, translations.WithLanguage("tr")); err != nil {
		log.Fatalf("save turkish: %v", err)
	}
	fmt.Printf("canonical: %s / %s\n", apple.Name, apple.Benefits)
	fmt.Printf("active tr: %v / %v\n", engine.Value(apple, "name"), engine.Value(apple, "benefits"))

	if err := engine.Translate(apple, "fr_fr", map[string]any{"name": "pomme"}); err != nil {
		log.Fatalf("translate french: %v", err)
	}
	if err := manager.Save(ctx, apple); err != nil {
		log.Fatalf("save french variant: %v", err)
	}

	// Quebec French resolves through the fallback table.
	engine.Language(apple, "fr_ca")
	fmt.Printf("fr_ca via fallback: %v\n", engine.Value(apple, "name"))

	pear := &Fruit{Name: "pear", Benefits: "good for skin"}
	if err := manager.Save(ctx, pear); err != nil {
		log.Fatalf("save pear: %v", err)
	}
	if err := engine.Translate(pear, "tr_tr", map[string]any{"name": "armut"}); err != nil {
		log.Fatalf("translate pear: %v", err)
	}
	if err := manager.Save(ctx, pear); err != nil {
		log.Fatalf("save pear blob: %v", err)
	}

	// Language-aware querying: predicates and ordering target the active
	// language's values inside the translations document.
	fruits, err := translations.NewSet(module, db, fruitHandlers()).
		Language("tr").
		OrderByPath("name").
		All(ctx)
	if err != nil {
		log.Fatalf("query turkish: %v", err)
	}
	for _, fruit := range fruits {
		fmt.Printf("tr listing: %v (canonical %s)\n", engine.Value(fruit, "name"), fruit.Name)
	}

	rows, err := translations.NewSet(module, db, fruitHandlers()).
		Language("tr").
		Values(ctx, "name", "benefits")
	if err != nil {
		log.Fatalf("project turkish: %v", err)
	}
	for _, row := range rows {
		fmt.Printf("tr values: %v\n", row)
	}
}
