package schema_test

import (
	"reflect"
	"testing"

	"github.com/guestify/kitstate/internal/schema"
	"github.com/guestify/kitstate/internal/structural"
	"github.com/guestify/kitstate/model"
)

func TestDefaultStateConformsToDocument(t *testing.T) {
	state := schema.DefaultState()
	if errs := structural.Validate(map[string]any(state), schema.Document); len(errs) != 0 {
		t.Fatalf("default state must conform to the document schema, got %v", errs)
	}
}

func TestDefaultStateIsFresh(t *testing.T) {
	a := schema.DefaultState()
	b := schema.DefaultState()
	a["layout"] = append(a["layout"].([]any), "hero-1")
	a.GlobalSettings()["theme"].(map[string]any)["primaryColor"] = "#000000"

	if len(b["layout"].([]any)) != 0 {
		t.Error("layout mutation leaked between DefaultState calls")
	}
	if b.GlobalSettings()["theme"].(map[string]any)["primaryColor"] != "#2196F3" {
		t.Error("theme mutation leaked between DefaultState calls")
	}
}

func TestDocumentRejectsUnknownTopLevelKey(t *testing.T) {
	state := schema.DefaultState()
	state["surprise"] = true
	if errs := structural.Validate(map[string]any(state), schema.Document); len(errs) == 0 {
		t.Fatal("unknown top-level key must be rejected")
	}
}

func TestTransactionSchemasCoverAllTypes(t *testing.T) {
	types := []string{
		model.TxAddComponent, model.TxRemoveComponent, model.TxUpdateComponent,
		model.TxMoveComponent, model.TxSetLayout, model.TxSetState,
		model.TxUpdateGlobalSettings, model.TxAddSection, model.TxRemoveSection,
		model.TxUpdateSection, model.TxUpdateSections,
	}
	for _, typ := range types {
		if _, ok := schema.Transactions[typ]; !ok {
			t.Errorf("no schema registered for %s", typ)
		}
	}
	if len(schema.Transactions) != len(types) {
		t.Errorf("registered %d transaction schemas, want %d", len(schema.Transactions), len(types))
	}
}

func TestMigrateFromLegacy(t *testing.T) {
	legacy := model.State{
		"layout": []any{"hero-1"},
		"components": map[string]any{
			"hero-1": map[string]any{"id": "hero-1", "type": "hero"},
		},
		"version": "1.0.0",
	}

	migrated, changed := schema.Migrate(legacy)
	if !changed {
		t.Fatal("migration from 1.0.0 must report a change")
	}
	if got := migrated.Version(); got != schema.CurrentVersion {
		t.Errorf("version = %q, want %q", got, schema.CurrentVersion)
	}
	if _, ok := migrated["sections"]; !ok {
		t.Error("sections must be introduced by migration")
	}
	if migrated["globalSettings"] == nil {
		t.Error("globalSettings must be filled in by migration")
	}
}

func TestMigrateTreatsMissingVersionAsLegacy(t *testing.T) {
	state := model.State{"layout": []any{}, "components": map[string]any{}}
	migrated, changed := schema.Migrate(state)
	if !changed {
		t.Fatal("missing version must be treated as 1.0.0")
	}
	if got := migrated.Version(); got != schema.CurrentVersion {
		t.Errorf("version = %q, want %q", got, schema.CurrentVersion)
	}
}

func TestMigrateCurrentVersionIsNoop(t *testing.T) {
	state := schema.DefaultState()
	migrated, changed := schema.Migrate(state)
	if changed {
		t.Fatal("current-version document must not be migrated")
	}
	if !reflect.DeepEqual(map[string]any(migrated), map[string]any(state)) {
		t.Error("no-op migration must return the document unchanged")
	}
}

func TestMigrateDoesNotMutateInput(t *testing.T) {
	legacy := model.State{"version": "1.0.0"}
	schema.Migrate(legacy)
	if legacy.Version() != "1.0.0" {
		t.Error("migration must not mutate its input")
	}
}

func TestMigrationChainIsContiguous(t *testing.T) {
	for i := 1; i < len(schema.Migrations); i++ {
		if schema.Migrations[i].From != schema.Migrations[i-1].To {
			t.Errorf("migration chain broken between %q and %q",
				schema.Migrations[i-1].To, schema.Migrations[i].From)
		}
	}
	last := schema.Migrations[len(schema.Migrations)-1]
	if last.To != schema.CurrentVersion {
		t.Errorf("chain ends at %q, want %q", last.To, schema.CurrentVersion)
	}
}

func TestKnownComponentType(t *testing.T) {
	if !schema.KnownComponentType("hero") {
		t.Error("hero must be a known type")
	}
	if schema.KnownComponentType("hologram") {
		t.Error("hologram must not be a known type")
	}
}
