package document

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/guestify/kitstate/internal/schema"
	"github.com/guestify/kitstate/model"
)

func TestRepairStateNil(t *testing.T) {
	v := newTestValidator()
	repaired := v.RepairState(nil)
	if res := v.ValidateState(repaired, ValidateOptions{}); !res.Valid {
		t.Fatalf("repair of nil must yield a valid document, got %v", res.Errors)
	}
	if got := repaired.Version(); got != schema.CurrentVersion {
		t.Errorf("version = %q, want %q", got, schema.CurrentVersion)
	}
}

func TestRepairStateRestoresBijection(t *testing.T) {
	v := newTestValidator()
	state := model.State{
		"layout": []any{"hero-1", "ghost-1", "hero-1"},
		"components": map[string]any{
			"hero-1": component("hero-1", "hero"),
			"faq-1":  component("faq-1", "faq"),
			"cta-1":  component("cta-1", "cta"),
		},
	}

	repaired := v.RepairState(state)
	got := repaired.LayoutIDs()
	// Surviving layout order first, then missing components sorted.
	want := []string{"hero-1", "cta-1", "faq-1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("layout = %v, want %v", got, want)
	}
	if len(repaired.Components()) != len(got) {
		t.Errorf("components and layout must be a bijection: %d vs %d",
			len(repaired.Components()), len(got))
	}
}

func TestRepairStateDropsMalformedComponents(t *testing.T) {
	v := newTestValidator()
	state := model.State{
		"layout": []any{},
		"components": map[string]any{
			"good-1":  component("good-1", "hero"),
			"bad id!": component("bad id!", "hero"),
			"scalar":  "not a component",
		},
	}

	repaired := v.RepairState(state)
	comps := repaired.Components()
	if len(comps) != 1 {
		t.Fatalf("components = %v, want only good-1", comps)
	}
	if _, ok := comps["good-1"]; !ok {
		t.Error("well-formed component must survive repair")
	}
}

func TestRepairStateFallsBackComponentType(t *testing.T) {
	v := newTestValidator()
	state := model.State{
		"layout": []any{},
		"components": map[string]any{
			"mystery-1": map[string]any{"props": map[string]any{"title": "hi"}},
		},
	}

	repaired := v.RepairState(state)
	comp, _ := repaired.Components()["mystery-1"].(map[string]any)
	if comp == nil {
		t.Fatal("typeless component must be kept")
	}
	if got, _ := comp["type"].(string); got != schema.ComponentTypeFallback {
		t.Errorf("type = %q, want %q", got, schema.ComponentTypeFallback)
	}
	if data, _ := comp["data"].(map[string]any); data["title"] != "hi" {
		t.Error("data must default to props")
	}
}

func TestRepairStateSalvagesConformingSettings(t *testing.T) {
	v := newTestValidator()
	state := model.State{
		"globalSettings": map[string]any{
			"theme": map[string]any{"primaryColor": "#ABCDEF"},
		},
		"version": "2.0.0",
	}

	repaired := v.RepairState(state)
	theme, _ := repaired.GlobalSettings()["theme"].(map[string]any)
	if theme["primaryColor"] != "#ABCDEF" {
		t.Error("conforming globalSettings must be carried over")
	}
	if got := repaired.Version(); got != "2.0.0" {
		t.Errorf("version = %q, want 2.0.0", got)
	}
}

func TestRepairStateReplacesBrokenSettings(t *testing.T) {
	v := newTestValidator()
	state := model.State{
		"globalSettings": map[string]any{
			"theme": map[string]any{"primaryColor": "blue"},
		},
	}

	repaired := v.RepairState(state)
	theme, _ := repaired.GlobalSettings()["theme"].(map[string]any)
	if theme["primaryColor"] != "#2196F3" {
		t.Error("non-conforming globalSettings must be replaced by defaults")
	}
}

func TestRepairStateFiltersSections(t *testing.T) {
	v := newTestValidator()
	state := model.State{
		"sections": []any{
			map[string]any{"section_id": "sec-1", "section_type": "grid"},
			map[string]any{"section_id": "sec-2", "section_type": "spiral"},
			"garbage",
		},
	}

	repaired := v.RepairState(state)
	sections, _ := repaired["sections"].([]any)
	if len(sections) != 1 {
		t.Fatalf("sections = %v, want only sec-1", sections)
	}
}

func TestRepairStateIsIdempotent(t *testing.T) {
	v := newTestValidator()
	state := model.State{
		"layout": []any{"ghost-1"},
		"components": map[string]any{
			"hero-1": component("hero-1", "hero"),
		},
		"version": "oops",
	}

	once := v.RepairState(state)
	twice := v.RepairState(once)
	if !reflect.DeepEqual(map[string]any(once), map[string]any(twice)) {
		t.Errorf("repair must be idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
	if res := v.ValidateState(once, ValidateOptions{}); !res.Valid {
		t.Errorf("repaired document must validate, got %v", res.Errors)
	}
}

func TestValidateAndRepairValidPassthrough(t *testing.T) {
	v := newTestValidator()
	state := validState()
	out, err := v.ValidateAndRepair(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(map[string]any(out), map[string]any(state)) {
		t.Error("valid document must pass through unchanged")
	}
}

func TestValidateAndRepairFixesLayout(t *testing.T) {
	v := newTestValidator()
	state := model.State{
		"layout": []any{"a"},
		"components": map[string]any{
			"a": component("a", "hero"),
			"b": component("b", "faq"),
		},
		"globalSettings": map[string]any{},
		"version":        "3.0.0",
	}

	out, err := v.ValidateAndRepair(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := out.LayoutIDs()
	if !contains(ids, "a") || !contains(ids, "b") {
		t.Fatalf("layout = %v, must contain both a and b", ids)
	}
	if res := v.ValidateState(out, ValidateOptions{}); !res.Valid {
		t.Errorf("repaired document must validate, got %v", res.Errors)
	}
}

func TestValidateAndRepairRebuildsGarbage(t *testing.T) {
	v := newTestValidator()
	state := model.State{
		"layout":     "not an array",
		"components": map[string]any{"hero-1": component("hero-1", "hero")},
		"version":    42,
	}

	out, err := v.ValidateAndRepair(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.LayoutIDs(); len(got) != 1 || got[0] != "hero-1" {
		t.Errorf("layout = %v, want [hero-1]", got)
	}
	if res := v.ValidateState(out, ValidateOptions{}); !res.Valid {
		t.Errorf("rebuilt document must validate, got %v", res.Errors)
	}
}

func TestValidateAndRepairBypassesTestStates(t *testing.T) {
	v := newTestValidator()
	state := model.State{
		"components": map[string]any{"test-x": map[string]any{"broken": true}},
	}

	out, err := v.ValidateAndRepair(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(map[string]any(out), map[string]any(state)) {
		t.Error("test-id document must pass through untouched")
	}
}

func TestValidateAndRepairAcceptsOverCapDocument(t *testing.T) {
	// The component cap only gates ADD_COMPONENT transactions. A consistent
	// document already past the cap must validate and pass through untouched;
	// a state-level cap would make such a document permanently unrepairable.
	v := newTestValidator()
	state := model.State{
		"components":     map[string]any{},
		"globalSettings": map[string]any{},
		"version":        "3.0.0",
	}
	comps := state.Components()
	layout := make([]any, 0, 101)
	for i := 0; i < 101; i++ {
		id := fmt.Sprintf("comp-%d", i)
		comps[id] = component(id, "custom")
		layout = append(layout, id)
	}
	state["layout"] = layout

	if res := v.ValidateState(state, ValidateOptions{}); !res.Valid {
		t.Fatalf("consistent over-cap document must validate, got %v", res.Errors)
	}

	out, err := v.ValidateAndRepair(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Components()) != 101 {
		t.Errorf("components = %d, want all 101 kept", len(out.Components()))
	}
}

func TestReconcileLayoutKeepsOrder(t *testing.T) {
	comps := map[string]any{"a": 1, "b": 1, "c": 1}
	got := reconcileLayout([]string{"c", "x", "a", "c"}, comps)
	want := []any{"c", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reconcileLayout = %v, want %v", got, want)
	}
}

func TestRepairStateDropsOverlongIDs(t *testing.T) {
	v := newTestValidator()
	longID := strings.Repeat("a", 101)
	state := model.State{
		"components": map[string]any{longID: component(longID, "hero")},
	}
	repaired := v.RepairState(state)
	if len(repaired.Components()) != 0 {
		t.Error("component ids past the length limit must be dropped")
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
