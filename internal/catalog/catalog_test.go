package catalog

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers-core/internal/model"
)

type stubAPI struct {
	items []model.Ingredient
	err   error
	calls int
}

func (s *stubAPI) GetIngredients(ctx context.Context) ([]model.Ingredient, error) {
	s.calls++
	return s.items, s.err
}

func testItems() []model.Ingredient {
	return []model.Ingredient{
		{ID: "bun1", Type: model.IngredientTypeBun, Name: "Булка", Price: 50},
		{ID: "fill1", Type: model.IngredientTypeMain, Name: "Котлета", Price: 30},
	}
}

func TestLoadCatalog_ReplacesWholesale(t *testing.T) {
	api := &stubAPI{items: testItems()}
	store := NewStore(api, zap.NewNop())

	if err := store.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	items := store.Ingredients()
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if store.Loading() {
		t.Fatalf("loading must be false after completion")
	}
	if store.Err() != "" {
		t.Fatalf("unexpected error: %q", store.Err())
	}

	api.items = []model.Ingredient{{ID: "bun2", Type: model.IngredientTypeBun, Price: 100}}
	if err := store.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	items = store.Ingredients()
	if len(items) != 1 || items[0].ID != "bun2" {
		t.Fatalf("catalog not replaced wholesale: %+v", items)
	}
}

func TestLoadCatalog_FailurePreservesPreviousCatalog(t *testing.T) {
	api := &stubAPI{items: testItems()}
	store := NewStore(api, zap.NewNop())

	if err := store.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	api.err = errors.New("network down")
	if err := store.LoadCatalog(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	items := store.Ingredients()
	if len(items) != 2 {
		t.Fatalf("previous catalog lost on failure: %+v", items)
	}
	if store.Err() != "network down" {
		t.Fatalf("error message = %q, want %q", store.Err(), "network down")
	}

	store.ClearError()
	if store.Err() != "" {
		t.Fatalf("ClearError did not reset message")
	}
}

func TestSelectIngredient(t *testing.T) {
	api := &stubAPI{items: testItems()}
	store := NewStore(api, zap.NewNop())

	if err := store.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	if !store.SelectIngredient("fill1") {
		t.Fatalf("SelectIngredient must find fill1")
	}
	selected, ok := store.Selected()
	if !ok || selected.ID != "fill1" {
		t.Fatalf("selected = %+v (%v), want fill1", selected, ok)
	}

	if store.SelectIngredient("missing") {
		t.Fatalf("SelectIngredient must reject unknown id")
	}
	if selected, ok = store.Selected(); !ok || selected.ID != "fill1" {
		t.Fatalf("failed select must not change selection: %+v (%v)", selected, ok)
	}

	store.ClearSelected()
	if _, ok = store.Selected(); ok {
		t.Fatalf("ClearSelected did not reset selection")
	}
}

func TestIngredientByID(t *testing.T) {
	api := &stubAPI{items: testItems()}
	store := NewStore(api, zap.NewNop())

	if _, ok := store.IngredientByID("bun1"); ok {
		t.Fatalf("lookup must fail before catalog load")
	}

	if err := store.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	item, ok := store.IngredientByID("bun1")
	if !ok || item.Price != 50 {
		t.Fatalf("IngredientByID = %+v (%v)", item, ok)
	}
}
