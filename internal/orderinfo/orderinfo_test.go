package orderinfo

import (
	"testing"

	"github.com/mmeshcher/stellar-burgers-core/internal/model"
)

func testCatalog() []model.Ingredient {
	return []model.Ingredient{
		{ID: "A", Type: model.IngredientTypeBun, Name: "Булка", Price: 10},
		{ID: "B", Type: model.IngredientTypeMain, Name: "Котлета", Price: 20},
	}
}

func TestBuild_CountsRepeatsAndTotal(t *testing.T) {
	order := &model.Order{
		Number:      42,
		Ingredients: []string{"A", "A", "B"},
	}

	details, ok := Build(order, testCatalog())
	if !ok {
		t.Fatalf("projection must be defined")
	}

	if len(details.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(details.Items))
	}
	if details.Items[0].Ingredient.ID != "A" || details.Items[0].Count != 2 {
		t.Fatalf("item A = %+v", details.Items[0])
	}
	if details.Items[1].Ingredient.ID != "B" || details.Items[1].Count != 1 {
		t.Fatalf("item B = %+v", details.Items[1])
	}
	if details.Total != 40 {
		t.Fatalf("total = %d, want 40", details.Total)
	}
	if details.Order.Number != 42 {
		t.Fatalf("order not carried into details: %+v", details.Order)
	}
}

func TestBuild_UndefinedOnEmptyCatalog(t *testing.T) {
	order := &model.Order{Ingredients: []string{"A"}}

	if _, ok := Build(order, nil); ok {
		t.Fatalf("projection must be deferred when catalog is empty")
	}
	if _, ok := Build(nil, testCatalog()); ok {
		t.Fatalf("projection must be undefined without an order")
	}
}

func TestBuild_SkipsUnknownIngredientIDs(t *testing.T) {
	order := &model.Order{Ingredients: []string{"A", "missing", "B", "A"}}

	details, ok := Build(order, testCatalog())
	if !ok {
		t.Fatalf("projection must be defined")
	}
	if len(details.Items) != 2 {
		t.Fatalf("unknown id must be skipped, items = %+v", details.Items)
	}
	if details.Total != 2*10+20 {
		t.Fatalf("total = %d, want 40", details.Total)
	}
}

func TestBuild_OrderOfFirstOccurrence(t *testing.T) {
	order := &model.Order{Ingredients: []string{"B", "A", "B"}}

	details, ok := Build(order, testCatalog())
	if !ok {
		t.Fatalf("projection must be defined")
	}
	if details.Items[0].Ingredient.ID != "B" || details.Items[1].Ingredient.ID != "A" {
		t.Fatalf("items must follow first occurrence order: %+v", details.Items)
	}
	if details.Items[0].Count != 2 {
		t.Fatalf("count B = %d, want 2", details.Items[0].Count)
	}
}
