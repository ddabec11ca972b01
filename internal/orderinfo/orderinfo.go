// Package orderinfo строит представление заказа с позициями и итоговой ценой.
//
// Проекция чистая и нигде не кэшируется: она пересчитывается из текущих
// снимков заказа и каталога, поэтому перезагрузка каталога не оставляет
// устаревших результатов ни в одном хранилище.
package orderinfo

import (
	"github.com/mmeshcher/stellar-burgers-core/internal/model"
)

// LineItem представляет одну позицию заказа: ингредиент каталога и число
// его вхождений в заказ.
type LineItem struct {
	Ingredient model.Ingredient
	Count      int
}

// Details содержит заказ вместе с производными позициями и итоговой ценой.
type Details struct {
	Order model.Order
	Items []LineItem
	Total int
}

// Build сопоставляет идентификаторы ингредиентов заказа с каталогом и
// считает позиции с итогом. Позиции следуют в порядке первого вхождения
// идентификатора в заказ. При пустом каталоге или отсутствующем заказе
// проекция не определена: возвращается ok = false, чтобы вызывающий
// отложил отображение, а не показал частичные данные.
func Build(order *model.Order, catalog []model.Ingredient) (Details, bool) {
	if order == nil || len(catalog) == 0 {
		return Details{}, false
	}

	byID := make(map[string]model.Ingredient, len(catalog))
	for _, item := range catalog {
		byID[item.ID] = item
	}

	index := make(map[string]int)
	items := make([]LineItem, 0, len(order.Ingredients))
	for _, id := range order.Ingredients {
		if pos, seen := index[id]; seen {
			items[pos].Count++
			continue
		}
		ingredient, ok := byID[id]
		if !ok {
			// Неизвестный идентификатор пропускается, как и в исходном представлении.
			continue
		}
		index[id] = len(items)
		items = append(items, LineItem{Ingredient: ingredient, Count: 1})
	}

	total := 0
	for _, item := range items {
		total += item.Ingredient.Price * item.Count
	}

	return Details{Order: *order, Items: items, Total: total}, true
}
