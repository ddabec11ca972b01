// Package model содержит доменные сущности клиентского ядра приложения stellar-burgers.
package model

// IngredientType описывает тип ингредиента каталога.
type IngredientType string

const (
	IngredientTypeBun   IngredientType = "bun"
	IngredientTypeSauce IngredientType = "sauce"
	IngredientTypeMain  IngredientType = "main"
)

// Ingredient представляет запись каталога ингредиентов. Каталог доступен
// только для чтения и заменяется целиком при каждой загрузке.
type Ingredient struct {
	ID            string         `json:"_id"`
	Name          string         `json:"name"`
	Type          IngredientType `json:"type"`
	Proteins      int            `json:"proteins"`
	Fat           int            `json:"fat"`
	Carbohydrates int            `json:"carbohydrates"`
	Calories      int            `json:"calories"`
	Price         int            `json:"price"`
	Image         string         `json:"image"`
	ImageMobile   string         `json:"image_mobile"`
	ImageLarge    string         `json:"image_large"`
}

// IsBun сообщает, является ли ингредиент булкой.
func (i Ingredient) IsBun() bool {
	return i.Type == IngredientTypeBun
}

// ConstructorIngredient представляет начинку, помещённую в собираемый бургер.
// InstanceID отличает два вложения одного и того же ингредиента каталога.
type ConstructorIngredient struct {
	Ingredient
	InstanceID string `json:"id"`
}

// OrderStatus описывает статус заказа, выданный сервером. Клиент значение
// не интерпретирует, только отображает и сравнивает.
type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPending OrderStatus = "pending"
	OrderStatusDone    OrderStatus = "done"
)

// Order описывает заказ, полученный от сервера. После получения заказ
// локально не изменяется, только замещается новым значением.
type Order struct {
	ID          string      `json:"_id"`
	Status      OrderStatus `json:"status"`
	Name        string      `json:"name"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
	Number      int         `json:"number"`
	Ingredients []string    `json:"ingredients"`
}

// FeedSnapshot представляет публичную ленту заказов. Три поля взаимосвязаны
// на стороне сервера и заменяются только вместе.
type FeedSnapshot struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	TotalToday int     `json:"totalToday"`
}

// User представляет идентичность аутентифицированного пользователя.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
