// Package mockapi реализует локальный макет серверного API stellar-burgers.
//
// Макет держит все данные в памяти и повторяет контракт настоящего сервера:
// конверт success/message, пара access/refresh токенов, публичная лента и
// история заказов пользователя. Используется в интеграционных тестах и как
// отдельный сервер для локальной разработки.
package mockapi

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers-core/internal/model"
)

const defaultAccessTokenTTL = 20 * time.Minute

type userRecord struct {
	name     string
	email    string
	password string
}

type orderRecord struct {
	order model.Order
	owner string
}

// Server хранит состояние макета API в памяти.
type Server struct {
	mu            sync.Mutex
	ingredients   []model.Ingredient
	users         map[string]userRecord
	refreshTokens map[string]string
	orders        []orderRecord
	total         int
	totalToday    int
	nextNumber    int
	resetCodes    map[string]string

	signer *tokenSigner
	logger *zap.Logger
}

// NewServer создаёт макет API с предзаполненным каталогом ингредиентов.
func NewServer(logger *zap.Logger) *Server {
	return &Server{
		ingredients:   seedIngredients(),
		users:         make(map[string]userRecord),
		refreshTokens: make(map[string]string),
		resetCodes:    make(map[string]string),
		nextNumber:    1000,
		signer:        newTokenSigner("stellar-burgers-secret", defaultAccessTokenTTL),
		logger:        logger,
	}
}

// SeedIngredients заменяет каталог макета указанным набором. Используется
// тестами, которым нужен детерминированный каталог.
func (s *Server) SeedIngredients(items []model.Ingredient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingredients = append([]model.Ingredient(nil), items...)
}

// issueTokens выпускает новую пару токенов для пользователя.
func (s *Server) issueTokens(email string) (string, string) {
	access := s.signer.Sign(email)

	buf := make([]byte, 32)
	rand.Read(buf)
	refresh := hex.EncodeToString(buf)
	s.refreshTokens[refresh] = email

	return access, refresh
}

// createOrder регистрирует новый заказ и помещает его в начало ленты.
func (s *Server) createOrder(owner string, ingredientIDs []string) model.Order {
	s.nextNumber++
	now := time.Now().UTC().Format(time.RFC3339)

	order := model.Order{
		ID:          fmt.Sprintf("order-%d", s.nextNumber),
		Status:      model.OrderStatusDone,
		Name:        "Space флюоресцентный бургер",
		CreatedAt:   now,
		UpdatedAt:   now,
		Number:      s.nextNumber,
		Ingredients: append([]string(nil), ingredientIDs...),
	}

	s.orders = append([]orderRecord{{order: order, owner: owner}}, s.orders...)
	s.total++
	s.totalToday++
	return order
}

func seedIngredients() []model.Ingredient {
	return []model.Ingredient{
		{
			ID:    "643d69a5c3f7b9001cfa093c",
			Name:  "Краторная булка N-200i",
			Type:  model.IngredientTypeBun,
			Price: 1255,
		},
		{
			ID:    "643d69a5c3f7b9001cfa0941",
			Name:  "Биокотлета из марсианской Магнолии",
			Type:  model.IngredientTypeMain,
			Price: 424,
		},
		{
			ID:    "643d69a5c3f7b9001cfa0942",
			Name:  "Соус Spicy-X",
			Type:  model.IngredientTypeSauce,
			Price: 90,
		},
		{
			ID:    "643d69a5c3f7b9001cfa093e",
			Name:  "Филе Люминесцентного тетраодонтимформа",
			Type:  model.IngredientTypeMain,
			Price: 988,
		},
	}
}
