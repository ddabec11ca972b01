// Package catalog реализует хранилище каталога ингредиентов.
package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers-core/internal/model"
	"github.com/mmeshcher/stellar-burgers-core/internal/resource"
)

const loadErrorMessage = "Не удалось загрузить ингредиенты"

// API описывает серверные операции, используемые хранилищем каталога.
type API interface {
	GetIngredients(ctx context.Context) ([]model.Ingredient, error)
}

// Store хранит каталог ингредиентов и текущий просматриваемый ингредиент.
// При неудачной загрузке последний успешно полученный каталог сохраняется.
type Store struct {
	mu       sync.RWMutex
	state    resource.State[[]model.Ingredient]
	selected *model.Ingredient

	api    API
	logger *zap.Logger
}

// NewStore создаёт пустое хранилище каталога.
func NewStore(api API, logger *zap.Logger) *Store {
	return &Store{
		state:  resource.Idle[[]model.Ingredient](),
		api:    api,
		logger: logger,
	}
}

// LoadCatalog загружает полный список ингредиентов и при успехе заменяет
// каталог целиком. При ошибке предыдущий каталог не очищается.
func (s *Store) LoadCatalog(ctx context.Context) error {
	s.mu.Lock()
	s.state = s.state.Begin()
	s.mu.Unlock()

	items, err := s.api.GetIngredients(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = s.state.Reject(errorMessage(err, loadErrorMessage))
		s.logger.Error("catalog load failed", zap.Error(err))
		return err
	}

	s.state = s.state.Fulfill(items)
	s.logger.Info("catalog loaded", zap.Int("count", len(items)))
	return nil
}

// SelectIngredient устанавливает текущий просматриваемый ингредиент по
// идентификатору каталога. Возвращает false, если ингредиент не найден.
func (s *Store) SelectIngredient(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, _ := s.state.Data()
	for _, item := range items {
		if item.ID == id {
			selected := item
			s.selected = &selected
			return true
		}
	}
	return false
}

// ClearSelected сбрасывает текущий просматриваемый ингредиент.
func (s *Store) ClearSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// Selected возвращает текущий просматриваемый ингредиент, если он установлен.
func (s *Store) Selected() (model.Ingredient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return model.Ingredient{}, false
	}
	return *s.selected, true
}

// Ingredients возвращает копию текущего каталога.
func (s *Store) Ingredients() []model.Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.state.Data()
	if !ok {
		return nil
	}
	out := make([]model.Ingredient, len(items))
	copy(out, items)
	return out
}

// IngredientByID ищет ингредиент каталога по идентификатору.
func (s *Store) IngredientByID(id string) (model.Ingredient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, _ := s.state.Data()
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return model.Ingredient{}, false
}

// Loading сообщает, выполняется ли загрузка каталога.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Pending()
}

// Err возвращает сообщение последней ошибки загрузки.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Err()
}

// ClearError сбрасывает сообщение об ошибке.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.ClearError()
}

func errorMessage(err error, fallback string) string {
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
