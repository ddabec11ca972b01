// Package constructor реализует хранилище собираемого бургера.
package constructor

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers-core/internal/model"
)

var (
	// ErrNotBun возвращается при попытке установить булкой ингредиент другого типа.
	ErrNotBun = errors.New("ingredient is not a bun")
	// ErrBunAsFilling возвращается при попытке добавить булку в начинки.
	ErrBunAsFilling = errors.New("bun cannot be added as filling")
	// ErrIndexOutOfRange возвращается при перемещении с недопустимыми индексами.
	ErrIndexOutOfRange = errors.New("filling index out of range")
	// ErrIncomplete возвращается при отправке бургера без булки или без начинок.
	ErrIncomplete = errors.New("burger is incomplete")
	// ErrSubmissionInFlight возвращается, если отправка заказа уже выполняется.
	ErrSubmissionInFlight = errors.New("order submission already in flight")
)

// Submitter описывает операцию отправки заказа, предоставляемую менеджером заказов.
type Submitter interface {
	SubmitOrder(ctx context.Context, ingredientIDs []string) (*model.Order, error)
}

// Store хранит собираемый бургер: не более одной булки и упорядоченный
// список начинок. Все операции, кроме Submit, чисто локальные.
type Store struct {
	mu           sync.Mutex
	bun          *model.Ingredient
	fillings     []model.ConstructorIngredient
	orderRequest bool
	orderModal   *model.Order

	submitter     Submitter
	newInstanceID func() string
	logger        *zap.Logger
}

// NewStore создаёт пустой конструктор бургера.
func NewStore(submitter Submitter, logger *zap.Logger) *Store {
	return &Store{
		submitter:     submitter,
		newInstanceID: uuid.NewString,
		logger:        logger,
	}
}

// SetBun устанавливает булку, замещая предыдущую. Ингредиент другого типа отвергается.
func (s *Store) SetBun(ingredient model.Ingredient) error {
	if !ingredient.IsBun() {
		return ErrNotBun
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	bun := ingredient
	s.bun = &bun
	return nil
}

// AddFilling добавляет начинку в конец списка и возвращает её локальный
// идентификатор вложения. Булка в начинки не допускается.
func (s *Store) AddFilling(ingredient model.Ingredient) (string, error) {
	if ingredient.IsBun() {
		return "", ErrBunAsFilling
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	instanceID := s.newInstanceID()
	s.fillings = append(s.fillings, model.ConstructorIngredient{
		Ingredient: ingredient,
		InstanceID: instanceID,
	})
	return instanceID, nil
}

// RemoveFilling удаляет начинку по идентификатору вложения.
// Отсутствующий идентификатор игнорируется.
func (s *Store) RemoveFilling(instanceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.fillings {
		if item.InstanceID == instanceID {
			s.fillings = append(s.fillings[:i], s.fillings[i+1:]...)
			return
		}
	}
}

// MoveFilling перемещает начинку с позиции fromIndex на позицию toIndex,
// сохраняя относительный порядок остальных. Недопустимые индексы отвергаются
// без изменения состояния.
func (s *Store) MoveFilling(fromIndex, toIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.fillings)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		return ErrIndexOutOfRange
	}
	if fromIndex == toIndex {
		return nil
	}

	moved := s.fillings[fromIndex]
	s.fillings = append(s.fillings[:fromIndex], s.fillings[fromIndex+1:]...)

	rest := append([]model.ConstructorIngredient{}, s.fillings[toIndex:]...)
	s.fillings = append(s.fillings[:toIndex], moved)
	s.fillings = append(s.fillings, rest...)
	return nil
}

// Clear опустошает конструктор: булка и начинки сбрасываются.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bun = nil
	s.fillings = nil
}

// Submit отправляет собранный бургер как заказ. Последовательность
// идентификаторов строится как [булка, начинки..., булка]: серверный контракт
// требует, чтобы булка закрывала бургер. Без булки или без начинок запрос
// не отправляется. При успехе конструктор очищается и заказ сохраняется
// как данные модального окна; при ошибке содержимое остаётся нетронутым.
func (s *Store) Submit(ctx context.Context) (*model.Order, error) {
	s.mu.Lock()
	if s.orderRequest {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	if s.bun == nil || len(s.fillings) == 0 {
		s.mu.Unlock()
		return nil, ErrIncomplete
	}

	ids := make([]string, 0, len(s.fillings)+2)
	ids = append(ids, s.bun.ID)
	for _, item := range s.fillings {
		ids = append(ids, item.ID)
	}
	ids = append(ids, s.bun.ID)

	s.orderRequest = true
	s.mu.Unlock()

	order, err := s.submitter.SubmitOrder(ctx, ids)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderRequest = false

	if err != nil {
		s.logger.Error("order submission failed", zap.Error(err))
		return nil, err
	}

	s.orderModal = order
	s.bun = nil
	s.fillings = nil
	s.logger.Info("order submitted", zap.Int("number", order.Number))
	return order, nil
}

// Bun возвращает установленную булку, если она есть.
func (s *Store) Bun() (model.Ingredient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bun == nil {
		return model.Ingredient{}, false
	}
	return *s.bun, true
}

// Fillings возвращает копию текущего списка начинок в пользовательском порядке.
func (s *Store) Fillings() []model.ConstructorIngredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ConstructorIngredient, len(s.fillings))
	copy(out, s.fillings)
	return out
}

// SubmissionInFlight сообщает, выполняется ли отправка заказа.
func (s *Store) SubmissionInFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderRequest
}

// OrderModal возвращает последний созданный заказ для модального окна.
func (s *Store) OrderModal() (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orderModal == nil {
		return model.Order{}, false
	}
	return *s.orderModal, true
}

// ClearOrderModal сбрасывает данные модального окна заказа.
func (s *Store) ClearOrderModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderModal = nil
}
