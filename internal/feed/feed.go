// Package feed реализует хранилище публичной ленты заказов.
package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers-core/internal/model"
	"github.com/mmeshcher/stellar-burgers-core/internal/resource"
)

const refreshErrorMessage = "Не удалось загрузить ленту заказов"

// API описывает серверные операции, используемые хранилищем ленты.
type API interface {
	GetFeed(ctx context.Context) (model.FeedSnapshot, error)
}

// Store хранит публичную ленту заказов. Лента не зависит от аутентификации
// и замещается только целиком: заказы, общий счётчик и счётчик за сегодня
// взаимосвязаны на стороне сервера.
type Store struct {
	mu    sync.RWMutex
	state resource.State[model.FeedSnapshot]

	api    API
	logger *zap.Logger
}

// NewStore создаёт пустое хранилище ленты.
func NewStore(api API, logger *zap.Logger) *Store {
	return &Store{
		state:  resource.Idle[model.FeedSnapshot](),
		api:    api,
		logger: logger,
	}
}

// RefreshFeed загружает снимок ленты и при успехе атомарно заменяет
// все три поля. Частичное обновление не допускается.
func (s *Store) RefreshFeed(ctx context.Context) error {
	s.mu.Lock()
	s.state = s.state.Begin()
	s.mu.Unlock()

	snapshot, err := s.api.GetFeed(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = s.state.Reject(errorMessage(err, refreshErrorMessage))
		s.logger.Error("feed refresh failed", zap.Error(err))
		return err
	}

	s.state = s.state.Fulfill(snapshot)
	s.logger.Info("feed refreshed",
		zap.Int("orders", len(snapshot.Orders)),
		zap.Int("total", snapshot.Total),
	)
	return nil
}

// Snapshot возвращает текущий снимок ленты и признак его наличия.
func (s *Store) Snapshot() (model.FeedSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Data()
}

// OrderByNumber ищет заказ в текущем снимке ленты по публичному номеру.
func (s *Store) OrderByNumber(number int) (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, _ := s.state.Data()
	for _, order := range snapshot.Orders {
		if order.Number == number {
			return order, true
		}
	}
	return model.Order{}, false
}

// Loading сообщает, выполняется ли обновление ленты.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Pending()
}

// Err возвращает сообщение последней ошибки обновления ленты.
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
