// Package orders реализует менеджер жизненного цикла заказов: создание,
// поиск по публичному номеру и историю заказов пользователя.
package orders

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers-core/internal/model"
	"github.com/mmeshcher/stellar-burgers-core/internal/resource"
)

const (
	submitErrorMessage  = "Не удалось создать заказ"
	lookupErrorMessage  = "Не удалось найти заказ"
	historyErrorMessage = "Не удалось загрузить заказы"
)

// ErrEmptySequence возвращается при попытке отправить заказ без ингредиентов.
var ErrEmptySequence = errors.New("empty ingredient sequence")

// API описывает серверные операции, используемые менеджером заказов.
type API interface {
	SubmitOrder(ctx context.Context, ingredientIDs []string) (*model.Order, error)
	GetOrderByNumber(ctx context.Context, number int) (*model.Order, error)
	GetUserOrders(ctx context.Context) ([]model.Order, error)
}

// Manager владеет состоянием трёх независимых операций над заказами.
// Операции не блокируют друг друга: у каждой собственный жизненный цикл.
//
// Повторные запросы одного ресурса не отменяются и не дедуплицируются:
// побеждает последний завершившийся ответ. Потребитель обязан сверять
// отображаемый заказ с RequestedNumber, а не полагаться на порядок ответов.
type Manager struct {
	mu              sync.RWMutex
	submission      resource.State[model.Order]
	lookup          resource.State[model.Order]
	requestedNumber int
	userOrders      resource.State[[]model.Order]

	api    API
	logger *zap.Logger
}

// NewManager создаёт менеджер заказов в исходном состоянии.
func NewManager(api API, logger *zap.Logger) *Manager {
	return &Manager{
		submission: resource.Idle[model.Order](),
		lookup:     resource.Idle[model.Order](),
		userOrders: resource.Idle[[]model.Order](),
		api:        api,
		logger:     logger,
	}
}

// SubmitOrder отправляет последовательность идентификаторов ингредиентов
// на сервер. Пустая последовательность отвергается локально, без запроса.
// При ошибке предыдущий результат остаётся нетронутым.
func (m *Manager) SubmitOrder(ctx context.Context, ingredientIDs []string) (*model.Order, error) {
	if len(ingredientIDs) == 0 {
		return nil, ErrEmptySequence
	}

	m.mu.Lock()
	m.submission = m.submission.Begin()
	m.mu.Unlock()

	order, err := m.api.SubmitOrder(ctx, ingredientIDs)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.submission = m.submission.Reject(errorMessage(err, submitErrorMessage))
		m.logger.Error("order submit failed", zap.Error(err))
		return nil, err
	}

	m.submission = m.submission.Fulfill(*order)
	m.logger.Info("order created", zap.Int("number", order.Number))
	return order, nil
}

// FetchOrderByNumber ищет заказ по публичному номеру. Запрошенный номер
// запоминается, чтобы потребитель мог распознать устаревший результат
// при перекрывающихся запросах разных номеров.
func (m *Manager) FetchOrderByNumber(ctx context.Context, number int) (*model.Order, error) {
	m.mu.Lock()
	m.lookup = m.lookup.Begin()
	m.requestedNumber = number
	m.mu.Unlock()

	order, err := m.api.GetOrderByNumber(ctx, number)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.lookup = m.lookup.Reject(errorMessage(err, lookupErrorMessage))
		m.logger.Error("order lookup failed", zap.Int("number", number), zap.Error(err))
		return nil, err
	}

	m.lookup = m.lookup.Fulfill(*order)
	return order, nil
}

// FetchUserOrders загружает историю заказов пользователя, целиком замещая
// предыдущий список.
func (m *Manager) FetchUserOrders(ctx context.Context) error {
	m.mu.Lock()
	m.userOrders = m.userOrders.Begin()
	m.mu.Unlock()

	list, err := m.api.GetUserOrders(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.userOrders = m.userOrders.Reject(errorMessage(err, historyErrorMessage))
		m.logger.Error("user orders load failed", zap.Error(err))
		return err
	}

	m.userOrders = m.userOrders.Fulfill(list)
	return nil
}

// CreatedOrder возвращает заказ последней успешной отправки.
func (m *Manager) CreatedOrder() (model.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.submission.Data()
}

// OrderNumber возвращает публичный номер последнего созданного заказа.
func (m *Manager) OrderNumber() (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.submission.Data()
	if !ok {
		return 0, false
	}
	return order.Number, true
}

// CurrentOrder возвращает результат последнего завершившегося поиска по номеру.
func (m *Manager) CurrentOrder() (model.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup.Data()
}

// RequestedNumber возвращает номер, запрошенный последним вызовом
// FetchOrderByNumber. Результат с другим номером следует считать устаревшим.
func (m *Manager) RequestedNumber() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestedNumber
}

// UserOrders возвращает копию истории заказов пользователя.
func (m *Manager) UserOrders() []model.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list, ok := m.userOrders.Data()
	if !ok {
		return nil
	}
	out := make([]model.Order, len(list))
	copy(out, list)
	return out
}

// UserOrderByID ищет заказ пользователя по серверному идентификатору.
func (m *Manager) UserOrderByID(id string) (model.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list, _ := m.userOrders.Data()
	for _, order := range list {
		if order.ID == id {
			return order, true
		}
	}
	return model.Order{}, false
}

// SubmissionPending сообщает, выполняется ли отправка заказа.
func (m *Manager) SubmissionPending() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.submission.Pending()
}

// LookupPending сообщает, выполняется ли поиск заказа по номеру.
func (m *Manager) LookupPending() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup.Pending()
}

// UserOrdersPending сообщает, выполняется ли загрузка истории заказов.
func (m *Manager) UserOrdersPending() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userOrders.Pending()
}

// SubmissionErr возвращает сообщение последней ошибки отправки заказа.
func (m *Manager) SubmissionErr() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.submission.Err()
}

// LookupErr возвращает сообщение последней ошибки поиска заказа.
func (m *Manager) LookupErr() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup.Err()
}

// UserOrdersErr возвращает сообщение последней ошибки загрузки истории.
func (m *Manager) UserOrdersErr() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userOrders.Err()
}

// ClearCurrentOrder сбрасывает результаты отправки и поиска заказа.
func (m *Manager) ClearCurrentOrder() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submission = resource.Idle[model.Order]()
	m.lookup = resource.Idle[model.Order]()
	m.requestedNumber = 0
}

// ClearError сбрасывает сообщения об ошибках всех трёх операций.
func (m *Manager) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submission = m.submission.ClearError()
	m.lookup = m.lookup.ClearError()
	m.userOrders = m.userOrders.ClearError()
}

// ClearUserState сбрасывает состояние, привязанное к завершившейся сессии,
// чтобы после нового входа не отображалась история предыдущего пользователя.
func (m *Manager) ClearUserState() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userOrders = resource.Idle[[]model.Order]()
	m.submission = resource.Idle[model.Order]()
	m.lookup = resource.Idle[model.Order]()
	m.requestedNumber = 0
}

func errorMessage(err error, fallback string) string {
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
