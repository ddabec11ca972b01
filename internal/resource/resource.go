// Package resource реализует машину состояний асинхронного запроса.
//
// Каждый асинхронный ресурс хранилища проходит цикл
// Idle → Pending → {Fulfilled, Rejected}. Переходы — чистые функции над
// значением State, что позволяет тестировать их без имитации диспетчера.
package resource

// Status перечисляет фазы жизненного цикла запроса.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusFulfilled
	StatusRejected
)

// String возвращает текстовое имя фазы для логирования.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusFulfilled:
		return "fulfilled"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// State описывает текущее состояние одного асинхронного ресурса.
// При отказе последние успешно полученные данные сохраняются.
type State[T any] struct {
	status  Status
	data    T
	hasData bool
	message string
}

// Idle возвращает начальное состояние ресурса.
func Idle[T any]() State[T] {
	return State[T]{status: StatusIdle}
}

// Begin переводит ресурс в фазу Pending и сбрасывает сообщение об ошибке.
// Последние полученные данные при этом остаются доступными.
func (s State[T]) Begin() State[T] {
	s.status = StatusPending
	s.message = ""
	return s
}

// Fulfill завершает запрос успешно и целиком замещает данные ресурса.
func (s State[T]) Fulfill(data T) State[T] {
	s.status = StatusFulfilled
	s.data = data
	s.hasData = true
	s.message = ""
	return s
}

// Reject завершает запрос с ошибкой. Данные последней удачной загрузки
// не очищаются: потребитель продолжает видеть устаревшее, но целостное значение.
func (s State[T]) Reject(message string) State[T] {
	s.status = StatusRejected
	s.message = message
	return s
}

// ClearError сбрасывает сообщение об ошибке, не меняя фазу данных.
func (s State[T]) ClearError() State[T] {
	s.message = ""
	return s
}

// Status возвращает текущую фазу ресурса.
func (s State[T]) Status() Status {
	return s.status
}

// Pending сообщает, выполняется ли запрос в данный момент.
func (s State[T]) Pending() bool {
	return s.status == StatusPending
}

// Data возвращает последние успешно полученные данные и признак их наличия.
func (s State[T]) Data() (T, bool) {
	return s.data, s.hasData
}

// Err возвращает человекочитаемое сообщение последней ошибки или пустую строку.
func (s State[T]) Err() string {
	return s.message
}
