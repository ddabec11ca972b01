// Package session реализует менеджер аутентифицированной сессии пользователя.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers-core/internal/model"
	"github.com/mmeshcher/stellar-burgers-core/internal/token"
)

const (
	registerErrorMessage = "Не удалось зарегистрировать пользователя"
	loginErrorMessage    = "Не удалось войти"
	updateErrorMessage   = "Не удалось обновить профиль"
)

// ErrNoSession возвращается операциями, требующими активной сессии.
var ErrNoSession = errors.New("no active session")

// API описывает серверные операции, используемые менеджером сессии.
type API interface {
	Register(ctx context.Context, name, email, password string) (model.User, token.Pair, error)
	Login(ctx context.Context, email, password string) (model.User, token.Pair, error)
	GetUser(ctx context.Context) (model.User, error)
	UpdateUser(ctx context.Context, fields map[string]string) (model.User, error)
	Logout(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, password, code string) error
}

// Manager владеет состоянием сессии: текущим пользователем и признаком того,
// что проверка аутентификации завершилась хотя бы раз с начала процесса.
// Пара токенов живёт в долговременном хранилище вне состояния сессии.
type Manager struct {
	mu          sync.RWMutex
	currentUser *model.User
	authChecked bool
	message     string

	api      API
	tokens   token.Storage
	teardown func()
	logger   *zap.Logger
}

// NewManager создаёт менеджер сессии в непроверенном состоянии.
func NewManager(api API, tokens token.Storage, logger *zap.Logger) *Manager {
	return &Manager{
		api:    api,
		tokens: tokens,
		logger: logger,
	}
}

// SetTeardown задаёт обработчик, вызываемый при завершении сессии.
// Через него сбрасывается состояние других хранилищ, привязанное к
// пользователю, без прямой связи между хранилищами.
func (m *Manager) SetTeardown(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardown = fn
}

// Register регистрирует нового пользователя. При успехе пара токенов
// сохраняется в долговременное хранилище, сессия становится аутентифицированной.
// При ошибке сессия остаётся анонимной, но проверенной: вызывающий может
// отличить «проверено, не вошёл» от «ещё не проверялось».
func (m *Manager) Register(ctx context.Context, name, email, password string) error {
	user, pair, err := m.api.Register(ctx, name, email, password)
	return m.establish(user, pair, err, registerErrorMessage)
}

// Login выполняет вход пользователя. Семантика совпадает с Register.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	user, pair, err := m.api.Login(ctx, email, password)
	return m.establish(user, pair, err, loginErrorMessage)
}

func (m *Manager) establish(user model.User, pair token.Pair, err error, fallback string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.authChecked = true

	if err != nil {
		m.message = errorMessage(err, fallback)
		m.logger.Error("authentication failed", zap.Error(err))
		return err
	}

	if saveErr := m.tokens.Save(pair); saveErr != nil {
		m.message = errorMessage(saveErr, fallback)
		m.logger.Error("token save failed", zap.Error(saveErr))
		return saveErr
	}

	m.currentUser = &user
	m.message = ""
	m.logger.Info("session established", zap.String("email", user.Email))
	return nil
}

// VerifySession выполняет однократную стартовую проверку сессии. Без
// сохранённого access-токена сессия сразу помечается проверенной и анонимной,
// сетевой запрос не выполняется. При наличии токена выполняется запрос
// текущего пользователя; любая неудача стирает оба токена из хранилища.
// По завершении authChecked становится true ровно один раз — это единственный
// сигнал для выбора между заглушкой загрузки и окончательным представлением.
func (m *Manager) VerifySession(ctx context.Context) error {
	pair, err := m.tokens.Load()
	if err != nil || pair.AccessToken == "" {
		m.mu.Lock()
		m.authChecked = true
		m.mu.Unlock()
		return err
	}

	user, probeErr := m.api.GetUser(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.authChecked = true

	if probeErr != nil {
		if clearErr := m.tokens.Clear(); clearErr != nil {
			m.logger.Error("token clear failed", zap.Error(clearErr))
		}
		m.logger.Info("session verification failed, tokens cleared", zap.Error(probeErr))
		return probeErr
	}

	m.currentUser = &user
	m.logger.Info("session verified", zap.String("email", user.Email))
	return nil
}

// UpdateProfile обновляет профиль пользователя и замещает текущую идентичность
// серверной проекцией. Токены при этом не изменяются. Требует активной сессии.
func (m *Manager) UpdateProfile(ctx context.Context, fields map[string]string) error {
	m.mu.RLock()
	active := m.currentUser != nil
	m.mu.RUnlock()
	if !active {
		return ErrNoSession
	}

	user, err := m.api.UpdateUser(ctx, fields)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.message = errorMessage(err, updateErrorMessage)
		m.logger.Error("profile update failed", zap.Error(err))
		return err
	}

	m.currentUser = &user
	m.message = ""
	return nil
}

// Logout инвалидирует refresh-токен на сервере и безусловно завершает
// локальную сессию: пользователь, токены и привязанное к сессии состояние
// очищаются даже при отказе серверного вызова, чтобы сетевая ошибка не
// оставила сессию «застрявшей» аутентифицированной. Ошибка сервера
// записывается для отображения.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.api.Logout(ctx)

	m.mu.Lock()
	m.currentUser = nil
	if err != nil {
		m.message = errorMessage(err, "Не удалось выйти")
		m.logger.Error("logout request failed", zap.Error(err))
	} else {
		m.message = ""
	}
	teardown := m.teardown
	m.mu.Unlock()

	if clearErr := m.tokens.Clear(); clearErr != nil {
		m.logger.Error("token clear failed", zap.Error(clearErr))
	}
	if teardown != nil {
		teardown()
	}

	m.logger.Info("session terminated")
	return err
}

// RequestPasswordReset запрашивает сброс пароля по адресу электронной почты.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	return m.api.RequestPasswordReset(ctx, email)
}

// ResetPassword устанавливает новый пароль по коду из письма.
func (m *Manager) ResetPassword(ctx context.Context, password, code string) error {
	return m.api.ResetPassword(ctx, password, code)
}

// User возвращает текущего пользователя, если сессия активна.
func (m *Manager) User() (model.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.currentUser == nil {
		return model.User{}, false
	}
	return *m.currentUser, true
}

// IsAuthChecked сообщает, завершилась ли хотя бы одна проверка аутентификации.
func (m *Manager) IsAuthChecked() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authChecked
}

// IsAuthenticated сообщает, аутентифицирована ли сессия: пользователь
// установлен и проверка завершилась.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentUser != nil && m.authChecked
}

// Err возвращает сообщение последней ошибки сессии.
func (m *Manager) Err() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.message
}

// ClearError сбрасывает сообщение об ошибке.
func (m *Manager) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.message = ""
}

func errorMessage(err error, fallback string) string {
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
