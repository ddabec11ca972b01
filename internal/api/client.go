// Package api предоставляет HTTP-клиент серверного API приложения stellar-burgers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers-core/internal/model"
	"github.com/mmeshcher/stellar-burgers-core/internal/token"
)

// ErrUnauthorized возвращается, когда сервер отверг запрос как неавторизованный
// и обновление access-токена не помогло.
var ErrUnauthorized = errors.New("unauthorized")

// Client инкапсулирует HTTP-взаимодействие с серверным API. Авторизованные
// запросы читают access-токен из хранилища; при его истечении клиент один раз
// обменивает refresh-токен на новую пару, сохраняет её и повторяет запрос.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     token.Storage
	logger     *zap.Logger
}

// NewClient создаёт клиент серверного API по указанному базовому адресу.
func NewClient(baseURL string, tokens token.Storage, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
		logger: logger,
	}
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ingredientsResponse struct {
	statusResponse
	Data []model.Ingredient `json:"data"`
}

type feedResponse struct {
	statusResponse
	Orders     []model.Order `json:"orders"`
	Total      int           `json:"total"`
	TotalToday int           `json:"totalToday"`
}

type ordersResponse struct {
	statusResponse
	Orders []model.Order `json:"orders"`
}

type newOrderResponse struct {
	statusResponse
	Name  string      `json:"name"`
	Order model.Order `json:"order"`
}

type authResponse struct {
	statusResponse
	User         model.User `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

type userResponse struct {
	statusResponse
	User model.User `json:"user"`
}

// GetIngredients запрашивает полный каталог ингредиентов.
func (c *Client) GetIngredients(ctx context.Context) ([]model.Ingredient, error) {
	var resp ingredientsResponse
	if err := c.do(ctx, http.MethodGet, "/ingredients", nil, &resp, false); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetFeed запрашивает публичную ленту заказов.
func (c *Client) GetFeed(ctx context.Context) (model.FeedSnapshot, error) {
	var resp feedResponse
	if err := c.do(ctx, http.MethodGet, "/orders/all", nil, &resp, false); err != nil {
		return model.FeedSnapshot{}, err
	}
	return model.FeedSnapshot{
		Orders:     resp.Orders,
		Total:      resp.Total,
		TotalToday: resp.TotalToday,
	}, nil
}

// GetOrderByNumber ищет заказ по публичному номеру. Сервер возвращает список,
// клиент берёт первый элемент.
func (c *Client) GetOrderByNumber(ctx context.Context, number int) (*model.Order, error) {
	var resp ordersResponse
	path := fmt.Sprintf("/orders/%d", number)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, false); err != nil {
		return nil, err
	}
	if len(resp.Orders) == 0 {
		return nil, fmt.Errorf("order %d not found", number)
	}
	order := resp.Orders[0]
	return &order, nil
}

// SubmitOrder отправляет последовательность идентификаторов ингредиентов
// и возвращает созданный сервером заказ.
func (c *Client) SubmitOrder(ctx context.Context, ingredientIDs []string) (*model.Order, error) {
	if len(ingredientIDs) == 0 {
		return nil, errors.New("empty ingredient sequence")
	}

	body := map[string][]string{"ingredients": ingredientIDs}
	var resp newOrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", body, &resp, true); err != nil {
		return nil, err
	}
	order := resp.Order
	if order.Name == "" {
		order.Name = resp.Name
	}
	return &order, nil
}

// GetUserOrders возвращает список заказов текущего пользователя.
func (c *Client) GetUserOrders(ctx context.Context) ([]model.Order, error) {
	var resp ordersResponse
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// Register регистрирует нового пользователя и возвращает его идентичность
// вместе с выданной парой токенов.
func (c *Client) Register(ctx context.Context, name, email, password string) (model.User, token.Pair, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &resp, false); err != nil {
		return model.User{}, token.Pair{}, err
	}
	return resp.User, token.Pair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

// Login выполняет вход и возвращает идентичность пользователя с парой токенов.
func (c *Client) Login(ctx context.Context, email, password string) (model.User, token.Pair, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp, false); err != nil {
		return model.User{}, token.Pair{}, err
	}
	return resp.User, token.Pair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

// GetUser запрашивает идентичность текущего пользователя по access-токену.
func (c *Client) GetUser(ctx context.Context) (model.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/auth/user", nil, &resp, true); err != nil {
		return model.User{}, err
	}
	return resp.User, nil
}

// UpdateUser обновляет профиль пользователя и возвращает серверную проекцию.
func (c *Client) UpdateUser(ctx context.Context, fields map[string]string) (model.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodPatch, "/auth/user", fields, &resp, true); err != nil {
		return model.User{}, err
	}
	return resp.User, nil
}

// Logout инвалидирует refresh-токен на сервере. Токен берётся из хранилища.
func (c *Client) Logout(ctx context.Context) error {
	pair, err := c.tokens.Load()
	if err != nil {
		return fmt.Errorf("load tokens: %w", err)
	}
	body := map[string]string{"token": pair.RefreshToken}
	var resp statusResponse
	return c.do(ctx, http.MethodPost, "/auth/logout", body, &resp, false)
}

// RequestPasswordReset запрашивает письмо для сброса пароля.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	var resp statusResponse
	return c.do(ctx, http.MethodPost, "/password-reset", body, &resp, false)
}

// ResetPassword устанавливает новый пароль по коду из письма.
func (c *Client) ResetPassword(ctx context.Context, password, code string) error {
	body := map[string]string{"password": password, "token": code}
	var resp statusResponse
	return c.do(ctx, http.MethodPost, "/password-reset/reset", body, &resp, false)
}

// do выполняет запрос к API. Для авторизованных запросов при ответе 401/403
// клиент один раз обновляет пару токенов и повторяет запрос.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authorized bool) error {
	status, err := c.send(ctx, method, path, body, out, authorized)
	if err != nil {
		return err
	}
	if !authorized || (status != http.StatusUnauthorized && status != http.StatusForbidden) {
		return c.checkStatus(status, out)
	}

	if refreshErr := c.refreshTokens(ctx); refreshErr != nil {
		return fmt.Errorf("%w: %s", ErrUnauthorized, refreshErr)
	}

	c.logger.Debug("access token refreshed, retrying request",
		zap.String("method", method),
		zap.String("path", path),
	)

	status, err = c.send(ctx, method, path, body, out, authorized)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return c.checkStatus(status, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any, authorized bool) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorized {
		pair, err := c.tokens.Load()
		if err != nil {
			return 0, fmt.Errorf("load tokens: %w", err)
		}
		req.Header.Set("Authorization", pair.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			// Тело ответа 401/403 не обязано быть валидным JSON: решение
			// об обновлении токена принимается по коду состояния.
			if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
				return resp.StatusCode, nil
			}
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// refreshTokens обменивает refresh-токен на новую пару и сохраняет её.
func (c *Client) refreshTokens(ctx context.Context) error {
	pair, err := c.tokens.Load()
	if err != nil {
		return fmt.Errorf("load tokens: %w", err)
	}
	if pair.RefreshToken == "" {
		return errors.New("no refresh token")
	}

	body := map[string]string{"token": pair.RefreshToken}
	var resp authResponse
	status, err := c.send(ctx, http.MethodPost, "/auth/token", body, &resp, false)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden || !resp.Success {
		return errors.New("refresh token rejected")
	}

	next := token.Pair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := c.tokens.Save(next); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	return nil
}

// checkStatus преобразует неуспешный ответ API в ошибку с серверным сообщением.
func (c *Client) checkStatus(status int, out any) error {
	type succeeder interface {
		failed() (bool, string)
	}

	if status >= http.StatusBadRequest {
		if s, ok := out.(succeeder); ok {
			if failed, message := s.failed(); failed && message != "" {
				return errors.New(message)
			}
		}
		return fmt.Errorf("unexpected status: %d", status)
	}

	if s, ok := out.(succeeder); ok {
		if failed, message := s.failed(); failed {
			if message == "" {
				message = "request failed"
			}
			return errors.New(message)
		}
	}
	return nil
}

func (r *statusResponse) failed() (bool, string) {
	return !r.Success, r.Message
}
