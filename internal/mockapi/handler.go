package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers-core/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// GetIngredients возвращает полный каталог ингредиентов.
func (s *Server) GetIngredients(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := append([]model.Ingredient(nil), s.ingredients...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    items,
	})
}

// GetFeed возвращает публичную ленту: заказы от новых к старым и оба счётчика.
func (s *Server) GetFeed(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	orders := make([]model.Order, 0, len(s.orders))
	for _, rec := range s.orders {
		orders = append(orders, rec.order)
	}
	total, totalToday := s.total, s.totalToday
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"orders":     orders,
		"total":      total,
		"totalToday": totalToday,
	})
}

// GetOrderByNumber ищет заказ по публичному номеру.
func (s *Server) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order number")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.orders {
		if rec.order.Number == number {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"orders":  []model.Order{rec.order},
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  []model.Order{},
	})
}

// CreateOrder создаёт заказ из последовательности идентификаторов ингредиентов.
func (s *Server) CreateOrder(w http.ResponseWriter, r *http.Request) {
	email, ok := emailFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Ingredients []string `json:"ingredients"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Ingredients) == 0 {
		writeError(w, http.StatusBadRequest, "Ingredient ids must be provided")
		return
	}

	s.mu.Lock()
	order := s.createOrder(email, req.Ingredients)
	s.mu.Unlock()

	s.logger.Info("mock order created",
		zap.Int("number", order.Number),
		zap.String("owner", email),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"name":    order.Name,
		"order":   order,
	})
}

// GetUserOrders возвращает заказы текущего пользователя.
func (s *Server) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	email, ok := emailFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	s.mu.Lock()
	orders := make([]model.Order, 0)
	for _, rec := range s.orders {
		if rec.owner == email {
			orders = append(orders, rec.order)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  orders,
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register регистрирует нового пользователя и выдаёт пару токенов.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusForbidden, "Email, password and name are required fields")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[req.Email]; exists {
		writeError(w, http.StatusForbidden, "User already exists")
		return
	}

	s.users[req.Email] = userRecord{name: req.Name, email: req.Email, password: req.Password}
	access, refresh := s.issueTokens(req.Email)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"user":         model.User{Email: req.Email, Name: req.Name},
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

// Login выполняет вход по почте и паролю и выдаёт пару токенов.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[req.Email]
	if !exists || user.password != req.Password {
		writeError(w, http.StatusUnauthorized, "email or password are incorrect")
		return
	}

	access, refresh := s.issueTokens(req.Email)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"user":         model.User{Email: user.email, Name: user.name},
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

// RefreshToken обменивает действующий refresh-токен на новую пару токенов.
// Старый refresh-токен при этом инвалидируется.
func (s *Server) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email, exists := s.refreshTokens[req.Token]
	if !exists {
		writeError(w, http.StatusForbidden, "Token is invalid")
		return
	}
	delete(s.refreshTokens, req.Token)

	access, refresh := s.issueTokens(email)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

// Logout инвалидирует refresh-токен пользователя.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.refreshTokens[req.Token]; !exists {
		writeError(w, http.StatusNotFound, "Token is invalid")
		return
	}
	delete(s.refreshTokens, req.Token)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Successful logout",
	})
}

// GetUser возвращает идентичность текущего пользователя.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	email, ok := emailFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	s.mu.Lock()
	user, exists := s.users[email]
	s.mu.Unlock()

	if !exists {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    model.User{Email: user.email, Name: user.name},
	})
}

// UpdateUser обновляет имя и почту текущего пользователя.
func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	email, ok := emailFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[email]
	if !exists {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	if name, ok := req["name"]; ok && name != "" {
		user.name = name
	}
	if newEmail, ok := req["email"]; ok && newEmail != "" && newEmail != email {
		delete(s.users, email)
		user.email = newEmail
	}
	if password, ok := req["password"]; ok && password != "" {
		user.password = password
	}
	s.users[user.email] = user

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    model.User{Email: user.email, Name: user.name},
	})
}

// RequestPasswordReset имитирует отправку письма с кодом сброса пароля.
func (s *Server) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	s.resetCodes[req.Email] = "reset-code"
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Reset email sent",
	})
}

// ResetPassword устанавливает новый пароль по коду из письма.
func (s *Server) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
		Token    string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for email, code := range s.resetCodes {
		if code == req.Token {
			if user, exists := s.users[email]; exists {
				user.password = req.Password
				s.users[email] = user
			}
			delete(s.resetCodes, email)
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Password successfully reset",
			})
			return
		}
	}

	writeError(w, http.StatusNotFound, "Invalid reset token")
}
