package mockapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SetupRouter настраивает HTTP-маршруты макета API.
func (s *Server) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(requestLogger(s.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ingredients", s.GetIngredients)
		r.Get("/orders/all", s.GetFeed)
		r.Get("/orders/{number}", s.GetOrderByNumber)

		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Post("/auth/token", s.RefreshToken)
		r.Post("/auth/logout", s.Logout)

		r.Post("/password-reset", s.RequestPasswordReset)
		r.Post("/password-reset/reset", s.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/orders", s.CreateOrder)
			r.Get("/orders", s.GetUserOrders)

			r.Get("/auth/user", s.GetUser)
			r.Patch("/auth/user", s.UpdateUser)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// requestLogger пишет строку журнала о каждом обработанном запросе.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			logger.Info("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
