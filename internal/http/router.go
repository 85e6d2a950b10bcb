package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/BlueLaysLover/backend--yt/internal/http/handlers"
	"github.com/BlueLaysLover/backend--yt/internal/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api/v1"; если пустой — роуты регистрируются на корне.
	Metrics  prometheus.Registerer
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Metrics != nil {
		root.Use(middleware.Metrics(opts.Metrics))
	}
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Регистрация маршрутов.
	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// Публичные операции сессионного ядра.
	r.Post("/auth/register", h.RegisterUser)
	r.Post("/auth/login", h.LoginUser)
	r.Post("/auth/refresh", h.RefreshTokens)

	// Операции, требующие действующий access-токен.
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.Authenticate(h.Service))

		pr.Post("/auth/logout", h.LogoutUser)
		pr.Post("/auth/avatar/presign", h.AvatarPresign)
		pr.Post("/auth/avatar/confirm", h.AvatarConfirm)
	})
}
