package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterOptions struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

func NewRouter(controller QuizController, opts RouterOptions) http.Handler {
	api := NewAPI(controller, opts.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware(api.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", api.HandleHealth)
	r.Get("/ws/timer", api.HandleTimerWS)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/", api.HandleIndex)
		r.Post("/start", api.HandleStartForm)
		r.Post("/answer", api.HandleAnswerForm)
		r.Post("/navigate", api.HandleNavigateForm)
		r.Post("/restart", api.HandleRestartForm)

		r.Route("/api", func(r chi.Router) {
			if len(opts.AllowedOrigins) > 0 {
				r.Use(cors.Handler(cors.Options{
					AllowedOrigins: opts.AllowedOrigins,
					AllowedMethods: []string{"GET", "POST", "OPTIONS"},
					AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
					ExposedHeaders: []string{"X-Request-ID"},
					MaxAge:         300,
				}))
			}

			r.Get("/session", api.HandleGetSession)
			r.Post("/session", api.HandleStartSession)
			r.Post("/answers", api.HandleRecordAnswer)
			r.Post("/navigation", api.HandleNavigate)
			r.Post("/restart", api.HandleRestart)
			r.Get("/report", api.HandleReport)
		})
	})

	return r
}
