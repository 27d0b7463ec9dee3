package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/bookdiary-api/internal/auth"
	"github.com/redmonkez12/bookdiary-api/internal/book"
	"github.com/redmonkez12/bookdiary-api/internal/config"
	"github.com/redmonkez12/bookdiary-api/internal/diary"
	"github.com/redmonkez12/bookdiary-api/internal/httputil"
	"github.com/redmonkez12/bookdiary-api/internal/logging"
	"github.com/redmonkez12/bookdiary-api/internal/metrics"
	"github.com/redmonkez12/bookdiary-api/internal/rating"
	"github.com/redmonkez12/bookdiary-api/internal/social"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       *auth.Handler
	Social     *social.Handler
	Books      *book.Handler
	Diary      *diary.Handler
	Ratings    *rating.Handler
	Middleware *auth.Middleware
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, logger *logging.Logger, m *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.TrustedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders: []string{"Content-Length", "WWW-Authenticate"},
			MaxAge:         300, // 5 minutes
		}))
	}

	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	if m != nil {
		r.Use(m.Middleware)
	}

	r.Get("/health", handleHealth)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	// Production builds will not have this route at all
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.Middleware.RequireAuth)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/me", h.Auth.Me)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(h.Middleware.RequireAuth)
		r.Get("/search", h.Social.Search)
		r.Get("/me/profile", h.Social.OwnProfile)
		r.Put("/me/privacy", h.Social.UpdatePrivacy)
		r.Get("/{id}/profile", h.Social.Profile)
		r.Post("/{id}/follow", h.Social.Follow)
		r.Delete("/{id}/follow", h.Social.Unfollow)
	})

	r.Route("/books", func(r chi.Router) {
		r.Use(h.Middleware.RequireAuth)
		r.Post("/add", h.Books.Add)
		r.Get("/user/read", h.Books.ListRead)
		r.Get("/{id}", h.Books.Get)
		r.Post("/{id}/read", h.Books.MarkRead)
	})

	r.Route("/diary", func(r chi.Router) {
		r.Use(h.Middleware.RequireAuth)
		r.Post("/", h.Diary.Create)
		r.Get("/", h.Diary.List)
		r.Get("/{id}", h.Diary.GetForBook)
		r.Put("/{id}", h.Diary.Update)
		r.Delete("/{id}", h.Diary.Delete)
	})

	r.Route("/ratings", func(r chi.Router) {
		r.Use(h.Middleware.RequireAuth)
		r.Post("/", h.Ratings.Upsert)
		r.Get("/", h.Ratings.List)
		r.Get("/top10", h.Ratings.Top10)
		r.Get("/{id}", h.Ratings.GetForBook)
		r.Delete("/{id}", h.Ratings.Delete)
	})

	return r
}

type healthResponse struct {
	Status string `json:"status"`
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} healthResponse
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, healthResponse{Status: "api is running"}, http.StatusOK)
}
