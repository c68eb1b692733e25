package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/journeys-backend/internal/apperror"
	"github.com/AnshRaj112/journeys-backend/internal/config"
	"github.com/AnshRaj112/journeys-backend/internal/handlers"
	"github.com/AnshRaj112/journeys-backend/internal/logging"
	"github.com/AnshRaj112/journeys-backend/internal/middleware"
)

// NewRouter builds the HTTP surface. redisClient may be nil, in which case
// non-production deployments run without the Redis rate limiter.
func NewRouter(cfg *config.Config, entries *handlers.EntryHandler, users *handlers.UserHandler, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health and metrics sit outside the rate limits
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		// Production: SecurityHeaders → HostCheck → GlobalRateLimit → LoginRateLimit
		// Non-production: Redis-based rate limit only
		if cfg.IsProduction() {
			r.Use(middleware.ProductionSecurity(cfg.AllowedHost)...)
		} else if redisClient != nil {
			r.Use(middleware.NewRedisRateLimiter(redisClient).Middleware)
		} else {
			logging.Warn().Msg("Redis unavailable; running without request rate limiting")
		}

		r.Route("/api/entries", func(r chi.Router) {
			r.Get("/user/{uid}", entries.GetEntriesByUserID)
			r.Get("/{pid}", entries.GetEntryByID)
			r.Post("/", entries.CreateEntry)
			r.Patch("/{pid}", entries.UpdateEntry)
			r.Delete("/{pid}", entries.DeleteEntry)
		})

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", users.GetUsers)
			r.Post("/signup", users.Signup)
			r.Post("/login", users.Login)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apperror.Handle(w, r, apperror.New("Could not find this route.", http.StatusNotFound))
	})

	return r
}
