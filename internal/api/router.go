package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hewitt/pool-pilot/internal/api/handlers"
	"github.com/hewitt/pool-pilot/internal/api/middleware"
	"github.com/hewitt/pool-pilot/internal/auth"
	"github.com/hewitt/pool-pilot/internal/schedule"
	"github.com/hewitt/pool-pilot/pkg/crypto"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB              *gorm.DB
	Redis           *redis.Client
	Logger          *slog.Logger
	JWTService      *auth.JWTService
	AuthService     *auth.Service
	ScheduleService *schedule.Service
	Encryptor       *crypto.Encryptor
	AllowedOrigins  []string // CORS allowed origins
	RateLimitReqs   int      // Rate limit requests per window
	RateLimitSecs   int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow all in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	customerHandler := handlers.NewCustomerHandler(cfg.DB)
	propertyHandler := handlers.NewPropertyHandler(cfg.DB, cfg.Encryptor)
	assetHandler := handlers.NewAssetHandler(cfg.DB)
	customScheduleHandler := handlers.NewCustomScheduleHandler(cfg.DB)
	ruleHandler := handlers.NewSchedulingRuleHandler(cfg.DB)
	templateHandler := handlers.NewTemplateHandler(cfg.DB)
	visitHandler := handlers.NewVisitHandler(cfg.DB)
	scheduleHandler := handlers.NewScheduleHandler(cfg.DB, cfg.ScheduleService)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			// User endpoints
			r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
				userID := middleware.GetUserID(r.Context())
				user, err := cfg.AuthService.GetUserByID(r.Context(), userID)
				if err != nil {
					http.Error(w, "User not found", http.StatusNotFound)
					return
				}
				writeJSON(w, http.StatusOK, user)
			})

			// The computed due-set for one property and date
			r.Get("/schedule", scheduleHandler.Compute)

			// Customers endpoints
			r.Route("/customers", func(r chi.Router) {
				r.Get("/", customerHandler.List)
				r.Post("/", customerHandler.Create)
				r.Get("/{id}", customerHandler.Get)
				r.Delete("/{id}", customerHandler.Delete)
			})

			// Properties endpoints
			r.Route("/properties", func(r chi.Router) {
				r.Get("/", propertyHandler.List)
				r.Post("/", propertyHandler.Create)
				r.Get("/{id}", propertyHandler.Get)
				r.Get("/{id}/access-code", propertyHandler.AccessCode)
				r.Delete("/{id}", propertyHandler.Delete)
			})

			// Assets endpoints
			r.Route("/assets", func(r chi.Router) {
				r.Get("/", assetHandler.List)
				r.Post("/", assetHandler.Create)
				r.Get("/{id}", assetHandler.Get)
				r.Delete("/{id}", assetHandler.Delete)
			})

			// Custom schedules endpoints
			r.Route("/custom-schedules", func(r chi.Router) {
				r.Get("/", customScheduleHandler.List)
				r.Post("/", customScheduleHandler.Create)
				r.Get("/{id}", customScheduleHandler.Get)
				r.Post("/{id}/deactivate", customScheduleHandler.Deactivate)
			})

			// Property scheduling rules endpoints
			r.Route("/scheduling-rules", func(r chi.Router) {
				r.Get("/", ruleHandler.List)
				r.Post("/", ruleHandler.Create)
				r.Delete("/{id}", ruleHandler.Delete)
			})

			// Schedule templates endpoints
			r.Route("/templates", func(r chi.Router) {
				r.Get("/", templateHandler.List)
				r.Post("/", templateHandler.Create)
				r.Get("/{id}", templateHandler.Get)
				r.Delete("/{id}", templateHandler.Delete)
			})

			// Service visits endpoints
			r.Route("/visits", func(r chi.Router) {
				r.Get("/", visitHandler.List)
				r.Post("/", visitHandler.Create)
			})
		})
	})

	return &Router{r}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
