package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayush/krishi-mitr/backend/internal/auth"
	"github.com/ayush/krishi-mitr/backend/internal/crop"
	"github.com/ayush/krishi-mitr/backend/internal/logger"
	"github.com/ayush/krishi-mitr/backend/internal/middleware"
	"github.com/ayush/krishi-mitr/backend/internal/pricing"
	"github.com/ayush/krishi-mitr/backend/internal/store"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Store          *store.Store
	Hasher         auth.PasswordHasher
	Log            *logger.Logger
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the HTTP surface of the marketplace API.
func NewRouter(d Deps) http.Handler {
	authHandler := auth.NewHandler(d.Store, d.Hasher, d.Log)
	cropHandler := crop.NewHandler(d.Store, d.Log)
	pricingHandler := pricing.NewHandler(d.Store, d.Log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(d.RateLimitRPS, d.RateLimitBurst))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("🌿 Krishi Mitr API is running!"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/api/crop", func(r chi.Router) {
		r.Post("/add", cropHandler.Add)
		r.Get("/list", cropHandler.List)
		r.Post("/barter/{id}", cropHandler.Barter)
		r.Post("/buy/{id}", cropHandler.Buy)
	})

	r.Route("/api/pricing", func(r chi.Router) {
		r.Get("/", pricingHandler.List)
		r.Post("/", pricingHandler.Replace)
		r.Get("/{name}", pricingHandler.Get)
	})

	return r
}
