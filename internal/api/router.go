package api

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/agleymelo/daily-diet-api/internal/api/recovery"
	"github.com/agleymelo/daily-diet-api/internal/api/respond"
	"github.com/agleymelo/daily-diet-api/internal/auth"
	"github.com/agleymelo/daily-diet-api/internal/services"
)

// RouterDeps carries everything NewRouter wires into handlers.
type RouterDeps struct {
	Users  *services.UserService
	Meals  *services.MealService
	Health HealthReporter
	Log    zerolog.Logger

	SessionMaxAge time.Duration
	CookieSecure  bool
	// RegisterRateLimit is requests per minute per client IP on POST /users; 0 disables it.
	RegisterRateLimit int
}

// NewRouter builds the HTTP surface of the service.
func NewRouter(d RouterDeps) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware(d.Log))
	router.Use(instrument)
	router.Use(requestLogger(d.Log))
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteError(w, http.StatusNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})

	healthHandler := NewHealthHandler(d.Health)
	userHandler := NewUserHandler(d.Users, d.Log, d.SessionMaxAge, d.CookieSecure)
	mealHandler := NewMealHandler(d.Meals, d.Log)

	// Ops
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Users
	var register http.Handler = http.HandlerFunc(userHandler.Register)
	if d.RegisterRateLimit > 0 {
		register = httprate.Limit(d.RegisterRateLimit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				respond.WriteError(w, http.StatusTooManyRequests, "too many registrations, retry later")
			}),
		)(register)
	}
	router.Handle("/users", register).Methods(http.MethodPost)

	// Meals; every route needs a known session
	meals := router.PathPrefix("/meals").Subrouter()
	meals.Use(auth.RequireSession(d.Users))
	meals.HandleFunc("", mealHandler.CreateMeal).Methods(http.MethodPost)
	meals.HandleFunc("", mealHandler.ListMeals).Methods(http.MethodGet)
	// metrics is registered ahead of {mealId} so it is not read as an id
	meals.HandleFunc("/metrics", mealHandler.Metrics).Methods(http.MethodGet)
	meals.HandleFunc("/{mealId}", mealHandler.GetMeal).Methods(http.MethodGet)
	meals.HandleFunc("/{mealId}", mealHandler.UpdateMeal).Methods(http.MethodPut)
	meals.HandleFunc("/{mealId}", mealHandler.DeleteMeal).Methods(http.MethodDelete)

	return router
}
