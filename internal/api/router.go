package api

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gatherly/server/internal/api/handlers"
	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/cache"
	"github.com/gatherly/server/internal/config"
	"github.com/gatherly/server/internal/domain/attendees"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/users"
	"github.com/gatherly/server/internal/metrics"
	"github.com/gatherly/server/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewRouter wires repositories, services, and handlers onto the mux and
// wraps everything in the shared middleware chain.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool, version string) http.Handler {
	repo := postgres.NewRepository(pool)

	responseCache := cache.NewStore()
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, "gatherly")

	eventsService := events.NewService(repo.Events(), responseCache)
	attendeesService := attendees.NewService(repo.Attendees())
	usersService := users.NewService(repo.Users(), jwtManager)

	eventsHandler := handlers.NewEventsHandler(eventsService, cfg.Environment)
	attendeesHandler := handlers.NewAttendeesHandler(attendeesService, eventsService, cfg.Environment)
	authHandler := handlers.NewAuthHandler(usersService, cfg.Environment)
	healthHandler := handlers.NewHealthHandler(pool, version)

	requireAuth := middleware.RequireAuth(jwtManager, cfg.Environment)
	optionalAuth := middleware.OptionalAuth(jwtManager)
	updateThrottle := middleware.UpdateThrottle(cfg.RateLimit.UpdatePerMinute, time.Minute, cfg.Environment)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler.Healthz)
	mux.HandleFunc("/readyz", healthHandler.Readyz)
	mux.Handle("/metrics", metrics.Handler())

	mux.Handle("/api/login", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Login),
	}))
	mux.Handle("/api/logout", methodMux(map[string]http.Handler{
		http.MethodPost: requireAuth(http.HandlerFunc(authHandler.Logout)),
	}))
	mux.Handle("/api/user", methodMux(map[string]http.Handler{
		http.MethodGet: requireAuth(http.HandlerFunc(authHandler.User)),
	}))

	mux.Handle("/api/events", methodMux(map[string]http.Handler{
		http.MethodGet:  optionalAuth(http.HandlerFunc(eventsHandler.List)),
		http.MethodPost: requireAuth(http.HandlerFunc(eventsHandler.Create)),
	}))
	mux.Handle("/api/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet: optionalAuth(http.HandlerFunc(eventsHandler.Get)),
		// The throttle sits in front of the handler: a throttled update is
		// rejected before ownership or validation are ever checked.
		http.MethodPut:    requireAuth(updateThrottle(http.HandlerFunc(eventsHandler.Update))),
		http.MethodDelete: requireAuth(http.HandlerFunc(eventsHandler.Delete)),
	}))

	mux.Handle("/api/events/{event_id}/attendees", methodMux(map[string]http.Handler{
		http.MethodGet:  optionalAuth(http.HandlerFunc(attendeesHandler.List)),
		http.MethodPost: requireAuth(http.HandlerFunc(attendeesHandler.Register)),
	}))
	mux.Handle("/api/events/{event_id}/attendees/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    optionalAuth(http.HandlerFunc(attendeesHandler.Get)),
		http.MethodPut:    requireAuth(http.HandlerFunc(attendeesHandler.Update)),
		http.MethodDelete: requireAuth(http.HandlerFunc(attendeesHandler.Delete)),
	}))

	var handler http.Handler = mux
	handler = middleware.RateLimit(cfg.RateLimit)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
