package router

import (
	"net/http"

	"equipment-inventory-api/internal/config"
	"equipment-inventory-api/internal/handler"
	"equipment-inventory-api/internal/middleware"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Equipment handler.EquipmentHandlerInterface
	Auth      handler.AuthHandlerInterface
	Users     handler.UserHandlerInterface
	System    *handler.SystemHandler
	Errors    *handler.ErrorHandler
}

// NewRouter creates the router, mounts the public and authenticated routes
// and wraps everything in the global middleware chain. The chain sits
// outside the mux so that unknown routes and CORS preflights get it too.
func NewRouter(h Handlers, authMW *middleware.AuthMiddleware, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(h.Errors.NotFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.Errors.MethodNotAllowedHandler)

	r.HandleFunc("/", h.System.WelcomeHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/health", h.System.HealthHandler).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", h.Auth.RegisterHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.LoginHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Auth.LogoutHandler).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(authMW.Authenticate)

	protected.HandleFunc("/auth/profile", h.Auth.ProfileHandler).Methods(http.MethodGet)

	// Equipment. Fixed segments are registered before the {id} routes.
	protected.HandleFunc("/equipment", h.Equipment.GetAllEquipmentHandler).Methods(http.MethodGet)
	protected.HandleFunc("/equipment", h.Equipment.CreateEquipmentHandler).Methods(http.MethodPost)
	protected.HandleFunc("/equipment/search", h.Equipment.SearchEquipmentHandler).Methods(http.MethodGet)
	protected.HandleFunc("/equipment/export", h.Equipment.ExportEquipmentHandler).Methods(http.MethodGet)
	protected.HandleFunc("/equipment/delect/{id:[0-9]+}", h.Equipment.DeleteEquipmentHandler).Methods(http.MethodPut)
	protected.HandleFunc("/equipment/{id:[0-9]+}", h.Equipment.GetEquipmentHandler).Methods(http.MethodGet)
	protected.HandleFunc("/equipment/{id:[0-9]+}", h.Equipment.UpdateEquipmentHandler).Methods(http.MethodPut)
	protected.HandleFunc("/equipment/{id:[0-9]+}/logs", h.Equipment.GetEquipmentLogsHandler).Methods(http.MethodGet)

	// User directory
	protected.HandleFunc("/users", h.Users.GetAllUsersHandler).Methods(http.MethodGet)
	protected.HandleFunc("/users/search/{name}", h.Users.SearchUsersHandler).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id:[0-9]+}", h.Users.UpdateUserHandler).Methods(http.MethodPut)

	securityMW := middleware.NewSecurityMiddleware(&cfg.Security)
	loggingMW := middleware.NewLoggingMiddleware(logger)

	return chain(r,
		loggingMW.RequestID,
		securityMW.TrustedProxy,
		loggingMW.LogRequests,
		loggingMW.Recover,
		securityMW.SecurityHeaders,
		securityMW.CORS,
		securityMW.RateLimit,
		securityMW.RequestTimeout,
	)
}

// chain wraps h so that the first middleware is the outermost.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
