package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthTimeout bounds the store ping of the health check.
const HealthTimeout = 2 * time.Second

// SystemHandler serves the welcome page and the health check.
type SystemHandler struct {
	DB     Pinger
	Logger *zap.Logger

	ErrorHandler   *ErrorHandler
	ResponseHelper *ResponseHelper
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger, logger *zap.Logger) *SystemHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemHandler{
		DB:             db,
		Logger:         logger,
		ErrorHandler:   NewErrorHandler(logger),
		ResponseHelper: NewResponseHelper(),
	}
}

// WelcomeHandler lists the API entry points.
func (h *SystemHandler) WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Welcome to the Equipment Management API", h.ResponseHelper.CreateWelcomeData())
}

// HealthHandler reports 200 when the store answers a ping and 503 otherwise.
func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), HealthTimeout)
	defer cancel()

	status, message, database := http.StatusOK, "Service is healthy", "up"
	if err := h.DB.PingContext(ctx); err != nil {
		h.Logger.Warn("health check: database unreachable", zap.Error(err))
		status, message, database = http.StatusServiceUnavailable, "Database unreachable", "down"
	}

	h.ErrorHandler.SendSuccessResponse(w, status, message, h.ResponseHelper.CreateHealthCheckData(database))
}
