package handler

import (
	"net/http"
	"strconv"

	"equipment-inventory-api/pkg/api"
	apperrors "equipment-inventory-api/pkg/errors"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ErrorHandler provides centralized error handling functionality for handlers
type ErrorHandler struct {
	Logger *zap.Logger
}

// NewErrorHandler creates a new ErrorHandler instance
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorHandler{Logger: logger}
}

// SendSuccessResponse sends a structured success response
func (e *ErrorHandler) SendSuccessResponse(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	if err := api.Success(w, statusCode, message, data); err != nil {
		e.Logger.Error("failed to encode success response", zap.Error(err))
	}
}

// SendListResponse sends a 200 envelope carrying items and their count
func (e *ErrorHandler) SendListResponse(w http.ResponseWriter, items interface{}, length int) {
	if err := api.List(w, items, length); err != nil {
		e.Logger.Error("failed to encode list response", zap.Error(err))
	}
}

// SendErrorResponse sends a structured error response
func (e *ErrorHandler) SendErrorResponse(w http.ResponseWriter, statusCode int, message, code string, details map[string]string) {
	if err := api.Error(w, statusCode, message, code, details); err != nil {
		e.Logger.Error("failed to encode error response", zap.Error(err))
	}
}

// HandleServiceError maps a service failure to its envelope. Server-side
// failures are logged with their cause; client errors only at debug.
func (e *ErrorHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	status := api.FromError(w, err)

	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		e.Logger.Error("request failed", fields...)
		return
	}
	e.Logger.Debug("request rejected", fields...)
}

// HandleJSONDecodeError handles JSON decoding errors
func (e *ErrorHandler) HandleJSONDecodeError(w http.ResponseWriter, err error) {
	e.Logger.Debug("JSON decode error", zap.Error(err))
	appErr := apperrors.InvalidJSONError(err)
	e.SendErrorResponse(w, appErr.GetHTTPStatus(), appErr.Message, string(appErr.Code), nil)
}

// ParseID reads the numeric {id} path variable. The router pattern
// already restricts it to digits; overflow still answers 400.
func (e *ErrorHandler) ParseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	if raw == "" {
		e.SendErrorResponse(w, http.StatusBadRequest, "ID is required", string(apperrors.ErrorCodeInvalidParameter), nil)
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		e.SendErrorResponse(w, http.StatusBadRequest, "Invalid ID format", string(apperrors.ErrorCodeInvalidParameter), nil)
		return 0, false
	}
	return id, true
}

// NotFoundHandler answers unknown routes with the JSON envelope
func (e *ErrorHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	e.SendErrorResponse(w, http.StatusNotFound, "Route not found", string(apperrors.ErrorCodeNotFound), nil)
}

// MethodNotAllowedHandler answers known routes called with the wrong method
func (e *ErrorHandler) MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	e.SendErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", string(apperrors.ErrorCodeBadRequest), nil)
}
