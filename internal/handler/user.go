package handler

import (
	"net/http"

	"equipment-inventory-api/internal/model"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// UserHandler handles the user directory.
type UserHandler struct {
	Service UserService
	Logger  *zap.Logger

	ErrorHandler   *ErrorHandler
	ResponseHelper *ResponseHelper
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(svc UserService, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{
		Service:        svc,
		Logger:         logger,
		ErrorHandler:   NewErrorHandler(logger),
		ResponseHelper: NewResponseHelper(),
	}
}

func (h *UserHandler) GetAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, r, err, "list users")
		return
	}
	h.ErrorHandler.SendListResponse(w, users, len(users))
}

func (h *UserHandler) SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.SearchUsers(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, r, err, "search users")
		return
	}
	h.ErrorHandler.SendListResponse(w, users, len(users))
}

// UpdateUserHandler replaces a user's name, email and optionally password.
func (h *UserHandler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(h.ErrorHandler, w, r)
	if !ok {
		return
	}
	id, ok := h.ErrorHandler.ParseID(w, r)
	if !ok {
		return
	}

	var input model.UserUpdateInput
	if err := h.ResponseHelper.DecodeJSON(w, r, &input); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}

	user, err := h.Service.UpdateUser(r.Context(), actor, id, input)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, r, err, "update user")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "User updated successfully", user)
}
