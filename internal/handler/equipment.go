package handler

import (
	"context"
	"net/http"
	"time"

	"equipment-inventory-api/internal/export"
	"equipment-inventory-api/internal/middleware"
	"equipment-inventory-api/internal/model"
	"equipment-inventory-api/internal/search"

	"go.uber.org/zap"
)

// ExportTimeout bounds the search behind an XLSX export.
const ExportTimeout = 30 * time.Second

// EquipmentHandler handles the HTTP requests for equipment.
type EquipmentHandler struct {
	Service EquipmentService
	Logger  *zap.Logger

	ErrorHandler   *ErrorHandler
	ResponseHelper *ResponseHelper
}

// NewEquipmentHandler creates a new EquipmentHandler with dependencies and helpers
func NewEquipmentHandler(svc EquipmentService, logger *zap.Logger) *EquipmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EquipmentHandler{
		Service:        svc,
		Logger:         logger,
		ErrorHandler:   NewErrorHandler(logger),
		ResponseHelper: NewResponseHelper(),
	}
}

// GetAllEquipmentHandler lists every active record.
func (h *EquipmentHandler) GetAllEquipmentHandler(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListEquipment(r.Context())
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, r, err, "list equipment")
		return
	}
	h.ErrorHandler.SendListResponse(w, items, len(items))
}

// SearchEquipmentHandler lists the active records matching the query
// parameters. With no recognized parameter it behaves like the listing.
func (h *EquipmentHandler) SearchEquipmentHandler(w http.ResponseWriter, r *http.Request) {
	filter := search.ParseFilter(r.URL.Query())

	items, err := h.Service.SearchEquipment(r.Context(), filter)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, r, err, "search equipment")
		return
	}
	h.ErrorHandler.SendListResponse(w, items, len(items))
}

// ExportEquipmentHandler streams the search result as an XLSX attachment.
func (h *EquipmentHandler) ExportEquipmentHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ExportTimeout)
	defer cancel()

	items, err := h.Service.SearchEquipment(ctx, search.ParseFilter(r.URL.Query()))
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, r, err, "export equipment")
		return
	}

	buf, err := export.EquipmentWorkbook(items)
	if err != nil {
		h.Logger.Error("failed to render equipment export", zap.Int("rows", len(items)), zap.Error(err))
		h.ErrorHandler.SendErrorResponse(w, http.StatusInternalServerError, "Failed to generate export", "INTERNAL_ERROR", nil)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+export.Filename(h.ResponseHelper.now()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Warn("failed to write equipment export", zap.Error(err))
	}
}

// GetEquipmentHandler returns a single active record.
func (h *EquipmentHandler) GetEquipmentHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ErrorHandler.ParseID(w, r)
	if !ok {
		return
	}

	e, err := h.Service.GetEquipment(r.Context(), id)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, r, err, "get equipment")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "", e)
}

// GetEquipmentLogsHandler returns the action history of a record.
func (h *EquipmentHandler) GetEquipmentLogsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ErrorHandler.ParseID(w, r)
	if !ok {
		return
	}

	entries, err := h.Service.EquipmentHistory(r.Context(), id)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, r, err, "equipment history")
		return
	}
	h.ErrorHandler.SendListResponse(w, entries, len(entries))
}

// CreateEquipmentHandler handles the creation of a new record.
func (h *EquipmentHandler) CreateEquipmentHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var input model.EquipmentInput
	if err := h.ResponseHelper.DecodeJSON(w, r, &input); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}

	e, err := h.Service.CreateEquipment(r.Context(), actor, input)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, r, err, "create equipment")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusCreated, "Equipment added successfully", e)
}

// UpdateEquipmentHandler overwrites every mutable field of a record.
func (h *EquipmentHandler) UpdateEquipmentHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.ErrorHandler.ParseID(w, r)
	if !ok {
		return
	}

	var input model.EquipmentInput
	if err := h.ResponseHelper.DecodeJSON(w, r, &input); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}

	e, err := h.Service.UpdateEquipment(r.Context(), actor, id, input)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, r, err, "update equipment")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Equipment updated successfully", e)
}

// DeleteEquipmentHandler retires a record.
func (h *EquipmentHandler) DeleteEquipmentHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.ErrorHandler.ParseID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteEquipment(r.Context(), actor, id); err != nil {
		h.ErrorHandler.HandleServiceError(w, r, err, "delete equipment")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Equipment deleted successfully", map[string]int64{"id": id})
}

func (h *EquipmentHandler) actor(w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	return requireIdentity(h.ErrorHandler, w, r)
}

// requireIdentity returns the caller set by the auth middleware. Routes
// mounted without it answer 401.
func requireIdentity(e *ErrorHandler, w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		e.SendErrorResponse(w, http.StatusUnauthorized, "not authorized, no token", "UNAUTHORIZED", nil)
		return model.Identity{}, false
	}
	return identity, true
}
