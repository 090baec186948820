package handler

import (
	"context"
	"net/http"
	"time"

	"equipment-inventory-api/internal/model"
	"equipment-inventory-api/internal/search"
	"equipment-inventory-api/internal/service"
)

// EquipmentService is the business contract behind the equipment endpoints.
type EquipmentService interface {
	ListEquipment(ctx context.Context) ([]model.Equipment, error)
	SearchEquipment(ctx context.Context, filter search.Filter) ([]model.Equipment, error)
	GetEquipment(ctx context.Context, id int64) (*model.Equipment, error)
	CreateEquipment(ctx context.Context, actor model.Identity, input model.EquipmentInput) (*model.Equipment, error)
	UpdateEquipment(ctx context.Context, actor model.Identity, id int64, input model.EquipmentInput) (*model.Equipment, error)
	DeleteEquipment(ctx context.Context, actor model.Identity, id int64) error
	EquipmentHistory(ctx context.Context, id int64) ([]model.ActionLogEntry, error)
}

// AuthService is the business contract behind the auth endpoints.
type AuthService interface {
	Register(ctx context.Context, input model.RegisterInput) (*model.User, error)
	Login(ctx context.Context, input model.LoginInput) (*service.LoginResult, error)
	Profile(ctx context.Context, userID int64) (*model.Identity, error)
	TokenTTL() time.Duration
}

// UserService is the business contract behind the user directory.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	SearchUsers(ctx context.Context, name string) ([]model.User, error)
	UpdateUser(ctx context.Context, actor model.Identity, id int64, input model.UserUpdateInput) (*model.User, error)
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// EquipmentHandlerInterface defines the contract for equipment HTTP handlers.
type EquipmentHandlerInterface interface {
	GetAllEquipmentHandler(w http.ResponseWriter, r *http.Request)
	SearchEquipmentHandler(w http.ResponseWriter, r *http.Request)
	ExportEquipmentHandler(w http.ResponseWriter, r *http.Request)
	GetEquipmentHandler(w http.ResponseWriter, r *http.Request)
	GetEquipmentLogsHandler(w http.ResponseWriter, r *http.Request)
	CreateEquipmentHandler(w http.ResponseWriter, r *http.Request)
	UpdateEquipmentHandler(w http.ResponseWriter, r *http.Request)
	DeleteEquipmentHandler(w http.ResponseWriter, r *http.Request)
}

// AuthHandlerInterface defines the contract for auth HTTP handlers.
type AuthHandlerInterface interface {
	RegisterHandler(w http.ResponseWriter, r *http.Request)
	LoginHandler(w http.ResponseWriter, r *http.Request)
	LogoutHandler(w http.ResponseWriter, r *http.Request)
	ProfileHandler(w http.ResponseWriter, r *http.Request)
}

// UserHandlerInterface defines the contract for user directory handlers.
type UserHandlerInterface interface {
	GetAllUsersHandler(w http.ResponseWriter, r *http.Request)
	SearchUsersHandler(w http.ResponseWriter, r *http.Request)
	UpdateUserHandler(w http.ResponseWriter, r *http.Request)
}

// Ensure handlers and services satisfy their contracts at compile time
var (
	_ EquipmentHandlerInterface = (*EquipmentHandler)(nil)
	_ AuthHandlerInterface      = (*AuthHandler)(nil)
	_ UserHandlerInterface      = (*UserHandler)(nil)

	_ EquipmentService = (*service.EquipmentService)(nil)
	_ AuthService      = (*service.AuthService)(nil)
	_ UserService      = (*service.UserService)(nil)
)
