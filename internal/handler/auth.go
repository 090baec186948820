package handler

import (
	"net/http"

	"equipment-inventory-api/internal/middleware"
	"equipment-inventory-api/internal/model"

	"go.uber.org/zap"
)

// AuthHandler handles registration, login and the caller profile.
type AuthHandler struct {
	Service      AuthService
	CookieSecure bool
	Logger       *zap.Logger

	ErrorHandler   *ErrorHandler
	ResponseHelper *ResponseHelper
}

// NewAuthHandler creates a new AuthHandler. cookieSecure marks the session
// cookie Secure and should be set whenever the API is served over TLS.
func NewAuthHandler(svc AuthService, cookieSecure bool, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		Service:        svc,
		CookieSecure:   cookieSecure,
		Logger:         logger,
		ErrorHandler:   NewErrorHandler(logger),
		ResponseHelper: NewResponseHelper(),
	}
}

// RegisterHandler creates an account.
func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var input model.RegisterInput
	if err := h.ResponseHelper.DecodeJSON(w, r, &input); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}

	user, err := h.Service.Register(r.Context(), input)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, r, err, "register")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusCreated, "User registered successfully", model.IdentityOf(*user))
}

// LoginHandler verifies credentials, returns the token and sets it as an
// HttpOnly cookie.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input model.LoginInput
	if err := h.ResponseHelper.DecodeJSON(w, r, &input); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}

	result, err := h.Service.Login(r.Context(), input)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, r, err, "login")
		return
	}

	http.SetCookie(w, h.sessionCookie(result.Token, int(h.Service.TokenTTL().Seconds())))
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Login successful", result)
}

// LogoutHandler expires the session cookie. Tokens already handed out
// stay valid until they expire.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Logged out", nil)
}

// ProfileHandler returns the authenticated caller.
func (h *AuthHandler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(h.ErrorHandler, w, r)
	if !ok {
		return
	}

	profile, err := h.Service.Profile(r.Context(), identity.ID)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, r, err, "profile")
		return
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "", profile)
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}
