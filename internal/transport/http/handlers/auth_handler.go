package handlers

import (
	"errors"
	"net/http"
	"time"

	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
	"github.com/bandhan-app/matrimony/internal/transport/http/dto"
	httperrors "github.com/bandhan-app/matrimony/internal/transport/http/errors"
)

type AuthHandler struct {
	service *authsvc.Service
}

func NewAuthHandler(service *authsvc.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	var req dto.CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	res, err := h.service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, authResponse(res))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	var req dto.CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	res, err := h.service.LoginWithCode(r.Context(), req.Username, req.Password, req.OTP)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, authResponse(res))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	var req dto.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	res, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TokensResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresInSec: expiresIn(res.AccessExpires),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), identity.SID); err != nil {
		handleAuthError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{Message: "logged out"})
}

func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	if err := h.service.LogoutAll(r.Context(), identity.UserID); err != nil {
		handleAuthError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{Message: "logged out from all sessions"})
}

// Me backs GET /api/user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	user, err := h.service.Me(r.Context(), identity.UserID)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
}

func (h *AuthHandler) TOTPSetup(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	setup, err := h.service.StartTOTPSetup(r.Context(), identity.UserID)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TOTPSetupResponse{
		Secret:       setup.Secret,
		OTPAuthURL:   setup.OTPAuthURL,
		QRCode:       setup.QRCode,
		ExpiresInSec: expiresIn(setup.ExpiresAt),
	})
}

func (h *AuthHandler) TOTPConfirm(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	var req dto.TOTPConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if err := h.service.ConfirmTOTPSetup(r.Context(), identity.UserID, req.Code); err != nil {
		handleAuthError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TOTPConfirmResponse{Enabled: true})
}

func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, authsvc.ErrValidation):
		writeValidation(w, err, "request validation failed")
	case errors.Is(err, authsvc.ErrConflict):
		writeConflict(w, "CONFLICT", "username already taken")
	case errors.Is(err, authsvc.ErrOTPRequired):
		writeUnauthorized(w, "OTP_REQUIRED", "one-time code required")
	case errors.Is(err, authsvc.ErrUnauthorized):
		writeUnauthorized(w, "UNAUTHORIZED", "authentication failed")
	case errors.Is(err, authsvc.ErrTOTPUnavailable):
		writeInternal(w, "TOTP_UNAVAILABLE", "two-factor enrollment is unavailable")
	default:
		reportInternal(w, r, err, "auth request failed")
	}
}

func authResponse(res authsvc.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		ID:           res.User.ID,
		Username:     res.User.Username,
		IsAdmin:      res.User.IsAdmin,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresInSec: expiresIn(res.AccessExpires),
	}
}

func expiresIn(at time.Time) int64 {
	return maxInt64(0, int64(time.Until(at).Seconds()))
}
