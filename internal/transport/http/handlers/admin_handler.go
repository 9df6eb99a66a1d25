package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
	userssvc "github.com/bandhan-app/matrimony/internal/services/users"
	httperrors "github.com/bandhan-app/matrimony/internal/transport/http/errors"
)

type AdminHandler struct {
	users *userssvc.Service
}

func NewAdminHandler(users *userssvc.Service) *AdminHandler {
	return &AdminHandler{users: users}
}

func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	httperrors.Write(w, http.StatusOK, map[string]any{
		"ok":     true,
		"userId": identity.UserID,
		"role":   identity.Role,
	})
}

// Users lists every account with its profile, if any.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.users == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}

	q := r.URL.Query()
	items, err := h.users.ListWithProfiles(r.Context(),
		parseIntOrDefault(q.Get("limit"), 0),
		parseIntOrDefault(q.Get("offset"), 0),
	)
	if err != nil {
		switch {
		case errors.Is(err, userssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid pagination")
		default:
			reportInternal(w, r, err, "failed to list users")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, items)
}
