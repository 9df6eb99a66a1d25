package handlers

import (
	"net/http"

	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
	interestsvc "github.com/bandhan-app/matrimony/internal/services/interests"
	"github.com/bandhan-app/matrimony/internal/transport/http/dto"
	httperrors "github.com/bandhan-app/matrimony/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *interestsvc.Service
}

func NewMatchesHandler(service *interestsvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

// Unmatch backs DELETE /api/matches/{userId}.
func (h *MatchesHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	counterpartID, ok := parseIDParam(r, "userId")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "match not found")
		return
	}

	updated, err := h.service.Unmatch(r.Context(), identity.UserID, counterpartID)
	if err != nil {
		handleInterestError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UnmatchResponse{OK: true, Updated: updated})
}
