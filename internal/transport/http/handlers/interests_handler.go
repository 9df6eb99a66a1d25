package handlers

import (
	"errors"
	"net/http"

	"github.com/bandhan-app/matrimony/internal/domain/enums"
	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
	interestsvc "github.com/bandhan-app/matrimony/internal/services/interests"
	"github.com/bandhan-app/matrimony/internal/transport/http/dto"
	httperrors "github.com/bandhan-app/matrimony/internal/transport/http/errors"
)

type InterestsHandler struct {
	service *interestsvc.Service
}

func NewInterestsHandler(service *interestsvc.Service) *InterestsHandler {
	return &InterestsHandler{service: service}
}

func (h *InterestsHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "INTERESTS_SERVICE_UNAVAILABLE", "interests service is unavailable")
		return
	}

	var req dto.SendInterestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	interest, err := h.service.Send(r.Context(), identity.UserID, req.ReceiverID)
	if err != nil {
		handleInterestError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, interest)
}

func (h *InterestsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "INTERESTS_SERVICE_UNAVAILABLE", "interests service is unavailable")
		return
	}

	view, ok := enums.ParseInterestView(r.URL.Query().Get("type"))
	if !ok {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "type must be one of: sent received matches",
			Field:   "type",
		})
		return
	}

	items, err := h.service.List(r.Context(), identity.UserID, view)
	if err != nil {
		handleInterestError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, items)
}

func (h *InterestsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "INTERESTS_SERVICE_UNAVAILABLE", "interests service is unavailable")
		return
	}

	id, ok := parseIDParam(r, "id")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "interest not found")
		return
	}

	var req dto.ResolveInterestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	interest, err := h.service.Resolve(r.Context(), id, identity.UserID, req.Status)
	if err != nil {
		handleInterestError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, interest)
}

func handleInterestError(w http.ResponseWriter, r *http.Request, err error) {
	if writeTooFast(w, err, "too many interests sent, slow down") {
		return
	}
	switch {
	case errors.Is(err, interestsvc.ErrValidation):
		writeValidation(w, err, "invalid interest request")
	case errors.Is(err, interestsvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "interest or user not found")
	case errors.Is(err, interestsvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "only the receiver can respond to an interest")
	case errors.Is(err, interestsvc.ErrConflict):
		writeConflict(w, "CONFLICT", "interest is already open or resolved")
	default:
		reportInternal(w, r, err, "interest request failed")
	}
}
