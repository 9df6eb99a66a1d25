package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
	messagesvc "github.com/bandhan-app/matrimony/internal/services/messages"
	"github.com/bandhan-app/matrimony/internal/transport/http/dto"
	httperrors "github.com/bandhan-app/matrimony/internal/transport/http/errors"
)

type MessagesHandler struct {
	service *messagesvc.Service
}

func NewMessagesHandler(service *messagesvc.Service) *MessagesHandler {
	return &MessagesHandler{service: service}
}

func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGES_SERVICE_UNAVAILABLE", "messages service is unavailable")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	msg, err := h.service.Send(r.Context(), identity.UserID, req.ReceiverID, req.Content)
	if err != nil {
		handleMessageError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, msg)
}

// List backs GET /api/messages/{userId}; clients poll with afterId set to
// the last id they hold.
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGES_SERVICE_UNAVAILABLE", "messages service is unavailable")
		return
	}

	counterpartID, ok := parseIDParam(r, "userId")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "user not found")
		return
	}
	afterID, err := parseOptionalInt(r.URL.Query().Get("afterId"))
	if err != nil {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "afterId must be an integer",
			Field:   "afterId",
		})
		return
	}

	items, err := h.service.List(r.Context(), identity.UserID, counterpartID, int64(afterID))
	if err != nil {
		handleMessageError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, items)
}

func (h *MessagesHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGES_SERVICE_UNAVAILABLE", "messages service is unavailable")
		return
	}

	items, err := h.service.Conversations(r.Context(), identity.UserID)
	if err != nil {
		handleMessageError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, items)
}

func handleMessageError(w http.ResponseWriter, r *http.Request, err error) {
	if writeTooFast(w, err, "too many messages, slow down") {
		return
	}
	switch {
	case errors.Is(err, messagesvc.ErrValidation):
		writeValidation(w, err, "invalid message")
	case errors.Is(err, messagesvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "receiver not found")
	case errors.Is(err, messagesvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "you can only message your matches")
	default:
		reportInternal(w, r, err, "message request failed")
	}
}
