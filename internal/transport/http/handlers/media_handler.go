package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
	mediasvc "github.com/bandhan-app/matrimony/internal/services/media"
	httperrors "github.com/bandhan-app/matrimony/internal/transport/http/errors"
)

// Multipart overhead on top of the photo itself.
const maxPhotoUploadSize = mediasvc.MaxPhotoBytes + 1<<20

type MediaHandler struct {
	service *mediasvc.Service
}

func NewMediaHandler(service *mediasvc.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) PhotoUpload(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadSize)
	if err := r.ParseMultipartForm(maxPhotoUploadSize); err != nil {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "invalid multipart form or photo too large",
			Field:   "photo",
		})
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "photo is required",
			Field:   "photo",
		})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	profile, err := h.service.UploadPhoto(r.Context(), identity.UserID, header.Filename, contentType, file, header.Size)
	if err != nil {
		handleMediaError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, profile)
}

func handleMediaError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, mediasvc.ErrValidation):
		writeValidation(w, err, "invalid photo")
	case errors.Is(err, mediasvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "profile or photo not found")
	default:
		reportInternal(w, r, err, "photo request failed")
	}
}
