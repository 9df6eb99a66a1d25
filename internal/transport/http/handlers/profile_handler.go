package handlers

import (
	"errors"
	"net/http"

	"github.com/bandhan-app/matrimony/internal/pkg/validate"
	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
	mediasvc "github.com/bandhan-app/matrimony/internal/services/media"
	profilesvc "github.com/bandhan-app/matrimony/internal/services/profiles"
	"github.com/bandhan-app/matrimony/internal/transport/http/dto"
	httperrors "github.com/bandhan-app/matrimony/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilesvc.Service
	media   *mediasvc.Service
}

func NewProfileHandler(service *profilesvc.Service, media *mediasvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service, media: media}
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	profile, err := h.service.Create(r.Context(), identity.UserID, profileInput(req))
	if err != nil {
		handleProfileError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, profile)
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	filter, err := parseProfileFilter(r)
	if err != nil {
		writeValidation(w, err, "invalid query parameters")
		return
	}

	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleProfileError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, items)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	id, ok := parseIDParam(r, "id")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "profile not found")
		return
	}

	profile, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleProfileError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, profile)
}

// Photo redirects to wherever the profile photo can be downloaded from.
func (h *ProfileHandler) Photo(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	id, ok := parseIDParam(r, "id")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "photo not found")
		return
	}

	target, err := h.media.PhotoURL(r.Context(), id)
	if err != nil {
		handleMediaError(w, r, err)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

func (h *ProfileHandler) MyProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.GetByUserID(r.Context(), identity.UserID)
	if err != nil {
		handleProfileError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	profile, err := h.service.Update(r.Context(), identity.UserID, profileInput(req))
	if err != nil {
		handleProfileError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, profile)
}

func handleProfileError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, profilesvc.ErrValidation):
		writeValidation(w, err, "invalid profile")
	case errors.Is(err, profilesvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "profile not found")
	case errors.Is(err, profilesvc.ErrConflict):
		writeConflict(w, "CONFLICT", "profile already exists")
	default:
		reportInternal(w, r, err, "profile request failed")
	}
}

func profileInput(req dto.ProfileRequest) profilesvc.Input {
	return profilesvc.Input{
		FullName:           req.FullName,
		Age:                req.Age,
		Gender:             req.Gender,
		Religion:           req.Religion,
		Caste:              req.Caste,
		City:               req.City,
		Profession:         req.Profession,
		Bio:                req.Bio,
		PhotoURL:           req.PhotoURL,
		Details:            req.Details,
		PartnerPreferences: req.PartnerPreferences,
	}
}

func parseProfileFilter(r *http.Request) (profilesvc.Filter, error) {
	q := r.URL.Query()
	filter := profilesvc.Filter{
		Religion:      q.Get("religion"),
		City:          q.Get("city"),
		Gender:        q.Get("gender"),
		Caste:         q.Get("caste"),
		MaritalStatus: q.Get("maritalStatus"),
	}

	ints := []struct {
		name   string
		target *int
	}{
		{"ageMin", &filter.AgeMin},
		{"ageMax", &filter.AgeMax},
		{"limit", &filter.Limit},
		{"offset", &filter.Offset},
	}
	for _, p := range ints {
		v, err := parseOptionalInt(q.Get(p.name))
		if err != nil {
			return profilesvc.Filter{}, validate.NewFieldError(p.name, "must be an integer")
		}
		*p.target = v
	}

	return filter, nil
}
