package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bandhan-app/matrimony/internal/pkg/validate"
	ratesvc "github.com/bandhan-app/matrimony/internal/services/rate"
	httperrors "github.com/bandhan-app/matrimony/internal/transport/http/errors"
)

type loggerKey struct{}

// WithLogger attaches the request-scoped logger used to report internal errors.
func WithLogger(ctx context.Context, log *zap.Logger) context.Context {
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, log)
}

func loggerFrom(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && log != nil {
		return log
	}
	return zap.NewNop()
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeForbidden(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeConflict(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusConflict, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

// writeValidation reports the offending field when err carries one.
func writeValidation(w http.ResponseWriter, err error, fallback string) {
	payload := httperrors.APIError{Code: "VALIDATION_ERROR", Message: fallback}
	if fe, ok := validate.AsFieldError(err); ok {
		payload.Field = fe.Field
		payload.Message = fe.Error()
	}
	httperrors.Write(w, http.StatusBadRequest, payload)
}

// writeTooFast handles rate.TooFastError and reports whether err was one.
func writeTooFast(w http.ResponseWriter, err error, message string) bool {
	var tf *ratesvc.TooFastError
	if !errors.As(err, &tf) {
		return false
	}
	httperrors.WriteRateLimited(w, httperrors.RateLimitError{
		Code:          "TOO_FAST",
		Message:       message,
		RetryAfterSec: tf.RetryAfterSec,
	})
	return true
}

func reportInternal(w http.ResponseWriter, r *http.Request, err error, message string) {
	loggerFrom(r.Context()).Error(message, zap.Error(err))
	writeInternal(w, "INTERNAL_ERROR", message)
}

func parseIntOrDefault(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// parseOptionalInt is strict: a present but malformed value is an error.
func parseOptionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func parseIDParam(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, key)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
