package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/pquerna/otp/totp"
	goredis "github.com/redis/go-redis/v9"

	pgrepo "github.com/bandhan-app/matrimony/internal/repo/postgres"
	redrepo "github.com/bandhan-app/matrimony/internal/repo/redis"
	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
	"github.com/bandhan-app/matrimony/internal/transport/http/dto"
)

func (s *userStoreStub) SetTOTPSecret(_ context.Context, userID int64, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, rec := range s.byName {
		if rec.User.ID == userID {
			rec.TOTPSecret = secret
			s.byName[name] = rec
			return nil
		}
	}
	return pgrepo.ErrUserNotFound
}

func TestTOTPEnrollmentGatesLogin(t *testing.T) {
	h := NewAuthHandler(newTOTPAuthServiceForTest(t))
	creds := map[string]any{"username": "admin", "password": "password123"}

	created := postJSON(t, h.Register, "/api/register", creds)
	var auth dto.AuthResponse
	if err := json.NewDecoder(created.Body).Decode(&auth); err != nil {
		t.Fatalf("decode register: %v", err)
	}

	rr := httptest.NewRecorder()
	h.TOTPSetup(rr, withIdentity(httptest.NewRequest(http.MethodPost, "/api/admin/2fa/setup", nil), auth.ID))
	if rr.Code != http.StatusOK {
		t.Fatalf("setup: got %d body=%s", rr.Code, rr.Body.String())
	}
	var setup dto.TOTPSetupResponse
	if err := json.NewDecoder(rr.Body).Decode(&setup); err != nil {
		t.Fatalf("decode setup: %v", err)
	}
	if setup.Secret == "" || setup.QRCode == "" || setup.ExpiresInSec <= 0 {
		t.Fatalf("unexpected setup payload: %+v", setup)
	}

	rr = httptest.NewRecorder()
	h.TOTPConfirm(rr, withIdentity(newJSONRequest(t, http.MethodPost, "/api/admin/2fa/confirm", map[string]any{"code": "12"}), auth.ID))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("confirm with bad code: got %d want %d", rr.Code, http.StatusBadRequest)
	}
	assertErrorCode(t, rr, "VALIDATION_ERROR", "code")

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	rr = httptest.NewRecorder()
	h.TOTPConfirm(rr, withIdentity(newJSONRequest(t, http.MethodPost, "/api/admin/2fa/confirm", map[string]any{"code": code}), auth.ID))
	if rr.Code != http.StatusOK {
		t.Fatalf("confirm: got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = postJSON(t, h.Login, "/api/login", creds)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("login without code: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
	assertErrorCode(t, rr, "OTP_REQUIRED", "")

	rr = postJSON(t, h.Login, "/api/login", map[string]any{"username": "admin", "password": "password123", "otp": code})
	if rr.Code != http.StatusOK {
		t.Fatalf("login with code: got %d body=%s", rr.Code, rr.Body.String())
	}
}

func newTOTPAuthServiceForTest(t *testing.T) *authsvc.Service {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	users := &userStoreStub{byName: make(map[string]pgrepo.CredentialsRecord)}
	svc := authsvc.NewService(
		authsvc.NewJWTManager("test-secret", 15*time.Minute),
		redrepo.NewSessionRepo(client),
		users,
		30*24*time.Hour,
	)
	svc.AttachTOTP(users, redrepo.NewTOTPSetupRepo(client), authsvc.TOTPConfig{})
	return svc
}
