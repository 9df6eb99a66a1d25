package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/bandhan-app/matrimony/internal/domain/enums"
	"github.com/bandhan-app/matrimony/internal/domain/model"
	"github.com/bandhan-app/matrimony/internal/pkg/validate"
	pgrepo "github.com/bandhan-app/matrimony/internal/repo/postgres"
	redrepo "github.com/bandhan-app/matrimony/internal/repo/redis"
	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
)

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]pgrepo.CredentialsRecord
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byName: make(map[string]pgrepo.CredentialsRecord)}
}

func (f *fakeUserStore) Create(_ context.Context, username, passwordHash string, isAdmin bool) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byName[username]; ok {
		return model.User{}, pgrepo.ErrUsernameTaken
	}
	f.nextID++
	user := model.User{ID: f.nextID, Username: username, IsAdmin: isAdmin, Role: enums.RoleFor(isAdmin), CreatedAt: time.Now().UTC()}
	f.byName[username] = pgrepo.CredentialsRecord{User: user, PasswordHash: passwordHash}
	return user, nil
}

func (f *fakeUserStore) FindCredentials(_ context.Context, username string) (pgrepo.CredentialsRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.byName[username]
	if !ok {
		return pgrepo.CredentialsRecord{}, pgrepo.ErrUserNotFound
	}
	return rec, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, userID int64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, rec := range f.byName {
		if rec.User.ID == userID {
			return rec.User, nil
		}
	}
	return model.User{}, pgrepo.ErrUserNotFound
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	registered, err := svc.Register(ctx, " Priya_Sharma ", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.User.Username != "priya_sharma" {
		t.Fatalf("unexpected username: got %q want %q", registered.User.Username, "priya_sharma")
	}
	if registered.User.Role != enums.RoleUser {
		t.Fatalf("unexpected role: got %q want %q", registered.User.Role, enums.RoleUser)
	}

	if _, err := svc.Register(ctx, "priya_sharma", "another1"); !errors.Is(err, authsvc.ErrConflict) {
		t.Fatalf("duplicate register should conflict, got err=%v", err)
	}

	loggedIn, err := svc.Login(ctx, "PRIYA_SHARMA", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.ValidateAccessToken(ctx, loggedIn.AccessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.UserID != registered.User.ID {
		t.Fatalf("unexpected user id: got %d want %d", claims.UserID, registered.User.ID)
	}

	if _, err := svc.Login(ctx, "priya_sharma", "wrong-password"); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("wrong password should be unauthorized, got err=%v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "secret123"); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("unknown user should be unauthorized, got err=%v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	tests := []struct {
		name     string
		username string
		password string
		field    string
	}{
		{name: "short username", username: "ab", password: "secret123", field: "username"},
		{name: "bad characters", username: "bad name!", password: "secret123", field: "username"},
		{name: "short password", username: "arjun_singh", password: "12345", field: "password"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.username, tc.password)
			if !errors.Is(err, authsvc.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			fe, ok := validate.AsFieldError(err)
			if !ok || fe.Field != tc.field {
				t.Fatalf("unexpected field error: got %+v want field %q", fe, tc.field)
			}
		})
	}
}

func TestAdminRoleCarriedInToken(t *testing.T) {
	svc, users, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	hash, err := authsvc.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := users.Create(ctx, "admin", hash, true); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	res, err := svc.Login(ctx, "admin", "password123")
	if err != nil {
		t.Fatalf("login admin: %v", err)
	}
	claims, err := svc.ValidateAccessToken(ctx, res.AccessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.Role != enums.RoleAdmin {
		t.Fatalf("unexpected role: got %q want %q", claims.Role, enums.RoleAdmin)
	}
}

func TestRefreshRotation(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	loginRes, err := svc.Register(ctx, "rohit_verma", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	refreshRes, err := svc.Refresh(ctx, loginRes.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshRes.RefreshToken == loginRes.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}

	if _, err := svc.Refresh(ctx, loginRes.RefreshToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("old refresh token should be unauthorized, got err=%v", err)
	}
	if _, err := svc.ValidateAccessToken(ctx, refreshRes.AccessToken); err != nil {
		t.Fatalf("new access token validation failed: %v", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	loginRes, err := svc.Register(ctx, "aisha_khan", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	claims, err := svc.ValidateAccessToken(ctx, loginRes.AccessToken)
	if err != nil {
		t.Fatalf("validate access token before logout: %v", err)
	}
	if err := svc.Logout(ctx, claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, loginRes.AccessToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("access token should be unauthorized after logout, got err=%v", err)
	}
	if _, err := svc.Refresh(ctx, loginRes.RefreshToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("refresh token should be unauthorized after logout, got err=%v", err)
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	other := authsvc.NewJWTManager("other-secret", time.Minute)
	token, _, err := other.GenerateAccessToken(1, "sid", enums.RoleAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := svc.ValidateAccessToken(context.Background(), token); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("foreign token should be unauthorized, got err=%v", err)
	}
}

func newAuthServiceForTest(t *testing.T) (*authsvc.Service, *fakeUserStore, func()) {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	users := newFakeUserStore()
	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute)
	svc := authsvc.NewService(jwtManager, redrepo.NewSessionRepo(client), users, 45*24*time.Hour)

	cleanup := func() {
		_ = client.Close()
		mini.Close()
	}

	return svc, users, cleanup
}
