package profiles

import (
	"context"
	"errors"
	"testing"

	"github.com/bandhan-app/matrimony/internal/domain/model"
	"github.com/bandhan-app/matrimony/internal/domain/rules"
	"github.com/bandhan-app/matrimony/internal/pkg/validate"
	pgrepo "github.com/bandhan-app/matrimony/internal/repo/postgres"
)

type fakeStore struct {
	nextID     int64
	byUser     map[int64]model.Profile
	lastFilter pgrepo.ProfileFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{byUser: make(map[int64]model.Profile)}
}

func (f *fakeStore) Create(_ context.Context, userID int64, p model.Profile) (model.Profile, error) {
	if _, ok := f.byUser[userID]; ok {
		return model.Profile{}, pgrepo.ErrProfileExists
	}
	f.nextID++
	p.ID = f.nextID
	p.UserID = userID
	f.byUser[userID] = p
	return p, nil
}

func (f *fakeStore) Update(_ context.Context, userID int64, p model.Profile) (model.Profile, error) {
	existing, ok := f.byUser[userID]
	if !ok {
		return model.Profile{}, pgrepo.ErrProfileNotFound
	}
	p.ID = existing.ID
	p.UserID = userID
	f.byUser[userID] = p
	return p, nil
}

func (f *fakeStore) GetByID(_ context.Context, profileID int64) (model.Profile, error) {
	for _, p := range f.byUser {
		if p.ID == profileID {
			return p, nil
		}
	}
	return model.Profile{}, pgrepo.ErrProfileNotFound
}

func (f *fakeStore) GetByUserID(_ context.Context, userID int64) (model.Profile, error) {
	p, ok := f.byUser[userID]
	if !ok {
		return model.Profile{}, pgrepo.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeStore) List(_ context.Context, filter pgrepo.ProfileFilter) ([]model.Profile, error) {
	f.lastFilter = filter
	return []model.Profile{}, nil
}

func validInput() Input {
	return Input{
		FullName: "Priya Sharma",
		Age:      26,
		Gender:   "Female",
		Religion: "Hindu",
		City:     "Mumbai",
	}
}

func TestCreateAssignsDefaultAvatar(t *testing.T) {
	svc := NewService(newFakeStore(), Config{})

	profile, err := svc.Create(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if profile.Gender != "female" {
		t.Fatalf("unexpected gender: got %q want %q", profile.Gender, "female")
	}
	if profile.PhotoURL != rules.DefaultAvatar("female") {
		t.Fatalf("unexpected photo url: %q", profile.PhotoURL)
	}
}

func TestCreateSecondProfileConflicts(t *testing.T) {
	svc := NewService(newFakeStore(), Config{})

	if _, err := svc.Create(context.Background(), 1, validInput()); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if _, err := svc.Create(context.Background(), 1, validInput()); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	minor := validInput()
	minor.Age = 17

	noCity := validInput()
	noCity.City = "   "

	badPrefs := validInput()
	low, high := 30, 25
	badPrefs.PartnerPreferences = &model.PartnerPreferences{AgeMin: &low, AgeMax: &high}

	badGender := validInput()
	badGender.Gender = "robot"

	scriptPhoto := validInput()
	scriptPhoto.PhotoURL = "javascript:alert(1)"

	ftpPhoto := validInput()
	ftpPhoto.PhotoURL = "ftp://files.example.com/me.jpg"

	tests := []struct {
		name  string
		in    Input
		field string
	}{
		{name: "underage", in: minor, field: "age"},
		{name: "missing city", in: noCity, field: "city"},
		{name: "inverted partner ages", in: badPrefs, field: "partnerPreferences.ageMin"},
		{name: "unknown gender", in: badGender, field: "gender"},
		{name: "script photo url", in: scriptPhoto, field: "photoUrl"},
		{name: "non-http photo url", in: ftpPhoto, field: "photoUrl"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(newFakeStore(), Config{})
			_, err := svc.Create(context.Background(), 1, tc.in)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			fe, ok := validate.AsFieldError(err)
			if !ok || fe.Field != tc.field {
				t.Fatalf("unexpected field error: got %+v want field %q", fe, tc.field)
			}
		})
	}
}

func TestUpdateWithoutProfileIsNotFound(t *testing.T) {
	svc := NewService(newFakeStore(), Config{})

	if _, err := svc.Update(context.Background(), 5, validInput()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateReplacesDocument(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, Config{})

	in := validInput()
	in.Bio = "Loves travelling"
	if _, err := svc.Create(context.Background(), 1, in); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	next := validInput()
	next.City = "Pune"
	next.PhotoURL = "/api/profiles/1/photo"
	updated, err := svc.Update(context.Background(), 1, next)
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.City != "Pune" || updated.Bio != "" {
		t.Fatalf("update must replace the document: %+v", updated)
	}
	if updated.PhotoURL != rules.DefaultAvatar("female") {
		t.Fatalf("echoed photo path must not be stored as url, got %q", updated.PhotoURL)
	}
}

func TestGetMissingProfile(t *testing.T) {
	svc := NewService(newFakeStore(), Config{})

	if _, err := svc.Get(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetByUserID(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListClampsLimit(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, Config{DefaultLimit: 50, MaxLimit: 200})

	if _, err := svc.List(context.Background(), Filter{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if store.lastFilter.Limit != 50 {
		t.Fatalf("unexpected default limit: got %d want %d", store.lastFilter.Limit, 50)
	}

	if _, err := svc.List(context.Background(), Filter{Limit: 1000, City: " Delhi "}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if store.lastFilter.Limit != 200 {
		t.Fatalf("unexpected clamped limit: got %d want %d", store.lastFilter.Limit, 200)
	}
	if store.lastFilter.City != "Delhi" {
		t.Fatalf("unexpected city filter: %q", store.lastFilter.City)
	}

	if _, err := svc.List(context.Background(), Filter{AgeMin: 40, AgeMax: 30}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for inverted age range, got %v", err)
	}
}
