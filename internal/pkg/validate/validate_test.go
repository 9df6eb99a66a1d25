package validate

import (
	"errors"
	"fmt"
	"testing"
)

type sample struct {
	Name string `json:"fullName" validate:"required,max=10"`
	Age  int    `json:"age" validate:"gte=18"`
}

func TestStructReportsJSONFieldName(t *testing.T) {
	err := Struct(sample{Name: "Asha", Age: 17})
	fe, ok := AsFieldError(err)
	if !ok {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fe.Field != "age" {
		t.Fatalf("unexpected field: got %q want %q", fe.Field, "age")
	}
	if fe.Message != "must be greater than or equal to 18" {
		t.Fatalf("unexpected message: %q", fe.Message)
	}
}

func TestStructRequired(t *testing.T) {
	err := Struct(sample{Age: 30})
	fe, ok := AsFieldError(err)
	if !ok || fe.Field != "fullName" || fe.Message != "is required" {
		t.Fatalf("unexpected field error: %+v (ok=%v)", fe, ok)
	}
}

func TestStructValid(t *testing.T) {
	if err := Struct(sample{Name: "Asha", Age: 30}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAsFieldErrorThroughWrapping(t *testing.T) {
	sentinel := errors.New("validation error")
	err := fmt.Errorf("%w: %w", sentinel, NewFieldError("content", "is required"))

	if !errors.Is(err, sentinel) {
		t.Fatalf("sentinel must stay matchable")
	}
	fe, ok := AsFieldError(err)
	if !ok || fe.Field != "content" {
		t.Fatalf("unexpected field error: %+v (ok=%v)", fe, ok)
	}
}

func TestRequired(t *testing.T) {
	if Required("   ") {
		t.Fatalf("blank must not satisfy Required")
	}
	if !Required("x") {
		t.Fatalf("non-blank must satisfy Required")
	}
}

func TestStructUsernameTag(t *testing.T) {
	type input struct {
		Username string `json:"username" validate:"required,min=3,max=32,username"`
	}

	if err := Struct(input{Username: "priya_sharma.1"}); err != nil {
		t.Fatalf("valid username rejected: %v", err)
	}

	err := Struct(input{Username: "Priya Sharma"})
	fe, ok := AsFieldError(err)
	if !ok {
		t.Fatalf("expected field error, got %v", err)
	}
	if fe.Field != "username" {
		t.Fatalf("unexpected field: got %q want %q", fe.Field, "username")
	}
}
