package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"a@b.com","password":"longenough"}`))
	var dest loginPayload
	if err := DecodeJSONBody(r, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Email != "a@b.com" {
		t.Fatalf("unexpected decode result: %+v", dest)
	}
}

func TestDecodeJSONBodyCollectsAllFieldErrors(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"nope","password":""}`))
	var dest loginPayload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatal("expected validation error")
	}

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}

	details, ok := typed.Details().(map[string][]string)
	if !ok {
		t.Fatalf("expected field map details, got %T", typed.Details())
	}
	if len(details["email"]) == 0 {
		t.Error("expected email error collected")
	}
	if len(details["password"]) == 0 {
		t.Error("expected password error collected")
	}
}

func TestDecodeJSONBodyIgnoresUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"a@b.com","password":"longenough","extra":1}`))
	var dest loginPayload
	if err := DecodeJSONBody(r, &dest); err != nil {
		t.Fatalf("unknown keys should be ignored, got %v", err)
	}
	if dest.Email != "a@b.com" {
		t.Fatalf("unexpected decode result: %+v", dest)
	}
}

type typedPayload struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func TestDecodeJSONBodyReportsTypeMismatchUnderField(t *testing.T) {
	r := httptest.NewRequest("POST", "/product-options", strings.NewReader(`{"name":"Size","quantity":"lots"}`))
	var dest typedPayload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatal("expected decode error")
	}

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	details, ok := typed.Details().(map[string][]string)
	if !ok {
		t.Fatalf("expected field map details, got %T", typed.Details())
	}
	if len(details["quantity"]) == 0 {
		t.Fatalf("expected error keyed by quantity, got %v", details)
	}
	if len(details["body"]) != 0 {
		t.Fatalf("type mismatch should not fall back to body key, got %v", details)
	}
}

func TestDecodeJSONBodyMalformed(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{not json`))
	var dest loginPayload
	err := DecodeJSONBody(r, &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type nestedPayload struct {
	Options []struct {
		Title  string `json:"title" validate:"required"`
		Values []struct {
			Name string `json:"name" validate:"required"`
		} `json:"values" validate:"required,dive"`
	} `json:"options" validate:"dive"`
}

func TestValidateStructNestedFieldPaths(t *testing.T) {
	var dest nestedPayload
	r := httptest.NewRequest("POST", "/products", strings.NewReader(`{"options":[{"title":"","values":[{"name":""}]}]}`))
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatal("expected validation error")
	}

	details := pkgerrors.As(err).Details().(map[string][]string)
	if len(details["options.0.title"]) == 0 {
		t.Errorf("expected nested title path, got %v", details)
	}
	if len(details["options.0.values.0.name"]) == 0 {
		t.Errorf("expected nested value path, got %v", details)
	}
}
