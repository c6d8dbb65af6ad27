package validation

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

type signup struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Role     string `validate:"required,oneof=owner photographer client"`
	Website  string `validate:"omitempty,url"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()
	err := v.Validate(signup{Email: "a@b.com", Password: "secret1", Role: "owner"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_FieldMessages(t *testing.T) {
	v := New()
	err := v.Validate(signup{Email: "nope", Password: "123", Role: "admin", Website: "x"})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	msg := Message(err)
	for _, want := range []string{
		"email must be a valid email",
		"password must be at least 6 characters",
		"role must be one of: owner photographer client",
		"website must be a valid URL",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
	if strings.HasPrefix(msg, ErrInvalid.Error()) {
		t.Fatalf("expected prefix stripped, got %q", msg)
	}
}

func TestValidate_Required(t *testing.T) {
	v := New()
	err := v.Validate(signup{})
	if err == nil || !strings.Contains(err.Error(), "email is required") {
		t.Fatalf("expected required message, got %v", err)
	}
}

func TestMessage_Wrapped(t *testing.T) {
	err := New().Validate(signup{Email: "a@b.com", Password: "secret1", Role: "admin"})
	if err == nil {
		t.Fatalf("expected error")
	}
	wrapped := fmt.Errorf("Registration failed: %s: %w", Message(err), err)

	if got, want := Message(wrapped), Message(err); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
