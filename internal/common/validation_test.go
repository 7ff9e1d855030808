package common

import (
	"errors"
	"testing"
)

func TestValidatorCollectsErrors(t *testing.T) {
	email := "not-an-email"
	v := NewValidator().
		Field("email", &email, Email).
		Field("experience_years", -2, NonNegative).
		Field("name", "", Required).
		Field("city", "Casablanca", MaxLength(5))

	if got := len(v.Errors()); got != 4 {
		t.Fatalf("len(Errors()) = %d, want 4: %s", got, v.ErrorMessage())
	}
	if !errors.Is(v.Error(), ErrValidation) {
		t.Fatal("expected Error() to wrap ErrValidation")
	}
}

func TestValidatorAcceptsValidValues(t *testing.T) {
	email := "amine.alaoui@example.ma"
	var missing *string
	v := NewValidator().
		Field("email", &email, Email).
		Field("optional_email", missing, Email).
		Field("experience_years", 0, NonNegative).
		Field("id", "6f1c2a44-5c1b-4a53-9b65-7d2b7f0a9a11", UUID)

	if v.HasErrors() {
		t.Fatalf("unexpected errors: %s", v.ErrorMessage())
	}
	if v.Error() != nil {
		t.Fatal("Error() should be nil without failures")
	}
}
