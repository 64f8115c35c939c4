package models

import (
	"testing"

	"github.com/mmautosoft/dealership_backend/utils"
)

func TestAuthenticate(t *testing.T) {
	hash, err := utils.HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD_HASH", hash)
	t.Setenv("VIEWER_USERNAME", "")

	user, err := Authenticate("admin", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if user.Username != "admin" || user.Role != "admin" {
		t.Fatalf("user %+v", user)
	}

	if _, err := Authenticate("admin", "wrong"); err == nil {
		t.Fatal("wrong password accepted")
	}
	if _, err := Authenticate("nobody", "s3cret"); err == nil {
		t.Fatal("unknown user accepted")
	}
}

func TestValidateContact(t *testing.T) {
	// Free-form contacts pass through untouched.
	for _, contact := range []string{"", "ask for U Mya", "09-1234567", "mya@example.com"} {
		if err := validateContact(contact); err != nil {
			t.Fatalf("contact %q rejected: %v", contact, err)
		}
	}
	// International-format numbers and email-shaped contacts are checked.
	if err := validateContact("+959791234567"); err != nil {
		t.Fatalf("valid number rejected: %v", err)
	}
	if err := validateContact("+1"); err == nil {
		t.Fatal("junk international number accepted")
	}
	if err := validateContact("mya@"); err == nil {
		t.Fatal("malformed email accepted")
	}
}
