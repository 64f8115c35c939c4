package models

import (
	"strings"
	"time"

	"github.com/mmautosoft/dealership_backend/utils"
)

func parseDateField(raw string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// validateContact checks contact cells that look like phone numbers or
// email addresses. Free-form contacts (local numbers, notes) pass
// through untouched.
func validateContact(contact string) error {
	contact = strings.TrimSpace(contact)
	switch {
	case strings.HasPrefix(contact, "+"):
		if err := utils.ValidatePhoneNumber(contact, utils.CountryCode); err != nil {
			return utils.ValidationErrorf("contact %q is not a valid phone number", contact)
		}
	case strings.Contains(contact, "@"):
		if !utils.IsValidEmail(contact) {
			return utils.ValidationErrorf("contact %q is not a valid email address", contact)
		}
	}
	return nil
}
