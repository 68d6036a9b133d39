package usecase

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xavierca1/maria-crm/internal/entity"
)

var phoneDigits = regexp.MustCompile(`\D`)

// fieldErrors collects per-field messages; missing fields are reported
// separately so clients get the {"missing": [...]} shape first.
type fieldErrors struct {
	missing []string
	invalid map[string]string
}

func (f *fieldErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f.missing = append(f.missing, field)
	}
}

func (f *fieldErrors) requiredID(field string, id int64) {
	if id <= 0 {
		f.missing = append(f.missing, field)
	}
}

func (f *fieldErrors) add(field, message string) {
	if f.invalid == nil {
		f.invalid = make(map[string]string)
	}
	f.invalid[field] = message
}

func (f *fieldErrors) maxLength(field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		f.add(field, "is too long")
	}
}

func (f *fieldErrors) email(field string, value *string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(*value)); err != nil {
		f.add(field, "Invalid email")
	}
}

func (f *fieldErrors) phone(field, value string) {
	if value == "" {
		return
	}
	n := len(phoneDigits.ReplaceAllString(value, ""))
	if n < 7 || n > 15 {
		f.add(field, "must be a valid phone number")
	}
}

// personPatch trims and checks the optional name, phone and email of a partial
// edit in place. Email is lower-cased.
func (f *fieldErrors) personPatch(fullName, phone, email *string) {
	if fullName != nil {
		*fullName = strings.TrimSpace(*fullName)
		if *fullName == "" {
			f.add("full_name", "must not be empty")
		}
		f.maxLength("full_name", *fullName, 200)
	}
	if phone != nil {
		*phone = strings.TrimSpace(*phone)
		if *phone == "" {
			f.add("phone", "must not be empty")
		}
		f.phone("phone", *phone)
	}
	if email != nil {
		*email = strings.ToLower(strings.TrimSpace(*email))
		f.email("email", email)
	}
}

func (f *fieldErrors) err() error {
	if len(f.missing) > 0 {
		return NewMissingFieldsError(f.missing...)
	}
	if len(f.invalid) > 0 {
		return NewValidationError(f.invalid)
	}
	return nil
}

// ValidateLead checks the fields accepted when a lead is created manually.
func ValidateLead(fullName, phone string, email *string) error {
	var f fieldErrors
	f.required("full_name", fullName)
	f.required("phone", phone)
	f.maxLength("full_name", fullName, 200)
	f.phone("phone", phone)
	f.email("email", email)
	return f.err()
}

func ValidateContact(fullName, phone string, email *string) error {
	return ValidateLead(fullName, phone, email)
}

// ValidateContactPatch normalizes a contact edit in place.
func ValidateContactPatch(patch *entity.ContactPatch) error {
	var f fieldErrors
	f.personPatch(patch.FullName, patch.Phone, patch.Email)
	return f.err()
}

func ValidateCreateDealInput(input CreateDealInput) error {
	var f fieldErrors
	f.required("title", input.Title)
	f.requiredID("contact_id", input.ContactID)
	f.maxLength("title", input.Title, 200)
	if input.Status != "" && !input.Status.Valid() {
		f.add("status", "must be open, won or lost")
	}
	if input.Amount < 0 {
		f.add("amount", "must not be negative")
	}
	return f.err()
}
