package contact

import (
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Validation messages rendered next to form fields.
const (
	MessageMissingFirstName = "Missing first name"
	MessageMissingLastName  = "Missing last name"
	MessageMissingPhone     = "Missing phone"
	MessageMissingEmail     = "Missing email address"
	MessageEmailEmpty       = "Email cannot be empty"
	MessageEmailTaken       = "Email must be unique"
)

// Pending is user input prior to validation. A nil field was not submitted.
type Pending struct {
	FirstName    *string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Phone        *string `json:"phone,omitempty" yaml:"phone,omitempty"`
	EmailAddress *string `json:"email_address,omitempty" yaml:"email_address,omitempty"`
}

// PendingFromForm reads the contact fields from submitted form values. Empty
// values are treated as absent.
func PendingFromForm(values url.Values) Pending {
	return Pending{
		FirstName:    formValue(values, FieldFirstName),
		LastName:     formValue(values, FieldLastName),
		Phone:        formValue(values, FieldPhone),
		EmailAddress: formValue(values, FieldEmailAddress),
	}
}

// PendingFromMap reads the contact fields from a decoded JSON object. Only
// non-empty string values count as present.
func PendingFromMap(values map[string]any) Pending {
	get := func(key string) *string {
		raw, ok := values[key].(string)
		if !ok || raw == "" {
			return nil
		}
		return &raw
	}
	return Pending{
		FirstName:    get(FieldFirstName),
		LastName:     get(FieldLastName),
		Phone:        get(FieldPhone),
		EmailAddress: get(FieldEmailAddress),
	}
}

// PendingFromContact seeds a form with stored values.
func PendingFromContact(c Contact) Pending {
	return Pending{
		FirstName:    stringPtr(c.FirstName),
		LastName:     stringPtr(c.LastName),
		Phone:        stringPtr(c.Phone),
		EmailAddress: stringPtr(c.EmailAddress),
	}
}

// PendingFromInput wraps an already complete record, for example one decoded
// from a seed file, so it passes through the same validation.
func PendingFromInput(in Input) Pending {
	return Pending{
		FirstName:    &in.FirstName,
		LastName:     &in.LastName,
		Phone:        &in.Phone,
		EmailAddress: &in.EmailAddress,
	}
}

// Normalize trims whitespace and strips markup from every submitted field.
// Fields that end up empty become absent.
func (p Pending) Normalize() Pending {
	return Pending{
		FirstName:    normalizeField(p.FirstName),
		LastName:     normalizeField(p.LastName),
		Phone:        normalizeField(p.Phone),
		EmailAddress: normalizeField(p.EmailAddress),
	}
}

// Validate returns the complete record when every field is present and
// non-empty. Otherwise it returns one message per missing field and a zero
// Input.
func (p Pending) Validate() (Input, FieldErrors) {
	errs := FieldErrors{}
	if isBlank(p.FirstName) {
		errs.Set(FieldFirstName, MessageMissingFirstName)
	}
	if isBlank(p.LastName) {
		errs.Set(FieldLastName, MessageMissingLastName)
	}
	if isBlank(p.Phone) {
		errs.Set(FieldPhone, MessageMissingPhone)
	}
	if p.EmailAddress == nil || *p.EmailAddress == "" {
		errs.Set(FieldEmailAddress, MessageMissingEmail)
	}
	if errs.Any() {
		return Input{}, errs
	}
	return Input{
		FirstName:    *p.FirstName,
		LastName:     *p.LastName,
		Phone:        *p.Phone,
		EmailAddress: *p.EmailAddress,
	}, nil
}

// Values flattens the pending fields for re-rendering a form. Absent fields
// map to the empty string.
func (p Pending) Values() map[string]string {
	return map[string]string{
		FieldFirstName:    deref(p.FirstName),
		FieldLastName:     deref(p.LastName),
		FieldPhone:        deref(p.Phone),
		FieldEmailAddress: deref(p.EmailAddress),
	}
}

var (
	inputPolicyOnce sync.Once
	inputPolicy     *bluemonday.Policy
)

func inputSanitizer() *bluemonday.Policy {
	inputPolicyOnce.Do(func() {
		inputPolicy = bluemonday.StrictPolicy()
	})
	return inputPolicy
}

func normalizeField(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	// StrictPolicy escapes what it keeps; unescape so stored text stays plain.
	cleaned := strings.TrimSpace(html.UnescapeString(inputSanitizer().Sanitize(trimmed)))
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func formValue(values url.Values, key string) *string {
	if values == nil {
		return nil
	}
	raw, ok := values[key]
	if !ok || len(raw) == 0 || raw[0] == "" {
		return nil
	}
	value := raw[0]
	return &value
}

func isBlank(value *string) bool {
	return value == nil || *value == ""
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
