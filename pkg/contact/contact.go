package contact

import (
	"strconv"
	"strings"
)

// Form and JSON field names shared by templates, handlers and the API schema.
const (
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldPhone        = "phone"
	FieldEmailAddress = "email_address"
)

// Fields lists the contact fields in display order.
var Fields = []string{FieldFirstName, FieldLastName, FieldPhone, FieldEmailAddress}

// ID identifies a stored contact.
type ID int64

// ParseID parses a path segment into an ID. Only positive integers are valid.
func ParseID(raw string) (ID, bool) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return ID(value), true
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Contact is a persisted contact record.
type Contact struct {
	ID           ID     `json:"id" yaml:"id"`
	FirstName    string `json:"first_name" yaml:"first_name"`
	LastName     string `json:"last_name" yaml:"last_name"`
	Phone        string `json:"phone" yaml:"phone"`
	EmailAddress string `json:"email_address" yaml:"email_address"`
}

// Input is a validated contact without an identifier.
type Input struct {
	FirstName    string `json:"first_name" yaml:"first_name"`
	LastName     string `json:"last_name" yaml:"last_name"`
	Phone        string `json:"phone" yaml:"phone"`
	EmailAddress string `json:"email_address" yaml:"email_address"`
}

// WithID attaches an identifier, producing the stored shape.
func (in Input) WithID(id ID) Contact {
	return Contact{
		ID:           id,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		EmailAddress: in.EmailAddress,
	}
}

// Input drops the identifier.
func (c Contact) Input() Input {
	return Input{
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Phone:        c.Phone,
		EmailAddress: c.EmailAddress,
	}
}

// FullName joins first and last name for headings.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
