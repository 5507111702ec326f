package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-contacts/pkg/contact"
)

// ErrDeclined is returned when the final confirmation is answered with no.
var ErrDeclined = errors.New("prompt: declined")

type field struct {
	name    string
	message string
	missing string
}

var contactFields = []field{
	{contact.FieldFirstName, "First name", contact.MessageMissingFirstName},
	{contact.FieldLastName, "Last name", contact.MessageMissingLastName},
	{contact.FieldPhone, "Phone", contact.MessageMissingPhone},
	{contact.FieldEmailAddress, "Email", contact.MessageMissingEmail},
}

// AskContact collects every contact field, validates the answers the same way
// the HTML form does and asks for confirmation before returning.
func AskContact(ctx context.Context, d Driver) (contact.Input, error) {
	values := make(map[string][]string, len(contactFields))
	for _, f := range contactFields {
		missing := f.missing
		answer, err := d.Input(ctx, InputConfig{
			Message: f.message + ":",
			Validator: func(value string) error {
				if strings.TrimSpace(value) == "" {
					return errors.New(missing)
				}
				return nil
			},
		})
		if err != nil {
			return contact.Input{}, err
		}
		values[f.name] = []string{answer}
	}

	input, errs := contact.PendingFromForm(values).Normalize().Validate()
	if err := errs.Err(); err != nil {
		return contact.Input{}, err
	}

	ok, err := d.Confirm(ctx, ConfirmConfig{
		Message: "Save " + strings.TrimSpace(input.FirstName+" "+input.LastName) + " <" + input.EmailAddress + ">?",
		Default: true,
	})
	if err != nil {
		return contact.Input{}, err
	}
	if !ok {
		return contact.Input{}, ErrDeclined
	}
	return input, nil
}
