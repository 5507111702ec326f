package contact

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFieldErrors_SetOverwrites(t *testing.T) {
	errs := FieldErrors{}
	errs.Set(FieldEmailAddress, MessageMissingEmail)
	errs.Set(FieldEmailAddress, MessageEmailTaken)
	errs.Set("", "ignored")
	errs.Set(FieldPhone, "  ")

	if diff := cmp.Diff(FieldErrors{FieldEmailAddress: MessageEmailTaken}, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldErrors_MergeKeepsExisting(t *testing.T) {
	var errs FieldErrors
	errs = errs.Merge(FieldErrors{FieldPhone: "schema says no"})
	errs = FieldErrors{FieldPhone: MessageMissingPhone}.Merge(errs)
	if errs.Get(FieldPhone) != MessageMissingPhone {
		t.Fatalf("expected existing message to win, got %q", errs.Get(FieldPhone))
	}
}

func TestMapErrorPayload(t *testing.T) {
	mapping := MapErrorPayload(map[string][]string{
		"/email_address":    {"  value must be a string ", "value must be a string"},
		"#/body/first_name": {"minimum string length is 1"},
		"data.phone[0]":     {"bad phone"},
		"/nickname":         {"property nickname is unsupported"},
		"__all__":           {"payload rejected"},
		"/last_name":        {"   "},
	})

	wantFields := FieldErrors{
		FieldEmailAddress: "value must be a string",
		FieldFirstName:    "minimum string length is 1",
		FieldPhone:        "bad phone",
	}
	if diff := cmp.Diff(wantFields, mapping.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	wantForm := []string{"property nickname is unsupported", "payload rejected"}
	if diff := cmp.Diff(wantForm, mapping.Form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldErrorsErr(t *testing.T) {
	if err := (FieldErrors{}).Err(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	err := FieldErrors{FieldPhone: MessageMissingPhone, FieldFirstName: MessageMissingFirstName}.Err()
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected a ValidationError, got %T", err)
	}
	want := "invalid contact: first_name: Missing first name; phone: Missing phone"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
