// Package testsupport holds fixtures and helpers shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contacts/pkg/contact"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Diff returns a go-cmp diff, empty when the values are equal.
func Diff(want, got any) string {
	return cmp.Diff(want, got)
}

// People returns three well known contacts. Alan Turing's address contains
// "love" so searches can prove that only names are matched.
func People() []contact.Input {
	return []contact.Input{
		{FirstName: "Ada", LastName: "Lovelace", Phone: "555-0100", EmailAddress: "ada@example.com"},
		{FirstName: "Grace", LastName: "Hopper", Phone: "555-0101", EmailAddress: "grace@example.com"},
		{FirstName: "Alan", LastName: "Turing", Phone: "555-0102", EmailAddress: "alan@love.example"},
	}
}

// Numbered returns n contacts named First01/Last01 onwards.
func Numbered(n int) []contact.Input {
	out := make([]contact.Input, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, contact.Input{
			FirstName:    fmt.Sprintf("First%02d", i),
			LastName:     fmt.Sprintf("Last%02d", i),
			Phone:        fmt.Sprintf("555-%04d", i),
			EmailAddress: fmt.Sprintf("person%02d@example.com", i),
		})
	}
	return out
}

// LoadContacts reads a YAML fixture shaped like
//
//	contacts:
//	  - first_name: Ada
//	    ...
//
// and validates every entry.
func LoadContacts(path string) ([]contact.Input, error) {
	if path == "" {
		return nil, errors.New("testsupport: fixture path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read fixture: %w", err)
	}

	var doc struct {
		Contacts []contact.Pending `yaml:"contacts"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("testsupport: parse fixture: %w", err)
	}

	out := make([]contact.Input, 0, len(doc.Contacts))
	for i, pending := range doc.Contacts {
		input, errs := pending.Normalize().Validate()
		if err := errs.Err(); err != nil {
			return nil, fmt.Errorf("testsupport: fixture entry %d: %w", i+1, err)
		}
		out = append(out, input)
	}
	return out, nil
}

// MustLoadContacts is LoadContacts for tests.
func MustLoadContacts(t *testing.T, path string) []contact.Input {
	t.Helper()

	out, err := LoadContacts(path)
	if err != nil {
		t.Fatalf("load contacts: %v", err)
	}
	return out
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
