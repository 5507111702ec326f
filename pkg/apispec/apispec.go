// Package apispec embeds the OpenAPI description of the JSON API and checks
// request bodies against its schemas.
package apispec

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-contacts/pkg/contact"
)

//go:embed openapi.yaml
var rawDocument []byte

// ContactInputSchema names the request body schema for create and replace.
const ContactInputSchema = "ContactInput"

// Raw returns the embedded YAML document.
func Raw() []byte {
	return append([]byte(nil), rawDocument...)
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(rawDocument)
	if err != nil {
		return nil, fmt.Errorf("apispec: load: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("apispec: validate: %w", err)
	}
	return doc, nil
}

// Spec holds the loaded document and its compiled JSON form.
type Spec struct {
	doc         *openapi3.T
	inputSchema *openapi3.Schema
	json        []byte
}

// New loads the document and resolves the schemas request checks need.
func New(ctx context.Context) (*Spec, error) {
	doc, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc.Components == nil {
		return nil, errors.New("apispec: document has no components")
	}
	ref, ok := doc.Components.Schemas[ContactInputSchema]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("apispec: schema %q not found", ContactInputSchema)
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("apispec: encode: %w", err)
	}
	return &Spec{doc: doc, inputSchema: ref.Value, json: encoded}, nil
}

// Document returns the parsed document.
func (s *Spec) Document() *openapi3.T { return s.doc }

// JSON returns the document encoded as JSON.
func (s *Spec) JSON() []byte { return s.json }

// CheckContactInput reports type mismatches in a decoded JSON body, keyed by
// field. Missing or empty fields are left to contact.Pending.Validate so the
// API and the HTML forms share their messages.
func (s *Spec) CheckContactInput(body any) contact.FieldErrors {
	err := s.inputSchema.VisitJSON(body, openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	payload := map[string][]string{}
	collectSchemaErrors(err, payload)
	if len(payload) == 0 {
		return nil
	}

	mapped := contact.MapErrorPayload(payload)
	errs := mapped.Fields
	if len(mapped.Form) > 0 {
		if errs == nil {
			errs = contact.FieldErrors{}
		}
		errs.Set(FormErrorKey, mapped.Form[0])
	}
	if !errs.Any() {
		return nil
	}
	return errs
}

// FormErrorKey carries body-level problems that belong to no single field.
const FormErrorKey = "_form"

func collectSchemaErrors(err error, payload map[string][]string) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			collectSchemaErrors(inner, payload)
		}
		return
	}

	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		payload[""] = append(payload[""], err.Error())
		return
	}
	switch schemaErr.SchemaField {
	case "required", "minLength":
		return
	}

	key := "/"
	for i, segment := range schemaErr.JSONPointer() {
		if i > 0 {
			key += "/"
		}
		key += segment
	}
	payload[key] = append(payload[key], schemaErr.Reason)
}
