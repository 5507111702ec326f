package contact

import (
	"sort"
	"strings"
)

// FieldErrors maps a field name to a single human readable message. Setting a
// field twice keeps the latest message.
type FieldErrors map[string]string

// Set records msg for field, replacing any earlier message.
func (e FieldErrors) Set(field, msg string) {
	if e == nil {
		return
	}
	field = strings.TrimSpace(field)
	msg = strings.TrimSpace(msg)
	if field == "" || msg == "" {
		return
	}
	e[field] = msg
}

// Get returns the message for field or the empty string.
func (e FieldErrors) Get(field string) string {
	if e == nil {
		return ""
	}
	return e[field]
}

// Has reports whether field carries an error.
func (e FieldErrors) Has(field string) bool {
	return e.Get(field) != ""
}

// Any reports whether at least one field carries an error.
func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// Merge copies other into e. Messages already present in e win.
func (e FieldErrors) Merge(other FieldErrors) FieldErrors {
	if len(other) == 0 {
		return e
	}
	if e == nil {
		e = FieldErrors{}
	}
	for field, msg := range other {
		if e.Has(field) {
			continue
		}
		e.Set(field, msg)
	}
	return e
}

// Fields returns the fields carrying errors in sorted order.
func (e FieldErrors) Fields() []string {
	out := make([]string, 0, len(e))
	for field := range e {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// Err returns e as an error, or nil when no field carries a message.
func (e FieldErrors) Err() error {
	if !e.Any() {
		return nil
	}
	return &ValidationError{Errors: e}
}

// ValidationError carries field errors across APIs that only speak error.
type ValidationError struct {
	Errors FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, field := range e.Errors.Fields() {
		parts = append(parts, field+": "+e.Errors[field])
	}
	return "invalid contact: " + strings.Join(parts, "; ")
}

// ErrorMapping splits an error payload into field-level and record-level
// messages.
type ErrorMapping struct {
	Fields FieldErrors
	Form   []string
}

// MapErrorPayload normalises error payloads keyed by JSON pointers or dotted
// paths ("/email_address", "#/body/phone", "data.first_name") onto the contact
// field names. Unknown paths become record-level messages so nothing is lost.
func MapErrorPayload(payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: FieldErrors{}}
	if len(payload) == 0 {
		return mapping
	}

	known := make(map[string]struct{}, len(Fields))
	for _, field := range Fields {
		known[field] = struct{}{}
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, rawPath := range keys {
		messages := normalizeMessages(payload[rawPath])
		if len(messages) == 0 {
			continue
		}
		field, ok := mapErrorPath(rawPath, known)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields.Set(field, messages[0])
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, known map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}
	segments := dropWrapperSegments(parsePathSegments(trimmed))
	if len(segments) == 0 {
		return "", false
	}
	if _, ok := known[segments[0]]; ok {
		return segments[0], true
	}
	return "", false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		switch strings.ToLower(out[0]) {
		case "body", "request", "payload", "data", "contact":
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
