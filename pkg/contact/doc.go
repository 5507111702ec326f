// Package contact defines the contact record shapes and the validation that
// turns raw form or JSON input into a storable record.
//
// Three shapes are used throughout the module:
//
//   - Pending holds unvalidated input; every field is optional.
//   - Input is a validated record without an identifier (inserts, replacements).
//   - Contact is a stored record carrying its store-assigned ID.
//
// Validation never returns an error value. Pending.Validate returns either a
// complete Input or a FieldErrors map keyed by the Field* constants.
package contact
