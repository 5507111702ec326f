// Package trigger recognises the element identifiers htmx reports in the
// HX-Trigger request header. Only known values are accepted; anything else
// reads as no trigger.
package trigger

import (
	"net/http"
	"strings"
)

// Header is the request header htmx sets to the id of the triggering element.
const Header = "HX-Trigger"

// Trigger is the id of an element that started an htmx request.
type Trigger string

const (
	None Trigger = ""
	// Search is the search input on the contacts page.
	Search Trigger = "search"
	// DeleteButton is the delete button on the edit page.
	DeleteButton Trigger = "delete-btn"
)

// Parse maps a raw header value onto a known trigger.
func Parse(raw string) Trigger {
	switch Trigger(strings.TrimSpace(raw)) {
	case Search:
		return Search
	case DeleteButton:
		return DeleteButton
	default:
		return None
	}
}

// FromRequest reads the trigger from r.
func FromRequest(r *http.Request) Trigger {
	if r == nil {
		return None
	}
	return Parse(r.Header.Get(Header))
}

// ID returns the element id the trigger corresponds to.
func (t Trigger) ID() string { return string(t) }

// Is reports whether r was triggered by t.
func (t Trigger) Is(r *http.Request) bool {
	return t != None && FromRequest(r) == t
}
