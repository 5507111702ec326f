// Package store defines the persistence contract for contacts. Implementations
// live in the sqlite, postgres and memory subpackages and share the contract
// tests in storetest.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-contacts/pkg/contact"
)

// PageSize is the number of contacts returned per list page and the cap on
// search results.
const PageSize = 10

// ErrNotFound is returned when a lookup or replacement targets a missing ID.
var ErrNotFound = errors.New("store: contact not found")

// ListOptions selects a page or a name search. When Query is non-empty the
// page is ignored and at most PageSize matches are returned.
type ListOptions struct {
	Query    string
	Page     int
	PageSize int
	// All disables paging entirely (used by the JSON API collection).
	All bool
}

// Normalize applies defaults and clamps.
func (o ListOptions) Normalize() ListOptions {
	o.Query = strings.TrimSpace(o.Query)
	if o.Page < 0 {
		o.Page = 0
	}
	if o.PageSize <= 0 {
		o.PageSize = PageSize
	}
	return o
}

// Searching reports whether the options describe a name search.
func (o ListOptions) Searching() bool {
	return strings.TrimSpace(o.Query) != ""
}

// Offset returns the row offset for the page.
func (o ListOptions) Offset() int {
	o = o.Normalize()
	return o.Page * o.PageSize
}

// Store persists contacts. All methods are safe for concurrent use.
type Store interface {
	// List returns contacts ordered by ascending ID.
	List(ctx context.Context, opts ListOptions) ([]contact.Contact, error)
	Count(ctx context.Context) (int64, error)
	// Get returns ErrNotFound when id does not exist.
	Get(ctx context.Context, id contact.ID) (contact.Contact, error)
	Create(ctx context.Context, in contact.Input) (contact.Contact, error)
	// Update replaces every field. It returns ErrNotFound when id does not exist.
	Update(ctx context.Context, id contact.ID, in contact.Input) (contact.Contact, error)
	// Delete removes id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id contact.ID) error
	// DeleteMany removes all listed ids in one statement and returns how many
	// rows matched.
	DeleteMany(ctx context.Context, ids []contact.ID) (int64, error)
	// EmailInUse reports whether another contact (any ID except exclude) uses
	// email, compared case-insensitively. Pass 0 to exclude nothing.
	EmailInUse(ctx context.Context, email string, exclude contact.ID) (bool, error)
	Close() error
}

// LikePattern builds a case-folded substring pattern for LIKE queries,
// escaping wildcards with a backslash.
func LikePattern(query string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"
}

// MatchesQuery is the reference name match used by in-process stores.
func MatchesQuery(c contact.Contact, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.FirstName), q) ||
		strings.Contains(strings.ToLower(c.LastName), q)
}

// UniqueIDs drops non-positive and duplicate ids, preserving order.
func UniqueIDs(ids []contact.ID) []contact.ID {
	out := make([]contact.ID, 0, len(ids))
	seen := make(map[contact.ID]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
