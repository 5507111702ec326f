package views

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-contacts/pkg/render/template"
)

type filterFunc = func(input any, param any) (any, error)

var (
	filtersMu sync.Mutex
	filters   = []struct {
		name string
		fn   filterFunc
	}{
		{"tel", telFilter},
		{"initials", initialsFilter},
	}
)

// registerFilters adds the contact filters to renderer. Filters live in one
// process wide registry, so names that already exist are left alone.
func registerFilters(renderer template.TemplateRenderer) error {
	filtersMu.Lock()
	defer filtersMu.Unlock()

	for _, f := range filters {
		if pongo2.FilterExists(f.name) {
			continue
		}
		if err := renderer.RegisterFilter(f.name, f.fn); err != nil {
			return fmt.Errorf("views: register filter %s: %w", f.name, err)
		}
	}
	return nil
}

// telFilter keeps the characters a tel: URI accepts.
func telFilter(input any, _ any) (any, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(filterString(input)) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// initialsFilter returns the upper-cased first letter of each word.
func initialsFilter(input any, _ any) (any, error) {
	var b strings.Builder
	for _, word := range strings.Fields(filterString(input)) {
		r, _ := utf8.DecodeRuneInString(word)
		if r == utf8.RuneError {
			continue
		}
		b.WriteString(strings.ToUpper(string(r)))
	}
	return b.String(), nil
}

func filterString(input any) string {
	switch v := input.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
