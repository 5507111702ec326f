package views

import (
	"os"
	"path/filepath"
	"testing"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-contacts/pkg/contact"
)

func TestFilters(t *testing.T) {
	cases := []struct {
		name string
		fn   filterFunc
		in   any
		want string
	}{
		{"tel keeps digits", telFilter, "+1 (555) 010-0100", "+15550100100"},
		{"tel drops inner plus", telFilter, "555+0100", "5550100"},
		{"tel nil", telFilter, nil, ""},
		{"initials", initialsFilter, "ada  lovelace", "AL"},
		{"initials unicode", initialsFilter, "émile ølsen", "ÉØ"},
		{"initials empty", initialsFilter, "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn(tc.in, nil)
			if err != nil {
				t.Fatalf("filter: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNew_AcceptsStockGoTemplateEngine(t *testing.T) {
	engine, err := gotemplatepkg.NewRenderer(gotemplatepkg.WithFS(TemplatesFS()))
	if err != nil {
		t.Fatalf("go-template engine: %v", err)
	}
	v := newViews(t, WithRenderer(engine))

	c := contact.Contact{ID: 12, FirstName: "Grace", LastName: "Hopper", Phone: "+1 555-0102", EmailAddress: "grace@example.com"}
	body, err := v.Show(NewShowData(c))
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	mustContain(t, body,
		">GH</span>",
		`href="tel:+15550102"`,
		`href="/contacts/12/edit"`,
		`data-theme="`+DefaultThemeName+`"`,
	)
}

func TestWithTemplatesDir_OverridesAndReloads(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "contacts", "show.tpl")
	if err := os.MkdirAll(filepath.Dir(page), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(page, []byte("v1 {{ contact.id|integer }}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	v := newViews(t, WithTemplatesDir(dir, true))
	data := NewShowData(contact.Contact{ID: 3, FirstName: "Ada", LastName: "Lovelace"})

	body, err := v.Show(data)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if body != "v1 3" {
		t.Fatalf("expected override, got %q", body)
	}

	if err := os.WriteFile(page, []byte("v2 {{ full_name|initials }}"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if body, _ = v.Show(data); body != "v2 AL" {
		t.Fatalf("expected reloaded template, got %q", body)
	}

	rows, err := v.Rows([]contact.Contact{{ID: 9, FirstName: "Alan"}})
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	mustContain(t, rows, `href="/contacts/9/edit"`)
}
