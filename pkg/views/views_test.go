package views

import (
	"fmt"
	"strings"
	"testing"

	"github.com/goliatone/go-contacts/pkg/contact"
	"github.com/goliatone/go-contacts/pkg/flash"
)

func newViews(t *testing.T, opts ...Option) *Views {
	t.Helper()
	v, err := New(opts...)
	if err != nil {
		t.Fatalf("new views: %v", err)
	}
	return v
}

func numbered(n int) []contact.Contact {
	out := make([]contact.Contact, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, contact.Contact{
			ID:           contact.ID(i),
			FirstName:    fmt.Sprintf("First%02d", i),
			LastName:     fmt.Sprintf("Last%02d", i),
			Phone:        fmt.Sprintf("555-%04d", i),
			EmailAddress: fmt.Sprintf("person%02d@example.com", i),
		})
	}
	return out
}

func mustContain(t *testing.T, body string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, body)
		}
	}
}

func mustNotContain(t *testing.T, body string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(body, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, body)
		}
	}
}

func TestIndex_FullPageOffersNextPage(t *testing.T) {
	v := newViews(t)

	data := NewIndexData("", 2, numbered(10))
	data.Flashes = []flash.Message{{Level: flash.LevelSuccess, Text: "Created a new contact!"}}
	body, err := v.Index(data)
	if err != nil {
		t.Fatalf("index: %v", err)
	}

	mustContain(t, body,
		"<!DOCTYPE html>",
		`hx-boost="true"`,
		"https://unpkg.com/htmx.org@1.9.5",
		`href="/dist/output.css"`,
		`id="search"`,
		`hx-trigger="change, keyup delay:200ms changed"`,
		`hx-target="tbody"`,
		`x-data="{ selected: [] }"`,
		`name="selected_contact_ids" value="10"`,
		"Loading More...",
		`hx-get="/contacts?page=3"`,
		`hx-get="/contacts/count"`,
		`href="/contacts/new"`,
		`hx-delete="/contacts/1"`,
		`class="flash flash-success"`,
		"Created a new contact!",
	)
}

func TestIndex_ShortPageHasNoLoadingRow(t *testing.T) {
	v := newViews(t)

	body, err := v.Index(NewIndexData("", 0, numbered(9)))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	mustNotContain(t, body, "Loading More...")
}

func TestIndex_SearchNeverPages(t *testing.T) {
	v := newViews(t)

	body, err := v.Index(NewIndexData("first", 0, numbered(10)))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	mustContain(t, body, `value="first"`)
	mustNotContain(t, body, "Loading More...")
}

func TestRows_IsFragment(t *testing.T) {
	v := newViews(t)

	body, err := v.Rows(numbered(2))
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	mustContain(t, body, "<td>First01</td>", "<td>person02@example.com</td>", `aria-controls="contact-menu-2"`)
	mustNotContain(t, body, "<html", "<tbody>")
}

func TestRows_EscapesValues(t *testing.T) {
	v := newViews(t)

	body, err := v.Rows([]contact.Contact{{ID: 1, FirstName: "<script>x</script>", LastName: "L", Phone: "1", EmailAddress: "e@x"}})
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	mustContain(t, body, "&lt;script&gt;")
	mustNotContain(t, body, "<script>x</script>")
}

func TestNewForm_RendersValuesAndErrors(t *testing.T) {
	v := newViews(t)

	last := "Lovelace"
	pending := contact.Pending{LastName: &last}
	errs := contact.FieldErrors{contact.FieldFirstName: contact.MessageMissingFirstName}

	body, err := v.NewForm(NewFormData(0, pending, errs))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	mustContain(t, body,
		`action="/contacts/new"`,
		`value="Lovelace"`,
		"Missing first name",
		`hx-get="/contacts/new/email"`,
		"<legend>Contact Values</legend>",
	)
	mustNotContain(t, body, `id="delete-btn"`)
}

func TestEditForm_WiresEmailCheckAndDeleteButton(t *testing.T) {
	v := newViews(t)

	c := contact.Contact{ID: 7, FirstName: "Ada", LastName: "Lovelace", Phone: "555-0100", EmailAddress: "ada@example.com"}
	body, err := v.EditForm(NewFormData(c.ID, contact.PendingFromContact(c), nil))
	if err != nil {
		t.Fatalf("edit form: %v", err)
	}
	mustContain(t, body,
		`action="/contacts/7/edit"`,
		`hx-get="/contacts/7/email"`,
		`hx-target="next .error"`,
		`id="delete-btn"`,
		`hx-delete="/contacts/7"`,
		`hx-target="body"`,
		`hx-push-url="true"`,
		`value="ada@example.com"`,
	)
}

func TestShow_RendersContact(t *testing.T) {
	v := newViews(t)

	c := contact.Contact{ID: 3, FirstName: "Ada", LastName: "Lovelace", Phone: "+1 555-0100", EmailAddress: "ada@example.com"}
	body, err := v.Show(NewShowData(c))
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	mustContain(t, body,
		"<title>Ada Lovelace | Contacts</title>",
		"Ada Lovelace</h1>",
		">AL</span>",
		`href="tel:+15550100"`,
		"ada@example.com",
		`href="/contacts/3/edit"`,
	)
}

func TestNew_DarkVariantSetsCSSVars(t *testing.T) {
	v := newViews(t, WithTheme(DefaultThemeName, VariantDark))

	if v.Theme().Variant != VariantDark {
		t.Fatalf("expected dark variant, got %q", v.Theme().Variant)
	}
	body, err := v.Index(NewIndexData("", 0, nil))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	mustContain(t, body, "--surface: #0d1117;", `data-theme-variant="dark"`)
}

func TestNew_UnknownVariantFails(t *testing.T) {
	if _, err := New(WithTheme(DefaultThemeName, "sepia")); err == nil {
		t.Fatalf("expected unknown variant to fail")
	}
}
