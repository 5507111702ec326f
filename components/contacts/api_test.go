package contacts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contacts/pkg/apispec"
	"github.com/goliatone/go-contacts/pkg/contact"
)

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func (h *harness) sendJSON(method, target, body string) *httptest.ResponseRecorder {
	h.t.Helper()
	return h.do(method, target, strings.NewReader(body), withJSON())
}

func TestAPIList_ReturnsEverything(t *testing.T) {
	h := newHarness(t, numbered(12)...)

	var got listResponse
	rec := h.get("/api/v1/contacts")
	expectStatus(t, rec, http.StatusOK)
	decodeJSON(t, rec, &got)
	if len(got.Contacts) != 12 {
		t.Fatalf("expected 12 contacts, got %d", len(got.Contacts))
	}

	var paged listResponse
	decodeJSON(t, h.get("/api/v1/contacts?page=1"), &paged)
	if len(paged.Contacts) != 2 || paged.Contacts[0].FirstName != "First11" {
		t.Fatalf("unexpected second page: %+v", paged.Contacts)
	}
}

func TestAPIList_Search(t *testing.T) {
	h := newHarness(t, people()...)

	var got listResponse
	decodeJSON(t, h.get("/api/v1/contacts?q=hop"), &got)
	want := []contact.Contact{{ID: 2, FirstName: "Grace", LastName: "Hopper", Phone: "555-0101", EmailAddress: "grace@example.com"}}
	if diff := cmp.Diff(want, got.Contacts); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}
}

func TestAPIList_EmptyIsArray(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/api/v1/contacts")
	expectStatus(t, rec, http.StatusOK)
	if got := strings.TrimSpace(rec.Body.String()); got != `{"contacts":[]}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestAPIGet(t *testing.T) {
	h := newHarness(t, people()...)

	var got contact.Contact
	rec := h.get("/api/v1/contacts/3")
	expectStatus(t, rec, http.StatusOK)
	decodeJSON(t, rec, &got)
	if got.ID != 3 || got.LastName != "Turing" {
		t.Fatalf("unexpected contact %+v", got)
	}

	for _, target := range []string{"/api/v1/contacts/9", "/api/v1/contacts/abc"} {
		missing := h.get(target)
		expectStatus(t, missing, http.StatusNotFound)
		if missing.Body.String() != NotFoundMessage {
			t.Fatalf("%s: body = %q", target, missing.Body.String())
		}
	}
}

func TestAPICreate(t *testing.T) {
	h := newHarness(t)

	rec := h.sendJSON(http.MethodPost, "/api/v1/contacts",
		`{"first_name":" Ada ","last_name":"Lovelace","phone":"555-0100","email_address":"ada@example.com"}`)
	expectStatus(t, rec, http.StatusCreated)
	if loc := rec.Header().Get("Location"); loc != "/api/v1/contacts/1" {
		t.Fatalf("Location = %q", loc)
	}

	var got contact.Contact
	decodeJSON(t, rec, &got)
	want := contact.Contact{ID: 1, FirstName: "Ada", LastName: "Lovelace", Phone: "555-0100", EmailAddress: "ada@example.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("created mismatch (-want +got):\n%s", diff)
	}
}

func TestAPICreate_ValidationErrors(t *testing.T) {
	h := newHarness(t, people()...)

	rec := h.sendJSON(http.MethodPost, "/api/v1/contacts",
		`{"first_name":"","last_name":"Hopper","email_address":"GRACE@example.com"}`)
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	var got validationResponse
	decodeJSON(t, rec, &got)
	want := contact.FieldErrors{
		contact.FieldFirstName:    contact.MessageMissingFirstName,
		contact.FieldPhone:        contact.MessageMissingPhone,
		contact.FieldEmailAddress: contact.MessageEmailTaken,
	}
	if diff := cmp.Diff(want, got.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if n := h.count(); n != 3 {
		t.Fatalf("invalid body must not persist, got %d", n)
	}
}

func TestAPICreate_TypeErrorsWin(t *testing.T) {
	h := newHarness(t)

	rec := h.sendJSON(http.MethodPost, "/api/v1/contacts",
		`{"first_name":5,"last_name":"Lovelace","phone":"555-0100","email_address":"ada@example.com"}`)
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	var got validationResponse
	decodeJSON(t, rec, &got)
	msg := got.Errors[contact.FieldFirstName]
	if msg == "" || msg == contact.MessageMissingFirstName {
		t.Fatalf("expected a type error for first_name, got %q", msg)
	}
	if len(got.Errors) != 1 {
		t.Fatalf("expected a single error, got %v", got.Errors)
	}
}

func TestAPICreate_NonObjectBody(t *testing.T) {
	h := newHarness(t)

	rec := h.sendJSON(http.MethodPost, "/api/v1/contacts", `["ada"]`)
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	var got validationResponse
	decodeJSON(t, rec, &got)
	if got.Errors[apispec.FormErrorKey] == "" {
		t.Fatalf("expected a body level error, got %v", got.Errors)
	}
}

func TestAPICreate_MalformedJSON(t *testing.T) {
	h := newHarness(t)

	rec := h.sendJSON(http.MethodPost, "/api/v1/contacts", `{"first_name":`)
	expectStatus(t, rec, http.StatusBadRequest)
	if rec.Body.String() != MalformedJSONMessage {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestAPICreate_BodyTooLarge(t *testing.T) {
	h := newHarnessWithStore(t, newFailingBase(), WithMaxBodySize(16))

	rec := h.sendJSON(http.MethodPost, "/api/v1/contacts",
		`{"first_name":"Ada","last_name":"Lovelace","phone":"555-0100","email_address":"ada@example.com"}`)
	expectStatus(t, rec, http.StatusRequestEntityTooLarge)
}

func TestAPIReplace(t *testing.T) {
	h := newHarness(t, people()...)

	rec := h.sendJSON(http.MethodPut, "/api/v1/contacts/1",
		`{"first_name":"Augusta Ada","last_name":"King","phone":"555-0100","email_address":"ada@example.com"}`)
	expectStatus(t, rec, http.StatusOK)

	var got contact.Contact
	decodeJSON(t, rec, &got)
	if got.ID != 1 || got.LastName != "King" {
		t.Fatalf("unexpected replacement %+v", got)
	}

	missing := h.sendJSON(http.MethodPut, "/api/v1/contacts/40",
		`{"first_name":"Nobody","last_name":"Here","phone":"1","email_address":"nobody@example.com"}`)
	expectStatus(t, missing, http.StatusNotFound)

	invalid := h.sendJSON(http.MethodPut, "/api/v1/contacts/1",
		`{"first_name":"Ada","last_name":"King","phone":"555-0100","email_address":"alan@love.example"}`)
	expectStatus(t, invalid, http.StatusUnprocessableEntity)
}

func TestAPIDelete(t *testing.T) {
	h := newHarness(t, people()...)

	for range 2 {
		rec := h.do(http.MethodDelete, "/api/v1/contacts/2", nil)
		expectStatus(t, rec, http.StatusOK)
		if rec.Body.String() != DeletedAPIMessage {
			t.Fatalf("body = %q", rec.Body.String())
		}
	}
	if n := h.count(); n != 2 {
		t.Fatalf("expected 2 contacts left, got %d", n)
	}
}

func TestAPIDocument(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/api/v1/openapi.json")
	expectStatus(t, rec, http.StatusOK)

	var doc map[string]any
	decodeJSON(t, rec, &doc)
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/api/v1/contacts/{id}"]; !ok {
		t.Fatalf("expected contact path in document, got %v", paths)
	}
}

func TestRegisterRoutes_Patterns(t *testing.T) {
	mux := http.NewServeMux()
	patterns, err := RegisterRoutes(mux,
		WithStore(newFailingBase()),
		WithViews(mustViews(t)),
		WithFlash(mustFlash(t)),
		WithAPIPrefix("/api/v2/"),
	)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	want := []string{
		"GET /{$}",
		"GET /healthz",
		"GET /contacts",
		"DELETE /contacts",
		"GET /contacts/count",
		"GET /contacts/new",
		"POST /contacts/new",
		"GET /contacts/new/email",
		"GET /contacts/{id}",
		"DELETE /contacts/{id}",
		"GET /contacts/{id}/edit",
		"POST /contacts/{id}/edit",
		"GET /contacts/{id}/email",
		"GET /api/v2/contacts",
		"POST /api/v2/contacts",
		"GET /api/v2/contacts/{id}",
		"PUT /api/v2/contacts/{id}",
		"DELETE /api/v2/contacts/{id}",
		"GET /api/v2/openapi.json",
	}
	if diff := cmp.Diff(want, patterns); diff != "" {
		t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterRoutes_RequiresDependencies(t *testing.T) {
	if _, err := RegisterRoutes(http.NewServeMux()); err == nil {
		t.Fatalf("expected an error without a store")
	}
	if _, err := RegisterRoutes(nil); err == nil {
		t.Fatalf("expected an error without a mux")
	}
}

func TestMountPath(t *testing.T) {
	cases := map[[2]string]string{
		{"", "/contacts"}:             "/contacts",
		{"/", "contacts"}:             "/contacts",
		{"api/v1/", "/contacts"}:      "/api/v1/contacts",
		{"/api/v1", ""}:               "/api/v1/",
		{" /api ", " /openapi.json "}: "/api/openapi.json",
	}
	for in, want := range cases {
		if got := MountPath(in[0], in[1]); got != want {
			t.Fatalf("MountPath(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}

func TestComponent(t *testing.T) {
	c := New(
		WithStore(newFailingBase()),
		WithViews(mustViews(t)),
		WithFlash(mustFlash(t)),
	)
	if got := c.Options().SearchParam; got != "q" {
		t.Fatalf("SearchParam = %q", got)
	}

	handler, err := c.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/count", nil))
	expectStatus(t, rec, http.StatusOK)

	var nilComponent *Component
	if _, err := nilComponent.Handler(); err == nil {
		t.Fatalf("expected an error from a nil component")
	}
	if nilComponent.Options().APIPrefix != "/api/v1" {
		t.Fatalf("nil component should report defaults")
	}
}
