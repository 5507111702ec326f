package contacts

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-contacts/pkg/contact"
	"github.com/goliatone/go-contacts/pkg/flash"
	"github.com/goliatone/go-contacts/pkg/store"
	"github.com/goliatone/go-contacts/pkg/store/memory"
	"github.com/goliatone/go-contacts/pkg/testsupport"
	"github.com/goliatone/go-contacts/pkg/trigger"
	"github.com/goliatone/go-contacts/pkg/views"
)

// harness drives the handler like a browser: cookies set by one response are
// sent with the next request.
type harness struct {
	t       *testing.T
	handler http.Handler
	store   store.Store
	cookies map[string]*http.Cookie
}

type requestOption func(*http.Request)

func withTrigger(tr trigger.Trigger) requestOption {
	return func(r *http.Request) { r.Header.Set(trigger.Header, tr.ID()) }
}

func withForm() requestOption {
	return func(r *http.Request) { r.Header.Set("Content-Type", "application/x-www-form-urlencoded") }
}

func withJSON() requestOption {
	return func(r *http.Request) { r.Header.Set("Content-Type", "application/json") }
}

func newHarness(t *testing.T, seed ...contact.Input) *harness {
	t.Helper()
	return newHarnessWithStore(t, memory.New(seed...))
}

func newHarnessWithStore(t *testing.T, s store.Store, fns ...OptionFn) *harness {
	t.Helper()

	v, err := views.New()
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	f, err := flash.New([]byte("test-secret"))
	if err != nil {
		t.Fatalf("flash: %v", err)
	}

	base := []OptionFn{
		WithStore(s),
		WithViews(v),
		WithFlash(f),
		WithStatic(fstest.MapFS{"output.css": {Data: []byte("body{}")}}),
	}
	h, err := NewHandler(append(base, fns...)...)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return &harness{t: t, handler: h, store: s, cookies: map[string]*http.Cookie{}}
}

func (h *harness) do(method, target string, body io.Reader, opts ...requestOption) *httptest.ResponseRecorder {
	h.t.Helper()

	req := httptest.NewRequest(method, target, body)
	for _, c := range h.cookies {
		req.AddCookie(c)
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(h.cookies, c.Name)
			continue
		}
		h.cookies[c.Name] = c
	}
	return rec
}

func (h *harness) get(target string, opts ...requestOption) *httptest.ResponseRecorder {
	h.t.Helper()
	return h.do(http.MethodGet, target, nil, opts...)
}

func (h *harness) postForm(target string, values url.Values) *httptest.ResponseRecorder {
	h.t.Helper()
	return h.do(http.MethodPost, target, strings.NewReader(values.Encode()), withForm())
}

func (h *harness) count() int64 {
	h.t.Helper()
	n, err := h.store.Count(context.Background())
	if err != nil {
		h.t.Fatalf("count: %v", err)
	}
	return n
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, want, rec.Body.String())
	}
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, code int, location string) {
	t.Helper()
	expectStatus(t, rec, code)
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func expectBody(t *testing.T, rec *httptest.ResponseRecorder, fragments ...string) {
	t.Helper()
	body := rec.Body.String()
	for _, fragment := range fragments {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected body to contain %q\n%s", fragment, body)
		}
	}
}

func expectNoBody(t *testing.T, rec *httptest.ResponseRecorder, fragments ...string) {
	t.Helper()
	body := rec.Body.String()
	for _, fragment := range fragments {
		if strings.Contains(body, fragment) {
			t.Fatalf("expected body not to contain %q\n%s", fragment, body)
		}
	}
}

func numbered(n int) []contact.Input { return testsupport.Numbered(n) }

func people() []contact.Input { return testsupport.People() }

func adaForm() url.Values {
	return url.Values{
		contact.FieldFirstName:    {"Ada"},
		contact.FieldLastName:     {"Lovelace"},
		contact.FieldPhone:        {"555-0100"},
		contact.FieldEmailAddress: {"ada@example.com"},
	}
}

// failingStore fails every read so the error path can be observed.
type failingStore struct {
	store.Store
}

var errBoom = errors.New("disk on fire")

func (failingStore) List(context.Context, store.ListOptions) ([]contact.Contact, error) {
	return nil, errBoom
}

func (failingStore) Count(context.Context) (int64, error) { return 0, errBoom }

func (failingStore) Get(context.Context, contact.ID) (contact.Contact, error) {
	return contact.Contact{}, errBoom
}

func newFailingBase() store.Store {
	return memory.New()
}

func mustViews(t *testing.T) *views.Views {
	t.Helper()
	v, err := views.New()
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	return v
}

func mustFlash(t *testing.T) *flash.Store {
	t.Helper()
	f, err := flash.New([]byte("test-secret"))
	if err != nil {
		t.Fatalf("flash: %v", err)
	}
	return f
}
