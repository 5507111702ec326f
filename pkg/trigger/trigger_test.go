package trigger

import (
	"net/http/httptest"
	"testing"
)

func TestParse(t *testing.T) {
	cases := map[string]Trigger{
		"search":      Search,
		" search ":    Search,
		"delete-btn":  DeleteButton,
		"":            None,
		"Search":      None,
		"unknown-btn": None,
	}
	for raw, want := range cases {
		if got := Parse(raw); got != want {
			t.Fatalf("Parse(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/contacts", nil)
	if got := FromRequest(req); got != None {
		t.Fatalf("expected no trigger, got %q", got)
	}

	req.Header.Set(Header, "search")
	if !Search.Is(req) {
		t.Fatalf("expected search trigger")
	}
	if DeleteButton.Is(req) {
		t.Fatalf("search request should not match delete button")
	}
	if None.Is(req) {
		t.Fatalf("None never matches")
	}
}
