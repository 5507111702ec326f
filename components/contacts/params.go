package contacts

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-contacts/pkg/contact"
)

// listParams is the decoded query of GET /contacts.
type listParams struct {
	Query string
	Page  int
	// PageSet records whether page was supplied at all.
	PageSet bool
}

func (h *handler) listParams(r *http.Request) listParams {
	values := r.URL.Query()
	page := parseInt(strings.TrimSpace(values.Get(h.opts.PageParam)))
	if page < 0 {
		page = 0
	}
	return listParams{
		Query:   strings.TrimSpace(values.Get(h.opts.SearchParam)),
		Page:    page,
		PageSet: values.Has(h.opts.PageParam),
	}
}

// pathID reads the {id} wildcard. Malformed ids report false.
func pathID(r *http.Request) (contact.ID, bool) {
	return contact.ParseID(r.PathValue("id"))
}

// formValues parses a urlencoded POST body.
func (h *handler) formValues(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodySize)
	if err := r.ParseForm(); err != nil {
		return nil, StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("invalid form body")}
	}
	return r.PostForm, nil
}

// deleteValues merges the query string with a urlencoded body. net/http only
// parses bodies of POST, PUT and PATCH, so DELETE bodies are read here.
func (h *handler) deleteValues(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	values := url.Values{}
	for key, vals := range r.URL.Query() {
		values[key] = append(values[key], vals...)
	}
	if r.Body == nil || r.Body == http.NoBody {
		return values, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" {
		return values, nil
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.opts.MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, StatusError{Code: http.StatusRequestEntityTooLarge}
		}
		return nil, fmt.Errorf("read delete body: %w", err)
	}
	body, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("invalid form body")}
	}
	for key, vals := range body {
		values[key] = append(values[key], vals...)
	}
	return values, nil
}

// parseIDs keeps the well formed ids, dropping everything else.
func parseIDs(raw []string) []contact.ID {
	ids := make([]contact.ID, 0, len(raw))
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if id, ok := contact.ParseID(part); ok {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
