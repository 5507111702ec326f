package contacts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-contacts/pkg/contact"
	"github.com/goliatone/go-contacts/pkg/store"
)

type listResponse struct {
	Contacts []contact.Contact `json:"contacts"`
}

type validationResponse struct {
	Errors contact.FieldErrors `json:"errors"`
}

// apiList returns every contact unless q or page narrows the result.
func (h *handler) apiList(w http.ResponseWriter, r *http.Request) error {
	params := h.listParams(r)
	opts := store.ListOptions{Query: params.Query, All: true}
	if params.PageSet {
		opts.All = false
		opts.Page = params.Page
	}

	found, err := h.store.List(r.Context(), opts)
	if err != nil {
		return err
	}
	if found == nil {
		found = []contact.Contact{}
	}
	return writeJSON(w, http.StatusOK, listResponse{Contacts: found})
}

func (h *handler) apiGet(w http.ResponseWriter, r *http.Request) error {
	found, ok, err := h.lookup(r)
	if err != nil {
		return err
	}
	if !ok {
		writeText(w, http.StatusNotFound, NotFoundMessage)
		return nil
	}
	return writeJSON(w, http.StatusOK, found)
}

func (h *handler) apiCreate(w http.ResponseWriter, r *http.Request) error {
	input, errs, err := h.decodeInput(w, r, 0)
	if err != nil {
		return err
	}
	if errs.Any() {
		return writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: errs})
	}

	created, err := h.store.Create(r.Context(), input)
	if err != nil {
		return err
	}
	w.Header().Set("Location", mountPath(h.opts.APIPrefix, "/contacts/"+created.ID.String()))
	return writeJSON(w, http.StatusCreated, created)
}

func (h *handler) apiReplace(w http.ResponseWriter, r *http.Request) error {
	id, ok := pathID(r)
	if !ok {
		writeText(w, http.StatusNotFound, NotFoundMessage)
		return nil
	}
	input, errs, err := h.decodeInput(w, r, id)
	if err != nil {
		return err
	}
	if errs.Any() {
		return writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: errs})
	}

	updated, err := h.store.Update(r.Context(), id, input)
	if errors.Is(err, store.ErrNotFound) {
		writeText(w, http.StatusNotFound, NotFoundMessage)
		return nil
	}
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, updated)
}

func (h *handler) apiDelete(w http.ResponseWriter, r *http.Request) error {
	if id, ok := pathID(r); ok {
		if err := h.store.Delete(r.Context(), id); err != nil {
			return err
		}
	}
	writeText(w, http.StatusOK, DeletedAPIMessage)
	return nil
}

func (h *handler) apiDocument(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.spec.JSON())
	return nil
}

// decodeInput reads a JSON contact body. Type mismatches found by the API
// schema take precedence over the shared missing-field messages.
func (h *handler) decodeInput(w http.ResponseWriter, r *http.Request, exclude contact.ID) (contact.Input, contact.FieldErrors, error) {
	var body any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.opts.MaxBodySize))
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return contact.Input{}, nil, StatusError{Code: http.StatusRequestEntityTooLarge}
		}
		return contact.Input{}, nil, StatusError{Code: http.StatusBadRequest, Err: errors.New(MalformedJSONMessage)}
	}

	errs := h.spec.CheckContactInput(body)
	object, _ := body.(map[string]any)
	pending := contact.PendingFromMap(object).Normalize()

	input, validationErrs, err := h.validate(r.Context(), pending, exclude)
	if err != nil {
		return contact.Input{}, nil, err
	}
	errs = errs.Merge(validationErrs)
	return input, errs, nil
}
