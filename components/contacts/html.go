package contacts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-contacts/pkg/contact"
	"github.com/goliatone/go-contacts/pkg/store"
	"github.com/goliatone/go-contacts/pkg/trigger"
	"github.com/goliatone/go-contacts/pkg/views"
)

func (h *handler) list(w http.ResponseWriter, r *http.Request) error {
	params := h.listParams(r)
	found, err := h.store.List(r.Context(), store.ListOptions{Query: params.Query, Page: params.Page})
	if err != nil {
		return err
	}

	if trigger.Search.Is(r) {
		body, err := h.views.Rows(found)
		if err != nil {
			return err
		}
		writeHTML(w, http.StatusOK, body)
		return nil
	}

	data := views.NewIndexData(params.Query, params.Page, found)
	data.Flashes = h.flash.Pop(w, r)
	body, err := h.views.Index(data)
	if err != nil {
		return err
	}
	writeHTML(w, http.StatusOK, body)
	return nil
}

func (h *handler) count(w http.ResponseWriter, r *http.Request) error {
	n, err := h.store.Count(r.Context())
	if err != nil {
		return err
	}
	writeText(w, http.StatusOK, fmt.Sprintf("(%d total Contacts)", n))
	return nil
}

func (h *handler) newForm(w http.ResponseWriter, r *http.Request) error {
	data := views.NewFormData(0, contact.Pending{}, nil)
	data.Flashes = h.flash.Pop(w, r)
	body, err := h.views.NewForm(data)
	if err != nil {
		return err
	}
	writeHTML(w, http.StatusOK, body)
	return nil
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) error {
	values, err := h.formValues(w, r)
	if err != nil {
		return err
	}
	submitted := contact.PendingFromForm(values)
	input, errs, err := h.validate(r.Context(), submitted.Normalize(), 0)
	if err != nil {
		return err
	}
	if errs.Any() {
		// The form is redrawn with what the user typed, not the cleaned values.
		body, err := h.views.NewForm(views.NewFormData(0, submitted, errs))
		if err != nil {
			return err
		}
		writeHTML(w, http.StatusUnprocessableEntity, body)
		return nil
	}

	if _, err := h.store.Create(r.Context(), input); err != nil {
		return err
	}
	return h.redirectWithFlash(w, r, "/contacts", h.flash.Success, FlashCreated)
}

func (h *handler) show(w http.ResponseWriter, r *http.Request) error {
	found, ok, err := h.lookup(r)
	if err != nil {
		return err
	}
	if !ok {
		return h.notFound(w, r)
	}

	data := views.NewShowData(found)
	data.Flashes = h.flash.Pop(w, r)
	body, err := h.views.Show(data)
	if err != nil {
		return err
	}
	writeHTML(w, http.StatusOK, body)
	return nil
}

func (h *handler) editForm(w http.ResponseWriter, r *http.Request) error {
	found, ok, err := h.lookup(r)
	if err != nil {
		return err
	}
	if !ok {
		return h.notFound(w, r)
	}

	data := views.NewFormData(found.ID, contact.PendingFromContact(found), nil)
	data.Flashes = h.flash.Pop(w, r)
	body, err := h.views.EditForm(data)
	if err != nil {
		return err
	}
	writeHTML(w, http.StatusOK, body)
	return nil
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) error {
	id, ok := pathID(r)
	if !ok {
		return h.notFound(w, r)
	}
	values, err := h.formValues(w, r)
	if err != nil {
		return err
	}
	submitted := contact.PendingFromForm(values)
	input, errs, err := h.validate(r.Context(), submitted.Normalize(), id)
	if err != nil {
		return err
	}
	if errs.Any() {
		// The form is redrawn with what the user typed, not the cleaned values.
		body, err := h.views.EditForm(views.NewFormData(id, submitted, errs))
		if err != nil {
			return err
		}
		writeHTML(w, http.StatusUnprocessableEntity, body)
		return nil
	}

	if _, err := h.store.Update(r.Context(), id, input); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return h.notFound(w, r)
		}
		return err
	}
	return h.redirectWithFlash(w, r, "/contacts/"+id.String(), h.flash.Success, FlashUpdated)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) error {
	if id, ok := pathID(r); ok {
		if err := h.store.Delete(r.Context(), id); err != nil {
			return err
		}
	}

	if trigger.DeleteButton.Is(r) {
		return h.redirectWithFlash(w, r, "/contacts", h.flash.Success, FlashDeleted)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	return nil
}

func (h *handler) deleteMany(w http.ResponseWriter, r *http.Request) error {
	values, err := h.deleteValues(w, r)
	if err != nil {
		return err
	}
	ids := parseIDs(values[h.opts.BulkParam])
	if _, err := h.store.DeleteMany(r.Context(), ids); err != nil {
		return err
	}
	return h.redirectWithFlash(w, r, "/contacts", h.flash.Success, FlashDeletedMany)
}

func (h *handler) emailCheck(w http.ResponseWriter, r *http.Request) error {
	email := strings.TrimSpace(r.URL.Query().Get(h.opts.EmailParam))
	if email == "" {
		writeText(w, http.StatusOK, contact.MessageEmailEmpty)
		return nil
	}

	// Malformed or absent ids exclude nothing.
	exclude, _ := pathID(r)
	taken, err := h.store.EmailInUse(r.Context(), email, exclude)
	if err != nil {
		return err
	}
	if taken {
		writeText(w, http.StatusOK, contact.MessageEmailTaken)
		return nil
	}
	writeText(w, http.StatusOK, "")
	return nil
}

// validate runs field validation and, when the address itself is usable,
// the uniqueness check against every contact except exclude.
func (h *handler) validate(ctx context.Context, pending contact.Pending, exclude contact.ID) (contact.Input, contact.FieldErrors, error) {
	input, errs := pending.Validate()
	if errs.Has(contact.FieldEmailAddress) || pending.EmailAddress == nil {
		return input, errs, nil
	}

	taken, err := h.store.EmailInUse(ctx, *pending.EmailAddress, exclude)
	if err != nil {
		return contact.Input{}, nil, err
	}
	if taken {
		if errs == nil {
			errs = contact.FieldErrors{}
		}
		errs.Set(contact.FieldEmailAddress, contact.MessageEmailTaken)
	}
	return input, errs, nil
}

// lookup resolves the {id} wildcard. A malformed id is reported as missing.
func (h *handler) lookup(r *http.Request) (contact.Contact, bool, error) {
	id, ok := pathID(r)
	if !ok {
		return contact.Contact{}, false, nil
	}
	found, err := h.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return contact.Contact{}, false, nil
	}
	if err != nil {
		return contact.Contact{}, false, err
	}
	return found, true, nil
}

func (h *handler) notFound(w http.ResponseWriter, r *http.Request) error {
	return h.redirectWithFlash(w, r, "/contacts", h.flash.Warning, NotFoundMessage)
}

func (h *handler) redirectWithFlash(
	w http.ResponseWriter,
	r *http.Request,
	target string,
	add func(http.ResponseWriter, *http.Request, string) error,
	message string,
) error {
	if err := add(w, r, message); err != nil {
		return err
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
	return nil
}
