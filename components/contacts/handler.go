package contacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/goliatone/go-contacts/internal/logging"
	"github.com/goliatone/go-contacts/pkg/apispec"
	"github.com/goliatone/go-contacts/pkg/flash"
	"github.com/goliatone/go-contacts/pkg/store"
	"github.com/goliatone/go-contacts/pkg/views"
)

// InternalErrorMessage is the only body clients see for unexpected failures.
const InternalErrorMessage = "An internal error occurred. Please try again later."

// NotFoundMessage is shown when a contact id does not resolve.
const NotFoundMessage = "Could not find contact"

// Flash texts.
const (
	FlashCreated         = "Created a new contact!"
	FlashUpdated         = "Updated contact!"
	FlashDeleted         = "Deleted contact!"
	FlashDeletedMany     = "Deleted contacts!"
	DeletedAPIMessage    = "Successfully deleted"
	MalformedJSONMessage = "Malformed JSON body"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

type handler struct {
	opts  Options
	store store.Store
	views *views.Views
	flash *flash.Store
	spec  *apispec.Spec
	log   *zap.Logger
}

// Handler builds the contacts handler with default options plus overrides.
// It is an alias of NewHandler to match the component API surface.
func Handler(fns ...OptionFn) (http.Handler, error) {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) (http.Handler, error) {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds a ServeMux with every route from a pre-built
// Options value.
func HandlerWithOptions(opts Options) (http.Handler, error) {
	mux := http.NewServeMux()
	if _, err := RegisterRoutesWithOptions(mux, opts); err != nil {
		return nil, err
	}
	return mux, nil
}

func newHandler(opts Options) (*handler, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("contacts: missing store")
	}
	if opts.Views == nil {
		return nil, fmt.Errorf("contacts: missing views")
	}
	if opts.Flash == nil {
		return nil, fmt.Errorf("contacts: missing flash store")
	}
	spec := opts.Spec
	if spec == nil {
		loaded, err := apispec.New(context.Background())
		if err != nil {
			return nil, fmt.Errorf("contacts: %w", err)
		}
		spec = loaded
	}
	return &handler{
		opts:  opts,
		store: opts.Store,
		views: opts.Views,
		flash: opts.Flash,
		spec:  spec,
		log:   opts.Logger,
	}, nil
}

func (h *handler) wrap(name string, fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.opts.Guard != nil {
			if err := h.opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}
		if err := fn(w, r); err != nil {
			h.writeError(w, r, name, err)
		}
	})
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, route string, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	switch {
	case code == http.StatusInternalServerError:
		logging.FromContext(r.Context(), h.log).Error("request failed",
			zap.String("route", route),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeText(w, code, InternalErrorMessage)
	case code > http.StatusInternalServerError:
		logging.FromContext(r.Context(), h.log).Warn("request unavailable",
			zap.String("route", route),
			zap.Error(err),
		)
		writeText(w, code, http.StatusText(code))
	default:
		writeText(w, code, err.Error())
	}
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func writeHTML(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, code int, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(payload)
	return nil
}

func (h *handler) root(w http.ResponseWriter, r *http.Request) error {
	http.Redirect(w, r, "/contacts", http.StatusMovedPermanently)
	return nil
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) error {
	if _, err := h.store.Count(r.Context()); err != nil {
		return StatusError{Code: http.StatusServiceUnavailable, Err: errors.New("store unavailable")}
	}
	writeText(w, http.StatusOK, "ok")
	return nil
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
