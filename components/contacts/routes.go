package contacts

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register net/http handlers.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

type route struct {
	method string
	path   string
	name   string
	fn     handlerFunc
}

// MountPath joins a route path onto basePath, normalising slashes.
func MountPath(basePath, routePath string) string {
	return mountPath(basePath, routePath)
}

// RegisterRoutes registers the contacts routes on mux using default options
// plus overrides.
func RegisterRoutes(mux Mux, fns ...OptionFn) ([]string, error) {
	return RegisterRoutesWithOptions(mux, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers every route on mux and returns the
// patterns in registration order.
func RegisterRoutesWithOptions(mux Mux, opts Options) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("contacts: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	h, err := newHandler(opts)
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, rt := range h.routes() {
		pattern := rt.method + " " + rt.path
		mux.Handle(pattern, h.wrap(rt.name, rt.fn))
		patterns = append(patterns, pattern)
	}

	if opts.Static != nil {
		prefix := strings.TrimRight(mountPath(opts.StaticPath, ""), "/")
		pattern := http.MethodGet + " " + prefix + "/"
		mux.Handle(pattern, http.StripPrefix(prefix, http.FileServerFS(opts.Static)))
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

func (h *handler) routes() []route {
	api := func(path string) string { return mountPath(h.opts.APIPrefix, path) }

	return []route{
		{http.MethodGet, "/{$}", "root", h.root},
		{http.MethodGet, "/healthz", "health", h.health},

		{http.MethodGet, "/contacts", "contacts.list", h.list},
		{http.MethodDelete, "/contacts", "contacts.delete_many", h.deleteMany},
		{http.MethodGet, "/contacts/count", "contacts.count", h.count},
		{http.MethodGet, "/contacts/new", "contacts.new", h.newForm},
		{http.MethodPost, "/contacts/new", "contacts.create", h.create},
		{http.MethodGet, "/contacts/new/email", "contacts.new_email", h.emailCheck},
		{http.MethodGet, "/contacts/{id}", "contacts.show", h.show},
		{http.MethodDelete, "/contacts/{id}", "contacts.delete", h.delete},
		{http.MethodGet, "/contacts/{id}/edit", "contacts.edit", h.editForm},
		{http.MethodPost, "/contacts/{id}/edit", "contacts.update", h.update},
		{http.MethodGet, "/contacts/{id}/email", "contacts.email", h.emailCheck},

		{http.MethodGet, api("/contacts"), "api.list", h.apiList},
		{http.MethodPost, api("/contacts"), "api.create", h.apiCreate},
		{http.MethodGet, api("/contacts/{id}"), "api.get", h.apiGet},
		{http.MethodPut, api("/contacts/{id}"), "api.replace", h.apiReplace},
		{http.MethodDelete, api("/contacts/{id}"), "api.delete", h.apiDelete},
		{http.MethodGet, api("/openapi.json"), "api.openapi", h.apiDocument},
	}
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
