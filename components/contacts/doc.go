// Package contacts serves the contacts web application: the HTML pages and
// htmx fragments under /contacts, the JSON API under /api/v1 and the embedded
// static assets under /dist.
//
// Handlers are plain net/http and register on a Go 1.22 ServeMux using method
// and wildcard patterns. Every dependency (store, views, flash cookies, API
// schema, logger) is supplied through Options.
package contacts
