// Package template defines the rendering seam the views depend on. Concrete
// engines live in subpackages; gotemplate wraps github.com/goliatone/go-template.
package template
