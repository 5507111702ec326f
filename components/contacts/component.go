package contacts

import (
	"fmt"
	"net/http"
)

// Component bundles the contacts handlers with their configuration.
type Component struct {
	opts Options
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns a ServeMux with every route registered.
func (c *Component) Handler() (http.Handler, error) {
	if c == nil {
		return nil, fmt.Errorf("contacts: nil component")
	}
	mux := http.NewServeMux()
	if _, err := RegisterRoutesWithOptions(mux, c.opts); err != nil {
		return nil, err
	}
	return mux, nil
}

// RegisterRoutes registers every route on mux and returns the patterns.
func (c *Component) RegisterRoutes(mux Mux) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("contacts: nil component")
	}
	return RegisterRoutesWithOptions(mux, c.opts)
}
