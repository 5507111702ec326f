package contacts

import (
	"io/fs"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-contacts/pkg/apispec"
	"github.com/goliatone/go-contacts/pkg/flash"
	"github.com/goliatone/go-contacts/pkg/store"
	"github.com/goliatone/go-contacts/pkg/views"
)

// GuardFunc may reject a request before it reaches a handler. Returning an
// HTTPError picks the response status.
type GuardFunc func(r *http.Request) error

type Options struct {
	APIPrefix   string
	StaticPath  string
	SearchParam string
	PageParam   string
	BulkParam   string
	EmailParam  string
	MaxBodySize int64
	Guard       GuardFunc

	Store  store.Store
	Views  *views.Views
	Flash  *flash.Store
	Spec   *apispec.Spec
	Static fs.FS
	Logger *zap.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		APIPrefix:   "/api/v1",
		StaticPath:  "/dist",
		SearchParam: "q",
		PageParam:   "page",
		BulkParam:   "selected_contact_ids",
		EmailParam:  "email_address",
		MaxBodySize: 1 << 20,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	defaults := DefaultOptions()
	if opts.APIPrefix == "" {
		opts.APIPrefix = defaults.APIPrefix
	}
	if opts.StaticPath == "" {
		opts.StaticPath = defaults.StaticPath
	}
	if opts.SearchParam == "" {
		opts.SearchParam = defaults.SearchParam
	}
	if opts.PageParam == "" {
		opts.PageParam = defaults.PageParam
	}
	if opts.BulkParam == "" {
		opts.BulkParam = defaults.BulkParam
	}
	if opts.EmailParam == "" {
		opts.EmailParam = defaults.EmailParam
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = defaults.MaxBodySize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

func WithStore(s store.Store) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Store = s
	}
}

func WithViews(v *views.Views) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Views = v
	}
}

func WithFlash(f *flash.Store) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Flash = f
	}
}

func WithSpec(s *apispec.Spec) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Spec = s
	}
}

func WithStatic(files fs.FS) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Static = files
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithAPIPrefix(prefix string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.APIPrefix = prefix
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithMaxBodySize(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodySize = n
	}
}
