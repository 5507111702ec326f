// Package gotemplate adapts github.com/goliatone/go-template to the
// template.TemplateRenderer contract. Data reaches templates through its JSON
// form, so templates address fields by their JSON names.
package gotemplate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"strings"
	"sync"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-contacts/pkg/render/template"
)

// Option configures the go-template adapter before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	reload    bool
}

// WithBaseDir configures the underlying engine to load templates from a base
// directory on disk. Files found there win over WithFS.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS configures the underlying engine to load templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithReload builds a fresh engine for every render so edits on disk show up
// immediately. Intended for development with WithBaseDir.
func WithReload(reload bool) Option {
	return func(cfg *config) {
		cfg.reload = reload
	}
}

// Engine satisfies template.TemplateRenderer on top of a go-template engine.
type Engine struct {
	mu sync.RWMutex

	options []gotemplatepkg.Option
	globals map[string]any
	reload  bool
	cached  *gotemplatepkg.Engine
}

// Ensure Engine implements the TemplateRenderer interface.
var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	var engineOpts []gotemplatepkg.Option
	if cfg.baseDir != "" {
		engineOpts = append(engineOpts, gotemplatepkg.WithBaseDir(cfg.baseDir))
	}
	if cfg.templates != nil {
		engineOpts = append(engineOpts, gotemplatepkg.WithFS(cfg.templates))
	}

	e := &Engine{
		options: engineOpts,
		globals: map[string]any{},
		reload:  cfg.reload,
	}
	if e.reload {
		return e, nil
	}

	cached, err := e.load()
	if err != nil {
		return nil, err
	}
	e.cached = cached
	return e, nil
}

// Render renders inline template content or a named template.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	engine, err := e.engine()
	if err != nil {
		return "", err
	}
	return engine.Render(name, data, out...)
}

// RenderTemplate renders the named template. The default extension is added
// when missing.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	engine, err := e.engine()
	if err != nil {
		return "", err
	}
	return engine.RenderTemplate(name, data, out...)
}

// RenderString renders templateContent directly.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	engine, err := e.engine()
	if err != nil {
		return "", err
	}
	return engine.RenderString(templateContent, data, out...)
}

// RegisterFilter registers a template filter. Filter names are process wide
// and registering one twice fails.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	engine, err := e.engine()
	if err != nil {
		return err
	}
	if err := engine.RegisterFilter(name, fn); err != nil {
		return fmt.Errorf("gotemplate: %w", err)
	}
	return nil
}

// GlobalContext seeds data visible to every template.
func (e *Engine) GlobalContext(data any) error {
	if e == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}

	globalCtx, err := gotemplatepkg.ConvertToContext(data)
	if err != nil {
		return fmt.Errorf("gotemplate: convert global data: %w", err)
	}
	values := map[string]any(globalCtx)

	e.mu.Lock()
	maps.Copy(e.globals, values)
	cached := e.cached
	e.mu.Unlock()

	if cached != nil {
		return cached.GlobalContext(values)
	}
	return nil
}

func (e *Engine) engine() (*gotemplatepkg.Engine, error) {
	if e == nil {
		return nil, errors.New("gotemplate: engine is nil")
	}
	if e.reload {
		return e.load()
	}
	return e.cached, nil
}

func (e *Engine) load() (*gotemplatepkg.Engine, error) {
	e.mu.RLock()
	opts := append([]gotemplatepkg.Option{}, e.options...)
	opts = append(opts, gotemplatepkg.WithGlobalData(maps.Clone(e.globals)))
	e.mu.RUnlock()

	engine, err := gotemplatepkg.NewRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load templates: %w", err)
	}
	return engine, nil
}
