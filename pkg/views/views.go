// Package views renders the contacts pages and fragments. Pages extend a
// shared layout that carries the theme, flash messages and client scripts.
package views

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-contacts/pkg/contact"
	"github.com/goliatone/go-contacts/pkg/flash"
	"github.com/goliatone/go-contacts/pkg/render/template"
	"github.com/goliatone/go-contacts/pkg/render/template/gotemplate"
	"github.com/goliatone/go-contacts/pkg/store"
)

//go:embed templates/*.tpl templates/contacts/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS returns the built-in templates rooted at the templates directory.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// Template names, relative to TemplatesFS.
const (
	TemplateIndex = "contacts/index"
	TemplateRows  = "contacts/rows"
	TemplateNew   = "contacts/new"
	TemplateEdit  = "contacts/edit"
	TemplateShow  = "contacts/show"
)

// Layout is the data every full page shares.
type Layout struct {
	Title   string          `json:"title"`
	Flashes []flash.Message `json:"flashes"`
}

// IndexData feeds the contacts list page.
type IndexData struct {
	Layout
	Query    string            `json:"query"`
	Contacts []contact.Contact `json:"contacts"`
	HasMore  bool              `json:"has_more"`
	NextPage int               `json:"next_page"`
}

// NewIndexData computes the "Loading More..." state for a page of results.
// Search results never page.
func NewIndexData(query string, page int, contacts []contact.Contact) IndexData {
	if contacts == nil {
		contacts = []contact.Contact{}
	}
	return IndexData{
		Layout:   Layout{},
		Query:    query,
		Contacts: contacts,
		HasMore:  strings.TrimSpace(query) == "" && len(contacts) >= store.PageSize,
		NextPage: page + 1,
	}
}

// FormData feeds the create and edit forms.
type FormData struct {
	Layout
	ContactID  contact.ID          `json:"contact_id,omitempty"`
	Values     map[string]string   `json:"values"`
	Errors     contact.FieldErrors `json:"errors"`
	EmailCheck string              `json:"email_check"`
}

// NewFormData prepares the create form when id is zero and the edit form
// otherwise.
func NewFormData(id contact.ID, pending contact.Pending, errs contact.FieldErrors) FormData {
	if errs == nil {
		errs = contact.FieldErrors{}
	}
	data := FormData{
		ContactID:  id,
		Values:     pending.Values(),
		Errors:     errs,
		EmailCheck: "/contacts/new/email",
		Layout:     Layout{Title: "New Contact"},
	}
	if id > 0 {
		data.EmailCheck = fmt.Sprintf("/contacts/%d/email", id)
		data.Title = "Edit Contact"
	}
	return data
}

// ShowData feeds the contact detail page.
type ShowData struct {
	Layout
	Contact  contact.Contact `json:"contact"`
	FullName string          `json:"full_name"`
}

// NewShowData prepares the detail page for c.
func NewShowData(c contact.Contact) ShowData {
	return ShowData{
		Layout:   Layout{Title: c.FullName()},
		Contact:  c,
		FullName: c.FullName(),
	}
}

// Option configures New.
type Option func(*config)

type config struct {
	renderer     template.TemplateRenderer
	templatesDir string
	reload       bool
	selector     *ThemeSelector
	themeName    string
	variant      string
}

// WithRenderer replaces the template engine. A stock go-template Engine
// satisfies template.TemplateRenderer and can be passed directly.
func WithRenderer(renderer template.TemplateRenderer) Option {
	return func(cfg *config) {
		cfg.renderer = renderer
	}
}

// WithTemplatesDir layers a directory of templates over the embedded ones.
// Files found on disk win.
func WithTemplatesDir(dir string, reload bool) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(dir)
		cfg.reload = reload
	}
}

// WithThemeSelector replaces the built-in theme registry.
func WithThemeSelector(selector *ThemeSelector) Option {
	return func(cfg *config) {
		cfg.selector = selector
	}
}

// WithTheme picks the theme and variant to render with.
func WithTheme(name, variant string) Option {
	return func(cfg *config) {
		cfg.themeName = strings.TrimSpace(name)
		cfg.variant = strings.TrimSpace(variant)
	}
}

// Views renders pages through a TemplateRenderer.
type Views struct {
	renderer template.TemplateRenderer
	theme    ThemeContext
}

// New builds Views over the embedded templates and default theme unless
// options say otherwise.
func New(opts ...Option) (*Views, error) {
	cfg := &config{themeName: DefaultThemeName}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	if cfg.selector == nil {
		selector, err := NewThemeSelector(DefaultManifest())
		if err != nil {
			return nil, err
		}
		cfg.selector = selector
	}
	selection, err := cfg.selector.Select(cfg.themeName, cfg.variant)
	if err != nil {
		return nil, err
	}
	themeCtx := NewThemeContext(RendererConfig(selection))

	renderer := cfg.renderer
	if renderer == nil {
		engineOpts := []gotemplate.Option{gotemplate.WithFS(TemplatesFS())}
		if cfg.templatesDir != "" {
			engineOpts = append(engineOpts, gotemplate.WithBaseDir(cfg.templatesDir), gotemplate.WithReload(cfg.reload))
		}
		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("views: template engine: %w", err)
		}
		renderer = engine
	}

	if err := registerFilters(renderer); err != nil {
		return nil, err
	}
	if err := renderer.GlobalContext(map[string]any{"theme": themeCtx}); err != nil {
		return nil, fmt.Errorf("views: theme context: %w", err)
	}

	return &Views{renderer: renderer, theme: themeCtx}, nil
}

// Theme returns the resolved theme context.
func (v *Views) Theme() ThemeContext { return v.theme }

// Index renders the full contacts page.
func (v *Views) Index(data IndexData) (string, error) {
	return v.render(TemplateIndex, data)
}

// Rows renders only the table rows, the response to a live search.
func (v *Views) Rows(contacts []contact.Contact) (string, error) {
	if contacts == nil {
		contacts = []contact.Contact{}
	}
	return v.render(TemplateRows, map[string]any{"contacts": contacts})
}

// NewForm renders the create form.
func (v *Views) NewForm(data FormData) (string, error) {
	return v.render(TemplateNew, data)
}

// EditForm renders the edit form.
func (v *Views) EditForm(data FormData) (string, error) {
	return v.render(TemplateEdit, data)
}

// Show renders the contact detail page.
func (v *Views) Show(data ShowData) (string, error) {
	return v.render(TemplateShow, data)
}

func (v *Views) render(name string, data any) (string, error) {
	out, err := v.renderer.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("views: render %s: %w", name, err)
	}
	return out, nil
}
