package views

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

const (
	DefaultThemeName = "contacts"
	VariantLight     = "light"
	VariantDark      = "dark"
)

// Asset keys resolved through the theme manifest.
const (
	AssetStylesheet = "stylesheet"
	AssetSpinner    = "spinner"
	AssetMenuScript = "menu_script"
)

// DefaultManifest describes the built-in look: light tokens at the base, a
// dark variant overriding colours, and the /dist assets.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"text":           "#1f2328",
			"muted":          "#59636e",
			"surface":        "#ffffff",
			"surface-raised": "#f6f8fa",
			"border":         "#d1d9e0",
			"accent":         "#0969da",
			"danger":         "#cf222e",
			"success":        "#1a7f37",
			"warning":        "#9a6700",
		},
		Templates: map[string]string{
			"layout": "layout.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/dist",
			Files: map[string]string{
				AssetStylesheet: "output.css",
				AssetSpinner:    "img/spinning-circles.svg",
				AssetMenuScript: "rsjs.js",
			},
		},
		Variants: map[string]theme.Variant{
			VariantLight: {
				Tokens: map[string]string{
					"surface": "#ffffff",
				},
			},
			VariantDark: {
				Tokens: map[string]string{
					"text":           "#e6edf3",
					"muted":          "#9198a1",
					"surface":        "#0d1117",
					"surface-raised": "#151b23",
					"border":         "#3d444d",
					"accent":         "#4493f8",
					"danger":         "#f85149",
					"success":        "#3fb950",
					"warning":        "#d29922",
				},
			},
		},
	}
}

// ThemeSelector resolves registered manifests by name and variant.
type ThemeSelector struct {
	mu        sync.RWMutex
	provider  theme.ThemeProvider
	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*ThemeSelector)(nil)

// NewThemeSelector registers each manifest with a go-theme registry.
func NewThemeSelector(manifests ...*theme.Manifest) (*ThemeSelector, error) {
	registry := theme.NewRegistry()
	s := &ThemeSelector{
		provider:  registry,
		manifests: make(map[string]*theme.Manifest, len(manifests)),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("views: register theme %q: %w", manifest.Name, err)
		}
		s.manifests[manifest.Name] = manifest
	}
	return s, nil
}

// Provider exposes the underlying go-theme provider.
func (s *ThemeSelector) Provider() theme.ThemeProvider { return s.provider }

// Select returns the manifest called name. An empty name picks the default
// theme; an unknown variant is an error, an empty one means the base tokens.
func (s *ThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultThemeName
	}
	variant = strings.TrimSpace(variant)

	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("views: unknown theme %q", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("views: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection: variant tokens, templates and asset
// files override the base ones, and every token becomes a --token CSS var.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeStrings(manifest.Tokens, variant.Tokens)
	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}
	files := mergeStrings(manifest.Assets.Files, variant.Assets.Files)

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: mergeStrings(manifest.Templates, variant.Templates),
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			return joinURL(prefix, file)
		},
	}
}

// ThemeContext is the slice of a renderer config the layout template reads.
type ThemeContext struct {
	Name         string `json:"name"`
	Variant      string `json:"variant"`
	CSSVarsStyle string `json:"css_vars_style"`
	Stylesheet   string `json:"stylesheet"`
	Spinner      string `json:"spinner"`
	MenuScript   string `json:"menu_script"`
}

// NewThemeContext builds the template view of cfg.
func NewThemeContext(cfg *theme.RendererConfig) ThemeContext {
	if cfg == nil {
		return ThemeContext{}
	}
	ctx := ThemeContext{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		ctx.Stylesheet = cfg.AssetURL(AssetStylesheet)
		ctx.Spinner = cfg.AssetURL(AssetSpinner)
		ctx.MenuScript = cfg.AssetURL(AssetMenuScript)
	}
	return ctx
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteByte(';')
	}
	return b.String()
}

func mergeStrings(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}

func joinURL(prefix, file string) string {
	prefix = strings.TrimRight(prefix, "/")
	file = strings.TrimLeft(file, "/")
	if prefix == "" {
		return "/" + file
	}
	return prefix + "/" + file
}
