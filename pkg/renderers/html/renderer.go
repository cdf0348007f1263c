package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	rendertemplate "github.com/goliatone/go-formwizard/pkg/render/template"
	"github.com/goliatone/go-formwizard/pkg/render/template/gotemplate"
	theme "github.com/goliatone/go-theme"
)

const (
	stepTemplate   = "templates/step.tmpl"
	loginTemplate  = "templates/login.tmpl"
	layoutTemplate = "templates/layout.tmpl"

	defaultStylesheet    = "assets/formwizard.css"
	themeAssetStylesheet = "html.stylesheet"
	defaultAppTitle      = "Dynamic Form Builder"
)

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	assetURLPrefix   string
	appTitle         string
}

// WithTemplatesFS supplies an alternate template bundle. It must provide the
// same template names as the embedded one.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithAssetURLPrefix prefixes the default stylesheet path (e.g. "/static").
func WithAssetURLPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.assetURLPrefix = prefix
	}
}

// WithAppTitle overrides the page banner.
func WithAppTitle(title string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			cfg.appTitle = trimmed
		}
	}
}

// Renderer turns a wizard step into a server-rendered HTML page. Navigation is
// plain form posts: the pressed button arrives as the "action" field.
type Renderer struct {
	templates      rendertemplate.TemplateRenderer
	assetURLPrefix string
	appTitle       string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs an HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		appTitle:   defaultAppTitle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templateRenderer := cfg.templateRenderer
	if templateRenderer == nil {
		for _, name := range []string{layoutTemplate, stepTemplate, loginTemplate} {
			if err := ensureTemplate(cfg.templateFS, name); err != nil {
				return nil, err
			}
		}
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templateRenderer = engine
	}

	return &Renderer{
		templates:      templateRenderer,
		assetURLPrefix: cfg.assetURLPrefix,
		appTitle:       cfg.appTitle,
	}, nil
}

// Name identifies the renderer inside the registry.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType returns the MIME type for generated documents.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the page for the current section.
func (r *Renderer) Render(_ context.Context, step render.Step, options render.RenderOptions) ([]byte, error) {
	data := r.baseData(options)
	data["step"] = step
	data["description_html"] = sanitizeDescription(step.Description)
	return r.execute(stepTemplate, data)
}

// Login is the state of the login form.
type Login struct {
	RollNumber      string
	Name            string
	RollNumberError string
	NameError       string
}

// LoginFromErrors fills the per-field messages from a credentials check keyed
// by the login field ids.
func LoginFromErrors(rollNumber, name string, errs model.FieldErrors) Login {
	return Login{
		RollNumber:      rollNumber,
		Name:            name,
		RollNumberError: errs["rollNumber"],
		NameError:       errs["name"],
	}
}

// RenderLogin produces the login page shown before a form is assigned.
func (r *Renderer) RenderLogin(_ context.Context, login Login, options render.RenderOptions) ([]byte, error) {
	data := r.baseData(options)
	data["login"] = login
	return r.execute(loginTemplate, data)
}

func (r *Renderer) baseData(options render.RenderOptions) map[string]any {
	themeCtx := buildThemeContext(options.Theme)
	return map[string]any{
		"app_title":  r.appTitle,
		"action":     options.Action,
		"hidden":     render.SortedHiddenFields(options.Hidden),
		"flash":      options.Flash,
		"show_flash": !options.Flash.Empty(),
		"theme":      themeCtx,
		"stylesheet": r.stylesheetURL(options.Theme),
	}
}

func (r *Renderer) execute(name string, data map[string]any) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	rendered, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(rendered), nil
}

func (r *Renderer) stylesheetURL(cfg *theme.RendererConfig) string {
	if cfg != nil && cfg.AssetURL != nil {
		if resolved := strings.TrimSpace(cfg.AssetURL(themeAssetStylesheet)); resolved != "" {
			return resolved
		}
	}
	prefix := strings.TrimRight(r.assetURLPrefix, "/")
	if prefix == "" {
		return "/" + defaultStylesheet
	}
	return prefix + "/" + defaultStylesheet
}

func ensureTemplate(files fs.FS, name string) error {
	if files == nil {
		return fmt.Errorf("html renderer: template filesystem is nil")
	}
	if _, err := fs.Stat(files, name); err != nil {
		return fmt.Errorf("html renderer: template %q: %w", name, err)
	}
	return nil
}

type rendererTheme struct {
	Name         string
	Variant      string
	Tokens       map[string]string
	CSSVarsStyle string
}

func buildThemeContext(cfg *theme.RendererConfig) rendererTheme {
	if cfg == nil {
		return rendererTheme{}
	}
	vars := make(map[string]string, len(cfg.CSSVars)+len(cfg.Tokens))
	// Tokens map onto the built-in --fw-* variables; explicit CSS vars win.
	for key, value := range cfg.Tokens {
		vars["--fw-"+key] = value
	}
	for key, value := range cfg.CSSVars {
		vars[key] = value
	}
	return rendererTheme{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		Tokens:       cfg.Tokens,
		CSSVarsStyle: cssVarsStyle(vars),
	}
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
		if !strings.HasPrefix(key, "--") || strings.ContainsAny(vars[key], ";{}<>") {
			continue
		}
		if i > 0 && b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteByte(';')
	}
	return b.String()
}

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

// sanitizeDescription keeps inline formatting and links from schema supplied
// section descriptions and drops everything else.
func sanitizeDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "u", "br", "p", "code", "small")
		policy.AllowStandardURLs()
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		descriptionPolicy = policy
	})
	return strings.TrimSpace(descriptionPolicy.Sanitize(trimmed))
}
