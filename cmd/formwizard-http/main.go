package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	formwizard "github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/pkg/client"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/renderers/html"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/session"
	"github.com/goliatone/go-formwizard/pkg/submit"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func main() {
	var (
		addrFlag        = flag.String("addr", ":8484", "HTTP listen address")
		baseURLFlag     = flag.String("base-url", client.DefaultBaseURL, "form service base URL")
		timeoutFlag     = flag.Duration("timeout", 30*time.Second, "form service request timeout")
		schemaFlag      = flag.String("schema", "", "serve this form (file path or URL) instead of asking the form service")
		submissionsFlag = flag.String("submissions", "", "append submissions to this file (stdout if empty)")
		themeFlag       = flag.String("theme", "", "YAML theme file (name, variant, tokens, css_vars, stylesheet)")
		titleFlag       = flag.String("title", "", "page banner title")
		shutdownGrace   = flag.Duration("grace", 5*time.Second, "Shutdown grace period")
	)
	flag.Parse()

	var svc session.Service = client.New(
		client.WithBaseURL(*baseURLFlag),
		client.WithTimeout(*timeoutFlag),
		client.WithLogger(log.Default()),
	)
	if src := schema.ParseSource(*schemaFlag); src != nil {
		svc = &localService{
			source: src,
			loader: formwizard.NewLoader(schema.WithHTTPFallback(*timeoutFlag)),
		}
	}

	var themeCfg *theme.RendererConfig
	if *themeFlag != "" {
		cfg, err := loadTheme(*themeFlag)
		if err != nil {
			log.Fatalf("theme: %v", err)
		}
		themeCfg = cfg
	}

	renderer, err := html.New(html.WithAppTitle(*titleFlag))
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}

	out, err := openSubmissions(*submissionsFlag)
	if err != nil {
		log.Fatalf("submissions: %v", err)
	}
	factory := func(form model.FormSchema, user client.User) (wizard.Submitter, error) {
		return submit.NewJSON(out, submit.WithFormID(form.ID), submit.WithRollNumber(user.RollNumber))
	}

	server := newWizardServer(svc, renderer, themeCfg, factory)

	httpServer := &http.Server{
		Addr:         *addrFlag,
		Handler:      server.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	source := *baseURLFlag
	if *schemaFlag != "" {
		source = *schemaFlag
	}
	log.Printf("listening on %s (form source %s)", *addrFlag, source)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		log.Fatalf("listen: %v", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// localService serves a fixed schema to every user. Registration always
// succeeds.
type localService struct {
	source schema.Source
	loader schema.Loader
}

func (l *localService) CreateUser(_ context.Context, _ client.User) (client.CreateUserResult, error) {
	return client.CreateUserResult{Success: true, Message: "User created successfully"}, nil
}

func (l *localService) FetchForm(ctx context.Context, _ string) (model.FormSchema, error) {
	resp, err := schema.Load(ctx, l.loader, l.source)
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("%w: %v", wizard.ErrSchemaUnavailable, err)
	}
	return resp.Form, nil
}

type themeFile struct {
	Name       string            `yaml:"name"`
	Variant    string            `yaml:"variant"`
	Tokens     map[string]string `yaml:"tokens"`
	CSSVars    map[string]string `yaml:"css_vars"`
	Stylesheet string            `yaml:"stylesheet"`
	Assets     map[string]string `yaml:"assets"`
}

func loadTheme(path string) (*theme.RendererConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file themeFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return file.rendererConfig(), nil
}

func (f themeFile) rendererConfig() *theme.RendererConfig {
	assets := make(map[string]string, len(f.Assets)+1)
	for key, value := range f.Assets {
		assets[key] = value
	}
	if stylesheet := strings.TrimSpace(f.Stylesheet); stylesheet != "" {
		assets["html.stylesheet"] = stylesheet
	}
	return &theme.RendererConfig{
		Theme:   f.Name,
		Variant: f.Variant,
		Tokens:  f.Tokens,
		CSSVars: f.CSSVars,
		AssetURL: func(key string) string {
			return assets[key]
		},
	}
}

func openSubmissions(path string) (io.Writer, error) {
	if path == "" {
		return os.Stdout, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
