package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	formwizard "github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/pkg/client"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func TestLocalServiceServesSchemaFile(t *testing.T) {
	svc := &localService{
		source: schema.ParseSource(filepath.Join("..", "..", "pkg", "schema", "testdata", "student_form.json")),
		loader: formwizard.NewLoader(),
	}

	result, err := svc.CreateUser(context.Background(), client.User{RollNumber: "R1", Name: "Ada"})
	if err != nil || !result.Success {
		t.Fatalf("expected registration to succeed, got %+v %v", result, err)
	}

	form, err := svc.FetchForm(context.Background(), "R1")
	if err != nil {
		t.Fatalf("fetch form: %v", err)
	}
	if form.Title != "Student Information Form" || len(form.Sections) != 3 {
		t.Fatalf("unexpected form %q with %d sections", form.Title, len(form.Sections))
	}
}

func TestLocalServiceMissingFile(t *testing.T) {
	svc := &localService{
		source: schema.ParseSource(filepath.Join(t.TempDir(), "missing.json")),
		loader: formwizard.NewLoader(),
	}
	if _, err := svc.FetchForm(context.Background(), "R1"); !errors.Is(err, wizard.ErrSchemaUnavailable) {
		t.Fatalf("expected ErrSchemaUnavailable, got %v", err)
	}
}

func TestLoadTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	raw := []byte(`name: acme
variant: dark
tokens:
  primary: "#112233"
css_vars:
  --fw-error: "#ff0000"
stylesheet: /themes/acme.css
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write theme: %v", err)
	}

	cfg, err := loadTheme(path)
	if err != nil {
		t.Fatalf("load theme: %v", err)
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected theme selection %q/%q", cfg.Theme, cfg.Variant)
	}
	if diff := cmp.Diff(map[string]string{"primary": "#112233"}, cfg.Tokens); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL("html.stylesheet"); got != "/themes/acme.css" {
		t.Fatalf("unexpected stylesheet %q", got)
	}
	if got := cfg.AssetURL("other"); got != "" {
		t.Fatalf("unexpected asset %q", got)
	}
}

func TestLoadThemeRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	if err := os.WriteFile(path, []byte("tokens: [unclosed"), 0o600); err != nil {
		t.Fatalf("write theme: %v", err)
	}
	if _, err := loadTheme(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
