package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/client"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

// fileConfig is the optional YAML config file. Flags override its values.
type fileConfig struct {
	BaseURL          string      `yaml:"base_url"`
	Timeout          string      `yaml:"timeout"`
	Schema           string      `yaml:"schema"`
	Output           string      `yaml:"output"`
	Indent           string      `yaml:"indent"`
	InlineValidation bool        `yaml:"inline_validation"`
	Theme            themeConfig `yaml:"theme"`
}

type themeConfig struct {
	InfoPrefix  string `yaml:"info_prefix"`
	ErrorPrefix string `yaml:"error_prefix"`
	DoneMarker  string `yaml:"done_marker"`
	TodoMarker  string `yaml:"todo_marker"`
}

type config struct {
	baseURL    string
	timeout    time.Duration
	schema     string
	output     string
	indent     string
	inline     bool
	rollNumber string
	name       string
	theme      *tui.Theme
}

func defaultConfig() config {
	return config{
		baseURL: client.DefaultBaseURL,
		timeout: 30 * time.Second,
		indent:  "  ",
	}
}

func loadConfigFile(path string) (fileConfig, error) {
	var cfg fileConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// apply merges file values into cfg; only non-empty entries replace defaults.
func (f fileConfig) apply(cfg *config) error {
	if v := strings.TrimSpace(f.BaseURL); v != "" {
		cfg.baseURL = v
	}
	if v := strings.TrimSpace(f.Timeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config timeout: %w", err)
		}
		if timeout <= 0 {
			return errors.New("config timeout must be positive")
		}
		cfg.timeout = timeout
	}
	if v := strings.TrimSpace(f.Schema); v != "" {
		cfg.schema = v
	}
	if v := strings.TrimSpace(f.Output); v != "" {
		cfg.output = v
	}
	if f.Indent != "" {
		cfg.indent = f.Indent
	}
	if f.InlineValidation {
		cfg.inline = true
	}
	if f.Theme != (themeConfig{}) {
		cfg.theme = &tui.Theme{
			InfoPrefix:  f.Theme.InfoPrefix,
			ErrorPrefix: f.Theme.ErrorPrefix,
			DoneMarker:  f.Theme.DoneMarker,
			TodoMarker:  f.Theme.TodoMarker,
		}
	}
	return nil
}
