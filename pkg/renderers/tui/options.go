package tui

// Theme captures optional prefixes the runner applies to printed messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
	DoneMarker  string
	TodoMarker  string
}

var defaultTheme = Theme{
	InfoPrefix:  "",
	ErrorPrefix: "! ",
	DoneMarker:  "●",
	TodoMarker:  "○",
}

// Option configures the terminal runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme replaces the message prefixes and progress markers. Empty markers
// keep the defaults.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		if theme.DoneMarker == "" {
			theme.DoneMarker = defaultTheme.DoneMarker
		}
		if theme.TodoMarker == "" {
			theme.TodoMarker = defaultTheme.TodoMarker
		}
		r.theme = theme
	}
}

// WithInlineValidation re-asks a field immediately when its answer breaks a
// rule instead of waiting for the section to be validated on Next.
func WithInlineValidation(enabled bool) Option {
	return func(r *Runner) {
		r.inline = enabled
	}
}
