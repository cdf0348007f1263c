package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the wizard state.
type RenderOptions struct {
	// Action is the URL the step form posts to. Empty keeps the current URL.
	Action string
	// Hidden fields are emitted inside the step form in name order.
	Hidden []HiddenField
	// Flash carries the message produced by the last wizard operation.
	Flash Flash
	// Theme supplies go-theme tokens and asset resolution. Nil renders the
	// built-in look.
	Theme *theme.RendererConfig
}
