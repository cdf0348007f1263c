// Package template defines the renderer-agnostic template interface used by
// the HTML presentation layer. The gotemplate subpackage provides the pongo2
// backed implementation.
package template
