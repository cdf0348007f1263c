// Package render defines the presentation seam of the wizard: a Step view
// model snapshotting the controller, per-request RenderOptions, flash notices
// derived from navigation outcomes, and a registry of named renderers.
//
// ValuesFromForm is the inverse of HTML rendering; it reads posted controls of
// a section back into typed values.
package render
