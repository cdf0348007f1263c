// Package validation evaluates section fields against their declared rules.
// It is side-effect free: the same section and values always produce the same
// FieldErrors, and callers decide what to do with them.
package validation
