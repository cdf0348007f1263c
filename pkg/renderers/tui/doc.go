// Package tui drives a wizard controller from the terminal with survey
// prompts.
package tui
