package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or chose to quit.
	ErrAborted = errors.New("tui: aborted")
	// ErrNoController is returned when Run is called without a wizard.
	ErrNoController = errors.New("tui: wizard controller is nil")
)
