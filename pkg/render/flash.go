package render

import (
	"errors"
	"sort"

	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// FlashLevel classifies a flash message.
type FlashLevel string

const (
	FlashNone    FlashLevel = ""
	FlashSuccess FlashLevel = "success"
	FlashError   FlashLevel = "error"
	FlashInfo    FlashLevel = "info"
)

// Flash is a one-shot notice shown above the step.
type Flash struct {
	Level   FlashLevel
	Message string
	// Details lists the field messages behind a failed validation, ordered by
	// field id.
	Details []string
}

// Empty reports whether there is nothing to show.
func (f Flash) Empty() bool {
	return f.Message == "" && len(f.Details) == 0
}

// FlashFromOutcome turns a navigation outcome into a notice. Plain moves
// between sections produce no notice.
func FlashFromOutcome(outcome wizard.Outcome) Flash {
	switch {
	case outcome.Event == wizard.EventSubmitted:
		return Flash{Level: FlashSuccess, Message: outcome.Message}
	case outcome.OK(), outcome.Event == "":
		return Flash{}
	case outcome.Event == wizard.EventClosed:
		return Flash{Level: FlashInfo, Message: outcome.Message}
	}

	flash := Flash{Level: FlashError, Message: outcome.Message}
	if outcome.Event == wizard.EventSubmitFailed && outcome.Err != nil {
		if cause := errors.Unwrap(outcome.Err); cause != nil {
			flash.Details = []string{cause.Error()}
		}
	}
	if len(outcome.Errors) > 0 {
		ids := make([]string, 0, len(outcome.Errors))
		for id := range outcome.Errors {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			flash.Details = append(flash.Details, id+": "+outcome.Errors[id])
		}
	}
	return flash
}
