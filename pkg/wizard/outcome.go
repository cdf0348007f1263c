package wizard

import (
	"context"
	"errors"

	"github.com/goliatone/go-formwizard/pkg/model"
)

var (
	// ErrNoSections is returned by New for a schema without sections.
	ErrNoSections = errors.New("wizard: schema has no sections")
	// ErrSchemaUnavailable wraps SchemaProvider failures. Callers show a
	// loading or error state until a new login supplies a schema.
	ErrSchemaUnavailable = errors.New("wizard: schema unavailable")
	// ErrDuplicateSection is returned by New when two sections share an id.
	// Errors are stored per section id, so ids must be unique.
	ErrDuplicateSection = errors.New("wizard: duplicate section id")
	// ErrClosed is reported once the form has been submitted.
	ErrClosed = errors.New("wizard: form already submitted")
)

// Event names what happened as the result of a navigation call.
type Event string

const (
	EventAdvanced         Event = "advanced"
	EventMoved            Event = "moved"
	EventValidationFailed Event = "validation_failed"
	EventNotLastSection   Event = "not_last_section"
	EventSubmitted        Event = "submitted"
	EventSubmitFailed     Event = "submit_failed"
	EventClosed           Event = "closed"
)

// User facing messages attached to outcomes.
const (
	MessageFixBeforeNext   = "Please fix the errors before proceeding."
	MessageFixBeforeSubmit = "Please fix the errors before submitting the form."
	MessageSubmitted       = "Your form has been successfully submitted."
	MessageSubmitFailed    = "We could not submit your form. Please try again."
	MessageNotLastSection  = "Complete the remaining sections before submitting."
	MessageClosed          = "This form has already been submitted."
)

// Outcome is returned by every navigation call so the presentation layer can
// decide how to surface it. It replaces ambient toast-style callbacks.
type Outcome struct {
	Event Event
	// Scope is the id of the section the outcome refers to.
	Scope   string
	Index   int
	Message string
	// Errors holds the failures of the validated section, if any.
	Errors  model.FieldErrors
	Receipt Receipt
	Err     error
}

// OK reports whether the call moved the wizard forward or submitted it.
func (o Outcome) OK() bool {
	switch o.Event {
	case EventAdvanced, EventMoved, EventSubmitted:
		return true
	default:
		return false
	}
}

// Receipt is whatever the submission collaborator returns on success.
type Receipt struct {
	ID      string
	Message string
}

// Submitter receives the final values once the last section validates.
type Submitter interface {
	Submit(ctx context.Context, values model.Values) (Receipt, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, values model.Values) (Receipt, error)

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, values model.Values) (Receipt, error) {
	return f(ctx, values)
}

// acceptSubmitter reports success without sending anything anywhere.
type acceptSubmitter struct{}

func (acceptSubmitter) Submit(context.Context, model.Values) (Receipt, error) {
	return Receipt{Message: MessageSubmitted}, nil
}

// SchemaProvider yields the form definition assigned to a user.
type SchemaProvider interface {
	FetchForm(ctx context.Context, rollNumber string) (model.FormSchema, error)
}
