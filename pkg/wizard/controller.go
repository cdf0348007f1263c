package wizard

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// StepState describes a section relative to the current position.
type StepState string

const (
	StepDone    StepState = "done"
	StepCurrent StepState = "current"
	StepPending StepState = "pending"
)

// Option configures a Controller.
type Option func(*Controller)

// WithSubmitter sets the collaborator invoked by Submit. Without one the
// controller reports success without sending the values anywhere.
func WithSubmitter(submitter Submitter) Option {
	return func(c *Controller) {
		if submitter != nil {
			c.submitter = submitter
		}
	}
}

// WithValues pre-populates the controller with existing input.
func WithValues(values model.Values) Option {
	return func(c *Controller) {
		for id, value := range values {
			c.values[id] = value
		}
	}
}

// Controller owns the navigation state of one form session: the current
// section index, the entered values and the validation errors of each section.
// It is not safe for concurrent use; a single user drives it.
type Controller struct {
	schema    model.FormSchema
	index     int
	values    model.Values
	errors    model.SectionErrors
	submitter Submitter
	submitted bool
}

// New constructs a controller positioned on the first section.
func New(schema model.FormSchema, options ...Option) (*Controller, error) {
	if len(schema.Sections) == 0 {
		return nil, ErrNoSections
	}
	seen := make(map[string]struct{}, len(schema.Sections))
	for _, section := range schema.Sections {
		if _, dup := seen[section.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSection, section.ID)
		}
		seen[section.ID] = struct{}{}
	}

	c := &Controller{
		schema:    schema,
		values:    make(model.Values),
		errors:    make(model.SectionErrors),
		submitter: acceptSubmitter{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Schema returns the form definition driving the wizard.
func (c *Controller) Schema() model.FormSchema {
	return c.schema
}

// Index returns the current section position, always within [0, SectionCount-1].
func (c *Controller) Index() int {
	return c.index
}

// SectionCount returns the number of sections.
func (c *Controller) SectionCount() int {
	return len(c.schema.Sections)
}

// Section returns the current section.
func (c *Controller) Section() model.Section {
	return c.schema.Sections[c.index]
}

// IsFirst reports whether the current section is the first one.
func (c *Controller) IsFirst() bool {
	return c.index == 0
}

// IsLast reports whether the current section is the last one.
func (c *Controller) IsLast() bool {
	return c.index == len(c.schema.Sections)-1
}

// Submitted reports whether Submit succeeded.
func (c *Controller) Submitted() bool {
	return c.submitted
}

// Values returns a copy of the entered values.
func (c *Controller) Values() model.Values {
	return c.values.Clone()
}

// Value returns the entered value for a field; the zero Value when absent.
func (c *Controller) Value(fieldID string) model.Value {
	return c.values.Get(fieldID)
}

// Errors returns a copy of the current section's errors.
func (c *Controller) Errors() model.FieldErrors {
	return c.errors[c.Section().ID].Clone()
}

// SectionErrors returns a copy of the errors recorded for every section.
func (c *Controller) SectionErrors() model.SectionErrors {
	return c.errors.Clone()
}

// Progress reports each section as done, current or pending.
func (c *Controller) Progress() []StepState {
	out := make([]StepState, len(c.schema.Sections))
	for i := range out {
		switch {
		case i < c.index:
			out[i] = StepDone
		case i == c.index:
			out[i] = StepCurrent
		default:
			out[i] = StepPending
		}
	}
	return out
}

// SetFieldValue records the value for a field and drops any error reported for
// it without re-validating. Edits after submission are ignored.
func (c *Controller) SetFieldValue(fieldID string, value model.Value) {
	if c.submitted {
		return
	}
	c.values[fieldID] = value
	c.clearFieldError(fieldID)
}

// ClearFieldValue removes a field's value and error.
func (c *Controller) ClearFieldValue(fieldID string) {
	if c.submitted {
		return
	}
	delete(c.values, fieldID)
	c.clearFieldError(fieldID)
}

func (c *Controller) clearFieldError(fieldID string) {
	for sectionID, errs := range c.errors {
		if _, ok := errs[fieldID]; !ok {
			continue
		}
		delete(errs, fieldID)
		if len(errs) == 0 {
			delete(c.errors, sectionID)
		}
	}
}

// Next validates the current section and advances when it passes. On failure
// the section's errors are replaced with the fresh result and the index stays.
func (c *Controller) Next() Outcome {
	if c.submitted {
		return c.closed()
	}

	section := c.Section()
	if result := c.validateCurrent(); !result.Valid() {
		return Outcome{
			Event:   EventValidationFailed,
			Scope:   section.ID,
			Index:   c.index,
			Message: MessageFixBeforeNext,
			Errors:  result.Errors.Clone(),
		}
	}

	if c.index < len(c.schema.Sections)-1 {
		c.index++
	}
	return Outcome{
		Event: EventAdvanced,
		Scope: section.ID,
		Index: c.index,
	}
}

// Prev moves back one section without validating; it stays at 0 on the first
// section.
func (c *Controller) Prev() Outcome {
	if c.submitted {
		return c.closed()
	}
	if c.index > 0 {
		c.index--
	}
	return Outcome{
		Event: EventMoved,
		Scope: c.Section().ID,
		Index: c.index,
	}
}

// Submit validates the last section and hands a copy of the values to the
// submitter. A submitter failure leaves index and values untouched so the user
// can retry.
func (c *Controller) Submit(ctx context.Context) Outcome {
	if c.submitted {
		return c.closed()
	}

	section := c.Section()
	if !c.IsLast() {
		return Outcome{
			Event:   EventNotLastSection,
			Scope:   section.ID,
			Index:   c.index,
			Message: MessageNotLastSection,
		}
	}

	if result := c.validateCurrent(); !result.Valid() {
		return Outcome{
			Event:   EventValidationFailed,
			Scope:   section.ID,
			Index:   c.index,
			Message: MessageFixBeforeSubmit,
			Errors:  result.Errors.Clone(),
		}
	}

	receipt, err := c.submitter.Submit(ctx, c.values.Clone())
	if err != nil {
		return Outcome{
			Event:   EventSubmitFailed,
			Scope:   section.ID,
			Index:   c.index,
			Message: MessageSubmitFailed,
			Err:     fmt.Errorf("wizard: submit: %w", err),
		}
	}

	c.submitted = true
	message := receipt.Message
	if message == "" {
		message = MessageSubmitted
	}
	return Outcome{
		Event:   EventSubmitted,
		Scope:   section.ID,
		Index:   c.index,
		Message: message,
		Receipt: receipt,
	}
}

func (c *Controller) validateCurrent() validation.Result {
	section := c.Section()
	result := validation.ValidateSection(section, c.values)
	if result.Valid() {
		delete(c.errors, section.ID)
	} else {
		c.errors[section.ID] = result.Errors
	}
	return result
}

func (c *Controller) closed() Outcome {
	return Outcome{
		Event:   EventClosed,
		Scope:   c.Section().ID,
		Index:   c.index,
		Message: MessageClosed,
		Err:     ErrClosed,
	}
}
