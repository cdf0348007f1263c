package tui

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formwizard/pkg/client"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/session"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const (
	actionNext   = "Next"
	actionSubmit = "Submit"
	actionPrev   = "Previous"
	actionQuit   = "Quit"

	noneOption = "(none)"
	dateHelp   = "YYYY-MM-DD"
)

// Runner walks a wizard controller through terminal prompts: each section's
// fields are asked with a control matching their kind, then the user picks a
// navigation action. Outcomes and validation errors are reported through the
// driver's Info.
type Runner struct {
	driver PromptDriver
	theme  Theme
	inline bool
}

// New constructs a runner using the survey driver unless overridden.
func New(options ...Option) *Runner {
	r := &Runner{theme: defaultTheme}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// PromptLogin asks for the roll number and name until both are present and
// returns them trimmed.
func (r *Runner) PromptLogin(ctx context.Context) (client.User, error) {
	var user client.User
	for {
		rollNumber, err := r.driver.Input(ctx, InputConfig{Message: "Roll Number", Default: user.RollNumber})
		if err != nil {
			return client.User{}, err
		}
		name, err := r.driver.Input(ctx, InputConfig{Message: "Name", Default: user.Name})
		if err != nil {
			return client.User{}, err
		}

		clean, errs := session.ValidateCredentials(client.User{RollNumber: rollNumber, Name: name})
		if len(errs) == 0 {
			return clean, nil
		}
		user = clean
		for _, key := range []string{session.FieldRollNumber, session.FieldName} {
			if msg, ok := errs[key]; ok {
				if err := r.errorf(ctx, "%s", msg); err != nil {
					return client.User{}, err
				}
			}
		}
	}
}

// Run drives c until the form is submitted and returns the submission outcome.
// Choosing Quit or interrupting a prompt returns ErrAborted with the values
// entered so far left in the controller.
func (r *Runner) Run(ctx context.Context, c *wizard.Controller) (wizard.Outcome, error) {
	if c == nil {
		return wizard.Outcome{}, ErrNoController
	}

	for !c.Submitted() {
		if err := ctx.Err(); err != nil {
			return wizard.Outcome{}, err
		}

		step := render.NewStep(c)
		if err := r.showStep(ctx, step); err != nil {
			return wizard.Outcome{}, err
		}
		if err := r.promptSection(ctx, c, step); err != nil {
			return wizard.Outcome{}, err
		}

		action, err := r.promptAction(ctx, step)
		if err != nil {
			return wizard.Outcome{}, err
		}

		var outcome wizard.Outcome
		switch action {
		case actionNext:
			outcome = c.Next()
		case actionSubmit:
			outcome = c.Submit(ctx)
		case actionPrev:
			outcome = c.Prev()
		default:
			return wizard.Outcome{}, ErrAborted
		}

		if err := r.report(ctx, outcome); err != nil {
			return outcome, err
		}
		if outcome.Event == wizard.EventSubmitted {
			return outcome, nil
		}
	}

	// Already submitted: Next reports the closed outcome.
	return c.Next(), nil
}

func (r *Runner) showStep(ctx context.Context, step render.Step) error {
	markers := make([]string, 0, len(step.Progress))
	for _, item := range step.Progress {
		if item.State == wizard.StepPending {
			markers = append(markers, r.theme.TodoMarker)
		} else {
			markers = append(markers, r.theme.DoneMarker)
		}
	}

	lines := []string{
		"",
		fmt.Sprintf("%s  %s", step.FormTitle, strings.Join(markers, " ")),
		fmt.Sprintf("[%d/%d] %s", step.Index+1, step.Count, step.Title),
	}
	if description := plainText(step.Description); description != "" {
		lines = append(lines, description)
	}
	for _, line := range lines {
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) promptSection(ctx context.Context, c *wizard.Controller, step render.Step) error {
	section := c.Section()
	for i, field := range section.Fields {
		var view render.FieldView
		if i < len(step.Fields) {
			view = step.Fields[i]
		}
		if err := r.promptField(ctx, c, field, view); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) promptField(ctx context.Context, c *wizard.Controller, field model.Field, view render.FieldView) error {
	if view.Error != "" {
		if err := r.errorf(ctx, "%s: %s", displayLabel(field), view.Error); err != nil {
			return err
		}
	}

	for {
		value, err := r.ask(ctx, field, view)
		if err != nil {
			return err
		}
		if r.inline {
			if msg, ok := validation.ValidateField(field, value); !ok {
				if err := r.errorf(ctx, "%s: %s", displayLabel(field), msg); err != nil {
					return err
				}
				continue
			}
		}
		if value.Kind() == model.ValueNone {
			c.ClearFieldValue(field.ID)
			return nil
		}
		c.SetFieldValue(field.ID, value)
		return nil
	}
}

func (r *Runner) ask(ctx context.Context, field model.Field, view render.FieldView) (model.Value, error) {
	label := promptLabel(field)

	switch field.Kind {
	case model.FieldKindCheckbox:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: view.Checked,
		})
		if err != nil {
			return model.Value{}, err
		}
		// "No" leaves the checkbox unanswered.
		if !checked {
			return model.Value{}, nil
		}
		return model.Bool(true), nil

	case model.FieldKindTextArea:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: view.Value,
			Help:    field.Placeholder,
		})
		if err != nil {
			return model.Value{}, err
		}
		return model.Text(text), nil

	case model.FieldKindDropdown, model.FieldKindRadio:
		return r.askChoice(ctx, field, label, view.Value)

	default:
		help := field.Placeholder
		if field.Kind == model.FieldKindDate && help == "" {
			help = dateHelp
		}
		cfg := InputConfig{
			Message: label,
			Default: view.Value,
			Help:    help,
		}
		if r.inline {
			cfg.Validator = fieldValidator(field)
		}
		text, err := r.driver.Input(ctx, cfg)
		if err != nil {
			return model.Value{}, err
		}
		return model.Text(text), nil
	}
}

func (r *Runner) askChoice(ctx context.Context, field model.Field, label, current string) (model.Value, error) {
	values := make([]string, 0, len(field.Options)+1)
	labels := make([]string, 0, len(field.Options)+1)
	if !field.Required {
		values = append(values, "")
		labels = append(labels, noneOption)
	}
	for _, option := range field.Options {
		values = append(values, option.Value)
		labels = append(labels, choiceLabel(option))
	}

	defaultIdx := -1
	if current != "" || !field.Required {
		defaultIdx = indexOf(values, current)
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         field.Placeholder,
		})
		if err != nil {
			return model.Value{}, err
		}
		if idx < 0 || idx >= len(values) {
			if err := r.errorf(ctx, "Invalid %s selection", field.ID); err != nil {
				return model.Value{}, err
			}
			continue
		}
		return model.Text(values[idx]), nil
	}
}

func (r *Runner) promptAction(ctx context.Context, step render.Step) (string, error) {
	actions := make([]string, 0, 3)
	if step.IsLast {
		actions = append(actions, actionSubmit)
	} else {
		actions = append(actions, actionNext)
	}
	if !step.IsFirst {
		actions = append(actions, actionPrev)
	}
	actions = append(actions, actionQuit)

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      "What next?",
			Options:      actions,
			DefaultIndex: 0,
		})
		if err != nil {
			return "", err
		}
		if idx >= 0 && idx < len(actions) {
			return actions[idx], nil
		}
		if err := r.errorf(ctx, "Invalid selection"); err != nil {
			return "", err
		}
	}
}

func (r *Runner) report(ctx context.Context, outcome wizard.Outcome) error {
	flash := render.FlashFromOutcome(outcome)
	if flash.Empty() {
		return nil
	}
	prefix := r.theme.InfoPrefix
	if flash.Level == render.FlashError {
		prefix = r.theme.ErrorPrefix
	}
	if err := r.driver.Info(ctx, prefix+flash.Message); err != nil {
		return err
	}
	for _, detail := range flash.Details {
		if err := r.driver.Info(ctx, prefix+"  - "+detail); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) errorf(ctx context.Context, format string, args ...any) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

// fieldValidator checks a typed answer with the same rules the controller
// applies on Next.
func fieldValidator(field model.Field) func(string) error {
	return func(text string) error {
		if msg, ok := validation.ValidateField(field, model.Text(text)); !ok {
			return errors.New(msg)
		}
		return nil
	}
}

func displayLabel(field model.Field) string {
	if label := strings.TrimSpace(field.Label); label != "" {
		return label
	}
	return field.ID
}

func promptLabel(field model.Field) string {
	label := displayLabel(field)
	if field.Required && field.Kind != model.FieldKindCheckbox {
		label += " *"
	}
	return label
}

func choiceLabel(option model.Option) string {
	if label := strings.TrimSpace(option.Label); label != "" {
		return label
	}
	return option.Value
}

var (
	plainPolicyOnce sync.Once
	plainPolicy     *bluemonday.Policy
)

// plainText strips markup from schema supplied text for terminal output.
func plainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(trimmed)))
}
