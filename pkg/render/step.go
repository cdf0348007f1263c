package render

import (
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Step is the read-only view of a wizard position handed to renderers. It is
// built from a controller so renderers never reach into wizard state.
type Step struct {
	FormID    string
	FormTitle string

	SectionID   string
	Title       string
	Description string

	Index     int
	Count     int
	IsFirst   bool
	IsLast    bool
	Submitted bool

	Progress []ProgressItem
	Fields   []FieldView
}

// ProgressItem is one marker in the section progress strip.
type ProgressItem struct {
	Index     int
	SectionID string
	Title     string
	State     wizard.StepState
}

// FieldView pairs a field definition with its current value and error.
type FieldView struct {
	ID          string
	Label       string
	Kind        string
	InputType   string
	Required    bool
	Placeholder string
	TestID      string
	MinLength   int
	MaxLength   int
	Value       string
	Checked     bool
	Error       string
	Options     []OptionView
}

// OptionView is a choice of a dropdown or radio field.
type OptionView struct {
	ID       string
	Value    string
	Label    string
	TestID   string
	Selected bool
}

// StepState is the subset of the wizard controller a Step is built from.
type StepState interface {
	Schema() model.FormSchema
	Index() int
	Section() model.Section
	IsFirst() bool
	IsLast() bool
	Submitted() bool
	Values() model.Values
	Errors() model.FieldErrors
	Progress() []wizard.StepState
}

var _ StepState = (*wizard.Controller)(nil)

// NewStep snapshots the current section of state.
func NewStep(state StepState) Step {
	schema := state.Schema()
	section := state.Section()
	values := state.Values()
	errs := state.Errors()

	step := Step{
		FormID:      schema.ID,
		FormTitle:   schema.Title,
		SectionID:   section.ID,
		Title:       section.Title,
		Description: section.Description,
		Index:       state.Index(),
		Count:       len(schema.Sections),
		IsFirst:     state.IsFirst(),
		IsLast:      state.IsLast(),
		Submitted:   state.Submitted(),
	}

	for i, progress := range state.Progress() {
		item := ProgressItem{Index: i, State: progress}
		if i < len(schema.Sections) {
			item.SectionID = schema.Sections[i].ID
			item.Title = schema.Sections[i].Title
		}
		step.Progress = append(step.Progress, item)
	}

	step.Fields = make([]FieldView, 0, len(section.Fields))
	for _, field := range section.Fields {
		step.Fields = append(step.Fields, newFieldView(field, values.Get(field.ID), errs[field.ID]))
	}
	return step
}

func newFieldView(field model.Field, value model.Value, errMsg string) FieldView {
	view := FieldView{
		ID:          field.ID,
		Label:       field.Label,
		Kind:        string(field.Kind),
		InputType:   inputType(field.Kind),
		Required:    field.Required,
		Placeholder: field.Placeholder,
		TestID:      field.TestID,
		Error:       errMsg,
	}
	if field.MinLength != nil {
		view.MinLength = *field.MinLength
	}
	if field.MaxLength != nil {
		view.MaxLength = *field.MaxLength
	}

	if field.Kind == model.FieldKindCheckbox {
		checked, _ := value.Bool()
		view.Checked = checked
	} else if text, ok := value.Text(); ok {
		view.Value = text
	}

	for _, option := range field.Options {
		opt := OptionView{
			ID:       field.ID + "-" + option.Value,
			Value:    option.Value,
			Label:    option.Label,
			TestID:   option.TestID,
			Selected: view.Value != "" && view.Value == option.Value,
		}
		if opt.TestID == "" && field.Kind == model.FieldKindRadio && field.TestID != "" {
			opt.TestID = field.TestID + "-" + option.Value
		}
		view.Options = append(view.Options, opt)
	}
	return view
}

func inputType(kind model.FieldKind) string {
	switch kind {
	case model.FieldKindText, model.FieldKindEmail, model.FieldKindTel, model.FieldKindDate:
		return string(kind)
	default:
		return ""
	}
}
