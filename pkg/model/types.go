package model

// FieldKind is the closed set of controls a form field can render as.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindTextArea FieldKind = "textarea"
	FieldKindDate     FieldKind = "date"
	FieldKindEmail    FieldKind = "email"
	FieldKindTel      FieldKind = "tel"
	FieldKindDropdown FieldKind = "dropdown"
	FieldKindRadio    FieldKind = "radio"
	FieldKindCheckbox FieldKind = "checkbox"
)

// FieldKinds lists every supported kind in declaration order.
var FieldKinds = []FieldKind{
	FieldKindText,
	FieldKindTextArea,
	FieldKindDate,
	FieldKindEmail,
	FieldKindTel,
	FieldKindDropdown,
	FieldKindRadio,
	FieldKindCheckbox,
}

// Valid reports whether k belongs to the supported set.
func (k FieldKind) Valid() bool {
	for _, known := range FieldKinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsChoice reports whether the kind selects one value out of an options list.
func (k FieldKind) IsChoice() bool {
	return k == FieldKindDropdown || k == FieldKindRadio
}

// IsText reports whether the kind collects free-form text.
func (k FieldKind) IsText() bool {
	switch k {
	case FieldKindText, FieldKindTextArea, FieldKindDate, FieldKindEmail, FieldKindTel:
		return true
	default:
		return false
	}
}

// ValueKind returns the variant a control of this kind produces.
func (k FieldKind) ValueKind() ValueKind {
	if k == FieldKindCheckbox {
		return ValueBool
	}
	return ValueText
}

// Option is a selectable entry of a dropdown or radio field.
type Option struct {
	Value  string `json:"value" yaml:"value"`
	Label  string `json:"label" yaml:"label"`
	TestID string `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
}

// Field models an individual input inside a section. IDs are unique across the
// whole schema so they address a single entry in Values and FieldErrors.
// Options are only populated for choice kinds; schema.Decode rejects anything
// else.
type Field struct {
	ID          string    `json:"fieldId"`
	Label       string    `json:"label"`
	Kind        FieldKind `json:"type"`
	Required    bool      `json:"required"`
	MinLength   *int      `json:"minLength,omitempty"`
	MaxLength   *int      `json:"maxLength,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Message     string    `json:"message,omitempty"`
	TestID      string    `json:"dataTestId,omitempty"`
	Options     []Option  `json:"options,omitempty"`
}

// Section is one wizard step. Field order is preserved for rendering.
type Section struct {
	ID          string  `json:"sectionId"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}

// Field returns the field with the given id, if the section holds it.
func (s Section) Field(id string) (Field, bool) {
	for _, field := range s.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// FormSchema is the loaded form definition. Treat it as immutable once a
// wizard owns it.
type FormSchema struct {
	ID       string    `json:"formId,omitempty"`
	Title    string    `json:"formTitle"`
	Version  string    `json:"version,omitempty"`
	Sections []Section `json:"sections"`
}

// SectionOf returns the index of the section containing the field, or -1.
func (f FormSchema) SectionOf(fieldID string) int {
	for i, section := range f.Sections {
		if _, ok := section.Field(fieldID); ok {
			return i
		}
	}
	return -1
}

// FieldErrors maps field ids to a single human readable message.
type FieldErrors map[string]string

// Clone returns a copy of e, or nil when e is empty.
func (e FieldErrors) Clone() FieldErrors {
	if len(e) == 0 {
		return nil
	}
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// SectionErrors scopes FieldErrors by section id.
type SectionErrors map[string]FieldErrors

// Clone deep copies the per-section maps.
func (e SectionErrors) Clone() SectionErrors {
	if len(e) == 0 {
		return nil
	}
	out := make(SectionErrors, len(e))
	for id, errs := range e {
		if cloned := errs.Clone(); cloned != nil {
			out[id] = cloned
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
