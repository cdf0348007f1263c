package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/model"
)

var (
	// ErrNoSections is returned for forms without any section.
	ErrNoSections = errors.New("schema: form has no sections")
	// ErrUnknownFieldKind is returned for field types outside model.FieldKinds.
	ErrUnknownFieldKind = errors.New("schema: unknown field type")
	// ErrDuplicateField is returned when two fields share an id.
	ErrDuplicateField = errors.New("schema: duplicate field id")
	// ErrDuplicateSection is returned when two sections share an id.
	ErrDuplicateSection = errors.New("schema: duplicate section id")
)

// Response mirrors the remote get-form payload: a status message plus the
// form definition.
type Response struct {
	Message string           `json:"message,omitempty"`
	Form    model.FormSchema `json:"form"`
}

type wireResponse struct {
	Message string   `json:"message" yaml:"message"`
	Form    wireForm `json:"form" yaml:"form"`
}

type wireForm struct {
	Title    string        `json:"formTitle" yaml:"formTitle"`
	ID       flexibleID    `json:"formId" yaml:"formId"`
	Version  flexibleID    `json:"version" yaml:"version"`
	Sections []wireSection `json:"sections" yaml:"sections"`
}

type wireSection struct {
	ID          flexibleID  `json:"sectionId" yaml:"sectionId"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Fields      []wireField `json:"fields" yaml:"fields"`
}

type wireField struct {
	ID          string          `json:"fieldId" yaml:"fieldId"`
	Type        string          `json:"type" yaml:"type"`
	Label       string          `json:"label" yaml:"label"`
	Placeholder string          `json:"placeholder" yaml:"placeholder"`
	Required    bool            `json:"required" yaml:"required"`
	TestID      string          `json:"dataTestId" yaml:"dataTestId"`
	MinLength   *int            `json:"minLength" yaml:"minLength"`
	MaxLength   *int            `json:"maxLength" yaml:"maxLength"`
	Validation  *wireValidation `json:"validation" yaml:"validation"`
	Options     []model.Option  `json:"options" yaml:"options"`
}

type wireValidation struct {
	Message string `json:"message" yaml:"message"`
}

// flexibleID accepts identifiers encoded as JSON/YAML strings or numbers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("schema: identifier must be a string or number: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}

func (f *flexibleID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("schema: identifier must be a scalar (line %d)", node.Line)
	}
	*f = flexibleID(node.Value)
	return nil
}

// Decode parses a document in its inferred format and returns the validated
// form schema.
func Decode(doc Document) (Response, error) {
	var wire wireResponse
	raw := doc.Raw()
	if len(raw) == 0 {
		return Response{}, errors.New("schema: document is empty")
	}

	switch doc.Format() {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &wire); err != nil {
			return Response{}, fmt.Errorf("schema: decode %s: %w", doc.Location(), err)
		}
	default:
		if err := json.Unmarshal(raw, &wire); err != nil {
			return Response{}, fmt.Errorf("schema: decode %s: %w", doc.Location(), err)
		}
	}

	form, err := wire.Form.toModel()
	if err != nil {
		return Response{}, err
	}
	return Response{Message: strings.TrimSpace(wire.Message), Form: form}, nil
}

// DecodeJSON is a convenience for payloads received over the wire.
func DecodeJSON(raw []byte) (Response, error) {
	doc, err := NewDocument(SourceFromFS("response.json"), raw)
	if err != nil {
		return Response{}, err
	}
	return Decode(doc)
}

func (w wireForm) toModel() (model.FormSchema, error) {
	form := model.FormSchema{
		ID:      string(w.ID),
		Title:   w.Title,
		Version: string(w.Version),
	}
	if len(w.Sections) == 0 {
		return model.FormSchema{}, ErrNoSections
	}

	seen := make(map[string]string)
	sections := make(map[string]int, len(w.Sections))
	form.Sections = make([]model.Section, 0, len(w.Sections))
	for i, ws := range w.Sections {
		section := model.Section{
			ID:          strings.TrimSpace(string(ws.ID)),
			Title:       ws.Title,
			Description: ws.Description,
			Fields:      make([]model.Field, 0, len(ws.Fields)),
		}
		if section.ID == "" {
			section.ID = fmt.Sprint(i + 1)
		}
		if prev, dup := sections[section.ID]; dup {
			return model.FormSchema{}, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateSection, section.ID, prev+1, i+1)
		}
		sections[section.ID] = i

		for _, wf := range ws.Fields {
			field, err := wf.toModel()
			if err != nil {
				return model.FormSchema{}, fmt.Errorf("schema: section %s: %w", section.ID, err)
			}
			if owner, dup := seen[field.ID]; dup {
				return model.FormSchema{}, fmt.Errorf("%w: %q in sections %s and %s", ErrDuplicateField, field.ID, owner, section.ID)
			}
			seen[field.ID] = section.ID
			section.Fields = append(section.Fields, field)
		}
		form.Sections = append(form.Sections, section)
	}
	return form, nil
}

func (w wireField) toModel() (model.Field, error) {
	id := strings.TrimSpace(w.ID)
	if id == "" {
		return model.Field{}, errors.New("field id is required")
	}

	kind := model.FieldKind(strings.ToLower(strings.TrimSpace(w.Type)))
	if !kind.Valid() {
		return model.Field{}, fmt.Errorf("%w %q on field %q", ErrUnknownFieldKind, w.Type, id)
	}

	field := model.Field{
		ID:          id,
		Label:       w.Label,
		Kind:        kind,
		Required:    w.Required,
		MinLength:   w.MinLength,
		MaxLength:   w.MaxLength,
		Placeholder: w.Placeholder,
		TestID:      w.TestID,
	}
	if w.Validation != nil {
		field.Message = strings.TrimSpace(w.Validation.Message)
	}

	switch {
	case kind.IsChoice():
		if len(w.Options) == 0 {
			return model.Field{}, fmt.Errorf("field %q: %s requires options", id, kind)
		}
		field.Options = append([]model.Option(nil), w.Options...)
	case len(w.Options) > 0:
		return model.Field{}, fmt.Errorf("field %q: %s does not accept options", id, kind)
	}
	return field, nil
}
