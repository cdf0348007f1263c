package render

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// ValuesFromForm reads the posted controls of section back into typed values.
// Every field of the section gets an entry. Missing text or choice inputs are
// empty text. An unchecked checkbox is the zero Value, so a required checkbox
// the user never ticked stays unanswered; callers clear it with
// ClearFieldValue.
func ValuesFromForm(section model.Section, form url.Values) model.Values {
	values := make(model.Values, len(section.Fields))
	for _, field := range section.Fields {
		switch field.Kind {
		case model.FieldKindCheckbox:
			raw := strings.ToLower(strings.TrimSpace(form.Get(field.ID)))
			if raw == "on" || raw == "true" || raw == "1" {
				values[field.ID] = model.Bool(true)
			} else {
				values[field.ID] = model.Value{}
			}
		default:
			values[field.ID] = model.Text(form.Get(field.ID))
		}
	}
	return values
}
