package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Default messages used when a field has no custom validation message.
const (
	MessageRequired  = "This field is required"
	MessageMinLength = "Minimum length is %d characters"
	MessageMaxLength = "Maximum length is %d characters"
	MessageEmail     = "Please enter a valid email address"
	MessageTelephone = "Please enter a valid phone number"
)

var (
	emailPattern     = regexp.MustCompile(`\S+@\S+\.\S+`)
	telephonePattern = regexp.MustCompile(`^\+?[0-9\s()-]+$`)
)

// Result is the outcome of validating one section.
type Result struct {
	SectionID string
	Errors    model.FieldErrors
}

// Valid reports whether no field failed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateSection checks every field of section against values. Rules run in
// order (required, minLength, maxLength, then the kind-specific format check)
// and each failing rule replaces the message of the previous one, so at most
// one message is reported per field. values is never mutated.
func ValidateSection(section model.Section, values model.Values) Result {
	result := Result{SectionID: section.ID}
	for _, field := range section.Fields {
		msg, ok := ValidateField(field, values.Get(field.ID))
		if ok {
			continue
		}
		if result.Errors == nil {
			result.Errors = make(model.FieldErrors)
		}
		result.Errors[field.ID] = msg
	}
	return result
}

// ValidateField applies the rule chain to a single value. It returns the
// retained message and false when any rule failed.
func ValidateField(field model.Field, value model.Value) (string, bool) {
	var (
		msg    string
		failed bool
	)
	fail := func(fallback string) {
		failed = true
		if field.Message != "" {
			msg = field.Message
			return
		}
		msg = fallback
	}

	if field.Required && value.IsEmpty() {
		fail(MessageRequired)
	}

	text, isText := value.Text()
	if isText {
		length := utf8.RuneCountInString(text)
		if field.MinLength != nil && length < *field.MinLength {
			fail(fmt.Sprintf(MessageMinLength, *field.MinLength))
		}
		if field.MaxLength != nil && length > *field.MaxLength {
			fail(fmt.Sprintf(MessageMaxLength, *field.MaxLength))
		}
	}

	if isText && text != "" {
		switch field.Kind {
		case model.FieldKindEmail:
			if !emailPattern.MatchString(text) {
				fail(MessageEmail)
			}
		case model.FieldKindTel:
			if !telephonePattern.MatchString(text) {
				fail(MessageTelephone)
			}
		}
	}

	return msg, !failed
}

// ValidateForm validates every section and returns the failures keyed by
// section id. Sections without errors are omitted; a nil map means the whole
// form is valid.
func ValidateForm(form model.FormSchema, values model.Values) model.SectionErrors {
	var out model.SectionErrors
	for _, section := range form.Sections {
		result := ValidateSection(section, values)
		if result.Valid() {
			continue
		}
		if out == nil {
			out = make(model.SectionErrors)
		}
		out[section.ID] = result.Errors
	}
	return out
}
