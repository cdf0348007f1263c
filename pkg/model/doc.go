// Package model defines the form schema consumed by the validation engine and
// the wizard controller: a FormSchema holds ordered Sections, each with ordered
// Fields. Field kinds form a closed enumeration (FieldKind) and only choice
// kinds carry Options. User input is stored as tagged Values so validators can
// switch on the variant instead of inspecting interface{} payloads, and
// validation messages are reported as FieldErrors scoped per section through
// SectionErrors.
package model
