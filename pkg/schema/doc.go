// Package schema loads form definitions. A Source names where a definition
// lives (file, fs.FS entry or URL), a Loader turns it into a Document, and
// Decode validates the document into a model.FormSchema: field types must be
// known kinds, dropdown and radio fields must list options, other kinds must
// not, and field ids must be unique across the whole form.
//
// JSON follows the remote get-form payload ({"message", "form": {...}}); YAML
// documents with the same keys are accepted for local fixtures.
package schema
