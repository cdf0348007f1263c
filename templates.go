package formwizard

import (
	"io/fs"

	"github.com/goliatone/go-formwizard/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in HTML renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// EmbeddedAssets exposes the default stylesheet bundle for serving.
func EmbeddedAssets() fs.FS {
	return html.AssetsFS()
}
