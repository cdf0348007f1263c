package render

import (
	"context"
)

// Renderer converts the current wizard step into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, step Step, options RenderOptions) ([]byte, error)
}
