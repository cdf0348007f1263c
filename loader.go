package formwizard

import (
	"context"
	"fmt"

	internalloader "github.com/goliatone/go-formwizard/internal/loader"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// NewLoader constructs a schema loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	cfg := schema.NewLoaderOptions(options...)
	return internalloader.New(cfg)
}

// LoadWizard reads a schema document from src and builds a controller for it.
// It is the offline counterpart of a login against the form service.
func LoadWizard(ctx context.Context, src schema.Source, loaderOptions []schema.LoaderOption, options ...wizard.Option) (*wizard.Controller, error) {
	if src == nil {
		return nil, fmt.Errorf("formwizard: %w: source is nil", wizard.ErrSchemaUnavailable)
	}
	resp, err := schema.Load(ctx, NewLoader(loaderOptions...), src)
	if err != nil {
		return nil, fmt.Errorf("formwizard: %w: %v", wizard.ErrSchemaUnavailable, err)
	}
	return wizard.New(resp.Form, options...)
}
