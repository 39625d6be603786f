package render

import "context"

type Renderer interface {
	RenderCatalog(ctx context.Context, page CatalogPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error)
}
