package interfaces

import "context"

// RenderableEdition captures the information a block renderer needs to turn
// an edition into an HTML fragment. The field payload is opaque to the core;
// its shape is defined by externally supplied block-type schemas.
type RenderableEdition struct {
	// EditionID identifies the edition being rendered.
	EditionID string
	// ContentID is the owning document's external content identifier.
	ContentID string
	// BlockType is the document's immutable block category.
	BlockType string
	// Title is the edition's display title.
	Title string
	// Details holds the edition's structured field values.
	Details map[string]any
	// Locale scopes the rendering, for example "en" or "cy".
	Locale string
}

// BlockRenderer produces HTML fragments for content-block editions. The
// embed code carries the rendering scope: it may address the whole block or
// a single field path (identify-block:<type>:<alias>/<field-path>).
type BlockRenderer interface {
	Render(ctx context.Context, edition RenderableEdition, embedCode string) (string, error)
}

// BlockRendererFunc adapts a function to the BlockRenderer interface.
type BlockRendererFunc func(ctx context.Context, edition RenderableEdition, embedCode string) (string, error)

// Render implements BlockRenderer.
func (f BlockRendererFunc) Render(ctx context.Context, edition RenderableEdition, embedCode string) (string, error) {
	return f(ctx, edition, embedCode)
}
