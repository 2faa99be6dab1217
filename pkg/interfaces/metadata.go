package interfaces

import "context"

// ContentMetadata describes the routing metadata the external content store
// keeps for a piece of hosted content.
type ContentMetadata struct {
	// ContentID is the stable identifier of the hosted content item.
	ContentID string
	// RenderingApp names the frontend application that renders the item.
	// Empty when the store has no designated application.
	RenderingApp string
}

// ContentMetadataClient resolves routing metadata for hosted content. It is
// only consulted in development-style environments where the edge router is
// not available to pick the rendering application.
type ContentMetadataClient interface {
	GetContent(ctx context.Context, contentID string) (ContentMetadata, error)
}
