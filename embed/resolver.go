package embed

import (
	"context"
	"errors"

	"github.com/goliatone/go-content-blocks/documents"
	"github.com/goliatone/go-content-blocks/internal/logging"
	"github.com/goliatone/go-content-blocks/pkg/interfaces"
	"github.com/google/uuid"
)

// Resolver substitutes embed placeholders found in external HTML with
// rendered block markup. Placeholders that do not resolve to a live edition
// pass through untouched, so feeding arbitrary third-party pages in is safe.
type Resolver struct {
	documents documents.Service
	renderer  interfaces.BlockRenderer
	logger    interfaces.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithRenderer overrides the block renderer.
func WithRenderer(renderer interfaces.BlockRenderer) ResolverOption {
	return func(r *Resolver) {
		if renderer != nil {
			r.renderer = renderer
		}
	}
}

// WithLogger overrides the resolver logger.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver constructs a resolver over the document service.
func NewResolver(docs documents.Service, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		documents: docs,
		renderer:  NewSpanRenderer(),
		logger:    logging.NoOp(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve replaces every resolvable placeholder in content with the rendered
// live edition of the document its alias names. This is the production path:
// draft and scheduled editions never leak through it. Content with no
// resolvable placeholders is returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, content, locale string) (string, error) {
	return r.resolve(ctx, content, locale, nil)
}

// ResolveWithOverrides behaves like Resolve but substitutes the supplied
// edition for its document instead of the live one. Preview rendering uses
// this to splice an unpublished draft into a fetched page.
func (r *Resolver) ResolveWithOverrides(ctx context.Context, content, locale string, overrides map[uuid.UUID]*documents.Edition) (string, error) {
	return r.resolve(ctx, content, locale, overrides)
}

func (r *Resolver) resolve(ctx context.Context, content, locale string, overrides map[uuid.UUID]*documents.Edition) (string, error) {
	refs := Find(content)
	if len(refs) == 0 {
		return content, nil
	}

	replacements := map[string]string{}
	for _, ref := range refs {
		if _, done := replacements[ref.EmbedCode]; done {
			continue
		}
		rendered, ok, err := r.renderReference(ctx, ref, locale, overrides)
		if err != nil {
			return "", err
		}
		if ok {
			replacements[ref.EmbedCode] = rendered
		}
	}

	if len(replacements) == 0 {
		return content, nil
	}

	return placeholderPattern.ReplaceAllStringFunc(content, func(code string) string {
		if rendered, ok := replacements[code]; ok {
			return rendered
		}
		return code
	}), nil
}

func (r *Resolver) renderReference(ctx context.Context, ref Reference, locale string, overrides map[uuid.UUID]*documents.Edition) (string, bool, error) {
	doc, err := r.documents.GetDocumentByAlias(ctx, ref.Alias)
	if err != nil {
		var notFound *documents.NotFoundError
		if errors.As(err, &notFound) {
			return "", false, nil
		}
		return "", false, err
	}

	if doc.BlockType != ref.BlockType {
		r.logger.Debug("embed code block type does not match document",
			"alias", ref.Alias,
			"embed_block_type", ref.BlockType,
			"document_block_type", doc.BlockType,
		)
		return "", false, nil
	}

	edition := overrides[doc.ID]
	if edition == nil {
		live, err := r.documents.LiveEdition(ctx, doc.ID)
		if err != nil {
			var notFound *documents.NotFoundError
			if errors.As(err, &notFound) {
				return "", false, nil
			}
			return "", false, err
		}
		edition = live
	}

	rendered, err := r.RenderEdition(ctx, doc, edition, ref.EmbedCode, locale)
	if err != nil {
		r.logger.Warn("embed rendering failed", "embed_code", ref.EmbedCode, "error", err)
		return "", false, nil
	}

	return rendered, true, nil
}

// RenderEdition renders one edition through the configured block renderer.
func (r *Resolver) RenderEdition(ctx context.Context, doc *documents.Document, edition *documents.Edition, embedCode, locale string) (string, error) {
	return r.renderer.Render(ctx, interfaces.RenderableEdition{
		EditionID: edition.ID.String(),
		ContentID: doc.ContentID.String(),
		BlockType: doc.BlockType,
		Title:     edition.Title,
		Details:   edition.Details,
		Locale:    locale,
	}, embedCode)
}
