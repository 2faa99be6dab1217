package embed

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-content-blocks/pkg/interfaces"
)

// SpanRenderer is the default block renderer. It wraps the rendered value in
// a span carrying the document's content identifier so downstream tooling
// (including the preview proxy) can locate embedded blocks in a page.
type SpanRenderer struct{}

// NewSpanRenderer returns the default renderer.
func NewSpanRenderer() *SpanRenderer {
	return &SpanRenderer{}
}

// Render produces the embed markup for an edition. A field-scoped embed code
// renders the addressed value; otherwise the edition title stands in for the
// whole block.
func (r *SpanRenderer) Render(_ context.Context, edition interfaces.RenderableEdition, embedCode string) (string, error) {
	value := edition.Title

	if ref, ok := Parse(embedCode); ok && ref.HasFieldPath() {
		field, err := FieldValue(edition.Details, ref.FieldPath)
		if err != nil {
			return "", err
		}
		value = field
	}

	return fmt.Sprintf(
		`<span class="content-embed content-embed__content_block_%s" data-content-block="" data-document-type="content_block_%s" data-content-id="%s" data-embed-code="%s">%s</span>`,
		edition.BlockType,
		edition.BlockType,
		html.EscapeString(edition.ContentID),
		html.EscapeString(embedCode),
		html.EscapeString(value),
	), nil
}

// FieldValue walks the edition details along the supplied path and renders
// the leaf as text. Maps are traversed by key; anything else terminates the
// walk.
func FieldValue(details map[string]any, path []string) (string, error) {
	var current any = details
	for _, segment := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return "", fmt.Errorf("embed: field path %q does not exist", strings.Join(path, "/"))
		}
		current, ok = node[segment]
		if !ok {
			return "", fmt.Errorf("embed: field path %q does not exist", strings.Join(path, "/"))
		}
	}

	switch value := current.(type) {
	case string:
		return value, nil
	case nil:
		return "", nil
	default:
		return fmt.Sprintf("%v", value), nil
	}
}
