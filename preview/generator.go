package preview

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/goliatone/go-content-blocks/documents"
	"github.com/goliatone/go-content-blocks/embed"
	"github.com/goliatone/go-content-blocks/internal/frontend"
	"github.com/goliatone/go-content-blocks/internal/logging"
	"github.com/goliatone/go-content-blocks/pkg/interfaces"
)

// fallbackHTML replaces pages the external frontend could not serve. It runs
// through the same rewriting pipeline as a fetched page.
const fallbackHTML = `<html><head></head><body><p>Preview not found</p></body></html>`

// draftBodyClass marks the previewed page as unpublished content.
const draftBodyClass = "gem-c-layout-for-public--draft"

// highlightStyle makes spliced draft blocks easy to spot on the page.
const highlightStyle = "background-color: yellow;"

// Generator fetches a live page from the external rendering system and
// rewrites it so an unpublished edition can be inspected inside an iframe:
// links and forms loop back through the host application, head assets point
// at the remote origin, and the block under preview is spliced in from the
// draft.
type Generator struct {
	documents documents.Service
	resolver  *embed.Resolver
	frontend  *frontend.Client
	urls      *URLBuilder
	logger    interfaces.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithGeneratorLogger overrides the generator logger.
func WithGeneratorLogger(logger interfaces.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator constructs a preview generator.
func NewGenerator(docs documents.Service, resolver *embed.Resolver, client *frontend.Client, urls *URLBuilder, opts ...GeneratorOption) *Generator {
	g := &Generator{
		documents: docs,
		resolver:  resolver,
		frontend:  client,
		urls:      urls,
		logger:    logging.NoOp(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// GenerateRequest identifies the edition under preview and the external page
// to preview it on.
type GenerateRequest struct {
	// Edition is the unpublished edition being previewed.
	Edition *documents.Edition
	// HostContentID identifies the external page within the content store.
	HostContentID string
	// BasePath is the page's path on the external site.
	BasePath string
	// Locale scopes rendering and rides along on rewritten URLs.
	Locale string
}

// Generate produces the rewritten preview HTML. Transport failures never
// surface: the page degrades to a fixed fallback document instead.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if req.Edition == nil {
		return "", documents.ErrEditionIDRequired
	}

	doc, err := g.documents.GetDocument(ctx, req.Edition.DocumentID)
	if err != nil {
		return "", err
	}

	origin := g.frontend.ResolveOrigin(ctx, req.HostContentID)

	body, err := g.frontend.FetchPage(ctx, origin, req.BasePath)
	if err != nil {
		g.logger.Warn("preview fetch failed, serving fallback",
			"host_content_id", req.HostContentID,
			"base_path", req.BasePath,
			"error", err,
		)
		body = fallbackHTML
	}

	page, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		page, err = goquery.NewDocumentFromReader(strings.NewReader(fallbackHTML))
		if err != nil {
			return "", fmt.Errorf("preview: parse fallback document: %w", err)
		}
	}

	editionID := req.Edition.ID.String()

	entryURL, err := g.urls.EntryURL(editionID, req.HostContentID, req.Locale, "")
	if err != nil {
		return "", fmt.Errorf("preview: build entry url: %w", err)
	}
	formURL, err := g.urls.FormHandlerURL(editionID, req.HostContentID, req.Locale)
	if err != nil {
		return "", fmt.Errorf("preview: build form handler url: %w", err)
	}

	rewriteLinks(page, entryURL)
	rewriteForms(page, formURL, origin)
	markDraftBody(page)
	rewriteHeadAssets(page, origin)

	if err := g.spliceDraftBlock(ctx, page, doc, req.Edition, req.Locale); err != nil {
		return "", err
	}

	html, err := page.Html()
	if err != nil {
		return "", fmt.Errorf("preview: serialise document: %w", err)
	}
	return html, nil
}

// rewriteLinks points every same-site link back at the preview entry URL and
// forces navigation into the parent frame. Absolute and protocol-relative
// targets point off-site and keep their native behaviour.
func rewriteLinks(page *goquery.Document, entryURL string) {
	page.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if strings.HasPrefix(href, "//") || strings.HasPrefix(href, "http") {
			return
		}
		sel.SetAttr("href", appendQuery(entryURL, "base_path", href))
		sel.SetAttr("target", "_parent")
	})
}

// rewriteForms retargets forms in the main content region at the form relay,
// carrying the original action and method as query parameters. Input names
// are nested under body[...] so the relay can tell relayed fields from its
// own routing parameters.
func rewriteForms(page *goquery.Document, formURL, origin string) {
	page.Find("main form").Each(func(_ int, form *goquery.Selection) {
		action, _ := form.Attr("action")
		method, ok := form.Attr("method")
		if !ok || method == "" {
			method = "get"
		}

		target := action
		if !strings.HasPrefix(target, "http") {
			target = origin + target
		}

		relay := appendQuery(formURL, "url", target)
		relay = appendQuery(relay, "method", method)

		form.SetAttr("action", relay)
		form.SetAttr("method", "post")
		form.SetAttr("target", "_parent")

		form.Find("input").Each(func(_ int, input *goquery.Selection) {
			name, ok := input.Attr("name")
			if !ok || name == "" {
				return
			}
			input.SetAttr("name", "body["+name+"]")
		})
	})
}

func markDraftBody(page *goquery.Document) {
	page.Find("body").AddClass(draftBodyClass)
}

// rewriteHeadAssets prefixes relative stylesheet and script references with
// the fetched origin. The iframe is served by the host application, so
// relative asset paths would otherwise resolve against the wrong host.
func rewriteHeadAssets(page *goquery.Document, origin string) {
	page.Find("head link[rel='stylesheet']").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || strings.HasPrefix(href, "http") || strings.HasPrefix(href, "//") {
			return
		}
		sel.SetAttr("href", origin+href)
	})
	page.Find("head script[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if strings.HasPrefix(src, "http") || strings.HasPrefix(src, "//") {
			return
		}
		sel.SetAttr("src", origin+src)
	})
}

// spliceDraftBlock swaps every embedded occurrence of the previewed block
// for the draft rendering and highlights it. Zero occurrences is a no-op.
func (g *Generator) spliceDraftBlock(ctx context.Context, page *goquery.Document, doc *documents.Document, edition *documents.Edition, locale string) error {
	selector := fmt.Sprintf("[data-content-id=%q]", doc.ContentID.String())

	matches := page.Find("body").Find(selector)
	if matches.Length() == 0 {
		return nil
	}

	// Each wrapper carries the embed code it was resolved from, which may
	// be field-scoped. Render against that code so a field reference keeps
	// showing the single field rather than the whole block.
	var renderErr error
	matches.Each(func(_ int, sel *goquery.Selection) {
		if renderErr != nil {
			return
		}
		embedCode, ok := sel.Attr("data-embed-code")
		if !ok || embedCode == "" {
			embedCode = doc.EmbedCode()
		}
		rendered, err := g.resolver.RenderEdition(ctx, doc, edition, embedCode, locale)
		if err != nil {
			renderErr = fmt.Errorf("preview: render draft block: %w", err)
			return
		}
		sel.ReplaceWithHtml(rendered)
	})
	if renderErr != nil {
		return renderErr
	}

	page.Find("body").Find(selector).SetAttr("style", highlightStyle)
	return nil
}

// appendQuery adds one encoded query parameter to a URL that may or may not
// already carry a query string.
func appendQuery(rawURL, key, value string) string {
	separator := "?"
	if strings.Contains(rawURL, "?") {
		separator = "&"
	}
	return rawURL + separator + url.QueryEscape(key) + "=" + url.QueryEscape(value)
}
