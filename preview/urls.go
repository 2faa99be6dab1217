package preview

import (
	urlkit "github.com/goliatone/go-urlkit"
)

const (
	routeGroup       = "preview"
	routeEntry       = "entry"
	routeFormHandler = "form_handler"
)

// URLBuilder produces the host-application URLs the rewritten page points
// at: the preview entry point for links and the form relay for submissions.
type URLBuilder struct {
	manager *urlkit.RouteManager
}

// NewURLBuilder constructs a builder rooted at the host application's base
// URL, for example https://blocks.publishing.example.gov.uk.
func NewURLBuilder(baseURL string) *URLBuilder {
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    routeGroup,
				BaseURL: baseURL,
				Paths: map[string]string{
					routeEntry:       "/editions/:edition_id/host-content/:host_content_id/preview",
					routeFormHandler: "/editions/:edition_id/host-content/:host_content_id/form_handler",
				},
			},
		},
	})

	return &URLBuilder{manager: manager}
}

// EntryURL builds the preview entry URL for an edition and host page. The
// base path rides along as a query parameter so the entry point knows which
// external page to fetch.
func (b *URLBuilder) EntryURL(editionID, hostContentID, locale, basePath string) (string, error) {
	builder := b.manager.Group(routeGroup).Builder(routeEntry).
		WithParam("edition_id", editionID).
		WithParam("host_content_id", hostContentID)
	if locale != "" {
		builder.WithQuery("locale", locale)
	}
	if basePath != "" {
		builder.WithQuery("base_path", basePath)
	}
	return builder.Build()
}

// FormHandlerURL builds the form relay URL for an edition and host page.
// The rewritten form appends the original action and method as further
// query parameters.
func (b *URLBuilder) FormHandlerURL(editionID, hostContentID, locale string) (string, error) {
	builder := b.manager.Group(routeGroup).Builder(routeFormHandler).
		WithParam("edition_id", editionID).
		WithParam("host_content_id", hostContentID)
	if locale != "" {
		builder.WithQuery("locale", locale)
	}
	return builder.Build()
}
