// Package http provides HTTP adapters for the content-block preview
// subsystem.
//
// Routes mount under a configurable base path:
//   - Preview: /editions/{edition_id}/host-content/{host_content_id}/preview
//   - Form relay: /editions/{edition_id}/host-content/{host_content_id}/form_handler
//   - Workflow: /editions/{edition_id}/status
//   - Iframe controller: /assets/host-content-iframe.js
//
// Host applications can register the handlers on their own mux as needed.
package http

import (
	_ "embed"
	"net/http"
	"strings"

	"github.com/goliatone/go-content-blocks/documents"
	"github.com/goliatone/go-content-blocks/internal/logging"
	"github.com/goliatone/go-content-blocks/preview"
	"github.com/goliatone/go-content-blocks/pkg/interfaces"
)

//go:embed assets/host-content-iframe.js
var hostContentIframeJS []byte

// API registers the preview, relay, and workflow endpoints.
type API struct {
	basePath  string
	documents documents.Service
	generator *preview.Generator
	relay     *preview.FormHandler
	urls      *preview.URLBuilder
	logger    interfaces.Logger
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...Option) *API {
	api := &API{
		basePath: "/",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base path (defaults to "/").
func WithBasePath(path string) Option {
	return func(api *API) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithDocumentService wires the document service.
func WithDocumentService(service documents.Service) Option {
	return func(api *API) {
		if api != nil {
			api.documents = service
		}
	}
}

// WithPreviewGenerator wires the preview generator.
func WithPreviewGenerator(generator *preview.Generator) Option {
	return func(api *API) {
		if api != nil {
			api.generator = generator
		}
	}
}

// WithFormHandler wires the form relay.
func WithFormHandler(relay *preview.FormHandler) Option {
	return func(api *API) {
		if api != nil {
			api.relay = relay
		}
	}
}

// WithURLBuilder wires the preview URL builder used for relay redirects.
func WithURLBuilder(urls *preview.URLBuilder) Option {
	return func(api *API) {
		if api != nil {
			api.urls = urls
		}
	}
}

// WithLogger wires the API logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if api != nil && logger != nil {
			api.logger = logger
		}
	}
}

// RegisterRoutes mounts every endpoint on the supplied mux.
func (api *API) RegisterRoutes(mux *http.ServeMux) {
	if api == nil || mux == nil {
		return
	}

	editions := joinPath(api.basePath, "editions")
	mux.HandleFunc("GET "+editions+"/{edition_id}/host-content/{host_content_id}/preview", api.handlePreview)
	mux.HandleFunc("POST "+editions+"/{edition_id}/host-content/{host_content_id}/form_handler", api.handleFormRelay)
	mux.HandleFunc("POST "+editions+"/{edition_id}/status", api.handleTransition)
	mux.HandleFunc("GET "+joinPath(api.basePath, "assets/host-content-iframe.js"), api.handleIframeScript)
}

func (api *API) handleIframeScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(hostContentIframeJS)
}
