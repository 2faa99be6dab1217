// Package contentblocks is the top level facade for the content-block
// preview subsystem: document and edition lifecycle, embed resolution, and
// the preview fetch-and-rewrite pipeline.
package contentblocks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-content-blocks/documents"
	"github.com/goliatone/go-content-blocks/domain"
	"github.com/goliatone/go-content-blocks/embed"
	"github.com/goliatone/go-content-blocks/internal/frontend"
	contenthttp "github.com/goliatone/go-content-blocks/internal/http"
	"github.com/goliatone/go-content-blocks/internal/logging"
	"github.com/goliatone/go-content-blocks/internal/logging/gologger"
	"github.com/goliatone/go-content-blocks/internal/scheduler"
	"github.com/goliatone/go-content-blocks/internal/storage"
	"github.com/goliatone/go-content-blocks/preview"
	"github.com/goliatone/go-content-blocks/pkg/interfaces"
	nethttp "net/http"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// ErrStorageDBRequired is returned when the bun storage provider is selected
// without a database connection.
var ErrStorageDBRequired = errors.New("contentblocks: bun storage requires a database connection")

// DocumentService exports the document service contract for consumers of the
// contentblocks package.
type DocumentService = documents.Service

// Document exports the document model.
type Document = documents.Document

// Edition exports the edition model.
type Edition = documents.Edition

// State exports the edition lifecycle state.
type State = domain.State

// Transition exports the workflow transition name.
type Transition = documents.Transition

// SchemaRegistry exports the block-type schema registry.
type SchemaRegistry = documents.SchemaRegistry

// Resolver exports the embed resolver.
type Resolver = embed.Resolver

// Generator exports the preview generator.
type Generator = preview.Generator

// FormHandler exports the form relay.
type FormHandler = preview.FormHandler

// BlockRenderer exports the block renderer contract.
type BlockRenderer = interfaces.BlockRenderer

// Module is the assembled runtime.
type Module struct {
	config    Config
	provider  interfaces.LoggerProvider
	schemas   *documents.SchemaRegistry
	scheduler interfaces.Scheduler
	documents documents.Service
	resolver  *embed.Resolver
	generator *preview.Generator
	relay     *preview.FormHandler
	urls      *preview.URLBuilder
	api       *contenthttp.API
}

// ModuleOption overrides a dependency during construction.
type ModuleOption func(*moduleDeps)

type moduleDeps struct {
	db            *bun.DB
	provider      interfaces.LoggerProvider
	scheduler     interfaces.Scheduler
	metadata      interfaces.ContentMetadataClient
	renderer      interfaces.BlockRenderer
	schemas       *documents.SchemaRegistry
	clock         func() time.Time
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
}

// WithDB supplies the database connection used by the bun storage provider.
func WithDB(db *bun.DB) ModuleOption {
	return func(d *moduleDeps) { d.db = db }
}

// WithLoggerProvider overrides the logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) ModuleOption {
	return func(d *moduleDeps) { d.provider = provider }
}

// WithScheduler overrides the publish job scheduler.
func WithScheduler(sched interfaces.Scheduler) ModuleOption {
	return func(d *moduleDeps) { d.scheduler = sched }
}

// WithContentMetadataClient supplies the content-metadata lookup used for
// development origin resolution.
func WithContentMetadataClient(client interfaces.ContentMetadataClient) ModuleOption {
	return func(d *moduleDeps) { d.metadata = client }
}

// WithBlockRenderer overrides the block renderer used for embeds and
// previews.
func WithBlockRenderer(renderer interfaces.BlockRenderer) ModuleOption {
	return func(d *moduleDeps) { d.renderer = renderer }
}

// WithSchemaRegistry supplies externally registered block-type schemas.
func WithSchemaRegistry(registry *documents.SchemaRegistry) ModuleOption {
	return func(d *moduleDeps) { d.schemas = registry }
}

// WithClock overrides the clock, mainly for tests.
func WithClock(clock func() time.Time) ModuleOption {
	return func(d *moduleDeps) { d.clock = clock }
}

// WithCache overrides the repository cache collaborators used when
// cfg.Cache.Enabled is set.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) ModuleOption {
	return func(d *moduleDeps) {
		d.cacheService = service
		d.keySerializer = serializer
	}
}

// New assembles a module from configuration.
func New(cfg Config, opts ...ModuleOption) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	deps := &moduleDeps{}
	for _, opt := range opts {
		if opt != nil {
			opt(deps)
		}
	}

	provider := deps.provider
	if provider == nil {
		p, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		provider = p
	}

	sched := deps.scheduler
	if sched == nil {
		sched = scheduler.NewInMemory()
	}

	schemas := deps.schemas
	if schemas == nil {
		schemas = documents.NewSchemaRegistry()
	}

	var docRepo documents.DocumentRepository
	var editionRepo documents.EditionRepository
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Provider)) {
	case "bun":
		db := deps.db
		if db == nil {
			if strings.TrimSpace(cfg.Storage.DSN) == "" {
				return nil, ErrStorageDBRequired
			}
			opened, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN)
			if err != nil {
				return nil, err
			}
			if err := storage.MigrateModels(context.Background(), opened,
				(*documents.Document)(nil), (*documents.Edition)(nil)); err != nil {
				return nil, err
			}
			db = opened
		}
		cacheService, keySerializer := cacheCollaborators(cfg, deps)
		docRepo = documents.NewBunDocumentRepositoryWithCache(db, cacheService, keySerializer)
		editionRepo = documents.NewBunEditionRepositoryWithCache(db, cacheService, keySerializer)
	default:
		docRepo, editionRepo = documents.NewMemoryRepositories()
	}

	serviceOpts := []documents.ServiceOption{
		documents.WithScheduler(sched),
		documents.WithSchemaRegistry(schemas),
	}
	if deps.clock != nil {
		serviceOpts = append(serviceOpts, documents.WithClock(deps.clock))
	}
	svc := documents.NewService(docRepo, editionRepo, serviceOpts...)

	resolverOpts := []embed.ResolverOption{
		embed.WithLogger(logging.EmbedLogger(provider)),
	}
	if deps.renderer != nil {
		resolverOpts = append(resolverOpts, embed.WithRenderer(deps.renderer))
	}
	resolver := embed.NewResolver(svc, resolverOpts...)

	frontendOpts := []frontend.Option{
		frontend.WithLogger(logging.PreviewLogger(provider)),
	}
	if deps.metadata != nil {
		frontendOpts = append(frontendOpts, frontend.WithMetadataClient(deps.metadata))
	}
	client := frontend.New(frontend.Config{
		WebsiteRoot:      cfg.Frontend.WebsiteRoot,
		Development:      cfg.Frontend.Development,
		AppOriginPattern: cfg.Frontend.AppOriginPattern,
		FetchTimeout:     cfg.Frontend.FetchTimeout,
	}, frontendOpts...)

	urls := preview.NewURLBuilder(cfg.BaseURL)

	generator := preview.NewGenerator(svc, resolver, client, urls,
		preview.WithGeneratorLogger(logging.PreviewLogger(provider)),
	)

	relayOpts := []preview.FormHandlerOption{
		preview.WithFormHandlerLogger(logging.PreviewLogger(provider)),
	}
	if cfg.Relay.AllowedSuffix != "" {
		relayOpts = append(relayOpts, preview.WithAllowedSuffix(cfg.Relay.AllowedSuffix))
	}
	if cfg.Relay.Timeout > 0 {
		relayOpts = append(relayOpts, preview.WithRelayTimeout(cfg.Relay.Timeout))
	}
	relay := preview.NewFormHandler(relayOpts...)

	api := contenthttp.NewAPI(
		contenthttp.WithBasePath(cfg.HTTP.BasePath),
		contenthttp.WithDocumentService(svc),
		contenthttp.WithPreviewGenerator(generator),
		contenthttp.WithFormHandler(relay),
		contenthttp.WithURLBuilder(urls),
		contenthttp.WithLogger(logging.HTTPLogger(provider)),
	)

	return &Module{
		config:    cfg,
		provider:  provider,
		schemas:   schemas,
		scheduler: sched,
		documents: svc,
		resolver:  resolver,
		generator: generator,
		relay:     relay,
		urls:      urls,
		api:       api,
	}, nil
}

// Documents returns the document service.
func (m *Module) Documents() DocumentService {
	return m.documents
}

// Embeds returns the embed resolver.
func (m *Module) Embeds() *Resolver {
	return m.resolver
}

// Previews returns the preview generator.
func (m *Module) Previews() *Generator {
	return m.generator
}

// FormRelay returns the form relay.
func (m *Module) FormRelay() *FormHandler {
	return m.relay
}

// Schemas returns the block-type schema registry.
func (m *Module) Schemas() *SchemaRegistry {
	return m.schemas
}

// Scheduler returns the publish job scheduler.
func (m *Module) Scheduler() interfaces.Scheduler {
	return m.scheduler
}

// LoggerProvider returns the provider the module was built with so hosts
// can scope additional components to the same logging namespaces.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.provider
}

// RegisterRoutes mounts the HTTP endpoints on the supplied mux.
func (m *Module) RegisterRoutes(mux *nethttp.ServeMux) {
	m.api.RegisterRoutes(mux)
}

// PublishDue publishes every edition whose scheduled publication time has
// arrived. Host applications call it from their cron or ticker of choice.
func (m *Module) PublishDue(ctx context.Context) ([]*Edition, error) {
	return m.documents.PublishDue(ctx, time.Now())
}

func cacheCollaborators(cfg Config, deps *moduleDeps) (repocache.CacheService, repocache.KeySerializer) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	service := deps.cacheService
	if service == nil {
		cacheCfg := repocache.DefaultConfig()
		if cfg.Cache.TTL > 0 {
			cacheCfg.TTL = cfg.Cache.TTL
		}
		built, err := repocache.NewCacheService(cacheCfg)
		if err != nil {
			return nil, nil
		}
		service = built
	}

	serializer := deps.keySerializer
	if serializer == nil {
		serializer = repocache.NewDefaultKeySerializer()
	}
	return service, serializer
}
