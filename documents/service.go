package documents

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-content-blocks/domain"
	schedulerjobs "github.com/goliatone/go-content-blocks/internal/scheduler"
	"github.com/goliatone/go-content-blocks/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes the document and edition lifecycle use-cases.
type Service interface {
	CreateEdition(ctx context.Context, req CreateEditionRequest) (*Edition, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	GetDocumentByAlias(ctx context.Context, alias string) (*Document, error)
	GetDocumentByContentID(ctx context.Context, contentID uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context) ([]*Document, error)
	GetEdition(ctx context.Context, id uuid.UUID) (*Edition, error)
	ListEditions(ctx context.Context, documentID uuid.UUID) ([]*Edition, error)
	ApplyTransition(ctx context.Context, req TransitionRequest) (*Edition, error)
	Schedule(ctx context.Context, req ScheduleEditionRequest) (*Edition, error)
	Publish(ctx context.Context, req PublishEditionRequest) (*Edition, error)
	PublishDue(ctx context.Context, until time.Time) ([]*Edition, error)
	MostRecentEdition(ctx context.Context, documentID uuid.UUID) (*Edition, error)
	LatestDraft(ctx context.Context, documentID uuid.UUID) (*Edition, error)
	HasNewerDraft(ctx context.Context, documentID uuid.UUID) (bool, error)
	LiveEdition(ctx context.Context, documentID uuid.UUID) (*Edition, error)
}

// CreateEditionRequest captures the payload to author a new edition. When
// DocumentID is nil a new document is created from Title and BlockType; the
// alias is derived from the title once and never recomputed.
type CreateEditionRequest struct {
	DocumentID           *uuid.UUID
	ContentID            uuid.UUID
	Title                string
	BlockType            string
	Details              map[string]any
	ChangeNote           *string
	InternalChangeNote   *string
	ScheduledPublication *time.Time
	CreatedBy            uuid.UUID
}

// TransitionRequest applies a named workflow transition to an edition. The
// acting user is passed explicitly for auditing, never read from ambient
// state.
type TransitionRequest struct {
	EditionID  uuid.UUID
	Transition Transition
	ActingUser uuid.UUID
}

// ScheduleEditionRequest queues an edition for publication at PublishAt.
type ScheduleEditionRequest struct {
	EditionID  uuid.UUID
	PublishAt  time.Time
	ActingUser uuid.UUID
}

// PublishEditionRequest promotes a scheduled edition to the live one.
type PublishEditionRequest struct {
	EditionID  uuid.UUID
	ActingUser uuid.UUID
}

// DocumentRepository abstracts storage operations for documents.
type DocumentRepository interface {
	Create(ctx context.Context, record *Document) (*Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	GetByAlias(ctx context.Context, alias string) (*Document, error)
	GetByContentID(ctx context.Context, contentID uuid.UUID) (*Document, error)
	List(ctx context.Context) ([]*Document, error)
	Update(ctx context.Context, record *Document) (*Document, error)
	// CommitPublish applies the publish side effects in one atomic unit:
	// the published edition, the superseded edition (may be nil), and the
	// document's pointer updates all succeed or none do.
	CommitPublish(ctx context.Context, commit PublishCommit) error
}

// EditionRepository abstracts storage operations for editions.
type EditionRepository interface {
	Create(ctx context.Context, record *Edition) (*Edition, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Edition, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*Edition, error)
	Update(ctx context.Context, record *Edition) (*Edition, error)
}

// PublishCommit bundles the records touched by a publish transition.
type PublishCommit struct {
	Document   *Document
	Published  *Edition
	Superseded *Edition
}

// AliasGenerator derives a document alias from its originating title.
type AliasGenerator func(title string) (string, error)

// IDGenerator produces identifiers for new records.
type IDGenerator func() uuid.UUID

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records and evaluate guards.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithAliasGenerator overrides alias derivation.
func WithAliasGenerator(generator AliasGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.alias = generator
		}
	}
}

// WithScheduler overrides the scheduler used to register publish jobs.
func WithScheduler(sched interfaces.Scheduler) ServiceOption {
	return func(s *service) {
		if sched != nil {
			s.scheduler = sched
		}
	}
}

// WithSchemaRegistry enables edition detail validation against externally
// registered block-type schemas.
func WithSchemaRegistry(registry *SchemaRegistry) ServiceOption {
	return func(s *service) {
		s.schemas = registry
	}
}

type service struct {
	documents DocumentRepository
	editions  EditionRepository
	schemas   *SchemaRegistry
	scheduler interfaces.Scheduler
	now       func() time.Time
	id        IDGenerator
	alias     AliasGenerator
}

// NewService constructs a document service with the required dependencies.
func NewService(docs DocumentRepository, editions EditionRepository, opts ...ServiceOption) Service {
	s := &service{
		documents: docs,
		editions:  editions,
		now:       time.Now,
		id:        uuid.New,
		alias:     DefaultAliasGenerator,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateEdition authors a new draft edition, creating the owning document
// when the request does not name one.
func (s *service) CreateEdition(ctx context.Context, req CreateEditionRequest) (*Edition, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	now := s.now()

	var doc *Document
	if req.DocumentID != nil {
		existing, err := s.documents.GetByID(ctx, *req.DocumentID)
		if err != nil {
			return nil, err
		}
		if err := s.validateDetails(existing.BlockType, req.Details); err != nil {
			return nil, err
		}
		doc = existing
	} else {
		blockType := strings.TrimSpace(req.BlockType)
		if blockType == "" {
			return nil, ErrBlockTypeRequired
		}
		// Validate before the document exists so a rejected draft does
		// not leave an orphan holding the alias.
		if err := s.validateDetails(blockType, req.Details); err != nil {
			return nil, err
		}
		created, err := s.createDocument(ctx, req, blockType, title, now)
		if err != nil {
			return nil, err
		}
		doc = created
	}

	edition := &Edition{
		ID:                   s.id(),
		DocumentID:           doc.ID,
		Title:                title,
		Details:              cloneMap(req.Details),
		State:                domain.StateDraft,
		ScheduledPublication: cloneTimePtr(req.ScheduledPublication),
		ChangeNote:           req.ChangeNote,
		InternalChangeNote:   req.InternalChangeNote,
		CreatedBy:            req.CreatedBy,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	created, err := s.editions.Create(ctx, edition)
	if err != nil {
		return nil, err
	}

	doc.LatestEditionID = &created.ID
	doc.UpdatedAt = now
	if _, err := s.documents.Update(ctx, doc); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *service) validateDetails(blockType string, details map[string]any) error {
	if s.schemas == nil {
		return nil
	}
	return s.schemas.Validate(blockType, details)
}

func (s *service) createDocument(ctx context.Context, req CreateEditionRequest, blockType, title string, now time.Time) (*Document, error) {
	if s.schemas != nil && !s.schemas.Known(blockType) {
		return nil, ErrBlockTypeUnknown
	}

	alias, err := s.alias(title)
	if err != nil {
		return nil, err
	}

	if existing, err := s.documents.GetByAlias(ctx, alias); err == nil && existing != nil {
		return nil, ErrAliasExists
	} else if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	contentID := req.ContentID
	if contentID == uuid.Nil {
		contentID = s.id()
	}

	doc := &Document{
		ID:             s.id(),
		ContentID:      contentID,
		ContentIDAlias: alias,
		BlockType:      blockType,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return s.documents.Create(ctx, doc)
}

// GetDocument fetches a document by identifier.
func (s *service) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	if id == uuid.Nil {
		return nil, ErrDocumentIDRequired
	}
	return s.documents.GetByID(ctx, id)
}

// GetDocumentByAlias fetches a document by its stable alias.
func (s *service) GetDocumentByAlias(ctx context.Context, alias string) (*Document, error) {
	return s.documents.GetByAlias(ctx, alias)
}

// GetDocumentByContentID fetches a document by its external content identifier.
func (s *service) GetDocumentByContentID(ctx context.Context, contentID uuid.UUID) (*Document, error) {
	if contentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	return s.documents.GetByContentID(ctx, contentID)
}

// ListDocuments returns every document.
func (s *service) ListDocuments(ctx context.Context) ([]*Document, error) {
	return s.documents.List(ctx)
}

// GetEdition fetches an edition by identifier.
func (s *service) GetEdition(ctx context.Context, id uuid.UUID) (*Edition, error) {
	if id == uuid.Nil {
		return nil, ErrEditionIDRequired
	}
	return s.editions.GetByID(ctx, id)
}

// ListEditions returns a document's editions in creation order.
func (s *service) ListEditions(ctx context.Context, documentID uuid.UUID) ([]*Edition, error) {
	if documentID == uuid.Nil {
		return nil, ErrDocumentIDRequired
	}
	return s.editions.ListByDocument(ctx, documentID)
}

// ApplyTransition runs a guarded workflow transition. The publish transition
// carries side effects and is routed through Publish so the document
// pointers move atomically with the state changes.
func (s *service) ApplyTransition(ctx context.Context, req TransitionRequest) (*Edition, error) {
	if req.EditionID == uuid.Nil {
		return nil, ErrEditionIDRequired
	}

	if req.Transition == TransitionPublish {
		return s.Publish(ctx, PublishEditionRequest{EditionID: req.EditionID, ActingUser: req.ActingUser})
	}

	edition, err := s.editions.GetByID(ctx, req.EditionID)
	if err != nil {
		return nil, err
	}

	if err := applyTransition(edition, req.Transition, s.now()); err != nil {
		return nil, err
	}

	return s.editions.Update(ctx, edition)
}

// Schedule records the publication timestamp, moves the edition into the
// scheduled state, and enqueues the publish job.
func (s *service) Schedule(ctx context.Context, req ScheduleEditionRequest) (*Edition, error) {
	if req.EditionID == uuid.Nil {
		return nil, ErrEditionIDRequired
	}

	edition, err := s.editions.GetByID(ctx, req.EditionID)
	if err != nil {
		return nil, err
	}

	publishAt := req.PublishAt
	edition.ScheduledPublication = &publishAt
	if err := applyTransition(edition, TransitionSchedule, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.editions.Update(ctx, edition)
	if err != nil {
		return nil, err
	}

	if s.scheduler != nil {
		payload := map[string]any{"edition_id": updated.ID.String()}
		if req.ActingUser != uuid.Nil {
			payload["scheduled_by"] = req.ActingUser.String()
		}
		if _, err := s.scheduler.Enqueue(ctx, interfaces.JobSpec{
			Key:     schedulerjobs.EditionPublishJobKey(updated.ID),
			Type:    schedulerjobs.JobTypeEditionPublish,
			RunAt:   publishAt,
			Payload: payload,
		}); err != nil {
			return nil, err
		}
	}

	return updated, nil
}

// Publish promotes a scheduled edition: the edition becomes published, the
// previously live edition (if any) becomes superseded, and the document's
// live/latest pointers move to the new edition. All of it commits atomically.
func (s *service) Publish(ctx context.Context, req PublishEditionRequest) (*Edition, error) {
	if req.EditionID == uuid.Nil {
		return nil, ErrEditionIDRequired
	}

	edition, err := s.editions.GetByID(ctx, req.EditionID)
	if err != nil {
		return nil, err
	}

	doc, err := s.documents.GetByID(ctx, edition.DocumentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := applyTransition(edition, TransitionPublish, now); err != nil {
		return nil, err
	}

	var superseded *Edition
	if doc.LiveEditionID != nil && *doc.LiveEditionID != edition.ID {
		previous, err := s.editions.GetByID(ctx, *doc.LiveEditionID)
		if err != nil {
			return nil, err
		}
		if err := applyTransition(previous, TransitionSupersede, now); err != nil {
			return nil, err
		}
		superseded = previous
	}

	doc.LiveEditionID = &edition.ID
	doc.LatestEditionID = &edition.ID
	doc.UpdatedAt = now

	if err := s.documents.CommitPublish(ctx, PublishCommit{
		Document:   doc,
		Published:  edition,
		Superseded: superseded,
	}); err != nil {
		return nil, err
	}

	return edition, nil
}

// PublishDue drains the scheduler for publish jobs due at or before the
// supplied instant and publishes each edition. Failures are recorded on the
// job and do not stop the sweep.
func (s *service) PublishDue(ctx context.Context, until time.Time) ([]*Edition, error) {
	if s.scheduler == nil {
		return nil, nil
	}

	jobs, err := s.scheduler.ListDue(ctx, until, 0)
	if err != nil {
		return nil, err
	}

	published := make([]*Edition, 0, len(jobs))
	for _, job := range jobs {
		if job.Type != schedulerjobs.JobTypeEditionPublish {
			continue
		}
		editionID, err := editionIDFromPayload(job.Payload)
		if err != nil {
			if markErr := s.scheduler.MarkFailed(ctx, job.ID, err); markErr != nil {
				return published, markErr
			}
			continue
		}
		edition, err := s.Publish(ctx, PublishEditionRequest{EditionID: editionID})
		if err != nil {
			if markErr := s.scheduler.MarkFailed(ctx, job.ID, err); markErr != nil {
				return published, markErr
			}
			continue
		}
		if err := s.scheduler.MarkDone(ctx, job.ID); err != nil {
			return published, err
		}
		published = append(published, edition)
	}

	return published, nil
}

// MostRecentEdition returns the edition with the latest creation timestamp
// regardless of state. Used for status display.
func (s *service) MostRecentEdition(ctx context.Context, documentID uuid.UUID) (*Edition, error) {
	editions, err := s.ListEditions(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if len(editions) == 0 {
		return nil, &NotFoundError{Resource: "edition", Key: documentID.String()}
	}
	return editions[len(editions)-1], nil
}

// LatestDraft returns the most recent edition still in the draft state.
func (s *service) LatestDraft(ctx context.Context, documentID uuid.UUID) (*Edition, error) {
	editions, err := s.ListEditions(ctx, documentID)
	if err != nil {
		return nil, err
	}
	for i := len(editions) - 1; i >= 0; i-- {
		if editions[i].IsDraft() {
			return editions[i], nil
		}
	}
	return nil, &NotFoundError{Resource: "draft edition", Key: documentID.String()}
}

// HasNewerDraft reports whether a draft exists that is more recent than the
// document's live edition.
func (s *service) HasNewerDraft(ctx context.Context, documentID uuid.UUID) (bool, error) {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return false, err
	}
	mostRecent, err := s.MostRecentEdition(ctx, documentID)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	if !mostRecent.IsDraft() {
		return false, nil
	}
	if doc.LiveEditionID == nil {
		return true, nil
	}
	return mostRecent.ID != *doc.LiveEditionID, nil
}

// LiveEdition returns the document's published edition, or a NotFoundError
// when nothing is live yet.
func (s *service) LiveEdition(ctx context.Context, documentID uuid.UUID) (*Edition, error) {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.LiveEditionID == nil {
		return nil, &NotFoundError{Resource: "live edition", Key: doc.ContentIDAlias}
	}
	return s.editions.GetByID(ctx, *doc.LiveEditionID)
}

func editionIDFromPayload(payload map[string]any) (uuid.UUID, error) {
	raw, ok := payload["edition_id"]
	if !ok {
		return uuid.Nil, ErrEditionIDRequired
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, ErrEditionIDRequired
	}
	return uuid.Parse(str)
}
