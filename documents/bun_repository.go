package documents

import (
	"context"
	"database/sql"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewDocumentRepository builds the generic bun repository for documents.
func NewDocumentRepository(db *bun.DB) repository.Repository[*Document] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Document]{
		NewRecord: func() *Document { return &Document{} },
		GetID: func(d *Document) uuid.UUID {
			return d.ID
		},
		SetID: func(d *Document, id uuid.UUID) {
			d.ID = id
		},
		GetIdentifier: func() string {
			return "content_id_alias"
		},
		GetIdentifierValue: func(d *Document) string {
			return d.ContentIDAlias
		},
	})
}

// NewEditionRepository builds the generic bun repository for editions.
func NewEditionRepository(db *bun.DB) repository.Repository[*Edition] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Edition]{
		NewRecord: func() *Edition { return &Edition{} },
		GetID: func(e *Edition) uuid.UUID {
			return e.ID
		},
		SetID: func(e *Edition, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(e *Edition) string {
			if e == nil {
				return ""
			}
			return e.ID.String()
		},
	})
}

// BunDocumentRepository persists documents through bun.
type BunDocumentRepository struct {
	db   *bun.DB
	repo repository.Repository[*Document]
}

// NewBunDocumentRepository constructs a bun-backed DocumentRepository.
func NewBunDocumentRepository(db *bun.DB) *BunDocumentRepository {
	return NewBunDocumentRepositoryWithCache(db, nil, nil)
}

// NewBunDocumentRepositoryWithCache constructs a bun-backed DocumentRepository
// whose reads go through the supplied cache when both collaborators are set.
func NewBunDocumentRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunDocumentRepository {
	return &BunDocumentRepository{
		db:   db,
		repo: wrapWithCache(NewDocumentRepository(db), cacheService, keySerializer),
	}
}

func (r *BunDocumentRepository) Create(ctx context.Context, record *Document) (*Document, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "document", id.String())
	}
	return result, nil
}

func (r *BunDocumentRepository) GetByAlias(ctx context.Context, alias string) (*Document, error) {
	result, err := r.repo.GetByIdentifier(ctx, alias)
	if err != nil {
		return nil, mapRepositoryError(err, "document", alias)
	}
	return result, nil
}

func (r *BunDocumentRepository) GetByContentID(ctx context.Context, contentID uuid.UUID) (*Document, error) {
	record := &Document{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.content_id = ?", contentID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &NotFoundError{Resource: "document", Key: contentID.String()}
		}
		return nil, fmt.Errorf("document repository error: %w", err)
	}
	return record, nil
}

func (r *BunDocumentRepository) List(ctx context.Context) ([]*Document, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunDocumentRepository) Update(ctx context.Context, record *Document) (*Document, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "document", record.ID.String())
	}
	return updated, nil
}

// CommitPublish writes the publish side effects inside one transaction so
// the live pointer swap and the supersede land together or not at all.
func (r *BunDocumentRepository) CommitPublish(ctx context.Context, commit PublishCommit) error {
	if commit.Document == nil || commit.Published == nil {
		return ErrDocumentIDRequired
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().
			Model(commit.Published).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("update published edition: %w", err)
		}
		if commit.Superseded != nil {
			if _, err := tx.NewUpdate().
				Model(commit.Superseded).
				WherePK().
				Exec(ctx); err != nil {
				return fmt.Errorf("update superseded edition: %w", err)
			}
		}
		if _, err := tx.NewUpdate().
			Model(commit.Document).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("update document pointers: %w", err)
		}
		return nil
	})
}

// BunEditionRepository persists editions through bun.
type BunEditionRepository struct {
	db   *bun.DB
	repo repository.Repository[*Edition]
}

// NewBunEditionRepository constructs a bun-backed EditionRepository.
func NewBunEditionRepository(db *bun.DB) *BunEditionRepository {
	return NewBunEditionRepositoryWithCache(db, nil, nil)
}

// NewBunEditionRepositoryWithCache constructs a bun-backed EditionRepository
// whose reads go through the supplied cache when both collaborators are set.
func NewBunEditionRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunEditionRepository {
	return &BunEditionRepository{
		db:   db,
		repo: wrapWithCache(NewEditionRepository(db), cacheService, keySerializer),
	}
}

func (r *BunEditionRepository) Create(ctx context.Context, record *Edition) (*Edition, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunEditionRepository) GetByID(ctx context.Context, id uuid.UUID) (*Edition, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "edition", id.String())
	}
	return result, nil
}

func (r *BunEditionRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*Edition, error) {
	records := []*Edition{}
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.document_id = ?", documentID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("edition repository error: %w", err)
	}
	return records, nil
}

func (r *BunEditionRepository) Update(ctx context.Context, record *Edition) (*Edition, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "edition", record.ID.String())
	}
	return updated, nil
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
