package documents

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// NewMemoryRepositories creates paired in-memory repositories for
// scaffolding and tests. The document repository needs the edition store to
// commit publish side effects in one critical section.
func NewMemoryRepositories() (*MemoryDocumentRepository, *MemoryEditionRepository) {
	editions := NewMemoryEditionRepository()
	documents := &MemoryDocumentRepository{
		documents:    make(map[uuid.UUID]*Document),
		aliasIndex:   make(map[string]uuid.UUID),
		contentIndex: make(map[uuid.UUID]uuid.UUID),
		editions:     editions,
	}
	return documents, editions
}

// MemoryDocumentRepository is an in-memory DocumentRepository.
type MemoryDocumentRepository struct {
	mu           sync.RWMutex
	documents    map[uuid.UUID]*Document
	aliasIndex   map[string]uuid.UUID
	contentIndex map[uuid.UUID]uuid.UUID
	editions     *MemoryEditionRepository
}

// Create inserts the supplied document.
func (m *MemoryDocumentRepository) Create(_ context.Context, record *Document) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneDocument(record)
	m.documents[copied.ID] = copied
	m.aliasIndex[copied.ContentIDAlias] = copied.ID
	m.contentIndex[copied.ContentID] = copied.ID
	return cloneDocument(copied), nil
}

// GetByID retrieves a document by identifier.
func (m *MemoryDocumentRepository) GetByID(_ context.Context, id uuid.UUID) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.documents[id]
	if !ok {
		return nil, &NotFoundError{Resource: "document", Key: id.String()}
	}
	return cloneDocument(rec), nil
}

// GetByAlias retrieves a document by alias, returning NotFoundError when absent.
func (m *MemoryDocumentRepository) GetByAlias(_ context.Context, alias string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.aliasIndex[alias]
	if !ok {
		return nil, &NotFoundError{Resource: "document", Key: alias}
	}
	return cloneDocument(m.documents[id]), nil
}

// GetByContentID retrieves a document by its external content identifier.
func (m *MemoryDocumentRepository) GetByContentID(_ context.Context, contentID uuid.UUID) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.contentIndex[contentID]
	if !ok {
		return nil, &NotFoundError{Resource: "document", Key: contentID.String()}
	}
	return cloneDocument(m.documents[id]), nil
}

// List returns every document.
func (m *MemoryDocumentRepository) List(_ context.Context) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Document, 0, len(m.documents))
	for _, rec := range m.documents {
		out = append(out, cloneDocument(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Update replaces the stored document.
func (m *MemoryDocumentRepository) Update(_ context.Context, record *Document) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.documents[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "document", Key: record.ID.String()}
	}
	copied := cloneDocument(record)
	m.documents[copied.ID] = copied
	return cloneDocument(copied), nil
}

// CommitPublish applies the publish side effects in one critical section so
// a reader never observes the new edition live without the old one
// superseded.
func (m *MemoryDocumentRepository) CommitPublish(_ context.Context, commit PublishCommit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editions.mu.Lock()
	defer m.editions.mu.Unlock()

	if commit.Document == nil || commit.Published == nil {
		return ErrDocumentIDRequired
	}
	if _, ok := m.documents[commit.Document.ID]; !ok {
		return &NotFoundError{Resource: "document", Key: commit.Document.ID.String()}
	}
	if _, ok := m.editions.editions[commit.Published.ID]; !ok {
		return &NotFoundError{Resource: "edition", Key: commit.Published.ID.String()}
	}
	if commit.Superseded != nil {
		if _, ok := m.editions.editions[commit.Superseded.ID]; !ok {
			return &NotFoundError{Resource: "edition", Key: commit.Superseded.ID.String()}
		}
	}

	m.documents[commit.Document.ID] = cloneDocument(commit.Document)
	m.editions.editions[commit.Published.ID] = cloneEdition(commit.Published)
	if commit.Superseded != nil {
		m.editions.editions[commit.Superseded.ID] = cloneEdition(commit.Superseded)
	}
	return nil
}

// MemoryEditionRepository is an in-memory EditionRepository.
type MemoryEditionRepository struct {
	mu       sync.RWMutex
	editions map[uuid.UUID]*Edition
	order    []uuid.UUID
}

// NewMemoryEditionRepository creates an empty in-memory edition repository.
func NewMemoryEditionRepository() *MemoryEditionRepository {
	return &MemoryEditionRepository{
		editions: make(map[uuid.UUID]*Edition),
	}
}

// Create inserts the supplied edition, preserving insertion order.
func (m *MemoryEditionRepository) Create(_ context.Context, record *Edition) (*Edition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneEdition(record)
	m.editions[copied.ID] = copied
	m.order = append(m.order, copied.ID)
	return cloneEdition(copied), nil
}

// GetByID retrieves an edition by identifier.
func (m *MemoryEditionRepository) GetByID(_ context.Context, id uuid.UUID) (*Edition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.editions[id]
	if !ok {
		return nil, &NotFoundError{Resource: "edition", Key: id.String()}
	}
	return cloneEdition(rec), nil
}

// ListByDocument returns the document's editions in creation order.
func (m *MemoryEditionRepository) ListByDocument(_ context.Context, documentID uuid.UUID) ([]*Edition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*Edition{}
	for _, id := range m.order {
		rec := m.editions[id]
		if rec != nil && rec.DocumentID == documentID {
			out = append(out, cloneEdition(rec))
		}
	}
	return out, nil
}

// Update replaces the stored edition.
func (m *MemoryEditionRepository) Update(_ context.Context, record *Edition) (*Edition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.editions[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "edition", Key: record.ID.String()}
	}
	copied := cloneEdition(record)
	m.editions[copied.ID] = copied
	return cloneEdition(copied), nil
}
