package documents

import (
	"time"

	"github.com/goliatone/go-content-blocks/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EmbedCodePrefix identifies embed placeholders inside hosted HTML.
const EmbedCodePrefix = "identify-block"

// Document is the stable identity for a reusable content block across its
// version history.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID              uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ContentID       uuid.UUID  `bun:"content_id,notnull,type:uuid" json:"content_id"`
	ContentIDAlias  string     `bun:"content_id_alias,notnull" json:"content_id_alias"`
	BlockType       string     `bun:"block_type,notnull" json:"block_type"`
	LatestEditionID *uuid.UUID `bun:"latest_edition_id,type:uuid,nullzero" json:"latest_edition_id,omitempty"`
	LiveEditionID   *uuid.UUID `bun:"live_edition_id,type:uuid,nullzero" json:"live_edition_id,omitempty"`
	CreatedAt       time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Editions      []*Edition `bun:"rel:has-many,join:id=document_id" json:"editions,omitempty"`
	LatestEdition *Edition   `bun:"rel:belongs-to,join:latest_edition_id=id" json:"latest_edition,omitempty"`
	LiveEdition   *Edition   `bun:"rel:belongs-to,join:live_edition_id=id" json:"live_edition,omitempty"`
}

// EmbedCode returns the placeholder token hosted pages use to embed this
// document's live rendering.
func (d *Document) EmbedCode() string {
	return EmbedCodePrefix + ":" + d.BlockType + ":" + d.ContentIDAlias
}

// EmbedCodeForField returns an embed code scoped to a single field path
// inside the block, e.g. rates/rate2/name.
func (d *Document) EmbedCodeForField(fieldPath string) string {
	return d.EmbedCode() + "/" + fieldPath
}

// Edition is one versioned snapshot of a document's content plus workflow
// metadata. Editions never migrate between documents and are never
// hard-deleted once published.
type Edition struct {
	bun.BaseModel `bun:"table:editions,alias:e"`

	ID                   uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	DocumentID           uuid.UUID      `bun:"document_id,notnull,type:uuid" json:"document_id"`
	Title                string         `bun:"title,notnull" json:"title"`
	Details              map[string]any `bun:"details,type:jsonb,notnull" json:"details"`
	State                domain.State   `bun:"state,notnull,default:'draft'" json:"state"`
	ScheduledPublication *time.Time     `bun:"scheduled_publication,nullzero" json:"scheduled_publication,omitempty"`
	ChangeNote           *string        `bun:"change_note" json:"change_note,omitempty"`
	InternalChangeNote   *string        `bun:"internal_change_note" json:"internal_change_note,omitempty"`
	CreatedBy            uuid.UUID      `bun:"created_by,notnull,type:uuid" json:"created_by"`
	CreatedAt            time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt            time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Document *Document `bun:"rel:belongs-to,join:document_id=id" json:"document,omitempty"`
}

// IsDraft reports whether the edition is still in the initial state.
func (e *Edition) IsDraft() bool {
	return e.State == domain.StateDraft
}

// IsPublished reports whether the edition is the live one for its document.
func (e *Edition) IsPublished() bool {
	return e.State == domain.StatePublished
}
