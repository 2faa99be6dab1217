package scheduler

import "github.com/google/uuid"

const (
	// JobTypeEditionPublish publishes a scheduled edition when its publication time arrives.
	JobTypeEditionPublish = "contentblocks.edition.publish"
)

// EditionPublishJobKey builds the idempotency key for an edition publish job.
func EditionPublishJobKey(id uuid.UUID) string {
	return "edition:" + id.String() + ":publish"
}
