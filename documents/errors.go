package documents

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-content-blocks/domain"
	"github.com/google/uuid"
)

var (
	ErrDocumentIDRequired           = errors.New("documents: document id required")
	ErrEditionIDRequired            = errors.New("documents: edition id required")
	ErrContentIDRequired            = errors.New("documents: content id required")
	ErrTitleRequired                = errors.New("documents: title is required")
	ErrBlockTypeRequired            = errors.New("documents: block type is required")
	ErrBlockTypeUnknown             = errors.New("documents: block type has no registered schema")
	ErrAliasExists                  = errors.New("documents: content id alias already exists")
	ErrDetailsInvalid               = errors.New("documents: details do not match the block schema")
	ErrScheduledPublicationRequired = errors.New("documents: scheduled publication timestamp is required")
	ErrScheduledPublicationPast     = errors.New("documents: scheduled publication must be in the future")
	ErrEditionNotScheduled          = errors.New("documents: edition is not scheduled for publication")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// InvalidTransitionError reports a workflow transition attempted from a state
// it is not defined for. The request itself is well-formed; the failure is a
// user-facing workflow outcome, not a server error.
type InvalidTransitionError struct {
	EditionID  uuid.UUID
	State      domain.State
	Transition Transition
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("documents: edition %s cannot move from state %q via %q", e.EditionID, e.State, e.Transition)
}

// UnknownTransitionError reports a transition name the workflow table does
// not define at all. Trusted callers should never send one, so it is treated
// as an integration error rather than a validation failure.
type UnknownTransitionError struct {
	Name string
}

func (e *UnknownTransitionError) Error() string {
	return fmt.Sprintf("documents: transition event %q is not recognised", e.Name)
}
