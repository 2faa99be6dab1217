package domain

import internaldomain "github.com/goliatone/go-content-blocks/internal/domain"

// State represents lifecycle states for editions.
type State = internaldomain.State

const (
	// StateDraft indicates an edition still under preparation.
	StateDraft = internaldomain.StateDraft
	// StateAwaitingReview marks an edition submitted for second-eyes review.
	StateAwaitingReview = internaldomain.StateAwaitingReview
	// StateScheduled marks an edition with a future publish time configured.
	StateScheduled = internaldomain.StateScheduled
	// StatePublished identifies the edition currently shown to the public.
	StatePublished = internaldomain.StatePublished
	// StateSuperseded marks an edition replaced by a newer published edition.
	StateSuperseded = internaldomain.StateSuperseded
)

// States lists every lifecycle state in workflow order.
func States() []State {
	return internaldomain.States()
}
