package domain

// State represents lifecycle states for an edition
type State string

const (
	// StateDraft indicates an edition still under preparation
	StateDraft State = "draft"
	// StateAwaitingReview marks an edition submitted for second-eyes review
	StateAwaitingReview State = "awaiting_review"
	// StateScheduled marks an edition with a future publish time configured
	StateScheduled State = "scheduled"
	// StatePublished identifies the edition currently shown to the public
	StatePublished State = "published"
	// StateSuperseded marks an edition replaced by a newer published edition
	StateSuperseded State = "superseded"
)

// States lists every lifecycle state in workflow order.
func States() []State {
	return []State{
		StateDraft,
		StateAwaitingReview,
		StateScheduled,
		StatePublished,
		StateSuperseded,
	}
}

// IsValid reports whether the state is one of the known lifecycle states.
func (s State) IsValid() bool {
	switch s {
	case StateDraft, StateAwaitingReview, StateScheduled, StatePublished, StateSuperseded:
		return true
	}
	return false
}
