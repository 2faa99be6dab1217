package documents

import (
	"time"

	"github.com/goliatone/go-content-blocks/domain"
)

// Transition names a guarded workflow transition between edition states.
type Transition string

const (
	// TransitionReadyForReview submits a draft for second-eyes review.
	TransitionReadyForReview Transition = "ready_for_review"
	// TransitionSchedule queues an edition for publication at a future time.
	TransitionSchedule Transition = "schedule"
	// TransitionPublish makes a scheduled edition the live one.
	TransitionPublish Transition = "publish"
	// TransitionSupersede retires a previously published edition.
	TransitionSupersede Transition = "supersede"
)

// transitionRule pairs the states a transition may start from with its
// destination and an optional guard evaluated before the state changes.
type transitionRule struct {
	from  []domain.State
	to    domain.State
	guard func(edition *Edition, now time.Time) error
}

var transitionTable = map[Transition]transitionRule{
	TransitionReadyForReview: {
		from: []domain.State{domain.StateDraft},
		to:   domain.StateAwaitingReview,
	},
	TransitionSchedule: {
		from:  []domain.State{domain.StateDraft, domain.StateAwaitingReview},
		to:    domain.StateScheduled,
		guard: guardScheduledPublication,
	},
	TransitionPublish: {
		from: []domain.State{domain.StateScheduled},
		to:   domain.StatePublished,
	},
	TransitionSupersede: {
		from: []domain.State{domain.StatePublished},
		to:   domain.StateSuperseded,
	},
}

// wireTransitionNames maps the transition names accepted at the boundary to
// workflow transitions. ready_for_2i is the name existing callers send for
// the review transition.
var wireTransitionNames = map[string]Transition{
	"ready_for_review": TransitionReadyForReview,
	"ready_for_2i":     TransitionReadyForReview,
	"schedule":         TransitionSchedule,
	"publish":          TransitionPublish,
	"supersede":        TransitionSupersede,
}

// ParseTransition resolves a boundary transition name to a workflow
// transition, returning *UnknownTransitionError for names outside the table.
func ParseTransition(name string) (Transition, error) {
	if transition, ok := wireTransitionNames[name]; ok {
		return transition, nil
	}
	return "", &UnknownTransitionError{Name: name}
}

// applyTransition mutates the edition state after checking the transition is
// defined for the current state and its guard passes. The edition is left
// untouched on failure.
func applyTransition(edition *Edition, transition Transition, now time.Time) error {
	rule, ok := transitionTable[transition]
	if !ok {
		return &UnknownTransitionError{Name: string(transition)}
	}

	allowed := false
	for _, from := range rule.from {
		if edition.State == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return &InvalidTransitionError{
			EditionID:  edition.ID,
			State:      edition.State,
			Transition: transition,
		}
	}

	if rule.guard != nil {
		if err := rule.guard(edition, now); err != nil {
			return err
		}
	}

	edition.State = rule.to
	edition.UpdatedAt = now
	return nil
}

// guardScheduledPublication enforces a future publication timestamp. It only
// runs when entering the scheduled state, so ordinary saves of unscheduled
// editions are unaffected.
func guardScheduledPublication(edition *Edition, now time.Time) error {
	if edition.ScheduledPublication == nil {
		return ErrScheduledPublicationRequired
	}
	if !edition.ScheduledPublication.After(now) {
		return ErrScheduledPublicationPast
	}
	return nil
}
