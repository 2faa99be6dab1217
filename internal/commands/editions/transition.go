package editionscmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-content-blocks/documents"
	"github.com/goliatone/go-content-blocks/internal/commands"
	"github.com/goliatone/go-content-blocks/pkg/interfaces"
	"github.com/google/uuid"
)

const transitionEditionMessageType = "contentblocks.edition.transition"

// TransitionEditionCommand requests a named workflow transition on an
// edition. The transition name is the boundary spelling, so aliases like
// ready_for_2i are accepted.
type TransitionEditionCommand struct {
	EditionID  uuid.UUID  `json:"edition_id"`
	Transition string     `json:"transition"`
	ActingUser *uuid.UUID `json:"acting_user,omitempty"`
}

// Type implements command.Message.
func (TransitionEditionCommand) Type() string { return transitionEditionMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m TransitionEditionCommand) Validate() error {
	errs := validation.Errors{}
	if m.EditionID == uuid.Nil {
		errs["edition_id"] = validation.NewError("contentblocks.edition.transition.edition_id_required", "edition_id is required")
	}
	if m.Transition == "" {
		errs["transition"] = validation.NewError("contentblocks.edition.transition.name_required", "transition is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TransitionEditionHandler applies workflow transitions through the document
// service using the shared command handler foundation.
type TransitionEditionHandler struct {
	inner *commands.Handler[TransitionEditionCommand]
}

// NewTransitionEditionHandler constructs a handler wired to the provided document service.
func NewTransitionEditionHandler(service documents.Service, logger interfaces.Logger, opts ...commands.HandlerOption[TransitionEditionCommand]) *TransitionEditionHandler {
	exec := func(ctx context.Context, msg TransitionEditionCommand) error {
		transition, err := documents.ParseTransition(msg.Transition)
		if err != nil {
			return err
		}

		req := documents.TransitionRequest{
			EditionID:  msg.EditionID,
			Transition: transition,
		}
		if msg.ActingUser != nil {
			req.ActingUser = *msg.ActingUser
		}
		_, err = service.ApplyTransition(ctx, req)
		return err
	}

	handlerOpts := []commands.HandlerOption[TransitionEditionCommand]{
		commands.WithLogger[TransitionEditionCommand](logger),
		commands.WithOperation[TransitionEditionCommand]("edition.transition"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &TransitionEditionHandler{
		inner: commands.NewHandler[TransitionEditionCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[TransitionEditionCommand].Execute.
func (h *TransitionEditionHandler) Execute(ctx context.Context, msg TransitionEditionCommand) error {
	return h.inner.Execute(ctx, msg)
}
