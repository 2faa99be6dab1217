package editionscmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-content-blocks/documents"
	"github.com/goliatone/go-content-blocks/internal/commands"
	"github.com/goliatone/go-content-blocks/pkg/interfaces"
	"github.com/google/uuid"
)

const publishEditionMessageType = "contentblocks.edition.publish"

// PublishEditionCommand promotes a scheduled edition to the live one.
type PublishEditionCommand struct {
	EditionID  uuid.UUID  `json:"edition_id"`
	ActingUser *uuid.UUID `json:"acting_user,omitempty"`
}

// Type implements command.Message.
func (PublishEditionCommand) Type() string { return publishEditionMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m PublishEditionCommand) Validate() error {
	errs := validation.Errors{}
	if m.EditionID == uuid.Nil {
		errs["edition_id"] = validation.NewError("contentblocks.edition.publish.edition_id_required", "edition_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishEditionHandler publishes editions through the document service.
type PublishEditionHandler struct {
	inner *commands.Handler[PublishEditionCommand]
}

// NewPublishEditionHandler constructs a handler wired to the provided document service.
func NewPublishEditionHandler(service documents.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PublishEditionCommand]) *PublishEditionHandler {
	exec := func(ctx context.Context, msg PublishEditionCommand) error {
		req := documents.PublishEditionRequest{
			EditionID: msg.EditionID,
		}
		if msg.ActingUser != nil {
			req.ActingUser = *msg.ActingUser
		}
		_, err := service.Publish(ctx, req)
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishEditionCommand]{
		commands.WithLogger[PublishEditionCommand](logger),
		commands.WithOperation[PublishEditionCommand]("edition.publish"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishEditionHandler{
		inner: commands.NewHandler[PublishEditionCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishEditionCommand].Execute.
func (h *PublishEditionHandler) Execute(ctx context.Context, msg PublishEditionCommand) error {
	return h.inner.Execute(ctx, msg)
}
