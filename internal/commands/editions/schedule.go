package editionscmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-content-blocks/documents"
	"github.com/goliatone/go-content-blocks/internal/commands"
	"github.com/goliatone/go-content-blocks/pkg/interfaces"
	"github.com/google/uuid"
)

const scheduleEditionMessageType = "contentblocks.edition.schedule"

// ScheduleEditionCommand queues an edition for publication at a future time.
type ScheduleEditionCommand struct {
	EditionID  uuid.UUID  `json:"edition_id"`
	PublishAt  time.Time  `json:"publish_at"`
	ActingUser *uuid.UUID `json:"acting_user,omitempty"`
}

// Type implements command.Message.
func (ScheduleEditionCommand) Type() string { return scheduleEditionMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m ScheduleEditionCommand) Validate() error {
	errs := validation.Errors{}
	if m.EditionID == uuid.Nil {
		errs["edition_id"] = validation.NewError("contentblocks.edition.schedule.edition_id_required", "edition_id is required")
	}
	if m.PublishAt.IsZero() {
		errs["publish_at"] = validation.NewError("contentblocks.edition.schedule.publish_at_required", "publish_at is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ScheduleEditionHandler schedules editions through the document service.
type ScheduleEditionHandler struct {
	inner *commands.Handler[ScheduleEditionCommand]
}

// NewScheduleEditionHandler constructs a handler wired to the provided document service.
func NewScheduleEditionHandler(service documents.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ScheduleEditionCommand]) *ScheduleEditionHandler {
	exec := func(ctx context.Context, msg ScheduleEditionCommand) error {
		req := documents.ScheduleEditionRequest{
			EditionID: msg.EditionID,
			PublishAt: msg.PublishAt,
		}
		if msg.ActingUser != nil {
			req.ActingUser = *msg.ActingUser
		}
		_, err := service.Schedule(ctx, req)
		return err
	}

	handlerOpts := []commands.HandlerOption[ScheduleEditionCommand]{
		commands.WithLogger[ScheduleEditionCommand](logger),
		commands.WithOperation[ScheduleEditionCommand]("edition.schedule"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ScheduleEditionHandler{
		inner: commands.NewHandler[ScheduleEditionCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ScheduleEditionCommand].Execute.
func (h *ScheduleEditionHandler) Execute(ctx context.Context, msg ScheduleEditionCommand) error {
	return h.inner.Execute(ctx, msg)
}
