package editionscmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-content-blocks/documents"
	"github.com/goliatone/go-content-blocks/internal/commands"
	"github.com/goliatone/go-content-blocks/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	publishDueMessageType = "contentblocks.edition.publish_due"
	defaultPublishDueCron = "@every 1m"
)

// PublishDueCommand sweeps the scheduler and publishes every edition whose
// scheduled publication time has arrived.
type PublishDueCommand struct {
	Now time.Time `json:"now"`
}

// Type implements command.Message.
func (PublishDueCommand) Type() string { return publishDueMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m PublishDueCommand) Validate() error {
	errs := validation.Errors{}
	if m.Now.IsZero() {
		errs["now"] = validation.NewError("contentblocks.edition.publish_due.now_required", "now is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type publishDueHandlerConfig struct {
	cronConfig command.HandlerConfig
}

// PublishDueHandlerOption customises the publish-due sweep handler.
type PublishDueHandlerOption func(*publishDueHandlerConfig)

// PublishDueWithCronExpression overrides the cron expression used when the
// handler is registered with a cron runner.
func PublishDueWithCronExpression(expression string) PublishDueHandlerOption {
	return func(cfg *publishDueHandlerConfig) {
		if expression != "" {
			cfg.cronConfig.Expression = expression
		}
	}
}

// PublishDueHandler drains due publish jobs through the document service.
type PublishDueHandler struct {
	inner      *commands.Handler[PublishDueCommand]
	cronConfig command.HandlerConfig
}

// NewPublishDueHandler constructs a handler wired to the provided document service.
func NewPublishDueHandler(service documents.Service, logger interfaces.Logger, opts ...PublishDueHandlerOption) *PublishDueHandler {
	cfg := publishDueHandlerConfig{
		cronConfig: command.HandlerConfig{
			Expression: defaultPublishDueCron,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	exec := func(ctx context.Context, msg PublishDueCommand) error {
		published, err := service.PublishDue(ctx, msg.Now)
		if err != nil {
			return err
		}
		if len(published) > 0 && logger != nil {
			logger.Info("editions published", "count", len(published))
		}
		return nil
	}

	return &PublishDueHandler{
		inner: commands.NewHandler[PublishDueCommand](exec,
			commands.WithLogger[PublishDueCommand](logger),
			commands.WithOperation[PublishDueCommand]("edition.publish_due"),
		),
		cronConfig: cfg.cronConfig,
	}
}

// Execute satisfies command.Commander[PublishDueCommand].Execute.
func (h *PublishDueHandler) Execute(ctx context.Context, msg PublishDueCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CronHandler satisfies command.CronCommand by sweeping due editions at the
// wall-clock time the cron runner fires.
func (h *PublishDueHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), PublishDueCommand{Now: time.Now()})
	}
}

// CronOptions satisfies command.CronCommand by returning the configured cron metadata.
func (h *PublishDueHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}
