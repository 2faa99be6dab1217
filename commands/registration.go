// Package commands exposes the module's command handlers to host
// applications so they can be mounted on a CLI, a message dispatcher, or a
// cron runner without reaching into internal packages.
package commands

import (
	"errors"
	"strings"

	contentblocks "github.com/goliatone/go-content-blocks"
	internalcmd "github.com/goliatone/go-content-blocks/internal/commands"
	editionscmd "github.com/goliatone/go-content-blocks/internal/commands/editions"
	"github.com/goliatone/go-content-blocks/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// PublishDueCron overrides the cron expression applied to the publish-due sweep.
	PublishDueCron string
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// RegisterModuleCommands builds the edition command handlers backed by the
// provided module and optionally registers them with registry, dispatcher,
// and cron integrations.
func RegisterModuleCommands(module *contentblocks.Module, opts RegistrationOptions) (*RegistrationResult, error) {
	if module == nil {
		return &RegistrationResult{}, nil
	}

	provider := opts.LoggerProvider
	if provider == nil {
		provider = module.LoggerProvider()
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}

		if opts.CronRegistrar != nil {
			if cronCmd, ok := handler.(command.CronCommand); ok {
				if err := opts.CronRegistrar(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	service := module.Documents()
	if service != nil {
		editionsLogger := internalcmd.CommandLogger(provider, "editions")
		register(editionscmd.NewTransitionEditionHandler(service, editionsLogger))
		register(editionscmd.NewScheduleEditionHandler(service, editionsLogger))
		register(editionscmd.NewPublishEditionHandler(service, editionsLogger))

		publishDueOpts := []editionscmd.PublishDueHandlerOption{}
		if expr := strings.TrimSpace(opts.PublishDueCron); expr != "" {
			publishDueOpts = append(publishDueOpts, editionscmd.PublishDueWithCronExpression(expr))
		}
		register(editionscmd.NewPublishDueHandler(service, editionsLogger, publishDueOpts...))
	}

	if errs != nil && len(result.Handlers) == 0 {
		return result, errs
	}

	if len(result.Handlers) == 0 {
		return result, errors.New("no command handlers registered; ensure the module has a document service")
	}

	return result, errs
}
