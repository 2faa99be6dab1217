package commands

import (
	"strings"

	"github.com/goliatone/go-content-blocks/internal/logging"
	"github.com/goliatone/go-content-blocks/pkg/interfaces"
)

const commandModuleRoot = "contentblocks.commands"

// CommandLogger returns a namespaced logger for command handlers. Entries
// carry the command module as structured context so host log pipelines can
// separate handler activity from service activity.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
