package interfaces

import "context"

// Logger is the leveled logging contract used across the module. It
// mirrors github.com/goliatone/go-logger so hosts already using that
// package can plug it in without adapters.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers. An implementation may return
// one shared instance for every name or scope children per namespace.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is an optional extension for loggers that can carry
// persistent structured fields. Implementations return a new logger that
// emits the supplied fields with every entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
