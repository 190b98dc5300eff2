package log

// Logger is the structured logger used across the client.
// keysAndValues are alternating key/value pairs ("uuid", id, "method", m).
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	// Fatal logs and terminates the process for the zap implementation.
	Fatal(msg string, keysAndValues ...any)

	// WithKV returns a logger that attaches key/value to every entry.
	WithKV(key string, value any) Logger
	// WithName returns a logger named after a component, e.g. "rpc.builder".
	WithName(name string) Logger
	// Name returns the dotted component name.
	Name() string
	// AddCallerSkip returns a logger reporting callers skip frames further up.
	// Implementations without caller information return themselves.
	AddCallerSkip(skip int) Logger
}

// Level is a log severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelFatal Level = "fatal"
)

// SpanEventRecorder mirrors log entries onto a trace span.
type SpanEventRecorder interface {
	TraceID() string
	SpanID() string
	RecordEvent(name string, keysAndValues ...any)
	RecordError(name string, keysAndValues ...any)
}
