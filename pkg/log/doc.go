// Package log is the structured logging layer of the client.
//
// Components accept a Logger and fall back to NoopLogger, so the library is
// silent unless the application opts in:
//
//	lg := log.NewZapLogger(log.Config{Format: "logfmt", Level: log.LevelDebug})
//	builder, err := rpc.NewBuilder(rpc.BuilderConfig{Logger: lg.WithName("trustly"), ...})
//
// Loggers travel through a context with SetContextLogger/FromContext. If the
// context carries an OpenTelemetry span, entries are also recorded as span
// events and Error/Fatal entries set the span status.
//
// Config is read from LOG_FORMAT (console, logfmt, json), LOG_LEVEL and
// LOG_OUTPUT (stderr, stdout or a file path).
package log
