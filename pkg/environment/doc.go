// Package environment names the deployment environment and carries it
// through context.Context.
//
// Parse accepts full and short names ("production", "prod"); Environment
// implements encoding.TextUnmarshaler so configuration loaders decode it
// directly. WithContext and FromContext store and read the value, and
// LoggerExtractor exposes it to slog based loggers.
package environment
