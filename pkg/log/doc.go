// Package log wraps zerolog with the module's logging conventions: a global
// structured logger, console or JSON output, and component- and
// resource-scoped child loggers.
package log
