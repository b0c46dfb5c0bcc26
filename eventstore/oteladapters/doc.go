// Package oteladapters implements the eventstore observability interfaces on OpenTelemetry:
// spans through otel/trace and context-aware logging through the otelslog bridge.
package oteladapters
