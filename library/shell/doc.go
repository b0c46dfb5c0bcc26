// Package shell connects the pure domain in core to the event store.
//
// It maps domain events to and from storable events, appends decisions with their metadata, retries
// concurrency conflicts when configured to, and holds the observability helpers every handler shares.
// In hexagonal architecture terms this is the 'infrastructure' side of the features.
package shell
