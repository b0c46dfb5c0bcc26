package eventstore

import "context"

// ConsistencyLevel tells an engine whether a read may be served by a replica.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary. Command handlers always use it because they
	// decide on what they read and then append against it.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows replica reads for pure queries.
	EventualConsistency
)

type contextKey string

const consistencyLevelKey contextKey = "eventstore.consistency_level"

// WithStrongConsistency marks ctx so that engines read from the primary.
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, consistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency marks ctx so that engines may read from a replica.
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, consistencyLevelKey, EventualConsistency)
}

// ConsistencyLevelFrom returns the level stored in ctx. Unmarked contexts are strongly consistent.
func ConsistencyLevelFrom(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(consistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}
