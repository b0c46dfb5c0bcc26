package core

// DecisionResult is the outcome of a Decide function.
//
// Construct it only through IdempotentDecision, SuccessDecision, ErrorDecision and RejectedDecision.
type DecisionResult struct {
	Outcome string
	Events  DomainEvents // empty for idempotent and rejected decisions
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
	rejectedOutcome   = "rejected"
)

// IdempotentDecision means the requested state already holds.
func IdempotentDecision() DecisionResult {
	return DecisionResult{Outcome: idempotentOutcome}
}

// SuccessDecision carries the events to append. All of them are appended atomically.
func SuccessDecision(event DomainEvent, more ...DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Events:  append(DomainEvents{event}, more...),
	}
}

// ErrorDecision is a business rule violation that leaves an audit event behind.
func ErrorDecision(event DomainEvent, err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Events:  DomainEvents{event},
		Err:     err,
	}
}

// RejectedDecision is a business rule violation without anything to record,
// for example an operation on a record that does not exist.
func RejectedDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: rejectedOutcome,
		Err:     err,
	}
}

// HasEventToAppend returns true if there is at least one event to append.
func (r DecisionResult) HasEventToAppend() bool {
	return len(r.Events) > 0
}

// IsIdempotent returns true when nothing had to change.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasError returns the business error, if any.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome || r.Outcome == rejectedOutcome {
		return r.Err
	}

	return nil
}
