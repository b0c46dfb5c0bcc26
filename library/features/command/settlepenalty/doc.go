// Package settlepenalty implements the Settle Penalty use case: a pending penalty is marked as paid,
// which lifts the ban it caused. Settling a paid penalty again is a no-op that reports "already settled".
package settlepenalty
