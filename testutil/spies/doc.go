// Package spies provides test doubles for the observability interfaces of the event store and the handlers.
// Every spy records its calls behind a mutex, so it can be shared by concurrent code under test.
package spies
