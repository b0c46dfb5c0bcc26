// Package observable wraps command and query handlers with metrics, tracing and logging while the
// handlers keep only business logic.
//
// Wrapping happens at wiring time, so the composition stays visible:
//
//	core := approveborrow.NewCommandHandler(eventStore)
//	handler, err := observable.NewCommandWrapper[approveborrow.Command, core.BorrowRecord](
//		core,
//		observable.WithCommandMetrics[approveborrow.Command, core.BorrowRecord](metricsCollector),
//		observable.WithCommandContextualLogging[approveborrow.Command, core.BorrowRecord](logger),
//	)
//
// Tests of business rules use the bare handlers.
package observable
