package circulation

import (
	"errors"
	"fmt"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/command/addbook"
	"github.com/schoollibrary/circulation/library/features/command/approveborrow"
	"github.com/schoollibrary/circulation/library/features/command/archivebook"
	"github.com/schoollibrary/circulation/library/features/command/declineborrow"
	"github.com/schoollibrary/circulation/library/features/command/deletearchivedbook"
	"github.com/schoollibrary/circulation/library/features/command/marklost"
	"github.com/schoollibrary/circulation/library/features/command/registerborrower"
	"github.com/schoollibrary/circulation/library/features/command/requestborrow"
	"github.com/schoollibrary/circulation/library/features/command/retrievearchivedbook"
	"github.com/schoollibrary/circulation/library/features/command/returnbook"
	"github.com/schoollibrary/circulation/library/features/command/settlepenalty"
	"github.com/schoollibrary/circulation/library/features/command/sweeparchiveexpiry"
	"github.com/schoollibrary/circulation/library/features/query/archivedbooks"
	"github.com/schoollibrary/circulation/library/features/query/bookcatalog"
	"github.com/schoollibrary/circulation/library/features/query/borrowerprofile"
	"github.com/schoollibrary/circulation/library/features/query/borrowrecord"
	"github.com/schoollibrary/circulation/library/features/query/borrowrecords"
	"github.com/schoollibrary/circulation/library/features/query/eligibility"
	"github.com/schoollibrary/circulation/library/features/query/notifications"
	"github.com/schoollibrary/circulation/library/features/query/penaltysummary"
	"github.com/schoollibrary/circulation/library/shell"
	"github.com/schoollibrary/circulation/library/shell/observable"
)

// handlerBundle contains all command and query handlers, each wrapped for observability.
type handlerBundle struct {
	// Command handlers.
	registerBorrower     shell.CommandHandler[registerborrower.Command, core.Borrower]
	addBook              shell.CommandHandler[addbook.Command, core.Book]
	requestBorrow        shell.CommandHandler[requestborrow.Command, core.BorrowRecord]
	approveBorrow        shell.CommandHandler[approveborrow.Command, core.BorrowRecord]
	declineBorrow        shell.CommandHandler[declineborrow.Command, core.BorrowRecord]
	returnBook           shell.CommandHandler[returnbook.Command, core.BorrowRecord]
	markLost             shell.CommandHandler[marklost.Command, core.BorrowRecord]
	settlePenalty        shell.CommandHandler[settlepenalty.Command, core.BorrowRecord]
	archiveBook          shell.CommandHandler[archivebook.Command, core.ArchivedBook]
	retrieveArchivedBook shell.CommandHandler[retrievearchivedbook.Command, core.Book]
	deleteArchivedBook   shell.CommandHandler[deletearchivedbook.Command, core.ArchivedBook]
	sweepArchiveExpiry   shell.CommandHandler[sweeparchiveexpiry.Command, []core.BookIDString]

	// Query handlers.
	borrowRecord    shell.QueryHandler[borrowrecord.Query, borrowrecord.BorrowRecordView]
	borrowRecords   shell.QueryHandler[borrowrecords.Query, borrowrecords.BorrowRecordList]
	eligibility     shell.QueryHandler[eligibility.Query, eligibility.Eligibility]
	archivedBooks   shell.QueryHandler[archivedbooks.Query, archivedbooks.ArchivedBookList]
	bookCatalog     shell.QueryHandler[bookcatalog.Query, bookcatalog.BookList]
	borrowerProfile shell.QueryHandler[borrowerprofile.Query, borrowerprofile.Profile]
	notifications   shell.QueryHandler[notifications.Query, notifications.Notifications]
	penaltySummary  shell.QueryHandler[penaltysummary.Query, penaltysummary.Summary]
}

// wiring collects the errors of all wrappers, so newHandlerBundle reports them in one go.
type wiring struct {
	observability Observability
	err           error
}

func newHandlerBundle(store shell.EventStore, observability Observability, retry []shell.RetryOption) (handlerBundle, error) {
	w := &wiring{observability: observability}

	bundle := handlerBundle{
		registerBorrower: wrapCommand[registerborrower.Command, core.Borrower](w,
			registerborrower.NewCommandHandler(store, registerborrower.WithRetryOptions(retry...))),
		addBook: wrapCommand[addbook.Command, core.Book](w,
			addbook.NewCommandHandler(store, addbook.WithRetryOptions(retry...))),
		requestBorrow: wrapCommand[requestborrow.Command, core.BorrowRecord](w,
			requestborrow.NewCommandHandler(store, requestborrow.WithRetryOptions(retry...))),
		approveBorrow: wrapCommand[approveborrow.Command, core.BorrowRecord](w,
			approveborrow.NewCommandHandler(store, approveborrow.WithRetryOptions(retry...))),
		declineBorrow: wrapCommand[declineborrow.Command, core.BorrowRecord](w,
			declineborrow.NewCommandHandler(store, declineborrow.WithRetryOptions(retry...))),
		returnBook: wrapCommand[returnbook.Command, core.BorrowRecord](w,
			returnbook.NewCommandHandler(store, returnbook.WithRetryOptions(retry...))),
		markLost: wrapCommand[marklost.Command, core.BorrowRecord](w,
			marklost.NewCommandHandler(store, marklost.WithRetryOptions(retry...))),
		settlePenalty: wrapCommand[settlepenalty.Command, core.BorrowRecord](w,
			settlepenalty.NewCommandHandler(store, settlepenalty.WithRetryOptions(retry...))),
		archiveBook: wrapCommand[archivebook.Command, core.ArchivedBook](w,
			archivebook.NewCommandHandler(store, archivebook.WithRetryOptions(retry...))),
		retrieveArchivedBook: wrapCommand[retrievearchivedbook.Command, core.Book](w,
			retrievearchivedbook.NewCommandHandler(store, retrievearchivedbook.WithRetryOptions(retry...))),
		deleteArchivedBook: wrapCommand[deletearchivedbook.Command, core.ArchivedBook](w,
			deletearchivedbook.NewCommandHandler(store, deletearchivedbook.WithRetryOptions(retry...))),
		sweepArchiveExpiry: wrapCommand[sweeparchiveexpiry.Command, []core.BookIDString](w,
			sweeparchiveexpiry.NewCommandHandler(store, sweeparchiveexpiry.WithRetryOptions(retry...))),

		borrowRecord: wrapQuery[borrowrecord.Query, borrowrecord.BorrowRecordView](w,
			borrowrecord.NewQueryHandler(store)),
		borrowRecords: wrapQuery[borrowrecords.Query, borrowrecords.BorrowRecordList](w,
			borrowrecords.NewQueryHandler(store)),
		eligibility: wrapQuery[eligibility.Query, eligibility.Eligibility](w,
			eligibility.NewQueryHandler(store)),
		archivedBooks: wrapQuery[archivedbooks.Query, archivedbooks.ArchivedBookList](w,
			archivedbooks.NewQueryHandler(store)),
		bookCatalog: wrapQuery[bookcatalog.Query, bookcatalog.BookList](w,
			bookcatalog.NewQueryHandler(store)),
		borrowerProfile: wrapQuery[borrowerprofile.Query, borrowerprofile.Profile](w,
			borrowerprofile.NewQueryHandler(store)),
		notifications: wrapQuery[notifications.Query, notifications.Notifications](w,
			notifications.NewQueryHandler(store)),
		penaltySummary: wrapQuery[penaltysummary.Query, penaltysummary.Summary](w,
			penaltysummary.NewQueryHandler(store)),
	}

	return bundle, w.err
}

func wrapCommand[C shell.Command, R any](w *wiring, handler shell.CommandHandler[C, R]) shell.CommandHandler[C, R] {
	wrapper, err := observable.NewCommandWrapper(handler,
		observable.WithCommandMetrics[C, R](w.observability.Metrics),
		observable.WithCommandTracing[C, R](w.observability.Tracing),
		observable.WithCommandContextualLogging[C, R](w.observability.ContextualLogger),
		observable.WithCommandLogging[C, R](w.observability.Logger),
	)
	if err != nil {
		var zero C
		w.err = errors.Join(w.err, fmt.Errorf("failed to create %s handler: %w", zero.CommandType(), err))

		return handler
	}

	return wrapper
}

func wrapQuery[Q shell.Query, R any](w *wiring, handler shell.QueryHandler[Q, R]) shell.QueryHandler[Q, R] {
	wrapper, err := observable.NewQueryWrapper(handler,
		observable.WithQueryMetrics[Q, R](w.observability.Metrics),
		observable.WithQueryTracing[Q, R](w.observability.Tracing),
		observable.WithQueryContextualLogging[Q, R](w.observability.ContextualLogger),
		observable.WithQueryLogging[Q, R](w.observability.Logger),
	)
	if err != nil {
		var zero Q
		w.err = errors.Join(w.err, fmt.Errorf("failed to create %s handler: %w", zero.QueryType(), err))

		return handler
	}

	return wrapper
}
