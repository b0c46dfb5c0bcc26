package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the probes at the root and the circulation API under /api/v1.
// Staff operations require the X-Staff-ID header.
func NewRouter(handler *Handler, health *HealthHandler, logger *slog.Logger) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(Metrics())
	router.Use(RequestLogger(logger))

	router.Get("/health/live", health.Live)
	router.Get("/health/ready", health.Ready)
	router.Get("/metrics", health.Metrics)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/borrowers", func(r chi.Router) {
			r.Post("/", handler.registerBorrower)
			r.Get("/{studentID}", handler.getBorrower)
			r.Get("/{studentID}/eligibility", handler.getEligibility)
			r.Get("/{studentID}/notifications", handler.getNotifications)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", handler.listBooks)
			r.With(RequireStaffID).Post("/", handler.addBook)
			r.With(RequireStaffID).Post("/{bookID}/archive", handler.archiveBook)
		})

		r.Route("/archive", func(r chi.Router) {
			r.Get("/", handler.listArchive)
			r.With(RequireStaffID).Post("/sweep", handler.sweepArchive)
			r.With(RequireStaffID).Post("/{bookID}/retrieve", handler.retrieveArchivedBook)
			r.With(RequireStaffID).Delete("/{bookID}", handler.deleteArchivedBook)
		})

		r.Route("/borrow-records", func(r chi.Router) {
			r.Post("/", handler.createBorrowRequest)
			r.Get("/", handler.listBorrowRecords)
			r.Get("/{borrowID}", handler.getBorrowRecord)
			r.Get("/{borrowID}/overdue-status", handler.getOverdueStatus)

			r.Group(func(r chi.Router) {
				r.Use(RequireStaffID)
				r.Post("/{borrowID}/approve", handler.transition(handler.circulation.ApproveRequest))
				r.Post("/{borrowID}/decline", handler.transition(handler.circulation.DeclineRequest))
				r.Post("/{borrowID}/lost", handler.transition(handler.circulation.MarkLost))
				r.Post("/{borrowID}/return", handler.returnBook)
				r.Post("/{borrowID}/settle", handler.settlePenalty)
			})
		})

		r.Get("/reports/penalties", handler.getPenaltySummary)
	})

	return router
}
