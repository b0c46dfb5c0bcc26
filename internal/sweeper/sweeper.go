// Package sweeper runs the periodic housekeeping of the circulation service.
//
// Each run purges archived books past their retention and scans the open loans for overdue ones.
// The scan refreshes the circulation gauges and logs one reminder per overdue loan.
package sweeper

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/query/borrowrecords"
	"github.com/schoollibrary/circulation/library/features/query/penaltysummary"
)

var (
	sweepRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_sweep_runs_total",
		Help: "Sweeper runs by outcome",
	}, []string{"status"})

	sweepPurgedBooksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "library_sweep_purged_books_total",
		Help: "Archived books purged after their retention expired",
	})

	sweepDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "library_sweep_duration_seconds",
		Help:    "Duration of one sweeper run",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	})

	// LoansGauge holds the loan counts of the last run, by state.
	LoansGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "library_loans",
		Help: "Borrow records by state as of the last sweep",
	}, []string{"state"})

	// PenaltiesGauge holds the penalty amounts of the last run, by kind.
	PenaltiesGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "library_penalties_amount",
		Help: "Penalty amounts as of the last sweep",
	}, []string{"kind"})

	// BannedStudentsGauge holds the number of banned students as of the last run.
	BannedStudentsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "library_banned_students",
		Help: "Students banned from borrowing as of the last sweep",
	})
)

// Circulation is the part of circulation.Service the sweeper drives.
type Circulation interface {
	SweepArchiveExpiry(ctx context.Context) ([]core.BookIDString, error)
	BorrowRecords(ctx context.Context, filters borrowrecords.Filters) (borrowrecords.BorrowRecordList, error)
	PenaltySummary(ctx context.Context) (penaltysummary.Summary, error)
}

// Result describes one run.
type Result struct {
	PurgedBooks  []core.BookIDString
	OverdueLoans int
	Summary      penaltysummary.Summary
	Duration     time.Duration
}

// Sweeper calls RunOnce right after Start and then every interval.
type Sweeper struct {
	circulation Circulation
	interval    time.Duration
	logger      *slog.Logger

	mu      sync.Mutex // serializes RunOnce
	cancel  context.CancelFunc
	stopped chan struct{}
}

// New creates a Sweeper.
func New(circulation Circulation, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		circulation: circulation,
		interval:    interval,
		logger:      logger.With(slog.String("component", "sweeper")),
	}
}

// Start launches the background loop. It ends when ctx is done or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = make(chan struct{})

	go s.run(loopCtx)

	s.logger.Info("sweeper started", slog.String("interval", s.interval.String()))
}

// Stop ends the background loop and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	<-s.stopped
	s.cancel = nil

	s.logger.Info("sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.stopped)

	s.runLogged(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runLogged(ctx)
		}
	}
}

func (s *Sweeper) runLogged(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("sweep failed", slog.String("error", err.Error()))
	}
}

// RunOnce purges expired archive entries, then scans overdue loans and refreshes the gauges.
// A failed purge does not skip the scan; both errors are returned joined.
func (s *Sweeper) RunOnce(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	result := Result{}

	purged, purgeErr := s.circulation.SweepArchiveExpiry(ctx)
	if purgeErr == nil {
		result.PurgedBooks = purged
		sweepPurgedBooksTotal.Add(float64(len(purged)))

		for _, bookID := range purged {
			s.logger.Info("archived book purged", slog.String("book_id", bookID))
		}
	}

	scanErr := s.scanOverdue(ctx, &result)

	result.Duration = time.Since(start)
	sweepDurationSeconds.Observe(result.Duration.Seconds())

	err := errors.Join(purgeErr, scanErr)
	if err != nil {
		sweepRunsTotal.WithLabelValues("error").Inc()
		return result, err
	}

	sweepRunsTotal.WithLabelValues("success").Inc()

	s.logger.Info("sweep finished",
		slog.Int("purged", len(result.PurgedBooks)),
		slog.Int("overdue", result.OverdueLoans),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

func (s *Sweeper) scanOverdue(ctx context.Context, result *Result) error {
	overdue, err := s.circulation.BorrowRecords(ctx, borrowrecords.Filters{Status: borrowrecords.StatusOverdue})
	if err != nil {
		return err
	}

	result.OverdueLoans = overdue.Count

	for _, record := range overdue.Records {
		s.logger.Info("overdue reminder",
			slog.String("borrow_id", record.BorrowID),
			slog.String("student_id", record.StudentID),
			slog.String("student", record.StudentName),
			slog.String("book", record.BookTitle),
			slog.Int("overdue_days", record.OverdueDays),
			slog.String("penalty_fee", record.PenaltyFee.StringFixed(2)),
		)
	}

	summary, err := s.circulation.PenaltySummary(ctx)
	if err != nil {
		return err
	}

	result.Summary = summary
	publish(summary)

	return nil
}

func publish(summary penaltysummary.Summary) {
	LoansGauge.WithLabelValues("pending").Set(float64(summary.PendingRequests))
	LoansGauge.WithLabelValues("active").Set(float64(summary.ActiveLoans))
	LoansGauge.WithLabelValues("overdue").Set(float64(summary.OverdueLoans))
	LoansGauge.WithLabelValues("lost_unpaid").Set(float64(summary.LostUnpaid))

	PenaltiesGauge.WithLabelValues("accruing").Set(summary.AccruingFees.InexactFloat64())
	PenaltiesGauge.WithLabelValues("outstanding_lost").Set(summary.OutstandingLost.InexactFloat64())
	PenaltiesGauge.WithLabelValues("collected").Set(summary.Collected.InexactFloat64())

	BannedStudentsGauge.Set(float64(summary.BannedStudents))
}
