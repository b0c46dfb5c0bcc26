package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/schoollibrary/circulation/library/circulation"
	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
)

const (
	scenarioLending   = "lending"
	scenarioReturning = "returning"
	scenarioCatalog   = "catalog"

	operationTimeout = 5 * time.Second
)

// simClock runs faster than the wall clock so that loans become overdue while the generator runs.
type simClock struct {
	wallStart time.Time
	simStart  time.Time
	factor    float64
}

func newSimClock(start time.Time, simDayEvery time.Duration) *simClock {
	return &simClock{
		wallStart: time.Now(),
		simStart:  start,
		factor:    float64(24*time.Hour) / float64(simDayEvery),
	}
}

func (c *simClock) Now() time.Time {
	elapsed := time.Duration(float64(time.Since(c.wallStart)) * c.factor)
	return c.simStart.Add(elapsed)
}

// loadState remembers the IDs the scenarios pick from.
type loadState struct {
	mu       sync.Mutex
	books    []uuid.UUID
	students []uuid.UUID
	active   []uuid.UUID
}

func (s *loadState) pick(ids []uuid.UUID) (uuid.UUID, bool) {
	if len(ids) == 0 {
		return uuid.Nil, false
	}

	return ids[rand.IntN(len(ids))], true //nolint:gosec // load data
}

func (s *loadState) randomBookAndStudent() (uuid.UUID, uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, okBook := s.pick(s.books)
	student, okStudent := s.pick(s.students)

	return book, student, okBook && okStudent
}

func (s *loadState) addBook(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = append(s.books, id)
}

func (s *loadState) addStudent(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.students = append(s.students, id)
}

func (s *loadState) addActive(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = append(s.active, id)
}

// takeActive removes and returns a random active loan.
func (s *loadState) takeActive() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.active) == 0 {
		return uuid.Nil, false
	}

	i := rand.IntN(len(s.active)) //nolint:gosec // load data
	id := s.active[i]
	s.active[i] = s.active[len(s.active)-1]
	s.active = s.active[:len(s.active)-1]

	return id, true
}

// stats are updated from many goroutines.
type stats struct {
	requests  atomic.Int64
	rejected  atomic.Int64
	conflicts atomic.Int64
	errors    atomic.Int64
}

// LoadGenerator drives the circulation service with a weighted mix of scenarios at a fixed rate.
type LoadGenerator struct {
	service *circulation.Service
	config  Config
	logger  *slog.Logger
	state   loadState
	stats   stats
	wg      sync.WaitGroup
	started time.Time
}

// NewLoadGenerator creates a LoadGenerator.
func NewLoadGenerator(service *circulation.Service, config Config, logger *slog.Logger) *LoadGenerator {
	return &LoadGenerator{
		service: service,
		config:  config,
		logger:  logger.With(slog.String("component", "loadgen")),
	}
}

// Seed adds the initial catalog and borrowers.
func (lg *LoadGenerator) Seed(ctx context.Context) error {
	for i := range lg.config.InitialBooks {
		if err := lg.addBook(ctx, i); err != nil {
			return fmt.Errorf("seeding book %d: %w", i, err)
		}
	}

	for i := range lg.config.Students {
		borrower, err := lg.service.RegisterBorrower(ctx, uuid.Nil, core.BorrowerDetails{
			FullName: fmt.Sprintf("Student %03d", i+1),
			LRN:      fmt.Sprintf("%012d", 100000000000+i),
			Grade:    fmt.Sprintf("%d", 7+i%6),
		})
		if err != nil {
			return fmt.Errorf("seeding student %d: %w", i, err)
		}

		lg.state.addStudent(uuid.MustParse(borrower.StudentID))
	}

	lg.logger.Info("seeded", slog.Int("books", lg.config.InitialBooks), slog.Int("students", lg.config.Students))

	return nil
}

// Run fires one scenario per tick until ctx is done, then waits for the running ones.
func (lg *LoadGenerator) Run(ctx context.Context) {
	lg.started = time.Now()

	ticker := time.NewTicker(time.Second / time.Duration(lg.config.Rate))
	defer ticker.Stop()

	report := time.NewTicker(10 * time.Second)
	defer report.Stop()

	for {
		select {
		case <-ctx.Done():
			lg.wg.Wait()
			lg.logStats("final stats")

			return
		case <-report.C:
			lg.logStats("stats")
		case <-ticker.C:
			lg.wg.Add(1)

			go func() {
				defer lg.wg.Done()
				lg.Step(ctx)
			}()
		}
	}
}

// Step runs one randomly chosen scenario and counts its outcome.
func (lg *LoadGenerator) Step(ctx context.Context) {
	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	scenario := lg.selectScenario()

	var err error
	switch scenario {
	case scenarioLending:
		err = lg.runLending(opCtx)
	case scenarioReturning:
		err = lg.runReturning(opCtx)
	default:
		err = lg.runCatalog(opCtx)
	}

	lg.stats.requests.Add(1)

	switch {
	case err == nil:
	case core.IsBusinessRuleViolation(err):
		lg.stats.rejected.Add(1)
	case errors.Is(err, shell.ErrConcurrencyConflict):
		lg.stats.conflicts.Add(1)
	case errors.Is(err, context.Canceled):
	default:
		lg.stats.errors.Add(1)
		lg.logger.Error("scenario failed", slog.String("scenario", scenario), slog.String("error", err.Error()))
	}
}

// selectScenario applies the weights [lending, returning, catalog].
func (lg *LoadGenerator) selectScenario() string {
	r := rand.IntN(100) //nolint:gosec // load data

	switch {
	case r < lg.config.ScenarioWeights[0]:
		return scenarioLending
	case r < lg.config.ScenarioWeights[0]+lg.config.ScenarioWeights[1]:
		return scenarioReturning
	default:
		return scenarioCatalog
	}
}

// runLending requests a book and approves nine out of ten requests.
func (lg *LoadGenerator) runLending(ctx context.Context) error {
	bookID, studentID, ok := lg.state.randomBookAndStudent()
	if !ok {
		return nil
	}

	record, err := lg.service.CreateBorrowRequest(ctx, bookID, studentID, 1+rand.IntN(7)) //nolint:gosec // load data
	if err != nil {
		return err
	}

	borrowID := uuid.MustParse(record.BorrowID)

	if rand.IntN(10) == 0 { //nolint:gosec // load data
		_, err = lg.service.DeclineRequest(ctx, borrowID, "loadgen")
		return err
	}

	if _, err = lg.service.ApproveRequest(ctx, borrowID, "loadgen"); err != nil {
		return err
	}

	lg.state.addActive(borrowID)

	return nil
}

// runReturning closes an active loan. One in twenty is lost and paid for right away.
func (lg *LoadGenerator) runReturning(ctx context.Context) error {
	borrowID, ok := lg.state.takeActive()
	if !ok {
		return nil
	}

	if rand.IntN(20) == 0 { //nolint:gosec // load data
		if _, err := lg.service.MarkLost(ctx, borrowID, "loadgen"); err != nil {
			return err
		}

		_, _, err := lg.service.SettlePenalty(ctx, borrowID, "loadgen")

		return err
	}

	_, err := lg.service.ReturnBook(ctx, borrowID, "loadgen", true)

	return err
}

// runCatalog adds a new title or archives a random one and sometimes retrieves it again.
func (lg *LoadGenerator) runCatalog(ctx context.Context) error {
	if rand.IntN(2) == 0 { //nolint:gosec // load data
		return lg.addBook(ctx, rand.IntN(1_000_000)) //nolint:gosec // load data
	}

	bookID, _, ok := lg.state.randomBookAndStudent()
	if !ok {
		return nil
	}

	if _, err := lg.service.ArchiveBook(ctx, bookID, "loadgen"); err != nil {
		return err
	}

	if rand.IntN(2) == 0 { //nolint:gosec // load data
		_, err := lg.service.RetrieveArchivedBook(ctx, bookID, "loadgen")
		return err
	}

	return nil
}

func (lg *LoadGenerator) addBook(ctx context.Context, n int) error {
	book, err := lg.service.AddBook(ctx, "loadgen", core.BookDetails{
		ISBN:   "978-" + uuid.NewString()[:13],
		Title:  fmt.Sprintf("Load Test Title %d", n),
		Author: "Test Author",
		Genre:  "Reference",
		Year:   2000 + n%25,
		Copies: 1 + rand.IntN(3), //nolint:gosec // load data
		Price:  decimal.NewFromInt(int64(100 + rand.IntN(400))), //nolint:gosec // load data
	})
	if err != nil {
		return err
	}

	lg.state.addBook(uuid.MustParse(book.BookID))

	return nil
}

func (lg *LoadGenerator) logStats(msg string) {
	elapsed := time.Since(lg.started)
	requests := lg.stats.requests.Load()

	rps := 0.0
	if elapsed > 0 {
		rps = float64(requests) / elapsed.Seconds()
	}

	lg.logger.Info(msg,
		slog.Int64("requests", requests),
		slog.Float64("rps", rps),
		slog.Int64("rejected", lg.stats.rejected.Load()),
		slog.Int64("conflicts", lg.stats.conflicts.Load()),
		slog.Int64("errors", lg.stats.errors.Load()),
		slog.Time("simulated_now", lg.service.Now()),
	)
}
