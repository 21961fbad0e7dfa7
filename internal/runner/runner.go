// Package runner drives one adapter end-to-end: fetch the results
// page, parse it into records, persist each record, report timing. A
// run either reaches DONE or ends in ERRORED; there is no mid-run
// abort.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/maisonnat/GauchoAPI/internal/metrics"
	"github.com/maisonnat/GauchoAPI/internal/models"
	"github.com/maisonnat/GauchoAPI/internal/notify"
	"github.com/maisonnat/GauchoAPI/internal/scraper"
)

type State string

const (
	StateStart      State = "START"
	StateFetching   State = "FETCHING"
	StateParsing    State = "PARSING"
	StatePersisting State = "PERSISTING"
	StateDone       State = "DONE"
	StateErrored    State = "ERRORED"
)

// ProductStore is the persistence contract the runner needs. Satisfied
// by database.ProductRepository.
type ProductStore interface {
	Upsert(ctx context.Context, p *models.Product) error
}

// Result is the outcome of one run.
type Result struct {
	RunID     string           `json:"run_id"`
	Store     string           `json:"store"`
	State     State            `json:"state"`
	Products  []models.Product `json:"products"`
	Persisted int              `json:"persisted"`
	Duration  time.Duration    `json:"duration"`
	Err       error            `json:"-"`
}

type Runner struct {
	store    ProductStore
	notifier notify.Notifier
	logger   *slog.Logger
}

// New builds a runner. notifier may be nil; notifications are then
// skipped even when a run asks for them.
func New(store ProductStore, notifier notify.Notifier, logger *slog.Logger) *Runner {
	return &Runner{
		store:    store,
		notifier: notifier,
		logger:   logger.With("component", "runner"),
	}
}

// Run executes one adapter. Persistence failures are logged per record
// and never abort the batch; fetch and parse failures end the run in
// ERRORED. Wall-clock duration is recorded regardless of outcome.
func (r *Runner) Run(ctx context.Context, adapter scraper.Adapter, sendNotifications bool) (result Result) {
	result = Result{
		RunID: uuid.New().String(),
		Store: adapter.Site(),
		State: StateStart,
	}

	logger := r.logger.With("store", result.Store, "run_id", result.RunID)
	logger.Info("starting scraper run")
	metrics.RunsStarted.WithLabelValues(result.Store).Inc()

	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		metrics.RunDuration.WithLabelValues(result.Store).Observe(result.Duration.Seconds())
	}()

	result.State = StateFetching
	html, err := adapter.FetchResults(ctx)
	if err != nil {
		result = r.errored(logger, result, err, sendNotifications)
		return result
	}

	result.State = StateParsing
	products, err := adapter.ParseResults(html)
	if err != nil {
		result = r.errored(logger, result, err, sendNotifications)
		return result
	}
	result.Products = products

	result.State = StatePersisting
	for i := range products {
		if err := r.store.Upsert(ctx, &products[i]); err != nil {
			perr := &scraper.PersistenceError{URL: products[i].URL, Err: err}
			logger.Error("failed to persist product", "error", perr)
			continue
		}
		result.Persisted++
		metrics.ProductsPersisted.WithLabelValues(result.Store).Inc()
	}

	result.State = StateDone
	metrics.RunsCompleted.WithLabelValues(result.Store).Inc()
	logger.Info("scraper run finished",
		"products", len(result.Products),
		"persisted", result.Persisted,
		"elapsed", time.Since(start).String(),
	)

	return result
}

func (r *Runner) errored(logger *slog.Logger, result Result, err error, sendNotifications bool) Result {
	result.State = StateErrored
	result.Err = err

	logger.Error("scraper run failed", "state", result.State, "error", err)
	metrics.RunsErrored.WithLabelValues(result.Store, errKind(err)).Inc()

	if sendNotifications && r.notifier != nil {
		subject := fmt.Sprintf("Error trying to run: %s", result.Store)
		body := fmt.Sprintf("Message error: %s", errMessage(err))
		if nerr := r.notifier.Notify(subject, body); nerr != nil {
			logger.Error("failed to send notification", "error", nerr)
		}
	}

	return result
}

func errKind(err error) string {
	var transport *scraper.TransportError
	if errors.As(err, &transport) {
		return "transport"
	}
	var structural *scraper.ScraperError
	if errors.As(err, &structural) {
		return "scraper"
	}
	return "other"
}

func errMessage(err error) string {
	var structural *scraper.ScraperError
	if errors.As(err, &structural) {
		return structural.Message
	}
	return err.Error()
}
