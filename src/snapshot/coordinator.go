package snapshot

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/quantstash/expiry-snapshot/src/models"
	"github.com/quantstash/expiry-snapshot/src/smartapi"
)

// DefaultMaxWorkers bounds the concurrent requests against the rate-sensitive
// history endpoint.
const DefaultMaxWorkers = 3

// FetchWindow is the shared minute-candle window for one index's batch.
type FetchWindow struct {
	From time.Time
	To   time.Time
}

// ExpiryFetchWindow is the window used on expiry day: ninety days of minute
// candles up to the 15:30 close.
func ExpiryFetchWindow(expiry time.Time) FetchWindow {
	from := expiry.AddDate(0, 0, -90)

	return FetchWindow{
		From: time.Date(from.Year(), from.Month(), from.Day(), 9, 15, 0, 0, expiry.Location()),
		To:   time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 15, 30, 0, 0, expiry.Location()),
	}
}

// Coordinator runs a bounded pool of workers over a contract list and merges
// the outcomes into the shared archive and tally. Workers only ever produce
// outcomes; all archive and tally mutation happens via the locked methods of
// those two types, one insert at a time.
type Coordinator struct {
	Fetcher CandleFetcher
	Retry   models.RetryPolicy
	Workers int
}

// Run dispatches every contract and blocks until each one has an outcome,
// success or failure. Outcomes are handled in arrival order; completion order
// is unrelated to submission order.
func (c *Coordinator) Run(index string, contracts []models.ContractRow, window FetchWindow, archive *Archive, tally *models.RunTally) {
	workers := c.Workers
	if workers <= 0 {
		workers = DefaultMaxWorkers
	}

	jobs := make(chan models.ContractRow)
	outcomes := make(chan models.FetchOutcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for row := range jobs {
				outcomes <- c.fetchContract(row, window)
			}
		}()
	}

	go func() {
		for _, row := range contracts {
			jobs <- row
		}
		close(jobs)

		wg.Wait()
		close(outcomes)
	}()

	for outcome := range outcomes {
		c.collect(index, outcome, archive, tally)
	}
}

// collect merges one outcome. An empty series counts as a failure and never
// produces an archive entry.
func (c *Coordinator) collect(index string, outcome models.FetchOutcome, archive *Archive, tally *models.RunTally) {
	if outcome.Kind != models.OutcomeData || len(outcome.Candles) == 0 {
		reason := outcome.Reason
		if reason == "" {
			reason = "no data"
		}

		tally.AddFailure(index, outcome.TradingSymbol, reason)
		return
	}

	data, err := serializeCandles(outcome.Candles)
	if err != nil {
		log.Errorf("Coordinator.collect: failed to serialize %s: %v", outcome.TradingSymbol, err)
		tally.AddFailure(index, outcome.TradingSymbol, "serialization failed")
		return
	}

	if err := archive.AddEntry(outcome.TradingSymbol+".csv", data); err != nil {
		log.Errorf("Coordinator.collect: failed to archive %s: %v", outcome.TradingSymbol, err)
		tally.AddFailure(index, outcome.TradingSymbol, "archive write failed")
		return
	}

	tally.AddSuccess(index, outcome.TradingSymbol)
}

// fetchContract is the worker body: one contract, the full retry budget. It
// never returns an error, only a typed outcome.
func (c *Coordinator) fetchContract(row models.ContractRow, window FetchWindow) models.FetchOutcome {
	params := smartapi.CandleParams{
		Exchange:    "NFO",
		SymbolToken: row.Token,
		Interval:    models.IntervalOneMinute,
		FromDate:    window.From.Format(smartapi.DatetimeLayout),
		ToDate:      window.To.Format(smartapi.DatetimeLayout),
	}

	for attempt := 1; attempt <= c.Retry.MaxAttempts; attempt++ {
		resp, err := c.Fetcher.GetCandles(params)
		if err == nil && resp.Status {
			candles, convErr := resp.Candles()
			if convErr == nil {
				return models.DataOutcome(row.TradingSymbol, candles)
			}

			err = convErr
		}

		if err != nil {
			log.Warnf("fetchContract: %s attempt %d/%d failed: %v", row.TradingSymbol, attempt, c.Retry.MaxAttempts, err)
		} else {
			log.Warnf("fetchContract: %s attempt %d/%d returned not ok: %s", row.TradingSymbol, attempt, c.Retry.MaxAttempts, resp.Message)
		}

		if attempt < c.Retry.MaxAttempts {
			time.Sleep(c.Retry.Backoff(attempt))
		}
	}

	return models.NoDataOutcome(row.TradingSymbol, "no data")
}
