package snapshot

import (
	"math/rand"
	"sync"
	"time"

	"github.com/quantstash/expiry-snapshot/src/models"
	"github.com/quantstash/expiry-snapshot/src/smartapi"
	"github.com/quantstash/expiry-snapshot/src/utils"
)

// fakeFetcher is a synthetic candle provider. Responses are keyed by
// instrument token; unknown tokens get a small default series. failTokens
// always return a not-ok status, maxDelay adds a randomized artificial
// completion delay to shake out interleaving bugs.
type fakeFetcher struct {
	mu         sync.Mutex
	params     []smartapi.CandleParams
	responses  map[string]smartapi.CandleResponse
	err        error
	notOK      bool
	failTokens map[string]bool
	maxDelay   time.Duration
}

func (f *fakeFetcher) GetCandles(params smartapi.CandleParams) (smartapi.CandleResponse, error) {
	f.mu.Lock()
	f.params = append(f.params, params)
	delay := f.maxDelay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(delay))))
	}

	if f.err != nil {
		return smartapi.CandleResponse{}, f.err
	}

	if f.notOK || f.failTokens[params.SymbolToken] {
		return smartapi.CandleResponse{Status: false, Message: "Something Went Wrong"}, nil
	}

	if resp, ok := f.responses[params.SymbolToken]; ok {
		return resp, nil
	}

	return smartapi.CandleResponse{Status: true, Rows: minuteRows(3)}, nil
}

func (f *fakeFetcher) Params() []smartapi.CandleParams {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]smartapi.CandleParams, len(f.params))
	copy(out, f.params)
	return out
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.params)
}

func minuteRows(n int) [][]interface{} {
	start := time.Date(2026, 8, 28, 9, 15, 0, 0, utils.IST)

	var rows [][]interface{}
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * time.Minute)
		rows = append(rows, []interface{}{
			ts.Format(time.RFC3339),
			100.0 + float64(i), 101.0 + float64(i), 99.0 + float64(i), 100.5 + float64(i), 500.0,
		})
	}

	return rows
}

func contractFixture(tokens ...string) []models.ContractRow {
	var contracts []models.ContractRow
	for i, token := range tokens {
		contracts = append(contracts, models.ContractRow{
			Symbol:        "BANKNIFTY",
			Instrument:    "OPTIDX",
			Expiry:        "28-AUG-2026",
			StrikePrice:   49100 + 100*float64(i),
			TradingSymbol: "BANKNIFTY28AUG26C" + token,
			Token:         token,
		})
	}

	return contracts
}

// dailyHistory serves the BANKNIFTY reference token enough daily candles to
// derive a [49200, 52900] strike range with the standard profile.
func dailyHistory() map[string]smartapi.CandleResponse {
	start := time.Date(2026, 7, 20, 9, 15, 0, 0, utils.IST)

	rows := [][]interface{}{
		{start.Format(time.RFC3339), 50500.0, 51870.0, 50230.0, 51000.0, 1000.0},
		{start.AddDate(0, 0, 1).Format(time.RFC3339), 51000.0, 51500.0, 50600.0, 51200.0, 1000.0},
	}

	return map[string]smartapi.CandleResponse{
		"99926009": {Status: true, Rows: rows},
	}
}

// fakeDeliverer records handed-off archives.
type fakeDeliverer struct {
	mu    sync.Mutex
	names []string
	blobs [][]byte
	err   error
}

func (d *fakeDeliverer) SendDocument(name string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.err != nil {
		return d.err
	}

	d.names = append(d.names, name)
	d.blobs = append(d.blobs, data)
	return nil
}
