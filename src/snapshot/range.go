package snapshot

import (
	"time"

	"github.com/montanaflynn/stats"
	log "github.com/sirupsen/logrus"

	"github.com/quantstash/expiry-snapshot/src/models"
	"github.com/quantstash/expiry-snapshot/src/smartapi"
	"github.com/quantstash/expiry-snapshot/src/utils"
)

// CandleFetcher is the slice of the market-data client the pipeline depends
// on. The production implementation is *smartapi.Client.
type CandleFetcher interface {
	GetCandles(params smartapi.CandleParams) (smartapi.CandleResponse, error)
}

// DefaultLookbackWeeks is the daily-candle window used to derive the strike
// range.
const DefaultLookbackWeeks = 6

// FetchHistoricalSummary pulls the daily-candle window for an index token and
// condenses it. Any transport or data-shape problem degrades to nil: the
// caller treats that as "range unavailable" and skips the index, it never
// aborts the run.
func FetchHistoricalSummary(fetcher CandleFetcher, symbolToken string, weeks int, now time.Time) *models.HistoricalSummary {
	from := now.AddDate(0, 0, -7*weeks)

	resp, err := fetcher.GetCandles(smartapi.CandleParams{
		Exchange:    "NSE",
		SymbolToken: symbolToken,
		Interval:    models.IntervalOneDay,
		FromDate:    from.Format("2006-01-02") + " 09:15",
		ToDate:      now.Format(smartapi.DatetimeLayout),
	})
	if err != nil {
		log.Errorf("FetchHistoricalSummary: %s historical error: %v", symbolToken, err)
		return nil
	}

	if !resp.Status {
		log.Errorf("FetchHistoricalSummary: %s historical request not ok: %s", symbolToken, resp.Message)
		return nil
	}

	candles, err := resp.Candles()
	if err != nil {
		log.Errorf("FetchHistoricalSummary: %s malformed historical data: %v", symbolToken, err)
		return nil
	}

	if len(candles) == 0 {
		log.Errorf("FetchHistoricalSummary: %s returned no daily candles", symbolToken)
		return nil
	}

	lows := make(stats.Float64Data, 0, len(candles))
	highs := make(stats.Float64Data, 0, len(candles))
	for _, c := range candles {
		lows = append(lows, c.Low)
		highs = append(highs, c.High)
	}

	minLow, err := stats.Min(lows)
	if err != nil {
		log.Errorf("FetchHistoricalSummary: %s failed to compute min low: %v", symbolToken, err)
		return nil
	}

	maxHigh, err := stats.Max(highs)
	if err != nil {
		log.Errorf("FetchHistoricalSummary: %s failed to compute max high: %v", symbolToken, err)
		return nil
	}

	return &models.HistoricalSummary{
		MinLow:       minLow,
		MaxHigh:      maxHigh,
		CurrentClose: candles[len(candles)-1].Close,
	}
}

// EstimateStrikeRange derives the strike band from a historical summary. Pure
// function: same summary and profile always yield the same range.
func EstimateStrikeRange(summary models.HistoricalSummary, profile models.IndexProfile) models.StrikeRange {
	low := utils.FloorToMultiple(summary.MinLow-profile.Buffer, profile.RoundMultiple)
	if low < 0 {
		low = 0
	}

	high := utils.CeilToMultiple(summary.MaxHigh+profile.Buffer, profile.RoundMultiple)

	return models.StrikeRange{Low: low, High: high}
}
