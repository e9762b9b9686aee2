package models

type OutcomeKind string

const (
	OutcomeData   OutcomeKind = "data"
	OutcomeNoData OutcomeKind = "no_data"
)

// FetchOutcome is the typed result of fetching one contract's series. Workers
// always produce exactly one outcome per contract, never an error.
type FetchOutcome struct {
	TradingSymbol string
	Kind          OutcomeKind
	Candles       []Candle
	Reason        string
}

func DataOutcome(tradingSymbol string, candles []Candle) FetchOutcome {
	return FetchOutcome{
		TradingSymbol: tradingSymbol,
		Kind:          OutcomeData,
		Candles:       candles,
	}
}

func NoDataOutcome(tradingSymbol string, reason string) FetchOutcome {
	return FetchOutcome{
		TradingSymbol: tradingSymbol,
		Kind:          OutcomeNoData,
		Reason:        reason,
	}
}
