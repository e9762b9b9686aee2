package models

// ContractRow is one tradable option contract from the symbol master, already
// filtered and strike-coerced. Read-only within a run.
type ContractRow struct {
	Symbol        string
	Instrument    string
	Expiry        string
	StrikePrice   float64
	TradingSymbol string
	Token         string
}
