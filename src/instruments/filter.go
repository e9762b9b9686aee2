package instruments

import (
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/quantstash/expiry-snapshot/src/models"
	"github.com/quantstash/expiry-snapshot/src/utils"
)

// InstrumentOptionIndex is the symbol master's class for index options.
const InstrumentOptionIndex = "OPTIDX"

// expiryLayout matches the master's Expiry column, e.g. 28-AUG-2026 once
// uppercased.
const expiryLayout = "02-Jan-2006"

// FormatExpiry renders a date the way the master's Expiry column spells it.
func FormatExpiry(date time.Time) string {
	return strings.ToUpper(date.Format(expiryLayout))
}

// IsExpiryToday reports whether any option row for the index expires on the
// given day. Indices whose expiry is another day are out of scope for the
// whole run.
func IsExpiryToday(rows []*MasterRow, index string, today time.Time) bool {
	expiry := FormatExpiry(today)

	for _, row := range rows {
		if row.Symbol != index || row.Instrument != InstrumentOptionIndex {
			continue
		}

		if strings.EqualFold(row.Expiry, expiry) {
			return true
		}
	}

	return false
}

// OptionContracts selects the index's option rows with the exact expiry date,
// a strike inside the range and on the strike grid. Rows with a non-numeric
// strike are dropped. An empty result is a valid outcome.
func OptionContracts(rows []*MasterRow, index string, expiryDate time.Time, strikeRange models.StrikeRange, strikeStep float64) []models.ContractRow {
	expiry := FormatExpiry(expiryDate)

	var contracts []models.ContractRow
	for _, row := range rows {
		if row.Symbol != index || row.Instrument != InstrumentOptionIndex {
			continue
		}

		if !strings.EqualFold(row.Expiry, expiry) {
			continue
		}

		strike, err := strconv.ParseFloat(strings.TrimSpace(row.StrikePrice), 64)
		if err != nil {
			log.Warnf("OptionContracts: dropping %s, non-numeric strike %q", row.TradingSymbol, row.StrikePrice)
			continue
		}

		if !strikeRange.Contains(strike) {
			continue
		}

		if !utils.IsMultipleOf(strike, strikeStep) {
			continue
		}

		contracts = append(contracts, models.ContractRow{
			Symbol:        row.Symbol,
			Instrument:    row.Instrument,
			Expiry:        row.Expiry,
			StrikePrice:   strike,
			TradingSymbol: row.TradingSymbol,
			Token:         row.Token,
		})
	}

	return contracts
}
